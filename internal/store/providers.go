// internal/store/providers.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/models"
)

const providerProfileQuery = `
	SELECT c.id, c.company_name, p.flags, p.minimum_volume,
	       COALESCE(p.location, c.headquarters_address)
	FROM companies c
	LEFT JOIN provider_capabilities p ON p.company_id = c.id`

func scanProviderProfile(row scanner) (matching.ProviderProfile, error) {
	var (
		id       string
		name     sql.NullString
		rawFlags []byte
		minimum  sql.NullInt64
		location sql.NullString
	)
	if err := row.Scan(&id, &name, &rawFlags, &minimum, &location); err != nil {
		return matching.ProviderProfile{}, err
	}

	flags := matching.Flags{}
	if len(rawFlags) > 0 {
		if err := json.Unmarshal(rawFlags, &flags); err != nil {
			return matching.ProviderProfile{}, fmt.Errorf("decode flags for %s: %w", id, err)
		}
	}
	return matching.ProviderProfile{
		ID:   id,
		Name: name.String,
		Capabilities: matching.Capabilities{
			Flags:         flags,
			MinimumVolume: int(minimum.Int64),
			Location:      location.String,
		},
	}, nil
}

func (s *Store) ListProviderProfiles(ctx context.Context) ([]matching.ProviderProfile, error) {
	rows, err := s.db.QueryContext(ctx, providerProfileQuery+`
	ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("list provider profiles: %w", err)
	}
	defer rows.Close()

	profiles := []matching.ProviderProfile{}
	for rows.Next() {
		p, err := scanProviderProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provider profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *Store) GetProviderProfile(ctx context.Context, id string) (*matching.ProviderProfile, error) {
	row := s.db.QueryRowContext(ctx, providerProfileQuery+`
	WHERE c.id = $1`, id)
	p, err := scanProviderProfile(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("provider %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get provider profile: %w", err)
	}
	return &p, nil
}

const companyColumns = `id, user_id, company_name, website_url, is_certified, certification_date, certified_by`

func scanCompany(row scanner) (*models.Company, error) {
	var (
		c           models.Company
		userID      sql.NullString
		website     sql.NullString
		certDate    sql.NullTime
		certifiedBy sql.NullString
	)
	if err := row.Scan(&c.ID, &userID, &c.CompanyName, &website, &c.IsCertified, &certDate, &certifiedBy); err != nil {
		return nil, err
	}
	c.UserID = userID.String
	c.WebsiteURL = website.String
	c.CertifiedBy = certifiedBy.String
	if certDate.Valid {
		t := certDate.Time
		c.CertificationDate = &t
	}
	return &c, nil
}

// CompanyByUser finds the 3PL owned by a user account.
func (s *Store) CompanyByUser(ctx context.Context, userID string) (*models.Company, error) {
	c, err := scanCompany(s.db.QueryRowContext(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		WHERE user_id = $1
		LIMIT 1`, userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("company for user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get company by user: %w", err)
	}
	return c, nil
}

// UpsertProvider writes the company row and its capability document in one
// transaction. Certification is never touched here.
func (s *Store) UpsertProvider(ctx context.Context, c models.Company, caps models.ProviderCapabilities) error {
	flags, err := json.Marshal(caps.Flags)
	if err != nil {
		return fmt.Errorf("encode flags: %w", err)
	}
	details, err := json.Marshal(caps.Details)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	now := time.Now().UTC()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO companies (
				id, user_id, company_name, contact_name, email, phone, website_url,
				headquarters_address, is_certified, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9, $9)
			ON CONFLICT (id) DO UPDATE SET
				company_name = EXCLUDED.company_name,
				contact_name = EXCLUDED.contact_name,
				email = EXCLUDED.email,
				phone = EXCLUDED.phone,
				website_url = EXCLUDED.website_url,
				headquarters_address = EXCLUDED.headquarters_address,
				updated_at = EXCLUDED.updated_at`,
			c.ID, c.UserID, c.CompanyName, nullString(c.ContactName), nullString(c.Email),
			nullString(c.Phone), nullString(c.WebsiteURL), nullString(c.HeadquartersAddress), now,
		)
		if err != nil {
			return fmt.Errorf("upsert company: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO provider_capabilities (company_id, flags, minimum_volume, location, details, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (company_id) DO UPDATE SET
				flags = EXCLUDED.flags,
				minimum_volume = EXCLUDED.minimum_volume,
				location = EXCLUDED.location,
				details = EXCLUDED.details,
				updated_at = EXCLUDED.updated_at`,
			caps.CompanyID, flags, caps.MinimumVolume, nullString(caps.Location), details, now,
		)
		if err != nil {
			return fmt.Errorf("upsert provider capabilities: %w", err)
		}
		return nil
	})
}

// SetCertification sets a company's certified flag, or flips it when
// certified is nil, and records the admin action alongside.
func (s *Store) SetCertification(ctx context.Context, companyID, adminID string, certified *bool, reason string) (*models.Company, error) {
	var (
		want    sql.NullBool
		company *models.Company
	)
	if certified != nil {
		want = sql.NullBool{Bool: *certified, Valid: true}
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		c, err := scanCompany(tx.QueryRowContext(ctx, `
			UPDATE companies SET
				is_certified = COALESCE($2, NOT is_certified),
				certification_date = CASE WHEN COALESCE($2, NOT is_certified) THEN NOW() ELSE NULL END,
				certified_by = CASE WHEN COALESCE($2, NOT is_certified) THEN $3 ELSE NULL END,
				updated_at = NOW()
			WHERE id = $1
			RETURNING `+companyColumns, companyID, want, adminID))
		if err == sql.ErrNoRows {
			return fmt.Errorf("company %s: %w", companyID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update certification: %w", err)
		}

		action := models.ActionDecertify
		if c.IsCertified {
			action = models.ActionCertify
		}
		if err := insertAdminAction(ctx, tx, models.AdminAction{
			AdminUserID: adminID,
			ActionType:  action,
			TargetType:  "company",
			TargetID:    companyID,
			Description: reason,
			Metadata:    map[string]interface{}{"isCertified": c.IsCertified},
		}); err != nil {
			return err
		}
		company = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

// internal/store/brands.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"onboarding-workers/internal/matching"
	"onboarding-workers/internal/models"
	"onboarding-workers/pkg/registry"
)

// brandFlagColumns maps registry keys onto brand_requirements columns.
var brandFlagColumns = []struct {
	key    string
	column string
}{
	{registry.TemperatureControlled, "temperature_controlled"},
	{registry.HazmatSupport, "hazmat_support"},
	{registry.FBAPrep, "fba_prep"},
	{registry.ReturnsHandling, "returns_handling"},
	{registry.Kitting, "kitting"},
	{registry.SubscriptionFulfillment, "subscription_fulfillment"},
	{registry.SameDayShipping, "same_day_shipping"},
	{registry.B2BSupport, "b2b_support"},
	{registry.EDISupport, "edi_support"},
	{registry.ClientPortal, "client_portal"},
	{registry.RealTimeTracking, "requires_real_time_tracking"},
}

func flagColumnList(prefix string) string {
	cols := make([]string, len(brandFlagColumns))
	for i, c := range brandFlagColumns {
		cols[i] = prefix + c.column
	}
	return strings.Join(cols, ", ")
}

var brandProfileQuery = `
	SELECT b.id, b.brand_name, b.monthly_volume, b.preferred_locations, ` + flagColumnList("r.") + `
	FROM brands b
	LEFT JOIN brand_requirements r ON r.brand_id = b.id`

func scanBrandProfile(row scanner) (matching.BrandProfile, error) {
	var (
		id        string
		name      sql.NullString
		volume    sql.NullInt64
		locations pq.StringArray
		flags     = make([]sql.NullBool, len(brandFlagColumns))
	)
	dest := []interface{}{&id, &name, &volume, &locations}
	for i := range flags {
		dest = append(dest, &flags[i])
	}
	if err := row.Scan(dest...); err != nil {
		return matching.BrandProfile{}, err
	}

	req := matching.Requirements{
		Flags:              matching.Flags{},
		MonthlyVolume:      int(volume.Int64),
		PreferredLocations: []string(locations),
	}
	if req.PreferredLocations == nil {
		req.PreferredLocations = []string{}
	}
	for i, c := range brandFlagColumns {
		if flags[i].Bool {
			req.Flags[c.key] = true
		}
	}
	return matching.BrandProfile{ID: id, Name: name.String, Requirements: req}, nil
}

// ListBrandProfiles returns every active brand ready for scoring.
func (s *Store) ListBrandProfiles(ctx context.Context) ([]matching.BrandProfile, error) {
	rows, err := s.db.QueryContext(ctx, brandProfileQuery+`
	WHERE b.status = $1
	ORDER BY b.id`, models.BrandStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list brand profiles: %w", err)
	}
	defer rows.Close()

	profiles := []matching.BrandProfile{}
	for rows.Next() {
		p, err := scanBrandProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *Store) GetBrandProfile(ctx context.Context, id string) (*matching.BrandProfile, error) {
	row := s.db.QueryRowContext(ctx, brandProfileQuery+`
	WHERE b.id = $1`, id)
	p, err := scanBrandProfile(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("brand %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get brand profile: %w", err)
	}
	return &p, nil
}

// BrandByUser finds the brand owned by a user account.
func (s *Store) BrandByUser(ctx context.Context, userID string) (*models.Brand, error) {
	var (
		b      models.Brand
		status sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, brand_name, status, created_at
		FROM brands
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, userID).Scan(&b.ID, &b.BrandName, &status, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("brand for user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get brand by user: %w", err)
	}
	b.UserID = userID
	b.Status = status.String
	return &b, nil
}

// UpsertBrand writes the brand row and its requirements in one transaction.
func (s *Store) UpsertBrand(ctx context.Context, b models.Brand, req models.BrandRequirements) error {
	now := time.Now().UTC()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO brands (
				id, user_id, brand_name, contact_name, contact_email, phone, industry,
				website_url, monthly_volume, average_order_value, product_types,
				preferred_locations, current_platform, current_wms, budget_range,
				max_setup_fee, timeline_to_start, special_requirements, status,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$20)
			ON CONFLICT (id) DO UPDATE SET
				brand_name = EXCLUDED.brand_name,
				contact_name = EXCLUDED.contact_name,
				contact_email = EXCLUDED.contact_email,
				phone = EXCLUDED.phone,
				industry = EXCLUDED.industry,
				website_url = EXCLUDED.website_url,
				monthly_volume = EXCLUDED.monthly_volume,
				average_order_value = EXCLUDED.average_order_value,
				product_types = EXCLUDED.product_types,
				preferred_locations = EXCLUDED.preferred_locations,
				current_platform = EXCLUDED.current_platform,
				current_wms = EXCLUDED.current_wms,
				budget_range = EXCLUDED.budget_range,
				max_setup_fee = EXCLUDED.max_setup_fee,
				timeline_to_start = EXCLUDED.timeline_to_start,
				special_requirements = EXCLUDED.special_requirements,
				status = EXCLUDED.status,
				updated_at = EXCLUDED.updated_at`,
			b.ID, b.UserID, b.BrandName, b.ContactName, b.ContactEmail, nullString(b.Phone),
			b.Industry, nullString(b.WebsiteURL), b.MonthlyVolume, b.AverageOrderValue,
			pq.Array(nonEmpty(b.ProductTypes)), pq.Array(nonEmpty(b.PreferredLocations)),
			nullString(b.CurrentPlatform), nullString(b.CurrentWMS), nullString(b.BudgetRange),
			b.MaxSetupFee, nullString(b.TimelineToStart), nullString(b.SpecialRequirements),
			b.Status, now,
		)
		if err != nil {
			return fmt.Errorf("upsert brand: %w", err)
		}

		args := []interface{}{req.BrandID}
		placeholders := []string{"$1"}
		updates := make([]string, 0, len(brandFlagColumns)+10)
		for _, c := range brandFlagColumns {
			args = append(args, req.Flags[c.key])
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
			updates = append(updates, c.column+" = EXCLUDED."+c.column)
		}
		extra := []struct {
			column string
			value  interface{}
		}{
			{"required_integrations", pq.Array(nonEmpty(req.RequiredIntegrations))},
			{"required_shipping_speed", nullString(req.RequiredShippingSpeed)},
			{"max_receiving_time", nullInt(req.MaxReceivingTime)},
			{"min_order_accuracy", nullInt(req.MinOrderAccuracy)},
			{"min_inventory_accuracy", nullInt(req.MinInventoryAccuracy)},
			{"prefer_no_long_term_contract", req.PreferNoLongTermContract},
			{"requires_transparent_pricing", req.RequiresTransparentPricing},
			{"requires_dedicated_manager", req.RequiresDedicatedManager},
			{"requires_24x7_support", req.Requires24x7Support},
			{"updated_at", now},
		}
		for _, e := range extra {
			args = append(args, e.value)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
			updates = append(updates, e.column+" = EXCLUDED."+e.column)
		}
		columns := "brand_id, " + flagColumnList("")
		for _, e := range extra {
			columns += ", " + e.column
		}

		query := "INSERT INTO brand_requirements (" + columns + ") VALUES (" +
			strings.Join(placeholders, ", ") + ") ON CONFLICT (brand_id) DO UPDATE SET " +
			strings.Join(updates, ", ")
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert brand requirements: %w", err)
		}
		return nil
	})
}

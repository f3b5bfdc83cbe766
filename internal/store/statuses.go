// internal/store/statuses.go
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
)

// StatusFilter narrows GetMatchStatuses; empty fields match everything.
type StatusFilter struct {
	BrandID    string
	ProviderID string
}

// GetMatchStatuses loads operator statuses keyed by pair. Rows holding an
// unknown status are skipped, so the pair reads as new.
func (s *Store) GetMatchStatuses(ctx context.Context, f StatusFilter) (map[matching.PairKey]matching.Status, error) {
	query := `SELECT brand_id, company_id, status FROM match_statuses`
	var (
		where []string
		args  []interface{}
	)
	if f.BrandID != "" {
		args = append(args, f.BrandID)
		where = append(where, fmt.Sprintf("brand_id = $%d", len(args)))
	}
	if f.ProviderID != "" {
		args = append(args, f.ProviderID)
		where = append(where, fmt.Sprintf("company_id = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list match statuses: %w", err)
	}
	defer rows.Close()

	statuses := map[matching.PairKey]matching.Status{}
	for rows.Next() {
		var brandID, companyID string
		var raw sql.NullString
		if err := rows.Scan(&brandID, &companyID, &raw); err != nil {
			return nil, fmt.Errorf("scan match status: %w", err)
		}
		st, err := matching.ParseStatus(raw.String)
		if err != nil {
			continue
		}
		statuses[matching.PairKey{BrandID: brandID, ProviderID: companyID}] = st
	}
	return statuses, rows.Err()
}

// GetMatchStatus returns the pair's status. A missing row, NULL or an
// unrecognised value reads as new, the same as GetMatchStatuses.
func (s *Store) GetMatchStatus(ctx context.Context, brandID, companyID string) (matching.Status, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT status FROM match_statuses
		WHERE brand_id = $1 AND company_id = $2`, brandID, companyID).Scan(&raw)
	if err == sql.ErrNoRows {
		return matching.StatusNew, nil
	}
	if err != nil {
		return "", fmt.Errorf("get match status: %w", err)
	}
	st, err := matching.ParseStatus(raw.String)
	if err != nil {
		return matching.StatusNew, nil
	}
	return st, nil
}

// progressedStatuses are the recognised states past new.
var progressedStatuses = []string{
	string(matching.StatusContacted),
	string(matching.StatusInDiscussion),
	string(matching.StatusMatched),
	string(matching.StatusRejected),
}

// SaveMatchStatus stores rec.Status only if the pair is still in state from.
// A pair with no row, or with an unrecognised stored value, is in state new.
// ErrStatusConflict means another writer got there first.
func (s *Store) SaveMatchStatus(ctx context.Context, rec models.MatchStatusRecord, from matching.Status) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO match_statuses (brand_id, company_id, status, updated_by, notes, updated_at)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE $7 = 'new' OR EXISTS (
			SELECT 1 FROM match_statuses WHERE brand_id = $1 AND company_id = $2
		)
		ON CONFLICT (brand_id, company_id) DO UPDATE SET
			status = EXCLUDED.status,
			updated_by = EXCLUDED.updated_by,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		WHERE match_statuses.status = $7
			OR ($7 = 'new' AND NOT (COALESCE(match_statuses.status, '') = ANY($8)))`,
		rec.BrandID, rec.CompanyID, rec.Status, nullString(rec.UpdatedBy), nullString(rec.Notes),
		rec.UpdatedAt, string(from), pq.Array(progressedStatuses),
	)
	if err != nil {
		return fmt.Errorf("save match status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save match status: %w", err)
	}
	if n == 0 {
		return ErrStatusConflict
	}
	return nil
}

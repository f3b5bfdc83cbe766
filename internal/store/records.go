// internal/store/records.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"onboarding-workers/internal/models"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertAdminAction(ctx context.Context, db execer, a models.AdminAction) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	meta, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("encode admin action metadata: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO admin_actions (id, admin_user_id, action_type, target_type, target_id, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.AdminUserID, a.ActionType, a.TargetType, a.TargetID, nullString(a.Description), meta, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert admin action: %w", err)
	}
	return nil
}

// ListAdminActions returns the most recent admin actions first.
func (s *Store) ListAdminActions(ctx context.Context, limit int) ([]models.AdminAction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, admin_user_id, action_type, target_type, target_id, description, created_at
		FROM admin_actions
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list admin actions: %w", err)
	}
	defer rows.Close()

	actions := []models.AdminAction{}
	for rows.Next() {
		var a models.AdminAction
		var desc sql.NullString
		if err := rows.Scan(&a.ID, &a.AdminUserID, &a.ActionType, &a.TargetType, &a.TargetID, &desc, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan admin action: %w", err)
		}
		a.Description = desc.String
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// RecordAudit appends to the audit log and returns the entry ID.
func (s *Store) RecordAudit(ctx context.Context, e models.AuditEntry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return "", fmt.Errorf("encode audit payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, actor_id, action, entity_type, entity_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, nullString(e.ActorID), e.Action, e.EntityType, e.EntityID, payload, e.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert audit entry: %w", err)
	}
	return e.ID, nil
}

// InsertNotification stores an in-app notification, filling ID and
// CreatedAt when unset. Re-inserting an existing ID is a no-op.
func (s *Store) InsertNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	meta, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("encode notification metadata: %w", err)
	}
	var expires sql.NullTime
	if n.ExpiresAt != nil {
		expires = sql.NullTime{Time: *n.ExpiresAt, Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, user_id, type, title, message, is_read,
			related_entity_type, related_entity_id, metadata, expires_at, created_at
		) VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message,
		nullString(n.RelatedEntityType), nullString(n.RelatedEntityID), meta, expires, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListNotifications returns a user's unexpired notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, title, message, is_read, related_entity_type, related_entity_id, created_at
		FROM notifications
		WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var (
			n          models.Notification
			typ        string
			entityType sql.NullString
			entityID   sql.NullString
		)
		if err := rows.Scan(&n.ID, &typ, &n.Title, &n.Message, &n.IsRead, &entityType, &entityID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.UserID = userID
		n.Type = models.NotificationType(typ)
		n.RelatedEntityType = entityType.String
		n.RelatedEntityID = entityID.String
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountUsers tallies user profiles by type.
func (s *Store) CountUsers(ctx context.Context) (models.UserCounts, error) {
	var counts models.UserCounts
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_type, COUNT(*)
		FROM user_profiles
		GROUP BY user_type`)
	if err != nil {
		return counts, fmt.Errorf("count users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userType string
		var n int
		if err := rows.Scan(&userType, &n); err != nil {
			return counts, fmt.Errorf("scan user count: %w", err)
		}
		switch userType {
		case "brand":
			counts.Brands = n
		case "3pl":
			counts.Providers = n
		case "admin":
			counts.Admins = n
		}
		counts.Total += n
	}
	return counts, rows.Err()
}

// CountPendingCertifications counts 3PLs awaiting certification.
func (s *Store) CountPendingCertifications(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies WHERE is_certified = FALSE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending certifications: %w", err)
	}
	return n, nil
}

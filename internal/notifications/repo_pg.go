package notifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const notificationColumns = `id, user_id, role, type, title, message, cta_path, cta_label, metadata, dedupe_key, read_at, created_at`

func (r *PGRepo) CreateIfAbsent(ctx context.Context, n Notification) (Notification, bool, error) {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return Notification{}, false, err
	}
	if n.Metadata == nil {
		metadata = []byte(`{}`)
	}

	if n.DedupeKey == "" {
		const query = `
INSERT INTO notifications (id, user_id, role, type, title, message, cta_path, cta_label, metadata, dedupe_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULL, now())
RETURNING ` + notificationColumns
		created, err := r.scanOne(r.DB.QueryRowContext(ctx, query,
			n.ID, n.UserID, n.Role, n.Type, n.Title, n.Message,
			nullableString(n.CTAPath), nullableString(n.CTALabel), metadata,
		))
		if err != nil {
			return Notification{}, false, err
		}
		return created, true, nil
	}

	// The partial unique index on (user_id, dedupe_key) makes the insert a
	// no-op when the event was already recorded.
	const insert = `
INSERT INTO notifications (id, user_id, role, type, title, message, cta_path, cta_label, metadata, dedupe_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
ON CONFLICT (user_id, dedupe_key) WHERE dedupe_key IS NOT NULL DO NOTHING
RETURNING ` + notificationColumns
	created, err := r.scanOne(r.DB.QueryRowContext(ctx, insert,
		n.ID, n.UserID, n.Role, n.Type, n.Title, n.Message,
		nullableString(n.CTAPath), nullableString(n.CTALabel), metadata, n.DedupeKey,
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Notification{}, false, err
	}

	const existing = `
SELECT ` + notificationColumns + `
FROM notifications
WHERE user_id = $1 AND dedupe_key = $2
LIMIT 1`
	found, err := r.scanOne(r.DB.QueryRowContext(ctx, existing, n.UserID, n.DedupeKey))
	if err != nil {
		return Notification{}, false, err
	}
	return found, false, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
SELECT ` + notificationColumns + `
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PGRepo) MarkRead(ctx context.Context, userID, notificationID string) error {
	const query = `
UPDATE notifications
SET read_at = now()
WHERE id = $1 AND user_id = $2 AND read_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, notificationID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) MarkAllRead(ctx context.Context, userID string) error {
	const query = `
UPDATE notifications
SET read_at = now()
WHERE user_id = $1 AND read_at IS NULL`
	_, err := r.DB.ExecContext(ctx, query, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Notification, error) {
	var (
		n        Notification
		ctaPath  sql.NullString
		ctaLabel sql.NullString
		dedupe   sql.NullString
		readAt   sql.NullTime
		metadata []byte
	)
	err := row.Scan(
		&n.ID, &n.UserID, &n.Role, &n.Type, &n.Title, &n.Message,
		&ctaPath, &ctaLabel, &metadata, &dedupe, &readAt, &n.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Notification{}, err
	}
	if err != nil {
		return Notification{}, err
	}
	n.CTAPath = ctaPath.String
	n.CTALabel = ctaLabel.String
	n.DedupeKey = dedupe.String
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return Notification{}, err
		}
	}
	return n, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package employers

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, profile Profile) error {
	const query = `
INSERT INTO employer_profiles (
    id, user_id, organization_name, organization_type, contact_name, contact_email,
    notify_new_application, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.OrganizationName,
		nullableString(profile.OrganizationType),
		nullableString(profile.ContactName),
		nullableString(profile.ContactEmail),
		profile.NotifyNewApplication,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, profileID string) (Profile, error) {
	const query = `
SELECT id, user_id, organization_name, organization_type, contact_name, contact_email,
       notify_new_application, total_job_posts, active_job_posts, total_applications, total_hires,
       created_at, updated_at
FROM employer_profiles
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, profileID))
}

func (r *PGRepo) GetByUser(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT id, user_id, organization_name, organization_type, contact_name, contact_email,
       notify_new_application, total_job_posts, active_job_posts, total_applications, total_hires,
       created_at, updated_at
FROM employer_profiles
WHERE user_id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) Update(ctx context.Context, profile Profile) error {
	const query = `
UPDATE employer_profiles
SET organization_name = $1, organization_type = $2, contact_name = $3, contact_email = $4,
    notify_new_application = $5, updated_at = now()
WHERE id = $6`
	res, err := r.DB.ExecContext(ctx, query,
		profile.OrganizationName,
		nullableString(profile.OrganizationType),
		nullableString(profile.ContactName),
		nullableString(profile.ContactEmail),
		profile.NotifyNewApplication,
		profile.ID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) IncrementStats(ctx context.Context, profileID string, delta StatsDelta) error {
	const query = `
UPDATE employer_profiles
SET total_job_posts = total_job_posts + $1,
    active_job_posts = active_job_posts + $2,
    total_applications = total_applications + $3,
    total_hires = total_hires + $4,
    updated_at = now()
WHERE id = $5`
	res, err := r.DB.ExecContext(ctx, query,
		delta.TotalJobPosts,
		delta.ActiveJobPosts,
		delta.TotalApplications,
		delta.TotalHires,
		profileID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) SetStats(ctx context.Context, profileID string, stats Stats) error {
	const query = `
UPDATE employer_profiles
SET total_job_posts = $1,
    active_job_posts = $2,
    total_applications = $3,
    total_hires = $4,
    updated_at = now()
WHERE id = $5`
	res, err := r.DB.ExecContext(ctx, query,
		stats.TotalJobPosts,
		stats.ActiveJobPosts,
		stats.TotalApplications,
		stats.TotalHires,
		profileID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) scanOne(row *sql.Row) (Profile, error) {
	var profile Profile
	var organizationType sql.NullString
	var contactName sql.NullString
	var contactEmail sql.NullString
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.OrganizationName,
		&organizationType,
		&contactName,
		&contactEmail,
		&profile.NotifyNewApplication,
		&profile.Stats.TotalJobPosts,
		&profile.Stats.ActiveJobPosts,
		&profile.Stats.TotalApplications,
		&profile.Stats.TotalHires,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	if organizationType.Valid {
		profile.OrganizationType = organizationType.String
	}
	if contactName.Valid {
		profile.ContactName = contactName.String
	}
	if contactEmail.Valid {
		profile.ContactEmail = contactEmail.String
	}
	return profile, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)

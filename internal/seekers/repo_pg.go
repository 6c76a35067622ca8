package seekers

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

func (r *PGRepo) Create(ctx context.Context, profile Profile) error {
	const query = `
INSERT INTO seeker_profiles (id, user_id, specialization, experience_years, headline, phone, resume, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`

	resumeJSON, err := marshalResume(profile.Resume)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		nullableString(profile.Specialization),
		profile.ExperienceYears,
		nullableString(profile.Headline),
		nullableString(profile.Phone),
		resumeJSON,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, profileID string) (Profile, error) {
	const query = `
SELECT id, user_id, specialization, experience_years, headline, phone, resume, created_at, updated_at
FROM seeker_profiles
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, profileID))
}

func (r *PGRepo) GetByUser(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT id, user_id, specialization, experience_years, headline, phone, resume, created_at, updated_at
FROM seeker_profiles
WHERE user_id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) Update(ctx context.Context, profile Profile) error {
	const query = `
UPDATE seeker_profiles
SET specialization = $1, experience_years = $2, headline = $3, phone = $4, resume = $5, updated_at = now()
WHERE id = $6`

	resumeJSON, err := marshalResume(profile.Resume)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		nullableString(profile.Specialization),
		profile.ExperienceYears,
		nullableString(profile.Headline),
		nullableString(profile.Phone),
		resumeJSON,
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

func (r *PGRepo) scanOne(row *sql.Row) (Profile, error) {
	var profile Profile
	var specialization sql.NullString
	var experienceYears sql.NullInt64
	var headline sql.NullString
	var phone sql.NullString
	var resumeJSON []byte
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&specialization,
		&experienceYears,
		&headline,
		&phone,
		&resumeJSON,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	if specialization.Valid {
		profile.Specialization = specialization.String
	}
	if experienceYears.Valid {
		profile.ExperienceYears = int(experienceYears.Int64)
	}
	if headline.Valid {
		profile.Headline = headline.String
	}
	if phone.Valid {
		profile.Phone = phone.String
	}
	if len(resumeJSON) > 0 {
		var resume ResumeFile
		if err := json.Unmarshal(resumeJSON, &resume); err == nil && resume.StorageKey != "" {
			profile.Resume = &resume
		}
	}
	return profile, nil
}

func marshalResume(resume *ResumeFile) (any, error) {
	if resume == nil {
		return nil, nil
	}
	data, err := json.Marshal(resume)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)

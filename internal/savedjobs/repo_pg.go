package savedjobs

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Save(ctx context.Context, saved SavedJob) error {
	const query = `
INSERT INTO saved_jobs (id, seeker_id, job_id, created_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (seeker_id, job_id) DO NOTHING`
	_, err := r.DB.ExecContext(ctx, query, saved.ID, saved.SeekerID, saved.JobID)
	return err
}

func (r *PGRepo) Unsave(ctx context.Context, seekerID, jobID string) error {
	const query = `DELETE FROM saved_jobs WHERE seeker_id = $1 AND job_id = $2`
	res, err := r.DB.ExecContext(ctx, query, seekerID, jobID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListBySeeker(ctx context.Context, seekerID string) ([]SavedJob, error) {
	const query = `
SELECT id, seeker_id, job_id, created_at
FROM saved_jobs
WHERE seeker_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, seekerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedJob
	for rows.Next() {
		var s SavedJob
		if err := rows.Scan(&s.ID, &s.SeekerID, &s.JobID, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

package applications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const applicationColumns = `id, job_id, seeker_id, employer_id, status, applied_at, updated_at_manual,
       apply_attempts, resume, cover_letter, answers, history, is_viewed_by_employer, rating,
       created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	resume, coverLetter, answers, history, err := marshalDocs(app)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO applications (
    id, job_id, seeker_id, employer_id, status, applied_at, apply_attempts,
    resume, cover_letter, answers, history, is_viewed_by_employer, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE, now(), now())`
	_, err = r.DB.ExecContext(ctx, query,
		app.ID, app.JobID, app.SeekerID, app.EmployerID, app.Status,
		app.AppliedAt, app.ApplyAttempts,
		resume, coverLetter, answers, history,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyApplied
		}
		return err
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Application, error) {
	const query = `
SELECT ` + applicationColumns + `
FROM applications
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetByJobAndSeeker(ctx context.Context, jobID, seekerID string) (Application, error) {
	const query = `
SELECT ` + applicationColumns + `
FROM applications
WHERE job_id = $1 AND seeker_id = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, jobID, seekerID))
}

func (r *PGRepo) Update(ctx context.Context, app Application) error {
	resume, coverLetter, answers, history, err := marshalDocs(app)
	if err != nil {
		return err
	}

	const query = `
UPDATE applications
SET status = $1, applied_at = $2, updated_at_manual = $3, apply_attempts = $4,
    resume = $5, cover_letter = $6, answers = $7, history = $8, rating = $9,
    updated_at = now()
WHERE id = $10`
	res, err := r.DB.ExecContext(ctx, query,
		app.Status, app.AppliedAt, app.UpdatedAtManual, app.ApplyAttempts,
		resume, coverLetter, answers, history, app.Rating,
		app.ID,
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

func (r *PGRepo) ListBySeeker(ctx context.Context, seekerID string, filter ListFilter) ([]Application, int, error) {
	return r.list(ctx, "seeker_id", seekerID, filter)
}

func (r *PGRepo) ListByEmployer(ctx context.Context, employerID string, filter ListFilter) ([]Application, int, error) {
	return r.list(ctx, "employer_id", employerID, filter)
}

func (r *PGRepo) ListByJob(ctx context.Context, jobID string, filter ListFilter) ([]Application, int, error) {
	return r.list(ctx, "job_id", jobID, filter)
}

func (r *PGRepo) list(ctx context.Context, column, value string, filter ListFilter) ([]Application, int, error) {
	where := fmt.Sprintf("WHERE %s = $1", column)
	args := []any{value}
	if filter.Status != "" {
		where += " AND status = $2"
		args = append(args, filter.Status)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM applications " + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`
SELECT `+applicationColumns+`
FROM applications
%s
ORDER BY applied_at DESC
LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, filter.Offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, app)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) CountByEmployer(ctx context.Context, employerID, status string) (int, error) {
	query := `SELECT COUNT(*) FROM applications WHERE employer_id = $1`
	args := []any{employerID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	var count int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PGRepo) MarkViewed(ctx context.Context, id string) error {
	const query = `
UPDATE applications
SET is_viewed_by_employer = TRUE, updated_at = now()
WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Application, error) {
	var (
		app             Application
		updatedAtManual sql.NullTime
		rating          sql.NullInt32
		resume          []byte
		coverLetter     []byte
		answers         []byte
		history         []byte
	)
	err := row.Scan(
		&app.ID, &app.JobID, &app.SeekerID, &app.EmployerID, &app.Status,
		&app.AppliedAt, &updatedAtManual, &app.ApplyAttempts,
		&resume, &coverLetter, &answers, &history,
		&app.IsViewedByEmployer, &rating, &app.CreatedAt, &app.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	if err != nil {
		return Application{}, err
	}

	if updatedAtManual.Valid {
		t := updatedAtManual.Time
		app.UpdatedAtManual = &t
	}
	if rating.Valid {
		v := int(rating.Int32)
		app.Rating = &v
	}
	if len(resume) > 0 {
		if err := json.Unmarshal(resume, &app.Resume); err != nil {
			return Application{}, err
		}
	}
	if len(coverLetter) > 0 {
		if err := json.Unmarshal(coverLetter, &app.CoverLetter); err != nil {
			return Application{}, err
		}
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &app.Answers); err != nil {
			return Application{}, err
		}
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &app.History); err != nil {
			return Application{}, err
		}
	}
	return app, nil
}

func marshalDocs(app Application) (resume, coverLetter, answers, history []byte, err error) {
	if app.Resume != nil {
		resume, err = json.Marshal(app.Resume)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}
	if app.CoverLetter != nil {
		coverLetter, err = json.Marshal(app.CoverLetter)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}
	answers, err = json.Marshal(app.Answers)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if app.Answers == nil {
		answers = []byte(`[]`)
	}
	history, err = json.Marshal(app.History)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if app.History == nil {
		history = []byte(`[]`)
	}
	return resume, coverLetter, answers, history, nil
}

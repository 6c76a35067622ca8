package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const jobColumns = `id, employer_id, title, organization_name, specialization, city, state, country,
job_type, shift, description, status, posted_at, expires_at, views, applications, is_remote,
created_at, updated_at`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (
    id, employer_id, title, organization_name, specialization, city, state, country,
    job_type, shift, description, status, posted_at, expires_at, is_remote, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.EmployerID,
		job.Title,
		nullableString(job.OrganizationName),
		job.Specialization,
		nullableString(job.City),
		nullableString(job.State),
		nullableString(job.Country),
		job.JobType,
		nullableString(job.Shift),
		nullableString(job.Description),
		job.Status,
		job.PostedAt,
		job.ExpiresAt,
		job.IsRemote,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1 LIMIT 1`, jobColumns)
	row := r.DB.QueryRowContext(ctx, query, jobID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) Update(ctx context.Context, job Job) error {
	const query = `
UPDATE jobs
SET title = $1, organization_name = $2, specialization = $3, city = $4, state = $5, country = $6,
    job_type = $7, shift = $8, description = $9, status = $10, expires_at = $11, is_remote = $12,
    updated_at = now()
WHERE id = $13`
	res, err := r.DB.ExecContext(ctx, query,
		job.Title,
		nullableString(job.OrganizationName),
		job.Specialization,
		nullableString(job.City),
		nullableString(job.State),
		nullableString(job.Country),
		job.JobType,
		nullableString(job.Shift),
		nullableString(job.Description),
		job.Status,
		job.ExpiresAt,
		job.IsRemote,
		job.ID,
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

func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]Job, int, error) {
	where, args := buildWhere(filter)

	countQuery := "SELECT count(*) FROM jobs" + where
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(
		`SELECT %s FROM jobs%s ORDER BY posted_at DESC LIMIT $%d OFFSET $%d`,
		jobColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, job)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) CountByEmployer(ctx context.Context, employerID, status string) (int, error) {
	var count int
	var err error
	if status == "" {
		err = r.DB.QueryRowContext(ctx,
			`SELECT count(*) FROM jobs WHERE employer_id = $1`, employerID).Scan(&count)
	} else {
		err = r.DB.QueryRowContext(ctx,
			`SELECT count(*) FROM jobs WHERE employer_id = $1 AND status = $2`, employerID, status).Scan(&count)
	}
	return count, err
}

func (r *PGRepo) IncrementApplications(ctx context.Context, jobID string, by int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE jobs SET applications = applications + $1, updated_at = now() WHERE id = $2`, by, jobID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) IncrementViews(ctx context.Context, jobID string, by int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE jobs SET views = views + $1, updated_at = now() WHERE id = $2`, by, jobID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func buildWhere(filter ListFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.EmployerID != "" {
		add("employer_id = $%d", filter.EmployerID)
	}
	if filter.Specialization != "" {
		add("specialization = $%d", filter.Specialization)
	}
	if filter.City != "" {
		add("lower(city) = lower($%d)", filter.City)
	}
	if filter.State != "" {
		add("lower(state) = lower($%d)", filter.State)
	}
	if filter.JobType != "" {
		add("job_type = $%d", filter.JobType)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var organizationName sql.NullString
	var city sql.NullString
	var state sql.NullString
	var country sql.NullString
	var shift sql.NullString
	var description sql.NullString
	var expiresAt sql.NullTime
	err := row.Scan(
		&job.ID,
		&job.EmployerID,
		&job.Title,
		&organizationName,
		&job.Specialization,
		&city,
		&state,
		&country,
		&job.JobType,
		&shift,
		&description,
		&job.Status,
		&job.PostedAt,
		&expiresAt,
		&job.Views,
		&job.Applications,
		&job.IsRemote,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return Job{}, err
	}
	if organizationName.Valid {
		job.OrganizationName = organizationName.String
	}
	if city.Valid {
		job.City = city.String
	}
	if state.Valid {
		job.State = state.String
	}
	if country.Valid {
		job.Country = country.String
	}
	if shift.Valid {
		job.Shift = shift.String
	}
	if description.Valid {
		job.Description = description.String
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		job.ExpiresAt = &t
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)

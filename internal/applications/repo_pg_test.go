package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	app := Application{
		ID:            "app-1",
		JobID:         "job-1",
		SeekerID:      "seeker-1",
		EmployerID:    "emp-1",
		Status:        StatusApplied,
		AppliedAt:     time.Now().UTC(),
		ApplyAttempts: 1,
		History: []HistoryEntry{{
			Status: StatusApplied,
			Note:   "Application submitted",
			Actor:  "seeker",
			At:     time.Now().UTC(),
		}},
	}

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(
			app.ID,
			app.JobID,
			app.SeekerID,
			app.EmployerID,
			app.Status,
			app.AppliedAt,
			app.ApplyAttempts,
			sqlmock.AnyArg(), // resume
			sqlmock.AnyArg(), // cover_letter
			sqlmock.AnyArg(), // answers
			sqlmock.AnyArg(), // history
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), app); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("INSERT INTO applications").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_job_seeker_unique"})

	err = repo.Create(context.Background(), Application{ID: "app-1", Status: StatusApplied})
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("err = %v, want ErrAlreadyApplied", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByJobAndSeekerNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM applications").
		WithArgs("job-1", "seeker-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByJobAndSeeker(context.Background(), "job-1", "seeker-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE applications").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), Application{ID: "missing", Status: StatusApplied})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

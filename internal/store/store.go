// Package store is the Postgres gateway for job applications. It is the only
// package that reads or writes application records; every query is scoped to
// the owning user.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"jobmate/application-tracker/internal/application"
)

// Querier is the subset of pgxpool.Pool and pgx.Tx used by Store.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const table = "job_applications"

// selectColumns is the projection every read scans through scanApplication.
var selectColumns = []string{
	"id", "user_id", "company_name", "job_role",
	"job_type::text", "status::text",
	"application_date", "follow_up_date", "notes",
	"created_at", "updated_at",
}

const returning = `RETURNING id, user_id, company_name, job_role, job_type::text, status::text,
	          application_date, follow_up_date, notes, created_at, updated_at`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ListOptions narrows List on the server side. Nil fields match everything.
type ListOptions struct {
	Status  *application.Status
	JobType *application.JobType
}

// Store reads and writes job_applications rows.
type Store struct {
	q Querier
}

// New returns a Store backed by q (usually a *pgxpool.Pool).
func New(q Querier) *Store {
	return &Store{q: q}
}

// ─── Reads ───────────────────────────────────────────────────────────────────

// List returns the user's applications, newest first. An account with no
// applications yields an empty slice and a nil error.
func (s *Store) List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]application.JobApplication, error) {
	where := squirrel.Eq{"user_id": userID}
	if opts.Status != nil {
		where["status"] = string(*opts.Status)
	}
	if opts.JobType != nil {
		where["job_type"] = string(*opts.JobType)
	}

	query := psql.Select(selectColumns...).
		From(table).
		Where(where).
		OrderBy("created_at DESC", "id")

	apps, err := s.collect(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list applications for user %s: %w", userID, err)
	}
	return apps, nil
}

// Get returns one application owned by userID.
func (s *Store) Get(ctx context.Context, userID, id uuid.UUID) (*application.JobApplication, error) {
	sql, args, err := psql.Select(selectColumns...).
		From(table).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	app, err := scanApplication(s.q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, id)
	}
	return app, nil
}

// ListFollowUpCandidates returns, across all users, the Applied and Interview
// applications that carry a follow-up date, grouped by user_id.
func (s *Store) ListFollowUpCandidates(ctx context.Context) ([]application.JobApplication, error) {
	query := psql.Select(selectColumns...).
		From(table).
		Where(squirrel.NotEq{"follow_up_date": nil}).
		Where(squirrel.Eq{"status": []string{
			string(application.StatusApplied),
			string(application.StatusInterview),
		}}).
		OrderBy("user_id", "follow_up_date", "created_at DESC")

	apps, err := s.collect(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list follow-up candidates: %w", err)
	}
	return apps, nil
}

func (s *Store) collect(ctx context.Context, query squirrel.SelectBuilder) ([]application.JobApplication, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	apps := make([]application.JobApplication, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return apps, nil
}

// ─── Writes ──────────────────────────────────────────────────────────────────

// Create inserts a new application. The database assigns id, created_at and
// updated_at. in must already be normalized and validated.
func (s *Store) Create(ctx context.Context, userID uuid.UUID, in application.Input) (*application.JobApplication, error) {
	app, err := scanApplication(s.q.QueryRow(ctx,
		`INSERT INTO job_applications
		   (user_id, company_name, job_role, job_type, status, application_date, follow_up_date, notes)
		 VALUES ($1, $2, $3, $4::job_type, $5::application_status, $6, $7, $8)
		 `+returning,
		userID, in.CompanyName, in.JobRole, string(in.JobType), string(in.Status),
		in.ApplicationDate.Time(), dateArg(in.FollowUpDate), in.Notes,
	))
	if err != nil {
		return nil, mapError(err, uuid.Nil)
	}
	return app, nil
}

// Update replaces every user-editable field and refreshes updated_at.
func (s *Store) Update(ctx context.Context, userID, id uuid.UUID, in application.Input) (*application.JobApplication, error) {
	app, err := scanApplication(s.q.QueryRow(ctx,
		`UPDATE job_applications
		 SET company_name     = $1,
		     job_role         = $2,
		     job_type         = $3::job_type,
		     status           = $4::application_status,
		     application_date = $5,
		     follow_up_date   = $6,
		     notes            = $7,
		     updated_at       = GREATEST(NOW(), created_at)
		 WHERE id = $8 AND user_id = $9
		 `+returning,
		in.CompanyName, in.JobRole, string(in.JobType), string(in.Status),
		in.ApplicationDate.Time(), dateArg(in.FollowUpDate), in.Notes,
		id, userID,
	))
	if err != nil {
		return nil, mapError(err, id)
	}
	return app, nil
}

// Delete removes one application owned by userID.
func (s *Store) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx,
		`DELETE FROM job_applications WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return mapError(err, id)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, id)
	}
	return nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func scanApplication(row pgx.Row) (*application.JobApplication, error) {
	var (
		app             application.JobApplication
		jobType, status string
		applied         time.Time
		followUp        *time.Time
	)
	if err := row.Scan(
		&app.ID, &app.UserID, &app.CompanyName, &app.JobRole,
		&jobType, &status,
		&applied, &followUp, &app.Notes,
		&app.CreatedAt, &app.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if app.JobType, err = application.ParseJobType(jobType); err != nil {
		return nil, fmt.Errorf("row %s: %w", app.ID, err)
	}
	if app.Status, err = application.ParseStatus(status); err != nil {
		return nil, fmt.Errorf("row %s: %w", app.ID, err)
	}
	app.ApplicationDate = toDate(applied)
	if followUp != nil {
		d := toDate(*followUp)
		app.FollowUpDate = &d
	}
	return &app, nil
}

// toDate converts a scanned Postgres date, which pgx returns at UTC midnight.
func toDate(t time.Time) application.Date {
	return application.NewDate(t.Date())
}

func dateArg(d *application.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

func mapError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("application %s: %w", id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("application %s: %w", id, application.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23514", "23502", "22P02": // check_violation, not_null_violation, invalid_text_representation
			return &application.ValidationError{Msg: "invalid application: " + pgErr.Message}
		}
	}

	return fmt.Errorf("application %s: %w", id, err)
}

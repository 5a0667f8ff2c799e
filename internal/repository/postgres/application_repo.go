package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"job-tracker-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const applicationColumns = `application_id, user_id, company_name, recruiter, job_title, job_url,
	status, applied_date, notes, created_at, updated_at`

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

type applicationRepo struct {
	db DB
}

// NewApplicationRepository creates the Postgres-backed gateway
func NewApplicationRepository(db DB) domain.ApplicationGateway {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Select(ctx context.Context, filter domain.Filter) ([]domain.Application, error) {
	query, args := buildSelect(filter)
	return r.queryApplications(ctx, query, args...)
}

// Insert writes a new row and returns it as stored
func (r *applicationRepo) Insert(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + applicationColumns

	apps, err := r.queryApplications(ctx, query,
		app.ApplicationID,
		app.UserID,
		app.CompanyName,
		app.Recruiter,
		app.JobTitle,
		app.JobURL,
		statusString(app.Status),
		dateString(app.AppliedDate),
		app.Notes,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, fmt.Errorf("insert returned no row")
	}
	return &apps[0], nil
}

// Update applies the patch to matching rows and returns them
func (r *applicationRepo) Update(ctx context.Context, filter domain.Filter, patch domain.ApplicationPatch) ([]domain.Application, error) {
	if filter.IsZero() {
		return nil, domain.ErrUnfilteredWrite
	}
	query, args := buildUpdate(filter, patch)
	return r.queryApplications(ctx, query, args...)
}

// Delete removes matching rows and returns what was removed
func (r *applicationRepo) Delete(ctx context.Context, filter domain.Filter) ([]domain.Application, error) {
	if filter.IsZero() {
		return nil, domain.ErrUnfilteredWrite
	}
	where, args := buildWhere(filter, 1)
	query := `DELETE FROM applications` + where + ` RETURNING ` + applicationColumns
	return r.queryApplications(ctx, query, args...)
}

func (r *applicationRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *applicationRepo) queryApplications(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	applications := []domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read applications: %w", err)
	}
	return applications, nil
}

func scanApplication(row pgx.Row) (domain.Application, error) {
	var (
		app     domain.Application
		status  *string
		applied pgtype.Date
	)
	if err := row.Scan(
		&app.ApplicationID, &app.UserID, &app.CompanyName, &app.Recruiter, &app.JobTitle, &app.JobURL,
		&status, &applied, &app.Notes, &app.CreatedAt, &app.UpdatedAt,
	); err != nil {
		return app, fmt.Errorf("scan application: %w", err)
	}

	if status != nil {
		s := domain.ApplicationStatus(*status)
		app.Status = &s
	}
	if applied.Valid {
		d := domain.DateOf(applied.Time)
		app.AppliedDate = &d
	}
	return app, nil
}

func buildSelect(filter domain.Filter) (string, []any) {
	where, args := buildWhere(filter, 1)
	return `SELECT ` + applicationColumns + ` FROM applications` + where + ` ORDER BY created_at DESC`, args
}

func buildUpdate(filter domain.Filter, patch domain.ApplicationPatch) (string, []any) {
	cols := patch.Columns()
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, len(names))
	args := make([]any, 0, len(names)+2)
	for i, name := range names {
		sets[i] = fmt.Sprintf("%s = $%d", name, i+1)
		args = append(args, cols[name])
	}

	where, whereArgs := buildWhere(filter, len(names)+1)
	args = append(args, whereArgs...)

	return `UPDATE applications SET ` + strings.Join(sets, ", ") + where + ` RETURNING ` + applicationColumns, args
}

// buildWhere renders the filter with placeholders numbered from start.
func buildWhere(filter domain.Filter, start int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.ApplicationID != "" {
		conds = append(conds, fmt.Sprintf("application_id = $%d", start+len(args)))
		args = append(args, filter.ApplicationID)
	}
	if filter.UserID != "" {
		conds = append(conds, fmt.Sprintf("user_id = $%d", start+len(args)))
		args = append(args, filter.UserID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func statusString(s *domain.ApplicationStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func dateString(d *domain.Date) *string {
	if d == nil {
		return nil
	}
	v := d.String()
	return &v
}

package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"job-tracker-backend/internal/domain"
	"job-tracker-backend/pkg/supabase"
)

const table = "applications"

type applicationRepo struct {
	rest *supabase.Rest
}

// NewApplicationRepository creates a gateway over the Supabase REST API
func NewApplicationRepository(rest *supabase.Rest) domain.ApplicationGateway {
	return &applicationRepo{rest: rest}
}

func (r *applicationRepo) Select(ctx context.Context, filter domain.Filter) ([]domain.Application, error) {
	q := filterQuery(filter).Select("*").Order("created_at", true)
	body, err := r.rest.Get(ctx, table, q)
	if err != nil {
		return nil, err
	}
	return decodeRows(body)
}

func (r *applicationRepo) Insert(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	body, err := r.rest.Insert(ctx, table, app)
	if err != nil {
		return nil, err
	}
	rows, err := decodeRows(body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert returned no row")
	}
	return &rows[0], nil
}

func (r *applicationRepo) Update(ctx context.Context, filter domain.Filter, patch domain.ApplicationPatch) ([]domain.Application, error) {
	if filter.IsZero() {
		return nil, domain.ErrUnfilteredWrite
	}
	body, err := r.rest.Update(ctx, table, filterQuery(filter), patch.Columns())
	if err != nil {
		return nil, err
	}
	return decodeRows(body)
}

func (r *applicationRepo) Delete(ctx context.Context, filter domain.Filter) ([]domain.Application, error) {
	if filter.IsZero() {
		return nil, domain.ErrUnfilteredWrite
	}
	body, err := r.rest.Delete(ctx, table, filterQuery(filter))
	if err != nil {
		return nil, err
	}
	return decodeRows(body)
}

// Ping reads at most one id to prove the table is reachable.
func (r *applicationRepo) Ping(ctx context.Context) error {
	_, err := r.rest.Get(ctx, table, supabase.NewQuery().Select("application_id").Limit(1))
	return err
}

func filterQuery(filter domain.Filter) *supabase.Query {
	q := supabase.NewQuery()
	if filter.ApplicationID != "" {
		q.Eq("application_id", filter.ApplicationID)
	}
	if filter.UserID != "" {
		q.Eq("user_id", filter.UserID)
	}
	return q
}

// rowJSON reads status as plain text so a value outside the enum is
// returned as stored, like the SQL gateways do.
type rowJSON struct {
	domain.Application
	Status *string `json:"status"`
}

func decodeRows(body []byte) ([]domain.Application, error) {
	apps := []domain.Application{}
	if len(body) == 0 {
		return apps, nil
	}
	var rows []rowJSON
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	for _, row := range rows {
		app := row.Application
		if row.Status != nil {
			s := domain.ApplicationStatus(*row.Status)
			app.Status = &s
		}
		apps = append(apps, app)
	}
	return apps, nil
}

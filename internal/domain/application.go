package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("resource not found")
	// ErrUnfilteredWrite guards update/delete calls that would touch every row.
	ErrUnfilteredWrite = errors.New("refusing to modify applications without a filter")
)

// Application is one tracked job application, the only stored entity.
type Application struct {
	ApplicationID string             `json:"application_id"`
	UserID        string             `json:"user_id"`
	CompanyName   *string            `json:"company_name"`
	Recruiter     *string            `json:"recruiter"`
	JobTitle      *string            `json:"job_title"`
	JobURL        *string            `json:"job_url"`
	Status        *ApplicationStatus `json:"status"`
	AppliedDate   *Date              `json:"applied_date"`
	Notes         *string            `json:"notes"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ApplicationInput is the create payload. Server-assigned fields are absent.
type ApplicationInput struct {
	UserID      string             `json:"user_id" validate:"required"`
	CompanyName *string            `json:"company_name"`
	Recruiter   *string            `json:"recruiter"`
	JobTitle    *string            `json:"job_title"`
	JobURL      *string            `json:"job_url"`
	Status      *ApplicationStatus `json:"status" validate:"omitempty,oneof=interested applied interviewing offer rejected accepted"`
	AppliedDate *Date              `json:"applied_date"`
	Notes       *string            `json:"notes"`
}

// ApplicationPatch is a merge-patch: nil fields are left untouched.
// A JSON null is indistinguishable from an absent field.
type ApplicationPatch struct {
	UserID      *string            `json:"user_id"`
	CompanyName *string            `json:"company_name"`
	Recruiter   *string            `json:"recruiter"`
	JobTitle    *string            `json:"job_title"`
	JobURL      *string            `json:"job_url"`
	Status      *ApplicationStatus `json:"status" validate:"omitempty,oneof=interested applied interviewing offer rejected accepted"`
	AppliedDate *Date              `json:"applied_date"`
	Notes       *string            `json:"notes"`
	UpdatedAt   time.Time          `json:"-"`
}

// IsEmpty reports whether the patch carries no client-supplied field.
func (p ApplicationPatch) IsEmpty() bool {
	return p.UserID == nil && p.CompanyName == nil && p.Recruiter == nil &&
		p.JobTitle == nil && p.JobURL == nil && p.Status == nil &&
		p.AppliedDate == nil && p.Notes == nil
}

// Columns maps the present fields to their column names. Dates are rendered
// as YYYY-MM-DD strings so every backend stores the same representation.
func (p ApplicationPatch) Columns() map[string]any {
	cols := make(map[string]any)
	if p.UserID != nil {
		cols["user_id"] = *p.UserID
	}
	if p.CompanyName != nil {
		cols["company_name"] = *p.CompanyName
	}
	if p.Recruiter != nil {
		cols["recruiter"] = *p.Recruiter
	}
	if p.JobTitle != nil {
		cols["job_title"] = *p.JobTitle
	}
	if p.JobURL != nil {
		cols["job_url"] = *p.JobURL
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.AppliedDate != nil {
		cols["applied_date"] = p.AppliedDate.String()
	}
	if p.Notes != nil {
		cols["notes"] = *p.Notes
	}
	if !p.UpdatedAt.IsZero() {
		cols["updated_at"] = p.UpdatedAt
	}
	return cols
}

// Apply returns a copy of app with the patch merged in.
func (p ApplicationPatch) Apply(app Application) Application {
	if p.UserID != nil {
		app.UserID = *p.UserID
	}
	if p.CompanyName != nil {
		app.CompanyName = p.CompanyName
	}
	if p.Recruiter != nil {
		app.Recruiter = p.Recruiter
	}
	if p.JobTitle != nil {
		app.JobTitle = p.JobTitle
	}
	if p.JobURL != nil {
		app.JobURL = p.JobURL
	}
	if p.Status != nil {
		app.Status = p.Status
	}
	if p.AppliedDate != nil {
		app.AppliedDate = p.AppliedDate
	}
	if p.Notes != nil {
		app.Notes = p.Notes
	}
	if !p.UpdatedAt.IsZero() {
		app.UpdatedAt = p.UpdatedAt
	}
	return app
}

// Filter selects rows of the applications table. Set fields are ANDed;
// the zero Filter matches every row.
type Filter struct {
	ApplicationID string
	UserID        string
}

func (f Filter) IsZero() bool {
	return f.ApplicationID == "" && f.UserID == ""
}

// Matches reports whether app satisfies the filter.
func (f Filter) Matches(app Application) bool {
	if f.ApplicationID != "" && app.ApplicationID != f.ApplicationID {
		return false
	}
	if f.UserID != "" && app.UserID != f.UserID {
		return false
	}
	return true
}

// ApplicationGateway is the table-access adapter over the applications table.
type ApplicationGateway interface {
	Select(ctx context.Context, filter Filter) ([]Application, error)
	Insert(ctx context.Context, app *Application) (*Application, error)
	// Update returns the rows after the patch was applied.
	Update(ctx context.Context, filter Filter, patch ApplicationPatch) ([]Application, error)
	// Delete returns the rows that were removed.
	Delete(ctx context.Context, filter Filter) ([]Application, error)
}

// Pinger is implemented by gateways that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ApplicationUsecase defines business logic for applications
type ApplicationUsecase interface {
	ListAll(ctx context.Context) ([]Application, error)
	GetByID(ctx context.Context, applicationID string) (*Application, error)
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	Create(ctx context.Context, input ApplicationInput) (*Application, error)
	Update(ctx context.Context, applicationID string, patch ApplicationPatch) (*Application, error)
	DeleteByID(ctx context.Context, applicationID string) error
	// DeleteByUser returns the number of removed rows, zero included.
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

// HealthStatus is the result of a health check.
type HealthStatus struct {
	Status  string            `json:"status"`
	Store   string            `json:"store"`
	Details map[string]string `json:"details,omitempty"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}

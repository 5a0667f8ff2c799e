package usecase

import (
	"context"
	"strings"
	"time"

	"job-tracker-backend/internal/domain"
	"job-tracker-backend/pkg/apperror"
	"job-tracker-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type applicationUsecase struct {
	gateway  domain.ApplicationGateway
	validate *validator.Validate
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(gateway domain.ApplicationGateway, validate *validator.Validate) domain.ApplicationUsecase {
	if validate == nil {
		validate = validator.New()
	}
	return &applicationUsecase{
		gateway:  gateway,
		validate: validate,
	}
}

// ListAll returns every stored application, unfiltered and unpaginated.
func (uc *applicationUsecase) ListAll(ctx context.Context) ([]domain.Application, error) {
	apps, err := uc.gateway.Select(ctx, domain.Filter{})
	if err != nil {
		return nil, apperror.Storage("Error fetching applications", err)
	}
	return nonNil(apps), nil
}

func (uc *applicationUsecase) GetByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	// ids are always UUIDs, anything else cannot match a row
	if !isApplicationID(applicationID) {
		return nil, apperror.NotFound("Application not found")
	}

	apps, err := uc.gateway.Select(ctx, domain.Filter{ApplicationID: applicationID})
	if err != nil {
		return nil, apperror.Storage("Error fetching application", err)
	}
	if len(apps) == 0 {
		return nil, apperror.NotFound("Application not found")
	}
	return &apps[0], nil
}

// ListByUser returns the user's applications; zero matches is an empty slice.
// Any non-empty id is used as given, so an unknown id simply matches nothing.
func (uc *applicationUsecase) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	if userID == "" {
		return nil, apperror.Validation("user_id is required")
	}

	apps, err := uc.gateway.Select(ctx, domain.Filter{UserID: userID})
	if err != nil {
		return nil, apperror.Storage("Error fetching applications", err)
	}
	return nonNil(apps), nil
}

func (uc *applicationUsecase) Create(ctx context.Context, input domain.ApplicationInput) (*domain.Application, error) {
	// 1. Validate payload
	if strings.TrimSpace(input.UserID) == "" {
		return nil, apperror.Validation("user_id is required")
	}
	if err := uc.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	// 2. Assign server-side fields
	now := timestamp()
	app := &domain.Application{
		ApplicationID: uuid.NewString(),
		UserID:        input.UserID,
		CompanyName:   input.CompanyName,
		Recruiter:     input.Recruiter,
		JobTitle:      input.JobTitle,
		JobURL:        input.JobURL,
		Status:        input.Status,
		AppliedDate:   input.AppliedDate,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// 3. Persist
	created, err := uc.gateway.Insert(ctx, app)
	if err != nil {
		return nil, apperror.Storage("Error creating application", err)
	}
	return created, nil
}

// Update applies a merge-patch: only fields present in patch change.
func (uc *applicationUsecase) Update(ctx context.Context, applicationID string, patch domain.ApplicationPatch) (*domain.Application, error) {
	if !isApplicationID(applicationID) {
		return nil, apperror.NotFound("Application not found")
	}
	if patch.IsEmpty() {
		return nil, apperror.Validation("No fields to update")
	}
	if patch.UserID != nil && strings.TrimSpace(*patch.UserID) == "" {
		return nil, apperror.Validation("user_id cannot be empty")
	}
	if err := uc.validate.Struct(patch); err != nil {
		return nil, validationError(err)
	}

	patch.UpdatedAt = timestamp()
	apps, err := uc.gateway.Update(ctx, domain.Filter{ApplicationID: applicationID}, patch)
	if err != nil {
		return nil, apperror.Storage("Error updating application", err)
	}
	if len(apps) == 0 {
		return nil, apperror.NotFound("Application not found")
	}
	return &apps[0], nil
}

// DeleteByID fails with NotFound when no row has the id, on every call.
func (uc *applicationUsecase) DeleteByID(ctx context.Context, applicationID string) error {
	if !isApplicationID(applicationID) {
		return apperror.NotFound("Application not found")
	}

	apps, err := uc.gateway.Delete(ctx, domain.Filter{ApplicationID: applicationID})
	if err != nil {
		return apperror.Storage("Error deleting application", err)
	}
	if len(apps) == 0 {
		return apperror.NotFound("Application not found")
	}
	return nil
}

// DeleteByUser removes every application of the user. Zero matches is a success.
func (uc *applicationUsecase) DeleteByUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, apperror.Validation("user_id is required")
	}

	apps, err := uc.gateway.Delete(ctx, domain.Filter{UserID: userID})
	if err != nil {
		return 0, apperror.Storage("Error deleting user applications", err)
	}
	return len(apps), nil
}

func isApplicationID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// timestamp is truncated to the microsecond precision Postgres keeps.
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func validationError(err error) *apperror.AppError {
	return apperror.Validation(strings.Join(validation.FormatValidationErrors(err), "; "))
}

func nonNil(apps []domain.Application) []domain.Application {
	if apps == nil {
		return []domain.Application{}
	}
	return apps
}

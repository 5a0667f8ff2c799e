package usecase_test

import (
	"context"
	"errors"
	"testing"

	"job-tracker-backend/internal/domain"
	"job-tracker-backend/internal/usecase"
	"job-tracker-backend/pkg/apperror"
	"job-tracker-backend/pkg/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Select(ctx context.Context, filter domain.Filter) ([]domain.Application, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockGateway) Insert(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	args := m.Called(ctx, app)
	if fn, ok := args.Get(0).(func(*domain.Application) *domain.Application); ok {
		return fn(app), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockGateway) Update(ctx context.Context, filter domain.Filter, patch domain.ApplicationPatch) ([]domain.Application, error) {
	args := m.Called(ctx, filter, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockGateway) Delete(ctx context.Context, filter domain.Filter) ([]domain.Application, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

type pingingGateway struct {
	MockGateway
	err error
}

func (p *pingingGateway) Ping(context.Context) error { return p.err }

func strPtr(s string) *string { return &s }

func statusPtr(s domain.ApplicationStatus) *domain.ApplicationStatus { return &s }

func newUsecase(gw domain.ApplicationGateway) domain.ApplicationUsecase {
	return usecase.NewApplicationUsecase(gw, validation.New())
}

func echoInsert(gw *MockGateway) {
	gw.On("Insert", mock.Anything, mock.AnythingOfType("*domain.Application")).
		Return(func(app *domain.Application) *domain.Application { return app }, nil)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should assign unique ids and timestamps", func(t *testing.T) {
		gw := new(MockGateway)
		uc := newUsecase(gw)

		seen := map[string]bool{}
		for i := 0; i < 20; i++ {
			var stored *domain.Application
			gw.On("Insert", ctx, mock.AnythingOfType("*domain.Application")).
				Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Application) }).
				Return(&domain.Application{}, nil).Once()

			_, err := uc.Create(ctx, domain.ApplicationInput{UserID: "u1", Status: statusPtr(domain.StatusApplied)})
			require.NoError(t, err)
			require.NotNil(t, stored)

			_, parseErr := uuid.Parse(stored.ApplicationID)
			assert.NoError(t, parseErr)
			assert.False(t, seen[stored.ApplicationID], "id reused")
			seen[stored.ApplicationID] = true

			assert.False(t, stored.CreatedAt.IsZero())
			assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)
			assert.Equal(t, "u1", stored.UserID)
		}
	})

	t.Run("Should reject invalid status without touching the gateway", func(t *testing.T) {
		gw := new(MockGateway)
		uc := newUsecase(gw)

		_, err := uc.Create(ctx, domain.ApplicationInput{UserID: "u1", Status: statusPtr("ghosted")})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		assert.Contains(t, err.Error(), "status must be one of")
		gw.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Should require user_id", func(t *testing.T) {
		gw := new(MockGateway)
		uc := newUsecase(gw)

		_, err := uc.Create(ctx, domain.ApplicationInput{UserID: "  "})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		gw.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Should keep applied_date as given", func(t *testing.T) {
		gw := new(MockGateway)
		echoInsert(gw)
		uc := newUsecase(gw)

		d, err := domain.ParseDate("2025-01-01")
		require.NoError(t, err)

		app, err := uc.Create(ctx, domain.ApplicationInput{UserID: "u1", AppliedDate: &d})
		require.NoError(t, err)
		assert.Equal(t, "2025-01-01", app.AppliedDate.String())
	})

	t.Run("Should surface storage failures as StorageError", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Insert", ctx, mock.Anything).Return(nil, errors.New("connection refused"))
		uc := newUsecase(gw)

		_, err := uc.Create(ctx, domain.ApplicationInput{UserID: "u1"})
		require.Error(t, err)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.KindStorage, appErr.Kind)
		assert.Equal(t, 500, appErr.Code)
		assert.Equal(t, "Error creating application", appErr.Message)
		assert.EqualError(t, errors.Unwrap(err), "connection refused")
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("Should return the matching row", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Select", ctx, domain.Filter{ApplicationID: id}).
			Return([]domain.Application{{ApplicationID: id, UserID: "u1"}}, nil)

		app, err := newUsecase(gw).GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, app.ApplicationID)
	})

	t.Run("Should fail with NotFound when nothing matches", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Select", ctx, domain.Filter{ApplicationID: id}).Return([]domain.Application{}, nil)

		_, err := newUsecase(gw).GetByID(ctx, id)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})

	t.Run("Should treat malformed ids as NotFound", func(t *testing.T) {
		gw := new(MockGateway)

		_, err := newUsecase(gw).GetByID(ctx, "not-a-uuid")
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
		gw.AssertNotCalled(t, "Select", mock.Anything, mock.Anything)
	})
}

func TestListByUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return an empty slice for zero matches", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Select", ctx, domain.Filter{UserID: "nobody"}).Return(nil, nil)

		apps, err := newUsecase(gw).ListByUser(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, apps)
		assert.Empty(t, apps)
	})

	t.Run("Should pass a blank id through as an ordinary filter", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Select", ctx, domain.Filter{UserID: "  "}).Return(nil, nil)

		apps, err := newUsecase(gw).ListByUser(ctx, "  ")
		require.NoError(t, err)
		assert.Empty(t, apps)
		gw.AssertExpectations(t)
	})

	t.Run("Should always filter by user", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Select", ctx, domain.Filter{UserID: "u1"}).
			Return([]domain.Application{{UserID: "u1"}, {UserID: "u1"}}, nil)

		apps, err := newUsecase(gw).ListByUser(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, apps, 2)
		gw.AssertExpectations(t)
	})
}

func TestListAll(t *testing.T) {
	ctx := context.Background()
	gw := new(MockGateway)
	gw.On("Select", ctx, domain.Filter{}).Return(nil, errors.New("timeout"))

	_, err := newUsecase(gw).ListAll(ctx)
	assert.True(t, apperror.IsKind(err, apperror.KindStorage))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("Should send only the supplied fields", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Update", ctx, domain.Filter{ApplicationID: id}, mock.AnythingOfType("domain.ApplicationPatch")).
			Run(func(args mock.Arguments) {
				patch := args.Get(2).(domain.ApplicationPatch)
				assert.Nil(t, patch.CompanyName)
				assert.Nil(t, patch.JobTitle)
				assert.Equal(t, domain.StatusInterviewing, *patch.Status)
				assert.False(t, patch.UpdatedAt.IsZero())
			}).
			Return([]domain.Application{{
				ApplicationID: id,
				UserID:        "u1",
				CompanyName:   strPtr("Acme"),
				Status:        statusPtr(domain.StatusInterviewing),
			}}, nil)

		app, err := newUsecase(gw).Update(ctx, id, domain.ApplicationPatch{Status: statusPtr(domain.StatusInterviewing)})
		require.NoError(t, err)
		assert.Equal(t, "Acme", *app.CompanyName)
		gw.AssertExpectations(t)
	})

	t.Run("Should fail with NotFound when no row was updated", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Update", ctx, domain.Filter{ApplicationID: id}, mock.Anything).Return([]domain.Application{}, nil)

		_, err := newUsecase(gw).Update(ctx, id, domain.ApplicationPatch{Notes: strPtr("x")})
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})

	t.Run("Should reject invalid status and empty patches", func(t *testing.T) {
		gw := new(MockGateway)
		uc := newUsecase(gw)

		_, err := uc.Update(ctx, id, domain.ApplicationPatch{Status: statusPtr("waiting")})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))

		_, err = uc.Update(ctx, id, domain.ApplicationPatch{})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))

		_, err = uc.Update(ctx, id, domain.ApplicationPatch{UserID: strPtr("")})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))

		gw.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("Should fail with NotFound on every attempt for a missing id", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Delete", ctx, domain.Filter{ApplicationID: id}).Return([]domain.Application{}, nil)
		uc := newUsecase(gw)

		for i := 0; i < 3; i++ {
			err := uc.DeleteByID(ctx, id)
			assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
		}
	})

	t.Run("Should succeed when a row was removed", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Delete", ctx, domain.Filter{ApplicationID: id}).Return([]domain.Application{{ApplicationID: id}}, nil)

		assert.NoError(t, newUsecase(gw).DeleteByID(ctx, id))
	})
}

func TestDeleteByUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Should succeed with zero matches", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Delete", ctx, domain.Filter{UserID: "ghost"}).Return([]domain.Application{}, nil)

		n, err := newUsecase(gw).DeleteByUser(ctx, "ghost")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("Should report removed rows", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Delete", ctx, domain.Filter{UserID: "u1"}).
			Return([]domain.Application{{UserID: "u1"}, {UserID: "u1"}, {UserID: "u1"}}, nil)

		n, err := newUsecase(gw).DeleteByUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("Should treat a blank id as a user with no rows", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Delete", ctx, domain.Filter{UserID: " "}).Return([]domain.Application{}, nil)

		n, err := newUsecase(gw).DeleteByUser(ctx, " ")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("Should never issue an unfiltered delete", func(t *testing.T) {
		gw := new(MockGateway)

		_, err := newUsecase(gw).DeleteByUser(ctx, "")
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		gw.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestHealth(t *testing.T) {
	ctx := context.Background()

	status := usecase.NewHealthUsecase("sqlite", new(MockGateway)).Check(ctx)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "sqlite", status.Store)

	status = usecase.NewHealthUsecase("postgres", &pingingGateway{err: errors.New("down")}).Check(ctx)
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "unreachable", status.Details["store"])

	status = usecase.NewHealthUsecase("postgres", &pingingGateway{}).Check(ctx)
	assert.Equal(t, "healthy", status.Status)
}

package sqlite

import (
	"context"
	"fmt"
	"time"

	"job-tracker-backend/internal/domain"

	"gorm.io/gorm"
)

// applicationRow mirrors the applications table. Dates are kept as
// YYYY-MM-DD text so sqlite never reinterprets them.
type applicationRow struct {
	ApplicationID string    `gorm:"column:application_id;primaryKey"`
	UserID        string    `gorm:"column:user_id;not null;index"`
	CompanyName   *string   `gorm:"column:company_name"`
	Recruiter     *string   `gorm:"column:recruiter"`
	JobTitle      *string   `gorm:"column:job_title"`
	JobURL        *string   `gorm:"column:job_url"`
	Status        *string   `gorm:"column:status"`
	AppliedDate   *string   `gorm:"column:applied_date;type:text"`
	Notes         *string   `gorm:"column:notes"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (applicationRow) TableName() string {
	return "applications"
}

type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepository creates a gorm-backed gateway
func NewApplicationRepository(db *gorm.DB) domain.ApplicationGateway {
	return &applicationRepo{db: db}
}

// Migrate creates or updates the applications table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&applicationRow{})
}

func (r *applicationRepo) Select(ctx context.Context, filter domain.Filter) ([]domain.Application, error) {
	var rows []applicationRow
	if err := scoped(r.db.WithContext(ctx), filter).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select applications: %w", err)
	}
	return toDomain(rows), nil
}

func (r *applicationRepo) Insert(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	row := fromDomain(app)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}
	stored := row.toDomain()
	return &stored, nil
}

// Update patches matching rows inside a transaction and re-reads them by id,
// so a patch that rewrites a filtered column still returns the changed rows.
func (r *applicationRepo) Update(ctx context.Context, filter domain.Filter, patch domain.ApplicationPatch) ([]domain.Application, error) {
	if filter.IsZero() {
		return nil, domain.ErrUnfilteredWrite
	}

	var rows []applicationRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := scoped(tx.Model(&applicationRow{}), filter).Pluck("application_id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Model(&applicationRow{}).Where("application_id IN ?", ids).Updates(patch.Columns()).Error; err != nil {
			return err
		}
		return tx.Where("application_id IN ?", ids).Order("created_at DESC").Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("update applications: %w", err)
	}
	return toDomain(rows), nil
}

func (r *applicationRepo) Delete(ctx context.Context, filter domain.Filter) ([]domain.Application, error) {
	if filter.IsZero() {
		return nil, domain.ErrUnfilteredWrite
	}

	var rows []applicationRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scoped(tx, filter).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		ids := make([]string, len(rows))
		for i, row := range rows {
			ids[i] = row.ApplicationID
		}
		return tx.Where("application_id IN ?", ids).Delete(&applicationRow{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("delete applications: %w", err)
	}
	return toDomain(rows), nil
}

func (r *applicationRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func scoped(db *gorm.DB, filter domain.Filter) *gorm.DB {
	if filter.ApplicationID != "" {
		db = db.Where("application_id = ?", filter.ApplicationID)
	}
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	return db
}

func fromDomain(app *domain.Application) applicationRow {
	row := applicationRow{
		ApplicationID: app.ApplicationID,
		UserID:        app.UserID,
		CompanyName:   app.CompanyName,
		Recruiter:     app.Recruiter,
		JobTitle:      app.JobTitle,
		JobURL:        app.JobURL,
		Notes:         app.Notes,
		CreatedAt:     app.CreatedAt,
		UpdatedAt:     app.UpdatedAt,
	}
	if app.Status != nil {
		s := app.Status.String()
		row.Status = &s
	}
	if app.AppliedDate != nil {
		d := app.AppliedDate.String()
		row.AppliedDate = &d
	}
	return row
}

func (row applicationRow) toDomain() domain.Application {
	app := domain.Application{
		ApplicationID: row.ApplicationID,
		UserID:        row.UserID,
		CompanyName:   row.CompanyName,
		Recruiter:     row.Recruiter,
		JobTitle:      row.JobTitle,
		JobURL:        row.JobURL,
		Notes:         row.Notes,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
	if row.Status != nil {
		s := domain.ApplicationStatus(*row.Status)
		app.Status = &s
	}
	if row.AppliedDate != nil {
		if d, err := domain.ParseDate(*row.AppliedDate); err == nil {
			app.AppliedDate = &d
		}
	}
	return app
}

func toDomain(rows []applicationRow) []domain.Application {
	apps := make([]domain.Application, len(rows))
	for i, row := range rows {
		apps[i] = row.toDomain()
	}
	return apps
}

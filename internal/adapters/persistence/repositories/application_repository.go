package repositories

import (
	"context"
	"errors"
	"time"

	"prestamax/internal/adapters/persistence/models"
	"prestamax/internal/core/domain"

	"gorm.io/gorm"
)

// ApplicationRepository handles credit application data access
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create creates a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application by ID scoped to a tenant, with relations
func (r *ApplicationRepository) GetByID(ctx context.Context, tenantID, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Applicant").
		Where("tenant_id = ?", tenantID).
		First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByFolio gets an application by folio scoped to a tenant
func (r *ApplicationRepository) GetByFolio(ctx context.Context, tenantID uint, folio string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Applicant").
		Where("tenant_id = ? AND folio = ?", tenantID, folio).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ApplicationFilter narrows List results
type ApplicationFilter struct {
	Status      string
	ApplicantID uint
	ProductID   uint
}

// List lists a tenant's applications with optional filters and pagination
func (r *ApplicationRepository) List(ctx context.Context, tenantID uint, filter ApplicationFilter, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Application{}).Where("tenant_id = ?", tenantID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ApplicantID != 0 {
		query = query.Where("applicant_id = ?", filter.ApplicantID)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Product").
		Preload("Applicant").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}

// ListByStatus lists a tenant's applications currently in any of the given
// statuses. Used by scheduled jobs.
func (r *ApplicationRepository) ListByStatus(ctx context.Context, tenantID uint, statuses []string) ([]*models.Application, error) {
	var apps []*models.Application
	query := r.db.WithContext(ctx).Where("status IN ?", statuses)
	if tenantID != 0 {
		query = query.Where("tenant_id = ?", tenantID)
	}
	err := query.Order("updated_at ASC").Find(&apps).Error
	return apps, err
}

// RecordOfferResponse writes only the counter-offer response columns. Status
// is never part of the SET clause; the write is guarded by COUNTER_OFFERED so
// a concurrent transition wins and this write fails with ErrStaleStatus.
func (r *ApplicationRepository) RecordOfferResponse(ctx context.Context, app *models.Application, respondedAt time.Time, accepted bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", app.ID, string(domain.StatusCounterOffered)).
		Updates(map[string]interface{}{
			"offer_accepted":     accepted,
			"offer_responded_at": respondedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStaleStatus
	}
	return nil
}

// UpdateStatusWithHistory atomically writes the new status (plus any extra
// column updates) and appends the matching history row. The UPDATE is guarded
// by the expected current status so that a concurrent transition loses
// cleanly with ErrStaleStatus instead of clobbering the row.
func (r *ApplicationRepository) UpdateStatusWithHistory(ctx context.Context, app *models.Application, fromStatus domain.ApplicationStatus, updates map[string]interface{}, history *models.ApplicationStatusHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if updates == nil {
			updates = map[string]interface{}{}
		}
		updates["status"] = history.ToStatus

		result := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", app.ID, string(fromStatus)).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrStaleStatus
		}

		history.ApplicationID = app.ID
		return tx.Create(history).Error
	})
}

// GetHistory gets the full status history of an application, oldest first
func (r *ApplicationRepository) GetHistory(ctx context.Context, applicationID uint) ([]*models.ApplicationStatusHistory, error) {
	var history []*models.ApplicationStatusHistory
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC, id ASC").
		Find(&history).Error
	return history, err
}

// CountByStatus counts a tenant's applications grouped by status
func (r *ApplicationRepository) CountByStatus(ctx context.Context, tenantID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// Delete soft deletes an application
func (r *ApplicationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Application{}, id).Error
}

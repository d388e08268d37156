package repositories

import (
	"context"
	"errors"

	"prestamax/internal/adapters/persistence/models"
	"prestamax/internal/core/domain"

	"gorm.io/gorm"
)

// ApplicantRepository handles applicant data access
type ApplicantRepository struct {
	db *gorm.DB
}

// NewApplicantRepository creates a new applicant repository
func NewApplicantRepository(db *gorm.DB) *ApplicantRepository {
	return &ApplicantRepository{db: db}
}

// Create creates a new applicant
func (r *ApplicantRepository) Create(ctx context.Context, applicant *models.Applicant) error {
	return r.db.WithContext(ctx).Create(applicant).Error
}

// GetByID gets an applicant by ID scoped to a tenant
func (r *ApplicantRepository) GetByID(ctx context.Context, tenantID, id uint) (*models.Applicant, error) {
	var applicant models.Applicant
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&applicant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrApplicantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &applicant, nil
}

// GetByCURP gets an applicant by CURP scoped to a tenant
func (r *ApplicantRepository) GetByCURP(ctx context.Context, tenantID uint, curp string) (*models.Applicant, error) {
	var applicant models.Applicant
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND curp = ?", tenantID, curp).
		First(&applicant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrApplicantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &applicant, nil
}

// Search searches a tenant's applicants by name, email or CURP
func (r *ApplicantRepository) Search(ctx context.Context, tenantID uint, query string, limit int) ([]*models.Applicant, error) {
	var applicants []*models.Applicant
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR curp LIKE ?",
			pattern, pattern, pattern, pattern).
		Limit(limit).
		Find(&applicants).Error
	return applicants, err
}

// Update updates an applicant
func (r *ApplicantRepository) Update(ctx context.Context, applicant *models.Applicant) error {
	return r.db.WithContext(ctx).Save(applicant).Error
}

// Delete soft deletes an applicant
func (r *ApplicantRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Applicant{}, id).Error
}

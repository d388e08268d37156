package services

import (
	"context"

	"prestamax/internal/adapters/persistence/models"
	"prestamax/internal/adapters/persistence/repositories"
	"prestamax/internal/core/domain"
)

// CatalogService manages a tenant's products and applicants
type CatalogService struct {
	productRepo   *repositories.ProductRepository
	applicantRepo *repositories.ApplicantRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(productRepo *repositories.ProductRepository, applicantRepo *repositories.ApplicantRepository) *CatalogService {
	return &CatalogService{
		productRepo:   productRepo,
		applicantRepo: applicantRepo,
	}
}

// CreateProductInput represents product creation input
type CreateProductInput struct {
	Code                  string  `json:"code" validate:"required"`
	Name                  string  `json:"name" validate:"required"`
	Description           string  `json:"description"`
	MinAmount             float64 `json:"min_amount" validate:"required,gt=0"`
	MaxAmount             float64 `json:"max_amount" validate:"required,gt=0"`
	MinTermMonths         int     `json:"min_term_months" validate:"required,gt=0"`
	MaxTermMonths         int     `json:"max_term_months" validate:"required,gt=0"`
	AnnualRate            float64 `json:"annual_rate" validate:"required,gte=0"`
	OpeningCommissionRate float64 `json:"opening_commission_rate" validate:"gte=0"`
	AllowedFrequencies    string  `json:"allowed_frequencies"`
}

// CreateProduct creates a new loan product for a tenant
func (s *CatalogService) CreateProduct(ctx context.Context, tenantID uint, input *CreateProductInput) (*models.Product, error) {
	if input.MinAmount <= 0 || input.MaxAmount < input.MinAmount {
		return nil, &domain.InvalidInputError{Field: "amount_bounds", Reason: "min must be positive and not exceed max"}
	}
	if input.MinTermMonths <= 0 || input.MaxTermMonths < input.MinTermMonths {
		return nil, &domain.InvalidInputError{Field: "term_bounds", Reason: "min must be positive and not exceed max"}
	}
	if input.AnnualRate < 0 || input.OpeningCommissionRate < 0 {
		return nil, &domain.InvalidInputError{Field: "rates", Reason: "must not be negative"}
	}

	frequencies := input.AllowedFrequencies
	if frequencies == "" {
		frequencies = "WEEKLY,BIWEEKLY,MONTHLY"
	}

	product := &models.Product{
		TenantID:              tenantID,
		Code:                  input.Code,
		Name:                  input.Name,
		Description:           input.Description,
		MinAmount:             input.MinAmount,
		MaxAmount:             input.MaxAmount,
		MinTermMonths:         input.MinTermMonths,
		MaxTermMonths:         input.MaxTermMonths,
		AnnualRate:            input.AnnualRate,
		OpeningCommissionRate: input.OpeningCommissionRate,
		AllowedFrequencies:    frequencies,
		IsActive:              true,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeactivateProduct retires a product from new applications
func (s *CatalogService) DeactivateProduct(ctx context.Context, tenantID, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	product.IsActive = false
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// CreateApplicantInput represents applicant creation input
type CreateApplicantInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CURP      string `json:"curp"`
}

// CreateApplicant registers a new applicant for a tenant
func (s *CatalogService) CreateApplicant(ctx context.Context, tenantID uint, input *CreateApplicantInput) (*models.Applicant, error) {
	if input.FirstName == "" {
		return nil, &domain.MissingFieldError{Field: "first_name"}
	}
	if input.LastName == "" {
		return nil, &domain.MissingFieldError{Field: "last_name"}
	}

	applicant := &models.Applicant{
		TenantID:  tenantID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		CURP:      input.CURP,
	}

	if err := s.applicantRepo.Create(ctx, applicant); err != nil {
		return nil, err
	}
	return applicant, nil
}

// GetApplicant gets an applicant by ID
func (s *CatalogService) GetApplicant(ctx context.Context, tenantID, id uint) (*models.Applicant, error) {
	return s.applicantRepo.GetByID(ctx, tenantID, id)
}

// SearchApplicants searches a tenant's applicants
func (s *CatalogService) SearchApplicants(ctx context.Context, tenantID uint, query string, limit int) ([]*models.Applicant, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.applicantRepo.Search(ctx, tenantID, query, limit)
}

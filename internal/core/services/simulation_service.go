package services

import (
	"context"

	"prestamax/internal/adapters/persistence/models"
	"prestamax/internal/core/domain"
)

// SimulationService runs loan simulations against a tenant's products
type SimulationService struct {
	productRepo ProductStore
}

// NewSimulationService creates a new simulation service
func NewSimulationService(productRepo ProductStore) *SimulationService {
	return &SimulationService{productRepo: productRepo}
}

// SimulationRequest represents simulation input from the public API
type SimulationRequest struct {
	ProductID        uint    `json:"product_id" validate:"required"`
	Amount           float64 `json:"amount" validate:"required,gt=0"`
	TermMonths       int     `json:"term_months" validate:"required,gt=0"`
	PaymentFrequency string  `json:"payment_frequency" validate:"required"`
}

// Simulate validates the request against the product's rules and runs the
// calculation engine with the product's pricing
func (s *SimulationService) Simulate(ctx context.Context, tenantID uint, req *SimulationRequest) (*domain.SimulationResult, *models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if !product.IsActive {
		return nil, nil, domain.ErrProductNotFound
	}

	frequency := domain.PaymentFrequency(req.PaymentFrequency)
	if err := validateAgainstProduct(product, req.Amount, req.TermMonths, frequency); err != nil {
		return nil, nil, err
	}

	result, err := domain.CalculateSimulation(domain.SimulationInput{
		Amount:                req.Amount,
		TermMonths:            req.TermMonths,
		Frequency:             frequency,
		AnnualRate:            product.AnnualRate,
		OpeningCommissionRate: product.OpeningCommissionRate,
	})
	if err != nil {
		return nil, nil, err
	}

	return result, product, nil
}

// ListProducts lists a tenant's active products for the simulator UI
func (s *SimulationService) ListProducts(ctx context.Context, tenantID uint) ([]*models.Product, error) {
	return s.productRepo.ListActive(ctx, tenantID)
}

// GetProduct gets one active product
func (s *SimulationService) GetProduct(ctx context.Context, tenantID, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

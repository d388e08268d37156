package handlers

import (
	"prestamax/internal/adapters/http/middleware"
	"prestamax/internal/core/services"
	"prestamax/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SimulationHandler handles public loan simulation endpoints
type SimulationHandler struct {
	simulationService *services.SimulationService
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(simulationService *services.SimulationService) *SimulationHandler {
	return &SimulationHandler{simulationService: simulationService}
}

// SimulateRequest represents simulation request
type SimulateRequest struct {
	ProductID        uint    `json:"product_id"`
	Amount           float64 `json:"amount"`
	TermMonths       int     `json:"term_months"`
	PaymentFrequency string  `json:"payment_frequency"`
}

// Simulate runs a loan simulation
// @Summary Simulate a loan
// @Description Compute payment plan, amortization schedule and CAT for a product
// @Tags Simulations
// @Accept json
// @Produce json
// @Param X-Tenant-ID header int true "Tenant ID"
// @Param body body SimulateRequest true "Simulation terms"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /public/simulations [post]
func (h *SimulationHandler) Simulate(c *fiber.Ctx) error {
	var req SimulateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.ProductID == 0 {
		return response.BadRequest(c, "Product is required")
	}
	if req.Amount <= 0 {
		return response.BadRequest(c, "Amount must be greater than 0")
	}
	if req.TermMonths <= 0 {
		return response.BadRequest(c, "Term must be greater than 0")
	}
	if req.PaymentFrequency == "" {
		return response.BadRequest(c, "Payment frequency is required")
	}

	input := &services.SimulationRequest{
		ProductID:        req.ProductID,
		Amount:           req.Amount,
		TermMonths:       req.TermMonths,
		PaymentFrequency: req.PaymentFrequency,
	}

	result, product, err := h.simulationService.Simulate(c.Context(), middleware.TenantID(c), input)
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Simulation computed successfully", fiber.Map{
		"product": fiber.Map{
			"id":   product.ID,
			"code": product.Code,
			"name": product.Name,
		},
		"simulation": result,
	})
}

// ListProducts lists the tenant's active products
// @Summary List products
// @Description List the tenant's active loan products
// @Tags Simulations
// @Produce json
// @Param X-Tenant-ID header int true "Tenant ID"
// @Success 200 {object} response.Response
// @Router /public/products [get]
func (h *SimulationHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.simulationService.ListProducts(c.Context(), middleware.TenantID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to list products")
	}

	return response.Success(c, "Products retrieved successfully", products)
}

// GetProduct gets one product
// @Summary Get product
// @Description Get one active loan product
// @Tags Simulations
// @Produce json
// @Param X-Tenant-ID header int true "Tenant ID"
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /public/products/{id} [get]
func (h *SimulationHandler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid product ID")
	}

	product, err := h.simulationService.GetProduct(c.Context(), middleware.TenantID(c), uint(id))
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Product retrieved successfully", product)
}

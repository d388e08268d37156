package handlers

import (
	"prestamax/internal/adapters/http/middleware"
	"prestamax/internal/core/services"
	"prestamax/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles product and applicant management endpoints
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateProduct creates a loan product (Admin only)
// @Summary Create product
// @Description Create a new loan product for the tenant (Admin only)
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProductInput true "Product data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /catalog/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if input.Code == "" {
		return response.BadRequest(c, "Product code is required")
	}
	if input.Name == "" {
		return response.BadRequest(c, "Product name is required")
	}

	product, err := h.catalogService.CreateProduct(c.Context(), middleware.TenantID(c), &input)
	if err != nil {
		return applicationError(c, err)
	}

	return response.Created(c, "Product created successfully", product)
}

// DeactivateProduct retires a product (Admin only)
// @Summary Deactivate product
// @Description Stop accepting new applications for a product (Admin only)
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /catalog/products/{id}/deactivate [post]
func (h *CatalogHandler) DeactivateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid product ID")
	}

	product, err := h.catalogService.DeactivateProduct(c.Context(), middleware.TenantID(c), uint(id))
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Product deactivated successfully", product)
}

// CreateApplicant registers an applicant
// @Summary Create applicant
// @Description Register a new applicant for the tenant
// @Tags Catalog
// @Accept json
// @Produce json
// @Param X-Tenant-ID header int true "Tenant ID"
// @Param body body services.CreateApplicantInput true "Applicant data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /public/applicants [post]
func (h *CatalogHandler) CreateApplicant(c *fiber.Ctx) error {
	var input services.CreateApplicantInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	applicant, err := h.catalogService.CreateApplicant(c.Context(), middleware.TenantID(c), &input)
	if err != nil {
		return applicationError(c, err)
	}

	return response.Created(c, "Applicant created successfully", applicant)
}

// GetApplicant gets an applicant by ID
// @Summary Get applicant
// @Description Get an applicant by ID
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Applicant ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applicants/{id} [get]
func (h *CatalogHandler) GetApplicant(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	applicant, err := h.catalogService.GetApplicant(c.Context(), middleware.TenantID(c), uint(id))
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Applicant retrieved successfully", applicant)
}

// SearchApplicants searches applicants
// @Summary Search applicants
// @Description Search the tenant's applicants by name, email or CURP
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search query"
// @Param limit query int false "Max results" default(20)
// @Success 200 {object} response.Response
// @Router /applicants [get]
func (h *CatalogHandler) SearchApplicants(c *fiber.Ctx) error {
	query := c.Query("q")
	limit := c.QueryInt("limit", 20)

	applicants, err := h.catalogService.SearchApplicants(c.Context(), middleware.TenantID(c), query, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to search applicants")
	}

	return response.Success(c, "Applicants retrieved successfully", applicants)
}

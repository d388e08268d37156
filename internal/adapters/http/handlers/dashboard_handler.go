package handlers

import (
	"prestamax/internal/adapters/http/middleware"
	"prestamax/internal/core/services"
	"prestamax/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard returns the tenant's pipeline dashboard
// @Summary Tenant dashboard
// @Description Get pipeline counts, amounts and recent applications for the tenant
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)
	if tenantID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.GetDashboard(c.Context(), tenantID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// GetAnalystWorkload returns per-analyst decision counts
// @Summary Analyst workload
// @Description Get decision counts per staff user (Supervisor or Admin only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/workload [get]
func (h *DashboardHandler) GetAnalystWorkload(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)
	if tenantID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	workload, err := h.dashboardService.GetAnalystWorkload(c.Context(), tenantID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get workload")
	}

	return response.Success(c, "Workload retrieved successfully", workload)
}

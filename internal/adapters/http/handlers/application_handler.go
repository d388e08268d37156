package handlers

import (
	"errors"
	"strconv"

	"prestamax/internal/adapters/http/middleware"
	"prestamax/internal/adapters/persistence/models"
	"prestamax/internal/adapters/persistence/repositories"
	"prestamax/internal/core/domain"
	"prestamax/internal/core/services"
	"prestamax/internal/pkg/pagination"
	"prestamax/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles credit application endpoints
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// CreateApplicationRequest represents create application request
type CreateApplicationRequest struct {
	ProductID           uint    `json:"product_id"`
	ApplicantID         uint    `json:"applicant_id"`
	RequestedAmount     float64 `json:"requested_amount"`
	RequestedTermMonths int     `json:"requested_term_months"`
	PaymentFrequency    string  `json:"payment_frequency"`
}

// TransitionRequest represents a workflow move request
type TransitionRequest struct {
	Target string `json:"target"`
	Notes  string `json:"notes,omitempty"`
}

// DecisionRequest represents reject/cancel request
type DecisionRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ApproveRequest represents approve request with optional term overrides
type ApproveRequest struct {
	Amount       *float64 `json:"amount,omitempty"`
	TermMonths   *int     `json:"term_months,omitempty"`
	InterestRate *float64 `json:"interest_rate,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// CounterOfferRequest represents counter offer request
type CounterOfferRequest struct {
	Amount           *float64 `json:"amount,omitempty"`
	TermMonths       *int     `json:"term_months,omitempty"`
	InterestRate     *float64 `json:"interest_rate,omitempty"`
	PaymentFrequency string   `json:"payment_frequency,omitempty"`
	Reason           string   `json:"reason,omitempty"`
}

// CounterOfferResponseRequest represents the applicant's answer
type CounterOfferResponseRequest struct {
	Accepted *bool `json:"accepted"`
}

// applicationError maps domain errors to HTTP responses
func applicationError(c *fiber.Ctx, err error) error {
	var invalidTransition *domain.InvalidTransitionError
	var invalidInput *domain.InvalidInputError
	var missingField *domain.MissingFieldError

	switch {
	case errors.Is(err, domain.ErrApplicationNotFound):
		return response.NotFound(c, "Application not found")
	case errors.Is(err, domain.ErrProductNotFound):
		return response.NotFound(c, "Product not found")
	case errors.Is(err, domain.ErrApplicantNotFound):
		return response.NotFound(c, "Applicant not found")
	case errors.Is(err, domain.ErrNoCounterOffer):
		return response.BadRequest(c, "Application has no pending counter offer")
	case errors.Is(err, domain.ErrStaleStatus):
		return response.Conflict(c, "Application was modified concurrently, please retry")
	case errors.As(err, &invalidTransition):
		return response.Conflict(c, invalidTransition.Error())
	case errors.As(err, &invalidInput):
		return response.BadRequest(c, invalidInput.Error())
	case errors.As(err, &missingField):
		return response.BadRequest(c, missingField.Error())
	default:
		return response.InternalServerError(c, "Failed to process application")
	}
}

// Create creates a new application
// @Summary Create application
// @Description Create a new credit application in DRAFT
// @Tags Applications
// @Accept json
// @Produce json
// @Param X-Tenant-ID header int true "Tenant ID"
// @Param body body CreateApplicationRequest true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /public/applications [post]
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	var req CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.ProductID == 0 {
		return response.BadRequest(c, "Product is required")
	}
	if req.ApplicantID == 0 {
		return response.BadRequest(c, "Applicant is required")
	}
	if req.RequestedAmount <= 0 {
		return response.BadRequest(c, "Requested amount must be greater than 0")
	}
	if req.RequestedTermMonths <= 0 {
		return response.BadRequest(c, "Requested term must be greater than 0")
	}
	if req.PaymentFrequency == "" {
		return response.BadRequest(c, "Payment frequency is required")
	}

	tenantID := middleware.TenantID(c)
	input := &services.CreateApplicationInput{
		ProductID:           req.ProductID,
		ApplicantID:         req.ApplicantID,
		RequestedAmount:     req.RequestedAmount,
		RequestedTermMonths: req.RequestedTermMonths,
		PaymentFrequency:    req.PaymentFrequency,
	}

	app, err := h.appService.Create(c.Context(), tenantID, input, req.ApplicantID, domain.ActorApplicant)
	if err != nil {
		return applicationError(c, err)
	}

	return response.Created(c, "Application created successfully", app.ToResponse())
}

// Get gets an application by ID
// @Summary Get application
// @Description Get an application by ID
// @Tags Applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.Get(c.Context(), middleware.TenantID(c), uint(id))
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Application retrieved successfully", app.ToResponse())
}

// GetByFolio gets an application by folio
// @Summary Get application by folio
// @Description Get an application by its folio
// @Tags Applications
// @Produce json
// @Param folio path string true "Application folio"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /public/applications/folio/{folio} [get]
func (h *ApplicationHandler) GetByFolio(c *fiber.Ctx) error {
	folio := c.Params("folio")
	if folio == "" {
		return response.BadRequest(c, "Folio is required")
	}

	app, err := h.appService.GetByFolio(c.Context(), middleware.TenantID(c), folio)
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Application retrieved successfully", app.ToResponse())
}

// List lists applications
// @Summary List applications
// @Description List applications with optional status filter and pagination
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := repositories.ApplicationFilter{
		Status: c.Query("status"),
	}
	if applicantID, err := strconv.ParseUint(c.Query("applicant_id", "0"), 10, 32); err == nil {
		filter.ApplicantID = uint(applicantID)
	}
	if productID, err := strconv.ParseUint(c.Query("product_id", "0"), 10, 32); err == nil {
		filter.ProductID = uint(productID)
	}

	apps, total, err := h.appService.List(c.Context(), middleware.TenantID(c), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	items := make([]*models.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		items = append(items, app.ToResponse())
	}

	return response.Success(c, "Applications retrieved successfully", pagination.NewResponse(items, params, total))
}

// GetHistory gets the status history of an application
// @Summary Get application history
// @Description Get the full status history of an application, oldest first
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/history [get]
func (h *ApplicationHandler) GetHistory(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	history, err := h.appService.GetHistory(c.Context(), middleware.TenantID(c), uint(id))
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "History retrieved successfully", history)
}

// Submit submits a DRAFT application
// @Summary Submit application
// @Description Move a DRAFT application to SUBMITTED
// @Tags Applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /public/applications/{id}/submit [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	tenantID := middleware.TenantID(c)
	app, err := h.appService.Get(c.Context(), tenantID, uint(id))
	if err != nil {
		return applicationError(c, err)
	}

	app, err = h.appService.Submit(c.Context(), tenantID, uint(id), app.ApplicantID, domain.ActorApplicant)
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Application submitted successfully", app.ToResponse())
}

// Transition performs a staff workflow move
// @Summary Transition application
// @Description Move an application to another workflow status (staff only)
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/transition [post]
func (h *ApplicationHandler) Transition(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Target == "" {
		return response.BadRequest(c, "Target status is required")
	}

	app, err := h.appService.Transition(
		c.Context(),
		middleware.TenantID(c),
		uint(id),
		domain.ApplicationStatus(req.Target),
		middleware.UserID(c),
		domain.ActorStaff,
		req.Notes,
	)
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Application status updated", app.ToResponse())
}

// Approve approves an application
// @Summary Approve application
// @Description Approve an application and compute its payment plan
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body ApproveRequest false "Approval notes and optional term overrides"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/approve [post]
func (h *ApplicationHandler) Approve(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req ApproveRequest
	c.BodyParser(&req)

	input := &services.ApproveInput{
		Amount:       req.Amount,
		TermMonths:   req.TermMonths,
		InterestRate: req.InterestRate,
		Notes:        req.Notes,
	}

	app, err := h.appService.Approve(c.Context(), middleware.TenantID(c), uint(id), middleware.UserID(c), input)
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Application approved", app.ToResponse())
}

// Reject rejects an application
// @Summary Reject application
// @Description Reject an application with a mandatory reason
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body DecisionRequest true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/reject [post]
func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.appService.Reject(c.Context(), middleware.TenantID(c), uint(id), middleware.UserID(c), req.Reason)
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Application rejected", app.ToResponse())
}

// Cancel cancels an application
// @Summary Cancel application
// @Description Cancel an application from any status that still allows it
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body DecisionRequest false "Cancellation reason"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /public/applications/{id}/cancel [post]
func (h *ApplicationHandler) Cancel(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req DecisionRequest
	c.BodyParser(&req)

	tenantID := middleware.TenantID(c)
	actorID := middleware.UserID(c)
	actorType := domain.ActorStaff
	if actorID == 0 {
		// Public route: the applicant cancels their own application
		app, err := h.appService.Get(c.Context(), tenantID, uint(id))
		if err != nil {
			return applicationError(c, err)
		}
		actorID = app.ApplicantID
		actorType = domain.ActorApplicant
	}

	app, err := h.appService.Cancel(c.Context(), tenantID, uint(id), actorID, actorType, req.Reason)
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Application cancelled", app.ToResponse())
}

// SendCounterOffer records a counter offer
// @Summary Send counter offer
// @Description Propose alternate terms to the applicant (staff only)
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body CounterOfferRequest true "Offered terms"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/counter-offer [post]
func (h *ApplicationHandler) SendCounterOffer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req CounterOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CounterOfferInput{
		Amount:           req.Amount,
		TermMonths:       req.TermMonths,
		InterestRate:     req.InterestRate,
		PaymentFrequency: req.PaymentFrequency,
		Reason:           req.Reason,
	}

	app, err := h.appService.SendCounterOffer(c.Context(), middleware.TenantID(c), uint(id), middleware.UserID(c), input)
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Counter offer sent", app.ToResponse())
}

// RespondToCounterOffer records the applicant's answer
// @Summary Respond to counter offer
// @Description Accept or decline a pending counter offer
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body CounterOfferResponseRequest true "Response"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /public/applications/{id}/counter-offer/respond [post]
func (h *ApplicationHandler) RespondToCounterOffer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req CounterOfferResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Accepted == nil {
		return response.BadRequest(c, "Accepted flag is required")
	}

	tenantID := middleware.TenantID(c)
	app, err := h.appService.Get(c.Context(), tenantID, uint(id))
	if err != nil {
		return applicationError(c, err)
	}

	app, err = h.appService.RespondToCounterOffer(c.Context(), tenantID, uint(id), app.ApplicantID, *req.Accepted)
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Counter offer response recorded", app.ToResponse())
}

// MarkSynced marks an approved application as synced to the core banking system
// @Summary Mark application synced
// @Description Record that an approved application reached the core system (staff only)
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/sync [post]
func (h *ApplicationHandler) MarkSynced(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.MarkSynced(c.Context(), middleware.TenantID(c), uint(id), middleware.UserID(c))
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Application marked as synced", app.ToResponse())
}

// Disburse records the payout of an approved application
// @Summary Disburse application
// @Description Record disbursement of an approved application (staff only)
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/disburse [post]
func (h *ApplicationHandler) Disburse(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.Disburse(c.Context(), middleware.TenantID(c), uint(id), middleware.UserID(c))
	if err != nil {
		return applicationError(c, err)
	}

	return response.Success(c, "Application disbursed", app.ToResponse())
}

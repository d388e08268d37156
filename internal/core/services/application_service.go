package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prestamax/internal/adapters/persistence/models"
	"prestamax/internal/adapters/persistence/repositories"
	"prestamax/internal/core/domain"

	"github.com/google/uuid"
)

// ApplicationService handles the credit application lifecycle
type ApplicationService struct {
	appRepo       ApplicationStore
	productRepo   ProductStore
	applicantRepo ApplicantStore
	publisher     EventPublisher
}

// NewApplicationService creates a new application service
func NewApplicationService(
	appRepo ApplicationStore,
	productRepo ProductStore,
	applicantRepo ApplicantStore,
	publisher EventPublisher,
) *ApplicationService {
	return &ApplicationService{
		appRepo:       appRepo,
		productRepo:   productRepo,
		applicantRepo: applicantRepo,
		publisher:     publisher,
	}
}

// CreateApplicationInput represents create application input
type CreateApplicationInput struct {
	ProductID           uint    `json:"product_id" validate:"required"`
	ApplicantID         uint    `json:"applicant_id" validate:"required"`
	RequestedAmount     float64 `json:"requested_amount" validate:"required,gt=0"`
	RequestedTermMonths int     `json:"requested_term_months" validate:"required,gt=0"`
	PaymentFrequency    string  `json:"payment_frequency" validate:"required"`
}

// CounterOfferInput represents staff counter offer input
type CounterOfferInput struct {
	Amount           *float64 `json:"amount"`
	TermMonths       *int     `json:"term_months"`
	InterestRate     *float64 `json:"interest_rate"`
	PaymentFrequency string   `json:"payment_frequency"`
	Reason           string   `json:"reason"`
}

// ApproveInput carries optional term overrides for an approval. Nil fields
// fall back to the application's effective terms.
type ApproveInput struct {
	Amount       *float64 `json:"amount"`
	TermMonths   *int     `json:"term_months"`
	InterestRate *float64 `json:"interest_rate"`
	Notes        string   `json:"notes"`
}

// Create creates a new application in DRAFT
func (s *ApplicationService) Create(ctx context.Context, tenantID uint, input *CreateApplicationInput, actorID uint, actorType domain.ActorType) (*models.Application, error) {
	product, err := s.productRepo.GetByID(ctx, tenantID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, domain.ErrProductNotFound
	}

	if _, err := s.applicantRepo.GetByID(ctx, tenantID, input.ApplicantID); err != nil {
		return nil, err
	}

	frequency := domain.PaymentFrequency(input.PaymentFrequency)
	if err := validateAgainstProduct(product, input.RequestedAmount, input.RequestedTermMonths, frequency); err != nil {
		return nil, err
	}

	// The indicative quote is stored on the draft; Approve recomputes it
	// against the final terms.
	result, err := domain.CalculateSimulation(domain.SimulationInput{
		Amount:                input.RequestedAmount,
		TermMonths:            input.RequestedTermMonths,
		Frequency:             frequency,
		AnnualRate:            product.AnnualRate,
		OpeningCommissionRate: product.OpeningCommissionRate,
	})
	if err != nil {
		return nil, err
	}
	payment := result.PeriodicPayment.InexactFloat64()
	totalInterest := result.TotalInterest.InexactFloat64()
	cat := result.CAT

	app := &models.Application{
		TenantID:            tenantID,
		Folio:               uuid.New().String(),
		ProductID:           product.ID,
		ApplicantID:         input.ApplicantID,
		ApplicantType:       domain.ApplicantTypeIndividual,
		Status:              string(domain.StatusDraft),
		RequestedAmount:     input.RequestedAmount,
		RequestedTermMonths: input.RequestedTermMonths,
		InterestRate:        product.AnnualRate,
		PaymentFrequency:    string(frequency),
		PeriodicPayment:     &payment,
		TotalInterest:       &totalInterest,
		CAT:                 &cat,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// Get gets an application by ID
func (s *ApplicationService) Get(ctx context.Context, tenantID, id uint) (*models.Application, error) {
	return s.appRepo.GetByID(ctx, tenantID, id)
}

// GetByFolio gets an application by folio
func (s *ApplicationService) GetByFolio(ctx context.Context, tenantID uint, folio string) (*models.Application, error) {
	return s.appRepo.GetByFolio(ctx, tenantID, folio)
}

// List lists applications with filters and pagination
func (s *ApplicationService) List(ctx context.Context, tenantID uint, filter repositories.ApplicationFilter, offset, limit int) ([]*models.Application, int64, error) {
	return s.appRepo.List(ctx, tenantID, filter, offset, limit)
}

// GetHistory gets the status history of an application, oldest first
func (s *ApplicationService) GetHistory(ctx context.Context, tenantID, id uint) ([]*models.ApplicationStatusHistory, error) {
	if _, err := s.appRepo.GetByID(ctx, tenantID, id); err != nil {
		return nil, err
	}
	return s.appRepo.GetHistory(ctx, id)
}

// Submit moves a DRAFT application into SUBMITTED and freezes the applicant
// data it was submitted with
func (s *ApplicationService) Submit(ctx context.Context, tenantID, id uint, actorID uint, actorType domain.ActorType) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	// The snapshot is the audit copy of what the applicant submitted, so a
	// submission without one is refused rather than recorded incomplete.
	applicant, err := s.applicantRepo.GetByID(ctx, tenantID, app.ApplicantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	snapshot, err := json.Marshal(map[string]interface{}{
		"applicant_name":        applicant.FullName(),
		"curp":                  applicant.CURP,
		"email":                 applicant.Email,
		"phone":                 applicant.Phone,
		"requested_amount":      app.RequestedAmount,
		"requested_term_months": app.RequestedTermMonths,
		"payment_frequency":     app.PaymentFrequency,
		"submitted_at":          now,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal applicant snapshot: %w", err)
	}

	updates := map[string]interface{}{
		"submitted_at":  &now,
		"snapshot_data": string(snapshot),
	}
	app.SnapshotData = string(snapshot)

	if err := s.transition(ctx, app, domain.StatusSubmitted, actorID, actorType, "", updates); err != nil {
		return nil, err
	}
	app.SubmittedAt = &now
	return app, nil
}

// Transition performs a generic status change for review workflow moves
// (IN_REVIEW, DOCS_PENDING, CORRECTIONS_PENDING, ANALYST_REVIEW,
// SUPERVISOR_REVIEW). Decision moves have dedicated operations.
func (s *ApplicationService) Transition(ctx context.Context, tenantID, id uint, target domain.ApplicationStatus, actorID uint, actorType domain.ActorType, notes string) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, app, target, actorID, actorType, notes, nil); err != nil {
		return nil, err
	}
	return app, nil
}

// Approve approves an application: terms are fixed (accepted counter offer
// wins over the requested terms), the payment figures and CAT are computed
// and stored, and status becomes APPROVED.
func (s *ApplicationService) Approve(ctx context.Context, tenantID, id uint, staffID uint, input *ApproveInput) (*models.Application, error) {
	if input == nil {
		input = &ApproveInput{}
	}
	notes := input.Notes

	app, err := s.appRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, tenantID, app.ProductID)
	if err != nil {
		return nil, err
	}

	// Start from the effective terms (accepted counter offer or requested),
	// then apply any explicit overrides from the approving staff member.
	amount, termMonths, rate, frequency := app.EffectiveTerms()
	if input.Amount != nil {
		amount = *input.Amount
	}
	if input.TermMonths != nil {
		termMonths = *input.TermMonths
	}
	if input.InterestRate != nil {
		rate = *input.InterestRate
	}
	if amount < product.MinAmount || amount > product.MaxAmount {
		return nil, &domain.InvalidInputError{
			Field:  "amount",
			Reason: fmt.Sprintf("must be between %.2f and %.2f", product.MinAmount, product.MaxAmount),
		}
	}
	if termMonths < product.MinTermMonths || termMonths > product.MaxTermMonths {
		return nil, &domain.InvalidInputError{
			Field:  "term_months",
			Reason: fmt.Sprintf("must be between %d and %d", product.MinTermMonths, product.MaxTermMonths),
		}
	}
	result, err := domain.CalculateSimulation(domain.SimulationInput{
		Amount:                amount,
		TermMonths:            termMonths,
		Frequency:             frequency,
		AnnualRate:            rate,
		OpeningCommissionRate: product.OpeningCommissionRate,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment := result.PeriodicPayment.InexactFloat64()
	totalInterest := result.TotalInterest.InexactFloat64()
	cat := result.CAT

	updates := map[string]interface{}{
		"approved_amount":      amount,
		"approved_term_months": termMonths,
		"approved_rate":        rate,
		"periodic_payment":     payment,
		"total_interest":       totalInterest,
		"cat":                  cat,
		"approved_at":          &now,
	}
	if notes != "" {
		updates["decision_reason"] = notes
	}

	if err := s.transition(ctx, app, domain.StatusApproved, staffID, domain.ActorStaff, notes, updates); err != nil {
		return nil, err
	}

	app.ApprovedAmount = &amount
	app.ApprovedTermMonths = &termMonths
	app.ApprovedRate = &rate
	app.PeriodicPayment = &payment
	app.TotalInterest = &totalInterest
	app.CAT = &cat
	app.ApprovedAt = &now
	app.DecisionReason = notes
	return app, nil
}

// Reject rejects an application. A reason is mandatory.
func (s *ApplicationService) Reject(ctx context.Context, tenantID, id uint, staffID uint, reason string) (*models.Application, error) {
	if reason == "" {
		return nil, &domain.MissingFieldError{Field: "reason"}
	}

	app, err := s.appRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"decision_reason": reason,
		"rejected_at":     &now,
	}
	if err := s.transition(ctx, app, domain.StatusRejected, staffID, domain.ActorStaff, reason, updates); err != nil {
		return nil, err
	}
	app.DecisionReason = reason
	app.RejectedAt = &now
	return app, nil
}

// Cancel cancels an application from any status that still allows it
func (s *ApplicationService) Cancel(ctx context.Context, tenantID, id uint, actorID uint, actorType domain.ActorType, reason string) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"closed_at": &now}
	if reason != "" {
		updates["decision_reason"] = reason
	}
	if err := s.transition(ctx, app, domain.StatusCancelled, actorID, actorType, reason, updates); err != nil {
		return nil, err
	}
	app.ClosedAt = &now
	return app, nil
}

// SendCounterOffer records staff-proposed alternate terms and moves the
// application to COUNTER_OFFERED
func (s *ApplicationService) SendCounterOffer(ctx context.Context, tenantID, id uint, staffID uint, input *CounterOfferInput) (*models.Application, error) {
	if input.Amount == nil && input.TermMonths == nil && input.InterestRate == nil && input.PaymentFrequency == "" {
		return nil, &domain.MissingFieldError{Field: "counter_offer_terms"}
	}
	if input.PaymentFrequency != "" && !domain.PaymentFrequency(input.PaymentFrequency).IsValid() {
		return nil, &domain.InvalidInputError{Field: "payment_frequency", Reason: "unsupported frequency " + input.PaymentFrequency}
	}

	app, err := s.appRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !app.CurrentStatus().IsReviewStatus() {
		return nil, &domain.InvalidTransitionError{From: app.CurrentStatus(), To: domain.StatusCounterOffered}
	}

	product, err := s.productRepo.GetByID(ctx, tenantID, app.ProductID)
	if err != nil {
		return nil, err
	}
	if input.Amount != nil && (*input.Amount < product.MinAmount || *input.Amount > product.MaxAmount) {
		return nil, &domain.InvalidInputError{
			Field:  "amount",
			Reason: fmt.Sprintf("must be between %.2f and %.2f", product.MinAmount, product.MaxAmount),
		}
	}
	if input.TermMonths != nil && (*input.TermMonths < product.MinTermMonths || *input.TermMonths > product.MaxTermMonths) {
		return nil, &domain.InvalidInputError{
			Field:  "term_months",
			Reason: fmt.Sprintf("must be between %d and %d", product.MinTermMonths, product.MaxTermMonths),
		}
	}
	if input.InterestRate != nil && (*input.InterestRate < 0 || *input.InterestRate > 100) {
		return nil, &domain.InvalidInputError{Field: "interest_rate", Reason: "must be between 0 and 100"}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"offer_amount":            input.Amount,
		"offer_term_months":       input.TermMonths,
		"offer_interest_rate":     input.InterestRate,
		"offer_payment_frequency": input.PaymentFrequency,
		"offer_reason":            input.Reason,
		"offer_offered_by":        staffID,
		"offer_offered_at":        &now,
		"offer_responded_at":      nil,
		"offer_accepted":          nil,
	}
	if err := s.transition(ctx, app, domain.StatusCounterOffered, staffID, domain.ActorStaff, input.Reason, updates); err != nil {
		return nil, err
	}

	app.CounterOffer = models.CounterOffer{
		Amount:           input.Amount,
		TermMonths:       input.TermMonths,
		InterestRate:     input.InterestRate,
		PaymentFrequency: input.PaymentFrequency,
		Reason:           input.Reason,
		OfferedBy:        &staffID,
		OfferedAt:        &now,
	}

	if s.publisher != nil {
		offerAmount, offerTerm, offerRate, _ := app.EffectiveTerms()
		if input.Amount != nil {
			offerAmount = *input.Amount
		}
		if input.TermMonths != nil {
			offerTerm = *input.TermMonths
		}
		if input.InterestRate != nil {
			offerRate = *input.InterestRate
		}
		s.publisher.Publish(ctx, domain.CounterOfferSent{
			ApplicationID: app.ID,
			Folio:         app.Folio,
			TenantID:      app.TenantID,
			Amount:        offerAmount,
			TermMonths:    offerTerm,
			InterestRate:  offerRate,
			OfferedBy:     staffID,
			OccurredAt:    now,
		})
	}
	return app, nil
}

// RespondToCounterOffer records the applicant's answer to a pending counter
// offer. Acceptance sends the application back to IN_REVIEW with the offered
// terms armed for approval; a decline stays in COUNTER_OFFERED so staff can
// reconsider, reject or cancel.
func (s *ApplicationService) RespondToCounterOffer(ctx context.Context, tenantID, id uint, applicantID uint, accepted bool) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !app.CounterOffer.IsPending() || app.CurrentStatus() != domain.StatusCounterOffered {
		return nil, domain.ErrNoCounterOffer
	}

	now := time.Now()
	if accepted {
		// Acceptance arms the offered terms and sends the application back
		// to review for the follow-on approval.
		updates := map[string]interface{}{
			"offer_responded_at": &now,
			"offer_accepted":     true,
		}
		if err := s.transition(ctx, app, domain.StatusInReview, applicantID, domain.ActorSystem, "counter offer accepted", updates); err != nil {
			return nil, err
		}
		app.CounterOffer.RespondedAt = &now
		app.CounterOffer.Accepted = &accepted
	} else {
		// A decline records the answer but leaves the application in
		// COUNTER_OFFERED for staff to reconsider or close out. Only the
		// offer columns are written; the status-guarded update loses
		// cleanly if a concurrent transition already moved the row.
		if err := s.appRepo.RecordOfferResponse(ctx, app, now, accepted); err != nil {
			return nil, err
		}
		app.CounterOffer.RespondedAt = &now
		app.CounterOffer.Accepted = &accepted
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, domain.CounterOfferResponded{
			ApplicationID: app.ID,
			Folio:         app.Folio,
			TenantID:      app.TenantID,
			Accepted:      accepted,
			OccurredAt:    now,
		})
	}
	return app, nil
}

// MarkSynced records that an approved application reached the core banking
// system. Staff workflow only.
func (s *ApplicationService) MarkSynced(ctx context.Context, tenantID, id uint, staffID uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, app, domain.StatusSynced, staffID, domain.ActorStaff, "", nil); err != nil {
		return nil, err
	}
	return app, nil
}

// Disburse records the payout of an approved application
func (s *ApplicationService) Disburse(ctx context.Context, tenantID, id uint, staffID uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"disbursed_at": &now}
	if err := s.transition(ctx, app, domain.StatusDisbursed, staffID, domain.ActorStaff, "", updates); err != nil {
		return nil, err
	}
	app.DisbursedAt = &now
	return app, nil
}

// transition is the single write path for status changes: table check,
// staff-only guard, atomic status+history write, in-memory sync, event.
func (s *ApplicationService) transition(ctx context.Context, app *models.Application, target domain.ApplicationStatus, actorID uint, actorType domain.ActorType, notes string, updates map[string]interface{}) error {
	from := app.CurrentStatus()
	if err := domain.ValidateTransition(from, target); err != nil {
		return err
	}
	if target.IsStaffOnly() && actorType == domain.ActorApplicant {
		return &domain.InvalidTransitionError{From: from, To: target}
	}

	history := &models.ApplicationStatusHistory{
		FromStatus:    string(from),
		ToStatus:      string(target),
		ChangedBy:     actorID,
		ChangedByType: string(actorType),
		Notes:         notes,
	}
	if err := s.appRepo.UpdateStatusWithHistory(ctx, app, from, updates, history); err != nil {
		return err
	}

	app.Status = string(target)

	if s.publisher != nil {
		s.publisher.Publish(ctx, domain.StatusChanged{
			ApplicationID: app.ID,
			Folio:         app.Folio,
			TenantID:      app.TenantID,
			From:          from,
			To:            target,
			ActorID:       actorID,
			ActorType:     actorType,
			Notes:         notes,
			OccurredAt:    time.Now(),
		})
	}
	return nil
}

// validateAgainstProduct checks requested terms against the product's rules
func validateAgainstProduct(product *models.Product, amount float64, termMonths int, frequency domain.PaymentFrequency) error {
	if amount < product.MinAmount || amount > product.MaxAmount {
		return &domain.InvalidInputError{Field: "requested_amount", Reason: "outside product limits"}
	}
	if termMonths < product.MinTermMonths || termMonths > product.MaxTermMonths {
		return &domain.InvalidInputError{Field: "requested_term_months", Reason: "outside product limits"}
	}
	if !frequency.IsValid() {
		return &domain.InvalidInputError{Field: "payment_frequency", Reason: "unsupported frequency " + string(frequency)}
	}
	if !product.AllowsFrequency(frequency) {
		return &domain.InvalidInputError{Field: "payment_frequency", Reason: "not allowed for this product"}
	}
	return nil
}

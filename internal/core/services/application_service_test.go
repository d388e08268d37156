package services

import (
	"context"
	"testing"
	"time"

	"prestamax/internal/adapters/persistence/models"
	"prestamax/internal/adapters/persistence/repositories"
	"prestamax/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeApplicationStore is an in-memory ApplicationStore
type fakeApplicationStore struct {
	apps    map[uint]*models.Application
	history []*models.ApplicationStatusHistory
	nextID  uint
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{apps: map[uint]*models.Application{}, nextID: 1}
}

func (f *fakeApplicationStore) Create(_ context.Context, app *models.Application) error {
	app.ID = f.nextID
	f.nextID++
	stored := *app
	f.apps[app.ID] = &stored
	return nil
}

func (f *fakeApplicationStore) GetByID(_ context.Context, tenantID, id uint) (*models.Application, error) {
	app, ok := f.apps[id]
	if !ok || app.TenantID != tenantID {
		return nil, domain.ErrApplicationNotFound
	}
	clone := *app
	return &clone, nil
}

func (f *fakeApplicationStore) GetByFolio(_ context.Context, tenantID uint, folio string) (*models.Application, error) {
	for _, app := range f.apps {
		if app.TenantID == tenantID && app.Folio == folio {
			clone := *app
			return &clone, nil
		}
	}
	return nil, domain.ErrApplicationNotFound
}

func (f *fakeApplicationStore) List(_ context.Context, tenantID uint, filter repositories.ApplicationFilter, offset, limit int) ([]*models.Application, int64, error) {
	var out []*models.Application
	for _, app := range f.apps {
		if app.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		out = append(out, app)
	}
	return out, int64(len(out)), nil
}

func (f *fakeApplicationStore) ListByStatus(_ context.Context, tenantID uint, statuses []string) ([]*models.Application, error) {
	var out []*models.Application
	for _, app := range f.apps {
		if tenantID != 0 && app.TenantID != tenantID {
			continue
		}
		for _, s := range statuses {
			if app.Status == s {
				out = append(out, app)
			}
		}
	}
	return out, nil
}

func (f *fakeApplicationStore) RecordOfferResponse(_ context.Context, app *models.Application, respondedAt time.Time, accepted bool) error {
	stored, ok := f.apps[app.ID]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	if stored.Status != string(domain.StatusCounterOffered) {
		return domain.ErrStaleStatus
	}
	t := respondedAt
	stored.CounterOffer.RespondedAt = &t
	stored.CounterOffer.Accepted = &accepted
	return nil
}

func (f *fakeApplicationStore) UpdateStatusWithHistory(_ context.Context, app *models.Application, fromStatus domain.ApplicationStatus, updates map[string]interface{}, history *models.ApplicationStatusHistory) error {
	stored, ok := f.apps[app.ID]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	if stored.Status != string(fromStatus) {
		return domain.ErrStaleStatus
	}
	stored.Status = history.ToStatus
	applyOfferUpdates(stored, updates)
	history.ApplicationID = app.ID
	f.history = append(f.history, history)
	return nil
}

// applyOfferUpdates mirrors the column writes a real UPDATE would apply for
// the embedded counter offer, which later reads depend on
func applyOfferUpdates(stored *models.Application, updates map[string]interface{}) {
	if v, ok := updates["offer_amount"].(*float64); ok {
		stored.CounterOffer.Amount = v
	}
	if v, ok := updates["offer_term_months"].(*int); ok {
		stored.CounterOffer.TermMonths = v
	}
	if v, ok := updates["offer_interest_rate"].(*float64); ok {
		stored.CounterOffer.InterestRate = v
	}
	if v, ok := updates["offer_payment_frequency"].(string); ok {
		stored.CounterOffer.PaymentFrequency = v
	}
	if v, ok := updates["offer_reason"].(string); ok {
		stored.CounterOffer.Reason = v
	}
	if v, ok := updates["offer_offered_by"].(uint); ok {
		stored.CounterOffer.OfferedBy = &v
	}
	if v, ok := updates["offer_offered_at"].(*time.Time); ok {
		stored.CounterOffer.OfferedAt = v
	}
	if v, ok := updates["offer_responded_at"].(*time.Time); ok {
		stored.CounterOffer.RespondedAt = v
	}
	if v, ok := updates["offer_accepted"].(bool); ok {
		stored.CounterOffer.Accepted = &v
	}
}

func (f *fakeApplicationStore) GetHistory(_ context.Context, applicationID uint) ([]*models.ApplicationStatusHistory, error) {
	var out []*models.ApplicationStatusHistory
	for _, h := range f.history {
		if h.ApplicationID == applicationID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeApplicationStore) CountByStatus(_ context.Context, tenantID uint) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, app := range f.apps {
		if app.TenantID == tenantID {
			counts[app.Status]++
		}
	}
	return counts, nil
}

// fakeProductStore serves a single product
type fakeProductStore struct {
	product *models.Product
}

func (f *fakeProductStore) GetByID(_ context.Context, tenantID, id uint) (*models.Product, error) {
	if f.product == nil || f.product.ID != id || f.product.TenantID != tenantID {
		return nil, domain.ErrProductNotFound
	}
	return f.product, nil
}

func (f *fakeProductStore) ListActive(_ context.Context, tenantID uint) ([]*models.Product, error) {
	if f.product == nil || f.product.TenantID != tenantID {
		return nil, nil
	}
	return []*models.Product{f.product}, nil
}

// fakeApplicantStore serves a single applicant
type fakeApplicantStore struct {
	applicant *models.Applicant
}

func (f *fakeApplicantStore) GetByID(_ context.Context, tenantID, id uint) (*models.Applicant, error) {
	if f.applicant == nil || f.applicant.ID != id || f.applicant.TenantID != tenantID {
		return nil, domain.ErrApplicantNotFound
	}
	return f.applicant, nil
}

func (f *fakeApplicantStore) Create(_ context.Context, applicant *models.Applicant) error {
	f.applicant = applicant
	return nil
}

// recordingPublisher captures published events
type recordingPublisher struct {
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.Event) {
	p.events = append(p.events, event)
}

const testTenant = uint(1)

func testProduct() *models.Product {
	return &models.Product{
		ID:                    1,
		TenantID:              testTenant,
		Code:                  "PERSONAL",
		Name:                  "Crédito Personal",
		MinAmount:             5000,
		MaxAmount:             300000,
		MinTermMonths:         3,
		MaxTermMonths:         48,
		AnnualRate:            45.0,
		OpeningCommissionRate: 3.0,
		AllowedFrequencies:    "WEEKLY,BIWEEKLY,MONTHLY",
		IsActive:              true,
	}
}

func newTestService() (*ApplicationService, *fakeApplicationStore, *recordingPublisher) {
	store := newFakeApplicationStore()
	publisher := &recordingPublisher{}
	svc := NewApplicationService(
		store,
		&fakeProductStore{product: testProduct()},
		&fakeApplicantStore{applicant: &models.Applicant{ID: 7, TenantID: testTenant, FirstName: "María", LastName: "López"}},
		publisher,
	)
	return svc, store, publisher
}

func createTestApplication(t *testing.T, svc *ApplicationService) *models.Application {
	t.Helper()
	app, err := svc.Create(context.Background(), testTenant, &CreateApplicationInput{
		ProductID:           1,
		ApplicantID:         7,
		RequestedAmount:     50000,
		RequestedTermMonths: 12,
		PaymentFrequency:    "MONTHLY",
	}, 7, domain.ActorApplicant)
	require.NoError(t, err)
	return app
}

func TestApplicationService_Create(t *testing.T) {
	svc, store, _ := newTestService()
	app := createTestApplication(t, svc)

	assert.Equal(t, string(domain.StatusDraft), app.Status)
	assert.NotEmpty(t, app.Folio)
	assert.Equal(t, 45.0, app.InterestRate, "rate comes from the product")
	require.NotNil(t, app.PeriodicPayment, "draft carries the indicative quote")
	assert.Greater(t, *app.PeriodicPayment, 50000.0/12.0)
	require.NotNil(t, app.CAT)
	assert.Greater(t, *app.CAT, 45.0)
	assert.Empty(t, store.history, "creation is not a transition")
}

func TestApplicationService_Create_ProductRules(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateApplicationInput
	}{
		{"amount below minimum", CreateApplicationInput{ProductID: 1, ApplicantID: 7, RequestedAmount: 100, RequestedTermMonths: 12, PaymentFrequency: "MONTHLY"}},
		{"amount above maximum", CreateApplicationInput{ProductID: 1, ApplicantID: 7, RequestedAmount: 500000, RequestedTermMonths: 12, PaymentFrequency: "MONTHLY"}},
		{"term too short", CreateApplicationInput{ProductID: 1, ApplicantID: 7, RequestedAmount: 50000, RequestedTermMonths: 1, PaymentFrequency: "MONTHLY"}},
		{"term too long", CreateApplicationInput{ProductID: 1, ApplicantID: 7, RequestedAmount: 50000, RequestedTermMonths: 60, PaymentFrequency: "MONTHLY"}},
		{"bad frequency", CreateApplicationInput{ProductID: 1, ApplicantID: 7, RequestedAmount: 50000, RequestedTermMonths: 12, PaymentFrequency: "DAILY"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := tc.input
			_, err := svc.Create(ctx, testTenant, &input, 7, domain.ActorApplicant)
			var inputErr *domain.InvalidInputError
			assert.ErrorAs(t, err, &inputErr)
		})
	}
}

func TestApplicationService_SubmitRecordsHistory(t *testing.T) {
	svc, store, publisher := newTestService()
	app := createTestApplication(t, svc)

	submitted, err := svc.Submit(context.Background(), testTenant, app.ID, 7, domain.ActorApplicant)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusSubmitted), submitted.Status)
	assert.NotNil(t, submitted.SubmittedAt)
	assert.Contains(t, submitted.SnapshotData, "María López", "applicant data is frozen at submission")

	require.Len(t, store.history, 1)
	h := store.history[0]
	assert.Equal(t, string(domain.StatusDraft), h.FromStatus)
	assert.Equal(t, string(domain.StatusSubmitted), h.ToStatus)
	assert.Equal(t, string(domain.ActorApplicant), h.ChangedByType)

	require.Len(t, publisher.events, 1)
	change, ok := publisher.events[0].(domain.StatusChanged)
	require.True(t, ok)
	assert.Equal(t, domain.StatusDraft, change.From)
	assert.Equal(t, domain.StatusSubmitted, change.To)
}

func TestApplicationService_SubmitRequiresApplicant(t *testing.T) {
	svc, store, _ := newTestService()
	app := createTestApplication(t, svc)

	// The applicant record disappeared between draft and submission: the
	// submit must fail rather than freeze an empty snapshot
	orphaned := NewApplicationService(store, &fakeProductStore{product: testProduct()}, &fakeApplicantStore{}, nil)
	_, err := orphaned.Submit(context.Background(), testTenant, app.ID, 7, domain.ActorApplicant)
	assert.ErrorIs(t, err, domain.ErrApplicantNotFound)

	current, err := svc.Get(context.Background(), testTenant, app.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusDraft), current.Status)
	assert.Empty(t, current.SnapshotData)
	assert.Empty(t, store.history)
}

func TestApplicationService_InvalidTransitionLeavesNoTrace(t *testing.T) {
	svc, store, publisher := newTestService()
	app := createTestApplication(t, svc)

	// DRAFT cannot be approved directly
	_, err := svc.Approve(context.Background(), testTenant, app.ID, 99, nil)
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)

	current, err := svc.Get(context.Background(), testTenant, app.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusDraft), current.Status, "status must be unchanged")
	assert.Empty(t, store.history, "failed transitions leave no history")
	assert.Empty(t, publisher.events)
}

func TestApplicationService_ApproveComputesTerms(t *testing.T) {
	svc, store, _ := newTestService()
	app := createTestApplication(t, svc)
	ctx := context.Background()

	_, err := svc.Submit(ctx, testTenant, app.ID, 7, domain.ActorApplicant)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusInReview, 99, domain.ActorStaff, "")
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, testTenant, app.ID, 99, &ApproveInput{Notes: "clean file"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovedAmount)
	assert.Equal(t, 50000.0, *approved.ApprovedAmount)
	require.NotNil(t, approved.PeriodicPayment)
	assert.Greater(t, *approved.PeriodicPayment, 50000.0/12.0, "payment must cover principal plus interest")
	require.NotNil(t, approved.CAT)
	assert.Greater(t, *approved.CAT, 45.0)
	assert.NotNil(t, approved.ApprovedAt)

	assert.Len(t, store.history, 3, "one history row per transition")
}

func TestApplicationService_RejectRequiresReason(t *testing.T) {
	svc, store, _ := newTestService()
	app := createTestApplication(t, svc)
	ctx := context.Background()

	_, err := svc.Submit(ctx, testTenant, app.ID, 7, domain.ActorApplicant)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusInReview, 99, domain.ActorStaff, "")
	require.NoError(t, err)

	_, err = svc.Reject(ctx, testTenant, app.ID, 99, "")
	var missing *domain.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "reason", missing.Field)

	rejected, err := svc.Reject(ctx, testTenant, app.ID, 99, "insufficient income")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRejected), rejected.Status)
	assert.Equal(t, "insufficient income", rejected.DecisionReason)

	last := store.history[len(store.history)-1]
	assert.Equal(t, "insufficient income", last.Notes)
}

func TestApplicationService_CancelTwiceFails(t *testing.T) {
	svc, _, _ := newTestService()
	app := createTestApplication(t, svc)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, testTenant, app.ID, 7, domain.ActorApplicant, "changed my mind")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, testTenant, app.ID, 7, domain.ActorApplicant, "again")
	var invalid *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
}

func TestApplicationService_ApplicantCannotEnterStaffStates(t *testing.T) {
	svc, _, _ := newTestService()
	app := createTestApplication(t, svc)
	ctx := context.Background()

	_, err := svc.Submit(ctx, testTenant, app.ID, 7, domain.ActorApplicant)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusInReview, 99, domain.ActorStaff, "")
	require.NoError(t, err)

	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusAnalystReview, 7, domain.ActorApplicant, "")
	var invalid *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)

	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusAnalystReview, 99, domain.ActorStaff, "")
	assert.NoError(t, err)
}

func TestApplicationService_CounterOfferFlow(t *testing.T) {
	svc, store, publisher := newTestService()
	app := createTestApplication(t, svc)
	ctx := context.Background()

	_, err := svc.Submit(ctx, testTenant, app.ID, 7, domain.ActorApplicant)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusInReview, 99, domain.ActorStaff, "")
	require.NoError(t, err)

	offerAmount := 30000.0
	offerTerm := 18
	offered, err := svc.SendCounterOffer(ctx, testTenant, app.ID, 99, &CounterOfferInput{
		Amount:     &offerAmount,
		TermMonths: &offerTerm,
		Reason:     "requested amount exceeds risk profile",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCounterOffered), offered.Status)
	assert.True(t, offered.CounterOffer.IsPending())

	// Applicant accepts: back to IN_REVIEW with the offer armed
	responded, err := svc.RespondToCounterOffer(ctx, testTenant, app.ID, 7, true)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusInReview), responded.Status)
	assert.True(t, responded.CounterOffer.IsAccepted())

	// Approval now uses the offered terms
	approved, err := svc.Approve(ctx, testTenant, app.ID, 99, nil)
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedAmount)
	assert.Equal(t, offerAmount, *approved.ApprovedAmount)
	require.NotNil(t, approved.ApprovedTermMonths)
	assert.Equal(t, offerTerm, *approved.ApprovedTermMonths)

	// Submit, review, offer, accept, approve
	assert.Len(t, store.history, 5)

	var sent, respondedEvt bool
	for _, e := range publisher.events {
		switch e.(type) {
		case domain.CounterOfferSent:
			sent = true
		case domain.CounterOfferResponded:
			respondedEvt = true
		}
	}
	assert.True(t, sent)
	assert.True(t, respondedEvt)
}

func TestApplicationService_CounterOfferDeclineStaysForStaff(t *testing.T) {
	svc, store, _ := newTestService()
	app := createTestApplication(t, svc)
	ctx := context.Background()

	_, err := svc.Submit(ctx, testTenant, app.ID, 7, domain.ActorApplicant)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusInReview, 99, domain.ActorStaff, "")
	require.NoError(t, err)

	rate := 52.0
	_, err = svc.SendCounterOffer(ctx, testTenant, app.ID, 99, &CounterOfferInput{InterestRate: &rate})
	require.NoError(t, err)
	historyBefore := len(store.history)

	declined, err := svc.RespondToCounterOffer(ctx, testTenant, app.ID, 7, false)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCounterOffered), declined.Status, "decline leaves the offer state for staff")
	require.NotNil(t, declined.CounterOffer.Accepted)
	assert.False(t, *declined.CounterOffer.Accepted)
	assert.NotNil(t, declined.CounterOffer.RespondedAt)
	assert.Len(t, store.history, historyBefore, "no status change means no history row")

	// A second response is rejected: the offer is no longer pending
	_, err = svc.RespondToCounterOffer(ctx, testTenant, app.ID, 7, true)
	assert.ErrorIs(t, err, domain.ErrNoCounterOffer)

	// Staff can still reject the application outright
	_, err = svc.Reject(ctx, testTenant, app.ID, 99, "offer declined by applicant")
	assert.NoError(t, err)
}

func TestApplicationService_RespondWithoutOffer(t *testing.T) {
	svc, _, _ := newTestService()
	app := createTestApplication(t, svc)

	_, err := svc.RespondToCounterOffer(context.Background(), testTenant, app.ID, 7, true)
	assert.ErrorIs(t, err, domain.ErrNoCounterOffer)
}

func TestApplicationService_CounterOfferNeedsTerms(t *testing.T) {
	svc, _, _ := newTestService()
	app := createTestApplication(t, svc)

	_, err := svc.SendCounterOffer(context.Background(), testTenant, app.ID, 99, &CounterOfferInput{Reason: "no terms"})
	var missing *domain.MissingFieldError
	assert.ErrorAs(t, err, &missing)
}

func TestApplicationService_DisburseAfterApproval(t *testing.T) {
	svc, _, _ := newTestService()
	app := createTestApplication(t, svc)
	ctx := context.Background()

	_, err := svc.Submit(ctx, testTenant, app.ID, 7, domain.ActorApplicant)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusInReview, 99, domain.ActorStaff, "")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, testTenant, app.ID, 99, nil)
	require.NoError(t, err)

	disbursed, err := svc.Disburse(ctx, testTenant, app.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusDisbursed), disbursed.Status)
	assert.NotNil(t, disbursed.DisbursedAt)
}

func TestApplicationService_TenantIsolation(t *testing.T) {
	svc, _, _ := newTestService()
	app := createTestApplication(t, svc)

	_, err := svc.Get(context.Background(), 2, app.ID)
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)

	_, err = svc.Submit(context.Background(), 2, app.ID, 7, domain.ActorApplicant)
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestApplicationService_HistoryIsOrdered(t *testing.T) {
	svc, _, _ := newTestService()
	app := createTestApplication(t, svc)
	ctx := context.Background()

	_, err := svc.Submit(ctx, testTenant, app.ID, 7, domain.ActorApplicant)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusInReview, 99, domain.ActorStaff, "")
	require.NoError(t, err)
	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusDocsPending, 99, domain.ActorStaff, "missing payslips")
	require.NoError(t, err)

	history, err := svc.GetHistory(ctx, testTenant, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Each row's target is the next row's source
	for i := 1; i < len(history); i++ {
		assert.Equal(t, history[i-1].ToStatus, history[i].FromStatus)
	}
	assert.Equal(t, "missing payslips", history[2].Notes)
}

func TestApplicationService_ApproveWithOverrides(t *testing.T) {
	svc, _, _ := newTestService()
	app := createTestApplication(t, svc)
	ctx := context.Background()

	_, err := svc.Submit(ctx, testTenant, app.ID, 7, domain.ActorApplicant)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusInReview, 99, domain.ActorStaff, "")
	require.NoError(t, err)

	amount := 40000.0
	term := 24
	approved, err := svc.Approve(ctx, testTenant, app.ID, 99, &ApproveInput{
		Amount:     &amount,
		TermMonths: &term,
		Notes:      "approved for reduced amount",
	})
	require.NoError(t, err)

	require.NotNil(t, approved.ApprovedAmount)
	assert.Equal(t, amount, *approved.ApprovedAmount)
	require.NotNil(t, approved.ApprovedTermMonths)
	assert.Equal(t, term, *approved.ApprovedTermMonths)
	assert.Equal(t, "approved for reduced amount", approved.DecisionReason)
}

func TestApplicationService_ApproveOverrideOutOfBounds(t *testing.T) {
	svc, _, _ := newTestService()
	app := createTestApplication(t, svc)
	ctx := context.Background()

	_, err := svc.Submit(ctx, testTenant, app.ID, 7, domain.ActorApplicant)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusInReview, 99, domain.ActorStaff, "")
	require.NoError(t, err)

	amount := 1.0
	_, err = svc.Approve(ctx, testTenant, app.ID, 99, &ApproveInput{Amount: &amount})
	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "amount", invalid.Field)
}

func TestApplicationService_CounterOfferOutOfBounds(t *testing.T) {
	svc, _, _ := newTestService()
	app := createTestApplication(t, svc)
	ctx := context.Background()

	_, err := svc.Submit(ctx, testTenant, app.ID, 7, domain.ActorApplicant)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, testTenant, app.ID, domain.StatusInReview, 99, domain.ActorStaff, "")
	require.NoError(t, err)

	cases := []struct {
		name  string
		input *CounterOfferInput
		field string
	}{
		{"amount below product minimum", &CounterOfferInput{Amount: floatPtr(1000)}, "amount"},
		{"term above product maximum", &CounterOfferInput{TermMonths: intPtr(120)}, "term_months"},
		{"rate above 100", &CounterOfferInput{InterestRate: floatPtr(150)}, "interest_rate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SendCounterOffer(ctx, testTenant, app.ID, 99, tc.input)
			var invalid *domain.InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

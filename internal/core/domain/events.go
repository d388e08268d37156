package domain

import "time"

// Event names
const (
	EventStatusChanged         = "STATUS_CHANGED"
	EventCounterOfferSent      = "COUNTER_OFFER_SENT"
	EventCounterOfferResponded = "COUNTER_OFFER_RESPONDED"
)

// Event is a domain event produced by a state-machine operation. The core
// never dispatches events itself; the calling layer owns delivery.
type Event interface {
	EventName() string
}

// StatusChanged is emitted once per successful status transition
type StatusChanged struct {
	ApplicationID uint              `json:"application_id"`
	Folio         string            `json:"folio"`
	TenantID      uint              `json:"tenant_id"`
	From          ApplicationStatus `json:"from_status"`
	To            ApplicationStatus `json:"to_status"`
	ActorID       uint              `json:"actor_id"`
	ActorType     ActorType         `json:"actor_type"`
	Notes         string            `json:"notes,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

func (StatusChanged) EventName() string { return EventStatusChanged }

// CounterOfferSent is emitted when staff propose alternate terms
type CounterOfferSent struct {
	ApplicationID uint      `json:"application_id"`
	Folio         string    `json:"folio"`
	TenantID      uint      `json:"tenant_id"`
	Amount        float64   `json:"amount"`
	TermMonths    int       `json:"term_months"`
	InterestRate  float64   `json:"interest_rate"`
	OfferedBy     uint      `json:"offered_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (CounterOfferSent) EventName() string { return EventCounterOfferSent }

// CounterOfferResponded is emitted when the applicant answers an offer
type CounterOfferResponded struct {
	ApplicationID uint      `json:"application_id"`
	Folio         string    `json:"folio"`
	TenantID      uint      `json:"tenant_id"`
	Accepted      bool      `json:"accepted"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (CounterOfferResponded) EventName() string { return EventCounterOfferResponded }

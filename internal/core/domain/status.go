package domain

// ApplicationStatus represents a credit application's lifecycle status
type ApplicationStatus string

const (
	StatusDraft              ApplicationStatus = "DRAFT"
	StatusSubmitted          ApplicationStatus = "SUBMITTED"
	StatusInReview           ApplicationStatus = "IN_REVIEW"
	StatusDocsPending        ApplicationStatus = "DOCS_PENDING"
	StatusCorrectionsPending ApplicationStatus = "CORRECTIONS_PENDING"
	StatusAnalystReview      ApplicationStatus = "ANALYST_REVIEW"
	StatusSupervisorReview   ApplicationStatus = "SUPERVISOR_REVIEW"
	StatusCounterOffered     ApplicationStatus = "COUNTER_OFFERED"
	StatusApproved           ApplicationStatus = "APPROVED"
	StatusRejected           ApplicationStatus = "REJECTED"
	StatusCancelled          ApplicationStatus = "CANCELLED"
	StatusSynced             ApplicationStatus = "SYNCED"
	StatusDisbursed          ApplicationStatus = "DISBURSED"
	StatusActive             ApplicationStatus = "ACTIVE"
	StatusCompleted          ApplicationStatus = "COMPLETED"
	StatusDefault            ApplicationStatus = "DEFAULT"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []ApplicationStatus{
	StatusDraft,
	StatusSubmitted,
	StatusInReview,
	StatusDocsPending,
	StatusCorrectionsPending,
	StatusAnalystReview,
	StatusSupervisorReview,
	StatusCounterOffered,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
	StatusSynced,
	StatusDisbursed,
	StatusActive,
	StatusCompleted,
	StatusDefault,
}

// allowedTransitions is the canonical transition table. Status moves not
// listed here are denied; terminal statuses have no entry.
var allowedTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusDraft:     {StatusSubmitted, StatusCancelled},
	StatusSubmitted: {StatusInReview, StatusDocsPending, StatusCorrectionsPending, StatusCancelled},
	StatusInReview: {
		StatusDocsPending, StatusCorrectionsPending, StatusAnalystReview,
		StatusCounterOffered, StatusApproved, StatusRejected, StatusCancelled,
	},
	StatusDocsPending:        {StatusInReview, StatusSubmitted, StatusCancelled},
	StatusCorrectionsPending: {StatusInReview, StatusSubmitted, StatusCancelled},
	StatusAnalystReview: {
		StatusSupervisorReview, StatusDocsPending, StatusCorrectionsPending,
		StatusCounterOffered, StatusApproved, StatusRejected, StatusCancelled,
	},
	StatusSupervisorReview: {StatusCounterOffered, StatusApproved, StatusRejected, StatusCancelled},
	StatusCounterOffered:   {StatusInReview, StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:         {StatusSynced, StatusDisbursed, StatusCancelled},
	StatusDisbursed:        {StatusActive, StatusCompleted, StatusDefault},
	StatusActive:           {StatusCompleted, StatusDefault},
}

// staffOnlyStatuses are internal workflow states not shown to applicants
var staffOnlyStatuses = map[ApplicationStatus]bool{
	StatusAnalystReview:    true,
	StatusSupervisorReview: true,
	StatusSynced:           true,
}

// IsValid reports whether s is a known status
func (s ApplicationStatus) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s
func (s ApplicationStatus) IsTerminal() bool {
	return s.IsValid() && len(allowedTransitions[s]) == 0
}

// IsStaffOnly reports whether s is an internal staff-workflow status
func (s ApplicationStatus) IsStaffOnly() bool {
	return staffOnlyStatuses[s]
}

// IsReviewStatus reports whether staff may negotiate terms from s
func (s ApplicationStatus) IsReviewStatus() bool {
	switch s {
	case StatusInReview, StatusAnalystReview, StatusSupervisorReview:
		return true
	}
	return false
}

// AllowedTargets returns the statuses reachable from s in one transition
func (s ApplicationStatus) AllowedTargets() []ApplicationStatus {
	targets := allowedTransitions[s]
	out := make([]ApplicationStatus, len(targets))
	copy(out, targets)
	return out
}

// CanTransitionTo reports whether the table permits current -> target
func (s ApplicationStatus) CanTransitionTo(target ApplicationStatus) bool {
	for _, t := range allowedTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ValidateTransition checks current -> target against the transition table.
// It has no side effects; a denial carries both statuses for error messaging.
func ValidateTransition(current, target ApplicationStatus) error {
	if !current.IsValid() {
		return &InvalidInputError{Field: "status", Reason: "unknown current status " + string(current)}
	}
	if !target.IsValid() {
		return &InvalidInputError{Field: "status", Reason: "unknown target status " + string(target)}
	}
	if !current.CanTransitionTo(target) {
		return &InvalidTransitionError{From: current, To: target}
	}
	return nil
}

// ActorType identifies who performed a status change
type ActorType string

const (
	ActorStaff     ActorType = "staff"
	ActorApplicant ActorType = "applicant"
	ActorSystem    ActorType = "system"
)

// Risk levels assigned during review
const (
	RiskLow      = "LOW"
	RiskMedium   = "MEDIUM"
	RiskHigh     = "HIGH"
	RiskVeryHigh = "VERY_HIGH"
)

// Applicant types. Only INDIVIDUAL is implemented; COMPANY is reserved.
const (
	ApplicantTypeIndividual = "INDIVIDUAL"
	ApplicantTypeCompany    = "COMPANY"
)

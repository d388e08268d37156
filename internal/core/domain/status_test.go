package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition_AllowedMoves(t *testing.T) {
	cases := []struct {
		name string
		from ApplicationStatus
		to   ApplicationStatus
	}{
		{"submit draft", StatusDraft, StatusSubmitted},
		{"cancel draft", StatusDraft, StatusCancelled},
		{"start review", StatusSubmitted, StatusInReview},
		{"request docs from review", StatusInReview, StatusDocsPending},
		{"request corrections from review", StatusInReview, StatusCorrectionsPending},
		{"escalate to analyst", StatusInReview, StatusAnalystReview},
		{"approve from review", StatusInReview, StatusApproved},
		{"reject from review", StatusInReview, StatusRejected},
		{"docs returned", StatusDocsPending, StatusInReview},
		{"corrections returned", StatusCorrectionsPending, StatusInReview},
		{"escalate to supervisor", StatusAnalystReview, StatusSupervisorReview},
		{"supervisor approves", StatusSupervisorReview, StatusApproved},
		{"supervisor rejects", StatusSupervisorReview, StatusRejected},
		{"counter offer from review", StatusInReview, StatusCounterOffered},
		{"counter offer from analyst", StatusAnalystReview, StatusCounterOffered},
		{"counter offer from supervisor", StatusSupervisorReview, StatusCounterOffered},
		{"counter offer accepted", StatusCounterOffered, StatusInReview},
		{"counter offer declined cancels", StatusCounterOffered, StatusCancelled},
		{"approved syncs to core", StatusApproved, StatusSynced},
		{"approved disburses directly", StatusApproved, StatusDisbursed},
		{"disbursed activates", StatusDisbursed, StatusActive},
		{"active completes", StatusActive, StatusCompleted},
		{"active defaults", StatusActive, StatusDefault},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, ValidateTransition(tc.from, tc.to))
			assert.True(t, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestValidateTransition_DeniedMoves(t *testing.T) {
	cases := []struct {
		name string
		from ApplicationStatus
		to   ApplicationStatus
	}{
		{"draft cannot skip to approved", StatusDraft, StatusApproved},
		{"draft cannot skip to review", StatusDraft, StatusInReview},
		{"submitted cannot skip to approved", StatusSubmitted, StatusApproved},
		{"submitted cannot skip to disbursed", StatusSubmitted, StatusDisbursed},
		{"approved cannot go back to review", StatusApproved, StatusInReview},
		{"approved cannot be rejected", StatusApproved, StatusRejected},
		{"rejected is final", StatusRejected, StatusInReview},
		{"cancelled is final", StatusCancelled, StatusSubmitted},
		{"disbursed cannot be cancelled", StatusDisbursed, StatusCancelled},
		{"active cannot be cancelled", StatusActive, StatusCancelled},
		{"completed is final", StatusCompleted, StatusActive},
		{"default is final", StatusDefault, StatusActive},
		{"synced is final", StatusSynced, StatusDisbursed},
		{"no self transition", StatusInReview, StatusInReview},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTransition(tc.from, tc.to)
			require.Error(t, err)

			var invalid *InvalidTransitionError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tc.from, invalid.From)
			assert.Equal(t, tc.to, invalid.To)
		})
	}
}

func TestValidateTransition_UnknownStatuses(t *testing.T) {
	err := ValidateTransition("BOGUS", StatusApproved)
	require.Error(t, err)
	var input *InvalidInputError
	assert.True(t, errors.As(err, &input))

	err = ValidateTransition(StatusInReview, "BOGUS")
	require.Error(t, err)
	assert.True(t, errors.As(err, &input))
}

func TestTerminalStatuses(t *testing.T) {
	terminal := []ApplicationStatus{
		StatusRejected, StatusCancelled, StatusSynced, StatusCompleted, StatusDefault,
	}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "%s should be terminal", s)
		assert.Empty(t, s.AllowedTargets(), "%s should have no targets", s)
	}

	for _, s := range AllStatuses {
		if s.IsTerminal() {
			continue
		}
		assert.NotEmpty(t, s.AllowedTargets(), "%s should have targets", s)
	}
}

func TestTransitionTable_EveryTargetIsValid(t *testing.T) {
	for _, from := range AllStatuses {
		for _, to := range from.AllowedTargets() {
			assert.True(t, to.IsValid(), "target %s of %s must be a known status", to, from)
			assert.NotEqual(t, from, to, "no self transitions")
		}
	}
}

func TestTransitionTable_ApprovedPaths(t *testing.T) {
	// Approval can feed the core-banking sync or go straight to disbursement,
	// and a pre-disbursement cancellation is still possible.
	assert.ElementsMatch(t,
		[]ApplicationStatus{StatusSynced, StatusDisbursed, StatusCancelled},
		StatusApproved.AllowedTargets())
}

func TestTransitionTable_CounterOfferReachable(t *testing.T) {
	sources := 0
	for _, from := range AllStatuses {
		if from.CanTransitionTo(StatusCounterOffered) {
			sources++
			assert.True(t, from.IsReviewStatus(), "only review states may counter offer, got %s", from)
		}
	}
	assert.Equal(t, 3, sources)
}

func TestStaffOnlyStatuses(t *testing.T) {
	assert.True(t, StatusAnalystReview.IsStaffOnly())
	assert.True(t, StatusSupervisorReview.IsStaffOnly())
	assert.True(t, StatusSynced.IsStaffOnly())

	assert.False(t, StatusInReview.IsStaffOnly())
	assert.False(t, StatusApproved.IsStaffOnly())
	assert.False(t, StatusCounterOffered.IsStaffOnly())
}

func TestIsValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.IsValid())
	}
	assert.False(t, ApplicationStatus("PENDING").IsValid())
	assert.False(t, ApplicationStatus("").IsValid())
}

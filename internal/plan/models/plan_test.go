package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransitionTo(t *testing.T) {
	allowed := map[Status]Status{
		StatusDraft:          StatusPendingConsent,
		StatusPendingConsent: StatusActive,
		StatusActive:         StatusArchived,
	}
	all := []Status{StatusDraft, StatusPendingConsent, StatusActive, StatusArchived}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from] == to
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatusEditable(t *testing.T) {
	assert.True(t, StatusDraft.Editable())
	assert.True(t, StatusActive.Editable())
	assert.False(t, StatusPendingConsent.Editable())
	assert.False(t, StatusArchived.Editable())
}

func TestSupportPlanCoversDate(t *testing.T) {
	plan := SupportPlan{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, plan.CoversDate(plan.StartDate), "start date is covered")
	assert.True(t, plan.CoversDate(plan.EndDate), "end date is covered")
	assert.True(t, plan.CoversDate(time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)))
	// Time of day within a covered date does not matter.
	assert.True(t, plan.CoversDate(time.Date(2025, 4, 1, 23, 59, 0, 0, time.UTC)))

	assert.False(t, plan.CoversDate(plan.StartDate.AddDate(0, 0, -1)))
	assert.False(t, plan.CoversDate(plan.EndDate.AddDate(0, 0, 1)))
}

func TestGapReasonValid(t *testing.T) {
	for _, r := range []GapReason{GapReasonHospitalization, GapReasonUserRequest, GapReasonFacilityClosure, GapReasonOther} {
		assert.True(t, r.Valid(), string(r))
	}
	assert.False(t, GapReason("VACATION").Valid())
	assert.False(t, GapReason("").Valid())
}

func TestGoalServiceTypeValid(t *testing.T) {
	for _, st := range []GoalServiceType{GoalServiceHomeSupport, GoalServiceOutsideWork, GoalServiceGroupTraining} {
		assert.True(t, st.Valid(), string(st))
	}
	assert.False(t, GoalServiceType("DAY_TRIP").Valid())
}

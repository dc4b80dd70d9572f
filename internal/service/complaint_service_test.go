package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/events"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

func codeOf(err error) string {
	return apperrors.ToDomainError(err).Code
}

func TestCreateCopiesDepartmentSLA(t *testing.T) {
	h := newHarness()
	c := h.file(t)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, domain.StatusSubmitted, c.Status)
	assert.Equal(t, 24.0, c.SLAHoursAllocated)
	assert.Equal(t, "citizen-1", c.CitizenID)
	assert.Equal(t, int64(1), c.Version)
	require.Len(t, c.History, 1)
	assert.NotEmpty(t, c.History[0].ID)
	assert.Equal(t, []events.EventType{events.EventComplaintCreated}, h.log.types())
}

func TestCreateValidation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.complaints.Create(ctx, citizen, ComplaintCreateInput{DepartmentID: "nope", WardID: "w", Title: "x"})
	assert.Equal(t, apperrors.CodeNotFound, codeOf(err))

	_, err = h.complaints.Create(ctx, citizen, ComplaintCreateInput{DepartmentID: "retired", WardID: "w", Title: "x"})
	assert.Equal(t, apperrors.CodeValidation, codeOf(err))

	_, err = h.complaints.Create(ctx, ward, ComplaintCreateInput{DepartmentID: "roads", WardID: "w", Title: "x"})
	assert.Equal(t, apperrors.CodeForbidden, codeOf(err))

	_, err = h.complaints.Create(ctx, citizen, ComplaintCreateInput{DepartmentID: "roads", WardID: "w"})
	assert.Equal(t, apperrors.CodeValidation, codeOf(err))
}

func TestFullLifecycle(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	c := h.file(t)

	h.clock.Advance(time.Hour)
	c, err := h.assignments.Assign(ctx, c.ID, "officer-roads-1", ward)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, c.Status)

	steps := []struct {
		to    domain.ComplaintStatus
		actor domain.Actor
	}{
		{domain.StatusInProgress, deptActor},
		{domain.StatusResolved, deptActor},
		{domain.StatusApproved, ward},
		{domain.StatusClosed, admin},
	}
	for _, step := range steps {
		h.clock.Advance(time.Hour)
		c, err = h.complaints.Transition(ctx, c.ID, step.to, step.actor, "")
		require.NoError(t, err, step.to)
		assert.Equal(t, step.to, c.Status)
	}

	require.NotNil(t, c.ResolvedAt)
	require.NotNil(t, c.ClosedAt)
	assert.Equal(t, t0.Add(3*time.Hour), *c.ResolvedAt)
	assert.Equal(t, int64(6), c.Version)

	history, err := h.complaints.History(ctx, c.ID)
	require.NoError(t, err)
	var statuses []domain.ComplaintStatus
	for _, e := range history {
		statuses = append(statuses, e.Status)
	}
	assert.Equal(t, []domain.ComplaintStatus{
		domain.StatusSubmitted, domain.StatusAssigned, domain.StatusInProgress,
		domain.StatusResolved, domain.StatusApproved, domain.StatusClosed,
	}, statuses)

	assessment, err := h.complaints.SLA(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, assessment.Frozen)
	assert.Equal(t, domain.SLAMet, assessment.Outcome)
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	c := h.file(t)

	_, err := h.complaints.Transition(ctx, c.ID, domain.StatusClosed, admin, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = h.complaints.Transition(ctx, c.ID, domain.StatusEscalated, admin, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = h.complaints.Transition(ctx, c.ID, domain.StatusRejected, deptActor, "duplicate")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorizedTransition)

	_, err = h.complaints.Transition(ctx, "missing", domain.StatusRejected, ward, "")
	assert.Equal(t, apperrors.CodeNotFound, codeOf(err))

	stored, err := h.store.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, stored.Status)
	assert.Equal(t, int64(1), stored.Version)
}

func TestTransitionReportsConcurrentModification(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	c := h.file(t)

	h.store.beforeSwap = func() {
		h.store.mu.Lock()
		defer h.store.mu.Unlock()
		row := h.store.rows[c.ID]
		row.Version++
		h.store.rows[c.ID] = row
	}
	_, err := h.complaints.Transition(ctx, c.ID, domain.StatusRejected, ward, "spam")
	assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
	assert.True(t, apperrors.IsRetryable(err))

	c, err = h.complaints.Transition(ctx, c.ID, domain.StatusRejected, ward, "spam")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, c.Status)
	assert.NotNil(t, c.RejectedAt)
}

func TestMutationPersistsEscalation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	c := h.file(t)
	c, err := h.assignments.Assign(ctx, c.ID, "officer-roads-1", ward)
	require.NoError(t, err)
	assert.False(t, c.Escalated)

	h.clock.Advance(25 * time.Hour)
	c, err = h.complaints.Transition(ctx, c.ID, domain.StatusInProgress, deptActor, "")
	require.NoError(t, err)
	assert.True(t, c.Escalated)
	assert.Contains(t, h.log.types(), events.EventComplaintEscalated)

	tags, err := h.complaints.Alerts(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.AlertTag{domain.AlertSLABreached, domain.AlertEscalated}, tags)

	c, err = h.complaints.Transition(ctx, c.ID, domain.StatusResolved, deptActor, "patched")
	require.NoError(t, err)
	assert.True(t, c.Escalated)
}

func TestSLAScenario(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	c := h.file(t)

	cases := []struct {
		at     time.Duration
		status domain.SLAStatus
	}{
		{13 * time.Hour, domain.SLAWarning},
		{19 * time.Hour, domain.SLACritical},
		{25 * time.Hour, domain.SLABreached},
	}
	for _, tc := range cases {
		h.clock.Set(t0.Add(tc.at))
		a, err := h.complaints.SLA(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.status, a.Status, tc.at)
	}

	view, err := h.complaints.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, view.Complaint.Escalated)
	assert.Equal(t, []domain.AlertTag{domain.AlertUnassignedGap, domain.AlertSLABreached, domain.AlertEscalated}, view.Alerts)

	stored, err := h.store.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, stored.Escalated, "reads do not persist escalation")
}

func TestCitizenVisibility(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	c := h.file(t)

	view, err := h.complaints.GetForCitizen(ctx, citizen, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, view.Complaint.ID)

	_, err = h.complaints.GetForCitizen(ctx, stranger, c.ID)
	assert.Equal(t, apperrors.CodeNotFound, codeOf(err))

	list, err := h.complaints.ListForCitizen(ctx, citizen, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = h.complaints.ListForCitizen(ctx, stranger, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHistoryUnknownComplaint(t *testing.T) {
	h := newHarness()
	_, err := h.complaints.History(context.Background(), "missing")
	assert.Equal(t, apperrors.CodeNotFound, codeOf(err))
}

func TestOfficerHolds(t *testing.T) {
	assigned := "officer-roads-1"
	c := domain.Complaint{ID: "c-1", DepartmentID: "roads", WardID: "ward-7", AssignedOfficerID: &assigned}
	unassigned := domain.Complaint{ID: "c-2", DepartmentID: "roads", WardID: "ward-7"}

	cases := []struct {
		name      string
		complaint domain.Complaint
		officer   domain.Officer
		holds     bool
	}{
		{"admin anywhere", c, domain.Officer{ID: "a", Role: domain.OfficerRoleAdmin, DepartmentID: "water"}, true},
		{"ward officer of the ward", c, domain.Officer{ID: "w", Role: domain.OfficerRoleWard, DepartmentID: "roads", WardID: "ward-7"}, true},
		{"ward officer elsewhere", c, domain.Officer{ID: "w", Role: domain.OfficerRoleWard, DepartmentID: "roads", WardID: "ward-9"}, false},
		{"ward officer other department", c, domain.Officer{ID: "w", Role: domain.OfficerRoleWard, DepartmentID: "water", WardID: "ward-7"}, false},
		{"assigned department officer", c, domain.Officer{ID: "officer-roads-1", Role: domain.OfficerRoleDepartment, DepartmentID: "roads"}, true},
		{"colleague of assignee", c, domain.Officer{ID: "officer-roads-2", Role: domain.OfficerRoleDepartment, DepartmentID: "roads"}, false},
		{"department officer before assignment", unassigned, domain.Officer{ID: "officer-roads-1", Role: domain.OfficerRoleDepartment, DepartmentID: "roads"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := officerHolds(tc.complaint, tc.officer)
			if tc.holds {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrUnauthorizedTransition)
		})
	}
}

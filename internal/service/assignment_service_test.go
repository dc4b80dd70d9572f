package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/events"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

func TestEligibleOfficers(t *testing.T) {
	h := newHarness()
	c := h.file(t)

	officers, err := h.assignments.EligibleOfficers(context.Background(), c.ID)
	require.NoError(t, err)
	var ids []string
	for _, o := range officers {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"officer-roads-1", "officer-roads-2"}, ids)
}

func TestAssignRules(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	c := h.file(t)

	_, err := h.assignments.Assign(ctx, c.ID, "officer-water-1", ward)
	assert.ErrorIs(t, err, apperrors.ErrDepartmentMismatch)

	_, err = h.assignments.Assign(ctx, c.ID, "ward-1", ward)
	assert.ErrorIs(t, err, apperrors.ErrIneligibleOfficer)

	_, err = h.assignments.Assign(ctx, c.ID, "officer-roads-off", ward)
	assert.ErrorIs(t, err, apperrors.ErrIneligibleOfficer)

	_, err = h.assignments.Assign(ctx, c.ID, "ghost", ward)
	assert.Equal(t, apperrors.CodeNotFound, codeOf(err))

	_, err = h.assignments.Assign(ctx, c.ID, "officer-roads-1", deptActor)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorizedTransition)

	c, err = h.assignments.Assign(ctx, c.ID, "officer-roads-1", ward)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, c.Status)
	assert.Equal(t, "officer-roads-1", *c.AssignedOfficerID)
	version := c.Version

	again, err := h.assignments.Assign(ctx, c.ID, "officer-roads-1", admin)
	require.NoError(t, err)
	assert.Equal(t, version, again.Version)
	assert.Len(t, again.History, len(c.History))

	c, err = h.assignments.Assign(ctx, c.ID, "officer-roads-2", admin)
	require.NoError(t, err)
	assert.Equal(t, "officer-roads-2", *c.AssignedOfficerID)
	assert.Equal(t, domain.StatusAssigned, c.Status)

	c, err = h.complaints.Transition(ctx, c.ID, domain.StatusInProgress, deptActor, "")
	require.NoError(t, err)
	_, err = h.assignments.Assign(ctx, c.ID, "officer-roads-1", ward)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyAssigned)

	assigned := 0
	for _, et := range h.log.types() {
		if et == events.EventComplaintAssigned {
			assigned++
		}
	}
	assert.Equal(t, 2, assigned)
}

// Package lifecycle validates and applies complaint status transitions.
//
// Every function is pure: the input complaint is never modified and the
// returned value carries its own copy of the history slice.
package lifecycle

import (
	"strings"
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

var allowedTransitions = map[domain.ComplaintStatus][]domain.ComplaintStatus{
	domain.StatusSubmitted:       {domain.StatusAssigned, domain.StatusRejected},
	domain.StatusAssigned:        {domain.StatusInProgress, domain.StatusRejected},
	domain.StatusInProgress:      {domain.StatusOnHold, domain.StatusResolved, domain.StatusRejected},
	domain.StatusOnHold:          {domain.StatusInProgress, domain.StatusRejected},
	domain.StatusResolved:        {domain.StatusPendingApproval, domain.StatusApproved},
	domain.StatusPendingApproval: {domain.StatusApproved},
	domain.StatusApproved:        {domain.StatusClosed},
	domain.StatusReopened:        {domain.StatusAssigned, domain.StatusSubmitted},
	domain.StatusClosed:          {},
	domain.StatusRejected:        {},
}

var officerRoles = []domain.Role{domain.RoleWardOfficer, domain.RoleDepartmentOfficer, domain.RoleAdmin}

// roleGates lists the roles allowed to move a complaint into a status.
// Statuses missing from the map are not gated.
var roleGates = map[domain.ComplaintStatus][]domain.Role{
	domain.StatusAssigned:        {domain.RoleWardOfficer, domain.RoleAdmin, domain.RoleSystem},
	domain.StatusInProgress:      officerRoles,
	domain.StatusOnHold:          officerRoles,
	domain.StatusResolved:        officerRoles,
	domain.StatusPendingApproval: officerRoles,
	domain.StatusApproved:        {domain.RoleWardOfficer, domain.RoleAdmin},
	domain.StatusRejected:        {domain.RoleWardOfficer, domain.RoleAdmin},
	domain.StatusClosed:          {domain.RoleAdmin},
}

// Successors returns the statuses reachable from s in one step.
func Successors(s domain.ComplaintStatus) []domain.ComplaintStatus {
	next := allowedTransitions[s]
	out := make([]domain.ComplaintStatus, len(next))
	copy(out, next)
	return out
}

// IsValidTransition reports whether from -> to is an enumerated edge.
func IsValidTransition(from, to domain.ComplaintStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// RoleAllowed reports whether role may move a complaint into status.
func RoleAllowed(status domain.ComplaintStatus, role domain.Role) bool {
	allowed, gated := roleGates[status]
	if !gated {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Transition moves c to requested on behalf of actor.
//
// REOPENED and ESCALATED are never accepted here: reopening goes through the
// reopen policy and escalation is a flag owned by the SLA engine.
func Transition(c domain.Complaint, requested domain.ComplaintStatus, actor domain.Actor, remarks string, now time.Time) (domain.Complaint, error) {
	details := map[string]any{"from": c.Status, "to": requested}

	if requested == domain.StatusReopened || requested == domain.StatusEscalated {
		return c, apperrors.ErrInvalidTransition.With(details)
	}
	if !IsValidTransition(c.Status, requested) {
		return c, apperrors.ErrInvalidTransition.With(details)
	}
	if requested == domain.StatusAssigned && !c.IsAssigned() {
		details["reason"] = "no officer attached"
		return c, apperrors.ErrInvalidTransition.With(details)
	}
	if !RoleAllowed(requested, actor.Role) {
		details["role"] = actor.Role
		return c, apperrors.ErrUnauthorizedTransition.With(details)
	}
	return apply(c, requested, actor, remarks, now), nil
}

func apply(c domain.Complaint, to domain.ComplaintStatus, actor domain.Actor, remarks string, now time.Time) domain.Complaint {
	next := c.Clone()
	next.Status = to
	next.UpdatedAt = now
	switch to {
	case domain.StatusResolved:
		if next.ResolvedAt == nil {
			next.ResolvedAt = timePtr(now)
		}
	case domain.StatusClosed:
		if next.ClosedAt == nil {
			next.ClosedAt = timePtr(now)
		}
	case domain.StatusRejected:
		if next.RejectedAt == nil {
			next.RejectedAt = timePtr(now)
		}
	}
	return Record(next, to, actor, remarks, now)
}

// Record appends one history entry and returns the updated copy.
func Record(c domain.Complaint, status domain.ComplaintStatus, actor domain.Actor, remarks string, now time.Time) domain.Complaint {
	history := make([]domain.StatusHistoryEntry, len(c.History), len(c.History)+1)
	copy(history, c.History)
	c.History = append(history, domain.StatusHistoryEntry{
		ComplaintID: c.ID,
		Status:      status,
		ChangedBy:   actor,
		Remarks:     strings.TrimSpace(remarks),
		ChangedAt:   now,
	})
	return c
}

// NewComplaintInput describes intake data for a new complaint.
type NewComplaintInput struct {
	ID           string
	CitizenID    string
	Title        string
	Description  string
	Priority     domain.Priority
	DepartmentID string
	WardID       string
}

// NewComplaint builds a SUBMITTED complaint with the department's SLA hours
// copied in. slaHours must be positive.
func NewComplaint(input NewComplaintInput, slaHours float64, now time.Time) (domain.Complaint, error) {
	if slaHours <= 0 {
		return domain.Complaint{}, apperrors.NewValidationError("department SLA hours must be positive", map[string]any{"sla_hours": slaHours})
	}
	if input.DepartmentID == "" || input.WardID == "" {
		return domain.Complaint{}, apperrors.NewValidationError("department_id and ward_id required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return domain.Complaint{}, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}
	c := domain.Complaint{
		ID:                input.ID,
		CitizenID:         input.CitizenID,
		Title:             strings.TrimSpace(input.Title),
		Description:       strings.TrimSpace(input.Description),
		Status:            domain.StatusSubmitted,
		Priority:          priority,
		DepartmentID:      input.DepartmentID,
		WardID:            input.WardID,
		CreatedAt:         now,
		UpdatedAt:         now,
		SLAHoursAllocated: slaHours,
	}
	actor := domain.Actor{ID: input.CitizenID, Role: domain.RoleCitizen}
	return Record(c, domain.StatusSubmitted, actor, "complaint submitted", now), nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}

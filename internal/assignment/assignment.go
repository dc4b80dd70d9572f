// Package assignment decides which officers may take a complaint and applies
// assignments.
package assignment

import (
	"fmt"
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/lifecycle"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// EligibleOfficers returns the department officers of the complaint's
// department, in input order.
func EligibleOfficers(c domain.Complaint, officers []domain.Officer) []domain.Officer {
	eligible := make([]domain.Officer, 0, len(officers))
	for _, o := range officers {
		if isEligible(c, o) {
			eligible = append(eligible, o)
		}
	}
	return eligible
}

func isEligible(c domain.Complaint, o domain.Officer) bool {
	return o.DepartmentID == c.DepartmentID && o.Role == domain.OfficerRoleDepartment
}

func canAssign(role domain.Role) bool {
	return role == domain.RoleWardOfficer || role == domain.RoleAdmin
}

// Assign attaches officer to c. From SUBMITTED the complaint also moves to
// ASSIGNED in the same returned value. Reassigning the current officer is a
// no-op; replacing an officer is only allowed while SUBMITTED or ASSIGNED.
func Assign(c domain.Complaint, officer domain.Officer, actor domain.Actor, now time.Time) (domain.Complaint, error) {
	details := map[string]any{"complaint_id": c.ID, "officer_id": officer.ID}

	// A cross-department target is a DepartmentMismatch whoever asks.
	if officer.DepartmentID != c.DepartmentID {
		details["complaint_department_id"] = c.DepartmentID
		details["officer_department_id"] = officer.DepartmentID
		return c, apperrors.ErrDepartmentMismatch.With(details)
	}
	if !canAssign(actor.Role) {
		details["role"] = actor.Role
		return c, apperrors.ErrUnauthorizedTransition.With(details)
	}
	if officer.Role != domain.OfficerRoleDepartment {
		details["officer_role"] = officer.Role
		return c, apperrors.ErrIneligibleOfficer.With(details)
	}

	sameOfficer := c.IsAssigned() && *c.AssignedOfficerID == officer.ID
	if sameOfficer {
		return c, nil
	}
	if c.IsAssigned() && c.Status != domain.StatusSubmitted && c.Status != domain.StatusAssigned {
		details["current_officer_id"] = *c.AssignedOfficerID
		return c, apperrors.ErrAlreadyAssigned.With(details)
	}
	if !c.Status.IsActive() {
		details["status"] = c.Status
		return c, apperrors.ErrInvalidTransition.With(details)
	}

	next := c.Clone()
	officerID := officer.ID
	next.AssignedOfficerID = &officerID
	next.UpdatedAt = now

	if next.Status == domain.StatusSubmitted {
		return lifecycle.Transition(next, domain.StatusAssigned, actor, assignRemarks(c, officer), now)
	}
	return lifecycle.Record(next, next.Status, actor, assignRemarks(c, officer), now), nil
}

func assignRemarks(c domain.Complaint, officer domain.Officer) string {
	if c.IsAssigned() {
		return fmt.Sprintf("reassigned from officer %s to officer %s", *c.AssignedOfficerID, officer.ID)
	}
	return fmt.Sprintf("assigned to officer %s", officer.ID)
}

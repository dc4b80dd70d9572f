// Package alerts derives alert tags from a complaint and its SLA assessment.
package alerts

import "github.com/civicdesk/complaint-service/internal/domain"

// Classify returns the alert tags for c in a stable order. It has no side
// effects; callers decide how to surface the tags.
func Classify(c domain.Complaint, assessment domain.SLAAssessment) []domain.AlertTag {
	tags := make([]domain.AlertTag, 0, 3)

	if c.Status == domain.StatusSubmitted && !c.IsAssigned() {
		tags = append(tags, domain.AlertUnassignedGap)
	}
	if !assessment.Frozen && c.Status.IsActive() {
		switch assessment.Status {
		case domain.SLAWarning:
			tags = append(tags, domain.AlertSLAWarning)
		case domain.SLACritical:
			tags = append(tags, domain.AlertSLACritical)
		case domain.SLABreached:
			tags = append(tags, domain.AlertSLABreached)
		}
	}
	if c.Escalated && c.Status.IsActive() {
		tags = append(tags, domain.AlertEscalated)
	}
	switch c.Status {
	case domain.StatusPendingApproval:
		tags = append(tags, domain.AlertAwaitingApproval)
	case domain.StatusApproved:
		tags = append(tags, domain.AlertPendingClosure)
	}
	return tags
}

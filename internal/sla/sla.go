// Package sla computes deadline classification and escalation for complaints.
package sla

import (
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
)

const (
	criticalRatio = 0.25
	warningRatio  = 0.50
)

// Deadline is CreatedAt plus the allocated hours as wall-clock time.
func Deadline(c domain.Complaint) time.Time {
	return c.CreatedAt.Add(hoursToDuration(c.SLAHoursAllocated))
}

// Assess classifies c at now. When the complaint carries a completion
// timestamp the clock is frozen there and advancing now changes nothing.
func Assess(c domain.Complaint, now time.Time) domain.SLAAssessment {
	until := now
	frozen := false
	if completed := c.CompletedAt(); completed != nil {
		until = *completed
		frozen = true
	}

	elapsed := until.Sub(c.CreatedAt).Hours()
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := c.SLAHoursAllocated - elapsed

	out := domain.SLAAssessment{
		ElapsedHours:   elapsed,
		RemainingHours: remaining,
		Status:         classify(remaining, c.SLAHoursAllocated),
		Deadline:       Deadline(c),
		Frozen:         frozen,
	}
	if frozen {
		out.Outcome = domain.SLAMet
		if remaining <= 0 {
			out.Outcome = domain.SLAMissed
		}
	}
	return out
}

func classify(remaining, allocated float64) domain.SLAStatus {
	switch {
	case remaining <= 0:
		return domain.SLABreached
	case remaining <= criticalRatio*allocated:
		return domain.SLACritical
	case remaining <= warningRatio*allocated:
		return domain.SLAWarning
	default:
		return domain.SLAOnTrack
	}
}

// Evaluate assesses c and raises the escalation flag the first time an open
// clock reads BREACHED on active work. The flag is never cleared here.
// escalatedNow is true only for the call that flipped it.
func Evaluate(c domain.Complaint, now time.Time) (domain.Complaint, domain.SLAAssessment, bool) {
	assessment := Assess(c, now)
	if c.Escalated || !ShouldEscalate(c, assessment) {
		return c, assessment, false
	}
	next := c.Clone()
	next.Escalated = true
	return next, assessment, true
}

// ShouldEscalate reports whether assessment calls for escalating c.
func ShouldEscalate(c domain.Complaint, assessment domain.SLAAssessment) bool {
	return !assessment.Frozen && assessment.Status == domain.SLABreached && c.Status.IsActive()
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

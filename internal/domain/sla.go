package domain

import "time"

// SLAStatus is the timing classification of a complaint.
type SLAStatus string

const (
	SLAOnTrack  SLAStatus = "ON_TRACK"
	SLAWarning  SLAStatus = "WARNING"
	SLACritical SLAStatus = "CRITICAL"
	SLABreached SLAStatus = "BREACHED"
)

// SLAOutcome is reported once the clock has closed.
type SLAOutcome string

const (
	SLAMet    SLAOutcome = "MET"
	SLAMissed SLAOutcome = "MISSED"
)

// SLAAssessment is derived from (Complaint, now) and never persisted.
type SLAAssessment struct {
	ElapsedHours   float64
	RemainingHours float64
	Status         SLAStatus
	Deadline       time.Time
	// Frozen is true when elapsed time was measured to a completion timestamp.
	Frozen  bool
	Outcome SLAOutcome
}

// AlertTag is a human-facing alert category.
type AlertTag string

const (
	AlertUnassignedGap    AlertTag = "UNASSIGNED_GAP"
	AlertSLAWarning       AlertTag = "SLA_WARNING"
	AlertSLACritical      AlertTag = "SLA_CRITICAL"
	AlertSLABreached      AlertTag = "SLA_BREACHED"
	AlertEscalated        AlertTag = "ESCALATED"
	AlertAwaitingApproval AlertTag = "AWAITING_APPROVAL"
	AlertPendingClosure   AlertTag = "PENDING_CLOSURE"
)

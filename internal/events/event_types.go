package events

import (
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated           EventType = "complaint_created"
	EventComplaintStatusChanged     EventType = "complaint_status_changed"
	EventComplaintAssigned          EventType = "complaint_assigned"
	EventComplaintReopened          EventType = "complaint_reopened"
	EventComplaintFeedbackSubmitted EventType = "complaint_feedback_submitted"
	EventComplaintEscalated         EventType = "complaint_escalated"
	EventSLAAlertRaised             EventType = "sla_alert_raised"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
}

// ActorFrom converts a domain actor.
func ActorFrom(a domain.Actor) Actor {
	return Actor{ID: a.ID, Role: a.Role}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	CitizenID         string          `json:"citizen_id"`
	DepartmentID      string          `json:"department_id"`
	WardID            string          `json:"ward_id"`
	Priority          domain.Priority `json:"priority"`
	Title             string          `json:"title"`
	SLAHoursAllocated float64         `json:"sla_hours_allocated"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Remarks   string                 `json:"remarks,omitempty"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	PreviousOfficerID *string `json:"previous_officer_id,omitempty"`
	OfficerID         string  `json:"officer_id"`
	DepartmentID      string  `json:"department_id"`
}

// ComplaintReopenedPayload payload.
type ComplaintReopenedPayload struct {
	Reason      string                 `json:"reason"`
	ReopenCount int                    `json:"reopen_count"`
	ReenteredAt domain.ComplaintStatus `json:"reentered_at"`
}

// ComplaintFeedbackPayload payload.
type ComplaintFeedbackPayload struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ComplaintEscalatedPayload payload.
type ComplaintEscalatedPayload struct {
	DepartmentID string                 `json:"department_id"`
	Status       domain.ComplaintStatus `json:"status"`
	ElapsedHours float64                `json:"elapsed_hours"`
	Deadline     time.Time              `json:"deadline"`
}

// SLAAlertPayload payload.
type SLAAlertPayload struct {
	Tag            domain.AlertTag  `json:"tag"`
	SLAStatus      domain.SLAStatus `json:"sla_status"`
	RemainingHours float64          `json:"remaining_hours"`
	DepartmentID   string           `json:"department_id"`
	OfficerID      *string          `json:"officer_id,omitempty"`
}

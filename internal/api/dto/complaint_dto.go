package dto

import (
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	DepartmentID string          `json:"department_id"`
	WardID       string          `json:"ward_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Priority     domain.Priority `json:"priority"`
}

// TransitionRequest asks for a status change. Status may use a legacy
// spelling; the handler normalizes it.
type TransitionRequest struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

// AssignRequest payload.
type AssignRequest struct {
	OfficerID string `json:"officer_id"`
}

// ReopenRequest payload.
type ReopenRequest struct {
	Reason string `json:"reason"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ComplaintResponse is the full complaint view.
type ComplaintResponse struct {
	ID                string                 `json:"id"`
	CitizenID         string                 `json:"citizen_id"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	Status            domain.ComplaintStatus `json:"status"`
	Priority          domain.Priority        `json:"priority"`
	DepartmentID      string                 `json:"department_id"`
	WardID            string                 `json:"ward_id"`
	AssignedOfficerID *string                `json:"assigned_officer_id"`
	SLAHoursAllocated float64                `json:"sla_hours_allocated"`
	Escalated         bool                   `json:"escalated"`
	ReopenCount       int                    `json:"reopen_count"`
	Rating            *int                   `json:"rating,omitempty"`
	FeedbackComment   *string                `json:"feedback_comment,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	ResolvedAt        *time.Time             `json:"resolved_at,omitempty"`
	ClosedAt          *time.Time             `json:"closed_at,omitempty"`
	RejectedAt        *time.Time             `json:"rejected_at,omitempty"`
	Version           int64                  `json:"version"`
	SLA               *SLAResponse           `json:"sla,omitempty"`
	Alerts            []domain.AlertTag      `json:"alerts,omitempty"`
}

// SLAResponse renders an SLA assessment.
type SLAResponse struct {
	ElapsedHours   float64           `json:"elapsed_hours"`
	RemainingHours float64           `json:"remaining_hours"`
	Status         domain.SLAStatus  `json:"status"`
	Deadline       time.Time         `json:"deadline"`
	Frozen         bool              `json:"frozen"`
	Outcome        domain.SLAOutcome `json:"outcome,omitempty"`
}

// HistoryEntryResponse is one audit trail entry.
type HistoryEntryResponse struct {
	ID            string                 `json:"id"`
	Status        domain.ComplaintStatus `json:"status"`
	ChangedByID   string                 `json:"changed_by_id"`
	ChangedByRole domain.Role            `json:"changed_by_role"`
	Remarks       string                 `json:"remarks"`
	ChangedAt     time.Time              `json:"changed_at"`
}

// StatusMetaResponse describes one workflow status.
type StatusMetaResponse struct {
	Status      domain.ComplaintStatus   `json:"status"`
	Label       string                   `json:"label"`
	Category    domain.StatusCategory    `json:"category"`
	Active      bool                     `json:"active"`
	Terminal    bool                     `json:"terminal"`
	Successors  []domain.ComplaintStatus `json:"successors"`
	Permissions []domain.Role            `json:"permissions"`
}

package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusSubmitted       ComplaintStatus = "SUBMITTED"
	StatusAssigned        ComplaintStatus = "ASSIGNED"
	StatusInProgress      ComplaintStatus = "IN_PROGRESS"
	StatusOnHold          ComplaintStatus = "ON_HOLD"
	StatusResolved        ComplaintStatus = "RESOLVED"
	StatusPendingApproval ComplaintStatus = "PENDING_APPROVAL"
	StatusApproved        ComplaintStatus = "APPROVED"
	StatusClosed          ComplaintStatus = "CLOSED"
	StatusRejected        ComplaintStatus = "REJECTED"
	StatusReopened        ComplaintStatus = "REOPENED"
	// StatusEscalated only exists at the boundary. Inside the core escalation
	// is the Complaint.Escalated flag.
	StatusEscalated ComplaintStatus = "ESCALATED"
)

// Priority enumerates complaint urgency.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Complaint is the aggregate tracked by the lifecycle and SLA core.
//
// Values are treated as immutable by the core: every operation returns a
// modified copy (see Clone) and never writes through the receiver.
type Complaint struct {
	ID                string
	CitizenID         string
	Title             string
	Description       string
	Status            ComplaintStatus
	Priority          Priority
	DepartmentID      string
	WardID            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	AssignedOfficerID *string
	SLAHoursAllocated float64
	ResolvedAt        *time.Time
	ClosedAt          *time.Time
	RejectedAt        *time.Time
	Escalated         bool
	Rating            *int
	FeedbackComment   *string
	ReopenCount       int
	History           []StatusHistoryEntry
	// Version is the optimistic concurrency token maintained by storage.
	Version int64
}

// Clone returns a deep copy so callers can diff before/after values.
func (c Complaint) Clone() Complaint {
	out := c
	out.AssignedOfficerID = clonePtr(c.AssignedOfficerID)
	out.ResolvedAt = clonePtr(c.ResolvedAt)
	out.ClosedAt = clonePtr(c.ClosedAt)
	out.RejectedAt = clonePtr(c.RejectedAt)
	out.Rating = clonePtr(c.Rating)
	out.FeedbackComment = clonePtr(c.FeedbackComment)
	if c.History != nil {
		out.History = make([]StatusHistoryEntry, len(c.History), len(c.History)+2)
		copy(out.History, c.History)
	}
	return out
}

// IsAssigned reports whether an officer is attached.
func (c Complaint) IsAssigned() bool {
	return c.AssignedOfficerID != nil && *c.AssignedOfficerID != ""
}

// CompletedAt is the timestamp that closes the SLA clock, if any.
func (c Complaint) CompletedAt() *time.Time {
	switch {
	case c.ResolvedAt != nil:
		return c.ResolvedAt
	case c.ClosedAt != nil:
		return c.ClosedAt
	default:
		return c.RejectedAt
	}
}

// ComplaintCursor is a keyset position in (created_at, id) order.
type ComplaintCursor struct {
	CreatedAt time.Time
	ID        string
}

// CursorAt returns the position of c.
func CursorAt(c Complaint) ComplaintCursor {
	return ComplaintCursor{CreatedAt: c.CreatedAt, ID: c.ID}
}

// IsZero reports whether the cursor is the start of the listing.
func (k ComplaintCursor) IsZero() bool {
	return k.ID == "" && k.CreatedAt.IsZero()
}

// After reports whether c sorts strictly after the cursor.
func (k ComplaintCursor) After(c Complaint) bool {
	if k.IsZero() {
		return true
	}
	if !c.CreatedAt.Equal(k.CreatedAt) {
		return c.CreatedAt.After(k.CreatedAt)
	}
	return c.ID > k.ID
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

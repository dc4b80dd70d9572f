package domain

import "time"

// StatusHistoryEntry is an immutable audit trail entry.
type StatusHistoryEntry struct {
	ID          string
	ComplaintID string
	Status      ComplaintStatus
	ChangedBy   Actor
	Remarks     string
	ChangedAt   time.Time
}

package domain

import "time"

// Department owns complaints of one service category and its SLA policy.
type Department struct {
	ID          string
	Name        string
	Description string
	// SLAHours is copied onto complaints at intake. Changing it never
	// affects existing complaints.
	SLAHours  float64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

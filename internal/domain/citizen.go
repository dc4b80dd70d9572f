package domain

import "time"

// CitizenStatus represents lifecycle states for a citizen account.
type CitizenStatus string

const (
	CitizenStatusActive    CitizenStatus = "ACTIVE"
	CitizenStatusSuspended CitizenStatus = "SUSPENDED"
)

// Citizen is the account that files complaints.
type Citizen struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Status       CitizenStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor returns the citizen as a mutating actor.
func (c Citizen) Actor() Actor {
	return Actor{ID: c.ID, Role: RoleCitizen}
}

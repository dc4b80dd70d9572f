package domain

import "time"

// OfficerRole enumerates internal operator roles.
type OfficerRole string

const (
	OfficerRoleWard       OfficerRole = "WARD_OFFICER"
	OfficerRoleDepartment OfficerRole = "DEPARTMENT_OFFICER"
	OfficerRoleAdmin      OfficerRole = "ADMIN"
)

// Officer models a ward officer, department officer or administrator.
type Officer struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         OfficerRole
	DepartmentID string
	WardID       string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor returns the officer as a mutating actor.
func (o Officer) Actor() Actor {
	return Actor{ID: o.ID, Role: Role(o.Role)}
}

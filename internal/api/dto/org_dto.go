package dto

import (
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
)

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	SLAHours    float64 `json:"sla_hours"`
}

// UpdateDepartmentSLARequest payload.
type UpdateDepartmentSLARequest struct {
	SLAHours float64 `json:"sla_hours"`
}

// DepartmentResponse payload.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SLAHours    float64   `json:"sla_hours"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateOfficerRequest payload.
type CreateOfficerRequest struct {
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Password     string             `json:"password"`
	Role         domain.OfficerRole `json:"role"`
	DepartmentID string             `json:"department_id"`
	WardID       string             `json:"ward_id"`
}

// SetOfficerActiveRequest payload.
type SetOfficerActiveRequest struct {
	Active *bool `json:"active"`
}

// OfficerResponse payload.
type OfficerResponse struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Role         domain.OfficerRole `json:"role"`
	DepartmentID string             `json:"department_id"`
	WardID       string             `json:"ward_id"`
	Active       bool               `json:"active"`
}

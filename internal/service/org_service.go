package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/civicdesk/complaint-service/internal/auth"
	"github.com/civicdesk/complaint-service/internal/config"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/repository"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// OrgService manages departments and officer accounts.
type OrgService struct {
	departments repository.DepartmentRepository
	officers    repository.OfficerRepository
	bcryptCost  int
}

// OrgDependencies encapsulates repositories required for org management.
type OrgDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	OfficerRepo    repository.OfficerRepository
}

// OfficerCreateInput describes a new officer account.
type OfficerCreateInput struct {
	Name         string
	Email        string
	Password     string
	Role         domain.OfficerRole
	DepartmentID string
	WardID       string
}

// NewOrgService constructs the service.
func NewOrgService(cfg config.Config, deps OrgDependencies) *OrgService {
	return &OrgService{
		departments: deps.DepartmentRepo,
		officers:    deps.OfficerRepo,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

func requireAdmin(actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// CreateDepartment creates a department with its SLA policy.
func (s *OrgService) CreateDepartment(ctx context.Context, actor domain.Actor, name, description string, slaHours float64) (*domain.Department, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" || slaHours <= 0 {
		return nil, apperrors.NewValidationError("name and positive sla_hours required", map[string]any{"sla_hours": slaHours})
	}
	dept := &domain.Department{
		Name:        strings.TrimSpace(name),
		Description: description,
		SLAHours:    slaHours,
		IsActive:    true,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// ListDepartments returns active departments. Citizens need them for intake.
func (s *OrgService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	list, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// UpdateDepartmentSLA changes the SLA hours used for future intake only.
func (s *OrgService) UpdateDepartmentSLA(ctx context.Context, actor domain.Actor, id string, slaHours float64) (*domain.Department, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if slaHours <= 0 {
		return nil, apperrors.NewValidationError("sla_hours must be positive", map[string]any{"sla_hours": slaHours})
	}
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	dept.SLAHours = slaHours
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// CreateOfficer adds a new officer account.
func (s *OrgService) CreateOfficer(ctx context.Context, actor domain.Actor, input OfficerCreateInput) (*domain.Officer, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	switch input.Role {
	case domain.OfficerRoleWard, domain.OfficerRoleDepartment, domain.OfficerRoleAdmin:
	default:
		return nil, apperrors.NewValidationError("invalid officer role", map[string]any{"role": input.Role})
	}
	if input.Email == "" || input.Password == "" || input.DepartmentID == "" || input.WardID == "" {
		return nil, apperrors.NewValidationError("email, password, department_id and ward_id required", nil)
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if existing, err := s.officers.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("officer email already exists", map[string]any{"email": input.Email})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	dept, err := s.departments.GetByID(ctx, input.DepartmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": input.DepartmentID})
		}
		return nil, apperrors.MapError(err)
	}
	if !dept.IsActive {
		return nil, apperrors.NewConflict("department inactive", map[string]any{"department_id": dept.ID})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	officer := &domain.Officer{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		DepartmentID: dept.ID,
		WardID:       input.WardID,
		Active:       true,
	}
	if err := s.officers.Create(ctx, officer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return officer, nil
}

// ListOfficers lists officers with filters.
func (s *OrgService) ListOfficers(ctx context.Context, actor domain.Actor, filter repository.OfficerFilter) ([]domain.Officer, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	list, err := s.officers.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// SetOfficerActive enables or disables an officer account.
func (s *OrgService) SetOfficerActive(ctx context.Context, actor domain.Actor, id string, active bool) (*domain.Officer, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	officer, err := s.officers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("officer", map[string]any{"officer_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	officer.Active = active
	if err := s.officers.Update(ctx, officer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return officer, nil
}

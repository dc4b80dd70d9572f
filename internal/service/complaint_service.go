package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/alerts"
	"github.com/civicdesk/complaint-service/internal/clock"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/events"
	"github.com/civicdesk/complaint-service/internal/lifecycle"
	"github.com/civicdesk/complaint-service/internal/repository"
	"github.com/civicdesk/complaint-service/internal/sla"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// DepartmentLookup resolves the department that owns a complaint.
type DepartmentLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Department, error)
}

// ComplaintService coordinates complaint intake and status workflows.
type ComplaintService struct {
	workflow
	complaints  repository.ComplaintRepository
	history     repository.ComplaintHistoryRepository
	departments DepartmentLookup
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo  repository.ComplaintRepository
	HistoryRepo    repository.ComplaintHistoryRepository
	DepartmentRepo DepartmentLookup
	Dispatcher     events.Dispatcher
	Clock          clock.Clock
	Logger         *zap.Logger
}

// ComplaintCreateInput describes the intake payload.
type ComplaintCreateInput struct {
	DepartmentID string
	WardID       string
	Title        string
	Description  string
	Priority     domain.Priority
}

// ComplaintView is a complaint together with its derived SLA state.
type ComplaintView struct {
	Complaint domain.Complaint
	SLA       domain.SLAAssessment
	Alerts    []domain.AlertTag
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		workflow:    newWorkflow(deps.ComplaintRepo, deps.Dispatcher, deps.Clock, deps.Logger),
		complaints:  deps.ComplaintRepo,
		history:     deps.HistoryRepo,
		departments: deps.DepartmentRepo,
	}
}

func newWorkflow(store repository.ComplaintStore, dispatcher events.Dispatcher, clk clock.Clock, logger *zap.Logger) workflow {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return workflow{complaints: store, dispatcher: dispatcher, clock: clk, logger: logger}
}

// Create files a new complaint for a citizen. The department's current SLA
// hours are copied onto the complaint.
func (s *ComplaintService) Create(ctx context.Context, citizen domain.Actor, input ComplaintCreateInput) (domain.Complaint, error) {
	if citizen.Role != domain.RoleCitizen || citizen.ID == "" {
		return domain.Complaint{}, apperrors.NewForbidden("citizen required")
	}
	if input.Title == "" {
		return domain.Complaint{}, apperrors.NewValidationError("title required", nil)
	}

	dept, err := s.departments.GetByID(ctx, input.DepartmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Complaint{}, apperrors.NewNotFound("department", map[string]any{"department_id": input.DepartmentID})
		}
		return domain.Complaint{}, apperrors.MapError(err)
	}
	if !dept.IsActive {
		return domain.Complaint{}, apperrors.NewValidationError("department inactive", map[string]any{"department_id": dept.ID})
	}

	complaint, err := lifecycle.NewComplaint(lifecycle.NewComplaintInput{
		ID:           uuid.NewString(),
		CitizenID:    citizen.ID,
		Title:        input.Title,
		Description:  input.Description,
		Priority:     input.Priority,
		DepartmentID: dept.ID,
		WardID:       input.WardID,
	}, dept.SLAHours, s.clock.Now())
	if err != nil {
		return domain.Complaint{}, err
	}

	saved, err := s.complaints.Create(ctx, complaint)
	if err != nil {
		return domain.Complaint{}, apperrors.MapError(err)
	}

	s.logger.Info("complaint created",
		zap.String("complaint_id", saved.ID),
		zap.String("department_id", saved.DepartmentID),
		zap.Float64("sla_hours", saved.SLAHoursAllocated))
	s.publish(ctx, events.EventComplaintCreated, saved.ID, citizen, events.ComplaintCreatedPayload{
		CitizenID:         saved.CitizenID,
		DepartmentID:      saved.DepartmentID,
		WardID:            saved.WardID,
		Priority:          saved.Priority,
		Title:             saved.Title,
		SLAHoursAllocated: saved.SLAHoursAllocated,
	})
	return saved, nil
}

// Get returns a complaint with its SLA assessment and alert tags.
func (s *ComplaintService) Get(ctx context.Context, id string) (ComplaintView, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return ComplaintView{}, err
	}
	return s.view(c), nil
}

// GetForCitizen returns a complaint only to the citizen who filed it.
func (s *ComplaintService) GetForCitizen(ctx context.Context, citizen domain.Actor, id string) (ComplaintView, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return ComplaintView{}, err
	}
	if err := requireOwner(c, citizen); err != nil {
		return ComplaintView{}, err
	}
	return s.view(c), nil
}

// ListForCitizen lists the citizen's complaints, newest first.
func (s *ComplaintService) ListForCitizen(ctx context.Context, citizen domain.Actor, limit, offset int) ([]ComplaintView, error) {
	list, err := s.complaints.ListByCitizen(ctx, citizen.ID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	views := make([]ComplaintView, 0, len(list))
	for _, c := range list {
		views = append(views, s.view(c))
	}
	return views, nil
}

// Transition moves a complaint to the requested status on behalf of actor.
func (s *ComplaintService) Transition(ctx context.Context, id string, requested domain.ComplaintStatus, actor domain.Actor, remarks string) (domain.Complaint, error) {
	return s.transition(ctx, id, requested, actor, remarks, nil)
}

// TransitionAsOfficer is Transition for an authenticated officer. The
// officer must hold the complaint: admins hold every complaint, ward officers
// those filed in their department and ward, department officers the ones
// assigned to them.
func (s *ComplaintService) TransitionAsOfficer(ctx context.Context, id string, requested domain.ComplaintStatus, officer domain.Officer, remarks string) (domain.Complaint, error) {
	return s.transition(ctx, id, requested, officer.Actor(), remarks, func(c domain.Complaint) error {
		return officerHolds(c, officer)
	})
}

func (s *ComplaintService) transition(ctx context.Context, id string, requested domain.ComplaintStatus, actor domain.Actor, remarks string, guard func(domain.Complaint) error) (domain.Complaint, error) {
	before, after, err := s.apply(ctx, id, func(c domain.Complaint) (domain.Complaint, error) {
		if guard != nil {
			if err := guard(c); err != nil {
				return c, err
			}
		}
		return lifecycle.Transition(c, requested, actor, remarks, s.clock.Now())
	})
	if err != nil {
		return domain.Complaint{}, err
	}

	s.logger.Info("complaint status changed",
		zap.String("complaint_id", id),
		zap.String("from", string(before.Status)),
		zap.String("to", string(after.Status)),
		zap.String("actor_id", actor.ID))
	s.publishStatusChanges(ctx, before, after)
	return after, nil
}

func officerHolds(c domain.Complaint, officer domain.Officer) error {
	details := map[string]any{"complaint_id": c.ID, "officer_id": officer.ID}
	switch officer.Role {
	case domain.OfficerRoleAdmin:
		return nil
	case domain.OfficerRoleWard:
		if c.DepartmentID == officer.DepartmentID && c.WardID == officer.WardID {
			return nil
		}
		details["reason"] = "complaint outside officer ward"
	case domain.OfficerRoleDepartment:
		if c.DepartmentID == officer.DepartmentID && c.IsAssigned() && *c.AssignedOfficerID == officer.ID {
			return nil
		}
		details["reason"] = "complaint not assigned to officer"
	default:
		details["reason"] = "unknown officer role"
	}
	return apperrors.ErrUnauthorizedTransition.With(details)
}

// History returns the complaint's audit trail in append order.
func (s *ComplaintService) History(ctx context.Context, id string) ([]domain.StatusHistoryEntry, error) {
	entries, err := s.history.ListByComplaint(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(entries) == 0 {
		if _, err := s.load(ctx, id); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// SLA assesses the complaint's deadline state at the current time.
func (s *ComplaintService) SLA(ctx context.Context, id string) (domain.SLAAssessment, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return domain.SLAAssessment{}, err
	}
	return sla.Assess(c, s.clock.Now()), nil
}

// Alerts classifies the complaint for dashboards.
func (s *ComplaintService) Alerts(ctx context.Context, id string) ([]domain.AlertTag, error) {
	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return view.Alerts, nil
}

// view derives SLA state without persisting the escalation flag; the
// scanner and the next mutation persist it.
func (s *ComplaintService) view(c domain.Complaint) ComplaintView {
	evaluated, assessment, _ := sla.Evaluate(c, s.clock.Now())
	return ComplaintView{
		Complaint: evaluated,
		SLA:       assessment,
		Alerts:    alerts.Classify(evaluated, assessment),
	}
}

// requireOwner hides complaints filed by other citizens behind NOT_FOUND.
func requireOwner(c domain.Complaint, citizen domain.Actor) error {
	if citizen.Role != domain.RoleCitizen || c.CitizenID != citizen.ID {
		return apperrors.NewNotFound("complaint", map[string]any{"complaint_id": c.ID})
	}
	return nil
}

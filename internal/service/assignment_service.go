package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/assignment"
	"github.com/civicdesk/complaint-service/internal/clock"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/events"
	"github.com/civicdesk/complaint-service/internal/repository"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// AssignmentService handles officer assignment for complaints.
type AssignmentService struct {
	workflow
	officers repository.OfficerDirectory
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	ComplaintStore repository.ComplaintStore
	Officers       repository.OfficerDirectory
	Dispatcher     events.Dispatcher
	Clock          clock.Clock
	Logger         *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		workflow: newWorkflow(deps.ComplaintStore, deps.Dispatcher, deps.Clock, deps.Logger),
		officers: deps.Officers,
	}
}

// EligibleOfficers lists department officers who may take the complaint.
func (s *AssignmentService) EligibleOfficers(ctx context.Context, complaintID string) ([]domain.Officer, error) {
	c, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	officers, err := s.officers.ListByDepartment(ctx, c.DepartmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return assignment.EligibleOfficers(c, officers), nil
}

// Assign attaches officerID to the complaint on behalf of actor.
func (s *AssignmentService) Assign(ctx context.Context, complaintID, officerID string, actor domain.Actor) (domain.Complaint, error) {
	officer, err := s.officers.GetByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Complaint{}, apperrors.NewNotFound("officer", map[string]any{"officer_id": officerID})
		}
		return domain.Complaint{}, apperrors.MapError(err)
	}
	if !officer.Active {
		return domain.Complaint{}, apperrors.ErrIneligibleOfficer.With(map[string]any{
			"officer_id": officerID,
			"reason":     "officer inactive",
		})
	}

	before, after, err := s.apply(ctx, complaintID, func(c domain.Complaint) (domain.Complaint, error) {
		return assignment.Assign(c, *officer, actor, s.clock.Now())
	})
	if err != nil {
		return domain.Complaint{}, err
	}
	if len(after.History) == len(before.History) {
		return after, nil
	}

	s.logger.Info("complaint assigned",
		zap.String("complaint_id", complaintID),
		zap.String("officer_id", officerID),
		zap.String("actor_id", actor.ID))
	s.publishStatusChanges(ctx, before, after)
	s.publish(ctx, events.EventComplaintAssigned, complaintID, actor, events.ComplaintAssignedPayload{
		PreviousOfficerID: before.AssignedOfficerID,
		OfficerID:         officerID,
		DepartmentID:      after.DepartmentID,
	})
	return after, nil
}

package service

import (
	"context"
	"errors"
	"reflect"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/clock"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/events"
	"github.com/civicdesk/complaint-service/internal/repository"
	"github.com/civicdesk/complaint-service/internal/sla"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// mutation applies one core operation to a loaded complaint.
type mutation func(c domain.Complaint) (domain.Complaint, error)

// workflow holds the load, save and publish steps shared by the services
// that mutate complaints.
type workflow struct {
	complaints repository.ComplaintStore
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
}

func (w workflow) load(ctx context.Context, id string) (domain.Complaint, error) {
	c, err := w.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Complaint{}, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return domain.Complaint{}, apperrors.MapError(err)
	}
	return c, nil
}

// apply loads the complaint, refreshes its SLA escalation flag, runs fn and
// saves the result with a compare-and-swap. A no-op result is not written.
func (w workflow) apply(ctx context.Context, id string, fn mutation) (before, after domain.Complaint, err error) {
	current, err := w.load(ctx, id)
	if err != nil {
		return domain.Complaint{}, domain.Complaint{}, err
	}

	now := w.clock.Now()
	evaluated, assessment, escalatedNow := sla.Evaluate(current, now)

	next, err := fn(evaluated)
	if err != nil {
		return current, domain.Complaint{}, err
	}
	if !escalatedNow && reflect.DeepEqual(evaluated, next) {
		return current, current, nil
	}

	saved, err := w.complaints.CompareAndSwap(ctx, current, next)
	if err != nil {
		if apperrors.IsRetryable(err) {
			w.logger.Info("complaint modified concurrently", zap.String("complaint_id", id))
			return current, domain.Complaint{}, err
		}
		return current, domain.Complaint{}, apperrors.MapError(err)
	}
	if escalatedNow {
		w.publishEscalated(ctx, saved, assessment)
	}
	return current, saved, nil
}

func (w workflow) publishEscalated(ctx context.Context, c domain.Complaint, assessment domain.SLAAssessment) {
	w.logger.Info("complaint escalated",
		zap.String("complaint_id", c.ID),
		zap.String("department_id", c.DepartmentID),
		zap.Float64("elapsed_hours", assessment.ElapsedHours))
	w.publish(ctx, events.EventComplaintEscalated, c.ID, domain.SystemActor, events.ComplaintEscalatedPayload{
		DepartmentID: c.DepartmentID,
		Status:       c.Status,
		ElapsedHours: assessment.ElapsedHours,
		Deadline:     assessment.Deadline,
	})
}

func (w workflow) publish(ctx context.Context, eventType events.EventType, complaintID string, actor domain.Actor, payload any) {
	if w.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		ComplaintID: complaintID,
		Actor:       events.ActorFrom(actor),
		Timestamp:   w.clock.Now(),
		Payload:     payload,
	}
	if err := w.dispatcher.Publish(ctx, event); err != nil {
		w.logger.Warn("event handler failed",
			zap.String("event_type", string(eventType)),
			zap.String("complaint_id", complaintID),
			zap.Error(err))
	}
}

// publishStatusChanges emits one status event per history entry appended
// between before and after.
func (w workflow) publishStatusChanges(ctx context.Context, before, after domain.Complaint) {
	prev := before.Status
	for _, entry := range after.History[min(len(before.History), len(after.History)):] {
		if entry.Status == prev {
			continue
		}
		w.publish(ctx, events.EventComplaintStatusChanged, after.ID, entry.ChangedBy, events.ComplaintStatusChangedPayload{
			OldStatus: prev,
			NewStatus: entry.Status,
			Remarks:   entry.Remarks,
		})
		prev = entry.Status
	}
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/events"
	"github.com/civicdesk/complaint-service/internal/policy"
)

// Reopen reopens a resolved or closed complaint for the citizen who filed it.
func (s *ComplaintService) Reopen(ctx context.Context, id string, citizen domain.Actor, reason string) (domain.Complaint, error) {
	before, after, err := s.apply(ctx, id, func(c domain.Complaint) (domain.Complaint, error) {
		if err := requireOwner(c, citizen); err != nil {
			return c, err
		}
		return policy.Reopen(c, citizen, reason, s.clock.Now())
	})
	if err != nil {
		return domain.Complaint{}, err
	}

	s.logger.Info("complaint reopened",
		zap.String("complaint_id", id),
		zap.Int("reopen_count", after.ReopenCount),
		zap.String("reentered_at", string(after.Status)))
	s.publishStatusChanges(ctx, before, after)
	s.publish(ctx, events.EventComplaintReopened, id, citizen, events.ComplaintReopenedPayload{
		Reason:      reason,
		ReopenCount: after.ReopenCount,
		ReenteredAt: after.Status,
	})
	return after, nil
}

// SubmitFeedback records the citizen's rating exactly once.
func (s *ComplaintService) SubmitFeedback(ctx context.Context, id string, citizen domain.Actor, rating int, comment string) (domain.Complaint, error) {
	_, after, err := s.apply(ctx, id, func(c domain.Complaint) (domain.Complaint, error) {
		if err := requireOwner(c, citizen); err != nil {
			return c, err
		}
		return policy.SubmitFeedback(c, rating, comment, s.clock.Now())
	})
	if err != nil {
		return domain.Complaint{}, err
	}

	s.logger.Info("complaint feedback submitted", zap.String("complaint_id", id), zap.Int("rating", rating))
	s.publish(ctx, events.EventComplaintFeedbackSubmitted, id, citizen, events.ComplaintFeedbackPayload{
		Rating:  rating,
		Comment: *after.FeedbackComment,
	})
	return after, nil
}

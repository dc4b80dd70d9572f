// Package policy governs reopening and citizen feedback on completed
// complaints.
package policy

import (
	"strings"
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/lifecycle"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// ReopenWindow is the hard limit after closure (or resolution) for reopening.
const ReopenWindow = 7 * 24 * time.Hour

const (
	MinRating = 1
	MaxRating = 5
)

func isCompleted(s domain.ComplaintStatus) bool {
	return s == domain.StatusResolved || s == domain.StatusClosed
}

func reopenAnchor(c domain.Complaint) *time.Time {
	if c.ClosedAt != nil {
		return c.ClosedAt
	}
	return c.ResolvedAt
}

// CanReopen reports whether c is RESOLVED or CLOSED and still inside the
// reopen window at now.
func CanReopen(c domain.Complaint, now time.Time) bool {
	if !isCompleted(c.Status) {
		return false
	}
	anchor := reopenAnchor(c)
	if anchor == nil {
		return false
	}
	return now.Sub(*anchor) <= ReopenWindow
}

// Reopen sends c back into the workflow: ASSIGNED when an officer is still
// attached, SUBMITTED otherwise. Completion timestamps are cleared, which
// reopens the SLA clock; the escalation flag is left as it was.
func Reopen(c domain.Complaint, actor domain.Actor, reason string, now time.Time) (domain.Complaint, error) {
	if !CanReopen(c, now) {
		details := map[string]any{"complaint_id": c.ID, "status": c.Status}
		if anchor := reopenAnchor(c); anchor != nil {
			details["completed_at"] = *anchor
		}
		return c, apperrors.ErrWindowExpired.With(details)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return c, apperrors.ErrReasonRequired.With(map[string]any{"complaint_id": c.ID})
	}

	next := c.Clone()
	next.ReopenCount++
	next.ResolvedAt = nil
	next.ClosedAt = nil
	next.Status = domain.StatusReopened
	next.UpdatedAt = now
	next = lifecycle.Record(next, domain.StatusReopened, actor, reason, now)

	landing := domain.StatusSubmitted
	if next.IsAssigned() {
		landing = domain.StatusAssigned
	}
	return lifecycle.Transition(next, landing, domain.SystemActor, "re-entered workflow after reopen", now)
}

// CanSubmitFeedback reports whether c accepts a rating now.
func CanSubmitFeedback(c domain.Complaint) bool {
	return isCompleted(c.Status) && c.FeedbackComment == nil
}

// SubmitFeedback records the citizen rating. Feedback is write-once.
func SubmitFeedback(c domain.Complaint, rating int, comment string, now time.Time) (domain.Complaint, error) {
	details := map[string]any{"complaint_id": c.ID}
	if c.FeedbackComment != nil || c.Rating != nil {
		return c, apperrors.ErrAlreadyRated.With(details)
	}
	if !CanSubmitFeedback(c) {
		details["status"] = c.Status
		return c, apperrors.ErrFeedbackNotAllowed.With(details)
	}
	comment = strings.TrimSpace(comment)
	if rating < MinRating || rating > MaxRating || comment == "" {
		details["rating"] = rating
		return c, apperrors.ErrInvalidRating.With(details)
	}

	next := c.Clone()
	next.Rating = &rating
	next.FeedbackComment = &comment
	next.UpdatedAt = now
	return next, nil
}

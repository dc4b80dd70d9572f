package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/civicdesk/complaint-service/internal/config"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/events"
	"github.com/civicdesk/complaint-service/internal/observability"
)

// AlertDeduper claims a key for ttl so that each alert goes out once across
// scanner passes and service instances.
type AlertDeduper interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	dedupe     AlertDeduper
	limiter    *rate.Limiter
	metrics    *observability.Metrics
}

// NewNotificationService creates the service. dedupe may be nil, in which
// case every alert is delivered.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, dedupe AlertDeduper, metrics *observability.Metrics) *NotificationService {
	limit := rate.Inf
	if cfg.DispatchPerSec > 0 {
		limit = rate.Limit(cfg.DispatchPerSec)
	}
	burst := cfg.DispatchBurst
	if burst <= 0 {
		burst = 1
	}
	if cfg.AlertDedupeTTL <= 0 {
		cfg.AlertDedupeTTL = time.Hour
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		dedupe:     dedupe,
		limiter:    rate.NewLimiter(limit, burst),
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleComplaintStatusChanged)
	n.dispatcher.Subscribe(events.EventComplaintAssigned, n.handleComplaintAssigned)
	n.dispatcher.Subscribe(events.EventComplaintReopened, n.handleComplaintReopened)
	n.dispatcher.Subscribe(events.EventComplaintFeedbackSubmitted, n.handleFeedbackSubmitted)
	n.dispatcher.Subscribe(events.EventComplaintEscalated, n.handleComplaintEscalated)
	n.dispatcher.Subscribe(events.EventSLAAlertRaised, n.handleSLAAlert)
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintCreated", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	if err := n.sendEmailNotificationStub(ctx, event); err != nil {
		return err
	}
	return n.sendWebhookNotificationStub(ctx, event)
}

func (n *NotificationService) handleComplaintStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintStatusChanged", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return n.sendWebhookNotificationStub(ctx, event)
}

func (n *NotificationService) handleComplaintAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintAssigned", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return n.sendWebhookNotificationStub(ctx, event)
}

func (n *NotificationService) handleComplaintReopened(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintReopened", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	if err := n.sendEmailNotificationStub(ctx, event); err != nil {
		return err
	}
	return n.sendWebhookNotificationStub(ctx, event)
}

func (n *NotificationService) handleFeedbackSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintFeedbackSubmitted", zap.String("complaint_id", event.ComplaintID))
	return n.sendWebhookNotificationStub(ctx, event)
}

func (n *NotificationService) handleComplaintEscalated(ctx context.Context, event events.Event) error {
	if !n.claim(ctx, "escalated:"+event.ComplaintID) {
		return nil
	}
	n.logger.Warn("ComplaintEscalated", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	if err := n.sendEmailNotificationStub(ctx, event); err != nil {
		return err
	}
	return n.sendWebhookNotificationStub(ctx, event)
}

func (n *NotificationService) handleSLAAlert(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SLAAlertPayload)
	if !ok {
		n.logger.Warn("unexpected sla alert payload", zap.String("complaint_id", event.ComplaintID))
		return nil
	}
	if !n.claim(ctx, "alert:"+event.ComplaintID+":"+string(payload.Tag)) {
		return nil
	}
	n.metrics.RecordAlert(string(payload.Tag))
	n.logger.Info("SLAAlertRaised",
		zap.String("complaint_id", event.ComplaintID),
		zap.String("tag", string(payload.Tag)),
		zap.Float64("remaining_hours", payload.RemainingHours))

	if payload.Tag == domain.AlertSLABreached || payload.Tag == domain.AlertEscalated {
		if err := n.sendEmailNotificationStub(ctx, event); err != nil {
			return err
		}
	}
	return n.sendWebhookNotificationStub(ctx, event)
}

// claim reports whether the alert identified by key should be sent now.
// Deduplication failures fail open.
func (n *NotificationService) claim(ctx context.Context, key string) bool {
	if n.dedupe == nil {
		return true
	}
	won, err := n.dedupe.Claim(ctx, "complaint-notify:"+key, n.cfg.AlertDedupeTTL)
	if err != nil {
		n.logger.Warn("alert dedupe unavailable", zap.String("key", key), zap.Error(err))
		return true
	}
	return won
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) error {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return nil
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("complaint_id", event.ComplaintID),
		zap.String("event_type", string(event.Type)))
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) error {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return nil
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("complaint_id", event.ComplaintID),
		zap.String("event_type", string(event.Type)))
	return nil
}

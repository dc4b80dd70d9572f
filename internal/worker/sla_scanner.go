package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/alerts"
	"github.com/civicdesk/complaint-service/internal/clock"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/events"
	"github.com/civicdesk/complaint-service/internal/observability"
	"github.com/civicdesk/complaint-service/internal/sla"
)

// OpenComplaintSource is the storage the scanner reads and flags.
type OpenComplaintSource interface {
	ListOpen(ctx context.Context, after domain.ComplaintCursor, limit int) ([]domain.Complaint, error)
	MarkEscalated(ctx context.Context, id string) error
}

// ScanResult summarises one scanner pass.
type ScanResult struct {
	Scanned   int
	Escalated int
	Alerts    int
	Failures  int
}

// SLAScanner periodically evaluates open complaints, persists escalation
// flips and raises alerts.
type SLAScanner struct {
	store      OpenComplaintSource
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
	metrics    *observability.Metrics
	interval   time.Duration
	pageSize   int

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// SLAScannerConfig bundles scanner collaborators.
type SLAScannerConfig struct {
	Store      OpenComplaintSource
	Dispatcher events.Dispatcher
	Clock      clock.Clock
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Interval   time.Duration
	PageSize   int
}

// NewSLAScanner creates a scanner.
func NewSLAScanner(cfg SLAScannerConfig) *SLAScanner {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 200
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &SLAScanner{
		store:      cfg.Store,
		dispatcher: cfg.Dispatcher,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		interval:   cfg.Interval,
		pageSize:   cfg.PageSize,
	}
}

// Start runs the scanner in its own goroutine until ctx is cancelled or Stop
// is called. A pass runs immediately.
func (s *SLAScanner) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.logger.Warn("sla scanner already running")
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.logger.Info("sla scanner started", zap.Duration("interval", s.interval))

	go s.run(ctx, s.stop, s.done)
}

// Stop signals the loop and waits for the current pass to finish.
func (s *SLAScanner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info("sla scanner stopped")
}

func (s *SLAScanner) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.ScanOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.ScanOnce(ctx)
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// ScanOnce evaluates every open complaint once. It is safe to repeat: the
// escalation flag is monotonic and alerts are de-duplicated downstream.
func (s *SLAScanner) ScanOnce(ctx context.Context) ScanResult {
	start := time.Now()
	now := s.clock.Now()
	var result ScanResult

	// Keyset paging: complaints closing mid-pass cannot shift later pages.
	var after domain.ComplaintCursor
	for ctx.Err() == nil {
		page, err := s.store.ListOpen(ctx, after, s.pageSize)
		if err != nil {
			s.logger.Error("list open complaints failed", zap.String("after_id", after.ID), zap.Error(err))
			result.Failures++
			break
		}
		for _, c := range page {
			s.scanComplaint(ctx, c, now, &result)
		}
		if len(page) < s.pageSize {
			break
		}
		after = domain.CursorAt(page[len(page)-1])
	}

	took := time.Since(start)
	s.metrics.RecordScan(result.Scanned, result.Escalated, took)
	s.logger.Info("sla scan completed",
		zap.Duration("took", took),
		zap.Int("scanned", result.Scanned),
		zap.Int("escalated", result.Escalated),
		zap.Int("alerts", result.Alerts),
		zap.Int("failures", result.Failures))
	return result
}

func (s *SLAScanner) scanComplaint(ctx context.Context, c domain.Complaint, now time.Time, result *ScanResult) {
	result.Scanned++
	evaluated, assessment, escalatedNow := sla.Evaluate(c, now)

	if escalatedNow {
		if err := s.store.MarkEscalated(ctx, c.ID); err != nil {
			s.logger.Error("mark escalated failed", zap.String("complaint_id", c.ID), zap.Error(err))
			result.Failures++
			return
		}
		result.Escalated++
		s.logger.Info("complaint escalated",
			zap.String("complaint_id", c.ID),
			zap.String("department_id", c.DepartmentID),
			zap.Float64("elapsed_hours", assessment.ElapsedHours))
		s.publish(ctx, events.EventComplaintEscalated, c.ID, now, events.ComplaintEscalatedPayload{
			DepartmentID: c.DepartmentID,
			Status:       c.Status,
			ElapsedHours: assessment.ElapsedHours,
			Deadline:     assessment.Deadline,
		})
	}

	for _, tag := range alerts.Classify(evaluated, assessment) {
		result.Alerts++
		s.publish(ctx, events.EventSLAAlertRaised, c.ID, now, events.SLAAlertPayload{
			Tag:            tag,
			SLAStatus:      assessment.Status,
			RemainingHours: assessment.RemainingHours,
			DepartmentID:   c.DepartmentID,
			OfficerID:      c.AssignedOfficerID,
		})
	}
}

func (s *SLAScanner) publish(ctx context.Context, eventType events.EventType, complaintID string, now time.Time, payload any) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		ComplaintID: complaintID,
		Actor:       events.ActorFrom(domain.SystemActor),
		Timestamp:   now,
		Payload:     payload,
	})
	if err != nil {
		s.logger.Warn("alert dispatch failed",
			zap.String("event_type", string(eventType)),
			zap.String("complaint_id", complaintID),
			zap.Error(err))
	}
}

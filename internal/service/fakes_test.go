package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/clock"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/events"
	"github.com/civicdesk/complaint-service/internal/repository"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

var t0 = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

type memComplaints struct {
	mu     sync.Mutex
	rows   map[string]domain.Complaint
	nextID int
	// beforeSwap runs inside CompareAndSwap, before the version check.
	beforeSwap func()
}

func newMemComplaints() *memComplaints {
	return &memComplaints{rows: map[string]domain.Complaint{}}
}

func (m *memComplaints) Create(_ context.Context, c domain.Complaint) (domain.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := c.Clone()
	m.assignIDs(out.History)
	out.Version = 1
	m.rows[out.ID] = out.Clone()
	return out, nil
}

func (m *memComplaints) GetByID(_ context.Context, id string) (domain.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return domain.Complaint{}, pgx.ErrNoRows
	}
	return c.Clone(), nil
}

func (m *memComplaints) CompareAndSwap(_ context.Context, current, next domain.Complaint) (domain.Complaint, error) {
	if m.beforeSwap != nil {
		hook := m.beforeSwap
		m.beforeSwap = nil
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rows[current.ID]
	if !ok || stored.Version != current.Version {
		return domain.Complaint{}, apperrors.ErrConcurrentModification.With(map[string]any{"complaint_id": current.ID})
	}
	out := next.Clone()
	m.assignIDs(out.History[len(current.History):])
	out.Version = stored.Version + 1
	out.Escalated = out.Escalated || stored.Escalated
	m.rows[out.ID] = out.Clone()
	return out, nil
}

func (m *memComplaints) ListOpen(_ context.Context, after domain.ComplaintCursor, limit int) ([]domain.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Complaint
	for _, c := range m.sorted() {
		if c.CompletedAt() == nil && after.After(c) {
			out = append(out, c)
		}
	}
	return page(out, limit, 0), nil
}

func (m *memComplaints) ListByCitizen(_ context.Context, citizenID string, limit, offset int) ([]domain.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Complaint
	for _, c := range m.sorted() {
		if c.CitizenID == citizenID {
			out = append(out, c)
		}
	}
	return page(out, limit, offset), nil
}

func (m *memComplaints) MarkEscalated(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Escalated = true
	m.rows[id] = c
	return nil
}

func (m *memComplaints) ListByComplaint(_ context.Context, id string) ([]domain.StatusHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.StatusHistoryEntry(nil), m.rows[id].History...), nil
}

func (m *memComplaints) assignIDs(entries []domain.StatusHistoryEntry) {
	for i := range entries {
		if entries[i].ID == "" {
			m.nextID++
			entries[i].ID = fmt.Sprintf("h-%d", m.nextID)
		}
	}
}

func (m *memComplaints) sorted() []domain.Complaint {
	out := make([]domain.Complaint, 0, len(m.rows))
	for _, c := range m.rows {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func page(in []domain.Complaint, limit, offset int) []domain.Complaint {
	if offset >= len(in) {
		return nil
	}
	end := len(in)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return in[offset:end]
}

var _ repository.ComplaintRepository = (*memComplaints)(nil)
var _ repository.ComplaintHistoryRepository = (*memComplaints)(nil)

type memDepartments map[string]*domain.Department

func (m memDepartments) GetByID(_ context.Context, id string) (*domain.Department, error) {
	if d, ok := m[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

type memOfficers []domain.Officer

func (m memOfficers) ListByDepartment(_ context.Context, departmentID string) ([]domain.Officer, error) {
	var out []domain.Officer
	for _, o := range m {
		if o.DepartmentID == departmentID && o.Active {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m memOfficers) GetByID(_ context.Context, id string) (*domain.Officer, error) {
	for _, o := range m {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) handle(_ context.Context, e events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *eventLog) types() []events.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]events.EventType, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}

type harness struct {
	clock       *clock.Manual
	store       *memComplaints
	log         *eventLog
	complaints  *ComplaintService
	assignments *AssignmentService
}

var (
	citizen   = domain.Actor{ID: "citizen-1", Role: domain.RoleCitizen}
	stranger  = domain.Actor{ID: "citizen-2", Role: domain.RoleCitizen}
	ward      = domain.Actor{ID: "ward-1", Role: domain.RoleWardOfficer}
	admin     = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	deptActor = domain.Actor{ID: "officer-roads-1", Role: domain.RoleDepartmentOfficer}
)

func newHarness() *harness {
	clk := clock.NewManual(t0)
	store := newMemComplaints()
	log := &eventLog{}
	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{
		events.EventComplaintCreated,
		events.EventComplaintStatusChanged,
		events.EventComplaintAssigned,
		events.EventComplaintReopened,
		events.EventComplaintFeedbackSubmitted,
		events.EventComplaintEscalated,
	} {
		dispatcher.Subscribe(et, log.handle)
	}

	departments := memDepartments{
		"roads":   {ID: "roads", Name: "Roads", SLAHours: 24, IsActive: true},
		"water":   {ID: "water", Name: "Water", SLAHours: 48, IsActive: true},
		"retired": {ID: "retired", Name: "Retired", SLAHours: 12, IsActive: false},
	}
	officers := memOfficers{
		{ID: "officer-roads-1", DepartmentID: "roads", Role: domain.OfficerRoleDepartment, Active: true},
		{ID: "officer-roads-2", DepartmentID: "roads", Role: domain.OfficerRoleDepartment, Active: true},
		{ID: "ward-1", DepartmentID: "roads", Role: domain.OfficerRoleWard, Active: true},
		{ID: "officer-water-1", DepartmentID: "water", Role: domain.OfficerRoleDepartment, Active: true},
		{ID: "officer-roads-off", DepartmentID: "roads", Role: domain.OfficerRoleDepartment, Active: false},
	}

	logger := zap.NewNop()
	return &harness{
		clock: clk,
		store: store,
		log:   log,
		complaints: NewComplaintService(ComplaintDependencies{
			ComplaintRepo:  store,
			HistoryRepo:    store,
			DepartmentRepo: departments,
			Dispatcher:     dispatcher,
			Clock:          clk,
			Logger:         logger,
		}),
		assignments: NewAssignmentService(AssignmentDependencies{
			ComplaintStore: store,
			Officers:       officers,
			Dispatcher:     dispatcher,
			Clock:          clk,
			Logger:         logger,
		}),
	}
}

func (h *harness) file(t interface{ Fatalf(string, ...any) }) domain.Complaint {
	c, err := h.complaints.Create(context.Background(), citizen, ComplaintCreateInput{
		DepartmentID: "roads",
		WardID:       "ward-7",
		Title:        "Pothole on Main St",
		Description:  "Deep pothole near the bus stop",
		Priority:     domain.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("create complaint: %v", err)
	}
	return c
}

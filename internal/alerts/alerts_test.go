package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/sla"
)

var t0 = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

func complaint(status domain.ComplaintStatus, officer string) domain.Complaint {
	c := domain.Complaint{ID: "c-1", Status: status, CreatedAt: t0, SLAHoursAllocated: 24}
	if officer != "" {
		c.AssignedOfficerID = &officer
	}
	return c
}

func TestClassify(t *testing.T) {
	resolvedAt := t0.Add(23 * time.Hour)

	cases := []struct {
		name string
		c    func() domain.Complaint
		at   time.Duration
		want []domain.AlertTag
	}{
		{
			name: "fresh unassigned",
			c:    func() domain.Complaint { return complaint(domain.StatusSubmitted, "") },
			at:   time.Hour,
			want: []domain.AlertTag{domain.AlertUnassignedGap},
		},
		{
			name: "unassigned and breached",
			c: func() domain.Complaint {
				c := complaint(domain.StatusSubmitted, "")
				c.Escalated = true
				return c
			},
			at:   30 * time.Hour,
			want: []domain.AlertTag{domain.AlertUnassignedGap, domain.AlertSLABreached, domain.AlertEscalated},
		},
		{
			name: "in progress warning",
			c:    func() domain.Complaint { return complaint(domain.StatusInProgress, "o-1") },
			at:   13 * time.Hour,
			want: []domain.AlertTag{domain.AlertSLAWarning},
		},
		{
			name: "on hold critical",
			c:    func() domain.Complaint { return complaint(domain.StatusOnHold, "o-1") },
			at:   20 * time.Hour,
			want: []domain.AlertTag{domain.AlertSLACritical},
		},
		{
			name: "resolved late is quiet",
			c: func() domain.Complaint {
				c := complaint(domain.StatusPendingApproval, "o-1")
				c.ResolvedAt = &resolvedAt
				c.Escalated = true
				return c
			},
			at:   48 * time.Hour,
			want: []domain.AlertTag{domain.AlertAwaitingApproval},
		},
		{
			name: "approved",
			c: func() domain.Complaint {
				c := complaint(domain.StatusApproved, "o-1")
				c.ResolvedAt = &resolvedAt
				return c
			},
			at:   48 * time.Hour,
			want: []domain.AlertTag{domain.AlertPendingClosure},
		},
		{
			name: "closed",
			c: func() domain.Complaint {
				c := complaint(domain.StatusClosed, "o-1")
				c.ResolvedAt = &resolvedAt
				return c
			},
			at:   100 * time.Hour,
			want: []domain.AlertTag{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.c()
			got := Classify(c, sla.Assess(c, t0.Add(tc.at)))
			assert.Equal(t, tc.want, got)
		})
	}
}

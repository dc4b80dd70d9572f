package sla

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/lifecycle"
)

var t0 = time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC)

func openComplaint(status domain.ComplaintStatus) domain.Complaint {
	officer := "off-1"
	return domain.Complaint{
		ID:                "c-1",
		Status:            status,
		DepartmentID:      "dept-1",
		CreatedAt:         t0,
		UpdatedAt:         t0,
		SLAHoursAllocated: 24,
		AssignedOfficerID: &officer,
	}
}

func TestAssessThresholds(t *testing.T) {
	c := openComplaint(domain.StatusInProgress)
	cases := []struct {
		at   time.Duration
		want domain.SLAStatus
	}{
		{0, domain.SLAOnTrack},
		{11 * time.Hour, domain.SLAOnTrack},
		{12 * time.Hour, domain.SLAWarning},
		{13 * time.Hour, domain.SLAWarning},
		{18 * time.Hour, domain.SLACritical},
		{19 * time.Hour, domain.SLACritical},
		{24 * time.Hour, domain.SLABreached},
		{25 * time.Hour, domain.SLABreached},
	}
	for _, tc := range cases {
		t.Run(tc.at.String(), func(t *testing.T) {
			a := Assess(c, t0.Add(tc.at))
			assert.Equal(t, tc.want, a.Status)
			assert.False(t, a.Frozen)
			assert.Empty(t, a.Outcome)
			assert.InDelta(t, 24-tc.at.Hours(), a.RemainingHours, 1e-9)
			assert.Equal(t, t0.Add(24*time.Hour), a.Deadline)
		})
	}
}

func TestAssessClampsClockSkew(t *testing.T) {
	a := Assess(openComplaint(domain.StatusSubmitted), t0.Add(-time.Hour))
	assert.Equal(t, 0.0, a.ElapsedHours)
	assert.Equal(t, domain.SLAOnTrack, a.Status)
}

func TestTwentyFourHourScenario(t *testing.T) {
	c := openComplaint(domain.StatusInProgress)

	c, a, flipped := Evaluate(c, t0.Add(13*time.Hour))
	assert.Equal(t, domain.SLAWarning, a.Status)
	assert.False(t, flipped)

	c, a, flipped = Evaluate(c, t0.Add(19*time.Hour))
	assert.Equal(t, domain.SLACritical, a.Status)
	assert.False(t, flipped)
	assert.False(t, c.Escalated)

	breached, a, flipped := Evaluate(c, t0.Add(25*time.Hour))
	assert.Equal(t, domain.SLABreached, a.Status)
	assert.True(t, flipped)
	assert.True(t, breached.Escalated)
	assert.False(t, c.Escalated, "input must not be mutated")

	_, _, flipped = Evaluate(breached, t0.Add(26*time.Hour))
	assert.False(t, flipped, "flag flips once")
}

func TestResolvedClockIsFrozen(t *testing.T) {
	c := openComplaint(domain.StatusInProgress)
	resolved, err := lifecycle.Transition(c, domain.StatusResolved, domain.Actor{ID: "off-1", Role: domain.RoleDepartmentOfficer}, "fixed", t0.Add(20*time.Hour))
	require.NoError(t, err)

	at20 := Assess(resolved, t0.Add(20*time.Hour))
	at40 := Assess(resolved, t0.Add(40*time.Hour))

	assert.Equal(t, at20, at40)
	assert.Equal(t, domain.SLACritical, at40.Status)
	assert.True(t, at40.Frozen)
	assert.Equal(t, domain.SLAMet, at40.Outcome)
	assert.InDelta(t, 20, at40.ElapsedHours, 1e-9)

	after, _, flipped := Evaluate(resolved, t0.Add(40*time.Hour))
	assert.False(t, flipped)
	assert.Equal(t, resolved.Escalated, after.Escalated)
}

func TestLateResolutionIsMissedButNotEscalated(t *testing.T) {
	c := openComplaint(domain.StatusResolved)
	resolvedAt := t0.Add(30 * time.Hour)
	c.ResolvedAt = &resolvedAt

	next, a, flipped := Evaluate(c, t0.Add(50*time.Hour))
	assert.Equal(t, domain.SLABreached, a.Status)
	assert.Equal(t, domain.SLAMissed, a.Outcome)
	assert.False(t, flipped)
	assert.False(t, next.Escalated)
}

func TestClosedWithoutResolvedAtFreezesAtClosedAt(t *testing.T) {
	c := openComplaint(domain.StatusClosed)
	closedAt := t0.Add(6 * time.Hour)
	c.ClosedAt = &closedAt

	a := Assess(c, t0.Add(100*time.Hour))
	assert.True(t, a.Frozen)
	assert.InDelta(t, 6, a.ElapsedHours, 1e-9)
	assert.Equal(t, domain.SLAOnTrack, a.Status)
}

func TestRejectedComplaintIsNeverEscalated(t *testing.T) {
	c := openComplaint(domain.StatusRejected)
	rejectedAt := t0.Add(2 * time.Hour)
	c.RejectedAt = &rejectedAt

	next, a, flipped := Evaluate(c, t0.Add(200*time.Hour))
	assert.True(t, a.Frozen)
	assert.False(t, flipped)
	assert.False(t, next.Escalated)
}

func TestFractionalAllocation(t *testing.T) {
	c := openComplaint(domain.StatusSubmitted)
	c.SLAHoursAllocated = 1.5
	assert.Equal(t, t0.Add(90*time.Minute), Deadline(c))
	assert.Equal(t, domain.SLAWarning, Assess(c, t0.Add(45*time.Minute)).Status)
}

func TestSLAProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	minutes := gen.IntRange(0, 24*60*10)
	allocation := gen.IntRange(1, 240)

	properties.Property("assessment is idempotent", prop.ForAll(
		func(alloc, at int) bool {
			c := openComplaint(domain.StatusInProgress)
			c.SLAHoursAllocated = float64(alloc)
			now := t0.Add(time.Duration(at) * time.Minute)
			return Assess(c, now) == Assess(c, now)
		},
		allocation, minutes,
	))

	properties.Property("a closed clock never drifts", prop.ForAll(
		func(alloc, doneAt, later int) bool {
			c := openComplaint(domain.StatusResolved)
			c.SLAHoursAllocated = float64(alloc)
			resolved := t0.Add(time.Duration(doneAt) * time.Minute)
			c.ResolvedAt = &resolved
			first := Assess(c, resolved)
			return first == Assess(c, resolved.Add(time.Duration(later)*time.Minute))
		},
		allocation, minutes, minutes,
	))

	properties.Property("escalation is monotonic under advancing time", prop.ForAll(
		func(alloc int, steps []int) bool {
			c := openComplaint(domain.StatusInProgress)
			c.SLAHoursAllocated = float64(alloc)
			now := t0
			seen := false
			for _, step := range steps {
				now = now.Add(time.Duration(step) * time.Minute)
				c, _, _ = Evaluate(c, now)
				if seen && !c.Escalated {
					return false
				}
				seen = seen || c.Escalated
			}
			return true
		},
		allocation, gen.SliceOf(gen.IntRange(0, 600)),
	))

	properties.Property("status worsens monotonically while open", prop.ForAll(
		func(alloc, a, b int) bool {
			if a > b {
				a, b = b, a
			}
			c := openComplaint(domain.StatusInProgress)
			c.SLAHoursAllocated = float64(alloc)
			return rank(Assess(c, t0.Add(time.Duration(a)*time.Minute)).Status) <=
				rank(Assess(c, t0.Add(time.Duration(b)*time.Minute)).Status)
		},
		allocation, minutes, minutes,
	))

	properties.TestingRun(t)
}

func rank(s domain.SLAStatus) int {
	switch s {
	case domain.SLAOnTrack:
		return 0
	case domain.SLAWarning:
		return 1
	case domain.SLACritical:
		return 2
	default:
		return 3
	}
}

package domain

import (
	"fmt"
	"strings"
)

// StatusCategory groups statuses for dashboards and filtering.
type StatusCategory string

const (
	CategoryOpen       StatusCategory = "OPEN"
	CategoryInWork     StatusCategory = "IN_WORK"
	CategoryResolution StatusCategory = "RESOLUTION"
	CategoryTerminal   StatusCategory = "TERMINAL"
	CategoryTransient  StatusCategory = "TRANSIENT"
)

// StatusMeta describes classification attributes of a status.
type StatusMeta struct {
	Status   ComplaintStatus
	Label    string
	Category StatusCategory
	// Active statuses are unresolved work: they may be rejected and escalated.
	Active bool
	// Terminal statuses accept no further forward transition.
	Terminal bool
}

var statusTable = []StatusMeta{
	{Status: StatusSubmitted, Label: "Submitted", Category: CategoryOpen, Active: true},
	{Status: StatusAssigned, Label: "Assigned", Category: CategoryOpen, Active: true},
	{Status: StatusInProgress, Label: "In progress", Category: CategoryInWork, Active: true},
	{Status: StatusOnHold, Label: "On hold", Category: CategoryInWork, Active: true},
	{Status: StatusResolved, Label: "Resolved", Category: CategoryResolution},
	{Status: StatusPendingApproval, Label: "Pending approval", Category: CategoryResolution},
	{Status: StatusApproved, Label: "Approved", Category: CategoryResolution},
	{Status: StatusClosed, Label: "Closed", Category: CategoryTerminal, Terminal: true},
	{Status: StatusRejected, Label: "Rejected", Category: CategoryTerminal, Terminal: true},
	{Status: StatusReopened, Label: "Reopened", Category: CategoryTransient},
}

var statusIndex = func() map[ComplaintStatus]StatusMeta {
	idx := make(map[ComplaintStatus]StatusMeta, len(statusTable))
	for _, m := range statusTable {
		idx[m.Status] = m
	}
	return idx
}()

// Statuses returns the metadata table in workflow order.
func Statuses() []StatusMeta {
	out := make([]StatusMeta, len(statusTable))
	copy(out, statusTable)
	return out
}

// Meta returns the metadata for s.
func (s ComplaintStatus) Meta() (StatusMeta, bool) {
	m, ok := statusIndex[s]
	return m, ok
}

// Valid reports whether s is a canonical status.
func (s ComplaintStatus) Valid() bool {
	_, ok := statusIndex[s]
	return ok
}

// IsActive reports whether s is unresolved work.
func (s ComplaintStatus) IsActive() bool {
	return statusIndex[s].Active
}

// IsTerminal reports whether s is CLOSED or REJECTED.
func (s ComplaintStatus) IsTerminal() bool {
	return statusIndex[s].Terminal
}

var legacyAliases = map[string]ComplaintStatus{
	"NEW":        StatusSubmitted,
	"RECEIVED":   StatusSubmitted,
	"OPEN":       StatusSubmitted,
	"INPROGRESS": StatusInProgress,
}

// NormalizeLegacyStatus maps a raw status string from storage or a client to
// a canonical status. ESCALATED folds into (current, escalated=true). It is
// meant for boundary adapters only; the core accepts canonical values.
func NormalizeLegacyStatus(raw string, current ComplaintStatus) (ComplaintStatus, bool, error) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, " ", "_")
	if key == string(StatusEscalated) {
		return current, true, nil
	}
	if alias, ok := legacyAliases[key]; ok {
		return alias, false, nil
	}
	status := ComplaintStatus(key)
	if !status.Valid() {
		return "", false, fmt.Errorf("unknown complaint status %q", raw)
	}
	return status, false, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// ComplaintStore is the narrow storage contract the workflow depends on.
type ComplaintStore interface {
	GetByID(ctx context.Context, id string) (domain.Complaint, error)
	// CompareAndSwap persists next only if the stored version still equals
	// current.Version. It returns next with the new version and history IDs.
	CompareAndSwap(ctx context.Context, current, next domain.Complaint) (domain.Complaint, error)
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	ComplaintStore
	Create(ctx context.Context, complaint domain.Complaint) (domain.Complaint, error)
	// ListOpen pages through complaints whose SLA clock is still running, in
	// (created_at, id) order strictly after the cursor. Results carry no
	// history.
	ListOpen(ctx context.Context, after domain.ComplaintCursor, limit int) ([]domain.Complaint, error)
	ListByCitizen(ctx context.Context, citizenID string, limit, offset int) ([]domain.Complaint, error)
	// MarkEscalated sets the escalation flag without touching the version.
	MarkEscalated(ctx context.Context, id string) error
}

const complaintColumns = `id, citizen_id, title, description, status, priority, department_id, ward_id,
               assigned_officer_id, sla_hours_allocated, escalated, reopen_count, rating, feedback_comment,
               created_at, updated_at, resolved_at, closed_at, rejected_at, version`

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint domain.Complaint) (domain.Complaint, error) {
	const query = `
        INSERT INTO complaints (id, citizen_id, title, description, status, priority, department_id, ward_id,
            assigned_officer_id, sla_hours_allocated, escalated, reopen_count, rating, feedback_comment,
            created_at, updated_at, resolved_at, closed_at, rejected_at, version)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,1)`

	out := complaint.Clone()
	if out.ID == "" {
		out.ID = uuid.NewString()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Complaint{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, query,
		out.ID,
		out.CitizenID,
		out.Title,
		out.Description,
		out.Status,
		out.Priority,
		out.DepartmentID,
		out.WardID,
		out.AssignedOfficerID,
		out.SLAHoursAllocated,
		out.Escalated,
		out.ReopenCount,
		out.Rating,
		out.FeedbackComment,
		out.CreatedAt,
		out.UpdatedAt,
		out.ResolvedAt,
		out.ClosedAt,
		out.RejectedAt,
	); err != nil {
		return domain.Complaint{}, err
	}

	if err := insertHistory(ctx, tx, out.ID, 0, out.History); err != nil {
		return domain.Complaint{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Complaint{}, err
	}

	out.Version = 1
	return out, nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`

	complaint, legacy, err := scanComplaint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Complaint{}, err
	}

	history, err := listHistory(ctx, r.pool, id)
	if err != nil {
		return domain.Complaint{}, err
	}
	complaint.History = history
	if legacy {
		complaint.Status = recoverStatus(complaint)
	}
	return complaint, nil
}

func (r *complaintRepository) CompareAndSwap(ctx context.Context, current, next domain.Complaint) (domain.Complaint, error) {
	if current.ID != next.ID {
		return domain.Complaint{}, errorutil.NewValidationError("complaint id changed between reads", map[string]any{
			"current": current.ID,
			"next":    next.ID,
		})
	}
	if len(next.History) < len(current.History) {
		return domain.Complaint{}, errorutil.NewValidationError("history is append-only", nil)
	}

	const query = `
        UPDATE complaints SET status=$1, priority=$2, assigned_officer_id=$3, escalated = escalated OR $4,
            reopen_count=$5, rating=$6, feedback_comment=$7, updated_at=$8, resolved_at=$9, closed_at=$10,
            rejected_at=$11, version = version + 1
        WHERE id=$12 AND version=$13
        RETURNING version, escalated`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Complaint{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out := next.Clone()
	err = tx.QueryRow(ctx, query,
		out.Status,
		out.Priority,
		out.AssignedOfficerID,
		out.Escalated,
		out.ReopenCount,
		out.Rating,
		out.FeedbackComment,
		out.UpdatedAt,
		out.ResolvedAt,
		out.ClosedAt,
		out.RejectedAt,
		out.ID,
		current.Version,
	).Scan(&out.Version, &out.Escalated)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Complaint{}, errorutil.ErrConcurrentModification.With(map[string]any{
			"complaint_id": current.ID,
			"version":      current.Version,
		})
	}
	if err != nil {
		return domain.Complaint{}, err
	}

	offset := len(current.History)
	appended := out.History[offset:]
	if err := insertHistory(ctx, tx, out.ID, offset, appended); err != nil {
		return domain.Complaint{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Complaint{}, err
	}
	return out, nil
}

func (r *complaintRepository) ListOpen(ctx context.Context, after domain.ComplaintCursor, limit int) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints
        WHERE resolved_at IS NULL AND closed_at IS NULL AND rejected_at IS NULL`
	var args []any
	if !after.IsZero() {
		query += ` AND (created_at, id) > ($1, $2)`
		args = append(args, after.CreatedAt, after.ID)
	}
	query += fmt.Sprintf(` ORDER BY created_at ASC, id ASC LIMIT %d`, pageLimit(limit, 100))
	return r.list(ctx, query, args...)
}

func (r *complaintRepository) ListByCitizen(ctx context.Context, citizenID string, limit, offset int) ([]domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE citizen_id=$1
        ORDER BY created_at DESC LIMIT %d OFFSET %d`, complaintColumns, pageLimit(limit, 20), pageOffset(offset))
	return r.list(ctx, query, citizenID)
}

// list runs a complaint listing. Rows still stored as ESCALATED get their
// workflow status from history once the result set is drained.
func (r *complaintRepository) list(ctx context.Context, query string, args ...any) ([]domain.Complaint, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	list, legacy, err := scanComplaints(rows)
	if err != nil {
		return nil, err
	}
	if err := recoverLegacyStatuses(ctx, r.pool, list, legacy); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *complaintRepository) MarkEscalated(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE complaints SET escalated = TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// insertHistory writes entries starting at sequence number seq, assigning
// IDs to entries that have none.
func insertHistory(ctx context.Context, tx pgx.Tx, complaintID string, seq int, entries []domain.StatusHistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	const query = `
        INSERT INTO complaint_status_history (id, complaint_id, seq, status, changed_by_id, changed_by_role, remarks, changed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	batch := &pgx.Batch{}
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		entries[i].ComplaintID = complaintID
		e := entries[i]
		batch.Queue(query, e.ID, complaintID, seq+i, e.Status, e.ChangedBy.ID, e.ChangedBy.Role, e.Remarks, e.ChangedAt)
	}
	return tx.SendBatch(ctx, batch).Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanComplaint reads one row. The bool result reports a legacy ESCALATED
// status whose underlying workflow status must be recovered.
func scanComplaint(row rowScanner) (domain.Complaint, bool, error) {
	var (
		c         domain.Complaint
		rawStatus string
	)
	if err := row.Scan(
		&c.ID,
		&c.CitizenID,
		&c.Title,
		&c.Description,
		&rawStatus,
		&c.Priority,
		&c.DepartmentID,
		&c.WardID,
		&c.AssignedOfficerID,
		&c.SLAHoursAllocated,
		&c.Escalated,
		&c.ReopenCount,
		&c.Rating,
		&c.FeedbackComment,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.ResolvedAt,
		&c.ClosedAt,
		&c.RejectedAt,
		&c.Version,
	); err != nil {
		return domain.Complaint{}, false, err
	}

	status, escalated, err := domain.NormalizeLegacyStatus(rawStatus, "")
	if err != nil {
		return domain.Complaint{}, false, err
	}
	c.Escalated = c.Escalated || escalated
	c.Status = status
	if status == "" {
		c.Status = recoverStatus(c)
		return c, true, nil
	}
	return c, false, nil
}

// scanComplaints drains rows. The int slice indexes the legacy rows.
func scanComplaints(rows pgx.Rows) ([]domain.Complaint, []int, error) {
	defer rows.Close()
	var (
		result []domain.Complaint
		legacy []int
	)
	for rows.Next() {
		c, isLegacy, err := scanComplaint(rows)
		if err != nil {
			return nil, nil, err
		}
		if isLegacy {
			legacy = append(legacy, len(result))
		}
		result = append(result, c)
	}
	return result, legacy, rows.Err()
}

// recoverLegacyStatuses reloads history for the listed legacy rows and sets
// their status the way GetByID does. The history itself is not attached.
func recoverLegacyStatuses(ctx context.Context, q querier, list []domain.Complaint, legacy []int) error {
	for _, i := range legacy {
		history, err := listHistory(ctx, q, list[i].ID)
		if err != nil {
			return err
		}
		withHistory := list[i]
		withHistory.History = history
		list[i].Status = recoverStatus(withHistory)
	}
	return nil
}

// recoverStatus picks the workflow status for rows stored with the legacy
// ESCALATED value: the last canonical history status, else the intake state.
func recoverStatus(c domain.Complaint) domain.ComplaintStatus {
	for i := len(c.History) - 1; i >= 0; i-- {
		s := c.History[i].Status
		if s.Valid() && s != domain.StatusReopened {
			return s
		}
	}
	if c.IsAssigned() {
		return domain.StatusAssigned
	}
	return domain.StatusSubmitted
}

func pageLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}

func pageOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicdesk/complaint-service/internal/domain"
)

// ComplaintHistoryRepository reads the status audit trail.
type ComplaintHistoryRepository interface {
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.StatusHistoryEntry, error)
}

type complaintHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintHistoryRepository builds repository.
func NewComplaintHistoryRepository(pool *pgxpool.Pool) ComplaintHistoryRepository {
	return &complaintHistoryRepository{pool: pool}
}

func (r *complaintHistoryRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.StatusHistoryEntry, error) {
	return listHistory(ctx, r.pool, complaintID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func listHistory(ctx context.Context, q querier, complaintID string) ([]domain.StatusHistoryEntry, error) {
	const query = `
        SELECT id, complaint_id, status, changed_by_id, changed_by_role, remarks, changed_at
        FROM complaint_status_history WHERE complaint_id=$1 ORDER BY seq ASC`
	rows, err := q.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		result []domain.StatusHistoryEntry
		prev   domain.ComplaintStatus
	)
	for rows.Next() {
		var (
			entry     domain.StatusHistoryEntry
			rawStatus string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.ComplaintID,
			&rawStatus,
			&entry.ChangedBy.ID,
			&entry.ChangedBy.Role,
			&entry.Remarks,
			&entry.ChangedAt,
		); err != nil {
			return nil, err
		}
		status, _, err := domain.NormalizeLegacyStatus(rawStatus, prev)
		if err != nil {
			return nil, err
		}
		entry.Status = status
		if status != "" {
			prev = status
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

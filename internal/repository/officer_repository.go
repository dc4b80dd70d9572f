package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicdesk/complaint-service/internal/domain"
)

// OfficerDirectory is the read contract used by assignment.
type OfficerDirectory interface {
	// ListByDepartment returns officers of a department in a stable order.
	ListByDepartment(ctx context.Context, departmentID string) ([]domain.Officer, error)
	GetByID(ctx context.Context, id string) (*domain.Officer, error)
}

// OfficerRepository handles persistence for officers.
type OfficerRepository interface {
	OfficerDirectory
	Create(ctx context.Context, officer *domain.Officer) error
	Update(ctx context.Context, officer *domain.Officer) error
	GetByEmail(ctx context.Context, email string) (*domain.Officer, error)
	List(ctx context.Context, filter OfficerFilter) ([]domain.Officer, error)
}

// OfficerFilter defines query params for officer listing.
type OfficerFilter struct {
	Role         *domain.OfficerRole
	DepartmentID *string
	WardID       *string
	Active       *bool
	Limit        int
	Offset       int
}

const officerColumns = `id, name, email, password_hash, role, department_id, ward_id, active_flag, created_at, updated_at`

type officerRepository struct {
	pool *pgxpool.Pool
}

// NewOfficerRepository instantiates the repository.
func NewOfficerRepository(pool *pgxpool.Pool) OfficerRepository {
	return &officerRepository{pool: pool}
}

func (r *officerRepository) Create(ctx context.Context, officer *domain.Officer) error {
	const query = `
        INSERT INTO officers (name, email, password_hash, role, department_id, ward_id, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		officer.Name,
		officer.Email,
		officer.PasswordHash,
		officer.Role,
		officer.DepartmentID,
		officer.WardID,
		officer.Active,
	).Scan(&officer.ID, &officer.CreatedAt, &officer.UpdatedAt)
}

func (r *officerRepository) Update(ctx context.Context, officer *domain.Officer) error {
	const query = `
        UPDATE officers
        SET name=$1, email=$2, password_hash=$3, role=$4, department_id=$5, ward_id=$6, active_flag=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		officer.Name,
		officer.Email,
		officer.PasswordHash,
		officer.Role,
		officer.DepartmentID,
		officer.WardID,
		officer.Active,
		officer.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *officerRepository) GetByID(ctx context.Context, id string) (*domain.Officer, error) {
	query := `SELECT ` + officerColumns + ` FROM officers WHERE id=$1`
	officer, err := scanOfficer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return &officer, nil
}

func (r *officerRepository) GetByEmail(ctx context.Context, email string) (*domain.Officer, error) {
	query := `SELECT ` + officerColumns + ` FROM officers WHERE LOWER(email)=LOWER($1)`
	officer, err := scanOfficer(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, err
	}
	return &officer, nil
}

func (r *officerRepository) ListByDepartment(ctx context.Context, departmentID string) ([]domain.Officer, error) {
	active := true
	return r.List(ctx, OfficerFilter{DepartmentID: &departmentID, Active: &active, Limit: 500})
}

func (r *officerRepository) List(ctx context.Context, filter OfficerFilter) ([]domain.Officer, error) {
	query := `SELECT ` + officerColumns + ` FROM officers`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.WardID != nil {
		args = append(args, *filter.WardID)
		clauses = append(clauses, fmt.Sprintf("ward_id=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY created_at ASC, id ASC LIMIT %d OFFSET %d",
		pageLimit(filter.Limit, 50), pageOffset(filter.Offset))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Officer
	for rows.Next() {
		officer, err := scanOfficer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, officer)
	}
	return result, rows.Err()
}

func scanOfficer(row rowScanner) (domain.Officer, error) {
	var officer domain.Officer
	err := row.Scan(
		&officer.ID,
		&officer.Name,
		&officer.Email,
		&officer.PasswordHash,
		&officer.Role,
		&officer.DepartmentID,
		&officer.WardID,
		&officer.Active,
		&officer.CreatedAt,
		&officer.UpdatedAt,
	)
	return officer, err
}

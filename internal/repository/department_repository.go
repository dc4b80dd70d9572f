package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicdesk/complaint-service/internal/domain"
)

// DepartmentRepository manages departments and their SLA policy.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	// Update rewrites the department. Complaints already filed keep the SLA
	// hours they were created with.
	Update(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	ListActive(ctx context.Context) ([]domain.Department, error)
}

const departmentColumns = `id, name, description, sla_hours, is_active, created_at, updated_at`

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO departments (name, description, sla_hours, is_active)
        VALUES ($1,$2,$3,$4)
        RETURNING `+departmentColumns,
		dept.Name, dept.Description, dept.SLAHours, dept.IsActive)
	return scanDepartment(row, dept)
}

// Update returns pgx.ErrNoRows for an unknown department.
func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	row := r.pool.QueryRow(ctx, `
        UPDATE departments SET name=$1, description=$2, sla_hours=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING `+departmentColumns,
		dept.Name, dept.Description, dept.SLAHours, dept.IsActive, dept.ID)
	return scanDepartment(row, dept)
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	var dept domain.Department
	row := r.pool.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id=$1`, id)
	if err := scanDepartment(row, &dept); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) ListActive(ctx context.Context) ([]domain.Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+departmentColumns+` FROM departments WHERE is_active ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Department, error) {
		var dept domain.Department
		err := scanDepartment(row, &dept)
		return dept, err
	})
}

func scanDepartment(row rowScanner, dept *domain.Department) error {
	return row.Scan(
		&dept.ID,
		&dept.Name,
		&dept.Description,
		&dept.SLAHours,
		&dept.IsActive,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	)
}

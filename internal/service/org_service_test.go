package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/repository"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

type memDepartmentRepo struct {
	rows map[string]*domain.Department
}

func (m *memDepartmentRepo) Create(_ context.Context, d *domain.Department) error {
	d.ID = fmt.Sprintf("dept-%d", len(m.rows)+1)
	cp := *d
	m.rows[d.ID] = &cp
	return nil
}

func (m *memDepartmentRepo) Update(_ context.Context, d *domain.Department) error {
	if _, ok := m.rows[d.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *d
	m.rows[d.ID] = &cp
	return nil
}

func (m *memDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	if d, ok := m.rows[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memDepartmentRepo) ListActive(_ context.Context) ([]domain.Department, error) {
	var out []domain.Department
	for _, d := range m.rows {
		if d.IsActive {
			out = append(out, *d)
		}
	}
	return out, nil
}

type memOfficerRepo struct {
	memOfficers
}

func (m *memOfficerRepo) Create(_ context.Context, o *domain.Officer) error {
	o.ID = fmt.Sprintf("officer-%d", len(m.memOfficers)+1)
	m.memOfficers = append(m.memOfficers, *o)
	return nil
}

func (m *memOfficerRepo) Update(_ context.Context, o *domain.Officer) error {
	for i := range m.memOfficers {
		if m.memOfficers[i].ID == o.ID {
			m.memOfficers[i] = *o
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memOfficerRepo) GetByEmail(_ context.Context, email string) (*domain.Officer, error) {
	for _, o := range m.memOfficers {
		if o.Email == email {
			cp := o
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memOfficerRepo) List(_ context.Context, filter repository.OfficerFilter) ([]domain.Officer, error) {
	var out []domain.Officer
	for _, o := range m.memOfficers {
		if filter.DepartmentID != nil && o.DepartmentID != *filter.DepartmentID {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func TestOrgServiceDepartmentsAndOfficers(t *testing.T) {
	depts := &memDepartmentRepo{rows: map[string]*domain.Department{}}
	officers := &memOfficerRepo{}
	svc := NewOrgService(testConfig(), OrgDependencies{DepartmentRepo: depts, OfficerRepo: officers})
	ctx := context.Background()

	_, err := svc.CreateDepartment(ctx, ward, "Roads", "", 24)
	assert.Equal(t, apperrors.CodeForbidden, codeOf(err))

	_, err = svc.CreateDepartment(ctx, admin, "Roads", "", 0)
	assert.Equal(t, apperrors.CodeValidation, codeOf(err))

	dept, err := svc.CreateDepartment(ctx, admin, "Roads", "potholes and lights", 24)
	require.NoError(t, err)
	assert.Equal(t, 24.0, dept.SLAHours)

	dept, err = svc.UpdateDepartmentSLA(ctx, admin, dept.ID, 36)
	require.NoError(t, err)
	assert.Equal(t, 36.0, dept.SLAHours)

	list, err := svc.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	input := OfficerCreateInput{
		Name:         "Ravi",
		Email:        "ravi@city.gov",
		Password:     "s3cret",
		Role:         domain.OfficerRoleDepartment,
		DepartmentID: dept.ID,
		WardID:       "ward-3",
	}
	officer, err := svc.CreateOfficer(ctx, admin, input)
	require.NoError(t, err)
	assert.True(t, officer.Active)
	assert.NotEqual(t, "s3cret", officer.PasswordHash)

	_, err = svc.CreateOfficer(ctx, admin, input)
	assert.Equal(t, apperrors.CodeConflict, codeOf(err))

	input.Email = "other@city.gov"
	input.Role = "JANITOR"
	_, err = svc.CreateOfficer(ctx, admin, input)
	assert.Equal(t, apperrors.CodeValidation, codeOf(err))

	officer, err = svc.SetOfficerActive(ctx, admin, officer.ID, false)
	require.NoError(t, err)
	assert.False(t, officer.Active)

	all, err := svc.ListOfficers(ctx, admin, repository.OfficerFilter{DepartmentID: &dept.ID})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

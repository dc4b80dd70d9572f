package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/api/dto"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/lifecycle"
	"github.com/civicdesk/complaint-service/internal/service"
)

var knownRoles = []domain.Role{
	domain.RoleCitizen,
	domain.RoleWardOfficer,
	domain.RoleDepartmentOfficer,
	domain.RoleAdmin,
	domain.RoleSystem,
}

// MetaHandler serves reference data.
type MetaHandler struct {
	org *service.OrgService
}

// NewMetaHandler constructs handler.
func NewMetaHandler(org *service.OrgService) *MetaHandler {
	return &MetaHandler{org: org}
}

// Statuses GET /meta/statuses.
func (h *MetaHandler) Statuses(c *fiber.Ctx) error {
	table := domain.Statuses()
	items := make([]dto.StatusMetaResponse, 0, len(table))
	for _, m := range table {
		perms := make([]domain.Role, 0, len(knownRoles))
		for _, role := range knownRoles {
			if lifecycle.RoleAllowed(m.Status, role) {
				perms = append(perms, role)
			}
		}
		items = append(items, dto.StatusMetaResponse{
			Status:      m.Status,
			Label:       m.Label,
			Category:    m.Category,
			Active:      m.Active,
			Terminal:    m.Terminal,
			Successors:  lifecycle.Successors(m.Status),
			Permissions: perms,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Departments GET /departments.
func (h *MetaHandler) Departments(c *fiber.Ctx) error {
	list, err := h.org.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(list))
	for _, d := range list {
		items = append(items, departmentResponse(d))
	}
	return c.JSON(fiber.Map{"data": items})
}

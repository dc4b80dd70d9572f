package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/api/dto"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/repository"
	"github.com/civicdesk/complaint-service/internal/service"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// AdminHandler manages departments and officer accounts.
type AdminHandler struct {
	org *service.OrgService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(org *service.OrgService) *AdminHandler {
	return &AdminHandler{org: org}
}

// CreateDepartment POST /admin/departments.
func (h *AdminHandler) CreateDepartment(c *fiber.Ctx) error {
	actor, err := officerActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.org.CreateDepartment(c.UserContext(), actor, req.Name, req.Description, req.SLAHours)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": departmentResponse(*dept)})
}

// UpdateDepartmentSLA PATCH /admin/departments/:id/sla.
func (h *AdminHandler) UpdateDepartmentSLA(c *fiber.Ctx) error {
	actor, err := officerActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateDepartmentSLARequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.org.UpdateDepartmentSLA(c.UserContext(), actor, c.Params("id"), req.SLAHours)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(*dept)})
}

// CreateOfficer POST /admin/officers.
func (h *AdminHandler) CreateOfficer(c *fiber.Ctx) error {
	actor, err := officerActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateOfficerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	officer, err := h.org.CreateOfficer(c.UserContext(), actor, service.OfficerCreateInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		WardID:       req.WardID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": officerResponse(*officer)})
}

// ListOfficers GET /admin/officers.
func (h *AdminHandler) ListOfficers(c *fiber.Ctx) error {
	actor, err := officerActor(c)
	if err != nil {
		return err
	}
	filter := repository.OfficerFilter{}
	if role := c.Query("role"); role != "" {
		r := domain.OfficerRole(role)
		filter.Role = &r
	}
	if dept := c.Query("department_id"); dept != "" {
		filter.DepartmentID = &dept
	}
	if ward := c.Query("ward_id"); ward != "" {
		filter.WardID = &ward
	}
	if active := c.Query("active"); active != "" {
		v := c.QueryBool("active")
		filter.Active = &v
	}
	filter.Limit, filter.Offset = paging(c, 50)

	officers, err := h.org.ListOfficers(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": officerList(officers)})
}

// SetOfficerActive PATCH /admin/officers/:id/active.
func (h *AdminHandler) SetOfficerActive(c *fiber.Ctx) error {
	actor, err := officerActor(c)
	if err != nil {
		return err
	}
	var req dto.SetOfficerActiveRequest
	if err := c.BodyParser(&req); err != nil || req.Active == nil {
		return apperrors.NewValidationError("active flag required", nil)
	}
	officer, err := h.org.SetOfficerActive(c.UserContext(), actor, c.Params("id"), *req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": officerResponse(*officer)})
}

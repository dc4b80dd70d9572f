package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/api/dto"
	"github.com/civicdesk/complaint-service/internal/auth"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/service"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// ComplaintsHandler manages citizen complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// CreateComplaint POST /complaints.
func (h *ComplaintsHandler) CreateComplaint(c *fiber.Ctx) error {
	citizen, err := citizenActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.DepartmentID == "" || req.WardID == "" || strings.TrimSpace(req.Title) == "" {
		return apperrors.NewValidationError("department_id, ward_id, title required", nil)
	}
	if req.Priority == "" {
		req.Priority = domain.PriorityMedium
	}

	complaint, err := h.service.Create(c.UserContext(), citizen, service.ComplaintCreateInput{
		DepartmentID: req.DepartmentID,
		WardID:       req.WardID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Priority:     req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// ListComplaints GET /complaints.
func (h *ComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	citizen, err := citizenActor(c)
	if err != nil {
		return err
	}
	limit, offset := paging(c, 20)
	views, err := h.service.ListForCitizen(c.UserContext(), citizen, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(views))
	for _, v := range views {
		items = append(items, complaintViewResponse(v))
	}
	return c.JSON(fiber.Map{"data": items, "meta": fiber.Map{"limit": limit, "offset": offset}})
}

// GetComplaint GET /complaints/:id.
func (h *ComplaintsHandler) GetComplaint(c *fiber.Ctx) error {
	citizen, err := citizenActor(c)
	if err != nil {
		return err
	}
	view, err := h.service.GetForCitizen(c.UserContext(), citizen, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintViewResponse(view)})
}

// ReopenComplaint POST /complaints/:id/reopen.
func (h *ComplaintsHandler) ReopenComplaint(c *fiber.Ctx) error {
	citizen, err := citizenActor(c)
	if err != nil {
		return err
	}
	var req dto.ReopenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.Reopen(c.UserContext(), c.Params("id"), citizen, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// SubmitFeedback POST /complaints/:id/feedback.
func (h *ComplaintsHandler) SubmitFeedback(c *fiber.Ctx) error {
	citizen, err := citizenActor(c)
	if err != nil {
		return err
	}
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.SubmitFeedback(c.UserContext(), c.Params("id"), citizen, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

func citizenActor(c *fiber.Ctx) (domain.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Citizen == nil {
		return domain.Actor{}, apperrors.NewUnauthorized("citizen required")
	}
	return principal.Actor(), nil
}

func officerActor(c *fiber.Ctx) (domain.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Officer == nil {
		return domain.Actor{}, apperrors.NewUnauthorized("officer required")
	}
	return principal.Actor(), nil
}

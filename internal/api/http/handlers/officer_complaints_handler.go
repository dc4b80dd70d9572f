package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/api/dto"
	"github.com/civicdesk/complaint-service/internal/auth"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/service"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// OfficerComplaintsHandler exposes complaint operations for officers.
type OfficerComplaintsHandler struct {
	complaints  *service.ComplaintService
	assignments *service.AssignmentService
}

// NewOfficerComplaintsHandler constructs handler.
func NewOfficerComplaintsHandler(complaints *service.ComplaintService, assignments *service.AssignmentService) *OfficerComplaintsHandler {
	return &OfficerComplaintsHandler{complaints: complaints, assignments: assignments}
}

// GetComplaint GET /officer/complaints/:id.
func (h *OfficerComplaintsHandler) GetComplaint(c *fiber.Ctx) error {
	view, err := h.complaints.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintViewResponse(view)})
}

// Transition POST /officer/complaints/:id/transitions.
func (h *OfficerComplaintsHandler) Transition(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Officer == nil {
		return apperrors.NewUnauthorized("officer required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	// Escalation is only ever raised by the SLA engine, so a client asking
	// for ESCALATED is not folded into "status unchanged, escalated=true" the
	// way stored legacy rows are. It stays ESCALATED and the state machine
	// rejects it with INVALID_TRANSITION.
	status, _, err := domain.NormalizeLegacyStatus(req.Status, domain.StatusEscalated)
	if err != nil {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": req.Status})
	}

	complaint, err := h.complaints.TransitionAsOfficer(c.UserContext(), c.Params("id"), status, *principal.Officer, req.Remarks)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// Assign POST /officer/complaints/:id/assignment.
func (h *OfficerComplaintsHandler) Assign(c *fiber.Ctx) error {
	actor, err := officerActor(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OfficerID == "" {
		return apperrors.NewValidationError("officer_id required", nil)
	}
	complaint, err := h.assignments.Assign(c.UserContext(), c.Params("id"), req.OfficerID, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// EligibleOfficers GET /officer/complaints/:id/eligible-officers.
func (h *OfficerComplaintsHandler) EligibleOfficers(c *fiber.Ctx) error {
	officers, err := h.assignments.EligibleOfficers(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": officerList(officers)})
}

// SLA GET /officer/complaints/:id/sla.
func (h *OfficerComplaintsHandler) SLA(c *fiber.Ctx) error {
	assessment, err := h.complaints.SLA(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": slaResponse(assessment)})
}

// Alerts GET /officer/complaints/:id/alerts.
func (h *OfficerComplaintsHandler) Alerts(c *fiber.Ctx) error {
	tags, err := h.complaints.Alerts(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if tags == nil {
		tags = []domain.AlertTag{}
	}
	return c.JSON(fiber.Map{"data": tags})
}

// History GET /officer/complaints/:id/history.
func (h *OfficerComplaintsHandler) History(c *fiber.Ctx) error {
	entries, err := h.complaints.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponse(entries)})
}

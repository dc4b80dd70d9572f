package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/api/dto"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/service"
)

const maxPageSize = 100

func complaintResponse(c domain.Complaint) dto.ComplaintResponse {
	return dto.ComplaintResponse{
		ID:                c.ID,
		CitizenID:         c.CitizenID,
		Title:             c.Title,
		Description:       c.Description,
		Status:            c.Status,
		Priority:          c.Priority,
		DepartmentID:      c.DepartmentID,
		WardID:            c.WardID,
		AssignedOfficerID: c.AssignedOfficerID,
		SLAHoursAllocated: c.SLAHoursAllocated,
		Escalated:         c.Escalated,
		ReopenCount:       c.ReopenCount,
		Rating:            c.Rating,
		FeedbackComment:   c.FeedbackComment,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		ResolvedAt:        c.ResolvedAt,
		ClosedAt:          c.ClosedAt,
		RejectedAt:        c.RejectedAt,
		Version:           c.Version,
	}
}

func complaintViewResponse(v service.ComplaintView) dto.ComplaintResponse {
	resp := complaintResponse(v.Complaint)
	sla := slaResponse(v.SLA)
	resp.SLA = &sla
	resp.Alerts = v.Alerts
	return resp
}

func slaResponse(a domain.SLAAssessment) dto.SLAResponse {
	return dto.SLAResponse{
		ElapsedHours:   a.ElapsedHours,
		RemainingHours: a.RemainingHours,
		Status:         a.Status,
		Deadline:       a.Deadline,
		Frozen:         a.Frozen,
		Outcome:        a.Outcome,
	}
}

func historyResponse(entries []domain.StatusHistoryEntry) []dto.HistoryEntryResponse {
	out := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.HistoryEntryResponse{
			ID:            e.ID,
			Status:        e.Status,
			ChangedByID:   e.ChangedBy.ID,
			ChangedByRole: e.ChangedBy.Role,
			Remarks:       e.Remarks,
			ChangedAt:     e.ChangedAt,
		})
	}
	return out
}

func departmentResponse(d domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		SLAHours:    d.SLAHours,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
	}
}

func officerResponse(o domain.Officer) dto.OfficerResponse {
	return dto.OfficerResponse{
		ID:           o.ID,
		Name:         o.Name,
		Email:        o.Email,
		Role:         o.Role,
		DepartmentID: o.DepartmentID,
		WardID:       o.WardID,
		Active:       o.Active,
	}
}

func officerList(officers []domain.Officer) []dto.OfficerResponse {
	out := make([]dto.OfficerResponse, 0, len(officers))
	for _, o := range officers {
		out = append(out, officerResponse(o))
	}
	return out
}

// paging reads limit and offset query params, clamping limit.
func paging(c *fiber.Ctx, fallback int) (int, int) {
	limit := c.QueryInt("limit", fallback)
	if limit <= 0 {
		limit = fallback
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

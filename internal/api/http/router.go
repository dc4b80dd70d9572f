package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/api/http/handlers"
	"github.com/civicdesk/complaint-service/internal/auth"
	"github.com/civicdesk/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Auth              *handlers.AuthHandler
	Meta              *handlers.MetaHandler
	Complaints        *handlers.ComplaintsHandler
	OfficerComplaints *handlers.OfficerComplaintsHandler
	Admin             *handlers.AdminHandler
	AuthMiddleware    *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Get("/meta/statuses", cfg.Meta.Statuses)
	app.Get("/departments", cfg.Meta.Departments)

	authGroup := app.Group("/auth")
	authGroup.Post("/citizens/register", cfg.Auth.RegisterCitizen)
	authGroup.Post("/citizens/login", cfg.Auth.LoginCitizen)
	authGroup.Post("/officers/login", cfg.Auth.LoginOfficer)

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle, auth.RequireCitizen())
	complaints.Post("/", cfg.Complaints.CreateComplaint)
	complaints.Get("/", cfg.Complaints.ListComplaints)
	complaints.Get("/:id", cfg.Complaints.GetComplaint)
	complaints.Post("/:id/reopen", cfg.Complaints.ReopenComplaint)
	complaints.Post("/:id/feedback", cfg.Complaints.SubmitFeedback)

	officer := app.Group("/officer/complaints", cfg.AuthMiddleware.Handle, auth.RequireOfficer())
	officer.Get("/:id", cfg.OfficerComplaints.GetComplaint)
	officer.Post("/:id/transitions", cfg.OfficerComplaints.Transition)
	officer.Post("/:id/assignment", cfg.OfficerComplaints.Assign)
	officer.Get("/:id/eligible-officers", cfg.OfficerComplaints.EligibleOfficers)
	officer.Get("/:id/sla", cfg.OfficerComplaints.SLA)
	officer.Get("/:id/alerts", cfg.OfficerComplaints.Alerts)
	officer.Get("/:id/history", cfg.OfficerComplaints.History)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireOfficer(domain.OfficerRoleAdmin))
	admin.Post("/departments", cfg.Admin.CreateDepartment)
	admin.Patch("/departments/:id/sla", cfg.Admin.UpdateDepartmentSLA)
	admin.Post("/officers", cfg.Admin.CreateOfficer)
	admin.Get("/officers", cfg.Admin.ListOfficers)
	admin.Patch("/officers/:id/active", cfg.Admin.SetOfficerActive)
}

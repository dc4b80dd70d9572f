package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/domain"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// RequireCitizen ensures a citizen is authenticated.
func RequireCitizen() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeCitizen || principal.Citizen == nil {
			return apperrors.NewForbidden("citizen required")
		}
		return c.Next()
	}
}

// RequireOfficer ensures the officer principal has one of the allowed roles.
// With no roles any officer passes.
func RequireOfficer(allowed ...domain.OfficerRole) fiber.Handler {
	allowedSet := make(map[domain.OfficerRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeOfficer || principal.Officer == nil {
			return apperrors.NewForbidden("officer role required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Officer.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/civicdesk/complaint-service/internal/domain"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// CitizenLookup resolves citizen accounts by ID.
type CitizenLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Citizen, error)
}

// OfficerLookup resolves officer accounts by ID.
type OfficerLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Officer, error)
}

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	Citizen     *domain.Citizen
	Officer     *domain.Officer
}

// Actor converts the principal into the actor recorded on changes.
func (p *Principal) Actor() domain.Actor {
	switch {
	case p == nil:
		return domain.Actor{}
	case p.Officer != nil:
		return p.Officer.Actor()
	case p.Citizen != nil:
		return p.Citizen.Actor()
	}
	return domain.Actor{}
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	citizens CitizenLookup
	officers OfficerLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, citizens CitizenLookup, officers OfficerLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, citizens: citizens, officers: officers}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{SubjectType: claims.Subject}

	switch claims.Subject {
	case domain.SubjectTypeCitizen:
		citizen, err := m.citizens.GetByID(c.UserContext(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("citizen not found")
			}
			return apperrors.MapError(err)
		}
		if citizen.Status != domain.CitizenStatusActive {
			return apperrors.NewUnauthorized("citizen account suspended")
		}
		principal.Citizen = citizen
	case domain.SubjectTypeOfficer:
		officer, err := m.officers.GetByID(c.UserContext(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("officer not found")
			}
			return apperrors.MapError(err)
		}
		if !officer.Active {
			return apperrors.NewUnauthorized("officer inactive")
		}
		principal.Officer = officer
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

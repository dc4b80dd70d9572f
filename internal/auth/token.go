package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/civicdesk/complaint-service/internal/domain"
)

const tokenIssuer = "complaint-service"

var errSubjectRoleMismatch = errors.New("token role does not match subject type")

// TokenManager issues and verifies the HS256 access tokens handed to
// citizens and officers.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a manager; a non-positive TTL falls back to an hour.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	ttl := time.Hour
	if ttlMinutes > 0 {
		ttl = time.Duration(ttlMinutes) * time.Minute
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims is the access token payload.
type Claims struct {
	SubjectID string             `json:"sub"`
	Subject   domain.SubjectType `json:"subject"`
	Role      domain.Role        `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for the subject and returns its expiry.
func (tm *TokenManager) GenerateToken(subjectID string, subject domain.SubjectType, role domain.Role) (string, time.Time, error) {
	if err := checkSubjectRole(subject, role); err != nil {
		return "", time.Time{}, err
	}

	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SubjectID: subjectID,
		Subject:   subject,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies signature, issuer and expiry, then checks that the
// role claim is one the subject type may hold.
func (tm *TokenManager) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return tm.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if err := checkSubjectRole(claims.Subject, claims.Role); err != nil {
		return nil, err
	}
	return claims, nil
}

func checkSubjectRole(subject domain.SubjectType, role domain.Role) error {
	switch subject {
	case domain.SubjectTypeCitizen:
		if role == domain.RoleCitizen {
			return nil
		}
	case domain.SubjectTypeOfficer:
		if role.IsOfficer() {
			return nil
		}
	default:
		return fmt.Errorf("unknown subject type %q", subject)
	}
	return errSubjectRoleMismatch
}

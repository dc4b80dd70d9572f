package domain

// SubjectType differentiates citizen vs officer tokens.
type SubjectType string

const (
	SubjectTypeCitizen SubjectType = "CITIZEN"
	SubjectTypeOfficer SubjectType = "OFFICER"
)

// Role is the role an actor holds when requesting a change.
type Role string

const (
	RoleCitizen           Role = "CITIZEN"
	RoleWardOfficer       Role = Role(OfficerRoleWard)
	RoleDepartmentOfficer Role = Role(OfficerRoleDepartment)
	RoleAdmin             Role = Role(OfficerRoleAdmin)
	// RoleSystem is used for changes made by the service itself.
	RoleSystem Role = "SYSTEM"
)

// IsOfficer reports whether r is one of the officer roles.
func (r Role) IsOfficer() bool {
	return r == RoleWardOfficer || r == RoleDepartmentOfficer || r == RoleAdmin
}

// Actor identifies who requested a change.
type Actor struct {
	ID   string
	Role Role
}

// SystemActor is recorded for automated changes.
var SystemActor = Actor{ID: "system", Role: RoleSystem}

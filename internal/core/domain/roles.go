package domain

// Role is the single resolved role string supplied per request by the
// external identity provider. The core trusts it and performs no
// authentication of its own.
type Role string

const (
	RoleAnalyst                  Role = "analyst"
	RoleTechnicalManagerC        Role = "technical_manager_c"
	RoleTechnicalManagerM        Role = "technical_manager_m"
	RoleSeniorAssistantDirector  Role = "senior_assistant_director"
	RoleQualityAssuranceManager  Role = "quality_assurance_manager"
	RoleAdmin                    Role = "admin"
)

// Actor identifies the authenticated principal performing an operation.
type Actor struct {
	UserID string
	Name   string
	Role   Role
}

// IsApprover reports whether the role is one of the four stage roles.
func (r Role) IsApprover() bool {
	switch r {
	case RoleTechnicalManagerC, RoleTechnicalManagerM, RoleSeniorAssistantDirector, RoleQualityAssuranceManager:
		return true
	}
	return false
}

// CanDecide reports whether the role may submit an approve/reject decision.
func (r Role) CanDecide() bool {
	return r.IsApprover() || r == RoleAdmin
}

// CanCreateRequisitions reports whether the role may submit new requisitions.
func (r Role) CanCreateRequisitions() bool {
	return r == RoleAnalyst || r == RoleAdmin
}

// CanReadAllRequisitions reports whether the role sees every requisition or
// only its own submissions.
func (r Role) CanReadAllRequisitions() bool {
	return r.CanDecide()
}

// CanReadAuditLog reports whether the role may read requisition audit trails.
func (r Role) CanReadAuditLog() bool {
	return r.CanDecide()
}

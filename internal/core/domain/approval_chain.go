package domain

// ApprovalStage describes one gate in the fixed approval chain: which role
// signs it and which status the requisition carries once the chain is
// contiguously satisfied up to and including this stage.
type ApprovalStage struct {
	Index      int
	Role       Role
	StatusName RequisitionStatus
}

// ApprovalChain is the ordered list of approval gates. "Which stage is next"
// and "is this approval in order" are both driven from this list rather than
// per-role conditionals, so the engine generalizes if the chain ever changes.
var ApprovalChain = []ApprovalStage{
	{Index: 0, Role: RoleTechnicalManagerC, StatusName: StatusApprovedByTechnicalManagerC},
	{Index: 1, Role: RoleTechnicalManagerM, StatusName: StatusApprovedByTechnicalManagerM},
	{Index: 2, Role: RoleSeniorAssistantDirector, StatusName: StatusApprovedBySeniorAssistantDirector},
	{Index: 3, Role: RoleQualityAssuranceManager, StatusName: StatusApproved},
}

// StageForRole returns the chain stage signed by the given role.
func StageForRole(role Role) (ApprovalStage, bool) {
	for _, stage := range ApprovalChain {
		if stage.Role == role {
			return stage, true
		}
	}
	return ApprovalStage{}, false
}

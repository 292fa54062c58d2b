package pgsql

import "github.com/labstores/procurement_portal_app/internal/core/domain"

// familyTables names the table set backing one resource family. The
// repositories are identical for both families; only these names differ.
type familyTables struct {
	requisitions string
	items        string
	catalog      string
	ledger       string
	audit        string
	hasExpiry    bool
}

func tablesForFamily(family domain.ResourceFamily) familyTables {
	if family == domain.FamilyAdmin {
		return familyTables{
			requisitions: "admin_requisitions",
			items:        "admin_requisition_items",
			catalog:      "admin_items",
			ledger:       "admin_inventory_transactions",
			audit:        "admin_requisition_audit_log",
			hasExpiry:    false,
		}
	}
	return familyTables{
		requisitions: "requisitions",
		items:        "requisition_items",
		catalog:      "chemical_items",
		ledger:       "inventory_transactions",
		audit:        "requisition_audit_log",
		hasExpiry:    true,
	}
}

// stageColumns maps approval chain indexes to their timestamp/actor columns,
// aligned with domain.ApprovalChain.
var stageColumns = [4]struct {
	at string
	by string
}{
	{at: "technical_manager_c_approved_at", by: "technical_manager_c_approved_by"},
	{at: "technical_manager_m_approved_at", by: "technical_manager_m_approved_by"},
	{at: "senior_assistant_director_approved_at", by: "senior_assistant_director_approved_by"},
	{at: "quality_assurance_manager_approved_at", by: "quality_assurance_manager_approved_by"},
}

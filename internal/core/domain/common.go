package domain

import "time"

// AuditFields holds common creation/modification metadata embedded in
// persistent entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ResourceFamily tags which catalog a requisition draws from. The approval
// engine is identical for both families; only the backing tables differ.
type ResourceFamily string

const (
	FamilyChemical ResourceFamily = "chemical"
	FamilyAdmin    ResourceFamily = "admin"
)

// NumberPrefix returns the prefix used for human-readable requisition numbers.
func (f ResourceFamily) NumberPrefix() string {
	if f == FamilyAdmin {
		return "AR"
	}
	return "CR"
}

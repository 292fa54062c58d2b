package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Requisition mirrors the requisitions row for either family's table set.
// The four approval columns are nullable; the stored status column is only
// ever written together with the timestamps it derives from.
type Requisition struct {
	RequisitionID     string    `db:"requisition_id"`
	RequisitionNumber string    `db:"requisition_number"`
	RequisitionDate   time.Time `db:"requisition_date"`
	Department        string    `db:"department"`
	Requester         string    `db:"requester"`
	RequesterUserID   string    `db:"requester_user_id"`
	TotalItems        int       `db:"total_items"`
	Status            string    `db:"status"`

	TechnicalManagerCApprovedBy       *string    `db:"technical_manager_c_approved_by"`
	TechnicalManagerCApprovedAt       *time.Time `db:"technical_manager_c_approved_at"`
	TechnicalManagerMApprovedBy       *string    `db:"technical_manager_m_approved_by"`
	TechnicalManagerMApprovedAt       *time.Time `db:"technical_manager_m_approved_at"`
	SeniorAssistantDirectorApprovedBy *string    `db:"senior_assistant_director_approved_by"`
	SeniorAssistantDirectorApprovedAt *time.Time `db:"senior_assistant_director_approved_at"`
	QualityAssuranceManagerApprovedBy *string    `db:"quality_assurance_manager_approved_by"`
	QualityAssuranceManagerApprovedAt *time.Time `db:"quality_assurance_manager_approved_at"`

	RejectedAt      *time.Time `db:"rejected_at"`
	RejectedBy      *string    `db:"rejected_by"`
	RejectedByRole  *string    `db:"rejected_by_role"`
	RejectionReason *string    `db:"rejection_reason"`
	CancelledAt     *time.Time `db:"cancelled_at"`
	CompletedAt     *time.Time `db:"completed_at"`

	AuditFields
}

// RequisitionItem mirrors one requisition_items row.
type RequisitionItem struct {
	ItemID            string          `db:"item_id"`
	RequisitionID     string          `db:"requisition_id"`
	CatalogItemID     string          `db:"catalog_item_id"`
	RequestedQuantity decimal.Decimal `db:"requested_quantity"`
	ApprovedQuantity  decimal.Decimal `db:"approved_quantity"`
	Unit              string          `db:"unit"`
	ExpiryDate        *time.Time      `db:"expiry_date"`
	Remark            string          `db:"remark"`
	IsProcessed       bool            `db:"is_processed"`
	ProcessedAt       *time.Time      `db:"processed_at"`
}

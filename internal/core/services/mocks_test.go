package services_test

import (
	"context"
	"time"

	"github.com/labstores/procurement_portal_app/internal/core/domain"
	portsrepo "github.com/labstores/procurement_portal_app/internal/core/ports/repositories"
	portssvc "github.com/labstores/procurement_portal_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock RequisitionRepository ---
type MockRequisitionRepository struct {
	mock.Mock
}

var _ portsrepo.RequisitionRepositoryFacade = (*MockRequisitionRepository)(nil)

func (m *MockRequisitionRepository) FindRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) ListRequisitions(ctx context.Context, statuses []domain.RequisitionStatus, requesterUserID string) ([]domain.Requisition, error) {
	args := m.Called(ctx, statuses, requesterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) FindUnprocessedItems(ctx context.Context, requisitionID string) ([]domain.RequisitionItem, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RequisitionItem), args.Error(1)
}

func (m *MockRequisitionRepository) SaveRequisition(ctx context.Context, requisition domain.Requisition) error {
	args := m.Called(ctx, requisition)
	return args.Error(0)
}

func (m *MockRequisitionRepository) SaveRequisitionItems(ctx context.Context, items []domain.RequisitionItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockRequisitionRepository) DeleteRequisition(ctx context.Context, requisitionID string) error {
	args := m.Called(ctx, requisitionID)
	return args.Error(0)
}

func (m *MockRequisitionRepository) SetStageApproval(ctx context.Context, requisitionID string, stage domain.ApprovalStage, approvedBy string, approvedAt time.Time, newStatus domain.RequisitionStatus, completedAt *time.Time) error {
	args := m.Called(ctx, requisitionID, stage, approvedBy, approvedAt, newStatus, completedAt)
	return args.Error(0)
}

func (m *MockRequisitionRepository) ApproveAllStages(ctx context.Context, requisitionID string, approvedBy string, approvedAt time.Time) error {
	args := m.Called(ctx, requisitionID, approvedBy, approvedAt)
	return args.Error(0)
}

func (m *MockRequisitionRepository) SetRejected(ctx context.Context, requisitionID string, rejectedBy string, rejectedByRole domain.Role, reason string, rejectedAt time.Time) error {
	args := m.Called(ctx, requisitionID, rejectedBy, rejectedByRole, reason, rejectedAt)
	return args.Error(0)
}

func (m *MockRequisitionRepository) RestoreApprovalState(ctx context.Context, snapshot domain.ApprovalSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockRequisitionRepository) UpdateApprovedQuantities(ctx context.Context, requisitionID string, overrides map[string]decimal.Decimal) error {
	args := m.Called(ctx, requisitionID, overrides)
	return args.Error(0)
}

func (m *MockRequisitionRepository) MarkItemProcessed(ctx context.Context, itemID string, processedAt time.Time) error {
	args := m.Called(ctx, itemID, processedAt)
	return args.Error(0)
}

func (m *MockRequisitionRepository) UnmarkItemProcessed(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

// --- Mock CatalogRepository ---
type MockCatalogRepository struct {
	mock.Mock
}

var _ portsrepo.CatalogRepositoryFacade = (*MockCatalogRepository)(nil)

func (m *MockCatalogRepository) FindCatalogItemByID(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) ListAvailableItems(ctx context.Context, now time.Time) ([]domain.CatalogItem, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) DeductQuantity(ctx context.Context, itemID string, delta decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, itemID, delta)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockCatalogRepository) RestoreQuantity(ctx context.Context, itemID string, delta decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, itemID, delta)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockCatalogRepository) InsertInventoryTransaction(ctx context.Context, txn domain.InventoryTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepositoryFacade = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) InsertAuditLogEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditLogEntries(ctx context.Context, requisitionID string) ([]domain.AuditLogEntry, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Error(1)
}

// --- Mock AuditService ---
type MockAuditService struct {
	mock.Mock
}

var _ portssvc.AuditSvcFacade = (*MockAuditService)(nil)

func (m *MockAuditService) Record(ctx context.Context, entry domain.AuditLogEntry) {
	m.Called(ctx, entry)
}

func (m *MockAuditService) ListEntries(ctx context.Context, actor domain.Actor, requisitionID string) ([]domain.AuditLogEntry, error) {
	args := m.Called(ctx, actor, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Error(1)
}

// --- Mock DeductionService ---
type MockDeductionService struct {
	mock.Mock
}

var _ portssvc.DeductionSvc = (*MockDeductionService)(nil)

func (m *MockDeductionService) Deduct(ctx context.Context, requisition *domain.Requisition, actor domain.Actor) error {
	args := m.Called(ctx, requisition, actor)
	return args.Error(0)
}

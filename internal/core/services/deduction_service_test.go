package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/labstores/procurement_portal_app/internal/apperrors"
	"github.com/labstores/procurement_portal_app/internal/core/domain"
	"github.com/labstores/procurement_portal_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DeductionServiceTestSuite struct {
	suite.Suite
	mockRequisitionRepo *MockRequisitionRepository
	mockCatalogRepo     *MockCatalogRepository
	mockAuditSvc        *MockAuditService
	service             *services.DeductionService
	ctx                 context.Context
	requisition         *domain.Requisition
	actor               domain.Actor
}

func (suite *DeductionServiceTestSuite) SetupTest() {
	suite.mockRequisitionRepo = new(MockRequisitionRepository)
	suite.mockCatalogRepo = new(MockCatalogRepository)
	suite.mockAuditSvc = new(MockAuditService)
	suite.service = services.NewDeductionService(suite.mockRequisitionRepo, suite.mockCatalogRepo, suite.mockAuditSvc)
	suite.ctx = context.Background()
	suite.requisition = newRequisition(3)
	suite.actor = domain.Actor{UserID: uuid.NewString(), Name: "Approver", Role: domain.RoleQualityAssuranceManager}
}

func lineItem(requested, approved int64) domain.RequisitionItem {
	return domain.RequisitionItem{
		ItemID:            uuid.NewString(),
		CatalogItemID:     uuid.NewString(),
		CatalogItemName:   "Ethanol",
		RequestedQuantity: decimal.NewFromInt(requested),
		ApprovedQuantity:  decimal.NewFromInt(approved),
		Unit:              "L",
	}
}

func (suite *DeductionServiceTestSuite) TestDeduct_AllLines() {
	itemA := lineItem(5, 0)
	itemB := lineItem(10, 4) // approved quantity wins over requested
	suite.mockRequisitionRepo.On("FindUnprocessedItems", suite.ctx, suite.requisition.RequisitionID).Return([]domain.RequisitionItem{itemA, itemB}, nil)

	suite.mockCatalogRepo.On("DeductQuantity", suite.ctx, itemA.CatalogItemID, decimal.NewFromInt(5)).Return(decimal.NewFromInt(20), decimal.NewFromInt(15), nil)
	suite.mockCatalogRepo.On("DeductQuantity", suite.ctx, itemB.CatalogItemID, decimal.NewFromInt(4)).Return(decimal.NewFromInt(8), decimal.NewFromInt(4), nil)
	suite.mockCatalogRepo.On("InsertInventoryTransaction", suite.ctx, mock.AnythingOfType("domain.InventoryTransaction")).Return(nil).Twice()
	suite.mockRequisitionRepo.On("MarkItemProcessed", suite.ctx, itemA.ItemID, mock.AnythingOfType("time.Time")).Return(nil)
	suite.mockRequisitionRepo.On("MarkItemProcessed", suite.ctx, itemB.ItemID, mock.AnythingOfType("time.Time")).Return(nil)
	suite.mockAuditSvc.On("Record", suite.ctx, mock.AnythingOfType("domain.AuditLogEntry")).Return()

	err := suite.service.Deduct(suite.ctx, suite.requisition, suite.actor)

	assert.NoError(suite.T(), err)
	suite.mockCatalogRepo.AssertExpectations(suite.T())
	suite.mockRequisitionRepo.AssertExpectations(suite.T())

	// Ledger rows record the signed change and matching before/after.
	for _, call := range suite.mockCatalogRepo.Calls {
		if call.Method != "InsertInventoryTransaction" {
			continue
		}
		txn := call.Arguments.Get(1).(domain.InventoryTransaction)
		assert.Equal(suite.T(), domain.TxnRequisitionDeduction, txn.TransactionType)
		assert.True(suite.T(), txn.QuantityChange.IsNegative())
		assert.True(suite.T(), txn.QuantityBefore.Add(txn.QuantityChange).Equal(txn.QuantityAfter))
	}
}

func (suite *DeductionServiceTestSuite) TestDeduct_InsufficientStockOnSecondLineCompensatesFirst() {
	itemA := lineItem(5, 0)
	itemB := lineItem(10, 0)
	suite.mockRequisitionRepo.On("FindUnprocessedItems", suite.ctx, suite.requisition.RequisitionID).Return([]domain.RequisitionItem{itemA, itemB}, nil)

	// First line succeeds.
	suite.mockCatalogRepo.On("DeductQuantity", suite.ctx, itemA.CatalogItemID, decimal.NewFromInt(5)).Return(decimal.NewFromInt(20), decimal.NewFromInt(15), nil)
	suite.mockCatalogRepo.On("InsertInventoryTransaction", suite.ctx, mock.MatchedBy(func(txn domain.InventoryTransaction) bool {
		return txn.TransactionType == domain.TxnRequisitionDeduction
	})).Return(nil)
	suite.mockRequisitionRepo.On("MarkItemProcessed", suite.ctx, itemA.ItemID, mock.AnythingOfType("time.Time")).Return(nil)

	// Second line hits the stock guard.
	suite.mockCatalogRepo.On("DeductQuantity", suite.ctx, itemB.CatalogItemID, decimal.NewFromInt(10)).Return(decimal.Zero, decimal.Zero, apperrors.ErrConflict)
	suite.mockCatalogRepo.On("FindCatalogItemByID", suite.ctx, itemB.CatalogItemID).Return(&domain.CatalogItem{
		ItemID:   itemB.CatalogItemID,
		Name:     "Ethanol",
		Quantity: decimal.NewFromInt(2),
		Unit:     "L",
	}, nil)

	// Compensation restores the first line and reverses its ledger entry.
	suite.mockCatalogRepo.On("RestoreQuantity", suite.ctx, itemA.CatalogItemID, decimal.NewFromInt(5)).Return(decimal.NewFromInt(15), decimal.NewFromInt(20), nil)
	suite.mockCatalogRepo.On("InsertInventoryTransaction", suite.ctx, mock.MatchedBy(func(txn domain.InventoryTransaction) bool {
		return txn.TransactionType == domain.TxnDeductionReversal
	})).Return(nil)
	suite.mockRequisitionRepo.On("UnmarkItemProcessed", suite.ctx, itemA.ItemID).Return(nil)

	err := suite.service.Deduct(suite.ctx, suite.requisition, suite.actor)

	var stockErr *apperrors.InsufficientStockError
	assert.ErrorAs(suite.T(), err, &stockErr)
	assert.Equal(suite.T(), itemB.CatalogItemID, stockErr.ItemID)
	assert.True(suite.T(), stockErr.Available.Equal(decimal.NewFromInt(2)))
	assert.True(suite.T(), stockErr.Required.Equal(decimal.NewFromInt(10)))
	suite.mockCatalogRepo.AssertExpectations(suite.T())
	suite.mockRequisitionRepo.AssertExpectations(suite.T())
	suite.mockAuditSvc.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything)
}

func (suite *DeductionServiceTestSuite) TestDeduct_MissingCatalogItemAborts() {
	itemA := lineItem(5, 0)
	suite.mockRequisitionRepo.On("FindUnprocessedItems", suite.ctx, suite.requisition.RequisitionID).Return([]domain.RequisitionItem{itemA}, nil)
	suite.mockCatalogRepo.On("DeductQuantity", suite.ctx, itemA.CatalogItemID, decimal.NewFromInt(5)).Return(decimal.Zero, decimal.Zero, apperrors.ErrNotFound)

	err := suite.service.Deduct(suite.ctx, suite.requisition, suite.actor)

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
	suite.mockCatalogRepo.AssertNotCalled(suite.T(), "RestoreQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DeductionServiceTestSuite) TestDeduct_MarkProcessedFailureRestoresLine() {
	itemA := lineItem(5, 0)
	suite.mockRequisitionRepo.On("FindUnprocessedItems", suite.ctx, suite.requisition.RequisitionID).Return([]domain.RequisitionItem{itemA}, nil)
	suite.mockCatalogRepo.On("DeductQuantity", suite.ctx, itemA.CatalogItemID, decimal.NewFromInt(5)).Return(decimal.NewFromInt(20), decimal.NewFromInt(15), nil)
	suite.mockCatalogRepo.On("InsertInventoryTransaction", suite.ctx, mock.MatchedBy(func(txn domain.InventoryTransaction) bool {
		return txn.TransactionType == domain.TxnRequisitionDeduction
	})).Return(nil)
	suite.mockRequisitionRepo.On("MarkItemProcessed", suite.ctx, itemA.ItemID, mock.AnythingOfType("time.Time")).Return(apperrors.ErrConflict)

	suite.mockCatalogRepo.On("RestoreQuantity", suite.ctx, itemA.CatalogItemID, decimal.NewFromInt(5)).Return(decimal.NewFromInt(15), decimal.NewFromInt(20), nil)
	suite.mockCatalogRepo.On("InsertInventoryTransaction", suite.ctx, mock.MatchedBy(func(txn domain.InventoryTransaction) bool {
		return txn.TransactionType == domain.TxnDeductionReversal
	})).Return(nil)

	err := suite.service.Deduct(suite.ctx, suite.requisition, suite.actor)

	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
	suite.mockCatalogRepo.AssertExpectations(suite.T())
}

func (suite *DeductionServiceTestSuite) TestDeduct_NoUnprocessedLines() {
	suite.mockRequisitionRepo.On("FindUnprocessedItems", suite.ctx, suite.requisition.RequisitionID).Return([]domain.RequisitionItem{}, nil)
	suite.mockAuditSvc.On("Record", suite.ctx, mock.AnythingOfType("domain.AuditLogEntry")).Return()

	err := suite.service.Deduct(suite.ctx, suite.requisition, suite.actor)

	assert.NoError(suite.T(), err)
	suite.mockCatalogRepo.AssertNotCalled(suite.T(), "DeductQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DeductionServiceTestSuite) TestDeduct_AuditAttributesTriggeringActor() {
	admin := domain.Actor{UserID: uuid.NewString(), Name: "Admin", Role: domain.RoleAdmin}
	itemA := lineItem(5, 0)
	suite.mockRequisitionRepo.On("FindUnprocessedItems", suite.ctx, suite.requisition.RequisitionID).Return([]domain.RequisitionItem{itemA}, nil)
	suite.mockCatalogRepo.On("DeductQuantity", suite.ctx, itemA.CatalogItemID, decimal.NewFromInt(5)).Return(decimal.NewFromInt(20), decimal.NewFromInt(15), nil)
	suite.mockCatalogRepo.On("InsertInventoryTransaction", suite.ctx, mock.AnythingOfType("domain.InventoryTransaction")).Return(nil)
	suite.mockRequisitionRepo.On("MarkItemProcessed", suite.ctx, itemA.ItemID, mock.AnythingOfType("time.Time")).Return(nil)
	suite.mockAuditSvc.On("Record", suite.ctx, mock.MatchedBy(func(entry domain.AuditLogEntry) bool {
		return entry.Action == domain.AuditInventoryDeducted &&
			entry.PerformedBy == admin.UserID &&
			entry.PerformedByRole == domain.RoleAdmin
	})).Return()

	err := suite.service.Deduct(suite.ctx, suite.requisition, admin)

	assert.NoError(suite.T(), err)
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func TestDeductionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DeductionServiceTestSuite))
}

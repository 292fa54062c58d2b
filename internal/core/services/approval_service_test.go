package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstores/procurement_portal_app/internal/apperrors"
	"github.com/labstores/procurement_portal_app/internal/core/domain"
	portssvc "github.com/labstores/procurement_portal_app/internal/core/ports/services"
	"github.com/labstores/procurement_portal_app/internal/core/services"
	"github.com/labstores/procurement_portal_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ApprovalServiceTestSuite struct {
	suite.Suite
	mockRequisitionRepo *MockRequisitionRepository
	mockDeductionSvc    *MockDeductionService
	mockAuditSvc        *MockAuditService
	service             portssvc.ApprovalSvcFacade
	ctx                 context.Context
}

func (suite *ApprovalServiceTestSuite) SetupTest() {
	suite.mockRequisitionRepo = new(MockRequisitionRepository)
	suite.mockDeductionSvc = new(MockDeductionService)
	suite.mockAuditSvc = new(MockAuditService)
	suite.service = services.NewApprovalService(suite.mockRequisitionRepo, suite.mockDeductionSvc, suite.mockAuditSvc)
	suite.ctx = context.Background()
}

// newRequisition builds a pending requisition with the first stagesApproved
// chain stages already signed.
func newRequisition(stagesApproved int) *domain.Requisition {
	r := &domain.Requisition{
		RequisitionID:     uuid.NewString(),
		RequisitionNumber: "CR-20260901-ABCD1234",
		Family:            domain.FamilyChemical,
		Status:            domain.StatusPending,
		Items: []domain.RequisitionItem{
			{
				ItemID:            uuid.NewString(),
				CatalogItemID:     uuid.NewString(),
				RequestedQuantity: decimal.NewFromInt(5),
				Unit:              "L",
			},
		},
	}
	now := time.Now()
	for _, stage := range domain.ApprovalChain {
		r.Approvals[stage.Index].Role = stage.Role
		if stage.Index < stagesApproved {
			at := now.Add(-time.Duration(len(domain.ApprovalChain)-stage.Index) * time.Hour)
			r.Approvals[stage.Index].ApprovedAt = &at
			r.Approvals[stage.Index].ApprovedBy = uuid.NewString()
			r.Status = stage.StatusName
		}
	}
	return r
}

func approverFor(stageIndex int) domain.Actor {
	return domain.Actor{
		UserID: uuid.NewString(),
		Name:   "Approver",
		Role:   domain.ApprovalChain[stageIndex].Role,
	}
}

func (suite *ApprovalServiceTestSuite) TestSubmitDecision_ForbiddenForAnalyst() {
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAnalyst}

	_, err := suite.service.SubmitDecision(suite.ctx, actor, uuid.NewString(), dto.DecisionRequest{Action: "approve"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "FindRequisitionByID")
}

func (suite *ApprovalServiceTestSuite) TestSubmitDecision_NotFound() {
	actor := approverFor(0)
	requisitionID := uuid.NewString()
	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, requisitionID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.SubmitDecision(suite.ctx, actor, requisitionID, dto.DecisionRequest{Action: "approve"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *ApprovalServiceTestSuite) TestSubmitDecision_AlreadyFinalized() {
	r := newRequisition(0)
	r.Status = domain.StatusRejected
	now := time.Now()
	r.RejectedAt = &now
	actor := approverFor(0)
	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)

	_, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{Action: "approve"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrAlreadyFinalized)
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "SetStageApproval")
}

func (suite *ApprovalServiceTestSuite) TestApprove_FirstStage() {
	r := newRequisition(0)
	actor := approverFor(0)
	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)
	suite.mockRequisitionRepo.On("SetStageApproval", suite.ctx, r.RequisitionID, domain.ApprovalChain[0], actor.UserID, mock.AnythingOfType("time.Time"), domain.StatusApprovedByTechnicalManagerC, (*time.Time)(nil)).Return(nil)
	suite.mockAuditSvc.On("Record", suite.ctx, mock.AnythingOfType("domain.AuditLogEntry")).Return()

	status, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{Action: "approve"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.StatusApprovedByTechnicalManagerC, status)
	suite.mockDeductionSvc.AssertNotCalled(suite.T(), "Deduct")
	suite.mockRequisitionRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestApprove_MiddleStagesAdvanceStatus() {
	for stagesDone := 1; stagesDone < 3; stagesDone++ {
		r := newRequisition(stagesDone)
		actor := approverFor(stagesDone)
		stage := domain.ApprovalChain[stagesDone]
		suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)
		suite.mockRequisitionRepo.On("SetStageApproval", suite.ctx, r.RequisitionID, stage, actor.UserID, mock.AnythingOfType("time.Time"), stage.StatusName, (*time.Time)(nil)).Return(nil)
		suite.mockAuditSvc.On("Record", suite.ctx, mock.AnythingOfType("domain.AuditLogEntry")).Return()

		status, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{Action: "approve"})

		assert.NoError(suite.T(), err)
		assert.Equal(suite.T(), stage.StatusName, status)
	}
	suite.mockDeductionSvc.AssertNotCalled(suite.T(), "Deduct")
}

func (suite *ApprovalServiceTestSuite) TestApprove_OutOfOrder() {
	r := newRequisition(1) // only stage one signed
	actor := approverFor(2)
	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)

	_, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{Action: "approve"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrOutOfOrder)
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "SetStageApproval")
}

func (suite *ApprovalServiceTestSuite) TestApprove_Duplicate() {
	r := newRequisition(2)
	actor := approverFor(1) // stage two already signed
	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)

	_, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{Action: "approve"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrDuplicateApproval)
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "SetStageApproval")
}

func (suite *ApprovalServiceTestSuite) TestApprove_FinalStageTriggersDeduction() {
	r := newRequisition(3)
	actor := approverFor(3)
	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)
	suite.mockRequisitionRepo.On("SetStageApproval", suite.ctx, r.RequisitionID, domain.ApprovalChain[3], actor.UserID, mock.AnythingOfType("time.Time"), domain.StatusApproved, mock.AnythingOfType("*time.Time")).Return(nil)
	suite.mockDeductionSvc.On("Deduct", suite.ctx, r, actor).Return(nil)
	suite.mockAuditSvc.On("Record", suite.ctx, mock.AnythingOfType("domain.AuditLogEntry")).Return()

	status, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{Action: "approve"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.StatusApproved, status)
	suite.mockDeductionSvc.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestApprove_DeductionFailureRollsBack() {
	r := newRequisition(3)
	actor := approverFor(3)
	snapshot := r.Snapshot()
	cause := &apperrors.InsufficientStockError{ItemID: r.Items[0].CatalogItemID, ItemName: "Acetone", Unit: "L", Available: decimal.NewFromInt(1), Required: decimal.NewFromInt(5)}

	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)
	suite.mockRequisitionRepo.On("SetStageApproval", suite.ctx, r.RequisitionID, domain.ApprovalChain[3], actor.UserID, mock.AnythingOfType("time.Time"), domain.StatusApproved, mock.AnythingOfType("*time.Time")).Return(nil)
	suite.mockDeductionSvc.On("Deduct", suite.ctx, r, actor).Return(cause)
	suite.mockRequisitionRepo.On("RestoreApprovalState", suite.ctx, snapshot).Return(nil)

	_, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{Action: "approve"})

	var deductionErr *apperrors.DeductionError
	assert.ErrorAs(suite.T(), err, &deductionErr)
	assert.True(suite.T(), deductionErr.RolledBack)
	assert.ErrorIs(suite.T(), err, error(cause))
	// No approval audit entry is written for a rolled-back decision.
	suite.mockAuditSvc.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything)
	suite.mockRequisitionRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestApprove_RollbackFailureIsReported() {
	r := newRequisition(3)
	actor := approverFor(3)
	cause := errors.New("ledger write failed")

	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)
	suite.mockRequisitionRepo.On("SetStageApproval", suite.ctx, r.RequisitionID, domain.ApprovalChain[3], actor.UserID, mock.AnythingOfType("time.Time"), domain.StatusApproved, mock.AnythingOfType("*time.Time")).Return(nil)
	suite.mockDeductionSvc.On("Deduct", suite.ctx, r, actor).Return(cause)
	suite.mockRequisitionRepo.On("RestoreApprovalState", suite.ctx, mock.AnythingOfType("domain.ApprovalSnapshot")).Return(errors.New("restore failed"))

	_, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{Action: "approve"})

	var deductionErr *apperrors.DeductionError
	assert.ErrorAs(suite.T(), err, &deductionErr)
	assert.False(suite.T(), deductionErr.RolledBack)
}

func (suite *ApprovalServiceTestSuite) TestApprove_AdminOverride() {
	r := newRequisition(1)
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAdmin}
	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)
	suite.mockRequisitionRepo.On("ApproveAllStages", suite.ctx, r.RequisitionID, actor.UserID, mock.AnythingOfType("time.Time")).Return(nil)
	suite.mockDeductionSvc.On("Deduct", suite.ctx, r, actor).Return(nil)
	suite.mockAuditSvc.On("Record", suite.ctx, mock.AnythingOfType("domain.AuditLogEntry")).Return()

	status, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{Action: "approve"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.StatusApproved, status)
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "SetStageApproval")
	suite.mockRequisitionRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestApprove_QuantityOverrides() {
	r := newRequisition(0)
	actor := approverFor(0)
	itemID := r.Items[0].ItemID
	overrideQty := decimal.NewFromInt(3)

	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)
	suite.mockRequisitionRepo.On("UpdateApprovedQuantities", suite.ctx, r.RequisitionID, map[string]decimal.Decimal{itemID: overrideQty}).Return(nil)
	suite.mockRequisitionRepo.On("SetStageApproval", suite.ctx, r.RequisitionID, domain.ApprovalChain[0], actor.UserID, mock.AnythingOfType("time.Time"), domain.StatusApprovedByTechnicalManagerC, (*time.Time)(nil)).Return(nil)
	suite.mockAuditSvc.On("Record", suite.ctx, mock.AnythingOfType("domain.AuditLogEntry")).Return()

	_, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{
		Action:             "approve",
		ApprovedQuantities: []dto.ApprovedQuantityOverride{{ItemID: itemID, Quantity: overrideQty}},
	})

	assert.NoError(suite.T(), err)
	suite.mockRequisitionRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestApprove_OverrideForForeignItemRejected() {
	r := newRequisition(0)
	actor := approverFor(0)

	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)

	_, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{
		Action:             "approve",
		ApprovedQuantities: []dto.ApprovedQuantityOverride{{ItemID: uuid.NewString(), Quantity: decimal.NewFromInt(3)}},
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "UpdateApprovedQuantities")
}

func (suite *ApprovalServiceTestSuite) TestApprove_DuplicateLeavesQuantitiesUntouched() {
	r := newRequisition(2)
	actor := approverFor(1) // stage two already signed
	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)

	_, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{
		Action:             "approve",
		ApprovedQuantities: []dto.ApprovedQuantityOverride{{ItemID: r.Items[0].ItemID, Quantity: decimal.NewFromInt(2)}},
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrDuplicateApproval)
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "UpdateApprovedQuantities")
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "SetStageApproval")
}

func (suite *ApprovalServiceTestSuite) TestApprove_OutOfOrderLeavesQuantitiesUntouched() {
	r := newRequisition(1) // only stage one signed
	actor := approverFor(2)
	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)

	_, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{
		Action:             "approve",
		ApprovedQuantities: []dto.ApprovedQuantityOverride{{ItemID: r.Items[0].ItemID, Quantity: decimal.NewFromInt(2)}},
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrOutOfOrder)
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "UpdateApprovedQuantities")
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "SetStageApproval")
}

func (suite *ApprovalServiceTestSuite) TestApprove_LostRaceClassifiedAsFinalized() {
	r := newRequisition(0)
	actor := approverFor(0)
	finalized := newRequisition(0)
	finalized.RequisitionID = r.RequisitionID
	finalized.Status = domain.StatusRejected
	now := time.Now()
	finalized.RejectedAt = &now

	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil).Once()
	suite.mockRequisitionRepo.On("SetStageApproval", suite.ctx, r.RequisitionID, domain.ApprovalChain[0], actor.UserID, mock.AnythingOfType("time.Time"), domain.StatusApprovedByTechnicalManagerC, (*time.Time)(nil)).Return(apperrors.ErrConflict)
	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(finalized, nil).Once()

	_, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{Action: "approve"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrAlreadyFinalized)
}

func (suite *ApprovalServiceTestSuite) TestReject_DefaultsReason() {
	r := newRequisition(2)
	actor := approverFor(2)
	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)
	suite.mockRequisitionRepo.On("SetRejected", suite.ctx, r.RequisitionID, actor.UserID, actor.Role, "No reason provided", mock.AnythingOfType("time.Time")).Return(nil)
	suite.mockAuditSvc.On("Record", suite.ctx, mock.AnythingOfType("domain.AuditLogEntry")).Return()

	status, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{Action: "reject"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.StatusRejected, status)
	suite.mockRequisitionRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestReject_KeepsProvidedReason() {
	r := newRequisition(0)
	actor := approverFor(0)
	suite.mockRequisitionRepo.On("FindRequisitionByID", suite.ctx, r.RequisitionID).Return(r, nil)
	suite.mockRequisitionRepo.On("SetRejected", suite.ctx, r.RequisitionID, actor.UserID, actor.Role, "over budget", mock.AnythingOfType("time.Time")).Return(nil)
	suite.mockAuditSvc.On("Record", suite.ctx, mock.AnythingOfType("domain.AuditLogEntry")).Return()

	_, err := suite.service.SubmitDecision(suite.ctx, actor, r.RequisitionID, dto.DecisionRequest{Action: "reject", RejectionReason: "over budget"})

	assert.NoError(suite.T(), err)
	suite.mockRequisitionRepo.AssertExpectations(suite.T())
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labstores/procurement_portal_app/internal/apperrors"
	portssvc "github.com/labstores/procurement_portal_app/internal/core/ports/services"
	"github.com/labstores/procurement_portal_app/internal/dto"
	"github.com/labstores/procurement_portal_app/internal/middleware"
)

// requisitionHandler handles HTTP requests for one resource family's
// requisitions. The chemical and admin pipelines register the same handler
// under different path prefixes.
type requisitionHandler struct {
	requisitionSvc portssvc.RequisitionSvcFacade
	approvalSvc    portssvc.ApprovalSvcFacade
	auditSvc       portssvc.AuditSvcFacade
}

func newRequisitionHandler(svcs portssvc.FamilyServices) *requisitionHandler {
	return &requisitionHandler{
		requisitionSvc: svcs.Requisition,
		approvalSvc:    svcs.Approval,
		auditSvc:       svcs.Audit,
	}
}

// RegisterRequisitionRoutes registers the requisition routes for one family
// under the given prefix (e.g. "/requisitions", "/admin-requisitions").
func RegisterRequisitionRoutes(rg *gin.RouterGroup, prefix string, svcs portssvc.FamilyServices) {
	h := newRequisitionHandler(svcs)

	requisitions := rg.Group(prefix)
	{
		requisitions.POST("", h.createRequisition)
		requisitions.GET("", h.listRequisitions)
		requisitions.GET("/:requisitionID", h.getRequisition)
		requisitions.PUT("/:requisitionID/decision", h.submitDecision)
		requisitions.GET("/:requisitionID/audit-log", h.getAuditLog)
	}
}

// createRequisition godoc
// @Summary Create a new requisition
// @Description Submits a new requisition with its line items. Every line is validated against the catalog before anything is written.
// @Tags requisitions
// @Accept  json
// @Produce  json
// @Param   requisition body dto.CreateRequisitionRequest true "Requisition details"
// @Success 201 {object} dto.CreateRequisitionResponse
// @Failure 400 {object} map[string]string "Invalid input or insufficient stock"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Role cannot create requisitions"
// @Failure 500 {object} map[string]string "Failed to create requisition"
// @Security BearerAuth
// @Router /requisitions [post]
func (h *requisitionHandler) createRequisition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createRequisition", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requisition, err := h.requisitionSvc.CreateRequisition(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create requisition")
		return
	}

	c.JSON(http.StatusCreated, dto.CreateRequisitionResponse{
		ID:                requisition.RequisitionID,
		RequisitionNumber: requisition.RequisitionNumber,
		Success:           true,
	})
}

// listRequisitions godoc
// @Summary List requisitions
// @Description Lists requisitions matching the status filter (active, completed, all). Non-approvers only see their own submissions.
// @Tags requisitions
// @Produce  json
// @Param   status query string false "Status filter: active, completed or all" default(all)
// @Success 200 {array} dto.RequisitionResponse
// @Failure 400 {object} map[string]string "Unknown status filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list requisitions"
// @Security BearerAuth
// @Router /requisitions [get]
func (h *requisitionHandler) listRequisitions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListRequisitionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listRequisitions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requisitions, err := h.requisitionSvc.ListRequisitions(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list requisitions")
		return
	}

	c.JSON(http.StatusOK, dto.ToRequisitionResponses(requisitions))
}

// getRequisition godoc
// @Summary Get a requisition by ID
// @Description Retrieves one requisition with its line items and approval trail.
// @Tags requisitions
// @Produce  json
// @Param   requisitionID path string true "Requisition ID"
// @Success 200 {object} dto.RequisitionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Requisition belongs to another requester"
// @Failure 404 {object} map[string]string "Requisition not found"
// @Failure 500 {object} map[string]string "Failed to retrieve requisition"
// @Security BearerAuth
// @Router /requisitions/{requisitionID} [get]
func (h *requisitionHandler) getRequisition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requisition, err := h.requisitionSvc.GetRequisitionByID(c.Request.Context(), actor, requisitionID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve requisition")
		return
	}

	c.JSON(http.StatusOK, dto.ToRequisitionResponse(requisition))
}

// submitDecision godoc
// @Summary Approve or reject a requisition
// @Description Advances the requisition through the approval chain or rejects it. The final approval triggers the inventory deduction; a deduction failure rolls the approval back.
// @Tags requisitions
// @Accept  json
// @Produce  json
// @Param   requisitionID path string true "Requisition ID"
// @Param   decision body dto.DecisionRequest true "Decision details"
// @Success 200 {object} dto.DecisionResponse
// @Failure 400 {object} map[string]string "Invalid input, already finalized, duplicate or out-of-order approval"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Role cannot decide"
// @Failure 404 {object} map[string]string "Requisition not found"
// @Failure 500 {object} map[string]string "Deduction failed, approval rolled back"
// @Security BearerAuth
// @Router /requisitions/{requisitionID}/decision [put]
func (h *requisitionHandler) submitDecision(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for submitDecision", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	newStatus, err := h.approvalSvc.SubmitDecision(c.Request.Context(), actor, requisitionID, req)
	if err != nil {
		var deductionErr *apperrors.DeductionError
		if errors.As(err, &deductionErr) {
			logger.Error("Deduction failed during final approval", slog.String("error", err.Error()), slog.String("requisition_id", requisitionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		respondWithError(c, logger, err, "Failed to submit decision")
		return
	}

	c.JSON(http.StatusOK, dto.DecisionResponse{Success: true, Status: string(newStatus)})
}

// getAuditLog godoc
// @Summary Get a requisition's audit trail
// @Description Lists the workflow audit entries for one requisition, oldest first. Approvers and admins only.
// @Tags requisitions
// @Produce  json
// @Param   requisitionID path string true "Requisition ID"
// @Success 200 {array} dto.AuditLogEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Role cannot read audit trails"
// @Failure 404 {object} map[string]string "Requisition not found"
// @Failure 500 {object} map[string]string "Failed to retrieve audit trail"
// @Security BearerAuth
// @Router /requisitions/{requisitionID}/audit-log [get]
func (h *requisitionHandler) getAuditLog(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entries, err := h.auditSvc.ListEntries(c.Request.Context(), actor, requisitionID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve audit trail")
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditLogEntryResponses(entries))
}

// respondWithError maps service errors to HTTP responses. Sentinel kinds get
// specific statuses; anything unrecognized is a 500 with a generic message so
// internals do not leak.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	var stockErr *apperrors.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		logger.Warn("Insufficient stock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Requisition not found"})
	case errors.Is(err, apperrors.ErrAlreadyFinalized),
		errors.Is(err, apperrors.ErrDuplicateApproval),
		errors.Is(err, apperrors.ErrOutOfOrder),
		errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Decision rejected by state guard", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}

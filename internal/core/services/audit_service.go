package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstores/procurement_portal_app/internal/apperrors"
	"github.com/labstores/procurement_portal_app/internal/core/domain"
	portsrepo "github.com/labstores/procurement_portal_app/internal/core/ports/repositories"
	portssvc "github.com/labstores/procurement_portal_app/internal/core/ports/services"
	"github.com/labstores/procurement_portal_app/internal/middleware"
)

type AuditService struct {
	auditRepo       portsrepo.AuditRepositoryFacade
	requisitionRepo portsrepo.RequisitionReader
}

func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade, requisitionRepo portsrepo.RequisitionReader) *AuditService {
	return &AuditService{auditRepo: auditRepo, requisitionRepo: requisitionRepo}
}

var _ portssvc.AuditSvcFacade = (*AuditService)(nil)

// Record appends one audit entry. Write failures are logged and swallowed:
// the audit trail is best-effort and never fails the workflow action that
// produced it.
func (s *AuditService) Record(ctx context.Context, entry domain.AuditLogEntry) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.auditRepo.InsertAuditLogEntry(ctx, entry); err != nil {
		logger.Error("Failed to write audit log entry",
			slog.String("error", err.Error()),
			slog.String("requisition_id", entry.RequisitionID),
			slog.String("action", string(entry.Action)))
	}
}

// ListEntries serves the audit trail for one requisition, restricted to
// approvers and admins.
func (s *AuditService) ListEntries(ctx context.Context, actor domain.Actor, requisitionID string) ([]domain.AuditLogEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if !actor.Role.CanReadAuditLog() {
		return nil, fmt.Errorf("role %s cannot read audit trails: %w", actor.Role, apperrors.ErrForbidden)
	}
	if _, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to verify requisition for audit listing", slog.String("error", err.Error()), slog.String("requisition_id", requisitionID))
		}
		return nil, err
	}
	entries, err := s.auditRepo.ListAuditLogEntries(ctx, requisitionID)
	if err != nil {
		logger.Error("Failed to list audit log entries", slog.String("error", err.Error()), slog.String("requisition_id", requisitionID))
		return nil, err
	}
	return entries, nil
}

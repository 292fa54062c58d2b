package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstores/procurement_portal_app/internal/core/domain"
	portsrepo "github.com/labstores/procurement_portal_app/internal/core/ports/repositories"
	portssvc "github.com/labstores/procurement_portal_app/internal/core/ports/services"
	"github.com/labstores/procurement_portal_app/internal/middleware"
)

type CatalogService struct {
	catalogRepo portsrepo.CatalogRepositoryFacade
}

func NewCatalogService(catalogRepo portsrepo.CatalogRepositoryFacade) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

var _ portssvc.CatalogSvcFacade = (*CatalogService)(nil)

func (s *CatalogService) ListAvailableItems(ctx context.Context) ([]domain.CatalogItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	items, err := s.catalogRepo.ListAvailableItems(ctx, time.Now())
	if err != nil {
		logger.Error("Failed to list available catalog items", slog.String("error", err.Error()))
		return nil, err
	}
	return items, nil
}

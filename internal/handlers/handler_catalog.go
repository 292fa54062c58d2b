package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/labstores/procurement_portal_app/internal/core/ports/services"
	"github.com/labstores/procurement_portal_app/internal/dto"
	"github.com/labstores/procurement_portal_app/internal/middleware"
)

// catalogHandler serves the read-only catalog view for one resource family.
type catalogHandler struct {
	catalogSvc portssvc.CatalogSvcFacade
}

// RegisterCatalogRoutes registers the catalog listing for one family under
// the given path (e.g. "/chemicals", "/admin-items").
func RegisterCatalogRoutes(rg *gin.RouterGroup, path string, catalogSvc portssvc.CatalogSvcFacade) {
	h := &catalogHandler{catalogSvc: catalogSvc}
	rg.GET(path, h.listAvailableItems)
}

// listAvailableItems godoc
// @Summary List available catalog items
// @Description Lists catalog items with positive stock, excluding expired ones for catalogs carrying expiry dates.
// @Tags catalog
// @Produce  json
// @Success 200 {array} dto.CatalogItemResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list catalog items"
// @Security BearerAuth
// @Router /chemicals [get]
func (h *catalogHandler) listAvailableItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	items, err := h.catalogSvc.ListAvailableItems(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list catalog items", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list catalog items"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCatalogItemResponses(items))
}

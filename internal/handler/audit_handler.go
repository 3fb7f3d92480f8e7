package handler

import (
	"net/http"

	"dnaarchive/internal/access"
	"dnaarchive/internal/middleware"
	"dnaarchive/internal/service"
	"dnaarchive/pkg/pagination"
	"dnaarchive/pkg/response"

	"github.com/gin-gonic/gin"
)

const auditPageSize = 100

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup, acc *middleware.Access) {
	router.GET("/audit-trails", acc.WithRole(access.AdminOnly...), h.GetAuditTrails)
}

// GetAuditTrails returns audit records newest first, with the acting user preloaded
// @Summary      Get audit trails
// @Description  Paginated audit history, newest first
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        entity_type   query     string  false  "Filter by entity type, e.g. DNA Sample"
// @Param        entity_id     query     int     false  "Filter by entity id"
// @Param        performed_by  query     int     false  "Filter by acting user id"
// @Param        page          query     int     false  "Page number (default 1)"
// @Param        limit         query     int     false  "Number of items per page (default 100)"
// @Success      200           {object}  response.Response{data=pagination.Page[model.AuditTrail]}
// @Failure      403           {object}  response.ErrorBody
// @Router       /api/audit-trails [get]
func (h *AuditHandler) GetAuditTrails(c *gin.Context) {
	p := pagination.ParseWithDefault(c, auditPageSize)
	filter := service.AuditFilter{
		EntityType:  c.Query("entity_type"),
		EntityID:    queryID(c, "entity_id"),
		PerformedBy: queryID(c, "performed_by"),
	}

	trails, total, err := h.auditService.GetAuditTrails(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(trails, total, p)))
}

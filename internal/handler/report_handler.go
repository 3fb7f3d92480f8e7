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

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes binds report endpoints, limited to Admins and Scientific Officers
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup, acc *middleware.Access) {
	reports := router.Group("/reports", acc.WithRole(access.ReportStaff...), acc.WithAuditLogging("Report"))
	{
		reports.GET("", h.ListReports)
		reports.POST("", h.CreateReport)
		reports.GET("/:id", h.GetReport)
		reports.PUT("/:id", h.UpdateReport)
		reports.DELETE("/:id", h.DeleteReport)
	}
}

// CreateReport handles POST /reports
// @Summary      Archive forensic report
// @Description  A barcode is generated when none is supplied
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ReportRequest  true  "Report"
// @Success      201      {object}  response.Response{data=model.Report}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/reports [post]
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req service.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, report))
}

// ListReports handles GET /reports
// @Summary      List forensic reports
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        case_id  query     int     false  "Filter by case"
// @Param        search   query     string  false  "Match barcode or lab register number"
// @Param        page     query     int     false  "Page number (default 1)"
// @Param        limit    query     int     false  "Items per page (default 20)"
// @Success      200      {object}  response.Response{data=pagination.Page[model.Report]}
// @Router       /api/reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.ReportFilter{CaseID: queryID(c, "case_id"), Search: c.Query("search")}

	reports, total, err := h.reportService.ListReports(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(reports, total, p)))
}

// GetReport handles GET /reports/:id
// @Summary      Get forensic report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Report ID"
// @Success      200  {object}  response.Response{data=model.Report}
// @Failure      404  {object}  response.Response
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// UpdateReport handles PUT /reports/:id
// @Summary      Update forensic report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                    true  "Report ID"
// @Param        payload  body      service.ReportRequest  true  "Report"
// @Success      200      {object}  response.Response{data=model.Report}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/reports/{id} [put]
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	report, err := h.reportService.UpdateReport(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// DeleteReport handles DELETE /reports/:id
// @Summary      Delete forensic report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Report ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/reports/{id} [delete]
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reportService.DeleteReport(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Report deleted successfully"}))
}

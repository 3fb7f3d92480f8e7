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

// MovementHandler serves the chain-of-custody ledgers for samples and reports
type MovementHandler struct {
	movementService service.MovementService
}

func NewMovementHandler(movementService service.MovementService) *MovementHandler {
	return &MovementHandler{movementService: movementService}
}

func (h *MovementHandler) RegisterRoutes(router *gin.RouterGroup, acc *middleware.Access) {
	custody := acc.WithRole(access.CustodyStaff...)
	sampleAudit := acc.WithAuditLogging("Sample Movement")
	reportAudit := acc.WithAuditLogging("Report Movement")

	router.POST("/samples/:id/movements", custody, sampleAudit, h.RecordSampleMovement)
	router.GET("/sample-movements", acc.Authenticated(), h.ListSampleMovements)
	router.PUT("/sample-movements/:id/return", custody, sampleAudit, h.ReturnSampleMovement)

	router.POST("/reports/:id/movements", custody, reportAudit, h.RecordReportMovement)
	router.GET("/report-movements", acc.Authenticated(), h.ListReportMovements)
	router.PUT("/report-movements/:id/return", custody, reportAudit, h.ReturnReportMovement)
}

// RecordSampleMovement handles POST /samples/:id/movements
// @Summary      Record sample movement
// @Description  Appends IN, OUT, CHECK_OUT, RETURN or DISPOSAL to the sample's custody ledger
// @Tags         movements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                      true  "Sample ID"
// @Param        payload  body      service.MovementRequest  true  "Movement"
// @Success      201      {object}  response.Response{data=model.SampleMovement}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.ErrorBody
// @Failure      404      {object}  response.Response
// @Router       /api/samples/{id}/movements [post]
func (h *MovementHandler) RecordSampleMovement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, ok := actor(c)
	if !ok {
		return
	}

	var req service.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	movement, err := h.movementService.RecordSampleMovement(c.Request.Context(), id, user.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, movement))
}

// RecordReportMovement handles POST /reports/:id/movements
// @Summary      Record report movement
// @Tags         movements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                      true  "Report ID"
// @Param        payload  body      service.MovementRequest  true  "Movement"
// @Success      201      {object}  response.Response{data=model.ReportMovement}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/reports/{id}/movements [post]
func (h *MovementHandler) RecordReportMovement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, ok := actor(c)
	if !ok {
		return
	}

	var req service.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	movement, err := h.movementService.RecordReportMovement(c.Request.Context(), id, user.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, movement))
}

// ReturnSampleMovement handles PUT /sample-movements/:id/return
// @Summary      Return checked-out sample
// @Description  Stamps the return date on an OUT or CHECK_OUT movement and appends a RETURN entry
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Movement ID"
// @Success      200  {object}  response.Response{data=model.SampleMovement}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response  "Already returned"
// @Router       /api/sample-movements/{id}/return [put]
func (h *MovementHandler) ReturnSampleMovement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, ok := actor(c)
	if !ok {
		return
	}

	movement, err := h.movementService.ReturnSampleMovement(c.Request.Context(), id, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, movement))
}

// ReturnReportMovement handles PUT /report-movements/:id/return
// @Summary      Return checked-out report
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Movement ID"
// @Success      200  {object}  response.Response{data=model.ReportMovement}
// @Failure      409  {object}  response.Response  "Already returned"
// @Router       /api/report-movements/{id}/return [put]
func (h *MovementHandler) ReturnReportMovement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, ok := actor(c)
	if !ok {
		return
	}

	movement, err := h.movementService.ReturnReportMovement(c.Request.Context(), id, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, movement))
}

// ListSampleMovements handles GET /sample-movements
// @Summary      List sample movements
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Param        overdue  query     bool  false  "Only unreturned movements past their expected return date"
// @Param        page     query     int   false  "Page number (default 1)"
// @Param        limit    query     int   false  "Items per page (default 20)"
// @Success      200      {object}  response.Response{data=pagination.Page[model.SampleMovement]}
// @Router       /api/sample-movements [get]
func (h *MovementHandler) ListSampleMovements(c *gin.Context) {
	p := pagination.Parse(c)

	moves, total, err := h.movementService.ListSampleMovements(c.Request.Context(), c.Query("overdue") == "true", p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(moves, total, p)))
}

// ListReportMovements handles GET /report-movements
// @Summary      List report movements
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Param        overdue  query     bool  false  "Only unreturned movements past their expected return date"
// @Param        page     query     int   false  "Page number (default 1)"
// @Param        limit    query     int   false  "Items per page (default 20)"
// @Success      200      {object}  response.Response{data=pagination.Page[model.ReportMovement]}
// @Router       /api/report-movements [get]
func (h *MovementHandler) ListReportMovements(c *gin.Context) {
	p := pagination.Parse(c)

	moves, total, err := h.movementService.ListReportMovements(c.Request.Context(), c.Query("overdue") == "true", p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(moves, total, p)))
}

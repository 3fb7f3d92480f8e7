package handler

import (
	"net/http"

	"dnaarchive/internal/middleware"
	"dnaarchive/internal/service"
	"dnaarchive/pkg/pagination"
	"dnaarchive/pkg/response"

	"github.com/gin-gonic/gin"
)

type CaseHandler struct {
	caseService service.CaseService
}

func NewCaseHandler(caseService service.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

// RegisterRoutes binds case and police station endpoints; any signed-in user may use them
func (h *CaseHandler) RegisterRoutes(router *gin.RouterGroup, acc *middleware.Access) {
	cases := router.Group("/cases", acc.WithAuditLogging("Case"))
	{
		cases.GET("", h.ListCases)
		cases.POST("", h.CreateCase)
		cases.GET("/:id", h.GetCase)
		cases.PUT("/:id", h.UpdateCase)
		cases.DELETE("/:id", h.DeleteCase)
	}

	stations := router.Group("/police-stations", acc.WithAuditLogging("Police Station"))
	{
		stations.GET("", h.ListStations)
		stations.POST("", h.CreateStation)
	}
}

// CreateCase handles POST /cases
// @Summary      Create case
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CaseRequest  true  "Case"
// @Success      201      {object}  response.Response{data=model.Case}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/cases [post]
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req service.CaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.caseService.CreateCase(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, created))
}

// ListCases handles GET /cases
// @Summary      List cases
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        case_type  query     string  false  "Filter by case type"
// @Param        search     query     string  false  "Match police case number"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Items per page (default 20)"
// @Success      200        {object}  response.Response{data=pagination.Page[model.Case]}
// @Router       /api/cases [get]
func (h *CaseHandler) ListCases(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.CaseFilter{CaseType: c.Query("case_type"), Search: c.Query("search")}

	cases, total, err := h.caseService.ListCases(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(cases, total, p)))
}

// GetCase handles GET /cases/:id
// @Summary      Get case
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Case ID"
// @Success      200  {object}  response.Response{data=model.Case}
// @Failure      404  {object}  response.Response
// @Router       /api/cases/{id} [get]
func (h *CaseHandler) GetCase(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	found, err := h.caseService.GetCase(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, found))
}

// UpdateCase handles PUT /cases/:id
// @Summary      Update case
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                  true  "Case ID"
// @Param        payload  body      service.CaseRequest  true  "Case"
// @Success      200      {object}  response.Response{data=model.Case}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/cases/{id} [put]
func (h *CaseHandler) UpdateCase(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.CaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.caseService.UpdateCase(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, updated))
}

// DeleteCase handles DELETE /cases/:id
// @Summary      Delete case
// @Description  Fails with 409 while samples or reports still reference the case
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Case ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/cases/{id} [delete]
func (h *CaseHandler) DeleteCase(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.caseService.DeleteCase(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Case deleted successfully"}))
}

// CreateStation handles POST /police-stations
// @Summary      Create police station
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.StationRequest  true  "Station"
// @Success      201      {object}  response.Response{data=model.PoliceStation}
// @Failure      400      {object}  response.Response
// @Router       /api/police-stations [post]
func (h *CaseHandler) CreateStation(c *gin.Context) {
	var req service.StationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	station, err := h.caseService.CreateStation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, station))
}

// ListStations handles GET /police-stations
// @Summary      List police stations
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.PoliceStation}
// @Router       /api/police-stations [get]
func (h *CaseHandler) ListStations(c *gin.Context) {
	stations, err := h.caseService.ListStations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stations))
}

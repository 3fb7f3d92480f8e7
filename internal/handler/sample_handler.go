package handler

import (
	"net/http"

	"dnaarchive/internal/middleware"
	"dnaarchive/internal/service"
	"dnaarchive/pkg/pagination"
	"dnaarchive/pkg/response"

	"github.com/gin-gonic/gin"
)

type SampleHandler struct {
	sampleService service.SampleService
}

func NewSampleHandler(sampleService service.SampleService) *SampleHandler {
	return &SampleHandler{sampleService: sampleService}
}

func (h *SampleHandler) RegisterRoutes(router *gin.RouterGroup, acc *middleware.Access) {
	samples := router.Group("/samples", acc.WithAuditLogging("DNA Sample"))
	{
		samples.GET("", h.ListSamples)
		samples.POST("", h.CreateSample)
		samples.GET("/:id", h.GetSample)
		samples.PUT("/:id", h.UpdateSample)
		samples.DELETE("/:id", h.DeleteSample)
	}
}

// CreateSample handles POST /samples
// @Summary      Register DNA sample
// @Description  A barcode is generated when none is supplied
// @Tags         samples
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SampleRequest  true  "Sample"
// @Success      201      {object}  response.Response{data=service.SampleResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/samples [post]
func (h *SampleHandler) CreateSample(c *gin.Context) {
	var req service.SampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sample, err := h.sampleService.CreateSample(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sample))
}

// ListSamples handles GET /samples
// @Summary      List DNA samples
// @Tags         samples
// @Produce      json
// @Security     BearerAuth
// @Param        case_id  query     int     false  "Filter by case"
// @Param        search   query     string  false  "Match barcode or lab register number"
// @Param        page     query     int     false  "Page number (default 1)"
// @Param        limit    query     int     false  "Items per page (default 20)"
// @Success      200      {object}  response.Response{data=pagination.Page[service.SampleResponse]}
// @Router       /api/samples [get]
func (h *SampleHandler) ListSamples(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.SampleFilter{CaseID: queryID(c, "case_id"), Search: c.Query("search")}

	samples, total, err := h.sampleService.ListSamples(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(samples, total, p)))
}

// GetSample handles GET /samples/:id
// @Summary      Get DNA sample
// @Tags         samples
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Sample ID"
// @Success      200  {object}  response.Response{data=service.SampleResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/samples/{id} [get]
func (h *SampleHandler) GetSample(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	sample, err := h.sampleService.GetSample(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sample))
}

// UpdateSample handles PUT /samples/:id
// @Summary      Update DNA sample
// @Tags         samples
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                    true  "Sample ID"
// @Param        payload  body      service.SampleRequest  true  "Sample"
// @Success      200      {object}  response.Response{data=service.SampleResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/samples/{id} [put]
func (h *SampleHandler) UpdateSample(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.SampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sample, err := h.sampleService.UpdateSample(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sample))
}

// DeleteSample handles DELETE /samples/:id
// @Summary      Delete DNA sample
// @Tags         samples
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Sample ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/samples/{id} [delete]
func (h *SampleHandler) DeleteSample(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.sampleService.DeleteSample(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Sample deleted successfully"}))
}

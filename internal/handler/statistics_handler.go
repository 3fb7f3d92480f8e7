package handler

import (
	"net/http"

	"dnaarchive/internal/middleware"
	"dnaarchive/internal/service"
	"dnaarchive/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup, acc *middleware.Access) {
	router.GET("/dashboard", acc.Authenticated(), h.GetDashboard)
	router.GET("/analytics", acc.Authenticated(), h.GetAnalytics)
}

// @Summary      Get dashboard counts
// @Description  Reports, samples, expired samples, open report movements and overdue movements
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.DashboardCounts}
// @Failure      401  {object}  response.ErrorBody
// @Router       /api/dashboard [get]
func (h *StatisticsHandler) GetDashboard(c *gin.Context) {
	counts, err := h.statisticsService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, counts))
}

// @Summary      Get archive analytics
// @Description  Totals, case type distribution, storage utilisation, monthly intake and user activity
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.AnalyticsResponse}
// @Failure      401  {object}  response.ErrorBody
// @Router       /api/analytics [get]
func (h *StatisticsHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.statisticsService.Analytics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, analytics))
}

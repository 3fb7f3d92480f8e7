package handler

import (
	"net/http"

	"dnaarchive/internal/access"
	"dnaarchive/internal/middleware"
	"dnaarchive/internal/service"
	"dnaarchive/pkg/response"

	"github.com/gin-gonic/gin"
)

type StorageHandler struct {
	storageService service.StorageService
}

func NewStorageHandler(storageService service.StorageService) *StorageHandler {
	return &StorageHandler{storageService: storageService}
}

func (h *StorageHandler) RegisterRoutes(router *gin.RouterGroup, acc *middleware.Access) {
	locations := router.Group("/storage-locations", acc.WithRole(access.AdminOnly...), acc.WithAuditLogging("Storage Location"))
	{
		locations.GET("", h.ListLocations)
		locations.POST("", h.CreateLocation)
		locations.GET("/:id", h.GetLocation)
		locations.PUT("/:id", h.UpdateLocation)
		locations.DELETE("/:id", h.DeleteLocation)
	}
}

// CreateLocation handles POST /storage-locations
// @Summary      Create storage location
// @Tags         storage
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.StorageLocationRequest  true  "Location"
// @Success      201      {object}  response.Response{data=model.StorageLocation}
// @Failure      400      {object}  response.Response
// @Router       /api/storage-locations [post]
func (h *StorageHandler) CreateLocation(c *gin.Context) {
	var req service.StorageLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	loc, err := h.storageService.CreateLocation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, loc))
}

// ListLocations handles GET /storage-locations
// @Summary      List storage locations
// @Tags         storage
// @Produce      json
// @Security     BearerAuth
// @Param        type  query     string  false  "report or sample"
// @Success      200   {object}  response.Response{data=[]model.StorageLocation}
// @Router       /api/storage-locations [get]
func (h *StorageHandler) ListLocations(c *gin.Context) {
	locs, err := h.storageService.ListLocations(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, locs))
}

// GetLocation handles GET /storage-locations/:id
// @Summary      Get storage location
// @Tags         storage
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Location ID"
// @Success      200  {object}  response.Response{data=model.StorageLocation}
// @Failure      404  {object}  response.Response
// @Router       /api/storage-locations/{id} [get]
func (h *StorageHandler) GetLocation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	loc, err := h.storageService.GetLocation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, loc))
}

// UpdateLocation handles PUT /storage-locations/:id
// @Summary      Update storage location
// @Tags         storage
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                             true  "Location ID"
// @Param        payload  body      service.StorageLocationRequest  true  "Location"
// @Success      200      {object}  response.Response{data=model.StorageLocation}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response  "Type change on an occupied location"
// @Router       /api/storage-locations/{id} [put]
func (h *StorageHandler) UpdateLocation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.StorageLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	loc, err := h.storageService.UpdateLocation(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, loc))
}

// DeleteLocation handles DELETE /storage-locations/:id
// @Summary      Delete storage location
// @Tags         storage
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Location ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response  "Location still holds items"
// @Router       /api/storage-locations/{id} [delete]
func (h *StorageHandler) DeleteLocation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.storageService.DeleteLocation(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Storage location deleted successfully"}))
}

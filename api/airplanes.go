package api

import (
	"net/http"

	"github.com/Domenick1991/airport/internal/access"
	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type AirplaneHandler struct {
	service catalog.AirplaneUseCase
}

func NewAirplaneHandler(service catalog.AirplaneUseCase) *AirplaneHandler {
	return &AirplaneHandler{service: service}
}

func (h *AirplaneHandler) Register(router *gin.RouterGroup) {
	read := Require(access.ResourceAirplane, access.ActionRead)
	write := Require(access.ResourceAirplane, access.ActionWrite)

	router.GET("", read, h.list)
	router.POST("", write, h.create)
	router.GET("/:id", read, h.get)
	router.PUT("/:id", write, h.update)
	router.PATCH("/:id", write, h.patch)
	router.DELETE("/:id", write, h.delete)
}

// RegisterTypes mounts the airplane type endpoints, which only list and create.
func (h *AirplaneHandler) RegisterTypes(router *gin.RouterGroup) {
	router.GET("", Require(access.ResourceAirplaneType, access.ActionRead), h.listTypes)
	router.POST("", Require(access.ResourceAirplaneType, access.ActionWrite), h.createType)
}

func (h *AirplaneHandler) listTypes(c *gin.Context) {
	types, err := h.service.ListTypes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(types, func(t domain.AirplaneType) airplaneTypeResponse {
		return airplaneTypeResponse{ID: t.ID, Name: t.Name}
	}))
}

func (h *AirplaneHandler) createType(c *gin.Context) {
	var req catalog.AirplaneTypeInput
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.service.CreateType(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airplaneTypeResponse{ID: t.ID, Name: t.Name})
}

func (h *AirplaneHandler) list(c *gin.Context) {
	planes, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(planes, airplaneView))
}

func (h *AirplaneHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	plane, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airplaneView(*plane))
}

func (h *AirplaneHandler) create(c *gin.Context) {
	var req catalog.AirplaneInput
	if !bindJSON(c, &req) {
		return
	}
	plane, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airplaneView(*plane))
}

func (h *AirplaneHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req catalog.AirplaneInput
	if !bindJSON(c, &req) {
		return
	}
	plane, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airplaneView(*plane))
}

func (h *AirplaneHandler) patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req catalog.AirplanePatch
	if !bindJSON(c, &req) {
		return
	}
	plane, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airplaneView(*plane))
}

func (h *AirplaneHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

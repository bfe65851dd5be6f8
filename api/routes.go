package api

import (
	"net/http"

	"github.com/Domenick1991/airport/internal/access"
	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/routes"
	"github.com/gin-gonic/gin"
)

type RouteHandler struct {
	service routes.RouteUseCase
}

func NewRouteHandler(service routes.RouteUseCase) *RouteHandler {
	return &RouteHandler{service: service}
}

func (h *RouteHandler) Register(router *gin.RouterGroup) {
	read := Require(access.ResourceRoute, access.ActionRead)
	write := Require(access.ResourceRoute, access.ActionWrite)

	router.GET("", read, h.list)
	router.POST("", write, h.create)
	router.GET("/:id", read, h.get)
	router.PUT("/:id", write, h.update)
	router.PATCH("/:id", write, h.patch)
	router.DELETE("/:id", write, h.delete)
}

func (h *RouteHandler) list(c *gin.Context) {
	filter := domain.RouteFilter{Source: c.Query("source"), Destination: c.Query("destination")}
	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(list, routeListView))
}

func (h *RouteHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	route, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, routeDetailView(*route))
}

func (h *RouteHandler) create(c *gin.Context) {
	var req routes.RouteInput
	if !bindJSON(c, &req) {
		return
	}
	route, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, routeWriteView(*route))
}

func (h *RouteHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req routes.RouteInput
	if !bindJSON(c, &req) {
		return
	}
	route, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, routeWriteView(*route))
}

func (h *RouteHandler) patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req routes.RoutePatch
	if !bindJSON(c, &req) {
		return
	}
	route, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, routeWriteView(*route))
}

func (h *RouteHandler) delete(c *gin.Context) {
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

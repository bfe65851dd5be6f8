package api

import (
	"net/http"

	"github.com/Domenick1991/airport/internal/access"
	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type AirportHandler struct {
	service catalog.AirportUseCase
}

func NewAirportHandler(service catalog.AirportUseCase) *AirportHandler {
	return &AirportHandler{service: service}
}

func (h *AirportHandler) Register(router *gin.RouterGroup) {
	read := Require(access.ResourceAirport, access.ActionRead)
	write := Require(access.ResourceAirport, access.ActionWrite)

	router.GET("", read, h.list)
	router.POST("", write, h.create)
	router.GET("/:id", read, h.get)
	router.PUT("/:id", write, h.update)
	router.PATCH("/:id", write, h.patch)
	router.DELETE("/:id", write, h.delete)
}

func (h *AirportHandler) list(c *gin.Context) {
	airports, err := h.service.List(c.Request.Context(), domain.AirportFilter{City: c.Query("city")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(airports, airportView))
}

func (h *AirportHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	airport, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airportView(*airport))
}

func (h *AirportHandler) create(c *gin.Context) {
	var req catalog.AirportInput
	if !bindJSON(c, &req) {
		return
	}
	airport, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airportView(*airport))
}

func (h *AirportHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req catalog.AirportInput
	if !bindJSON(c, &req) {
		return
	}
	airport, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airportView(*airport))
}

func (h *AirportHandler) patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req catalog.AirportPatch
	if !bindJSON(c, &req) {
		return
	}
	airport, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airportView(*airport))
}

func (h *AirportHandler) delete(c *gin.Context) {
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

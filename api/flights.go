package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/airport/internal/access"
	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	read := Require(access.ResourceFlight, access.ActionRead)
	write := Require(access.ResourceFlight, access.ActionWrite)

	router.GET("", read, h.list)
	router.POST("", write, h.create)
	router.GET("/:id", read, h.get)
	router.PUT("/:id", write, h.update)
	router.PATCH("/:id", write, h.patch)
	router.DELETE("/:id", write, h.delete)
}

func (h *FlightHandler) list(c *gin.Context) {
	filter := domain.FlightFilter{Source: c.Query("source"), Destination: c.Query("destination")}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			badRequest(c, "date", "date must have format YYYY-MM-DD")
			return
		}
		filter.Date = date
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(list, flightListView))
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	flight, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flightDetailView(*flight))
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flights.FlightInput
	if !bindJSON(c, &req) {
		return
	}
	flight, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flightWriteView(*flight))
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req flights.FlightInput
	if !bindJSON(c, &req) {
		return
	}
	flight, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flightWriteView(*flight))
}

func (h *FlightHandler) patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req flights.FlightPatch
	if !bindJSON(c, &req) {
		return
	}
	flight, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flightWriteView(*flight))
}

func (h *FlightHandler) delete(c *gin.Context) {
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

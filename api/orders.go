package api

import (
	"net/http"

	"github.com/Domenick1991/airport/internal/access"
	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service booking.OrderUseCase
}

type ticketRequest struct {
	Flight int64 `json:"flight"`
	Row    int   `json:"row"`
	Seat   int   `json:"seat"`
}

type createOrderRequest struct {
	Tickets []ticketRequest `json:"tickets"`
}

func NewOrderHandler(service booking.OrderUseCase) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Register(router *gin.RouterGroup) {
	read := Require(access.ResourceOrder, access.ActionRead)
	write := Require(access.ResourceOrder, access.ActionWrite)

	router.GET("", read, h.list)
	router.POST("", write, h.create)
	router.GET("/:id", read, h.get)
}

func (h *OrderHandler) create(c *gin.Context) {
	var req createOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	requests := make([]domain.TicketRequest, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		requests = append(requests, domain.TicketRequest{FlightID: t.Flight, Row: t.Row, Seat: t.Seat})
	}

	order, err := h.service.CreateOrder(c.Request.Context(), principal(c).UserID, requests)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderView(*order))
}

func (h *OrderHandler) list(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context(), principal(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(orders, orderView))
}

func (h *OrderHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.service.GetOrder(c.Request.Context(), principal(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderView(*order))
}

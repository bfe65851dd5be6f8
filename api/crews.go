package api

import (
	"net/http"

	"github.com/Domenick1991/airport/internal/access"
	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type CrewHandler struct {
	service catalog.CrewUseCase
}

func NewCrewHandler(service catalog.CrewUseCase) *CrewHandler {
	return &CrewHandler{service: service}
}

func (h *CrewHandler) Register(router *gin.RouterGroup) {
	read := Require(access.ResourceCrew, access.ActionRead)
	write := Require(access.ResourceCrew, access.ActionWrite)

	router.GET("", read, h.list)
	router.POST("", write, h.create)
	router.GET("/:id", read, h.get)
	router.PUT("/:id", write, h.update)
	router.PATCH("/:id", write, h.patch)
	router.DELETE("/:id", write, h.delete)
}

func (h *CrewHandler) list(c *gin.Context) {
	filter := domain.CrewFilter{FirstName: c.Query("first_name"), LastName: c.Query("last_name")}
	crews, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(crews, crewView))
}

func (h *CrewHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	crew, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, crewView(*crew))
}

func (h *CrewHandler) create(c *gin.Context) {
	var req catalog.CrewInput
	if !bindJSON(c, &req) {
		return
	}
	crew, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, crewView(*crew))
}

func (h *CrewHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req catalog.CrewInput
	if !bindJSON(c, &req) {
		return
	}
	crew, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, crewView(*crew))
}

func (h *CrewHandler) patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req catalog.CrewPatch
	if !bindJSON(c, &req) {
		return
	}
	crew, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, crewView(*crew))
}

func (h *CrewHandler) delete(c *gin.Context) {
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

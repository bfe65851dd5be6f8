package api

import (
	"net/http"

	"github.com/Domenick1991/airport/internal/access"
	"github.com/Domenick1991/airport/internal/service/users"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service users.UserUseCase
}

func NewUserHandler(service users.UserUseCase) *UserHandler {
	return &UserHandler{service: service}
}

// Register mounts registration and login, which are open to anonymous callers,
// and the profile endpoint, which is not.
func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.register)
	router.POST("/token", h.token)
	router.GET("/me", Require(access.ResourceUser, access.ActionRead), h.me)
}

func (h *UserHandler) register(c *gin.Context) {
	var req users.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userView(*user))
}

func (h *UserHandler) token(c *gin.Context) {
	var req users.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Access: token.Access, ExpiresAt: token.ExpiresAt})
}

func (h *UserHandler) me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), principal(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(*user))
}

// internal/handlers/user/user_handler.go
package user

import (
	"ezwallet-service/internal/domain/user"
	"ezwallet-service/internal/middleware"
	"ezwallet-service/internal/pkg/authz"
	"ezwallet-service/internal/pkg/response"
	userService "ezwallet-service/internal/service/user"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *userService.Service
	auth        *middleware.AuthMiddleware
}

func NewUserHandler(svc *userService.Service, auth *middleware.AuthMiddleware) *UserHandler {
	return &UserHandler{
		userService: svc,
		auth:        auth,
	}
}

// List returns every account. Admin only.
func (h *UserHandler) List(c *gin.Context) {
	infos, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, infos)
}

// Get returns one account: the account's own session or an admin.
func (h *UserHandler) Get(c *gin.Context) {
	username := c.Param("username")

	result := h.auth.Verify(c, authz.User(username))
	if !result.Authorized {
		adminResult := h.auth.Verify(c, authz.Admin())
		if !adminResult.Authorized {
			response.Unauthorized(c, adminResult.Cause)
			return
		}
	}

	info, err := h.userService.Get(c.Request.Context(), username)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, info)
}

// Delete erases a user's data. Admin only.
func (h *UserHandler) Delete(c *gin.Context) {
	var req user.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	resp, err := h.userService.Delete(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, resp)
}

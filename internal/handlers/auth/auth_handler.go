// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"ezwallet-service/internal/domain/user"
	"ezwallet-service/internal/middleware"
	"ezwallet-service/internal/pkg/authz"
	"ezwallet-service/internal/pkg/response"
	authService "ezwallet-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	accessCookieMaxAge  = 60 * 60
	refreshCookieMaxAge = 7 * 24 * 60 * 60
)

type AuthHandler struct {
	authService  *authService.Service
	auth         *middleware.AuthMiddleware
	cookieDomain string
	logger       *zap.Logger
}

func NewAuthHandler(svc *authService.Service, auth *middleware.AuthMiddleware, cookieDomain string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  svc,
		auth:         auth,
		cookieDomain: cookieDomain,
		logger:       logger,
	}
}

// Register handles regular user registration (public endpoint)
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	msg, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, msg)
}

// RegisterAdmin handles admin registration (public endpoint)
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	msg, err := h.authService.RegisterAdmin(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, msg)
}

// Login checks credentials and installs the token pair as cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}
	req.IPAddress = c.ClientIP()

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("email", req.Email),
			zap.String("ip", req.IPAddress),
			zap.Error(err),
		)
		response.FromError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AccessCookieName, resp.AccessToken, accessCookieMaxAge, "/api", h.cookieDomain, true, true)
	c.SetCookie(middleware.RefreshCookieName, resp.RefreshToken, refreshCookieMaxAge, "/api", h.cookieDomain, true, true)
	response.Data(c, resp)
}

// Logout clears the session slot and both cookies. The refresh cookie must
// be present and the session still valid.
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(middleware.RefreshCookieName)
	if err != nil || refreshToken == "" {
		response.BadRequest(c, "refresh token not found")
		return
	}

	result := h.auth.Verify(c, authz.Simple())
	if !result.Authorized {
		response.Unauthorized(c, result.Cause)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
		response.FromError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AccessCookieName, "", -1, "/api", "", true, true)
	c.SetCookie(middleware.RefreshCookieName, "", -1, "/api", "", true, true)
	response.Message(c, "Logged out")
}

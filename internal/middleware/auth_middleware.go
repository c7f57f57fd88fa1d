// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"ezwallet-service/internal/pkg/authz"
	"ezwallet-service/internal/pkg/response"
	"ezwallet-service/internal/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"

	// RefreshedTokenMessage is attached to the response whenever the
	// middleware silently reissues an access token, so clients know to
	// pick up the new cookie.
	RefreshedTokenMessage = "Access token has been refreshed. Remember to copy the new one in the headers of subsequent calls"
)

type AuthMiddleware struct {
	codec  *token.Codec
	logger *zap.Logger
}

func NewAuthMiddleware(codec *token.Codec, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		codec:  codec,
		logger: logger,
	}
}

// Verify runs the full session check for one request: both token cookies
// must be present, the access token is verified (and silently refreshed
// from a still-valid refresh token when expired), and the policy is applied
// to the decoded claims. A session recovered through the refresh path is
// accepted without re-running the policy.
func (m *AuthMiddleware) Verify(c *gin.Context, p authz.Policy) authz.Result {
	accessCookie, err := c.Cookie(AccessCookieName)
	if err != nil || accessCookie == "" {
		return authz.Result{Authorized: false, Cause: authz.CauseUnauthorized}
	}
	refreshCookie, err := c.Cookie(RefreshCookieName)
	if err != nil || refreshCookie == "" {
		return authz.Result{Authorized: false, Cause: authz.CauseUnauthorized}
	}

	access, verr := m.codec.Verify(accessCookie)
	if verr == nil {
		refresh, rerr := m.codec.Verify(refreshCookie)
		if rerr == nil {
			result := authz.Decide(access, refresh, p)
			if result.Authorized {
				m.setIdentity(c, access)
			}
			return result
		}
		verr = rerr
	}

	if !token.IsExpired(verr) {
		return authz.Result{Authorized: false, Cause: token.Kind(verr)}
	}

	// A token expired; try to recover the session from the refresh token.
	refresh, rerr := m.codec.Verify(refreshCookie)
	if rerr != nil {
		if token.IsExpired(rerr) {
			return authz.Result{Authorized: false, Cause: authz.CausePerformLogin}
		}
		return authz.Result{Authorized: false, Cause: token.Kind(rerr)}
	}

	minted, merr := m.codec.MintAccess(token.Claims{
		Username: refresh.Username,
		Email:    refresh.Email,
		Role:     refresh.Role,
		UserID:   refresh.UserID,
	})
	if merr != nil {
		m.logger.Error("failed to reissue access token", zap.Error(merr))
		return authz.Result{Authorized: false, Cause: authz.CauseUnauthorized}
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(AccessCookieName, minted, int(m.codec.AccessTTL().Seconds()), "/api", "", true, true)
	c.Set(response.RefreshedTokenKey, RefreshedTokenMessage)
	m.setIdentity(c, refresh)

	return authz.Result{Authorized: true, Cause: authz.CauseAuthorized}
}

// Simple guards routes that only need a valid, consistent session.
func (m *AuthMiddleware) Simple() gin.HandlerFunc {
	return m.require(authz.Simple())
}

// AdminOnly guards routes reserved for administrators.
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return m.require(authz.Admin())
}

func (m *AuthMiddleware) require(p authz.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := m.Verify(c, p)
		if !result.Authorized {
			response.Unauthorized(c, result.Cause)
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) setIdentity(c *gin.Context, claims *token.Claims) {
	c.Set("username", claims.Username)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
}

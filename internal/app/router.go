// internal/app/router.go
package app

import (
	authHandler "ezwallet-service/internal/handlers/auth"
	categoryHandler "ezwallet-service/internal/handlers/category"
	groupHandler "ezwallet-service/internal/handlers/group"
	transactionHandler "ezwallet-service/internal/handlers/transaction"
	userHandler "ezwallet-service/internal/handlers/user"
	"ezwallet-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler        *authHandler.AuthHandler
	UserHandler        *userHandler.UserHandler
	GroupHandler       *groupHandler.GroupHandler
	CategoryHandler    *categoryHandler.CategoryHandler
	TransactionHandler *transactionHandler.TransactionHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

// SetupRouter wires the /api surface. Routes whose checks depend on
// request data (path usernames, group membership) authenticate inside
// their handlers; the rest sit behind route-level middleware.
func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	m := h.AuthMiddleware

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ==================== Auth ====================
	api.POST("/register", h.AuthHandler.Register)
	api.POST("/admin", h.AuthHandler.RegisterAdmin)
	api.POST("/login", h.AuthHandler.Login)
	api.GET("/logout", h.AuthHandler.Logout)

	// ==================== Users ====================
	api.GET("/users", m.AdminOnly(), h.UserHandler.List)
	api.GET("/users/:username", h.UserHandler.Get)
	api.DELETE("/users", m.AdminOnly(), h.UserHandler.Delete)

	// ==================== Groups ====================
	api.POST("/groups", m.Simple(), h.GroupHandler.Create)
	api.GET("/groups", m.AdminOnly(), h.GroupHandler.List)
	api.GET("/groups/:name", h.GroupHandler.Get)
	api.PATCH("/groups/:name/add", h.GroupHandler.AddMembers)
	api.PATCH("/groups/:name/insert", h.GroupHandler.InsertMembers)
	api.PATCH("/groups/:name/remove", h.GroupHandler.RemoveMembers)
	api.PATCH("/groups/:name/pull", h.GroupHandler.PullMembers)
	api.DELETE("/groups", m.AdminOnly(), h.GroupHandler.Delete)

	// ==================== Categories ====================
	api.POST("/categories", m.AdminOnly(), h.CategoryHandler.Create)
	api.PATCH("/categories/:type", m.AdminOnly(), h.CategoryHandler.Update)
	api.DELETE("/categories", m.AdminOnly(), h.CategoryHandler.Delete)
	api.GET("/categories", m.Simple(), h.CategoryHandler.List)

	// ==================== Transactions ====================
	api.POST("/users/:username/transactions", h.TransactionHandler.Create)
	api.GET("/transactions", m.AdminOnly(), h.TransactionHandler.All)
	api.GET("/users/:username/transactions", h.TransactionHandler.ByUser)
	api.GET("/users/:username/transactions/category/:category", h.TransactionHandler.ByUserByCategory)
	api.GET("/groups/:name/transactions", h.TransactionHandler.ByGroup)
	api.GET("/groups/:name/transactions/category/:category", h.TransactionHandler.ByGroupByCategory)
	api.DELETE("/users/:username/transactions", h.TransactionHandler.Delete)
	api.DELETE("/transactions", m.AdminOnly(), h.TransactionHandler.DeleteMany)

	// Admin variants keep their own paths so role checks and lookups
	// can run in the order the handlers expect.
	api.GET("/transactions/users/:username", m.AdminOnly(), h.TransactionHandler.ByUserAdmin)
	api.GET("/transactions/users/:username/category/:category", m.AdminOnly(), h.TransactionHandler.ByUserByCategoryAdmin)
	api.GET("/transactions/groups/:name", h.TransactionHandler.ByGroupAdmin)
	api.GET("/transactions/groups/:name/category/:category", h.TransactionHandler.ByGroupByCategoryAdmin)
}

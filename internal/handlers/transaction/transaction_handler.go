// internal/handlers/transaction/transaction_handler.go
package transaction

import (
	"errors"
	"strings"

	"ezwallet-service/internal/domain/transaction"
	"ezwallet-service/internal/middleware"
	"ezwallet-service/internal/pkg/authz"
	xerrors "ezwallet-service/internal/pkg/errors"
	"ezwallet-service/internal/pkg/response"
	groupService "ezwallet-service/internal/service/group"
	txService "ezwallet-service/internal/service/transaction"

	"github.com/gin-gonic/gin"
)

var errGroupNotFound = xerrors.BadRequest("Group not found")

type TransactionHandler struct {
	txService    *txService.Service
	groupService *groupService.Service
	auth         *middleware.AuthMiddleware
}

func NewTransactionHandler(tx *txService.Service, groups *groupService.Service, auth *middleware.AuthMiddleware) *TransactionHandler {
	return &TransactionHandler{
		txService:    tx,
		groupService: groups,
		auth:         auth,
	}
}

// Create records a transaction for the user in the route. Own session only.
func (h *TransactionHandler) Create(c *gin.Context) {
	username := c.Param("username")
	if !h.verify(c, authz.User(username)) {
		return
	}

	var req transaction.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	created, err := h.txService.Create(c.Request.Context(), username, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, created)
}

// All returns every transaction. Admin only.
func (h *TransactionHandler) All(c *gin.Context) {
	infos, err := h.txService.All(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, infos)
}

// ByUser lists one user's transactions with query filters applied.
func (h *TransactionHandler) ByUser(c *gin.Context) {
	username := c.Param("username")
	if !h.verify(c, authz.User(username)) {
		return
	}

	infos, err := h.txService.ByUser(c.Request.Context(), username, queryFilters(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, infos)
}

// ByUserAdmin is the admin variant of ByUser; query filters are ignored.
func (h *TransactionHandler) ByUserAdmin(c *gin.Context) {
	infos, err := h.txService.ByUser(c.Request.Context(), c.Param("username"), txService.QueryFilters{})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, infos)
}

// ByUserByCategory lists one user's transactions of one category.
func (h *TransactionHandler) ByUserByCategory(c *gin.Context) {
	username := c.Param("username")
	if !h.verify(c, authz.User(username)) {
		return
	}
	h.respondByUserByCategory(c, username)
}

// ByUserByCategoryAdmin is the admin variant of ByUserByCategory.
func (h *TransactionHandler) ByUserByCategoryAdmin(c *gin.Context) {
	h.respondByUserByCategory(c, c.Param("username"))
}

// ByGroup lists a group's transactions; the caller must be a member.
func (h *TransactionHandler) ByGroup(c *gin.Context) {
	emails, ok := h.lookupGroupAndVerify(c, false)
	if !ok {
		return
	}
	infos, err := h.txService.ByGroup(c.Request.Context(), emails)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, infos)
}

// ByGroupAdmin is the admin variant of ByGroup.
func (h *TransactionHandler) ByGroupAdmin(c *gin.Context) {
	emails, ok := h.lookupGroupAndVerify(c, true)
	if !ok {
		return
	}
	infos, err := h.txService.ByGroup(c.Request.Context(), emails)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, infos)
}

// ByGroupByCategory lists a group's transactions of one category.
func (h *TransactionHandler) ByGroupByCategory(c *gin.Context) {
	emails, ok := h.lookupGroupAndVerify(c, false)
	if !ok {
		return
	}
	h.respondByGroupByCategory(c, emails)
}

// ByGroupByCategoryAdmin is the admin variant of ByGroupByCategory.
func (h *TransactionHandler) ByGroupByCategoryAdmin(c *gin.Context) {
	emails, ok := h.lookupGroupAndVerify(c, true)
	if !ok {
		return
	}
	h.respondByGroupByCategory(c, emails)
}

// Delete removes one of the route user's own transactions.
func (h *TransactionHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	if !h.verify(c, authz.User(username)) {
		return
	}

	var req transaction.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	msg, err := h.txService.Delete(c.Request.Context(), username, req.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, msg)
}

// DeleteMany removes a batch of transactions. Admin only.
func (h *TransactionHandler) DeleteMany(c *gin.Context) {
	var req transaction.DeleteManyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}
	if len(req.IDs) == 0 {
		response.ValidationError(c)
		return
	}
	for _, id := range req.IDs {
		if strings.TrimSpace(id) == "" {
			response.ValidationError(c)
			return
		}
	}

	msg, err := h.txService.DeleteMany(c.Request.Context(), req.IDs)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, msg)
}

func (h *TransactionHandler) respondByUserByCategory(c *gin.Context, username string) {
	infos, err := h.txService.ByUserByCategory(c.Request.Context(), username, c.Param("category"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, infos)
}

func (h *TransactionHandler) respondByGroupByCategory(c *gin.Context, emails []string) {
	infos, err := h.txService.ByGroupByCategory(c.Request.Context(), emails, c.Param("category"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, infos)
}

// lookupGroupAndVerify resolves the route's group before the session check
// so an unknown name reports 400, then requires membership or, on the
// admin routes, the admin role. The transaction routes word the unknown-group
// failure differently from the group CRUD endpoints.
func (h *TransactionHandler) lookupGroupAndVerify(c *gin.Context, admin bool) ([]string, bool) {
	g, err := h.groupService.Lookup(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, groupService.ErrGroupNotFound) {
			err = errGroupNotFound
		}
		response.FromError(c, err)
		return nil, false
	}

	policy := authz.Group(g.MemberEmails())
	if admin {
		policy = authz.Admin()
	}
	if !h.verify(c, policy) {
		return nil, false
	}
	return g.MemberEmails(), true
}

func (h *TransactionHandler) verify(c *gin.Context, p authz.Policy) bool {
	result := h.auth.Verify(c, p)
	if !result.Authorized {
		response.Unauthorized(c, result.Cause)
		return false
	}
	return true
}

func queryFilters(c *gin.Context) txService.QueryFilters {
	return txService.QueryFilters{
		Date: c.Query("date"),
		From: c.Query("from"),
		UpTo: c.Query("upTo"),
		Min:  c.Query("min"),
		Max:  c.Query("max"),
	}
}

// internal/handlers/group/group_handler.go
package group

import (
	"ezwallet-service/internal/domain/group"
	"ezwallet-service/internal/middleware"
	"ezwallet-service/internal/pkg/authz"
	"ezwallet-service/internal/pkg/response"
	groupService "ezwallet-service/internal/service/group"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groupService *groupService.Service
	auth         *middleware.AuthMiddleware
}

func NewGroupHandler(svc *groupService.Service, auth *middleware.AuthMiddleware) *GroupHandler {
	return &GroupHandler{
		groupService: svc,
		auth:         auth,
	}
}

// Create makes a new group with the caller as a member. Any session.
func (h *GroupHandler) Create(c *gin.Context) {
	var req group.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	resp, err := h.groupService.Create(c.Request.Context(), middleware.GetEmail(c), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, resp)
}

// List returns all groups. Admin only.
func (h *GroupHandler) List(c *gin.Context) {
	infos, err := h.groupService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, infos)
}

// Get returns one group: its members or an admin. The group is resolved
// before the session check so an unknown name reports 400, not 401.
func (h *GroupHandler) Get(c *gin.Context) {
	g, ok := h.lookup(c)
	if !ok {
		return
	}

	result := h.auth.Verify(c, authz.Group(g.MemberEmails()))
	if !result.Authorized {
		adminResult := h.auth.Verify(c, authz.Admin())
		if !adminResult.Authorized {
			response.Unauthorized(c, adminResult.Cause)
			return
		}
	}
	response.Data(c, g.Info())
}

// AddMembers joins emails to a group on behalf of one of its members.
func (h *GroupHandler) AddMembers(c *gin.Context) {
	g, ok := h.lookup(c)
	if !ok {
		return
	}
	if !h.verify(c, authz.Group(g.MemberEmails())) {
		return
	}
	h.addMembers(c, g.Name)
}

// InsertMembers is the admin variant of AddMembers.
func (h *GroupHandler) InsertMembers(c *gin.Context) {
	g, ok := h.lookup(c)
	if !ok {
		return
	}
	if !h.verify(c, authz.Admin()) {
		return
	}
	h.addMembers(c, g.Name)
}

// RemoveMembers drops emails from a group on behalf of one of its members.
// One-member groups are rejected before the session check.
func (h *GroupHandler) RemoveMembers(c *gin.Context) {
	g, ok := h.lookupForRemoval(c)
	if !ok {
		return
	}
	if !h.verify(c, authz.Group(g.MemberEmails())) {
		return
	}
	h.removeMembers(c, g.Name)
}

// PullMembers is the admin variant of RemoveMembers.
func (h *GroupHandler) PullMembers(c *gin.Context) {
	g, ok := h.lookupForRemoval(c)
	if !ok {
		return
	}
	if !h.verify(c, authz.Admin()) {
		return
	}
	h.removeMembers(c, g.Name)
}

// Delete removes a group by name. Admin only.
func (h *GroupHandler) Delete(c *gin.Context) {
	var req group.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	msg, err := h.groupService.Delete(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, msg)
}

func (h *GroupHandler) addMembers(c *gin.Context, name string) {
	var req group.EditMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	resp, err := h.groupService.AddMembers(c.Request.Context(), name, req.Emails)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, resp)
}

func (h *GroupHandler) removeMembers(c *gin.Context, name string) {
	var req group.EditMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	resp, err := h.groupService.RemoveMembers(c.Request.Context(), name, req.Emails)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, resp)
}

func (h *GroupHandler) lookup(c *gin.Context) (*group.Group, bool) {
	g, err := h.groupService.Lookup(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	return g, true
}

func (h *GroupHandler) lookupForRemoval(c *gin.Context) (*group.Group, bool) {
	g, ok := h.lookup(c)
	if !ok {
		return nil, false
	}
	if len(g.Members) == 1 {
		response.FromError(c, groupService.ErrOneMemberGroup)
		return nil, false
	}
	return g, true
}

func (h *GroupHandler) verify(c *gin.Context, p authz.Policy) bool {
	result := h.auth.Verify(c, p)
	if !result.Authorized {
		response.Unauthorized(c, result.Cause)
		return false
	}
	return true
}

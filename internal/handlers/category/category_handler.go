// internal/handlers/category/category_handler.go
package category

import (
	"strings"

	"ezwallet-service/internal/domain/category"
	"ezwallet-service/internal/pkg/response"
	categoryService "ezwallet-service/internal/service/category"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *categoryService.Service
}

func NewCategoryHandler(svc *categoryService.Service) *CategoryHandler {
	return &CategoryHandler{categoryService: svc}
}

// Create adds a category type. Admin only.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req category.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	info, err := h.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, info)
}

// Update renames or recolors the category in the route. Admin only.
func (h *CategoryHandler) Update(c *gin.Context) {
	var req category.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	resp, err := h.categoryService.Update(c.Request.Context(), c.Param("type"), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, resp)
}

// Delete removes the listed category types. Admin only.
func (h *CategoryHandler) Delete(c *gin.Context) {
	var req category.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}
	if len(req.Types) == 0 {
		response.ValidationError(c)
		return
	}
	for _, t := range req.Types {
		if strings.TrimSpace(t) == "" {
			response.ValidationError(c)
			return
		}
	}

	resp, err := h.categoryService.Delete(c.Request.Context(), req.Types)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, resp)
}

// List returns all categories, oldest first. Any session.
func (h *CategoryHandler) List(c *gin.Context) {
	infos, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Data(c, infos)
}

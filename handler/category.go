package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopidream/aorit-sub000/middleware"
	"github.com/shopidream/aorit-sub000/service"
)

type CategoryHandler struct {
	registry *service.CategoryRegistry
}

func NewCategoryHandler(registry *service.CategoryRegistry) *CategoryHandler {
	return &CategoryHandler{registry: registry}
}

// List returns the registry snapshot, optionally filtered by kind
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.registry.List(c.Request.Context(), c.Query("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type AddCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Kind string `json:"kind" binding:"required"`
}

// Add appends a category to the registry; the addition is audited
func (h *CategoryHandler) Add(c *gin.Context) {
	var req AddCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	category, err := h.registry.Add(c.Request.Context(), req.Name, req.Kind, middleware.GetUsername(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

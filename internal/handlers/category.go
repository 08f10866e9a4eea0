package handlers

import (
	"net/http"

	"arenax/internal/db"
	"arenax/internal/models"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// ListCategories 展示所有分类
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	db.DB.Order("id ASC").Find(&categories)

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/flashcards/internal/entities"
)

// ListCategories returns the fixed, ordered category names.
func ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, entities.Categories)
}

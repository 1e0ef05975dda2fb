package handlers

import (
	"net/http"

	"rewear/internal/database"
	"rewear/internal/models"

	"github.com/gin-gonic/gin"
)

func handleGetCategories(c *gin.Context) {
	categories, err := database.GetCategories(getDB(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

func handleGetSizes(c *gin.Context) {
	sizes, err := database.GetSizes(getDB(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if sizes == nil {
		sizes = []models.Size{}
	}
	c.JSON(http.StatusOK, sizes)
}

func handleGetConditions(c *gin.Context) {
	conditions, err := database.GetConditions(getDB(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if conditions == nil {
		conditions = []models.Condition{}
	}
	c.JSON(http.StatusOK, conditions)
}

func handleGetTags(c *gin.Context) {
	tags, err := database.GetTags(getDB(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	c.JSON(http.StatusOK, tags)
}

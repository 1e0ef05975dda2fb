package handlers

import (
	"net/http"
	"strconv"

	"rewear/internal/database"
	"rewear/internal/middleware"
	"rewear/internal/models"

	"github.com/gin-gonic/gin"
)

func handleGetWishlist(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	entries, err := database.GetWishlist(db, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	if entries == nil {
		entries = []models.WishlistEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

type addWishlistRequest struct {
	ItemID   int    `json:"item_id"`
	Notes    string `json:"notes"`
	Priority string `json:"priority"`
}

func handleAddToWishlist(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	var req addWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	entry, err := database.AddToWishlist(db, user.ID, req.ItemID, req.Notes, req.Priority)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to wishlist",
		"entry":   entry,
	})
}

type updateWishlistRequest struct {
	Notes    *string `json:"notes"`
	Priority *string `json:"priority"`
}

func handleUpdateWishlistEntry(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	entryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid wishlist entry ID"})
		return
	}

	var req updateWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	entry, err := database.UpdateWishlistEntry(db, entryID, user.ID, req.Notes, req.Priority)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist entry updated",
		"entry":   entry,
	})
}

func handleRemoveFromWishlist(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	entryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid wishlist entry ID"})
		return
	}

	if err := database.RemoveFromWishlist(db, entryID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from wishlist"})
}

func handleCheckWishlist(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID"})
		return
	}

	entry, err := database.CheckWishlist(db, user.ID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"in_wishlist": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"in_wishlist": true,
		"entry":       entry,
	})
}

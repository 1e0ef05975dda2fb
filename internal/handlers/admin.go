package handlers

import (
	"net/http"
	"strconv"

	"rewear/internal/database"
	"rewear/internal/logger"
	"rewear/internal/middleware"
	"rewear/internal/models"

	"github.com/gin-gonic/gin"
)

func handleAdminListItems(c *gin.Context) {
	db := getDB(c)

	items, err := database.ListItemsForReview(db, c.Query("status"), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	if items == nil {
		items = []database.ItemForReview{}
	}
	c.JSON(http.StatusOK, items)
}

type approveRequest struct {
	Status string `json:"status"`
}

func handleApproveItem(c *gin.Context) {
	db := getDB(c)
	admin := middleware.CurrentUser(c)

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID"})
		return
	}

	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	item, err := database.ApproveItem(db, itemID, models.ItemStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Item moderated", "item_id", item.ID, "status", item.Status, "admin_id", admin.ID)

	notifyModeration(c, item)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item " + string(item.Status),
		"item":    item,
	})
}

// notifyModeration emails the lister about the decision in the
// background. The decision itself already committed.
func notifyModeration(c *gin.Context, item *models.Item) {
	svc := getEmailService(c)
	if svc == nil || !svc.IsEnabled() {
		return
	}

	db := getDB(c)
	owner, err := database.GetUserByID(db, item.OwnerID)
	if err != nil {
		logger.Warn("Failed to load owner for moderation email", "item_id", item.ID, "error", err)
		return
	}

	go func() {
		if err := svc.SendModerationEmail(owner, item); err != nil {
			logger.Warn("Failed to send moderation email", "item_id", item.ID, "error", err)
		}
	}()
}

func handleAdminDeleteItem(c *gin.Context) {
	db := getDB(c)
	cfg := getConfig(c)
	admin := middleware.CurrentUser(c)

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID"})
		return
	}

	imageURL, err := database.AdminDeleteItem(db, itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	removeItemImage(cfg.UploadDir, imageURL)

	logger.Info("Item removed by admin", "item_id", itemID, "admin_id", admin.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

func handleAdminListUsers(c *gin.Context) {
	db := getDB(c)

	users, err := database.GetAllUsersWithStats(db)
	if err != nil {
		respondError(c, err)
		return
	}

	if users == nil {
		users = []database.UserWithStats{}
	}
	c.JSON(http.StatusOK, users)
}

type setAdminRequest struct {
	IsAdmin *bool `json:"is_admin"`
}

func handleSetUserAdmin(c *gin.Context) {
	db := getDB(c)
	admin := middleware.CurrentUser(c)

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return
	}

	var req setAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAdmin == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, err := database.SetUserAdmin(db, userID, admin.ID, *req.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Admin flag changed", "user_id", user.ID, "is_admin", user.IsAdmin, "admin_id", admin.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "User admin status updated",
		"user":    user,
	})
}

func handleAdminStats(c *gin.Context) {
	db := getDB(c)

	stats, err := database.GetAdminStats(db)
	if err != nil {
		respondError(c, err)
		return
	}

	recentItems, recentSwaps, err := database.GetRecentActivity(db)
	if err != nil {
		respondError(c, err)
		return
	}

	if recentItems == nil {
		recentItems = []models.Item{}
	}
	if recentSwaps == nil {
		recentSwaps = []models.Swap{}
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":        stats,
		"recent_items": recentItems,
		"recent_swaps": recentSwaps,
	})
}

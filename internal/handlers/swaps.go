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

type createSwapRequest struct {
	ItemID int    `json:"item_id"`
	Type   string `json:"type"`
}

func handleCreateSwap(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	var req createSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Type == "" {
		req.Type = string(models.TypeSwap)
	}

	swap, err := database.CreateSwapRequest(db, req.ItemID, user.ID, models.SwapType(req.Type))
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Swap request created", "swap_id", swap.ID, "item_id", swap.ItemID, "user_id", user.ID)

	notifyOwner(c, user.Name, swap)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Request created successfully",
		"swap":    swap,
	})
}

// notifyOwner emails the item owner in the background. The request
// already succeeded; a delivery failure only gets logged.
func notifyOwner(c *gin.Context, requesterName string, swap *models.Swap) {
	svc := getEmailService(c)
	if svc == nil || !svc.IsEnabled() {
		return
	}

	db := getDB(c)
	owner, err := database.GetUserByID(db, swap.ToUserID)
	if err != nil {
		logger.Warn("Failed to load owner for notification", "swap_id", swap.ID, "error", err)
		return
	}

	go func() {
		if err := svc.SendSwapRequestEmail(owner, requesterName, swap); err != nil {
			logger.Warn("Failed to send swap request email", "swap_id", swap.ID, "error", err)
		}
	}()
}

func handleUserSwaps(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	sent, received, err := database.GetUserSwaps(db, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	if sent == nil {
		sent = []models.Swap{}
	}
	if received == nil {
		received = []models.Swap{}
	}

	c.JSON(http.StatusOK, gin.H{
		"sent":     sent,
		"received": received,
	})
}

type respondRequest struct {
	Status string `json:"status"`
}

func handleRespondToSwap(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	swapID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid swap ID"})
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	swap, err := database.RespondToSwap(db, swapID, user.ID, models.SwapStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Swap request resolved", "swap_id", swap.ID, "status", swap.Status, "user_id", user.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Request " + string(swap.Status),
		"swap":    swap,
	})
}

func handleCancelSwap(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	swapID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid swap ID"})
		return
	}

	if err := database.CancelSwap(db, swapID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled successfully"})
}

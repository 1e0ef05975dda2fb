package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rewear/internal/database"
	"rewear/internal/logger"
	"rewear/internal/middleware"
	"rewear/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

func handleListItems(c *gin.Context) {
	db := getDB(c)

	items, err := database.ListItems(db, database.ItemFilters{
		Category:  c.Query("category"),
		Size:      c.Query("size"),
		Condition: c.Query("condition"),
		Search:    c.Query("search"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if items == nil {
		items = []models.Item{}
	}
	c.JSON(http.StatusOK, items)
}

func handleGetItem(c *gin.Context) {
	db := getDB(c)

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID"})
		return
	}

	item, err := database.GetItem(db, itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func handleCreateItem(c *gin.Context) {
	db := getDB(c)
	cfg := getConfig(c)
	user := middleware.CurrentUser(c)

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	category := c.PostForm("category")
	size := c.PostForm("size")
	condition := c.PostForm("condition")

	fieldErrors := make(map[string]string)

	if len(title) < 3 || len(title) > 100 {
		fieldErrors["title"] = "Title must be between 3 and 100 characters"
	}
	if len(description) < 10 || len(description) > 1000 {
		fieldErrors["description"] = "Description must be between 10 and 1000 characters"
	}

	if ok, err := database.ValidCategory(db, category); err != nil {
		respondError(c, err)
		return
	} else if !ok {
		fieldErrors["category"] = "Invalid category"
	}
	if ok, err := database.ValidSize(db, size); err != nil {
		respondError(c, err)
		return
	} else if !ok {
		fieldErrors["size"] = "Invalid size"
	}
	if ok, err := database.ValidCondition(db, condition); err != nil {
		respondError(c, err)
		return
	} else if !ok {
		fieldErrors["condition"] = "Invalid condition"
	}

	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": fieldErrors})
		return
	}

	var imageURL *string
	if file, err := c.FormFile("image"); err == nil {
		url, err := saveItemImage(c, file, cfg.UploadDir, cfg.UploadMaxBytes)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		imageURL = url
	}

	item, err := database.CreateItem(db, user.ID, models.Item{
		Title:       title,
		Description: description,
		Category:    category,
		Size:        size,
		Condition:   condition,
		ImageURL:    imageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Item created", "item_id", item.ID, "owner_id", user.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item created successfully",
		"item":    item,
	})
}

// saveItemImage validates and stores the uploaded image, returning its
// public URL path.
func saveItemImage(c *gin.Context, file *multipart.FileHeader, uploadDir string, maxBytes int64) (*string, error) {
	if file.Size > maxBytes {
		return nil, fmt.Errorf("image exceeds the %d byte limit", maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return nil, fmt.Errorf("only image files are allowed")
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := "item-" + uuid.New().String() + ext
	dst := filepath.Join(uploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	url := "/uploads/" + name
	return &url, nil
}

// removeItemImage deletes a stored image after its row is gone. Failures
// are logged, not surfaced: the listing itself is already deleted.
func removeItemImage(uploadDir string, imageURL *string) {
	if imageURL == nil {
		return
	}
	name := filepath.Base(*imageURL)
	if err := os.Remove(filepath.Join(uploadDir, name)); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to remove item image", "image", name, "error", err)
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func handleUpdateItemStatus(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	item, err := database.SetItemStatus(db, itemID, user.ID, models.ItemStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item status updated successfully",
		"item":    item,
	})
}

func handleDeleteItem(c *gin.Context) {
	db := getDB(c)
	cfg := getConfig(c)
	user := middleware.CurrentUser(c)

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID"})
		return
	}

	imageURL, err := database.DeleteItem(db, itemID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	removeItemImage(cfg.UploadDir, imageURL)

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

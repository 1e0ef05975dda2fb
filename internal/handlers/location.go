package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"rewear/internal/database"
	"rewear/internal/geo"
	"rewear/internal/middleware"
	"rewear/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	defaultRadiusKm = 10.0
	maxRadiusKm     = 100.0
	minRadiusKm     = 1.0
)

// radiusParam parses the ?radius query, clamped to the allowed range.
func radiusParam(c *gin.Context) float64 {
	raw := c.Query("radius")
	if raw == "" {
		return defaultRadiusKm
	}

	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultRadiusKm
	}
	if radius < minRadiusKm {
		return minRadiusKm
	}
	if radius > maxRadiusKm {
		return maxRadiusKm
	}
	return radius
}

type nearbyUser struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Bio        string  `json:"bio"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	Country    *string `json:"country,omitempty"`
	DistanceKm float64 `json:"distance_km"`
}

func handleNearbyUsers(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	if user.Latitude == nil || user.Longitude == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Set your location first"})
		return
	}
	radius := radiusParam(c)

	candidates, err := database.GetUsersWithLocation(db, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	nearby := []nearbyUser{}
	for _, candidate := range candidates {
		dist := geo.Distance(*user.Latitude, *user.Longitude, *candidate.Latitude, *candidate.Longitude)
		if dist > radius {
			continue
		}
		nearby = append(nearby, nearbyUser{
			ID:         candidate.ID,
			Name:       candidate.Name,
			Bio:        candidate.Bio,
			City:       candidate.City,
			State:      candidate.State,
			Country:    candidate.Country,
			DistanceKm: geo.Round1(dist),
		})
	}

	sort.Slice(nearby, func(i, j int) bool { return nearby[i].DistanceKm < nearby[j].DistanceKm })

	c.JSON(http.StatusOK, gin.H{
		"radius_km": radius,
		"users":     nearby,
	})
}

type nearbyItem struct {
	Item       models.Item `json:"item"`
	DistanceKm float64     `json:"distance_km"`
}

func handleNearbyItems(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	if user.Latitude == nil || user.Longitude == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Set your location first"})
		return
	}
	radius := radiusParam(c)

	items, owners, err := database.GetAvailableItemsWithOwnerLocation(db, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	nearby := []nearbyItem{}
	for i := range items {
		owner := owners[i]
		dist := geo.Distance(*user.Latitude, *user.Longitude, *owner.Latitude, *owner.Longitude)
		if dist > radius {
			continue
		}
		nearby = append(nearby, nearbyItem{
			Item:       items[i],
			DistanceKm: geo.Round1(dist),
		})
	}

	sort.Slice(nearby, func(i, j int) bool { return nearby[i].DistanceKm < nearby[j].DistanceKm })

	c.JSON(http.StatusOK, gin.H{
		"radius_km": radius,
		"items":     nearby,
	})
}

type updateLocationRequest struct {
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	City       string   `json:"city"`
	Country    string   `json:"country"`
	Address    *string  `json:"address"`
	State      *string  `json:"state"`
	PostalCode *string  `json:"postal_code"`
}

func handleUpdateLocation(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	var req updateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	fieldErrors := make(map[string]string)
	if req.Latitude == nil || *req.Latitude < -90 || *req.Latitude > 90 {
		fieldErrors["latitude"] = "Latitude must be between -90 and 90"
	}
	if req.Longitude == nil || *req.Longitude < -180 || *req.Longitude > 180 {
		fieldErrors["longitude"] = "Longitude must be between -180 and 180"
	}
	if strings.TrimSpace(req.City) == "" {
		fieldErrors["city"] = "City is required"
	}
	if strings.TrimSpace(req.Country) == "" {
		fieldErrors["country"] = "Country is required"
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": fieldErrors})
		return
	}

	updated, err := database.UpdateUserLocation(db, user.ID, database.LocationUpdate{
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		City:       strings.TrimSpace(req.City),
		Country:    strings.TrimSpace(req.Country),
		Address:    req.Address,
		State:      req.State,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Location updated successfully",
		"user":    updated,
	})
}

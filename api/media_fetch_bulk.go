package api

import (
	"net/http"
	"slices"
	"strconv"

	"pixelvault/gallery-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AZ = A - Z as in alphabetic same for ZA
var validSortOpts = []string{"newest", "oldest", "az", "za", "size-asc", "size-desc"}

var validLimits = []int{10, 20, 50, 100, 250}

func (a *API) MediaFetchBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	pageStr := c.DefaultQuery("page", "0")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid page provided",
			"requestID": requestID,
		})
		return
	}

	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || !slices.Contains(validLimits, limit) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid limit provided",
			"requestID": requestID,
		})
		return
	}

	sort := c.DefaultQuery("sort", "newest")
	if !slices.Contains(validSortOpts, sort) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid sort option provided",
			"requestID": requestID,
		})
		return
	}

	var order string
	switch sort {
	case "newest":
		order = "timestamp desc"
	case "oldest":
		order = "timestamp asc"
	case "az":
		order = "LOWER(title) asc"
	case "za":
		order = "LOWER(title) desc"
	case "size-asc":
		order = "size asc"
	case "size-desc":
		order = "size desc"
	}

	var results []model.MediaItem

	// Payloads are deliberately left out of listings; MediaServe hands
	// out single items
	err = a.DB.
		Select("id, user_id, type, title, size, timestamp").
		Where("user_id = ?", userID).
		Order(order).
		Offset(page * limit).
		Limit(limit).
		Find(&results).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch media in bulk", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, results)
}

package api

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"pixelvault/gallery-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) MediaSearch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	searchQuery := strings.ToLower(c.Query("query"))
	if searchQuery == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No search query provided",
			"requestID": requestID,
		})
		return
	}

	limitStr := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || !slices.Contains(validLimits, limit) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid limit provided",
			"requestID": requestID,
		})
		return
	}

	pageStr := c.DefaultQuery("page", "0")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid page provided",
			"requestID": requestID,
		})
		return
	}

	var results []model.MediaItem

	err = a.DB.
		Select("id, user_id, type, title, size, timestamp").
		Where("user_id = ? AND LOWER(title) LIKE ?", userID, "%"+searchQuery+"%").
		Order("timestamp desc").
		Offset(page * limit).
		Limit(limit).
		Find(&results).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to find media by search query", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, results)
}

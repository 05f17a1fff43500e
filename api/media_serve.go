package api

import (
	"net/http"

	"pixelvault/gallery-api/model"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MediaServe hands out a single item's payload, fetching it from the
// bucket when it was offloaded
func (a *API) MediaServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	itemID := c.Param("id")
	if itemID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "ID is missing",
			"requestID": requestID,
		})
		return
	}

	var item model.MediaItem

	err := a.DB.
		Where("user_id = ? AND id = ?", userID, itemID).
		First(&item).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Item not found. It either doesn't exist or you don't own it",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load media item", zap.Error(err))
		return
	}

	data := item.Data

	if item.BlobKey != "" && a.Store != nil {
		data, err = a.Store.Get(c.Request.Context(), item.BlobKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to fetch payload blob", zap.String("key", item.BlobKey), zap.Error(err))
			return
		}
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}

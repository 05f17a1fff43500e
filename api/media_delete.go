package api

import (
	"context"
	"net/http"

	"pixelvault/gallery-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) MediaDelete(c *gin.Context) {
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
		Select("id, user_id, blob_key, size").
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

		zap.L().Error("Failed to check if item exists", zap.Error(err))
		return
	}

	err = a.DB.
		Where("user_id = ? AND id = ?", userID, itemID).
		Delete(model.MediaItem{}).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete media item", zap.Error(err))
		return
	}

	// Quota is freed the moment the row is gone; the blob only wastes
	// bucket space if this fails
	if item.BlobKey != "" && a.Store != nil {
		a.Store.Delete(context.Background(), item.BlobKey)
	}

	c.Status(http.StatusOK)
}

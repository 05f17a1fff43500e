package api

import (
	"net/http"

	"pixelvault/gallery-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FactoryReset deletes every media item the user owns, no quota math
// involved. Destructive enough to demand the explicit confirm flag.
func (a *API) FactoryReset(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if c.Query("confirm") != "true" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Factory reset requires confirm=true",
			"requestID": requestID,
		})
		return
	}

	if err := service.FactoryReset(a.DB, a.Store, userID); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Factory reset failed", zap.String("userID", userID), zap.Error(err))
		return
	}

	c.Status(http.StatusOK)
}

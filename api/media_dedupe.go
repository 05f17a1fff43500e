package api

import (
	"net/http"

	"pixelvault/gallery-api/service"
	"pixelvault/gallery-api/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaDedupe deep-scans the user's gallery for byte-identical payloads.
// Without confirm=true it only reports what would be removed; deletion
// requires the explicit flag.
func (a *API) MediaDedupe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if c.Query("confirm") != "true" {
		groups, err := service.FindDuplicates(a.DB, userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Deep scan failed", zap.String("userID", userID), zap.Error(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"groups": groups,
		})
		return
	}

	ids, freed, err := service.CleanDuplicates(a.DB, a.Store, userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Duplicate cleanup failed", zap.String("userID", userID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"removed":        ids,
		"freed":          freed,
		"freedFormatted": util.FormatBytes(freed),
	})
}

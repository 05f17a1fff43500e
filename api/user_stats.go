package api

import (
	"net/http"

	"pixelvault/gallery-api/model"
	"pixelvault/gallery-api/service"
	"pixelvault/gallery-api/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// quotaSnapshot gathers everything the frontend shows about the ledger:
// raw byte values for math, formatted strings for display.
func (a *API) quotaSnapshot(user *model.User) (gin.H, error) {
	used, err := service.StorageUsed(a.DB, user.ID)
	if err != nil {
		return nil, err
	}

	quota := service.EffectiveQuota(user)

	return gin.H{
		"used":           used,
		"quota":          quota,
		"bonus":          user.BonusStorage,
		"streak":         user.CheckInStreak,
		"lastCheckIn":    user.LastCheckIn,
		"usedPercent":    service.UsagePercentage(used, quota),
		"usedFormatted":  util.FormatBytes(used),
		"quotaFormatted": util.FormatBytes(quota),
		"bonusFormatted": util.FormatBytes(user.BonusStorage),
	}, nil
}

func (a *API) UserStats(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var user model.User

	err := a.DB.
		Where("id = ?", userID).
		First(&user).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load user", zap.String("userID", userID), zap.Error(err))
		return
	}

	snap, err := a.quotaSnapshot(&user)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to build quota snapshot", zap.String("userID", userID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, snap)
}

package api

import (
	"net/http"
	"time"

	"pixelvault/gallery-api/model"
	"pixelvault/gallery-api/service"
	"pixelvault/gallery-api/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) CheckIn(c *gin.Context) {
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

	res, err := service.CheckIn(a.DB, &user, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check in", zap.String("userID", userID), zap.Error(err))
		return
	}

	if res.AlreadyCheckedIn {
		c.JSON(http.StatusOK, gin.H{
			"alreadyCheckedIn": true,
			"streak":           res.Streak,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alreadyCheckedIn": false,
		"streak":           res.Streak,
		"granted":          res.Granted,
		"grantedFormatted": util.FormatBytes(res.Granted),
	})
}

package api

import (
	"net/http"
	"time"

	"pixelvault/gallery-api/model"
	"pixelvault/gallery-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionResume runs the daily reconciliation for a returning session.
// The frontend calls this once on app load; login covers the other entry
// point.
func (a *API) SessionResume(c *gin.Context) {
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

	rec, err := service.Reconcile(a.DB, a.Store, &user, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Reconciliation failed", zap.String("userID", userID), zap.Error(err))
		return
	}

	if rec.Notice != "" {
		go service.NotifyQuotaChange(user.Email, "Your storage allowance changed", rec.Notice)
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

	c.JSON(http.StatusOK, gin.H{
		"mediaReset": rec.MediaReset,
		"missedDays": rec.MissedDays,
		"notice":     rec.Notice,
		"quota":      snap,
	})
}

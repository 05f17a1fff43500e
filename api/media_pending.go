package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) MediaPending(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	snap, ok := a.Scheduler.Pending(userID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"pending": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending": true,
		"batch":   snap,
	})
}

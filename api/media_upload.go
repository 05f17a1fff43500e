package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"pixelvault/gallery-api/model"
	"pixelvault/gallery-api/service"
	"pixelvault/gallery-api/validators"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) MediaUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"requestID": requestID,
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to parse multipart form", zap.Error(err))
		return
	}

	fhs := form.File["file"]
	if len(fhs) <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	var user model.User
	if err := a.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load user", zap.String("userID", userID), zap.Error(err))
		return
	}

	// Read and classify everything up front so a file that fails
	// validation rejects the whole request before anything is persisted
	files := make([]service.UploadFile, 0, len(fhs))

	for _, fh := range fhs {
		f, err := fh.Open()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to open uploaded file", zap.Error(err))
			return
		}

		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to read uploaded file", zap.Error(err))
			return
		}

		mediaType, err := validators.MediaValidator(fh, data)
		if err != nil {
			code := http.StatusBadRequest
			if err == validators.ErrFileTooLarge {
				code = http.StatusRequestEntityTooLarge
			}

			c.AbortWithStatusJSON(code, gin.H{
				"error":     err.Error(),
				"file":      fh.Filename,
				"requestID": requestID,
			})
			return
		}

		files = append(files, service.UploadFile{
			Title:       fh.Filename,
			Type:        mediaType,
			ContentType: mimetype.Detect(data).String(),
			Data:        data,
		})
	}

	res, err := a.Scheduler.Schedule(c.Request.Context(), &user, files)
	if err != nil {
		if errors.Is(err, service.ErrBatchPending) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":     "An upload batch is already pending, wait for it to finish",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Upload batch failed", zap.String("userID", userID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, res)
}

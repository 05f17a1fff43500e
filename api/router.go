// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"pixelvault/gallery-api/db"
	"pixelvault/gallery-api/middleware"
	"pixelvault/gallery-api/security"
	"pixelvault/gallery-api/service"
	"pixelvault/gallery-api/storage"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Argon     *security.ArgonHash
	Store     *storage.S3Store
	Scheduler *service.Scheduler
}

func NewRouter() (*API, error) {
	a := &API{}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = db

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(db)
	accountLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	})
	maxUploadSize := viper.GetInt64("upload.max_size")

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates a JWT token
		main.HEAD("/validate", jwt, a.Validate)

		// GET /api/session		-> Resumes a session and runs daily reconciliation
		main.GET("/session", jwt, a.SessionResume)

		// POST /api/checkin		-> Performs the daily check-in
		main.POST("/checkin", jwt, a.CheckIn)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/users 		-> Registers a new user
		users.POST("", accountLimiter, a.UserRegister)

		// POST /api/users/login 	-> Logs in a user, runs reconciliation and returns a JWT token
		users.POST("/login", accountLimiter, a.UserLogin)

		// GET /api/users/stats		-> Returns the quota snapshot of a user
		users.GET("/stats", jwt, cacheForUser(30), a.UserStats)
	}

	media := main.Group("/media")
	{
		// POST /api/media         	-> Uploads a batch of files
		media.POST("", jwt, middleware.BodySizeLimiter(maxUploadSize*8), a.MediaUpload)

		// GET /api/media/pending	-> Returns the state of the queued upload batch
		media.GET("/pending", jwt, a.MediaPending)

		// GET /api/media/bulk 		-> Returns a user's media in bulk
		media.GET("/bulk", jwt, a.MediaFetchBulk)

		// GET /api/media/search	-> Searches a user's media by title
		media.GET("/search", jwt, a.MediaSearch)

		// GET /api/media/:id 		-> Serves a single item's payload
		media.GET("/:id", jwt, a.MediaServe)

		// DELETE /api/media/:id	-> Deletes a single item
		media.DELETE("/:id", jwt, a.MediaDelete)

		// POST /api/media/dedupe	-> Deep-scans for duplicates, deletes on confirm
		media.POST("/dedupe", jwt, a.MediaDedupe)

		// DELETE /api/media		-> Factory reset, deletes everything on confirm
		media.DELETE("", jwt, a.FactoryReset)
	}

	a.Argon = security.New()

	if viper.GetString("storage.type") == "s3" {
		s3, err := storage.NewS3()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 store, %w", err)
		}
		a.Store = s3
	}

	a.Scheduler = service.NewScheduler(db, a.Store)

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

// userCacheKey scopes a cache entry to the authenticated user. Keying on
// the URI alone would hand one user's cached body to the next.
func userCacheKey(c *gin.Context) string {
	return c.GetString("userID") + "@" + c.Request.RequestURI
}

func cacheForUser(sec int) gin.HandlerFunc {
	return cache.Cache(store, time.Second*time.Duration(sec),
		cache.WithCacheStrategyByRequest(func(c *gin.Context) (bool, cache.Strategy) {
			return true, cache.Strategy{CacheKey: userCacheKey(c)}
		}))
}

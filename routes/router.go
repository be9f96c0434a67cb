package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cppla/socialnet/config"
	"github.com/cppla/socialnet/controllers"
	"github.com/cppla/socialnet/middleware"
	"github.com/cppla/socialnet/services"
	"github.com/cppla/socialnet/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file when configured, else to the app logger
	accessLog := utils.Logger
	if cfg.GinPath != "" {
		if gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress); err == nil {
			accessLog = gl
		} else {
			utils.Sugar.Warnf("gin log file unavailable, using app logger: %v", err)
		}
	}
	r.Use(utils.Ginzap(accessLog, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(accessLog, false))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.SetHTMLTemplate(middleware.ErrorTemplate)
	r.Use(middleware.ErrorHandler())

	deps := controllers.Deps{
		DB:            db,
		Tokens:        utils.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour),
		Blacklist:     utils.NewTokenBlacklist(rdb),
		Cache:         utils.NewCache(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second),
		MaxImageBytes: cfg.MaxImageBytes,
	}
	authController := controllers.NewAuthController(deps)
	userController := controllers.NewUserController(deps)
	postController := controllers.NewPostController(deps)
	notificationController := controllers.NewNotificationController(deps)

	authRequired := middleware.AuthRequired(deps.Tokens, deps.Blacklist, services.New(db).Users)
	rateLimit := middleware.RateLimitMiddleware(cfg.RateLimitPerMinute)
	tx := middleware.Transactional(db)

	r.GET("/health", func(ctx *gin.Context) {
		health(ctx, db, rdb)
	})

	api := r.Group("/api")

	user := api.Group("/user")
	user.POST("/register", rateLimit, authController.Register)
	user.POST("/login", rateLimit, authController.Login)
	user.POST("/logout", authRequired, authController.Logout)
	user.GET("/list", userController.ListUsers)
	user.GET("/like", userController.ListLikes)
	user.GET("", authRequired, userController.Me)
	user.POST("", authRequired, rateLimit, userController.UpdateDetail)
	user.POST("/image", authRequired, rateLimit, tx, userController.UploadImage)
	user.GET("/notification", authRequired, notificationController.List)
	user.POST("/notification", authRequired, notificationController.MarkRead)
	user.DELETE("/notification/:notificationId", authRequired, notificationController.DeleteByID)
	user.GET("/:userHandle", userController.Detail)
	user.DELETE("/:userHandle", authRequired, tx, userController.Delete)

	post := api.Group("/post")
	post.GET("", postController.ListPosts)
	post.POST("", authRequired, rateLimit, tx, postController.CreatePost)
	post.GET("/:postId", postController.GetPost)
	post.DELETE("/:postId", authRequired, tx, postController.DeletePost)
	post.GET("/:postId/like", authRequired, rateLimit, tx, postController.LikePost, notificationController.CreateNotification)
	post.GET("/:postId/unlike", authRequired, rateLimit, tx, postController.UnlikePost, notificationController.DeleteNotification)
	post.GET("/:postId/comment", postController.ListComments)
	post.POST("/:postId/comment", authRequired, rateLimit, tx, postController.CommentOnPost, notificationController.CreateNotification)
	post.DELETE("/:postId/uncomment", authRequired, tx, postController.DeleteComment, notificationController.DeleteNotification)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if middleware.IsAPIPath(path) {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		serveClient(ctx, cfg.ClientDir, path)
	})

	return r
}

// health answers 503 when the database is unreachable; Redis only degrades caching.
func health(ctx *gin.Context, db *gorm.DB, rdb *redis.Client) {
	status, dbState := http.StatusOK, "up"
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		status, dbState = http.StatusServiceUnavailable, "down"
	}
	ctx.JSON(status, gin.H{
		"status":   http.StatusText(status),
		"database": dbState,
		"redis":    utils.RedisStatus(ctx.Request.Context(), rdb),
	})
}

// serveClient serves a built frontend file, falling back to index.html for client routes.
func serveClient(ctx *gin.Context, dir, path string) {
	if dir == "" {
		middleware.RenderErrorPage(ctx, http.StatusNotFound, "Page not found")
		return
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		middleware.RenderErrorPage(ctx, http.StatusNotFound, "Page not found")
		return
	}
	target := filepath.Join(root, filepath.FromSlash(filepath.Clean("/"+path)))
	if info, err := os.Stat(target); err == nil && !info.IsDir() && strings.HasPrefix(target, root) {
		ctx.File(target)
		return
	}
	index := filepath.Join(root, "index.html")
	if _, err := os.Stat(index); err != nil {
		middleware.RenderErrorPage(ctx, http.StatusNotFound, "Page not found")
		return
	}
	ctx.Status(http.StatusOK)
	ctx.File(index)
}

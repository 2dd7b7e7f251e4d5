package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"post-board/pkg/cache"
	"post-board/pkg/config"
	"post-board/pkg/database"
	"post-board/pkg/logger"
	"post-board/pkg/middleware"
	postHTTP "post-board/services/post/internal/controller/http"
	"post-board/services/post/internal/repo/persistent"
	"post-board/services/post/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "post-board/services/post/docs" // Swagger docs
)

// Dependencies are the external resources the router is built on. DB is nil
// for the memory storage driver and Redis is nil when rate limiting is off.
type Dependencies struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// Connect opens the resources cfg asks for.
func Connect(cfg *config.Config, log *logger.Logger) (*Dependencies, error) {
	deps := &Dependencies{}

	if cfg.StorageDriver == config.StorageDriverPostgres {
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			return nil, err
		}
		deps.DB = db
	} else {
		log.Warn("Using in-memory post storage, data is lost on restart")
	}

	if cfg.RateLimitPerMinute > 0 {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			deps.Close(log)
			return nil, err
		}
		deps.Redis = redisClient
	}

	return deps, nil
}

func (d *Dependencies) Close(log *logger.Logger) {
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("Error closing database: %v", err)
			}
		}
	}

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}
}

func NewRouter(cfg *config.Config, log *logger.Logger, deps *Dependencies) *gin.Engine {
	var postRepo persistent.PostRepository
	if deps.DB != nil {
		postRepo = persistent.NewPostRepository(deps.DB)
	} else {
		postRepo = persistent.NewMemoryPostRepository()
	}

	postUseCase := usecase.NewPostUseCase(postRepo, cfg.BcryptCost, log)
	postHandler := postHTTP.NewPostHandler(postUseCase, log)

	r := gin.Default()
	r.Use(middleware.RequestIDMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	if deps.Redis != nil {
		api.Use(middleware.RateLimitMiddleware(deps.Redis, cfg.RateLimitPerMinute, time.Minute))
	}
	postHandler.RegisterRoutes(api)

	return r
}

func Run(cfg *config.Config, log *logger.Logger, deps *Dependencies) {
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: NewRouter(cfg, log, deps),
	}

	go func() {
		log.Info("Post service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down post service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	deps.Close(log)

	log.Info("Post service exited")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	dbadapter "github.com/eunmi228/PostApp/internal/adapters/database"
	"github.com/eunmi228/PostApp/internal/adapters/httpapi"
	"github.com/eunmi228/PostApp/internal/adapters/memory"
	redisadapter "github.com/eunmi228/PostApp/internal/adapters/redis"
	"github.com/eunmi228/PostApp/internal/adapters/security"
	"github.com/eunmi228/PostApp/internal/adapters/storage"
	"github.com/eunmi228/PostApp/internal/config"
	feedapp "github.com/eunmi228/PostApp/internal/core/feed/service"
	userapp "github.com/eunmi228/PostApp/internal/core/user/service"
	imagePort "github.com/eunmi228/PostApp/internal/ports/image"
	postPort "github.com/eunmi228/PostApp/internal/ports/post"
	userPort "github.com/eunmi228/PostApp/internal/ports/user"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	settings, err := config.Load() // بارگذاری تنظیمات از .env
	if err != nil {
		panic(err)
	}
	config.InitLogger(settings.Env)
	logger := config.Logger
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		userRepo userPort.UserRepository
		postRepo postPort.PostRepository
	)
	switch settings.Storage {
	case "mysql":
		// اتصال به دیتابیس و اجرای مایگریشن‌ها
		db, err := config.InitDB(settings.DBDSN)
		if err != nil {
			logger.Fatal("Database setup failed", zap.Error(err))
		}
		logger.Info("Database migrations completed")
		userRepo = dbadapter.NewUserRepositoryDatabase(db)
		postRepo = dbadapter.NewPostRepositoryDatabase(db)
	default:
		logger.Warn("Using in-memory storage; data is lost on restart")
		userRepo = memory.NewUserRepositoryMemory()
		postRepo = memory.NewPostRepositoryMemory()
	}

	// اتصال به Redis (اختیاری)
	var journal imagePort.FailureJournal = memory.NewImageJournalMemory(int(settings.JournalCap))
	if settings.RedisAddr != "" {
		client, err := config.InitRedis(ctx, settings.RedisAddr, settings.RedisPass, settings.RedisDB)
		if err != nil {
			logger.Warn("Redis unavailable, journaling image failures in memory", zap.Error(err))
		} else {
			journal = redisadapter.NewImageJournalRedis(client, settings.JournalCap, logger)
		}
	}

	// بستن منابع بعد از اتمام کار سرور
	defer closeResources(logger)

	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(settings.ImageDir, 0o755); err != nil {
		logger.Fatal("Could not create image directory", zap.String("dir", settings.ImageDir), zap.Error(err))
	}
	images := storage.NewDiskImageStore(afero.NewBasePathFs(osFs, settings.ImageDir), "images", journal, logger)

	tokens := security.NewJWTProvider([]byte(settings.JWTSecret), settings.JWTTTL)
	userSvc := userapp.NewUserService(userRepo, tokens, logger)                              // یوزکیس/سرویس
	feedSvc := feedapp.NewFeedService(postRepo, userRepo, images, settings.PageSize, logger) // یوزکیس/سرویس
	r := httpapi.SetupRoutes(userSvc, feedSvc, journal, tokens, httpapi.Options{
		ImageDir:  settings.ImageDir,
		MaxUpload: settings.MaxUpload,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("App is running...", zap.String("addr", srv.Addr), zap.String("storage", settings.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during server shutdown", zap.Error(err))
		return
	}
	logger.Info("Server stopped gracefully")
}

// closeResources بستن اتصالات به Redis و دیتابیس
func closeResources(logger *zap.Logger) {
	if config.RedisClient != nil {
		if err := config.RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}

	if config.DB == nil {
		return
	}
	sqlDB, err := config.DB.DB() // گرفتن *sql.DB از *gorm.DB
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}

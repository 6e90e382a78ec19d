package httpapi

import (
	"context"

	"github.com/eunmi228/PostApp/internal/adapters/httpapi/middleware"
	feedapp "github.com/eunmi228/PostApp/internal/core/feed/service"
	imagePort "github.com/eunmi228/PostApp/internal/ports/image"
	postPort "github.com/eunmi228/PostApp/internal/ports/post"
	userPort "github.com/eunmi228/PostApp/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserUseCase: اینترفیسِ لازم برای کنترلر/روتر (Inbound Port)
type UserUseCase interface {
	Signup(ctx context.Context, email, name, password string) (*userPort.UserDTO, error)
	Login(ctx context.Context, email, password string) (*userPort.LoginResponse, error)
	GetStatus(ctx context.Context, callerID string) (string, error)
	UpdateStatus(ctx context.Context, callerID, status string) error
}

type FeedUseCase interface {
	ListPosts(ctx context.Context, callerID string, page int) (*feedapp.PostList, error)
	CreatePost(ctx context.Context, callerID string, in feedapp.CreatePostInput) (*postPort.PostDTO, error)
	GetPost(ctx context.Context, callerID, postID string) (*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, callerID, postID string, in feedapp.UpdatePostInput) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, callerID, postID string) error
}

type ImageFailureReader interface {
	Recent(ctx context.Context, limit int64) ([]imagePort.DeleteFailure, error)
}

type Options struct {
	// ImageDir is served under /images when set.
	ImageDir  string
	MaxUpload int64
	Logger    *zap.Logger
}

// فقط روتینگ: UseCase از بیرون تزریق می‌شود
func SetupRoutes(
	userUC UserUseCase,
	feedUC FeedUseCase,
	failures ImageFailureReader,
	auth middleware.Authenticator,
	opts Options,
) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = 8 << 20
	}

	r := gin.Default()
	r.MaxMultipartMemory = opts.MaxUpload
	r.Use(middleware.CORS())

	uc := NewUserController(userUC, opts.Logger)
	fc := NewFeedController(feedUC, opts.MaxUpload, opts.Logger)
	dc := NewDiagnosticsController(failures, opts.Logger)

	if opts.ImageDir != "" {
		r.Static("/images", opts.ImageDir)
	}

	// مسیرهای ثبت‌نام و ورود بدون JWT Middleware
	authGroup := r.Group("/auth")
	authGroup.PUT("/signup", uc.Signup)
	authGroup.POST("/login", uc.Login)

	feed := r.Group("/feed", middleware.JWTAuthMiddleware(auth))
	feed.GET("/posts", fc.GetPosts)
	feed.POST("/post", fc.CreatePost)
	feed.GET("/post/:postId", fc.GetPost)
	feed.PUT("/post/:postId", fc.UpdatePost)
	feed.DELETE("/post/:postId", fc.DeletePost)

	feed.GET("/status", uc.GetStatus)
	feed.POST("/status", uc.UpdateStatus)

	feed.GET("/diagnostics/image-failures", dc.ImageFailures)
	return r
}

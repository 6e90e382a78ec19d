package httpapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/eunmi228/PostApp/internal/adapters/httpapi/middleware"
	"github.com/eunmi228/PostApp/internal/core/apperr"
	feedapp "github.com/eunmi228/PostApp/internal/core/feed/service"
	imagePort "github.com/eunmi228/PostApp/internal/ports/image"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FeedController struct {
	fc        FeedUseCase
	maxUpload int64
	logger    *zap.Logger
}

func NewFeedController(fc FeedUseCase, maxUpload int64, logger *zap.Logger) *FeedController {
	return &FeedController{fc: fc, maxUpload: maxUpload, logger: logger}
}

// postForm binds title and content from JSON or form bodies. Image is
// read separately in multipart requests, where "image" may also be a file part.
type postForm struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
	Image   string `form:"-" json:"image"`
}

func (ctl *FeedController) GetPosts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	res, err := ctl.fc.ListPosts(c.Request.Context(), c.GetString(middleware.UserIDKey), page)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Fetched posts successfully.",
		"posts":      res.Posts,
		"totalItems": res.TotalItems,
	})
}

func (ctl *FeedController) CreatePost(c *gin.Context) {
	var req postForm
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}
	upload, err := ctl.readUpload(c)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	post, err := ctl.fc.CreatePost(c.Request.Context(), c.GetString(middleware.UserIDKey), feedapp.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Image:   upload,
	})
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully!", "post": post})
}

func (ctl *FeedController) GetPost(c *gin.Context) {
	post, err := ctl.fc.GetPost(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("postId"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post fetched.", "post": post})
}

func (ctl *FeedController) UpdatePost(c *gin.Context) {
	var req postForm
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}
	if req.Image == "" {
		req.Image = c.PostForm("image")
	}
	upload, err := ctl.readUpload(c)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}

	post, err := ctl.fc.UpdatePost(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("postId"), feedapp.UpdatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.Image,
		Image:    upload,
	})
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post updated!", "post": post})
}

func (ctl *FeedController) DeletePost(c *gin.Context) {
	if err := ctl.fc.DeletePost(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("postId")); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted post."})
}

// readUpload returns the optional "image" file of a multipart request.
func (ctl *FeedController) readUpload(c *gin.Context) (*imagePort.Upload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperr.Validation("image", "could not read uploaded file")
	}
	if fh.Size > ctl.maxUpload {
		return nil, apperr.Validation("image", "file is too large")
	}
	return readFileHeader(fh)
}

func readFileHeader(fh *multipart.FileHeader) (*imagePort.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Validation("image", "could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.Validation("image", "could not read uploaded file")
	}
	return &imagePort.Upload{
		Data:         data,
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get("Content-Type"),
	}, nil
}

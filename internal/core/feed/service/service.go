package feedapp

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/eunmi228/PostApp/internal/core/apperr"
	postEntity "github.com/eunmi228/PostApp/internal/core/post"
	imagePort "github.com/eunmi228/PostApp/internal/ports/image"
	postPort "github.com/eunmi228/PostApp/internal/ports/post"
	userPort "github.com/eunmi228/PostApp/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 2
	minTextLength   = 5
)

// FeedService implements the post use cases on top of the post and user
// stores and the image store. Post and user writes are two independent
// steps; a failure of the second is reported, never rolled back.
type FeedService struct {
	PostRepository postPort.PostRepository
	UserRepository userPort.UserRepository
	ImageStore     imagePort.ImageStore
	PageSize       int
	Logger         *zap.Logger
}

func NewFeedService(
	postRepo postPort.PostRepository,
	userRepo userPort.UserRepository,
	images imagePort.ImageStore,
	pageSize int,
	logger *zap.Logger,
) *FeedService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FeedService{
		PostRepository: postRepo,
		UserRepository: userRepo,
		ImageStore:     images,
		PageSize:       pageSize,
		Logger:         logger,
	}
}

type CreatePostInput struct {
	Title   string
	Content string
	Image   *imagePort.Upload
}

// UpdatePostInput carries either a new upload or the post's current image
// path to keep it; the upload wins when both are present.
type UpdatePostInput struct {
	Title    string
	Content  string
	ImageURL string
	Image    *imagePort.Upload
}

type PostList struct {
	Posts      []*postPort.PostDTO `json:"posts"`
	TotalItems int64               `json:"totalItems"`
}

// ListPosts returns one page of all posts, regardless of owner.
func (s *FeedService) ListPosts(ctx context.Context, callerID string, page int) (*PostList, error) {
	if _, err := identify(callerID); err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}

	posts, total, err := s.PostRepository.FindPage(ctx, page, s.PageSize)
	if err != nil {
		s.Logger.Error("Failed to list posts", zap.Int("page", page), zap.Error(err))
		return nil, apperr.Server("could not fetch posts", err)
	}

	dtos := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, postPort.ToDTO(p))
	}
	return &PostList{Posts: dtos, TotalItems: total}, nil
}

func (s *FeedService) CreatePost(ctx context.Context, callerID string, in CreatePostInput) (*postPort.PostDTO, error) {
	creatorID, err := identify(callerID)
	if err != nil {
		return nil, err
	}
	title, content, err := validateText(in.Title, in.Content)
	if err != nil {
		return nil, err
	}
	if in.Image == nil {
		return nil, apperr.Validation("image", "no image provided")
	}

	imageURL, err := s.ImageStore.Save(ctx, in.Image)
	if err != nil {
		if errors.Is(err, imagePort.ErrUnsupportedType) {
			return nil, apperr.Validation("image", "no image provided")
		}
		s.Logger.Error("Failed to store image", zap.String("userID", callerID), zap.Error(err))
		return nil, apperr.Server("could not store image", err)
	}

	p := &postEntity.Post{
		ID:        uuid.Must(uuid.NewV4()),
		Title:     title,
		Content:   content,
		ImageURL:  imageURL,
		CreatorID: creatorID,
	}
	created, err := s.PostRepository.Create(ctx, p)
	if err != nil {
		s.Logger.Error("Failed to create post", zap.String("userID", callerID), zap.Error(err))
		s.ImageStore.Delete(ctx, imageURL)
		return nil, apperr.Server("could not create post", err)
	}

	// second write: the post stays even if the back-reference cannot be added
	if err := s.UserRepository.AddPostRef(ctx, callerID, created.ID.String()); err != nil {
		s.Logger.Error("Post created but creator back-reference not updated",
			zap.String("postID", created.ID.String()), zap.String("userID", callerID), zap.Error(err))
		return nil, &apperr.ServerError{
			Message: "post created but could not be linked to its creator",
			Data:    map[string]string{"postId": created.ID.String()},
			Err:     err,
		}
	}

	s.Logger.Info("Post created", zap.String("postID", created.ID.String()), zap.String("userID", callerID))
	return postPort.ToDTO(created), nil
}

func (s *FeedService) GetPost(ctx context.Context, callerID, postID string) (*postPort.PostDTO, error) {
	if _, err := identify(callerID); err != nil {
		return nil, err
	}
	p, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return postPort.ToDTO(p), nil
}

func (s *FeedService) UpdatePost(ctx context.Context, callerID, postID string, in UpdatePostInput) (*postPort.PostDTO, error) {
	if _, err := identify(callerID); err != nil {
		return nil, err
	}
	title, content, err := validateText(in.Title, in.Content)
	if err != nil {
		return nil, err
	}

	p, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(callerID) {
		s.Logger.Warn("Rejected update by non-owner", zap.String("postID", postID), zap.String("userID", callerID))
		return nil, apperr.ErrForbidden
	}

	// a referenced path may only keep the current image, never adopt another one
	imageURL := ""
	if ref := strings.TrimSpace(in.ImageURL); ref != "" && ref == p.ImageURL {
		imageURL = ref
	}
	uploaded := ""
	if in.Image != nil {
		stored, err := s.ImageStore.Save(ctx, in.Image)
		switch {
		case err == nil:
			imageURL, uploaded = stored, stored
		case errors.Is(err, imagePort.ErrUnsupportedType):
			// falls back to keeping the current image, if referenced
		default:
			s.Logger.Error("Failed to store image", zap.String("postID", postID), zap.Error(err))
			return nil, apperr.Server("could not store image", err)
		}
	}
	if imageURL == "" {
		return nil, apperr.Validation("image", "no file picked")
	}

	if imageURL != p.ImageURL {
		s.ImageStore.Delete(ctx, p.ImageURL)
	}

	p.Title = title
	p.Content = content
	p.ImageURL = imageURL
	updated, err := s.PostRepository.Update(ctx, p)
	if err != nil {
		s.Logger.Error("Failed to update post", zap.String("postID", postID), zap.Error(err))
		if uploaded != "" {
			s.ImageStore.Delete(ctx, uploaded)
		}
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, apperr.Server("could not update post", err)
	}

	s.Logger.Info("Post updated", zap.String("postID", postID), zap.String("userID", callerID))
	return postPort.ToDTO(updated), nil
}

// DeletePost removes the image, then the post, then the creator's
// back-reference. The post stays deleted if the last step fails.
func (s *FeedService) DeletePost(ctx context.Context, callerID, postID string) error {
	if _, err := identify(callerID); err != nil {
		return err
	}
	p, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}
	if !p.OwnedBy(callerID) {
		s.Logger.Warn("Rejected delete by non-owner", zap.String("postID", postID), zap.String("userID", callerID))
		return apperr.ErrForbidden
	}

	s.ImageStore.Delete(ctx, p.ImageURL)

	if err := s.PostRepository.DeleteByID(ctx, postID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		s.Logger.Error("Failed to delete post", zap.String("postID", postID), zap.Error(err))
		return apperr.Server("could not delete post", err)
	}

	if err := s.UserRepository.RemovePostRef(ctx, p.CreatorID.String(), postID); err != nil {
		s.Logger.Error("Post deleted but creator back-reference not updated",
			zap.String("postID", postID), zap.String("userID", callerID), zap.Error(err))
		return &apperr.ServerError{
			Message: "post deleted but could not be unlinked from its creator",
			Data:    map[string]string{"postId": postID},
			Err:     err,
		}
	}

	s.Logger.Info("Post deleted", zap.String("postID", postID), zap.String("userID", callerID))
	return nil
}

func (s *FeedService) findPost(ctx context.Context, postID string) (*postEntity.Post, error) {
	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		s.Logger.Error("Failed to fetch post", zap.String("postID", postID), zap.Error(err))
		return nil, apperr.Server("could not fetch post", err)
	}
	return p, nil
}

func identify(callerID string) (uuid.UUID, error) {
	if callerID == "" {
		return uuid.Nil, apperr.Missing()
	}
	id, err := uuid.FromString(callerID)
	if err != nil {
		return uuid.Nil, apperr.Invalid(err)
	}
	return id, nil
}

func validateText(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(title) < minTextLength {
		return "", "", apperr.Validation("title", "must be at least 5 characters")
	}
	if utf8.RuneCountInString(content) < minTextLength {
		return "", "", apperr.Validation("content", "must be at least 5 characters")
	}
	return title, content, nil
}

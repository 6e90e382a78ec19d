package feedapp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/eunmi228/PostApp/internal/adapters/memory"
	"github.com/eunmi228/PostApp/internal/core/apperr"
	postEntity "github.com/eunmi228/PostApp/internal/core/post"
	userEntity "github.com/eunmi228/PostApp/internal/core/user"
	imagePort "github.com/eunmi228/PostApp/internal/ports/image"
	"github.com/eunmi228/PostApp/internal/ports/image/mocks"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"
)

type fixture struct {
	svc    *FeedService
	posts  *memory.PostRepositoryMemory
	users  *memory.UserRepositoryMemory
	images *mocks.MockImageStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		posts:  memory.NewPostRepositoryMemory(),
		users:  memory.NewUserRepositoryMemory(),
		images: mocks.NewMockImageStore(ctrl),
	}
	f.svc = NewFeedService(f.posts, f.users, f.images, 2, zaptest.NewLogger(t))
	return f
}

func (f *fixture) user(t *testing.T, email string) string {
	t.Helper()
	u, err := f.users.Create(context.Background(), &userEntity.User{
		Name:   "tester",
		Email:  email,
		Status: userEntity.DefaultStatus,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID.String()
}

// post creates a post owned by callerID whose image is stored at imagePath.
func (f *fixture) post(t *testing.T, callerID, imagePath string) string {
	t.Helper()
	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return(imagePath, nil)
	p, err := f.svc.CreatePost(context.Background(), callerID, CreatePostInput{
		Title:   "Hello world",
		Content: "Some content here",
		Image:   jpeg(),
	})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return p.ID
}

func jpeg() *imagePort.Upload {
	return &imagePort.Upload{Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}, OriginalName: "valid.jpg", MimeType: "image/jpeg"}
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error on %q, got %v", field, err)
	}
	if ve.Field != field {
		t.Fatalf("expected validation error on %q, got field %q", field, ve.Field)
	}
}

func assertServerError(t *testing.T, err error) *apperr.ServerError {
	t.Helper()
	var se *apperr.ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected server error, got %v", err)
	}
	return se
}

func TestCreatePost_ThenGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")

	id := f.post(t, alice, "images/valid.jpg")

	got, err := f.svc.GetPost(ctx, alice, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Hello world" || got.Content != "Some content here" {
		t.Errorf("unexpected post %+v", got)
	}
	if got.ImageURL == "" {
		t.Error("expected imageUrl to be set")
	}
	if got.CreatorID != alice {
		t.Errorf("expected creator %s, got %s", alice, got.CreatorID)
	}

	u, err := f.users.FindByID(ctx, alice)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	ids := u.PostIDs()
	if len(ids) != 1 || ids[0] != id {
		t.Errorf("expected posts set [%s], got %v", id, ids)
	}
}

func TestCreatePost_TrimsText(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("images/a.jpg", nil)

	p, err := f.svc.CreatePost(context.Background(), alice, CreatePostInput{
		Title:   "  Hello world  ",
		Content: "\tSome content here\n",
		Image:   jpeg(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Title != "Hello world" || p.Content != "Some content here" {
		t.Errorf("expected trimmed text, got %q / %q", p.Title, p.Content)
	}
}

func TestFeedService_RequiresIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		caller string
		reason apperr.AuthReason
	}{
		{"", apperr.AuthMissing},
		{"not-a-user-id", apperr.AuthInvalid},
	}
	for _, tc := range cases {
		calls := map[string]error{}
		_, calls["list"] = f.svc.ListPosts(ctx, tc.caller, 1)
		_, calls["create"] = f.svc.CreatePost(ctx, tc.caller, CreatePostInput{Title: "Hello world", Content: "Some content", Image: jpeg()})
		_, calls["get"] = f.svc.GetPost(ctx, tc.caller, "x")
		_, calls["update"] = f.svc.UpdatePost(ctx, tc.caller, "x", UpdatePostInput{Title: "Hello world", Content: "Some content", ImageURL: "images/a.jpg"})
		calls["delete"] = f.svc.DeletePost(ctx, tc.caller, "x")

		for name, err := range calls {
			var ae *apperr.AuthError
			if !errors.As(err, &ae) {
				t.Fatalf("%s with caller %q: expected auth error, got %v", name, tc.caller, err)
			}
			if ae.Reason != tc.reason {
				t.Errorf("%s with caller %q: expected reason %s, got %s", name, tc.caller, tc.reason, ae.Reason)
			}
		}
	}
}

func TestCreatePost_Validation(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")

	cases := []struct {
		name  string
		in    CreatePostInput
		field string
	}{
		{"short title", CreatePostInput{Title: "Hi", Content: "Some content", Image: jpeg()}, "title"},
		{"title padded with spaces", CreatePostInput{Title: "   abc   ", Content: "Some content", Image: jpeg()}, "title"},
		{"short content", CreatePostInput{Title: "Hello world", Content: "abcd", Image: jpeg()}, "content"},
		{"no image", CreatePostInput{Title: "Hello world", Content: "Some content"}, "image"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreatePost(context.Background(), alice, tc.in)
			assertValidation(t, err, tc.field)
		})
	}

	_, total, _ := f.posts.FindPage(context.Background(), 1, 10)
	if total != 0 {
		t.Errorf("expected no posts stored, got %d", total)
	}
}

func TestCreatePost_UnsupportedImage(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("", imagePort.ErrUnsupportedType)

	_, err := f.svc.CreatePost(context.Background(), alice, CreatePostInput{
		Title:   "Hello world",
		Content: "Some content",
		Image:   &imagePort.Upload{Data: []byte("GIF89a"), OriginalName: "a.gif", MimeType: "image/gif"},
	})
	assertValidation(t, err, "image")
}

func TestCreatePost_PostStoreFailureRemovesImage(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	f.posts.ShouldFail = true

	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("images/orphan.jpg", nil)
	f.images.EXPECT().Delete(gomock.Any(), "images/orphan.jpg").Times(1)

	_, err := f.svc.CreatePost(context.Background(), alice, CreatePostInput{
		Title: "Hello world", Content: "Some content", Image: jpeg(),
	})
	assertServerError(t, err)
}

func TestCreatePost_BackReferenceFailureKeepsPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	f.users.FailAddPostRef = true
	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("images/a.jpg", nil)

	_, err := f.svc.CreatePost(ctx, alice, CreatePostInput{
		Title: "Hello world", Content: "Some content", Image: jpeg(),
	})
	se := assertServerError(t, err)

	data, ok := se.Data.(map[string]string)
	if !ok || data["postId"] == "" {
		t.Fatalf("expected postId in error data, got %#v", se.Data)
	}
	if _, err := f.posts.FindByID(ctx, data["postId"]); err != nil {
		t.Errorf("expected post to survive, got %v", err)
	}
	u, _ := f.users.FindByID(ctx, alice)
	if len(u.Posts) != 0 {
		t.Errorf("expected empty posts set, got %v", u.PostIDs())
	}
}

func TestGetPost_NotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")

	for _, id := range []string{"00000000-0000-0000-0000-000000000001", "garbage"} {
		_, err := f.svc.GetPost(context.Background(), alice, id)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("id %q: expected not found, got %v", id, err)
		}
	}
}

func TestGetPost_StoreFailure(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	f.posts.ShouldFail = true

	_, err := f.svc.GetPost(context.Background(), alice, "00000000-0000-0000-0000-000000000001")
	assertServerError(t, err)
}

func TestListPosts_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")

	for i := 0; i < 5; i++ {
		owner := alice
		if i%2 == 1 {
			owner = bob
		}
		f.post(t, owner, fmt.Sprintf("images/%d.jpg", i))
	}

	cases := []struct {
		page int
		want int
	}{
		{1, 2},
		{2, 2},
		{3, 1},
		{4, 0},
		{0, 2},
		{-3, 2},
	}
	for _, tc := range cases {
		res, err := f.svc.ListPosts(ctx, bob, tc.page)
		if err != nil {
			t.Fatalf("page %d: %v", tc.page, err)
		}
		if len(res.Posts) != tc.want {
			t.Errorf("page %d: expected %d posts, got %d", tc.page, tc.want, len(res.Posts))
		}
		if res.TotalItems != 5 {
			t.Errorf("page %d: expected total 5, got %d", tc.page, res.TotalItems)
		}
	}
}

func TestListPosts_StoreFailure(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	f.posts.ShouldFail = true

	_, err := f.svc.ListPosts(context.Background(), alice, 1)
	assertServerError(t, err)
}

func TestUpdatePost_ForbiddenForNonOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	id := f.post(t, alice, "images/a.jpg")
	before, _ := f.posts.FindByID(ctx, id)

	_, err := f.svc.UpdatePost(ctx, bob, id, UpdatePostInput{
		Title: "Taken over", Content: "Replaced content", Image: jpeg(),
	})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	after, _ := f.posts.FindByID(ctx, id)
	if *after != *before {
		t.Errorf("post changed: before %+v after %+v", before, after)
	}
}

func TestUpdatePost_UnchangedImageIsKept(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	id := f.post(t, alice, "images/a.jpg")
	f.images.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	p, err := f.svc.UpdatePost(context.Background(), alice, id, UpdatePostInput{
		Title: "New title", Content: "New content", ImageURL: "images/a.jpg",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Title != "New title" || p.Content != "New content" || p.ImageURL != "images/a.jpg" {
		t.Errorf("unexpected post %+v", p)
	}
}

func TestUpdatePost_NewImageDeletesOld(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	id := f.post(t, alice, "images/old.jpg")

	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("images/new.png", nil)
	f.images.EXPECT().Delete(gomock.Any(), "images/old.jpg").Times(1)

	p, err := f.svc.UpdatePost(context.Background(), alice, id, UpdatePostInput{
		Title: "Hello world", Content: "Some content here", ImageURL: "images/old.jpg", Image: jpeg(),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.ImageURL != "images/new.png" {
		t.Errorf("expected new image, got %s", p.ImageURL)
	}
}

func TestUpdatePost_RejectedUploadFallsBackToReference(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	id := f.post(t, alice, "images/a.jpg")

	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("", imagePort.ErrUnsupportedType)
	f.images.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	p, err := f.svc.UpdatePost(context.Background(), alice, id, UpdatePostInput{
		Title: "Hello world", Content: "Some content", ImageURL: "images/a.jpg",
		Image: &imagePort.Upload{Data: []byte("%PDF"), OriginalName: "doc.pdf", MimeType: "application/pdf"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.ImageURL != "images/a.jpg" {
		t.Errorf("expected image to stay, got %s", p.ImageURL)
	}
}

func TestUpdatePost_ForeignImageReferenceRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	aliceID := f.post(t, alice, "images/alice.jpg")
	bobID := f.post(t, bob, "images/bob.jpg")

	f.images.EXPECT().Delete(gomock.Any(), "images/alice.jpg").Times(0)
	f.images.EXPECT().Delete(gomock.Any(), "images/bob.jpg").Times(1)
	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("", imagePort.ErrUnsupportedType)

	_, err := f.svc.UpdatePost(ctx, bob, bobID, UpdatePostInput{
		Title: "Hello world", Content: "Some content", ImageURL: "images/alice.jpg",
	})
	assertValidation(t, err, "image")

	_, err = f.svc.UpdatePost(ctx, bob, bobID, UpdatePostInput{
		Title: "Hello world", Content: "Some content", ImageURL: "images/alice.jpg",
		Image: &imagePort.Upload{Data: []byte("GIF89a"), OriginalName: "a.gif", MimeType: "image/gif"},
	})
	assertValidation(t, err, "image")

	stored, _ := f.posts.FindByID(ctx, bobID)
	if stored.ImageURL != "images/bob.jpg" {
		t.Fatalf("expected bob's post to keep its image, got %s", stored.ImageURL)
	}
	if err := f.svc.DeletePost(ctx, bob, bobID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := f.svc.GetPost(ctx, alice, aliceID)
	if err != nil || got.ImageURL != "images/alice.jpg" {
		t.Errorf("alice's post changed: %+v, %v", got, err)
	}
}

func TestUpdatePost_WriteFailureRemovesNewUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	id := f.post(t, alice, "images/old.jpg")
	f.posts.FailUpdate = true

	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("images/new.png", nil)
	f.images.EXPECT().Delete(gomock.Any(), "images/old.jpg").Times(1)
	f.images.EXPECT().Delete(gomock.Any(), "images/new.png").Times(1)

	_, err := f.svc.UpdatePost(ctx, alice, id, UpdatePostInput{
		Title: "Hello world", Content: "Some content", Image: jpeg(),
	})
	assertServerError(t, err)
}

// vanishingPosts deletes the post right before writing it, as a concurrent
// delete by the owner would.
type vanishingPosts struct {
	*memory.PostRepositoryMemory
}

func (r vanishingPosts) Update(ctx context.Context, p *postEntity.Post) (*postEntity.Post, error) {
	if err := r.PostRepositoryMemory.DeleteByID(ctx, p.ID.String()); err != nil {
		return nil, err
	}
	return r.PostRepositoryMemory.Update(ctx, p)
}

func TestUpdatePost_DeletedDuringUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	id := f.post(t, alice, "images/old.jpg")
	svc := NewFeedService(vanishingPosts{f.posts}, f.users, f.images, 2, zaptest.NewLogger(t))

	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("images/new.png", nil)
	f.images.EXPECT().Delete(gomock.Any(), "images/old.jpg").Times(1)
	f.images.EXPECT().Delete(gomock.Any(), "images/new.png").Times(1)

	_, err := svc.UpdatePost(ctx, alice, id, UpdatePostInput{
		Title: "Hello world", Content: "Some content", Image: jpeg(),
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	var se *apperr.ServerError
	if errors.As(err, &se) {
		t.Errorf("not found must not be reported as a server error: %v", err)
	}
}

func TestUpdatePost_NoImage(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	id := f.post(t, alice, "images/a.jpg")

	_, err := f.svc.UpdatePost(context.Background(), alice, id, UpdatePostInput{
		Title: "Hello world", Content: "Some content",
	})
	assertValidation(t, err, "image")
}

func TestUpdatePost_NotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")

	_, err := f.svc.UpdatePost(context.Background(), alice, "00000000-0000-0000-0000-000000000001", UpdatePostInput{
		Title: "Hello world", Content: "Some content", ImageURL: "images/a.jpg",
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeletePost_ForbiddenForNonOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	id := f.post(t, alice, "images/a.jpg")
	f.images.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	if err := f.svc.DeletePost(ctx, bob, id); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.posts.FindByID(ctx, id); err != nil {
		t.Errorf("expected post to remain, got %v", err)
	}
}

func TestDeletePost_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")

	id := f.post(t, alice, "images/valid.jpg")
	got, err := f.svc.GetPost(ctx, bob, id)
	if err != nil || got.Title != "Hello world" || got.CreatorID != alice {
		t.Fatalf("get by other user: %+v, %v", got, err)
	}

	if err := f.svc.DeletePost(ctx, bob, id); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for bob, got %v", err)
	}

	f.images.EXPECT().Delete(gomock.Any(), "images/valid.jpg").Times(1)
	if err := f.svc.DeletePost(ctx, alice, id); err != nil {
		t.Fatalf("delete by owner: %v", err)
	}
	if _, err := f.svc.GetPost(ctx, alice, id); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	u, _ := f.users.FindByID(ctx, alice)
	if len(u.Posts) != 0 {
		t.Errorf("expected empty posts set, got %v", u.PostIDs())
	}
}

func TestDeletePost_BackReferenceFailureStillDeletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	id := f.post(t, alice, "images/a.jpg")
	f.users.FailRemovePostRef = true
	f.images.EXPECT().Delete(gomock.Any(), "images/a.jpg")

	assertServerError(t, f.svc.DeletePost(ctx, alice, id))
	if _, err := f.posts.FindByID(ctx, id); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected post to be gone, got %v", err)
	}
}

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

const longContent = "This content is comfortably longer than the fifty character minimum the store enforces."

// newTestStore returns a Memory store with a deterministic clock that
// advances one second per call.
func newTestStore() *Memory {
	s := NewMemory()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func validPost(title string) NewPost {
	return NewPost{
		Title:   title,
		Content: longContent,
		Author:  "alice",
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	s := newTestStore()

	post, err := s.Create(context.Background(), validPost("My first post"))
	assert.NilError(t, err)

	assert.Equal(t, post.Category, DefaultCategory)
	assert.Equal(t, len(post.Tags), 0)
	assert.Equal(t, len(post.Likes), 0)
	assert.Equal(t, len(post.Comments), 0)
	assert.Assert(t, post.UpdatedAt.Equal(post.CreatedAt))
	assert.Assert(t, !post.ID.IsZero())
}

func TestCreateRejectsShortTitle(t *testing.T) {
	s := newTestStore()

	p := validPost("abc")
	_, err := s.Create(context.Background(), p)

	var ve *ValidationError
	assert.Assert(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
}

func TestCreateRejectsShortContent(t *testing.T) {
	s := newTestStore()

	p := validPost("A valid title")
	p.Content = "too short"
	_, err := s.Create(context.Background(), p)

	var ve *ValidationError
	assert.Assert(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
}

func TestCreateRejectsDuplicateTitle(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.Create(ctx, validPost("Shared title"))
	assert.NilError(t, err)

	_, err = s.Create(ctx, validPost("Shared title"))
	var ve *ValidationError
	assert.Assert(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
}

func TestListReturnsInsertionOrder(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	titles := []string{"First post", "Second post", "Third post"}
	for _, title := range titles {
		_, err := s.Create(ctx, validPost(title))
		assert.NilError(t, err)
	}

	posts, err := s.List(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(posts), len(titles))
	for i, title := range titles {
		assert.Equal(t, posts[i].Title, title)
	}
}

func TestGetByIDUnknown(t *testing.T) {
	s := newTestStore()

	_, err := s.GetByID(context.Background(), "64f000000000000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	post, err := s.Create(ctx, validPost("Original title"))
	assert.NilError(t, err)

	newTitle := "Updated title"
	updated, err := s.Update(ctx, post.ID.Hex(), PostUpdate{Title: &newTitle})
	assert.NilError(t, err)

	assert.Equal(t, updated.Title, newTitle)
	assert.Equal(t, updated.Content, post.Content)
	assert.Equal(t, updated.Author, post.Author)
	assert.Assert(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestUpdateRejectsShortContent(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	post, err := s.Create(ctx, validPost("Some post title"))
	assert.NilError(t, err)

	short := "nope"
	_, err = s.Update(ctx, post.ID.Hex(), PostUpdate{Content: &short})

	var ve *ValidationError
	assert.Assert(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
}

func TestUpdateRejectsDuplicateTitle(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.Create(ctx, validPost("Taken title"))
	assert.NilError(t, err)

	post, err := s.Create(ctx, validPost("Other title"))
	assert.NilError(t, err)

	taken := "Taken title"
	_, err = s.Update(ctx, post.ID.Hex(), PostUpdate{Title: &taken})

	var ve *ValidationError
	assert.Assert(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
}

func TestUpdateKeepingOwnTitle(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	post, err := s.Create(ctx, validPost("Stable title"))
	assert.NilError(t, err)

	// Re-submitting the current title must not trip the uniqueness check
	same := "Stable title"
	_, err = s.Update(ctx, post.ID.Hex(), PostUpdate{Title: &same})
	assert.NilError(t, err)
}

func TestUpdateUnknownPost(t *testing.T) {
	s := newTestStore()

	title := "Whatever title"
	_, err := s.Update(context.Background(), "64f000000000000000000000", PostUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteThenGet(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	post, err := s.Create(ctx, validPost("Doomed post"))
	assert.NilError(t, err)

	assert.NilError(t, s.Delete(ctx, post.ID.Hex()))

	_, err = s.GetByID(ctx, post.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	posts, err := s.List(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(posts), 0)
}

func TestDeleteUnknownPost(t *testing.T) {
	s := newTestStore()

	err := s.Delete(context.Background(), "64f000000000000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddCommentAppendsAndTouchesUpdatedAt(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	post, err := s.Create(ctx, validPost("Commented post"))
	assert.NilError(t, err)

	_, err = s.AddComment(ctx, post.ID.Hex(), "bob", "first!")
	assert.NilError(t, err)

	updated, err := s.AddComment(ctx, post.ID.Hex(), "carol", "second")
	assert.NilError(t, err)

	assert.Equal(t, len(updated.Comments), 2)
	assert.Equal(t, updated.Comments[0].Username, "bob")
	assert.Equal(t, updated.Comments[1].Username, "carol")
	assert.Assert(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestLikeIsIdempotent(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	post, err := s.Create(ctx, validPost("Popular post"))
	assert.NilError(t, err)

	_, err = s.Like(ctx, post.ID.Hex(), "bob")
	assert.NilError(t, err)

	updated, err := s.Like(ctx, post.ID.Hex(), "bob")
	assert.NilError(t, err)

	assert.Equal(t, len(updated.Likes), 1)
	assert.Equal(t, updated.Likes[0], "bob")
}

func TestUnlikeAbsentUsernameIsNoop(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	post, err := s.Create(ctx, validPost("Unliked post"))
	assert.NilError(t, err)

	updated, err := s.Unlike(ctx, post.ID.Hex(), "nobody")
	assert.NilError(t, err)
	assert.Equal(t, len(updated.Likes), 0)
}

func TestUnlikeRemovesUsername(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	post, err := s.Create(ctx, validPost("Fickle crowd"))
	assert.NilError(t, err)

	_, err = s.Like(ctx, post.ID.Hex(), "bob")
	assert.NilError(t, err)
	_, err = s.Like(ctx, post.ID.Hex(), "carol")
	assert.NilError(t, err)

	updated, err := s.Unlike(ctx, post.ID.Hex(), "bob")
	assert.NilError(t, err)
	assert.Equal(t, len(updated.Likes), 1)
	assert.Equal(t, updated.Likes[0], "carol")
}

func TestStoredPostIsIsolatedFromCallers(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	post, err := s.Create(ctx, validPost("Isolated post"))
	assert.NilError(t, err)

	post.Likes = append(post.Likes, "mallory")

	fresh, err := s.GetByID(ctx, post.ID.Hex())
	assert.NilError(t, err)
	assert.Equal(t, len(fresh.Likes), 0)
}

package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"blogapi/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory implements PostStore with an in-process map. It backs STORAGE=memory
// for local development and the handler tests; nothing survives a restart.
type Memory struct {
	mu    sync.RWMutex
	posts map[string]models.Post
	order []string // ids in insertion order, for List
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		posts: make(map[string]models.Post),
		now:   utcNow,
	}
}

func (s *Memory) Create(_ context.Context, p NewPost) (*models.Post, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.titleTaken(p.Title, "") {
		return nil, invalidf("a post titled %q already exists", p.Title)
	}

	now := s.now()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		Tags:      p.Tags,
		Category:  p.Category,
		Likes:     []string{},
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Category == "" {
		post.Category = DefaultCategory
	}

	id := post.ID.Hex()
	s.posts[id] = post
	s.order = append(s.order, id)

	return clone(post), nil
}

func (s *Memory) List(_ context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.order))
	for _, id := range s.order {
		posts = append(posts, *clone(s.posts[id]))
	}
	return posts, nil
}

func (s *Memory) GetByID(_ context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(post), nil
}

func (s *Memory) Update(_ context.Context, id string, upd PostUpdate) (*models.Post, error) {
	if err := upd.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}

	if upd.Title != nil {
		if s.titleTaken(*upd.Title, id) {
			return nil, invalidf("a post titled %q already exists", *upd.Title)
		}
		post.Title = *upd.Title
	}
	if upd.Content != nil {
		post.Content = *upd.Content
	}
	if upd.Author != nil {
		post.Author = *upd.Author
	}
	if upd.Tags != nil {
		post.Tags = *upd.Tags
		if post.Tags == nil {
			post.Tags = []string{}
		}
	}
	if upd.Category != nil {
		post.Category = *upd.Category
		if post.Category == "" {
			post.Category = DefaultCategory
		}
	}
	post.UpdatedAt = s.now()

	s.posts[id] = post
	return clone(post), nil
}

func (s *Memory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

func (s *Memory) AddComment(_ context.Context, id, username, message string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}

	now := s.now()
	post.Comments = append(post.Comments, models.Comment{
		Username:    username,
		Message:     message,
		CommentedAt: now,
	})
	post.UpdatedAt = now

	s.posts[id] = post
	return clone(post), nil
}

func (s *Memory) Like(_ context.Context, id, username string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}

	if !slices.Contains(post.Likes, username) {
		post.Likes = append(post.Likes, username)
	}
	post.UpdatedAt = s.now()

	s.posts[id] = post
	return clone(post), nil
}

func (s *Memory) Unlike(_ context.Context, id, username string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}

	post.Likes = slices.DeleteFunc(post.Likes, func(v string) bool { return v == username })
	post.UpdatedAt = s.now()

	s.posts[id] = post
	return clone(post), nil
}

// titleTaken reports whether another post already uses title. Callers must
// hold at least the read lock.
func (s *Memory) titleTaken(title, excludeID string) bool {
	for id, p := range s.posts {
		if id != excludeID && p.Title == title {
			return true
		}
	}
	return false
}

// clone copies the post so callers cannot mutate stored slices.
func clone(p models.Post) *models.Post {
	p.Tags = slices.Clone(p.Tags)
	p.Likes = slices.Clone(p.Likes)
	p.Comments = slices.Clone(p.Comments)
	return &p
}

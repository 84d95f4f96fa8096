package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogapi/models"
)

const (
	MinTitleLen   = 5
	MinContentLen = 50

	DefaultCategory = "General"
)

// ErrNotFound is returned when no post matches the given id.
var ErrNotFound = errors.New("post not found")

// ValidationError reports input that violates a post constraint.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalidf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NewPost carries the fields accepted when creating a post.
type NewPost struct {
	Title    string
	Content  string
	Author   string
	Tags     []string
	Category string
}

// PostUpdate holds partial fields for an update; nil fields are left unchanged.
type PostUpdate struct {
	Title    *string
	Content  *string
	Author   *string
	Tags     *[]string
	Category *string
}

// PostStore is the single persistence surface of the service. Each call is one
// atomic document operation against the underlying storage.
type PostStore interface {
	Create(ctx context.Context, p NewPost) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, id string, upd PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, id, username, message string) (*models.Post, error)
	Like(ctx context.Context, id, username string) (*models.Post, error)
	Unlike(ctx context.Context, id, username string) (*models.Post, error)
}

func validateTitle(title string) error {
	if len(strings.TrimSpace(title)) < MinTitleLen {
		return invalidf("title must be at least %d characters", MinTitleLen)
	}
	return nil
}

func validateContent(content string) error {
	if len(strings.TrimSpace(content)) < MinContentLen {
		return invalidf("content must be at least %d characters", MinContentLen)
	}
	return nil
}

func (p NewPost) validate() error {
	if err := validateTitle(p.Title); err != nil {
		return err
	}
	if err := validateContent(p.Content); err != nil {
		return err
	}
	if strings.TrimSpace(p.Author) == "" {
		return invalidf("author is required")
	}
	return nil
}

func (u PostUpdate) validate() error {
	if u.Title != nil {
		if err := validateTitle(*u.Title); err != nil {
			return err
		}
	}
	if u.Content != nil {
		if err := validateContent(*u.Content); err != nil {
			return err
		}
	}
	if u.Author != nil && strings.TrimSpace(*u.Author) == "" {
		return invalidf("author cannot be empty")
	}
	return nil
}

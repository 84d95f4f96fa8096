package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"blogapi/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const requestTimeout = 10 * time.Second

// PostHandler serves the /api/posts routes over an injected store.
type PostHandler struct {
	store store.PostStore
}

func NewPostHandler(s store.PostStore) *PostHandler {
	return &PostHandler{store: s}
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// respondError maps store errors onto the API status codes: ValidationError
// is a 400, ErrNotFound a 404, everything else a 500 with the raw message.
func respondError(c *gin.Context, err error) {
	var ve *store.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

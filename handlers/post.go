package handlers

import (
	"net/http"

	"blogapi/store"

	"github.com/gin-gonic/gin"
)

type CreatePostRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Author   string   `json:"author" binding:"required"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// UpdatePostRequest carries partial fields; absent fields stay unchanged.
type UpdatePostRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Author   *string   `json:"author"`
	Tags     *[]string `json:"tags"`
	Category *string   `json:"category"`
}

type CommentRequest struct {
	Username string `json:"username" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

type LikeRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.store.Create(ctx, store.NewPost{
		Title:    req.Title,
		Content:  req.Content,
		Author:   req.Author,
		Tags:     req.Tags,
		Category: req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	posts, err := h.store.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.store.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.store.Update(ctx, c.Param("id"), store.PostUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Author:   req.Author,
		Tags:     req.Tags,
		Category: req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	if err := h.store.Delete(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

func (h *PostHandler) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.store.AddComment(ctx, c.Param("id"), req.Username, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) LikePost(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.store.Like(ctx, c.Param("id"), req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) UnlikePost(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.store.Unlike(ctx, c.Param("id"), req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

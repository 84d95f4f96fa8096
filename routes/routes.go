package routes

import (
	"time"

	"blogapi/handlers"
	"blogapi/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(h *handlers.PostHandler) *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080", "http://127.0.0.1:8080", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RateLimit(middleware.NewIPRateLimiter(60, time.Minute)))

	api := router.Group("/api")

	api.POST("/posts", h.CreatePost)
	api.GET("/posts", h.ListPosts)
	api.GET("/posts/:id", h.GetPost)
	api.PUT("/posts/:id", h.UpdatePost)
	api.DELETE("/posts/:id", h.DeletePost)

	api.POST("/posts/:id/comments", h.AddComment)
	api.POST("/posts/:id/like", h.LikePost)
	api.POST("/posts/:id/unlike", h.UnlikePost)

	// Landing page
	router.StaticFile("/", "./static/index.html")

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}

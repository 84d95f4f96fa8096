package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogapi/config"
	"blogapi/database"
	"blogapi/handlers"
	"blogapi/routes"
	"blogapi/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg := config.Load()

	var posts store.PostStore
	if cfg.Storage == "memory" {
		log.Warn().Msg("using in-memory storage; data will not survive a restart")
		posts = store.NewMemory()
	} else {
		var (
			db  *mongo.Database
			err error
		)
		for attempt := 1; attempt <= 3; attempt++ {
			db, err = database.Connect(cfg.MongoURI, cfg.Database)
			if err == nil {
				break
			}
			log.Error().Err(err).Int("attempt", attempt).Msg("MongoDB connection failed")
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to MongoDB")
		}
		defer func() {
			if err := database.Disconnect(db); err != nil {
				log.Error().Err(err).Msg("disconnect failed")
			}
		}()

		if err := database.EnsureIndexes(db); err != nil {
			log.Fatal().Err(err).Msg("could not create indexes")
		}

		posts = store.NewMongo(db)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.SetupRouter(handlers.NewPostHandler(posts))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}

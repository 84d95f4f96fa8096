// Seeder fills a running server with fake posts, comments, and likes.
//
//	go run ./cmd/seeder -base-url http://localhost:8080 -posts 20
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog/log"
)

var (
	baseURL = flag.String("base-url", "http://localhost:8080", "server base URL")
	count   = flag.Int("posts", 10, "number of posts to create")
)

var categories = []string{"General", "Engineering", "Travel", "Food", "Music"}

type createdPost struct {
	ID string `json:"id"`
}

func main() {
	flag.Parse()
	gofakeit.Seed(time.Now().UnixNano())

	for i := 0; i < *count; i++ {
		id := createPost()
		if id == "" {
			continue
		}

		for j := 0; j < gofakeit.Number(0, 3); j++ {
			addComment(id)
		}
		for j := 0; j < gofakeit.Number(0, 5); j++ {
			likePost(id)
		}
	}

	log.Info().Int("posts", *count).Msg("seeding finished")
}

func createPost() string {
	payload := map[string]any{
		"title":    gofakeit.Sentence(gofakeit.Number(3, 6)),
		"content":  gofakeit.Paragraph(2, 4, 12, " "),
		"author":   gofakeit.Username(),
		"tags":     []string{gofakeit.HipsterWord(), gofakeit.HipsterWord()},
		"category": categories[gofakeit.Number(0, len(categories)-1)],
	}

	resp, err := post("/api/posts", payload)
	if err != nil {
		log.Error().Err(err).Msg("create post request failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		// Usually a duplicate fake title; skip and move on
		log.Warn().Int("status", resp.StatusCode).Msg("create post rejected")
		return ""
	}

	var created createdPost
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		log.Error().Err(err).Msg("could not decode create response")
		return ""
	}

	log.Info().Str("id", created.ID).Msg("created post")
	return created.ID
}

func addComment(id string) {
	payload := map[string]string{
		"username": gofakeit.Username(),
		"message":  gofakeit.HipsterSentence(gofakeit.Number(5, 12)),
	}

	resp, err := post(fmt.Sprintf("/api/posts/%s/comments", id), payload)
	if err != nil {
		log.Error().Err(err).Msg("comment request failed")
		return
	}
	resp.Body.Close()
}

func likePost(id string) {
	payload := map[string]string{"username": gofakeit.Username()}

	resp, err := post(fmt.Sprintf("/api/posts/%s/like", id), payload)
	if err != nil {
		log.Error().Err(err).Msg("like request failed")
		return
	}
	resp.Body.Close()
}

func post(path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return http.Post(*baseURL+path, "application/json", bytes.NewReader(body))
}

package store

import (
	"context"
	"errors"
	"time"

	"blogapi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements PostStore on a MongoDB collection. Concurrent updates to
// the same post are last-write-wins, as provided by the server.
type Mongo struct {
	posts *mongo.Collection
	now   func() time.Time
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		posts: db.Collection("posts"),
		now:   utcNow,
	}
}

// utcNow truncates to milliseconds, the precision of a BSON datetime, so that
// timestamps survive a round trip through the database unchanged.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (s *Mongo) Create(ctx context.Context, p NewPost) (*models.Post, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	count, err := s.posts.CountDocuments(ctx, bson.M{"title": p.Title})
	if err != nil {
		return nil, err
	}
	if count > 0 {
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

	if _, err := s.posts.InsertOne(ctx, post); err != nil {
		// The unique title index catches the race the pre-check misses.
		if mongo.IsDuplicateKeyError(err) {
			return nil, invalidf("a post titled %q already exists", p.Title)
		}
		return nil, err
	}
	return &post, nil
}

func (s *Mongo) List(ctx context.Context) ([]models.Post, error) {
	cursor, err := s.posts.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Mongo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never name a document.
		return nil, ErrNotFound
	}

	var post models.Post
	err = s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Mongo) Update(ctx context.Context, id string, upd PostUpdate) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if err := upd.validate(); err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": s.now()}
	if upd.Title != nil {
		count, err := s.posts.CountDocuments(ctx, bson.M{
			"title": *upd.Title,
			"_id":   bson.M{"$ne": oid},
		})
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, invalidf("a post titled %q already exists", *upd.Title)
		}
		set["title"] = *upd.Title
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Author != nil {
		set["author"] = *upd.Author
	}
	if upd.Tags != nil {
		tags := *upd.Tags
		if tags == nil {
			tags = []string{}
		}
		set["tags"] = tags
	}
	if upd.Category != nil {
		category := *upd.Category
		if category == "" {
			category = DefaultCategory
		}
		set["category"] = category
	}

	return s.findOneAndUpdate(ctx, oid, bson.M{"$set": set})
}

func (s *Mongo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Mongo) AddComment(ctx context.Context, id, username, message string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	comment := models.Comment{
		Username:    username,
		Message:     message,
		CommentedAt: s.now(),
	}
	return s.findOneAndUpdate(ctx, oid, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": s.now()},
	})
}

func (s *Mongo) Like(ctx context.Context, id, username string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	// $addToSet makes repeat likes a no-op on the array.
	return s.findOneAndUpdate(ctx, oid, bson.M{
		"$addToSet": bson.M{"likes": username},
		"$set":      bson.M{"updatedAt": s.now()},
	})
}

func (s *Mongo) Unlike(ctx context.Context, id, username string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	return s.findOneAndUpdate(ctx, oid, bson.M{
		"$pull": bson.M{"likes": username},
		"$set":  bson.M{"updatedAt": s.now()},
	})
}

// findOneAndUpdate applies update to the post and returns the new document.
func (s *Mongo) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := s.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, invalidf("a post with that title already exists")
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

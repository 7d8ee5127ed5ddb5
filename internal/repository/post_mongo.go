package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bloghub/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type mongoPostRepo struct {
	col *mongo.Collection
}

func NewMongoPostRepo(db *mongo.Database) PostRepository {
	return &mongoPostRepo{col: db.Collection("posts")}
}

// Mongo keeps millisecond precision; truncating keeps in-memory copies equal
// to what a later read returns.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *mongoPostRepo) Create(ctx context.Context, post *models.Post) error {
	prepareNew(post, mongoNow())
	if _, err := r.col.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *mongoPostRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &p, nil
}

// buildPostFilter turns a PostFilter into a posts query document.
func buildPostFilter(f PostFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if len(f.Tags) > 0 {
		filter["tags"] = bson.M{"$in": f.Tags}
	}
	if !f.AuthorID.IsZero() {
		filter["author"] = f.AuthorID
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		safe := regexp.QuoteMeta(s)
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": safe, "$options": "i"}},
			{"content": bson.M{"$regex": safe, "$options": "i"}},
		}
	}
	return filter
}

// buildPostSort returns the sort document; _id breaks ties so pages are stable.
func buildPostSort(s PostSort) bson.D {
	switch s {
	case SortOldest:
		return bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	case SortTitle:
		return bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}
	case SortTitleDesc:
		return bson.D{{Key: "title", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
}

func (r *mongoPostRepo) Find(ctx context.Context, f PostFilter, sort PostSort, skip, limit int64) ([]models.Post, int64, error) {
	filter := buildPostFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	findOpt := options.Find().
		SetSort(buildPostSort(sort)).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, filter, findOpt)
	if err != nil {
		return nil, 0, fmt.Errorf("find posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("decode posts: %w", err)
	}
	return posts, total, nil
}

func (r *mongoPostRepo) Save(ctx context.Context, post *models.Post) error {
	now := mongoNow()
	post.StampPublished(now)
	post.UpdatedAt = now

	set := bson.M{
		"title":        post.Title,
		"content":      post.Content,
		"status":       post.Status,
		"category":     post.Category,
		"tags":         post.Tags,
		"published_at": post.PublishedAt,
		"updated_at":   post.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if post.FeaturedImage == "" {
		update["$unset"] = bson.M{"featured_image": ""}
	} else {
		set["featured_image"] = post.FeaturedImage
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *mongoPostRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *mongoPostRepo) AddLike(ctx context.Context, id, userID bson.ObjectID) (*models.Post, error) {
	return r.updateLikes(ctx, id, bson.M{"$addToSet": bson.M{"likes": userID}})
}

func (r *mongoPostRepo) RemoveLike(ctx context.Context, id, userID bson.ObjectID) (*models.Post, error) {
	return r.updateLikes(ctx, id, bson.M{"$pull": bson.M{"likes": userID}})
}

// updateLikes applies a single-document likes update and returns the post
// as it is after the write.
func (r *mongoPostRepo) updateLikes(ctx context.Context, id bson.ObjectID, update bson.M) (*models.Post, error) {
	update["$set"] = bson.M{"updated_at": mongoNow()}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Post
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("update likes: %w", err)
	}
	return &p, nil
}

func (r *mongoPostRepo) StatsByAuthor(ctx context.Context, authorID bson.ObjectID) ([]models.StatusStat, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author": authorID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"total_likes": bson.M{"$sum": bson.M{
				"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}},
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := r.col.Aggregate(ctx, pipe)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	defer cur.Close(ctx)

	stats := []models.StatusStat{}
	if err := cur.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return stats, nil
}

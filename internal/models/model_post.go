package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"

	DefaultCategory = "Uncategorized"
)

// Post is a blog post as persisted. Like count is never stored; it is
// always len(Likes).
type Post struct {
	ID            bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title         string          `json:"title" bson:"title"`
	Content       string          `json:"content" bson:"content"`
	Author        bson.ObjectID   `json:"author" bson:"author"`
	Status        string          `json:"status" bson:"status"`
	Category      string          `json:"category" bson:"category"`
	Tags          []string        `json:"tags" bson:"tags"`
	FeaturedImage string          `json:"featuredImage,omitempty" bson:"featured_image,omitempty"`
	Likes         []bson.ObjectID `json:"likes" bson:"likes"`
	CreatedAt     time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" bson:"updated_at"`
	PublishedAt   *time.Time      `json:"publishedAt" bson:"published_at"`
}

// StampPublished sets PublishedAt the first time the post is seen
// published. It never clears it.
func (p *Post) StampPublished(now time.Time) {
	if p.Status == StatusPublished && p.PublishedAt == nil {
		t := now
		p.PublishedAt = &t
	}
}

func (p *Post) HasLike(userID bson.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// LikeIDs returns the likes set as hex strings.
func (p *Post) LikeIDs() []string {
	out := make([]string, 0, len(p.Likes))
	for _, id := range p.Likes {
		out = append(out, id.Hex())
	}
	return out
}

// StatusStat is one bucket of the per-author aggregate.
type StatusStat struct {
	Status     string `json:"status" bson:"_id"`
	Count      int64  `json:"count" bson:"count"`
	TotalLikes int64  `json:"totalLikes" bson:"total_likes"`
}

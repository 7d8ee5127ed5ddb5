package repository

import (
	"context"
	"errors"
	"time"

	"bloghub/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// PostFilter narrows a listing. Zero values mean "no constraint".
type PostFilter struct {
	Status   string
	Category string
	Tags     []string // any-of
	AuthorID bson.ObjectID
	Search   string // case-insensitive substring over title or content
}

type PostSort string

const (
	SortNewest    PostSort = "-createdAt"
	SortOldest    PostSort = "createdAt"
	SortTitle     PostSort = "title"
	SortTitleDesc PostSort = "-title"
)

// ParseSort maps a sortBy value onto a PostSort; empty means newest first.
func ParseSort(s string) (PostSort, bool) {
	switch PostSort(s) {
	case "":
		return SortNewest, true
	case SortNewest, SortOldest, SortTitle, SortTitleDesc:
		return PostSort(s), true
	}
	return "", false
}

// PostRepository owns the persisted posts. Create and Save apply the
// publishedAt rule; Save never touches author or likes.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error)
	Find(ctx context.Context, f PostFilter, sort PostSort, skip, limit int64) ([]models.Post, int64, error)
	Save(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id bson.ObjectID) error
	AddLike(ctx context.Context, id, userID bson.ObjectID) (*models.Post, error)
	RemoveLike(ctx context.Context, id, userID bson.ObjectID) (*models.Post, error)
	StatsByAuthor(ctx context.Context, authorID bson.ObjectID) ([]models.StatusStat, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.User, error)
}

// prepareNew fills the fields every store assigns on insert.
func prepareNew(p *models.Post, now time.Time) {
	if p.ID.IsZero() {
		p.ID = bson.NewObjectID()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Likes == nil {
		p.Likes = []bson.ObjectID{}
	}
	if p.Status == "" {
		p.Status = models.StatusDraft
	}
	if p.Category == "" {
		p.Category = models.DefaultCategory
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	p.StampPublished(now)
}

func uniqueIDs(ids []bson.ObjectID) []bson.ObjectID {
	seen := make(map[bson.ObjectID]struct{}, len(ids))
	out := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id.IsZero() {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package repository

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"bloghub/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryPostRepo is a process-local PostRepository for tests and
// STORE_DRIVER=memory. Every read and write copies the post.
type MemoryPostRepo struct {
	mu    sync.RWMutex
	posts map[bson.ObjectID]*models.Post
	Now   func() time.Time
}

func NewMemoryPostRepo() *MemoryPostRepo {
	return &MemoryPostRepo{
		posts: map[bson.ObjectID]*models.Post{},
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Tags = slices.Clone(p.Tags)
	c.Likes = slices.Clone(p.Likes)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.Likes == nil {
		c.Likes = []bson.ObjectID{}
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		c.PublishedAt = &t
	}
	return &c
}

func (r *MemoryPostRepo) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prepareNew(post, r.Now())
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *MemoryPostRepo) FindByID(_ context.Context, id bson.ObjectID) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return clonePost(p), nil
}

func matchPost(p *models.Post, f PostFilter) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, func(t string) bool { return slices.Contains(p.Tags, t) }) {
		return false
	}
	if !f.AuthorID.IsZero() && p.Author != f.AuthorID {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		if !strings.Contains(strings.ToLower(p.Title), s) && !strings.Contains(strings.ToLower(p.Content), s) {
			return false
		}
	}
	return true
}

func lessPost(s PostSort) func(a, b *models.Post) bool {
	byID := func(a, b *models.Post) bool { return a.ID.Hex() < b.ID.Hex() }
	switch s {
	case SortOldest:
		return func(a, b *models.Post) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return byID(a, b)
		}
	case SortTitle:
		return func(a, b *models.Post) bool {
			if a.Title != b.Title {
				return a.Title < b.Title
			}
			return byID(a, b)
		}
	case SortTitleDesc:
		return func(a, b *models.Post) bool {
			if a.Title != b.Title {
				return a.Title > b.Title
			}
			return byID(b, a)
		}
	default:
		return func(a, b *models.Post) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return byID(b, a)
		}
	}
}

func (r *MemoryPostRepo) Find(_ context.Context, f PostFilter, s PostSort, skip, limit int64) ([]models.Post, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.Post
	for _, p := range r.posts {
		if matchPost(p, f) {
			matched = append(matched, p)
		}
	}
	less := lessPost(s)
	sort.Slice(matched, func(i, j int) bool { return less(matched[i], matched[j]) })

	total := int64(len(matched))
	out := []models.Post{}
	if skip < 0 {
		return out, total, nil
	}
	for i := skip; i < total && (limit <= 0 || i-skip < limit); i++ {
		out = append(out, *clonePost(matched[i]))
	}
	return out, total, nil
}

func (r *MemoryPostRepo) Save(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.posts[post.ID]
	if !ok {
		return ErrPostNotFound
	}
	now := r.Now()
	post.StampPublished(now)
	post.UpdatedAt = now

	next := clonePost(post)
	next.Author = cur.Author
	next.Likes = slices.Clone(cur.Likes)
	next.CreatedAt = cur.CreatedAt
	r.posts[post.ID] = next
	return nil
}

func (r *MemoryPostRepo) Delete(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *MemoryPostRepo) AddLike(_ context.Context, id, userID bson.ObjectID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	if !p.HasLike(userID) {
		p.Likes = append(p.Likes, userID)
	}
	p.UpdatedAt = r.Now()
	return clonePost(p), nil
}

func (r *MemoryPostRepo) RemoveLike(_ context.Context, id, userID bson.ObjectID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	p.Likes = slices.DeleteFunc(p.Likes, func(l bson.ObjectID) bool { return l == userID })
	p.UpdatedAt = r.Now()
	return clonePost(p), nil
}

func (r *MemoryPostRepo) StatsByAuthor(_ context.Context, authorID bson.ObjectID) ([]models.StatusStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buckets := map[string]*models.StatusStat{}
	for _, p := range r.posts {
		if p.Author != authorID {
			continue
		}
		b, ok := buckets[p.Status]
		if !ok {
			b = &models.StatusStat{Status: p.Status}
			buckets[p.Status] = b
		}
		b.Count++
		b.TotalLikes += int64(len(p.Likes))
	}

	stats := make([]models.StatusStat, 0, len(buckets))
	for _, b := range buckets {
		stats = append(stats, *b)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Status < stats[j].Status })
	return stats, nil
}

// MemoryUserRepo is the in-process UserRepository.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[bson.ObjectID]models.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: map[bson.ObjectID]models.User{}}
}

func (r *MemoryUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepo) FindByIDs(_ context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[bson.ObjectID]models.User, len(ids))
	for _, id := range uniqueIDs(ids) {
		if u, ok := r.users[id]; ok {
			u.PasswordHash = ""
			out[id] = u
		}
	}
	return out, nil
}

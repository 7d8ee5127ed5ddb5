package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bloghub/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const postColumns = `id, title, content, author, status, category, tags,
	featured_image, likes, created_at, updated_at, published_at`

type pgPostRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPostRepo(pool *pgxpool.Pool) PostRepository {
	return &pgPostRepo{pool: pool}
}

// Postgres keeps microseconds.
func pgNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var (
		p        models.Post
		id       string
		author   string
		featured *string
		likes    []string
	)
	err := row.Scan(&id, &p.Title, &p.Content, &author, &p.Status, &p.Category, &p.Tags,
		&featured, &likes, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt)
	if err != nil {
		return nil, err
	}
	if p.ID, err = bson.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("post id %q: %w", id, err)
	}
	if p.Author, err = bson.ObjectIDFromHex(author); err != nil {
		return nil, fmt.Errorf("post author %q: %w", author, err)
	}
	if featured != nil {
		p.FeaturedImage = *featured
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Likes = make([]bson.ObjectID, 0, len(likes))
	for _, l := range likes {
		oid, err := bson.ObjectIDFromHex(l)
		if err != nil {
			return nil, fmt.Errorf("post like %q: %w", l, err)
		}
		p.Likes = append(p.Likes, oid)
	}
	return &p, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func hexIDs(ids []bson.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

func (r *pgPostRepo) Create(ctx context.Context, post *models.Post) error {
	prepareNew(post, pgNow())
	_, err := r.pool.Exec(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		post.ID.Hex(), post.Title, post.Content, post.Author.Hex(), post.Status, post.Category,
		post.Tags, nullable(post.FeaturedImage), hexIDs(post.Likes),
		post.CreatedAt, post.UpdatedAt, post.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *pgPostRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id.Hex())
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

// escapeLike escapes LIKE metacharacters using the default backslash escape.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// buildPostWhere renders the WHERE clause (possibly empty) and its args.
func buildPostWhere(f PostFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if len(f.Tags) > 0 {
		add("tags && $%d", f.Tags)
	}
	if !f.AuthorID.IsZero() {
		add("author = $%d", f.AuthorID.Hex())
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildPostOrder(s PostSort) string {
	switch s {
	case SortOldest:
		return " ORDER BY created_at ASC, id ASC"
	case SortTitle:
		return " ORDER BY title ASC, id ASC"
	case SortTitleDesc:
		return " ORDER BY title DESC, id DESC"
	default:
		return " ORDER BY created_at DESC, id DESC"
	}
}

func (r *pgPostRepo) Find(ctx context.Context, f PostFilter, sort PostSort, skip, limit int64) ([]models.Post, int64, error) {
	where, args := buildPostWhere(f)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	n := len(args)
	q := `SELECT ` + postColumns + ` FROM posts` + where + buildPostOrder(sort) +
		fmt.Sprintf(" OFFSET $%d LIMIT $%d", n+1, n+2)
	rows, err := r.pool.Query(ctx, q, append(args, skip, limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("find posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, total, nil
}

func (r *pgPostRepo) Save(ctx context.Context, post *models.Post) error {
	now := pgNow()
	post.StampPublished(now)
	post.UpdatedAt = now

	tag, err := r.pool.Exec(ctx, `
		UPDATE posts
		SET title = $2, content = $3, status = $4, category = $5, tags = $6,
		    featured_image = $7, published_at = $8, updated_at = $9
		WHERE id = $1`,
		post.ID.Hex(), post.Title, post.Content, post.Status, post.Category, post.Tags,
		nullable(post.FeaturedImage), post.PublishedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *pgPostRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id.Hex())
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *pgPostRepo) AddLike(ctx context.Context, id, userID bson.ObjectID) (*models.Post, error) {
	return r.updateLikes(ctx, `
		UPDATE posts
		SET likes = CASE WHEN $2 = ANY(likes) THEN likes ELSE array_append(likes, $2) END,
		    updated_at = $3
		WHERE id = $1
		RETURNING `+postColumns, id, userID)
}

func (r *pgPostRepo) RemoveLike(ctx context.Context, id, userID bson.ObjectID) (*models.Post, error) {
	return r.updateLikes(ctx, `
		UPDATE posts
		SET likes = array_remove(likes, $2), updated_at = $3
		WHERE id = $1
		RETURNING `+postColumns, id, userID)
}

func (r *pgPostRepo) updateLikes(ctx context.Context, q string, id, userID bson.ObjectID) (*models.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, q, id.Hex(), userID.Hex(), pgNow()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("update likes: %w", err)
	}
	return p, nil
}

func (r *pgPostRepo) StatsByAuthor(ctx context.Context, authorID bson.ObjectID) ([]models.StatusStat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(cardinality(likes)), 0)
		FROM posts
		WHERE author = $1
		GROUP BY status
		ORDER BY status`, authorID.Hex())
	if err != nil {
		return nil, fmt.Errorf("stats query: %w", err)
	}
	defer rows.Close()

	stats := []models.StatusStat{}
	for rows.Next() {
		var s models.StatusStat
		if err := rows.Scan(&s.Status, &s.Count, &s.TotalLikes); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

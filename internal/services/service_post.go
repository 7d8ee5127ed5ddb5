package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"bloghub/dto"
	"bloghub/internal/models"
	repo "bloghub/internal/repository"
	u "bloghub/internal/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// PostService enforces authorship and the draft/published lifecycle on top
// of a PostRepository.
type PostService struct {
	posts repo.PostRepository
	users repo.UserRepository
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository) *PostService {
	return &PostService{posts: posts, users: users}
}

// parsePostID treats a malformed id like a missing post.
func parsePostID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return bson.NilObjectID, errPostNotFound
	}
	return oid, nil
}

func (s *PostService) fetch(ctx context.Context, id string) (*models.Post, error) {
	oid, err := parsePostID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.posts.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repo.ErrPostNotFound) {
			return nil, errPostNotFound
		}
		return nil, err
	}
	return p, nil
}

// fetchOwned loads a post and checks that uid wrote it.
func (s *PostService) fetchOwned(ctx context.Context, id string, uid bson.ObjectID, action string) (*models.Post, error) {
	if uid.IsZero() {
		return nil, errNoUser
	}
	p, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Author != uid {
		return nil, newError(ErrForbidden, "You are not authorized to "+action+" this blog")
	}
	return p, nil
}

// visible reports whether viewer may see p outside the author-only paths.
func visible(p *models.Post, viewer bson.ObjectID) bool {
	return p.Status == models.StatusPublished || (!viewer.IsZero() && p.Author == viewer)
}

func normalizeCreate(in *dto.CreatePostDTO) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Status = strings.TrimSpace(in.Status)
	in.Category = strings.TrimSpace(in.Category)
	in.FeaturedImage = strings.TrimSpace(in.FeaturedImage)
	in.Tags = u.NormalizeTags(in.Tags)
}

func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

func normalizeUpdate(in *dto.UpdatePostDTO) {
	trimPtr(in.Title)
	trimPtr(in.Content)
	trimPtr(in.Status)
	trimPtr(in.Category)
	trimPtr(in.FeaturedImage)
	if in.Tags != nil {
		tags := u.NormalizeTags(*in.Tags)
		in.Tags = &tags
	}
}

// applyPatch copies the present fields of in onto p.
func applyPatch(p *models.Post, in dto.UpdatePostDTO) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Category != nil {
		p.Category = *in.Category
		if p.Category == "" {
			p.Category = models.DefaultCategory
		}
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
	if in.FeaturedImage != nil {
		p.FeaturedImage = *in.FeaturedImage
	}
}

// Create stores a new post written by uid. Any author in the input is
// ignored.
func (s *PostService) Create(ctx context.Context, in dto.CreatePostDTO, uid bson.ObjectID) (dto.PostResponse, error) {
	if uid.IsZero() {
		return dto.PostResponse{}, errNoUser
	}
	normalizeCreate(&in)
	if err := validateStruct(in); err != nil {
		return dto.PostResponse{}, err
	}

	post := &models.Post{
		Title:         in.Title,
		Content:       in.Content,
		Author:        uid,
		Status:        in.Status,
		Category:      in.Category,
		Tags:          in.Tags,
		FeaturedImage: in.FeaturedImage,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return dto.PostResponse{}, fmt.Errorf("create post: %w", err)
	}
	return s.toResponse(ctx, post)
}

// List returns published posts only.
func (s *PostService) List(ctx context.Context, q dto.ListQuery) ([]dto.PostResponse, dto.Pagination, error) {
	switch q.Status {
	case "":
		q.Status = models.StatusPublished
	case models.StatusPublished:
	case models.StatusDraft:
		return nil, dto.Pagination{}, fieldError("status", "Drafts are only listed for their author")
	}
	return s.list(ctx, q, bson.NilObjectID)
}

// ListMine lists uid's own posts, drafts included unless a status is given.
func (s *PostService) ListMine(ctx context.Context, uid bson.ObjectID, q dto.ListQuery) ([]dto.PostResponse, dto.Pagination, error) {
	if uid.IsZero() {
		return nil, dto.Pagination{}, errNoUser
	}
	q.Author = ""
	return s.list(ctx, q, uid)
}

func (s *PostService) list(ctx context.Context, q dto.ListQuery, owner bson.ObjectID) ([]dto.PostResponse, dto.Pagination, error) {
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
	q.Author = strings.TrimSpace(q.Author)
	if err := validateStruct(q); err != nil {
		return nil, dto.Pagination{}, err
	}

	sort, ok := repo.ParseSort(q.SortBy)
	if !ok {
		return nil, dto.Pagination{}, fieldError("sortBy", "Invalid sortBy, expected one of: createdAt, -createdAt, title, -title")
	}
	filter := repo.PostFilter{
		Status:   q.Status,
		Category: q.Category,
		Tags:     u.SplitTags(q.Tags),
		Search:   q.Search,
		AuthorID: owner,
	}
	if owner.IsZero() && q.Author != "" {
		filter.AuthorID, _ = bson.ObjectIDFromHex(q.Author)
	}

	page, limit := q.Page, q.Limit
	if page == 0 {
		page = defaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	posts, total, err := s.posts.Find(ctx, filter, sort, pageOffset(page, limit), limit)
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("list posts: %w", err)
	}

	out, err := s.toResponses(ctx, posts)
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	pag := dto.Pagination{
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
		TotalBlogs:  total,
		Limit:       limit,
	}
	return out, pag, nil
}

// pageOffset is (page-1)*limit, saturating at MaxInt64 so a huge page
// yields an empty result instead of a wrapped negative skip.
func pageOffset(page, limit int64) int64 {
	if page-1 > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return (page - 1) * limit
}

// GetByID returns a single post. Drafts are only returned to their author;
// anyone else gets the same not-found as for a missing id.
func (s *PostService) GetByID(ctx context.Context, id string, viewer bson.ObjectID) (dto.PostResponse, error) {
	p, err := s.fetch(ctx, id)
	if err != nil {
		return dto.PostResponse{}, err
	}
	if !visible(p, viewer) {
		return dto.PostResponse{}, errPostNotFound
	}
	return s.toResponse(ctx, p)
}

// Update merges the present fields of patch onto the post. Only the author
// may update; nothing is applied otherwise.
func (s *PostService) Update(ctx context.Context, id string, patch dto.UpdatePostDTO, uid bson.ObjectID) (dto.PostResponse, error) {
	p, err := s.fetchOwned(ctx, id, uid, "update")
	if err != nil {
		return dto.PostResponse{}, err
	}

	normalizeUpdate(&patch)
	if err := validateStruct(patch); err != nil {
		return dto.PostResponse{}, err
	}

	applyPatch(p, patch)
	if err := s.posts.Save(ctx, p); err != nil {
		if errors.Is(err, repo.ErrPostNotFound) {
			return dto.PostResponse{}, errPostNotFound
		}
		return dto.PostResponse{}, fmt.Errorf("save post: %w", err)
	}
	return s.toResponse(ctx, p)
}

// Delete permanently removes the post.
func (s *PostService) Delete(ctx context.Context, id string, uid bson.ObjectID) (dto.MessageResponse, error) {
	p, err := s.fetchOwned(ctx, id, uid, "delete")
	if err != nil {
		return dto.MessageResponse{}, err
	}
	if err := s.posts.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repo.ErrPostNotFound) {
			return dto.MessageResponse{}, errPostNotFound
		}
		return dto.MessageResponse{}, fmt.Errorf("delete post: %w", err)
	}
	return dto.MessageResponse{Message: "Blog deleted successfully"}, nil
}

// ToggleLike flips uid's membership in the likes set. Two calls in a row
// restore the original state. Concurrent toggles are last-write-wins.
func (s *PostService) ToggleLike(ctx context.Context, id string, uid bson.ObjectID) (dto.LikeResult, error) {
	if uid.IsZero() {
		return dto.LikeResult{}, errNoUser
	}
	p, err := s.fetch(ctx, id)
	if err != nil {
		return dto.LikeResult{}, err
	}
	if !visible(p, uid) {
		return dto.LikeResult{}, errPostNotFound
	}

	var updated *models.Post
	if p.HasLike(uid) {
		updated, err = s.posts.RemoveLike(ctx, p.ID, uid)
	} else {
		updated, err = s.posts.AddLike(ctx, p.ID, uid)
	}
	if err != nil {
		if errors.Is(err, repo.ErrPostNotFound) {
			return dto.LikeResult{}, errPostNotFound
		}
		return dto.LikeResult{}, fmt.Errorf("toggle like: %w", err)
	}

	return dto.LikeResult{
		Liked:     updated.HasLike(uid),
		LikeCount: len(updated.Likes),
		Likes:     updated.LikeIDs(),
	}, nil
}

// Stats groups uid's posts by status.
func (s *PostService) Stats(ctx context.Context, uid bson.ObjectID) ([]models.StatusStat, error) {
	if uid.IsZero() {
		return nil, errNoUser
	}
	stats, err := s.posts.StatsByAuthor(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("post stats: %w", err)
	}
	return stats, nil
}

// ---- response mapping ----

func (s *PostService) toResponse(ctx context.Context, p *models.Post) (dto.PostResponse, error) {
	out, err := s.toResponses(ctx, []models.Post{*p})
	if err != nil {
		return dto.PostResponse{}, err
	}
	return out[0], nil
}

// toResponses expands authors and derives likeCount. This is the only
// place likeCount is computed.
func (s *PostService) toResponses(ctx context.Context, posts []models.Post) ([]dto.PostResponse, error) {
	ids := make([]bson.ObjectID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.Author)
	}
	authors, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}

	out := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		a := authors[p.Author]

		var featured *string
		if p.FeaturedImage != "" {
			img := p.FeaturedImage
			featured = &img
		}
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}

		out = append(out, dto.PostResponse{
			ID:            p.ID.Hex(),
			Title:         p.Title,
			Content:       p.Content,
			Author:        dto.AuthorInfo{ID: p.Author.Hex(), Name: a.Name, Email: a.Email},
			Status:        p.Status,
			Category:      p.Category,
			Tags:          tags,
			FeaturedImage: featured,
			Likes:         p.LikeIDs(),
			LikeCount:     len(p.Likes),
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
			PublishedAt:   p.PublishedAt,
		})
	}
	return out, nil
}

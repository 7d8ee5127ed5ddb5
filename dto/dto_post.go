package dto

import "time"

// ===== Request =====

// CreatePostDTO is the create body. There is no author field: the author is
// always the authenticated caller.
type CreatePostDTO struct {
	Title         string   `json:"title" validate:"required,min=3,max=200" example:"Trip to Kyoto"`
	Content       string   `json:"content" validate:"required,min=10" example:"Three days of temples and ramen."`
	Status        string   `json:"status" validate:"omitempty,oneof=draft published" example:"draft"`
	Category      string   `json:"category" validate:"omitempty,max=50" example:"Travel"`
	Tags          []string `json:"tags" validate:"omitempty,dive,max=30"`
	FeaturedImage string   `json:"featuredImage" validate:"omitempty,url"`
}

// UpdatePostDTO is a partial update. A nil field is absent and left
// untouched; a non-nil field is applied, including empty values.
type UpdatePostDTO struct {
	Title         *string   `json:"title" validate:"omitnil,min=3,max=200"`
	Content       *string   `json:"content" validate:"omitnil,min=10"`
	Status        *string   `json:"status" validate:"omitnil,oneof=draft published"`
	Category      *string   `json:"category" validate:"omitnil,max=50"`
	Tags          *[]string `json:"tags" validate:"omitnil,dive,max=30"`
	FeaturedImage *string   `json:"featuredImage" validate:"omitempty,url"`
}

// ListQuery carries the listing filters. Zero Page/Limit mean "use the
// default"; Tags is the comma separated query value.
type ListQuery struct {
	Page     int64  `json:"page" validate:"gte=0"`
	Limit    int64  `json:"limit" validate:"gte=0"`
	Status   string `json:"status" validate:"omitempty,oneof=draft published"`
	Category string `json:"category"`
	Tags     string `json:"tags"`
	Author   string `json:"author" validate:"omitempty,mongodb"`
	Search   string `json:"search"`
	SortBy   string `json:"sortBy"`
}

// ===== Response =====

type AuthorInfo struct {
	ID    string `json:"id" example:"66c6248b98c56c39f018e7d2"`
	Name  string `json:"name" example:"Aiko"`
	Email string `json:"email" example:"aiko@example.com"`
}

type PostResponse struct {
	ID            string     `json:"id" example:"66c6248b98c56c39f018e7d3"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Author        AuthorInfo `json:"author"`
	Status        string     `json:"status" example:"published"`
	Category      string     `json:"category" example:"Uncategorized"`
	Tags          []string   `json:"tags"`
	FeaturedImage *string    `json:"featuredImage"`
	Likes         []string   `json:"likes"`
	LikeCount     int        `json:"likeCount" example:"0"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

type Pagination struct {
	CurrentPage int64 `json:"currentPage" example:"1"`
	TotalPages  int64 `json:"totalPages" example:"3"`
	TotalBlogs  int64 `json:"totalBlogs" example:"25"`
	Limit       int64 `json:"limit" example:"10"`
}

type LikeResult struct {
	Liked     bool     `json:"liked"`
	LikeCount int      `json:"likeCount"`
	Likes     []string `json:"likes"`
}

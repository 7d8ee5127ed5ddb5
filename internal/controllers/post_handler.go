package controllers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"bloghub/dto"
	"bloghub/internal/authctx"
	"bloghub/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const requestTimeout = 5 * time.Second

// parsePositive reads an optional query integer that must be >= 1 when set.
func parsePositive(c *fiber.Ctx, key string, errs *[]dto.FieldError) int64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		label := strings.ToUpper(key[:1]) + key[1:]
		*errs = append(*errs, dto.FieldError{Field: key, Message: label + " must be a positive integer"})
		return 0
	}
	return n
}

func parseListQuery(c *fiber.Ctx) (dto.ListQuery, error) {
	var errs []dto.FieldError
	q := dto.ListQuery{
		Page:     parsePositive(c, "page", &errs),
		Limit:    parsePositive(c, "limit", &errs),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Tags:     c.Query("tags"),
		Author:   c.Query("author"),
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
	}
	if len(errs) > 0 {
		return q, &services.ValidationError{Errors: errs}
	}
	return q, nil
}

func listResponse(c *fiber.Ctx, posts []dto.PostResponse, pag dto.Pagination) error {
	return c.JSON(dto.SuccessResponse{Success: true, Data: posts, Pagination: &pag})
}

// viewer returns the caller or the zero id for anonymous requests.
func viewer(c *fiber.Ctx) bson.ObjectID {
	uid, _ := authctx.UserIDFrom(c)
	return uid
}

// CreatePostHandler godoc
// @Summary Create a blog post
// @Description The author is always the authenticated caller.
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreatePostDTO true "Post"
// @Success 201 {object} dto.SuccessResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /blogs [post]
func CreatePostHandler(svc *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.CreatePostDTO
		if err := c.BodyParser(&body); err != nil {
			return badBody(c)
		}

		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		post, err := svc.Create(ctx, body, viewer(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true, Data: post})
	}
}

// ListPostsHandler godoc
// @Summary List published blog posts
// @Tags blogs
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param status query string false "published"
// @Param category query string false "Category"
// @Param tags query string false "Comma separated tags, any-of"
// @Param author query string false "Author id"
// @Param search query string false "Case-insensitive title/content search"
// @Param sortBy query string false "createdAt | -createdAt | title | -title"
// @Success 200 {object} dto.SuccessResponse{data=[]dto.PostResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /blogs [get]
func ListPostsHandler(svc *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := parseListQuery(c)
		if err != nil {
			return writeError(c, err)
		}

		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		posts, pag, err := svc.List(ctx, q)
		if err != nil {
			return writeError(c, err)
		}
		return listResponse(c, posts, pag)
	}
}

// MyPostsHandler godoc
// @Summary List the caller's posts, drafts included
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param status query string false "draft | published"
// @Success 200 {object} dto.SuccessResponse{data=[]dto.PostResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /blogs/user/my-blogs [get]
func MyPostsHandler(svc *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := parseListQuery(c)
		if err != nil {
			return writeError(c, err)
		}

		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		posts, pag, err := svc.ListMine(ctx, viewer(c), q)
		if err != nil {
			return writeError(c, err)
		}
		return listResponse(c, posts, pag)
	}
}

// PostStatsHandler godoc
// @Summary Post counts and likes per status for the caller
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=[]models.StatusStat}
// @Failure 401 {object} dto.ErrorResponse
// @Router /blogs/user/stats [get]
func PostStatsHandler(svc *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		stats, err := svc.Stats(ctx, viewer(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.SuccessResponse{Success: true, Data: stats})
	}
}

// GetPostHandler godoc
// @Summary Get a blog post
// @Description Drafts are only returned to their author.
// @Tags blogs
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} dto.SuccessResponse{data=dto.PostResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /blogs/{id} [get]
func GetPostHandler(svc *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		post, err := svc.GetByID(ctx, c.Params("id"), viewer(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.SuccessResponse{Success: true, Data: post})
	}
}

// UpdatePostHandler godoc
// @Summary Update a blog post
// @Description Only fields present in the body are changed. Author only.
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post id"
// @Param body body dto.UpdatePostDTO true "Patch"
// @Success 200 {object} dto.SuccessResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /blogs/{id} [put]
func UpdatePostHandler(svc *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch dto.UpdatePostDTO
		if err := c.BodyParser(&patch); err != nil {
			return badBody(c)
		}

		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		post, err := svc.Update(ctx, c.Params("id"), patch, viewer(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.SuccessResponse{Success: true, Data: post})
	}
}

// DeletePostHandler godoc
// @Summary Delete a blog post
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post id"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /blogs/{id} [delete]
func DeletePostHandler(svc *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		res, err := svc.Delete(ctx, c.Params("id"), viewer(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.SuccessResponse{Success: true, Message: res.Message})
	}
}

// ToggleLikeHandler godoc
// @Summary Like or unlike a blog post
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post id"
// @Success 200 {object} dto.SuccessResponse{data=dto.LikeResult}
// @Failure 404 {object} dto.ErrorResponse
// @Router /blogs/{id}/like [post]
func ToggleLikeHandler(svc *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		res, err := svc.ToggleLike(ctx, c.Params("id"), viewer(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.SuccessResponse{Success: true, Data: res})
	}
}

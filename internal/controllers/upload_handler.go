package controllers

import (
	"context"

	"bloghub/dto"
	"bloghub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UploadImageHandler godoc
// @Summary Upload an image
// @Description jpg, jpeg, png, gif or webp up to 10MB. Returns the URL to store on a post.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /upload/image [post]
func UploadImageHandler(svc *services.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile("image")
		if err != nil || file == nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "No file uploaded"})
		}

		f, err := file.Open()
		if err != nil {
			return writeError(c, err)
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		res, err := svc.Upload(ctx, file.Filename, file.Size, f)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(res)
	}
}

// DeleteImageHandler godoc
// @Summary Delete an uploaded image
// @Description "/" in the public id may be sent as "--".
// @Tags upload
// @Produce json
// @Security BearerAuth
// @Param publicId path string true "Public id"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /upload/image/{publicId} [delete]
func DeleteImageHandler(svc *services.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		res, err := svc.Delete(ctx, c.Params("publicId"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(res)
	}
}

package controllers

import (
	"errors"
	"log"

	"bloghub/dto"
	"bloghub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// writeError maps service errors onto the HTTP error envelope.
func writeError(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Errors: ve.Errors})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrBadRequest):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	}

	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		msg = "Internal server error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Message: msg})
}

// ErrorHandler renders errors returned by middleware and unmatched routes
// in the same envelope as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg := fe.Message
		if fe.Code == fiber.StatusNotFound && msg == fiber.ErrNotFound.Message {
			msg = "Route not found"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Message: msg})
	}
	return writeError(c, err)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "Invalid request body"})
}

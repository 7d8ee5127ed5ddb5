package controllers

import (
	"context"

	"bloghub/dto"
	"bloghub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Account"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /auth/register [post]
func Register(svc *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return badBody(c)
		}

		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		res, err := svc.Register(ctx, body)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func Login(svc *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return badBody(c)
		}

		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		res, err := svc.Login(ctx, body)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(res)
	}
}

// Profile godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/profile [get]
func Profile(svc *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
		defer cancel()

		res, err := svc.Profile(ctx, viewer(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(res)
	}
}

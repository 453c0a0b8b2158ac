package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"acadrepo/internal/http/middleware"
	"acadrepo/internal/service"
)

type credentialsRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	// OldPassword is accepted as an alias of CurrentPassword.
	OldPassword string `json:"old_password,omitempty" form:"old_password"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,min=6"`
}

type authHandler struct {
	svc      service.AuthService
	validate *validator.Validate
}

func (h *authHandler) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return invalid("invalid request body")
	}
	return validateStruct(h.validate, dst)
}

func (h *authHandler) login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	sess, err := h.svc.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(sess)
}

func (h *authHandler) register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	p, err := h.svc.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *authHandler) changePassword(c *fiber.Ctx) error {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return service.ErrUnauthenticated
	}
	var req changePasswordRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	current := req.CurrentPassword
	if current == "" {
		current = req.OldPassword
	}
	if current == "" {
		return invalid("current_password is required")
	}
	if err := h.svc.ChangePassword(c.UserContext(), p.Username, current, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "password updated"})
}

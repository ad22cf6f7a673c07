package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-osv/internal/application/auth"
	"github.com/jhoicas/inventario-osv/internal/application/dto"
)

// AuthHandler maneja el login de operadores.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-osv/internal/application/dto"
	"github.com/jhoicas/inventario-osv/pkg/jwt"
)

// Locals keys para los claims del token en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID, Email y Role a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados. Debe usarse DESPUÉS de AuthMiddleware.
//   - 401 MISSING_ROLE → token sin claim de rol.
//   - 403 FORBIDDEN    → rol no permitido.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !slices.Contains(roles, role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol '" + role + "' no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetEmail devuelve el email del contexto.
func GetEmail(c *fiber.Ctx) string { return localString(c, LocalEmail) }

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

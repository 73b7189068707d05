package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/pkg/jwt"
)

// Locals keys para la identidad y el perfil en Fiber.
const (
	LocalUserID      = "user_id"
	LocalEmail       = "email"
	LocalProfile     = "profile"
	LocalPermissions = "permissions"
)

// ProfileResolver carga el perfil de una identidad y resuelve sus permisos.
// Lo implementa *usecase.ProfileUseCase.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID, email string) (*entity.Profile, access.Permissions, error)
}

// AuthConfig verificación del token y origen del perfil.
type AuthConfig struct {
	Secret   string
	Verify   jwt.VerifyOptions
	Profiles ProfileResolver
}

// AuthMiddleware valida el Bearer Token emitido por el proveedor de identidad, carga el perfil
// (o el perfil por defecto si no existe) y deja identidad, perfil y permisos en c.Locals.
// Un perfil inactivo responde 403.
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
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
		id, err := jwt.Parse(cfg.Secret, tokenString, cfg.Verify)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		profile, perms, err := cfg.Profiles.Resolve(c.UserContext(), id.UserID, id.Email)
		if err != nil {
			return err
		}
		if !profile.Active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INACTIVE_PROFILE", Message: "usuario inactivo"})
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalEmail, profile.Email)
		c.Locals(LocalProfile, profile)
		c.Locals(LocalPermissions, perms)
		return c.Next()
	}
}

// RequireEdit permite el paso a quien puede registrar y editar (operador o superior, o el administrador principal).
func RequireEdit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetPermissions(c).CanEdit {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permiso de edición requerido"})
		}
		return c.Next()
	}
}

// RequireUserManagement permite el paso a admin y super_admin.
func RequireUserManagement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetPermissions(c).CanManageUsers {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "gestión de usuarios requerida"})
		}
		return c.Next()
	}
}

// RequireRole exige un rol de al menos min. Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(min access.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(LocalPermissions).(access.Permissions); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "autenticación requerida"})
		}
		if !GetPermissions(c).Role.AtLeast(min) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol " + min.String() + " requerido"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el id de la identidad (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetEmail devuelve el correo del perfil.
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}

// GetPermissions devuelve los permisos resueltos; sin auth son los de consulta.
func GetPermissions(c *fiber.Ctx) access.Permissions {
	p, _ := c.Locals(LocalPermissions).(access.Permissions)
	return p
}

// GetRole devuelve el rol efectivo como texto.
func GetRole(c *fiber.Ctx) string {
	return GetPermissions(c).Role.String()
}

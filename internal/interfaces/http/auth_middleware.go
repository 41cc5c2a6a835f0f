package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Mutesi02/product-marketplace/internal/application/dto"
	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/pkg/jwt"
)

// Nombres de las cookies de sesión.
const (
	CookieAuthToken = "auth_token"
	CookieUserData  = "user_data"
)

const localIdentity = "identity"

// IdentityResolver contrasta la identidad del token con el usuario guardado.
// Devuelve domain.ErrUnauthorized si el usuario ya no existe, está inactivo o cambió de empresa.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, claimed entity.Identity) (entity.Identity, error)
}

// AuthMiddleware valida el JWT (header Authorization: Bearer o cookie auth_token)
// y deja la identidad en Locals. Con resolver, el rol efectivo es el guardado y no el del token;
// sin resolver (nil) se confía en los claims.
func AuthMiddleware(secret string, resolver IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Cookies(CookieAuthToken)
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "MISSING_TOKEN", Message: "se requiere Authorization: Bearer <token> o la cookie de sesión",
			})
		}
		id, ok := identityFromToken(secret, token)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "INVALID_TOKEN", Message: "token inválido o expirado",
			})
		}
		if resolver != nil {
			current, err := resolver.ResolveIdentity(c.UserContext(), id)
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Code: "SESSION_REVOKED", Message: "la cuenta ya no tiene acceso; inicie sesión de nuevo",
				})
			}
			if err != nil {
				return err
			}
			id = current
		}
		c.Locals(localIdentity, id)
		return c.Next()
	}
}

// RequireRole restringe la ruta a los roles dados. Debe usarse después de AuthMiddleware.
//   - 401 MISSING_ROLE si el token no trae rol.
//   - 403 FORBIDDEN si el rol no está permitido.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "MISSING_ROLE", Message: "el token no contiene rol",
			})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code: "FORBIDDEN", Message: "el rol '" + role + "' no tiene acceso a este recurso",
		})
	}
}

// GetIdentity devuelve la identidad autenticada (zero value si no hay).
func GetIdentity(c *fiber.Ctx) entity.Identity {
	id, _ := c.Locals(localIdentity).(entity.Identity)
	return id
}

// GetRole devuelve el rol de la identidad autenticada.
func GetRole(c *fiber.Ctx) string {
	return GetIdentity(c).Role
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func identityFromToken(secret, token string) (entity.Identity, bool) {
	claims, err := jwt.Parse(secret, token)
	if err != nil || claims.UserID == "" || claims.BusinessID == "" {
		return entity.Identity{}, false
	}
	return entity.Identity{
		ID:          claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Role:        claims.Role,
		BusinessID:  claims.BusinessID,
	}, true
}

package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Mutesi02/product-marketplace/internal/application/auth"
	"github.com/Mutesi02/product-marketplace/internal/application/dto"
	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// CookieConfig vigencia y flags de las cookies de sesión.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

// AuthHandler maneja registro, login y la sesión por cookies.
type AuthHandler struct {
	uc      *auth.AuthUseCase
	secret  string
	cookies CookieConfig
	log     *logger.Logger
	now     func() time.Time
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, jwtSecret string, cookies CookieConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, secret: jwtSecret, cookies: cookies, log: log, now: time.Now}
}

// Register godoc
// @Summary      Registrar empresa y administrador
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, business_name"
// @Success      201   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.setSessionCookies(c, out); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.setSessionCookies(c, out); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (borra las cookies; idempotente)
// @Tags         auth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearSessionCookies(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// Session godoc
// @Summary      Identidad de la sesión actual
// @Description  Devuelve la identidad vigente del usuario del auth_token. user_data debe coincidir en id, rol y empresa; si no, se borran las cookies e identity es null.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	token := c.Cookies(CookieAuthToken)
	raw := c.Cookies(CookieUserData)
	if token == "" || raw == "" {
		return c.JSON(dto.SessionResponse{})
	}
	fromToken, ok := identityFromToken(h.secret, token)
	if !ok {
		h.clearSessionCookies(c)
		return c.JSON(dto.SessionResponse{})
	}
	current, err := h.uc.ResolveIdentity(c.UserContext(), fromToken)
	if errors.Is(err, domain.ErrUnauthorized) {
		h.clearSessionCookies(c)
		return c.JSON(dto.SessionResponse{})
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	// La cookie no es fuente de verdad: solo se acepta si describe al mismo usuario.
	stored, err := decodeUserData(raw)
	if err != nil || !sameSession(stored, current) {
		h.log.Warn().Str("user_id", current.ID).Msg("cookie user_data no coincide con la sesión, se limpia")
		h.clearSessionCookies(c)
		return c.JSON(dto.SessionResponse{})
	}
	return c.JSON(dto.SessionResponse{Identity: &current})
}

func sameSession(a, b entity.Identity) bool {
	return a.ID == b.ID && a.Role == b.Role && a.BusinessID == b.BusinessID
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Profile(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *AuthHandler) setSessionCookies(c *fiber.Ctx, out *dto.LoginResponse) error {
	data, err := encodeUserData(out.Identity)
	if err != nil {
		return err
	}
	expires := h.now().Add(h.cookies.TTL)
	c.Cookie(&fiber.Cookie{
		Name:     CookieAuthToken,
		Value:    out.Token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     CookieUserData,
		Value:    data,
		Path:     "/",
		Expires:  expires,
		Secure:   h.cookies.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) clearSessionCookies(c *fiber.Ctx) {
	for _, name := range []string{CookieAuthToken, CookieUserData} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HTTPOnly: name == CookieAuthToken,
			Secure:   h.cookies.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}

// user_data viaja como JSON en base64 URL-safe para no romper el formato de la cookie.
func encodeUserData(id entity.Identity) (string, error) {
	raw, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeUserData(value string) (entity.Identity, error) {
	var id entity.Identity
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return id, err
	}
	if err := json.Unmarshal(raw, &id); err != nil {
		return id, err
	}
	return id, nil
}

// Package client es el cliente REST de la API del marketplace.
// Usa el Agent de fiber; implementa session.Authenticator para el login remoto.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Mutesi02/product-marketplace/internal/application/dto"
	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
)

// DefaultTimeout tiempo máximo por petición si el contexto no trae deadline.
const DefaultTimeout = 10 * time.Second

// ErrNoToken la operación requiere sesión y el cliente no tiene token.
var ErrNoToken = errors.New("client: sin token de sesión")

// APIError respuesta de error de la API ({"code", "message"}).
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap traduce el código a los errores de dominio para poder usar errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "INVALID_CREDENTIALS":
		return domain.ErrInvalidCredentials
	case "VALIDATION", "INVALID_BODY":
		return domain.ErrValidation
	case "INVALID_STATE":
		return domain.ErrInvalidState
	case "EMAIL_EXISTS":
		return domain.ErrEmailAlreadyExists
	case "CONFLICT":
		return domain.ErrConflict
	}
	switch e.Status {
	case fiber.StatusUnauthorized:
		return domain.ErrUnauthorized
	case fiber.StatusForbidden:
		return domain.ErrForbidden
	case fiber.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

// Client cliente HTTP. Es inmutable: WithToken devuelve una copia.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

// Option configura el cliente.
type Option func(*Client)

// WithTimeout cambia el timeout por petición.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New crea un cliente para baseURL (ej. http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken devuelve un cliente que envía token como Bearer.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Authenticate hace login y devuelve la identidad y el token emitido.
func (c *Client) Authenticate(ctx context.Context, email, password string) (entity.Identity, string, error) {
	var out dto.LoginResponse
	err := c.do(ctx, fiber.MethodPost, "/api/auth/login", nil, dto.LoginRequest{Email: email, Password: password}, &out, false)
	if err != nil {
		return entity.Identity{}, "", err
	}
	if out.Token == "" || out.Identity.IsZero() {
		return entity.Identity{}, "", errors.New("client: respuesta de login incompleta")
	}
	return out.Identity, out.Token, nil
}

// Me perfil del usuario autenticado.
func (c *Client) Me(ctx context.Context) (*dto.ProfileResponse, error) {
	var out dto.ProfileResponse
	if err := c.do(ctx, fiber.MethodGet, "/api/auth/me", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProducts lista productos visibles para la sesión. Status y Category vacíos = todos.
func (c *Client) ListProducts(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	q := pageQuery(in.PageRequest)
	if in.Status != "" {
		q.Set("status", in.Status)
	}
	if in.Category != "" {
		q.Set("category", in.Category)
	}
	var out dto.ProductListResponse
	if err := c.do(ctx, fiber.MethodGet, "/api/products", q, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPublicProducts catálogo público (solo aprobados, sin sesión).
func (c *Client) ListPublicProducts(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	var out dto.ProductListResponse
	q := pageQuery(dto.PageRequest{Limit: limit, Offset: offset})
	if err := c.do(ctx, fiber.MethodGet, "/api/public/products", q, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func pageQuery(p dto.PageRequest) url.Values {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	return q
}

// GetProduct obtiene un producto.
func (c *Client) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, fiber.MethodGet, "/api/products/"+url.PathEscape(id), nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct crea un producto en draft.
func (c *Client) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, fiber.MethodPost, "/api/products", nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// TransitionProduct aplica submit, approve, reject o edit.
func (c *Client) TransitionProduct(ctx context.Context, id string, in dto.TransitionRequest) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, fiber.MethodPatch, "/api/products/"+url.PathEscape(id), nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct elimina un producto.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, fiber.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil, nil, true)
}

// ProductHistory historial de auditoría de un producto.
func (c *Client) ProductHistory(ctx context.Context, id string) ([]dto.ProductEventResponse, error) {
	var out []dto.ProductEventResponse
	if err := c.do(ctx, fiber.MethodGet, "/api/products/"+url.PathEscape(id)+"/history", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Dashboard dashboard según el rol de la sesión.
func (c *Client) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	var out dto.DashboardResponse
	if err := c.do(ctx, fiber.MethodGet, "/api/dashboard", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activities últimos eventos de auditoría de la empresa (admin y approver).
func (c *Client) Activities(ctx context.Context, limit int) (*dto.ActivityListResponse, error) {
	var out dto.ActivityListResponse
	q := pageQuery(dto.PageRequest{Limit: limit})
	if err := c.do(ctx, fiber.MethodGet, "/api/dashboard/activities", q, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, auth bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if auth && c.token == "" {
		return ErrNoToken
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if len(query) > 0 {
		a.QueryString(query.Encode())
	}
	if body != nil {
		a.JSON(body)
	}
	if auth {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	a.Timeout(c.requestTimeout(ctx))

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	code, raw, errs := a.Bytes()
	if len(errs) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("client: %s %s: %w", method, path, errors.Join(errs...))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if code >= fiber.StatusBadRequest {
		return decodeError(code, raw)
	}
	if out == nil || code == fiber.StatusNoContent || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: respuesta inválida de %s %s: %w", method, path, err)
	}
	return nil
}

// requestTimeout acota el timeout al deadline del contexto.
func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout || timeout <= 0 {
			timeout = left
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}

func decodeError(code int, raw []byte) error {
	apiErr := &APIError{Status: code}
	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}

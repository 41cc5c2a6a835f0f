// Package session produce, persiste y limpia la identidad autenticada del lado cliente.
//
// El Manager se inyecta explícitamente donde se necesita; no hay estado global.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// DefaultTTL duración de una sesión.
const DefaultTTL = 7 * 24 * time.Hour

// Authenticator valida credenciales y devuelve la identidad y el token de acceso.
// Credenciales incorrectas → domain.ErrInvalidCredentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (entity.Identity, string, error)
}

// Store persiste el estado serializado de la sesión.
// Load devuelve (nil, nil) si no hay nada guardado; Clear es idempotente.
type Store interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Clear() error
}

// state forma persistida de la sesión.
type state struct {
	Identity  entity.Identity `json:"identity"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (s state) valid(now time.Time) bool {
	return !s.Identity.IsZero() &&
		entity.IsValidRole(s.Identity.Role) &&
		s.Identity.BusinessID != "" &&
		s.Token != "" &&
		now.Before(s.ExpiresAt)
}

// Manager coordina login, logout y lectura de la sesión actual.
type Manager struct {
	auth  Authenticator
	store Store
	ttl   time.Duration
	now   func() time.Time
	log   *logger.Logger
	mu    sync.Mutex
}

// Option configura el Manager.
type Option func(*Manager)

// WithTTL cambia la duración de la sesión.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock inyecta el reloj (tests de expiración).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger asigna el logger.
func WithLogger(log *logger.Logger) Option {
	return func(m *Manager) { m.log = log.Component("session") }
}

// NewManager construye el Manager.
func NewManager(auth Authenticator, store Store, opts ...Option) *Manager {
	m := &Manager{
		auth:  auth,
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login autentica y persiste identidad + token con expiración ttl.
// Si la autenticación falla el estado previo no se toca.
func (m *Manager) Login(ctx context.Context, email, password string) (entity.Identity, error) {
	identity, token, err := m.auth.Authenticate(ctx, email, password)
	if err != nil {
		return entity.Identity{}, err
	}
	if identity.IsZero() || token == "" {
		return entity.Identity{}, fmt.Errorf("%w: respuesta de autenticación incompleta", domain.ErrUnauthorized)
	}
	data, err := json.Marshal(state{Identity: identity, Token: token, ExpiresAt: m.now().Add(m.ttl)})
	if err != nil {
		return entity.Identity{}, fmt.Errorf("serializar sesión: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Save(data); err != nil {
		return entity.Identity{}, fmt.Errorf("guardar sesión: %w", err)
	}
	m.log.Info().Str("user_id", identity.ID).Str("role", identity.Role).Msg("sesión iniciada")
	return identity, nil
}

// Logout limpia la sesión persistida. Idempotente.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("limpiar sesión: %w", err)
	}
	return nil
}

// Current devuelve la identidad persistida o nil si no hay sesión válida.
// Datos corruptos o expirados limpian el store y no son un error.
func (m *Manager) Current() (*entity.Identity, error) {
	st, err := m.load()
	if err != nil || st == nil {
		return nil, err
	}
	id := st.Identity
	return &id, nil
}

// Token devuelve el token de la sesión vigente o "" si no hay sesión.
func (m *Manager) Token() (string, error) {
	st, err := m.load()
	if err != nil || st == nil {
		return "", err
	}
	return st.Token, nil
}

func (m *Manager) load() (*state, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := m.store.Load()
	if err != nil {
		return nil, fmt.Errorf("leer sesión: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil || !st.valid(m.now()) {
		reason := "inválida o expirada"
		if err != nil {
			reason = "corrupta"
		}
		m.log.Warn().Str("reason", reason).Msg("descartando sesión persistida")
		if cerr := m.store.Clear(); cerr != nil {
			return nil, fmt.Errorf("limpiar sesión: %w", cerr)
		}
		return nil, nil
	}
	return &st, nil
}

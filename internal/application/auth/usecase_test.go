package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutesi02/product-marketplace/internal/application/auth"
	"github.com/Mutesi02/product-marketplace/internal/application/dto"
	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/infrastructure/memory"
	"github.com/Mutesi02/product-marketplace/pkg/jwt"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

const secret = "test-secret"

func newUseCase(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), store.Businesses(), store,
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "marketplace-test"}, logger.Nop())
	return uc, store
}

func registerReq() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:           "Owner@Acme.com ",
		Password:        "password123",
		PasswordConfirm: "password123",
		FirstName:       "ana",
		LastName:        "pérez",
		BusinessName:    "Acme",
		Industry:        "retail",
		CompanySize:     "10-50",
	}
}

func TestRegister_CreaEmpresaYAdmin(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	res, err := uc.Register(ctx, registerReq())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, res.Identity.Role)
	assert.Equal(t, "owner@acme.com", res.Identity.Email)
	assert.Equal(t, "Ana Pérez", res.Identity.DisplayName)

	b, err := store.Businesses().GetByID(ctx, res.Identity.BusinessID)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "Acme", b.Name)

	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Identity.ID, claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestRegister_Validaciones(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	cases := map[string]func(r *dto.RegisterRequest){
		"email":            func(r *dto.RegisterRequest) { r.Email = "no-es-email" },
		"password":         func(r *dto.RegisterRequest) { r.Password, r.PasswordConfirm = "corta", "corta" },
		"password_confirm": func(r *dto.RegisterRequest) { r.PasswordConfirm = "otra-cosa-123" },
		"business_name":    func(r *dto.RegisterRequest) { r.BusinessName = "  " },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			req := registerReq()
			mutate(&req)
			_, err := uc.Register(ctx, req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestRegister_EmailDuplicadoNoDejaEmpresaHuerfana(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, registerReq())
	require.NoError(t, err)

	req := registerReq()
	req.BusinessName = "Otra"
	_, err = uc.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	b, err := store.Businesses().GetByName(ctx, "Otra")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestLogin(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	reg, err := uc.Register(ctx, registerReq())
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "OWNER@acme.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, reg.Identity, res.Identity)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "owner@acme.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@acme.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	u, err := store.Users().GetByID(ctx, reg.Identity.ID)
	require.NoError(t, err)
	u.Status = entity.UserStatusInactive
	require.NoError(t, store.Users().Update(ctx, u))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "owner@acme.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAuthenticateYProfile(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, registerReq())
	require.NoError(t, err)

	identity, token, err := uc.Authenticate(ctx, "owner@acme.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	profile, err := uc.Profile(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "Acme", profile.Business.Name)
	assert.Equal(t, identity.ID, profile.User.ID)

	_, err = uc.Profile(ctx, entity.Identity{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolveIdentity_UsaElUsuarioGuardado(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	res, err := uc.Register(ctx, registerReq())
	require.NoError(t, err)
	claimed := res.Identity

	got, err := uc.ResolveIdentity(ctx, claimed)
	require.NoError(t, err)
	assert.Equal(t, claimed, got)

	u, err := store.Users().GetByID(ctx, claimed.ID)
	require.NoError(t, err)
	u.Role = entity.RoleViewer
	require.NoError(t, store.Users().Update(ctx, u))
	got, err = uc.ResolveIdentity(ctx, claimed)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleViewer, got.Role, "el rol del token queda obsoleto")

	otro := claimed
	otro.BusinessID = "00000000-0000-0000-0000-00000000000b"
	_, err = uc.ResolveIdentity(ctx, otro)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	u.Status = entity.UserStatusInactive
	require.NoError(t, store.Users().Update(ctx, u))
	_, err = uc.ResolveIdentity(ctx, claimed)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, store.Users().Delete(ctx, u.ID))
	_, err = uc.ResolveIdentity(ctx, claimed)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

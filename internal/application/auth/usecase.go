package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mutesi02/product-marketplace/internal/application/dto"
	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
	"github.com/Mutesi02/product-marketplace/pkg/jwt"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y perfil.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	businessRepo repository.BusinessRepository
	tx           repository.TxRunner
	jwtCfg       JWTConfig
	log          *logger.Logger
	now          func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	businessRepo repository.BusinessRepository,
	tx repository.TxRunner,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		businessRepo: businessRepo,
		tx:           tx,
		jwtCfg:       jwtCfg,
		log:          log.Component("auth"),
		now:          time.Now,
	}
}

// Register crea la empresa y su primer usuario con rol admin en una sola transacción.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Password != in.PasswordConfirm {
		return nil, domain.NewValidationError("password_confirm", "no coincide con password")
	}
	businessName := strings.TrimSpace(in.BusinessName)
	if businessName == "" {
		return nil, domain.NewValidationError("business_name", "es obligatorio")
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	business := &entity.Business{
		ID:          uuid.New().String(),
		Name:        businessName,
		Industry:    strings.TrimSpace(in.Industry),
		CompanySize: strings.TrimSpace(in.CompanySize),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		BusinessID:   business.ID,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         entity.RoleAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.RunAccount(ctx, func(businesses repository.BusinessRepository, users repository.UserRepository) error {
		existing, err := users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := businesses.Create(ctx, business); err != nil {
			return err
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("business_id", business.ID).Msg("empresa registrada")
	return uc.issue(user)
}

// Login verifica email/password, genera JWT y retorna token + identidad.
// Email desconocido y password incorrecto producen el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("%w: cuenta inactiva", domain.ErrForbidden)
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("login")
	return uc.issue(user)
}

// Authenticate permite usar el caso de uso como autenticador de sesión en proceso.
func (uc *AuthUseCase) Authenticate(ctx context.Context, email, password string) (entity.Identity, string, error) {
	res, err := uc.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return entity.Identity{}, "", err
	}
	return res.Identity, res.Token, nil
}

// Profile devuelve el usuario y su empresa.
func (uc *AuthUseCase) Profile(ctx context.Context, id entity.Identity) (*dto.ProfileResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	business, err := uc.businessRepo.GetByID(ctx, user.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.ProfileResponse{
		User:     dto.ToUserResponse(user),
		Business: dto.ToBusinessResponse(business),
	}, nil
}

// ResolveIdentity relee el usuario del token en cada petición. Un usuario borrado,
// desactivado o movido de empresa pierde el acceso aunque su token siga vigente,
// y un cambio de rol se aplica sin esperar a que el token expire.
func (uc *AuthUseCase) ResolveIdentity(ctx context.Context, claimed entity.Identity) (entity.Identity, error) {
	user, err := uc.userRepo.GetByID(ctx, claimed.ID)
	if err != nil {
		return entity.Identity{}, err
	}
	if user == nil || user.Status != entity.UserStatusActive || user.BusinessID != claimed.BusinessID {
		uc.log.Info().Str("user_id", claimed.ID).Msg("sesión revocada")
		return entity.Identity{}, domain.ErrUnauthorized
	}
	return user.Identity(), nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	identity := user.Identity()
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Subject{
		UserID:     identity.ID,
		BusinessID: identity.BusinessID,
		Role:       identity.Role,
		Email:      identity.Email,
		Name:       identity.DisplayName,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	return &dto.LoginResponse{
		Token:    token,
		Identity: identity,
		User:     dto.ToUserResponse(user),
	}, nil
}

// HashPassword aplica bcrypt con el costo por defecto.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.NewValidationError("password", "supera 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// ValidateEmail exige un email con formato válido.
func ValidateEmail(email string) error {
	if email == "" {
		return domain.NewValidationError("email", "es obligatorio")
	}
	if !govalidator.IsEmail(email) {
		return domain.NewValidationError("email", "formato inválido")
	}
	return nil
}

// ValidatePassword exige la longitud mínima.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return domain.NewValidationError("password", fmt.Sprintf("requiere al menos %d caracteres", MinPasswordLength))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

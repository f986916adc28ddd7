package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
	"github.com/jhoicas/pos-ledger-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación: login, alta de usuarios y bootstrap.
type UseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica username/password, genera JWT y retorna token + rol.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Unauthorizedf("credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.Unauthorizedf("credenciales inválidas")
	}
	if !user.IsActive {
		return nil, domain.Unauthorizedf("usuario inactivo")
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:       token,
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}, nil
}

// CreateUser da de alta un usuario: hashea el password con bcrypt y persiste.
func (uc *UseCase) CreateUser(username, password, displayName, role string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.Validationf("el nombre de usuario es obligatorio")
	}
	if len(password) < 4 {
		return nil, domain.Validationf("el password debe tener al menos 4 caracteres")
	}
	if role != entity.RoleManager && role != entity.RoleCashier {
		return nil, domain.Validationf("rol desconocido: %s", role)
	}
	existing, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Duplicatef("nombre de usuario ya registrado: %s", username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureBootstrapManager siembra el manager inicial cuando la tabla de
// usuarios está vacía, para que el sistema no arranque sin acceso.
func (uc *UseCase) EnsureBootstrapManager(username, password string) (*entity.User, error) {
	count, err := uc.userRepo.Count()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}
	return uc.CreateUser(username, password, "Administrador", entity.RoleManager)
}

package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-ledger-api/internal/application/auth"
	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/pos-ledger-api/pkg/jwt"
)

const testSecret = "secret-de-pruebas"

func newAuthUC(store *memory.Store) *auth.UseCase {
	return auth.NewUseCase(store.Users(), auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "pos-ledger-test",
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateUser
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateUser_HasheaPasswordYAsignaRol(t *testing.T) {
	store := memory.NewStore()
	uc := newAuthUC(store)

	user, err := uc.CreateUser("lucia", "clave123", "Lucía Torres", entity.RoleCashier)
	require.NoError(t, err)
	assert.Equal(t, "lucia", user.Username)
	assert.Equal(t, entity.RoleCashier, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "clave123", user.PasswordHash, "el password nunca se guarda en claro")
}

func TestCreateUser_UsernameDuplicado_RetornaDuplicate(t *testing.T) {
	store := memory.NewStore()
	uc := newAuthUC(store)

	_, err := uc.CreateUser("pedro", "clave123", "Pedro", entity.RoleCashier)
	require.NoError(t, err)
	_, err = uc.CreateUser("pedro", "otraclave", "Pedro 2", entity.RoleManager)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateUser_RolDesconocido_RetornaValidation(t *testing.T) {
	store := memory.NewStore()
	uc := newAuthUC(store)

	_, err := uc.CreateUser("ana", "clave123", "Ana", "superadmin")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateUser_PasswordCorto_RetornaValidation(t *testing.T) {
	store := memory.NewStore()
	uc := newAuthUC(store)

	_, err := uc.CreateUser("ana", "abc", "Ana", entity.RoleCashier)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesValidas_EmiteTokenConRol(t *testing.T) {
	store := memory.NewStore()
	uc := newAuthUC(store)
	created, err := uc.CreateUser("carlos", "clave123", "Carlos", entity.RoleManager)
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Username: "carlos", Password: "clave123"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.UserID)
	assert.Equal(t, entity.RoleManager, resp.Role)
	assert.Equal(t, "Carlos", resp.DisplayName)

	userID, role, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, entity.RoleManager, role)
}

func TestLogin_PasswordIncorrecto_RetornaUnauthorized(t *testing.T) {
	store := memory.NewStore()
	uc := newAuthUC(store)
	_, err := uc.CreateUser("carlos", "clave123", "Carlos", entity.RoleManager)
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Username: "carlos", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente_RetornaUnauthorized(t *testing.T) {
	store := memory.NewStore()
	uc := newAuthUC(store)

	_, err := uc.Login(dto.LoginRequest{Username: "fantasma", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo_RetornaUnauthorized(t *testing.T) {
	store := memory.NewStore()
	uc := newAuthUC(store)

	hash, err := bcrypt.GenerateFromPassword([]byte("clave123"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, store.Users().Create(&entity.User{
		ID:           uuid.New().String(),
		Username:     "retirado",
		PasswordHash: string(hash),
		DisplayName:  "Retirado",
		Role:         entity.RoleCashier,
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	_, err = uc.Login(dto.LoginRequest{Username: "retirado", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// EnsureBootstrapManager
// ──────────────────────────────────────────────────────────────────────────────

func TestEnsureBootstrapManager_SiembraSoloConTablaVacia(t *testing.T) {
	store := memory.NewStore()
	uc := newAuthUC(store)

	seeded, err := uc.EnsureBootstrapManager("admin", "admin123")
	require.NoError(t, err)
	require.NotNil(t, seeded)
	assert.Equal(t, entity.RoleManager, seeded.Role)

	// Segunda llamada: ya hay usuarios, no siembra nada.
	again, err := uc.EnsureBootstrapManager("admin", "admin123")
	require.NoError(t, err)
	assert.Nil(t, again)

	count, err := store.Users().Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-admin/internal/application/auth"
	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/usecase"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/access"
	"github.com/jhoicas/inventario-admin/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-admin/pkg/jwt"
	"github.com/jhoicas/inventario-admin/pkg/password"
)

const secret = "test-secret"

func setup(t *testing.T) (*auth.AuthUseCase, *usecase.UserUseCase) {
	t.Helper()
	store := memory.NewStore()
	hasher := password.NewHasher(bcrypt.MinCost)
	users := usecase.NewUserUseCase(store, store.Users(), hasher)
	_, err := users.Create(context.Background(), access.System(), dto.CreateUserRequest{
		Username: "jefe", Email: "jefe@inventori.com", FullName: "Jefe", Password: "clave123", Role: "ADMIN",
	})
	require.NoError(t, err)
	return auth.NewAuthUseCase(store.Users(), hasher, auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "test"}), users
}

func TestLogin_OK(t *testing.T) {
	uc, _ := setup(t)
	res, err := uc.Login(context.Background(), dto.LoginRequest{Username: "jefe", Password: "clave123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, 1800, res.ExpiresIn)
	assert.Equal(t, "ADMIN", res.User.Role)

	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "jefe", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "", Password: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	uc, users := setup(t)
	list, err := users.List(context.Background())
	require.NoError(t, err)
	_, err = users.ToggleStatus(context.Background(), access.System(), list[0].ID)
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "jefe", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

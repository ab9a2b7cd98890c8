package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (*fakeStore, *service.AuthService) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	store := newFakeStore()
	store.employees = append(store.employees, &domain.Employee{
		ID: "e-1", EmployeeID: "EMP001", BranchID: "BRN001",
		Name: "Priya", Email: "priya@example.com", Role: domain.RoleManager,
		PasswordHash: string(hash), Active: true,
	})

	svc := service.NewAuthService(store, testSecret, 15*time.Minute, 24*time.Hour, zap.NewNop())
	return store, svc
}

func TestLogin_Success(t *testing.T) {
	_, svc := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email: "priya@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "EMP001", resp.EmployeeID)
	assert.Equal(t, domain.RoleManager, resp.Role)

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", claims.Sub)
	assert.Equal(t, "BRN001", claims.Branch)
	assert.Equal(t, "access", claims.Type)
}

func TestLogin_UniformRejection(t *testing.T) {
	store, svc := newAuthFixture(t)
	ctx := context.Background()

	// Unknown email, wrong password and inactive account all read the same.
	_, unknownErr := svc.Login(ctx, &domain.LoginRequest{Email: "nobody@example.com", Password: "x"})
	_, badPassErr := svc.Login(ctx, &domain.LoginRequest{Email: "priya@example.com", Password: "wrong"})
	store.employees[0].Active = false
	_, inactiveErr := svc.Login(ctx, &domain.LoginRequest{Email: "priya@example.com", Password: "s3cret-pass"})

	for _, err := range []error{unknownErr, badPassErr, inactiveErr} {
		var unauthorized *domain.ErrUnauthorized
		require.ErrorAs(t, err, &unauthorized)
		assert.Equal(t, "invalid credentials", unauthorized.Message)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, &domain.LoginRequest{Email: "priya@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, &domain.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The presented token is single-use.
	_, err = svc.Refresh(ctx, &domain.RefreshRequest{RefreshToken: login.RefreshToken})
	var unauthorized *domain.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}

func TestRefresh_UnknownToken(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), &domain.RefreshRequest{RefreshToken: "deadbeef"})
	var unauthorized *domain.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}

func TestLogout_RevokesAllTokens(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, &domain.LoginRequest{Email: "priya@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "EMP001"))

	_, err = svc.Refresh(ctx, &domain.RefreshRequest{RefreshToken: login.RefreshToken})
	var unauthorized *domain.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}

func TestValidateAccessToken_RejectsGarbage(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.ValidateAccessToken("not-a-jwt")
	var unauthorized *domain.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}

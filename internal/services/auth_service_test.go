package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/clock"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
)

type stubAccounts struct {
	login    func(models.LoginRequest) (models.AuthResult, error)
	register func(models.RegisterRequest) (models.AuthResult, error)
	calls    int
}

func (s *stubAccounts) Login(_ context.Context, req models.LoginRequest) (models.AuthResult, error) {
	s.calls++
	return s.login(req)
}

func (s *stubAccounts) Register(_ context.Context, req models.RegisterRequest) (models.AuthResult, error) {
	s.calls++
	return s.register(req)
}

func (s *stubAccounts) ListUsers(context.Context) ([]models.User, error) {
	return []models.User{{ID: "1", Name: "Awa", Role: "customer"}}, nil
}

func newAuthService(t *testing.T, accounts AccountAPI) AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-admin"), bcrypt.MinCost)
	require.NoError(t, err)
	return AuthService{
		Accounts:          accounts,
		Secret:            []byte("test-secret"),
		TTL:               2 * time.Hour,
		AdminEmail:        "ops@rental.sn",
		AdminPasswordHash: string(hash),
		Clock:             clock.NewFixed(time.Now()),
	}
}

func TestAuthService_OperatorLogin(t *testing.T) {
	accounts := &stubAccounts{}
	svc := newAuthService(t, accounts)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "OPS@rental.sn", Password: "s3cret-admin"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.Session.Role)
	assert.Zero(t, accounts.calls, "operator login must not reach the API")

	sess, err := svc.Parse(res.Token)
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin())
	assert.Equal(t, res.Session.ID, sess.ID)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "ops@rental.sn", Password: "wrong"})
	assert.True(t, domain.IsUnauthorized(err))
	assert.Zero(t, accounts.calls)
}

func TestAuthService_APILogin(t *testing.T) {
	accounts := &stubAccounts{login: func(req models.LoginRequest) (models.AuthResult, error) {
		if req.Password != "hunter22" {
			return models.AuthResult{}, &apiclient.APIError{Status: 401, Message: "bad credentials"}
		}
		return models.AuthResult{Token: "upstream-tok", User: models.User{ID: "7", Name: "Awa", Email: req.Email, Role: "user"}}, nil
	}}
	svc := newAuthService(t, accounts)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "awa@example.sn", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, res.Session.Role)

	sess, err := svc.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "7", sess.UserID)
	assert.Equal(t, "upstream-tok", sess.APIToken)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "awa@example.sn", Password: "nope"})
	assert.True(t, domain.IsUnauthorized(err))

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: " ", Password: ""})
	fields, ok := domain.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestAuthService_Register(t *testing.T) {
	accounts := &stubAccounts{register: func(req models.RegisterRequest) (models.AuthResult, error) {
		return models.AuthResult{Token: "tok", User: models.User{ID: "9"}}, nil
	}}
	svc := newAuthService(t, accounts)

	res, err := svc.Register(context.Background(), models.RegisterRequest{Name: "Moussa Diop", Email: "moussa@example.sn", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "moussa@example.sn", res.Session.Email)
	assert.Equal(t, "Moussa Diop", res.Session.Name)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Name: "M", Email: "not-an-email", Password: "short"})
	fields, ok := domain.AsFieldErrors(err)
	require.True(t, ok)
	assert.Len(t, fields, 3)
	assert.Equal(t, 1, accounts.calls)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Name: "Ops", Email: "ops@rental.sn", Password: "longenough"})
	assert.True(t, domain.IsConflict(err))
}

func TestAuthService_ParseRejectsBadTokens(t *testing.T) {
	svc := newAuthService(t, &stubAccounts{})
	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "ops@rental.sn", Password: "s3cret-admin"})
	require.NoError(t, err)

	other := svc
	other.Secret = []byte("another-secret")
	_, err = other.Parse(res.Token)
	assert.True(t, domain.IsUnauthorized(err))

	later := svc
	later.Clock = clock.NewFixed(time.Now().Add(3 * time.Hour))
	_, err = later.Parse(res.Token)
	require.Error(t, err)
	assert.Equal(t, "session expired", err.Error())

	_, err = svc.Parse("")
	assert.True(t, domain.IsUnauthorized(err))
}

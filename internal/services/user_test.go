package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/paksmart/storefront/internal/metrics"
	"github.com/paksmart/storefront/internal/models"
	"github.com/paksmart/storefront/internal/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newUserService(t *testing.T) (*UserService, *storetest.Users) {
	t.Helper()
	users := storetest.NewUsers()
	svc := NewUserService(users, storetest.NewRevocations(), testSecret, time.Hour,
		[]string{"owner@paksmart.test"}, metrics.NewNoopMetrics())
	return svc, users
}

func signUpAndIn(t *testing.T, svc *UserService, email string) *models.SignInResponse {
	t.Helper()
	_, err := svc.SignUp(ctx(), models.SignUpRequest{Email: email, Password: "secret1", FullName: "Test User"})
	require.NoError(t, err)
	resp, err := svc.SignIn(ctx(), models.SignInRequest{Email: email, Password: "secret1"})
	require.NoError(t, err)
	return resp
}

func TestSignUp(t *testing.T) {
	svc, _ := newUserService(t)

	u, err := svc.SignUp(ctx(), models.SignUpRequest{Email: " Buyer@Example.com ", Password: "secret1", FullName: " Ali "})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", u.Email)
	assert.Equal(t, "Ali", u.FullName)
	assert.False(t, u.IsAdmin)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	owner, err := svc.SignUp(ctx(), models.SignUpRequest{Email: "OWNER@paksmart.test", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, owner.IsAdmin)

	_, err = svc.SignUp(ctx(), models.SignUpRequest{Email: "buyer@example.com", Password: "another1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.SignUp(ctx(), models.SignUpRequest{Email: "short@example.com", Password: "12345"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.SignUp(ctx(), models.SignUpRequest{Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestSignIn(t *testing.T) {
	svc, _ := newUserService(t)
	resp := signUpAndIn(t, svc, "buyer@example.com")

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "buyer@example.com", resp.User.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	_, err := svc.SignIn(ctx(), models.SignInRequest{Email: "buyer@example.com", Password: "wrong-one"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx(), models.SignInRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx(), models.SignInRequest{Email: "", Password: ""})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestAuthenticate(t *testing.T) {
	svc, users := newUserService(t)
	resp := signUpAndIn(t, svc, "buyer@example.com")

	s, err := svc.Authenticate(ctx(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, s.UserID)
	assert.False(t, s.IsAdmin)
	assert.NotEmpty(t, s.TokenID)

	users.SetAdmin(resp.User.ID, true)
	s, err = svc.Authenticate(ctx(), resp.Token)
	require.NoError(t, err)
	assert.True(t, s.IsAdmin, "admin flag is read from the account")

	_, err = svc.Authenticate(ctx(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateRejectsForeignAndExpiredTokens(t *testing.T) {
	svc, _ := newUserService(t)
	resp := signUpAndIn(t, svc, "buyer@example.com")

	other, _ := newUserService(t)
	other.secret = []byte("other-secret")
	foreign, err := other.issueToken(resp.User, time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx(), foreign)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	expired, err := svc.issueToken(resp.User, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx(), expired)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": resp.User.ID, "jti": "x", "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx(), unsigned)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSignOut(t *testing.T) {
	svc, _ := newUserService(t)
	resp := signUpAndIn(t, svc, "buyer@example.com")

	s, err := svc.Authenticate(ctx(), resp.Token)
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx(), s))

	_, err = svc.Authenticate(ctx(), resp.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// a fresh sign-in is unaffected
	again, err := svc.SignIn(ctx(), models.SignInRequest{Email: "buyer@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx(), again.Token)
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.SignOut(ctx(), nil), ErrUnauthenticated)
}

func TestGetUser(t *testing.T) {
	svc, _ := newUserService(t)
	resp := signUpAndIn(t, svc, "buyer@example.com")

	u, err := svc.GetUser(ctx(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", u.Email)

	_, err = svc.GetUser(ctx(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/paksmart/storefront/internal/db"
	"github.com/paksmart/storefront/internal/logging"
	"github.com/paksmart/storefront/internal/metrics"
	"github.com/paksmart/storefront/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

var userLog = logging.NewPackageLogger("services.user")

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserService handles accounts and sessions
type UserService struct {
	users       UserRepository
	revoked     RevocationList
	secret      []byte
	ttl         time.Duration
	adminEmails []string
	metrics     *metrics.AppMetrics
}

// NewUserService creates a new user service. Emails in adminEmails are granted admin at sign-up.
func NewUserService(users UserRepository, revoked RevocationList, secret string, ttl time.Duration, adminEmails []string, metrics *metrics.AppMetrics) *UserService {
	return &UserService{
		users:       users,
		revoked:     revoked,
		secret:      []byte(secret),
		ttl:         ttl,
		adminEmails: adminEmails,
		metrics:     metrics,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an account
func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := validate.Struct(req); err != nil {
		return nil, ErrMissingFields
	}
	if len(req.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		IsAdmin:      slices.Contains(s.adminEmails, req.Email),
		CreatedAt:    time.Now().UTC(),
	}
	err = s.users.Create(ctx, u)
	if errors.Is(err, db.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	userLog.Info().Str(logging.USER_ID, u.ID).Bool("admin", u.IsAdmin).Msg("account created")
	return u, nil
}

// SignIn checks the credentials and issues a bearer token
func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (*models.SignInResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		s.recordSignIn(ctx, false)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordSignIn(ctx, false)
		return nil, ErrInvalidCredentials
	}

	expires := time.Now().Add(s.ttl)
	token, err := s.issueToken(u, expires)
	if err != nil {
		return nil, err
	}

	s.recordSignIn(ctx, true)
	userLog.Info().Str(logging.USER_ID, u.ID).Msg("signed in")
	return &models.SignInResponse{Token: token, ExpiresAt: expires.UTC(), User: u}, nil
}

func (s *UserService) issueToken(u *models.User, expires time.Time) (string, error) {
	claims := sessionClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Authenticate resolves a bearer token into a session.
// The admin flag is read from the account so a demotion takes effect immediately.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || claims.Subject == "" || claims.ID == "" {
		return nil, ErrUnauthenticated
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrUnauthenticated
	}

	u, err := s.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	return &models.Session{
		UserID:    u.ID,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignOut revokes the session's token for the rest of its lifetime
func (s *UserService) SignOut(ctx context.Context, session *models.Session) error {
	if session == nil {
		return ErrUnauthenticated
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, session.TokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	userLog.Info().Str(logging.USER_ID, session.UserID).Msg("signed out")
	return nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *UserService) recordSignIn(ctx context.Context, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	s.metrics.SignIns.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("result", result),
	})...))
}

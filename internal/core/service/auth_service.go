package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
	"github.com/atelier-numerique/agency-api/internal/core/validation"
	"github.com/atelier-numerique/agency-api/pkg/metrics"
)

const defaultTokenTTL = 4 * time.Hour

// TokenConfig controls how session tokens are signed and checked.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// sessionClaims is the JWT payload. The subject holds the user id.
type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// WithDenylist enables server-side revocation on logout.
func WithDenylist(d ports.TokenDenylist) AuthOption {
	return func(s *AuthService) { s.denylist = d }
}

// WithAuthLogger attaches a logger; the default discards output.
func WithAuthLogger(log zerolog.Logger) AuthOption {
	return func(s *AuthService) { s.log = log }
}

// AuthService implements login, token verification, refresh and logout.
type AuthService struct {
	repo     ports.UserRepository
	cfg      TokenConfig
	validate *validation.Validator
	denylist ports.TokenDenylist
	now      func() time.Time
	log      zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, cfg TokenConfig, validate *validation.Validator, opts ...AuthOption) *AuthService {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTokenTTL
	}
	s := &AuthService{
		repo:     repo,
		cfg:      cfg,
		validate: validate,
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks, in order: account existence, admin role, password.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if err := s.validate.Struct(in); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("unknown_user").Inc()
		}
		return nil, err
	}

	if !user.IsAdmin() {
		metrics.LoginAttemptsTotal.WithLabelValues("forbidden").Inc()
		s.log.Warn().Str("email", user.Email).Str("role", user.Role).Msg("login refused: not an admin")
		return nil, domain.ErrForbidden
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_password").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.issue(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("email", user.Email).Msg("admin logged in")
	return &ports.LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// Verify validates signature, algorithm, issuer, audience and expiry, then
// confirms the account still exists.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.Claims, error) {
	claims := &sessionClaims{}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(s.cfg.Audience))
	}

	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid || claims.Subject == "" || claims.Email == "" {
		return nil, domain.ErrTokenInvalid
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail open: the denylist is an optional hardening layer.
			s.log.Warn().Err(err).Msg("denylist lookup failed")
		} else if revoked {
			return nil, domain.ErrTokenInvalid
		}
	}

	if _, err := s.repo.FindByEmail(ctx, claims.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	return toDomainClaims(claims), nil
}

// Refresh re-issues a token for the same identity with a fresh expiry.
func (s *AuthService) Refresh(_ context.Context, c *domain.Claims) (*ports.LoginResult, error) {
	if c == nil {
		return nil, domain.ErrUnauthorized
	}
	token, exp, err := s.issue(c.UserID, c.Email, c.Name, c.Role)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{
		Token:     token,
		ExpiresAt: exp,
		User:      &domain.User{ID: c.UserID, Email: c.Email, Name: c.Name, Role: c.Role},
	}, nil
}

// Logout revokes the token id when a denylist is configured. Without one the
// token stays valid until it expires; only the cookie is cleared.
func (s *AuthService) Logout(ctx context.Context, c *domain.Claims) error {
	if s.denylist == nil || c == nil || c.TokenID == "" {
		return nil
	}
	ttl := c.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, c.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Provision creates a back-office account, or overwrites its password, name
// and role when in.Overwrite is set.
func (s *AuthService) Provision(ctx context.Context, in ports.ProvisionInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, domain.ErrUserExists) || !in.Overwrite {
		return nil, err
	}
	return s.repo.UpdateCredentials(ctx, in.Email, in.Name, string(hash), in.Role)
}

func (s *AuthService) issue(userID, email, name, role string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TTL)
	claims := sessionClaims{
		Email: email,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if s.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func toDomainClaims(c *sessionClaims) *domain.Claims {
	out := &domain.Claims{
		TokenID: c.ID,
		UserID:  c.Subject,
		Email:   c.Email,
		Name:    c.Name,
		Role:    c.Role,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}

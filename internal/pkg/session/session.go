package session

import (
	"context"
	"time"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errs.Mark(errs.New("invalid session token"), errs.ErrUnauthorized)
	ErrExpiredToken = errs.Mark(errs.New("session expired"), errs.ErrUnauthorized)
	ErrRevokedToken = errs.Mark(errs.New("session revoked"), errs.ErrUnauthorized)
)

// RevocationStore remembers revoked token ids until the token would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Claims struct {
	auth.Principal
	jwt.RegisteredClaims
}

type Service struct {
	secretKey []byte
	ttl       time.Duration
	clock     clock.Clock
	revoked   RevocationStore
}

func NewService(secretKey string, ttl time.Duration, clk clock.Clock, revoked RevocationStore) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		clock:     clk,
		revoked:   revoked,
	}
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a new session for p. The token id is a random uuid so the
// session can be revoked individually.
func (s *Service) Issue(p auth.Principal) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Principal: p,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, errs.Wrap(err, "failed to sign session token")
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry of token and rejects revoked sessions.
func (s *Service) Parse(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.parse(token, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to check session revocation"), errs.ErrServiceUnavailable)
	}
	if revoked {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// Revoke invalidates token until its expiry. Malformed or already expired
// tokens are ignored.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	until := claims.ExpiresAt.Time
	if !until.After(s.clock.Now()) {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, until); err != nil {
		return errs.Mark(errs.Wrap(err, "failed to revoke session"), errs.ErrServiceUnavailable)
	}
	return nil
}

func (s *Service) parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secretKey, nil
	}, opts...)
	if err != nil {
		if errs.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

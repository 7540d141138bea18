package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Default session lifetime. Tokens are stateless, so expiry is the only
// revocation mechanism.
const DefaultTTL = 4 * time.Hour

var (
	ErrInvalidToken = errors.New("token is malformed or wrongly signed")
	ErrExpired      = errors.New("token has expired")
)

// Claims is the identity assertion carried inside a session token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Service mints and validates signed session tokens. Verification is
// stateless: there is no server-side session table to consult.
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// New builds a token service around a symmetric secret.
func New(secret, issuer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs an identity payload and stamps it with the configured lifetime.
// No credential check happens here; the caller is trusted to have
// authenticated the identity upstream.
func (s *Service) Issue(email, name string) (string, error) {
	if email == "" {
		return "", ErrInvalidToken
	}

	issuedAt := s.now()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks structure, signature and expiry, and returns the embedded
// claims on success.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpired
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// WithClock overrides the issuance clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"blogauth/internal/domain"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrUnexpectedMethod = errors.New("unexpected signing method")
)

// Service signs and validates access tokens. Stateless; safe for
// concurrent use.
type Service struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// Claims is the full claim set of an access token. Custom user claims
// are carried under "claims" as an ordered list so signing stays
// deterministic.
type Claims struct {
	Email    string         `json:"email,omitempty"`
	Username string         `json:"username,omitempty"`
	UID      string         `json:"uid,omitempty"`
	Roles    []string       `json:"roles,omitempty"`
	Extra    []domain.Claim `json:"claims,omitempty"`
	jwtlib.RegisteredClaims
}

func New(secret, issuer, audience string, ttl time.Duration) *Service {
	return &Service{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

// Generate signs a fresh access token for the user. Returns the compact
// token, its jti and its expiry so the caller can bind a refresh token
// record to it.
func (s *Service) Generate(user *domain.User) (token string, jti string, expiresOn time.Time, err error) {
	now := time.Now()
	jti = uuid.NewString()
	expiresOn = now.Add(s.ttl)

	claims := Claims{
		Email:    user.Email,
		Username: user.Username,
		UID:      strconv.FormatInt(user.ID, 10),
		Roles:    user.Roles,
		Extra:    user.Claims,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Audience:  jwtlib.ClaimStrings{s.audience},
			ExpiresAt: jwtlib.NewNumericDate(expiresOn),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token, err = jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, jti, expiresOn, nil
}

// Validate fully validates a token, including expiry. Used by the auth
// middleware on every protected request.
func (s *Service) Validate(tokenStr string) (*Claims, error) {
	return s.parse(tokenStr)
}

// ParseExpired validates structure and signature but not lifetime.
// Refresh exchanges specifically expired tokens, so expiry is checked by
// the caller against the exp claim, not here.
func (s *Service) ParseExpired(tokenStr string) (*Claims, error) {
	return s.parse(tokenStr, jwtlib.WithoutClaimsValidation())
}

func (s *Service) parse(tokenStr string, opts ...jwtlib.ParserOption) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		// Pin the algorithm: a token signed with anything other than
		// HMAC must not reach signature verification with our key.
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedMethod, t.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, ErrUnexpectedMethod) {
			return nil, ErrUnexpectedMethod
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

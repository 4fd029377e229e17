package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"blogauth/internal/domain"
	jwtsvc "blogauth/internal/pkg/jwt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const opaqueTokenLength = 35

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type jwtService interface {
	Generate(user *domain.User) (token string, jti string, expiresOn time.Time, err error)
	ParseExpired(tokenStr string) (*jwtsvc.Claims, error)
}

// Service contains all business logic for authentication: registration,
// login, refresh-token rotation and revocation.
type Service struct {
	users      UserRepositoryInterface
	tokens     RefreshTokenRepositoryInterface
	jwt        jwtService
	refreshTTL time.Duration
	randSource io.Reader
}

func NewService(
	users UserRepositoryInterface,
	tokens RefreshTokenRepositoryInterface,
	jwt jwtService,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		jwt:        jwt,
		refreshTTL: refreshTTL,
		randSource: rand.Reader,
	}
}

// WithRandSource replaces the randomness behind opaque refresh tokens.
// Tests inject a deterministic reader to assert format, not value.
func (s *Service) WithRandSource(r io.Reader) *Service {
	s.randSource = r
	return s
}

// Register validates and creates a new credential. All validation
// failures are collected into one list; an empty list means success.
// Nothing is persisted unless the list comes back empty.
func (s *Service) Register(ctx context.Context, req RegisterRequest) ([]string, error) {
	messages := []string{}

	emailTaken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		messages = append(messages, MsgEmailAlreadyInUse)
	}

	usernameTaken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		messages = append(messages, MsgUsernameAlreadyTaken)
	}

	if req.Password != req.ConfirmPassword {
		messages = append(messages, MsgPasswordMismatch)
	}

	if len(messages) > 0 {
		return messages, nil
	}

	user := &domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
	}
	problems, err := s.users.Create(ctx, user, req.Password)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		return problems, nil
	}

	if err := s.users.AddRole(ctx, user.ID, domain.RoleUser); err != nil {
		return nil, err
	}

	return messages, nil
}

// Login authenticates by email and password and issues a token pair.
// A missing user and a wrong password produce the identical response.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notAuthenticated(MsgInvalidCredentials), nil
		}
		return nil, err
	}

	if !s.users.VerifyPassword(user, req.Password) {
		return notAuthenticated(MsgInvalidCredentials), nil
	}

	if user.IsSuspended {
		return notAuthenticated(MsgAccountSuspended), nil
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, pair.record); err != nil {
		return nil, err
	}
	return pair.response, nil
}

// Revoke deletes any refresh token held by the user. Calling it when no
// token exists is a no-op, not an error.
func (s *Service) Revoke(ctx context.Context, userID int64) error {
	token, err := s.tokens.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	_, err = s.tokens.DeleteByID(ctx, token.ID)
	return err
}

// Refresh exchanges an expired-but-genuine access token plus its live
// refresh token for a brand-new pair. The presented refresh token is
// consumed; at most one concurrent attempt with the same token wins.
//
// Returns (nil, nil) when the access token fails structural or
// signature validation; the handler answers "Invalid token". All other
// refusals come back as an unauthenticated response naming the check
// that failed. The method never lets an internal fault escape.
func (s *Service) Refresh(ctx context.Context, req TokenRequest) (resp *LoginResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = notAuthenticated(fmt.Sprintf("%v", r))
			err = nil
		}
	}()

	// 1+2: structure, signature, signing algorithm. Lifetime is
	// deliberately not validated here.
	claims, parseErr := s.jwt.ParseExpired(req.Token)
	if parseErr != nil {
		return nil, nil
	}
	if claims.ExpiresAt == nil || claims.ID == "" {
		return nil, nil
	}

	// 3: refresh is only for lapsed tokens, not early renewal.
	now := time.Now().UTC()
	if claims.ExpiresAt.After(now) {
		return notAuthenticated(MsgTokenNotExpired), nil
	}

	// 4: the refresh token must exist.
	stored, lookupErr := s.tokens.GetByToken(ctx, req.RefreshToken)
	if lookupErr != nil {
		if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return notAuthenticated(MsgTokenNotFound), nil
		}
		return notAuthenticated(lookupErr.Error()), nil
	}

	// 5: and must not have been revoked.
	if stored.IsRevoked {
		return notAuthenticated(MsgTokenRevoked), nil
	}

	// 6: and must belong to exactly this access token.
	if stored.JwtID != claims.ID {
		return notAuthenticated(MsgTokenMismatch), nil
	}

	// 7: and must itself still be alive.
	if stored.IsExpired(now) {
		return notAuthenticated(MsgRefreshTokenExpired), nil
	}

	// 8: consume and reissue.
	user, userErr := s.users.GetByID(ctx, stored.UserID)
	if userErr != nil {
		return notAuthenticated(userErr.Error()), nil
	}
	if user.IsSuspended {
		return notAuthenticated(MsgAccountSuspended), nil
	}

	pair, pairErr := s.issueTokenPair(ctx, user)
	if pairErr != nil {
		return notAuthenticated(pairErr.Error()), nil
	}

	rotated, rotateErr := s.tokens.Rotate(ctx, stored.ID, pair.record)
	if rotateErr != nil {
		return notAuthenticated(rotateErr.Error()), nil
	}
	if !rotated {
		// lost the race: someone else redeemed this token first
		return notAuthenticated(MsgTokenNotFound), nil
	}

	return pair.response, nil
}

type tokenPair struct {
	response *LoginResponse
	record   *domain.RefreshToken
}

// issueTokenPair builds the signed access token and the refresh token
// record bound to its jti. The record is not persisted here: login
// inserts it directly, refresh hands it to Rotate so delete-old and
// insert-new commit together.
func (s *Service) issueTokenPair(ctx context.Context, user *domain.User) (*tokenPair, error) {
	roles, err := s.users.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	claims, err := s.users.GetClaims(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	user.Claims = claims

	accessToken, jti, expiresOn, err := s.jwt.Generate(user)
	if err != nil {
		return nil, err
	}

	opaque, err := randomString(s.randSource, opaqueTokenLength)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &domain.RefreshToken{
		// uuid suffix on top of 35 random chars for collision resistance
		Token:      opaque + uuid.NewString(),
		JwtID:      jti,
		UserID:     user.ID,
		AddedDate:  now,
		ExpiryDate: now.Add(s.refreshTTL),
	}

	return &tokenPair{
		response: &LoginResponse{
			IsAuthenticated: true,
			Token:           accessToken,
			RefreshToken:    record.Token,
			ExpiresOn:       expiresOn,
		},
		record: record,
	}, nil
}

func notAuthenticated(message string) *LoginResponse {
	return &LoginResponse{IsAuthenticated: false, ErrorMessage: message}
}

func randomString(r io.Reader, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(out), nil
}

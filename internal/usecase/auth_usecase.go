package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/alexandra-producto/referal-program-sub001/internal/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
)

type AuthUsecase interface {
	Login(ctx context.Context, email, password string) (string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

// Auth authenticates against a configured admin whitelist. There is no user
// table; every admin shares one bcrypt password hash.
type Auth struct {
	adminEmails  map[string]bool
	passwordHash string
	jwt          jwt.Service
}

func NewAuthUsecase(adminEmails []string, passwordHash string, jwtSvc jwt.Service) *Auth {
	emails := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			emails[e] = true
		}
	}
	return &Auth{adminEmails: emails, passwordHash: passwordHash, jwt: jwtSvc}
}

func (u *Auth) Login(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", ErrUnauthorized
	}
	if !u.adminEmails[email] || u.passwordHash == "" {
		return "", "", ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)); err != nil {
		return "", "", ErrUnauthorized
	}

	access, err := u.jwt.GenerateAccessToken(email)
	if err != nil {
		return "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(email)
	if err != nil {
		return "", "", ErrInternal
	}
	return access, refresh, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	// Whitelist changes take effect on the next refresh, not token expiry.
	email := strings.ToLower(claims.Email)
	if !u.adminEmails[email] {
		return "", "", ErrUnauthorized
	}

	access, err := u.jwt.GenerateAccessToken(email)
	if err != nil {
		return "", "", ErrInternal
	}
	newRefresh, err := u.jwt.GenerateRefreshToken(email)
	if err != nil {
		return "", "", ErrInternal
	}
	return access, newRefresh, nil
}

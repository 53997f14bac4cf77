package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexandra-producto/referal-program-sub001/internal/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

func authFixture(t *testing.T) *Auth {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	svc := jwt.NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthUsecase([]string{"Admin@Example.com"}, string(hash), svc)
}

func TestAuthLogin_Success(t *testing.T) {
	uc := authFixture(t)

	access, refresh, err := uc.Login(context.Background(), "admin@example.com", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens, got access=%q refresh=%q", access, refresh)
	}
	if access == refresh {
		t.Fatalf("access and refresh tokens should differ")
	}
}

func TestAuthLogin_WhitelistIsCaseInsensitive(t *testing.T) {
	uc := authFixture(t)

	if _, _, err := uc.Login(context.Background(), "ADMIN@EXAMPLE.COM", "hunter2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuthLogin_Rejections(t *testing.T) {
	uc := authFixture(t)

	cases := []struct {
		name, email, password string
	}{
		{"wrong password", "admin@example.com", "letmein"},
		{"not whitelisted", "mallory@example.com", "hunter2"},
		{"empty email", "", "hunter2"},
		{"empty password", "admin@example.com", ""},
	}
	for _, tc := range cases {
		if _, _, err := uc.Login(context.Background(), tc.email, tc.password); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("%s: got %v, want ErrUnauthorized", tc.name, err)
		}
	}
}

func TestAuthRefresh_RotatesTokens(t *testing.T) {
	uc := authFixture(t)

	_, refresh, err := uc.Login(context.Background(), "admin@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access2, refresh2, err := uc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" {
		t.Fatalf("expected rotated tokens")
	}
}

func TestAuthRefresh_RejectsAccessToken(t *testing.T) {
	uc := authFixture(t)

	access, _, err := uc.Login(context.Background(), "admin@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, _, err := uc.Refresh(context.Background(), access); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("got %v, want ErrInvalidRefreshToken", err)
	}
}

func TestAuthRefresh_RejectsGarbage(t *testing.T) {
	uc := authFixture(t)

	if _, _, err := uc.Refresh(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("got %v, want ErrInvalidRefreshToken", err)
	}
	if _, _, err := uc.Refresh(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty token: got %v, want ErrUnauthorized", err)
	}
}

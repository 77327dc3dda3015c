package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-marika/userbase-backend/internal/config"
	"github.com/m-marika/userbase-backend/internal/store"
)

type stubUsers struct {
	user *store.User
	err  error
}

func (s *stubUsers) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil || s.user.Email != email {
		return nil, store.ErrNotFound
	}
	return s.user, nil
}

func testConfig(ttl time.Duration) config.AuthConfig {
	return config.AuthConfig{SecretKey: "test-secret", TokenTTL: ttl}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("sekret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "sekret1" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "sekret1") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestAuthenticateAndParse(t *testing.T) {
	hash, err := HashPassword("sekret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &store.User{ID: 7, Email: "a@x.y", HashedPassword: hash, IsActive: true}
	svc := NewService(testConfig(time.Hour), &stubUsers{user: user})

	token, err := svc.Authenticate(context.Background(), "a@x.y", "sekret1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "a@x.y" {
		t.Errorf("Subject = %q", claims.Subject)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d", claims.UserID)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	hash, _ := HashPassword("sekret1")
	user := &store.User{ID: 1, Email: "a@x.y", HashedPassword: hash}
	svc := NewService(testConfig(time.Hour), &stubUsers{user: user})

	if _, err := svc.Authenticate(context.Background(), "a@x.y", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody@x.y", "sekret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	user := &store.User{ID: 1, Email: "a@x.y"}
	svc := NewService(testConfig(-time.Minute), &stubUsers{user: user})

	token, err := svc.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := svc.Parse(token); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expired token: got %v", err)
	}
}

func TestParseRejectsForeignToken(t *testing.T) {
	user := &store.User{ID: 1, Email: "a@x.y"}
	other := NewService(config.AuthConfig{SecretKey: "other-secret", TokenTTL: time.Hour}, &stubUsers{user: user})
	svc := NewService(testConfig(time.Hour), &stubUsers{user: user})

	token, err := other.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := svc.Parse(token); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("foreign token: got %v", err)
	}
	if _, err := svc.Parse("not-a-token"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("garbage token: got %v", err)
	}
}

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/m-marika/userbase-backend/internal/config"
	"github.com/m-marika/userbase-backend/internal/store"
)

var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// UserSource is the slice of the store the auth service needs.
type UserSource interface {
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
}

type Claims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	users  UserSource
	ttl    time.Duration
}

func NewService(cfg config.AuthConfig, users UserSource) *Service {
	return &Service{
		secret: []byte(cfg.SecretKey),
		users:  users,
		ttl:    cfg.TokenTTL,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// Authenticate checks the credentials and returns a signed access token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !VerifyPassword(user.HashedPassword, password) {
		return "", ErrInvalidCredentials
	}
	return s.IssueToken(user)
}

func (s *Service) IssueToken(user *store.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredentials
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidCredentials
}

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind - тип токена в claim "type"
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// ErrInvalidToken - любая причина отказа: подпись, срок, тип, claims.
// Причину наружу не раскрываем.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims - полезная нагрузка JWT
type Claims struct {
	Email string    `json:"email"`
	Kind  TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// TokenData - результат успешной проверки токена
type TokenData struct {
	UserID string
	Email  string
}

// TokenService выпускает и проверяет подписанные токены сессии.
// Состояния нет: токен самодостаточен, отзыв не поддерживается.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService создает сервис токенов.
// Один симметричный секрет, один алгоритм (HS256), без ротации ключей.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess выпускает access токен (короткоживущий)
func (s *TokenService) IssueAccess(userID, email string) (string, error) {
	return s.issue(userID, email, TokenKindAccess, s.accessTTL)
}

// IssueRefresh выпускает refresh токен (живет днями)
func (s *TokenService) IssueRefresh(userID, email string) (string, error) {
	return s.issue(userID, email, TokenKindRefresh, s.refreshTTL)
}

func (s *TokenService) issue(userID, email string, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify проверяет подпись, срок действия и тип токена.
// Access токен никогда не принимается там, где ожидается refresh, и наоборот.
func (s *TokenService) Verify(tokenStr string, expected TokenKind) (*TokenData, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Kind != expected {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &TokenData{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}

package oauth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Таймаут на внешние вызовы к OAuth провайдерам
const requestTimeout = 10 * time.Second

var (
	ErrExchangeFailed = errors.New("failed to exchange authorization code")
	ErrProfileFailed  = errors.New("failed to fetch user profile")
)

// Profile - данные пользователя, полученные от провайдера.
// ProviderID - стабильный идентификатор субъекта у провайдера.
type Profile struct {
	Email      string
	FullName   string
	AvatarURL  string
	ProviderID string
}

// Config - учетные данные одного OAuth приложения
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Provider - контракт OAuth интеграции. У Google и Yandex разные
// эндпоинты и заголовки, но одинаковая форма контракта.
type Provider interface {
	Name() string
	// AuthorizeURL возвращает URL для редиректа пользователя на провайдера
	AuthorizeURL() string
	// ExchangeCode меняет authorization code на access token провайдера
	ExchangeCode(ctx context.Context, code string) (string, error)
	// FetchProfile получает профиль по access token провайдера.
	// Ошибка возвращается явно, а не глотается с возвратом nil.
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// exchangeContext подкладывает под oauth2 наш http клиент с таймаутом
func exchangeContext(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}

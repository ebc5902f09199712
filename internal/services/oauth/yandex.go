package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

const yandexProfileURL = "https://login.yandex.ru/info"

var yandexEndpoint = oauth2.Endpoint{
	AuthURL:   "https://oauth.yandex.ru/authorize",
	TokenURL:  "https://oauth.yandex.ru/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// YandexProvider - OAuth интеграция с Yandex ID
type YandexProvider struct {
	oauthCfg   *oauth2.Config
	client     *http.Client
	profileURL string
}

func NewYandexProvider(config Config) *YandexProvider {
	return &YandexProvider{
		oauthCfg: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURI,
			Endpoint:     yandexEndpoint,
		},
		client:     newHTTPClient(),
		profileURL: yandexProfileURL,
	}
}

func (p *YandexProvider) Name() string {
	return "yandex"
}

func (p *YandexProvider) AuthorizeURL() string {
	return p.oauthCfg.AuthCodeURL("")
}

func (p *YandexProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := p.oauthCfg.Exchange(exchangeContext(ctx, p.client), code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token", ErrExchangeFailed)
	}

	return token.AccessToken, nil
}

func (p *YandexProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}
	// У Yandex своя схема авторизации в заголовке
	req.Header.Set("Authorization", "OAuth "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: yandex info returned %d", ErrProfileFailed, resp.StatusCode)
	}

	var body struct {
		ID           string   `json:"id"`
		DefaultEmail string   `json:"default_email"`
		Emails       []string `json:"emails"`
		FirstName    string   `json:"first_name"`
		LastName     string   `json:"last_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}

	email := body.DefaultEmail
	if email == "" && len(body.Emails) > 0 {
		email = body.Emails[0]
	}
	if email == "" {
		return nil, fmt.Errorf("%w: profile without email", ErrProfileFailed)
	}

	// Yandex не отдает аватар в этом API
	return &Profile{
		Email:      email,
		FullName:   strings.TrimSpace(body.FirstName + " " + body.LastName),
		ProviderID: body.ID,
	}, nil
}

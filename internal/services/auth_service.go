package services

import (
	"context"
	"net/http"

	"savage_backend/internal/auth"
	"savage_backend/internal/email"
	"savage_backend/internal/logger"
	"savage_backend/internal/models"
	"savage_backend/internal/repositories"
	"savage_backend/internal/services/dto"
	"savage_backend/internal/services/oauth"
	"savage_backend/pkg/apperrors"
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(refreshToken string) (*dto.AuthResponse, error)
	Me(userID string) (*dto.UserResponse, error)
	OAuthAuthorizeURL(providerName string) (string, error)
	OAuthCallback(ctx context.Context, providerName, code string) (*dto.AuthResponse, error)
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	tokens        *auth.TokenService
	providers     map[string]oauth.Provider
	emailProvider email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.TokenService,
	providers map[string]oauth.Provider,
	emailProvider email.Provider,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		tokens:        tokens,
		providers:     providers,
		emailProvider: emailProvider,
	}
}

// Register - регистрация нового пользователя по email и паролю
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FullName:     req.FullName,
		Provider:     models.ProviderEmail,
		Role:         models.UserRoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	s.sendWelcomeEmail(user.Email, user.FullName)

	return s.buildAuthResponse(user)
}

// Login - аутентификация по email и паролю.
// "Нет такого email", "пароль не задан" (OAuth-only аккаунт) и
// "неверный пароль" наружу неразличимы.
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if user.PasswordHash == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

// Refresh - обновление пары токенов по refresh токену.
// Отзыва нет: скомпрометированный refresh токен живет до истечения срока.
func (s *AuthServiceImpl) Refresh(refreshToken string) (*dto.AuthResponse, error) {
	data, err := s.tokens.Verify(refreshToken, auth.TokenKindRefresh)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(data.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	return s.buildAuthResponse(user)
}

// Me - текущий пользователь по id из access токена
func (s *AuthServiceImpl) Me(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

// OAuthAuthorizeURL возвращает URL провайдера для редиректа пользователя
func (s *AuthServiceImpl) OAuthAuthorizeURL(providerName string) (string, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return "", apperrors.NewBadRequestError("Unknown OAuth provider: " + providerName)
	}
	return provider.AuthorizeURL(), nil
}

// OAuthCallback - обмен кода на профиль провайдера и вход/создание пользователя
func (s *AuthServiceImpl) OAuthCallback(ctx context.Context, providerName, code string) (*dto.AuthResponse, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return nil, apperrors.NewBadRequestError("Unknown OAuth provider: " + providerName)
	}

	accessToken, err := provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "oauth",
			"Failed to exchange authorization code", http.StatusBadRequest)
	}

	profile, err := provider.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "oauth",
			"Failed to fetch user profile", http.StatusBadRequest)
	}

	user, err := s.resolveOAuthUser(models.AuthProvider(provider.Name()), profile)
	if err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

// resolveOAuthUser находит или создает пользователя для OAuth профиля.
// Поиск идет по email ИЛИ по (provider, provider_id): пользователь,
// зарегистрированный по email и позже пришедший через Google с тем же
// адресом, попадает в ТУ ЖЕ учетную запись, а не в дубликат.
// При слиянии заполняются только пустые поля профиля, существующие
// значения никогда не перезаписываются.
func (s *AuthServiceImpl) resolveOAuthUser(provider models.AuthProvider, profile *oauth.Profile) (*models.User, error) {
	user, err := s.userRepo.FindByEmailOrProvider(profile.Email, provider, profile.ProviderID)
	if err != nil {
		if !apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}

		user = &models.User{
			Email:      profile.Email,
			FullName:   profile.FullName,
			AvatarURL:  profile.AvatarURL,
			Provider:   provider,
			ProviderID: profile.ProviderID,
			Role:       models.UserRoleUser,
		}
		switch createErr := s.userRepo.Create(user); {
		case createErr == nil:
			return user, nil
		case apperrors.Is(createErr, repositories.ErrUserAlreadyExists):
			// Гонка двух первых входов одной личности: оба прошли мимо
			// поиска, Create проигравшего уперся в уникальный индекс.
			// Перечитываем созданную запись и продолжаем слияние.
			user, err = s.userRepo.FindByEmailOrProvider(profile.Email, provider, profile.ProviderID)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
		default:
			return nil, apperrors.InternalError(createErr)
		}
	}

	changed := false
	if user.AvatarURL == "" && profile.AvatarURL != "" {
		user.AvatarURL = profile.AvatarURL
		changed = true
	}
	if user.FullName == "" && profile.FullName != "" {
		user.FullName = profile.FullName
		changed = true
	}

	// Пишем только если что-то реально поменялось
	if changed {
		if err := s.userRepo.Update(user); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	return user, nil
}

// buildAuthResponse выпускает пару токенов и собирает ответ
func (s *AuthServiceImpl) buildAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := s.tokens.IssueRefresh(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         dto.NewUserResponse(user),
	}, nil
}

// sendWelcomeEmail отправляет приветственное письмо (best-effort)
func (s *AuthServiceImpl) sendWelcomeEmail(to, name string) {
	if s.emailProvider == nil {
		return
	}

	go func() {
		if err := s.emailProvider.SendWelcome(to, name); err != nil {
			logger.Warn("Failed to send welcome email", "error", err, "email", to)
		}
	}()
}

package models

// UserRole - роль пользователя
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// AuthProvider - способ входа пользователя
type AuthProvider string

const (
	ProviderEmail  AuthProvider = "email"
	ProviderGoogle AuthProvider = "google"
	ProviderYandex AuthProvider = "yandex"
)

// User - учетная запись. Email глобально уникален; пара (provider, provider_id)
// идентифицирует не более одной записи для OAuth провайдеров.
// PasswordHash пустой у OAuth-only аккаунтов.
type User struct {
	BaseModel
	Email        string       `gorm:"uniqueIndex;not null"`
	PasswordHash string       `gorm:"default:null"`
	FullName     string       `gorm:"default:null"`
	AvatarURL    string       `gorm:"default:null"`
	// Частичный уникальный индекс: у email-аккаунтов provider_id пустой,
	// поэтому пары (provider, provider_id) сравниваем только для OAuth
	Provider     AuthProvider `gorm:"type:varchar(20);not null;default:'email';uniqueIndex:uniq_provider_subject,where:provider <> 'email'"`
	ProviderID   string       `gorm:"uniqueIndex:uniq_provider_subject,where:provider <> 'email'"`
	Role         UserRole     `gorm:"type:varchar(20);not null;default:'user'"`

	// Relations
	Enrollments []Enrollment `gorm:"foreignKey:UserID"`
}

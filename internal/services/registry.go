package services

import "savage_backend/internal/email"

// ServiceContainer - контейнер всех сервисов приложения
type ServiceContainer struct {
	AuthService       AuthService
	EnrollmentService EnrollmentService
	EmailService      email.Provider
}

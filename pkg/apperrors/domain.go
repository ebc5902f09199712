package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для ошибок домена Identity & Entitlement.
*/

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ (для частых, статичных ошибок)
// =========================================================================

// ErrEmailAlreadyExists - email уже занят другим пользователем
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already exists",
	http.StatusConflict,
)

// ErrInvalidCredentials - неверный email или пароль.
// Намеренно одна и та же ошибка для "нет такого email", "пароль не задан"
// (OAuth-only аккаунт) и "неверный пароль" - не раскрываем, что именно не так.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - токен не прошел проверку (подпись, срок, тип)
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrCourseNotFound - курс из метаданных платежа не существует
var ErrCourseNotFound = New(
	CodeNotFound,
	"payment",
	"Course not found",
	http.StatusNotFound,
)

// =========================================================================
// Фабричные ФУНКЦИИ
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrGatewayUnavailable - платежный шлюз недоступен (сетевая ошибка)
func ErrGatewayUnavailable(err error) *AppError {
	return Wrap(err, CodeGatewayUnavailable, "payment", "Payment gateway unavailable", http.StatusBadGateway)
}

// ErrGatewayRejected - платежный шлюз ответил ошибкой (не-2xx)
func ErrGatewayRejected(err error) *AppError {
	return Wrap(err, CodeGatewayRejected, "payment", "Payment gateway rejected the request", http.StatusBadGateway)
}

// ErrMissingMetadata - в подтвержденном платеже нет courseId/userId
// или они не парсятся. Это дефект интеграции, его нужно видеть, а не глотать.
func ErrMissingMetadata(message string) *AppError {
	return New(CodeMissingMetadata, "payment", message, http.StatusBadRequest)
}

package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost подобран под ~100мс на проверку
const bcryptCost = 12

// bcrypt учитывает только первые 72 байта входа
const maxPasswordBytes = 72

// truncatePassword обрезает пароль до лимита bcrypt.
// Обязательно применяется одинаково при хешировании И при проверке,
// иначе длинные пароли перестают проходить верификацию.
func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// HashPassword создает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша.
// Поврежденный или чужой формат хеша - это просто false, не ошибка.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(password))
	return err == nil
}

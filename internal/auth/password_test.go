package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHashPassword_Roundtrip - проверяет базовый цикл хеширование -> проверка
func TestHashPassword_Roundtrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("super_password123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "super_password123", hash)

	assert.True(t, CheckPasswordHash("super_password123", hash))
	assert.False(t, CheckPasswordHash("wrong_password", hash))
}

// TestHashPassword_UniqueSalt - два хеша одного пароля не совпадают
func TestHashPassword_UniqueSalt(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("super_password123")
	require.NoError(t, err)
	second, err := HashPassword("super_password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPasswordHash("super_password123", first))
	assert.True(t, CheckPasswordHash("super_password123", second))
}

// TestHashPassword_LongPassword - пароль длиннее 72 байт.
// Без одинаковой обрезки на обеих сторонах bcrypt вернул бы ошибку
// на хешировании, а проверка длинного пароля провалилась бы.
func TestHashPassword_LongPassword(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 100)
	hash, err := HashPassword(long)
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash(long, hash))

	// Первые 72 байта совпадают - для bcrypt это тот же пароль
	assert.True(t, CheckPasswordHash(strings.Repeat("a", 72), hash))
	// А отличие внутри первых 72 байт - уже другой
	assert.False(t, CheckPasswordHash(strings.Repeat("b", 100), hash))
}

// TestCheckPasswordHash_MalformedHash - битый хеш это false, не паника
func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPasswordHash("super_password123", ""))
	assert.False(t, CheckPasswordHash("super_password123", "not-a-bcrypt-hash"))
	assert.False(t, CheckPasswordHash("super_password123", "$2a$12$garbage"))
}

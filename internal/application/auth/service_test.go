package auth

import (
	"testing"

	"wavemint-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	hash, err := bcrypt.GenerateFromPassword([]byte("sup3rSecret!"), 10)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.User{
		DisplayName:  "Ava Stone",
		Email:        "ava@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}).Error)
	return db
}

func TestLoginUser_Success(t *testing.T) {
	db := setupAuthTest(t)

	u, err := LoginUser(db, LoginInput{Email: "ava@example.com", Password: "sup3rSecret!"})
	require.NoError(t, err)
	assert.Equal(t, "Ava Stone", u.DisplayName)
}

func TestLoginUser_WrongPassword(t *testing.T) {
	db := setupAuthTest(t)

	_, err := LoginUser(db, LoginInput{Email: "ava@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestLoginUser_UnknownEmail(t *testing.T) {
	db := setupAuthTest(t)

	_, err := LoginUser(db, LoginInput{Email: "nobody@example.com", Password: "sup3rSecret!"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestLoginUser_MissingFields(t *testing.T) {
	db := setupAuthTest(t)

	_, err := LoginUser(db, LoginInput{})
	assert.ErrorIs(t, err, ErrEmailPasswordRequired)
}

func TestVerifyUser(t *testing.T) {
	out, err := VerifyUser(map[string]interface{}{
		"user_id":      "11111111-1111-1111-1111-111111111111",
		"display_name": "Ava Stone",
		"email":        "ava@example.com",
		"role":         domain.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ava Stone", out.DisplayName)
	assert.Equal(t, domain.RoleUser, out.Role)

	_, err = VerifyUser(nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = VerifyUser(map[string]interface{}{"email": "no-id@example.com"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

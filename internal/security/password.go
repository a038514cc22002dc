package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength равен пределу bcrypt в байтах; более длинные пароли отклоняются, а не обрезаются.
const MaxPasswordLength = 72

var ErrPasswordTooLong = errors.New("пароль длиннее 72 байт")

// HashPassword хэширует пароль как есть, без приведения регистра.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("ошибка хэширования: %w", err)
	}

	return string(hashed), nil
}

func CheckPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

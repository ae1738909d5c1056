package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// UsernamePattern определяет допустимый формат username
// Только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
// Длина: 3-32 символа
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 32
	// MinPasswordLen минимальная длина пароля аккаунта
	MinPasswordLen = 8
)

// ValidateUsername проверяет, что username соответствует требованиям.
// Username при регистрации необязателен: пустое значение проверяется вызывающим.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)")
	}

	return nil
}

// ValidateEmail проверяет синтаксис адреса.
// Допускается только голый адрес, без display name ("Alice <a@b.com>").
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return fmt.Errorf("invalid email address")
	}

	// net/mail принимает локальные домены без точки
	at := strings.LastIndex(email, "@")
	if !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("invalid email address")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateCredentials проверяет форму регистрации и возвращает ошибки по полям
func ValidateCredentials(email, password, username string) error {
	errs := FieldErrors{}
	errs.Check("email", ValidateEmail(email))
	errs.Check("password", ValidatePassword(password))
	if username != "" {
		errs.Check("username", ValidateUsername(username))
	}
	return errs.Err()
}

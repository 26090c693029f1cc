// Package user manages application users and their access levels.
package user

import (
	"context"
	"net/mail"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/entity"
	"stockscope/internal/core/security"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 7

// User is an account that can log in to one tenant.
type User struct {
	entity.BaseEntity
	Name         string        `db:"name" json:"name"`
	Surname      string        `db:"surname" json:"surname"`
	Username     string        `db:"username" json:"username"`
	Email        string        `db:"email" json:"email"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Role         security.Role `db:"role" json:"role"`
}

// Profile is the editable part of a user.
type Profile struct {
	Name     string
	Surname  string
	Username string
	Email    string
}

// Validate checks required fields and the email format.
func (p *Profile) Validate(_ context.Context) error {
	if strings.TrimSpace(p.Username) == "" {
		return apperror.NewValidation("username is required").WithDetail("field", "username")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return apperror.NewValidation("invalid email").WithDetail("field", "email")
	}
	return nil
}

// CheckPassword enforces the password policy: at least seven characters
// with at least one digit.
func CheckPassword(password string) error {
	hasDigit := strings.IndexFunc(password, unicode.IsDigit) >= 0
	if len([]rune(password)) < MinPasswordLength || !hasDigit {
		return apperror.NewValidation("Password must be at least 7 characters long and contain at least one number.").
			WithDetail("field", "password")
	}
	return nil
}

// HashPassword checks the policy and returns the bcrypt hash.
func HashPassword(password string) (string, error) {
	if err := CheckPassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.NewInternal(err)
	}
	return string(hash), nil
}

// PasswordMatches compares password with the stored hash.
func (u *User) PasswordMatches(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) apply(p Profile) {
	u.Name = p.Name
	u.Surname = p.Surname
	u.Username = strings.TrimSpace(p.Username)
	u.Email = strings.ToLower(strings.TrimSpace(p.Email))
}

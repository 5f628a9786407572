package models

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an account that owns budgets, categories and expenses.
//
// PasswordHash and SecurityAnswerHash are bcrypt hashes, the backend never
// stores the cleartext values.
type User struct {
	DefaultModel
	Name               string
	Username           string `gorm:"uniqueIndex"`
	PasswordHash       string `json:"-"`
	SecurityQuestion   string
	SecurityAnswerHash string `json:"-"`
}

var ErrUsernameNotUnique = errors.New("this username is already taken")

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Username = strings.TrimSpace(u.Username)
	u.SecurityQuestion = strings.TrimSpace(u.SecurityQuestion)

	return nil
}

// SetPassword hashes the cleartext password and stores the hash on the user.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the cleartext password matches the stored hash.
func (u User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetSecurityAnswer hashes the answer to the security question.
//
// The answer is case insensitive so that users do not lock themselves out
// over capitalization they cannot remember.
func (u *User) SetSecurityAnswer(answer string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(normalizeAnswer(answer)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.SecurityAnswerHash = string(hash)
	return nil
}

// CheckSecurityAnswer reports whether the answer matches the stored hash.
func (u User) CheckSecurityAnswer(answer string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.SecurityAnswerHash), []byte(normalizeAnswer(answer))) == nil
}

func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// Export returns the user's account data for export.
func (User) Export(userID uuid.UUID) (json.RawMessage, error) {
	var user User
	err := DB.First(&user, userID).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&user)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}

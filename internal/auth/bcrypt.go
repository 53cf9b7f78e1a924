// Package auth реализует хеширование и проверку паролей.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher хеширует пароли алгоритмом bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher создаёт хешер с указанной стоимостью; 0 означает bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash возвращает bcrypt-хеш пароля.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify сравнивает пароль с хешем.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ApiSecret returns the JWT signing key from the environment.
func ApiSecret() []byte {
	return []byte(os.Getenv("API_SECRET"))
}

// GenerateToken mints a bearer token for a trusted API caller.
func GenerateToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ApiSecret())
}

package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the token. Downstream code treats the id as an opaque
// principal and never re-validates identity.
const (
	RoleProvider = "provider"
	RoleConsumer = "consumer"
)

func GenerateToken(role string, accountID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": role,
		"id":   accountID,
		"exp":  time.Now().Add(time.Hour * 72).Unix(),
	})

	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

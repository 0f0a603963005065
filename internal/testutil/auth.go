package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const JWTSecret = "test-secret"

// AccessToken signs an access token the JWT middleware accepts.
func AccessToken(userID uuid.UUID, email string) string {
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	if err != nil {
		panic(err)
	}
	return signed
}

// Bearer returns an Authorization header value for userID.
func Bearer(userID uuid.UUID) string {
	return "Bearer " + AccessToken(userID, userID.String()+"@example.com")
}

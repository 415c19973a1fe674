package utils

import (
	"fmt"
	"os"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type ExpirationTime struct {
	duration time.Duration
}

func NewExpirationTime(d time.Duration) ExpirationTime {
	return ExpirationTime{duration: d}
}

func (e ExpirationTime) Unix() int64 {
	return time.Now().Add(e.duration).Unix()
}

func (e ExpirationTime) Duration() time.Duration {
	return e.duration
}

// Dashboard sessions are long-lived; the mall staff stay logged in for a month.
var AccessTokenExpiration = NewExpirationTime(30 * 24 * time.Hour)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev_secret_change_me"
	}
	return []byte(secret)
}

func ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if exp, ok := claims["expiresAt"].(float64); ok {
			if time.Now().Unix() > int64(exp) {
				return nil, fmt.Errorf("token is expired")
			}
		}
		return token, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func CreateAccessToken(userID string, role string, email string) (string, error) {
	claims := &jwt.MapClaims{
		"userId":    userID,
		"role":      role,
		"email":     email,
		"expiresAt": AccessTokenExpiration.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

package utils

import (
	"errors"
	"os"
	"time"

	"solarbot/config"

	"github.com/golang-jwt/jwt"
)

const threadTokenType = "thread"

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		secret = "solarbot-dev-secret"
	}
	return []byte(secret)
}

// GenerateThreadToken signs a token binding the caller to a conversation thread.
func GenerateThreadToken(threadID string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": threadID,
		"typ": threadTokenType,
		"iat": now.Unix(),
		"exp": now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractThreadIDFromToken returns the thread ID (subject) of a valid thread token.
func ExtractThreadIDFromToken(tokenString string) (string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if typ, _ := claims["typ"].(string); typ != threadTokenType {
		return "", errors.New("token is not a thread token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}

	return sub, nil
}

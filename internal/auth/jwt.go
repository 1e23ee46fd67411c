package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTTL = 30 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// GenerateToken signs an HS256 token carrying the user_id claim.
func GenerateToken(secret []byte, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(TokenTTL).Unix(),
		"iat":     now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// ParseToken validates the signature and expiry and returns the user id.
// Numeric user_id claims are accepted and rendered in decimal.
func ParseToken(secret []byte, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	data, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	switch uid := data["user_id"].(type) {
	case string:
		if uid != "" {
			return uid, nil
		}
	case float64:
		return strconv.FormatInt(int64(uid), 10), nil
	}
	return "", fmt.Errorf("%w: missing user_id", ErrInvalidToken)
}

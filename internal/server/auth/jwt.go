// Package auth issues and checks the HS256 tokens that guard the admin API.
package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/driveaccess/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "driveaccess admin token v1"

// Claims carry the chat id of the admin the token was minted for.
type Claims struct {
	jwt.RegisteredClaims
	AdminID int64 `json:"admin_id"`
}

// DeriveKey stretches the configured secret into a 32-byte signing key.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("empty admin token secret")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func GenerateToken(adminID int64, key []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(adminID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		AdminID: adminID,
	})

	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetAdminIDFromToken validates the token and returns its admin id.
func GetAdminIDFromToken(tokenString string, key []byte) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	return claims.AdminID, nil
}

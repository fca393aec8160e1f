// Package auth issues and validates the bearer tokens that carry a
// request's identity.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/snaplist/snaplist/internal/common"
)

// Claims embeds the registered claims plus the numeric user id. The
// username travels in the standard Subject claim.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// Identity is the validated content of a token.
type Identity struct {
	UserID   int64
	Username string
}

// GenerateToken signs an HS256 token for the given user. The returned
// expiry is the absolute instant baked into the token; it is not sliding.
func GenerateToken(userID int64, username string, secretKey []byte, validityDuration time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(validityDuration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// GetIdentityFromToken verifies the signature and expiry and returns the
// embedded identity.
func GetIdentityFromToken(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return &Identity{UserID: claims.UserID, Username: claims.Subject}, nil
}

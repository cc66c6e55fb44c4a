// Package auth handles the HS256 bearer tokens carrying an already-verified
// identity. Token issuance belongs to the identity provider; this package
// only validates signatures and extracts claims.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mzarins/filedepot/internal/common"
)

// Identity is the verified caller identity carried inside a token.
type Identity struct {
	Key   string
	Email string
	Name  string
}

// Claims embeds the registered claims plus the identity fields.
type Claims struct {
	jwt.RegisteredClaims
	IdentityKey string `json:"identity_key"`
	Email       string `json:"email"`
	Name        string `json:"name"`
}

// GenerateToken signs an identity into an HS256 token valid for the given
// duration. Used by tests and development tooling.
func GenerateToken(id Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		IdentityKey: id.Key,
		Email:       id.Email,
		Name:        id.Name,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// IdentityFromToken validates tokenString and returns the embedded identity.
func IdentityFromToken(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.IdentityKey == "" {
		return nil, common.ErrInvalidToken
	}

	return &Identity{Key: claims.IdentityKey, Email: claims.Email, Name: claims.Name}, nil
}

// Package auth issues and verifies the emulator's signed tokens: session
// access tokens and the ID tokens of the emulated google.com provider.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// IdpIssuer is the issuer stamped on emulated google.com ID tokens.
const IdpIssuer = "notekeeper-emulator/google.com"

// Claims are carried by access tokens. AuthTime is the moment the user last
// presented a credential; it survives token refresh and gates sensitive
// operations.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	AuthTime int64  `json:"auth_time"`
}

// GenerateToken signs an access token for userID.
func GenerateToken(userID string, authTime time.Time, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:   userID,
		AuthTime: authTime.Unix(),
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies an access token and returns its claims.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// verification yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}
	if err := parse(tokenString, claims, secretKey); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// GenerateIdpToken signs an emulated google.com ID token asserting email.
func GenerateIdpToken(email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    IdpIssuer,
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	return token.SignedString(secretKey)
}

// ParseIdpToken verifies an emulated google.com ID token and returns the
// email it asserts.
func ParseIdpToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := parse(tokenString, claims, secretKey, jwt.WithIssuer(IdpIssuer)); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}

func parse(tokenString string, claims jwt.Claims, secretKey []byte, opts ...jwt.ParserOption) error {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return common.ErrInvalidToken
	}

	if !token.Valid {
		return common.ErrInvalidToken
	}

	return nil
}

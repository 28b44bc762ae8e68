package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-cred-vault/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned by ValidateAndParseJWTToken for tokens whose
// exp claim is in the past.
var ErrTokenExpired = errors.New("token is expired")

// GenerateJWTToken creates a signed HMAC-SHA256 JWT for the given user.
//
// Standard claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the opaque user identifier
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//
// Returns an error if any parameter is empty or zero, or if signing fails.
func GenerateJWTToken(issuer, userID string, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || userID == "" || tokenDuration == 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{Token: token, SignedString: tokenString, UserID: userID}, nil
}

// ValidateAndParseJWTToken verifies the token signature with signKey, checks
// the issuer and expiration claims, and extracts the user ID from the
// subject claim.
//
// Returns [ErrTokenExpired] for expired tokens, or another error if the
// signature, issuer or subject is invalid.
func ValidateAndParseJWTToken(tokenString, signKey, issuer string) (models.Token, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(signKey), nil
		},
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Token{}, ErrTokenExpired
		}
		return models.Token{}, fmt.Errorf("error parsing JWT token: %w", err)
	}

	if claims.Subject == "" {
		return models.Token{}, errors.New("token has no subject")
	}

	return models.Token{Token: token, SignedString: tokenString, UserID: claims.Subject}, nil
}

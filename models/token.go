package models

import "github.com/golang-jwt/jwt/v5"

// Token bundles a parsed JWT with its signed string form and the user ID
// extracted from the subject claim.
type Token struct {
	Token        *jwt.Token
	SignedString string
	UserID       string
}

// TokenRequest is the body of POST /api/auth/token.
type TokenRequest struct {
	Login string `json:"login"`
}

// TokenResponse is the body returned by POST /api/auth/token.
type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Package http implements the HTTP transport layer of the vault sync
// server. It provides middleware, route handlers and the SSE watch
// endpoint that pushes full-collection snapshots to connected clients.
package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/internal/utils"
)

// authMiddleware enforces JWT-based authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer token,
// validates it with [utils.ValidateAndParseJWTToken], and — on success —
// stores the authenticated user's ID in the request context before delegating
// to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized when the header
// is absent or malformed, the signature does not verify, or the token has
// expired.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		token, err := utils.ValidateAndParseJWTToken(tokenString, h.auth.SignKey, h.auth.Issuer)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrTokenExpired):
				log.Err(err).Msg("token expired")
				http.Error(w, utils.ErrTokenExpired.Error(), http.StatusUnauthorized)
				return
			default:
				log.Err(err).Msg("error occurred during parsing token")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
		}

		// Store the authenticated user's ID in the context so that downstream
		// handlers can retrieve it without re-parsing the token.
		ctx := utils.WithUserID(r.Context(), token.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value.
//
// The header is expected to follow the standard format:
//
//	Authorization: <scheme> <token>
//
// It returns [ErrInvalidAuthorizationHeader] if the header contains fewer
// than two space-separated parts, and [ErrEmptyToken] if the second part
// exists but is an empty string.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}

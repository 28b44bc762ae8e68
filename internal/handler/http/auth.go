package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/internal/utils"
	"github.com/MKhiriev/go-cred-vault/models"
	"github.com/google/uuid"
)

// token mints a signed JWT for the login named in the request body.
//
// The user ID is derived deterministically from the login, so the same login
// always maps to the same vault collection regardless of which device asks.
// This reference server performs no password verification; deployments that
// need real authentication put an identity provider in front of it.
func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var request models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	login := strings.TrimSpace(request.Login)
	if login == "" {
		log.Error().Msg("empty login in token request")
		http.Error(w, "login must not be empty", http.StatusBadRequest)
		return
	}

	userID := userIDForLogin(login)

	token, err := utils.GenerateJWTToken(h.auth.Issuer, userID, h.auth.TokenDuration, h.auth.SignKey)
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	log.Debug().Str("userID", userID).Msg("token issued")

	utils.WriteJSON(w, models.TokenResponse{Token: token.SignedString, UserID: userID}, http.StatusOK)
}

// userIDForLogin maps a login to its stable opaque user ID (a name-based
// UUID), keeping logins themselves out of storage keys and JWT claims.
func userIDForLogin(login string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(login)).String()
}

package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/internal/store"
	"github.com/MKhiriev/go-cred-vault/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Helpers ----

func testTokenSettings() TokenSettings {
	return TokenSettings{
		SignKey:       "test-sign-key",
		Issuer:        "go-cred-vault",
		TokenDuration: time.Hour,
	}
}

func newTestHandler(vaultStore store.VaultStore) *Handler {
	return NewHandler(vaultStore, NewWatchHub(), testTokenSettings(), logger.Nop())
}

// injectNopLogger places a nop logger in the request context.
func injectNopLogger(r *http.Request) *http.Request {
	nop := logger.Nop()
	ctx := nop.Logger.WithContext(r.Context())
	return r.WithContext(ctx)
}

func executeAuth(h *Handler, authHeader string, next http.Handler) *httptest.ResponseRecorder {
	middleware := h.authMiddleware(next)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = injectNopLogger(req)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)
	return rr
}

func doUnauthed(t *testing.T, h *Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Init().ServeHTTP(rr, req)
	return rr
}

func signedToken(t *testing.T, settings TokenSettings, userID string) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(settings.Issuer, userID, settings.TokenDuration, settings.SignKey)
	require.NoError(t, err)
	return token.SignedString
}

// ---- getTokenFromAuthHeader unit tests ----

func TestGetTokenFromAuthHeader_TableTest(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{
			name:      "valid Bearer token",
			header:    "Bearer my-jwt-token",
			wantToken: "my-jwt-token",
		},
		{
			name:    "missing token part",
			header:  "Bearer",
			wantErr: ErrInvalidAuthorizationHeader,
		},
		{
			name:    "empty header",
			header:  "",
			wantErr: ErrInvalidAuthorizationHeader,
		},
		{
			name:      "non-Bearer scheme still parses second part",
			header:    "Basic dXNlcjpwYXNz",
			wantToken: "dXNlcjpwYXNz",
		},
		{
			name:    "only spaces",
			header:  " ",
			wantErr: ErrEmptyToken,
		},
		{
			name:      "extra parts — second part is used",
			header:    "Bearer token extra-part",
			wantToken: "token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

// ---- middleware tests ----

func TestAuthMiddleware_ValidToken(t *testing.T) {
	h := newTestHandler(nil)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := utils.UserIDFromContext(r.Context())
		require.True(t, ok)
		gotUserID = userID
		w.WriteHeader(http.StatusOK)
	})

	token := signedToken(t, h.auth, "user-42")
	rr := executeAuth(h, "Bearer "+token, next)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-42", gotUserID)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	h := newTestHandler(nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not be called")
	})

	rr := executeAuth(h, "", next)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddleware_WrongSignKey(t *testing.T) {
	h := newTestHandler(nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not be called")
	})

	foreign := testTokenSettings()
	foreign.SignKey = "some-other-key"
	token := signedToken(t, foreign, "user-42")

	rr := executeAuth(h, "Bearer "+token, next)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	h := newTestHandler(nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not be called")
	})

	expired := testTokenSettings()
	expired.TokenDuration = -time.Hour
	token := signedToken(t, expired, "user-42")

	rr := executeAuth(h, "Bearer "+token, next)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "expired")
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	h := newTestHandler(nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not be called")
	})

	rr := executeAuth(h, "Bearer not.a.jwt", next)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

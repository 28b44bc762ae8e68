// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session supplies the current user identity to the vault core.
//
// The core treats identity as a capability that may change between calls:
// it reads [Gate.CurrentUserID] at each mutation and re-attaches the
// repository when [Gate.Changes] fires. Identity is enforced server-side by
// the JWT auth middleware; the gate only mirrors what the server issued.
package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

//go:generate mockgen -source=session.go -destination=../mock/session_gate_mock.go -package=mock

// ErrInvalidToken is returned by SetToken for tokens that cannot be parsed
// or carry no subject.
var ErrInvalidToken = errors.New("invalid session token")

// Gate exposes the current user identity and a change-notification stream.
// An empty string on the stream means the user signed out.
type Gate interface {
	// CurrentUserID returns the resolved user identity, or ok=false when no
	// user is signed in.
	CurrentUserID() (userID string, ok bool)

	// Changes returns the stream of identity changes. The stream is owned
	// by the gate and intended for a single consumer; events are dropped
	// rather than blocking if the consumer falls behind.
	Changes() <-chan string
}

// TokenGate is a [Gate] fed by the JWT issued at login. The token signature
// is verified by the server on every request; the gate parses it unverified
// purely to mirror the subject claim locally.
type TokenGate struct {
	mu      sync.RWMutex
	userID  string
	changes chan string
}

// NewTokenGate returns a signed-out TokenGate.
func NewTokenGate() *TokenGate {
	return &TokenGate{changes: make(chan string, 8)}
}

// CurrentUserID implements [Gate].
func (g *TokenGate) CurrentUserID() (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.userID, g.userID != ""
}

// Changes implements [Gate].
func (g *TokenGate) Changes() <-chan string {
	return g.changes
}

// SetToken parses the signed JWT, stores its subject as the current user ID
// and emits a change event. Returns [ErrInvalidToken] if the token cannot
// be parsed or has an empty subject.
func (g *TokenGate) SetToken(signed string) error {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(signed), claims); err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return ErrInvalidToken
	}

	g.mu.Lock()
	g.userID = claims.Subject
	g.mu.Unlock()

	g.notify(claims.Subject)
	return nil
}

// Clear signs the user out and emits an empty change event.
func (g *TokenGate) Clear() {
	g.mu.Lock()
	g.userID = ""
	g.mu.Unlock()

	g.notify("")
}

func (g *TokenGate) notify(userID string) {
	select {
	case g.changes <- userID:
	default:
	}
}

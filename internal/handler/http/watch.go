// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/internal/utils"
	"github.com/MKhiriev/go-cred-vault/models"
)

// watchHeartbeatInterval is how often an SSE comment line is written to a
// quiet watch stream so intermediaries do not drop the connection.
const watchHeartbeatInterval = 25 * time.Second

// WatchHub fans mutation notifications out to the SSE watch streams of a
// user. Subscribers receive a wake-up signal, not data: each stream refetches
// the collection itself so every event is a complete snapshot.
type WatchHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan struct{}]struct{}
}

// NewWatchHub constructs an empty [WatchHub].
func NewWatchHub() *WatchHub {
	return &WatchHub{
		subscribers: make(map[string]map[chan struct{}]struct{}),
	}
}

// subscribe registers a wake-up channel for userID. The returned release
// function must be called when the stream ends.
func (hub *WatchHub) subscribe(userID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	hub.mu.Lock()
	if hub.subscribers[userID] == nil {
		hub.subscribers[userID] = make(map[chan struct{}]struct{})
	}
	hub.subscribers[userID][ch] = struct{}{}
	hub.mu.Unlock()

	release := func() {
		hub.mu.Lock()
		delete(hub.subscribers[userID], ch)
		if len(hub.subscribers[userID]) == 0 {
			delete(hub.subscribers, userID)
		}
		hub.mu.Unlock()
	}
	return ch, release
}

// Notify wakes every watch stream of userID. The signal is coalescing: a
// stream that has not yet consumed a pending wake-up will not queue another,
// which is fine because each wake-up triggers a full refetch.
func (hub *WatchHub) Notify(userID string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for ch := range hub.subscribers[userID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// watch streams the authenticated user's collection over server-sent events.
// The current snapshot is sent immediately on connect, then again after every
// mutation, so a client can rebuild its view from any single event.
func (h *Handler) watch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error().Msg("response writer does not support streaming")
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	wakeups, release := h.hub.subscribe(userID)
	defer release()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	if err := h.sendSnapshot(w, flusher, r, userID); err != nil {
		log.Err(err).Msg("error sending initial snapshot")
		return
	}

	heartbeat := time.NewTicker(watchHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("userID", userID).Msg("watch stream closed by client")
			return
		case <-wakeups:
			if err := h.sendSnapshot(w, flusher, r, userID); err != nil {
				log.Err(err).Msg("error sending snapshot")
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// sendSnapshot fetches the user's full collection and writes it as one SSE
// data event.
func (h *Handler) sendSnapshot(w http.ResponseWriter, flusher http.Flusher, r *http.Request, userID string) error {
	records, err := h.store.GetUserRecords(r.Context(), userID)
	if err != nil {
		return fmt.Errorf("fetching snapshot: %w", err)
	}
	if records == nil {
		records = []models.WireRecord{}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if _, err = fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("writing snapshot event: %w", err)
	}
	flusher.Flush()

	return nil
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/internal/utils"
	"github.com/MKhiriev/go-cred-vault/models"
	"github.com/go-chi/chi/v5"
)

// putRecord stores the wire record from the body under the authenticated
// user's collection, overwriting any previous version in full, then notifies
// the user's watch streams.
func (h *Handler) putRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var record models.WireRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	recordID := chi.URLParam(r, "recordID")
	if record.ID == "" {
		record.ID = recordID
	}
	if record.ID != recordID {
		log.Error().Str("pathID", recordID).Str("bodyID", record.ID).Msg("record ID mismatch")
		http.Error(w, "record ID in path and body differ", http.StatusBadRequest)
		return
	}

	if err := h.store.UpsertRecord(ctx, userID, record); err != nil {
		log.Err(err).Msg("unexpected error occurred during record upsert")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.hub.Notify(userID)
	w.WriteHeader(http.StatusOK)
}

// deleteRecord removes the record from the authenticated user's collection.
// Deleting a record that does not exist is still a 200: delete is idempotent.
func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	recordID := chi.URLParam(r, "recordID")
	if err := h.store.DeleteRecord(ctx, userID, recordID); err != nil {
		log.Err(err).Msg("unexpected error occurred during record delete")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.hub.Notify(userID)
	w.WriteHeader(http.StatusOK)
}

// listRecords returns the authenticated user's full collection as a JSON
// array. An empty collection is an empty array, not null.
func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	records, err := h.store.GetUserRecords(ctx, userID)
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during record listing")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.WireRecord{}
	}

	utils.WriteJSON(w, records, http.StatusOK)
}

package server

import (
	"encoding/json"
	"net/http"

	"pistat/internal/encoding"
	"pistat/internal/logger"
)

// respond serializes v as JSON, or as CBOR when the client asked for it
// via the Accept header.
func respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if encoding.AcceptsCBOR(r.Header.Get("Accept")) {
		body, err := encoding.MarshalCBOR(v)
		if err != nil {
			logger.Error("cbor encoding failed: %v", err)
			http.Error(w, "encoding failure", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", encoding.ContentTypeCBOR)
		w.WriteHeader(status)
		w.Write(body)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("json encoding failed: %v", err)
	}
}

// respondError sends the generic error body used by 500-class failures.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respond(w, r, status, map[string]string{"error": message})
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ArticleEnhancer/internal/domain"
)

const maxBodyBytes = 5 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

// writeError maps err to a status. Errors without a domain kind get fallback.
func writeError(w http.ResponseWriter, err error, fallback int) {
	kind := domain.Kind(err)
	status := fallback
	switch kind {
	case "NotFound":
		status = http.StatusNotFound
	case "Conflict":
		status = http.StatusConflict
	case "Internal":
	default:
		status = http.StatusBadRequest
	}

	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
		"kind":    kind,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body too large", domain.ErrValidation)
		}
		return fmt.Errorf("%w: invalid json: %v", domain.ErrValidation, err)
	}
	return nil
}

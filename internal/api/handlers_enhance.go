package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleEnhance runs the enhancement synchronously. Pipeline failures that are
// not NotFound or Conflict are reported as 400 with their kind.
func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := s.enhancer.Enhance(r.Context(), id)
	if err != nil {
		s.log.Warn("enhance failed", "article_id", id, "error", err)
		writeError(w, err, http.StatusBadRequest)
		return
	}

	message := "Article enhanced successfully"
	if res.AlreadyExisted {
		message = "Enhanced version already exists"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"data":    res.Article,
	})
}

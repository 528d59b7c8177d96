package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
)

// writeError maps domain error kinds onto HTTP status codes. Unclassified
// errors become opaque 500s so internals never leak to the caller.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case domain.IsKind(err, domain.ErrForbidden):
		status = http.StatusForbidden
		message = "forbidden"
	case domain.IsKind(err, domain.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"
	case domain.IsKind(err, domain.ErrTemporary):
		status = http.StatusServiceUnavailable
		message = "temporarily unavailable"
	}

	if status == http.StatusInternalServerError {
		slog.Error("request_failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": message})
}

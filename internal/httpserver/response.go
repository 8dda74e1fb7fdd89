package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	productdomain "inventory/backend/internal/domain/product"
)

type errorResponse struct {
	Error   string                     `json:"error"`
	Fields  []productdomain.FieldError `json:"fields,omitempty"`
	Details map[string]any             `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeMethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// errorStatus maps a service error onto its HTTP status and response body.
// Unrecognised errors map to 500 with a generic message.
func errorStatus(err error) (int, errorResponse) {
	var (
		notFound   *productdomain.NotFoundError
		invalid    *productdomain.ValidationError
		conflict   *productdomain.ConflictError
		outOfRange *productdomain.OutOfRangeError
		capacity   *productdomain.CapacityError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, errorResponse{
			Error:   notFound.Error(),
			Details: map[string]any{notFound.Key: notFound.Value},
		}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, errorResponse{Error: invalid.Error(), Fields: invalid.Fields}
	case errors.As(err, &conflict):
		return http.StatusConflict, errorResponse{
			Error:   conflict.Error(),
			Details: map[string]any{"sku": conflict.SKU},
		}
	case errors.As(err, &outOfRange):
		return http.StatusBadRequest, errorResponse{
			Error:   outOfRange.Error(),
			Details: map[string]any{"current": outOfRange.Current, "adjustment": outOfRange.Delta},
		}
	case errors.As(err, &capacity):
		return http.StatusBadRequest, errorResponse{
			Error:   capacity.Error(),
			Details: map[string]any{"current": capacity.Current, "adjustment": capacity.Delta, "max": capacity.Max},
		}
	case errors.Is(err, productdomain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, productdomain.ErrValidation), errors.Is(err, productdomain.ErrOutOfRange):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, productdomain.ErrConflict):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

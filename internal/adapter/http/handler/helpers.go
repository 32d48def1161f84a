package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/billcycle/internal/adapter/http/dto"
	"github.com/iho/billcycle/internal/calendar"
	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/worker"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapDomainError picks for it.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, mapDomainError(err), message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrBlueprintNotFound),
		errors.Is(err, domain.ErrPostingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientCreditLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDuplicatePosting),
		errors.Is(err, worker.ErrSyncInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCardLimit),
		errors.Is(err, domain.ErrInvalidClosingDay),
		errors.Is(err, domain.ErrInvalidDueDay),
		errors.Is(err, domain.ErrRuleParse),
		errors.Is(err, domain.ErrInvalidFlow),
		errors.Is(err, domain.ErrAmountFlowMismatch),
		errors.Is(err, domain.ErrNotInstallment),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidInstallmentCount),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidDescription),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidIDFormat),
		errors.Is(err, domain.ErrInvalidDay),
		errors.Is(err, dto.ErrFractionalMinorUnits):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseDateQuery parses a YYYY-MM-DD query parameter as midnight in loc.
// ok is false when the parameter is absent.
func parseDateQuery(r *http.Request, key string, loc *time.Location) (t time.Time, ok bool, err error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return time.Time{}, false, nil
	}

	t, err = calendar.ParseDateKey(val, loc)
	if err != nil {
		return time.Time{}, false, err
	}

	return t, true, nil
}

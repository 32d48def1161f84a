package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/billcycle/internal/adapter/http/dto"
	"github.com/iho/billcycle/internal/domain"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	GetCardStatement(ctx context.Context, cardID string, ref time.Time) (*domain.BillingCycleSummary, error)
	GetCardStatementHistory(ctx context.Context, cardID string, months int, ref time.Time) ([]*domain.BillingCycleSummary, error)
}

// StatementHandler serves billing cycle statements.
type StatementHandler struct {
	statementUC StatementService
	loc         *time.Location
	now         func() time.Time
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService, loc *time.Location) *StatementHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &StatementHandler{statementUC: statementUC, loc: loc, now: time.Now}
}

// Get returns the statement of the cycle containing ?date (default today).
func (h *StatementHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.reference(w, r)
	if !ok {
		return
	}

	summary, err := h.statementUC.GetCardStatement(r.Context(), chi.URLParam(r, "id"), ref)
	if err != nil {
		writeDomainError(w, "failed to get statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(summary))
}

// History returns ?months statements ending at the cycle containing ?date.
func (h *StatementHandler) History(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.reference(w, r)
	if !ok {
		return
	}

	months := parseIntQuery(r, "months", 6)

	history, err := h.statementUC.GetCardStatementHistory(r.Context(), chi.URLParam(r, "id"), months, ref)
	if err != nil {
		writeDomainError(w, "failed to get statement history", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementHistoryFromDomain(history))
}

func (h *StatementHandler) reference(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	ref, ok, err := parseDateQuery(r, "date", h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return time.Time{}, false
	}
	if !ok {
		ref = h.now().In(h.loc)
	}
	return ref, true
}

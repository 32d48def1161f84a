package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/billcycle/internal/adapter/http/dto"
	"github.com/iho/billcycle/internal/calendar"
	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/usecase"
)

// PostingService defines the behavior needed by PostingHandler.
type PostingService interface {
	CreatePosting(ctx context.Context, input usecase.CreatePostingInput) (*domain.Posting, error)
	GetPosting(ctx context.Context, id string) (*domain.Posting, error)
	ListCardPostings(ctx context.Context, cardID string, from, to time.Time) ([]*domain.Posting, error)
	DeletePosting(ctx context.Context, id string) error
}

// PostingHandler handles one-off posting requests.
type PostingHandler struct {
	postingUC PostingService
	loc       *time.Location
}

// NewPostingHandler creates a new PostingHandler. Date query parameters are
// read in loc.
func NewPostingHandler(postingUC PostingService, loc *time.Location) *PostingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PostingHandler{postingUC: postingUC, loc: loc}
}

// Create records a posting.
func (h *PostingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	posting, err := h.postingUC.CreatePosting(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PostingFromDomain(posting))
}

// Get retrieves a posting by ID.
func (h *PostingHandler) Get(w http.ResponseWriter, r *http.Request) {
	posting, err := h.postingUC.GetPosting(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostingFromDomain(posting))
}

// Delete removes a posting and releases the card limit it consumed.
func (h *PostingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.postingUC.DeletePosting(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByCard lists a card's postings between ?from and ?to (inclusive days).
// The range defaults to the current month.
func (h *PostingHandler) ListByCard(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(h.loc)

	from, ok, err := parseDateQuery(r, "from", h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date", err.Error())
		return
	}
	if !ok {
		from = calendar.Date(now.Year(), now.Month(), 1, h.loc)
	}

	to, ok, err := parseDateQuery(r, "to", h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date", err.Error())
		return
	}
	if !ok {
		to = calendar.Date(now.Year(), now.Month(), calendar.DaysInMonth(now.Year(), now.Month()), h.loc)
	}

	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "invalid date range", "to is before from")
		return
	}

	postings, err := h.postingUC.ListCardPostings(r.Context(), chi.URLParam(r, "id"), from, calendar.AddDays(to, 1))
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPostingsResponse{
		Postings: dto.PostingsFromDomain(postings),
		Total:    int64(len(postings)),
	})
}

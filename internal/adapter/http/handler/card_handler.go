package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/billcycle/internal/adapter/http/dto"
	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/usecase"
)

// CardService defines the behavior needed by CardHandler.
type CardService interface {
	CreateCard(ctx context.Context, input usecase.CreateCardInput) (*domain.Card, error)
	GetCard(ctx context.Context, id string) (*domain.Card, error)
	ListCards(ctx context.Context, limit, offset int) ([]*domain.Card, error)
}

// CardHandler handles card-related HTTP requests.
type CardHandler struct {
	cardUC CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardUC CardService) *CardHandler {
	return &CardHandler{cardUC: cardUC}
}

// Create creates a new card.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	card, err := h.cardUC.CreateCard(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create card", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CardFromDomain(card))
}

// Get retrieves a card by ID.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing card ID", "")
		return
	}

	card, err := h.cardUC.GetCard(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get card", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CardFromDomain(card))
}

// List lists cards.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	cards, err := h.cardUC.ListCards(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list cards", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCardsResponse{
		Cards: dto.CardsFromDomain(cards),
		Total: int64(len(cards)),
	})
}

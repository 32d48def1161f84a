package usecase

import (
	"context"

	"github.com/iho/billcycle/internal/domain"
)

// CardUseCase handles card business logic.
type CardUseCase struct {
	cardRepo CardRepository
	idGen    IDGenerator
}

// NewCardUseCase creates a new CardUseCase.
func NewCardUseCase(cardRepo CardRepository, idGen IDGenerator) *CardUseCase {
	return &CardUseCase{
		cardRepo: cardRepo,
		idGen:    idGen,
	}
}

// CreateCardInput represents input for creating a card.
type CreateCardInput struct {
	Name           string
	ColorID        int
	MaxLimit       int64
	ClosingDay     int
	DueDay         int
	IgnoreWeekends bool
}

// CreateCard creates a new card with no limit used.
func (uc *CardUseCase) CreateCard(ctx context.Context, input CreateCardInput) (*domain.Card, error) {
	card := &domain.Card{
		ID:             uc.idGen.Generate(),
		Name:           input.Name,
		ColorID:        input.ColorID,
		MaxLimit:       input.MaxLimit,
		ClosingDay:     input.ClosingDay,
		DueDay:         input.DueDay,
		IgnoreWeekends: input.IgnoreWeekends,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	if err := uc.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// GetCard retrieves a card by ID.
func (uc *CardUseCase) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	return uc.cardRepo.GetByID(ctx, id)
}

// ListCards lists cards with pagination.
func (uc *CardUseCase) ListCards(ctx context.Context, limit, offset int) ([]*domain.Card, error) {
	limit, offset, err := domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}

	return uc.cardRepo.List(ctx, limit, offset)
}

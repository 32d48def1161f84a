package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/infrastructure/postgres/generated"
	"github.com/iho/billcycle/internal/usecase"
)

// CardRepository implements usecase.CardRepository.
type CardRepository struct {
	queries *generated.Queries
}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return newCardRepository(pool)
}

func newCardRepository(db generated.DBTX) *CardRepository {
	return &CardRepository{queries: generated.New(db)}
}

// Create creates a new card.
func (r *CardRepository) Create(ctx context.Context, card *domain.Card) error {
	return r.queries.CreateCard(ctx, generated.CreateCardParams{
		ID:             card.ID,
		Name:           card.Name,
		Color:          int32(card.ColorID),
		Limit:          card.MaxLimit,
		LimitUsed:      card.LimitUsed,
		ClosingDay:     int32(card.ClosingDay),
		DueDay:         int32(card.DueDay),
		IgnoreWeekends: card.IgnoreWeekends,
	})
}

// GetByID retrieves a card by ID.
func (r *CardRepository) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	row, err := r.queries.GetCardByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}

		return nil, err
	}

	return rowToCard(row), nil
}

// GetByIDForUpdate retrieves a card by ID with a FOR UPDATE lock.
func (r *CardRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Card, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetCardByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}

		return nil, err
	}

	return rowToCard(row), nil
}

// List lists cards with pagination.
func (r *CardRepository) List(ctx context.Context, limit, offset int) ([]*domain.Card, error) {
	rows, err := r.queries.ListCards(ctx, generated.ListCardsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	cards := make([]*domain.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, rowToCard(row))
	}

	return cards, nil
}

// AdjustLimitUsed adds delta to limit_used. The range CHECK on the table
// rejects any update that would leave limit_used outside [0, limit].
func (r *CardRepository) AdjustLimitUsed(ctx context.Context, tx usecase.Transaction, id string, delta int64) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	n, err := queries.AdjustCardLimitUsed(ctx, generated.AdjustCardLimitUsedParams{
		ID:        id,
		LimitUsed: delta,
	})
	if err != nil {
		if pgErrorCode(err) == pgErrCheckViolation {
			return fmt.Errorf("%w: card %s rejected limit change of %d", domain.ErrInsufficientCreditLimit, id, delta)
		}

		return err
	}

	if n == 0 {
		return domain.ErrCardNotFound
	}

	return nil
}

func rowToCard(row generated.Card) *domain.Card {
	return &domain.Card{
		ID:             row.ID,
		Name:           row.Name,
		ColorID:        int(row.Color),
		MaxLimit:       row.Limit,
		LimitUsed:      row.LimitUsed,
		ClosingDay:     int(row.ClosingDay),
		DueDay:         int(row.DueDay),
		IgnoreWeekends: row.IgnoreWeekends,
	}
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/infrastructure/postgres/generated"
	"github.com/iho/billcycle/internal/usecase"
)

// BlueprintRepository implements usecase.BlueprintRepository over the
// transactions_recurring table.
type BlueprintRepository struct {
	queries *generated.Queries
}

// NewBlueprintRepository creates a new BlueprintRepository.
func NewBlueprintRepository(pool *pgxpool.Pool) *BlueprintRepository {
	return newBlueprintRepository(pool)
}

func newBlueprintRepository(db generated.DBTX) *BlueprintRepository {
	return &BlueprintRepository{queries: generated.New(db)}
}

// Create creates a new blueprint.
func (r *BlueprintRepository) Create(ctx context.Context, tx usecase.Transaction, b *domain.Blueprint) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.CreateRecurring(ctx, generated.CreateRecurringParams{
		ID:                b.ID,
		Value:             b.Amount,
		Description:       b.Description,
		Category:          b.CategoryID,
		DateStart:         timeToPgTimestamptz(b.StartAt),
		Rrule:             b.Rule,
		DateLastProcessed: timePtrToPgTimestamptz(b.LastProcessedAt),
		CardID:            stringPtrToPgText(b.CardID),
		IsInstallment:     b.IsInstallment,
		Flow:              string(b.Flow),
		AccountID:         stringPtrToPgText(b.AccountID),
	})
}

// GetByID retrieves a blueprint by ID.
func (r *BlueprintRepository) GetByID(ctx context.Context, id string) (*domain.Blueprint, error) {
	row, err := r.queries.GetRecurringByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBlueprintNotFound
		}

		return nil, err
	}

	return rowToBlueprint(row), nil
}

// GetByIDForUpdate retrieves a blueprint by ID with a FOR UPDATE lock.
func (r *BlueprintRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Blueprint, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetRecurringByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBlueprintNotFound
		}

		return nil, err
	}

	return rowToBlueprint(row), nil
}

// List lists blueprints with pagination.
func (r *BlueprintRepository) List(ctx context.Context, limit, offset int) ([]*domain.Blueprint, error) {
	rows, err := r.queries.ListRecurring(ctx, generated.ListRecurringParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToBlueprints(rows), nil
}

// ListAll lists every blueprint, grouped by card.
func (r *BlueprintRepository) ListAll(ctx context.Context) ([]*domain.Blueprint, error) {
	rows, err := r.queries.ListAllRecurring(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToBlueprints(rows), nil
}

// ListByCard lists the blueprints linked to a card.
func (r *BlueprintRepository) ListByCard(ctx context.Context, cardID string) ([]*domain.Blueprint, error) {
	rows, err := r.queries.ListRecurringByCard(ctx, stringToPgText(cardID))
	if err != nil {
		return nil, err
	}

	return rowsToBlueprints(rows), nil
}

// UpdateLastProcessed moves the blueprint's sync watermark.
func (r *BlueprintRepository) UpdateLastProcessed(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.UpdateRecurringLastProcessed(ctx, generated.UpdateRecurringLastProcessedParams{
		ID:                id,
		DateLastProcessed: timeToPgTimestamptz(at),
	})
}

// Delete deletes a blueprint. Postings it generated keep their rows and
// lose the link (ON DELETE SET NULL).
func (r *BlueprintRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	n, err := queries.DeleteRecurring(ctx, id)
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrBlueprintNotFound
	}

	return nil
}

func rowsToBlueprints(rows []generated.TransactionsRecurring) []*domain.Blueprint {
	blueprints := make([]*domain.Blueprint, 0, len(rows))
	for _, row := range rows {
		blueprints = append(blueprints, rowToBlueprint(row))
	}

	return blueprints
}

func rowToBlueprint(row generated.TransactionsRecurring) *domain.Blueprint {
	return &domain.Blueprint{
		ID:              row.ID,
		Amount:          row.Value,
		Description:     row.Description,
		CategoryID:      row.Category,
		Flow:            domain.Flow(row.Flow),
		StartAt:         row.DateStart.Time,
		Rule:            row.Rrule,
		LastProcessedAt: pgTimestamptzToTimePtr(row.DateLastProcessed),
		CardID:          pgTextToStringPtr(row.CardID),
		IsInstallment:   row.IsInstallment,
		AccountID:       pgTextToStringPtr(row.AccountID),
	}
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/infrastructure/postgres/generated"
	"github.com/iho/billcycle/internal/usecase"
)

// PostingRepository implements usecase.PostingRepository over the
// transactions table.
type PostingRepository struct {
	queries *generated.Queries
}

// NewPostingRepository creates a new PostingRepository.
func NewPostingRepository(pool *pgxpool.Pool) *PostingRepository {
	return newPostingRepository(pool)
}

func newPostingRepository(db generated.DBTX) *PostingRepository {
	return &PostingRepository{queries: generated.New(db)}
}

// Create creates a new posting.
func (r *PostingRepository) Create(ctx context.Context, tx usecase.Transaction, p *domain.Posting) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	err := queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:           p.ID,
		Value:        p.Amount,
		Description:  p.Description,
		Category:     p.CategoryID,
		Date:         timeToPgTimestamptz(p.Date),
		IDRecurring:  stringPtrToPgText(p.RecurringID),
		CardID:       stringPtrToPgText(p.CardID),
		Flow:         string(p.Flow),
		AccountID:    stringPtrToPgText(p.AccountID),
		LimitApplied: p.LimitApplied,
	})
	if err != nil && pgErrorCode(err) == pgErrUniqueViolation && p.RecurringID != nil {
		return fmt.Errorf("%w: blueprint %s at %s", domain.ErrDuplicatePosting, *p.RecurringID, p.Date.Format(time.RFC3339))
	}

	return err
}

// GetByID retrieves a posting by ID.
func (r *PostingRepository) GetByID(ctx context.Context, id string) (*domain.Posting, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostingNotFound
		}

		return nil, err
	}

	return rowToPosting(row), nil
}

// GetByIDForUpdate retrieves a posting by ID with a FOR UPDATE lock.
func (r *PostingRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Posting, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetTransactionByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostingNotFound
		}

		return nil, err
	}

	return rowToPosting(row), nil
}

// Delete deletes a posting.
func (r *PostingRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	n, err := queries.DeleteTransaction(ctx, id)
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrPostingNotFound
	}

	return nil
}

// DeleteByBlueprint deletes every posting generated by a blueprint and
// returns the deleted rows.
func (r *PostingRepository) DeleteByBlueprint(ctx context.Context, tx usecase.Transaction, blueprintID string) ([]*domain.Posting, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	rows, err := queries.DeleteTransactionsByRecurring(ctx, stringToPgText(blueprintID))
	if err != nil {
		return nil, err
	}

	return rowsToPostings(rows), nil
}

// ListByBlueprint lists the postings generated by a blueprint.
func (r *PostingRepository) ListByBlueprint(ctx context.Context, blueprintID string) ([]*domain.Posting, error) {
	rows, err := r.queries.ListTransactionsByRecurring(ctx, stringToPgText(blueprintID))
	if err != nil {
		return nil, err
	}

	return rowsToPostings(rows), nil
}

// ListByBlueprintTx lists a blueprint's postings dated in [from, to] inside tx.
func (r *PostingRepository) ListByBlueprintTx(ctx context.Context, tx usecase.Transaction, blueprintID string, from, to time.Time) ([]*domain.Posting, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	rows, err := queries.ListTransactionsByRecurringBetween(ctx, generated.ListTransactionsByRecurringBetweenParams{
		IDRecurring: stringToPgText(blueprintID),
		Date:        timeToPgTimestamptz(from),
		Date_2:      timeToPgTimestamptz(to),
	})
	if err != nil {
		return nil, err
	}

	return rowsToPostings(rows), nil
}

// ListByCardBetween lists a card's postings dated in [from, to).
func (r *PostingRepository) ListByCardBetween(ctx context.Context, cardID string, from, to time.Time) ([]*domain.Posting, error) {
	rows, err := r.queries.ListTransactionsByCardBetween(ctx, generated.ListTransactionsByCardBetweenParams{
		CardID: stringToPgText(cardID),
		Date:   timeToPgTimestamptz(from),
		Date_2: timeToPgTimestamptz(to),
	})
	if err != nil {
		return nil, err
	}

	return rowsToPostings(rows), nil
}

// CardCycleTotals returns the statement total (outflows positive) and the
// number of a card's postings dated in [from, to).
func (r *PostingRepository) CardCycleTotals(ctx context.Context, cardID string, from, to time.Time) (int64, int, error) {
	row, err := r.queries.CardCycleTotals(ctx, generated.CardCycleTotalsParams{
		CardID: stringToPgText(cardID),
		Date:   timeToPgTimestamptz(from),
		Date_2: timeToPgTimestamptz(to),
	})
	if err != nil {
		return 0, 0, err
	}

	return row.Total, int(row.Count), nil
}

func rowsToPostings(rows []generated.Transaction) []*domain.Posting {
	postings := make([]*domain.Posting, 0, len(rows))
	for _, row := range rows {
		postings = append(postings, rowToPosting(row))
	}

	return postings
}

func rowToPosting(row generated.Transaction) *domain.Posting {
	return &domain.Posting{
		ID:           row.ID,
		Amount:       row.Value,
		Description:  row.Description,
		CategoryID:   row.Category,
		Date:         row.Date.Time,
		RecurringID:  pgTextToStringPtr(row.IDRecurring),
		CardID:       pgTextToStringPtr(row.CardID),
		Flow:         domain.Flow(row.Flow),
		AccountID:    pgTextToStringPtr(row.AccountID),
		LimitApplied: row.LimitApplied,
	}
}

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/billcycle/internal/domain"
)

var transactionColumns = []string{
	"id", "value", "description", "category", "date", "id_recurring", "card_id", "flow", "account_id", "limit_applied", "created_at",
}

func TestPostingRepositoryCreateDuplicateOccurrence(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newPostingRepository(mockPool)
	manager := newTxManagerWithPool(mockPool)

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO transactions").
		WithArgs("p-1", int64(-100), "", "", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "outflow", pgxmock.AnyArg(), int64(100)).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})
	mockPool.ExpectRollback()

	ctx := context.Background()
	tx, err := manager.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	bp := "bp-1"
	err = repo.Create(ctx, tx, &domain.Posting{
		ID:           "p-1",
		Amount:       -100,
		Flow:         domain.FlowOutflow,
		Date:         time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		RecurringID:  &bp,
		LimitApplied: 100,
	})
	if !errors.Is(err, domain.ErrDuplicatePosting) {
		t.Fatalf("expected ErrDuplicatePosting, got %v", err)
	}

	_ = tx.Rollback(ctx)
	assertExpectations(t, mockPool)
}

func TestPostingRepositoryDeleteByBlueprintReturnsRows(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newPostingRepository(mockPool)
	manager := newTxManagerWithPool(mockPool)

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectBegin()
	mockPool.ExpectQuery("DELETE FROM transactions WHERE id_recurring = \\$1").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow("p-1", int64(-100), "Gym", "", date, "bp-1", "card-1", "outflow", nil, int64(100), nil).
			AddRow("p-2", int64(-100), "Gym", "", date.AddDate(0, 1, 0), "bp-1", "card-1", "outflow", nil, int64(100), nil))
	mockPool.ExpectCommit()

	ctx := context.Background()
	tx, err := manager.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	deleted, err := repo.DeleteByBlueprint(ctx, tx, "bp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deleted) != 2 {
		t.Fatalf("expected 2 deleted postings, got %d", len(deleted))
	}
	if deleted[0].StatementAmount() != 100 || *deleted[0].CardID != "card-1" || deleted[0].AccountID != nil {
		t.Fatalf("unexpected posting: %+v", deleted[0])
	}
	if deleted[0].LimitApplied != 100 || deleted[1].LimitApplied != 100 {
		t.Fatalf("unexpected posting: %+v", deleted[0])
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	assertExpectations(t, mockPool)
}

func TestPostingRepositoryCardCycleTotals(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newPostingRepository(mockPool)

	from := time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery("SELECT COALESCE\\(SUM\\(-value\\), 0\\)").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"total", "count"}).AddRow(int64(3500), int64(3)))

	total, count, err := repo.CardCycleTotals(context.Background(), "card-1", from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3500 || count != 3 {
		t.Fatalf("CardCycleTotals() = %d, %d; want 3500, 3", total, count)
	}

	assertExpectations(t, mockPool)
}

func TestPostingRepositoryDeleteMissing(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newPostingRepository(mockPool)
	manager := newTxManagerWithPool(mockPool)

	mockPool.ExpectBegin()
	mockPool.ExpectExec("DELETE FROM transactions WHERE id = \\$1").
		WithArgs("nope").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mockPool.ExpectRollback()

	ctx := context.Background()
	tx, err := manager.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := repo.Delete(ctx, tx, "nope"); !errors.Is(err, domain.ErrPostingNotFound) {
		t.Fatalf("expected ErrPostingNotFound, got %v", err)
	}

	_ = tx.Rollback(ctx)
	assertExpectations(t, mockPool)
}

func TestPostingRepositoryListByCardBetween(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newPostingRepository(mockPool)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mockPool.ExpectQuery("SELECT (.+) FROM transactions\\s+WHERE card_id = \\$1 AND date >= \\$2 AND date < \\$3").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow("p-1", int64(400), "Refund", "", date, nil, "card-1", "inflow", nil, int64(-150), nil))

	postings, err := repo.ListByCardBetween(context.Background(), "card-1", date, date.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 1 || postings[0].RecurringID != nil || postings[0].StatementAmount() != -400 {
		t.Fatalf("unexpected postings: %+v", postings)
	}
	// refunds record only the part they released
	if postings[0].LimitApplied != -150 {
		t.Fatalf("expected limit applied -150, got %d", postings[0].LimitApplied)
	}

	assertExpectations(t, mockPool)
}

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/billcycle/internal/domain"
)

var cardColumns = []string{"id", "name", "color", "limit", "limit_used", "closing_day", "due_day", "ignore_weekends", "created_at"}

func TestCardRepositoryCreate(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newCardRepository(mockPool)

	mockPool.ExpectExec("INSERT INTO cards").
		WithArgs("card-1", "Gold", int32(3), int64(100000), int64(0), int32(20), int32(10), true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &domain.Card{
		ID:             "card-1",
		Name:           "Gold",
		ColorID:        3,
		MaxLimit:       100000,
		ClosingDay:     20,
		DueDay:         10,
		IgnoreWeekends: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestCardRepositoryGetByID(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newCardRepository(mockPool)

	rows := pgxmock.NewRows(cardColumns).
		AddRow("card-1", "Gold", int32(3), int64(100000), int64(2500), int32(20), int32(10), false, nil)
	mockPool.ExpectQuery("SELECT (.+) FROM cards WHERE id = \\$1").WithArgs("card-1").WillReturnRows(rows)

	card, err := repo.GetByID(context.Background(), "card-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.MaxLimit != 100000 || card.LimitUsed != 2500 || card.ClosingDay != 20 || card.DueDay != 10 {
		t.Fatalf("unexpected card: %+v", card)
	}
	if card.Available() != 97500 {
		t.Fatalf("Available() = %d, want 97500", card.Available())
	}

	assertExpectations(t, mockPool)
}

func TestCardRepositoryGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newCardRepository(mockPool)

	mockPool.ExpectQuery("SELECT (.+) FROM cards").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestCardRepositoryGetByIDForUpdate(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newCardRepository(mockPool)
	manager := newTxManagerWithPool(mockPool)

	mockPool.ExpectBegin()
	mockPool.ExpectQuery("SELECT (.+) FROM cards WHERE id = \\$1 FOR UPDATE").
		WithArgs("card-1").
		WillReturnRows(pgxmock.NewRows(cardColumns).
			AddRow("card-1", "Gold", int32(0), int64(1000), int64(0), int32(5), int32(15), false, nil))
	mockPool.ExpectRollback()

	ctx := context.Background()
	tx, err := manager.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	card, err := repo.GetByIDForUpdate(ctx, tx, "card-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.ID != "card-1" {
		t.Fatalf("unexpected card: %+v", card)
	}

	_ = tx.Rollback(ctx)
	assertExpectations(t, mockPool)
}

func TestCardRepositoryAdjustLimitUsed(t *testing.T) {
	tests := []struct {
		name    string
		result  pgconn.CommandTag
		err     error
		wantErr error
	}{
		{name: "applied", result: pgxmock.NewResult("UPDATE", 1)},
		{name: "missing card", result: pgxmock.NewResult("UPDATE", 0), wantErr: domain.ErrCardNotFound},
		{name: "range check", err: &pgconn.PgError{Code: pgErrCheckViolation}, wantErr: domain.ErrInsufficientCreditLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPool := newMockPool(t)
			repo := newCardRepository(mockPool)
			manager := newTxManagerWithPool(mockPool)

			mockPool.ExpectBegin()
			exec := mockPool.ExpectExec("UPDATE cards SET limit_used = limit_used \\+ \\$2").WithArgs("card-1", int64(-300))
			if tt.err != nil {
				exec.WillReturnError(tt.err)
			} else {
				exec.WillReturnResult(tt.result)
			}

			ctx := context.Background()
			tx, err := manager.Begin(ctx)
			if err != nil {
				t.Fatalf("begin: %v", err)
			}

			err = repo.AdjustLimitUsed(ctx, tx, "card-1", -300)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			assertExpectations(t, mockPool)
		})
	}
}

func TestCardRepositoryList(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newCardRepository(mockPool)

	rows := pgxmock.NewRows(cardColumns).
		AddRow("a", "A", int32(0), int64(10), int64(0), int32(1), int32(1), false, nil).
		AddRow("b", "B", int32(0), int64(20), int64(5), int32(31), int32(31), true, nil)
	mockPool.ExpectQuery("SELECT (.+) FROM cards ORDER BY").WithArgs(int32(50), int32(0)).WillReturnRows(rows)

	cards, err := repo.List(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 2 || cards[1].ClosingDay != 31 || !cards[1].IgnoreWeekends {
		t.Fatalf("unexpected cards: %+v", cards)
	}

	assertExpectations(t, mockPool)
}

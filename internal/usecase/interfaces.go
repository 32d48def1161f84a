package usecase

import (
	"context"
	"time"

	"github.com/iho/billcycle/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// CardRepository defines data access for cards.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByID(ctx context.Context, id string) (*domain.Card, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Card, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Card, error)
	// AdjustLimitUsed adds delta to limit_used. Negative deltas release.
	AdjustLimitUsed(ctx context.Context, tx Transaction, id string, delta int64) error
}

// BlueprintRepository defines data access for recurring blueprints.
type BlueprintRepository interface {
	Create(ctx context.Context, tx Transaction, blueprint *domain.Blueprint) error
	GetByID(ctx context.Context, id string) (*domain.Blueprint, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Blueprint, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Blueprint, error)
	ListAll(ctx context.Context) ([]*domain.Blueprint, error)
	ListByCard(ctx context.Context, cardID string) ([]*domain.Blueprint, error)
	UpdateLastProcessed(ctx context.Context, tx Transaction, id string, at time.Time) error
	Delete(ctx context.Context, tx Transaction, id string) error
}

// PostingRepository defines data access for postings.
type PostingRepository interface {
	Create(ctx context.Context, tx Transaction, posting *domain.Posting) error
	GetByID(ctx context.Context, id string) (*domain.Posting, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Posting, error)
	Delete(ctx context.Context, tx Transaction, id string) error
	// DeleteByBlueprint removes every posting generated by a blueprint and
	// returns the deleted rows.
	DeleteByBlueprint(ctx context.Context, tx Transaction, blueprintID string) ([]*domain.Posting, error)
	ListByBlueprint(ctx context.Context, blueprintID string) ([]*domain.Posting, error)
	ListByBlueprintTx(ctx context.Context, tx Transaction, blueprintID string, from, to time.Time) ([]*domain.Posting, error)
	ListByCardBetween(ctx context.Context, cardID string, from, to time.Time) ([]*domain.Posting, error)
	// CardCycleTotals sums postings of a card dated in [from, to): outflow
	// magnitudes minus inflow magnitudes, and the row count.
	CardCycleTotals(ctx context.Context, cardID string, from, to time.Time) (int64, int, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries operations that fail with transient store errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// RecurrenceExpander expands recurrence rules into occurrence instants.
type RecurrenceExpander interface {
	// Expand returns the occurrences of rule anchored at anchor between from
	// and to, ascending and truncated to the second. from after to yields an
	// empty result.
	Expand(rule string, anchor, from, to time.Time, inclusive bool) ([]time.Time, error)
	Validate(rule string) error
}

// SkipNotifier receives recurring charges refused by admission control.
type SkipNotifier interface {
	RecurringChargeSkipped(ctx context.Context, event domain.RecurringChargeSkipped) error
}

// JobLock provides cross-process mutual exclusion for batch jobs.
type JobLock interface {
	// TryLock acquires key for ttl. ok is false when another holder owns it.
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete, so it can be retried.
	Release(ctx context.Context, key string) error
}

package usecase

import (
	"context"
	"time"

	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/infrastructure/metrics"
)

// BlueprintUseCase handles recurring blueprint business logic.
type BlueprintUseCase struct {
	txManager     TransactionManager
	blueprintRepo BlueprintRepository
	postingRepo   PostingRepository
	cardRepo      CardRepository
	limits        *CreditLimitLedger
	expander      RecurrenceExpander
	idGen         IDGenerator
	loc           *time.Location
	metrics       *metrics.Metrics
}

// NewBlueprintUseCase creates a new BlueprintUseCase. loc must match the
// sync's zone; nil means UTC.
func NewBlueprintUseCase(
	txManager TransactionManager,
	blueprintRepo BlueprintRepository,
	postingRepo PostingRepository,
	cardRepo CardRepository,
	limits *CreditLimitLedger,
	expander RecurrenceExpander,
	idGen IDGenerator,
	loc *time.Location,
	metrics *metrics.Metrics,
) *BlueprintUseCase {
	if loc == nil {
		loc = time.UTC
	}

	return &BlueprintUseCase{
		txManager:     txManager,
		blueprintRepo: blueprintRepo,
		postingRepo:   postingRepo,
		cardRepo:      cardRepo,
		limits:        limits,
		expander:      expander,
		idGen:         idGen,
		loc:           loc,
		metrics:       metrics,
	}
}

// CreateBlueprintInput represents input for creating a recurring blueprint.
// Amount is a magnitude; the sign is derived from Flow.
type CreateBlueprintInput struct {
	StartAt     time.Time
	CardID      *string
	AccountID   *string
	Description string
	CategoryID  string
	Rule        string
	Flow        domain.Flow
	Amount      int64
}

// CreateBlueprint validates and stores a recurring blueprint. Nothing is
// posted until the next sync run.
func (uc *BlueprintUseCase) CreateBlueprint(ctx context.Context, input CreateBlueprintInput) (*domain.Blueprint, error) {
	if !input.Flow.IsValid() {
		return nil, domain.ErrInvalidFlow
	}

	blueprint := &domain.Blueprint{
		ID:          uc.idGen.Generate(),
		Amount:      input.Flow.SignedAmount(input.Amount),
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Flow:        input.Flow,
		StartAt:     input.StartAt,
		Rule:        input.Rule,
		CardID:      input.CardID,
		AccountID:   input.AccountID,
	}

	if err := blueprint.Validate(); err != nil {
		return nil, err
	}

	if err := uc.expander.Validate(blueprint.Rule); err != nil {
		return nil, err
	}

	if blueprint.IsCardLinked() {
		if _, err := uc.cardRepo.GetByID(ctx, *blueprint.CardID); err != nil {
			return nil, err
		}
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.blueprintRepo.Create(txCtx, tx, blueprint); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return blueprint, nil
}

// GetBlueprint retrieves a blueprint by ID.
func (uc *BlueprintUseCase) GetBlueprint(ctx context.Context, id string) (*domain.Blueprint, error) {
	return uc.blueprintRepo.GetByID(ctx, id)
}

// ListBlueprints lists blueprints with pagination.
func (uc *BlueprintUseCase) ListBlueprints(ctx context.Context, limit, offset int) ([]*domain.Blueprint, error) {
	limit, offset, err := domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}

	return uc.blueprintRepo.List(ctx, limit, offset)
}

// DeleteBlueprint deletes a blueprint. With cascade, every posting it
// generated is deleted too and the limit each one recorded is reversed. For
// installment purchases the reservation of installments not yet posted is
// released.
// Without cascade, generated postings stay and lose their blueprint link.
func (uc *BlueprintUseCase) DeleteBlueprint(ctx context.Context, id string, cascade bool) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	blueprint, err := uc.blueprintRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}

	var card *domain.Card
	if blueprint.IsCardLinked() {
		card, err = uc.cardRepo.GetByIDForUpdate(txCtx, tx, *blueprint.CardID)
		if err != nil {
			return err
		}
	}

	var net int64
	if card != nil && blueprint.IsInstallment {
		unposted, err := uc.unpostedInstallments(blueprint)
		if err != nil {
			return err
		}
		net += int64(unposted) * blueprint.Magnitude()
	}

	if cascade {
		deleted, err := uc.postingRepo.DeleteByBlueprint(txCtx, tx, blueprint.ID)
		if err != nil {
			return err
		}

		for _, p := range deleted {
			net += p.LimitApplied
		}

		if uc.metrics != nil && len(deleted) > 0 {
			uc.metrics.PostingsDeleted.Add(float64(len(deleted)))
		}
	}

	if card != nil {
		if err := uc.limits.ReverseNet(txCtx, tx, card, net); err != nil {
			return err
		}
	}

	if err := uc.blueprintRepo.Delete(txCtx, tx, blueprint.ID); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// unpostedInstallments counts the installments of b the sync has not reached
// yet. Those still sit in the purchase's upfront reservation; everything up to
// the watermark was handed to a posting, even if that posting was deleted.
func (uc *BlueprintUseCase) unpostedInstallments(b *domain.Blueprint) (int, error) {
	_, count, err := domain.ParseInstallmentRule(b.Rule)
	if err != nil {
		return 0, err
	}

	if b.LastProcessedAt == nil {
		return count, nil
	}

	anchor := b.StartAt.In(uc.loc)
	reached, err := uc.expander.Expand(b.Rule, anchor, anchor, b.LastProcessedAt.In(uc.loc), true)
	if err != nil {
		return 0, err
	}

	return max(count-len(reached), 0), nil
}

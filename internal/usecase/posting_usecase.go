package usecase

import (
	"context"
	"time"

	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/infrastructure/metrics"
)

// PostingUseCase handles one-off postings entered by the user.
type PostingUseCase struct {
	txManager   TransactionManager
	postingRepo PostingRepository
	cardRepo    CardRepository
	limits      *CreditLimitLedger
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	postingRepo PostingRepository,
	cardRepo CardRepository,
	limits *CreditLimitLedger,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:   txManager,
		postingRepo: postingRepo,
		cardRepo:    cardRepo,
		limits:      limits,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// CreatePostingInput represents input for a one-off posting. Amount is a
// magnitude; the sign is derived from Flow.
type CreatePostingInput struct {
	Date        time.Time
	CardID      *string
	AccountID   *string
	Description string
	CategoryID  string
	Flow        domain.Flow
	Amount      int64
}

// CreatePosting records a posting. Card-linked outflows go through admission
// control and reserve limit in the same transaction.
func (uc *PostingUseCase) CreatePosting(ctx context.Context, input CreatePostingInput) (*domain.Posting, error) {
	if !input.Flow.IsValid() {
		return nil, domain.ErrInvalidFlow
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	posting := &domain.Posting{
		ID:          uc.idGen.Generate(),
		Amount:      input.Flow.SignedAmount(input.Amount),
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Date:        date,
		CardID:      input.CardID,
		Flow:        input.Flow,
		AccountID:   input.AccountID,
	}

	if err := posting.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if posting.IsCardLinked() {
		card, err := uc.cardRepo.GetByIDForUpdate(txCtx, tx, *posting.CardID)
		if err != nil {
			return nil, err
		}

		if posting.Flow == domain.FlowOutflow {
			if err := uc.limits.Admit(card, posting.Magnitude()); err != nil {
				if uc.metrics != nil {
					uc.metrics.AdmissionRejections.WithLabelValues(metrics.SourceManual).Inc()
				}
				return nil, err
			}
		}

		if err := uc.limits.ApplyPosting(txCtx, tx, card, posting); err != nil {
			return nil, err
		}

		if err := uc.postingRepo.Create(txCtx, tx, posting); err != nil {
			return nil, err
		}
	} else if err := uc.postingRepo.Create(txCtx, tx, posting); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PostingsCreated.WithLabelValues(metrics.SourceManual).Inc()
	}

	return posting, nil
}

// GetPosting retrieves a posting by ID.
func (uc *PostingUseCase) GetPosting(ctx context.Context, id string) (*domain.Posting, error) {
	return uc.postingRepo.GetByID(ctx, id)
}

// ListCardPostings lists postings of a card dated in [from, to).
func (uc *PostingUseCase) ListCardPostings(ctx context.Context, cardID string, from, to time.Time) ([]*domain.Posting, error) {
	return uc.postingRepo.ListByCardBetween(ctx, cardID, from, to)
}

// DeletePosting removes a posting and reverses the limit change it recorded
// when it was created, in the same transaction.
func (uc *PostingUseCase) DeletePosting(ctx context.Context, id string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	posting, err := uc.postingRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}

	if posting.IsCardLinked() {
		card, err := uc.cardRepo.GetByIDForUpdate(txCtx, tx, *posting.CardID)
		if err != nil {
			return err
		}

		if err := uc.limits.ReverseNet(txCtx, tx, card, posting.LimitApplied); err != nil {
			return err
		}
	}

	if err := uc.postingRepo.Delete(txCtx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.PostingsDeleted.Inc()
	}

	return nil
}

package usecase

import (
	"context"

	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/infrastructure/metrics"
)

// CreditLimitLedger keeps a card's limit_used in step with the postings that
// consume it. Reserve and Release must run in the same transaction as the
// posting they account for, with the card row locked by the caller.
type CreditLimitLedger struct {
	cardRepo CardRepository
	metrics  *metrics.Metrics
}

// NewCreditLimitLedger creates a new CreditLimitLedger.
func NewCreditLimitLedger(cardRepo CardRepository, metrics *metrics.Metrics) *CreditLimitLedger {
	return &CreditLimitLedger{
		cardRepo: cardRepo,
		metrics:  metrics,
	}
}

// Admit checks a charge against the card's in-transaction running limit.
func (l *CreditLimitLedger) Admit(card *domain.Card, amount int64) error {
	return card.ValidateCharge(amount)
}

// Reserve increments limit_used by amount.
func (l *CreditLimitLedger) Reserve(ctx context.Context, tx Transaction, card *domain.Card, amount int64) error {
	if amount <= 0 {
		return nil
	}

	if err := l.cardRepo.AdjustLimitUsed(ctx, tx, card.ID, amount); err != nil {
		return err
	}
	card.LimitUsed += amount

	if l.metrics != nil {
		l.metrics.LimitReserved.Add(float64(amount))
	}

	return nil
}

// Release decrements limit_used by amount. It performs a plain arithmetic
// update; use ReleaseUpTo to floor at zero.
func (l *CreditLimitLedger) Release(ctx context.Context, tx Transaction, card *domain.Card, amount int64) error {
	if amount <= 0 {
		return nil
	}

	if err := l.cardRepo.AdjustLimitUsed(ctx, tx, card.ID, -amount); err != nil {
		return err
	}
	card.LimitUsed -= amount

	if l.metrics != nil {
		l.metrics.LimitReleased.Add(float64(amount))
	}

	return nil
}

// ReleaseUpTo releases min(amount, limit_used) and returns what was released.
func (l *CreditLimitLedger) ReleaseUpTo(ctx context.Context, tx Transaction, card *domain.Card, amount int64) (int64, error) {
	amount = min(amount, card.LimitUsed)
	if err := l.Release(ctx, tx, card, amount); err != nil {
		return 0, err
	}

	return amount, nil
}

// ApplyPosting books the limit effect of a new posting and records it on
// posting.LimitApplied: outflows reserve their magnitude, inflows give back at
// most what is outstanding.
func (l *CreditLimitLedger) ApplyPosting(ctx context.Context, tx Transaction, card *domain.Card, posting *domain.Posting) error {
	if posting.Flow == domain.FlowOutflow {
		if err := l.Reserve(ctx, tx, card, posting.Magnitude()); err != nil {
			return err
		}
		posting.LimitApplied = posting.Magnitude()
		return nil
	}

	released, err := l.ReleaseUpTo(ctx, tx, card, posting.Magnitude())
	if err != nil {
		return err
	}
	posting.LimitApplied = -released

	return nil
}

// ClaimReservation moves one installment's share out of its purchase's
// upfront reservation and onto the posting. limit_used is unchanged.
func (l *CreditLimitLedger) ClaimReservation(posting *domain.Posting) {
	posting.LimitApplied = posting.Magnitude()
}

// ReverseNet undoes a net limit effect, usually the sum of LimitApplied over
// removed postings. A positive net is released; a negative one is reserved
// again subject to admission.
func (l *CreditLimitLedger) ReverseNet(ctx context.Context, tx Transaction, card *domain.Card, net int64) error {
	switch {
	case net > 0:
		_, err := l.ReleaseUpTo(ctx, tx, card, net)
		return err
	case net < 0:
		if err := l.Admit(card, -net); err != nil {
			return err
		}
		return l.Reserve(ctx, tx, card, -net)
	default:
		return nil
	}
}

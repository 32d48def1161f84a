package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/billcycle/internal/calendar"
	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/infrastructure/metrics"
)

// StatementUseCase computes card statements. It only reads and may observe
// state before or after a concurrent sync.
type StatementUseCase struct {
	cardRepo      CardRepository
	blueprintRepo BlueprintRepository
	postingRepo   PostingRepository
	expander      RecurrenceExpander
	loc           *time.Location
	logger        zerolog.Logger
	metrics       *metrics.Metrics
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(
	cardRepo CardRepository,
	blueprintRepo BlueprintRepository,
	postingRepo PostingRepository,
	expander RecurrenceExpander,
	loc *time.Location,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *StatementUseCase {
	if loc == nil {
		loc = time.UTC
	}

	return &StatementUseCase{
		cardRepo:      cardRepo,
		blueprintRepo: blueprintRepo,
		postingRepo:   postingRepo,
		expander:      expander,
		loc:           loc,
		logger:        logger.With().Str("component", "statement").Logger(),
		metrics:       metrics,
	}
}

// GetCardStatement returns the statement of the cycle containing ref.
func (uc *StatementUseCase) GetCardStatement(ctx context.Context, cardID string, ref time.Time) (*domain.BillingCycleSummary, error) {
	card, err := uc.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	return uc.statementFor(ctx, card, domain.ResolveCycle(ref.In(uc.loc), card.ClosingDay))
}

// GetCardStatementHistory returns up to months statements, most recent first,
// walking back one cycle at a time from the cycle containing ref. The walk
// stops early if the card disappears.
func (uc *StatementUseCase) GetCardStatementHistory(ctx context.Context, cardID string, months int, ref time.Time) ([]*domain.BillingCycleSummary, error) {
	months = min(max(months, 1), MaxStatementHistory)

	history := make([]*domain.BillingCycleSummary, 0, months)
	cursor := ref.In(uc.loc)

	for len(history) < months {
		card, err := uc.cardRepo.GetByID(ctx, cardID)
		if errors.Is(err, domain.ErrCardNotFound) && len(history) > 0 {
			break
		}
		if err != nil {
			return nil, err
		}

		cycle := domain.ResolveCycle(cursor, card.ClosingDay)
		summary, err := uc.statementFor(ctx, card, cycle)
		if err != nil {
			return nil, err
		}
		history = append(history, summary)

		cursor = calendar.AddDays(cycle.Start, -1)
	}

	return history, nil
}

func (uc *StatementUseCase) statementFor(ctx context.Context, card *domain.Card, cycle domain.Cycle) (*domain.BillingCycleSummary, error) {
	start := time.Now()
	summary := domain.NewBillingCycleSummary(card, cycle)
	from, to := cycle.Bounds()

	realizedTotal, count, err := uc.postingRepo.CardCycleTotals(ctx, card.ID, from, to)
	if err != nil {
		return nil, err
	}
	summary.RealizedTotal = realizedTotal
	summary.TransactionsCount = count

	blueprints, err := uc.blueprintRepo.ListByCard(ctx, card.ID)
	if err != nil {
		return nil, err
	}

	if len(blueprints) > 0 {
		postings, err := uc.postingRepo.ListByCardBetween(ctx, card.ID, from, to)
		if err != nil {
			return nil, err
		}
		realized := realizedByBlueprint(postings, uc.loc)

		for _, b := range blueprints {
			occurrences, err := uc.expander.Expand(b.Rule, b.StartAt.In(uc.loc), from, to.Add(-time.Second), true)
			if err != nil {
				uc.logger.Warn().Err(err).Str("blueprint_id", b.ID).Msg("skipping blueprint with invalid rule in projection")
				continue
			}

			done := realized[b.ID]
			pending := 0
			for _, at := range occurrences {
				if !done.Has(at, uc.loc) {
					pending++
				}
			}
			if pending == 0 {
				continue
			}

			projected := int64(pending) * b.Magnitude()
			if b.Flow == domain.FlowInflow {
				projected = -projected
			}

			if b.IsInstallment {
				summary.ProjectedInstallmentTotal += projected
			} else {
				summary.ProjectedRecurringTotal += projected
			}
		}
	}

	summary.Total()

	if uc.metrics != nil {
		uc.metrics.StatementDuration.Observe(time.Since(start).Seconds())
	}

	return summary, nil
}

func realizedByBlueprint(postings []*domain.Posting, loc *time.Location) map[string]domain.DateKeySet {
	out := make(map[string]domain.DateKeySet)
	for _, p := range postings {
		if p.RecurringID == nil {
			continue
		}

		set, ok := out[*p.RecurringID]
		if !ok {
			set = domain.NewDateKeySet()
			out[*p.RecurringID] = set
		}
		set.Add(p.Date, loc)
	}
	return out
}

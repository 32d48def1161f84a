package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/billcycle/internal/calendar"
	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/infrastructure/metrics"
)

// SyncConfig tunes a sync run.
type SyncConfig struct {
	// Location is the zone in which calendar days are evaluated.
	Location *time.Location
	// Concurrency is the number of card groups processed in parallel.
	Concurrency int
}

// SyncReport summarizes one sync run.
type SyncReport struct {
	StartedAt         time.Time
	FinishedAt        time.Time
	BlueprintsScanned int
	PostingsCreated   int
	ChargesSkipped    []domain.RecurringChargeSkipped
	Failures          int
}

// SyncUseCase materializes recurring blueprints into postings.
//
// Each blueprint is handled in its own transaction: it is locked, its realized
// occurrences are reloaded, card-linked outflows pass admission control against
// the locked card, and the watermark only moves when something was posted.
// Callers must ensure at most one run is active at a time.
type SyncUseCase struct {
	txManager     TransactionManager
	blueprintRepo BlueprintRepository
	postingRepo   PostingRepository
	cardRepo      CardRepository
	limits        *CreditLimitLedger
	expander      RecurrenceExpander
	notifier      SkipNotifier
	retrier       Retrier
	idGen         IDGenerator
	loc           *time.Location
	concurrency   int
	logger        zerolog.Logger
	metrics       *metrics.Metrics
}

// NewSyncUseCase creates a new SyncUseCase.
func NewSyncUseCase(
	txManager TransactionManager,
	blueprintRepo BlueprintRepository,
	postingRepo PostingRepository,
	cardRepo CardRepository,
	limits *CreditLimitLedger,
	expander RecurrenceExpander,
	notifier SkipNotifier,
	retrier Retrier,
	idGen IDGenerator,
	cfg SyncConfig,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *SyncUseCase {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return &SyncUseCase{
		txManager:     txManager,
		blueprintRepo: blueprintRepo,
		postingRepo:   postingRepo,
		cardRepo:      cardRepo,
		limits:        limits,
		expander:      expander,
		notifier:      notifier,
		retrier:       retrier,
		idGen:         idGen,
		loc:           loc,
		concurrency:   max(cfg.Concurrency, 1),
		logger:        logger.With().Str("component", "sync").Logger(),
		metrics:       metrics,
	}
}

type blueprintResult struct {
	posted  int
	skipped *domain.RecurringChargeSkipped
}

// SyncRecurring posts every pending occurrence up to the end of now's day.
// Running it twice with the same now creates no additional postings. Errors
// from individual blueprints are joined and returned after all blueprints
// have been attempted and returned with the report. If the blueprints cannot
// be listed no report is produced.
func (uc *SyncUseCase) SyncRecurring(ctx context.Context, now time.Time) (*SyncReport, error) {
	start := time.Now()
	report := &SyncReport{StartedAt: now}

	blueprints, err := uc.blueprintRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blueprints: %w", err)
	}
	report.BlueprintsScanned = len(blueprints)

	var (
		mu   sync.Mutex
		errs []error
	)

	// Blueprints sharing a card run sequentially so their limit updates
	// serialize; groups never cancel each other.
	g := new(errgroup.Group)
	g.SetLimit(uc.concurrency)

	for _, group := range groupByCard(blueprints) {
		g.Go(func() error {
			for _, b := range group {
				if ctx.Err() != nil {
					return nil
				}

				res, err := uc.syncBlueprint(ctx, b, now)

				mu.Lock()
				report.PostingsCreated += res.posted
				if res.skipped != nil {
					report.ChargesSkipped = append(report.ChargesSkipped, *res.skipped)
				}
				if err != nil {
					report.Failures++
					errs = append(errs, err)
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}

	report.FinishedAt = time.Now()

	if uc.metrics != nil {
		uc.metrics.SyncDuration.Observe(time.Since(start).Seconds())
		if len(errs) == 0 {
			uc.metrics.SyncRuns.WithLabelValues("success").Inc()
			uc.metrics.SyncLastSuccess.SetToCurrentTime()
		} else {
			uc.metrics.SyncRuns.WithLabelValues("partial").Inc()
		}
	}

	uc.logger.Info().
		Int("blueprints", report.BlueprintsScanned).
		Int("postings_created", report.PostingsCreated).
		Int("charges_skipped", len(report.ChargesSkipped)).
		Int("failures", report.Failures).
		Dur("duration", time.Since(start)).
		Msg("recurring sync finished")

	return report, errors.Join(errs...)
}

func (uc *SyncUseCase) syncBlueprint(ctx context.Context, b *domain.Blueprint, now time.Time) (blueprintResult, error) {
	from, to, ok := b.SyncWindow(now, uc.loc)
	if !ok {
		return blueprintResult{}, nil
	}

	occurrences, err := uc.expander.Expand(b.Rule, b.StartAt.In(uc.loc), from, to, true)
	if err != nil {
		uc.logger.Warn().Err(err).Str("blueprint_id", b.ID).Str("rule", b.Rule).Msg("skipping blueprint with invalid rule")
		uc.countError("rule")
		return blueprintResult{}, nil
	}

	// An empty window leaves the watermark alone; re-checking it later is free.
	if len(occurrences) == 0 {
		return blueprintResult{}, nil
	}

	var res blueprintResult
	op := func() error {
		var err error
		res, err = uc.postOccurrences(ctx, b.ID, occurrences, from, to)
		return err
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}
	if err != nil {
		uc.countError("persistence")
		uc.logger.Error().Err(err).Str("blueprint_id", b.ID).Msg("blueprint sync failed")
		return blueprintResult{}, fmt.Errorf("sync blueprint %s: %w", b.ID, err)
	}

	if uc.metrics != nil && res.posted > 0 {
		uc.metrics.PostingsCreated.WithLabelValues(metrics.SourceRecurring).Add(float64(res.posted))
	}

	if res.skipped != nil {
		uc.notifySkipped(ctx, *res.skipped)
	}

	return res, nil
}

func (uc *SyncUseCase) postOccurrences(
	ctx context.Context,
	blueprintID string,
	occurrences []time.Time,
	from, to time.Time,
) (blueprintResult, error) {
	var res blueprintResult

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	b, err := uc.blueprintRepo.GetByIDForUpdate(txCtx, tx, blueprintID)
	if errors.Is(err, domain.ErrBlueprintNotFound) {
		// Deleted since the listing.
		return res, nil
	}
	if err != nil {
		return res, err
	}

	realized, err := uc.postingRepo.ListByBlueprintTx(txCtx, tx, b.ID, calendar.StartOfDay(from.In(uc.loc)), to)
	if err != nil {
		return res, err
	}
	done := domain.PostingDateKeys(realized, uc.loc)

	var card *domain.Card
	if b.IsCardLinked() {
		card, err = uc.cardRepo.GetByIDForUpdate(txCtx, tx, *b.CardID)
		if errors.Is(err, domain.ErrCardNotFound) {
			uc.logger.Warn().Str("blueprint_id", b.ID).Str("card_id", *b.CardID).Msg("blueprint references missing card")
			uc.countError("card_missing")
			return res, nil
		}
		if err != nil {
			return res, err
		}
	}

	var lastPosted time.Time
	stopped := false

	for _, at := range occurrences {
		if done.Has(at, uc.loc) {
			continue
		}

		// Installment totals were reserved when the purchase was made.
		limited := card != nil && !b.IsInstallment
		if limited && b.Flow == domain.FlowOutflow {
			if err := uc.limits.Admit(card, b.Magnitude()); err != nil {
				var limitErr *domain.LimitError
				if !errors.As(err, &limitErr) {
					return res, err
				}

				res.skipped = &domain.RecurringChargeSkipped{
					CardID:          card.ID,
					CardName:        card.Name,
					BlueprintID:     b.ID,
					Description:     b.Description,
					OccurrenceAt:    at,
					AttemptedAmount: limitErr.Attempted,
					AvailableLimit:  limitErr.Available,
				}
				stopped = true
				break
			}
		}

		posting := domain.NewPostingFromBlueprint(uc.idGen.Generate(), b, at)
		switch {
		case limited:
			if err := uc.limits.ApplyPosting(txCtx, tx, card, posting); err != nil {
				return res, err
			}
		case card != nil:
			uc.limits.ClaimReservation(posting)
		}

		if err := uc.postingRepo.Create(txCtx, tx, posting); err != nil {
			return res, err
		}

		done.Add(at, uc.loc)
		lastPosted = at
		res.posted++
	}

	if res.posted > 0 {
		watermark := to
		if stopped {
			watermark = lastPosted
		}

		if b.LastProcessedAt == nil || watermark.After(*b.LastProcessedAt) {
			if err := uc.blueprintRepo.UpdateLastProcessed(txCtx, tx, b.ID, watermark); err != nil {
				return res, err
			}
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return blueprintResult{}, err
	}

	return res, nil
}

func (uc *SyncUseCase) notifySkipped(ctx context.Context, event domain.RecurringChargeSkipped) {
	uc.logger.Warn().
		Str("card_id", event.CardID).
		Str("blueprint_id", event.BlueprintID).
		Int64("attempted", event.AttemptedAmount).
		Int64("available", event.AvailableLimit).
		Msg("recurring charge skipped: insufficient credit limit")

	if uc.metrics != nil {
		uc.metrics.ChargesSkipped.Inc()
		uc.metrics.AdmissionRejections.WithLabelValues(metrics.SourceRecurring).Inc()
	}

	if uc.notifier == nil {
		return
	}

	if err := uc.notifier.RecurringChargeSkipped(ctx, event); err != nil {
		uc.logger.Error().Err(err).Str("blueprint_id", event.BlueprintID).Msg("failed to deliver skip notification")
	}
}

func (uc *SyncUseCase) countError(kind string) {
	if uc.metrics != nil {
		uc.metrics.SyncBlueprintErrors.WithLabelValues(kind).Inc()
	}
}

// groupByCard partitions blueprints so that those sharing a card land in the
// same group. Blueprints without a card each get their own group. Input
// order is preserved within and across groups.
func groupByCard(blueprints []*domain.Blueprint) [][]*domain.Blueprint {
	var groups [][]*domain.Blueprint
	index := make(map[string]int)

	for _, b := range blueprints {
		if !b.IsCardLinked() {
			groups = append(groups, []*domain.Blueprint{b})
			continue
		}

		if i, ok := index[*b.CardID]; ok {
			groups[i] = append(groups[i], b)
			continue
		}

		index[*b.CardID] = len(groups)
		groups = append(groups, []*domain.Blueprint{b})
	}

	return groups
}

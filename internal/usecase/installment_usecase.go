package usecase

import (
	"context"
	"time"

	"github.com/iho/billcycle/internal/calendar"
	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/infrastructure/metrics"
)

// InstallmentUseCase handles installment purchases on cards.
type InstallmentUseCase struct {
	txManager     TransactionManager
	cardRepo      CardRepository
	blueprintRepo BlueprintRepository
	postingRepo   PostingRepository
	limits        *CreditLimitLedger
	expander      RecurrenceExpander
	idGen         IDGenerator
	loc           *time.Location
	metrics       *metrics.Metrics
}

// NewInstallmentUseCase creates a new InstallmentUseCase.
func NewInstallmentUseCase(
	txManager TransactionManager,
	cardRepo CardRepository,
	blueprintRepo BlueprintRepository,
	postingRepo PostingRepository,
	limits *CreditLimitLedger,
	expander RecurrenceExpander,
	idGen IDGenerator,
	loc *time.Location,
	metrics *metrics.Metrics,
) *InstallmentUseCase {
	if loc == nil {
		loc = time.UTC
	}

	return &InstallmentUseCase{
		txManager:     txManager,
		cardRepo:      cardRepo,
		blueprintRepo: blueprintRepo,
		postingRepo:   postingRepo,
		limits:        limits,
		expander:      expander,
		idGen:         idGen,
		loc:           loc,
		metrics:       metrics,
	}
}

// CreateInstallmentPurchaseInput represents input for an installment purchase.
// Amount is the value of one installment in minor units.
type CreateInstallmentPurchaseInput struct {
	FirstPurchaseDate *time.Time
	AccountID         *string
	CardID            string
	Description       string
	CategoryID        string
	Amount            int64
	Count             int
	PurchaseDay       int
}

// CreateInstallmentPurchase admits the whole purchase against the card's
// available credit, reserves it up front and stores an installment blueprint
// that the sync job materializes month by month.
func (uc *InstallmentUseCase) CreateInstallmentPurchase(ctx context.Context, input CreateInstallmentPurchaseInput) (*domain.InstallmentSchedule, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateInstallmentCount(input.Count); err != nil {
		return nil, err
	}

	first, purchaseDay, err := uc.firstPurchase(input)
	if err != nil {
		return nil, err
	}

	total := input.Amount * int64(input.Count)
	if err := domain.ValidateAmount(total); err != nil {
		return nil, err
	}

	rule := domain.InstallmentRule(purchaseDay, input.Count)
	if err := uc.expander.Validate(rule); err != nil {
		return nil, err
	}

	cardID := input.CardID
	blueprint := &domain.Blueprint{
		ID:            uc.idGen.Generate(),
		Amount:        domain.FlowOutflow.SignedAmount(input.Amount),
		Description:   input.Description,
		CategoryID:    input.CategoryID,
		Flow:          domain.FlowOutflow,
		StartAt:       first,
		Rule:          rule,
		CardID:        &cardID,
		IsInstallment: true,
		AccountID:     input.AccountID,
	}

	if err := blueprint.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	card, err := uc.cardRepo.GetByIDForUpdate(txCtx, tx, input.CardID)
	if err != nil {
		return nil, err
	}

	if err := uc.limits.Admit(card, total); err != nil {
		if uc.metrics != nil {
			uc.metrics.AdmissionRejections.WithLabelValues(metrics.SourceInstallment).Inc()
		}
		return nil, err
	}

	if err := uc.blueprintRepo.Create(txCtx, tx, blueprint); err != nil {
		return nil, err
	}

	if err := uc.limits.Reserve(txCtx, tx, card, total); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.InstallmentPurchases.Inc()
		uc.metrics.InstallmentCount.Observe(float64(input.Count))
	}

	schedule := uc.schedule(blueprint, card, purchaseDay, input.Count)
	merged := domain.MergeWithRealized(schedule, domain.NewDateKeySet())
	return &merged, nil
}

// GetInstallmentSchedule rebuilds the schedule of an installment blueprint and
// marks the occurrences already posted.
func (uc *InstallmentUseCase) GetInstallmentSchedule(ctx context.Context, blueprintID string) (*domain.InstallmentSchedule, error) {
	blueprint, err := uc.blueprintRepo.GetByID(ctx, blueprintID)
	if err != nil {
		return nil, err
	}

	if !blueprint.IsInstallment || !blueprint.IsCardLinked() {
		return nil, domain.ErrNotInstallment
	}

	card, err := uc.cardRepo.GetByID(ctx, *blueprint.CardID)
	if err != nil {
		return nil, err
	}

	return uc.scheduleWithStatus(ctx, blueprint, card)
}

// ListInstallments returns the schedules of every installment purchase on a card.
func (uc *InstallmentUseCase) ListInstallments(ctx context.Context, cardID string) ([]*domain.InstallmentSchedule, error) {
	card, err := uc.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	blueprints, err := uc.blueprintRepo.ListByCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	schedules := make([]*domain.InstallmentSchedule, 0, len(blueprints))
	for _, b := range blueprints {
		if !b.IsInstallment {
			continue
		}

		s, err := uc.scheduleWithStatus(ctx, b, card)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}

	return schedules, nil
}

func (uc *InstallmentUseCase) scheduleWithStatus(ctx context.Context, blueprint *domain.Blueprint, card *domain.Card) (*domain.InstallmentSchedule, error) {
	purchaseDay, count, err := domain.ParseInstallmentRule(blueprint.Rule)
	if err != nil {
		return nil, err
	}

	postings, err := uc.postingRepo.ListByBlueprint(ctx, blueprint.ID)
	if err != nil {
		return nil, err
	}

	realized := domain.NewDateKeySet()
	for _, p := range postings {
		due := domain.InstallmentDueDate(p.Date.In(uc.loc), card.ClosingDay, card.DueDay, card.IgnoreWeekends)
		realized[calendar.DateKey(due)] = struct{}{}
	}

	merged := domain.MergeWithRealized(uc.schedule(blueprint, card, purchaseDay, count), realized)
	return &merged, nil
}

func (uc *InstallmentUseCase) schedule(blueprint *domain.Blueprint, card *domain.Card, purchaseDay, count int) domain.InstallmentSchedule {
	return domain.InstallmentSchedule{
		BlueprintID: blueprint.ID,
		CardID:      card.ID,
		Description: blueprint.Description,
		Amount:      blueprint.Magnitude(),
		Count:       count,
		PurchaseDay: purchaseDay,
		Occurrences: domain.BuildSchedule(domain.ScheduleParams{
			FirstPurchaseDate: blueprint.StartAt.In(uc.loc),
			Count:             count,
			PurchaseDay:       purchaseDay,
			ClosingDay:        card.ClosingDay,
			DueDay:            card.DueDay,
			IgnoreWeekends:    card.IgnoreWeekends,
			Amount:            blueprint.Magnitude(),
		}),
	}
}

// firstPurchase resolves the first purchase date: an explicit date wins,
// otherwise the purchase day of the current local month.
func (uc *InstallmentUseCase) firstPurchase(input CreateInstallmentPurchaseInput) (time.Time, int, error) {
	if input.FirstPurchaseDate != nil {
		first := calendar.StartOfDay(input.FirstPurchaseDate.In(uc.loc))
		day := input.PurchaseDay
		if day == 0 {
			day = first.Day()
		}
		if err := domain.ValidateDay(day); err != nil {
			return time.Time{}, 0, err
		}
		// The first installment always lands on the purchase day of its month.
		return calendar.Date(first.Year(), first.Month(), day, uc.loc), day, nil
	}

	if err := domain.ValidateDay(input.PurchaseDay); err != nil {
		return time.Time{}, 0, err
	}

	now := time.Now().In(uc.loc)
	return calendar.Date(now.Year(), now.Month(), input.PurchaseDay, uc.loc), input.PurchaseDay, nil
}

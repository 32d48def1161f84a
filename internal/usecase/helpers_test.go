package usecase_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/billcycle/internal/adapter/recurrence"
	"github.com/iho/billcycle/internal/usecase"
	"github.com/iho/billcycle/internal/usecase/mocks"
)

// stack wires every use case over one in-memory store.
type stack struct {
	store        *mocks.Store
	cards        *usecase.CardUseCase
	blueprints   *usecase.BlueprintUseCase
	postings     *usecase.PostingUseCase
	installments *usecase.InstallmentUseCase
	statements   *usecase.StatementUseCase
	sync         *usecase.SyncUseCase
	limits       *usecase.CreditLimitLedger
	cardRepo     *mocks.FakeCardRepository
	txManager    *mocks.FakeTransactionManager
}

func newStack(t *testing.T, loc *time.Location) *stack {
	t.Helper()

	store := mocks.NewStore()
	txManager := mocks.NewFakeTransactionManager(store)
	cardRepo := mocks.NewFakeCardRepository(store)
	blueprintRepo := mocks.NewFakeBlueprintRepository(store)
	postingRepo := mocks.NewFakePostingRepository(store)
	limits := usecase.NewCreditLimitLedger(cardRepo, nil)
	expander := recurrence.NewExpander()
	idGen := mocks.NewSequentialIDGenerator("id")
	syncUC := usecase.NewSyncUseCase(
		txManager, blueprintRepo, postingRepo, cardRepo, limits, expander, nil, mocks.PassthroughRetrier{}, idGen,
		usecase.SyncConfig{Location: loc, Concurrency: 1}, zerolog.Nop(), nil,
	)

	return &stack{
		store:        store,
		cards:        usecase.NewCardUseCase(cardRepo, idGen),
		blueprints:   usecase.NewBlueprintUseCase(txManager, blueprintRepo, postingRepo, cardRepo, limits, expander, idGen, loc, nil),
		postings:     usecase.NewPostingUseCase(txManager, postingRepo, cardRepo, limits, idGen, nil),
		installments: usecase.NewInstallmentUseCase(txManager, cardRepo, blueprintRepo, postingRepo, limits, expander, idGen, loc, nil),
		statements:   usecase.NewStatementUseCase(cardRepo, blueprintRepo, postingRepo, expander, loc, zerolog.Nop(), nil),
		sync:         syncUC,
		limits:       limits,
		cardRepo:     cardRepo,
		txManager:    txManager,
	}
}

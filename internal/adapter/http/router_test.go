package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/billcycle/internal/adapter/http/handler"
	apimiddleware "github.com/iho/billcycle/internal/adapter/http/middleware"
	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/usecase"
	"github.com/iho/billcycle/internal/usecase/mocks"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_in_flight") {
		t.Fatalf("expected HTTP metrics to be exported")
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotentCardCreation(t *testing.T) {
	cards := &stubCardService{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.CardHandler = handler.NewCardHandler(cards)
		cfg.IdempotencyStore = mocks.NewFakeIdempotencyStore()
	}))

	send := func() *httptest.ResponseRecorder {
		body := `{"name":"Main","max_limit":"1000","closing_day":20,"due_day":10}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first, second := send(), send()

	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("expected both responses to be 201, got %d and %d", first.Code, second.Code)
	}
	if cards.created != 1 {
		t.Fatalf("expected one card to be created, got %d", cards.created)
	}
	if second.Header().Get(apimiddleware.IdempotencyReplayHeader) != "true" {
		t.Fatalf("expected second response to be a replay")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/cards/",
		"GET /api/v1/cards/{id}",
		"GET /api/v1/cards/{id}/statement",
		"GET /api/v1/cards/{id}/statements",
		"GET /api/v1/cards/{id}/installments",
		"GET /api/v1/cards/{id}/transactions",
		"POST /api/v1/recurring/",
		"DELETE /api/v1/recurring/{id}",
		"POST /api/v1/transactions/",
		"DELETE /api/v1/transactions/{id}",
		"POST /api/v1/installments/",
		"GET /api/v1/installments/{id}",
		"POST /api/v1/sync",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		CardHandler:        handler.NewCardHandler(&stubCardService{}),
		BlueprintHandler:   handler.NewBlueprintHandler(stubBlueprintService{}),
		PostingHandler:     handler.NewPostingHandler(stubPostingService{}, time.UTC),
		StatementHandler:   handler.NewStatementHandler(stubStatementService{}, time.UTC),
		InstallmentHandler: handler.NewInstallmentHandler(stubInstallmentService{}, time.UTC),
		SyncHandler:        handler.NewSyncHandler(stubSyncRunner{}),
		HealthHandler:      handler.NewHealthHandler(nil),
		Logger:             zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubCardService struct {
	created int
}

func (s *stubCardService) CreateCard(ctx context.Context, input usecase.CreateCardInput) (*domain.Card, error) {
	s.created++
	return &domain.Card{ID: "card", Name: input.Name, MaxLimit: input.MaxLimit}, nil
}

func (s *stubCardService) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	return &domain.Card{ID: id}, nil
}

func (s *stubCardService) ListCards(ctx context.Context, limit, offset int) ([]*domain.Card, error) {
	return []*domain.Card{}, nil
}

type stubBlueprintService struct{}

func (stubBlueprintService) CreateBlueprint(ctx context.Context, input usecase.CreateBlueprintInput) (*domain.Blueprint, error) {
	return &domain.Blueprint{ID: "bp"}, nil
}

func (stubBlueprintService) GetBlueprint(ctx context.Context, id string) (*domain.Blueprint, error) {
	return &domain.Blueprint{ID: id}, nil
}

func (stubBlueprintService) ListBlueprints(ctx context.Context, limit, offset int) ([]*domain.Blueprint, error) {
	return []*domain.Blueprint{}, nil
}

func (stubBlueprintService) DeleteBlueprint(ctx context.Context, id string, cascade bool) error {
	return nil
}

type stubPostingService struct{}

func (stubPostingService) CreatePosting(ctx context.Context, input usecase.CreatePostingInput) (*domain.Posting, error) {
	return &domain.Posting{ID: "posting"}, nil
}

func (stubPostingService) GetPosting(ctx context.Context, id string) (*domain.Posting, error) {
	return &domain.Posting{ID: id}, nil
}

func (stubPostingService) ListCardPostings(ctx context.Context, cardID string, from, to time.Time) ([]*domain.Posting, error) {
	return []*domain.Posting{}, nil
}

func (stubPostingService) DeletePosting(ctx context.Context, id string) error {
	return nil
}

type stubStatementService struct{}

func (stubStatementService) GetCardStatement(ctx context.Context, cardID string, ref time.Time) (*domain.BillingCycleSummary, error) {
	return &domain.BillingCycleSummary{CardID: cardID}, nil
}

func (stubStatementService) GetCardStatementHistory(ctx context.Context, cardID string, months int, ref time.Time) ([]*domain.BillingCycleSummary, error) {
	return []*domain.BillingCycleSummary{}, nil
}

type stubInstallmentService struct{}

func (stubInstallmentService) CreateInstallmentPurchase(ctx context.Context, input usecase.CreateInstallmentPurchaseInput) (*domain.InstallmentSchedule, error) {
	return &domain.InstallmentSchedule{BlueprintID: "bp"}, nil
}

func (stubInstallmentService) GetInstallmentSchedule(ctx context.Context, blueprintID string) (*domain.InstallmentSchedule, error) {
	return &domain.InstallmentSchedule{BlueprintID: blueprintID}, nil
}

func (stubInstallmentService) ListInstallments(ctx context.Context, cardID string) ([]*domain.InstallmentSchedule, error) {
	return []*domain.InstallmentSchedule{}, nil
}

type stubSyncRunner struct{}

func (stubSyncRunner) RunOnce(ctx context.Context, now time.Time) (*usecase.SyncReport, error) {
	return &usecase.SyncReport{StartedAt: now}, nil
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/billcycle/internal/adapter/http/dto"
	"github.com/iho/billcycle/internal/domain"
)

type statementServiceStub struct {
	getFn     func(ctx context.Context, cardID string, ref time.Time) (*domain.BillingCycleSummary, error)
	historyFn func(ctx context.Context, cardID string, months int, ref time.Time) ([]*domain.BillingCycleSummary, error)
}

func (s *statementServiceStub) GetCardStatement(ctx context.Context, cardID string, ref time.Time) (*domain.BillingCycleSummary, error) {
	return s.getFn(ctx, cardID, ref)
}

func (s *statementServiceStub) GetCardStatementHistory(ctx context.Context, cardID string, months int, ref time.Time) ([]*domain.BillingCycleSummary, error) {
	return s.historyFn(ctx, cardID, months, ref)
}

func marchSummary() *domain.BillingCycleSummary {
	return &domain.BillingCycleSummary{
		CardID:         "card-1",
		CycleStart:     time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC),
		CycleEnd:       time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		ReferenceMonth: "2024-03",
		ProjectedTotal: 450000,
	}
}

func TestStatementHandler_Get_UsesDateQuery(t *testing.T) {
	var gotRef time.Time
	handler := NewStatementHandler(&statementServiceStub{
		getFn: func(ctx context.Context, cardID string, ref time.Time) (*domain.BillingCycleSummary, error) {
			gotRef = ref
			return marchSummary(), nil
		},
	}, time.UTC)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/cards/card-1/statement?date=2024-03-05", nil), "id", "card-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !gotRef.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected reference date %v", gotRef)
	}

	var resp dto.StatementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.DueDate != "2024-04-10" || resp.ReferenceMonth != "2024-03" {
		t.Fatalf("unexpected statement: %+v", resp)
	}
}

func TestStatementHandler_Get_DefaultsToNow(t *testing.T) {
	now := time.Date(2024, 7, 1, 15, 0, 0, 0, time.UTC)

	var gotRef time.Time
	handler := NewStatementHandler(&statementServiceStub{
		getFn: func(ctx context.Context, cardID string, ref time.Time) (*domain.BillingCycleSummary, error) {
			gotRef = ref
			return marchSummary(), nil
		},
	}, time.UTC)
	handler.now = func() time.Time { return now }

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/cards/card-1/statement", nil), "id", "card-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if !gotRef.Equal(now) {
		t.Fatalf("expected now as reference, got %v", gotRef)
	}
}

func TestStatementHandler_Get_UnknownCard(t *testing.T) {
	handler := NewStatementHandler(&statementServiceStub{
		getFn: func(ctx context.Context, cardID string, ref time.Time) (*domain.BillingCycleSummary, error) {
			return nil, domain.ErrCardNotFound
		},
	}, time.UTC)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/cards/x/statement", nil), "id", "x")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStatementHandler_History(t *testing.T) {
	var gotMonths int
	handler := NewStatementHandler(&statementServiceStub{
		historyFn: func(ctx context.Context, cardID string, months int, ref time.Time) ([]*domain.BillingCycleSummary, error) {
			gotMonths = months
			return []*domain.BillingCycleSummary{marchSummary(), marchSummary()}, nil
		},
	}, time.UTC)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/cards/card-1/statements?months=2", nil), "id", "card-1")
	rec := httptest.NewRecorder()

	handler.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotMonths != 2 {
		t.Fatalf("expected months=2, got %d", gotMonths)
	}

	var resp dto.StatementHistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(resp.Statements))
	}
}

func TestStatementHandler_InvalidDate(t *testing.T) {
	handler := NewStatementHandler(&statementServiceStub{}, time.UTC)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/cards/card-1/statements?date=March", nil), "id", "card-1")
	rec := httptest.NewRecorder()

	handler.History(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

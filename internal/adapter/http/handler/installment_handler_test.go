package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/billcycle/internal/adapter/http/dto"
	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/usecase"
)

type installmentServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateInstallmentPurchaseInput) (*domain.InstallmentSchedule, error)
	getFn    func(ctx context.Context, blueprintID string) (*domain.InstallmentSchedule, error)
	listFn   func(ctx context.Context, cardID string) ([]*domain.InstallmentSchedule, error)
}

func (s *installmentServiceStub) CreateInstallmentPurchase(ctx context.Context, input usecase.CreateInstallmentPurchaseInput) (*domain.InstallmentSchedule, error) {
	return s.createFn(ctx, input)
}

func (s *installmentServiceStub) GetInstallmentSchedule(ctx context.Context, blueprintID string) (*domain.InstallmentSchedule, error) {
	return s.getFn(ctx, blueprintID)
}

func (s *installmentServiceStub) ListInstallments(ctx context.Context, cardID string) ([]*domain.InstallmentSchedule, error) {
	return s.listFn(ctx, cardID)
}

func TestInstallmentHandler_Create(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)

	var captured usecase.CreateInstallmentPurchaseInput
	handler := NewInstallmentHandler(&installmentServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateInstallmentPurchaseInput) (*domain.InstallmentSchedule, error) {
			captured = input
			return &domain.InstallmentSchedule{BlueprintID: "bp-1", CardID: input.CardID, Count: input.Count, Amount: input.Amount}, nil
		},
	}, loc)

	body := `{"card_id":"card-1","description":"Laptop","amount":"250.00","count":4,"first_purchase_date":"2024-03-01"}`
	req := httptest.NewRequest(http.MethodPost, "/installments", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Amount != 25000 || captured.Count != 4 {
		t.Fatalf("unexpected input: %+v", captured)
	}
	if captured.FirstPurchaseDate == nil || !captured.FirstPurchaseDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected first purchase date: %v", captured.FirstPurchaseDate)
	}

	var resp dto.InstallmentScheduleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.BlueprintID != "bp-1" || resp.Count != 4 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestInstallmentHandler_Create_InsufficientLimit(t *testing.T) {
	handler := NewInstallmentHandler(&installmentServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateInstallmentPurchaseInput) (*domain.InstallmentSchedule, error) {
			return nil, &domain.LimitError{CardID: input.CardID, Attempted: 100000, Available: 500}
		},
	}, time.UTC)

	req := httptest.NewRequest(http.MethodPost, "/installments", bytes.NewBufferString(`{"card_id":"card-1","amount":"250","count":4,"purchase_day":1}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestInstallmentHandler_Get_NotInstallment(t *testing.T) {
	handler := NewInstallmentHandler(&installmentServiceStub{
		getFn: func(ctx context.Context, blueprintID string) (*domain.InstallmentSchedule, error) {
			return nil, domain.ErrNotInstallment
		},
	}, time.UTC)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/installments/bp-1", nil), "id", "bp-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInstallmentHandler_ListByCard(t *testing.T) {
	handler := NewInstallmentHandler(&installmentServiceStub{
		listFn: func(ctx context.Context, cardID string) ([]*domain.InstallmentSchedule, error) {
			return []*domain.InstallmentSchedule{{BlueprintID: "bp-1"}, {BlueprintID: "bp-2"}}, nil
		},
	}, time.UTC)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/cards/card-1/installments", nil), "id", "card-1")
	rec := httptest.NewRecorder()

	handler.ListByCard(rec, req)

	var resp dto.ListInstallmentsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Installments) != 2 {
		t.Fatalf("expected 2 installment purchases, got %d", len(resp.Installments))
	}
}

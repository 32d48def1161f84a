package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/usecase"
)

type postingServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreatePostingInput) (*domain.Posting, error)
	listFn   func(ctx context.Context, cardID string, from, to time.Time) ([]*domain.Posting, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *postingServiceStub) CreatePosting(ctx context.Context, input usecase.CreatePostingInput) (*domain.Posting, error) {
	return s.createFn(ctx, input)
}

func (s *postingServiceStub) GetPosting(ctx context.Context, id string) (*domain.Posting, error) {
	return nil, domain.ErrPostingNotFound
}

func (s *postingServiceStub) ListCardPostings(ctx context.Context, cardID string, from, to time.Time) ([]*domain.Posting, error) {
	return s.listFn(ctx, cardID, from, to)
}

func (s *postingServiceStub) DeletePosting(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestPostingHandler_Create_InsufficientLimit(t *testing.T) {
	handler := NewPostingHandler(&postingServiceStub{
		createFn: func(ctx context.Context, input usecase.CreatePostingInput) (*domain.Posting, error) {
			if input.Amount != 6000 {
				t.Fatalf("expected 6000 minor units, got %d", input.Amount)
			}
			return nil, &domain.LimitError{CardID: *input.CardID, Attempted: 6000, Available: 5000}
		},
	}, time.UTC)

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(`{"amount":"60","flow":"outflow","card_id":"card-1"}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPostingHandler_Create_RejectsFractionalCents(t *testing.T) {
	handler := NewPostingHandler(&postingServiceStub{}, time.UTC)

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(`{"amount":"1.001","flow":"outflow"}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPostingHandler_ListByCard_Range(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)

	var gotFrom, gotTo time.Time
	handler := NewPostingHandler(&postingServiceStub{
		listFn: func(ctx context.Context, cardID string, from, to time.Time) ([]*domain.Posting, error) {
			gotFrom, gotTo = from, to
			return []*domain.Posting{{ID: "p-1", Amount: -100, Flow: domain.FlowOutflow}}, nil
		},
	}, loc)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/cards/card-1/transactions?from=2024-03-01&to=2024-03-31", nil), "id", "card-1")
	rec := httptest.NewRecorder()

	handler.ListByCard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !gotFrom.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected from %v", gotFrom)
	}
	if !gotTo.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("expected exclusive end of Mar 31, got %v", gotTo)
	}
}

func TestPostingHandler_ListByCard_InvertedRange(t *testing.T) {
	handler := NewPostingHandler(&postingServiceStub{}, time.UTC)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/cards/card-1/transactions?from=2024-03-10&to=2024-03-01", nil), "id", "card-1")
	rec := httptest.NewRecorder()

	handler.ListByCard(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPostingHandler_Delete(t *testing.T) {
	handler := NewPostingHandler(&postingServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			if id == "missing" {
				return domain.ErrPostingNotFound
			}
			return nil
		},
	}, time.UTC)

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/transactions/p-1", nil), "id", "p-1")
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	req = withURLParam(httptest.NewRequest(http.MethodDelete, "/transactions/missing", nil), "id", "missing")
	rec = httptest.NewRecorder()
	handler.Delete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/billcycle/internal/adapter/http/dto"
	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/usecase"
)

// InstallmentService defines the behavior needed by InstallmentHandler.
type InstallmentService interface {
	CreateInstallmentPurchase(ctx context.Context, input usecase.CreateInstallmentPurchaseInput) (*domain.InstallmentSchedule, error)
	GetInstallmentSchedule(ctx context.Context, blueprintID string) (*domain.InstallmentSchedule, error)
	ListInstallments(ctx context.Context, cardID string) ([]*domain.InstallmentSchedule, error)
}

// InstallmentHandler handles installment purchase requests.
type InstallmentHandler struct {
	installmentUC InstallmentService
	loc           *time.Location
}

// NewInstallmentHandler creates a new InstallmentHandler.
func NewInstallmentHandler(installmentUC InstallmentService, loc *time.Location) *InstallmentHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &InstallmentHandler{installmentUC: installmentUC, loc: loc}
}

// Create registers an installment purchase.
func (h *InstallmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	schedule, err := h.installmentUC.CreateInstallmentPurchase(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create installment purchase", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.InstallmentScheduleFromDomain(schedule))
}

// Get returns the schedule of one installment purchase.
func (h *InstallmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.installmentUC.GetInstallmentSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get installment schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InstallmentScheduleFromDomain(schedule))
}

// ListByCard returns every installment purchase of a card.
func (h *InstallmentHandler) ListByCard(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.installmentUC.ListInstallments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list installments", err)
		return
	}

	resp := dto.ListInstallmentsResponse{
		Installments: make([]*dto.InstallmentScheduleResponse, len(schedules)),
	}
	for i, s := range schedules {
		resp.Installments[i] = dto.InstallmentScheduleFromDomain(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/billcycle/internal/adapter/http/dto"
	"github.com/iho/billcycle/internal/usecase"
)

// SyncRunner runs one locked sync pass.
type SyncRunner interface {
	RunOnce(ctx context.Context, now time.Time) (*usecase.SyncReport, error)
}

// SyncHandler triggers the recurring sync on demand.
type SyncHandler struct {
	runner SyncRunner
	now    func() time.Time
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(runner SyncRunner) *SyncHandler {
	return &SyncHandler{runner: runner, now: time.Now}
}

// Trigger runs the sync and returns its report. Partial failures still
// answer 200 with the failure count in the body.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.RunOnce(r.Context(), h.now())
	if report == nil {
		if err == nil {
			writeError(w, http.StatusInternalServerError, "sync failed", "no report")
			return
		}
		writeDomainError(w, "sync failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SyncReportFromUseCase(report))
}

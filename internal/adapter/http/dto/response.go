package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/billcycle/internal/calendar"
	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/usecase"
)

// CardResponse represents a card in API responses.
type CardResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	ColorID         int             `json:"color_id"`
	MaxLimit        decimal.Decimal `json:"max_limit"`
	LimitUsed       decimal.Decimal `json:"limit_used"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	ClosingDay      int             `json:"closing_day"`
	DueDay          int             `json:"due_day"`
	IgnoreWeekends  bool            `json:"ignore_weekends"`
}

// CardFromDomain converts domain card to response.
func CardFromDomain(c *domain.Card) *CardResponse {
	return &CardResponse{
		ID:              c.ID,
		Name:            c.Name,
		ColorID:         c.ColorID,
		MaxLimit:        FromMinorUnits(c.MaxLimit),
		LimitUsed:       FromMinorUnits(c.LimitUsed),
		AvailableCredit: FromMinorUnits(c.Available()),
		ClosingDay:      c.ClosingDay,
		DueDay:          c.DueDay,
		IgnoreWeekends:  c.IgnoreWeekends,
	}
}

// CardsFromDomain converts domain cards to responses.
func CardsFromDomain(cards []*domain.Card) []*CardResponse {
	result := make([]*CardResponse, len(cards))
	for i, c := range cards {
		result[i] = CardFromDomain(c)
	}
	return result
}

// ListCardsResponse represents a page of cards.
type ListCardsResponse struct {
	Cards []*CardResponse `json:"cards"`
	Total int64           `json:"total"`
}

// BlueprintResponse represents a recurring blueprint in API responses.
type BlueprintResponse struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	CategoryID      string          `json:"category_id"`
	Flow            string          `json:"flow"`
	StartAt         time.Time       `json:"start_at"`
	Rule            string          `json:"rule"`
	LastProcessedAt *time.Time      `json:"last_processed_at,omitempty"`
	CardID          *string         `json:"card_id,omitempty"`
	IsInstallment   bool            `json:"is_installment"`
	AccountID       *string         `json:"account_id,omitempty"`
}

// BlueprintFromDomain converts domain blueprint to response.
func BlueprintFromDomain(b *domain.Blueprint) *BlueprintResponse {
	return &BlueprintResponse{
		ID:              b.ID,
		Amount:          FromMinorUnits(b.Amount),
		Description:     b.Description,
		CategoryID:      b.CategoryID,
		Flow:            string(b.Flow),
		StartAt:         b.StartAt,
		Rule:            b.Rule,
		LastProcessedAt: b.LastProcessedAt,
		CardID:          b.CardID,
		IsInstallment:   b.IsInstallment,
		AccountID:       b.AccountID,
	}
}

// BlueprintsFromDomain converts domain blueprints to responses.
func BlueprintsFromDomain(blueprints []*domain.Blueprint) []*BlueprintResponse {
	result := make([]*BlueprintResponse, len(blueprints))
	for i, b := range blueprints {
		result[i] = BlueprintFromDomain(b)
	}
	return result
}

// ListBlueprintsResponse represents a page of blueprints.
type ListBlueprintsResponse struct {
	Blueprints []*BlueprintResponse `json:"blueprints"`
	Total      int64                `json:"total"`
}

// PostingResponse represents a posting in API responses.
type PostingResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	Date        time.Time       `json:"date"`
	Flow        string          `json:"flow"`
	RecurringID *string         `json:"recurring_id,omitempty"`
	CardID      *string         `json:"card_id,omitempty"`
	AccountID   *string         `json:"account_id,omitempty"`
}

// PostingFromDomain converts domain posting to response.
func PostingFromDomain(p *domain.Posting) *PostingResponse {
	return &PostingResponse{
		ID:          p.ID,
		Amount:      FromMinorUnits(p.Amount),
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Date:        p.Date,
		Flow:        string(p.Flow),
		RecurringID: p.RecurringID,
		CardID:      p.CardID,
		AccountID:   p.AccountID,
	}
}

// PostingsFromDomain converts domain postings to responses.
func PostingsFromDomain(postings []*domain.Posting) []*PostingResponse {
	result := make([]*PostingResponse, len(postings))
	for i, p := range postings {
		result[i] = PostingFromDomain(p)
	}
	return result
}

// ListPostingsResponse represents postings of a card in a date range.
type ListPostingsResponse struct {
	Postings []*PostingResponse `json:"postings"`
	Total    int64              `json:"total"`
}

// StatementResponse represents a billing cycle summary.
type StatementResponse struct {
	CardID                    string          `json:"card_id"`
	CardName                  string          `json:"card_name"`
	CycleStart                string          `json:"cycle_start"`
	CycleEnd                  string          `json:"cycle_end"`
	DueDate                   string          `json:"due_date"`
	ReferenceMonth            string          `json:"reference_month"`
	MaxLimit                  decimal.Decimal `json:"max_limit"`
	LimitUsed                 decimal.Decimal `json:"limit_used"`
	AvailableCredit           decimal.Decimal `json:"available_credit"`
	RealizedTotal             decimal.Decimal `json:"realized_total"`
	TransactionsCount         int             `json:"transactions_count"`
	ProjectedRecurringTotal   decimal.Decimal `json:"projected_recurring_total"`
	ProjectedInstallmentTotal decimal.Decimal `json:"projected_installment_total"`
	ProjectedTotal            decimal.Decimal `json:"projected_total"`
}

// StatementFromDomain converts a billing cycle summary to response.
func StatementFromDomain(s *domain.BillingCycleSummary) *StatementResponse {
	return &StatementResponse{
		CardID:                    s.CardID,
		CardName:                  s.CardName,
		CycleStart:                calendar.DateKey(s.CycleStart),
		CycleEnd:                  calendar.DateKey(s.CycleEnd),
		DueDate:                   calendar.DateKey(s.DueDate),
		ReferenceMonth:            s.ReferenceMonth,
		MaxLimit:                  FromMinorUnits(s.MaxLimit),
		LimitUsed:                 FromMinorUnits(s.LimitUsed),
		AvailableCredit:           FromMinorUnits(s.AvailableCredit),
		RealizedTotal:             FromMinorUnits(s.RealizedTotal),
		TransactionsCount:         s.TransactionsCount,
		ProjectedRecurringTotal:   FromMinorUnits(s.ProjectedRecurringTotal),
		ProjectedInstallmentTotal: FromMinorUnits(s.ProjectedInstallmentTotal),
		ProjectedTotal:            FromMinorUnits(s.ProjectedTotal),
	}
}

// StatementHistoryResponse lists statements, most recent first.
type StatementHistoryResponse struct {
	Statements []*StatementResponse `json:"statements"`
}

// StatementHistoryFromDomain converts a statement history to response.
func StatementHistoryFromDomain(history []*domain.BillingCycleSummary) *StatementHistoryResponse {
	statements := make([]*StatementResponse, len(history))
	for i, s := range history {
		statements[i] = StatementFromDomain(s)
	}
	return &StatementHistoryResponse{Statements: statements}
}

// InstallmentResponse represents a single installment of a purchase.
type InstallmentResponse struct {
	Sequence     int             `json:"sequence"`
	PurchaseDate string          `json:"purchase_date"`
	DueDate      string          `json:"due_date"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
}

// InstallmentScheduleResponse represents an installment purchase schedule.
type InstallmentScheduleResponse struct {
	BlueprintID    string                 `json:"blueprint_id"`
	CardID         string                 `json:"card_id"`
	Description    string                 `json:"description"`
	Amount         decimal.Decimal        `json:"amount"`
	Count          int                    `json:"count"`
	PurchaseDay    int                    `json:"purchase_day"`
	Installments   []*InstallmentResponse `json:"installments"`
	RealizedCount  int                    `json:"realized_count"`
	RemainingCount int                    `json:"remaining_count"`
	RemainingTotal decimal.Decimal        `json:"remaining_total"`
	NextDueDate    *string                `json:"next_due_date,omitempty"`
}

// InstallmentScheduleFromDomain converts an installment schedule to response.
func InstallmentScheduleFromDomain(s *domain.InstallmentSchedule) *InstallmentScheduleResponse {
	installments := make([]*InstallmentResponse, len(s.Occurrences))
	for i, o := range s.Occurrences {
		installments[i] = &InstallmentResponse{
			Sequence:     o.Sequence,
			PurchaseDate: calendar.DateKey(o.PurchaseDate),
			DueDate:      calendar.DateKey(o.DueDate),
			Amount:       FromMinorUnits(o.Amount),
			Status:       string(o.Status),
		}
	}

	resp := &InstallmentScheduleResponse{
		BlueprintID:    s.BlueprintID,
		CardID:         s.CardID,
		Description:    s.Description,
		Amount:         FromMinorUnits(s.Amount),
		Count:          s.Count,
		PurchaseDay:    s.PurchaseDay,
		Installments:   installments,
		RealizedCount:  s.RealizedCount,
		RemainingCount: s.RemainingCount,
		RemainingTotal: FromMinorUnits(s.RemainingTotal),
	}
	if s.NextDueDate != nil {
		next := calendar.DateKey(*s.NextDueDate)
		resp.NextDueDate = &next
	}

	return resp
}

// ListInstallmentsResponse lists the installment purchases of a card.
type ListInstallmentsResponse struct {
	Installments []*InstallmentScheduleResponse `json:"installments"`
}

// SkippedChargeResponse represents a recurring charge refused during sync.
type SkippedChargeResponse struct {
	CardID          string          `json:"card_id"`
	BlueprintID     string          `json:"blueprint_id"`
	Description     string          `json:"description"`
	OccurrenceAt    time.Time       `json:"occurrence_at"`
	AttemptedAmount decimal.Decimal `json:"attempted_amount"`
	AvailableLimit  decimal.Decimal `json:"available_limit"`
}

// SyncReportResponse represents the outcome of a sync run.
type SyncReportResponse struct {
	StartedAt         time.Time                `json:"started_at"`
	FinishedAt        time.Time                `json:"finished_at"`
	BlueprintsScanned int                      `json:"blueprints_scanned"`
	PostingsCreated   int                      `json:"postings_created"`
	ChargesSkipped    []*SkippedChargeResponse `json:"charges_skipped"`
	Failures          int                      `json:"failures"`
}

// SyncReportFromUseCase converts a sync report to response.
func SyncReportFromUseCase(r *usecase.SyncReport) *SyncReportResponse {
	skipped := make([]*SkippedChargeResponse, len(r.ChargesSkipped))
	for i, s := range r.ChargesSkipped {
		skipped[i] = &SkippedChargeResponse{
			CardID:          s.CardID,
			BlueprintID:     s.BlueprintID,
			Description:     s.Description,
			OccurrenceAt:    s.OccurrenceAt,
			AttemptedAmount: FromMinorUnits(s.AttemptedAmount),
			AvailableLimit:  FromMinorUnits(s.AvailableLimit),
		}
	}

	return &SyncReportResponse{
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
		BlueprintsScanned: r.BlueprintsScanned,
		PostingsCreated:   r.PostingsCreated,
		ChargesSkipped:    skipped,
		Failures:          r.Failures,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

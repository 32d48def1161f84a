package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/billcycle/internal/calendar"
	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/usecase"
)

// CreateCardRequest represents a request to create a card.
type CreateCardRequest struct {
	Name           string          `json:"name"`
	ColorID        int             `json:"color_id"`
	MaxLimit       decimal.Decimal `json:"max_limit"`
	ClosingDay     int             `json:"closing_day"`
	DueDay         int             `json:"due_day"`
	IgnoreWeekends bool            `json:"ignore_weekends"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCardRequest) ToUseCaseInput() (usecase.CreateCardInput, error) {
	limit, err := ToMinorUnits(r.MaxLimit)
	if err != nil {
		return usecase.CreateCardInput{}, err
	}

	return usecase.CreateCardInput{
		Name:           r.Name,
		ColorID:        r.ColorID,
		MaxLimit:       limit,
		ClosingDay:     r.ClosingDay,
		DueDay:         r.DueDay,
		IgnoreWeekends: r.IgnoreWeekends,
	}, nil
}

// CreateBlueprintRequest represents a request to create a recurring blueprint.
// Amount is the magnitude; its sign comes from Flow.
type CreateBlueprintRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	Flow        string          `json:"flow"`
	StartAt     time.Time       `json:"start_at"`
	Rule        string          `json:"rule"`
	CardID      *string         `json:"card_id,omitempty"`
	AccountID   *string         `json:"account_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBlueprintRequest) ToUseCaseInput() (usecase.CreateBlueprintInput, error) {
	amount, err := ToMinorUnits(r.Amount.Abs())
	if err != nil {
		return usecase.CreateBlueprintInput{}, err
	}

	return usecase.CreateBlueprintInput{
		StartAt:     r.StartAt,
		CardID:      r.CardID,
		AccountID:   r.AccountID,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Rule:        r.Rule,
		Flow:        domain.Flow(r.Flow),
		Amount:      amount,
	}, nil
}

// CreatePostingRequest represents a request to record a one-off posting.
type CreatePostingRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	Flow        string          `json:"flow"`
	Date        *time.Time      `json:"date,omitempty"`
	CardID      *string         `json:"card_id,omitempty"`
	AccountID   *string         `json:"account_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePostingRequest) ToUseCaseInput() (usecase.CreatePostingInput, error) {
	amount, err := ToMinorUnits(r.Amount.Abs())
	if err != nil {
		return usecase.CreatePostingInput{}, err
	}

	input := usecase.CreatePostingInput{
		CardID:      r.CardID,
		AccountID:   r.AccountID,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Flow:        domain.Flow(r.Flow),
		Amount:      amount,
	}
	if r.Date != nil {
		input.Date = *r.Date
	}

	return input, nil
}

// CreateInstallmentRequest represents an installment purchase. Amount is the
// value of a single installment. FirstPurchaseDate is a YYYY-MM-DD date.
type CreateInstallmentRequest struct {
	CardID            string          `json:"card_id"`
	Description       string          `json:"description"`
	CategoryID        string          `json:"category_id"`
	Amount            decimal.Decimal `json:"amount"`
	Count             int             `json:"count"`
	PurchaseDay       int             `json:"purchase_day"`
	FirstPurchaseDate string          `json:"first_purchase_date,omitempty"`
	AccountID         *string         `json:"account_id,omitempty"`
}

// ToUseCaseInput converts to use case input, reading dates in loc.
func (r *CreateInstallmentRequest) ToUseCaseInput(loc *time.Location) (usecase.CreateInstallmentPurchaseInput, error) {
	amount, err := ToMinorUnits(r.Amount)
	if err != nil {
		return usecase.CreateInstallmentPurchaseInput{}, err
	}

	input := usecase.CreateInstallmentPurchaseInput{
		AccountID:   r.AccountID,
		CardID:      r.CardID,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Amount:      amount,
		Count:       r.Count,
		PurchaseDay: r.PurchaseDay,
	}

	if r.FirstPurchaseDate != "" {
		first, err := calendar.ParseDateKey(r.FirstPurchaseDate, loc)
		if err != nil {
			return usecase.CreateInstallmentPurchaseInput{}, err
		}
		input.FirstPurchaseDate = &first
	}

	return input, nil
}

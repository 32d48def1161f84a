package domain

import "time"

// Event types
const (
	EventTypeRecurringChargeSkipped = "recurring.charge_skipped"
	EventTypeSyncCompleted          = "sync.completed"
)

// RecurringChargeSkipped is raised when a card-linked occurrence is refused by
// admission control during sync. The blueprint watermark stays at the last
// posted occurrence so the charge is retried on the next run.
type RecurringChargeSkipped struct {
	CardID          string    `json:"card_id"`
	CardName        string    `json:"card_name"`
	BlueprintID     string    `json:"blueprint_id"`
	Description     string    `json:"description"`
	OccurrenceAt    time.Time `json:"occurrence_at"`
	AttemptedAmount int64     `json:"attempted_amount"`
	AvailableLimit  int64     `json:"available_limit"`
}

// SyncCompleted summarizes a sync run.
type SyncCompleted struct {
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
	BlueprintsScanned int       `json:"blueprints_scanned"`
	PostingsCreated   int       `json:"postings_created"`
	ChargesSkipped    int       `json:"charges_skipped"`
	Failures          int       `json:"failures"`
}

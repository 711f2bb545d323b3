package models

import (
	"time"

	"github.com/google/uuid"

	"momo-insights/pkg"
	"momo-insights/pkg/views"
)

// Transaction maps to table `transactions`. Rows are created in bulk during
// an SMS backup upload and never updated in place.
type Transaction struct {
	ID           int64
	UserID       uuid.UUID
	TxType       pkg.TransactionType
	Direction    pkg.Direction
	Amount       float64
	Counterparty string
	OccurredAt   time.Time
	Body         string
	CreatedAt    time.Time
}

func (t Transaction) ToDetail() views.TransactionDetail {
	return views.TransactionDetail{
		ID:           t.ID,
		TxType:       string(t.TxType),
		Direction:    string(t.Direction),
		Amount:       t.Amount,
		Counterparty: t.Counterparty,
		OccurredAt:   t.OccurredAt,
		Body:         t.Body,
	}
}

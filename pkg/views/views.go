package views

import "time"

// RegisterRequest binds the registration form.
type RegisterRequest struct {
	Username string `form:"username" binding:"required,min=3,max=32"`
	Password string `form:"password" binding:"required,min=8,max=72"`
}

// LoginRequest binds the login form.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// TransactionDetail is the JSON shape of a single transaction.
type TransactionDetail struct {
	ID           int64     `json:"id"`
	TxType       string    `json:"txType"`
	Direction    string    `json:"direction"`
	Amount       float64   `json:"amount"`
	Counterparty string    `json:"counterparty"`
	OccurredAt   time.Time `json:"occurredAt"`
	Body         string    `json:"body"`
}

// ChartData feeds a single chart: parallel label/value slices.
type ChartData struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// Summary holds per-user row counts for the dashboard header.
type Summary struct {
	Total   int64 `json:"total"`
	Credits int64 `json:"credits"`
	Debits  int64 `json:"debits"`
}

// UploadSummary reports the outcome of one backup ingestion.
type UploadSummary struct {
	Messages int `json:"messages"` // message elements in the document
	Inserted int `json:"inserted"` // rows persisted
	Skipped  int `json:"skipped"`  // unrecognized or invalid messages dropped
}

// ListFilter narrows the dashboard detail listing. Zero values mean
// "no constraint"; Limit is normalized by the service.
type ListFilter struct {
	TxType    string
	StartDate time.Time
	EndDate   time.Time
	MinAmount *float64
	MaxAmount *float64
	Limit     int
}

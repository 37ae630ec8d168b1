package models

import (
	"encoding/json"
	"time"
)

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Transaction is a processed payment as listed on the dashboard.
type Transaction struct {
	ID              uint            `json:"id"`
	Amount          float64         `json:"amount"`
	ConvertedAmount *float64        `json:"converted_amount"`
	PaymentMethod   string          `json:"payment_method"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"` // Success, Flagged, Pending
	CreatedAt       string          `json:"created_at"`
	CardDetails     json.RawMessage `json:"card_details,omitempty"`
	UTRNumber       *string         `json:"utr_number"`
	Bank            *string         `json:"bank"`
	AccountNumber   *string         `json:"account_number"`
	IFSCCode        *string         `json:"ifsc_code"`
}

// CreatedTime parses CreatedAt, which the backend may send with or without a zone.
func (t Transaction) CreatedTime() (time.Time, bool) {
	for _, layout := range createdAtLayouts {
		if ts, err := time.Parse(layout, t.CreatedAt); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// UTR returns the UTR number, or "" for payments made without one.
func (t Transaction) UTR() string {
	if t.UTRNumber == nil {
		return ""
	}
	return *t.UTRNumber
}

type DashboardResponse struct {
	Transactions []Transaction `json:"transactions"`
}

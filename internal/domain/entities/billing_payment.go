package entities

import (
	"encoding/json"
	"time"
)

// PaymentStatus represents the payment processing outcome.
//
// The portal flow only persists approved payments; denied is kept for
// completeness so gateway rejections can be recorded later without a schema
// change.

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusDenied   PaymentStatus = "denied"
)

// BillingPayment is the invoice payment recorded for an accepted estimate.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (estimate_id-index): estimate_id
//
// MercadoPago payload:
//   - MPPayloadRaw keeps the original body (JSON) for traceability/audit.
//   - MPPayload is an optional parsed representation, useful for querying/debugging.
//     (We persist both because different MP integrations may vary in schema.)

type BillingPayment struct {
	ID         string        `json:"id"`
	EstimateID string        `json:"estimate_id"`
	InvoiceID  string        `json:"invoice_id,omitempty"`
	Date       time.Time     `json:"date"`
	Status     PaymentStatus `json:"status"`

	MPPayloadRaw json.RawMessage        `json:"mp_payload_raw,omitempty"`
	MPPayload    map[string]interface{} `json:"mp_payload,omitempty"`
}

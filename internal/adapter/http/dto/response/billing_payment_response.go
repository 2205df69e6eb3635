package response

import (
	"time"

	"seguranca_xpto/internal/domain/entities"
)

type BillingPaymentResponse struct {
	ID         string    `json:"id"`
	EstimateID string    `json:"estimate_id"`
	InvoiceID  string    `json:"invoice_id,omitempty"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`

	MPPayloadRaw string                 `json:"mp_payload_raw,omitempty"`
	MPPayload    map[string]interface{} `json:"mp_payload,omitempty"`
}

func FromBillingPayment(p entities.BillingPayment) BillingPaymentResponse {
	return BillingPaymentResponse{
		ID:           p.ID,
		EstimateID:   p.EstimateID,
		InvoiceID:    p.InvoiceID,
		Date:         p.Date,
		Status:       string(p.Status),
		MPPayloadRaw: string(p.MPPayloadRaw),
		MPPayload:    p.MPPayload,
	}
}

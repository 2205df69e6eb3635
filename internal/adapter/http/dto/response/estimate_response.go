package response

import (
	"time"

	"seguranca_xpto/internal/domain/entities"
	"seguranca_xpto/internal/domain/status"
)

type EstimateResponse struct {
	ID          string  `json:"id"`
	CustomerID  string  `json:"customer_id"`
	SiteAddress string  `json:"site_address,omitempty"`
	Price       float64 `json:"price"`

	WorkflowStatus string     `json:"workflow_status"`
	QuoteStatus    string     `json:"quote_status,omitempty"`
	PhotosRequired bool       `json:"photos_required"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	InvoiceID      string     `json:"invoice_id,omitempty"`

	// DisplayStatus is derived at response time, never read from storage.
	DisplayStatus string `json:"display_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromEstimate(e entities.Estimate) EstimateResponse {
	return EstimateResponse{
		ID:          e.ID,
		CustomerID:  e.CustomerID,
		SiteAddress: e.SiteAddress,
		Price:       e.Price,

		WorkflowStatus: string(e.Workflow),
		QuoteStatus:    string(e.Quote),
		PhotosRequired: e.PhotosRequired,
		SentAt:         e.SentAt,
		InvoiceID:      e.InvoiceID,

		DisplayStatus: string(status.Resolve(e.Snapshot())),

		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

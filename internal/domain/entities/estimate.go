package entities

import (
	"time"

	"seguranca_xpto/internal/domain/status"
)

// Estimate is the security-installation estimate persisted in DynamoDB.
//
// Domain notes:
//   - The portal service is the source of truth for estimate lifecycle state.
//   - The item carries the raw metadata fields; the canonical DisplayStatus is
//     derived per read via Snapshot() and never stored.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (customer_id-index): customer_id
//
// Monetary representation:
//   - Price is the current estimate total.

type Estimate struct {
	ID          string  `json:"id"`
	CustomerID  string  `json:"customer_id"`
	SiteAddress string  `json:"site_address"`
	Price       float64 `json:"price"`

	Workflow          status.WorkflowStatus `json:"workflow_status"`
	Quote             status.QuoteStatus    `json:"quote_status"`
	PhotosRequired    bool                  `json:"photos_required"`
	ApprovalRequested bool                  `json:"approval_requested"`
	AcceptanceEnabled bool                  `json:"acceptance_enabled"`
	ChangeRequestedAt *time.Time            `json:"change_requested_at,omitempty"`
	SentAt            *time.Time            `json:"sent_at,omitempty"`

	PhotosUploadedCount    int                     `json:"photos_uploaded_count"`
	PhotosSubmissionStatus status.SubmissionStatus `json:"photos_submission_status"`
	PhotosReviewed         bool                    `json:"photos_reviewed"`

	InvoiceID string `json:"invoice_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot projects the entity into the metadata value the status package
// resolves and derives capabilities from. This is the single seam between
// persistence and the pure lifecycle logic: both UIs see exactly this view.
func (e Estimate) Snapshot() *status.MetadataSnapshot {
	return &status.MetadataSnapshot{
		Workflow: &status.WorkflowInfo{
			Status: e.Workflow,
		},
		Quote: &status.QuoteInfo{
			Status:            e.Quote,
			PhotosRequired:    e.PhotosRequired,
			ApprovalRequested: e.ApprovalRequested,
			AcceptanceEnabled: e.AcceptanceEnabled,
			ChangeRequestedAt: e.ChangeRequestedAt,
			SentAt:            e.SentAt,
		},
		Photos: &status.PhotosInfo{
			UploadedCount:    e.PhotosUploadedCount,
			SubmissionStatus: e.PhotosSubmissionStatus,
			Reviewed:         e.PhotosReviewed,
		},
		Invoice: &status.InvoiceInfo{
			ID: e.InvoiceID,
		},
	}
}

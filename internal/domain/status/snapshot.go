package status

import "time"

// WorkflowStatus is the coarse-grained stage of the estimate-to-payment pipeline
// as reported by the CRM backend. An empty value means the workflow record has
// not been created yet.

type WorkflowStatus string

const (
	WorkflowUnset         WorkflowStatus = ""
	WorkflowRequested     WorkflowStatus = "requested"
	WorkflowSent          WorkflowStatus = "sent"
	WorkflowUnderReview   WorkflowStatus = "under_review"
	WorkflowReadyToAccept WorkflowStatus = "ready_to_accept"
	WorkflowAccepted      WorkflowStatus = "accepted"
	WorkflowPaid          WorkflowStatus = "paid"
	WorkflowCompleted     WorkflowStatus = "completed"
)

// QuoteStatus is the approval sub-state of the quote itself. It can lag behind
// or run ahead of WorkflowStatus while the backend is reconciling writes.

type QuoteStatus string

const (
	QuoteUnset     QuoteStatus = ""
	QuoteSent      QuoteStatus = "sent"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteRejected  QuoteStatus = "rejected"
	QuotePaid      QuoteStatus = "paid"
	QuoteCompleted QuoteStatus = "completed"
)

// SubmissionStatus tracks the photos sub-workflow hand-off from customer to admin.

type SubmissionStatus string

const (
	SubmissionNone      SubmissionStatus = ""
	SubmissionSubmitted SubmissionStatus = "submitted"
)

// MetadataSnapshot is the partially-populated estimate metadata the portal and
// the admin console both read. Every nested object is optional: the backend
// materializes them lazily, so any of them can be nil on any given fetch.
//
// The snapshot is a read model. Nothing in this package mutates it.

type MetadataSnapshot struct {
	Workflow *WorkflowInfo `json:"workflow,omitempty"`
	Quote    *QuoteInfo    `json:"quote,omitempty"`
	Photos   *PhotosInfo   `json:"photos,omitempty"`
	Invoice  *InvoiceInfo  `json:"invoice,omitempty"`
}

type WorkflowInfo struct {
	Status WorkflowStatus `json:"status"`
}

type QuoteInfo struct {
	Status            QuoteStatus `json:"status"`
	PhotosRequired    bool        `json:"photosRequired"`
	ApprovalRequested bool        `json:"approvalRequested"`
	AcceptanceEnabled bool        `json:"acceptanceEnabled"`
	ChangeRequestedAt *time.Time  `json:"changeRequestedAt,omitempty"`
	SentAt            *time.Time  `json:"sentAt,omitempty"`
}

type PhotosInfo struct {
	UploadedCount    int              `json:"uploadedCount"`
	SubmissionStatus SubmissionStatus `json:"submissionStatus"`
	Reviewed         bool             `json:"reviewed"`
}

type InvoiceInfo struct {
	ID string `json:"id"`
}

// fields is the fully-defaulted flat projection of a MetadataSnapshot.
// Flattening happens exactly once per Resolve/Derive call so every predicate
// downstream reads plain values and cannot trip over a missing nested object.
type fields struct {
	workflow          WorkflowStatus
	quote             QuoteStatus
	photosRequired    bool
	approvalRequested bool
	acceptanceEnabled bool
	changeRequestedAt *time.Time
	sentAt            *time.Time
	uploadedCount     int
	submission        SubmissionStatus
	reviewed          bool
	invoiceID         string
}

func flatten(s *MetadataSnapshot) fields {
	var f fields
	if s == nil {
		return f
	}
	if s.Workflow != nil {
		f.workflow = s.Workflow.Status
	}
	if s.Quote != nil {
		f.quote = s.Quote.Status
		f.photosRequired = s.Quote.PhotosRequired
		f.approvalRequested = s.Quote.ApprovalRequested
		f.acceptanceEnabled = s.Quote.AcceptanceEnabled
		f.changeRequestedAt = s.Quote.ChangeRequestedAt
		f.sentAt = s.Quote.SentAt
	}
	if s.Photos != nil {
		f.uploadedCount = s.Photos.UploadedCount
		f.submission = s.Photos.SubmissionStatus
		f.reviewed = s.Photos.Reviewed
	}
	if s.Invoice != nil {
		f.invoiceID = s.Invoice.ID
	}
	return f
}

// Shared lifecycle predicates. Both the resolver rule table and the capability
// deriver go through these, so the two can never disagree about what
// "accepted", "rejected" or "paid" means for a given snapshot.

func (f fields) isRejected() bool {
	return f.quote == QuoteRejected
}

// isAccepted treats either field as authoritative: after the customer accepts,
// quote.status flips first and workflow.status catches up on the next backend
// reconciliation pass.
func (f fields) isAccepted() bool {
	return f.workflow == WorkflowAccepted || f.quote == QuoteAccepted
}

func (f fields) isPaid() bool {
	return f.workflow == WorkflowPaid || f.quote == QuotePaid
}

func (f fields) isCompleted() bool {
	return f.workflow == WorkflowCompleted || f.quote == QuoteCompleted
}

// inCustomerReview reports whether the estimate is in a stage where the
// customer side of the photos sub-workflow is live.
func (f fields) inCustomerReview() bool {
	return f.workflow == WorkflowSent || f.workflow == WorkflowUnderReview
}

func (f fields) photosSubmitted() bool {
	return f.submission == SubmissionSubmitted
}

func (f fields) hasInvoice() bool {
	return f.invoiceID != ""
}

package status

// DisplayStatus is the single canonical lifecycle status derived for UI
// display. It is recomputed on every read and never persisted.

type DisplayStatus string

const (
	StatusQuoteRequested    DisplayStatus = "QUOTE_REQUESTED"
	StatusEstimateSent      DisplayStatus = "ESTIMATE_SENT"
	StatusAwaitingPhotos    DisplayStatus = "AWAITING_PHOTOS"
	StatusPhotosUploaded    DisplayStatus = "PHOTOS_UPLOADED"
	StatusPhotosUnderReview DisplayStatus = "PHOTOS_UNDER_REVIEW"
	StatusUnderReview       DisplayStatus = "UNDER_REVIEW"
	StatusChangesRequested  DisplayStatus = "CHANGES_REQUESTED"
	StatusReadyToAccept     DisplayStatus = "READY_TO_ACCEPT"
	StatusAccepted          DisplayStatus = "ACCEPTED"
	StatusInvoiceReady      DisplayStatus = "INVOICE_READY"
	StatusPaid              DisplayStatus = "PAID"
	StatusCompleted         DisplayStatus = "COMPLETED"
	StatusRejected          DisplayStatus = "REJECTED"
)

// AllDisplayStatuses lists every value Resolve can return.
var AllDisplayStatuses = []DisplayStatus{
	StatusQuoteRequested,
	StatusEstimateSent,
	StatusAwaitingPhotos,
	StatusPhotosUploaded,
	StatusPhotosUnderReview,
	StatusUnderReview,
	StatusChangesRequested,
	StatusReadyToAccept,
	StatusAccepted,
	StatusInvoiceReady,
	StatusPaid,
	StatusCompleted,
	StatusRejected,
}

// rule pairs a predicate over the flattened snapshot with the status it yields.
type rule struct {
	name   string
	match  func(fields) bool
	result DisplayStatus
}

// rules is evaluated top to bottom, first match wins. The order is a contract:
// the portal and the admin console render from the same table, and several
// entries only make sense because an earlier entry already claimed the
// overlapping combination. Keep new entries below the one they defer to.
//
// Notable orderings:
//   - rejection sits on top so no later field combination can resurrect a
//     rejected estimate;
//   - acceptance (either workflow or quote side) is checked before
//     ready_to_accept, so a half-reconciled snapshot where quote.status
//     already flipped to accepted never renders the accept button again.
var rules = []rule{
	{
		name:   "rejected",
		match:  func(f fields) bool { return f.isRejected() },
		result: StatusRejected,
	},
	{
		name:   "quote requested",
		match:  func(f fields) bool { return f.workflow == WorkflowUnset || f.workflow == WorkflowRequested },
		result: StatusQuoteRequested,
	},
	{
		name: "sent, photos pending",
		match: func(f fields) bool {
			return f.workflow == WorkflowSent && f.photosRequired && f.uploadedCount == 0
		},
		result: StatusAwaitingPhotos,
	},
	{
		name: "sent, photos uploaded",
		match: func(f fields) bool {
			return f.workflow == WorkflowSent && f.photosRequired && f.uploadedCount > 0 && !f.approvalRequested
		},
		result: StatusPhotosUploaded,
	},
	{
		name: "sent, no photos needed",
		match: func(f fields) bool {
			return f.workflow == WorkflowSent && !f.photosRequired && !f.approvalRequested
		},
		result: StatusEstimateSent,
	},
	{
		name: "review, photos not submitted",
		match: func(f fields) bool {
			return f.workflow == WorkflowUnderReview && f.photosRequired && !f.photosSubmitted()
		},
		result: StatusAwaitingPhotos,
	},
	{
		name: "review, photos submitted",
		match: func(f fields) bool {
			return f.workflow == WorkflowUnderReview && f.photosRequired && f.photosSubmitted() && !f.reviewed
		},
		result: StatusPhotosUnderReview,
	},
	{
		name: "review, changes requested",
		match: func(f fields) bool {
			return f.workflow == WorkflowUnderReview && f.photosRequired && f.photosSubmitted() &&
				f.reviewed && !f.acceptanceEnabled
		},
		result: StatusChangesRequested,
	},
	{
		name: "review, no photos",
		match: func(f fields) bool {
			return f.workflow == WorkflowUnderReview && !f.photosRequired && !f.acceptanceEnabled
		},
		result: StatusUnderReview,
	},
	{
		name:   "accepted, invoice issued",
		match:  func(f fields) bool { return f.isAccepted() && f.hasInvoice() },
		result: StatusInvoiceReady,
	},
	{
		name:   "accepted",
		match:  func(f fields) bool { return f.isAccepted() },
		result: StatusAccepted,
	},
	{
		name: "ready to accept",
		match: func(f fields) bool {
			return f.workflow == WorkflowReadyToAccept && f.acceptanceEnabled
		},
		result: StatusReadyToAccept,
	},
	{
		name:   "paid",
		match:  func(f fields) bool { return f.isPaid() },
		result: StatusPaid,
	},
	{
		name:   "completed",
		match:  func(f fields) bool { return f.isCompleted() },
		result: StatusCompleted,
	},
}

// Resolve derives the canonical DisplayStatus for a snapshot. It is total and
// pure: a nil snapshot, missing nested objects and unrecognized enum values
// all degrade to StatusQuoteRequested, the least privileged state, instead of
// failing. Both UIs call it on every render, so it must never panic.
func Resolve(s *MetadataSnapshot) DisplayStatus {
	f := flatten(s)
	for _, r := range rules {
		if r.match(f) {
			return r.result
		}
	}
	// Unknown workflow values from a backend mid-migration land here.
	return StatusQuoteRequested
}

package status

// CustomerCapabilities are the portal-side actions permitted for a snapshot.

type CustomerCapabilities struct {
	CanRequestReview bool `json:"canRequestReview"`
	CanUploadPhotos  bool `json:"canUploadPhotos"`
	CanSubmitPhotos  bool `json:"canSubmitPhotos"`
	CanAccept        bool `json:"canAccept"`
	CanPay           bool `json:"canPay"`
	CanReject        bool `json:"canReject"`
}

// AdminCapabilities are the admin-console actions permitted for a snapshot.

type AdminCapabilities struct {
	CanSendEstimate         bool `json:"canSendEstimate"`
	CanFinish               bool `json:"canFinish"`
	CanRequestChanges       bool `json:"canRequestChanges"`
	CanTogglePhotosRequired bool `json:"canTogglePhotosRequired"`
}

type CapabilitySet struct {
	Customer CustomerCapabilities `json:"customer"`
	Admin    AdminCapabilities    `json:"admin"`
}

// Derive computes the permitted-action flags for both UI surfaces from a
// single snapshot. It flattens the snapshot through the same projection and
// the same isAccepted/isRejected/isPaid predicates the resolver uses, so a
// flag can never contradict the DisplayStatus rendered next to it.
//
// A nil snapshot yields a CapabilitySet with every flag false: with no data at
// all, neither surface gets a button.
func Derive(s *MetadataSnapshot) CapabilitySet {
	if s == nil {
		return CapabilitySet{}
	}

	f := flatten(s)
	accepted := f.isAccepted()
	rejected := f.isRejected()
	paid := f.isPaid()

	// adminReviewable is the shared core of canFinish/canRequestChanges for
	// the photos branch: submitted, not yet reviewed, review explicitly asked.
	adminReviewable := f.photosRequired && f.workflow == WorkflowUnderReview &&
		f.photosSubmitted() && !f.reviewed && !f.acceptanceEnabled && f.approvalRequested

	return CapabilitySet{
		Customer: CustomerCapabilities{
			CanRequestReview: f.photosRequired && f.photosSubmitted() && f.changeRequestedAt != nil &&
				!f.acceptanceEnabled && !f.approvalRequested && f.inCustomerReview() &&
				!accepted && !rejected,
			CanUploadPhotos: f.photosRequired && f.inCustomerReview() && !accepted && !rejected,
			CanSubmitPhotos: f.photosRequired && f.uploadedCount > 0 && !f.photosSubmitted() &&
				f.inCustomerReview() && !accepted && !rejected,
			CanAccept: !accepted && !rejected && f.acceptanceEnabled && f.workflow == WorkflowReadyToAccept,
			CanPay:    accepted && f.hasInvoice() && !paid && !rejected,
			// A quote that was never sent (workflow unset or requested) has
			// nothing to reject yet.
			CanReject: f.workflow != WorkflowUnset && f.workflow != WorkflowRequested &&
				!accepted && !rejected,
		},
		Admin: AdminCapabilities{
			CanSendEstimate: f.workflow == WorkflowUnset || f.workflow == WorkflowRequested,
			CanFinish: adminReviewable ||
				(!f.photosRequired && f.workflow == WorkflowUnderReview && !f.acceptanceEnabled &&
					f.sentAt != nil && f.approvalRequested),
			CanRequestChanges:       adminReviewable,
			CanTogglePhotosRequired: !accepted && !rejected,
		},
	}
}

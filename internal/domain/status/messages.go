package status

// messages holds one banner line per DisplayStatus. Copy is shared by the
// portal and the admin console.
var messages = map[DisplayStatus]string{
	StatusQuoteRequested:    "Quote requested. Our team is preparing your estimate.",
	StatusEstimateSent:      "Estimate sent. Review the details and request a review when ready.",
	StatusAwaitingPhotos:    "Waiting for installation photos before the review can start.",
	StatusPhotosUploaded:    "Photos uploaded. Submit them to start the review.",
	StatusPhotosUnderReview: "Photos submitted. Our team is reviewing them.",
	StatusUnderReview:       "Estimate under review by our team.",
	StatusChangesRequested:  "Changes requested. Please update your photos and resubmit.",
	StatusReadyToAccept:     "Estimate reviewed. You can now accept or reject it.",
	StatusAccepted:          "Estimate accepted. Your invoice is being prepared.",
	StatusInvoiceReady:      "Invoice ready. You can proceed to payment.",
	StatusPaid:              "Payment received. Installation will be scheduled.",
	StatusCompleted:         "Installation completed. Thank you!",
	StatusRejected:          "Estimate rejected.",
}

// Message returns the banner line for a status. Values outside the enum get a
// fallback instead of an empty string; the resolver never produces them, but
// the catalog and the enum could drift in a future change.
func Message(s DisplayStatus) string {
	if m, ok := messages[s]; ok {
		return m
	}
	return "Unknown status"
}

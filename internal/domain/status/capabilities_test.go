package status

import (
	"math/rand"
	"testing"
)

func TestDerive_NilSnapshot(t *testing.T) {
	got := Derive(nil)
	if got != (CapabilitySet{}) {
		t.Fatalf("expected every flag false, got %+v", got)
	}
}

func TestDerive_CustomerFlags(t *testing.T) {
	cases := []struct {
		name string
		in   *MetadataSnapshot
		want CustomerCapabilities
	}{
		{
			name: "nothing sent yet",
			in:   &MetadataSnapshot{Workflow: &WorkflowInfo{Status: WorkflowRequested}},
			want: CustomerCapabilities{},
		},
		{
			name: "sent with photos required",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowSent},
				Quote:    &QuoteInfo{PhotosRequired: true},
			},
			want: CustomerCapabilities{CanUploadPhotos: true, CanReject: true},
		},
		{
			name: "photos uploaded but not submitted",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowSent},
				Quote:    &QuoteInfo{PhotosRequired: true},
				Photos:   &PhotosInfo{UploadedCount: 2},
			},
			want: CustomerCapabilities{CanUploadPhotos: true, CanSubmitPhotos: true, CanReject: true},
		},
		{
			name: "photos already submitted",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowUnderReview},
				Quote:    &QuoteInfo{PhotosRequired: true, ApprovalRequested: true},
				Photos:   &PhotosInfo{UploadedCount: 2, SubmissionStatus: SubmissionSubmitted},
			},
			want: CustomerCapabilities{CanUploadPhotos: true, CanReject: true},
		},
		{
			name: "resubmission after changes requested",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowUnderReview},
				Quote:    &QuoteInfo{PhotosRequired: true, ChangeRequestedAt: ts("2024-02-01T00:00:00Z")},
				Photos:   &PhotosInfo{UploadedCount: 2, SubmissionStatus: SubmissionSubmitted, Reviewed: true},
			},
			want: CustomerCapabilities{CanRequestReview: true, CanUploadPhotos: true, CanReject: true},
		},
		{
			name: "ready to accept",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowReadyToAccept},
				Quote:    &QuoteInfo{Status: QuoteSent, AcceptanceEnabled: true},
			},
			want: CustomerCapabilities{CanAccept: true, CanReject: true},
		},
		{
			name: "accepted with invoice, awaiting payment",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowAccepted},
				Quote:    &QuoteInfo{Status: QuoteAccepted},
				Invoice:  &InvoiceInfo{ID: "inv_7"},
			},
			want: CustomerCapabilities{CanPay: true},
		},
		{
			name: "accepted without invoice cannot pay yet",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowAccepted},
				Quote:    &QuoteInfo{Status: QuoteAccepted},
			},
			want: CustomerCapabilities{},
		},
		{
			name: "paid invoice cannot be paid twice",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowPaid},
				Quote:    &QuoteInfo{Status: QuotePaid},
				Invoice:  &InvoiceInfo{ID: "inv_7"},
			},
			want: CustomerCapabilities{CanReject: true},
		},
		{
			name: "rejection wins over a stale accepted workflow",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowAccepted},
				Quote:    &QuoteInfo{Status: QuoteRejected},
				Invoice:  &InvoiceInfo{ID: "inv_7"},
			},
			want: CustomerCapabilities{},
		},
		{
			name: "rejected estimate offers nothing",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowSent},
				Quote:    &QuoteInfo{Status: QuoteRejected, PhotosRequired: true},
				Photos:   &PhotosInfo{UploadedCount: 2},
			},
			want: CustomerCapabilities{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Derive(tc.in).Customer; got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestDerive_AdminFlags(t *testing.T) {
	cases := []struct {
		name string
		in   *MetadataSnapshot
		want AdminCapabilities
	}{
		{
			name: "fresh request can be sent",
			in:   &MetadataSnapshot{Workflow: &WorkflowInfo{Status: WorkflowRequested}},
			want: AdminCapabilities{CanSendEstimate: true, CanTogglePhotosRequired: true},
		},
		{
			name: "empty snapshot can be sent",
			in:   &MetadataSnapshot{},
			want: AdminCapabilities{CanSendEstimate: true, CanTogglePhotosRequired: true},
		},
		{
			name: "photos under review can be finished or bounced",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowUnderReview},
				Quote:    &QuoteInfo{PhotosRequired: true, ApprovalRequested: true},
				Photos:   &PhotosInfo{UploadedCount: 2, SubmissionStatus: SubmissionSubmitted},
			},
			want: AdminCapabilities{CanFinish: true, CanRequestChanges: true, CanTogglePhotosRequired: true},
		},
		{
			name: "photoless review can finish but not request photo changes",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowUnderReview},
				Quote:    &QuoteInfo{ApprovalRequested: true, SentAt: ts("2024-01-10T00:00:00Z")},
			},
			want: AdminCapabilities{CanFinish: true, CanTogglePhotosRequired: true},
		},
		{
			name: "review already concluded",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowUnderReview},
				Quote:    &QuoteInfo{PhotosRequired: true, AcceptanceEnabled: true},
				Photos:   &PhotosInfo{UploadedCount: 2, SubmissionStatus: SubmissionSubmitted, Reviewed: true},
			},
			want: AdminCapabilities{CanTogglePhotosRequired: true},
		},
		{
			name: "accepted estimate locks the photos toggle",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowAccepted},
				Quote:    &QuoteInfo{Status: QuoteAccepted},
			},
			want: AdminCapabilities{},
		},
		{
			name: "rejected estimate locks the photos toggle",
			in: &MetadataSnapshot{
				Quote: &QuoteInfo{Status: QuoteRejected},
			},
			want: AdminCapabilities{CanSendEstimate: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Derive(tc.in).Admin; got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

// The resolver and the deriver read the same flattened fields, so a few
// relations between the two must hold for every snapshot. Fuzz them together.
func TestDerive_ConsistentWithResolve(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		s := randomSnapshot(rng)
		ds := Resolve(s)
		caps := Derive(s)

		if ds == StatusRejected {
			if caps.Customer != (CustomerCapabilities{}) {
				t.Fatalf("iteration %d: rejected estimate still grants customer actions: %+v", i, caps.Customer)
			}
		}
		if caps.Customer.CanAccept && (ds == StatusAccepted || ds == StatusInvoiceReady || ds == StatusRejected) {
			t.Fatalf("iteration %d: canAccept while %s", i, ds)
		}
		if caps.Customer.CanPay && ds == StatusPaid {
			t.Fatalf("iteration %d: canPay while already PAID", i)
		}
		if caps.Admin.CanSendEstimate && ds != StatusQuoteRequested && ds != StatusRejected {
			t.Fatalf("iteration %d: canSendEstimate while %s", i, ds)
		}
	}
}

package status

import (
	"math/rand"
	"testing"
	"time"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestResolve_NilAndEmpty(t *testing.T) {
	if got := Resolve(nil); got != StatusQuoteRequested {
		t.Fatalf("nil snapshot: expected QUOTE_REQUESTED, got %s", got)
	}
	if got := Resolve(&MetadataSnapshot{}); got != StatusQuoteRequested {
		t.Fatalf("empty snapshot: expected QUOTE_REQUESTED, got %s", got)
	}
}

func TestResolve_RuleTable(t *testing.T) {
	cases := []struct {
		name string
		in   *MetadataSnapshot
		want DisplayStatus
	}{
		{
			name: "requested workflow",
			in:   &MetadataSnapshot{Workflow: &WorkflowInfo{Status: WorkflowRequested}},
			want: StatusQuoteRequested,
		},
		{
			name: "sent with photos pending",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowSent},
				Quote:    &QuoteInfo{PhotosRequired: true, SentAt: ts("2024-01-01T00:00:00Z")},
				Photos:   &PhotosInfo{UploadedCount: 0},
			},
			want: StatusAwaitingPhotos,
		},
		{
			name: "sent with photos uploaded but not submitted",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowSent},
				Quote:    &QuoteInfo{PhotosRequired: true},
				Photos:   &PhotosInfo{UploadedCount: 3},
			},
			want: StatusPhotosUploaded,
		},
		{
			name: "sent without photos requirement",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowSent},
				Quote:    &QuoteInfo{PhotosRequired: false, SentAt: ts("2024-01-01T00:00:00Z")},
			},
			want: StatusEstimateSent,
		},
		{
			name: "under review but photos never submitted",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowUnderReview},
				Quote:    &QuoteInfo{PhotosRequired: true},
				Photos:   &PhotosInfo{UploadedCount: 2},
			},
			want: StatusAwaitingPhotos,
		},
		{
			name: "photos submitted and awaiting admin review",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowUnderReview},
				Quote:    &QuoteInfo{PhotosRequired: true, ApprovalRequested: true},
				Photos:   &PhotosInfo{UploadedCount: 2, SubmissionStatus: SubmissionSubmitted},
			},
			want: StatusPhotosUnderReview,
		},
		{
			name: "photos reviewed with changes requested",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowUnderReview},
				Quote:    &QuoteInfo{PhotosRequired: true, ChangeRequestedAt: ts("2024-02-01T12:00:00Z")},
				Photos:   &PhotosInfo{UploadedCount: 2, SubmissionStatus: SubmissionSubmitted, Reviewed: true},
			},
			want: StatusChangesRequested,
		},
		{
			name: "under review without photos",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowUnderReview},
				Quote:    &QuoteInfo{ApprovalRequested: true},
			},
			want: StatusUnderReview,
		},
		{
			name: "ready to accept",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowReadyToAccept},
				Quote:    &QuoteInfo{Status: QuoteSent, AcceptanceEnabled: true},
			},
			want: StatusReadyToAccept,
		},
		{
			name: "accepted without invoice",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowAccepted},
				Quote:    &QuoteInfo{Status: QuoteAccepted},
			},
			want: StatusAccepted,
		},
		{
			name: "accepted with invoice issued",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowAccepted},
				Quote:    &QuoteInfo{Status: QuoteAccepted},
				Invoice:  &InvoiceInfo{ID: "inv_1"},
			},
			want: StatusInvoiceReady,
		},
		{
			name: "paid via workflow only",
			in:   &MetadataSnapshot{Workflow: &WorkflowInfo{Status: WorkflowPaid}},
			want: StatusPaid,
		},
		{
			name: "paid via quote only",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowReadyToAccept},
				Quote:    &QuoteInfo{Status: QuotePaid},
			},
			want: StatusPaid,
		},
		{
			name: "completed",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowCompleted},
				Quote:    &QuoteInfo{Status: QuoteCompleted},
			},
			want: StatusCompleted,
		},
		{
			name: "rejected",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowSent},
				Quote:    &QuoteInfo{Status: QuoteRejected},
			},
			want: StatusRejected,
		},
		{
			name: "unknown workflow value falls back",
			in:   &MetadataSnapshot{Workflow: &WorkflowInfo{Status: "migrating"}},
			want: StatusQuoteRequested,
		},
		{
			name: "sent with approval requested matches nothing in sent branch",
			in: &MetadataSnapshot{
				Workflow: &WorkflowInfo{Status: WorkflowSent},
				Quote:    &QuoteInfo{PhotosRequired: false, ApprovalRequested: true},
			},
			want: StatusQuoteRequested,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.in); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

// Once the customer rejects, nothing else in the snapshot may change the
// outcome. Fuzz every other field while quote.status stays rejected.
func TestResolve_RejectionDominance(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		s := randomSnapshot(rng)
		if s.Quote == nil {
			s.Quote = &QuoteInfo{}
		}
		s.Quote.Status = QuoteRejected
		if got := Resolve(s); got != StatusRejected {
			t.Fatalf("iteration %d: expected REJECTED, got %s (snapshot %+v)", i, got, s)
		}
	}
}

// A half-reconciled snapshot where quote.status is already accepted but
// workflow.status still says ready_to_accept must never render the accept
// button again.
func TestResolve_AcceptancePrecedence(t *testing.T) {
	s := &MetadataSnapshot{
		Workflow: &WorkflowInfo{Status: WorkflowReadyToAccept},
		Quote:    &QuoteInfo{Status: QuoteAccepted, AcceptanceEnabled: true},
	}
	if got := Resolve(s); got != StatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", got)
	}

	s.Invoice = &InvoiceInfo{ID: "inv_9"}
	if got := Resolve(s); got != StatusInvoiceReady {
		t.Fatalf("with invoice: expected INVOICE_READY, got %s", got)
	}
}

// Resolve must be total over arbitrary partial snapshots: always one of the
// thirteen values, never a panic, and stable across repeated calls.
func TestResolve_TotalityAndIdempotence(t *testing.T) {
	valid := make(map[DisplayStatus]bool, len(AllDisplayStatuses))
	for _, ds := range AllDisplayStatuses {
		valid[ds] = true
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		s := randomSnapshot(rng)
		first := Resolve(s)
		if !valid[first] {
			t.Fatalf("iteration %d: %q is not a known DisplayStatus", i, first)
		}
		if second := Resolve(s); second != first {
			t.Fatalf("iteration %d: resolve not idempotent: %s then %s", i, first, second)
		}
	}
}

var fuzzWorkflows = []WorkflowStatus{
	WorkflowUnset, WorkflowRequested, WorkflowSent, WorkflowUnderReview,
	WorkflowReadyToAccept, WorkflowAccepted, WorkflowPaid, WorkflowCompleted,
	"bogus", "SENT",
}

var fuzzQuotes = []QuoteStatus{
	QuoteUnset, QuoteSent, QuoteAccepted, QuoteRejected, QuotePaid, QuoteCompleted,
	"draft",
}

var fuzzSubmissions = []SubmissionStatus{SubmissionNone, SubmissionSubmitted, "pending"}

func randomSnapshot(rng *rand.Rand) *MetadataSnapshot {
	s := &MetadataSnapshot{}
	if rng.Intn(10) > 0 {
		s.Workflow = &WorkflowInfo{Status: fuzzWorkflows[rng.Intn(len(fuzzWorkflows))]}
	}
	if rng.Intn(10) > 0 {
		q := &QuoteInfo{
			Status:            fuzzQuotes[rng.Intn(len(fuzzQuotes))],
			PhotosRequired:    rng.Intn(2) == 0,
			ApprovalRequested: rng.Intn(2) == 0,
			AcceptanceEnabled: rng.Intn(2) == 0,
		}
		if rng.Intn(2) == 0 {
			q.ChangeRequestedAt = ts("2024-03-01T00:00:00Z")
		}
		if rng.Intn(2) == 0 {
			q.SentAt = ts("2024-01-15T00:00:00Z")
		}
		s.Quote = q
	}
	if rng.Intn(10) > 0 {
		s.Photos = &PhotosInfo{
			UploadedCount:    rng.Intn(5),
			SubmissionStatus: fuzzSubmissions[rng.Intn(len(fuzzSubmissions))],
			Reviewed:         rng.Intn(2) == 0,
		}
	}
	if rng.Intn(3) == 0 {
		s.Invoice = &InvoiceInfo{ID: "inv_fuzz"}
	}
	return s
}

package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"seguranca_xpto/internal/domain/entities"
	"seguranca_xpto/internal/domain/status"
	"seguranca_xpto/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrEstimateNotFound   = errors.New("estimate not found")
	ErrInvalidCustomerID  = errors.New("invalid customer_id")
	ErrInvalidEstimateID  = errors.New("invalid estimate id")
	ErrInvalidEstimateVal = errors.New("invalid estimate value")
	ErrActionNotAllowed   = errors.New("action not allowed in current estimate state")
)

// IEstimateUseCase exposes the estimate lifecycle operations.
//
// Every mutating operation is one of the external actions the two UIs can
// trigger. Each one re-derives the capability set from the stored snapshot and
// refuses the mutation when the corresponding flag is off, so the API enforces
// exactly what the buttons show.

type IEstimateUseCase interface {
	RequestQuote(ctx context.Context, customerID, siteAddress string, price float64) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]entities.Estimate, error)

	// Admin console actions.
	SendEstimate(ctx context.Context, id string, photosRequired bool) (entities.Estimate, error)
	CompleteReview(ctx context.Context, id string) (entities.Estimate, error)
	RequestChanges(ctx context.Context, id string) (entities.Estimate, error)
	TogglePhotosRequired(ctx context.Context, id string) (entities.Estimate, error)
	MarkCompleted(ctx context.Context, id string) (entities.Estimate, error)

	// Customer portal actions.
	RegisterPhotoUpload(ctx context.Context, id string) (entities.Estimate, error)
	SubmitPhotos(ctx context.Context, id string) (entities.Estimate, error)
	RequestReview(ctx context.Context, id string) (entities.Estimate, error)
	Accept(ctx context.Context, id string) (entities.Estimate, error)
	Reject(ctx context.Context, id string) (entities.Estimate, error)
}

type EstimateUseCase struct {
	repo interfaces.IEstimateRepository
}

var _ IEstimateUseCase = (*EstimateUseCase)(nil)

func NewEstimateUseCase(repo interfaces.IEstimateRepository) *EstimateUseCase {
	return &EstimateUseCase{repo: repo}
}

func (u *EstimateUseCase) RequestQuote(ctx context.Context, customerID, siteAddress string, price float64) (entities.Estimate, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return entities.Estimate{}, ErrInvalidCustomerID
	}
	if price <= 0 {
		return entities.Estimate{}, ErrInvalidEstimateVal
	}

	now := time.Now().UTC()
	e := entities.Estimate{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		SiteAddress: strings.TrimSpace(siteAddress),
		Price:       price,
		Workflow:    status.WorkflowRequested,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return u.repo.Create(ctx, e)
}

func (u *EstimateUseCase) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Estimate{}, ErrInvalidEstimateID
	}

	e, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return e, nil
}

func (u *EstimateUseCase) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Estimate, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return u.repo.ListByCustomerID(ctx, customerID)
}

func (u *EstimateUseCase) SendEstimate(ctx context.Context, id string, photosRequired bool) (entities.Estimate, error) {
	return u.mutate(ctx, id, "send", func(e *entities.Estimate, caps status.CapabilitySet, now time.Time) error {
		if !caps.Admin.CanSendEstimate {
			return ErrActionNotAllowed
		}
		e.Workflow = status.WorkflowSent
		e.Quote = status.QuoteSent
		e.PhotosRequired = photosRequired
		e.SentAt = &now
		return nil
	})
}

func (u *EstimateUseCase) CompleteReview(ctx context.Context, id string) (entities.Estimate, error) {
	return u.mutate(ctx, id, "complete-review", func(e *entities.Estimate, caps status.CapabilitySet, now time.Time) error {
		if !caps.Admin.CanFinish {
			return ErrActionNotAllowed
		}
		if e.PhotosRequired {
			e.PhotosReviewed = true
		}
		e.AcceptanceEnabled = true
		e.ApprovalRequested = false
		e.Workflow = status.WorkflowReadyToAccept
		return nil
	})
}

// RequestChanges is the only action that moves the workflow backward: it
// closes the pending review and reopens the photo hand-off so the customer can
// rework and resubmit.
func (u *EstimateUseCase) RequestChanges(ctx context.Context, id string) (entities.Estimate, error) {
	return u.mutate(ctx, id, "request-changes", func(e *entities.Estimate, caps status.CapabilitySet, now time.Time) error {
		if !caps.Admin.CanRequestChanges {
			return ErrActionNotAllowed
		}
		e.PhotosReviewed = true
		e.AcceptanceEnabled = false
		e.ApprovalRequested = false
		e.ChangeRequestedAt = &now
		return nil
	})
}

func (u *EstimateUseCase) TogglePhotosRequired(ctx context.Context, id string) (entities.Estimate, error) {
	return u.mutate(ctx, id, "toggle-photos-required", func(e *entities.Estimate, caps status.CapabilitySet, now time.Time) error {
		if !caps.Admin.CanTogglePhotosRequired {
			return ErrActionNotAllowed
		}
		e.PhotosRequired = !e.PhotosRequired
		return nil
	})
}

func (u *EstimateUseCase) MarkCompleted(ctx context.Context, id string) (entities.Estimate, error) {
	return u.mutate(ctx, id, "mark-completed", func(e *entities.Estimate, caps status.CapabilitySet, now time.Time) error {
		// Completion is only reachable from paid.
		if e.Workflow != status.WorkflowPaid && e.Quote != status.QuotePaid {
			return ErrActionNotAllowed
		}
		e.Workflow = status.WorkflowCompleted
		e.Quote = status.QuoteCompleted
		return nil
	})
}

func (u *EstimateUseCase) RegisterPhotoUpload(ctx context.Context, id string) (entities.Estimate, error) {
	return u.mutate(ctx, id, "photo-upload", func(e *entities.Estimate, caps status.CapabilitySet, now time.Time) error {
		if !caps.Customer.CanUploadPhotos {
			return ErrActionNotAllowed
		}
		e.PhotosUploadedCount++
		return nil
	})
}

// SubmitPhotos hands the uploaded photos to the admin team and asks for
// review. It also serves the resubmission path after request-changes, which is
// why the guard accepts either capability flag.
func (u *EstimateUseCase) SubmitPhotos(ctx context.Context, id string) (entities.Estimate, error) {
	return u.mutate(ctx, id, "submit-photos", func(e *entities.Estimate, caps status.CapabilitySet, now time.Time) error {
		if !caps.Customer.CanSubmitPhotos && !caps.Customer.CanRequestReview {
			return ErrActionNotAllowed
		}
		e.PhotosSubmissionStatus = status.SubmissionSubmitted
		e.PhotosReviewed = false
		e.ApprovalRequested = true
		e.Workflow = status.WorkflowUnderReview
		return nil
	})
}

// RequestReview covers the no-photos flow: the customer has read the sent
// estimate and asks the admin team to review it for acceptance.
func (u *EstimateUseCase) RequestReview(ctx context.Context, id string) (entities.Estimate, error) {
	return u.mutate(ctx, id, "request-review", func(e *entities.Estimate, caps status.CapabilitySet, now time.Time) error {
		if e.PhotosRequired || e.Workflow != status.WorkflowSent || e.ApprovalRequested {
			return ErrActionNotAllowed
		}
		if !caps.Customer.CanReject {
			// CanReject doubles as "customer still holds the estimate":
			// false once accepted, rejected or never sent.
			return ErrActionNotAllowed
		}
		e.ApprovalRequested = true
		e.Workflow = status.WorkflowUnderReview
		return nil
	})
}

func (u *EstimateUseCase) Accept(ctx context.Context, id string) (entities.Estimate, error) {
	return u.mutate(ctx, id, "accept", func(e *entities.Estimate, caps status.CapabilitySet, now time.Time) error {
		if !caps.Customer.CanAccept {
			return ErrActionNotAllowed
		}
		e.Quote = status.QuoteAccepted
		e.Workflow = status.WorkflowAccepted
		// Issue the invoice reference right away so the portal can move the
		// customer straight to payment.
		if e.InvoiceID == "" {
			e.InvoiceID = "inv-" + uuid.NewString()
		}
		return nil
	})
}

func (u *EstimateUseCase) Reject(ctx context.Context, id string) (entities.Estimate, error) {
	return u.mutate(ctx, id, "reject", func(e *entities.Estimate, caps status.CapabilitySet, now time.Time) error {
		if !caps.Customer.CanReject {
			return ErrActionNotAllowed
		}
		// Terminal. The resolver ignores everything else once this is set.
		e.Quote = status.QuoteRejected
		return nil
	})
}

// mutate loads the estimate, derives the capability set from its snapshot,
// applies the action and writes the result back. Centralizing the
// load-guard-apply-save cycle keeps every action on the same consistency path.
func (u *EstimateUseCase) mutate(
	ctx context.Context,
	id string,
	action string,
	apply func(e *entities.Estimate, caps status.CapabilitySet, now time.Time) error,
) (entities.Estimate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Estimate{}, ErrInvalidEstimateID
	}

	e, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}

	now := time.Now().UTC()
	caps := status.Derive(e.Snapshot())
	if err := apply(&e, caps, now); err != nil {
		log.Printf("[estimate][usecase] %s refused id=%s workflow=%s quote=%s err=%v", action, e.ID, e.Workflow, e.Quote, err)
		return entities.Estimate{}, err
	}
	e.UpdatedAt = now

	updated, err := u.repo.Update(ctx, e)
	if err != nil {
		return entities.Estimate{}, err
	}
	if updated.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	log.Printf("[estimate][usecase] %s applied id=%s display_status=%s", action, updated.ID, status.Resolve(updated.Snapshot()))
	return updated, nil
}

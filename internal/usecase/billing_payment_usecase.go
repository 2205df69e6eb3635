package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"seguranca_xpto/internal/domain/entities"
	"seguranca_xpto/internal/domain/status"
	"seguranca_xpto/internal/usecase/interfaces"
)

var (
	ErrBillingPaymentNotFound     = errors.New("billing payment not found")
	ErrInvalidPaymentEstimateID   = errors.New("invalid estimate_id")
	ErrInvalidMPPayload           = errors.New("invalid mercado pago payload")
	ErrEstimateNotPayable         = errors.New("estimate not payable")
	ErrPaymentGatewayBadRequest   = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized = errors.New("payment gateway unauthorized")
)

// IBillingPaymentUseCase encapsulates the "pay the invoice" behavior.
//
// Payment is only offered once the snapshot derives canPay (accepted, invoice
// issued, not yet paid); on gateway approval the estimate itself is advanced
// to paid so both UIs resolve PAID on their next refetch.

type IBillingPaymentUseCase interface {
	CreateAndApprove(ctx context.Context, estimateID string, mpPayload json.RawMessage) (entities.BillingPayment, error)
	GetByID(ctx context.Context, id string) (entities.BillingPayment, error)
	ListByEstimateID(ctx context.Context, estimateID string) ([]entities.BillingPayment, error)
}

type BillingPaymentUseCase struct {
	repo         interfaces.IBillingPaymentRepository
	estimateRepo interfaces.IEstimateRepository
	gateway      interfaces.IPaymentGateway
}

var _ IBillingPaymentUseCase = (*BillingPaymentUseCase)(nil)

func NewBillingPaymentUseCase(repo interfaces.IBillingPaymentRepository, estimateRepo interfaces.IEstimateRepository, gateway interfaces.IPaymentGateway) *BillingPaymentUseCase {
	return &BillingPaymentUseCase{repo: repo, estimateRepo: estimateRepo, gateway: gateway}
}

func (u *BillingPaymentUseCase) CreateAndApprove(ctx context.Context, estimateID string, mpPayload json.RawMessage) (entities.BillingPayment, error) {
	log.Printf("[payment][usecase] create-and-approve start raw_estimate_id=%q payload_len=%d", estimateID, len(mpPayload))
	mockMode := isPaymentGatewayMockEnabled()
	estimateID = strings.TrimSpace(estimateID)
	if estimateID == "" {
		return entities.BillingPayment{}, ErrInvalidPaymentEstimateID
	}
	if len(mpPayload) == 0 || !json.Valid(mpPayload) {
		if !mockMode {
			log.Printf("[payment][usecase] invalid payload estimate_id=%s", estimateID)
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
		mpPayload = json.RawMessage("{}")
	}
	if u.gateway == nil {
		return entities.BillingPayment{}, errors.New("payment gateway not configured")
	}
	if u.estimateRepo == nil {
		return entities.BillingPayment{}, errors.New("estimate repository not configured")
	}

	est, err := u.estimateRepo.GetByID(ctx, estimateID)
	if err != nil {
		log.Printf("[payment][usecase] failed loading estimate estimate_id=%s err=%v", estimateID, err)
		return entities.BillingPayment{}, err
	}
	if est.ID == "" {
		return entities.BillingPayment{}, ErrEstimateNotFound
	}

	// Same derivation the portal used to show the pay button.
	caps := status.Derive(est.Snapshot())
	if !mockMode && !caps.Customer.CanPay {
		log.Printf("[payment][usecase] estimate not payable estimate_id=%s workflow=%s quote=%s invoice_id=%s", estimateID, est.Workflow, est.Quote, est.InvoiceID)
		return entities.BillingPayment{}, ErrEstimateNotPayable
	}
	log.Printf("[payment][usecase] estimate loaded estimate_id=%s invoice_id=%s price=%.2f", estimateID, est.InvoiceID, est.Price)

	// Link the charge to the estimate when the caller didn't. Mercado Pago
	// uses external_reference to help reconcile events.
	var reqMap map[string]any
	if err := json.Unmarshal(mpPayload, &reqMap); err == nil {
		if !mockMode && !hasNonEmptyString(reqMap, "payment_method_id") {
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
		if _, ok := reqMap["external_reference"]; !ok {
			reqMap["external_reference"] = estimateID
		}
		if _, ok := reqMap["description"]; !ok {
			reqMap["description"] = fmt.Sprintf("Security installation estimate %s", estimateID)
		}

		// The source of truth for amount is the estimate in DB.
		reqMap["transaction_amount"] = est.Price
		if b, err := json.Marshal(reqMap); err == nil {
			mpPayload = b
		}
	}

	providerPaymentID := ""
	providerStatus := ""
	providerResp := json.RawMessage(nil)

	if mockMode {
		log.Printf("[payment][usecase] mock mode enabled; skipping external payment gateway estimate_id=%s", estimateID)
		providerPaymentID = strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		providerStatus = "approved"
		providerResp = mockProviderResponse(providerPaymentID, estimateID, est.Price, mpPayload)
	} else {
		providerPaymentID, providerStatus, providerResp, err = u.gateway.CreatePayment(ctx, mpPayload)
		if err != nil {
			log.Printf("[payment][usecase] payment gateway failed estimate_id=%s err=%v", estimateID, err)
			if isGatewayUnauthorized(err) {
				return entities.BillingPayment{}, ErrPaymentGatewayUnauthorized
			}
			if isGatewayBadRequest(err) {
				return entities.BillingPayment{}, ErrPaymentGatewayBadRequest
			}
			return entities.BillingPayment{}, err
		}
	}
	log.Printf("[payment][usecase] payment gateway success estimate_id=%s provider_payment_id=%s provider_status=%s", estimateID, providerPaymentID, providerStatus)

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		log.Printf("[payment][usecase] provider response unmarshal failed estimate_id=%s err=%v", estimateID, err)
	}

	now := time.Now().UTC()
	p := entities.BillingPayment{
		ID:           providerPaymentID,
		EstimateID:   estimateID,
		InvoiceID:    est.InvoiceID,
		Date:         now,
		Status:       entities.PaymentStatusApproved,
		MPPayloadRaw: providerResp,
		MPPayload:    parsed,
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		log.Printf("[payment][usecase] payment repository create failed estimate_id=%s payment_id=%s err=%v", estimateID, p.ID, err)
		return entities.BillingPayment{}, err
	}

	// Advance the estimate so the next resolve on either UI yields PAID.
	est.Quote = status.QuotePaid
	est.Workflow = status.WorkflowPaid
	est.UpdatedAt = now
	if _, err := u.estimateRepo.Update(ctx, est); err != nil {
		// The payment record exists; the estimate catches up on retry.
		log.Printf("[payment][usecase] estimate paid-update failed estimate_id=%s payment_id=%s err=%v", estimateID, created.ID, err)
		return entities.BillingPayment{}, err
	}

	log.Printf("[payment][usecase] create-and-approve success estimate_id=%s payment_id=%s status=%s", estimateID, created.ID, created.Status)
	return created, nil
}

func (u *BillingPaymentUseCase) GetByID(ctx context.Context, id string) (entities.BillingPayment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.BillingPayment{}, errors.New("invalid payment id")
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.BillingPayment{}, err
	}
	if p.ID == "" {
		return entities.BillingPayment{}, ErrBillingPaymentNotFound
	}
	return p, nil
}

func (u *BillingPaymentUseCase) ListByEstimateID(ctx context.Context, estimateID string) ([]entities.BillingPayment, error) {
	estimateID = strings.TrimSpace(estimateID)
	if estimateID == "" {
		return nil, ErrInvalidPaymentEstimateID
	}
	return u.repo.ListByEstimateID(ctx, estimateID)
}

func mockProviderResponse(providerPaymentID, estimateID string, amount float64, requestPayload json.RawMessage) json.RawMessage {
	resp := map[string]any{}
	if len(requestPayload) > 0 && json.Valid(requestPayload) {
		_ = json.Unmarshal(requestPayload, &resp)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	resp["id"] = providerPaymentID
	resp["status"] = "approved"
	resp["status_detail"] = "accredited"
	resp["date_created"] = now
	resp["date_approved"] = now
	if _, ok := resp["external_reference"]; !ok {
		resp["external_reference"] = estimateID
	}
	if _, ok := resp["transaction_amount"]; !ok {
		resp["transaction_amount"] = amount
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}

func hasNonEmptyString(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) != ""
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}

func isGatewayBadRequest(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400")
}

func isGatewayUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401")
}

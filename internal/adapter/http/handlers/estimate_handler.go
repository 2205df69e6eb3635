package handlers

import (
	"context"
	"errors"
	"net/http"

	request "seguranca_xpto/internal/adapter/http/dto/request"
	response "seguranca_xpto/internal/adapter/http/dto/response"
	"seguranca_xpto/internal/domain/entities"
	"seguranca_xpto/internal/usecase"
	"seguranca_xpto/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidEstimatePayload = pkg.NewDomainErrorSimple("INVALID_ESTIMATE_INPUT", "Invalid estimate payload", http.StatusBadRequest)
)

// EstimateHandler handles the admin-console side of the estimate lifecycle,
// plus the reads shared by both UIs (entity fetch and the derived status view).

type EstimateHandler struct {
	usecase usecase.IEstimateUseCase
}

func NewEstimateHandler(uc usecase.IEstimateUseCase) *EstimateHandler {
	return &EstimateHandler{usecase: uc}
}

// CreateEstimate registers a new quote request from the portal.
func (h *EstimateHandler) CreateEstimate(c *gin.Context) {
	var payload request.CreateEstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidEstimatePayload.HTTPStatus, errInvalidEstimatePayload.ToHTTPError())
		return
	}

	customerID := payload.ResolveCustomerID()
	if customerID == "" {
		c.JSON(http.StatusBadRequest, pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest).ToHTTPError())
		return
	}

	price, err := payload.ResolvePrice()
	if err != nil {
		c.JSON(errInvalidEstimatePayload.HTTPStatus, errInvalidEstimatePayload.ToHTTPError())
		return
	}

	estimate, err := h.usecase.RequestQuote(c.Request.Context(), customerID, payload.SiteAddress, price)
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromEstimate(estimate))
}

func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	estimate, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

// GetEstimateStatus returns the derived lifecycle view: display status, its
// message, and the capability flags for both UI surfaces. Recomputed on every
// call from the stored metadata.
func (h *EstimateHandler) GetEstimateStatus(c *gin.Context) {
	estimate, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromSnapshot(estimate.Snapshot()))
}

func (h *EstimateHandler) ListEstimates(c *gin.Context) {
	customerID := c.Query("customer_id")
	estimates, err := h.usecase.ListByCustomerID(c.Request.Context(), customerID)
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	out := make([]response.EstimateResponse, 0, len(estimates))
	for _, e := range estimates {
		out = append(out, response.FromEstimate(e))
	}
	c.JSON(http.StatusOK, out)
}

// SendEstimate publishes the estimate to the customer.
func (h *EstimateHandler) SendEstimate(c *gin.Context) {
	var payload request.SendEstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidEstimatePayload.HTTPStatus, errInvalidEstimatePayload.ToHTTPError())
		return
	}

	estimate, err := h.usecase.SendEstimate(c.Request.Context(), c.Param("id"), payload.PhotosRequired)
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

func (h *EstimateHandler) CompleteReview(c *gin.Context) {
	h.patchEstimate(c, h.usecase.CompleteReview)
}

func (h *EstimateHandler) RequestChanges(c *gin.Context) {
	h.patchEstimate(c, h.usecase.RequestChanges)
}

func (h *EstimateHandler) TogglePhotosRequired(c *gin.Context) {
	h.patchEstimate(c, h.usecase.TogglePhotosRequired)
}

func (h *EstimateHandler) MarkCompleted(c *gin.Context) {
	h.patchEstimate(c, h.usecase.MarkCompleted)
}

func (h *EstimateHandler) patchEstimate(
	c *gin.Context,
	action func(ctx context.Context, id string) (entities.Estimate, error),
) {
	estimate, err := action(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

func mapEstimateError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidCustomerID), errors.Is(err, usecase.ErrInvalidEstimateID), errors.Is(err, usecase.ErrInvalidEstimateVal):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrActionNotAllowed):
		return pkg.NewDomainErrorSimple("ACTION_NOT_ALLOWED", "Action not allowed in the current estimate state", http.StatusConflict)
	case errors.Is(err, usecase.ErrEstimateNotFound):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_FOUND", "Estimate not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

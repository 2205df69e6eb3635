package handlers

import (
	"context"
	"net/http"

	response "seguranca_xpto/internal/adapter/http/dto/response"
	"seguranca_xpto/internal/domain/entities"
	"seguranca_xpto/internal/usecase"

	"github.com/gin-gonic/gin"
)

// ApprovalHandler handles the customer-portal side of the estimate lifecycle:
// the photos sub-workflow, review requests, and accept/reject. It shares the
// error mapping with EstimateHandler so both surfaces report failures the
// same way.

type ApprovalHandler struct {
	usecase usecase.IEstimateUseCase
}

func NewApprovalHandler(uc usecase.IEstimateUseCase) *ApprovalHandler {
	return &ApprovalHandler{usecase: uc}
}

// RegisterPhotoUpload records one uploaded installation photo. The binary
// upload itself goes through a separate media channel; the portal only tells
// us it happened.
func (h *ApprovalHandler) RegisterPhotoUpload(c *gin.Context) {
	h.patchEstimate(c, h.usecase.RegisterPhotoUpload)
}

func (h *ApprovalHandler) SubmitPhotos(c *gin.Context) {
	h.patchEstimate(c, h.usecase.SubmitPhotos)
}

func (h *ApprovalHandler) RequestReview(c *gin.Context) {
	h.patchEstimate(c, h.usecase.RequestReview)
}

func (h *ApprovalHandler) AcceptEstimate(c *gin.Context) {
	h.patchEstimate(c, h.usecase.Accept)
}

func (h *ApprovalHandler) RejectEstimate(c *gin.Context) {
	h.patchEstimate(c, h.usecase.Reject)
}

func (h *ApprovalHandler) patchEstimate(
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

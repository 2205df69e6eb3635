package routes

import (
	"seguranca_xpto/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathEstimates = "/estimates"
	PathPayments  = "/payments"
)

func addPortalRoutes(
	rg *gin.RouterGroup,
	estimateHandler *handlers.EstimateHandler,
	approvalHandler *handlers.ApprovalHandler,
	paymentHandler *handlers.BillingPaymentHandler,
) {
	estimates := rg.Group(PathEstimates)
	{
		estimates.POST("", estimateHandler.CreateEstimate)
		estimates.GET("", estimateHandler.ListEstimates)
		estimates.GET("/:id", estimateHandler.GetEstimate)
		// Derived view consumed by both UI surfaces on every render.
		estimates.GET("/:id/status", estimateHandler.GetEstimateStatus)

		// Admin console actions.
		estimates.PATCH("/:id/send", estimateHandler.SendEstimate)
		estimates.PATCH("/:id/review/complete", estimateHandler.CompleteReview)
		estimates.PATCH("/:id/review/changes", estimateHandler.RequestChanges)
		estimates.PATCH("/:id/photos-required", estimateHandler.TogglePhotosRequired)
		estimates.PATCH("/:id/complete", estimateHandler.MarkCompleted)

		// Customer portal actions.
		estimates.POST("/:id/photos", approvalHandler.RegisterPhotoUpload)
		estimates.PATCH("/:id/photos/submit", approvalHandler.SubmitPhotos)
		estimates.PATCH("/:id/review/request", approvalHandler.RequestReview)
		estimates.PATCH("/:id/accept", approvalHandler.AcceptEstimate)
		estimates.PATCH("/:id/reject", approvalHandler.RejectEstimate)
	}

	payments := rg.Group(PathPayments)
	{
		payments.POST("/:estimate_id", paymentHandler.CreatePaymentByEstimateID)
		payments.GET("/:estimate_id", paymentHandler.GetPaymentByEstimateID)
	}
}

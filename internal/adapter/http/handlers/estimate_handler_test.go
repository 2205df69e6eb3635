package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seguranca_xpto/internal/adapter/http/handlers/mocks"
	"seguranca_xpto/internal/domain/entities"
	"seguranca_xpto/internal/domain/status"
	"seguranca_xpto/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestEstimateHandler_CreateEstimate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.POST("/v1/estimates", h.CreateEstimate)

		req := httptest.NewRequest(http.MethodPost, "/v1/estimates", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("blank customer id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.POST("/v1/estimates", h.CreateEstimate)

		req := httptest.NewRequest(http.MethodPost, "/v1/estimates", bytes.NewBufferString(`{"customer_id":"   ","labor":[{"name":"install","price":100}]}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("no billable items", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.POST("/v1/estimates", h.CreateEstimate)

		req := httptest.NewRequest(http.MethodPost, "/v1/estimates", bytes.NewBufferString(`{"customer_id":"cust-1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.POST("/v1/estimates", h.CreateEstimate)

		now := time.Now().UTC()
		uc.EXPECT().
			RequestQuote(gomock.Any(), "cust-1", "Av. Paulista, 1000", 1300.0).
			Return(entities.Estimate{ID: "est-1", CustomerID: "cust-1", Price: 1300, Workflow: status.WorkflowRequested, CreatedAt: now, UpdatedAt: now}, nil)

		body := `{"customer_id":"cust-1","site_address":"Av. Paulista, 1000","labor":[{"name":"install","price":300}],"equipment":[{"name":"camera","price":500,"quantity":2}]}`
		req := httptest.NewRequest(http.MethodPost, "/v1/estimates", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var resp map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["id"] != "est-1" || resp["display_status"] != "QUOTE_REQUESTED" {
			t.Fatalf("unexpected response body: %s", w.Body.String())
		}
	})
}

func TestEstimateHandler_GetEstimateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.GET("/v1/estimates/:id/status", h.GetEstimateStatus)

		sentAt := time.Now().UTC()
		uc.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{
			ID:             "est-1",
			CustomerID:     "cust-1",
			Workflow:       status.WorkflowSent,
			Quote:          status.QuoteSent,
			PhotosRequired: true,
			SentAt:         &sentAt,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/estimates/est-1/status", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["displayStatus"] != "AWAITING_PHOTOS" {
			t.Fatalf("unexpected displayStatus: %s", w.Body.String())
		}
		if resp["statusMessage"] == "" || resp["statusMessage"] == "Unknown status" {
			t.Fatalf("unexpected statusMessage: %s", w.Body.String())
		}
		customer, _ := resp["customerCapabilities"].(map[string]any)
		if customer["canUploadPhotos"] != true {
			t.Fatalf("expected canUploadPhotos true: %s", w.Body.String())
		}
		admin, _ := resp["adminCapabilities"].(map[string]any)
		if admin["canSendEstimate"] != false {
			t.Fatalf("expected canSendEstimate false: %s", w.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.GET("/v1/estimates/:id/status", h.GetEstimateStatus)

		uc.EXPECT().GetByID(gomock.Any(), "missing").Return(entities.Estimate{}, usecase.ErrEstimateNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/estimates/missing/status", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestEstimateHandler_ListEstimates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.GET("/v1/estimates", h.ListEstimates)

		uc.EXPECT().ListByCustomerID(gomock.Any(), "cust-1").Return([]entities.Estimate{
			{ID: "est-1", CustomerID: "cust-1"},
			{ID: "est-2", CustomerID: "cust-1"},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/estimates?customer_id=cust-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp []map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if len(resp) != 2 {
			t.Fatalf("expected 2 estimates, got %s", w.Body.String())
		}
	})

	t.Run("missing customer id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.GET("/v1/estimates", h.ListEstimates)

		uc.EXPECT().ListByCustomerID(gomock.Any(), "").Return(nil, usecase.ErrInvalidCustomerID)

		req := httptest.NewRequest(http.MethodGet, "/v1/estimates", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestEstimateHandler_SendEstimate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.PATCH("/v1/estimates/:id/send", h.SendEstimate)

		uc.EXPECT().
			SendEstimate(gomock.Any(), "est-1", true).
			Return(entities.Estimate{ID: "est-1", Workflow: status.WorkflowSent, Quote: status.QuoteSent, PhotosRequired: true}, nil)

		req := httptest.NewRequest(http.MethodPatch, "/v1/estimates/est-1/send", bytes.NewBufferString(`{"photos_required":true}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["display_status"] != "AWAITING_PHOTOS" {
			t.Fatalf("unexpected response body: %s", w.Body.String())
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.PATCH("/v1/estimates/:id/send", h.SendEstimate)

		req := httptest.NewRequest(http.MethodPatch, "/v1/estimates/est-1/send", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("already sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.PATCH("/v1/estimates/:id/send", h.SendEstimate)

		uc.EXPECT().SendEstimate(gomock.Any(), "est-1", false).Return(entities.Estimate{}, usecase.ErrActionNotAllowed)

		req := httptest.NewRequest(http.MethodPatch, "/v1/estimates/est-1/send", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestEstimateHandler_AdminPatches(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("complete review success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.PATCH("/v1/estimates/:id/review/complete", h.CompleteReview)

		uc.EXPECT().
			CompleteReview(gomock.Any(), "est-1").
			Return(entities.Estimate{ID: "est-1", Workflow: status.WorkflowReadyToAccept, AcceptanceEnabled: true}, nil)

		req := httptest.NewRequest(http.MethodPatch, "/v1/estimates/est-1/review/complete", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("request changes refused", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.PATCH("/v1/estimates/:id/review/changes", h.RequestChanges)

		uc.EXPECT().RequestChanges(gomock.Any(), "est-1").Return(entities.Estimate{}, usecase.ErrActionNotAllowed)

		req := httptest.NewRequest(http.MethodPatch, "/v1/estimates/est-1/review/changes", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("toggle photos required success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.PATCH("/v1/estimates/:id/photos-required", h.TogglePhotosRequired)

		uc.EXPECT().
			TogglePhotosRequired(gomock.Any(), "est-1").
			Return(entities.Estimate{ID: "est-1", Workflow: status.WorkflowSent, PhotosRequired: true}, nil)

		req := httptest.NewRequest(http.MethodPatch, "/v1/estimates/est-1/photos-required", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("mark completed internal error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIEstimateUseCase(ctrl)
		h := NewEstimateHandler(uc)

		r := gin.New()
		r.PATCH("/v1/estimates/:id/complete", h.MarkCompleted)

		uc.EXPECT().MarkCompleted(gomock.Any(), "est-1").Return(entities.Estimate{}, errors.New("dynamo down"))

		req := httptest.NewRequest(http.MethodPatch, "/v1/estimates/est-1/complete", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}

func TestMapEstimateError(t *testing.T) {
	if got := mapEstimateError(usecase.ErrInvalidCustomerID); got.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400")
	}
	if got := mapEstimateError(usecase.ErrInvalidEstimateID); got.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400")
	}
	if got := mapEstimateError(usecase.ErrInvalidEstimateVal); got.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400")
	}
	if got := mapEstimateError(usecase.ErrActionNotAllowed); got.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409")
	}
	if got := mapEstimateError(usecase.ErrEstimateNotFound); got.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404")
	}
	if got := mapEstimateError(errors.New("x")); got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500")
	}
}

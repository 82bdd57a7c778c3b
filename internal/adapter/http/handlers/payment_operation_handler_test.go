package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"billing_gateway/internal/adapter/http/handlers/mocks"
	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase"
	"billing_gateway/pkg"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func newOperationRouter(t *testing.T) (*gin.Engine, *mocks.MockIGatewayDispatcher) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	d := mocks.NewMockIGatewayDispatcher(ctrl)
	h := NewPaymentOperationHandler(d, nil)

	r := gin.New()
	r.POST("/v1/payments", h.ProcessPayment)
	r.POST("/v1/refunds", h.ProcessRefund)
	r.GET("/v1/payments/:billing_payment_id/operations", h.ListOperationsByPayment)
	r.GET("/v1/operations/:idempotency_key", h.GetOperation)
	r.POST("/v1/operations/:idempotency_key/reconcile", h.ReconcileOperation)
	return r, d
}

func doJSON(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func chargeBody(account, payment, method uuid.UUID, amount string) string {
	return fmt.Sprintf(`{"account_id":%q,"billing_payment_id":%q,"payment_method_id":%q,"amount":%q,"currency":"USD"}`,
		account, payment, method, amount)
}

func TestPaymentOperationHandler_ProcessPayment(t *testing.T) {
	account, payment, method := uuid.New(), uuid.New(), uuid.New()

	t.Run("invalid json", func(t *testing.T) {
		r, _ := newOperationRouter(t)
		w := doJSON(r, http.MethodPost, "/v1/payments", "{", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid uuid", func(t *testing.T) {
		r, _ := newOperationRouter(t)
		body := `{"account_id":"nope","billing_payment_id":"x","payment_method_id":"y","amount":"1","currency":"USD"}`
		w := doJSON(r, http.MethodPost, "/v1/payments", body, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success with call context", func(t *testing.T) {
		r, d := newOperationRouter(t)
		d.EXPECT().ProcessPayment(gomock.Any(), gomock.AssignableToTypeOf(usecase.OperationRequest{})).DoAndReturn(
			func(ctx context.Context, req usecase.OperationRequest) (entities.PaymentOperation, error) {
				cc := entities.CallContextFrom(ctx)
				if cc.AccountID != account || cc.Actor != "user-7" || cc.RequestID != "req-1" {
					t.Errorf("unexpected call context %+v", cc)
				}
				if req.MethodID != method || !req.Amount.Equal(decimal.NewFromInt(50)) {
					t.Errorf("unexpected request %+v", req)
				}
				return entities.PaymentOperation{
					IdempotencyKey:   "k-1",
					Kind:             entities.OperationKindCharge,
					AccountID:        account,
					BillingPaymentID: payment,
					Amount:           req.Amount,
					Currency:         "USD",
					Status:           entities.OperationStatusSucceeded,
					GatewayRecord:    entities.GatewayRecord{TransactionID: "pi_1"},
				}, nil
			})

		w := doJSON(r, http.MethodPost, "/v1/payments", chargeBody(account, payment, method, "50.00"),
			map[string]string{HeaderActorID: "user-7", HeaderRequestID: "req-1"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
		}
		var got map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &got)
		if got["status"] != "succeeded" || got["idempotency_key"] != "k-1" {
			t.Fatalf("unexpected body %v", got)
		}
	})

	t.Run("declined carries key and record", func(t *testing.T) {
		r, d := newOperationRouter(t)
		d.EXPECT().ProcessPayment(gomock.Any(), gomock.Any()).Return(
			entities.PaymentOperation{Status: entities.OperationStatusDeclined},
			&usecase.OperationError{
				Kind:           usecase.ErrorKindDeclined,
				IdempotencyKey: "k-2",
				Record:         entities.GatewayRecord{TransactionID: "pi_2", RawStatus: "requires_payment_method"},
			})

		w := doJSON(r, http.MethodPost, "/v1/payments", chargeBody(account, payment, method, "10"), nil)
		if w.Code != http.StatusPaymentRequired {
			t.Fatalf("expected 402, got %d", w.Code)
		}
		if w.Header().Get(HeaderRequestID) == "" {
			t.Fatalf("expected generated request id header")
		}
		var body pkg.HTTPError
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Code != "PAYMENT_DECLINED" || body.Details["idempotency_key"] != "k-2" || body.Details["gateway_record"] == nil {
			t.Fatalf("unexpected error body %+v", body)
		}
	})
}

func TestPaymentOperationHandler_ProcessRefund(t *testing.T) {
	r, d := newOperationRouter(t)
	original := uuid.New()
	d.EXPECT().ProcessRefund(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req usecase.OperationRequest) (entities.PaymentOperation, error) {
			if req.OriginalPaymentID != original {
				t.Errorf("unexpected original %s", req.OriginalPaymentID)
			}
			return entities.PaymentOperation{}, &usecase.OperationError{Kind: usecase.ErrorKindValidation, Err: usecase.ErrOriginalNotSettled}
		})

	body := fmt.Sprintf(`{"account_id":%q,"billing_payment_id":%q,"original_payment_id":%q,"amount":"5","currency":"USD"}`,
		uuid.New(), uuid.New(), original)
	w := doJSON(r, http.MethodPost, "/v1/refunds", body, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestPaymentOperationHandler_Operations(t *testing.T) {
	t.Run("list by payment", func(t *testing.T) {
		r, d := newOperationRouter(t)
		id := uuid.New()
		d.EXPECT().ListOperationsByPayment(gomock.Any(), id).Return([]entities.PaymentOperation{
			{IdempotencyKey: "a", Kind: entities.OperationKindCharge},
			{IdempotencyKey: "b", Kind: entities.OperationKindRefund},
		}, nil)
		w := doJSON(r, http.MethodGet, "/v1/payments/"+id.String()+"/operations", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var got []map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &got)
		if len(got) != 2 {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("get not found", func(t *testing.T) {
		r, d := newOperationRouter(t)
		d.EXPECT().GetOperation(gomock.Any(), "missing").Return(entities.PaymentOperation{}, usecase.ErrOperationNotFound)
		w := doJSON(r, http.MethodGet, "/v1/operations/missing", "", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("reconcile still in doubt", func(t *testing.T) {
		r, d := newOperationRouter(t)
		d.EXPECT().ReconcileOperation(gomock.Any(), "k").Return(
			entities.PaymentOperation{Status: entities.OperationStatusInDoubt},
			&usecase.OperationError{Kind: usecase.ErrorKindInDoubt, IdempotencyKey: "k"})
		w := doJSON(r, http.MethodPost, "/v1/operations/k/reconcile", "", nil)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("reconcile unsupported", func(t *testing.T) {
		r, d := newOperationRouter(t)
		d.EXPECT().ReconcileOperation(gomock.Any(), "k").Return(entities.PaymentOperation{}, fmt.Errorf("%w: mercadopago", usecase.ErrCapabilityUnsupported))
		w := doJSON(r, http.MethodPost, "/v1/operations/k/reconcile", "", nil)
		if w.Code != http.StatusNotImplemented {
			t.Fatalf("expected 501, got %d", w.Code)
		}
	})
}

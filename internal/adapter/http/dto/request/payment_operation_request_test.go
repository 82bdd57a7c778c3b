package request

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestChargeRequest_ToOperationRequest(t *testing.T) {
	account, payment, method := uuid.New(), uuid.New(), uuid.New()
	body := `{"account_id":"` + account.String() + `","billing_payment_id":"` + payment.String() +
		`","payment_method_id":"` + method.String() + `","amount":"50.00","currency":"usd","idempotency_key":"k-1"}`

	var r ChargeRequest
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	req, err := r.ToOperationRequest()
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if req.AccountID != account || req.BillingPaymentID != payment || req.MethodID != method {
		t.Fatalf("unexpected ids: %+v", req)
	}
	if req.Amount.String() != "50" || req.Currency != "usd" || req.IdempotencyKey != "k-1" {
		t.Fatalf("unexpected fields: %+v", req)
	}

	r.PaymentMethodID = "not-a-uuid"
	if _, err := r.ToOperationRequest(); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	r.PaymentMethodID = method.String()
	r.Amount = nil
	if _, err := r.ToOperationRequest(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestRefundRequest_ToOperationRequest(t *testing.T) {
	original := uuid.New()
	body := `{"account_id":"` + uuid.NewString() + `","billing_payment_id":"` + uuid.NewString() +
		`","original_payment_id":"` + original.String() + `","amount":12.5,"currency":"BRL"}`

	var r RefundRequest
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	req, err := r.ToOperationRequest()
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if req.OriginalPaymentID != original || req.Amount.String() != "12.5" {
		t.Fatalf("unexpected request: %+v", req)
	}

	r.OriginalPaymentID = uuid.Nil.String()
	if _, err := r.ToOperationRequest(); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID for nil uuid, got %v", err)
	}
}

func TestResetPaymentMethodsRequest_ToPaymentMethods(t *testing.T) {
	id := uuid.New()
	r := ResetPaymentMethodsRequest{Methods: []PaymentMethodItem{
		{BillingMethodID: id.String(), GatewayMethodToken: "pm_1", IsDefault: true, Properties: []PropertyRequest{{Key: "brand", Value: "visa"}}},
		{GatewayMethodToken: "pm_2"},
	}}
	methods, err := r.ToPaymentMethods()
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if methods[0].BillingMethodID != id || !methods[0].IsDefault || methods[0].Properties[0].Value != "visa" {
		t.Fatalf("unexpected first method: %+v", methods[0])
	}
	if methods[1].BillingMethodID != uuid.Nil || methods[1].Properties != nil {
		t.Fatalf("unexpected second method: %+v", methods[1])
	}

	r.Methods[0].BillingMethodID = "bad"
	if _, err := r.ToPaymentMethods(); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestAccountBindingRequest_ToAccountBinding(t *testing.T) {
	id := uuid.New()
	b, err := AccountBindingRequest{Gateway: "stripe", CustomerRef: "cus_1"}.ToAccountBinding(id.String())
	if err != nil || b.AccountID != id || b.Gateway != "stripe" || b.CustomerRef != "cus_1" {
		t.Fatalf("unexpected %v %+v", err, b)
	}
	if _, err := (AccountBindingRequest{}).ToAccountBinding("x"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

package request

import (
	"errors"
	"fmt"
	"strings"

	"billing_gateway/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidAmount = errors.New("invalid amount")
)

// ChargeRequest is the payload of POST /v1/payments.
//
// Amount accepts a JSON string ("50.00") or number; strings are preferred
// since they keep the exact decimal.
type ChargeRequest struct {
	AccountID        string           `json:"account_id" binding:"required"`
	BillingPaymentID string           `json:"billing_payment_id" binding:"required"`
	PaymentMethodID  string           `json:"payment_method_id" binding:"required"`
	Amount           *decimal.Decimal `json:"amount" binding:"required"`
	Currency         string           `json:"currency" binding:"required"`
	IdempotencyKey   string           `json:"idempotency_key"`
}

func (r ChargeRequest) ToOperationRequest() (usecase.OperationRequest, error) {
	accountID, err := ParseID("account_id", r.AccountID)
	if err != nil {
		return usecase.OperationRequest{}, err
	}
	paymentID, err := ParseID("billing_payment_id", r.BillingPaymentID)
	if err != nil {
		return usecase.OperationRequest{}, err
	}
	methodID, err := ParseID("payment_method_id", r.PaymentMethodID)
	if err != nil {
		return usecase.OperationRequest{}, err
	}
	if r.Amount == nil {
		return usecase.OperationRequest{}, ErrInvalidAmount
	}
	return usecase.OperationRequest{
		AccountID:        accountID,
		BillingPaymentID: paymentID,
		MethodID:         methodID,
		Amount:           *r.Amount,
		Currency:         r.Currency,
		IdempotencyKey:   r.IdempotencyKey,
	}, nil
}

// RefundRequest is the payload of POST /v1/refunds. BillingPaymentID names the
// refund itself; OriginalPaymentID the billing payment being refunded.
type RefundRequest struct {
	AccountID         string           `json:"account_id" binding:"required"`
	BillingPaymentID  string           `json:"billing_payment_id" binding:"required"`
	OriginalPaymentID string           `json:"original_payment_id" binding:"required"`
	Amount            *decimal.Decimal `json:"amount" binding:"required"`
	Currency          string           `json:"currency" binding:"required"`
	IdempotencyKey    string           `json:"idempotency_key"`
}

func (r RefundRequest) ToOperationRequest() (usecase.OperationRequest, error) {
	accountID, err := ParseID("account_id", r.AccountID)
	if err != nil {
		return usecase.OperationRequest{}, err
	}
	paymentID, err := ParseID("billing_payment_id", r.BillingPaymentID)
	if err != nil {
		return usecase.OperationRequest{}, err
	}
	originalID, err := ParseID("original_payment_id", r.OriginalPaymentID)
	if err != nil {
		return usecase.OperationRequest{}, err
	}
	if r.Amount == nil {
		return usecase.OperationRequest{}, ErrInvalidAmount
	}
	return usecase.OperationRequest{
		AccountID:         accountID,
		BillingPaymentID:  paymentID,
		OriginalPaymentID: originalID,
		Amount:            *r.Amount,
		Currency:          r.Currency,
		IdempotencyKey:    r.IdempotencyKey,
	}, nil
}

// ParseID parses a UUID path or body field.
func ParseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidID, field)
	}
	return id, nil
}

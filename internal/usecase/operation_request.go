package usecase

import (
	"strings"

	"billing_gateway/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxIdempotencyKeyLen = 255

// OperationRequest is a charge or refund submitted by the billing core.
//
// MethodID is required for charges. OriginalPaymentID is required for refunds
// and names the billing payment whose charge is being refunded. An empty
// IdempotencyKey is derived from the other fields.
type OperationRequest struct {
	AccountID         uuid.UUID
	BillingPaymentID  uuid.UUID
	MethodID          uuid.UUID
	OriginalPaymentID uuid.UUID
	Amount            decimal.Decimal
	Currency          string
	IdempotencyKey    string
}

// normalizeOperationRequest validates req and returns it with the currency
// upper-cased. Failures are validation errors and never reach a gateway.
func normalizeOperationRequest(kind entities.OperationKind, req OperationRequest) (OperationRequest, error) {
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	key := req.IdempotencyKey

	if req.AccountID == uuid.Nil {
		return req, validationError(key, nil, "account_id is required")
	}
	if req.BillingPaymentID == uuid.Nil {
		return req, validationError(key, nil, "billing_payment_id is required")
	}
	switch kind {
	case entities.OperationKindCharge:
		if req.MethodID == uuid.Nil {
			return req, validationError(key, nil, "payment_method_id is required")
		}
	case entities.OperationKindRefund:
		if req.OriginalPaymentID == uuid.Nil {
			return req, validationError(key, nil, "original_payment_id is required")
		}
		if req.OriginalPaymentID == req.BillingPaymentID {
			return req, validationError(key, nil, "refund must have its own billing_payment_id")
		}
		if !req.Amount.IsPositive() {
			return req, validationError(key, nil, "refund amount must be positive")
		}
	default:
		return req, validationError(key, nil, "unknown operation kind")
	}

	if req.Amount.IsNegative() {
		return req, validationError(key, nil, "amount must not be negative")
	}
	scale, err := entities.CurrencyScale(req.Currency)
	if err != nil {
		return req, validationError(key, err, "currency must be an ISO 4217 code")
	}
	if !req.Amount.Equal(req.Amount.Round(int32(scale))) {
		return req, validationError(key, nil, "amount has more decimal places than the currency allows")
	}

	if len(key) > maxIdempotencyKeyLen || strings.ContainsAny(key, " \t\r\n") {
		return req, validationError(key, nil, "idempotency_key is malformed")
	}
	return req, nil
}

// sameOperation reports whether a stored operation was created from req.
func sameOperation(stored entities.PaymentOperation, kind entities.OperationKind, req OperationRequest) bool {
	return stored.Kind == kind &&
		stored.AccountID == req.AccountID &&
		stored.BillingPaymentID == req.BillingPaymentID &&
		stored.MethodID == req.MethodID &&
		stored.OriginalPaymentID == req.OriginalPaymentID &&
		stored.Amount.Equal(req.Amount) &&
		stored.Currency == req.Currency
}

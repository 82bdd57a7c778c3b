package entities

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GatewayKind string

const (
	GatewayStripe      GatewayKind = "stripe"
	GatewayMercadoPago GatewayKind = "mercadopago"
	GatewaySandbox     GatewayKind = "sandbox"
)

// AccountBinding routes an account to the gateway that holds its instruments.
type AccountBinding struct {
	AccountID   uuid.UUID   `json:"account_id"`
	Gateway     GatewayKind `json:"gateway"`
	CustomerRef string      `json:"customer_ref"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (b AccountBinding) Exists() bool {
	return b.AccountID != uuid.Nil
}

// GatewayCapabilities declares which optional calls an adapter implements.
type GatewayCapabilities struct {
	NativeIdempotency bool `json:"native_idempotency"`
	PaymentLookup     bool `json:"payment_lookup"`
	LookupByKey       bool `json:"lookup_by_key"`
	RefreshMethods    bool `json:"refresh_methods"`
	MethodDetail      bool `json:"method_detail"`
	SetDefaultMethod  bool `json:"set_default_method"`
	DefaultTracking   bool `json:"default_tracking"`
}

// CallContext identifies who asked for an operation. Adapters forward it as
// gateway metadata and never interpret it.
type CallContext struct {
	AccountID uuid.UUID
	Actor     string
	RequestID string
}

type callContextKey struct{}

func WithCallContext(ctx context.Context, cc CallContext) context.Context {
	return context.WithValue(ctx, callContextKey{}, cc)
}

func CallContextFrom(ctx context.Context) CallContext {
	cc, _ := ctx.Value(callContextKey{}).(CallContext)
	return cc
}

// GatewayRequest is what the dispatcher hands to an adapter for a charge or refund.
type GatewayRequest struct {
	Kind             OperationKind
	IdempotencyKey   string
	BillingPaymentID uuid.UUID
	AccountID        uuid.UUID
	Amount           decimal.Decimal
	Currency         string
	CustomerRef      string
	MethodToken      string
	MethodProperties []Property

	// Refunds only.
	OriginalTransactionID string
}

// GatewayLookup asks the gateway for the state of an earlier request.
type GatewayLookup struct {
	Kind                  OperationKind
	IdempotencyKey        string
	TransactionID         string
	OriginalTransactionID string
	CustomerRef           string
}

// AddMethodRequest asks the gateway to attach an instrument to a customer.
type AddMethodRequest struct {
	BillingMethodID uuid.UUID
	CustomerRef     string
	SourceToken     string
	Properties      []Property
	SetDefault      bool
}

// RawStatus is the adapter's normalized reading of a gateway response.
type RawStatus string

const (
	RawStatusSettled  RawStatus = "settled"
	RawStatusDeclined RawStatus = "declined"
	RawStatusPending  RawStatus = "pending"
	RawStatusNotFound RawStatus = "not_found"
	RawStatusUnknown  RawStatus = "unknown"
)

// RawOutcome is an adapter response before classification.
type RawOutcome struct {
	Status RawStatus
	Record GatewayRecord
}

type GatewayErrorCode string

const (
	GatewayErrorDeclined            GatewayErrorCode = "declined"
	GatewayErrorInvalidCard         GatewayErrorCode = "invalid_card"
	GatewayErrorInvalidAccount      GatewayErrorCode = "invalid_account"
	GatewayErrorInvalidRequest      GatewayErrorCode = "invalid_request"
	GatewayErrorUnauthorized        GatewayErrorCode = "unauthorized"
	GatewayErrorIdempotencyConflict GatewayErrorCode = "idempotency_conflict"
	GatewayErrorRefundRejected      GatewayErrorCode = "refund_rejected"
	GatewayErrorRateLimited         GatewayErrorCode = "rate_limited"
	GatewayErrorLockTimeout         GatewayErrorCode = "lock_timeout"
	GatewayErrorKeyInUse            GatewayErrorCode = "key_in_use"
	GatewayErrorUnavailable         GatewayErrorCode = "unavailable"
	GatewayErrorUnknown             GatewayErrorCode = "unknown"
)

// GatewayError is a well-formed error response from a gateway.
type GatewayError struct {
	Code       GatewayErrorCode
	HTTPStatus int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway error code=%s status=%d", e.Code, e.HTTPStatus)
	}
	return fmt.Sprintf("gateway error code=%s status=%d: %s", e.Code, e.HTTPStatus, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// PreSendError marks a failure that provably happened before any byte of the
// request reached the gateway.
type PreSendError struct {
	Err error
}

func (e *PreSendError) Error() string { return "request not sent: " + e.Err.Error() }

func (e *PreSendError) Unwrap() error { return e.Err }

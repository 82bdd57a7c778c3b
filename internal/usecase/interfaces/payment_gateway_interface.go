package interfaces

import (
	"context"
	"errors"

	"billing_gateway/internal/domain/entities"
)

// ErrCapabilityUnsupported is returned by adapters for optional calls they do
// not implement.
var ErrCapabilityUnsupported = errors.New("gateway capability unsupported")

// IGatewayAdapter abstracts an external payment gateway (Stripe, Mercado Pago).
//
// Charge, Refund and LookupPayment return the gateway's answer as a RawOutcome;
// transport and gateway failures come back as the error. Adapters never retry.
// The caller identity travels in ctx (entities.CallContextFrom).
type IGatewayAdapter interface {
	Kind() entities.GatewayKind
	Capabilities() entities.GatewayCapabilities

	Charge(ctx context.Context, req entities.GatewayRequest) (entities.RawOutcome, error)
	Refund(ctx context.Context, req entities.GatewayRequest) (entities.RawOutcome, error)
	LookupPayment(ctx context.Context, req entities.GatewayLookup) (entities.RawOutcome, error)

	AddMethod(ctx context.Context, req entities.AddMethodRequest) (entities.GatewayMethod, error)
	DeleteMethod(ctx context.Context, customerRef, token string) error
	ListMethods(ctx context.Context, customerRef string) ([]entities.GatewayMethod, error)
	GetMethod(ctx context.Context, customerRef, token string) (entities.GatewayMethod, error)
	SetDefaultMethod(ctx context.Context, customerRef, token string) error
}

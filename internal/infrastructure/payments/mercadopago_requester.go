package payments

import (
	"context"
	"net/http"

	"github.com/mercadopago/sdk-go/pkg/requester"
)

const mercadoPagoIdempotencyHeader = "X-Idempotency-Key"

type idempotencyKeyCtx struct{}

func withIdempotencyKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, idempotencyKeyCtx{}, key)
}

// mercadoPagoRequester sends every request exactly once. When the request
// context carries an operation key it replaces the random idempotency header
// the SDK puts on writes.
type mercadoPagoRequester struct {
	next requester.Requester
}

var _ requester.Requester = (*mercadoPagoRequester)(nil)

func newMercadoPagoRequester(next requester.Requester) *mercadoPagoRequester {
	if next == nil {
		next = &http.Client{}
	}
	return &mercadoPagoRequester{next: next}
}

func (r *mercadoPagoRequester) Do(req *http.Request) (*http.Response, error) {
	if key, ok := req.Context().Value(idempotencyKeyCtx{}).(string); ok && req.Method != http.MethodGet {
		req.Header.Set(mercadoPagoIdempotencyHeader, key)
	}
	return r.next.Do(req)
}

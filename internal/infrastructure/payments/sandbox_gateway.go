package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sandbox method tokens with fixed behavior. Any other token settles.
const (
	SandboxTokenDecline     = "tok_decline"
	SandboxTokenPending     = "tok_pending"
	SandboxTokenUnavailable = "tok_unavailable"
)

// SandboxGateway is an in-memory gateway used in mock mode and local runs.
// Repeating a request with the same idempotency key replays the first answer.
type SandboxGateway struct {
	mu       sync.Mutex
	byKey    map[string]entities.RawOutcome
	byID     map[string]entities.RawOutcome
	methods  map[string][]entities.GatewayMethod
	defaults map[string]string
	now      func() time.Time
	log      *zap.Logger
}

var _ interfaces.IGatewayAdapter = (*SandboxGateway)(nil)

func NewSandboxGateway(log *zap.Logger) *SandboxGateway {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("[payment][sandbox] mock mode enabled")
	return &SandboxGateway{
		byKey:    map[string]entities.RawOutcome{},
		byID:     map[string]entities.RawOutcome{},
		methods:  map[string][]entities.GatewayMethod{},
		defaults: map[string]string{},
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

func (g *SandboxGateway) Kind() entities.GatewayKind { return entities.GatewaySandbox }

func (g *SandboxGateway) Capabilities() entities.GatewayCapabilities {
	return entities.GatewayCapabilities{
		NativeIdempotency: true,
		PaymentLookup:     true,
		LookupByKey:       true,
		RefreshMethods:    true,
		MethodDetail:      true,
		SetDefaultMethod:  true,
		DefaultTracking:   true,
	}
}

func (g *SandboxGateway) Charge(ctx context.Context, req entities.GatewayRequest) (entities.RawOutcome, error) {
	return g.record(ctx, "pi_", req)
}

func (g *SandboxGateway) Refund(ctx context.Context, req entities.GatewayRequest) (entities.RawOutcome, error) {
	g.mu.Lock()
	original, ok := g.byID[req.OriginalTransactionID]
	g.mu.Unlock()
	if !ok || original.Status != entities.RawStatusSettled {
		return entities.RawOutcome{}, &entities.GatewayError{
			Code:    entities.GatewayErrorRefundRejected,
			Message: fmt.Sprintf("no settled payment %q", req.OriginalTransactionID),
		}
	}
	return g.record(ctx, "re_", req)
}

func (g *SandboxGateway) record(ctx context.Context, prefix string, req entities.GatewayRequest) (entities.RawOutcome, error) {
	if err := ctx.Err(); err != nil {
		return entities.RawOutcome{}, &entities.PreSendError{Err: err}
	}
	if strings.HasPrefix(req.MethodToken, SandboxTokenUnavailable) {
		return entities.RawOutcome{}, &entities.GatewayError{Code: entities.GatewayErrorUnavailable, HTTPStatus: 503, Message: "sandbox unavailable"}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if prev, ok := g.byKey[req.IdempotencyKey]; ok {
		return prev, nil
	}

	status := entities.RawStatusSettled
	rawStatus := "succeeded"
	switch {
	case strings.HasPrefix(req.MethodToken, SandboxTokenDecline):
		status, rawStatus = entities.RawStatusDeclined, "declined"
	case strings.HasPrefix(req.MethodToken, SandboxTokenPending):
		status, rawStatus = entities.RawStatusPending, "processing"
	}

	id := prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	cc := entities.CallContextFrom(ctx)
	raw, _ := json.Marshal(map[string]any{
		"id":              id,
		"status":          rawStatus,
		"amount":          req.Amount.String(),
		"currency":        req.Currency,
		"idempotency_key": req.IdempotencyKey,
		"actor":           cc.Actor,
		"request_id":      cc.RequestID,
	})
	out := entities.RawOutcome{
		Status: status,
		Record: entities.GatewayRecord{
			TransactionID: id,
			Amount:        req.Amount,
			Currency:      req.Currency,
			RawStatus:     rawStatus,
			Timestamp:     g.now(),
			Raw:           raw,
		},
	}
	g.byKey[req.IdempotencyKey] = out
	g.byID[id] = out
	g.log.Debug("[payment][sandbox] recorded", zap.String("id", id), zap.String("status", rawStatus))
	return out, nil
}

func (g *SandboxGateway) LookupPayment(_ context.Context, req entities.GatewayLookup) (entities.RawOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if req.TransactionID != "" {
		if out, ok := g.byID[req.TransactionID]; ok {
			return out, nil
		}
	}
	if out, ok := g.byKey[req.IdempotencyKey]; ok {
		return out, nil
	}
	return entities.RawOutcome{Status: entities.RawStatusNotFound}, nil
}

func (g *SandboxGateway) AddMethod(_ context.Context, req entities.AddMethodRequest) (entities.GatewayMethod, error) {
	if req.SourceToken == "" {
		return entities.GatewayMethod{}, &entities.GatewayError{Code: entities.GatewayErrorInvalidCard, HTTPStatus: 400, Message: "source token required"}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, m := range g.methods[req.CustomerRef] {
		if m.Token == req.SourceToken {
			return g.withDefault(req.CustomerRef, m), nil
		}
	}
	m := entities.GatewayMethod{
		Token:           req.SourceToken,
		BillingMethodID: req.BillingMethodID,
		Properties:      append([]entities.Property(nil), req.Properties...),
	}
	g.methods[req.CustomerRef] = append(g.methods[req.CustomerRef], m)
	if req.SetDefault {
		g.defaults[req.CustomerRef] = req.SourceToken
	}
	return g.withDefault(req.CustomerRef, m), nil
}

func (g *SandboxGateway) DeleteMethod(_ context.Context, customerRef, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	list := g.methods[customerRef]
	for i, m := range list {
		if m.Token == token {
			g.methods[customerRef] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if g.defaults[customerRef] == token {
		delete(g.defaults, customerRef)
	}
	return nil
}

func (g *SandboxGateway) ListMethods(_ context.Context, customerRef string) ([]entities.GatewayMethod, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]entities.GatewayMethod, 0, len(g.methods[customerRef]))
	for _, m := range g.methods[customerRef] {
		out = append(out, g.withDefault(customerRef, m))
	}
	return out, nil
}

func (g *SandboxGateway) GetMethod(_ context.Context, customerRef, token string) (entities.GatewayMethod, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, m := range g.methods[customerRef] {
		if m.Token == token {
			return g.withDefault(customerRef, m), nil
		}
	}
	return entities.GatewayMethod{}, &entities.GatewayError{Code: entities.GatewayErrorInvalidRequest, HTTPStatus: 404, Message: "no such payment method"}
}

func (g *SandboxGateway) SetDefaultMethod(_ context.Context, customerRef, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, m := range g.methods[customerRef] {
		if m.Token == token {
			g.defaults[customerRef] = token
			return nil
		}
	}
	return &entities.GatewayError{Code: entities.GatewayErrorInvalidRequest, HTTPStatus: 404, Message: "no such payment method"}
}

func (g *SandboxGateway) withDefault(customerRef string, m entities.GatewayMethod) entities.GatewayMethod {
	m.IsDefault = g.defaults[customerRef] == m.Token
	return m
}

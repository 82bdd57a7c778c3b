package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"go.uber.org/zap"
)

var ErrMissingStripeSecretKey = errors.New("missing STRIPE_SECRET_KEY")

const (
	metaIdempotencyKey   = "idempotency_key"
	metaBillingPaymentID = "billing_payment_id"
	metaBillingMethodID  = "billing_method_id"
	metaAccountID        = "account_id"
	metaActor            = "actor"
	metaRequestID        = "request_id"
)

// StripeGateway implements IGatewayAdapter on top of PaymentIntents, Refunds
// and PaymentMethods. The SDK's own retries are disabled; the dispatcher owns
// retry decisions.
type StripeGateway struct {
	client *client.API
	log    *zap.Logger
}

var _ interfaces.IGatewayAdapter = (*StripeGateway)(nil)

func NewStripeGateway(secretKey string, log *zap.Logger) (*StripeGateway, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if secretKey == "" {
		log.Error("[payment][stripe] missing STRIPE_SECRET_KEY")
		return nil, ErrMissingStripeSecretKey
	}

	noRetry := &stripe.BackendConfig{MaxNetworkRetries: stripe.Int64(0)}
	sc := &client.API{}
	sc.Init(secretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, noRetry),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, noRetry),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, noRetry),
	})
	log.Info("[payment][stripe] client initialized")

	return &StripeGateway{client: sc, log: log}, nil
}

func (g *StripeGateway) Kind() entities.GatewayKind { return entities.GatewayStripe }

func (g *StripeGateway) Capabilities() entities.GatewayCapabilities {
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

func (g *StripeGateway) Charge(ctx context.Context, req entities.GatewayRequest) (entities.RawOutcome, error) {
	minor, err := entities.ToMinorUnits(req.Amount, req.Currency)
	if err != nil {
		return entities.RawOutcome{}, &entities.PreSendError{Err: err}
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(minor),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		Customer:      stripe.String(req.CustomerRef),
		PaymentMethod: stripe.String(req.MethodToken),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	addMetadata(ctx, &params.Params, req.IdempotencyKey, req.BillingPaymentID.String())

	pi, err := g.client.PaymentIntents.New(params)
	if err != nil {
		g.log.Warn("[payment][stripe] charge failed", zap.String("idempotency_key", req.IdempotencyKey), zap.Error(err))
		return entities.RawOutcome{}, mapStripeError(err)
	}
	g.log.Info("[payment][stripe] charge answered",
		zap.String("idempotency_key", req.IdempotencyKey),
		zap.String("payment_intent", pi.ID),
		zap.String("status", string(pi.Status)),
	)
	return paymentIntentOutcome(pi), nil
}

func (g *StripeGateway) Refund(ctx context.Context, req entities.GatewayRequest) (entities.RawOutcome, error) {
	minor, err := entities.ToMinorUnits(req.Amount, req.Currency)
	if err != nil {
		return entities.RawOutcome{}, &entities.PreSendError{Err: err}
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.OriginalTransactionID),
		Amount:        stripe.Int64(minor),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	addMetadata(ctx, &params.Params, req.IdempotencyKey, req.BillingPaymentID.String())

	r, err := g.client.Refunds.New(params)
	if err != nil {
		g.log.Warn("[payment][stripe] refund failed", zap.String("idempotency_key", req.IdempotencyKey), zap.Error(err))
		return entities.RawOutcome{}, mapStripeError(err)
	}
	g.log.Info("[payment][stripe] refund answered",
		zap.String("idempotency_key", req.IdempotencyKey),
		zap.String("refund", r.ID),
		zap.String("status", string(r.Status)),
	)
	return refundOutcome(r), nil
}

// LookupPayment fetches by transaction id when known, otherwise searches by the
// idempotency key stored in metadata.
func (g *StripeGateway) LookupPayment(ctx context.Context, req entities.GatewayLookup) (entities.RawOutcome, error) {
	if req.Kind == entities.OperationKindRefund {
		return g.lookupRefund(ctx, req)
	}

	if req.TransactionID != "" {
		params := &stripe.PaymentIntentParams{}
		params.Context = ctx
		pi, err := g.client.PaymentIntents.Get(req.TransactionID, params)
		if err != nil {
			if isResourceMissing(err) {
				return entities.RawOutcome{Status: entities.RawStatusNotFound}, nil
			}
			return entities.RawOutcome{}, mapStripeError(err)
		}
		return paymentIntentOutcome(pi), nil
	}

	params := &stripe.PaymentIntentSearchParams{}
	params.Context = ctx
	params.Query = fmt.Sprintf("metadata['%s']:'%s'", metaIdempotencyKey, escapeSearch(req.IdempotencyKey))
	it := g.client.PaymentIntents.Search(params)
	for it.Next() {
		return paymentIntentOutcome(it.PaymentIntent()), nil
	}
	if err := it.Err(); err != nil {
		return entities.RawOutcome{}, mapStripeError(err)
	}
	return entities.RawOutcome{Status: entities.RawStatusNotFound}, nil
}

func (g *StripeGateway) lookupRefund(ctx context.Context, req entities.GatewayLookup) (entities.RawOutcome, error) {
	if req.TransactionID != "" {
		params := &stripe.RefundParams{}
		params.Context = ctx
		r, err := g.client.Refunds.Get(req.TransactionID, params)
		if err != nil {
			if isResourceMissing(err) {
				return entities.RawOutcome{Status: entities.RawStatusNotFound}, nil
			}
			return entities.RawOutcome{}, mapStripeError(err)
		}
		return refundOutcome(r), nil
	}

	params := &stripe.RefundListParams{PaymentIntent: stripe.String(req.OriginalTransactionID)}
	params.Context = ctx
	it := g.client.Refunds.List(params)
	for it.Next() {
		r := it.Refund()
		if r.Metadata[metaIdempotencyKey] == req.IdempotencyKey {
			return refundOutcome(r), nil
		}
	}
	if err := it.Err(); err != nil {
		return entities.RawOutcome{}, mapStripeError(err)
	}
	return entities.RawOutcome{Status: entities.RawStatusNotFound}, nil
}

func (g *StripeGateway) AddMethod(ctx context.Context, req entities.AddMethodRequest) (entities.GatewayMethod, error) {
	attach := &stripe.PaymentMethodAttachParams{Customer: stripe.String(req.CustomerRef)}
	attach.Context = ctx
	pm, err := g.client.PaymentMethods.Attach(req.SourceToken, attach)
	if err != nil {
		return entities.GatewayMethod{}, mapStripeError(err)
	}

	update := &stripe.PaymentMethodParams{}
	update.Context = ctx
	update.AddMetadata(metaBillingMethodID, req.BillingMethodID.String())
	if updated, err := g.client.PaymentMethods.Update(pm.ID, update); err == nil {
		pm = updated
	} else {
		g.log.Warn("[payment][stripe] tagging payment method failed", zap.String("payment_method", pm.ID), zap.Error(err))
	}

	if req.SetDefault {
		if err := g.SetDefaultMethod(ctx, req.CustomerRef, pm.ID); err != nil {
			return entities.GatewayMethod{}, err
		}
	}

	m := toGatewayMethod(pm, "")
	m.IsDefault = req.SetDefault
	return m, nil
}

func (g *StripeGateway) DeleteMethod(ctx context.Context, _ string, token string) error {
	params := &stripe.PaymentMethodDetachParams{}
	params.Context = ctx
	if _, err := g.client.PaymentMethods.Detach(token, params); err != nil {
		if isResourceMissing(err) {
			return nil
		}
		return mapStripeError(err)
	}
	return nil
}

func (g *StripeGateway) ListMethods(ctx context.Context, customerRef string) ([]entities.GatewayMethod, error) {
	defaultToken, err := g.defaultMethod(ctx, customerRef)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentMethodListParams{Customer: stripe.String(customerRef)}
	params.Context = ctx
	it := g.client.PaymentMethods.List(params)
	out := []entities.GatewayMethod{}
	for it.Next() {
		out = append(out, toGatewayMethod(it.PaymentMethod(), defaultToken))
	}
	if err := it.Err(); err != nil {
		return nil, mapStripeError(err)
	}
	return out, nil
}

func (g *StripeGateway) GetMethod(ctx context.Context, customerRef, token string) (entities.GatewayMethod, error) {
	params := &stripe.PaymentMethodParams{}
	params.Context = ctx
	pm, err := g.client.PaymentMethods.Get(token, params)
	if err != nil {
		return entities.GatewayMethod{}, mapStripeError(err)
	}
	defaultToken, err := g.defaultMethod(ctx, customerRef)
	if err != nil {
		return entities.GatewayMethod{}, err
	}
	return toGatewayMethod(pm, defaultToken), nil
}

func (g *StripeGateway) SetDefaultMethod(ctx context.Context, customerRef, token string) error {
	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(token),
		},
	}
	params.Context = ctx
	if _, err := g.client.Customers.Update(customerRef, params); err != nil {
		return mapStripeError(err)
	}
	return nil
}

func (g *StripeGateway) defaultMethod(ctx context.Context, customerRef string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	c, err := g.client.Customers.Get(customerRef, params)
	if err != nil {
		return "", mapStripeError(err)
	}
	if c.InvoiceSettings != nil && c.InvoiceSettings.DefaultPaymentMethod != nil {
		return c.InvoiceSettings.DefaultPaymentMethod.ID, nil
	}
	return "", nil
}

func addMetadata(ctx context.Context, p *stripe.Params, idempotencyKey, billingPaymentID string) {
	cc := entities.CallContextFrom(ctx)
	p.AddMetadata(metaIdempotencyKey, idempotencyKey)
	p.AddMetadata(metaBillingPaymentID, billingPaymentID)
	if cc.AccountID != uuid.Nil {
		p.AddMetadata(metaAccountID, cc.AccountID.String())
	}
	if cc.Actor != "" {
		p.AddMetadata(metaActor, cc.Actor)
	}
	if cc.RequestID != "" {
		p.AddMetadata(metaRequestID, cc.RequestID)
	}
}

func paymentIntentOutcome(pi *stripe.PaymentIntent) entities.RawOutcome {
	status := entities.RawStatusPending
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		status = entities.RawStatusSettled
	case stripe.PaymentIntentStatusCanceled:
		status = entities.RawStatusDeclined
	}
	cur := strings.ToUpper(string(pi.Currency))
	raw, _ := json.Marshal(pi)
	return entities.RawOutcome{
		Status: status,
		Record: entities.GatewayRecord{
			TransactionID: pi.ID,
			Amount:        entities.FromMinorUnits(pi.Amount, cur),
			Currency:      cur,
			RawStatus:     string(pi.Status),
			Timestamp:     time.Unix(pi.Created, 0).UTC(),
			Raw:           raw,
		},
	}
}

func refundOutcome(r *stripe.Refund) entities.RawOutcome {
	status := entities.RawStatusPending
	switch r.Status {
	case stripe.RefundStatusSucceeded:
		status = entities.RawStatusSettled
	case stripe.RefundStatusFailed, stripe.RefundStatusCanceled:
		status = entities.RawStatusDeclined
	}
	cur := strings.ToUpper(string(r.Currency))
	raw, _ := json.Marshal(r)
	return entities.RawOutcome{
		Status: status,
		Record: entities.GatewayRecord{
			TransactionID: r.ID,
			Amount:        entities.FromMinorUnits(r.Amount, cur),
			Currency:      cur,
			RawStatus:     string(r.Status),
			Timestamp:     time.Unix(r.Created, 0).UTC(),
			Raw:           raw,
		},
	}
}

func toGatewayMethod(pm *stripe.PaymentMethod, defaultToken string) entities.GatewayMethod {
	m := entities.GatewayMethod{
		Token:     pm.ID,
		IsDefault: defaultToken != "" && pm.ID == defaultToken,
		Properties: []entities.Property{
			{Key: "type", Value: string(pm.Type)},
		},
	}
	if id, ok := pm.Metadata[metaBillingMethodID]; ok {
		m.BillingMethodID = parseMethodID(id)
	}
	if pm.Card != nil {
		m.Properties = append(m.Properties,
			entities.Property{Key: "brand", Value: string(pm.Card.Brand)},
			entities.Property{Key: "last4", Value: pm.Card.Last4},
			entities.Property{Key: "exp_month", Value: fmt.Sprintf("%02d", pm.Card.ExpMonth)},
			entities.Property{Key: "exp_year", Value: fmt.Sprintf("%d", pm.Card.ExpYear)},
		)
	}
	return m
}

// mapStripeError converts SDK errors into GatewayError. Errors that never got
// an HTTP response are checked for pre-send failures.
func mapStripeError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return wrapTransportError(err)
	}

	code := entities.GatewayErrorUnknown
	switch {
	case string(se.Code) == "card_declined" || string(se.Code) == "balance_insufficient" || string(se.DeclineCode) == "insufficient_funds":
		code = entities.GatewayErrorDeclined
	case string(se.Code) == "expired_card" || string(se.Code) == "incorrect_cvc" || string(se.Code) == "incorrect_number" || string(se.Code) == "invalid_cvc":
		code = entities.GatewayErrorInvalidCard
	case se.HTTPStatusCode == http.StatusTooManyRequests || string(se.Code) == "rate_limit":
		code = entities.GatewayErrorRateLimited
	case string(se.Code) == "lock_timeout":
		code = entities.GatewayErrorLockTimeout
	case string(se.Code) == "idempotency_key_in_use":
		code = entities.GatewayErrorKeyInUse
	case string(se.Type) == "idempotency_error":
		code = entities.GatewayErrorIdempotencyConflict
	case se.HTTPStatusCode == http.StatusUnauthorized || se.HTTPStatusCode == http.StatusForbidden:
		code = entities.GatewayErrorUnauthorized
	case string(se.Code) == "charge_already_refunded" || string(se.Code) == "amount_too_large":
		code = entities.GatewayErrorRefundRejected
	case string(se.Code) == "resource_missing" && se.Param == "customer":
		code = entities.GatewayErrorInvalidAccount
	case se.HTTPStatusCode >= http.StatusInternalServerError:
		code = entities.GatewayErrorUnavailable
	case se.HTTPStatusCode >= http.StatusBadRequest:
		code = entities.GatewayErrorInvalidRequest
	}
	return &entities.GatewayError{Code: code, HTTPStatus: se.HTTPStatusCode, Message: se.Msg, Err: err}
}

func isResourceMissing(err error) bool {
	var se *stripe.Error
	return errors.As(err, &se) && string(se.Code) == "resource_missing"
}

func parseMethodID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func escapeSearch(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/customercard"
	"github.com/mercadopago/sdk-go/pkg/mperror"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/refund"
	"github.com/mercadopago/sdk-go/pkg/requester"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")

// MercadoPagoGateway implements IGatewayAdapter with the Mercado Pago SDK.
//
// Charges and refunds send the operation key as X-Idempotency-Key. Payments
// also carry it as external_reference so they can be found by key. Cards
// carry no metadata and the API has no default card.
type MercadoPagoGateway struct {
	payments payment.Client
	refunds  refund.Client
	cards    customercard.Client
	currency string
	log      *zap.Logger
}

var _ interfaces.IGatewayAdapter = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken, currency string, log *zap.Logger) (*MercadoPagoGateway, error) {
	return newMercadoPagoGateway(accessToken, currency, &http.Client{}, log)
}

func newMercadoPagoGateway(accessToken, currency string, transport requester.Requester, log *zap.Logger) (*MercadoPagoGateway, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if accessToken == "" {
		log.Error("[payment][mercadopago] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	// The SDK's default requester retries 5xx on its own; the dispatcher owns retries.
	cfg, err := config.New(accessToken, config.WithHTTPClient(newMercadoPagoRequester(transport)))
	if err != nil {
		log.Error("[payment][mercadopago] failed creating sdk config", zap.Error(err))
		return nil, err
	}
	log.Info("[payment][mercadopago] client initialized", zap.String("currency", currency))

	return &MercadoPagoGateway{
		payments: payment.NewClient(cfg),
		refunds:  refund.NewClient(cfg),
		cards:    customercard.NewClient(cfg),
		currency: strings.ToUpper(currency),
		log:      log,
	}, nil
}

func (g *MercadoPagoGateway) Kind() entities.GatewayKind { return entities.GatewayMercadoPago }

func (g *MercadoPagoGateway) Capabilities() entities.GatewayCapabilities {
	return entities.GatewayCapabilities{
		NativeIdempotency: true,
		PaymentLookup:     true,
		LookupByKey:       true,
		RefreshMethods:    true,
		MethodDetail:      true,
	}
}

func (g *MercadoPagoGateway) Charge(ctx context.Context, req entities.GatewayRequest) (entities.RawOutcome, error) {
	if err := g.checkCurrency(req.Currency); err != nil {
		return entities.RawOutcome{}, err
	}

	cc := entities.CallContextFrom(ctx)
	request := payment.Request{
		TransactionAmount: req.Amount.InexactFloat64(),
		PaymentMethodID:   propertyValue(req.MethodProperties, "payment_method_id"),
		Token:             req.MethodToken,
		Installments:      1,
		ExternalReference: req.IdempotencyKey,
		Payer: &payment.PayerRequest{
			Type: "customer",
			ID:   req.CustomerRef,
		},
		Metadata: map[string]any{
			metaIdempotencyKey:   req.IdempotencyKey,
			metaBillingPaymentID: req.BillingPaymentID.String(),
			metaAccountID:        req.AccountID.String(),
			metaActor:            cc.Actor,
			metaRequestID:        cc.RequestID,
		},
	}

	resp, err := g.payments.Create(withIdempotencyKey(ctx, req.IdempotencyKey), request)
	if err != nil {
		g.log.Warn("[payment][mercadopago] sdk create failed", zap.String("idempotency_key", req.IdempotencyKey), zap.Error(err))
		return entities.RawOutcome{}, mapMercadoPagoError(err)
	}
	g.log.Info("[payment][mercadopago] create answered",
		zap.String("idempotency_key", req.IdempotencyKey),
		zap.Int("provider_payment_id", resp.ID),
		zap.String("provider_status", resp.Status),
	)
	return paymentOutcome(resp, g.currency), nil
}

func (g *MercadoPagoGateway) Refund(ctx context.Context, req entities.GatewayRequest) (entities.RawOutcome, error) {
	if err := g.checkCurrency(req.Currency); err != nil {
		return entities.RawOutcome{}, err
	}
	paymentID, err := strconv.Atoi(req.OriginalTransactionID)
	if err != nil {
		return entities.RawOutcome{}, &entities.GatewayError{
			Code:    entities.GatewayErrorInvalidRequest,
			Message: fmt.Sprintf("invalid mercado pago payment id %q", req.OriginalTransactionID),
		}
	}

	resp, err := g.refunds.CreatePartialRefund(withIdempotencyKey(ctx, req.IdempotencyKey), paymentID, req.Amount.InexactFloat64())
	if err != nil {
		g.log.Warn("[payment][mercadopago] sdk refund failed", zap.String("idempotency_key", req.IdempotencyKey), zap.Error(err))
		return entities.RawOutcome{}, mapMercadoPagoError(err)
	}
	g.log.Info("[payment][mercadopago] refund answered",
		zap.String("idempotency_key", req.IdempotencyKey),
		zap.Int("provider_refund_id", resp.ID),
		zap.String("provider_status", resp.Status),
	)
	return refundResponseOutcome(resp, g.currency), nil
}

// LookupPayment reads a payment by id or by external_reference. Refunds can
// only be read by id since they carry no reference.
func (g *MercadoPagoGateway) LookupPayment(ctx context.Context, req entities.GatewayLookup) (entities.RawOutcome, error) {
	if req.Kind == entities.OperationKindRefund {
		if req.TransactionID == "" {
			return entities.RawOutcome{}, fmt.Errorf("%w: mercado pago refunds cannot be found by key", interfaces.ErrCapabilityUnsupported)
		}
		paymentID, err1 := strconv.Atoi(req.OriginalTransactionID)
		refundID, err2 := strconv.Atoi(req.TransactionID)
		if err1 != nil || err2 != nil {
			return entities.RawOutcome{Status: entities.RawStatusNotFound}, nil
		}
		resp, err := g.refunds.Get(ctx, paymentID, refundID)
		if err != nil {
			if statusOf(err) == http.StatusNotFound {
				return entities.RawOutcome{Status: entities.RawStatusNotFound}, nil
			}
			return entities.RawOutcome{}, mapMercadoPagoError(err)
		}
		return refundResponseOutcome(resp, g.currency), nil
	}

	if req.TransactionID != "" {
		id, err := strconv.Atoi(req.TransactionID)
		if err != nil {
			return entities.RawOutcome{Status: entities.RawStatusNotFound}, nil
		}
		resp, err := g.payments.Get(ctx, id)
		if err != nil {
			if statusOf(err) == http.StatusNotFound {
				return entities.RawOutcome{Status: entities.RawStatusNotFound}, nil
			}
			return entities.RawOutcome{}, mapMercadoPagoError(err)
		}
		return paymentOutcome(resp, g.currency), nil
	}

	resp, err := g.payments.Search(ctx, payment.SearchRequest{
		Filters: map[string]string{"external_reference": req.IdempotencyKey},
	})
	if err != nil {
		return entities.RawOutcome{}, mapMercadoPagoError(err)
	}
	if len(resp.Results) == 0 {
		return entities.RawOutcome{Status: entities.RawStatusNotFound}, nil
	}
	return paymentOutcome(&resp.Results[0], g.currency), nil
}

func (g *MercadoPagoGateway) AddMethod(ctx context.Context, req entities.AddMethodRequest) (entities.GatewayMethod, error) {
	resp, err := g.cards.Create(ctx, req.CustomerRef, customercard.Request{Token: req.SourceToken})
	if err != nil {
		return entities.GatewayMethod{}, mapMercadoPagoError(err)
	}
	return cardToGatewayMethod(resp), nil
}

func (g *MercadoPagoGateway) DeleteMethod(ctx context.Context, customerRef, token string) error {
	if _, err := g.cards.Delete(ctx, customerRef, token); err != nil {
		if statusOf(err) == http.StatusNotFound {
			return nil
		}
		return mapMercadoPagoError(err)
	}
	return nil
}

func (g *MercadoPagoGateway) ListMethods(ctx context.Context, customerRef string) ([]entities.GatewayMethod, error) {
	cards, err := g.cards.List(ctx, customerRef)
	if err != nil {
		return nil, mapMercadoPagoError(err)
	}
	out := make([]entities.GatewayMethod, 0, len(cards))
	for i := range cards {
		out = append(out, cardToGatewayMethod(&cards[i]))
	}
	return out, nil
}

func (g *MercadoPagoGateway) GetMethod(ctx context.Context, customerRef, token string) (entities.GatewayMethod, error) {
	resp, err := g.cards.Get(ctx, customerRef, token)
	if err != nil {
		return entities.GatewayMethod{}, mapMercadoPagoError(err)
	}
	return cardToGatewayMethod(resp), nil
}

func (g *MercadoPagoGateway) SetDefaultMethod(context.Context, string, string) error {
	return interfaces.ErrCapabilityUnsupported
}

func (g *MercadoPagoGateway) checkCurrency(cur string) error {
	if strings.ToUpper(cur) != g.currency {
		return &entities.GatewayError{
			Code:    entities.GatewayErrorInvalidRequest,
			Message: fmt.Sprintf("mercado pago account settles in %s, got %s", g.currency, cur),
		}
	}
	return nil
}

func paymentOutcome(resp *payment.Response, currency string) entities.RawOutcome {
	status := entities.RawStatusPending
	switch resp.Status {
	case "approved", "refunded", "charged_back":
		status = entities.RawStatusSettled
	case "rejected", "cancelled":
		status = entities.RawStatusDeclined
	}
	raw, _ := json.Marshal(resp)
	return entities.RawOutcome{
		Status: status,
		Record: entities.GatewayRecord{
			TransactionID: strconv.Itoa(resp.ID),
			Amount:        decimal.NewFromFloat(resp.TransactionAmount),
			Currency:      currency,
			RawStatus:     resp.Status,
			Timestamp:     time.Now().UTC(),
			Raw:           raw,
		},
	}
}

func refundResponseOutcome(resp *refund.Response, currency string) entities.RawOutcome {
	status := entities.RawStatusPending
	switch resp.Status {
	case "approved":
		status = entities.RawStatusSettled
	case "rejected", "cancelled":
		status = entities.RawStatusDeclined
	}
	raw, _ := json.Marshal(resp)
	return entities.RawOutcome{
		Status: status,
		Record: entities.GatewayRecord{
			TransactionID: strconv.Itoa(resp.ID),
			Amount:        decimal.NewFromFloat(resp.Amount),
			Currency:      currency,
			RawStatus:     resp.Status,
			Timestamp:     time.Now().UTC(),
			Raw:           raw,
		},
	}
}

func cardToGatewayMethod(c *customercard.Response) entities.GatewayMethod {
	return entities.GatewayMethod{
		Token: c.ID,
		Properties: []entities.Property{
			{Key: "payment_method_id", Value: c.PaymentMethod.ID},
			{Key: "last4", Value: c.LastFourDigits},
			{Key: "exp_month", Value: fmt.Sprintf("%02d", c.ExpirationMonth)},
			{Key: "exp_year", Value: fmt.Sprintf("%d", c.ExpirationYear)},
		},
	}
}

func propertyValue(props []entities.Property, key string) string {
	for _, p := range props {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// statusOf returns the HTTP status of an API error answer, or 0 when the
// request failed below HTTP.
func statusOf(err error) int {
	var respErr *mperror.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}

func mapMercadoPagoError(err error) error {
	status := statusOf(err)
	if status == 0 {
		return wrapTransportError(err)
	}

	code := entities.GatewayErrorUnknown
	switch {
	case status == http.StatusTooManyRequests:
		code = entities.GatewayErrorRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		code = entities.GatewayErrorUnauthorized
	case status == http.StatusNotFound:
		code = entities.GatewayErrorInvalidAccount
	case status >= http.StatusInternalServerError:
		code = entities.GatewayErrorUnavailable
	case status >= http.StatusBadRequest:
		code = entities.GatewayErrorInvalidRequest
	}
	return &entities.GatewayError{Code: code, HTTPStatus: status, Message: err.Error(), Err: err}
}

package request

import (
	"strings"

	"billing_gateway/internal/domain/entities"

	"github.com/google/uuid"
)

type PropertyRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// AddPaymentMethodRequest attaches a gateway source token (a Stripe pm_/tok_
// id, a Mercado Pago card token) to the account under the billing core's id.
type AddPaymentMethodRequest struct {
	BillingMethodID string            `json:"billing_method_id" binding:"required"`
	Token           string            `json:"token" binding:"required"`
	Properties      []PropertyRequest `json:"properties"`
	SetDefault      bool              `json:"set_default"`
}

func (r AddPaymentMethodRequest) ToNewPaymentMethod() (entities.NewPaymentMethod, error) {
	id, err := ParseID("billing_method_id", r.BillingMethodID)
	if err != nil {
		return entities.NewPaymentMethod{}, err
	}
	return entities.NewPaymentMethod{
		BillingMethodID: id,
		SourceToken:     r.Token,
		Properties:      toProperties(r.Properties),
		SetDefault:      r.SetDefault,
	}, nil
}

type PaymentMethodItem struct {
	BillingMethodID    string            `json:"billing_method_id"`
	GatewayMethodToken string            `json:"gateway_method_token" binding:"required"`
	IsDefault          bool              `json:"is_default"`
	Properties         []PropertyRequest `json:"properties"`
}

// ResetPaymentMethodsRequest replaces the whole cached list of an account.
type ResetPaymentMethodsRequest struct {
	Methods []PaymentMethodItem `json:"methods" binding:"dive"`
}

func (r ResetPaymentMethodsRequest) ToPaymentMethods() ([]entities.PaymentMethod, error) {
	out := make([]entities.PaymentMethod, 0, len(r.Methods))
	for _, m := range r.Methods {
		var id uuid.UUID
		if strings.TrimSpace(m.BillingMethodID) != "" {
			parsed, err := ParseID("billing_method_id", m.BillingMethodID)
			if err != nil {
				return nil, err
			}
			id = parsed
		}
		out = append(out, entities.PaymentMethod{
			BillingMethodID:    id,
			GatewayMethodToken: m.GatewayMethodToken,
			IsDefault:          m.IsDefault,
			Properties:         toProperties(m.Properties),
		})
	}
	return out, nil
}

func toProperties(in []PropertyRequest) []entities.Property {
	if len(in) == 0 {
		return nil
	}
	out := make([]entities.Property, 0, len(in))
	for _, p := range in {
		out = append(out, entities.Property{Key: p.Key, Value: p.Value})
	}
	return out
}

package response

import (
	"time"

	"billing_gateway/internal/domain/entities"
)

type PropertyResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type PaymentMethodResponse struct {
	BillingMethodID    string             `json:"billing_method_id"`
	GatewayMethodToken string             `json:"gateway_method_token"`
	IsDefault          bool               `json:"is_default"`
	Properties         []PropertyResponse `json:"properties"`
	LastSyncedAt       time.Time          `json:"last_synced_at"`
	NewlySynced        bool               `json:"newly_synced"`
}

func FromPaymentMethod(m entities.PaymentMethod) PaymentMethodResponse {
	props := make([]PropertyResponse, 0, len(m.Properties))
	for _, p := range m.Properties {
		props = append(props, PropertyResponse{Key: p.Key, Value: p.Value})
	}
	return PaymentMethodResponse{
		BillingMethodID:    m.BillingMethodID.String(),
		GatewayMethodToken: m.GatewayMethodToken,
		IsDefault:          m.IsDefault,
		Properties:         props,
		LastSyncedAt:       m.LastSyncedAt,
		NewlySynced:        m.NewlySynced,
	}
}

func FromPaymentMethods(methods []entities.PaymentMethod) []PaymentMethodResponse {
	out := make([]PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		out = append(out, FromPaymentMethod(m))
	}
	return out
}

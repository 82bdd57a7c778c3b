package entities

import (
	"time"

	"github.com/google/uuid"
)

// Property is one gateway-reported attribute of a payment method. Order is kept
// as the gateway reports it.
type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PaymentMethod is the local cache entry of a stored instrument.
//
// GatewayMethodToken never changes once set; a new token is a new method.
type PaymentMethod struct {
	BillingMethodID    uuid.UUID  `json:"billing_method_id"`
	GatewayMethodToken string     `json:"gateway_method_token"`
	IsDefault          bool       `json:"is_default"`
	Properties         []Property `json:"properties,omitempty"`
	LastSyncedAt       time.Time  `json:"last_synced_at"`
	NewlySynced        bool       `json:"newly_synced"`
	Removed            bool       `json:"removed"`
	RemovedAt          *time.Time `json:"removed_at,omitempty"`
}

// PaymentMethodSet is the whole cached method list of an account. It is stored
// and replaced as a single unit.
type PaymentMethodSet struct {
	AccountID uuid.UUID       `json:"account_id"`
	Version   int64           `json:"version"`
	Methods   []PaymentMethod `json:"methods"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Active returns the non-removed methods in insertion order.
func (s PaymentMethodSet) Active() []PaymentMethod {
	out := make([]PaymentMethod, 0, len(s.Methods))
	for _, m := range s.Methods {
		if !m.Removed {
			out = append(out, m)
		}
	}
	return out
}

// Find returns the index of the method with the given id, or -1.
func (s PaymentMethodSet) Find(methodID uuid.UUID) int {
	for i, m := range s.Methods {
		if m.BillingMethodID == methodID {
			return i
		}
	}
	return -1
}

// GatewayMethod is a payment method as the gateway reports it.
type GatewayMethod struct {
	Token           string
	BillingMethodID uuid.UUID
	IsDefault       bool
	Properties      []Property
}

// NewPaymentMethod is the input for attaching an instrument to an account.
// BillingMethodID is assigned by the billing core.
type NewPaymentMethod struct {
	BillingMethodID uuid.UUID
	SourceToken     string
	Properties      []Property
	SetDefault      bool
}

package response

import (
	"time"

	"billing_gateway/internal/domain/entities"
)

type AccountBindingResponse struct {
	AccountID   string    `json:"account_id"`
	Gateway     string    `json:"gateway"`
	CustomerRef string    `json:"customer_ref"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromAccountBinding(b entities.AccountBinding) AccountBindingResponse {
	return AccountBindingResponse{
		AccountID:   b.AccountID.String(),
		Gateway:     string(b.Gateway),
		CustomerRef: b.CustomerRef,
		UpdatedAt:   b.UpdatedAt,
	}
}

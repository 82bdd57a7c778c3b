package request

import "billing_gateway/internal/domain/entities"

type AccountBindingRequest struct {
	Gateway     string `json:"gateway" binding:"required"`
	CustomerRef string `json:"customer_ref" binding:"required"`
}

func (r AccountBindingRequest) ToAccountBinding(accountID string) (entities.AccountBinding, error) {
	id, err := ParseID("account_id", accountID)
	if err != nil {
		return entities.AccountBinding{}, err
	}
	return entities.AccountBinding{
		AccountID:   id,
		Gateway:     entities.GatewayKind(r.Gateway),
		CustomerRef: r.CustomerRef,
	}, nil
}

package interfaces

import (
	"context"
	"errors"

	"billing_gateway/internal/domain/entities"

	"github.com/google/uuid"
)

var ErrVersionConflict = errors.New("payment method set version conflict")

// IPaymentMethodRepository stores an account's method list as one unit.
//
// Replace writes the whole set only if the stored version still equals
// expectedVersion (0 means "no set stored yet") and returns it with the new version.
type IPaymentMethodRepository interface {
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (entities.PaymentMethodSet, error)
	Replace(ctx context.Context, set entities.PaymentMethodSet, expectedVersion int64) (entities.PaymentMethodSet, error)
}

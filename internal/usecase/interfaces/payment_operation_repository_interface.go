package interfaces

import (
	"context"
	"errors"
	"time"

	"billing_gateway/internal/domain/entities"

	"github.com/google/uuid"
)

// ErrStaleOperation is returned when a conditional save finds the operation in
// another status than expected.
var ErrStaleOperation = errors.New("payment operation changed concurrently")

// IPaymentOperationRepository persists the operation log keyed by idempotency key.
//
// GetByIdempotencyKey returns a zero value (op.Exists() == false) when missing.
type IPaymentOperationRepository interface {
	Create(ctx context.Context, op entities.PaymentOperation) (entities.PaymentOperation, bool, error)
	GetByIdempotencyKey(ctx context.Context, key string) (entities.PaymentOperation, error)
	Save(ctx context.Context, op entities.PaymentOperation, expected entities.OperationStatus) (entities.PaymentOperation, error)
	ListByBillingPaymentID(ctx context.Context, billingPaymentID uuid.UUID) ([]entities.PaymentOperation, error)
	ListRefundsByOriginalPaymentID(ctx context.Context, originalPaymentID uuid.UUID) ([]entities.PaymentOperation, error)
	ListByStatus(ctx context.Context, status entities.OperationStatus, updatedBefore time.Time, limit int) ([]entities.PaymentOperation, error)
}

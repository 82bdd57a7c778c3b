package interfaces

import (
	"context"

	"billing_gateway/internal/domain/entities"
)

// IOutcomePublisher announces operations that reached a new status.
type IOutcomePublisher interface {
	Publish(ctx context.Context, op entities.PaymentOperation) error
}

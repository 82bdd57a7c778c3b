package interfaces

import (
	"context"

	"billing_gateway/internal/domain/entities"

	"github.com/google/uuid"
)

type IAccountBindingRepository interface {
	Get(ctx context.Context, accountID uuid.UUID) (entities.AccountBinding, error)
	Put(ctx context.Context, b entities.AccountBinding) (entities.AccountBinding, error)
}

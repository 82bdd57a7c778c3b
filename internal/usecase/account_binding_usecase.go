package usecase

import (
	"context"
	"strings"
	"time"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IAccountBindingUseCase manages which gateway serves an account.
type IAccountBindingUseCase interface {
	Bind(ctx context.Context, b entities.AccountBinding) (entities.AccountBinding, error)
	Get(ctx context.Context, accountID uuid.UUID) (entities.AccountBinding, error)
}

type AccountBindingUseCase struct {
	repo     interfaces.IAccountBindingRepository
	gateways GatewayRegistry
	log      *zap.Logger
}

var _ IAccountBindingUseCase = (*AccountBindingUseCase)(nil)

func NewAccountBindingUseCase(repo interfaces.IAccountBindingRepository, gateways GatewayRegistry, log *zap.Logger) *AccountBindingUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountBindingUseCase{repo: repo, gateways: gateways, log: log}
}

func (u *AccountBindingUseCase) Bind(ctx context.Context, b entities.AccountBinding) (entities.AccountBinding, error) {
	if b.AccountID == uuid.Nil {
		return entities.AccountBinding{}, validationError("", nil, "account_id is required")
	}
	b.Gateway = entities.GatewayKind(strings.ToLower(strings.TrimSpace(string(b.Gateway))))
	if _, ok := u.gateways[b.Gateway]; !ok {
		return entities.AccountBinding{}, validationError("", ErrGatewayNotRegistered, string(b.Gateway))
	}
	b.CustomerRef = strings.TrimSpace(b.CustomerRef)
	if b.CustomerRef == "" {
		return entities.AccountBinding{}, validationError("", nil, "customer_ref is required")
	}
	b.UpdatedAt = time.Now().UTC()

	saved, err := u.repo.Put(ctx, b)
	if err != nil {
		return entities.AccountBinding{}, err
	}
	u.log.Info("[payment][binding] account bound",
		zap.String("account_id", saved.AccountID.String()),
		zap.String("gateway", string(saved.Gateway)),
	)
	return saved, nil
}

func (u *AccountBindingUseCase) Get(ctx context.Context, accountID uuid.UUID) (entities.AccountBinding, error) {
	if accountID == uuid.Nil {
		return entities.AccountBinding{}, validationError("", nil, "account_id is required")
	}
	b, err := u.repo.Get(ctx, accountID)
	if err != nil {
		return entities.AccountBinding{}, err
	}
	if !b.Exists() {
		return entities.AccountBinding{}, ErrAccountNotBound
	}
	return b, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IPaymentMethodReconciler keeps the local payment method cache in line with the gateway.
type IPaymentMethodReconciler interface {
	ListMethods(ctx context.Context, accountID uuid.UUID, refreshFromGateway bool) ([]entities.PaymentMethod, error)
	ResetMethods(ctx context.Context, accountID uuid.UUID, methods []entities.PaymentMethod) ([]entities.PaymentMethod, error)
	AddMethod(ctx context.Context, accountID uuid.UUID, in entities.NewPaymentMethod) (entities.PaymentMethod, error)
	DeleteMethod(ctx context.Context, accountID, methodID uuid.UUID) error
	SetDefaultMethod(ctx context.Context, accountID, methodID uuid.UUID) (entities.PaymentMethod, error)
	GetMethodDetail(ctx context.Context, accountID, methodID uuid.UUID, refreshFromGateway bool) (entities.PaymentMethod, error)
}

type PaymentMethodReconciler struct {
	repo    interfaces.IPaymentMethodRepository
	gateway IGatewayCaller
	locks   *accountLocks
	log     *zap.Logger
	now     func() time.Time
}

var _ IPaymentMethodReconciler = (*PaymentMethodReconciler)(nil)

func NewPaymentMethodReconciler(repo interfaces.IPaymentMethodRepository, gateway IGatewayCaller, log *zap.Logger) *PaymentMethodReconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentMethodReconciler{
		repo:    repo,
		gateway: gateway,
		locks:   newAccountLocks(),
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ListMethods returns the account's active methods in insertion order. With
// refreshFromGateway it first merges the gateway's list into the cache.
func (r *PaymentMethodReconciler) ListMethods(ctx context.Context, accountID uuid.UUID, refreshFromGateway bool) ([]entities.PaymentMethod, error) {
	if accountID == uuid.Nil {
		return nil, validationError("", nil, "account_id is required")
	}
	if !refreshFromGateway {
		set, err := r.repo.GetByAccountID(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return set.Active(), nil
	}

	unlock := r.locks.Lock(accountID)
	defer unlock()
	log := r.log.With(zap.String("account_id", accountID.String()))

	binding, adapter, err := r.gateway.ResolveGateway(ctx, accountID)
	if err != nil {
		return nil, err
	}
	caps := adapter.Capabilities()
	if !caps.RefreshMethods {
		return nil, fmt.Errorf("%w: %s cannot list payment methods", ErrCapabilityUnsupported, binding.Gateway)
	}

	var remote []entities.GatewayMethod
	err = r.gateway.CallGateway(ctx, binding.Gateway, "list_methods", func(ctx context.Context) error {
		var lerr error
		remote, lerr = adapter.ListMethods(ctx, binding.CustomerRef)
		return lerr
	})
	if err != nil {
		log.Info("[payment][methods] refresh aborted", zap.Error(err))
		return nil, err
	}

	set, err := r.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	merged, err := mergeGatewayMethods(set.Methods, remote, caps.DefaultTracking, r.now())
	if err != nil {
		log.Error("[payment][methods] refresh integrity violation", zap.Error(err))
		return nil, err
	}
	set.AccountID = accountID
	set.Methods = merged
	set.UpdatedAt = r.now()
	saved, err := r.repo.Replace(ctx, set, set.Version)
	if err != nil {
		return nil, fmt.Errorf("persist refreshed payment methods: %w", err)
	}
	log.Info("[payment][methods] refreshed", zap.Int("remote", len(remote)), zap.Int("active", len(saved.Active())))
	return saved.Active(), nil
}

// ResetMethods replaces the whole cached set in one write. Methods without a
// billing id keep the id of a cached method with the same token, or get a new one.
func (r *PaymentMethodReconciler) ResetMethods(ctx context.Context, accountID uuid.UUID, methods []entities.PaymentMethod) ([]entities.PaymentMethod, error) {
	if accountID == uuid.Nil {
		return nil, validationError("", nil, "account_id is required")
	}
	if err := validateMethodList(methods); err != nil {
		return nil, err
	}

	unlock := r.locks.Lock(accountID)
	defer unlock()

	current, err := r.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	idsByToken := make(map[string]uuid.UUID, len(current.Methods))
	for _, m := range current.Methods {
		idsByToken[m.GatewayMethodToken] = m.BillingMethodID
	}

	now := r.now()
	next := make([]entities.PaymentMethod, 0, len(methods))
	for _, m := range methods {
		m.GatewayMethodToken = strings.TrimSpace(m.GatewayMethodToken)
		if m.BillingMethodID == uuid.Nil {
			if id, ok := idsByToken[m.GatewayMethodToken]; ok {
				m.BillingMethodID = id
			} else {
				m.BillingMethodID = uuid.New()
			}
		}
		m.Removed = false
		m.RemovedAt = nil
		m.NewlySynced = false
		m.LastSyncedAt = now
		next = append(next, m)
	}
	if err := uniqueIDs(next); err != nil {
		return nil, err
	}

	saved, err := r.repo.Replace(ctx, entities.PaymentMethodSet{AccountID: accountID, Methods: next, UpdatedAt: now}, current.Version)
	if err != nil {
		return nil, fmt.Errorf("replace payment methods: %w", err)
	}
	r.log.Info("[payment][methods] reset", zap.String("account_id", accountID.String()), zap.Int("count", len(next)))
	return saved.Active(), nil
}

func (r *PaymentMethodReconciler) AddMethod(ctx context.Context, accountID uuid.UUID, in entities.NewPaymentMethod) (entities.PaymentMethod, error) {
	if accountID == uuid.Nil {
		return entities.PaymentMethod{}, validationError("", nil, "account_id is required")
	}
	if in.BillingMethodID == uuid.Nil {
		return entities.PaymentMethod{}, validationError("", nil, "billing_method_id is required")
	}
	in.SourceToken = strings.TrimSpace(in.SourceToken)
	if in.SourceToken == "" {
		return entities.PaymentMethod{}, validationError("", nil, "token is required")
	}

	unlock := r.locks.Lock(accountID)
	defer unlock()

	// Billing method ids are never reused, including soft-removed ones.
	cached, err := r.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return entities.PaymentMethod{}, err
	}
	if cached.Find(in.BillingMethodID) >= 0 {
		return entities.PaymentMethod{}, validationError("", ErrMethodAlreadyExists, in.BillingMethodID.String())
	}

	binding, adapter, err := r.gateway.ResolveGateway(ctx, accountID)
	if err != nil {
		return entities.PaymentMethod{}, err
	}

	var gm entities.GatewayMethod
	err = r.gateway.CallGateway(ctx, binding.Gateway, "add_method", func(ctx context.Context) error {
		var aerr error
		gm, aerr = adapter.AddMethod(ctx, entities.AddMethodRequest{
			BillingMethodID: in.BillingMethodID,
			CustomerRef:     binding.CustomerRef,
			SourceToken:     in.SourceToken,
			Properties:      in.Properties,
			SetDefault:      in.SetDefault,
		})
		return aerr
	})
	if err != nil {
		return entities.PaymentMethod{}, err
	}
	if gm.Token == "" {
		return entities.PaymentMethod{}, &OperationError{Kind: ErrorKindInDoubt, Reason: "gateway returned no method token"}
	}

	set, err := r.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return entities.PaymentMethod{}, err
	}
	now := r.now()
	props := gm.Properties
	if len(props) == 0 {
		props = in.Properties
	}

	idx := findToken(set.Methods, gm.Token)
	switch {
	case idx < 0:
		set.Methods = append(set.Methods, entities.PaymentMethod{BillingMethodID: in.BillingMethodID, GatewayMethodToken: gm.Token})
		idx = len(set.Methods) - 1
	case set.Methods[idx].BillingMethodID != in.BillingMethodID:
		// The gateway deduplicated the instrument onto one we already cache.
		return entities.PaymentMethod{}, validationError("", ErrMethodAlreadyExists,
			fmt.Sprintf("gateway token %s is cached as %s", gm.Token, set.Methods[idx].BillingMethodID))
	}
	m := &set.Methods[idx]
	m.Properties = props
	m.LastSyncedAt = now
	m.Removed = false
	m.RemovedAt = nil
	if in.SetDefault {
		makeDefault(set.Methods, idx)
	}
	added := set.Methods[idx]

	set.AccountID = accountID
	set.UpdatedAt = now
	if _, err := r.repo.Replace(ctx, set, set.Version); err != nil {
		return entities.PaymentMethod{}, fmt.Errorf("persist added payment method: %w", err)
	}
	r.log.Info("[payment][methods] added",
		zap.String("account_id", accountID.String()),
		zap.String("billing_method_id", added.BillingMethodID.String()),
		zap.Bool("default", added.IsDefault),
	)
	return added, nil
}

// DeleteMethod detaches the method at the gateway and soft-removes it locally.
func (r *PaymentMethodReconciler) DeleteMethod(ctx context.Context, accountID, methodID uuid.UUID) error {
	if accountID == uuid.Nil || methodID == uuid.Nil {
		return validationError("", nil, "account_id and method_id are required")
	}

	unlock := r.locks.Lock(accountID)
	defer unlock()

	set, idx, err := r.activeMethod(ctx, accountID, methodID)
	if err != nil {
		return err
	}
	binding, adapter, err := r.gateway.ResolveGateway(ctx, accountID)
	if err != nil {
		return err
	}
	token := set.Methods[idx].GatewayMethodToken
	err = r.gateway.CallGateway(ctx, binding.Gateway, "delete_method", func(ctx context.Context) error {
		return adapter.DeleteMethod(ctx, binding.CustomerRef, token)
	})
	if err != nil {
		return err
	}

	now := r.now()
	m := &set.Methods[idx]
	m.Removed = true
	m.RemovedAt = &now
	m.IsDefault = false
	set.UpdatedAt = now
	if _, err := r.repo.Replace(ctx, set, set.Version); err != nil {
		return fmt.Errorf("persist deleted payment method: %w", err)
	}
	r.log.Info("[payment][methods] deleted", zap.String("account_id", accountID.String()), zap.String("billing_method_id", methodID.String()))
	return nil
}

// SetDefaultMethod makes one method the default. Gateways that do not track
// defaults keep the flag locally only.
func (r *PaymentMethodReconciler) SetDefaultMethod(ctx context.Context, accountID, methodID uuid.UUID) (entities.PaymentMethod, error) {
	if accountID == uuid.Nil || methodID == uuid.Nil {
		return entities.PaymentMethod{}, validationError("", nil, "account_id and method_id are required")
	}

	unlock := r.locks.Lock(accountID)
	defer unlock()

	set, idx, err := r.activeMethod(ctx, accountID, methodID)
	if err != nil {
		return entities.PaymentMethod{}, err
	}
	binding, adapter, err := r.gateway.ResolveGateway(ctx, accountID)
	if err != nil {
		return entities.PaymentMethod{}, err
	}

	caps := adapter.Capabilities()
	switch {
	case caps.SetDefaultMethod:
		token := set.Methods[idx].GatewayMethodToken
		err = r.gateway.CallGateway(ctx, binding.Gateway, "set_default_method", func(ctx context.Context) error {
			return adapter.SetDefaultMethod(ctx, binding.CustomerRef, token)
		})
		if err != nil {
			return entities.PaymentMethod{}, err
		}
	case caps.DefaultTracking:
		// The next refresh would overwrite a local-only default.
		return entities.PaymentMethod{}, fmt.Errorf("%w: %s cannot change the default method", ErrCapabilityUnsupported, binding.Gateway)
	}

	makeDefault(set.Methods, idx)
	set.UpdatedAt = r.now()
	if _, err := r.repo.Replace(ctx, set, set.Version); err != nil {
		return entities.PaymentMethod{}, fmt.Errorf("persist default payment method: %w", err)
	}
	return set.Methods[idx], nil
}

func (r *PaymentMethodReconciler) GetMethodDetail(ctx context.Context, accountID, methodID uuid.UUID, refreshFromGateway bool) (entities.PaymentMethod, error) {
	if accountID == uuid.Nil || methodID == uuid.Nil {
		return entities.PaymentMethod{}, validationError("", nil, "account_id and method_id are required")
	}
	if !refreshFromGateway {
		set, idx, err := r.activeMethod(ctx, accountID, methodID)
		if err != nil {
			return entities.PaymentMethod{}, err
		}
		return set.Methods[idx], nil
	}

	unlock := r.locks.Lock(accountID)
	defer unlock()

	set, idx, err := r.activeMethod(ctx, accountID, methodID)
	if err != nil {
		return entities.PaymentMethod{}, err
	}
	binding, adapter, err := r.gateway.ResolveGateway(ctx, accountID)
	if err != nil {
		return entities.PaymentMethod{}, err
	}
	caps := adapter.Capabilities()
	if !caps.MethodDetail {
		return entities.PaymentMethod{}, fmt.Errorf("%w: %s cannot fetch method details", ErrCapabilityUnsupported, binding.Gateway)
	}

	token := set.Methods[idx].GatewayMethodToken
	var gm entities.GatewayMethod
	err = r.gateway.CallGateway(ctx, binding.Gateway, "get_method", func(ctx context.Context) error {
		var gerr error
		gm, gerr = adapter.GetMethod(ctx, binding.CustomerRef, token)
		return gerr
	})
	if err != nil {
		return entities.PaymentMethod{}, err
	}
	if gm.Token != "" && gm.Token != token {
		return entities.PaymentMethod{}, fmt.Errorf("%w: billing_method_id=%s", ErrMethodIntegrity, methodID)
	}

	m := &set.Methods[idx]
	m.Properties = gm.Properties
	m.LastSyncedAt = r.now()
	if caps.DefaultTracking {
		if gm.IsDefault {
			makeDefault(set.Methods, idx)
		} else {
			m.IsDefault = false
		}
	}
	set.UpdatedAt = r.now()
	if _, err := r.repo.Replace(ctx, set, set.Version); err != nil {
		return entities.PaymentMethod{}, fmt.Errorf("persist payment method detail: %w", err)
	}
	return set.Methods[idx], nil
}

func (r *PaymentMethodReconciler) activeMethod(ctx context.Context, accountID, methodID uuid.UUID) (entities.PaymentMethodSet, int, error) {
	set, err := r.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return entities.PaymentMethodSet{}, -1, err
	}
	idx := set.Find(methodID)
	if idx < 0 || set.Methods[idx].Removed {
		return entities.PaymentMethodSet{}, -1, validationError("", ErrMethodNotFound, methodID.String())
	}
	return set, idx, nil
}

// mergeGatewayMethods reconciles the cached list with the gateway's list.
//
// Gateway entries are matched by billing id when the gateway reports one, then
// by token. Matched entries take the gateway's properties; unmatched gateway
// entries are appended as newly synced; cached entries the gateway no longer
// has are soft-removed. Without default tracking the local default flags stay.
func mergeGatewayMethods(local []entities.PaymentMethod, remote []entities.GatewayMethod, defaultTracking bool, now time.Time) ([]entities.PaymentMethod, error) {
	out := make([]entities.PaymentMethod, len(local))
	copy(out, local)

	byID := make(map[uuid.UUID]int, len(out))
	byToken := make(map[string]int, len(out))
	for i, m := range out {
		byID[m.BillingMethodID] = i
		byToken[m.GatewayMethodToken] = i
	}
	seen := make(map[int]bool, len(remote))

	for _, gm := range remote {
		idx := -1
		if gm.BillingMethodID != uuid.Nil {
			if i, ok := byID[gm.BillingMethodID]; ok {
				if out[i].GatewayMethodToken != gm.Token {
					return nil, fmt.Errorf("%w: billing_method_id=%s", ErrMethodIntegrity, gm.BillingMethodID)
				}
				idx = i
			}
		}
		if idx < 0 {
			if i, ok := byToken[gm.Token]; ok {
				idx = i
			}
		}
		if idx >= 0 && seen[idx] {
			continue
		}

		if idx < 0 {
			id := gm.BillingMethodID
			if id == uuid.Nil {
				id = uuid.New()
			}
			out = append(out, entities.PaymentMethod{
				BillingMethodID:    id,
				GatewayMethodToken: gm.Token,
				NewlySynced:        true,
			})
			idx = len(out) - 1
			byID[id] = idx
			byToken[gm.Token] = idx
		}

		m := &out[idx]
		m.Properties = gm.Properties
		m.LastSyncedAt = now
		m.Removed = false
		m.RemovedAt = nil
		if defaultTracking {
			m.IsDefault = gm.IsDefault
		}
		seen[idx] = true
	}

	for i := range out {
		if seen[i] || out[i].Removed {
			continue
		}
		out[i].Removed = true
		out[i].RemovedAt = &now
		out[i].IsDefault = false
	}

	normalizeDefault(out)
	return out, nil
}

// normalizeDefault keeps the first active default and clears the rest.
func normalizeDefault(methods []entities.PaymentMethod) {
	found := false
	for i := range methods {
		if !methods[i].IsDefault {
			continue
		}
		if found || methods[i].Removed {
			methods[i].IsDefault = false
			continue
		}
		found = true
	}
}

func makeDefault(methods []entities.PaymentMethod, idx int) {
	for i := range methods {
		methods[i].IsDefault = i == idx
	}
}

func findToken(methods []entities.PaymentMethod, token string) int {
	for i, m := range methods {
		if m.GatewayMethodToken == token {
			return i
		}
	}
	return -1
}

func validateMethodList(methods []entities.PaymentMethod) error {
	tokens := make(map[string]bool, len(methods))
	defaults := 0
	for _, m := range methods {
		token := strings.TrimSpace(m.GatewayMethodToken)
		if token == "" {
			return validationError("", nil, "gateway_method_token is required")
		}
		if tokens[token] {
			return validationError("", nil, "duplicate gateway_method_token "+token)
		}
		tokens[token] = true
		if m.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return validationError("", nil, "at most one payment method can be the default")
	}
	return nil
}

func uniqueIDs(methods []entities.PaymentMethod) error {
	ids := make(map[uuid.UUID]bool, len(methods))
	for _, m := range methods {
		if ids[m.BillingMethodID] {
			return validationError("", nil, "duplicate billing_method_id "+m.BillingMethodID.String())
		}
		ids[m.BillingMethodID] = true
	}
	return nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// IGatewayDispatcher executes charges and refunds against the account's gateway
// with exactly-once effect per idempotency key.
type IGatewayDispatcher interface {
	ProcessPayment(ctx context.Context, req OperationRequest) (entities.PaymentOperation, error)
	ProcessRefund(ctx context.Context, req OperationRequest) (entities.PaymentOperation, error)
	GetOperation(ctx context.Context, idempotencyKey string) (entities.PaymentOperation, error)
	ListOperationsByPayment(ctx context.Context, billingPaymentID uuid.UUID) ([]entities.PaymentOperation, error)
	ReconcileOperation(ctx context.Context, idempotencyKey string) (entities.PaymentOperation, error)
}

// IGatewayCaller is the part of the dispatcher the method reconciler needs.
type IGatewayCaller interface {
	ResolveGateway(ctx context.Context, accountID uuid.UUID) (entities.AccountBinding, interfaces.IGatewayAdapter, error)
	CallGateway(ctx context.Context, gateway entities.GatewayKind, action string, fn func(context.Context) error) error
}

// GatewayRegistry maps a gateway kind to its adapter. It is built once at startup.
type GatewayRegistry map[entities.GatewayKind]interfaces.IGatewayAdapter

type DispatcherConfig struct {
	MaxRetries        int
	BackoffBase       time.Duration
	BackoffMax        time.Duration
	CallTimeout       time.Duration
	RateLimit         float64
	RateBurst         int
	LockTTL           time.Duration
	NotFoundGrace     time.Duration
	StalePendingAfter time.Duration
}

type DispatcherDeps struct {
	Operations interfaces.IPaymentOperationRepository
	Methods    interfaces.IPaymentMethodRepository
	Bindings   interfaces.IAccountBindingRepository
	Gateways   GatewayRegistry
	Locker     interfaces.IKeyLocker
	Publisher  interfaces.IOutcomePublisher
}

type GatewayDispatcher struct {
	ops       interfaces.IPaymentOperationRepository
	methods   interfaces.IPaymentMethodRepository
	bindings  interfaces.IAccountBindingRepository
	gateways  GatewayRegistry
	locker    interfaces.IKeyLocker
	publisher interfaces.IOutcomePublisher
	limiters  map[entities.GatewayKind]*rate.Limiter
	cfg       DispatcherConfig
	log       *zap.Logger
	sf        singleflight.Group
	now       func() time.Time
}

var _ IGatewayDispatcher = (*GatewayDispatcher)(nil)
var _ IGatewayCaller = (*GatewayDispatcher)(nil)

func NewGatewayDispatcher(deps DispatcherDeps, cfg DispatcherConfig, log *zap.Logger) *GatewayDispatcher {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 3 * time.Minute
	}
	if cfg.RateBurst < 1 {
		cfg.RateBurst = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	locker := deps.Locker
	if locker == nil {
		locker = newProcessLocker()
	}

	limiters := make(map[entities.GatewayKind]*rate.Limiter, len(deps.Gateways))
	if cfg.RateLimit > 0 {
		for kind := range deps.Gateways {
			limiters[kind] = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
		}
	}

	return &GatewayDispatcher{
		ops:       deps.Operations,
		methods:   deps.Methods,
		bindings:  deps.Bindings,
		gateways:  deps.Gateways,
		locker:    locker,
		publisher: deps.Publisher,
		limiters:  limiters,
		cfg:       cfg,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (d *GatewayDispatcher) ProcessPayment(ctx context.Context, req OperationRequest) (entities.PaymentOperation, error) {
	return d.execute(ctx, entities.OperationKindCharge, req)
}

func (d *GatewayDispatcher) ProcessRefund(ctx context.Context, req OperationRequest) (entities.PaymentOperation, error) {
	return d.execute(ctx, entities.OperationKindRefund, req)
}

func (d *GatewayDispatcher) execute(ctx context.Context, kind entities.OperationKind, req OperationRequest) (entities.PaymentOperation, error) {
	log := d.log.With(
		zap.String("kind", string(kind)),
		zap.String("account_id", req.AccountID.String()),
		zap.String("billing_payment_id", req.BillingPaymentID.String()),
	)
	log.Info("[payment][dispatcher] execute start")

	req, err := normalizeOperationRequest(kind, req)
	if err != nil {
		log.Info("[payment][dispatcher] request rejected", zap.Error(err))
		return entities.PaymentOperation{}, err
	}

	key := req.IdempotencyKey
	if key == "" {
		key = DeriveIdempotencyKey(req.AccountID, req.BillingPaymentID, kind, req.Amount, req.Currency)
	}
	log = log.With(zap.String("idempotency_key", key))

	// The holder keeps going when its caller gives up; joiners share its result.
	detached := context.WithoutCancel(ctx)
	ch := d.sf.DoChan(key, func() (interface{}, error) {
		return d.runOnce(detached, log, key, kind, req)
	})

	select {
	case <-ctx.Done():
		log.Info("[payment][dispatcher] caller stopped waiting", zap.Error(ctx.Err()))
		return entities.PaymentOperation{}, ctx.Err()
	case res := <-ch:
		op, _ := res.Val.(entities.PaymentOperation)
		// A joiner may have reused the key for a different request.
		if res.Shared && op.Exists() && !sameOperation(op, kind, req) {
			log.Info("[payment][dispatcher] joined attempt belongs to another request")
			return entities.PaymentOperation{}, validationError(key, ErrIdempotencyKeyReused, "")
		}
		log.Info("[payment][dispatcher] execute done",
			zap.String("status", string(op.Status)),
			zap.Bool("shared", res.Shared),
			zap.Error(res.Err),
		)
		return op, res.Err
	}
}

func (d *GatewayDispatcher) runOnce(
	ctx context.Context,
	log *zap.Logger,
	key string,
	kind entities.OperationKind,
	req OperationRequest,
) (entities.PaymentOperation, error) {
	unlock, acquired, err := d.locker.TryLock(ctx, key, d.cfg.LockTTL)
	if err != nil {
		return entities.PaymentOperation{}, fmt.Errorf("acquire idempotency lock: %w", err)
	}
	if !acquired {
		log.Info("[payment][dispatcher] key held by another replica")
		stored, err := d.ops.GetByIdempotencyKey(ctx, key)
		if err != nil {
			log.Warn("[payment][dispatcher] could not load operation held elsewhere", zap.Error(err))
		}
		return stored, fmt.Errorf("%w: idempotency_key=%s", ErrOperationInFlight, key)
	}
	defer d.release(unlock, key)

	stored, err := d.ops.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return entities.PaymentOperation{}, fmt.Errorf("load payment operation: %w", err)
	}
	if stored.Exists() {
		if !sameOperation(stored, kind, req) {
			return stored, validationError(key, ErrIdempotencyKeyReused, "")
		}
		log.Info("[payment][dispatcher] replaying stored operation", zap.String("status", string(stored.Status)))
		return d.replay(ctx, log, stored)
	}

	// Only a new key is checked against the live binding and method set; a
	// recorded operation replays even if they changed since.
	binding, adapter, err := d.ResolveGateway(ctx, req.AccountID)
	if err != nil {
		log.Info("[payment][dispatcher] gateway resolution failed", zap.Error(err))
		return entities.PaymentOperation{}, err
	}
	var method entities.PaymentMethod
	if kind == entities.OperationKindCharge {
		method, err = d.activeMethod(ctx, req.AccountID, req.MethodID)
		if err != nil {
			log.Info("[payment][dispatcher] payment method rejected", zap.Error(err))
			return entities.PaymentOperation{}, err
		}
	}

	now := d.now()
	op := entities.PaymentOperation{
		IdempotencyKey:    key,
		Kind:              kind,
		AccountID:         req.AccountID,
		BillingPaymentID:  req.BillingPaymentID,
		MethodID:          req.MethodID,
		OriginalPaymentID: req.OriginalPaymentID,
		Amount:            req.Amount,
		Currency:          req.Currency,
		Status:            entities.OperationStatusPending,
		Gateway:           binding.Gateway,
		CustomerRef:       binding.CustomerRef,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if kind == entities.OperationKindRefund {
		original, err := d.refundableCharge(ctx, key, req)
		if err != nil {
			log.Info("[payment][dispatcher] refund rejected", zap.Error(err))
			return entities.PaymentOperation{}, err
		}
		// Refunds go to the gateway that took the money.
		refundAdapter, ok := d.gateways[original.Gateway]
		if !ok {
			return entities.PaymentOperation{}, validationError(key, ErrGatewayNotRegistered, string(original.Gateway))
		}
		adapter = refundAdapter
		op.Gateway = original.Gateway
		op.CustomerRef = original.CustomerRef
		op.OriginalTransactionID = original.GatewayRecord.TransactionID
	}

	op, created, err := d.ops.Create(ctx, op)
	if err != nil {
		return entities.PaymentOperation{}, fmt.Errorf("persist pending operation: %w", err)
	}
	if !created {
		return op, fmt.Errorf("%w: idempotency_key=%s", ErrOperationInFlight, key)
	}

	return d.send(ctx, log, op, adapter, method)
}

// replay answers a retry of a known key without touching the gateway.
func (d *GatewayDispatcher) replay(ctx context.Context, log *zap.Logger, stored entities.PaymentOperation) (entities.PaymentOperation, error) {
	if stored.Status != entities.OperationStatusPending {
		return stored, errorForStatus(stored)
	}

	// We hold the key lock, so whoever left this pending record is gone and
	// may or may not have reached the gateway.
	stored.Status = entities.OperationStatusInDoubt
	stored.LastError = "previous attempt stopped before recording an outcome"
	stored.UpdatedAt = d.now()
	saved, err := d.ops.Save(ctx, stored, entities.OperationStatusPending)
	if err != nil {
		if errors.Is(err, interfaces.ErrStaleOperation) {
			current, gerr := d.ops.GetByIdempotencyKey(ctx, stored.IdempotencyKey)
			if gerr == nil && current.Exists() {
				return current, errorForStatus(current)
			}
		}
		return stored, fmt.Errorf("mark operation in doubt: %w", err)
	}
	log.Warn("[payment][dispatcher] orphaned pending operation marked in doubt")
	d.publish(ctx, saved)
	return saved, errorForStatus(saved)
}

func (d *GatewayDispatcher) send(ctx context.Context, log *zap.Logger, op entities.PaymentOperation, adapter interfaces.IGatewayAdapter, method entities.PaymentMethod) (entities.PaymentOperation, error) {
	req := entities.GatewayRequest{
		Kind:                  op.Kind,
		IdempotencyKey:        op.IdempotencyKey,
		BillingPaymentID:      op.BillingPaymentID,
		AccountID:             op.AccountID,
		Amount:                op.Amount,
		Currency:              op.Currency,
		CustomerRef:           op.CustomerRef,
		MethodToken:           method.GatewayMethodToken,
		MethodProperties:      method.Properties,
		OriginalTransactionID: op.OriginalTransactionID,
	}
	limiter := d.limiters[op.Gateway]

	var (
		raw     entities.RawOutcome
		callErr error
		outcome Outcome
	)
	for attempt := 1; ; attempt++ {
		started := d.now()
		raw, callErr = d.callAdapter(ctx, adapter, limiter, req)
		outcome = ClassifyOutcome(raw, callErr)
		op.Attempts = append(op.Attempts, entities.AttemptLog{
			Number:     len(op.Attempts) + 1,
			Action:     string(op.Kind),
			StartedAt:  started,
			FinishedAt: d.now(),
			Outcome:    string(outcome),
			RawStatus:  string(raw.Status),
			Error:      errString(callErr),
		})
		log.Info("[payment][dispatcher] gateway attempt",
			zap.Int("attempt", attempt),
			zap.String("outcome", string(outcome)),
			zap.String("raw_status", string(raw.Status)),
			zap.Error(callErr),
		)

		if outcome != OutcomeRetryableTransient || attempt > d.cfg.MaxRetries {
			break
		}
		if err := sleepCtx(ctx, d.backoff(attempt)); err != nil {
			break
		}
	}

	return d.finish(ctx, log, op, raw, callErr, outcome)
}

func (d *GatewayDispatcher) finish(ctx context.Context, log *zap.Logger, op entities.PaymentOperation, raw entities.RawOutcome, callErr error, outcome Outcome) (entities.PaymentOperation, error) {
	if !raw.Record.IsZero() {
		op.GatewayRecord = raw.Record
	}
	switch outcome {
	case OutcomeSuccess:
		op.Status = entities.OperationStatusSucceeded
	case OutcomeDeclined:
		op.Status = entities.OperationStatusDeclined
	case OutcomePermanentError:
		op.Status = entities.OperationStatusFailed
		op.FailureKind = entities.FailureKindPermanent
	case OutcomeRetryableTransient:
		// Retries exhausted and no attempt ever left the process.
		op.Status = entities.OperationStatusFailed
		op.FailureKind = entities.FailureKindTransport
	default:
		op.Status = entities.OperationStatusInDoubt
	}
	op.LastError = errString(callErr)
	if callErr == nil && outcome == OutcomeInDoubt {
		op.LastError = "gateway reported status " + string(raw.Status)
	}
	op.UpdatedAt = d.now()

	saved, err := d.ops.Save(ctx, op, entities.OperationStatusPending)
	if err != nil {
		log.Error("[payment][dispatcher] failed recording outcome", zap.String("outcome", string(outcome)), zap.Error(err))
		return op, &OperationError{
			Kind:           ErrorKindInDoubt,
			IdempotencyKey: op.IdempotencyKey,
			Record:         op.GatewayRecord,
			Reason:         "outcome not recorded",
			Err:            err,
		}
	}
	d.publish(ctx, saved)

	if outcome == OutcomeSuccess {
		return saved, nil
	}
	return saved, &OperationError{
		Kind:           outcomeToErrorKind(outcome),
		IdempotencyKey: saved.IdempotencyKey,
		Record:         saved.GatewayRecord,
		Reason:         saved.LastError,
		Err:            callErr,
	}
}

func (d *GatewayDispatcher) callAdapter(ctx context.Context, adapter interfaces.IGatewayAdapter, limiter *rate.Limiter, req entities.GatewayRequest) (entities.RawOutcome, error) {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return entities.RawOutcome{}, &entities.PreSendError{Err: err}
		}
	}
	callCtx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()

	if req.Kind == entities.OperationKindRefund {
		return adapter.Refund(callCtx, req)
	}
	return adapter.Charge(callCtx, req)
}

// refundableCharge finds the settled charge a refund points at and checks the
// refund fits in what is left of it.
func (d *GatewayDispatcher) refundableCharge(ctx context.Context, key string, req OperationRequest) (entities.PaymentOperation, error) {
	ops, err := d.ops.ListByBillingPaymentID(ctx, req.OriginalPaymentID)
	if err != nil {
		return entities.PaymentOperation{}, fmt.Errorf("load original payment: %w", err)
	}

	var original entities.PaymentOperation
	for _, op := range ops {
		if op.Kind == entities.OperationKindCharge && op.Status == entities.OperationStatusSucceeded && op.GatewayRecord.TransactionID != "" {
			original = op
			break
		}
	}
	if !original.Exists() {
		return entities.PaymentOperation{}, validationError(key, ErrOriginalNotSettled, "")
	}
	if original.AccountID != req.AccountID {
		return entities.PaymentOperation{}, validationError(key, nil, "original payment belongs to another account")
	}
	if original.Currency != req.Currency {
		return entities.PaymentOperation{}, validationError(key, nil, "refund currency differs from the original payment")
	}

	refunds, err := d.ops.ListRefundsByOriginalPaymentID(ctx, req.OriginalPaymentID)
	if err != nil {
		return entities.PaymentOperation{}, fmt.Errorf("load refunds: %w", err)
	}
	committed := decimal.Zero
	for _, r := range refunds {
		if r.IdempotencyKey == key {
			continue
		}
		switch r.Status {
		case entities.OperationStatusSucceeded, entities.OperationStatusPending, entities.OperationStatusInDoubt:
			committed = committed.Add(r.Amount)
		}
	}
	if committed.Add(req.Amount).GreaterThan(original.Amount) {
		return entities.PaymentOperation{}, validationError(key, nil, "refund exceeds the refundable amount")
	}
	return original, nil
}

func (d *GatewayDispatcher) GetOperation(ctx context.Context, idempotencyKey string) (entities.PaymentOperation, error) {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		return entities.PaymentOperation{}, validationError("", nil, "idempotency_key is required")
	}
	op, err := d.ops.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return entities.PaymentOperation{}, err
	}
	if !op.Exists() {
		return entities.PaymentOperation{}, ErrOperationNotFound
	}
	return op, nil
}

// ListOperationsByPayment returns the charge and refund operations of a billing
// payment, oldest first.
func (d *GatewayDispatcher) ListOperationsByPayment(ctx context.Context, billingPaymentID uuid.UUID) ([]entities.PaymentOperation, error) {
	if billingPaymentID == uuid.Nil {
		return nil, validationError("", nil, "billing_payment_id is required")
	}
	ops, err := d.ops.ListByBillingPaymentID(ctx, billingPaymentID)
	if err != nil {
		return nil, err
	}
	refunds, err := d.ops.ListRefundsByOriginalPaymentID(ctx, billingPaymentID)
	if err != nil {
		return nil, err
	}
	ops = append(ops, refunds...)
	sort.Slice(ops, func(i, j int) bool { return ops[i].CreatedAt.Before(ops[j].CreatedAt) })
	return ops, nil
}

// ReconcileOperation asks the gateway what happened to an in-doubt (or
// abandoned pending) operation and records the answer.
func (d *GatewayDispatcher) ReconcileOperation(ctx context.Context, idempotencyKey string) (entities.PaymentOperation, error) {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		return entities.PaymentOperation{}, validationError("", nil, "idempotency_key is required")
	}
	log := d.log.With(zap.String("idempotency_key", key))

	unlock, acquired, err := d.locker.TryLock(ctx, key, d.cfg.LockTTL)
	if err != nil {
		return entities.PaymentOperation{}, fmt.Errorf("acquire idempotency lock: %w", err)
	}
	if !acquired {
		return entities.PaymentOperation{}, fmt.Errorf("%w: idempotency_key=%s", ErrOperationInFlight, key)
	}
	defer d.release(unlock, key)

	op, err := d.ops.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return entities.PaymentOperation{}, err
	}
	if !op.Exists() {
		return entities.PaymentOperation{}, ErrOperationNotFound
	}
	if op.Status.IsTerminal() {
		return op, nil
	}
	if op.Status == entities.OperationStatusPending && d.now().Sub(op.UpdatedAt) < d.cfg.StalePendingAfter {
		return op, fmt.Errorf("%w: idempotency_key=%s", ErrOperationInFlight, key)
	}

	adapter, ok := d.gateways[op.Gateway]
	if !ok {
		return op, validationError(key, ErrGatewayNotRegistered, string(op.Gateway))
	}
	caps := adapter.Capabilities()
	if !caps.PaymentLookup || (op.GatewayRecord.TransactionID == "" && !caps.LookupByKey) {
		return op, fmt.Errorf("%w: %s cannot look up payments", ErrCapabilityUnsupported, op.Gateway)
	}

	expected := op.Status
	started := d.now()
	callCtx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	raw, lookupErr := adapter.LookupPayment(callCtx, entities.GatewayLookup{
		Kind:                  op.Kind,
		IdempotencyKey:        op.IdempotencyKey,
		TransactionID:         op.GatewayRecord.TransactionID,
		OriginalTransactionID: op.OriginalTransactionID,
		CustomerRef:           op.CustomerRef,
	})
	cancel()
	if errors.Is(lookupErr, ErrCapabilityUnsupported) {
		return op, lookupErr
	}

	next := entities.OperationStatusInDoubt
	if lookupErr == nil {
		switch raw.Status {
		case entities.RawStatusSettled:
			next = entities.OperationStatusSucceeded
		case entities.RawStatusDeclined:
			next = entities.OperationStatusDeclined
		case entities.RawStatusNotFound:
			// Gateway search indexes lag behind writes.
			if d.now().Sub(op.CreatedAt) >= d.cfg.NotFoundGrace {
				next = entities.OperationStatusFailed
			}
		}
	}

	if !raw.Record.IsZero() {
		op.GatewayRecord = raw.Record
	}
	op.Attempts = append(op.Attempts, entities.AttemptLog{
		Number:     len(op.Attempts) + 1,
		Action:     "reconcile",
		StartedAt:  started,
		FinishedAt: d.now(),
		Outcome:    string(next),
		RawStatus:  string(raw.Status),
		Error:      errString(lookupErr),
	})
	op.Status = next
	switch {
	case next == entities.OperationStatusFailed:
		op.FailureKind = entities.FailureKindTransport
		op.LastError = "gateway has no record of the request"
	case lookupErr != nil:
		op.LastError = "lookup failed: " + lookupErr.Error()
	case next == entities.OperationStatusInDoubt:
		op.LastError = "gateway reported status " + string(raw.Status)
	default:
		op.LastError = ""
	}
	op.UpdatedAt = d.now()

	saved, err := d.ops.Save(ctx, op, expected)
	if err != nil {
		return op, fmt.Errorf("persist reconciliation: %w", err)
	}
	log.Info("[payment][dispatcher] reconciled",
		zap.String("from", string(expected)),
		zap.String("to", string(saved.Status)),
		zap.String("raw_status", string(raw.Status)),
		zap.Error(lookupErr),
	)
	if saved.Status != expected {
		d.publish(ctx, saved)
	}
	if lookupErr != nil {
		return saved, &OperationError{Kind: ErrorKindInDoubt, IdempotencyKey: key, Record: saved.GatewayRecord, Reason: "lookup failed", Err: lookupErr}
	}
	return saved, errorForStatus(saved)
}

// ResolveGateway loads the account binding and its adapter.
func (d *GatewayDispatcher) ResolveGateway(ctx context.Context, accountID uuid.UUID) (entities.AccountBinding, interfaces.IGatewayAdapter, error) {
	if accountID == uuid.Nil {
		return entities.AccountBinding{}, nil, validationError("", nil, "account_id is required")
	}
	b, err := d.bindings.Get(ctx, accountID)
	if err != nil {
		return entities.AccountBinding{}, nil, fmt.Errorf("load account binding: %w", err)
	}
	if !b.Exists() {
		return entities.AccountBinding{}, nil, validationError("", ErrAccountNotBound, accountID.String())
	}
	adapter, ok := d.gateways[b.Gateway]
	if !ok {
		return entities.AccountBinding{}, nil, validationError("", ErrGatewayNotRegistered, string(b.Gateway))
	}
	return b, adapter, nil
}

// CallGateway runs a payment-method call with the same classification and
// retry rules as charges. Only provably unsent failures are retried.
func (d *GatewayDispatcher) CallGateway(ctx context.Context, gateway entities.GatewayKind, action string, fn func(context.Context) error) error {
	limiter := d.limiters[gateway]
	log := d.log.With(zap.String("gateway", string(gateway)), zap.String("action", action))

	for attempt := 1; ; attempt++ {
		err := d.callMethod(ctx, limiter, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, interfaces.ErrCapabilityUnsupported) {
			return err
		}
		outcome := ClassifyOutcome(entities.RawOutcome{}, err)
		log.Info("[payment][dispatcher] method call failed", zap.Int("attempt", attempt), zap.String("outcome", string(outcome)), zap.Error(err))
		if outcome != OutcomeRetryableTransient || attempt > d.cfg.MaxRetries {
			return &OperationError{Kind: outcomeToErrorKind(outcome), Reason: action, Err: err}
		}
		if werr := sleepCtx(ctx, d.backoff(attempt)); werr != nil {
			return werr
		}
	}
}

func (d *GatewayDispatcher) callMethod(ctx context.Context, limiter *rate.Limiter, fn func(context.Context) error) error {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return &entities.PreSendError{Err: err}
		}
	}
	callCtx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()
	return fn(callCtx)
}

func (d *GatewayDispatcher) activeMethod(ctx context.Context, accountID, methodID uuid.UUID) (entities.PaymentMethod, error) {
	set, err := d.methods.GetByAccountID(ctx, accountID)
	if err != nil {
		return entities.PaymentMethod{}, fmt.Errorf("load payment methods: %w", err)
	}
	i := set.Find(methodID)
	if i < 0 || set.Methods[i].Removed {
		return entities.PaymentMethod{}, validationError("", ErrMethodNotFound, methodID.String())
	}
	return set.Methods[i], nil
}

// backoff returns an exponential delay with full jitter.
func (d *GatewayDispatcher) backoff(attempt int) time.Duration {
	if d.cfg.BackoffBase <= 0 {
		return 0
	}
	delay := d.cfg.BackoffBase << (attempt - 1)
	if delay <= 0 || (d.cfg.BackoffMax > 0 && delay > d.cfg.BackoffMax) {
		delay = d.cfg.BackoffMax
	}
	if delay <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(delay)) + 1)
}

func (d *GatewayDispatcher) publish(ctx context.Context, op entities.PaymentOperation) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, op); err != nil {
		d.log.Warn("[payment][dispatcher] outcome publish failed",
			zap.String("idempotency_key", op.IdempotencyKey),
			zap.String("status", string(op.Status)),
			zap.Error(err),
		)
	}
}

func (d *GatewayDispatcher) release(unlock func(context.Context) error, key string) {
	if unlock == nil {
		return
	}
	if err := unlock(context.Background()); err != nil {
		d.log.Warn("[payment][dispatcher] idempotency lock release failed", zap.String("idempotency_key", key), zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// processLocker is used when no cross-replica locker is configured. It holds
// keys for the life of the process only, so ttl is ignored.
type processLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newProcessLocker() *processLocker {
	return &processLocker{held: map[string]struct{}{}}
}

func (l *processLocker) TryLock(_ context.Context, key string, _ time.Duration) (func(context.Context) error, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, false, nil
	}
	l.held[key] = struct{}{}
	return func(context.Context) error {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
		return nil
	}, true, nil
}

package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type operationLister interface {
	ListByStatus(ctx context.Context, status entities.OperationStatus, updatedBefore time.Time, limit int) ([]entities.PaymentOperation, error)
}

type operationReconciler interface {
	ReconcileOperation(ctx context.Context, idempotencyKey string) (entities.PaymentOperation, error)
}

type Config struct {
	Interval     time.Duration
	BatchSize    int
	Workers      int
	StalePending time.Duration
}

// Reconciler periodically resolves in-doubt operations and pending ones that
// were abandoned (crash between the gateway call and the final save).
type Reconciler struct {
	ops        operationLister
	dispatcher operationReconciler
	cfg        Config
	log        *zap.Logger
	now        func() time.Time
}

func NewReconciler(ops operationLister, dispatcher operationReconciler, cfg Config, log *zap.Logger) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		ops:        ops,
		dispatcher: dispatcher,
		cfg:        cfg,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start blocks until ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()
	r.log.Info("[payment][reconciler] worker started", zap.Duration("interval", r.cfg.Interval))
	for {
		select {
		case <-ctx.Done():
			r.log.Info("[payment][reconciler] context cancelled, stopping")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce reconciles one batch and returns how many operations reached a
// terminal status.
func (r *Reconciler) RunOnce(ctx context.Context) int {
	now := r.now()
	inDoubt, err := r.ops.ListByStatus(ctx, entities.OperationStatusInDoubt, now, r.cfg.BatchSize)
	if err != nil {
		r.log.Error("[payment][reconciler] listing in-doubt operations failed", zap.Error(err))
		return 0
	}
	stale, err := r.ops.ListByStatus(ctx, entities.OperationStatusPending, now.Add(-r.cfg.StalePending), r.cfg.BatchSize)
	if err != nil {
		r.log.Error("[payment][reconciler] listing stale pending operations failed", zap.Error(err))
		return 0
	}

	batch := append(inDoubt, stale...)
	if len(batch) == 0 {
		r.log.Debug("[payment][reconciler] nothing to reconcile")
		return 0
	}
	r.log.Info("[payment][reconciler] cycle start", zap.Int("operations", len(batch)))

	// Tasks always return nil: one bad operation never stops the batch.
	var (
		group    errgroup.Group
		resolved atomic.Int64
	)
	group.SetLimit(r.cfg.Workers)
	for _, op := range batch {
		key := op.IdempotencyKey
		group.Go(func() error {
			if r.reconcile(ctx, key) {
				resolved.Add(1)
			}
			return nil
		})
	}
	_ = group.Wait()

	r.log.Info("[payment][reconciler] cycle completed", zap.Int("operations", len(batch)), zap.Int64("resolved", resolved.Load()))
	return int(resolved.Load())
}

func (r *Reconciler) reconcile(ctx context.Context, key string) bool {
	op, err := r.dispatcher.ReconcileOperation(ctx, key)
	log := r.log.With(zap.String("idempotency_key", key), zap.String("status", string(op.Status)))
	switch {
	case err == nil:
		log.Info("[payment][reconciler] operation resolved")
	case errors.Is(err, usecase.ErrOperationInFlight):
		log.Debug("[payment][reconciler] operation busy, skipping")
	case errors.Is(err, usecase.ErrCapabilityUnsupported):
		log.Warn("[payment][reconciler] gateway cannot look up operation", zap.Error(err))
	default:
		// Declined and failed outcomes come back as errors but are resolved.
		if op.Status.IsTerminal() {
			log.Info("[payment][reconciler] operation resolved", zap.Error(err))
			return true
		}
		log.Warn("[payment][reconciler] operation still unresolved", zap.Error(err))
		return false
	}
	return err == nil && op.Status.IsTerminal()
}

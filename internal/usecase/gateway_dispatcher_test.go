package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"billing_gateway/internal/adapter/persistence/repository"
	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/infrastructure/database"
	mock_interfaces "billing_gateway/internal/usecase/interfaces/mocks"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var allCapabilities = entities.GatewayCapabilities{
	NativeIdempotency: true,
	PaymentLookup:     true,
	LookupByKey:       true,
	RefreshMethods:    true,
	MethodDetail:      true,
	SetDefaultMethod:  true,
	DefaultTracking:   true,
}

type dispatcherFixture struct {
	d         *GatewayDispatcher
	ops       *repository.PaymentOperationBoltRepository
	methods   *repository.PaymentMethodBoltRepository
	bindings  *repository.AccountBindingBoltRepository
	adapter   *mock_interfaces.MockIGatewayAdapter
	accountID uuid.UUID
	methodID  uuid.UUID
	clock     time.Time
}

func newDispatcherFixture(t *testing.T, cfg DispatcherConfig) *dispatcherFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	db, err := database.OpenBolt(filepath.Join(t.TempDir(), "dispatcher.db"))
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	f := &dispatcherFixture{
		ops:       repository.NewPaymentOperationBoltRepository(db),
		adapter:   mock_interfaces.NewMockIGatewayAdapter(ctrl),
		accountID: uuid.New(),
		methodID:  uuid.New(),
		clock:     time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	bindings := repository.NewAccountBindingBoltRepository(db)
	methods := repository.NewPaymentMethodBoltRepository(db)
	f.methods = methods
	f.bindings = bindings
	if _, err := bindings.Put(ctx, entities.AccountBinding{AccountID: f.accountID, Gateway: entities.GatewaySandbox, CustomerRef: "cus_1"}); err != nil {
		t.Fatalf("seed binding: %v", err)
	}
	if _, err := methods.Replace(ctx, entities.PaymentMethodSet{
		AccountID: f.accountID,
		Methods: []entities.PaymentMethod{
			{BillingMethodID: f.methodID, GatewayMethodToken: "pm_1", IsDefault: true},
		},
	}, 0); err != nil {
		t.Fatalf("seed methods: %v", err)
	}

	f.d = NewGatewayDispatcher(DispatcherDeps{
		Operations: f.ops,
		Methods:    methods,
		Bindings:   bindings,
		Gateways:   GatewayRegistry{entities.GatewaySandbox: f.adapter},
	}, cfg, nil)
	f.d.now = func() time.Time { return f.clock }
	return f
}

func (f *dispatcherFixture) charge(billingID uuid.UUID, amount string) OperationRequest {
	return OperationRequest{
		AccountID:        f.accountID,
		BillingPaymentID: billingID,
		MethodID:         f.methodID,
		Amount:           decimal.RequireFromString(amount),
		Currency:         "usd",
	}
}

func settled(id, amount string) entities.RawOutcome {
	return entities.RawOutcome{
		Status: entities.RawStatusSettled,
		Record: entities.GatewayRecord{
			TransactionID: id,
			Amount:        decimal.RequireFromString(amount),
			Currency:      "USD",
			RawStatus:     "succeeded",
		},
	}
}

func TestGatewayDispatcher_ProcessPayment_Idempotent(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{MaxRetries: 2})
	ctx := context.Background()
	billingID := uuid.New()

	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req entities.GatewayRequest) (entities.RawOutcome, error) {
			if req.MethodToken != "pm_1" || req.CustomerRef != "cus_1" || req.Currency != "USD" {
				t.Errorf("unexpected gateway request %+v", req)
			}
			return settled("pi_1", "50"), nil
		}).Times(1)

	first, err := f.d.ProcessPayment(ctx, f.charge(billingID, "50.00"))
	if err != nil {
		t.Fatalf("first charge: %v", err)
	}
	if first.Status != entities.OperationStatusSucceeded || first.GatewayRecord.TransactionID != "pi_1" {
		t.Fatalf("unexpected operation %+v", first)
	}

	second, err := f.d.ProcessPayment(ctx, f.charge(billingID, "50"))
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if second.IdempotencyKey != first.IdempotencyKey || second.GatewayRecord.TransactionID != "pi_1" {
		t.Fatalf("retry returned a different operation: %+v", second)
	}
	if len(second.Attempts) != 1 {
		t.Fatalf("attempts=%d, want 1", len(second.Attempts))
	}
}

func TestGatewayDispatcher_ProcessPayment_ConcurrentSameKey(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{})
	billingID := uuid.New()

	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, entities.GatewayRequest) (entities.RawOutcome, error) {
			time.Sleep(50 * time.Millisecond)
			return settled("pi_1", "50"), nil
		}).Times(1)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]entities.PaymentOperation, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.d.ProcessPayment(context.Background(), f.charge(billingID, "50"))
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i].GatewayRecord.TransactionID != "pi_1" {
			t.Fatalf("caller %d got %+v", i, results[i])
		}
	}
}

func TestGatewayDispatcher_ProcessPayment_Declined(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{MaxRetries: 3})
	billingID := uuid.New()

	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(entities.RawOutcome{}, &entities.GatewayError{
		Code: entities.GatewayErrorDeclined, HTTPStatus: 402, Message: "card_declined",
	}).Times(1)

	op, err := f.d.ProcessPayment(context.Background(), f.charge(billingID, "10"))
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if op.Status != entities.OperationStatusDeclined {
		t.Fatalf("status=%s", op.Status)
	}

	_, err = f.d.ProcessPayment(context.Background(), f.charge(billingID, "10"))
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("replay: expected ErrDeclined, got %v", err)
	}
}

func TestGatewayDispatcher_ProcessPayment_PreSendExhausted(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{MaxRetries: 2})
	billingID := uuid.New()

	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).
		Return(entities.RawOutcome{}, &entities.PreSendError{Err: errors.New("dial tcp: connection refused")}).
		Times(3)

	op, err := f.d.ProcessPayment(context.Background(), f.charge(billingID, "10"))
	if !errors.Is(err, ErrTransport) || KindOf(err) != ErrorKindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
	if op.Status != entities.OperationStatusFailed || op.FailureKind != entities.FailureKindTransport {
		t.Fatalf("unexpected op %+v", op)
	}
	if len(op.Attempts) != 3 {
		t.Fatalf("attempts=%d, want 3", len(op.Attempts))
	}

	// A fresh key is a new operation and may go through.
	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(settled("pi_2", "10"), nil).Times(1)
	req := f.charge(billingID, "10")
	req.IdempotencyKey = "retry-after-outage"
	op, err = f.d.ProcessPayment(context.Background(), req)
	if err != nil || op.Status != entities.OperationStatusSucceeded {
		t.Fatalf("fresh key: %v %+v", err, op)
	}
}

func TestGatewayDispatcher_ProcessPayment_InDoubtIsNotRetried(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{MaxRetries: 3})
	billingID := uuid.New()

	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(entities.RawOutcome{}, context.DeadlineExceeded).Times(1)

	op, err := f.d.ProcessPayment(context.Background(), f.charge(billingID, "10"))
	if !errors.Is(err, ErrInDoubt) {
		t.Fatalf("expected ErrInDoubt, got %v", err)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.IdempotencyKey != op.IdempotencyKey {
		t.Fatalf("error does not carry the key: %v", err)
	}
	if op.Status != entities.OperationStatusInDoubt {
		t.Fatalf("status=%s", op.Status)
	}

	_, err = f.d.ProcessPayment(context.Background(), f.charge(billingID, "10"))
	if !errors.Is(err, ErrInDoubt) {
		t.Fatalf("replay: expected ErrInDoubt, got %v", err)
	}
}

func TestGatewayDispatcher_ProcessPayment_PendingGatewayStatusIsInDoubt(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{})
	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(entities.RawOutcome{
		Status: entities.RawStatusPending,
		Record: entities.GatewayRecord{TransactionID: "pi_p", RawStatus: "requires_action"},
	}, nil)

	op, err := f.d.ProcessPayment(context.Background(), f.charge(uuid.New(), "10"))
	if !errors.Is(err, ErrInDoubt) || op.GatewayRecord.TransactionID != "pi_p" {
		t.Fatalf("expected in-doubt with record, got %v %+v", err, op)
	}
}

func TestGatewayDispatcher_ProcessPayment_Validation(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{})
	ctx := context.Background()

	t.Run("over-scaled amount", func(t *testing.T) {
		_, err := f.d.ProcessPayment(ctx, f.charge(uuid.New(), "1.005"))
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown currency", func(t *testing.T) {
		req := f.charge(uuid.New(), "1")
		req.Currency = "ZZZ"
		_, err := f.d.ProcessPayment(ctx, req)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unbound account", func(t *testing.T) {
		req := f.charge(uuid.New(), "1")
		req.AccountID = uuid.New()
		_, err := f.d.ProcessPayment(ctx, req)
		if !errors.Is(err, ErrAccountNotBound) {
			t.Fatalf("expected ErrAccountNotBound, got %v", err)
		}
	})

	t.Run("unknown method", func(t *testing.T) {
		req := f.charge(uuid.New(), "1")
		req.MethodID = uuid.New()
		_, err := f.d.ProcessPayment(ctx, req)
		if !errors.Is(err, ErrMethodNotFound) {
			t.Fatalf("expected ErrMethodNotFound, got %v", err)
		}
	})

	t.Run("key reused with other amount", func(t *testing.T) {
		f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(settled("pi_k", "5"), nil).Times(1)
		billingID := uuid.New()
		req := f.charge(billingID, "5")
		req.IdempotencyKey = "explicit-key"
		if _, err := f.d.ProcessPayment(ctx, req); err != nil {
			t.Fatalf("first: %v", err)
		}
		req.Amount = decimal.NewFromInt(6)
		_, err := f.d.ProcessPayment(ctx, req)
		if !errors.Is(err, ErrIdempotencyKeyReused) || !errors.Is(err, ErrValidation) {
			t.Fatalf("expected key reuse validation error, got %v", err)
		}
	})

	t.Run("key reused with other method", func(t *testing.T) {
		f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(settled("pi_m", "7"), nil).Times(1)
		req := f.charge(uuid.New(), "7")
		req.IdempotencyKey = "explicit-method-key"
		if _, err := f.d.ProcessPayment(ctx, req); err != nil {
			t.Fatalf("first: %v", err)
		}
		req.MethodID = uuid.New()
		_, err := f.d.ProcessPayment(ctx, req)
		if !errors.Is(err, ErrIdempotencyKeyReused) {
			t.Fatalf("expected key reuse error, got %v", err)
		}
	})
}

func TestGatewayDispatcher_ProcessPayment_ReplaysAfterMethodAndBindingChange(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{})
	ctx := context.Background()
	req := f.charge(uuid.New(), "50")

	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(settled("pi_1", "50"), nil).Times(1)
	if _, err := f.d.ProcessPayment(ctx, req); err != nil {
		t.Fatalf("first charge: %v", err)
	}

	set, err := f.methods.GetByAccountID(ctx, f.accountID)
	if err != nil {
		t.Fatalf("load methods: %v", err)
	}
	set.Methods[0].Removed = true
	if _, err := f.methods.Replace(ctx, set, set.Version); err != nil {
		t.Fatalf("remove method: %v", err)
	}
	if _, err := f.bindings.Put(ctx, entities.AccountBinding{AccountID: f.accountID, Gateway: entities.GatewayStripe, CustomerRef: "cus_2"}); err != nil {
		t.Fatalf("rebind: %v", err)
	}

	op, err := f.d.ProcessPayment(ctx, req)
	if err != nil {
		t.Fatalf("retry after method removal: %v", err)
	}
	if op.Status != entities.OperationStatusSucceeded || op.GatewayRecord.TransactionID != "pi_1" {
		t.Fatalf("expected recorded charge, got %+v", op)
	}

	// A new payment is still checked against the live method set.
	_, err = f.d.ProcessPayment(ctx, f.charge(uuid.New(), "50"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for a new charge, got %v", err)
	}
}

func TestGatewayDispatcher_ProcessPayment_ConcurrentKeyReuse(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{})
	started := make(chan struct{})
	release := make(chan struct{})

	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, entities.GatewayRequest) (entities.RawOutcome, error) {
			close(started)
			<-release
			return settled("pi_1", "50"), nil
		}).Times(1)

	first := f.charge(uuid.New(), "50")
	first.IdempotencyKey = "client-key-1"
	other := f.charge(uuid.New(), "999")
	other.IdempotencyKey = "client-key-1"

	var (
		wg                 sync.WaitGroup
		firstOp, otherOp   entities.PaymentOperation
		firstErr, otherErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstOp, firstErr = f.d.ProcessPayment(context.Background(), first)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		otherOp, otherErr = f.d.ProcessPayment(context.Background(), other)
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if firstErr != nil || firstOp.Status != entities.OperationStatusSucceeded {
		t.Fatalf("first caller: %v %+v", firstErr, firstOp)
	}
	if !errors.Is(otherErr, ErrIdempotencyKeyReused) {
		t.Fatalf("expected key reuse error, got %v", otherErr)
	}
	if otherOp.Status == entities.OperationStatusSucceeded {
		t.Fatalf("reused key must not report the other payment as settled: %+v", otherOp)
	}
}

func TestGatewayDispatcher_ProcessPayment_OrphanedPendingBecomesInDoubt(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{})
	ctx := context.Background()
	req := f.charge(uuid.New(), "10")
	req.Currency = "USD"
	key := DeriveIdempotencyKey(req.AccountID, req.BillingPaymentID, entities.OperationKindCharge, req.Amount, req.Currency)

	_, _, err := f.ops.Create(ctx, entities.PaymentOperation{
		IdempotencyKey:   key,
		Kind:             entities.OperationKindCharge,
		AccountID:        req.AccountID,
		BillingPaymentID: req.BillingPaymentID,
		MethodID:         req.MethodID,
		Amount:           req.Amount,
		Currency:         "USD",
		Status:           entities.OperationStatusPending,
		Gateway:          entities.GatewaySandbox,
		CreatedAt:        f.clock,
		UpdatedAt:        f.clock,
	})
	if err != nil {
		t.Fatalf("seed pending: %v", err)
	}

	op, err := f.d.ProcessPayment(ctx, req)
	if !errors.Is(err, ErrInDoubt) || op.Status != entities.OperationStatusInDoubt {
		t.Fatalf("expected in-doubt, got %v %+v", err, op)
	}
}

func TestGatewayDispatcher_ProcessPayment_KeyHeldElsewhere(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{})
	locker := mock_interfaces.NewMockIKeyLocker(gomock.NewController(t))
	locker.EXPECT().TryLock(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, false, nil)
	f.d.locker = locker

	_, err := f.d.ProcessPayment(context.Background(), f.charge(uuid.New(), "10"))
	if !errors.Is(err, ErrOperationInFlight) {
		t.Fatalf("expected ErrOperationInFlight, got %v", err)
	}
}

func TestGatewayDispatcher_ProcessPayment_KeyHeldElsewhereStoreDown(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{})
	ctrl := gomock.NewController(t)
	locker := mock_interfaces.NewMockIKeyLocker(ctrl)
	locker.EXPECT().TryLock(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, false, nil)
	ops := mock_interfaces.NewMockIPaymentOperationRepository(ctrl)
	ops.EXPECT().GetByIdempotencyKey(gomock.Any(), gomock.Any()).Return(entities.PaymentOperation{}, errors.New("table unavailable"))
	core, logs := observer.New(zap.WarnLevel)
	f.d.locker = locker
	f.d.ops = ops
	f.d.log = zap.New(core)

	op, err := f.d.ProcessPayment(context.Background(), f.charge(uuid.New(), "10"))
	if !errors.Is(err, ErrOperationInFlight) || op.Exists() {
		t.Fatalf("expected ErrOperationInFlight with no operation, got %v %+v", err, op)
	}
	if logs.FilterMessage("[payment][dispatcher] could not load operation held elsewhere").Len() != 1 {
		t.Fatalf("store error was not logged: %+v", logs.All())
	}
}

func TestGatewayDispatcher_ProcessRefund(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{})
	ctx := context.Background()
	chargeID := uuid.New()

	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(settled("pi_1", "50"), nil)
	if _, err := f.d.ProcessPayment(ctx, f.charge(chargeID, "50")); err != nil {
		t.Fatalf("charge: %v", err)
	}

	refund := func(amount string) OperationRequest {
		return OperationRequest{
			AccountID:         f.accountID,
			BillingPaymentID:  uuid.New(),
			OriginalPaymentID: chargeID,
			Amount:            decimal.RequireFromString(amount),
			Currency:          "USD",
		}
	}

	f.adapter.EXPECT().Refund(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req entities.GatewayRequest) (entities.RawOutcome, error) {
			if req.OriginalTransactionID != "pi_1" || req.CustomerRef != "cus_1" {
				t.Errorf("unexpected refund request %+v", req)
			}
			return settled("re_1", "20"), nil
		})
	op, err := f.d.ProcessRefund(ctx, refund("20"))
	if err != nil || op.Status != entities.OperationStatusSucceeded || op.OriginalTransactionID != "pi_1" {
		t.Fatalf("refund: %v %+v", err, op)
	}

	_, err = f.d.ProcessRefund(ctx, refund("31"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected over-refund to be rejected, got %v", err)
	}

	f.adapter.EXPECT().Refund(gomock.Any(), gomock.Any()).Return(settled("re_2", "30"), nil)
	if _, err := f.d.ProcessRefund(ctx, refund("30")); err != nil {
		t.Fatalf("remaining refund: %v", err)
	}

	ops, err := f.d.ListOperationsByPayment(ctx, chargeID)
	if err != nil || len(ops) != 3 {
		t.Fatalf("list: %v len=%d", err, len(ops))
	}
}

func TestGatewayDispatcher_ProcessRefund_OriginalNotSettled(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{})
	ctx := context.Background()
	chargeID := uuid.New()

	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(entities.RawOutcome{}, errors.New("connection reset by peer"))
	if _, err := f.d.ProcessPayment(ctx, f.charge(chargeID, "50")); !errors.Is(err, ErrInDoubt) {
		t.Fatalf("charge: expected in-doubt, got %v", err)
	}

	_, err := f.d.ProcessRefund(ctx, OperationRequest{
		AccountID:         f.accountID,
		BillingPaymentID:  uuid.New(),
		OriginalPaymentID: chargeID,
		Amount:            decimal.NewFromInt(10),
		Currency:          "USD",
	})
	if !errors.Is(err, ErrOriginalNotSettled) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrOriginalNotSettled, got %v", err)
	}
}

func TestGatewayDispatcher_ReconcileOperation(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{NotFoundGrace: 10 * time.Minute, StalePendingAfter: 5 * time.Minute})
	ctx := context.Background()
	publisher := mock_interfaces.NewMockIOutcomePublisher(gomock.NewController(t))
	f.d.publisher = publisher
	f.adapter.EXPECT().Capabilities().Return(allCapabilities).AnyTimes()

	// in_doubt after the timeout, then the gateway reports it settled.
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(entities.RawOutcome{}, context.DeadlineExceeded)
	op, _ := f.d.ProcessPayment(ctx, f.charge(uuid.New(), "10"))

	f.adapter.EXPECT().LookupPayment(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, l entities.GatewayLookup) (entities.RawOutcome, error) {
			if l.IdempotencyKey != op.IdempotencyKey {
				t.Errorf("lookup key=%s", l.IdempotencyKey)
			}
			return settled("pi_9", "10"), nil
		})
	got, err := f.d.ReconcileOperation(ctx, op.IdempotencyKey)
	if err != nil || got.Status != entities.OperationStatusSucceeded || got.GatewayRecord.TransactionID != "pi_9" {
		t.Fatalf("reconcile: %v %+v", err, got)
	}

	// Terminal operations are returned as they are.
	again, err := f.d.ReconcileOperation(ctx, op.IdempotencyKey)
	if err != nil || again.Status != entities.OperationStatusSucceeded {
		t.Fatalf("terminal reconcile: %v %+v", err, again)
	}
}

func TestGatewayDispatcher_ReconcileOperation_NotFoundGrace(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{NotFoundGrace: 10 * time.Minute})
	ctx := context.Background()
	f.adapter.EXPECT().Capabilities().Return(allCapabilities).AnyTimes()

	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(entities.RawOutcome{}, errors.New("EOF"))
	op, _ := f.d.ProcessPayment(ctx, f.charge(uuid.New(), "10"))

	f.adapter.EXPECT().LookupPayment(gomock.Any(), gomock.Any()).Return(entities.RawOutcome{Status: entities.RawStatusNotFound}, nil).Times(2)

	f.clock = f.clock.Add(time.Minute)
	got, err := f.d.ReconcileOperation(ctx, op.IdempotencyKey)
	if !errors.Is(err, ErrInDoubt) || got.Status != entities.OperationStatusInDoubt {
		t.Fatalf("inside grace: %v %+v", err, got)
	}

	f.clock = f.clock.Add(15 * time.Minute)
	got, err = f.d.ReconcileOperation(ctx, op.IdempotencyKey)
	if !errors.Is(err, ErrTransport) || got.Status != entities.OperationStatusFailed {
		t.Fatalf("after grace: %v %+v", err, got)
	}
	if n := len(got.Attempts); n != 3 || got.Attempts[n-1].Action != "reconcile" {
		t.Fatalf("unexpected attempt log %+v", got.Attempts)
	}
}

func TestGatewayDispatcher_ReconcileOperation_Guards(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{StalePendingAfter: 5 * time.Minute})
	ctx := context.Background()

	if _, err := f.d.ReconcileOperation(ctx, "missing"); !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}

	_, _, err := f.ops.Create(ctx, entities.PaymentOperation{
		IdempotencyKey: "fresh",
		Kind:           entities.OperationKindCharge,
		Status:         entities.OperationStatusPending,
		Gateway:        entities.GatewaySandbox,
		CreatedAt:      f.clock,
		UpdatedAt:      f.clock,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.d.ReconcileOperation(ctx, "fresh"); !errors.Is(err, ErrOperationInFlight) {
		t.Fatalf("expected ErrOperationInFlight for fresh pending, got %v", err)
	}

	f.clock = f.clock.Add(10 * time.Minute)
	f.adapter.EXPECT().Capabilities().Return(entities.GatewayCapabilities{})
	if _, err := f.d.ReconcileOperation(ctx, "fresh"); !errors.Is(err, ErrCapabilityUnsupported) {
		t.Fatalf("expected ErrCapabilityUnsupported, got %v", err)
	}
}

func TestGatewayDispatcher_CallGateway(t *testing.T) {
	f := newDispatcherFixture(t, DispatcherConfig{MaxRetries: 2})
	ctx := context.Background()

	calls := 0
	err := f.d.CallGateway(ctx, entities.GatewaySandbox, "list_methods", func(context.Context) error {
		calls++
		if calls < 2 {
			return &entities.GatewayError{Code: entities.GatewayErrorRateLimited, HTTPStatus: 429}
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Fatalf("expected success on second call, got %v after %d calls", err, calls)
	}

	err = f.d.CallGateway(ctx, entities.GatewaySandbox, "add_method", func(context.Context) error {
		return &entities.GatewayError{Code: entities.GatewayErrorInvalidCard, HTTPStatus: 402}
	})
	if !errors.Is(err, ErrPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
}

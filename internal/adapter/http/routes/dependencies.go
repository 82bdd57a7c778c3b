package routes

import (
	"context"
	"errors"
	"fmt"

	"billing_gateway/internal/adapter/http/handlers"
	"billing_gateway/internal/adapter/persistence/repository"
	"billing_gateway/internal/config"
	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/infrastructure/database"
	"billing_gateway/internal/infrastructure/lock"
	"billing_gateway/internal/infrastructure/messaging"
	"billing_gateway/internal/infrastructure/payments"
	"billing_gateway/internal/usecase"
	"billing_gateway/internal/usecase/interfaces"
	"billing_gateway/internal/worker"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"
)

type dependencies struct {
	operationHandler *handlers.PaymentOperationHandler
	methodHandler    *handlers.PaymentMethodHandler
	bindingHandler   *handlers.AccountBindingHandler
	reconciler       *worker.Reconciler
}

type stores struct {
	operations interfaces.IPaymentOperationRepository
	methods    interfaces.IPaymentMethodRepository
	bindings   interfaces.IAccountBindingRepository
}

// buildDependencies wires the service. The returned cleanup closes whatever
// was opened, in reverse order.
func buildDependencies(ctx context.Context, cfg config.Config, log *zap.Logger) (*dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var awsCfg aws.Config
	if cfg.Store.Driver == config.StoreDriverDynamoDB || cfg.Events.OutcomeTopicARN != "" {
		var err error
		awsCfg, err = database.NewAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, cleanup, fmt.Errorf("aws config: %w", err)
		}
	}

	st, err := buildStores(cfg.Store, awsCfg, log, &closers)
	if err != nil {
		return nil, cleanup, err
	}
	gateways, err := buildGateways(cfg.Gateways, log)
	if err != nil {
		return nil, cleanup, err
	}
	locker, err := buildLocker(ctx, cfg.Lock, log, &closers)
	if err != nil {
		return nil, cleanup, err
	}

	var publisher interfaces.IOutcomePublisher
	if cfg.Events.OutcomeTopicARN != "" {
		publisher = messaging.NewSNSPublisher(awsCfg, cfg.Events.OutcomeTopicARN, log)
		log.Info("[bootstrap] outcome events enabled", zap.String("topic_arn", cfg.Events.OutcomeTopicARN))
	}

	dispatcher := usecase.NewGatewayDispatcher(usecase.DispatcherDeps{
		Operations: st.operations,
		Methods:    st.methods,
		Bindings:   st.bindings,
		Gateways:   gateways,
		Locker:     locker,
		Publisher:  publisher,
	}, usecase.DispatcherConfig{
		MaxRetries:        cfg.Dispatch.MaxRetries,
		BackoffBase:       cfg.Dispatch.BackoffBase,
		BackoffMax:        cfg.Dispatch.BackoffMax,
		CallTimeout:       cfg.Dispatch.CallTimeout,
		RateLimit:         cfg.Dispatch.RateLimit,
		RateBurst:         cfg.Dispatch.RateBurst,
		LockTTL:           cfg.Lock.TTL,
		NotFoundGrace:     cfg.Dispatch.NotFoundGrace,
		StalePendingAfter: cfg.Dispatch.StalePendingAt,
	}, log)
	methodReconciler := usecase.NewPaymentMethodReconciler(st.methods, dispatcher, log)
	bindingUseCase := usecase.NewAccountBindingUseCase(st.bindings, gateways, log)

	reconciler := worker.NewReconciler(st.operations, dispatcher, worker.Config{
		Interval:     cfg.Worker.Interval,
		BatchSize:    cfg.Worker.BatchSize,
		Workers:      cfg.Worker.Workers,
		StalePending: cfg.Dispatch.StalePendingAt,
	}, log)

	return &dependencies{
		operationHandler: handlers.NewPaymentOperationHandler(dispatcher, log),
		methodHandler:    handlers.NewPaymentMethodHandler(methodReconciler, log),
		bindingHandler:   handlers.NewAccountBindingHandler(bindingUseCase),
		reconciler:       reconciler,
	}, cleanup, nil
}

func buildStores(cfg config.StoreConfig, awsCfg aws.Config, log *zap.Logger, closers *[]func()) (stores, error) {
	switch cfg.Driver {
	case config.StoreDriverBolt:
		db, err := database.OpenBolt(cfg.BoltPath)
		if err != nil {
			return stores{}, fmt.Errorf("open bolt store %s: %w", cfg.BoltPath, err)
		}
		*closers = append(*closers, func() { _ = db.Close() })
		log.Info("[bootstrap] using bolt store", zap.String("path", cfg.BoltPath))
		return stores{
			operations: repository.NewPaymentOperationBoltRepository(db),
			methods:    repository.NewPaymentMethodBoltRepository(db),
			bindings:   repository.NewAccountBindingBoltRepository(db),
		}, nil
	default:
		ddb := database.ConnectDynamoDB(awsCfg)
		log.Info("[bootstrap] using dynamodb store", zap.String("operations_table", cfg.OperationsTable))
		return stores{
			operations: repository.NewPaymentOperationDynamoRepository(ddb, cfg.OperationsTable),
			methods:    repository.NewPaymentMethodDynamoRepository(ddb, cfg.PaymentMethodsTable),
			bindings:   repository.NewAccountBindingDynamoRepository(ddb, cfg.AccountBindingsTable),
		}, nil
	}
}

// buildGateways registers every configured adapter. In mock mode the sandbox
// answers for every gateway kind and no real credentials are needed.
func buildGateways(cfg config.GatewaysConfig, log *zap.Logger) (usecase.GatewayRegistry, error) {
	registry := usecase.GatewayRegistry{}
	if cfg.MockMode {
		sandbox := payments.NewSandboxGateway(log)
		for _, kind := range []entities.GatewayKind{entities.GatewayStripe, entities.GatewayMercadoPago, entities.GatewaySandbox} {
			registry[kind] = sandbox
		}
		log.Warn("[bootstrap] payment gateway mock mode enabled; no real gateway will be called")
		return registry, nil
	}

	var adapters []interfaces.IGatewayAdapter
	if cfg.StripeSecretKey != "" {
		g, err := payments.NewStripeGateway(cfg.StripeSecretKey, log)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, g)
	} else {
		log.Info("[bootstrap] stripe gateway not configured")
	}
	if cfg.MercadoPagoAccessToken != "" {
		g, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken, cfg.MercadoPagoCurrency, log)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, g)
	} else {
		log.Info("[bootstrap] mercado pago gateway not configured")
	}

	for _, a := range adapters {
		registry[a.Kind()] = a
		log.Info("[bootstrap] gateway registered", zap.String("gateway", string(a.Kind())))
	}
	if len(registry) == 0 {
		return nil, errors.New("no payment gateway configured: set STRIPE_SECRET_KEY, MERCADOPAGO_ACCESS_TOKEN or PAYMENT_GATEWAY_MOCK")
	}
	return registry, nil
}

// buildLocker returns nil without REDIS_ADDR; the dispatcher then locks keys
// in process only, which is correct for a single replica.
func buildLocker(ctx context.Context, cfg config.LockConfig, log *zap.Logger, closers *[]func()) (interfaces.IKeyLocker, error) {
	if cfg.RedisAddr == "" {
		log.Warn("[bootstrap] REDIS_ADDR not set; idempotency keys are locked per process only")
		return nil, nil
	}
	client, err := lock.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	*closers = append(*closers, func() { _ = client.Close() })
	return lock.NewRedisLocker(client), nil
}

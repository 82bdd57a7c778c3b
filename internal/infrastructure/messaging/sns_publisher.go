package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const EventOperationStatusChanged = "payment_operation.status_changed"

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// OperationEvent is the message body published for every status change.
type OperationEvent struct {
	EventType        string          `json:"event_type"`
	IdempotencyKey   string          `json:"idempotency_key"`
	Kind             string          `json:"kind"`
	AccountID        string          `json:"account_id"`
	BillingPaymentID string          `json:"billing_payment_id"`
	Gateway          string          `json:"gateway"`
	Status           string          `json:"status"`
	FailureKind      string          `json:"failure_kind,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	TransactionID    string          `json:"transaction_id,omitempty"`
	OccurredAt       time.Time       `json:"occurred_at"`
}

// SNSPublisher announces operation outcomes on an SNS topic.
type SNSPublisher struct {
	client   snsAPI
	topicARN string
	log      *zap.Logger
}

var _ interfaces.IOutcomePublisher = (*SNSPublisher)(nil)

func NewSNSPublisher(cfg aws.Config, topicARN string, log *zap.Logger) *SNSPublisher {
	return newSNSPublisher(sns.NewFromConfig(cfg), topicARN, log)
}

func newSNSPublisher(client snsAPI, topicARN string, log *zap.Logger) *SNSPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &SNSPublisher{client: client, topicARN: topicARN, log: log}
}

func (p *SNSPublisher) Publish(ctx context.Context, op entities.PaymentOperation) error {
	msg, err := json.Marshal(OperationEvent{
		EventType:        EventOperationStatusChanged,
		IdempotencyKey:   op.IdempotencyKey,
		Kind:             string(op.Kind),
		AccountID:        op.AccountID.String(),
		BillingPaymentID: op.BillingPaymentID.String(),
		Gateway:          string(op.Gateway),
		Status:           string(op.Status),
		FailureKind:      string(op.FailureKind),
		Amount:           op.Amount,
		Currency:         op.Currency,
		TransactionID:    op.GatewayRecord.TransactionID,
		OccurredAt:       op.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(msg)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(EventOperationStatusChanged)},
			"status":     {DataType: aws.String("String"), StringValue: aws.String(string(op.Status))},
			"kind":       {DataType: aws.String("String"), StringValue: aws.String(string(op.Kind))},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", p.topicARN, err)
	}
	p.log.Debug("[payment][events] published",
		zap.String("idempotency_key", op.IdempotencyKey),
		zap.String("status", string(op.Status)),
	)
	return nil
}

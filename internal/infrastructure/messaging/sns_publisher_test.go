package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"billing_gateway/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestSNSPublisher_Publish(t *testing.T) {
	fake := &fakeSNS{}
	p := newSNSPublisher(fake, "arn:aws:sns:us-east-1:000000000000:payment-outcomes", nil)

	op := entities.PaymentOperation{
		IdempotencyKey:   "k1",
		Kind:             entities.OperationKindCharge,
		AccountID:        uuid.New(),
		BillingPaymentID: uuid.New(),
		Amount:           decimal.RequireFromString("50.00"),
		Currency:         "USD",
		Status:           entities.OperationStatusSucceeded,
		Gateway:          entities.GatewayStripe,
		GatewayRecord:    entities.GatewayRecord{TransactionID: "pi_1"},
	}
	if err := p.Publish(context.Background(), op); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if aws.ToString(fake.input.TopicArn) != "arn:aws:sns:us-east-1:000000000000:payment-outcomes" {
		t.Fatalf("unexpected topic %q", aws.ToString(fake.input.TopicArn))
	}
	var ev OperationEvent
	if err := json.Unmarshal([]byte(aws.ToString(fake.input.Message)), &ev); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if ev.Status != "succeeded" || ev.TransactionID != "pi_1" || ev.EventType != EventOperationStatusChanged {
		t.Fatalf("unexpected event %+v", ev)
	}
	if aws.ToString(fake.input.MessageAttributes["status"].StringValue) != "succeeded" {
		t.Fatalf("missing status attribute")
	}
}

func TestSNSPublisher_PublishError(t *testing.T) {
	fake := &fakeSNS{err: errors.New("throttled")}
	p := newSNSPublisher(fake, "arn", nil)
	if err := p.Publish(context.Background(), entities.PaymentOperation{IdempotencyKey: "k"}); err == nil {
		t.Fatalf("expected error")
	}
}

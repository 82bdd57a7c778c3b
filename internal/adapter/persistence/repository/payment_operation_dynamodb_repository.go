package repository

import (
	"context"
	"errors"
	"time"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	operationsBillingPaymentIndex  = "billing_payment_id-index"
	operationsOriginalPaymentIndex = "original_payment_id-index"
	operationsStatusIndex          = "status-index"
)

type gatewayRecordItem struct {
	TransactionID string `dynamodbav:"transaction_id,omitempty"`
	Amount        string `dynamodbav:"amount,omitempty"`
	Currency      string `dynamodbav:"currency,omitempty"`
	RawStatus     string `dynamodbav:"raw_status,omitempty"`
	Timestamp     string `dynamodbav:"timestamp,omitempty"`
	Raw           string `dynamodbav:"raw,omitempty"`
}

type attemptItem struct {
	Number     int    `dynamodbav:"number"`
	Action     string `dynamodbav:"action"`
	StartedAt  string `dynamodbav:"started_at"`
	FinishedAt string `dynamodbav:"finished_at"`
	Outcome    string `dynamodbav:"outcome"`
	RawStatus  string `dynamodbav:"raw_status,omitempty"`
	Error      string `dynamodbav:"error,omitempty"`
}

type paymentOperationItem struct {
	IdempotencyKey        string            `dynamodbav:"idempotency_key"`
	Kind                  string            `dynamodbav:"kind"`
	AccountID             string            `dynamodbav:"account_id"`
	BillingPaymentID      string            `dynamodbav:"billing_payment_id"`
	MethodID              string            `dynamodbav:"payment_method_id,omitempty"`
	OriginalPaymentID     string            `dynamodbav:"original_payment_id,omitempty"`
	OriginalTransactionID string            `dynamodbav:"original_transaction_id,omitempty"`
	Amount                string            `dynamodbav:"amount"`
	Currency              string            `dynamodbav:"currency"`
	Status                string            `dynamodbav:"status"`
	FailureKind           string            `dynamodbav:"failure_kind,omitempty"`
	LastError             string            `dynamodbav:"last_error,omitempty"`
	Gateway               string            `dynamodbav:"gateway"`
	CustomerRef           string            `dynamodbav:"customer_ref,omitempty"`
	GatewayRecord         gatewayRecordItem `dynamodbav:"gateway_record"`
	Attempts              []attemptItem     `dynamodbav:"attempts,omitempty"`
	CreatedAt             string            `dynamodbav:"created_at"`
	UpdatedAt             string            `dynamodbav:"updated_at"`
}

// PaymentOperationDynamoRepository persists PaymentOperation entities in DynamoDB.
//
// Table requirements:
//   - PK: idempotency_key (string)
//   - GSI: billing_payment_id-index (PK: billing_payment_id, SK: created_at)
//   - GSI: original_payment_id-index (PK: original_payment_id, SK: created_at), sparse
//   - GSI: status-index (PK: status, SK: updated_at)
type PaymentOperationDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IPaymentOperationRepository = (*PaymentOperationDynamoRepository)(nil)

func NewPaymentOperationDynamoRepository(ddb *dynamodb.Client, tableName string) *PaymentOperationDynamoRepository {
	return &PaymentOperationDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *PaymentOperationDynamoRepository) Create(ctx context.Context, op entities.PaymentOperation) (entities.PaymentOperation, bool, error) {
	av, err := attributevalue.MarshalMap(toPaymentOperationItem(op))
	if err != nil {
		return entities.PaymentOperation{}, false, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#key)"),
		ExpressionAttributeNames: map[string]string{
			"#key": "idempotency_key",
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			existing, gerr := r.GetByIdempotencyKey(ctx, op.IdempotencyKey)
			if gerr != nil {
				return entities.PaymentOperation{}, false, gerr
			}
			return existing, false, nil
		}
		return entities.PaymentOperation{}, false, err
	}
	return op, true, nil
}

func (r *PaymentOperationDynamoRepository) GetByIdempotencyKey(ctx context.Context, key string) (entities.PaymentOperation, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"idempotency_key": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentOperation{}, err
	}
	if len(out.Item) == 0 {
		return entities.PaymentOperation{}, nil
	}

	var it paymentOperationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.PaymentOperation{}, err
	}
	return fromPaymentOperationItem(it), nil
}

// Save overwrites the operation only while its stored status is still expected.
func (r *PaymentOperationDynamoRepository) Save(ctx context.Context, op entities.PaymentOperation, expected entities.OperationStatus) (entities.PaymentOperation, error) {
	av, err := attributevalue.MarshalMap(toPaymentOperationItem(op))
	if err != nil {
		return entities.PaymentOperation{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#key) AND #status = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#key":    "idempotency_key",
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberS{Value: string(expected)},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return entities.PaymentOperation{}, interfaces.ErrStaleOperation
		}
		return entities.PaymentOperation{}, err
	}
	return op, nil
}

func (r *PaymentOperationDynamoRepository) ListByBillingPaymentID(ctx context.Context, billingPaymentID uuid.UUID) ([]entities.PaymentOperation, error) {
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(operationsBillingPaymentIndex),
		KeyConditionExpression: aws.String("billing_payment_id = :bid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":bid": &types.AttributeValueMemberS{Value: billingPaymentID.String()},
		},
	}, 0)
}

func (r *PaymentOperationDynamoRepository) ListRefundsByOriginalPaymentID(ctx context.Context, originalPaymentID uuid.UUID) ([]entities.PaymentOperation, error) {
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(operationsOriginalPaymentIndex),
		KeyConditionExpression: aws.String("original_payment_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: originalPaymentID.String()},
		},
	}, 0)
}

func (r *PaymentOperationDynamoRepository) ListByStatus(ctx context.Context, status entities.OperationStatus, updatedBefore time.Time, limit int) ([]entities.PaymentOperation, error) {
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(operationsStatusIndex),
		KeyConditionExpression: aws.String("#status = :status AND updated_at < :before"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
			":before": &types.AttributeValueMemberS{Value: formatTime(updatedBefore)},
		},
	}, limit)
}

func (r *PaymentOperationDynamoRepository) query(ctx context.Context, in *dynamodb.QueryInput, limit int) ([]entities.PaymentOperation, error) {
	items := []entities.PaymentOperation{}
	p := dynamodb.NewQueryPaginator(r.ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var it paymentOperationItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromPaymentOperationItem(it))
			if limit > 0 && len(items) >= limit {
				return items, nil
			}
		}
	}
	return items, nil
}

func toPaymentOperationItem(op entities.PaymentOperation) paymentOperationItem {
	attempts := make([]attemptItem, 0, len(op.Attempts))
	for _, a := range op.Attempts {
		attempts = append(attempts, attemptItem{
			Number:     a.Number,
			Action:     a.Action,
			StartedAt:  formatTime(a.StartedAt),
			FinishedAt: formatTime(a.FinishedAt),
			Outcome:    a.Outcome,
			RawStatus:  a.RawStatus,
			Error:      a.Error,
		})
	}

	rec := gatewayRecordItem{
		TransactionID: op.GatewayRecord.TransactionID,
		Currency:      op.GatewayRecord.Currency,
		RawStatus:     op.GatewayRecord.RawStatus,
		Timestamp:     formatTime(op.GatewayRecord.Timestamp),
		Raw:           string(op.GatewayRecord.Raw),
	}
	if !op.GatewayRecord.IsZero() {
		rec.Amount = op.GatewayRecord.Amount.String()
	}

	return paymentOperationItem{
		IdempotencyKey:        op.IdempotencyKey,
		Kind:                  string(op.Kind),
		AccountID:             uuidString(op.AccountID),
		BillingPaymentID:      uuidString(op.BillingPaymentID),
		MethodID:              uuidString(op.MethodID),
		OriginalPaymentID:     uuidString(op.OriginalPaymentID),
		OriginalTransactionID: op.OriginalTransactionID,
		Amount:                op.Amount.String(),
		Currency:              op.Currency,
		Status:                string(op.Status),
		FailureKind:           string(op.FailureKind),
		LastError:             op.LastError,
		Gateway:               string(op.Gateway),
		CustomerRef:           op.CustomerRef,
		GatewayRecord:         rec,
		Attempts:              attempts,
		CreatedAt:             formatTime(op.CreatedAt),
		UpdatedAt:             formatTime(op.UpdatedAt),
	}
}

func fromPaymentOperationItem(it paymentOperationItem) entities.PaymentOperation {
	attempts := make([]entities.AttemptLog, 0, len(it.Attempts))
	for _, a := range it.Attempts {
		attempts = append(attempts, entities.AttemptLog{
			Number:     a.Number,
			Action:     a.Action,
			StartedAt:  parseTime(a.StartedAt),
			FinishedAt: parseTime(a.FinishedAt),
			Outcome:    a.Outcome,
			RawStatus:  a.RawStatus,
			Error:      a.Error,
		})
	}

	amount, _ := decimal.NewFromString(it.Amount)
	recAmount, _ := decimal.NewFromString(it.GatewayRecord.Amount)
	var raw []byte
	if it.GatewayRecord.Raw != "" {
		raw = []byte(it.GatewayRecord.Raw)
	}

	return entities.PaymentOperation{
		IdempotencyKey:        it.IdempotencyKey,
		Kind:                  entities.OperationKind(it.Kind),
		AccountID:             parseUUID(it.AccountID),
		BillingPaymentID:      parseUUID(it.BillingPaymentID),
		MethodID:              parseUUID(it.MethodID),
		OriginalPaymentID:     parseUUID(it.OriginalPaymentID),
		OriginalTransactionID: it.OriginalTransactionID,
		Amount:                amount,
		Currency:              it.Currency,
		Status:                entities.OperationStatus(it.Status),
		FailureKind:           entities.FailureKind(it.FailureKind),
		LastError:             it.LastError,
		Gateway:               entities.GatewayKind(it.Gateway),
		CustomerRef:           it.CustomerRef,
		GatewayRecord: entities.GatewayRecord{
			TransactionID: it.GatewayRecord.TransactionID,
			Amount:        recAmount,
			Currency:      it.GatewayRecord.Currency,
			RawStatus:     it.GatewayRecord.RawStatus,
			Timestamp:     parseTime(it.GatewayRecord.Timestamp),
			Raw:           raw,
		},
		Attempts:  attempts,
		CreatedAt: parseTime(it.CreatedAt),
		UpdatedAt: parseTime(it.UpdatedAt),
	}
}

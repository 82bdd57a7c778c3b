package repository

import (
	"context"
	"errors"
	"strconv"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type propertyItem struct {
	Key   string `dynamodbav:"key"`
	Value string `dynamodbav:"value"`
}

type paymentMethodItem struct {
	BillingMethodID    string         `dynamodbav:"billing_method_id"`
	GatewayMethodToken string         `dynamodbav:"gateway_method_token"`
	IsDefault          bool           `dynamodbav:"is_default"`
	Properties         []propertyItem `dynamodbav:"properties,omitempty"`
	LastSyncedAt       string         `dynamodbav:"last_synced_at,omitempty"`
	NewlySynced        bool           `dynamodbav:"newly_synced"`
	Removed            bool           `dynamodbav:"removed"`
	RemovedAt          string         `dynamodbav:"removed_at,omitempty"`
}

type paymentMethodSetItem struct {
	AccountID string              `dynamodbav:"account_id"`
	Version   int64               `dynamodbav:"version"`
	Methods   []paymentMethodItem `dynamodbav:"methods"`
	UpdatedAt string              `dynamodbav:"updated_at"`
}

// PaymentMethodDynamoRepository stores each account's method list as one item
// so a replace is a single conditional write.
//
// Table requirements:
//   - PK: account_id (string)
type PaymentMethodDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IPaymentMethodRepository = (*PaymentMethodDynamoRepository)(nil)

func NewPaymentMethodDynamoRepository(ddb *dynamodb.Client, tableName string) *PaymentMethodDynamoRepository {
	return &PaymentMethodDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *PaymentMethodDynamoRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (entities.PaymentMethodSet, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"account_id": &types.AttributeValueMemberS{Value: accountID.String()},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentMethodSet{}, err
	}
	if len(out.Item) == 0 {
		return entities.PaymentMethodSet{AccountID: accountID}, nil
	}

	var it paymentMethodSetItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.PaymentMethodSet{}, err
	}
	return fromPaymentMethodSetItem(it), nil
}

func (r *PaymentMethodDynamoRepository) Replace(ctx context.Context, set entities.PaymentMethodSet, expectedVersion int64) (entities.PaymentMethodSet, error) {
	set.Version = expectedVersion + 1
	av, err := attributevalue.MarshalMap(toPaymentMethodSetItem(set))
	if err != nil {
		return entities.PaymentMethodSet{}, err
	}

	in := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}
	if expectedVersion == 0 {
		in.ConditionExpression = aws.String("attribute_not_exists(account_id)")
	} else {
		in.ConditionExpression = aws.String("#version = :expected")
		in.ExpressionAttributeNames = map[string]string{"#version": "version"}
		in.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
		}
	}

	if _, err := r.ddb.PutItem(ctx, in); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return entities.PaymentMethodSet{}, interfaces.ErrVersionConflict
		}
		return entities.PaymentMethodSet{}, err
	}
	return set, nil
}

func toPaymentMethodSetItem(set entities.PaymentMethodSet) paymentMethodSetItem {
	methods := make([]paymentMethodItem, 0, len(set.Methods))
	for _, m := range set.Methods {
		props := make([]propertyItem, 0, len(m.Properties))
		for _, p := range m.Properties {
			props = append(props, propertyItem{Key: p.Key, Value: p.Value})
		}
		it := paymentMethodItem{
			BillingMethodID:    uuidString(m.BillingMethodID),
			GatewayMethodToken: m.GatewayMethodToken,
			IsDefault:          m.IsDefault,
			Properties:         props,
			LastSyncedAt:       formatTime(m.LastSyncedAt),
			NewlySynced:        m.NewlySynced,
			Removed:            m.Removed,
		}
		if m.RemovedAt != nil {
			it.RemovedAt = formatTime(*m.RemovedAt)
		}
		methods = append(methods, it)
	}
	return paymentMethodSetItem{
		AccountID: set.AccountID.String(),
		Version:   set.Version,
		Methods:   methods,
		UpdatedAt: formatTime(set.UpdatedAt),
	}
}

func fromPaymentMethodSetItem(it paymentMethodSetItem) entities.PaymentMethodSet {
	methods := make([]entities.PaymentMethod, 0, len(it.Methods))
	for _, m := range it.Methods {
		var props []entities.Property
		for _, p := range m.Properties {
			props = append(props, entities.Property{Key: p.Key, Value: p.Value})
		}
		pm := entities.PaymentMethod{
			BillingMethodID:    parseUUID(m.BillingMethodID),
			GatewayMethodToken: m.GatewayMethodToken,
			IsDefault:          m.IsDefault,
			Properties:         props,
			LastSyncedAt:       parseTime(m.LastSyncedAt),
			NewlySynced:        m.NewlySynced,
			Removed:            m.Removed,
		}
		if m.RemovedAt != "" {
			t := parseTime(m.RemovedAt)
			pm.RemovedAt = &t
		}
		methods = append(methods, pm)
	}
	return entities.PaymentMethodSet{
		AccountID: parseUUID(it.AccountID),
		Version:   it.Version,
		Methods:   methods,
		UpdatedAt: parseTime(it.UpdatedAt),
	}
}

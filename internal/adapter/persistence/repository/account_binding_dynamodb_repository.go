package repository

import (
	"context"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type accountBindingItem struct {
	AccountID   string `dynamodbav:"account_id"`
	Gateway     string `dynamodbav:"gateway"`
	CustomerRef string `dynamodbav:"customer_ref"`
	UpdatedAt   string `dynamodbav:"updated_at"`
}

// AccountBindingDynamoRepository persists account to gateway bindings.
//
// Table requirements:
//   - PK: account_id (string)
type AccountBindingDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IAccountBindingRepository = (*AccountBindingDynamoRepository)(nil)

func NewAccountBindingDynamoRepository(ddb *dynamodb.Client, tableName string) *AccountBindingDynamoRepository {
	return &AccountBindingDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *AccountBindingDynamoRepository) Get(ctx context.Context, accountID uuid.UUID) (entities.AccountBinding, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"account_id": &types.AttributeValueMemberS{Value: accountID.String()},
		},
	})
	if err != nil {
		return entities.AccountBinding{}, err
	}
	if len(out.Item) == 0 {
		return entities.AccountBinding{}, nil
	}

	var it accountBindingItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.AccountBinding{}, err
	}
	return entities.AccountBinding{
		AccountID:   parseUUID(it.AccountID),
		Gateway:     entities.GatewayKind(it.Gateway),
		CustomerRef: it.CustomerRef,
		UpdatedAt:   parseTime(it.UpdatedAt),
	}, nil
}

func (r *AccountBindingDynamoRepository) Put(ctx context.Context, b entities.AccountBinding) (entities.AccountBinding, error) {
	av, err := attributevalue.MarshalMap(accountBindingItem{
		AccountID:   b.AccountID.String(),
		Gateway:     string(b.Gateway),
		CustomerRef: b.CustomerRef,
		UpdatedAt:   formatTime(b.UpdatedAt),
	})
	if err != nil {
		return entities.AccountBinding{}, err
	}
	if _, err := r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return entities.AccountBinding{}, err
	}
	return b, nil
}

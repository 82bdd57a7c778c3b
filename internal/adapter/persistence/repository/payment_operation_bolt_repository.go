package repository

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/infrastructure/database"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"
)

// PaymentOperationBoltRepository keeps the operation log in a BoltDB bucket
// keyed by idempotency key. List queries scan the bucket.
type PaymentOperationBoltRepository struct {
	db *bolt.DB
}

var _ interfaces.IPaymentOperationRepository = (*PaymentOperationBoltRepository)(nil)

func NewPaymentOperationBoltRepository(db *bolt.DB) *PaymentOperationBoltRepository {
	return &PaymentOperationBoltRepository{db: db}
}

// Create inserts op unless the key exists, in which case the stored operation
// is returned with created=false.
func (r *PaymentOperationBoltRepository) Create(_ context.Context, op entities.PaymentOperation) (entities.PaymentOperation, bool, error) {
	var result entities.PaymentOperation
	created := false

	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(database.BucketPaymentOperations))
		if existing := b.Get([]byte(op.IdempotencyKey)); existing != nil {
			return json.Unmarshal(existing, &result)
		}
		data, err := json.Marshal(op)
		if err != nil {
			return err
		}
		result = op
		created = true
		return b.Put([]byte(op.IdempotencyKey), data)
	})
	if err != nil {
		return entities.PaymentOperation{}, false, err
	}
	return result, created, nil
}

func (r *PaymentOperationBoltRepository) GetByIdempotencyKey(_ context.Context, key string) (entities.PaymentOperation, error) {
	var op entities.PaymentOperation
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(database.BucketPaymentOperations)).Get([]byte(key))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &op)
	})
	if err != nil {
		return entities.PaymentOperation{}, err
	}
	return op, nil
}

func (r *PaymentOperationBoltRepository) Save(_ context.Context, op entities.PaymentOperation, expected entities.OperationStatus) (entities.PaymentOperation, error) {
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(database.BucketPaymentOperations))
		raw := b.Get([]byte(op.IdempotencyKey))
		if raw == nil {
			return interfaces.ErrStaleOperation
		}
		var current entities.PaymentOperation
		if err := json.Unmarshal(raw, &current); err != nil {
			return err
		}
		if current.Status != expected {
			return interfaces.ErrStaleOperation
		}
		data, err := json.Marshal(op)
		if err != nil {
			return err
		}
		return b.Put([]byte(op.IdempotencyKey), data)
	})
	if err != nil {
		return entities.PaymentOperation{}, err
	}
	return op, nil
}

func (r *PaymentOperationBoltRepository) ListByBillingPaymentID(_ context.Context, billingPaymentID uuid.UUID) ([]entities.PaymentOperation, error) {
	items, err := r.scan(func(op entities.PaymentOperation) bool {
		return op.BillingPaymentID == billingPaymentID
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r *PaymentOperationBoltRepository) ListRefundsByOriginalPaymentID(_ context.Context, originalPaymentID uuid.UUID) ([]entities.PaymentOperation, error) {
	items, err := r.scan(func(op entities.PaymentOperation) bool {
		return op.Kind == entities.OperationKindRefund && op.OriginalPaymentID == originalPaymentID
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r *PaymentOperationBoltRepository) ListByStatus(_ context.Context, status entities.OperationStatus, updatedBefore time.Time, limit int) ([]entities.PaymentOperation, error) {
	items, err := r.scan(func(op entities.PaymentOperation) bool {
		return op.Status == status && op.UpdatedAt.Before(updatedBefore)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UpdatedAt.Before(items[j].UpdatedAt) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *PaymentOperationBoltRepository) scan(match func(entities.PaymentOperation) bool) ([]entities.PaymentOperation, error) {
	items := []entities.PaymentOperation{}
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(database.BucketPaymentOperations)).ForEach(func(_, v []byte) error {
			var op entities.PaymentOperation
			if err := json.Unmarshal(v, &op); err != nil {
				return err
			}
			if match(op) {
				items = append(items, op)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

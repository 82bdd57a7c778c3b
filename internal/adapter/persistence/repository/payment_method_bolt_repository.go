package repository

import (
	"context"
	"encoding/json"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/infrastructure/database"
	"billing_gateway/internal/usecase/interfaces"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"
)

type PaymentMethodBoltRepository struct {
	db *bolt.DB
}

var _ interfaces.IPaymentMethodRepository = (*PaymentMethodBoltRepository)(nil)

func NewPaymentMethodBoltRepository(db *bolt.DB) *PaymentMethodBoltRepository {
	return &PaymentMethodBoltRepository{db: db}
}

func (r *PaymentMethodBoltRepository) GetByAccountID(_ context.Context, accountID uuid.UUID) (entities.PaymentMethodSet, error) {
	set := entities.PaymentMethodSet{AccountID: accountID}
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(database.BucketPaymentMethods)).Get([]byte(accountID.String()))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &set)
	})
	if err != nil {
		return entities.PaymentMethodSet{}, err
	}
	return set, nil
}

// Replace swaps the stored set inside one transaction.
func (r *PaymentMethodBoltRepository) Replace(_ context.Context, set entities.PaymentMethodSet, expectedVersion int64) (entities.PaymentMethodSet, error) {
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(database.BucketPaymentMethods))
		key := []byte(set.AccountID.String())

		var current entities.PaymentMethodSet
		if v := b.Get(key); v != nil {
			if err := json.Unmarshal(v, &current); err != nil {
				return err
			}
		}
		if current.Version != expectedVersion {
			return interfaces.ErrVersionConflict
		}

		set.Version = expectedVersion + 1
		data, err := json.Marshal(set)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
	if err != nil {
		return entities.PaymentMethodSet{}, err
	}
	return set, nil
}

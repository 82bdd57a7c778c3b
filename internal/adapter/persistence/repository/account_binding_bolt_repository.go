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

type AccountBindingBoltRepository struct {
	db *bolt.DB
}

var _ interfaces.IAccountBindingRepository = (*AccountBindingBoltRepository)(nil)

func NewAccountBindingBoltRepository(db *bolt.DB) *AccountBindingBoltRepository {
	return &AccountBindingBoltRepository{db: db}
}

func (r *AccountBindingBoltRepository) Get(_ context.Context, accountID uuid.UUID) (entities.AccountBinding, error) {
	var b entities.AccountBinding
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(database.BucketAccountBindings)).Get([]byte(accountID.String()))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &b)
	})
	if err != nil {
		return entities.AccountBinding{}, err
	}
	return b, nil
}

func (r *AccountBindingBoltRepository) Put(_ context.Context, b entities.AccountBinding) (entities.AccountBinding, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return entities.AccountBinding{}, err
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(database.BucketAccountBindings)).Put([]byte(b.AccountID.String()), data)
	})
	if err != nil {
		return entities.AccountBinding{}, err
	}
	return b, nil
}

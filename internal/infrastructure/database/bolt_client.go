package database

import (
	"time"

	"github.com/boltdb/bolt"
)

const (
	BucketPaymentOperations = "payment_operations"
	BucketPaymentMethods    = "payment_methods"
	BucketAccountBindings   = "account_bindings"
)

// OpenBolt opens (or creates) the embedded store used for local runs and tests
// and makes sure every bucket exists.
func OpenBolt(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{BucketPaymentOperations, BucketPaymentMethods, BucketAccountBindings} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OperationKind string

const (
	OperationKindCharge OperationKind = "charge"
	OperationKindRefund OperationKind = "refund"
)

// OperationStatus is the lifecycle state of a PaymentOperation.
//
// pending -> succeeded | declined | failed | in_doubt
// in_doubt -> succeeded | declined | failed (reconciliation only)
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusSucceeded OperationStatus = "succeeded"
	OperationStatusDeclined  OperationStatus = "declined"
	OperationStatusInDoubt   OperationStatus = "in_doubt"
	OperationStatusFailed    OperationStatus = "failed"
)

func (s OperationStatus) IsTerminal() bool {
	switch s {
	case OperationStatusSucceeded, OperationStatusDeclined, OperationStatusFailed:
		return true
	}
	return false
}

// FailureKind tells why a failed operation failed.
type FailureKind string

const (
	FailureKindNone      FailureKind = ""
	FailureKindPermanent FailureKind = "permanent"
	FailureKindTransport FailureKind = "transport"
)

// GatewayRecord is the read-only snapshot of the gateway's view of a transaction.
type GatewayRecord struct {
	TransactionID string          `json:"transaction_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	RawStatus     string          `json:"raw_status,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	Raw           json.RawMessage `json:"raw,omitempty"`
}

func (r GatewayRecord) IsZero() bool {
	return r.TransactionID == "" && r.RawStatus == "" && len(r.Raw) == 0
}

// AttemptLog is one entry of the append-only audit trail of an operation.
type AttemptLog struct {
	Number     int       `json:"number"`
	Action     string    `json:"action"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcome    string    `json:"outcome"`
	RawStatus  string    `json:"raw_status,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// PaymentOperation is one charge or refund request and its gateway outcome.
//
// Storage model (DynamoDB):
//   - PK: idempotency_key
//   - GSI billing_payment_id-index: billing_payment_id / created_at
//   - GSI original_payment_id-index: original_payment_id (refunds only)
//   - GSI status-index: status / updated_at
type PaymentOperation struct {
	IdempotencyKey   string          `json:"idempotency_key"`
	Kind             OperationKind   `json:"kind"`
	AccountID        uuid.UUID       `json:"account_id"`
	BillingPaymentID uuid.UUID       `json:"billing_payment_id"`
	MethodID         uuid.UUID       `json:"payment_method_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Status           OperationStatus `json:"status"`
	FailureKind      FailureKind     `json:"failure_kind,omitempty"`
	LastError        string          `json:"last_error,omitempty"`

	// Refunds only.
	OriginalPaymentID     uuid.UUID `json:"original_payment_id"`
	OriginalTransactionID string    `json:"original_transaction_id,omitempty"`

	Gateway       GatewayKind   `json:"gateway"`
	CustomerRef   string        `json:"customer_ref,omitempty"`
	GatewayRecord GatewayRecord `json:"gateway_record"`
	Attempts      []AttemptLog  `json:"attempts,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (op PaymentOperation) Exists() bool {
	return op.IdempotencyKey != ""
}

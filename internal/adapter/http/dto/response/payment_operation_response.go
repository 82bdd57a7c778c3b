package response

import (
	"time"

	"billing_gateway/internal/domain/entities"

	"github.com/google/uuid"
)

type GatewayRecordResponse struct {
	TransactionID string    `json:"transaction_id,omitempty"`
	Amount        string    `json:"amount,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	RawStatus     string    `json:"raw_status,omitempty"`
	Timestamp     time.Time `json:"timestamp,omitzero"`
}

type AttemptResponse struct {
	Number     int       `json:"number"`
	Action     string    `json:"action"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcome    string    `json:"outcome"`
	RawStatus  string    `json:"raw_status,omitempty"`
	Error      string    `json:"error,omitempty"`
}

type PaymentOperationResponse struct {
	IdempotencyKey        string                 `json:"idempotency_key"`
	Kind                  string                 `json:"kind"`
	AccountID             string                 `json:"account_id"`
	BillingPaymentID      string                 `json:"billing_payment_id"`
	PaymentMethodID       string                 `json:"payment_method_id,omitempty"`
	OriginalPaymentID     string                 `json:"original_payment_id,omitempty"`
	OriginalTransactionID string                 `json:"original_transaction_id,omitempty"`
	Amount                string                 `json:"amount"`
	Currency              string                 `json:"currency"`
	Status                string                 `json:"status"`
	FailureKind           string                 `json:"failure_kind,omitempty"`
	LastError             string                 `json:"last_error,omitempty"`
	Gateway               string                 `json:"gateway"`
	GatewayRecord         *GatewayRecordResponse `json:"gateway_record,omitempty"`
	Attempts              []AttemptResponse      `json:"attempts"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
}

func FromPaymentOperation(op entities.PaymentOperation) PaymentOperationResponse {
	attempts := make([]AttemptResponse, 0, len(op.Attempts))
	for _, a := range op.Attempts {
		attempts = append(attempts, AttemptResponse{
			Number:     a.Number,
			Action:     a.Action,
			StartedAt:  a.StartedAt,
			FinishedAt: a.FinishedAt,
			Outcome:    a.Outcome,
			RawStatus:  a.RawStatus,
			Error:      a.Error,
		})
	}
	return PaymentOperationResponse{
		IdempotencyKey:        op.IdempotencyKey,
		Kind:                  string(op.Kind),
		AccountID:             op.AccountID.String(),
		BillingPaymentID:      op.BillingPaymentID.String(),
		PaymentMethodID:       idString(op.MethodID),
		OriginalPaymentID:     idString(op.OriginalPaymentID),
		OriginalTransactionID: op.OriginalTransactionID,
		Amount:                op.Amount.String(),
		Currency:              op.Currency,
		Status:                string(op.Status),
		FailureKind:           string(op.FailureKind),
		LastError:             op.LastError,
		Gateway:               string(op.Gateway),
		GatewayRecord:         FromGatewayRecord(op.GatewayRecord),
		Attempts:              attempts,
		CreatedAt:             op.CreatedAt,
		UpdatedAt:             op.UpdatedAt,
	}
}

func FromPaymentOperations(ops []entities.PaymentOperation) []PaymentOperationResponse {
	out := make([]PaymentOperationResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, FromPaymentOperation(op))
	}
	return out
}

// FromGatewayRecord returns nil for an empty record.
func FromGatewayRecord(r entities.GatewayRecord) *GatewayRecordResponse {
	if r.IsZero() {
		return nil
	}
	out := &GatewayRecordResponse{
		TransactionID: r.TransactionID,
		Currency:      r.Currency,
		RawStatus:     r.RawStatus,
		Timestamp:     r.Timestamp,
	}
	if !r.Amount.IsZero() {
		out.Amount = r.Amount.String()
	}
	return out
}

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

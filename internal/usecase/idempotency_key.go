package usecase

import (
	"strings"

	"billing_gateway/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const idempotencyKeyPrefix = "bgw1"

// DeriveIdempotencyKey builds the key of a charge or refund from its identity.
//
// Every component has a fixed alphabet without ':' (UUIDs, the kind, a
// normalized decimal, an upper-cased ISO code), so distinct inputs never map to
// the same key. Amounts that are numerically equal ("50", "50.00") give the
// same key. Callers validate the inputs first.
func DeriveIdempotencyKey(accountID, billingPaymentID uuid.UUID, kind entities.OperationKind, amount decimal.Decimal, currency string) string {
	var b strings.Builder
	b.Grow(128)
	b.WriteString(idempotencyKeyPrefix)
	b.WriteByte(':')
	b.WriteString(string(kind))
	b.WriteByte(':')
	b.WriteString(accountID.String())
	b.WriteByte(':')
	b.WriteString(billingPaymentID.String())
	b.WriteByte(':')
	b.WriteString(amount.String())
	b.WriteByte(':')
	b.WriteString(strings.ToUpper(strings.TrimSpace(currency)))
	return b.String()
}

package usecase

import (
	"errors"
	"fmt"

	"billing_gateway/internal/domain/entities"
	"billing_gateway/internal/usecase/interfaces"
)

// Taxonomy sentinels. Every *OperationError matches exactly one of them with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrDeclined   = errors.New("payment declined")
	ErrInDoubt    = errors.New("operation outcome unknown")
	ErrPermanent  = errors.New("permanent gateway error")
	ErrTransport  = errors.New("gateway unreachable")
)

var (
	ErrOperationNotFound     = errors.New("payment operation not found")
	ErrOperationInFlight     = errors.New("payment operation already in flight")
	ErrAccountNotBound       = errors.New("account has no gateway binding")
	ErrGatewayNotRegistered  = errors.New("gateway not registered")
	ErrMethodNotFound        = errors.New("payment method not found")
	ErrMethodAlreadyExists   = errors.New("payment method already exists")
	ErrMethodIntegrity       = errors.New("payment method token changed for the same billing method id")
	ErrOriginalNotSettled    = errors.New("original payment has no settled charge")
	ErrIdempotencyKeyReused  = errors.New("idempotency key reused with different parameters")
	ErrCapabilityUnsupported = interfaces.ErrCapabilityUnsupported
)

type ErrorKind string

const (
	ErrorKindNone       ErrorKind = ""
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindDeclined   ErrorKind = "declined"
	ErrorKindInDoubt    ErrorKind = "in_doubt"
	ErrorKindPermanent  ErrorKind = "permanent"
	ErrorKindTransport  ErrorKind = "transport"
)

func (k ErrorKind) sentinel() error {
	switch k {
	case ErrorKindValidation:
		return ErrValidation
	case ErrorKindDeclined:
		return ErrDeclined
	case ErrorKindInDoubt:
		return ErrInDoubt
	case ErrorKindPermanent:
		return ErrPermanent
	case ErrorKindTransport:
		return ErrTransport
	}
	return nil
}

// OperationError is the error surfaced to the billing core for charges,
// refunds and method calls. It always carries the idempotency key (when one
// was derived) and the last gateway record seen.
type OperationError struct {
	Kind           ErrorKind
	IdempotencyKey string
	Record         entities.GatewayRecord
	Reason         string
	Err            error
}

func (e *OperationError) Error() string {
	msg := string(e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.IdempotencyKey != "" {
		msg += fmt.Sprintf(" (idempotency_key=%s)", e.IdempotencyKey)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OperationError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the taxonomy kind of err, or ErrorKindNone for errors outside it.
func KindOf(err error) ErrorKind {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return ErrorKindNone
}

func validationError(key string, err error, reason string) error {
	return &OperationError{Kind: ErrorKindValidation, IdempotencyKey: key, Reason: reason, Err: err}
}

// errorForStatus rebuilds the error that belongs to a stored operation.
func errorForStatus(op entities.PaymentOperation) error {
	base := OperationError{IdempotencyKey: op.IdempotencyKey, Record: op.GatewayRecord, Reason: op.LastError}
	switch op.Status {
	case entities.OperationStatusSucceeded:
		return nil
	case entities.OperationStatusDeclined:
		base.Kind = ErrorKindDeclined
	case entities.OperationStatusInDoubt, entities.OperationStatusPending:
		base.Kind = ErrorKindInDoubt
	case entities.OperationStatusFailed:
		if op.FailureKind == entities.FailureKindTransport {
			base.Kind = ErrorKindTransport
		} else {
			base.Kind = ErrorKindPermanent
		}
	default:
		base.Kind = ErrorKindInDoubt
	}
	return &base
}

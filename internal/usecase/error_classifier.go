package usecase

import (
	"errors"

	"billing_gateway/internal/domain/entities"
)

// Outcome is the dispatcher's reading of one gateway call.
type Outcome string

const (
	OutcomeSuccess            Outcome = "success"
	OutcomeDeclined           Outcome = "declined"
	OutcomeRetryableTransient Outcome = "retryable_transient"
	OutcomeInDoubt            Outcome = "in_doubt"
	OutcomePermanentError     Outcome = "permanent_error"
)

var permanentCodes = map[entities.GatewayErrorCode]bool{
	entities.GatewayErrorInvalidCard:         true,
	entities.GatewayErrorInvalidAccount:      true,
	entities.GatewayErrorInvalidRequest:      true,
	entities.GatewayErrorUnauthorized:        true,
	entities.GatewayErrorIdempotencyConflict: true,
	entities.GatewayErrorRefundRejected:      true,
}

// ClassifyOutcome maps a raw adapter response to an Outcome. It is pure.
//
// A failure is only retryable when it is known that the gateway did not
// process the request: the adapter proved nothing was sent, or the gateway
// said so (rate limit, lock timeout). Anything the gateway may have acted on
// is in doubt.
func ClassifyOutcome(raw entities.RawOutcome, err error) Outcome {
	if err == nil {
		switch raw.Status {
		case entities.RawStatusSettled:
			return OutcomeSuccess
		case entities.RawStatusDeclined:
			return OutcomeDeclined
		default:
			return OutcomeInDoubt
		}
	}

	var preSend *entities.PreSendError
	if errors.As(err, &preSend) {
		return OutcomeRetryableTransient
	}

	var gwErr *entities.GatewayError
	if errors.As(err, &gwErr) {
		switch {
		case gwErr.Code == entities.GatewayErrorDeclined:
			return OutcomeDeclined
		case gwErr.Code == entities.GatewayErrorRateLimited, gwErr.Code == entities.GatewayErrorLockTimeout:
			return OutcomeRetryableTransient
		case permanentCodes[gwErr.Code]:
			return OutcomePermanentError
		}
	}

	// Timeouts, resets, 5xx and anything unrecognized.
	return OutcomeInDoubt
}

func outcomeToErrorKind(o Outcome) ErrorKind {
	switch o {
	case OutcomeDeclined:
		return ErrorKindDeclined
	case OutcomePermanentError:
		return ErrorKindPermanent
	case OutcomeRetryableTransient:
		return ErrorKindTransport
	case OutcomeInDoubt:
		return ErrorKindInDoubt
	}
	return ErrorKindNone
}

package payments

import (
	"errors"
	"net"
	"syscall"

	"billing_gateway/internal/domain/entities"
)

// wrapTransportError marks failures where the connection was never
// established as PreSendError. Anything else is returned unchanged: a reset or
// timeout after dialing may have reached the gateway.
func wrapTransportError(err error) error {
	if err == nil || !notSent(err) {
		return err
	}
	return &entities.PreSendError{Err: err}
}

func notSent(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return false
}

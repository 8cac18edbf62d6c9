// ABOUTME: Session error types
// ABOUTME: Transport failures and the closed-channel sentinel
package session

import (
	"errors"
	"fmt"
)

// ErrChannelClosed is returned by sends made while the session is not connected
var ErrChannelClosed = errors.New("channel closed")

// TransportError reports a dial, read or write failure on the channel
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

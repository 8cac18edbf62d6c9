// ABOUTME: Decode error values
// ABOUTME: MalformedPayload marks a single inbound fragment that cannot be used
package decode

import "errors"

// ErrMalformedPayload is returned when an inbound fragment cannot be decoded.
// The fragment is dropped; processing of later messages continues.
var ErrMalformedPayload = errors.New("malformed payload")

// internal/model/errors.go
package model

import "errors"

// Error taxonomy for the printer subsystem. Callers match with
// errors.Is; wrapped context is added at the point of failure.
var (
	ErrDeviceNotFound    = errors.New("device not found")
	ErrConnectionFailed  = errors.New("connection failed")
	ErrPrintFailed       = errors.New("print failed")
	ErrTimeout           = errors.New("operation timed out")
	ErrNetworkError      = errors.New("network error")
	ErrScanInProgress    = errors.New("discovery scan already in progress")
	ErrBridgeUnavailable = errors.New("native bridge unavailable")
	ErrInvalidData       = errors.New("invalid data")
	ErrDuplicateJob      = errors.New("duplicate print job for order")
	ErrNotConnected      = errors.New("device has no established connection")
)

package guard

import (
	"errors"
	"fmt"
)

// Sentinel kinds for guard refusals.
var (
	ErrSerialize = errors.New("value cannot be serialized")
	ErrTooLarge  = errors.New("serialized value exceeds storage limit")
)

// SizeError is returned for values over the limit. It matches ErrTooLarge.
type SizeError struct {
	Key   string
	Bytes int
	Limit int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: %s is %d bytes, limit %d", ErrTooLarge, e.Key, e.Bytes, e.Limit)
}

func (e *SizeError) Unwrap() error { return ErrTooLarge }

// Reason returns the metrics/log label for a guard refusal.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	case errors.Is(err, ErrSerialize):
		return "serialize"
	default:
		return "unknown"
	}
}

// Size returns the serialized length carried by a refusal, 0 when unknown.
func Size(err error) int {
	var se *SizeError
	if errors.As(err, &se) {
		return se.Bytes
	}
	return 0
}

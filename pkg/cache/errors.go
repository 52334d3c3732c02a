package cache

import "errors"

var (
	// ErrClosed is returned by operations on a closed cache.
	ErrClosed = errors.New("cache closed")

	// ErrUnavailable wraps backend connection failures.
	ErrUnavailable = errors.New("cache backend unavailable")
)

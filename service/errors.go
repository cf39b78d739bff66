package service

import "errors"

// ErrInvalidConfig wraps configuration validation failures.
var ErrInvalidConfig = errors.New("invalid config")

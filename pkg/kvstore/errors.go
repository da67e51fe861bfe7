package kvstore

import "errors"

var (
	ErrNotFound  = errors.New("key not found")
	ErrEmptyKey  = errors.New("empty key")
	ErrDecode    = errors.New("failed to decode stored value")
	ErrEncode    = errors.New("failed to encode value")
	ErrUnhealthy = errors.New("store healthcheck failed")

	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
)

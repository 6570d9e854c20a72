package redisconn

import "errors"

var (
	ErrFailedToParseURL  = errors.New("failed to parse redis connection url")
	ErrNotReady          = errors.New("redis server is not ready")
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)

package paystack

import "errors"

var (
	ErrMissingSecretKey = errors.New("paystack secret key is required")

	ErrInitializationFailed = errors.New("paystack transaction initialization failed")
	ErrVerificationFailed   = errors.New("paystack transaction verification failed")
	ErrChargeFailed         = errors.New("paystack authorization charge failed")

	ErrMissingSignature = errors.New("webhook signature header is missing")
	ErrInvalidSignature = errors.New("webhook signature does not match payload")
)

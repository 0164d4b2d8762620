package broker

import "errors"

var (
	// ErrConnectionFailed indicates the initial connection to the broker failed
	ErrConnectionFailed = errors.New("mqtt connection failed")

	// ErrNotConnected indicates an operation on a disconnected client
	ErrNotConnected = errors.New("mqtt not connected")

	// ErrPublishFailed indicates a publish was not acknowledged
	ErrPublishFailed = errors.New("mqtt publish failed")

	// ErrSubscribeFailed indicates a subscription was rejected
	ErrSubscribeFailed = errors.New("mqtt subscribe failed")
)

package mqtt

import "errors"

var (
	// ErrDisabled indicates MQTT ingestion is switched off in config.
	ErrDisabled = errors.New("mqtt: disabled in configuration")

	// ErrConnectionFailed indicates the broker could not be reached.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrSubscribeFailed indicates the sensor topic subscription was rejected.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrInvalidPayload indicates a message body that is not a sensor reading.
	ErrInvalidPayload = errors.New("mqtt: invalid payload")

	// ErrInvalidQoS indicates a QoS outside 0..2.
	ErrInvalidQoS = errors.New("mqtt: QoS must be 0, 1, or 2")
)

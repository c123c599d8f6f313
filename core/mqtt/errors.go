package mqtt

import "errors"

// ErrNotConnected is returned when publishing while the broker connection is down.
var ErrNotConnected = errors.New("mqtt: not connected")

package channel

import "errors"

var (
	ErrChannelClosed = errors.New("channel is closed")
	ErrChannelFull   = errors.New("channel is full")
	ErrTimeout       = errors.New("operation timed out")
)

package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrInvalidFrame    = errors.New("invalid frame format")
	ErrChatNotFound    = errors.New("chat not found")
	ErrNotParticipant  = errors.New("user is not a chat participant")
)

package toposim

import "errors"

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidState     = errors.New("invalid state")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrNodeInactive     = errors.New("node is not active")
	ErrQueueFull        = errors.New("message queue is full")
	ErrExecutorShutdown = errors.New("executor has been shut down")
	ErrDuplicateNode    = errors.New("node with this ID already exists")
)

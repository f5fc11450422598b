package binder

import "errors"

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("binder: closed")

package errors

import "fmt"

var (
	ErrIndexOutOfRange = fmt.Errorf("index out of range")
	ErrStaleSelection  = fmt.Errorf("selection no longer exists")
	ErrEmptyMessage    = fmt.Errorf("message is empty")
	ErrRouteNotFound   = fmt.Errorf("route not found")
	ErrMissingParam    = fmt.Errorf("missing route parameter")
	ErrEmptyStack      = fmt.Errorf("navigation stack cannot pop its root")
	ErrInvalidRoute    = fmt.Errorf("invalid route configuration")
	ErrUnknownRoom     = fmt.Errorf("unknown room")
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrOutboxFull      = fmt.Errorf("outbox is full")
)

//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"

	"messenger/domain"
)

// ISupervisor runs workers. Add registers workers before Run and starts them
// right away once Run is in progress.
type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// View is anything the navigation stack can hold.
// Only the top of the stack is active, the others are suspended.
type View interface {
	Title() string
	Activate()
	Suspend()
	Destroy()
}

// DataSource supplies rooms and messages, it is owned by the external data layer.
type DataSource interface {
	ListRooms(ctx context.Context) ([]domain.ChatRoom, error)
	History(ctx context.Context, roomID domain.RoomID) ([]domain.ChatMessage, error)
	// Subscribe streams messages appended to the room after the call.
	// The channel is closed once ctx is done.
	Subscribe(ctx context.Context, roomID domain.RoomID) (<-chan domain.ChatMessage, error)
}

// Ack is returned by the transport once a message has been accepted.
type Ack struct {
	ID domain.MessageID
	At time.Time
}

type Transport interface {
	Send(ctx context.Context, roomID domain.RoomID, content string) (Ack, error)
}

// ReadMarker clears the unread counter of a room once it is opened.
type ReadMarker interface {
	MarkRead(roomID domain.RoomID)
}

// Outbox accepts locally composed messages for asynchronous delivery.
// Enqueue never blocks the caller.
type Outbox interface {
	Enqueue(roomID domain.RoomID, content string)
}

// RoomWatcher follows a room so that its messages are reconciled.
// Watching a room twice is a no-op.
type RoomWatcher interface {
	Watch(roomID domain.RoomID)
}

// Applier runs fn on the UI thread.
// Every reconciliation update goes through it so views are mutated by a single goroutine.
type Applier interface {
	Apply(fn func())
}

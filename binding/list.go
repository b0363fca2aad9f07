// Package binding maps an ordered collection of entities to renderable rows.
// Hosts are told about incremental changes only, so previously rendered rows
// keep their position when new items arrive.
package binding

import (
	"fmt"

	"messenger/errors"
)

// Row is the toolkit-independent representation of one rendered item.
type Row struct {
	Key      string
	Title    string
	Subtitle string
	Meta     string
	Badge    string
}

// RowRenderer turns one bound item into a Row.
type RowRenderer[T any] func(item T) Row

type ChangeKind int

const (
	Reset ChangeKind = iota
	Inserted
	Changed
)

func (k ChangeKind) String() string {
	switch k {
	case Reset:
		return "reset"
	case Inserted:
		return "inserted"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Change is signaled to observers after every mutation.
// Index is meaningless for a Reset, Count is the item count after the change.
type Change struct {
	Kind  ChangeKind
	Index int
	Count int
}

//go:generate go run go.uber.org/mock/mockgen -source=list.go -destination=../mocks/mock_observer.go -package=mocks
type Observer interface {
	Notify(change Change)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(change Change)

func (f ObserverFunc) Notify(change Change) { f(change) }

// ListBinding is an append-oriented adapter between items and rows.
// It is not safe for concurrent use: every call belongs to the UI thread.
type ListBinding[T any] struct {
	items     []T
	render    RowRenderer[T]
	observers []Observer
}

func NewListBinding[T any](render RowRenderer[T]) *ListBinding[T] {
	return &ListBinding[T]{render: render}
}

// Observe registers a host interested in row changes.
func (b *ListBinding[T]) Observe(observer Observer) {
	b.observers = append(b.observers, observer)
}

// Bind replaces the whole sequence. This is the only full rebuild.
func (b *ListBinding[T]) Bind(items []T) {
	b.items = append(make([]T, 0, len(items)), items...)
	b.notify(Change{Kind: Reset, Count: len(b.items)})
}

func (b *ListBinding[T]) ItemCount() int {
	return len(b.items)
}

// Get returns the item currently bound at index.
func (b *ListBinding[T]) Get(index int) (T, error) {
	if index < 0 || index >= len(b.items) {
		var zero T
		return zero, fmt.Errorf("%w: %d not in [0, %d)", errors.ErrIndexOutOfRange, index, len(b.items))
	}
	return b.items[index], nil
}

func (b *ListBinding[T]) Render(index int) (Row, error) {
	item, err := b.Get(index)
	if err != nil {
		return Row{}, err
	}
	return b.render(item), nil
}

// Append adds item at the end and signals only that insertion.
func (b *ListBinding[T]) Append(item T) {
	b.items = append(b.items, item)
	b.notify(Change{Kind: Inserted, Index: len(b.items) - 1, Count: len(b.items)})
}

// Update swaps the item at index in place, keeping every other row untouched.
func (b *ListBinding[T]) Update(index int, item T) error {
	if _, err := b.Get(index); err != nil {
		return err
	}
	b.items[index] = item
	b.notify(Change{Kind: Changed, Index: index, Count: len(b.items)})
	return nil
}

// Items returns a copy of the bound sequence.
func (b *ListBinding[T]) Items() []T {
	return append(make([]T, 0, len(b.items)), b.items...)
}

// Rows renders the whole sequence, in order.
func (b *ListBinding[T]) Rows() []Row {
	rows := make([]Row, len(b.items))
	for i, item := range b.items {
		rows[i] = b.render(item)
	}
	return rows
}

func (b *ListBinding[T]) notify(change Change) {
	for _, o := range b.observers {
		o.Notify(change)
	}
}

package store

import (
	"context"
	"sync"

	"messenger/domain"
)

type subscription struct {
	updates chan domain.ChatMessage
	done    <-chan struct{}
}

// Registry keeps the live subscriptions of every room.
// Publishing is ordered: a subscriber receives messages in the order they were published.
type Registry struct {
	mu     sync.Mutex
	nextID uint64
	rooms  map[domain.RoomID]map[uint64]subscription
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomID]map[uint64]subscription)}
}

// Subscribe registers a subscriber for roomID until ctx is done.
// The returned channel is closed when the subscription ends.
func (r *Registry) Subscribe(ctx context.Context, roomID domain.RoomID, bufferSize int) <-chan domain.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	sub := subscription{updates: make(chan domain.ChatMessage, bufferSize), done: ctx.Done()}
	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = make(map[uint64]subscription)
	}
	r.rooms[roomID][id] = sub

	go func() {
		<-ctx.Done()
		r.unsubscribe(roomID, id)
	}()
	return sub.updates
}

// Publish hands message to every subscriber of its room.
// It waits for slow subscribers unless their context is done.
func (r *Registry) Publish(message domain.ChatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.rooms[message.RoomID] {
		select {
		case sub.updates <- message:
		case <-sub.done:
		}
	}
}

// Count returns the number of live subscriptions of roomID.
func (r *Registry) Count(roomID domain.RoomID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[roomID])
}

func (r *Registry) unsubscribe(roomID domain.RoomID, id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return
	}
	if sub, ok := members[id]; ok {
		close(sub.updates)
		delete(members, id)
	}
	// If no one is left in the room, remove the room entry entirely
	if len(members) == 0 {
		delete(r.rooms, roomID)
	}
}

// Package runtime wires the asynchronous side of the client: subscription
// feeds and the outbox run under supervision, and everything they produce is
// handed back to the UI thread through an Applier.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"messenger/contract"
	"messenger/domain"
	"messenger/runtime/workers"

	"github.com/samber/lo"
)

var _ contract.RoomWatcher = (*Orchestrator)(nil)

type Orchestrator struct {
	mu         sync.Mutex
	followed   map[domain.RoomID]struct{}
	log        *slog.Logger
	supervisor contract.ISupervisor
	source     contract.DataSource
	outbox     contract.Worker
	applier    contract.Applier
	self       domain.UserID
	deliver    func(domain.ChatMessage)
}

// NewOrchestrator prepares the feeds of self. deliver is invoked on the UI
// thread for every message coming from another participant.
func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, source contract.DataSource,
	outbox contract.Worker, applier contract.Applier, self domain.UserID,
	deliver func(domain.ChatMessage)) *Orchestrator {
	return &Orchestrator{
		log:        log,
		supervisor: supervisor,
		source:     source,
		outbox:     outbox,
		applier:    applier,
		self:       self,
		deliver:    deliver,
		followed:   make(map[domain.RoomID]struct{}),
	}
}

// Start subscribes to every listed room and runs the supervisor.
// It blocks until ctx is done or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) error {
	rooms, err := o.source.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("listing rooms: %w", err)
	}

	o.mu.Lock()
	feeds := lo.FilterMap(rooms, func(room domain.ChatRoom, _ int) (contract.Worker, bool) {
		return o.feed(room.ID)
	})
	o.mu.Unlock()
	o.supervisor.Add(feeds...)
	o.supervisor.Add(o.outbox)

	o.log.Info("Starting feeds", "rooms", len(rooms))
	o.supervisor.Run(ctx)
	return nil
}

// Watch starts the feed of a room listed after Start, e.g. by a refresh.
func (o *Orchestrator) Watch(roomID domain.RoomID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if feed, ok := o.feed(roomID); ok {
		o.log.Info("Following new room", "room", roomID)
		o.supervisor.Add(feed)
	}
}

// feed builds the worker of a room not followed yet. Callers hold mu.
func (o *Orchestrator) feed(roomID domain.RoomID) (contract.Worker, bool) {
	if _, ok := o.followed[roomID]; ok {
		return nil, false
	}
	o.followed[roomID] = struct{}{}
	return workers.NewFeedWorker(o.log, o.source, o.applier, roomID, o.self, o.deliver), true
}

func (o *Orchestrator) Stop() {
	o.log.Debug("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}

// Package app is the composition root of the client: it binds views to
// routes, owns the navigation stack and applies reconciliation updates.
// Every method must be called from the UI thread.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"messenger/contract"
	"messenger/domain"
	"messenger/errors"
	"messenger/navigation"
	"messenger/views"

	"github.com/samber/lo"
)

const (
	MessengerRoute = "messenger"
	ChatRoute      = "messenger.chat"
	RootPath       = "/messenger"
)

var _ contract.Outbox = (*Shell)(nil)

type Shell struct {
	ctx    context.Context
	log    *slog.Logger
	self   domain.UserProfile
	people map[domain.UserID]domain.UserProfile
	source contract.DataSource
	outbox contract.Outbox
	rooms  *views.RoomListView
	stack  *navigation.Stack
	chats  map[domain.RoomID][]*views.ChatRoomView
	watch  contract.RoomWatcher
}

// NewShell lists the rooms, binds the messenger routes of tree and opens the room list.
// outbox may be nil for a local-only client.
func NewShell(ctx context.Context, log *slog.Logger, tree *navigation.Tree, source contract.DataSource,
	outbox contract.Outbox, self domain.UserProfile, people map[domain.UserID]domain.UserProfile) (*Shell, error) {
	rooms, err := source.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	s := &Shell{
		ctx:    ctx,
		log:    log,
		self:   self,
		people: people,
		source: source,
		outbox: outbox,
		rooms:  views.NewRoomListView(log, rooms),
		chats:  make(map[domain.RoomID][]*views.ChatRoomView),
	}
	if err = tree.Bind(MessengerRoute, func(navigation.Context) (contract.View, error) {
		return s.rooms, nil
	}); err != nil {
		return nil, err
	}
	if err = tree.Bind(ChatRoute, s.openChat); err != nil {
		return nil, err
	}
	s.stack, err = navigation.NewStack(log, tree, navigation.Request{Path: RootPath})
	if err != nil {
		return nil, err
	}
	s.stack.Observe(navigation.TransitionFunc(s.transitioned))
	return s, nil
}

// WatchRooms registers who follows the rooms a refresh discovers.
func (s *Shell) WatchRooms(watch contract.RoomWatcher) {
	s.watch = watch
}

func (s *Shell) Stack() *navigation.Stack { return s.stack }

func (s *Shell) Rooms() *views.RoomListView { return s.rooms }

func (s *Shell) Self() domain.UserProfile { return s.self }

// Active returns the view on top of the stack.
func (s *Shell) Active() contract.View { return s.stack.Active().View }

// Select opens the room at index of the room list.
func (s *Shell) Select(index int) (*views.ChatRoomView, error) {
	request, err := s.rooms.Select(index)
	if err != nil {
		return nil, err
	}
	entry, err := s.stack.Navigate(request.Request)
	if err != nil {
		return nil, err
	}
	return entry.View.(*views.ChatRoomView), nil
}

// Back returns to the previous view.
func (s *Shell) Back() error {
	_, err := s.stack.Pop()
	return err
}

// Refresh lists the rooms again. Unread counters and previews known locally
// survive, rooms listed for the first time are handed to the watcher.
func (s *Shell) Refresh() error {
	rooms, err := s.source.ListRooms(s.ctx)
	if err != nil {
		return err
	}
	added := s.rooms.Refresh(rooms)
	if s.watch != nil {
		for _, id := range added {
			s.watch.Watch(id)
		}
	}
	return nil
}

// Deliver applies a message received from the data layer.
// Every live view of the room gets it, the unread counter only grows when none of them is open.
func (s *Shell) Deliver(message domain.ChatMessage) {
	live := s.chats[message.RoomID]
	open := lo.ContainsBy(live, func(v *views.ChatRoomView) bool {
		return v.State() == views.Active
	})
	s.rooms.Record(message, !open)
	for _, view := range live {
		view.Receive(message)
	}
}

// Enqueue records the local message in the room list, then forwards it.
func (s *Shell) Enqueue(roomID domain.RoomID, content string) {
	s.rooms.Record(domain.ChatMessage{RoomID: roomID, SenderID: s.self.ID, Content: content}, false)
	if s.outbox != nil {
		s.outbox.Enqueue(roomID, content)
	}
}

// transitioned forgets the chat views a back or swap transition destroyed.
func (s *Shell) transitioned(t navigation.Transition) {
	if t.Direction == navigation.ForwardOpen {
		return
	}
	for id, chats := range s.chats {
		live := lo.Filter(chats, func(v *views.ChatRoomView, _ int) bool {
			return v.State() != views.Destroyed
		})
		if len(live) == 0 {
			delete(s.chats, id)
			continue
		}
		s.chats[id] = live
	}
}

func (s *Shell) openChat(ctx navigation.Context) (contract.View, error) {
	id := domain.RoomID(ctx.Params[views.RoomParam])
	room, ok := s.rooms.Room(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownRoom, id)
	}
	history, err := s.source.History(s.ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading history of %s: %w", id, err)
	}
	view := views.NewChatRoomView(s.log, room, s.self, history,
		views.WithOutbox(s),
		views.WithReadMarker(s.rooms),
		views.WithPeople(s.people),
	)
	s.chats[id] = append(s.chats[id], view)
	return view, nil
}

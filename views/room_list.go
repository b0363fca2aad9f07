// Package views holds the toolkit independent state of the messenger screens.
// Views never hold a handle on their container: they receive the capabilities
// they need and return navigation requests to whoever hosts them.
package views

import (
	"fmt"
	"log/slog"

	"messenger/binding"
	"messenger/domain"
	"messenger/errors"
	"messenger/navigation"

	"github.com/samber/lo"
)

const (
	RoomParam = "room_id"
	ChatRoute = "/messenger/:" + RoomParam
)

// NavigationRequest is emitted when a room row is selected.
type NavigationRequest struct {
	navigation.Request
	Room domain.ChatRoom
}

type RoomListView struct {
	lifecycle
	log   *slog.Logger
	rooms *binding.ListBinding[domain.ChatRoom]
}

func NewRoomListView(log *slog.Logger, rooms []domain.ChatRoom) *RoomListView {
	v := &RoomListView{log: log, rooms: binding.NewListBinding(RoomRow)}
	v.rooms.Bind(rooms)
	return v
}

func (v *RoomListView) Title() string { return "Messenger" }

func (v *RoomListView) Activate() { v.state = Active }

func (v *RoomListView) Rooms() *binding.ListBinding[domain.ChatRoom] { return v.rooms }

// Bind replaces the displayed rooms, typically after a listRooms refresh.
func (v *RoomListView) Bind(rooms []domain.ChatRoom) {
	v.rooms.Bind(rooms)
}

// Refresh rebinds rooms listed again by the data layer.
// Rooms already bound keep the unread counter and preview known locally,
// which reflect reads and deliveries the data layer has not seen.
// It returns the rooms that were not bound before.
func (v *RoomListView) Refresh(rooms []domain.ChatRoom) []domain.RoomID {
	known := lo.SliceToMap(v.rooms.Items(), func(room domain.ChatRoom) (domain.RoomID, domain.ChatRoom) {
		return room.ID, room
	})
	var added []domain.RoomID
	merged := lo.Map(rooms, func(room domain.ChatRoom, _ int) domain.ChatRoom {
		local, ok := known[room.ID]
		if !ok {
			added = append(added, room.ID)
			return room
		}
		room.UnreadCount = local.UnreadCount
		if local.LastMessagePreview != "" {
			room.LastMessagePreview = local.LastMessagePreview
		}
		return room
	})
	v.rooms.Bind(merged)
	return added
}

// Select resolves index against the rooms bound right now.
// Selecting does not touch the unread counter, opening the room does.
func (v *RoomListView) Select(index int) (NavigationRequest, error) {
	room, err := v.rooms.Get(index)
	if err != nil {
		return NavigationRequest{}, fmt.Errorf("%w: row %d of %d", errors.ErrStaleSelection, index, v.rooms.ItemCount())
	}
	v.log.Debug("Room selected", "room", room.ID, "index", index)
	return NavigationRequest{
		Request: navigation.Request{
			Path:   ChatRoute,
			Params: navigation.Params{RoomParam: string(room.ID)},
		},
		Room: room,
	}, nil
}

// Room returns the bound room with the given identifier.
func (v *RoomListView) Room(id domain.RoomID) (domain.ChatRoom, bool) {
	room, _, ok := v.find(id)
	return room, ok
}

// MarkRead clears the unread counter of the room, if it is listed.
func (v *RoomListView) MarkRead(id domain.RoomID) {
	room, index, ok := v.find(id)
	if !ok || room.UnreadCount == 0 {
		return
	}
	_ = v.rooms.Update(index, room.MarkRead())
}

// Record refreshes the preview of the message's room.
// When unread is set the counter grows by one, which is what happens for rooms that are not open.
func (v *RoomListView) Record(message domain.ChatMessage, unread bool) {
	room, index, ok := v.find(message.RoomID)
	if !ok {
		v.log.Debug("Message for unlisted room", "room", message.RoomID)
		return
	}
	room = room.WithPreview(message)
	if unread {
		room = room.WithUnread(1)
	}
	_ = v.rooms.Update(index, room)
}

func (v *RoomListView) find(id domain.RoomID) (domain.ChatRoom, int, bool) {
	return lo.FindIndexOf(v.rooms.Items(), func(room domain.ChatRoom) bool {
		return room.ID == id
	})
}

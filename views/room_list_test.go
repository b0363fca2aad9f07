package views

import (
	stdErrors "errors"
	"log/slog"
	"testing"

	"messenger/binding"
	"messenger/domain"
	"messenger/errors"
	"messenger/navigation"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

var (
	roomA = domain.ChatRoom{ID: "a", Name: "Alice", LastMessagePreview: "Hey", UnreadCount: 2}
	roomB = domain.ChatRoom{ID: "b", Name: "Bob", Multiuser: true}
)

func TestRoomListView_Select_Emits_Request(t *testing.T) {
	req := require.New(t)
	view := NewRoomListView(logs.GetLoggerFromLevel(slog.LevelDebug), []domain.ChatRoom{roomA, roomB})

	// When the first row is selected
	request, err := view.Select(0)

	// Then the request targets roomA and leaves its counter alone
	req.NoError(err)
	req.Equal(roomA, request.Room)
	req.Equal(ChatRoute, request.Path)
	req.Equal(navigation.Params{RoomParam: "a"}, request.Params)
	room, ok := view.Room("a")
	req.True(ok)
	req.Equal(2, room.UnreadCount)
}

func TestRoomListView_Select_Resolves_Against_Current_Rooms(t *testing.T) {
	req := require.New(t)
	view := NewRoomListView(slog.Default(), []domain.ChatRoom{roomA, roomB})

	// Given roomA disappeared from the bound sequence
	view.Bind([]domain.ChatRoom{roomB})

	// Then index 0 now targets roomB
	request, err := view.Select(0)
	req.NoError(err)
	req.Equal(roomB, request.Room)

	// And index 1 no longer exists
	_, err = view.Select(1)
	req.True(stdErrors.Is(err, errors.ErrStaleSelection))

	view.Bind(nil)
	_, err = view.Select(0)
	req.True(stdErrors.Is(err, errors.ErrStaleSelection))
}

func TestRoomListView_MarkRead_And_Record(t *testing.T) {
	req := require.New(t)
	view := NewRoomListView(slog.Default(), []domain.ChatRoom{roomA, roomB})
	var changes []binding.Change
	view.Rooms().Observe(binding.ObserverFunc(func(c binding.Change) { changes = append(changes, c) }))

	// When roomA is opened
	view.MarkRead("a")
	// And a message reaches roomB while it is closed
	view.Record(domain.ChatMessage{RoomID: "b", Content: "Yea? What's the problem?"}, true)
	// And a message reaches an unlisted room
	view.Record(domain.ChatMessage{RoomID: "z", Content: "lost"}, true)
	// And an already read room is marked read again
	view.MarkRead("a")

	// Then only the two touched rows changed
	req.Equal([]binding.Change{
		{Kind: binding.Changed, Index: 0, Count: 2},
		{Kind: binding.Changed, Index: 1, Count: 2},
	}, changes)

	row, err := view.Rooms().Render(1)
	req.NoError(err)
	req.Equal(binding.Row{Key: "b", Title: "Bob", Subtitle: "Yea? What's the problem?", Badge: "1"}, row)

	row, err = view.Rooms().Render(0)
	req.NoError(err)
	req.Empty(row.Badge)
}

func TestRoomListView_Lifecycle(t *testing.T) {
	req := require.New(t)
	view := NewRoomListView(slog.Default(), nil)
	req.Equal(Detached, view.State())
	view.Activate()
	req.Equal(Active, view.State())
	view.Suspend()
	req.Equal(Suspended, view.State())
	view.Destroy()
	req.Equal(Destroyed, view.State())
	req.Equal("Messenger", view.Title())
}

func TestRoomListView_Refresh_Keeps_Local_State(t *testing.T) {
	req := require.New(t)
	view := NewRoomListView(slog.Default(), []domain.ChatRoom{roomA, roomB})

	// Given roomA was opened and roomB got a message
	view.MarkRead("a")
	view.Record(domain.ChatMessage{RoomID: "b", Content: "ping"}, true)

	// When the data layer lists its stale copies plus a new room
	added := view.Refresh([]domain.ChatRoom{
		roomA,
		roomB,
		{ID: "c", Name: "Clara", LastMessagePreview: "hi", UnreadCount: 3},
	})

	// Then known rooms keep what the client saw, the new one is taken as listed
	req.Equal([]domain.RoomID{"c"}, added)
	rooms := view.Rooms().Items()
	req.Len(rooms, 3)
	req.Equal(0, rooms[0].UnreadCount)
	req.Equal(1, rooms[1].UnreadCount)
	req.Equal("ping", rooms[1].LastMessagePreview)
	req.Equal(3, rooms[2].UnreadCount)
}

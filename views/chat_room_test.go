package views

import (
	stdErrors "errors"
	"log/slog"
	"testing"
	"time"

	"messenger/binding"
	"messenger/domain"
	"messenger/errors"
	"messenger/mocks"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	self = domain.UserProfile{ID: "0", Name: "me"}
	now  = time.Date(2020, 3, 1, 15, 41, 0, 0, time.UTC)
)

func history() []domain.ChatMessage {
	return []domain.ChatMessage{
		{ID: "m1", RoomID: "a", SenderID: "1", Content: "Hey, how are you?", Timestamp: now.Add(-30 * time.Minute)},
		{ID: "m2", RoomID: "a", SenderID: "0", Content: "Not bad, kinda stressed", Timestamp: now.Add(-9 * time.Minute)},
	}
}

func TestChatRoomView_Compose_Appends_Local_Message(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	outbox := mocks.NewMockOutbox(ctrl)

	view := NewChatRoomView(slog.Default(), roomA, self, history(),
		WithOutbox(outbox), WithClock(func() time.Time { return now }))
	view.SetDraft("Trying to get this app to work")

	// Then the outbox is only reached once the message is displayed
	outbox.EXPECT().Enqueue(domain.RoomID("a"), "Trying to get this app to work").
		Do(func(domain.RoomID, string) {
			req.Equal(3, view.Messages().ItemCount())
		}).Times(1)

	// When the draft is submitted
	message, err := view.Submit()

	req.NoError(err)
	req.Equal(domain.ChatMessage{
		RoomID:    "a",
		SenderID:  self.ID,
		Content:   "Trying to get this app to work",
		Timestamp: now,
	}, message)
	req.True(message.IsLocal())
	req.Empty(view.Draft())

	last, err := view.Messages().Get(2)
	req.NoError(err)
	req.Equal(message, last)
}

func TestChatRoomView_Compose_Increments_By_One(t *testing.T) {
	req := require.New(t)
	view := NewChatRoomView(slog.Default(), roomA, self, nil)

	for i, text := range []string{"a", " b ", "c\nd", "😀"} {
		message, err := view.Compose(text)
		req.NoError(err)
		req.Equal(i+1, view.Messages().ItemCount())
		req.Equal(self.ID, message.SenderID)
	}
}

func TestChatRoomView_Compose_Empty_Is_A_Noop(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	outbox := mocks.NewMockOutbox(ctrl)
	outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Times(0)

	view := NewChatRoomView(slog.Default(), roomA, self, history(), WithOutbox(outbox))
	view.SetDraft("   ")

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := view.Compose(text)
		req.True(stdErrors.Is(err, errors.ErrEmptyMessage))
	}
	_, err := view.Submit()
	req.True(stdErrors.Is(err, errors.ErrEmptyMessage))

	req.Equal(2, view.Messages().ItemCount())
	req.Equal("   ", view.Draft())
}

func TestChatRoomView_Activate_Clears_Unread(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	reads := mocks.NewMockReadMarker(ctrl)

	view := NewChatRoomView(slog.Default(), roomA, self, nil, WithReadMarker(reads))
	req.Equal(2, view.Room().UnreadCount)

	// Building the view does not count as opening it
	reads.EXPECT().MarkRead(domain.RoomID("a")).Times(1)
	view.Activate()

	req.Equal(0, view.Room().UnreadCount)
	req.Equal(Active, view.State())
}

func TestChatRoomView_Receive_Keeps_Append_Order(t *testing.T) {
	req := require.New(t)
	view := NewChatRoomView(slog.Default(), roomA, self, history(), WithClock(func() time.Time { return now }))
	var changes []binding.Change
	view.Messages().Observe(binding.ObserverFunc(func(c binding.Change) { changes = append(changes, c) }))
	view.Activate()

	_, err := view.Compose("local")
	req.NoError(err)
	view.Receive(domain.ChatMessage{ID: "m3", RoomID: "a", SenderID: "1", Content: "remote", Timestamp: now.Add(-time.Hour)})
	view.Receive(domain.ChatMessage{ID: "m4", RoomID: "b", SenderID: "1", Content: "elsewhere"})

	req.Equal([]binding.Change{
		{Kind: binding.Inserted, Index: 2, Count: 3},
		{Kind: binding.Inserted, Index: 3, Count: 4},
	}, changes)
	rows := view.Messages().Rows()
	req.Equal("local", rows[2].Subtitle)
	req.Equal("remote", rows[3].Subtitle)
	req.Equal("remote", view.Room().LastMessagePreview)
	req.Equal(0, view.Room().UnreadCount)
}

func TestChatRoomView_Suspended_View_Buffers_Updates(t *testing.T) {
	req := require.New(t)
	view := NewChatRoomView(slog.Default(), roomB, self, nil)
	view.Activate()
	view.Suspend()

	view.Receive(domain.ChatMessage{ID: "m1", RoomID: "b", SenderID: "1", Content: "while away"})

	req.Equal(1, view.Messages().ItemCount())
	req.Equal(1, view.Room().UnreadCount)

	view.Activate()
	req.Equal(0, view.Room().UnreadCount)
	req.Equal("Bob", view.Title())
}

func TestMessageRenderer(t *testing.T) {
	req := require.New(t)
	render := MessageRenderer(self, map[domain.UserID]domain.UserProfile{"1": {ID: "1", Name: "Alice"}})

	req.Equal(binding.Row{Key: "m1", Title: "Alice", Subtitle: "hi", Meta: "15:41"},
		render(domain.ChatMessage{ID: "m1", SenderID: "1", Content: "hi", Timestamp: now}))
	req.Equal(binding.Row{Title: "me", Subtitle: "yo", Meta: "15:41", Badge: "…"},
		render(domain.ChatMessage{SenderID: "0", Content: "yo", Timestamp: now}))
	req.Equal("2", render(domain.ChatMessage{ID: "x", SenderID: "2"}).Title)
}

func TestChatRoomView_Receive_Drops_Messages_Already_Bound(t *testing.T) {
	req := require.New(t)
	view := NewChatRoomView(slog.Default(), roomA, self, history())
	view.Activate()

	// Given m2 was loaded with the history while its delivery was in flight
	req.False(view.Receive(domain.ChatMessage{ID: "m2", RoomID: "a", SenderID: "0", Content: "Not bad, kinda stressed"}))

	// And m3 is delivered twice
	req.True(view.Receive(domain.ChatMessage{ID: "m3", RoomID: "a", SenderID: "1", Content: "Yea? What's the problem?"}))
	req.False(view.Receive(domain.ChatMessage{ID: "m3", RoomID: "a", SenderID: "1", Content: "Yea? What's the problem?"}))

	// Then every message is bound exactly once
	ids := make([]domain.MessageID, 0, view.Messages().ItemCount())
	for _, m := range view.Messages().Items() {
		ids = append(ids, m.ID)
	}
	req.Equal([]domain.MessageID{"m1", "m2", "m3"}, ids)
}

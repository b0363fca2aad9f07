package views

import (
	"fmt"
	"log/slog"
	"time"

	"messenger/binding"
	"messenger/contract"
	"messenger/domain"
	"messenger/errors"
)

type ChatRoomOption func(*ChatRoomView)

// WithOutbox hands every composed message to outbox once it is displayed.
func WithOutbox(outbox contract.Outbox) ChatRoomOption {
	return func(v *ChatRoomView) { v.outbox = outbox }
}

// WithReadMarker is told when the room is opened.
func WithReadMarker(reads contract.ReadMarker) ChatRoomOption {
	return func(v *ChatRoomView) { v.reads = reads }
}

func WithClock(clock func() time.Time) ChatRoomOption {
	return func(v *ChatRoomView) { v.clock = clock }
}

func WithPeople(people map[domain.UserID]domain.UserProfile) ChatRoomOption {
	return func(v *ChatRoomView) { v.people = people }
}

// ChatRoomView is the conversation of one room plus the compose buffer.
// Its message list is append-only.
type ChatRoomView struct {
	lifecycle
	log      *slog.Logger
	room     domain.ChatRoom
	self     domain.UserProfile
	people   map[domain.UserID]domain.UserProfile
	messages *binding.ListBinding[domain.ChatMessage]
	seen     map[domain.MessageID]struct{}
	draft    string
	outbox   contract.Outbox
	reads    contract.ReadMarker
	clock    func() time.Time
}

func NewChatRoomView(log *slog.Logger, room domain.ChatRoom, self domain.UserProfile,
	history []domain.ChatMessage, opts ...ChatRoomOption) *ChatRoomView {
	v := &ChatRoomView{
		log:   log,
		room:  room,
		self:  self,
		clock: time.Now,
		seen:  make(map[domain.MessageID]struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.messages = binding.NewListBinding(MessageRenderer(self, v.people))
	v.messages.Bind(history)
	for _, message := range history {
		v.remember(message)
	}
	return v
}

func (v *ChatRoomView) Title() string { return v.room.Name }

func (v *ChatRoomView) Room() domain.ChatRoom { return v.room }

func (v *ChatRoomView) Messages() *binding.ListBinding[domain.ChatMessage] { return v.messages }

// Activate makes the view interactive and clears the room's unread counter.
func (v *ChatRoomView) Activate() {
	v.state = Active
	v.room = v.room.MarkRead()
	if v.reads != nil {
		v.reads.MarkRead(v.room.ID)
	}
}

func (v *ChatRoomView) Draft() string { return v.draft }

func (v *ChatRoomView) SetDraft(text string) { v.draft = text }

// Submit composes whatever is in the compose buffer.
func (v *ChatRoomView) Submit() (domain.ChatMessage, error) {
	return v.Compose(v.draft)
}

// Compose appends a locally authored message and clears the compose buffer.
// The message is visible in the binding before Compose returns, delivery is
// left to the outbox. Blank text is rejected and leaves the buffer as it was.
func (v *ChatRoomView) Compose(text string) (domain.ChatMessage, error) {
	content := domain.NormalizeContent(text)
	if content == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: room %s", errors.ErrEmptyMessage, v.room.ID)
	}
	message := domain.ChatMessage{
		RoomID:    v.room.ID,
		SenderID:  v.self.ID,
		Content:   content,
		Timestamp: v.clock(),
	}
	v.messages.Append(message)
	v.draft = ""
	if v.outbox != nil {
		v.outbox.Enqueue(v.room.ID, content)
	}
	return message, nil
}

// Receive applies a message delivered by the data layer.
// Suspended views keep buffering so they are up to date when reactivated.
// A message whose identifier is already bound, e.g. through the history
// loaded while its delivery was in flight, is dropped.
// It reports whether the message was appended.
func (v *ChatRoomView) Receive(message domain.ChatMessage) bool {
	if message.RoomID != v.room.ID {
		v.log.Warn("Message delivered to the wrong room", "expected", v.room.ID, "got", message.RoomID)
		return false
	}
	if _, ok := v.seen[message.ID]; ok && !message.IsLocal() {
		v.log.Debug("Message already bound", "room", v.room.ID, "id", message.ID)
		return false
	}
	v.remember(message)
	v.messages.Append(message)
	if v.state == Active {
		v.room = v.room.WithPreview(message)
		return true
	}
	v.room = v.room.WithPreview(message).WithUnread(1)
	return true
}

func (v *ChatRoomView) remember(message domain.ChatMessage) {
	if !message.IsLocal() {
		v.seen[message.ID] = struct{}{}
	}
}

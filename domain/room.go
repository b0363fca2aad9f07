package domain

type RoomID string

// ChatRoom is the row model of the room list.
// It is never mutated in place, helpers return modified copies.
type ChatRoom struct {
	ID                 RoomID
	Name               string
	Avatar             string
	Multiuser          bool
	LastMessagePreview string
	UnreadCount        int
}

// WithPreview returns a copy of the room whose preview reflects message.
func (r ChatRoom) WithPreview(message ChatMessage) ChatRoom {
	r.LastMessagePreview = message.Content
	return r
}

// WithUnread returns a copy of the room with delta more unread messages.
func (r ChatRoom) WithUnread(delta int) ChatRoom {
	r.UnreadCount += delta
	if r.UnreadCount < 0 {
		r.UnreadCount = 0
	}
	return r
}

// MarkRead returns a copy of the room with no unread message.
func (r ChatRoom) MarkRead() ChatRoom {
	r.UnreadCount = 0
	return r
}

package views

import (
	"strconv"

	"messenger/binding"
	"messenger/domain"
)

// TimeLayout is how message timestamps are displayed.
const TimeLayout = "15:04"

func RoomRow(room domain.ChatRoom) binding.Row {
	row := binding.Row{
		Key:      string(room.ID),
		Title:    room.Name,
		Subtitle: room.LastMessagePreview,
	}
	if room.UnreadCount > 0 {
		row.Badge = strconv.Itoa(room.UnreadCount)
	}
	return row
}

// MessageRenderer renders messages from the point of view of self.
// Senders missing from people are shown by identifier.
func MessageRenderer(self domain.UserProfile, people map[domain.UserID]domain.UserProfile) binding.RowRenderer[domain.ChatMessage] {
	return func(message domain.ChatMessage) binding.Row {
		sender := domain.UserProfile{ID: message.SenderID}
		switch {
		case message.SenderID == self.ID:
			sender = self
		default:
			if profile, ok := people[message.SenderID]; ok {
				sender = profile
			}
		}
		row := binding.Row{
			Key:      string(message.ID),
			Title:    sender.DisplayName(),
			Subtitle: message.Content,
			Meta:     message.Timestamp.Format(TimeLayout),
		}
		if message.IsLocal() {
			row.Badge = "…"
		}
		return row
	}
}

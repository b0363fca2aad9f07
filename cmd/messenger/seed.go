package main

import (
	"time"

	"messenger/domain"
	"messenger/store"

	"github.com/google/uuid"
)

type seedMessage struct {
	at      string
	sender  domain.UserID
	content string
}

// seed fills the store with a couple of conversations and returns the known participants.
func seed(db *store.Store, self domain.UserProfile) (map[domain.UserID]domain.UserProfile, error) {
	people := map[domain.UserID]domain.UserProfile{
		"1":     {ID: "1", Name: "Alice"},
		"2":     {ID: "2", Name: "Bob"},
		"3":     {ID: "3", Name: "Clara"},
		self.ID: self,
	}
	rooms := []struct {
		room     domain.ChatRoom
		messages []seedMessage
	}{
		{
			room: domain.ChatRoom{ID: "alice", Name: "Alice", UnreadCount: 1},
			messages: []seedMessage{
				{"15:11", "1", "Hey, how are you?"},
				{"15:32", self.ID, "Not bad, kinda stressed"},
				{"15:33", self.ID, "Trying to get this app to work"},
				{"15:36", "1", "Yea? What's the problem?"},
			},
		},
		{
			room: domain.ChatRoom{ID: "mesh", Name: "Mesh meetup", Multiuser: true, UnreadCount: 2},
			messages: []seedMessage{
				{"09:02", "2", "Who brings the routers?"},
				{"09:15", "3", "I have two spare ones"},
			},
		},
		{room: domain.ChatRoom{ID: "clara", Name: "Clara"}},
	}

	today := time.Now().Truncate(24 * time.Hour)
	for _, r := range rooms {
		if err := db.AddRoom(r.room); err != nil {
			return nil, err
		}
		for _, m := range r.messages {
			at, err := time.Parse("15:04", m.at)
			if err != nil {
				return nil, err
			}
			if err = db.AppendMessage(domain.ChatMessage{
				ID:        domain.MessageID(uuid.NewString()),
				RoomID:    r.room.ID,
				SenderID:  m.sender,
				Content:   m.content,
				Timestamp: today.Add(time.Duration(at.Hour())*time.Hour + time.Duration(at.Minute())*time.Minute),
			}); err != nil {
				return nil, err
			}
		}
	}
	return people, nil
}

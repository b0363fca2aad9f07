// Package domain contains core concepts of the messenger.
// This file defines ChatMessage records and related rules.
// Messages are immutable once appended to a room.
package domain

import (
	"strings"
	"time"
)

type MessageID string

// ChatMessage represents one message of a room.
// An empty ID marks a message authored locally and not yet acknowledged.
type ChatMessage struct {
	ID        MessageID
	RoomID    RoomID
	SenderID  UserID
	Content   string
	Timestamp time.Time
}

// IsLocal reports whether the message is still an unsent draft.
func (m ChatMessage) IsLocal() bool {
	return m.ID == ""
}

// NormalizeContent trims the text typed by the user.
// An empty result means there is nothing to send.
func NormalizeContent(text string) string {
	return strings.TrimSpace(text)
}

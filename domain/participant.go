// Package domain contains core concepts of the messenger.
// This file defines UserProfile, read-only from the views' perspective.
// No runtime, network, or UI logic should be added here.
package domain

type UserID string

type UserProfile struct {
	ID     UserID
	Name   string
	Avatar string
}

// DisplayName falls back on the identifier when no name is known.
func (u UserProfile) DisplayName() string {
	if u.Name == "" {
		return string(u.ID)
	}
	return u.Name
}

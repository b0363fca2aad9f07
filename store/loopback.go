package store

import (
	"context"
	"time"

	"messenger/contract"
	"messenger/domain"

	"github.com/google/uuid"
)

var _ contract.Transport = (*Loopback)(nil)

// Loopback is a transport that delivers straight into the store, as if the
// network had acknowledged and echoed the message.
type Loopback struct {
	store *Store
	self  domain.UserID
	clock func() time.Time
}

func NewLoopback(store *Store, self domain.UserID) *Loopback {
	return &Loopback{store: store, self: self, clock: time.Now}
}

func (l *Loopback) Send(ctx context.Context, roomID domain.RoomID, content string) (contract.Ack, error) {
	if err := ctx.Err(); err != nil {
		return contract.Ack{}, err
	}
	ack := contract.Ack{ID: domain.MessageID(uuid.NewString()), At: l.clock().UTC()}
	err := l.store.AppendMessage(domain.ChatMessage{
		ID:        ack.ID,
		RoomID:    roomID,
		SenderID:  l.self,
		Content:   content,
		Timestamp: ack.At,
	})
	if err != nil {
		return contract.Ack{}, err
	}
	return ack, nil
}

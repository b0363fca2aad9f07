package workers

import (
	"context"
	"fmt"
	"log/slog"

	"messenger/contract"
	"messenger/domain"
)

var _ contract.Worker = (*FeedWorker)(nil)

// FeedWorker pumps the subscription of one room into the UI thread.
// Messages are handed over in delivery order, one Apply per message.
// Messages authored by self are skipped, the view already shows them since compose.
type FeedWorker struct {
	log     *slog.Logger
	source  contract.DataSource
	applier contract.Applier
	roomID  domain.RoomID
	self    domain.UserID
	deliver func(domain.ChatMessage)
}

func NewFeedWorker(log *slog.Logger, source contract.DataSource, applier contract.Applier,
	roomID domain.RoomID, self domain.UserID, deliver func(domain.ChatMessage)) *FeedWorker {
	return &FeedWorker{
		log:     log,
		source:  source,
		applier: applier,
		roomID:  roomID,
		self:    self,
		deliver: deliver,
	}
}

func (w *FeedWorker) Run(ctx context.Context) error {
	updates, err := w.source.Subscribe(ctx, w.roomID)
	if err != nil {
		return fmt.Errorf("subscribing to room %s: %w", w.roomID, err)
	}
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping feed", "room", w.roomID)
			return nil
		case message, ok := <-updates:
			if !ok {
				w.log.Debug("Feed closed", "room", w.roomID)
				return nil
			}
			if message.SenderID == w.self {
				continue
			}
			w.applier.Apply(func() { w.deliver(message) })
		}
	}
}

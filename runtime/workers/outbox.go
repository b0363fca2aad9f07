package workers

import (
	"context"
	"log/slog"
	"time"

	"messenger/contract"
	"messenger/domain"
	"messenger/errors"
)

var (
	_ contract.Worker = (*OutboxWorker)(nil)
	_ contract.Outbox = (*OutboxWorker)(nil)
)

type outgoing struct {
	roomID  domain.RoomID
	content string
}

// OutboxWorker sends composed messages through the transport.
// Enqueue is fire-and-forget: it never blocks the UI thread and drops the
// message with a warning when the buffer is full. Failures are not retried,
// they are reported through onFailure on the UI thread.
type OutboxWorker struct {
	log         *slog.Logger
	transport   contract.Transport
	applier     contract.Applier
	queue       chan outgoing
	sendTimeout time.Duration
	onFailure   func(roomID domain.RoomID, content string, err error)
}

func NewOutboxWorker(log *slog.Logger, transport contract.Transport, applier contract.Applier,
	bufferSize int, sendTimeout time.Duration) *OutboxWorker {
	return &OutboxWorker{
		log:         log,
		transport:   transport,
		applier:     applier,
		queue:       make(chan outgoing, bufferSize),
		sendTimeout: sendTimeout,
	}
}

// OnFailure registers the callback run on the UI thread when a send fails.
func (w *OutboxWorker) OnFailure(fn func(roomID domain.RoomID, content string, err error)) *OutboxWorker {
	w.onFailure = fn
	return w
}

func (w *OutboxWorker) Enqueue(roomID domain.RoomID, content string) {
	select {
	case w.queue <- outgoing{roomID: roomID, content: content}:
	default:
		w.log.Warn("Dropping message", "room", roomID, "error", errors.ErrOutboxFull)
	}
}

// Queue exposes the pending sends for backlog sampling.
func (w *OutboxWorker) Queue() NamedChannel {
	return NamedChannel{Name: "outbox", Channel: w.queue}
}

func (w *OutboxWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping outbox")
			return nil
		case out := <-w.queue:
			w.send(ctx, out)
		}
	}
}

func (w *OutboxWorker) send(ctx context.Context, out outgoing) {
	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	ack, err := w.transport.Send(sendCtx, out.roomID, out.content)
	if err != nil {
		w.log.Warn("Message not sent", "room", out.roomID, "error", err)
		if w.onFailure != nil {
			w.applier.Apply(func() { w.onFailure(out.roomID, out.content, err) })
		}
		return
	}
	w.log.Debug("Message acknowledged", "room", out.roomID, "id", ack.ID)
}

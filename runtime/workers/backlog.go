package workers

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"messenger/contract"
)

var _ contract.Worker = (*BacklogWorker)(nil)

type NamedChannel struct {
	Name    string
	Channel any
}

// BacklogWorker periodically samples the length of buffered channels and
// warns once one of them is filled beyond threshold (0..1).
// Reading len and cap is non-blocking, so sampling never interferes with producers.
type BacklogWorker struct {
	log       *slog.Logger
	channels  []NamedChannel
	interval  time.Duration
	threshold float64
}

func NewBacklogWorker(log *slog.Logger, interval time.Duration, threshold float64, channels ...NamedChannel) *BacklogWorker {
	return &BacklogWorker{log: log, channels: channels, interval: interval, threshold: threshold}
}

func (w *BacklogWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping backlog sampling")
			return nil
		case <-ticker.C:
			w.sample()
		}
	}
}

func (w *BacklogWorker) sample() {
	for _, nc := range w.channels {
		length, capacity, ok := fill(nc.Channel)
		if !ok {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		if capacity > 0 && float64(length)/float64(capacity) >= w.threshold {
			w.log.Warn("Channel backlog", "name", nc.Name, "length", length, "capacity", capacity)
			continue
		}
		w.log.Debug("Channel backlog", "name", nc.Name, "length", length, "capacity", capacity)
	}
}

func fill(channel any) (length, capacity int, ok bool) {
	v := reflect.ValueOf(channel)
	if v.Kind() != reflect.Chan {
		return 0, 0, false
	}
	return v.Len(), v.Cap(), true
}

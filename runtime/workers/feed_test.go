package workers

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"messenger/domain"
	"messenger/mocks"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

// inlineApplier runs callbacks right away, the test goroutine plays the UI thread.
type inlineApplier struct {
	mu    sync.Mutex
	calls int
}

func (a *inlineApplier) Apply(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	fn()
}

func TestFeedWorker_Delivers_In_Order_And_Skips_Own_Messages(t *testing.T) {
	defer goleak.VerifyNone(t)
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	source := mocks.NewMockDataSource(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	updates := make(chan domain.ChatMessage, 3)
	updates <- domain.ChatMessage{ID: "1", RoomID: "a", SenderID: "bob", Content: "first"}
	updates <- domain.ChatMessage{ID: "2", RoomID: "a", SenderID: "me", Content: "echo"}
	updates <- domain.ChatMessage{ID: "3", RoomID: "a", SenderID: "bob", Content: "second"}
	close(updates)

	// Given a subscription delivering three messages
	source.EXPECT().Subscribe(gomock.Any(), domain.RoomID("a")).Return(updates, nil).Times(1)

	var delivered []string
	applier := &inlineApplier{}
	worker := NewFeedWorker(log, source, applier, "a", "me", func(m domain.ChatMessage) {
		delivered = append(delivered, m.Content)
	})

	// When the feed runs until the subscription closes
	err := worker.Run(context.Background())

	// Then messages from others are applied in order
	req.NoError(err)
	req.Equal([]string{"first", "second"}, delivered)
	req.Equal(2, applier.calls)
}

func TestFeedWorker_Subscribe_Error(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	source := mocks.NewMockDataSource(ctrl)
	boom := errors.New("boom")

	source.EXPECT().Subscribe(gomock.Any(), gomock.Any()).Return(nil, boom).Times(1)

	worker := NewFeedWorker(slog.Default(), source, &inlineApplier{}, "a", "me", func(domain.ChatMessage) {})
	req.ErrorIs(worker.Run(context.Background()), boom)
}

func TestFeedWorker_Stops_With_Context(t *testing.T) {
	defer goleak.VerifyNone(t)
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	source := mocks.NewMockDataSource(ctrl)

	source.EXPECT().Subscribe(gomock.Any(), gomock.Any()).Return(make(chan domain.ChatMessage), nil).Times(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	worker := NewFeedWorker(slog.Default(), source, &inlineApplier{}, "a", "me", func(domain.ChatMessage) {})
	req.NoError(worker.Run(ctx))
}

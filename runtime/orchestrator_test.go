package runtime

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"messenger/domain"
	"messenger/mocks"
	"messenger/runtime/workers"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestOrchestrator_Start_Registers_One_Feed_Per_Room(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	supervisor := mocks.NewMockISupervisor(ctrl)
	source := mocks.NewMockDataSource(ctrl)
	outbox := mocks.NewMockWorker(ctrl)
	applier := mocks.NewMockApplier(ctrl)

	// Given two rooms
	source.EXPECT().ListRooms(gomock.Any()).
		Return([]domain.ChatRoom{{ID: "a"}, {ID: "b"}}, nil).Times(1)

	// Then two feeds and the outbox are supervised
	gomock.InOrder(
		supervisor.EXPECT().Add(gomock.AssignableToTypeOf(&workers.FeedWorker{}), gomock.AssignableToTypeOf(&workers.FeedWorker{})).
			Return(supervisor),
		supervisor.EXPECT().Add(outbox).Return(supervisor),
		supervisor.EXPECT().Run(gomock.Any()),
	)

	o := NewOrchestrator(slog.Default(), supervisor, source, outbox, applier, "me", func(domain.ChatMessage) {})
	req.NoError(o.Start(context.Background()))
}

func TestOrchestrator_Start_Fails_Without_Rooms(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	supervisor := mocks.NewMockISupervisor(ctrl)
	source := mocks.NewMockDataSource(ctrl)
	boom := errors.New("data layer down")

	source.EXPECT().ListRooms(gomock.Any()).Return(nil, boom).Times(1)

	o := NewOrchestrator(slog.Default(), supervisor, source, nil, nil, "me", nil)
	req.ErrorIs(o.Start(context.Background()), boom)
}

func TestOrchestrator_Stop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	supervisor := mocks.NewMockISupervisor(ctrl)
	supervisor.EXPECT().Stop().Times(1)

	NewOrchestrator(slog.Default(), supervisor, nil, nil, nil, "me", nil).Stop()
}

func TestOrchestrator_Watch_Follows_New_Rooms_Once(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	supervisor := mocks.NewMockISupervisor(ctrl)
	source := mocks.NewMockDataSource(ctrl)
	outbox := mocks.NewMockWorker(ctrl)

	// Given the orchestrator started with room a
	source.EXPECT().ListRooms(gomock.Any()).Return([]domain.ChatRoom{{ID: "a"}}, nil).Times(1)
	gomock.InOrder(
		supervisor.EXPECT().Add(gomock.AssignableToTypeOf(&workers.FeedWorker{})).Return(supervisor),
		supervisor.EXPECT().Add(outbox).Return(supervisor),
		supervisor.EXPECT().Run(gomock.Any()),
		// Then only the room that was not followed yet gets a feed
		supervisor.EXPECT().Add(gomock.AssignableToTypeOf(&workers.FeedWorker{})).Return(supervisor).Times(1),
	)

	o := NewOrchestrator(slog.Default(), supervisor, source, outbox, mocks.NewMockApplier(ctrl), "me", func(domain.ChatMessage) {})
	req.NoError(o.Start(context.Background()))

	// When a refresh lists rooms a and c, twice
	o.Watch("a")
	o.Watch("c")
	o.Watch("c")
}

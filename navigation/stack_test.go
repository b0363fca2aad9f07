package navigation

import (
	stdErrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"messenger/contract"
	"messenger/errors"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestStack(t *testing.T) *Stack {
	tree := DefaultRoutes()
	bindAll(t, tree, "messenger", "messenger.chat", "settings", "settings.language")
	stack, err := NewStack(logs.GetLoggerFromLevel(slog.LevelDebug), tree, Request{Path: "/messenger"})
	require.NoError(t, err)
	return stack
}

func viewOf(e Entry) *fakeView { return e.View.(*fakeView) }

func TestStack_Push_Pop_Round_Trip(t *testing.T) {
	req := require.New(t)
	stack := newTestStack(t)
	root := stack.Active()

	// Given a chat pushed on top of the room list
	first, err := stack.Push("/messenger/:room_id", Params{"room_id": "1"})
	req.NoError(err)

	// When another chat is pushed then popped
	_, err = stack.Push("/messenger/2", nil)
	req.NoError(err)
	req.Equal(3, stack.Depth())
	active, err := stack.Pop()
	req.NoError(err)

	// Then the previous entry and its params are back, exactly
	req.Equal(first, active)
	req.Equal(Params{"room_id": "1"}, active.Params)
	req.Equal([]string{"activate", "suspend", "activate"}, viewOf(active).events)

	active, err = stack.Pop()
	req.NoError(err)
	req.Equal(root, active)
	req.Equal(1, stack.Depth())
}

func TestStack_Pop_Root_Fails(t *testing.T) {
	req := require.New(t)
	stack := newTestStack(t)
	root := stack.Active()

	_, err := stack.Pop()

	req.True(stdErrors.Is(err, errors.ErrEmptyStack))
	req.Equal(1, stack.Depth())
	req.Equal(root, stack.Active())
	req.Equal([]string{"activate"}, viewOf(root).events)
	req.False(stack.CanGoBack())
}

func TestStack_Failed_Push_Leaves_Active_View(t *testing.T) {
	req := require.New(t)
	stack := newTestStack(t)
	root := stack.Active()

	_, err := stack.Push("/messenger/chat/extra", nil)
	req.True(stdErrors.Is(err, errors.ErrRouteNotFound))

	_, err = stack.Push("/messenger/:room_id", Params{})
	req.True(stdErrors.Is(err, errors.ErrMissingParam))

	_, err = stack.Replace("/nowhere", nil)
	req.True(stdErrors.Is(err, errors.ErrRouteNotFound))

	req.Equal(1, stack.Depth())
	req.Equal(root, stack.Active())
	req.Equal([]string{"activate"}, viewOf(root).events)
}

func TestStack_Replace_Keeps_Depth(t *testing.T) {
	req := require.New(t)
	stack := newTestStack(t)
	chat, err := stack.Push("/messenger/1", nil)
	req.NoError(err)

	replaced, err := stack.Replace("/settings/language", nil)
	req.NoError(err)

	req.Equal(2, stack.Depth())
	req.Equal(replaced, stack.Active())
	req.Equal([]string{"activate", "destroy"}, viewOf(chat).events)
	req.Equal([]string{"messenger", "settings.language"}, stack.Breadcrumbs())
}

func TestStack_Only_Top_Entry_Is_Active(t *testing.T) {
	req := require.New(t)
	stack := newTestStack(t)

	for i := 0; i < 5; i++ {
		_, err := stack.Push(fmt.Sprintf("/messenger/%d", i), nil)
		req.NoError(err)
	}

	entries := stack.Entries()
	for i, entry := range entries {
		events := viewOf(entry).events
		last := events[len(events)-1]
		if i == len(entries)-1 {
			req.Equal("activate", last)
			continue
		}
		req.Equal("suspend", last)
	}
}

func TestStack_Transitions_Are_Observed(t *testing.T) {
	req := require.New(t)
	stack := newTestStack(t)
	var seen []Transition
	stack.Observe(TransitionFunc(func(tr Transition) { seen = append(seen, tr) }))

	_, _ = stack.Push("/messenger/1", nil)
	_, _ = stack.Replace("/messenger/2", nil)
	_, _ = stack.Pop()
	_, _ = stack.Pop()

	req.Len(seen, 3)
	req.Equal(ForwardOpen, seen[0].Direction)
	req.Equal(2, seen[0].Depth)
	req.Equal(Swap, seen[1].Direction)
	req.Equal(Params{"room_id": "2"}, seen[1].Active.Params)
	req.Equal(BackClose, seen[2].Direction)
	req.Equal(1, seen[2].Depth)
	req.Equal("forward-open", ForwardOpen.String())
}

func TestStack_PopTo(t *testing.T) {
	req := require.New(t)
	stack := newTestStack(t)
	for i := 0; i < 3; i++ {
		_, err := stack.Navigate(Request{Path: fmt.Sprintf("/messenger/%d", i)})
		req.NoError(err)
	}

	active, err := stack.PopTo(1)
	req.NoError(err)
	req.Equal("/messenger", active.Path)

	_, err = stack.PopTo(0)
	req.True(stdErrors.Is(err, errors.ErrIndexOutOfRange))
}

func TestStack_Factory_Error(t *testing.T) {
	req := require.New(t)
	tree := DefaultRoutes()
	bindAll(t, tree, "messenger")
	boom := fmt.Errorf("boom")
	req.NoError(tree.Bind("messenger.chat", func(Context) (contract.View, error) { return nil, boom }))
	stack, err := NewStack(slog.Default(), tree, Request{Path: "/messenger"})
	req.NoError(err)

	_, err = stack.Push("/messenger/1", nil)
	req.ErrorIs(err, boom)
	req.Equal(1, stack.Depth())

	_, err = NewStack(slog.Default(), tree, Request{Path: "/feed"})
	req.True(stdErrors.Is(err, errors.ErrRouteNotFound))
}

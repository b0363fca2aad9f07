package navigation

import (
	"fmt"
	"log/slog"

	"messenger/contract"
	"messenger/errors"

	"github.com/samber/lo"
)

type Direction int

const (
	// ForwardOpen is recorded when a new entry is pushed.
	ForwardOpen Direction = iota
	// BackClose is recorded when the top entry is popped.
	BackClose
	// Swap is recorded when the top entry is replaced.
	Swap
)

func (d Direction) String() string {
	switch d {
	case ForwardOpen:
		return "forward-open"
	case BackClose:
		return "back-close"
	case Swap:
		return "swap"
	default:
		return "unknown"
	}
}

// Entry is one level of the back-stack.
type Entry struct {
	Route  *Route
	Path   string
	Params Params
	View   contract.View
}

// Transition tells the rendering host which entry became active and how.
type Transition struct {
	Direction Direction
	Active    Entry
	Depth     int
}

type TransitionObserver interface {
	Transitioned(t Transition)
}

type TransitionFunc func(t Transition)

func (f TransitionFunc) Transitioned(t Transition) { f(t) }

// Stack is the back-stack of views. The top entry is active, the others are
// suspended but retained. The root entry is never popped.
// Not safe for concurrent use: it belongs to the UI thread.
type Stack struct {
	log       *slog.Logger
	tree      *Tree
	entries   []Entry
	observers []TransitionObserver
}

// NewStack resolves root and makes it the first active entry.
func NewStack(log *slog.Logger, tree *Tree, root Request) (*Stack, error) {
	s := &Stack{log: log, tree: tree}
	entry, err := s.instantiate(root.Path, root.Params)
	if err != nil {
		return nil, fmt.Errorf("root entry: %w", err)
	}
	s.entries = append(s.entries, entry)
	entry.View.Activate()
	return s, nil
}

func (s *Stack) Observe(observer TransitionObserver) {
	s.observers = append(s.observers, observer)
}

// Push suspends the active entry and activates a new one on top of it.
// On error the stack is left untouched.
func (s *Stack) Push(path string, params Params) (Entry, error) {
	entry, err := s.instantiate(path, params)
	if err != nil {
		return Entry{}, err
	}
	s.top().View.Suspend()
	s.entries = append(s.entries, entry)
	entry.View.Activate()
	s.log.Debug("Navigation push", "path", entry.Path, "depth", len(s.entries))
	s.notify(ForwardOpen)
	return entry, nil
}

// Navigate pushes a request emitted by a view.
func (s *Stack) Navigate(req Request) (Entry, error) {
	return s.Push(req.Path, req.Params)
}

// Pop destroys the active entry and reactivates the previous one.
func (s *Stack) Pop() (Entry, error) {
	if len(s.entries) <= 1 {
		return Entry{}, errors.ErrEmptyStack
	}
	s.top().View.Destroy()
	s.entries = s.entries[:len(s.entries)-1]
	active := s.top()
	active.View.Activate()
	s.log.Debug("Navigation pop", "path", active.Path, "depth", len(s.entries))
	s.notify(BackClose)
	return active, nil
}

// Replace destroys the active entry and puts a new one in its place.
// The depth of the stack does not change.
func (s *Stack) Replace(path string, params Params) (Entry, error) {
	entry, err := s.instantiate(path, params)
	if err != nil {
		return Entry{}, err
	}
	s.top().View.Destroy()
	s.entries[len(s.entries)-1] = entry
	entry.View.Activate()
	s.log.Debug("Navigation replace", "path", entry.Path, "depth", len(s.entries))
	s.notify(Swap)
	return entry, nil
}

// PopTo pops entries until the stack is depth entries deep.
func (s *Stack) PopTo(depth int) (Entry, error) {
	if depth < 1 || depth > len(s.entries) {
		return Entry{}, fmt.Errorf("%w: depth %d of %d", errors.ErrIndexOutOfRange, depth, len(s.entries))
	}
	for len(s.entries) > depth {
		if _, err := s.Pop(); err != nil {
			return Entry{}, err
		}
	}
	return s.top(), nil
}

func (s *Stack) Active() Entry { return s.top() }

func (s *Stack) Depth() int { return len(s.entries) }

func (s *Stack) CanGoBack() bool { return len(s.entries) > 1 }

// Entries returns the back-stack, root first.
func (s *Stack) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Breadcrumbs returns the title chain of the stack, root first.
func (s *Stack) Breadcrumbs() []string {
	return lo.Map(s.entries, func(e Entry, _ int) string { return e.View.Title() })
}

func (s *Stack) top() Entry {
	return s.entries[len(s.entries)-1]
}

func (s *Stack) instantiate(path string, params Params) (Entry, error) {
	match, err := s.tree.Resolve(path, params)
	if err != nil {
		return Entry{}, err
	}
	ctx := Context{Route: match.Route, Path: path, Params: match.Params.Clone()}
	view, err := match.Route.factory(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("building view of %q: %w", match.Route.FullName(), err)
	}
	return Entry{Route: match.Route, Path: path, Params: match.Params, View: view}, nil
}

func (s *Stack) notify(direction Direction) {
	t := Transition{Direction: direction, Active: s.top(), Depth: len(s.entries)}
	for _, o := range s.observers {
		o.Transitioned(t)
	}
}

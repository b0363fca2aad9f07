// Package navigation resolves paths against a static route tree and keeps the
// back-stack of views. The stack is the only owner of "which view is active".
package navigation

import (
	"fmt"
	"maps"
	"strings"

	"messenger/contract"
	"messenger/errors"

	"github.com/samber/lo"
)

// RootName names the implicit node every tree hangs from.
const RootName = "application"

type Params map[string]string

// Clone returns a copy that does not share storage with p.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	return maps.Clone(p)
}

// Request asks for the view living at Path.
// Path segments written as ":name" take their value from Params.
type Request struct {
	Path   string
	Params Params
}

// Context is what a factory gets to build the view of a matched route.
type Context struct {
	Route  *Route
	Path   string
	Params Params
}

type Factory func(ctx Context) (contract.View, error)

// Route is a node of the static tree.
// A segment starting with ':' is dynamic and captures one path segment.
type Route struct {
	Name     string
	Segment  string
	parent   *Route
	children []*Route
	factory  Factory
}

// NewRoute declares a node. An empty segment defaults to the name, like the web router does.
func NewRoute(name, segment string, children ...*Route) *Route {
	if segment == "" {
		segment = name
	}
	r := &Route{Name: name, Segment: strings.Trim(segment, "/")}
	for _, child := range children {
		child.parent = r
		r.children = append(r.children, child)
	}
	return r
}

// Param returns the parameter name of a dynamic node.
func (r *Route) Param() (string, bool) {
	if strings.HasPrefix(r.Segment, ":") {
		return r.Segment[1:], true
	}
	return "", false
}

// FullName is the dotted name from the root, e.g. "messenger.chat".
func (r *Route) FullName() string {
	if r.parent == nil {
		return r.Name
	}
	if r.parent.parent == nil {
		return r.Name
	}
	return r.parent.FullName() + "." + r.Name
}

// Pattern is the path template of the node, e.g. "/messenger/:room_id".
func (r *Route) Pattern() string {
	if r.parent == nil {
		return "/"
	}
	if r.parent.parent == nil {
		return "/" + r.Segment
	}
	return r.parent.Pattern() + "/" + r.Segment
}

func (r *Route) Children() []*Route {
	return append([]*Route(nil), r.children...)
}

// IsLeaf reports whether a view can be instantiated for the node.
func (r *Route) IsLeaf() bool {
	return r.factory != nil
}

func (r *Route) literal(segment string) (*Route, bool) {
	return lo.Find(r.children, func(child *Route) bool {
		_, dynamic := child.Param()
		return !dynamic && child.Segment == segment
	})
}

func (r *Route) dynamic() (*Route, bool) {
	return lo.Find(r.children, func(child *Route) bool {
		_, dynamic := child.Param()
		return dynamic
	})
}

// Tree is the validated route configuration.
type Tree struct {
	root   *Route
	byName map[string]*Route
}

// NewTree hangs routes under the root node and validates the whole tree:
// sibling segments must be unique and a node has at most one dynamic child.
func NewTree(routes ...*Route) (*Tree, error) {
	t := &Tree{
		root:   NewRoute(RootName, "/", routes...),
		byName: make(map[string]*Route),
	}
	if err := t.index(t.root); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) index(r *Route) error {
	name := r.FullName()
	if _, ok := t.byName[name]; ok {
		return fmt.Errorf("%w: duplicated route name %q", errors.ErrInvalidRoute, name)
	}
	t.byName[name] = r

	seen := make(map[string]struct{})
	dynamics := 0
	for _, child := range r.children {
		if child.Name == "" || strings.Contains(child.Segment, "/") {
			return fmt.Errorf("%w: bad child %q under %q", errors.ErrInvalidRoute, child.Segment, name)
		}
		if _, ok := child.Param(); ok {
			dynamics++
		}
		if _, ok := seen[child.Segment]; ok || dynamics > 1 {
			return fmt.Errorf("%w: ambiguous segment %q under %q", errors.ErrInvalidRoute, child.Segment, name)
		}
		seen[child.Segment] = struct{}{}
		if err := t.index(child); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) Root() *Route { return t.root }

// Lookup finds a route by its dotted name.
func (t *Tree) Lookup(name string) (*Route, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// Routes lists every node, depth-first.
func (t *Tree) Routes() []*Route {
	var res []*Route
	var walk func(r *Route)
	walk = func(r *Route) {
		res = append(res, r)
		for _, child := range r.children {
			walk(child)
		}
	}
	walk(t.root)
	return res
}

// Bind attaches the view factory of the named route, turning it into a leaf.
func (t *Tree) Bind(name string, factory Factory) error {
	r, ok := t.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", errors.ErrRouteNotFound, name)
	}
	r.factory = factory
	return nil
}

// Match is a resolved route with the parameters captured on the way down.
type Match struct {
	Route  *Route
	Params Params
}

// Resolve walks path depth-first, one tree level per segment.
// Literal children win over the dynamic child of the same level.
func (t *Tree) Resolve(path string, params Params) (Match, error) {
	node := t.root
	bound := Params{}
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment == "" {
			continue
		}
		next, err := t.step(node, segment, params, bound)
		if err != nil {
			return Match{}, fmt.Errorf("%w (path %q)", err, path)
		}
		node = next
	}
	if !node.IsLeaf() {
		return Match{}, fmt.Errorf("%w: %q has no view", errors.ErrRouteNotFound, path)
	}
	return Match{Route: node, Params: bound}, nil
}

func (t *Tree) step(node *Route, segment string, params, bound Params) (*Route, error) {
	if name, ok := strings.CutPrefix(segment, ":"); ok {
		child, found := node.dynamic()
		if param, _ := child.paramName(); !found || param != name {
			return nil, fmt.Errorf("%w: no %q parameter under %q", errors.ErrRouteNotFound, name, node.FullName())
		}
		value, ok := params[name]
		if !ok || value == "" {
			return nil, fmt.Errorf("%w: %q", errors.ErrMissingParam, name)
		}
		bound[name] = value
		return child, nil
	}
	if child, ok := node.literal(segment); ok {
		return child, nil
	}
	if child, ok := node.dynamic(); ok {
		name, _ := child.Param()
		bound[name] = segment
		return child, nil
	}
	return nil, fmt.Errorf("%w: no %q under %q", errors.ErrRouteNotFound, segment, node.FullName())
}

func (r *Route) paramName() (string, bool) {
	if r == nil {
		return "", false
	}
	return r.Param()
}

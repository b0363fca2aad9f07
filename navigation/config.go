package navigation

import (
	"fmt"
	"io"

	"messenger/errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// RouteSpec is the declarative form of a Route, as found in a routes file:
//
//	routes:
//	  - name: messenger
//	    children:
//	      - name: chat
//	        path: ":room_id"
type RouteSpec struct {
	Name     string      `yaml:"name" validate:"required,excludesall=./:"`
	Path     string      `yaml:"path" validate:"omitempty,excludesall=/"`
	Children []RouteSpec `yaml:"children" validate:"dive"`
}

type RoutesFile struct {
	Routes []RouteSpec `yaml:"routes" validate:"required,min=1,dive"`
}

// LoadRoutes decodes and validates a routes file, then builds the tree.
func LoadRoutes(r io.Reader) (*Tree, error) {
	var file RoutesFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidRoute, err)
	}
	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidRoute, err)
	}
	return NewTree(lo.Map(file.Routes, toRoute)...)
}

func toRoute(spec RouteSpec, _ int) *Route {
	return NewRoute(spec.Name, spec.Path, lo.Map(spec.Children, toRoute)...)
}

// DefaultRoutes mirrors the web client's router.
func DefaultRoutes() *Tree {
	tree, err := NewTree(
		NewRoute("feed", ""),
		NewRoute("messenger", "",
			NewRoute("chat", ":room_id"),
		),
		NewRoute("users", "",
			NewRoute("user", ":user_id"),
		),
		NewRoute("files", ""),
		NewRoute("settings", "",
			NewRoute("language", ""),
		),
		NewRoute("info", ""),
		NewRoute("register", ""),
		NewRoute("login", ""),
	)
	if err != nil {
		panic(err)
	}
	return tree
}

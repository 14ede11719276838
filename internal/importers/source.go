package importers

import (
	"context"
	"fmt"
)

// Source fetches share links from somewhere a user points at.
type Source interface {
	Fetch(ctx context.Context, target string) ([]string, error)
}

type Factory func() Source

var registry = make(map[string]Factory)

func Register(name string, factory Factory) {
	registry[name] = factory
}

func Get(name string) (Source, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("import source '%s' not found", name)
	}
	return factory(), nil
}

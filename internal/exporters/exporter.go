package exporters

import (
	"fmt"
	"sort"

	"proxyconf/internal/model"
)

// Exporter renders stored profiles in a client-consumable format.
type Exporter interface {
	Export(profiles []model.Proxy) (string, error)
}

type Factory func() Exporter

var registry = make(map[string]Factory)

func Register(name string, factory Factory) {
	registry[name] = factory
}

func Get(name string) (Exporter, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("exporter '%s' not found", name)
	}
	return factory(), nil
}

// Names lists the registered exporters.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

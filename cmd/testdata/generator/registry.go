package generator

import (
	"fmt"
	"sort"
)

// Options parameterizes the generators
type Options struct {
	DonorCount    int
	UnknownRate   float64
	BadAmountRate float64
}

// Registry maps generator names to generator factory functions
var Registry = map[string]func(Options) Generator{
	"donors": func(Options) Generator {
		return &DonorGenerator{}
	},
	"donations": func(o Options) Generator {
		return &DonationGenerator{
			DonorCount:    o.DonorCount,
			UnknownRate:   o.UnknownRate,
			BadAmountRate: o.BadAmountRate,
		}
	},
}

// Get returns a generator by name
func Get(name string, opts Options) (Generator, error) {
	factory, exists := Registry[name]
	if !exists {
		return nil, fmt.Errorf("unknown generator: %s", name)
	}
	return factory(opts), nil
}

// List returns all available generator names
func List() []string {
	var names []string
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

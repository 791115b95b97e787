package datagen

import (
	"fmt"
	"sort"

	"github.com/brianvoe/gofakeit/v6"
)

// GeneratorFunc produces one random value.
type GeneratorFunc func() any

// Registry maps generator names to functions. Seeded registries produce
// reproducible sequences, which keeps failing tests replayable.
type Registry struct {
	faker *gofakeit.Faker
	gens  map[string]GeneratorFunc
}

// NewRegistry creates a registry seeded for reproducibility. Seed 0 uses a
// random seed.
func NewRegistry(seed uint64) *Registry {
	r := &Registry{
		faker: gofakeit.New(int64(seed)),
		gens:  make(map[string]GeneratorFunc),
	}
	r.registerBuiltins()
	return r
}

func (r *Registry) registerBuiltins() {
	f := r.faker
	builtins := map[string]GeneratorFunc{
		"email":      func() any { return f.Email() },
		"name":       func() any { return f.Name() },
		"first_name": func() any { return f.FirstName() },
		"last_name":  func() any { return f.LastName() },
		"username":   func() any { return f.Username() },
		"company":    func() any { return f.Company() },
		"phone":      func() any { return f.Phone() },
		"url":        func() any { return f.URL() },
		"uuid":       func() any { return f.UUID() },
		"word":       func() any { return f.Word() },
		"sentence":   func() any { return f.Sentence(8) },
		"int":        func() any { return f.Number(1, 1000) },
		"price":      func() any { return f.Price(1, 1000) },
		"bool":       func() any { return f.Bool() },
		"city":       func() any { return f.City() },
		"country":    func() any { return f.Country() },
	}
	for name, fn := range builtins {
		r.gens[name] = fn
	}
}

// Register adds or replaces a named generator.
func (r *Registry) Register(name string, fn GeneratorFunc) {
	r.gens[name] = fn
}

// Names returns the registered generator names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.gens))
	for name := range r.gens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate produces one value from the named generator.
func (r *Registry) Generate(name string) (any, error) {
	fn, ok := r.gens[name]
	if !ok {
		return nil, fmt.Errorf("datagen: no generator %q", name)
	}
	return fn(), nil
}

// Fill builds a payload from a field-to-generator mapping. Fields are
// generated in sorted field order so seeded runs are deterministic.
func (r *Registry) Fill(fields map[string]string) (map[string]any, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(fields))
	for _, field := range keys {
		value, err := r.Generate(fields[field])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		out[field] = value
	}
	return out, nil
}

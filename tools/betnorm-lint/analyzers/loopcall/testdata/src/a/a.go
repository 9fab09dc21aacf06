package a

import "context"

type Store struct{}

type Resolver struct{}

func (r *Resolver) Rebuild(s *Store) {}

type Catalog struct{}

func (c *Catalog) Save(ctx context.Context) error { return nil }

type Registry struct{}

func BuildRegistry(s *Store) *Registry { return nil }

func badAlias(ctx context.Context, aliases []string, r *Resolver, c *Catalog, s *Store) {
	for range aliases {
		r.Rebuild(s)    // want "Rebuild called inside loop - rebuild once after the loop"
		_ = c.Save(ctx) // want "Save called inside loop - save once after the loop"
	}
}

func badBuild(s *Store, n int) {
	for i := 0; i < n; i++ {
		_ = BuildRegistry(s) // want "BuildRegistry called inside loop - rebuild once after the loop"
	}
}

func good(ctx context.Context, aliases []string, r *Resolver, c *Catalog, s *Store) {
	for _, a := range aliases {
		_ = len(a)
	}
	r.Rebuild(s)
	_ = c.Save(ctx)
}

func goodDeferred(ctx context.Context, aliases []string, c *Catalog) []func() error {
	var fns []func() error
	for range aliases {
		fns = append(fns, func() error { return c.Save(ctx) })
	}
	return fns
}

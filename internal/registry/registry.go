package registry

// Registry is the insertion-ordered set of managed packages. It is plain
// in-memory state owned by the environment manager; callers receive
// copies, never aliases into the internal map.
type Registry struct {
	byName map[string]ManagedPackage
	order  []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]ManagedPackage)}
}

// Seed builds a registry from the given packages in slice order.
// It fails with DuplicateNameError on repeated names.
func Seed(pkgs []ManagedPackage) (*Registry, error) {
	r := New()
	for _, p := range pkgs {
		if err := r.Add(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a package at the end of the iteration order.
func (r *Registry) Add(p ManagedPackage) error {
	if _, ok := r.byName[p.Name]; ok {
		return &DuplicateNameError{Name: p.Name}
	}
	r.byName[p.Name] = p
	r.order = append(r.order, p.Name)
	return nil
}

// Remove deletes a package by name.
func (r *Registry) Remove(name string) error {
	if _, ok := r.byName[name]; !ok {
		return &NotFoundError{Name: name}
	}
	delete(r.byName, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the package with the given name.
func (r *Registry) Get(name string) (ManagedPackage, error) {
	p, ok := r.byName[name]
	if !ok {
		return ManagedPackage{}, &NotFoundError{Name: name}
	}
	return p, nil
}

// Resolve updates the version and install path of an existing package.
// Empty arguments leave the corresponding field unchanged.
func (r *Registry) Resolve(name, version, installPath string) error {
	p, ok := r.byName[name]
	if !ok {
		return &NotFoundError{Name: name}
	}
	if version != "" {
		p.Version = version
	}
	if installPath != "" {
		p.InstallPath = installPath
	}
	r.byName[name] = p
	return nil
}

// List returns a snapshot of all packages in insertion order. The
// snapshot is independent of later mutations.
func (r *Registry) List() []ManagedPackage {
	out := make([]ManagedPackage, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Names returns the package names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered packages.
func (r *Registry) Len() int { return len(r.order) }

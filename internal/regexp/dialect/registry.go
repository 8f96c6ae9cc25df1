package dialect

import (
	"embed"
	"fmt"
	"os"
	"path"
	"slices"
	"sync"

	"bennypowers.dev/rxls/internal/resolver"
	"gopkg.in/yaml.v3"
)

//go:embed dialects/*.yaml
var builtinFS embed.FS

// Registry holds dialect descriptors by name. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	dialects map[string]*Descriptor
	builtin  map[string]bool
	sources  map[string]string
}

// NewRegistry returns a registry preloaded with the built-in dialects.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		dialects: make(map[string]*Descriptor),
		builtin:  make(map[string]bool),
		sources:  make(map[string]string),
	}

	entries, err := builtinFS.ReadDir("dialects")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in dialects: %w", err)
	}
	raw := make(map[string][]byte, len(entries))
	graph := resolver.NewDependencyGraph()
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("dialects", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		head, err := ReadHeader(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", e.Name(), err)
		}
		raw[head.Name] = data
		graph.Add(head.Name, head.Extends)
	}

	// Parents must be registered before the dialects that extend them.
	order, err := graph.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("built-in dialects: %w", err)
	}
	for _, name := range order {
		d, err := r.decode(raw[name])
		if err != nil {
			return nil, fmt.Errorf("built-in dialect %q: %w", name, err)
		}
		r.dialects[name] = d
		r.builtin[name] = true
	}
	return r, nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
	defaultRegistryErr  error
)

// Builtin returns a shared registry of the built-in dialects. Callers must
// not load workspace dialects into it.
func Builtin() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry, defaultRegistryErr = NewRegistry()
	})
	if defaultRegistryErr != nil {
		panic(defaultRegistryErr)
	}
	return defaultRegistry
}

// decode reads a descriptor, starting from its parent's values when it
// extends one. Callers hold the lock or own the registry exclusively.
func (r *Registry) decode(data []byte) (*Descriptor, error) {
	head, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	d := &Descriptor{}
	if head.Extends != "" {
		parent, ok := r.dialects[head.Extends]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, head.Extends)
		}
		*d = *parent
		d.Boundaries = slices.Clone(parent.Boundaries)
		d.SimpleClasses = slices.Clone(parent.SimpleClasses)
		d.NamedGroups = slices.Clone(parent.NamedGroups)
		d.NamedGroupRefs = slices.Clone(parent.NamedGroupRefs)
		d.Description = ""
	}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, err
	}
	if err := d.prepare(); err != nil {
		return nil, err
	}
	return d, nil
}

// Header is the identity of a descriptor file.
type Header struct {
	Name    string `yaml:"name"`
	Extends string `yaml:"extends"`
}

// ReadHeader decodes only the name and parent of a descriptor, so files can
// be loaded parents first.
func ReadHeader(data []byte) (Header, error) {
	var h Header
	if err := yaml.Unmarshal(data, &h); err != nil {
		return h, err
	}
	return h, nil
}

// IsBuiltin reports whether name is one of the embedded dialects.
func (r *Registry) IsBuiltin(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.builtin[name]
}

// Get returns the named descriptor.
func (r *Registry) Get(name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dialects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
	return d, nil
}

// Names lists registered dialects in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.dialects))
	for name := range r.dialects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Load decodes a descriptor from YAML and registers it. Built-in dialects
// cannot be replaced.
func (r *Registry) Load(data []byte, source string) (*Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, err := r.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if r.builtin[d.Name] {
		return nil, fmt.Errorf("%s: dialect %q is built in and cannot be redefined", source, d.Name)
	}
	r.dialects[d.Name] = d
	r.sources[d.Name] = source
	return d, nil
}

// LoadFile reads and registers a descriptor file.
func (r *Registry) LoadFile(filename string) (*Descriptor, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialect file: %w", err)
	}
	return r.Load(data, filename)
}

// Source returns the file a workspace dialect was loaded from.
func (r *Registry) Source(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	return s, ok
}

// ResetCustom drops every dialect that is not built in.
func (r *Registry) ResetCustom() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name := range r.dialects {
		if !r.builtin[name] {
			delete(r.dialects, name)
		}
	}
	clear(r.sources)
}

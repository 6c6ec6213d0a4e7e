package registry

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Registry maps the indicator names a tool accepts to provider keys.
// It is immutable once built and safe for concurrent use.
type Registry[K any] struct {
	label   string
	entries map[string]K
	folded  map[string]string
	sorted  string
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	label    string
	foldCase bool
}

// WithLabel sets the noun used in rejection messages. Defaults to "Indicador".
func WithLabel(label string) Option {
	return func(o *options) { o.label = label }
}

// FoldCase makes lookups case-insensitive. Resolve then reports the
// canonical spelling.
func FoldCase() Option {
	return func(o *options) { o.foldCase = true }
}

// New builds a registry from a literal name→key table.
func New[K any](entries map[string]K, opts ...Option) *Registry[K] {
	o := options{label: "Indicador"}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry[K]{
		label:   o.label,
		entries: make(map[string]K, len(entries)),
	}
	names := make([]string, 0, len(entries))
	for name, key := range entries {
		r.entries[name] = key
		names = append(names, name)
	}
	sort.Strings(names)
	r.sorted = strings.Join(names, ", ")

	if o.foldCase {
		caser := cases.Upper(language.Und)
		r.folded = make(map[string]string, len(entries))
		for _, name := range names {
			r.folded[caser.String(name)] = name
		}
	}
	return r
}

// Resolve returns the canonical name and provider key for name.
func (r *Registry[K]) Resolve(name string) (string, K, error) {
	canonical := name
	if r.folded != nil {
		// Casers are not safe for concurrent use.
		caser := cases.Upper(language.Und)
		if c, ok := r.folded[caser.String(name)]; ok {
			canonical = c
		}
	}
	key, ok := r.entries[canonical]
	if !ok {
		var zero K
		return "", zero, fmt.Errorf("%s '%s' não suportado. Use: %s.", r.label, name, r.sorted)
	}
	return canonical, key, nil
}

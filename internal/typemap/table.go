// Package typemap resolves C# type names into target-language type expressions
// and default values.
package typemap

import (
	"fmt"
	"sort"
	"sync"

	"cspoco/internal/model"
)

// TranslationFunc produces the conversion for an exact source type name.
type TranslationFunc func() model.TypeConversion

// Translate returns a TranslationFunc for a fixed conversion.
func Translate(source, target, def string) TranslationFunc {
	return func() model.TypeConversion {
		return model.NewConversion(source, target, def)
	}
}

// Table maps exact source type names to translations. It is safe for
// concurrent use.
type Table struct {
	dialect Dialect

	mu      sync.RWMutex
	entries map[string]TranslationFunc
}

// NewTable creates a table seeded with the built-in translations of dialect.
func NewTable(dialect Dialect) (*Table, error) {
	seed, ok := builtins[dialect]
	if !ok {
		return nil, fmt.Errorf("unknown dialect: %s", dialect)
	}
	t := &Table{
		dialect: dialect,
		entries: make(map[string]TranslationFunc, len(seed)),
	}
	for name, fn := range seed {
		t.entries[name] = fn
	}
	return t, nil
}

// MustNewTable is NewTable that panics on an unknown dialect.
func MustNewTable(dialect Dialect) *Table {
	t, err := NewTable(dialect)
	if err != nil {
		panic(err)
	}
	return t
}

// Dialect returns the target dialect the table was seeded for.
func (t *Table) Dialect() Dialect {
	return t.dialect
}

// Register merges entries into the table. An entry for an existing name
// replaces it; nil entries are ignored.
func (t *Table) Register(entries map[string]TranslationFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, fn := range entries {
		if fn == nil {
			continue
		}
		t.entries[name] = fn
	}
}

// Lookup returns the conversion for the exact name.
func (t *Table) Lookup(name string) (model.TypeConversion, bool) {
	t.mu.RLock()
	fn, ok := t.entries[name]
	t.mu.RUnlock()
	if !ok {
		return model.TypeConversion{}, false
	}
	return fn(), true
}

// Names returns the registered names in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

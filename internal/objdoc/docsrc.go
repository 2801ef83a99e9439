package objdoc

import (
	"sort"
	"sync"
)

// Docsrc is the top-level document:
// a mapping from fully-qualified module names to their objdocs.
//
// A Docsrc is the resolution root for all refs reachable from it.
// Module entries are inserted at most once and never replaced,
// so objdocs handed out to readers remain valid
// while later modules accrete.
type Docsrc struct {
	mu      sync.RWMutex
	modules map[string]*Objdoc
}

// NewDocsrc returns an empty document.
func NewDocsrc() *Docsrc {
	return &Docsrc{modules: make(map[string]*Objdoc)}
}

// Module returns the objdoc for a module,
// reporting whether the module is present.
func (d *Docsrc) Module(name string) (*Objdoc, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	doc, ok := d.modules[name]
	return doc, ok
}

// Add inserts a module objdoc if the module is not already present,
// and returns the entry that won:
// the given objdoc on insert,
// or the existing entry if another caller got there first.
func (d *Docsrc) Add(name string, doc *Objdoc) *Objdoc {
	d.mu.Lock()
	defer d.mu.Unlock()
	if existing, ok := d.modules[name]; ok {
		return existing
	}
	if d.modules == nil {
		d.modules = make(map[string]*Objdoc)
	}
	d.modules[name] = doc
	return doc
}

// ModuleNames returns the names of all present modules, sorted.
func (d *Docsrc) ModuleNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.modules))
	for name := range d.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of modules in the document.
func (d *Docsrc) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.modules)
}

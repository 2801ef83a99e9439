package doccache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"braces.dev/errtrace"
	"github.com/alexhsamuel/supdoc/internal/objdoc"
)

// Memory is a bounded in-memory cache of module objdocs
// with LRU eviction.
type Memory struct {
	cache *lru.Cache[string, *objdoc.Objdoc]
}

// NewMemory builds a memory cache holding at most size modules.
func NewMemory(size int) (*Memory, error) {
	cache, err := lru.New[string, *objdoc.Objdoc](size)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Memory{cache: cache}, nil
}

// Get implements Cache.
func (m *Memory) Get(modname string) (*objdoc.Objdoc, bool, error) {
	doc, ok := m.cache.Get(modname)
	return doc, ok, nil
}

// Put implements Cache.
func (m *Memory) Put(modname string, doc *objdoc.Objdoc) error {
	m.cache.Add(modname, doc)
	return nil
}

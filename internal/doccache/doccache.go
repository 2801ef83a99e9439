// Package doccache caches extracted module objdocs
// so that repeated lookups do not re-run the producer.
//
// Two caches are provided:
// a bounded in-memory cache,
// and an on-disk cache of gzip-compressed JSON files
// that survives across runs.
// Caching wraps any Loader as a decorator.
package doccache

import (
	"context"
	"log"

	"github.com/alexhsamuel/supdoc/internal/objdoc"
	"github.com/alexhsamuel/supdoc/internal/resolver"
)

// Cache stores module objdocs keyed by module name.
//
// Get reports a miss with ok=false; errors are reserved for
// failures worth logging, and also count as misses.
// Put may refuse an entry; the caller moves on to the next cache.
type Cache interface {
	Get(modname string) (doc *objdoc.Objdoc, ok bool, err error)
	Put(modname string, doc *objdoc.Objdoc) error
}

// Caching decorates a Loader with an ordered list of caches.
//
// Loads consult each cache in turn,
// fall through to the underlying Loader on a miss,
// and write the result back to every cache.
// Caches are tiers: list faster caches first.
type Caching struct {
	// Loader produces objdocs on cache misses. Required.
	Loader resolver.Loader

	// Caches are consulted in order. Earlier caches are assumed faster.
	Caches []Cache

	// DebugLog logs cache misses and write-back failures if non-nil.
	DebugLog *log.Logger
}

var _ resolver.Loader = (*Caching)(nil)

// LoadModule implements resolver.Loader.
func (c *Caching) LoadModule(ctx context.Context, modname string) (*objdoc.Objdoc, error) {
	for _, cache := range c.Caches {
		doc, ok, err := cache.Get(modname)
		if err != nil {
			if c.DebugLog != nil {
				c.DebugLog.Printf("cache read %v: %v", modname, err)
			}
			continue
		}
		if ok {
			return doc, nil
		}
	}

	doc, err := c.Loader.LoadModule(ctx, modname)
	if err != nil {
		return nil, err
	}

	for _, cache := range c.Caches {
		if err := cache.Put(modname, doc); err != nil {
			if c.DebugLog != nil {
				c.DebugLog.Printf("cache write %v: %v", modname, err)
			}
		}
	}

	return doc, nil
}

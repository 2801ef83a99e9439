// Package resolver looks up objdocs in a docsrc document by path,
// dereferencing refs and lazily loading missing modules.
package resolver

import (
	"context"
	"errors"
	"log"
	"strings"

	"braces.dev/errtrace"
	"golang.org/x/sync/singleflight"

	"github.com/alexhsamuel/supdoc/internal/docpath"
	"github.com/alexhsamuel/supdoc/internal/objdoc"
)

// Loader fetches the objdoc for a module that is not yet present
// in the document, typically by invoking an external producer.
type Loader interface {
	LoadModule(ctx context.Context, modname string) (*objdoc.Objdoc, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, modname string) (*objdoc.Objdoc, error)

// LoadModule calls the function.
func (f LoaderFunc) LoadModule(ctx context.Context, modname string) (*objdoc.Objdoc, error) {
	return f(ctx, modname)
}

// Resolver resolves lookup paths against a docsrc document.
//
// Resolution follows the document's modules mapping,
// then descends through dict entries,
// dereferencing refs against the document root as they are met.
// The same path always resolves to the same objdoc
// within one document snapshot.
type Resolver struct {
	// Docsrc is the document to resolve against. Required.
	Docsrc *objdoc.Docsrc

	// Loader, if set, supplies modules absent from the document.
	// A loaded module is inserted into the document
	// before resolution continues,
	// with at most one load in flight per module name.
	Loader Loader

	// DebugLog logs resolution steps if non-nil.
	DebugLog *log.Logger

	loads singleflight.Group
}

// Resolve returns the objdoc at the given path.
// The result is never a ref.
//
// It fails with [NotFoundError] if any component is absent
// and with [CycleError] if ref dereferencing revisits a path.
func (r *Resolver) Resolve(ctx context.Context, p docpath.Path) (*objdoc.Objdoc, error) {
	return r.resolve(ctx, p, nil)
}

// Find resolves a user-supplied dotted name
// whose module/qualname split is not known.
//
// A colon fixes the split ("html.parser:HTMLParser.close").
// Otherwise candidate splits are tried longest-module-prefix first,
// and the first that resolves wins.
func (r *Resolver) Find(ctx context.Context, name string) (docpath.Path, *objdoc.Objdoc, error) {
	if modname, qualname, ok := strings.Cut(name, ":"); ok {
		// Explicit colon split.
		p, err := docpath.New(modname, qualname)
		if err != nil {
			return docpath.Path{}, nil, err
		}
		doc, err := r.Resolve(ctx, p)
		return p, doc, err
	}

	candidates, err := docpath.Splits(name)
	if err != nil {
		return docpath.Path{}, nil, err
	}
	for _, p := range candidates {
		doc, err := r.Resolve(ctx, p)
		if err == nil {
			return p, doc, nil
		}
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return docpath.Path{}, nil, err
		}
	}
	return docpath.Path{}, nil, &NotFoundError{
		Path:    docpath.Path{Modname: name},
		Missing: name,
	}
}

func (r *Resolver) resolve(ctx context.Context, p docpath.Path, visited []string) (*objdoc.Objdoc, error) {
	key := p.String()
	for _, seen := range visited {
		if seen == key {
			return nil, &CycleError{Path: p, Seen: append(visited, key)}
		}
	}
	visited = append(visited, key)

	cur, err := r.module(ctx, p)
	if err != nil {
		return nil, err
	}

	// While descent has passed only through modules,
	// a segment may name a submodule as well as a dict entry.
	// Submodules live as top-level keys of the document,
	// so the check extends the current module name.
	modname := p.Modname
	atModule := true

	parts := p.Parts()
	for i, part := range parts {
		if atModule {
			submod := modname + "." + part
			if doc, ok := r.Docsrc.Module(submod); ok {
				cur, modname = doc, submod
				continue
			}
		}

		node, ok := cur.Dict[part]
		if !ok {
			missing := docpath.Path{
				Modname:  p.Modname,
				Qualname: strings.Join(parts[:i+1], "."),
			}
			return nil, &NotFoundError{Path: p, Missing: missing.String()}
		}
		if node.Ref != nil {
			target, err := node.Ref.Path()
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			// The ref is root-relative; re-resolve from the document root,
			// carrying any components not yet consumed.
			for _, rest := range parts[i+1:] {
				target = target.Child(rest)
			}
			return r.resolve(ctx, target, visited)
		}
		cur = node.Objdoc
		atModule = false
	}

	return cur, nil
}

// module returns the objdoc for the path's module,
// loading and inserting it if a Loader is available.
func (r *Resolver) module(ctx context.Context, p docpath.Path) (*objdoc.Objdoc, error) {
	if doc, ok := r.Docsrc.Module(p.Modname); ok {
		return doc, nil
	}
	if r.Loader == nil {
		return nil, &NotFoundError{Path: p, Missing: p.Modname}
	}

	if r.DebugLog != nil {
		r.DebugLog.Printf("loading module %v", p.Modname)
	}

	// Concurrent requests for the same module share one load.
	// The load itself is detached from this caller's context
	// so that abandoning it does not fail the other waiters.
	ch := r.loads.DoChan(p.Modname, func() (any, error) {
		doc, err := r.Loader.LoadModule(context.WithoutCancel(ctx), p.Modname)
		if err != nil {
			return nil, err
		}
		return r.Docsrc.Add(p.Modname, doc), nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			// Load failures surface as NotFound with the cause attached.
			return nil, &NotFoundError{Path: p, Missing: p.Modname, Cause: res.Err}
		}
		return res.Val.(*objdoc.Objdoc), nil
	}
}

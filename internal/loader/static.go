package loader

import (
	"context"

	"braces.dev/errtrace"
	"github.com/alexhsamuel/supdoc/internal/objdoc"
)

// Static serves module objdocs from a fixed map.
// Requests for any other module fail.
//
// Intended for tests and for tools
// that operate on pre-extracted documents.
type Static map[string]*objdoc.Objdoc

// LoadModule returns the mapped objdoc for modname.
func (l Static) LoadModule(_ context.Context, modname string) (*objdoc.Objdoc, error) {
	doc, ok := l[modname]
	if !ok {
		return nil, errtrace.Errorf("no module %v", modname)
	}
	return doc, nil
}

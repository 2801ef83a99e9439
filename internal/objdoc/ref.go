package objdoc

import (
	"strings"

	"braces.dev/errtrace"
	"github.com/alexhsamuel/supdoc/internal/docpath"
)

// Ref is a pointer to an Objdoc at an absolute path
// within the same docsrc document.
//
// The target string has the form
//
//	#/modules/<modname>/dict/<name>/dict/<name>/...
//
// with one dict/<name> pair per descent level.
// Refs are always root-relative, never cross-document.
type Ref struct {
	Target string `json:"$ref"`

	// Type optionally references the objdoc of the target's type,
	// saving a round trip for consumers
	// that display only the type of an attribute.
	Type *Ref `json:"type,omitempty"`
}

// MakeRef builds a ref targeting the given path.
func MakeRef(p docpath.Path) *Ref {
	var sb strings.Builder
	sb.WriteString("#/modules/")
	sb.WriteString(p.Modname)
	for _, part := range p.Parts() {
		sb.WriteString("/dict/")
		sb.WriteString(part)
	}
	return &Ref{Target: sb.String()}
}

// Path parses the ref's target back into a lookup path.
func (r *Ref) Path() (docpath.Path, error) {
	parts := strings.Split(r.Target, "/")
	if len(parts) < 3 || parts[0] != "#" || parts[1] != "modules" {
		return docpath.Path{}, errtrace.Errorf("malformed ref %q: must start with #/modules/", r.Target)
	}
	modname := parts[2]

	rest := parts[3:]
	if len(rest)%2 != 0 {
		return docpath.Path{}, errtrace.Errorf("malformed ref %q: unpaired path segment", r.Target)
	}
	names := make([]string, 0, len(rest)/2)
	for i := 0; i < len(rest); i += 2 {
		if rest[i] != "dict" {
			return docpath.Path{}, errtrace.Errorf("malformed ref %q: expected dict segment, got %q", r.Target, rest[i])
		}
		names = append(names, rest[i+1])
	}

	return errtrace.Wrap2(docpath.New(modname, strings.Join(names, ".")))
}

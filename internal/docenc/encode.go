// Package docenc serializes docsrc documents to their JSON wire form
// and parses them back.
//
// Objdocs form a graph, not a tree:
// a node may be reachable from several places, including itself.
// The encoder emits each node inline the first time it is reached
// in document order -- modules keys sorted, then dict keys sorted,
// depth first -- and as a $ref to that first path on every later reach.
// Decoding leaves refs in place;
// the resolver dereferences them on demand.
package docenc

import (
	"encoding/json"
	"io"
	"sort"

	"braces.dev/errtrace"
	"github.com/alexhsamuel/supdoc/internal/docpath"
	"github.com/alexhsamuel/supdoc/internal/objdoc"
)

type wireDocsrc struct {
	Modules map[string]*objdoc.Objdoc `json:"modules"`
}

// Marshal renders the document in the docsrc wire format.
func Marshal(d *objdoc.Docsrc) ([]byte, error) {
	wire, err := cloneDocsrc(d)
	if err != nil {
		return nil, err
	}
	return errtrace.Wrap2(json.Marshal(wire))
}

// MarshalIndent is like Marshal with indented output.
func MarshalIndent(d *objdoc.Docsrc) ([]byte, error) {
	wire, err := cloneDocsrc(d)
	if err != nil {
		return nil, err
	}
	return errtrace.Wrap2(json.MarshalIndent(wire, "", " "))
}

// Encode writes the document to w in the docsrc wire format.
func Encode(w io.Writer, d *objdoc.Docsrc) error {
	wire, err := cloneDocsrc(d)
	if err != nil {
		return err
	}
	return errtrace.Wrap(json.NewEncoder(w).Encode(wire))
}

// MarshalModule renders a single module objdoc
// as it would appear under the document's modules mapping.
// Back-references into the module become refs rooted at its name.
func MarshalModule(modname string, doc *objdoc.Objdoc) ([]byte, error) {
	p, err := docpath.New(modname, "")
	if err != nil {
		return nil, err
	}
	return MarshalAt(p, doc)
}

// MarshalAt renders an objdoc fragment rooted at the given path.
// Back-references into the fragment become refs.
func MarshalAt(p docpath.Path, doc *objdoc.Objdoc) ([]byte, error) {
	clone, err := newEncoder().cloneDoc(doc, p, true)
	if err != nil {
		return nil, err
	}
	return errtrace.Wrap2(json.Marshal(clone))
}

// MarshalAtIndent is like MarshalAt with indented output.
func MarshalAtIndent(p docpath.Path, doc *objdoc.Objdoc) ([]byte, error) {
	clone, err := newEncoder().cloneDoc(doc, p, true)
	if err != nil {
		return nil, err
	}
	return errtrace.Wrap2(json.MarshalIndent(clone, "", " "))
}

// Unmarshal parses a docsrc wire document.
func Unmarshal(data []byte) (*objdoc.Docsrc, error) {
	var wire wireDocsrc
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, errtrace.Wrap(err)
	}
	d := objdoc.NewDocsrc()
	for name, doc := range wire.Modules {
		d.Add(name, doc)
	}
	return d, nil
}

// Decode parses a docsrc wire document from r.
func Decode(r io.Reader) (*objdoc.Docsrc, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return Unmarshal(data)
}

// UnmarshalModule parses a single module objdoc fragment.
func UnmarshalModule(data []byte) (*objdoc.Objdoc, error) {
	var doc objdoc.Objdoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &doc, nil
}

func cloneDocsrc(d *objdoc.Docsrc) (*wireDocsrc, error) {
	enc := newEncoder()
	wire := wireDocsrc{Modules: make(map[string]*objdoc.Objdoc, d.Len())}
	for _, name := range d.ModuleNames() {
		doc, ok := d.Module(name)
		if !ok {
			continue
		}
		p, err := docpath.New(name, "")
		if err != nil {
			return nil, errtrace.Errorf("module %q: %w", name, err)
		}
		clone, err := enc.cloneDoc(doc, p, true)
		if err != nil {
			return nil, errtrace.Errorf("module %q: %w", name, err)
		}
		wire.Modules[name] = clone
	}
	return &wire, nil
}

// encoder tracks node identities while cloning a document
// so that revisited nodes become refs instead of duplicates.
type encoder struct {
	firstPath  map[*objdoc.Objdoc]docpath.Path
	inProgress map[*objdoc.Objdoc]struct{}
}

func newEncoder() *encoder {
	return &encoder{
		firstPath:  make(map[*objdoc.Objdoc]docpath.Path),
		inProgress: make(map[*objdoc.Objdoc]struct{}),
	}
}

// cloneNode clones an objdoc-or-ref node for emission at path p.
// addressable reports whether p is a real modules/dict location
// that later refs may target.
func (e *encoder) cloneNode(n *objdoc.Node, p docpath.Path, addressable bool) (*objdoc.Node, error) {
	if n == nil {
		return nil, nil
	}
	if n.Ref != nil {
		// Refs pass through verbatim.
		return n, nil
	}

	doc := n.Objdoc
	if first, ok := e.firstPath[doc]; ok {
		return &objdoc.Node{Ref: objdoc.MakeRef(first)}, nil
	}
	if _, ok := e.inProgress[doc]; ok {
		// Reached an ancestor through a position that is not
		// dict-addressable, so there is no emitted path to point at.
		// Fall back to the path the node declares for itself.
		if self, ok := selfPath(doc); ok {
			return &objdoc.Node{Ref: objdoc.MakeRef(self)}, nil
		}
		return nil, errtrace.Errorf("cyclic objdoc at %v has no addressable path", p)
	}

	clone, err := e.cloneDoc(doc, p, addressable)
	if err != nil {
		return nil, err
	}
	return objdoc.Doc(clone), nil
}

func (e *encoder) cloneDoc(doc *objdoc.Objdoc, p docpath.Path, addressable bool) (_ *objdoc.Objdoc, err error) {
	if addressable {
		e.firstPath[doc] = p
	}
	e.inProgress[doc] = struct{}{}
	defer delete(e.inProgress, doc)

	out := *doc

	if out.Type, err = e.cloneNode(doc.Type, p, false); err != nil {
		return nil, err
	}
	if len(doc.Bases) > 0 {
		out.Bases = make([]*objdoc.Node, len(doc.Bases))
		for i, base := range doc.Bases {
			if out.Bases[i], err = e.cloneNode(base, p, false); err != nil {
				return nil, err
			}
		}
	}
	if out.Func, err = e.cloneNode(doc.Func, p, false); err != nil {
		return nil, err
	}
	if out.Signature, err = e.cloneSignature(doc.Signature, p); err != nil {
		return nil, err
	}

	if len(doc.Dict) > 0 {
		out.Dict = make(map[string]*objdoc.Node, len(doc.Dict))
		for _, name := range sortedKeys(doc.Dict) {
			child, err := e.cloneNode(doc.Dict[name], p.Child(name), true)
			if err != nil {
				return nil, err
			}
			out.Dict[name] = child
		}
	}

	return &out, nil
}

func (e *encoder) cloneSignature(sig *objdoc.Signature, p docpath.Path) (_ *objdoc.Signature, err error) {
	if sig == nil {
		return nil, nil
	}

	out := *sig
	out.Params = make([]*objdoc.Parameter, len(sig.Params))
	for i, param := range sig.Params {
		cp := *param
		if cp.Default, err = e.cloneNode(param.Default, p, false); err != nil {
			return nil, err
		}
		if cp.Annotation, err = e.cloneNode(param.Annotation, p, false); err != nil {
			return nil, err
		}
		out.Params[i] = &cp
	}
	if sig.Return != nil {
		ret := *sig.Return
		if ret.Annotation, err = e.cloneNode(sig.Return.Annotation, p, false); err != nil {
			return nil, err
		}
		out.Return = &ret
	}
	return &out, nil
}

// selfPath derives a node's own address
// from the module and qualname it declares.
func selfPath(doc *objdoc.Objdoc) (docpath.Path, bool) {
	if doc.TypeName == "module" && doc.Name != "" {
		p, err := docpath.New(doc.Name, "")
		return p, err == nil
	}
	if doc.Module == nil || doc.Qualname == "" {
		return docpath.Path{}, false
	}
	mod, err := doc.Module.Path()
	if err != nil || !mod.IsModule() {
		return docpath.Path{}, false
	}
	p, err := docpath.New(mod.Modname, doc.Qualname)
	return p, err == nil
}

func sortedKeys(m map[string]*objdoc.Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

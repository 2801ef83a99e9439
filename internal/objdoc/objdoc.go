// Package objdoc defines the docsrc document model:
// JSON records describing documented objects,
// and references linking them into a graph.
package objdoc

import (
	"encoding/json"

	"braces.dev/errtrace"
)

// Version is the objdoc schema version.
// Bump this whenever the wire format changes.
const Version = 1

// Objdoc describes one documented entity:
// a module, class, function, or value.
//
// Every field is optional.
// An absent field means the fact is unknown,
// never that extraction failed.
type Objdoc struct {
	// Name is the unqualified identifier of the entity.
	Name string `json:"name,omitempty"`

	// Qualname is the fully qualified identifier
	// within the entity's defining scope.
	Qualname string `json:"qualname,omitempty"`

	// TypeName names the entity's type;
	// Type references its objdoc.
	TypeName string `json:"type_name,omitempty"`
	Type     *Node  `json:"type,omitempty"`

	// Repr is a textual representation of the entity.
	Repr string `json:"repr,omitempty"`

	// Module references the module in which the entity is defined.
	Module *Ref `json:"module,omitempty"`

	// Dict maps unqualified child names to their objdocs or refs.
	// It holds the entity's own namespace,
	// excluding names inherited from ancestor types.
	Dict map[string]*Node `json:"dict,omitempty"`

	// AllNames lists the names from Dict
	// considered the entity's public surface.
	// Populated for module-like entities only.
	AllNames []string `json:"all_names,omitempty"`

	// Exported reports whether the entity's name appears
	// in its parent's AllNames.
	// Set only when the parent declares AllNames.
	Exported *bool `json:"exported,omitempty"`

	// Bases references the entity's base types, in declaration order.
	Bases []*Node `json:"bases,omitempty"`

	// Callable reports whether the entity can be called.
	Callable *bool `json:"callable,omitempty"`

	// Func holds the underlying callable
	// when the entity wraps one.
	Func *Node `json:"func,omitempty"`

	// Signature describes the calling convention of a callable entity.
	Signature *Signature `json:"signature,omitempty"`

	// Docs holds the extracted documentation record.
	Docs *Docs `json:"docs,omitempty"`

	// Lines gives the source line span of the entity's definition,
	// present only when the source file is retrievable.
	Lines *Lines `json:"lines,omitempty"`

	// Path is the on-disk location of the module's source.
	// Module entities only.
	Path string `json:"path,omitempty"`

	// Source is the full source text of the module.
	// Module entities only.
	Source Source `json:"source,omitempty"`
}

// Node holds either an inline Objdoc or a Ref standing in for one.
// Exactly one of the two fields is set.
//
// A Ref stands in for an Objdoc anywhere one is expected;
// resolving it yields the Objdoc at its absolute path
// within the same docsrc.
type Node struct {
	Ref    *Ref
	Objdoc *Objdoc
}

// Doc returns n as a Node wrapping an inline objdoc.
func Doc(d *Objdoc) *Node {
	return &Node{Objdoc: d}
}

// MarshalJSON emits whichever of the two alternatives is set.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Ref != nil {
		return errtrace.Wrap2(json.Marshal(n.Ref))
	}
	return errtrace.Wrap2(json.Marshal(n.Objdoc))
}

// UnmarshalJSON decides between the alternatives
// by the presence of a "$ref" key.
func (n *Node) UnmarshalJSON(data []byte) error {
	var probe struct {
		Ref *string `json:"$ref"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return errtrace.Wrap(err)
	}
	if probe.Ref != nil {
		n.Objdoc = nil
		n.Ref = new(Ref)
		return errtrace.Wrap(json.Unmarshal(data, n.Ref))
	}
	n.Ref = nil
	n.Objdoc = new(Objdoc)
	return errtrace.Wrap(json.Unmarshal(data, n.Objdoc))
}

// Lines is a [first, last) pair of source line numbers.
type Lines struct {
	First int
	Last  int
}

// MarshalJSON emits the span as a two-element array.
func (l *Lines) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(json.Marshal([2]int{l.First, l.Last}))
}

// UnmarshalJSON reads a two-element array.
func (l *Lines) UnmarshalJSON(data []byte) error {
	var span [2]int
	if err := json.Unmarshal(data, &span); err != nil {
		return errtrace.Wrap(err)
	}
	l.First, l.Last = span[0], span[1]
	return nil
}

// Source is a module's source text.
// It accepts either a single string or an array of lines on input,
// and is emitted as a single string.
type Source string

// UnmarshalJSON reads a string or an array of line strings.
func (s *Source) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = Source(text)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return errtrace.Wrap(err)
	}
	var joined string
	for _, line := range lines {
		joined += line
	}
	*s = Source(joined)
	return nil
}

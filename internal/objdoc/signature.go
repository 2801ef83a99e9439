package objdoc

// ParamKind classifies how a parameter binds at a call site.
type ParamKind string

// Parameter kinds, in binding order.
const (
	PositionalOnly      ParamKind = "POSITIONAL_ONLY"
	PositionalOrKeyword ParamKind = "POSITIONAL_OR_KEYWORD"
	VarPositional       ParamKind = "VAR_POSITIONAL"
	KeywordOnly         ParamKind = "KEYWORD_ONLY"
	VarKeyword          ParamKind = "VAR_KEYWORD"
)

// Signature describes the calling convention of a callable entity.
type Signature struct {
	// Params lists the parameters in declaration order.
	// The order determines positional binding at call sites
	// and is significant.
	Params []*Parameter `json:"params"`

	// Return describes the return value, when annotated.
	Return *Return `json:"return,omitempty"`
}

// Parameter is one entry in a Signature.
type Parameter struct {
	Name string    `json:"name"`
	Kind ParamKind `json:"kind"`

	// Default is the default value, when one is declared.
	Default *Node `json:"default,omitempty"`

	// Doc and DocType carry documentation attached to the parameter
	// by @param and @type tags.
	Doc     string `json:"doc,omitempty"`
	DocType string `json:"doc_type,omitempty"`

	// Annotation is the declared type annotation.
	Annotation *Node `json:"annotation,omitempty"`
}

// Return describes a callable's return value.
type Return struct {
	Annotation *Node `json:"annotation,omitempty"`

	// Doc and DocType carry documentation attached to the return value
	// by @return and @rtype tags.
	Doc     string `json:"doc,omitempty"`
	DocType string `json:"doc_type,omitempty"`
}

// Docs is the extracted documentation record of an entity.
type Docs struct {
	// Doc is the raw documentation text.
	Doc string `json:"doc,omitempty"`

	// Summary is the first-sentence or first-line extract.
	Summary string `json:"summary,omitempty"`

	// Body holds the remaining text as ordered blocks.
	Body []string `json:"body,omitempty"`

	// Javadoc lists @tag annotations extracted from the text,
	// in order of appearance.
	Javadoc []*JavadocTag `json:"javadoc,omitempty"`
}

// JavadocTag is one @tag [arg] text annotation.
type JavadocTag struct {
	Tag  string `json:"tag"`
	Arg  string `json:"arg,omitempty"`
	Text string `json:"text,omitempty"`
}

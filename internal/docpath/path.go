// Package docpath manipulates fully-qualified lookup paths
// to documented objects.
//
// A path names an object in two stages:
// a module name ("html.parser"),
// and an optional qualname locating the object
// inside that module's namespace ("HTMLParser.close").
package docpath

import (
	"strings"
	"unicode"

	"braces.dev/errtrace"
)

// Path is a fully-qualified lookup path to a documented object.
//
// Modname is the full dotted module name.
// Qualname is the dotted name of the object within the module,
// or empty for the module itself.
type Path struct {
	Modname  string
	Qualname string
}

// New builds a Path, validating both components.
// Qualname may be empty; Modname may not.
func New(modname, qualname string) (Path, error) {
	if err := validDotted(modname); err != nil {
		return Path{}, errtrace.Errorf("bad modname %q: %w", modname, err)
	}
	if qualname != "" {
		if err := validDotted(qualname); err != nil {
			return Path{}, errtrace.Errorf("bad qualname %q: %w", qualname, err)
		}
	}
	return Path{Modname: modname, Qualname: qualname}, nil
}

// Parse interprets a user-supplied name as a Path.
//
// If the name contains a colon,
// it unconditionally separates the modname from the qualname,
// e.g. "html.parser:HTMLParser.close".
// Otherwise the whole name is taken as the modname;
// use [Split] to divide an undelimited dotted name
// against a concrete document.
func Parse(name string) (Path, error) {
	if modname, qualname, ok := strings.Cut(name, ":"); ok {
		return New(modname, qualname)
	}
	return New(name, "")
}

// Splits generates the candidate Paths for an undelimited dotted name,
// longest module prefix first.
//
// For "a.b.c" the candidates are
// {a.b.c}, {a.b : c}, {a : b.c}.
// The caller tries each against its document until one resolves.
func Splits(name string) ([]Path, error) {
	if err := validDotted(name); err != nil {
		return nil, errtrace.Errorf("bad name %q: %w", name, err)
	}
	parts := strings.Split(name, ".")
	paths := make([]Path, 0, len(parts))
	for i := len(parts); i > 0; i-- {
		paths = append(paths, Path{
			Modname:  strings.Join(parts[:i], "."),
			Qualname: strings.Join(parts[i:], "."),
		})
	}
	return paths, nil
}

// String renders the path as a single dotted name.
func (p Path) String() string {
	if p.Qualname == "" {
		return p.Modname
	}
	return p.Modname + "." + p.Qualname
}

// IsModule reports whether the path names a module
// rather than an object inside one.
func (p Path) IsModule() bool {
	return p.Qualname == ""
}

// Name returns the unqualified name: the last path component.
func (p Path) Name() string {
	if p.Qualname == "" {
		if idx := strings.LastIndexByte(p.Modname, '.'); idx >= 0 {
			return p.Modname[idx+1:]
		}
		return p.Modname
	}
	if idx := strings.LastIndexByte(p.Qualname, '.'); idx >= 0 {
		return p.Qualname[idx+1:]
	}
	return p.Qualname
}

// Child returns the path of the named attribute of this path's object.
func (p Path) Child(name string) Path {
	if p.Qualname == "" {
		return Path{Modname: p.Modname, Qualname: name}
	}
	return Path{Modname: p.Modname, Qualname: p.Qualname + "." + name}
}

// Parts returns the qualname split into its components,
// or nil for a module path.
func (p Path) Parts() []string {
	if p.Qualname == "" {
		return nil
	}
	return strings.Split(p.Qualname, ".")
}

func validDotted(s string) error {
	if s == "" {
		return errtrace.New("empty name")
	}
	for _, part := range strings.Split(s, ".") {
		if !validIdent(part) {
			return errtrace.Errorf("invalid identifier %q", part)
		}
	}
	return nil
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/alexhsamuel/supdoc/internal/docenc"
	"github.com/alexhsamuel/supdoc/internal/docpath"
	"github.com/alexhsamuel/supdoc/internal/objdoc"
	"github.com/alexhsamuel/supdoc/internal/resolver"
)

// Finder resolves user-supplied names against a docsrc document.
type Finder interface {
	Find(ctx context.Context, name string) (docpath.Path, *objdoc.Objdoc, error)
}

var _ Finder = (*resolver.Resolver)(nil)

// Runner looks up the requested names and prints their objdocs.
//
// In terms of code organization,
// Runner's purpose is to add a separation between main
// and the program's core logic to aid in testability.
type Runner struct {
	Log    *log.Logger
	Stdout io.Writer
	Finder Finder
	Docsrc *objdoc.Docsrc
	Indent bool
}

// Run resolves each name and writes its objdoc JSON to Stdout.
//
// Names that fail to resolve are reported and skipped;
// the first error is returned after all names have been tried.
func (r *Runner) Run(ctx context.Context, names []string) error {
	var errs []error
	for _, name := range names {
		if err := r.runOne(ctx, name); err != nil {
			r.Log.Printf("%v: %v", name, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) runOne(ctx context.Context, name string) error {
	p, doc, err := r.Finder.Find(ctx, name)
	if err != nil {
		return err
	}

	out, err := r.marshal(p, doc)
	if err != nil {
		return fmt.Errorf("marshal %v: %w", p, err)
	}
	_, err = fmt.Fprintf(r.Stdout, "%s\n", out)
	return err
}

// DumpDocsrc writes the whole document to Stdout.
func (r *Runner) DumpDocsrc() error {
	marshal := docenc.Marshal
	if r.Indent {
		marshal = docenc.MarshalIndent
	}
	out, err := marshal(r.Docsrc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.Stdout, "%s\n", out)
	return err
}

func (r *Runner) marshal(p docpath.Path, doc *objdoc.Objdoc) ([]byte, error) {
	if r.Indent {
		return docenc.MarshalAtIndent(p, doc)
	}
	return docenc.MarshalAt(p, doc)
}

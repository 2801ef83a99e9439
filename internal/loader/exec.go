// Package loader provides Loader implementations
// that supply module objdocs to the resolver.
//
// Extraction itself is not part of this program:
// a producer inspects modules in their host language
// and emits the objdoc JSON contract.
// The loaders here invoke such a producer,
// or serve pre-extracted documents.
package loader

import (
	"bytes"
	"context"
	"log"
	"os/exec"

	"braces.dev/errtrace"
	"github.com/alexhsamuel/supdoc/internal/docenc"
	"github.com/alexhsamuel/supdoc/internal/objdoc"
)

// Exec runs an external producer command to inspect a module.
//
// The command is invoked with the module name appended
// to its arguments,
// and must write the module's objdoc JSON to stdout.
type Exec struct {
	// Command is the producer argv. Required, non-empty.
	Command []string

	// Dir is the working directory for the producer, if non-empty.
	Dir string

	// DebugLog logs producer invocations if non-nil.
	DebugLog *log.Logger
}

// LoadModule invokes the producer for the named module.
func (l *Exec) LoadModule(ctx context.Context, modname string) (*objdoc.Objdoc, error) {
	args := make([]string, 0, len(l.Command))
	args = append(args, l.Command[1:]...)
	args = append(args, modname)

	cmd := exec.CommandContext(ctx, l.Command[0], args...)
	cmd.Dir = l.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if l.DebugLog != nil {
		l.DebugLog.Printf("running producer %v", cmd.Args)
	}

	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, errtrace.Errorf("producer %v: %w: %s", modname, err, msg)
		}
		return nil, errtrace.Errorf("producer %v: %w", modname, err)
	}

	doc, err := docenc.UnmarshalModule(stdout.Bytes())
	if err != nil {
		return nil, errtrace.Errorf("producer %v: bad objdoc: %w", modname, err)
	}
	return doc, nil
}

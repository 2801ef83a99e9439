package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexhsamuel/supdoc/internal/doccache"
	"github.com/alexhsamuel/supdoc/internal/docenc"
	"github.com/alexhsamuel/supdoc/internal/loader"
	"github.com/alexhsamuel/supdoc/internal/objdoc"
	"github.com/alexhsamuel/supdoc/internal/resolver"
)

func main() {
	cmd := mainCmd{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cmd.Run(context.Background(), os.Args[1:]))
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	log      *log.Logger
	debugLog *log.Logger
}

func (cmd *mainCmd) Run(ctx context.Context, args []string) (exitCode int) {
	cmd.log = log.New(cmd.Stderr, "", 0)

	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, errHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	debugw, closeDebug, err := opts.Debug.Create(cmd.Stderr)
	if err != nil {
		cmd.log.Printf("supdoc: %v", err)
		return 1
	}
	defer closeDebug()
	if debugw != io.Discard {
		cmd.debugLog = log.New(debugw, "debug: ", 0)
	}

	if err := cmd.run(ctx, opts); err != nil {
		cmd.log.Printf("supdoc: %v", err)
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(ctx context.Context, opts *params) error {
	docsrc := objdoc.NewDocsrc()
	if opts.Docsrc != "" {
		if err := readDocsrc(docsrc, opts.Docsrc); err != nil {
			return err
		}
	}

	ldr, err := cmd.buildLoader(opts)
	if err != nil {
		return err
	}

	runner := Runner{
		Log:    cmd.log,
		Stdout: cmd.Stdout,
		Finder: &resolver.Resolver{
			Docsrc:   docsrc,
			Loader:   ldr,
			DebugLog: cmd.debugLog,
		},
		Docsrc: docsrc,
		Indent: opts.Indent,
	}

	if err := runner.Run(ctx, opts.Names); err != nil {
		return err
	}
	if opts.Sdoc {
		return runner.DumpDocsrc()
	}
	return nil
}

// buildLoader assembles the lazy-load chain:
// an external producer, wrapped in caches unless disabled.
// Returns nil if no producer is configured;
// the resolver then serves only what the document already holds.
func (cmd *mainCmd) buildLoader(opts *params) (resolver.Loader, error) {
	if opts.Load == "" {
		return nil, nil
	}

	var ldr resolver.Loader = &loader.Exec{
		Command:  strings.Fields(opts.Load),
		DebugLog: cmd.debugLog,
	}
	if opts.NoCache {
		return ldr, nil
	}

	memory, err := doccache.NewMemory(_memoryCacheSize)
	if err != nil {
		return nil, err
	}
	caches := []doccache.Cache{memory}
	if dir, err := cacheDir(opts.CacheDir); err == nil {
		caches = append(caches, &doccache.Dir{Path: dir})
	} else if cmd.debugLog != nil {
		cmd.debugLog.Printf("no disk cache: %v", err)
	}

	return &doccache.Caching{
		Loader:   ldr,
		Caches:   caches,
		DebugLog: cmd.debugLog,
	}, nil
}

const _memoryCacheSize = 256

// cacheDir picks the objdoc cache directory:
// the explicit override, or <user cache dir>/supdoc.
func cacheDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "supdoc"), nil
}

func readDocsrc(docsrc *objdoc.Docsrc, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	loaded, err := docenc.Decode(f)
	if err != nil {
		return err
	}
	for _, name := range loaded.ModuleNames() {
		if doc, ok := loaded.Module(name); ok {
			docsrc.Add(name, doc)
		}
	}
	return nil
}

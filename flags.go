package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/peterbourgon/ff/v3"
)

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// params holds all arguments for supdoc.
type params struct {
	version bool
	help    Help

	Docsrc string
	Load   string
	Sdoc   bool

	CacheDir string
	NoCache  bool

	Indent bool
	Debug  debugSwitch

	Names []string
}

// cliParser parses the command line arguments for supdoc.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	flag := flag.NewFlagSet("supdoc", flag.ContinueOnError)
	flag.SetOutput(cmd.Stderr)
	flag.Usage = func() {
		DefaultHelp.Write(cmd.Stderr)
	}

	var p params

	// Documents:
	flag.StringVar(&p.Docsrc, "docsrc", "", "")
	flag.StringVar(&p.Load, "load", "", "")
	flag.BoolVar(&p.Sdoc, "sdoc", false, "")

	// Caching:
	flag.StringVar(&p.CacheDir, "cache-dir", "", "")
	flag.BoolVar(&p.NoCache, "no-cache", false, "")

	// Output:
	flag.BoolVar(&p.Indent, "indent", false, "")

	// Program-level:
	flag.Var(&p.Debug, "debug", "")
	flag.BoolVar(&p.version, "version", false, "")
	flag.Var(&p.help, "help", "")
	flag.Var(&p.help, "h", "")

	return &p, flag
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, fset := cmd.newFlagSet()
	if err := ff.Parse(fset, args, ff.WithEnvVarPrefix("SUPDOC")); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, errHelp
		}
		fmt.Fprintln(cmd.Stderr, err)
		return nil, errInvalidArguments
	}
	args = fset.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "supdoc", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		var h Help
		if err := h.Set(args[0]); err == nil {
			if _, ok := _helpTopics[h]; ok {
				p.help = h
			}
		}
	}

	switch p.help {
	case NoHelp:
		// proceed as usual
	default:
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	p.Names = args
	if len(p.Names) == 0 && !p.Sdoc {
		fmt.Fprintln(cmd.Stderr, "Please provide at least one name.")
		UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	return p, nil
}

// debugSwitch is a flag that accepts both "-debug" and "-debug=file".
// Without a value, debug output goes to a fallback writer;
// with one, it goes to the named file.
type debugSwitch string

var _ flag.Getter = (*debugSwitch)(nil)

// Get returns the file name, or "-" for the fallback writer.
func (d *debugSwitch) Get() any { return string(*d) }

func (d *debugSwitch) String() string { return string(*d) }

// IsBoolFlag marks this as a flag
// that doesn't require a value.
func (*debugSwitch) IsBoolFlag() bool { return true }

// Set receives the value for this flag.
func (d *debugSwitch) Set(v string) error {
	if v == "true" {
		v = "-"
	}
	*d = debugSwitch(v)
	return nil
}

// Bool reports whether this flag was set with any value.
func (d *debugSwitch) Bool() bool { return len(*d) > 0 }

// Create opens the debug output destination:
// io.Discard when unset, the fallback when set without a value,
// or the named file.
func (d *debugSwitch) Create(fallback io.Writer) (w io.Writer, close func() error, err error) {
	switch *d {
	case "":
		return io.Discard, nopClose, nil
	case "-":
		return fallback, nopClose, nil
	default:
		f, err := os.Create(string(*d))
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	}
}

func nopClose() error { return nil }

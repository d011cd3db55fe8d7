package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	rollupcodec "github.com/wippyai/rollup-codec"
	"github.com/wippyai/rollup-codec/differential"
	"github.com/wippyai/rollup-codec/digest"
	"github.com/wippyai/rollup-codec/document"
	"github.com/wippyai/rollup-codec/schema"
	"github.com/wippyai/rollup-codec/transcoder"
)

type options struct {
	schemaFile  string
	value       string
	format      string
	role        string
	typeIndex   int
	digest      string
	verbose     bool
	interactive bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("encode", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.schemaFile, "schema", "s", "", "path to the schema descriptor (JSON or JSONC)")
	flagSet.StringVarP(&opts.value, "value", "v", "-", "value document: inline text, @file, or - for stdin")
	flagSet.StringVarP(&opts.format, "format", "f", "auto", "value format: json, jsonc, yaml, cbor or auto")
	flagSet.StringVarP(&opts.role, "role", "r", "runtime-call", "entry point: transaction, unsigned-transaction, runtime-call or address")
	flagSet.IntVarP(&opts.typeIndex, "type", "t", -1, "explicit type index (overrides --role)")
	flagSet.StringVarP(&opts.digest, "digest", "d", "none", "also print a digest: none, blake3, sha256 or keccak256")
	flagSet.BoolVar(&opts.verbose, "verbose", false, "development logging to stderr")
	flagSet.BoolVarP(&opts.interactive, "interactive", "i", false, "interactive mode with TUI")
	flagSet.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: encode --schema <schema.json> [--role name | --type n] [--value doc] [--digest alg]")
		fmt.Fprintln(os.Stderr, "       encode --schema <schema.json> -i  (interactive mode)")
		fmt.Fprintln(os.Stderr)
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if opts.schemaFile == "" {
		flagSet.Usage()
		return fmt.Errorf("--schema is required")
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()
	schema.SetLogger(log.Named("schema"))
	transcoder.SetLogger(log.Named("transcoder"))
	differential.SetLogger(log.Named("differential"))
	rollupcodec.SetLogger(log)

	codec, err := rollupcodec.Load(opts.schemaFile)
	if err != nil {
		return err
	}
	alg, err := digest.Parse(opts.digest)
	if err != nil {
		return err
	}
	format, err := document.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	if opts.interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(codec, opts.schemaFile, format, alg)
	}

	index, err := targetIndex(codec.Schema(), opts.role, opts.typeIndex)
	if err != nil {
		return err
	}
	value, err := readValue(opts.value, format, stdin)
	if err != nil {
		return err
	}
	encoded, err := codec.Encode(index, value)
	if err != nil {
		return err
	}
	return writeResult(stdout, encoded, alg, isTerminal(stdout))
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// targetIndex resolves the type to encode: an explicit index wins over a role.
func targetIndex(s *schema.Schema, role string, index int) (int, error) {
	if index >= 0 {
		if _, err := s.Type(index); err != nil {
			return 0, err
		}
		return index, nil
	}
	r, err := schema.ParseRole(role)
	if err != nil {
		return 0, err
	}
	return s.RoleIndex(r)
}

func readValue(arg string, format document.Format, stdin io.Reader) (any, error) {
	switch {
	case arg == "-":
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, fmt.Errorf("no value given: pass --value or pipe a document on stdin")
		}
		return document.Read(stdin, format)
	case strings.HasPrefix(arg, "@"):
		return document.ReadFile(arg[1:], format)
	default:
		return document.Parse([]byte(arg), format)
	}
}

// writeResult prints lowercase hex. Terminals get labelled lines; pipes get
// the bare hex followed by the digest, one per line.
func writeResult(w io.Writer, encoded []byte, alg digest.Algorithm, labelled bool) error {
	var sum []byte
	if alg != digest.None {
		var err error
		if sum, err = digest.Sum(alg, encoded); err != nil {
			return err
		}
	}

	if labelled {
		fmt.Fprintf(w, "bytes:  %d\n", len(encoded))
		fmt.Fprintf(w, "hex:    %x\n", encoded)
		if sum != nil {
			fmt.Fprintf(w, "%-7s %x\n", alg.String()+":", sum)
		}
		return nil
	}

	fmt.Fprintf(w, "%x\n", encoded)
	if sum != nil {
		fmt.Fprintf(w, "%x\n", sum)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

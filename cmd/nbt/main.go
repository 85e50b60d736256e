// nbt inspects and converts Named Binary Tag files.
//
// Usage:
//
//	nbt validate [flags] <file|->
//	nbt stat     [flags] <file|->
//	nbt convert  [flags] --to-variant bedrock -o out.nbt <file|->
//
// Input compression is detected from the file's magic bytes unless
// --compression names one.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oy3o/nbt"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

// invalidError reports a document that failed to decode. Its message has
// already been logged, so main only sets the exit status.
type invalidError struct{ err error }

func (e *invalidError) Error() string { return e.err.Error() }
func (e *invalidError) Unwrap() error { return e.err }
func (e *invalidError) ExitCode() int { return 1 }

type options struct {
	variant       string
	compression   string
	maxDepth      int
	maxSize       int64
	strictKeys    bool
	verbose       bool
	toVariant     string
	toCompression string
	output        string
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.variant, "variant", "big-endian", "input dialect: "+strings.Join(nbt.VariantNames(), ", "))
	fs.StringVar(&o.compression, "compression", "auto", "input compression: auto, none, gzip, zlib, zstd or lz4")
	fs.IntVar(&o.maxDepth, "max-depth", nbt.DefaultMaxDepth, "maximum nesting of lists and compounds")
	fs.Int64Var(&o.maxSize, "max-size", 0, "maximum decompressed bytes to read (0 for no limit)")
	fs.BoolVar(&o.strictKeys, "strict-keys", false, "reject compounds that repeat a name")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log debug details to stderr")
}

func (o *options) limits() nbt.Limits {
	return nbt.Limits{MaxDepth: o.maxDepth, MaxSize: o.maxSize, RejectDuplicateKeys: o.strictKeys}
}

type command struct {
	summary string
	run     func(env *env, o *options, data []byte) error
	flags   func(fs *pflag.FlagSet, o *options)
}

var commands = map[string]command{
	"validate": {summary: "decode the input and report whether it is well formed", run: runValidate},
	"stat":     {summary: "print tag counts, nesting depth and sizes", run: runStat},
	"convert": {
		summary: "re-encode the input in another dialect or compression",
		run:     runConvert,
		flags: func(fs *pflag.FlagSet, o *options) {
			fs.StringVar(&o.toVariant, "to-variant", "", "output dialect (default: the input dialect)")
			fs.StringVar(&o.toCompression, "to-compression", "none", "output compression: none, gzip, zlib, zstd or lz4")
			fs.StringVarP(&o.output, "output", "o", "-", "output file, - for stdout")
		},
	},
}

type env struct {
	stdin  io.Reader
	stdout io.Writer
	logger *slog.Logger
	input  string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stderr)
		return nil
	}
	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", name)
	}

	var o options
	fs := pflag.NewFlagSet("nbt "+name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	o.addFlags(fs)
	if cmd.flags != nil {
		cmd.flags(fs, &o)
	}
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%s: expected exactly one input file, got %d", name, fs.NArg())
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	e := &env{
		stdin:  stdin,
		stdout: stdout,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		input:  fs.Arg(0),
	}

	data, err := e.readInput()
	if err != nil {
		return err
	}
	e.logger.Debug("read input", "file", e.input, "bytes", len(data))
	return cmd.run(e, &o, data)
}

func (e *env) readInput() ([]byte, error) {
	if e.input == "-" {
		return io.ReadAll(e.stdin)
	}
	return os.ReadFile(e.input)
}

// decode parses data according to the input flags. A malformed document is
// logged and returned as an invalidError.
func (e *env) decode(o *options, data []byte) (string, nbt.Tag, nbt.Variant, error) {
	variant, err := nbt.ParseVariant(o.variant)
	if err != nil {
		return "", nil, nil, err
	}
	compression, err := nbt.ParseCompression(o.compression)
	if err != nil {
		return "", nil, nil, err
	}
	if compression == nbt.CompressionAuto {
		compression, _, _ = nbt.DetectCompression(bytes.NewReader(data))
		e.logger.Debug("detected compression", "compression", compression)
	}

	name, tag, err := nbt.Decode(data, variant, compression, o.limits())
	if err != nil {
		e.logger.Error("invalid document",
			"file", e.input,
			"variant", variant.Name(),
			"compression", compression,
			"kind", errorKind(err),
			"error", err,
		)
		return "", nil, nil, &invalidError{err}
	}
	e.logger.Debug("decoded", "file", e.input, "root", name, "type", tag.Type())
	return name, tag, variant, nil
}

func runValidate(e *env, o *options, data []byte) error {
	name, tag, _, err := e.decode(o, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "ok: %q %s\n", name, tag.Type())
	return nil
}

func runStat(e *env, o *options, data []byte) error {
	name, tag, variant, err := e.decode(o, data)
	if err != nil {
		return err
	}
	var size countingWriter
	err = nbt.NewEncoder(&size).
		WithVariant(variant).
		WithLimits(o.limits()).
		Encode(name, tag)
	if err != nil {
		return err
	}
	s := collect(tag)

	fmt.Fprintf(e.stdout, "root:   %q %s\n", name, tag.Type())
	fmt.Fprintf(e.stdout, "input:  %d bytes\n", len(data))
	fmt.Fprintf(e.stdout, "nbt:    %d bytes (%s)\n", size.n, variant.Name())
	fmt.Fprintf(e.stdout, "depth:  %d\n", s.depth)
	fmt.Fprintf(e.stdout, "tags:   %d\n", s.total)
	for t := nbt.TagByte; t <= nbt.TagLongArray; t++ {
		if n := s.counts[t]; n > 0 {
			fmt.Fprintf(e.stdout, "  %-16s %d\n", t, n)
		}
	}
	return nil
}

func runConvert(e *env, o *options, data []byte) (err error) {
	name, tag, variant, err := e.decode(o, data)
	if err != nil {
		return err
	}
	if o.toVariant != "" {
		if variant, err = nbt.ParseVariant(o.toVariant); err != nil {
			return err
		}
	}
	compression, err := nbt.ParseCompression(o.toCompression)
	if err != nil {
		return err
	}

	out := e.stdout
	if o.output != "-" {
		f, ferr := os.Create(o.output)
		if ferr != nil {
			return ferr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		out = f
	}

	err = nbt.NewEncoder(out).
		WithVariant(variant).
		WithCompression(compression).
		WithLimits(o.limits()).
		Encode(name, tag)
	if err != nil {
		return fmt.Errorf("encode %s: %w", o.output, err)
	}
	e.logger.Debug("converted", "variant", variant.Name(), "compression", compression, "output", o.output)
	return nil
}

type countingWriter struct{ n int64 }

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

type stats struct {
	counts [nbt.TagLongArray + 1]int
	total  int
	depth  int
}

func collect(root nbt.Tag) stats {
	var s stats
	var walk func(t nbt.Tag, depth int)
	walk = func(t nbt.Tag, depth int) {
		s.counts[t.Type()]++
		s.total++
		s.depth = max(s.depth, depth)
		switch x := t.(type) {
		case *nbt.List:
			for _, item := range x.Items {
				walk(item, depth+1)
			}
		case *nbt.Compound:
			for _, item := range x.All() {
				walk(item, depth+1)
			}
		}
	}
	walk(root, 0)
	return s
}

// errorKind names the sentinel an error wraps, for log filtering.
func errorKind(err error) string {
	kinds := []struct {
		name string
		err  error
	}{
		{"unknown_tag_type", nbt.ErrUnknownTagType},
		{"unexpected_end", nbt.ErrUnexpectedEnd},
		{"depth_exceeded", nbt.ErrDepthExceeded},
		{"size_exceeded", nbt.ErrSizeExceeded},
		{"invalid_root_type", nbt.ErrInvalidRootType},
		{"invalid_field_type", nbt.ErrInvalidFieldType},
		{"invalid_string", nbt.ErrInvalidString},
		{"duplicate_key", nbt.ErrDuplicateKey},
		{"negative_length", nbt.ErrNegativeLength},
		{"varint_overflow", nbt.ErrVarintOverflow},
		{"trailing_data", nbt.ErrTrailingData},
		{"transport", nbt.ErrTransport},
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "other"
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "nbt inspects and converts Named Binary Tag files.\n\nUsage:\n  nbt <command> [flags] <file|->\n\nCommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nRun 'nbt <command> --help' for the flags of a command.\n")
}

// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program canonjson rewrites JSON values in canonical form.
//
// Usage:
//
//	canonjson [flags] [file ...]
//
// With no file arguments, or a file named "-", canonjson reads standard
// input. By default it writes the canonical form of each value in each input
// to standard output, one value per line.
//
// With --check, canonjson writes nothing but the names of inputs that are not
// already in canonical form, and exits with status 1 if there are any.
//
// With --digest, canonjson writes a line of the form
//
//	sha256:<hex>  <name>
//
// for each input, giving the digest of the canonical form of its value.
package main

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/creachadair/canonjson"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/sha3"
)

// errNotCanonical is reported by --check when some input is not canonical.
var errNotCanonical = errors.New("input is not canonical")

var hashes = map[string]func() hash.Hash{
	"sha256":    sha256.New,
	"sha3-256":  sha3.New256,
	"keccak256": sha3.NewLegacyKeccak256,
}

func main() {
	if err := newRootCommand(afero.NewOsFs()).Execute(); err != nil {
		if err != errNotCanonical {
			fmt.Fprintf(os.Stderr, "canonjson: %v\n", err)
		}
		os.Exit(1)
	}
}

type settings struct {
	HuJSON  bool
	Check   bool
	Digest  bool
	Hash    string
	Verbose bool
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	var cfg settings
	cmd := &cobra.Command{
		Use:   "canonjson [flags] [file ...]",
		Short: "Rewrite JSON values in canonical form",
		Long: `Rewrite JSON values in canonical form.

Object keys are sorted bytewise, whitespace is removed, strings use the
minimal escapes, and numbers must be integers. Two equivalent inputs
produce byte-identical output, suitable for hashing and signing.

With no file arguments, or a file named "-", read standard input.`,

		SilenceErrors: true,
		SilenceUsage:  true,

		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := hashes[cfg.Hash]; !ok {
				names := make([]string, 0, len(hashes))
				for name := range hashes {
					names = append(names, name)
				}
				slices.Sort(names)
				return fmt.Errorf("unknown hash %q (want %s)", cfg.Hash, strings.Join(names, ", "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			defer log.Sync()

			r := &runner{
				fs:     fs,
				cfg:    cfg,
				log:    log.Sugar(),
				stdin:  cmd.InOrStdin(),
				stdout: cmd.OutOrStdout(),
			}
			if len(args) == 0 {
				args = []string{"-"}
			}
			return r.run(args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&cfg.HuJSON, "hujson", "x", false, "Accept comments and trailing commas (HuJSON)")
	flags.BoolVarP(&cfg.Check, "check", "c", false, "List inputs that are not in canonical form")
	flags.BoolVarP(&cfg.Digest, "digest", "d", false, "Print a digest of the canonical form of each input")
	flags.StringVar(&cfg.Hash, "hash", "sha256", "Digest algorithm (sha256, sha3-256, keccak256)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log diagnostics to stderr")
	cmd.MarkFlagsMutuallyExclusive("check", "digest")
	return cmd
}

// newLogger returns a development logger writing to w, or a no-op logger if
// verbose is false.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel))
}

type runner struct {
	fs     afero.Fs
	cfg    settings
	log    *zap.SugaredLogger
	stdin  io.Reader
	stdout io.Writer
}

// run processes each named input. A failure on one input does not prevent
// the others from being processed; all failures are reported together.
func (r *runner) run(names []string) error {
	var errs []error
	var notCanonical bool
	for _, name := range names {
		data, err := r.readInput(name)
		if err != nil {
			r.log.Debugw("read failed", "input", name, "error", err)
			errs = append(errs, err)
			continue
		}

		switch {
		case r.cfg.Check:
			ok, err := r.check(name, data)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			} else if !ok {
				notCanonical = true
				fmt.Fprintln(r.stdout, name)
			}
		case r.cfg.Digest:
			if err := r.digest(name, data); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		default:
			out, err := r.canonicalize(data)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				continue
			}
			r.log.Debugw("canonicalized input", "input", name, "inBytes", len(data), "outBytes", len(out))
			if _, err := r.stdout.Write(out); err != nil {
				return err
			}
		}
	}
	if len(errs) != 0 {
		return errors.Join(errs...)
	} else if notCanonical {
		return errNotCanonical
	}
	return nil
}

func (r *runner) readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(r.stdin)
	}
	return afero.ReadFile(r.fs, name)
}

// canonicalize returns the canonical form of each value in data, each
// followed by a newline. HuJSON input must contain exactly one value.
func (r *runner) canonicalize(data []byte) ([]byte, error) {
	if r.cfg.HuJSON {
		out, err := canonjson.CanonicalizeHuJSON(data)
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
	var buf bytes.Buffer
	if err := canonjson.Transcode(&buf, bytes.NewReader(data)); err != nil {
		return nil, err
	} else if buf.Len() == 0 {
		return nil, errors.New("no JSON value")
	}
	return buf.Bytes(), nil
}

// check reports whether data is already canonical. A single trailing newline
// after the last value is allowed.
func (r *runner) check(name string, data []byte) (bool, error) {
	out, err := r.canonicalize(data)
	if err != nil {
		return false, err
	}
	ok := bytes.Equal(out, data) || bytes.Equal(out[:len(out)-1], data)
	r.log.Debugw("checked input", "input", name, "canonical", ok)
	return ok, nil
}

// digest writes the digest of the canonical form of the single value in data.
func (r *runner) digest(name string, data []byte) error {
	canon := canonjson.Canonicalize
	if r.cfg.HuJSON {
		canon = canonjson.CanonicalizeHuJSON
	}
	out, err := canon(data)
	if err != nil {
		return err
	}
	h := hashes[r.cfg.Hash]()
	h.Write(out)
	r.log.Debugw("digested input", "input", name, "hash", r.cfg.Hash, "bytes", len(out))
	_, err = fmt.Fprintf(r.stdout, "%s:%x  %s\n", r.cfg.Hash, h.Sum(nil), name)
	return err
}

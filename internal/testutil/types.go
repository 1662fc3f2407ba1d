// Package testutil defines support code for unit tests.
package testutil

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"
)

// Recorder is a canonjson.Handler that records a line of text for each event
// it receives. If FailOn is set, the first event whose line has FailOn as a
// prefix reports Err instead of being recorded.
type Recorder struct {
	FailOn string
	Err    error

	buf bytes.Buffer
}

// Output returns the recorded events, one per line.
func (r *Recorder) Output() string { return r.buf.String() }

// Lines returns the recorded events as a slice.
func (r *Recorder) Lines() []string {
	return strings.Split(strings.TrimSpace(r.buf.String()), "\n")
}

func (r *Recorder) pr(msg string, args ...any) error {
	line := fmt.Sprintf(msg, args...)
	if r.FailOn != "" && strings.HasPrefix(line, r.FailOn) {
		return r.Err
	}
	r.buf.WriteString(line)
	r.buf.WriteByte('\n')
	return nil
}

func (r *Recorder) BeginObject() error       { return r.pr("BeginObject") }
func (r *Recorder) Key(key string) error     { return r.pr("Key %q", key) }
func (r *Recorder) EndObject() error         { return r.pr("EndObject") }
func (r *Recorder) BeginArray() error        { return r.pr("BeginArray") }
func (r *Recorder) EndArray() error          { return r.pr("EndArray") }
func (r *Recorder) String(s string) error    { return r.pr("String %q", s) }
func (r *Recorder) Bool(b bool) error        { return r.pr("Bool %v", b) }
func (r *Recorder) Null() error              { return r.pr("Null") }
func (r *Recorder) Int(z int64) error        { return r.pr("Int %d", z) }
func (r *Recorder) Uint(z uint64) error      { return r.pr("Uint %d", z) }
func (r *Recorder) BigInt(z *big.Int) error  { return r.pr("BigInt %v", z) }
func (r *Recorder) Number(text string) error { return r.pr("Number %s", text) }
func (r *Recorder) Float(f float64) error    { return r.pr("Float %v", f) }

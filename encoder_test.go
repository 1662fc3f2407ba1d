// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package canonjson_test

import (
	"bytes"
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/creachadair/canonjson"
	"github.com/google/go-cmp/cmp"
)

// An event delivers a single structural event to a handler.
type event func(canonjson.Handler) error

var (
	beginObject event = canonjson.Handler.BeginObject
	endObject   event = canonjson.Handler.EndObject
	beginArray  event = canonjson.Handler.BeginArray
	endArray    event = canonjson.Handler.EndArray
	null        event = canonjson.Handler.Null
)

func key(s string) event { return func(h canonjson.Handler) error { return h.Key(s) } }
func str(s string) event { return func(h canonjson.Handler) error { return h.String(s) } }
func boolean(b bool) event { return func(h canonjson.Handler) error { return h.Bool(b) } }
func integer(z int64) event { return func(h canonjson.Handler) error { return h.Int(z) } }
func unsigned(z uint64) event { return func(h canonjson.Handler) error { return h.Uint(z) } }
func bigint(z *big.Int) event { return func(h canonjson.Handler) error { return h.BigInt(z) } }
func number(text string) event { return func(h canonjson.Handler) error { return h.Number(text) } }
func float(f float64) event { return func(h canonjson.Handler) error { return h.Float(f) } }
func member(k string, v event) []event { return []event{key(k), v} }

// seq flattens events and slices of events into a single sequence.
func seq(items ...any) []event {
	var out []event
	for _, item := range items {
		switch t := item.(type) {
		case event:
			out = append(out, t)
		case []event:
			out = append(out, t...)
		default:
			panic("invalid sequence item")
		}
	}
	return out
}

// encodeEvents delivers evs to a new encoder and closes it.
func encodeEvents(evs []event) (string, error) {
	var buf bytes.Buffer
	enc := canonjson.NewEncoder(&buf)
	for _, ev := range evs {
		if err := ev(enc); err != nil {
			return buf.String(), err
		}
	}
	return buf.String(), enc.Close()
}

func TestEncoder(t *testing.T) {
	pow100 := new(big.Int).Lsh(big.NewInt(1), 100)
	tests := []struct {
		name  string
		input []event
		want  string
	}{
		{"Null", seq(null), `null`},
		{"True", seq(boolean(true)), `true`},
		{"False", seq(boolean(false)), `false`},
		{"EmptyString", seq(str("")), `""`},
		{"Zero", seq(integer(0)), `0`},
		{"EmptyObject", seq(beginObject, endObject), `{}`},
		{"EmptyArray", seq(beginArray, endArray), `[]`},

		{"SortedKeys", seq(beginObject,
			member("b", integer(2)),
			member("a", integer(1)),
			endObject), `{"a":1,"b":2}`},

		{"NegativeZero", seq(beginArray,
			boolean(true), null, number("-0"),
			endArray), `[true,null,0]`},

		{"Escapes", seq(str("line\n\ttab\"quote")), `"line\n\ttab\"quote"`},

		{"Nested", seq(beginObject,
			key("z"), beginObject,
			member("y", integer(1)),
			member("x", integer(2)),
			endObject,
			key("a"), beginArray, integer(3), integer(2), integer(1), endArray,
			endObject), `{"a":[3,2,1],"z":{"x":2,"y":1}}`},

		{"NestedEmpty", seq(beginArray,
			beginArray, endArray,
			beginObject, endObject,
			beginArray, beginArray, endArray, endArray,
			endArray), `[[],{},[[]]]`},

		{"ByteOrder", seq(beginObject,
			member("é", integer(5)),
			member("ab", integer(4)),
			member("a", integer(3)),
			member("Z", integer(2)),
			member("\n", integer(1)),
			member("", integer(0)),
			endObject), `{"":0,"\n":1,"Z":2,"a":3,"ab":4,"é":5}`},

		{"KeyEscapes", seq(beginObject,
			member(`q"uote`, null),
			member(`back\slash`, null),
			endObject), `{"back\\slash":null,"q\"uote":null}`},

		{"Integers", seq(beginArray,
			integer(math.MinInt64),
			integer(-15),
			unsigned(math.MaxUint64),
			bigint(pow100),
			bigint(new(big.Int).Neg(pow100)),
			bigint(new(big.Int)),
			number("12345678901234567890123"),
			number("-7"),
			endArray),
			`[-9223372036854775808,-15,18446744073709551615,` +
				`1267650600228229401496703205376,-1267650600228229401496703205376,` +
				`0,12345678901234567890123,-7]`},

		{"NonASCII", seq(str("日本語 ☃ \U0001f600 café")), `"日本語 ☃ 😀 café"`},
		{"Controls", seq(str("\x00\x1f\b\f\n\r\t\x7f")), "\"\\u0000\\u001f\\b\\f\\n\\r\\t\x7f\""},

		{"MemberValuesOfEveryKind", seq(beginObject,
			member("s", str("x")),
			member("n", null),
			member("b", boolean(false)),
			member("i", integer(-1)),
			key("o"), beginObject, endObject,
			key("a"), beginArray, endArray,
			endObject), `{"a":[],"b":false,"i":-1,"n":null,"o":{},"s":"x"}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := encodeEvents(test.input)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Output (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestEncoderErrors(t *testing.T) {
	const (
		protocol = "protocol"
		unsupp   = "unsupported"
	)
	tests := []struct {
		name  string
		input []event
		kind  string
		want  string
	}{
		{"DuplicateKey", seq(beginObject,
			member("a", integer(1)),
			member("a", integer(2)),
			endObject), protocol, `EndObject: duplicate key "a"`},
		{"DuplicateNestedKey", seq(beginArray, beginObject,
			member("k", null), member("x", null), member("k", null),
			endObject, endArray), protocol, `duplicate key "k"`},
		{"TwoKeys", seq(beginObject, key("a"), key("b")), protocol, `Key: key "b" follows key "a"`},
		{"ValueWithoutKey", seq(beginObject, integer(1)), protocol, "Int: object value without a key"},
		{"ArrayWithoutKey", seq(beginObject, beginArray), protocol, "BeginArray: object value without a key"},
		{"KeyAtTop", seq(key("a")), protocol, `key "a" outside an object`},
		{"KeyInArray", seq(beginArray, key("a")), protocol, `key "a" outside an object`},
		{"DanglingKey", seq(beginObject, key("a"), endObject), protocol, `key "a" has no value`},
		{"EndObjectAtTop", seq(endObject), protocol, "EndObject: no open object"},
		{"EndArrayAtTop", seq(endArray), protocol, "EndArray: no open array"},
		{"EndArrayInObject", seq(beginObject, endArray), protocol, "no open array"},
		{"EndObjectInArray", seq(beginArray, endObject), protocol, "no open object"},
		{"ExtraValue", seq(integer(1), integer(2)), protocol, "extra value at top level"},
		{"ExtraContainer", seq(null, beginArray), protocol, "extra value at top level"},
		{"Unclosed", seq(beginArray, beginObject), protocol, "Close: 2 unclosed values"},
		{"Empty", nil, protocol, "Close: no value"},
		{"NilBigInt", seq(bigint(nil)), protocol, "nil integer"},
		{"InvalidString", seq(str("ok\xff")), protocol, "invalid UTF-8"},
		{"InvalidKey", seq(beginObject, key("\xc3")), protocol, "invalid UTF-8"},
		{"LeadingZero", seq(number("01")), protocol, `invalid number "01"`},
		{"PlusSign", seq(number("+1")), protocol, "invalid number"},
		{"EmptyNumber", seq(number("")), protocol, "invalid number"},
		{"BareMinus", seq(number("-")), protocol, "invalid number"},
		{"TrailingDot", seq(number("1.")), protocol, "invalid number"},
		{"NotANumber", seq(number("NaN")), protocol, "invalid number"},

		{"Float", seq(float(3.14)), unsupp, "unsupported number 3.14"},
		{"IntegralFloat", seq(float(2)), unsupp, "unsupported number 2"},
		{"FloatInArray", seq(beginArray, float(-0.5)), unsupp, "unsupported number -0.5"},
		{"FloatText", seq(number("3.14")), unsupp, "unsupported number 3.14"},
		{"ExponentText", seq(number("1e3")), unsupp, "unsupported number 1e3"},
		{"IntegralFraction", seq(number("1.0")), unsupp, "unsupported number 1.0"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := encodeEvents(test.input)
			if err == nil {
				t.Fatalf("Encode: got %#q, want error", got)
			}
			var perr *canonjson.ProtocolError
			var nerr *canonjson.UnsupportedNumberError
			switch test.kind {
			case protocol:
				if !errors.As(err, &perr) {
					t.Errorf("Error: got %[1]T %[1]v, want *ProtocolError", err)
				}
			case unsupp:
				if !errors.As(err, &nerr) {
					t.Errorf("Error: got %[1]T %[1]v, want *UnsupportedNumberError", err)
				}
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("Error: got %q, want %q", err.Error(), test.want)
			}
		})
	}
}

func TestEncoderSticky(t *testing.T) {
	var buf bytes.Buffer
	enc := canonjson.NewEncoder(&buf)
	if err := enc.BeginObject(); err != nil {
		t.Fatalf("BeginObject: unexpected error: %v", err)
	}
	err := enc.Float(1.5)
	if err == nil {
		t.Fatal("Float: got nil, want error")
	}

	// Every later call reports the same error, even if it would otherwise
	// have been valid.
	for _, ev := range seq(key("a"), null, endObject) {
		if got := ev(enc); got != err {
			t.Errorf("After failure: got %v, want %v", got, err)
		}
	}
	if got := enc.Close(); got != err {
		t.Errorf("Close: got %v, want %v", got, err)
	}
	if buf.Len() != 0 {
		t.Errorf("Output: got %#q, want empty", buf.String())
	}
}

type recordWriter struct {
	writes []string
	err    error
}

func (w *recordWriter) Write(data []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	w.writes = append(w.writes, string(data))
	return len(data), nil
}

func TestEncoderWritesCompleteValue(t *testing.T) {
	w := new(recordWriter)
	enc := canonjson.NewEncoder(w)
	for i, ev := range seq(beginObject,
		member("b", str("x")),
		key("a"), beginArray, integer(1), integer(2), endArray,
	) {
		if err := ev(enc); err != nil {
			t.Fatalf("Event %d: unexpected error: %v", i, err)
		}
		if len(w.writes) != 0 {
			t.Fatalf("Event %d: premature output %q", i, w.writes)
		}
	}
	if err := enc.EndObject(); err != nil {
		t.Fatalf("EndObject: unexpected error: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{`{"a":[1,2],"b":"x"}`}, w.writes); diff != "" {
		t.Errorf("Writes (-want, +got):\n%s", diff)
	}
}

func TestEncoderWriteError(t *testing.T) {
	errBoom := errors.New("boom")
	enc := canonjson.NewEncoder(&recordWriter{err: errBoom})
	if err := enc.String("hello"); !errors.Is(err, errBoom) {
		t.Errorf("String: got %v, want %v", err, errBoom)
	}
	if err := enc.Close(); !errors.Is(err, errBoom) {
		t.Errorf("Close: got %v, want %v", err, errBoom)
	}
}

func TestEncoderOrderInvariance(t *testing.T) {
	members := []struct {
		key string
		val event
	}{
		{"zeta", integer(26)},
		{"alpha", str("first")},
		{"Alpha", boolean(true)},
		{"älpha", null},
		{"al", number("-0")},
		{"alpha2", integer(-2)},
	}

	// Encode every rotation and the reversal of the member list, and check
	// that they all agree.
	var outputs []string
	render := func(order []int) string {
		evs := seq(beginObject)
		for _, i := range order {
			evs = append(evs, key(members[i].key), members[i].val)
		}
		got, err := encodeEvents(append(evs, endObject))
		if err != nil {
			t.Fatalf("Encode %v: unexpected error: %v", order, err)
		}
		return got
	}
	n := len(members)
	for r := range n {
		fwd := make([]int, n)
		rev := make([]int, n)
		for i := range n {
			fwd[i] = (i + r) % n
			rev[n-1-i] = (i + r) % n
		}
		outputs = append(outputs, render(fwd), render(rev))
	}

	const want = `{"Alpha":true,"al":0,"alpha":"first","alpha2":-2,"zeta":26,"älpha":null}`
	for i, got := range outputs {
		if got != want {
			t.Errorf("Output %d: got %#q, want %#q", i, got, want)
		}
	}
}

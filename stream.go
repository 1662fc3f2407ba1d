// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package canonjson

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/creachadair/canonjson/internal/escape"
	"go4.org/mem"
)

// Stream is a stream parser that consumes JSON source text and delivers
// events to a Handler corresponding with the structure of the input.
//
// String values and object keys are unquoted before they are delivered.
// Numbers are delivered as text via the Number method, whether or not they
// have a fraction or exponent; the handler decides whether to accept them.
type Stream struct {
	s *Scanner
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return &Stream{s: NewScanner(r)} }

// NewStreamWithScanner constructs a new Stream that consumes input from s.
func NewStreamWithScanner(s *Scanner) *Stream { return &Stream{s: s} }

func (s *Stream) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *SyntaxError:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(serr)
		}
	}
}

// Parse parses the input stream and delivers events to h until either an error
// occurs or the input is exhausted. In case of a syntax error, the returned
// error has type [*SyntaxError]. If a method of h reports an error, Parse
// returns that error unmodified.
func (s *Stream) Parse(h Handler) (err error) {
	defer s.recoverParseError(&err)

	for {
		err := s.s.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			s.syntaxError(err, "%v", err)
		}

		s.parseElement(h)
	}
}

// ParseOne parses a single value from the input stream and delivers events to
// h until the value is complete or an error occurs. If no further value is
// available from the input, ParseOne returns io.EOF. In case of a syntax
// error, the returned error has type [*SyntaxError].
func (s *Stream) ParseOne(h Handler) (err error) {
	defer s.recoverParseError(&err)

	if err := s.s.Next(); err == io.EOF {
		return err
	} else if err != nil {
		s.syntaxError(err, "%v", err)
	}
	s.parseElement(h)
	return nil
}

// checkEOF reports whether the input is exhausted. It returns nil at the end
// of input, otherwise ErrExtraInput joined with any scanning error.
func (s *Stream) checkEOF() error {
	if err := s.s.Next(); err == io.EOF {
		return nil
	} else if err != nil {
		return errors.Join(ErrExtraInput, err)
	}
	return ErrExtraInput
}

// parseElement consumes a single value of any type.
// Precondition: token != Invalid.
func (s *Stream) parseElement(h Handler) {
	switch tok := s.s.Token(); tok {
	case LBrace:
		s.checkError(h.BeginObject())
		s.parseMembers(h)
		s.checkError(h.EndObject())
	case LSquare:
		s.checkError(h.BeginArray())
		s.parseElements(h)
		s.checkError(h.EndArray())
	case String:
		s.checkError(h.String(s.unquote()))
	case Integer, Number:
		s.checkError(h.Number(string(s.s.Text())))
	case True, False:
		s.checkError(h.Bool(tok == True))
	case Null:
		s.checkError(h.Null())
	case RBrace, RSquare, Comma, Colon:
		s.syntaxError(nil, "unexpected %v", tok)
	default:
		s.syntaxError(nil, "unknown token %v", tok)
	}
}

// parseMembers consumes zero of more key:value object members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (s *Stream) parseMembers(h Handler) {
	tok := s.advance(RBrace, String)
	if tok == RBrace {
		return // end of object
	}
	for {
		// Parse a single member: "key": value
		s.checkError(h.Key(s.unquote()))
		s.advance(Colon)
		s.advance()
		s.parseElement(h)

		// Check whether we have more members (",") or are done ("}").
		if tok := s.advance(RBrace, Comma); tok == RBrace {
			return // end of object
		}
		s.advance(String) // advance to next key
	}
}

// parseElements consumes zero or more comma-separated array values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (s *Stream) parseElements(h Handler) {
	if tok := s.advance(); tok == RSquare {
		return // end of array
	}
	s.parseElement(h)
	for {
		if tok := s.advance(RSquare, Comma); tok == RSquare {
			return // end of array
		}
		s.advance()
		s.parseElement(h)
	}
}

// unquote returns the decoded text of the current string token.
// Precondition: token == String.
func (s *Stream) unquote() string {
	text := s.s.Text()
	dec, err := escape.Unquote(mem.B(text[1 : len(text)-1]))
	if err != nil {
		s.syntaxError(err, "invalid string: %v", err)
	}
	return string(dec)
}

func (s *Stream) advance(tokens ...Token) Token {
	if err := s.s.Next(); err != nil {
		s.syntaxError(err, "%v", tokLabel(tokens, err))
	}
	tok := s.s.Token()
	if len(tokens) != 0 && !slices.Contains(tokens, tok) {
		s.syntaxError(nil, "%v", tokLabel(tokens, tok))
	}
	return tok
}

// syntaxError panics with a *SyntaxError for the current token. Lexical
// errors are reported where the scanner stopped, others at the start of the
// offending token.
func (s *Stream) syntaxError(err error, msg string, args ...any) {
	loc := s.s.Location()
	at := loc.First
	var perr posError
	if errors.As(err, &perr) {
		at = loc.Last
	}
	panic(&SyntaxError{
		Location: at,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	})
}

func (s *Stream) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprintf("expected more input, got %v", got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, last)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// SyntaxError is the concrete type of errors reported by the stream parser.
type SyntaxError struct {
	Location LineCol
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

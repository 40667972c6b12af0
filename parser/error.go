package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ErrorKind classifies a match or transform failure.
type ErrorKind int

const (
	// KindExpected reports an atomic grammar element that did not match.
	KindExpected ErrorKind = iota
	// KindUnexpectedToken reports input the grammar could not account for,
	// either residue after a structural match or a failure part way in.
	KindUnexpectedToken
	// KindCustom wraps a failure signalled by a transform callback.
	KindCustom
)

// Error is the single failure value produced by Match and Transform. It
// always locates the failure in the source; Offset is in rune units.
type Error struct {
	Kind ErrorKind

	// Desc describes what was expected at the failure point, when known.
	Desc string

	// Err is the wrapped user error for KindCustom.
	Err error

	at Scanner
}

func expectedError(desc string, at Scanner) *Error {
	return &Error{Kind: KindExpected, Desc: desc, at: at}
}

func unexpectedTokenError(desc string, at Scanner) *Error {
	return &Error{Kind: KindUnexpectedToken, Desc: desc, at: at}
}

func customError(err error, at Scanner) *Error {
	return &Error{Kind: KindCustom, Err: err, at: at}
}

// Offset is the rune offset of the failure within the original input.
func (e *Error) Offset() int {
	return e.at.Offset()
}

// Scanner exposes the source slice at the failure point, for callers that
// want line/column or context rendering.
func (e *Error) Scanner() Scanner {
	return e.at
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnexpectedToken:
		if e.Desc != "" {
			return fmt.Sprintf("Unexpected token %q at %d (expected %q)",
				tokenAt(e.at), e.Offset(), e.Desc)
		}
		return fmt.Sprintf("Unexpected token '%s' at %d", tokenAt(e.at), e.Offset())
	case KindCustom:
		return fmt.Sprintf("%s at %d", e.Err, e.Offset())
	}
	return fmt.Sprintf("Expected(%q) at %d", e.Desc, e.Offset())
}

const maxTokenRunes = 16

// tokenAt extracts the offending token from the residual input: the run of
// characters up to the next whitespace, or the single whitespace character
// itself when the residue starts with one.
func tokenAt(s Scanner) string {
	text := s.String()
	if text == "" {
		return ""
	}
	if r, size := utf8.DecodeRuneInString(text); unicode.IsSpace(r) {
		return text[:size]
	}
	end := len(text)
	runes := 0
	for i, r := range text {
		if unicode.IsSpace(r) || runes == maxTokenRunes {
			end = i
			break
		}
		runes++
	}
	return text[:end]
}

// BadReferenceError reports a REF whose name has no Named binding anywhere
// in the grammar. This cannot depend on input content, so it is raised as a
// panic from Match rather than returned as a parse error.
type BadReferenceError struct {
	Name string
}

func (e BadReferenceError) Error() string {
	return fmt.Sprintf("no grammar binding for reference %q", e.Name)
}

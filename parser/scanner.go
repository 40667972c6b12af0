package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Scanner is a window onto the source text being matched. Eating input
// narrows the window; the original source stays reachable for context and
// offset reporting.
type Scanner struct {
	src         *stringSource // the source the scanner is drawing from
	sliceStart  int           // byte start of the visible slice within src
	sliceLength int           // byte length of the visible slice
}

type stringSource struct {
	origin string // the entire source string
	f      string // the source filename (or empty if none)
}

func NewScanner(str string) *Scanner {
	return &Scanner{&stringSource{origin: str}, 0, len(str)}
}

func NewScannerWithFilename(str, filename string) *Scanner {
	return &Scanner{&stringSource{str, filename}, 0, len(str)}
}

func NewScannerAt(str string, offset, size int) *Scanner {
	return &Scanner{&stringSource{origin: str}, offset, size}
}

// Filename is the name of the file from which the source is derived (or
// empty if none).
func (s Scanner) Filename() string {
	if s.src == nil {
		return ""
	}
	return s.src.f
}

func (s Scanner) String() string {
	if s.src == nil {
		return ""
	}
	return s.slice()
}

func (s Scanner) IsNil() bool {
	return s.src == nil
}

func (s Scanner) Format(state fmt.State, c rune) {
	if c == 'q' {
		_, _ = fmt.Fprintf(state, "%q", s.String())
	} else {
		_, _ = state.Write([]byte(s.String()))
	}
}

var (
	NoLimit      = -1
	DefaultLimit = 1
)

func sameSource(a, b *stringSource) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func (s Scanner) Contains(sn Scanner) bool {
	if !sameSource(s.src, sn.src) {
		return false
	}
	return s.sliceStart <= sn.sliceStart &&
		s.sliceStart+s.sliceLength >= sn.sliceStart+sn.sliceLength
}

// Context renders the source around the scanner's slice, highlighting the
// slice itself, limited to limitLines lines either side.
func (s Scanner) Context(limitLines int) string {
	end := s.sliceStart + s.sliceLength
	lineno, colno := s.Position()

	aboveCxt := s.src.slice(0, s.sliceStart)
	belowCxt := s.src.slice(end, len(s.src.origin)-end)
	if limitLines != NoLimit {
		a := strings.Split(aboveCxt, "\n")
		if len(a) > limitLines {
			aboveCxt = strings.Join(a[len(a)-limitLines-1:], "\n")
		}
		b := strings.Split(belowCxt, "\n")
		if len(b) > limitLines {
			belowCxt = strings.Join(b[:limitLines], "\n")
		}
	}

	return fmt.Sprintf("\n\033[1;37m%s:%d:%d:\033[0m\n%s\033[1;31m%s\033[0m%s",
		s.Filename(),
		lineno,
		colno,
		aboveCxt,
		s.String(),
		belowCxt,
	)
}

// Offset is the position of the start of the scanner within the original
// source, in runes. Offsets are reported in character units so they stay
// meaningful for multi-byte text.
func (s Scanner) Offset() int {
	if s.src == nil {
		return 0
	}
	return utf8.RuneCountInString(s.src.origin[:s.sliceStart])
}

// EndOffset is the rune position just past the scanner's slice.
func (s Scanner) EndOffset() int {
	if s.src == nil {
		return 0
	}
	return s.Offset() + utf8.RuneCountInString(s.slice())
}

// ByteOffset is the byte position of the start of the scanner within the
// original source. Byte offsets order the same as rune offsets, so the
// matcher compares these on its hot path.
func (s Scanner) ByteOffset() int {
	return s.sliceStart
}

// Position is the 1-indexed line and column number of the start of the
// scanner within the original source.
func (s Scanner) Position() (int, int) {
	return lineColumn(s.src.origin, s.sliceStart)
}

// slice is the text visible to the scanner.
func (s Scanner) slice() string {
	return s.src.slice(s.sliceStart, s.sliceLength)
}

func (s Scanner) Slice(a, b int) *Scanner {
	return &Scanner{s.src, s.sliceStart + a, b - a}
}

func (s Scanner) Skip(i int) *Scanner {
	return &Scanner{s.src, s.sliceStart + i, s.sliceLength - i}
}

func MergeScanners(items ...Scanner) (Scanner, error) {
	if len(items) == 0 {
		return Scanner{}, errors.New("needs at least one scanner")
	}
	if len(items) == 1 {
		return items[0], nil
	}

	l, r := items[0].sliceStart, items[0].sliceStart+items[0].sliceLength
	src := items[0].src

	for _, v := range items[1:] {
		if !sameSource(v.src, src) {
			return Scanner{}, fmt.Errorf("scanners' sources are not the same: %s vs %s", src.origin, v.src.origin)
		}
		if v.sliceStart < l {
			l = v.sliceStart
		}
		if v.sliceStart+v.sliceLength > r {
			r = v.sliceStart + v.sliceLength
		}
	}

	return Scanner{
		src:         src,
		sliceStart:  l,
		sliceLength: r - l,
	}, nil
}

// Eat returns a scanner containing the next i bytes and advances s past them.
func (s *Scanner) Eat(i int, eaten *Scanner) *Scanner {
	eaten.src = s.src
	eaten.sliceStart = s.sliceStart
	eaten.sliceLength = i
	*s = *s.Skip(i)
	return s
}

func (s *Scanner) EatString(str string, eaten *Scanner) bool {
	if strings.HasPrefix(s.slice(), str) {
		s.Eat(len(str), eaten)
		return true
	}
	return false
}

// EatRuneInRange eats one rune if it lies in [lo, hi], populating eaten with
// the consumed slice.
func (s *Scanner) EatRuneInRange(lo, hi rune, eaten *Scanner) bool {
	r, size := utf8.DecodeRuneInString(s.slice())
	if size == 0 || r == utf8.RuneError && size == 1 {
		return false
	}
	if r < lo || r > hi {
		return false
	}
	s.Eat(size, eaten)
	return true
}

func (s *stringSource) slice(i, length int) string {
	if i < 0 || i+length < 0 || i > len(s.origin) || i+length > len(s.origin) {
		return s.origin
	}
	return s.origin[i : i+length]
}

// lineColumn is the 1-indexed line and column number of the given position
// within the given string.
func lineColumn(str string, pos int) (line, col int) {
	prefix := str[:pos]
	line = strings.Count(prefix, "\n") + 1
	col = pos - strings.LastIndex(prefix, "\n")
	return
}

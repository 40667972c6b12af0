package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	at := func(src string, offset int) Scanner {
		return *NewScannerAt(src, offset, len(src)-offset)
	}

	assert.Equal(t, `Expected("foo") at 0`,
		expectedError("foo", at("bar", 0)).Error())
	assert.Equal(t, `Unexpected token ' ' at 3`,
		unexpectedTokenError("", at("foo ", 3)).Error())
	assert.Equal(t, `Unexpected token "bar" at 6 (expected "baz")`,
		unexpectedTokenError("baz", at("foofoobar", 6)).Error())
	assert.Equal(t, `boom at 2`,
		customError(errors.New("boom"), at("xxboom", 2)).Error())
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	err := customError(cause, Scanner{})
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, 0, err.Offset())
}

func TestTokenAt(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		residue string
		token   string
	}{
		{"", ""},
		{" tail", " "},
		{"\nrest", "\n"},
		{"word next", "word"},
		{"word", "word"},
		{"aaaaaaaaaaaaaaaaaaaaaaaa", "aaaaaaaaaaaaaaaa"},
	} {
		assert.Equal(t, test.token, tokenAt(*NewScanner(test.residue)), "residue %q", test.residue)
	}
}

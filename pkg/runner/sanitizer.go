package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/hfstol/pkg/domain"
)

var (
	// DefaultMaxInputSize is 4KB, far above any real word form.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "HFSTOL_MAX_INPUT_SIZE"
)

// ErrInputTooLarge is returned for words longer than the configured limit.
var ErrInputTooLarge = errors.New("input exceeds maximum allowed size")

// SanitizeInput prepares a word form received from a host adapter for lookup.
//
// Oversized input is rejected with ErrInputTooLarge, never truncated, and
// invalid UTF-8 with domain.ErrInvalidInput. A word form is printed back as
// the first column of a tab-separated row, so the result never holds a
// terminal escape sequence or a control character: escape sequences are
// dropped whole, tabs and line breaks become spaces, and any other control
// character is dropped.
func SanitizeInput(input string) (string, error) {
	limit := MaxInputSize()
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", domain.ErrInvalidInput
	}
	if strings.IndexFunc(input, unicode.IsControl) < 0 {
		return input, nil
	}
	return strings.Map(wordRune, stripEscapes(input)), nil
}

// Printable renders a word that SanitizeInput rejected so it can still be
// echoed: invalid UTF-8 becomes U+FFFD and control characters are handled
// as SanitizeInput does. The size limit is not applied.
func Printable(word string) string {
	return strings.Map(wordRune, stripEscapes(strings.ToValidUTF8(word, "\uFFFD")))
}

// stripEscapes removes ANSI CSI sequences (ESC '[' params final) and
// two-byte ESC sequences.
func stripEscapes(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != 0x1b {
			b.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			break
		}
		i++
		if s[i] >= utf8.RuneSelf {
			b.WriteByte(s[i])
			continue
		}
		if s[i] != '[' {
			continue
		}
		for i+1 < len(s) && (s[i+1] < 0x40 || s[i+1] > 0x7e) {
			i++
		}
		i++
	}
	return b.String()
}

func wordRune(r rune) rune {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return ' '
	case unicode.IsControl(r):
		return -1
	default:
		return r
	}
}

// MaxInputSize returns the input limit in bytes, from EnvMaxInputSize if set.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}

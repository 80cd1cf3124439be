package gitconfig

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNotBoolean is returned when a value is not one of git's boolean words.
	ErrNotBoolean = errors.New("not a boolean")
	// ErrNotInteger is returned when a value is not a git integer.
	ErrNotInteger = errors.New("not an integer")
	// ErrOutOfRange is returned when an integer with its unit suffix overflows int64.
	ErrOutOfRange = errors.New("integer out of range")
)

// Kind tags how a raw configuration value was interpreted.
type Kind int

const (
	KindText Kind = iota
	KindBoolean
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	default:
		return "text"
	}
}

// Value is a configuration value together with its interpretation. Booleans
// are tried first, then integers. Anything else keeps only the raw text.
type Value struct {
	Raw  string
	kind Kind
	b    bool
	n    int64
	err  error
}

// Interpret classifies raw the way git reads a typed value.
func Interpret(raw string) Value {
	if b, err := ParseBool(raw); err == nil {
		return Value{Raw: raw, kind: KindBoolean, b: b}
	}
	n, err := ParseInt(raw)
	if err == nil {
		return Value{Raw: raw, kind: KindInteger, n: n}
	}
	return Value{Raw: raw, kind: KindText, err: err}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

func (v Value) Int() (int64, bool) {
	return v.n, v.kind == KindInteger
}

// Err is the integer parse failure of a text value, nil otherwise.
func (v Value) Err() error { return v.err }

func (v Value) String() string { return v.Raw }

// ParseBool accepts git's boolean words, case-insensitively. The empty string
// is the implicit form of a key written without "=" and means true.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	return false, ErrNotBoolean
}

// ParseInt parses a decimal integer with an optional k, m or g unit suffix.
func ParseInt(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrNotInteger
	}

	factor := int64(1)
	switch s[len(s)-1] {
	case 'k', 'K':
		factor = 1 << 10
	case 'm', 'M':
		factor = 1 << 20
	case 'g', 'G':
		factor = 1 << 30
	}
	if factor != 1 {
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrOutOfRange
		}
		return 0, ErrNotInteger
	}
	if n > math.MaxInt64/factor || n < math.MinInt64/factor {
		return 0, ErrOutOfRange
	}
	return n * factor, nil
}

// ValueError reports a present value that could not be read as the requested type.
type ValueError struct {
	Section    string
	Subsection string
	Key        string
	Raw        string
	Err        error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("bad config value %q for %s: %v", e.Raw, e.Name(), e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// Name returns the dotted key, e.g. "index.threads".
func (e *ValueError) Name() string {
	return JoinKey(e.Section, e.Subsection, e.Key)
}

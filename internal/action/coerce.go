package action

import (
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// The dashboard reads numbers with parseInt, parseFloat and Number. These
// helpers reproduce those rules so a form filled in the browser and the same
// values given to botctl produce identical request bodies. A nil result is the
// browser's NaN (or an infinity), which encodes as JSON null.

var (
	floatPrefix  = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?)`)
	decimalExact = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?$`)
)

func isJSSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Trim removes leading and trailing whitespace the way String.prototype.trim does.
func Trim(s string) string {
	return strings.TrimFunc(s, isJSSpace)
}

// ParseInt follows parseInt(s) without a radix: leading whitespace, optional
// sign, optional 0x prefix, then the longest run of digits. Like the browser it
// yields a Number, so digit runs beyond 2^53 lose precision instead of failing.
func ParseInt(s string) *float64 {
	s = strings.TrimLeftFunc(s, isJSSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && digitValue(s[end]) < base {
		end++
	}
	if end == 0 {
		return nil
	}

	mag, ok := new(big.Int).SetString(s[:end], base)
	if !ok {
		return nil
	}
	f, _ := new(big.Float).SetInt(mag).Float64()
	if math.IsInf(f, 0) {
		return nil
	}
	if neg {
		f = -f
	}
	return &f
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 36
	}
}

// ParseFloat follows parseFloat(s): the longest decimal literal prefix after
// leading whitespace.
func ParseFloat(s string) *float64 {
	s = strings.TrimLeftFunc(s, isJSSpace)
	m := floatPrefix.FindString(s)
	if m == "" {
		return nil
	}
	return finite(m)
}

// Number follows Number(s): the whole trimmed string must be a numeric literal.
// The empty string is zero.
func Number(s string) *float64 {
	s = Trim(s)
	if s == "" {
		zero := 0.0
		return &zero
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			v, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return nil
			}
			f := float64(v)
			return &f
		}
	}

	switch s {
	case "Infinity", "+Infinity", "-Infinity":
		return nil
	}
	if !decimalExact.MatchString(s) {
		return nil
	}
	return finite(s)
}

func finite(literal string) *float64 {
	if strings.HasSuffix(literal, "Infinity") {
		return nil
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}

// wellFormed replaces invalid UTF-8 with U+FFFD. Page strings never carry raw
// bytes, and the body encoder copies non-ASCII bytes through unchecked.
func wellFormed(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// SplitList trims s, splits it on commas and trims every element. Elements that
// are empty after trimming are dropped, so "a, b," yields [a b]. The result is
// never nil.
func SplitList(s string) []string {
	out := []string{}
	s = Trim(s)
	if s == "" {
		return out
	}
	for _, part := range strings.Split(s, ",") {
		if part = Trim(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SplitNumbers splits like SplitList and converts each element with Number.
func SplitNumbers(s string) []*float64 {
	parts := SplitList(s)
	out := make([]*float64, 0, len(parts))
	for _, part := range parts {
		out = append(out, Number(part))
	}
	return out
}

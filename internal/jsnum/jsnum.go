// Package jsnum writes float64 values the way JavaScript converts a Number to a
// string. JSON.stringify uses the same conversion, so request bodies and
// rendered responses match what the dashboard produces in a browser.
package jsnum

import (
	"math"
	"strconv"
	"strings"
)

// Format returns the shortest decimal string that reads back as f, laid out by
// the Number::toString rules: plain notation for exponents in [-7, 21), and
// d.ddde±n outside it. Negative zero formats as "0".
func Format(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// Shortest round-trip digits and the decimal exponent of the first one.
	e := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(e, "e")
	digits := strings.Replace(mant, ".", "", 1)
	x, _ := strconv.Atoi(exp)

	k := len(digits)
	n := x + 1

	var s string
	switch {
	case k <= n && n <= 21:
		s = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		s = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		s = "0." + strings.Repeat("0", -n) + digits
	default:
		s = digits[:1]
		if k > 1 {
			s += "." + digits[1:]
		}
		if n-1 >= 0 {
			s += "e+" + strconv.Itoa(n-1)
		} else {
			s += "e-" + strconv.Itoa(1-n)
		}
	}
	return sign + s
}

// AppendJSON appends f as JSON.stringify writes it. NaN and the infinities
// become null.
func AppendJSON(dst []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(dst, "null"...)
	}
	return append(dst, Format(f)...)
}

package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/xkilldash9x/botctl/internal/jsnum"
)

// maxJSONDepth bounds nesting so a hostile body cannot exhaust the stack.
const maxJSONDepth = 10000

var errJSONTooDeep = errors.New("exceeded max depth")

// jsonObject keeps members in the order the parser first saw them. A repeated
// key keeps its first position and takes the last value.
type jsonObject struct {
	keys   []string
	values map[string]any
}

// indentJSON parses a JSON document and prints it back with two-space
// indentation, the way a browser renders JSON.stringify(JSON.parse(s), null, 2):
// numbers take their shortest JavaScript form ("100.0" prints as "100"),
// integer-like keys move to the front in ascending order, and empty containers
// stay on one line.
func indentJSON(data []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseJSON(dec, 0)
	if err != nil {
		return "", fmt.Errorf("invalid JSON response: %w", unexpectedEOF(err))
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return "", fmt.Errorf("invalid JSON response: %w", err)
	}

	w := jsonWriter{}
	if err := w.value(v, 0); err != nil {
		return "", fmt.Errorf("invalid JSON response: %w", err)
	}
	return string(w.buf), nil
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func parseJSON(dec *json.Decoder, depth int) (any, error) {
	if depth > maxJSONDepth {
		return nil, errJSONTooDeep
	}
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := &jsonObject{values: map[string]any{}}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, unexpectedEOF(err)
			}
			key := tok.(string)
			val, err := parseJSON(dec, depth+1)
			if err != nil {
				return nil, unexpectedEOF(err)
			}
			if _, seen := obj.values[key]; !seen {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, unexpectedEOF(err)
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := parseJSON(dec, depth+1)
			if err != nil {
				return nil, unexpectedEOF(err)
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, unexpectedEOF(err)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected %q", rune(delim))
}

// ordered returns the keys in JavaScript property order: array-index keys
// ascending, then the rest in insertion order.
func (o *jsonObject) ordered() []string {
	var indices, names []string
	for _, k := range o.keys {
		if _, ok := arrayIndex(k); ok {
			indices = append(indices, k)
		} else {
			names = append(names, k)
		}
	}
	sort.Slice(indices, func(i, j int) bool {
		a, _ := arrayIndex(indices[i])
		b, _ := arrayIndex(indices[j])
		return a < b
	})
	return append(indices, names...)
}

// arrayIndex reports whether k is the canonical decimal form of an integer
// below 2^32-1.
func arrayIndex(k string) (uint64, bool) {
	if k == "" || len(k) > 10 || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(k); i++ {
		if k[i] < '0' || k[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(k, 10, 64)
	if err != nil || n >= 1<<32-1 {
		return 0, false
	}
	return n, true
}

type jsonWriter struct {
	buf []byte
}

func (w *jsonWriter) newline(depth int) {
	w.buf = append(w.buf, '\n')
	for i := 0; i < depth; i++ {
		w.buf = append(w.buf, ' ', ' ')
	}
}

func (w *jsonWriter) value(v any, depth int) error {
	switch v := v.(type) {
	case nil:
		w.buf = append(w.buf, "null"...)
	case bool:
		w.buf = strconv.AppendBool(w.buf, v)
	case string:
		w.str(v)
	case json.Number:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return err
		}
		// Out of range literals parse to ±Inf and print as null.
		w.buf = jsnum.AppendJSON(w.buf, f)
	case []any:
		if len(v) == 0 {
			w.buf = append(w.buf, "[]"...)
			return nil
		}
		w.buf = append(w.buf, '[')
		for i, elem := range v {
			if i > 0 {
				w.buf = append(w.buf, ',')
			}
			w.newline(depth + 1)
			if err := w.value(elem, depth+1); err != nil {
				return err
			}
		}
		w.newline(depth)
		w.buf = append(w.buf, ']')
	case *jsonObject:
		if len(v.keys) == 0 {
			w.buf = append(w.buf, "{}"...)
			return nil
		}
		w.buf = append(w.buf, '{')
		for i, k := range v.ordered() {
			if i > 0 {
				w.buf = append(w.buf, ',')
			}
			w.newline(depth + 1)
			w.str(k)
			w.buf = append(w.buf, ": "...)
			if err := w.value(v.values[k], depth+1); err != nil {
				return err
			}
		}
		w.newline(depth)
		w.buf = append(w.buf, '}')
	default:
		return fmt.Errorf("unexpected token %T", v)
	}
	return nil
}

const hexDigits = "0123456789abcdef"

// str quotes s like JSON.stringify: only quotes, backslashes and control
// characters are escaped.
func (w *jsonWriter) str(s string) {
	w.buf = append(w.buf, '"')
	for _, r := range s {
		switch r {
		case '"':
			w.buf = append(w.buf, '\\', '"')
		case '\\':
			w.buf = append(w.buf, '\\', '\\')
		case '\b':
			w.buf = append(w.buf, '\\', 'b')
		case '\f':
			w.buf = append(w.buf, '\\', 'f')
		case '\n':
			w.buf = append(w.buf, '\\', 'n')
		case '\r':
			w.buf = append(w.buf, '\\', 'r')
		case '\t':
			w.buf = append(w.buf, '\\', 't')
		default:
			if r < 0x20 {
				w.buf = append(w.buf, '\\', 'u', '0', '0', hexDigits[r>>4], hexDigits[r&0xf])
				continue
			}
			w.buf = utf8.AppendRune(w.buf, r)
		}
	}
	w.buf = append(w.buf, '"')
}

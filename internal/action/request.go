package action

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// Bodies are encoded like JSON.stringify: struct field order, no HTML escaping.
var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// ErrUnauthenticated is returned when a payload is encoded before a password
// was attached to it.
var ErrUnauthenticated = errors.New("request payload has no password")

// Request is one resolved click: where to send it and what to send.
type Request struct {
	Action ID
	Method string
	Path   string
	// Payload is the typed body, or nil for a bodiless GET.
	Payload any

	password      string
	authenticated bool
}

// HasBody reports whether the request carries a payload.
func (r Request) HasBody() bool {
	return r.Payload != nil
}

// WithPassword returns a copy of r that will encode the given password as the
// trailing "password" key of its body. The value is trimmed and invalid UTF-8
// is replaced with U+FFFD. Requests without a payload are returned unchanged.
func (r Request) WithPassword(password string) Request {
	if r.Payload == nil {
		return r
	}
	r.password = Trim(wellFormed(password))
	r.authenticated = true
	return r
}

// Body encodes the payload as a JSON object ending with the password key. It
// returns nil for requests without a payload and ErrUnauthenticated when
// WithPassword was never applied.
func (r Request) Body() ([]byte, error) {
	if r.Payload == nil {
		return nil, nil
	}
	if !r.authenticated {
		return nil, fmt.Errorf("%s: %w", r.Action, ErrUnauthenticated)
	}
	return appendPassword(r.Payload, r.password)
}

func appendPassword(payload any, password string) ([]byte, error) {
	obj, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	obj = bytes.TrimSpace(obj)
	if len(obj) < 2 || obj[0] != '{' || obj[len(obj)-1] != '}' {
		return nil, fmt.Errorf("payload must encode as a JSON object, got %.32s", obj)
	}
	pw, err := json.Marshal(password)
	if err != nil {
		return nil, fmt.Errorf("failed to encode password: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(obj) + len(pw) + 12)
	buf.Write(obj[:len(obj)-1])
	if len(bytes.TrimSpace(obj[1:len(obj)-1])) > 0 {
		buf.WriteByte(',')
	}
	buf.WriteString(`"password":`)
	buf.Write(pw)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func methodFor(payload any) string {
	if payload == nil {
		return http.MethodGet
	}
	return http.MethodPost
}

// Package form provides the field sources an action reads from: in-memory values
// set from flags, a YAML file or the interactive shell, and HTML snapshots of
// the dashboard pages.
package form

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/botctl/internal/action"
)

// Values is a mutable field source. It is safe for concurrent use.
//
// A checkbox group that was edited stays defined even when every box in it is
// unchecked, so an emptied group still hides the same group in lower layers.
type Values struct {
	mu      sync.RWMutex
	fields  map[string]string
	checked map[string][]string
}

var _ action.Fields = (*Values)(nil)

func NewValues() *Values {
	return &Values{
		fields:  make(map[string]string),
		checked: make(map[string][]string),
	}
}

// Set stores the raw value of a field. The value is kept untrimmed; coercion
// happens when an action reads it.
func (v *Values) Set(id, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fields[id] = value
}

func (v *Values) Unset(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.fields, id)
}

// Check marks the checkbox with the given value in group name. Checking an
// already checked box is a no-op.
func (v *Values) Check(name, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if slices.Contains(v.checked[name], value) {
		return
	}
	v.checked[name] = append(v.checked[name], value)
}

// Uncheck clears the checkbox with the given value in group name. The group
// stays defined, possibly empty.
func (v *Values) Uncheck(name, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	group := slices.DeleteFunc(v.checked[name], func(s string) bool { return s == value })
	if group == nil {
		group = []string{}
	}
	v.checked[name] = group
}

// SetChecked replaces group name with the given values. An empty list defines
// the group with nothing checked.
func (v *Values) SetChecked(name string, values []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	group := []string{}
	for _, val := range values {
		if !slices.Contains(group, val) {
			group = append(group, val)
		}
	}
	v.checked[name] = group
}

// ClearGroup forgets group name, so lower layers show through again.
func (v *Values) ClearGroup(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.checked, name)
}

func (v *Values) Value(id string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.fields[id]
	return val, ok
}

func (v *Values) Checked(name string) []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.checked[name])
}

// Group returns the checked values of group name and whether the group is
// defined here at all.
func (v *Values) Group(name string) ([]string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	group, ok := v.checked[name]
	if !ok {
		return nil, false
	}
	return append([]string{}, group...), true
}

// IDs returns the ids of all set fields, sorted.
func (v *Values) IDs() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ids := make([]string, 0, len(v.fields))
	for id := range v.fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Groups returns the names of all defined checkbox groups, including emptied
// ones, sorted.
func (v *Values) Groups() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, 0, len(v.checked))
	for name := range v.checked {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge copies every field and checkbox group of other into v. Fields of other
// replace fields of v; a group present in other replaces the whole group in v.
func (v *Values) Merge(other *Values) {
	if other == nil || other == v {
		return
	}
	other.mu.RLock()
	fields := make(map[string]string, len(other.fields))
	for id, val := range other.fields {
		fields[id] = val
	}
	checked := make(map[string][]string, len(other.checked))
	for name, group := range other.checked {
		checked[name] = slices.Clone(group)
	}
	other.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()
	for id, val := range fields {
		v.fields[id] = val
	}
	for name, group := range checked {
		v.checked[name] = group
	}
}

// Assignment is one parsed "key=value" argument.
type Assignment struct {
	Key   string
	Value string
}

// ErrInvalidAssignment is returned for arguments without a key or an "=".
var ErrInvalidAssignment = errors.New("expected key=value")

// ParseAssignments parses "key=value" arguments in order. The value is kept
// verbatim and may itself contain "=".
func ParseAssignments(args []string) ([]Assignment, error) {
	out := make([]Assignment, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q: %w", arg, ErrInvalidAssignment)
		}
		out = append(out, Assignment{Key: key, Value: value})
	}
	return out, nil
}

// valuesFile is the on-disk layout read by LoadValuesFile:
//
//	fields:
//	  indicator-exchange-name: binance
//	  ma-length: 20
//	checked:
//	  symbol-db-view-symbol-db-exchanges-to-exclude: [bybit, okx]
type valuesFile struct {
	Fields  map[string]string   `yaml:"fields"`
	Checked map[string][]string `yaml:"checked"`
}

// LoadValuesFile reads field values from a YAML file. Scalars keep their literal
// text, so True stays "True" and 020 stays "020".
func LoadValuesFile(path string) (*Values, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open values file: %w", err)
	}
	defer f.Close()

	var doc valuesFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse values file %s: %w", path, err)
	}

	v := NewValues()
	for id, val := range doc.Fields {
		v.Set(id, val)
	}
	for name, group := range doc.Checked {
		v.SetChecked(name, group)
	}
	return v, nil
}

// Layered reads from several sources in order. Value returns the first source
// that has the field. Checked returns the group of the first source that
// defines it, even when that group is empty; sources that cannot tell whether
// they define a group count only when the group is non-empty.
type Layered []action.Fields

// GroupSource is a field source that can tell an empty checkbox group from an
// absent one.
type GroupSource interface {
	Group(name string) ([]string, bool)
}

func (l Layered) Value(id string) (string, bool) {
	for _, src := range l {
		if src == nil {
			continue
		}
		if val, ok := src.Value(id); ok {
			return val, true
		}
	}
	return "", false
}

func (l Layered) Checked(name string) []string {
	for _, src := range l {
		if src == nil {
			continue
		}
		if gs, ok := src.(GroupSource); ok {
			if group, defined := gs.Group(name); defined {
				return group
			}
			continue
		}
		if group := src.Checked(name); len(group) > 0 {
			return group
		}
	}
	return nil
}

// Group reports the group the way Checked resolves it, and whether any layer
// defines it.
func (l Layered) Group(name string) ([]string, bool) {
	for _, src := range l {
		if src == nil {
			continue
		}
		if gs, ok := src.(GroupSource); ok {
			if group, defined := gs.Group(name); defined {
				return group, true
			}
			continue
		}
		if group := src.Checked(name); len(group) > 0 {
			return group, true
		}
	}
	return nil, false
}

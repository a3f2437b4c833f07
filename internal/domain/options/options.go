// Package options implements the named, heterogeneous option list used to
// pass configuration and intermediate results between scoring stages.
//
// A List is not safe for concurrent mutation; each stage owns the list it
// creates and hands it to the caller when done.
package options

import (
	"fmt"

	"github.com/okian/confscore/pkg/matrix"
)

// List maps string keys to typed values and remembers insertion order.
type List struct {
	name   string
	keys   []string
	values map[string]Value
}

// New creates an empty list with the given name.
func New(name string) *List {
	return &List{name: name, values: make(map[string]Value)}
}

// Name returns the list name.
func (l *List) Name() string { return l.name }

// Len returns the number of entries.
func (l *List) Len() int { return len(l.keys) }

// Keys returns the keys in insertion order.
func (l *List) Keys() []string {
	out := make([]string, len(l.keys))
	copy(out, l.keys)
	return out
}

// Has reports whether key is present.
func (l *List) Has(key string) bool {
	_, ok := l.values[key]
	return ok
}

// Get returns the raw value stored under key.
func (l *List) Get(key string) (Value, bool) {
	v, ok := l.values[key]
	return v, ok
}

// Set stores v under key, replacing any previous value in place.
// Invalid values are ignored.
func (l *List) Set(key string, v Value) {
	if v.kind == KindInvalid {
		return
	}
	if _, ok := l.values[key]; !ok {
		l.keys = append(l.keys, key)
	}
	l.values[key] = v
}

// Remove deletes key and reports whether it was present.
func (l *List) Remove(key string) bool {
	if _, ok := l.values[key]; !ok {
		return false
	}
	delete(l.values, key)
	for i, k := range l.keys {
		if k == key {
			l.keys = append(l.keys[:i], l.keys[i+1:]...)
			break
		}
	}
	return true
}

// SetString stores a string option.
func (l *List) SetString(key, s string) { l.Set(key, StringValue(s)) }

// SetNumber stores a numeric option.
func (l *List) SetNumber(key string, f float64) { l.Set(key, NumberValue(f)) }

// SetBool stores a boolean option.
func (l *List) SetBool(key string, b bool) { l.Set(key, BoolValue(b)) }

// SetMatrix stores a matrix option.
func (l *List) SetMatrix(key string, m *matrix.Dense) { l.Set(key, MatrixValue(m)) }

// SetList stores a nested list.
func (l *List) SetList(key string, sub *List) { l.Set(key, ListValue(sub)) }

func (l *List) lookup(key string, want Kind) (Value, error) {
	v, ok := l.values[key]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrMissingOption, key)
	}
	if v.kind != want {
		return Value{}, fmt.Errorf("%w: %q is %s, want %s", ErrTypeMismatch, key, v.kind, want)
	}
	return v, nil
}

// GetString returns the string stored under key.
func (l *List) GetString(key string) (string, error) {
	v, err := l.lookup(key, KindString)
	return v.str, err
}

// GetNumber returns the number stored under key.
func (l *List) GetNumber(key string) (float64, error) {
	v, err := l.lookup(key, KindNumber)
	return v.num, err
}

// GetBool returns the boolean stored under key.
func (l *List) GetBool(key string) (bool, error) {
	v, err := l.lookup(key, KindBool)
	return v.flag, err
}

// GetMatrix returns the matrix stored under key.
func (l *List) GetMatrix(key string) (*matrix.Dense, error) {
	v, err := l.lookup(key, KindMatrix)
	return v.mat, err
}

// GetList returns the nested list stored under key.
func (l *List) GetList(key string) (*List, error) {
	v, err := l.lookup(key, KindList)
	return v.list, err
}

// Copy returns a copy of the list. Nested lists are copied recursively;
// matrices are shared.
func (l *List) Copy() *List {
	out := &List{
		name:   l.name,
		keys:   make([]string, len(l.keys)),
		values: make(map[string]Value, len(l.values)),
	}
	copy(out.keys, l.keys)
	for k, v := range l.values {
		if v.kind == KindList {
			v.list = v.list.Copy()
		}
		out.values[k] = v
	}
	return out
}

// Copyright (c) 2017 The Kegbot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package msg provides a minimal schema/record system.
//
// A record Type is declared by listing its Field descriptors explicitly.
// The field mapping is collected once at type-construction time, is immutable
// afterwards, and is shared by all instances of the type. Inheritance is an
// explicit Extend operation that copies the parent's field mapping and
// resolves name collisions in favor of the child.
package msg

import (
	"fmt"
	"reflect"
	"strings"
)

// Type is a named record type carrying an ordered, immutable mapping from
// field name to descriptor. Use NewType or Extend to construct Type
// instances.
type Type struct {
	name   string
	order  []string
	fields map[string]*Field
}

// NewType creates a record type from the supplied field descriptors,
// collected in declaration order. A duplicate field name fails with a
// *DuplicateFieldError.
func NewType(name string, fields ...*Field) (*Type, error) {
	t := &Type{
		name:   name,
		fields: make(map[string]*Field, len(fields)),
	}
	for _, f := range fields {
		if _, exists := t.fields[f.Name()]; exists {
			return nil, &DuplicateFieldError{Type: name, Field: f.Name()}
		}
		t.order = append(t.order, f.Name())
		t.fields[f.Name()] = f
	}
	return t, nil
}

// MustNewType is like NewType but panics on error. It is intended for
// package-level type declarations.
func MustNewType(name string, fields ...*Field) *Type {
	t, err := NewType(name, fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// Extend creates a new record type that inherits this type's fields.
// A redeclared field name overrides the parent's descriptor in place,
// keeping the parent's declaration position; new names are appended in
// declaration order. Duplicate names within the supplied fields fail with a
// *DuplicateFieldError.
func (t *Type) Extend(name string, fields ...*Field) (*Type, error) {
	child := &Type{
		name:   name,
		order:  append([]string(nil), t.order...),
		fields: make(map[string]*Field, len(t.fields)+len(fields)),
	}
	for k, v := range t.fields {
		child.fields[k] = v
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return nil, &DuplicateFieldError{Type: name, Field: f.Name()}
		}
		seen[f.Name()] = true
		if _, inherited := child.fields[f.Name()]; !inherited {
			child.order = append(child.order, f.Name())
		}
		child.fields[f.Name()] = f
	}
	return child, nil
}

// Name returns the record type name.
func (t *Type) Name() string { return t.name }

// Fields returns the type's field descriptors in declaration order.
// The returned slice is freshly built on every call.
func (t *Type) Fields() []*Field {
	fields := make([]*Field, len(t.order))
	for i, name := range t.order {
		fields[i] = t.fields[name]
	}
	return fields
}

// FieldNames returns the field names in declaration order.
func (t *Type) FieldNames() []string {
	return append([]string(nil), t.order...)
}

// Field looks up a field descriptor by name.
func (t *Type) Field(name string) (*Field, bool) {
	f, ok := t.fields[name]
	return f, ok
}

// Value is a keyword-style field override used by NewValues.
type Value struct {
	Name  string
	Value interface{}
}

// New creates a record instance. Every declared field starts unset (nil).
// If initial is non-nil, each entry is routed through Set, so an unknown
// field name or a rejected value fails construction.
func (t *Type) New(initial map[string]interface{}) (*Message, error) {
	m := &Message{
		t:      t,
		values: make(map[string]interface{}, len(t.order)),
	}
	for _, name := range t.order {
		m.values[name] = nil
	}
	for name, value := range initial {
		if err := m.Set(name, value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewValues creates a record instance from keyword-style overrides.
func (t *Type) NewValues(overrides ...Value) (*Message, error) {
	m, err := t.New(nil)
	if err != nil {
		return nil, err
	}
	for _, kv := range overrides {
		if err := m.Set(kv.Name, kv.Value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Message is one instance of a record Type. It owns a private mapping from
// field name to current value.
type Message struct {
	t      *Type
	values map[string]interface{}
}

// Type returns the record type this message is an instance of.
func (m *Message) Type() *Type { return m.t }

// Get returns the current value of the named field, nil if never set.
// An undeclared field name fails with an *UnknownFieldError.
func (m *Message) Get(name string) (interface{}, error) {
	if _, ok := m.t.fields[name]; !ok {
		return nil, &UnknownFieldError{Type: m.t.name, Field: name}
	}
	return m.values[name], nil
}

// Set routes the value through the field's validation rule and stores the
// result. On a rejected value the message keeps its prior value and an
// *InvalidFieldValueError is returned. An undeclared field name fails with
// an *UnknownFieldError.
func (m *Message) Set(name string, value interface{}) error {
	field, ok := m.t.fields[name]
	if !ok {
		return &UnknownFieldError{Type: m.t.name, Field: name}
	}
	parsed, err := field.ParseValue(value)
	if err != nil {
		return &InvalidFieldValueError{Type: m.t.name, Field: name, Value: value, Err: err}
	}
	m.values[name] = parsed
	return nil
}

// AsDict returns a snapshot mapping every declared field name to its current
// value, nil for fields that were never set. The snapshot is not a live
// view.
func (m *Message) AsDict() map[string]interface{} {
	dict := make(map[string]interface{}, len(m.values))
	for k, v := range m.values {
		dict[k] = v
	}
	return dict
}

// Equal reports whether the two messages share the same record type and hold
// identical field values.
func (m *Message) Equal(other *Message) bool {
	if other == nil || m.t != other.t {
		return false
	}
	return reflect.DeepEqual(m.values, other.values)
}

func (m *Message) String() string {
	parts := make([]string, 0, len(m.t.order))
	for _, name := range m.t.order {
		parts = append(parts, fmt.Sprintf("%s=%s", name, m.t.fields[name].Format(m.values[name])))
	}
	return fmt.Sprintf("<%s: %s>", m.t.name, strings.Join(parts, " "))
}

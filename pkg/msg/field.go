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

package msg

import "fmt"

// Parser validates a value on write and returns the (possibly normalized)
// value to store. Returning an error rejects the write.
type Parser func(value interface{}) (interface{}, error)

// Formatter renders a field value for display.
type Formatter func(value interface{}) string

// Field describes a single record field: its name, the validation rule
// applied on every write, and the formatting rule used for display.
type Field struct {
	name   string
	parse  Parser
	format Formatter
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// WithParser sets the field's validation rule.
func WithParser(parse Parser) FieldOption {
	return func(f *Field) { f.parse = parse }
}

// WithFormatter sets the field's display rule.
func WithFormatter(format Formatter) FieldOption {
	return func(f *Field) { f.format = format }
}

// NewField creates a field descriptor. The default validation rule accepts
// any value unchanged; the default display rule is fmt.Sprint.
func NewField(name string, opts ...FieldOption) *Field {
	f := &Field{
		name:   name,
		parse:  func(value interface{}) (interface{}, error) { return value, nil },
		format: func(value interface{}) string { return fmt.Sprint(value) },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// ParseValue applies the field's validation rule.
func (f *Field) ParseValue(value interface{}) (interface{}, error) {
	return f.parse(value)
}

// Format renders a value of this field for display.
func (f *Field) Format(value interface{}) string {
	return f.format(value)
}

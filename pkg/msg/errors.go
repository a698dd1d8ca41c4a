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

// DuplicateFieldError indicates a record type declared the same field name
// twice.
type DuplicateFieldError struct {
	Type  string
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("msg: duplicate field %q on type %q", e.Field, e.Type)
}

// UnknownFieldError indicates an access to a field name the record type does
// not declare.
type UnknownFieldError struct {
	Type  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("msg: type %q has no field %q", e.Type, e.Field)
}

// InvalidFieldValueError indicates a field's validation rule rejected a
// value. The record retains its prior value.
type InvalidFieldValueError struct {
	Type  string
	Field string
	Value interface{}
	Err   error
}

func (e *InvalidFieldValueError) Error() string {
	return fmt.Sprintf("msg: invalid value %v for field %q on type %q : %v", e.Value, e.Field, e.Type, e.Err)
}

func (e *InvalidFieldValueError) Unwrap() error { return e.Err }

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

// Package enum builds sets of mutually comparable named constants at runtime.
//
// Constants are declared in order. Each constant is assigned a sequential
// ordinal starting at 0, unless an explicit ordinal is supplied - an explicit
// ordinal also resets the sequence counter for the entries that follow it.
// Constants from different sets are never comparable.
package enum

import (
	"fmt"
	"sort"
)

// Def declares a single enum constant. Use C or CV to create one.
type Def struct {
	name       string
	ordinal    int
	hasOrdinal bool
}

// C declares a constant with the next sequential ordinal.
func C(name string) Def {
	return Def{name: name}
}

// CV declares a constant with an explicit ordinal.
// The sequence counter for subsequent C entries is reset to ordinal+1.
func CV(name string, ordinal int) Def {
	return Def{name: name, ordinal: ordinal, hasOrdinal: true}
}

// Set is an immutable, ordered set of named constants.
// Use New to construct Set instances.
type Set struct {
	values    []*Value
	byName    map[string]*Value
	byOrdinal map[int]*Value
	max       int
}

// Value is a single enum constant. Values are only comparable against values
// from the same Set.
type Value struct {
	set     *Set
	name    string
	ordinal int
}

// New builds a new enum Set from the supplied definitions.
// New panics if no definitions are supplied or if two entries resolve to the
// same ordinal.
func New(defs ...Def) *Set {
	if len(defs) == 0 {
		panic("enum: empty enums are not supported")
	}
	set := &Set{
		byName:    make(map[string]*Value, len(defs)),
		byOrdinal: make(map[int]*Value, len(defs)),
	}
	next := 0
	for _, def := range defs {
		ordinal := next
		if def.hasOrdinal {
			ordinal = def.ordinal
		}
		if _, exists := set.byOrdinal[ordinal]; exists {
			panic(fmt.Sprintf("enum: duplicate ordinal %d for %q", ordinal, def.name))
		}
		if _, exists := set.byName[def.name]; exists {
			panic(fmt.Sprintf("enum: duplicate name %q", def.name))
		}
		v := &Value{set: set, name: def.name, ordinal: ordinal}
		set.values = append(set.values, v)
		set.byName[def.name] = v
		set.byOrdinal[ordinal] = v
		if ordinal > set.max {
			set.max = ordinal
		}
		next = ordinal + 1
	}
	return set
}

// Len returns the number of constants in the set.
func (s *Set) Len() int { return len(s.values) }

// Values returns the constants in declaration order.
func (s *Set) Values() []*Value {
	values := make([]*Value, len(s.values))
	copy(values, s.values)
	return values
}

// Names returns the constant names in declaration order.
func (s *Set) Names() []string {
	names := make([]string, len(s.values))
	for i, v := range s.values {
		names[i] = v.name
	}
	return names
}

// ByName looks up a constant by its declared name.
func (s *Set) ByName(name string) (*Value, bool) {
	v, ok := s.byName[name]
	return v, ok
}

// ByOrdinal looks up a constant by its ordinal.
func (s *Set) ByOrdinal(ordinal int) (*Value, bool) {
	v, ok := s.byOrdinal[ordinal]
	return v, ok
}

func (s *Set) String() string {
	ordinals := make([]int, 0, len(s.byOrdinal))
	for ordinal := range s.byOrdinal {
		ordinals = append(ordinals, ordinal)
	}
	sort.Ints(ordinals)
	names := make([]string, len(ordinals))
	for i, ordinal := range ordinals {
		names[i] = s.byOrdinal[ordinal].name
	}
	return fmt.Sprintf("enum %v", names)
}

// Name returns the constant's declared name.
func (v *Value) Name() string { return v.name }

// Ordinal returns the constant's ordinal. Ordinals also serve as hash values.
func (v *Value) Ordinal() int { return v.ordinal }

func (v *Value) String() string { return v.name }

// Bool reports the constant's truthiness - false only for ordinal 0.
func (v *Value) Bool() bool { return v.ordinal != 0 }

// Invert returns the constant at ordinal max-v, where max is the highest
// ordinal in the set. The second result is false when no constant sits at the
// mirrored ordinal, which can happen when explicit ordinals leave gaps.
func (v *Value) Invert() (*Value, bool) {
	return v.set.ByOrdinal(v.set.max - v.ordinal)
}

// Equal reports whether the two constants belong to the same set and share
// the same ordinal.
func (v *Value) Equal(other *Value) bool {
	return other != nil && v.set == other.set && v.ordinal == other.ordinal
}

// Cmp compares two constants by ordinal, returning -1, 0, or +1.
// Constants from different sets are not comparable and produce a
// *DifferentSetsError.
func (v *Value) Cmp(other *Value) (int, error) {
	if other == nil || v.set != other.set {
		return 0, &DifferentSetsError{A: v, B: other}
	}
	switch {
	case v.ordinal < other.ordinal:
		return -1, nil
	case v.ordinal > other.ordinal:
		return 1, nil
	default:
		return 0, nil
	}
}

// DifferentSetsError indicates a comparison between constants from different
// enum sets.
type DifferentSetsError struct {
	A *Value
	B *Value
}

func (e *DifferentSetsError) Error() string {
	return fmt.Sprintf("enum: only values from the same enum are comparable : %v <> %v", e.A, e.B)
}

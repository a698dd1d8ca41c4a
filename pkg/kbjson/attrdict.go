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

package kbjson

import (
	"fmt"
	"time"
)

// AttrDict is a key/value mapping that offers named access alongside plain
// map indexing, both over the same backing store. Named access to an absent
// key fails with a *NoSuchKeyError; map indexing behaves like any Go map.
type AttrDict map[string]interface{}

// Get returns the value stored under name.
func (d AttrDict) Get(name string) (interface{}, error) {
	v, ok := d[name]
	if !ok {
		return nil, &NoSuchKeyError{Key: name}
	}
	return v, nil
}

// MustGet is like Get but panics when the key is absent.
func (d AttrDict) MustGet(name string) interface{} {
	v, err := d.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Set stores value under name.
func (d AttrDict) Set(name string, value interface{}) {
	d[name] = value
}

// GetString returns the string stored under name.
func (d AttrDict) GetString(name string) (string, error) {
	v, err := d.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &WrongTypeError{Key: name, Want: "string", Value: v}
	}
	return s, nil
}

// GetTime returns the time.Time stored under name.
func (d AttrDict) GetTime(name string) (time.Time, error) {
	v, err := d.Get(name)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, &WrongTypeError{Key: name, Want: "time.Time", Value: v}
	}
	return t, nil
}

// GetDict returns the nested AttrDict stored under name.
func (d AttrDict) GetDict(name string) (AttrDict, error) {
	v, err := d.Get(name)
	if err != nil {
		return nil, err
	}
	nested, ok := v.(AttrDict)
	if !ok {
		return nil, &WrongTypeError{Key: name, Want: "AttrDict", Value: v}
	}
	return nested, nil
}

// NoSuchKeyError indicates a named access to an absent key.
type NoSuchKeyError struct {
	Key string
}

func (e *NoSuchKeyError) Error() string {
	return fmt.Sprintf("kbjson: no attribute named %q", e.Key)
}

// WrongTypeError indicates a typed accessor found a value of a different
// type.
type WrongTypeError struct {
	Key   string
	Want  string
	Value interface{}
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("kbjson: attribute %q is a %T, not a %s", e.Key, e.Value, e.Want)
}

// NotAnObjectError indicates UnmarshalDict decoded a document whose
// top-level value is not a JSON object.
type NotAnObjectError struct {
	Value interface{}
}

func (e *NotAnObjectError) Error() string {
	return fmt.Sprintf("kbjson: top-level value is a %T, not an object", e.Value)
}

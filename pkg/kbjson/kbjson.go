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

// Package kbjson provides the common JSON handling for kegbot tools.
//
// Marshal encodes time.Time values as ISO-8601 strings. Unmarshal converts
// every decoded JSON object to an AttrDict and attempts to parse string
// fields whose key names suggest a timestamp back into time.Time values -
// a string that does not parse is left unchanged.
package kbjson

import (
	"strings"
	"time"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.Config{
	IndentionStep:          2,
	SortMapKeys:            true,
	EscapeHTML:             false,
	ValidateJsonRawMessage: true,
}.Froze()

func init() {
	jsoniter.RegisterTypeEncoderFunc("time.Time", encodeTime, timeIsEmpty)
}

func encodeTime(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	t := *(*time.Time)(ptr)
	stream.WriteString(t.Format(time.RFC3339))
}

func timeIsEmpty(ptr unsafe.Pointer) bool {
	return (*time.Time)(ptr).IsZero()
}

// iso8601Layouts are tried in order when decoding a timestamp-named field.
// RFC 3339 comes first since that is what Marshal emits.
var iso8601Layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Marshal encodes v as indented JSON, rendering any time.Time value as an
// ISO-8601 string.
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalString is a convenience variant of Marshal.
func MarshalString(v interface{}) (string, error) {
	return json.MarshalToString(v)
}

// Unmarshal decodes a JSON document. Every JSON object in the result is an
// AttrDict; string values under a timestamp-named key (ending in "date" or
// "time", or starting with "date" or "last_login") are parsed as ISO-8601
// date-times when possible.
func Unmarshal(data []byte) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return convert(v), nil
}

// UnmarshalString is a convenience variant of Unmarshal.
func UnmarshalString(data string) (interface{}, error) {
	return Unmarshal([]byte(data))
}

// UnmarshalDict decodes a JSON document whose top-level value is an object.
func UnmarshalDict(data []byte) (AttrDict, error) {
	v, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	dict, ok := v.(AttrDict)
	if !ok {
		return nil, &NotAnObjectError{Value: v}
	}
	return dict, nil
}

func convert(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		dict := make(AttrDict, len(x))
		for k, val := range x {
			val = convert(val)
			if s, ok := val.(string); ok && timestampKey(k) {
				if t, err := ParseISO8601(s); err == nil {
					val = t
				}
			}
			dict[k] = val
		}
		return dict
	case []interface{}:
		for i, elem := range x {
			x[i] = convert(elem)
		}
		return x
	default:
		return v
	}
}

func timestampKey(k string) bool {
	return strings.HasSuffix(k, "date") ||
		strings.HasSuffix(k, "time") ||
		strings.HasPrefix(k, "date") ||
		strings.HasPrefix(k, "last_login")
}

// ParseISO8601 parses s as an ISO-8601 date-time.
func ParseISO8601(s string) (time.Time, error) {
	var err error
	for _, layout := range iso8601Layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

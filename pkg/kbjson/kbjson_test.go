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

package kbjson_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kegbot/kegbot.go/pkg/kbjson"
)

const sampleDecode = `
{
  "event": "my-event",
  "sub" : {
    "list" : [1,2,3]
  },
  "iso_time": "2010-06-11T23:01:01-08:00",
  "bad_time": "123-45"
}
`

func TestUnmarshal_Sample(t *testing.T) {
	obj, err := kbjson.UnmarshalDict([]byte(sampleDecode))
	require.NoError(t, err)

	event, err := obj.GetString("event")
	require.NoError(t, err)
	assert.Equal(t, "my-event", event)

	sub, err := obj.GetDict("sub")
	require.NoError(t, err)
	list, err := sub.Get("list")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{float64(1), float64(2), float64(3)}, list)

	expected := time.Date(2010, 6, 11, 23, 1, 1, 0, time.FixedZone("", -8*3600))
	isoTime, err := obj.GetTime("iso_time")
	require.NoError(t, err)
	assert.True(t, isoTime.Equal(expected), "iso_time should decode to %v, got %v", expected, isoTime)

	badTime, err := obj.GetString("bad_time")
	require.NoError(t, err, "a string that fails to parse stays a string")
	assert.Equal(t, "123-45", badTime)
}

func TestUnmarshal_NonMatchingKeyKeepsString(t *testing.T) {
	obj, err := kbjson.UnmarshalDict([]byte(`{"name": "2010-06-11T23:01:01-08:00"}`))
	require.NoError(t, err)
	name, err := obj.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "2010-06-11T23:01:01-08:00", name)
}

func TestUnmarshal_AbsentKey(t *testing.T) {
	obj, err := kbjson.UnmarshalDict([]byte(`{}`))
	require.NoError(t, err)
	_, err = obj.Get("bogus")
	require.Error(t, err)
	assert.IsType(t, &kbjson.NoSuchKeyError{}, err)
}

func TestMarshal_TimeAsISO8601(t *testing.T) {
	ts := time.Date(2010, 6, 11, 23, 1, 1, 0, time.FixedZone("", -8*3600))
	s, err := kbjson.MarshalString(map[string]interface{}{
		"time":     ts,
		"notatime": "123",
	})
	require.NoError(t, err)
	assert.Contains(t, s, "2010-06-11T23:01:01-08:00")
	assert.Contains(t, s, `"notatime"`)
}

func TestRoundTrip(t *testing.T) {
	ts := time.Date(2010, 6, 11, 23, 1, 1, 0, time.FixedZone("", -8*3600))
	data, err := kbjson.Marshal(map[string]interface{}{"pour_time": ts, "notatime": "123"})
	require.NoError(t, err)

	obj, err := kbjson.UnmarshalDict(data)
	require.NoError(t, err)

	got, err := obj.GetTime("pour_time")
	require.NoError(t, err)
	assert.True(t, got.Equal(ts), "round trip should yield an equal instant, got %v", got)

	// "notatime" matches the suffix heuristic but "123" does not parse,
	// so the literal string survives
	notatime, err := obj.GetString("notatime")
	require.NoError(t, err)
	assert.Equal(t, "123", notatime)
}

func TestParseISO8601_Layouts(t *testing.T) {
	cases := []string{
		"2010-06-11T23:01:01-08:00",
		"2010-06-11T23:01:01",
		"2010-06-11 23:01:01",
		"2010-06-11",
	}
	for _, s := range cases {
		if _, err := kbjson.ParseISO8601(s); err != nil {
			t.Errorf("ParseISO8601(%q) failed: %v", s, err)
		}
	}
	if _, err := kbjson.ParseISO8601("123-45"); err == nil {
		t.Error("ParseISO8601(\"123-45\") should fail")
	}
}

func TestAttrDict_TypedAccessors(t *testing.T) {
	d := kbjson.AttrDict{"n": float64(1)}
	_, err := d.GetString("n")
	assert.IsType(t, &kbjson.WrongTypeError{}, err)

	d.Set("s", "hello")
	s, err := d.GetString("s")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

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

// Package version reports the build version.
package version

import (
	"github.com/Masterminds/semver"
)

// VERSION is the project version. It is meant to be set at build time:
//
//	go build -ldflags "-X github.com/kegbot/kegbot.go/pkg/version.VERSION=1.2.3"
var VERSION string

const unknown = "0.0.0+unknown"

// Version returns the build version. Builds that do not inject VERSION, or
// inject a malformed value, report 0.0.0+unknown.
func Version() *semver.Version {
	if v, err := semver.NewVersion(VERSION); err == nil {
		return v
	}
	return semver.MustParse(unknown)
}

// String returns the build version as a string.
func String() string {
	return Version().String()
}

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

// Package commons provides small general purpose helpers.
package commons

// CToF converts degrees Celsius to degrees Fahrenheit.
func CToF(celsius float64) float64 {
	return celsius*9.0/5.0 + 32.0
}

// FToC converts degrees Fahrenheit to degrees Celsius.
func FToC(fahrenheit float64) float64 {
	return (fahrenheit - 32.0) * 5.0 / 9.0
}

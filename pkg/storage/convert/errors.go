// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package convert

import (
	"fmt"
	"reflect"
)

// NoConverterFoundError is returned when neither a registered converter nor
// a built-in rule can turn a value of type Source into type Target.
type NoConverterFoundError struct {
	// Source is the type of the value being converted.
	Source reflect.Type
	// Target is the type the value should have been converted to. It is
	// nil when the value has no natural store representation at all.
	Target reflect.Type
}

func (e *NoConverterFoundError) Error() string {
	return fmt.Sprintf(
		"No converter found capable of converting from type [%s] to type [%s]",
		typeName(e.Source), typeName(e.Target))
}

// ConversionRangeError is returned when a numeric value cannot be
// represented by the target type without losing information.
type ConversionRangeError struct {
	// Value is the value that did not fit.
	Value interface{}
	// Target is the type that could not hold Value.
	Target reflect.Type
}

func (e *ConversionRangeError) Error() string {
	return fmt.Sprintf("value %v is out of range for type [%s]",
		e.Value, typeName(e.Target))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func noConverter(source, target reflect.Type) error {
	return &NoConverterFoundError{Source: source, Target: target}
}

func outOfRange(value interface{}, target reflect.Type) error {
	return &ConversionRangeError{Value: value, Target: target}
}

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

package orm

import (
	"fmt"
	"reflect"

	"github.com/uber/cqlmap/pkg/storage/convert"
)

// NoConverterFoundError is returned when a property value cannot be
// converted to or from its store representation.
type NoConverterFoundError = convert.NoConverterFoundError

// ConversionRangeError is returned when a numeric value does not fit the
// type it is converted to.
type ConversionRangeError = convert.ConversionRangeError

// MappingConfigurationError is returned when the metadata declared on a
// type is ambiguous or invalid, e.g. more than one primary key.
type MappingConfigurationError struct {
	// Type is the type whose declaration is invalid.
	Type reflect.Type
	// Reason describes what is wrong with the declaration.
	Reason string
}

func (e *MappingConfigurationError) Error() string {
	return fmt.Sprintf("invalid mapping for %v: %s", e.Type, e.Reason)
}

func mappingError(t reflect.Type, format string, args ...interface{}) error {
	return &MappingConfigurationError{
		Type:   t,
		Reason: fmt.Sprintf(format, args...),
	}
}

// MissingPrimaryKeyError is returned when an update or a predicate is
// requested for an object without a primary key property, or when a client
// operation that addresses a single row finds a key column unset.
type MissingPrimaryKeyError struct {
	// Type is the type of the object being written.
	Type reflect.Type
	// Target is the kind of write that needed the key.
	Target Target
	// Column is the unset key column, empty when no key is declared.
	Column string
}

func (e *MissingPrimaryKeyError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%v has no value for key column %s in %s",
			e.Type, e.Column, e.Target)
	}
	return fmt.Sprintf("%v has no primary key to build %s predicates from",
		e.Type, e.Target)
}

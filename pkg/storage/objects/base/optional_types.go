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

package base

import (
	"reflect"
)

var (
	_optionalStringType = reflect.TypeOf(&OptionalString{})
	_optionalUInt64Type = reflect.TypeOf(&OptionalUInt64{})
)

// OptionalString type can be used for primary key of type string
// to be evaluated as either nil or some string value
// different than empty string
type OptionalString struct {
	Value string
}

// NewOptionalString returns either new *OptionalString or nil
func NewOptionalString(v interface{}) *OptionalString {
	s, ok := v.(string)
	if ok && len(s) > 0 {
		return &OptionalString{Value: s}
	}
	return nil
}

// String for *OptionalString type
func (s *OptionalString) String() string {
	return s.Value
}

// OptionalUInt64 type can be used for primary key of type uint64
// to be evaluated as either nil or some uint64 value
type OptionalUInt64 struct {
	Value uint64
}

// NewOptionalUInt64 returns either new *OptionalUInt64 or nil. C* hands
// back bigint columns as int64, so both int64 and uint64 are accepted.
func NewOptionalUInt64(v interface{}) *OptionalUInt64 {
	switch u := v.(type) {
	case uint64:
		return &OptionalUInt64{Value: u}
	case int64:
		if u < 0 {
			return nil
		}
		return &OptionalUInt64{Value: uint64(u)}
	case *int64:
		if u == nil || *u < 0 {
			return nil
		}
		return &OptionalUInt64{Value: uint64(*u)}
	}
	return nil
}

// UInt64 for *OptionalUInt64 type
func (u *OptionalUInt64) UInt64() uint64 {
	return u.Value
}

// IsOfTypeOptional returns whether a value is of type custom optional
func IsOfTypeOptional(value reflect.Value) bool {
	return IsOptionalType(value.Type())
}

// IsOptionalType returns whether typ is one of the custom optional types.
func IsOptionalType(typ reflect.Type) bool {
	switch typ {
	case _optionalStringType, _optionalUInt64Type:
		return true
	default:
		return false
	}
}

// ConvertFromOptionalToRawType returns an interface of raw type
// understandable by the DB layer, extracted from a custom
// optional type. A nil optional yields nil.
func ConvertFromOptionalToRawType(value reflect.Value) interface{} {
	if value.IsNil() {
		return nil
	}
	switch v := value.Interface().(type) {
	case *OptionalString:
		return v.String()
	case *OptionalUInt64:
		return v.UInt64()
	}
	return nil
}

// ConvertFromRawToOptionalType returns a value representing an
// optional type built from the raw type fetched from DB
func ConvertFromRawToOptionalType(
	value reflect.Value, typ reflect.Type) reflect.Value {
	raw := reflect.Indirect(value)
	switch typ {
	case _optionalStringType:
		return reflect.ValueOf(NewOptionalString(raw.Interface()))
	case _optionalUInt64Type:
		return reflect.ValueOf(NewOptionalUInt64(raw.Interface()))
	}
	return reflect.Zero(typ)
}

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

	"github.com/pkg/errors"
)

// Enum describes an enumeration: a named Go type together with its
// constants in declaration order. The position of a constant in that order
// is its ordinal; its String() is its name.
type Enum struct {
	typ      reflect.Type
	values   []interface{}
	names    []string
	ordinals map[interface{}]int
	byName   map[string]int
}

// NewEnum builds an Enum from all constants of one type, in declaration
// order.
func NewEnum(values ...fmt.Stringer) (*Enum, error) {
	if len(values) == 0 {
		return nil, errors.New("enum needs at least one constant")
	}
	e := &Enum{
		typ:      reflect.TypeOf(values[0]),
		ordinals: make(map[interface{}]int, len(values)),
		byName:   make(map[string]int, len(values)),
	}
	if !e.typ.Comparable() {
		return nil, errors.Errorf("enum type %s is not comparable", e.typ)
	}
	for i, v := range values {
		if reflect.TypeOf(v) != e.typ {
			return nil, errors.Errorf(
				"enum constant %v has type %T, expected %s", v, v, e.typ)
		}
		name := v.String()
		if _, ok := e.byName[name]; ok {
			return nil, errors.Errorf("enum %s declares %q twice", e.typ, name)
		}
		if _, ok := e.ordinals[v]; ok {
			return nil, errors.Errorf("enum %s declares value %v twice", e.typ, name)
		}
		e.values = append(e.values, v)
		e.names = append(e.names, name)
		e.ordinals[v] = i
		e.byName[name] = i
	}
	return e, nil
}

// MustEnum is like NewEnum but panics on error. It is meant for package
// level declarations.
func MustEnum(values ...fmt.Stringer) *Enum {
	e, err := NewEnum(values...)
	if err != nil {
		panic(err)
	}
	return e
}

// Type returns the enumeration's Go type.
func (e *Enum) Type() reflect.Type {
	return e.typ
}

// Name returns the symbolic name of v.
func (e *Enum) Name(v interface{}) (string, error) {
	i, err := e.Ordinal(v)
	if err != nil {
		return "", err
	}
	return e.names[i], nil
}

// Ordinal returns the declaration position of v.
func (e *Enum) Ordinal(v interface{}) (int, error) {
	i, ok := e.ordinals[v]
	if !ok {
		return 0, errors.Errorf("%v is not a constant of enum %s", v, e.typ)
	}
	return i, nil
}

// ValueOf returns the constant named name.
func (e *Enum) ValueOf(name string) (interface{}, error) {
	i, ok := e.byName[name]
	if !ok {
		return nil, errors.Errorf("%q is not a constant of enum %s", name, e.typ)
	}
	return e.values[i], nil
}

// ValueAt returns the constant at ordinal.
func (e *Enum) ValueAt(ordinal int) (interface{}, error) {
	if ordinal < 0 || ordinal >= len(e.values) {
		return nil, errors.Errorf(
			"ordinal %d is out of range for enum %s", ordinal, e.typ)
	}
	return e.values[ordinal], nil
}

// OrdinalConverters returns the converters that map the enumeration to and
// from its ordinal stored as a CQL int. Registering them is the only way to
// get ordinal storage; names are the default.
func OrdinalConverters(e *Enum) []Converter {
	return []Converter{
		{
			Source: e.typ,
			Target: _intType,
			Convert: func(v interface{}) (interface{}, error) {
				return e.Ordinal(v)
			},
		},
		{
			Source: _intType,
			Target: e.typ,
			Convert: func(v interface{}) (interface{}, error) {
				return e.ValueAt(v.(int))
			},
		},
	}
}

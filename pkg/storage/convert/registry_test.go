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
	"strconv"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type celsius float64

func TestRegistrySealsOnFirstLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Converter{
		Source: reflect.TypeOf(celsius(0)),
		Target: reflect.TypeOf(""),
		Convert: func(v interface{}) (interface{}, error) {
			return strconv.FormatFloat(float64(v.(celsius)), 'f', 1, 64) + "C", nil
		},
	}))

	e := NewEngine(r)
	v, err := e.ToStoreValue(celsius(21.5), Unset)
	require.NoError(t, err)
	assert.Equal(t, "21.5C", v)

	assert.Error(t, r.Register(OrdinalConverters(conditionEnum)...))
	assert.Error(t, r.RegisterEnum(conditionEnum))
}

func TestOrdinalConvertersLeavePlainIntegers(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterEnum(conditionEnum))
	require.NoError(t, r.Register(OrdinalConverters(conditionEnum)...))
	e := NewEngine(r)

	v, err := e.ToStoreValue(conditionUsed, Unset)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = e.ToStoreValue(1, Unset)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = e.FromStoreValue(1, reflect.TypeOf(condition(0)))
	require.NoError(t, err)
	assert.Equal(t, conditionUsed, v)
}

func TestRegistryRejectsIncompleteConverter(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(Converter{Source: reflect.TypeOf(0)}))
	require.NoError(t, r.RegisterEnum(conditionEnum))
	assert.Error(t, r.RegisterEnum(conditionEnum))
}

func TestRegistryInterfaceSource(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Converter{
		Source: reflect.TypeOf((*fmt.Stringer)(nil)).Elem(),
		Target: reflect.TypeOf(""),
		Convert: func(v interface{}) (interface{}, error) {
			return "stringer:" + v.(fmt.Stringer).String(), nil
		},
	}))
	e := NewEngine(r)
	v, err := e.ToStoreValue(conditionUsed, gocql.TypeText)
	require.NoError(t, err)
	assert.Equal(t, "stringer:USED", v)
}

func TestEnum(t *testing.T) {
	_, err := NewEnum()
	assert.Error(t, err)

	_, err = NewEnum(conditionMint, conditionMint)
	assert.Error(t, err)

	_, err = NewEnum(conditionMint, hostnameStringer("x"))
	assert.Error(t, err)

	assert.Panics(t, func() { MustEnum() })

	name, err := conditionEnum.Name(conditionUsed)
	require.NoError(t, err)
	assert.Equal(t, "USED", name)

	ordinal, err := conditionEnum.Ordinal(conditionUsed)
	require.NoError(t, err)
	assert.Equal(t, 1, ordinal)

	_, err = conditionEnum.Ordinal(condition(9))
	assert.Error(t, err)

	v, err := conditionEnum.ValueAt(0)
	require.NoError(t, err)
	assert.Equal(t, conditionMint, v)

	_, err = conditionEnum.ValueAt(-1)
	assert.Error(t, err)
}

type hostnameStringer string

func (h hostnameStringer) String() string { return string(h) }

func TestParseStoreType(t *testing.T) {
	for name, expected := range map[string]gocql.Type{
		"int":       gocql.TypeInt,
		" TEXT ":    gocql.TypeText,
		"timeuuid":  gocql.TypeTimeUUID,
		"varint":    gocql.TypeVarint,
		"timestamp": gocql.TypeTimestamp,
		"inet":      gocql.TypeInet,
	} {
		typ, err := ParseStoreType(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, typ, name)
	}
	_, err := ParseStoreType("list<int>")
	assert.Error(t, err)
}

func TestStoreType(t *testing.T) {
	for value, expected := range map[interface{}]gocql.Type{
		"":           gocql.TypeText,
		int32(0):     gocql.TypeInt,
		int(0):       gocql.TypeBigInt,
		float32(0):   gocql.TypeFloat,
		false:        gocql.TypeBoolean,
		condition(0): gocql.TypeBigInt,
	} {
		typ, ok := StoreType(reflect.TypeOf(value))
		assert.True(t, ok)
		assert.Equal(t, expected, typ, "%T", value)
	}
	typ, ok := StoreType(reflect.TypeOf(new(*gocql.UUID)))
	assert.True(t, ok)
	assert.Equal(t, gocql.TypeUUID, typ)

	_, ok = StoreType(reflect.TypeOf(struct{}{}))
	assert.False(t, ok)
}

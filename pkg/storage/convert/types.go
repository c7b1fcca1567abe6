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
	"math/big"
	"net"
	"net/netip"
	"reflect"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"gopkg.in/inf.v0"
)

// Unset is the store type of a property without an explicit override. The
// value is then written in its natural store representation.
const Unset = gocql.TypeCustom

var (
	_stringType        = reflect.TypeOf("")
	_boolType          = reflect.TypeOf(false)
	_intType           = reflect.TypeOf(int(0))
	_int8Type          = reflect.TypeOf(int8(0))
	_int16Type         = reflect.TypeOf(int16(0))
	_int64Type         = reflect.TypeOf(int64(0))
	_float32Type       = reflect.TypeOf(float32(0))
	_float64Type       = reflect.TypeOf(float64(0))
	_bytesType         = reflect.TypeOf([]byte(nil))
	_timeType          = reflect.TypeOf(time.Time{})
	_durationType      = reflect.TypeOf(time.Duration(0))
	_uuidType          = reflect.TypeOf(gocql.UUID{})
	_cqlDurationType   = reflect.TypeOf(gocql.Duration{})
	_ipType            = reflect.TypeOf(net.IP(nil))
	_netipAddrType     = reflect.TypeOf(netip.Addr{})
	_bigIntType        = reflect.TypeOf(big.Int{})
	_bigIntPtrType     = reflect.TypeOf(&big.Int{})
	_bigFloatPtrType   = reflect.TypeOf(&big.Float{})
	_decimalPtrType    = reflect.TypeOf(&inf.Dec{})
	_storeTypesByName  = map[string]gocql.Type{}
	_goTypeOfStoreType = map[gocql.Type]reflect.Type{
		gocql.TypeAscii:     _stringType,
		gocql.TypeText:      _stringType,
		gocql.TypeVarchar:   _stringType,
		gocql.TypeBigInt:    _int64Type,
		gocql.TypeCounter:   _int64Type,
		gocql.TypeInt:       _intType,
		gocql.TypeSmallInt:  _int16Type,
		gocql.TypeTinyInt:   _int8Type,
		gocql.TypeVarint:    _bigIntPtrType,
		gocql.TypeDecimal:   _decimalPtrType,
		gocql.TypeFloat:     _float32Type,
		gocql.TypeDouble:    _float64Type,
		gocql.TypeBoolean:   _boolType,
		gocql.TypeBlob:      _bytesType,
		gocql.TypeTimestamp: _timeType,
		gocql.TypeDate:      _timeType,
		gocql.TypeTime:      _durationType,
		gocql.TypeUUID:      _uuidType,
		gocql.TypeTimeUUID:  _uuidType,
		gocql.TypeInet:      _ipType,
		gocql.TypeDuration:  _cqlDurationType,
	}
)

func init() {
	for t := range _goTypeOfStoreType {
		_storeTypesByName[t.String()] = t
	}
}

// ParseStoreType parses a CQL type name such as "int" or "timeuuid".
func ParseStoreType(name string) (gocql.Type, error) {
	t, ok := _storeTypesByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Unset, errors.Errorf("unsupported store type %q", name)
	}
	return t, nil
}

// GoType returns the Go type the driver uses for values of the store type.
func GoType(t gocql.Type) (reflect.Type, bool) {
	typ, ok := _goTypeOfStoreType[t]
	return typ, ok
}

// StoreType returns the natural store type of a domain type, following
// pointers. Registered enumerations are not known here; they map to text in
// the Engine.
func StoreType(typ reflect.Type) (gocql.Type, bool) {
	for typ.Kind() == reflect.Ptr && !IsNativePointer(typ) {
		typ = typ.Elem()
	}
	switch typ {
	case _uuidType:
		return gocql.TypeUUID, true
	case _timeType:
		return gocql.TypeTimestamp, true
	case _durationType:
		return gocql.TypeBigInt, true
	case _cqlDurationType:
		return gocql.TypeDuration, true
	case _ipType, _netipAddrType:
		return gocql.TypeInet, true
	case _bigIntType, _bigIntPtrType:
		return gocql.TypeVarint, true
	case _decimalPtrType, _bigFloatPtrType:
		return gocql.TypeDecimal, true
	case _bytesType:
		return gocql.TypeBlob, true
	}
	if isUUIDFlavour(typ) {
		return gocql.TypeUUID, true
	}
	switch typ.Kind() {
	case reflect.String:
		return gocql.TypeText, true
	case reflect.Bool:
		return gocql.TypeBoolean, true
	case reflect.Int8:
		return gocql.TypeTinyInt, true
	case reflect.Int16, reflect.Uint8:
		return gocql.TypeSmallInt, true
	case reflect.Int32, reflect.Uint16:
		return gocql.TypeInt, true
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return gocql.TypeBigInt, true
	case reflect.Float32:
		return gocql.TypeFloat, true
	case reflect.Float64:
		return gocql.TypeDouble, true
	}
	return Unset, false
}

// isStoreNative reports whether the driver uses typ for some store type.
func isStoreNative(typ reflect.Type) bool {
	for _, t := range _goTypeOfStoreType {
		if t == typ {
			return true
		}
	}
	return false
}

// IsNativePointer reports pointer types that are values on their own
// rather than optional wrappers around a value.
func IsNativePointer(typ reflect.Type) bool {
	switch typ {
	case _bigIntPtrType, _bigFloatPtrType, _decimalPtrType:
		return true
	}
	return false
}

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
	"math"
	"math/big"
	"net"
	"net/netip"
	"reflect"
	"strconv"
	"time"

	"github.com/uber/cqlmap/pkg/storage/objects/base"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"gopkg.in/inf.v0"
)

// Engine converts domain values into the values the driver accepts and
// converts driver values back into domain values.
//
// Registered converters are consulted first. Otherwise the built-in rules
// apply: enumerations are stored by name, UUID flavours become gocql.UUID,
// temporal, inet, boolean and arbitrary-precision values pass through, and
// numbers are widened freely but narrowed only when they fit.
type Engine struct {
	registry *Registry
}

// NewEngine returns an Engine backed by registry. A nil registry means no
// custom conversions.
func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Engine{registry: registry}
}

// Registry returns the converter registry of the engine.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// IsEnum reports whether typ is a registered enumeration.
func (e *Engine) IsEnum(typ reflect.Type) bool {
	_, ok := e.registry.enum(typ)
	return ok
}

// ToStoreValue converts value into its store representation. storeType is
// the explicit column type of the property, or Unset to use the natural
// store type of the value.
func (e *Engine) ToStoreValue(
	value interface{}, storeType gocql.Type) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	v := reflect.ValueOf(value)

	var target reflect.Type
	if storeType != Unset {
		t, ok := GoType(storeType)
		if !ok {
			return nil, errors.Errorf("unsupported store type %s", storeType)
		}
		target = t
		if c, ok := e.registry.lookup(v.Type(), target); ok {
			return c.Convert(value)
		}
	} else if c, ok := e.registry.writeTarget(v.Type()); ok {
		return c.Convert(value)
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nil, nil
		}
		if base.IsOptionalType(v.Type()) {
			return e.ToStoreValue(
				base.ConvertFromOptionalToRawType(v), storeType)
		}
		if !IsNativePointer(v.Type()) {
			return e.ToStoreValue(v.Elem().Interface(), storeType)
		}
	case reflect.Slice, reflect.Map, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
	}

	natural, err := e.natural(v)
	if err != nil {
		return nil, err
	}
	if natural == nil || target == nil || reflect.TypeOf(natural) == target {
		return natural, nil
	}
	return e.coerce(natural, v.Type(), target)
}

// natural returns the store value of v for its natural store type.
func (e *Engine) natural(v reflect.Value) (interface{}, error) {
	value := v.Interface()
	if id, ok, err := toCQLUUID(value); ok {
		if err != nil {
			return nil, err
		}
		return id, nil
	}

	switch t := value.(type) {
	case time.Time, gocql.Duration, *big.Int, *inf.Dec, net.IP, []byte:
		return value, nil
	case time.Duration:
		return int64(t), nil
	case netip.Addr:
		if !t.IsValid() {
			return nil, nil
		}
		return net.IP(t.AsSlice()), nil
	case big.Int:
		return new(big.Int).Set(&t), nil
	case *big.Float:
		d, ok := new(inf.Dec).SetString(t.Text('f', -1))
		if !ok {
			return nil, errors.Errorf("cannot represent %v as a decimal", t)
		}
		return d, nil
	}

	if enum, ok := e.registry.enum(v.Type()); ok {
		return enum.Name(value)
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int8:
		return int8(v.Int()), nil
	case reflect.Int16:
		return int16(v.Int()), nil
	case reflect.Int32:
		return int(v.Int()), nil
	case reflect.Int, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint8:
		return int16(v.Uint()), nil
	case reflect.Uint16:
		return int(v.Uint()), nil
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return nil, outOfRange(value, _int64Type)
		}
		return int64(u), nil
	case reflect.Float32:
		return float32(v.Float()), nil
	case reflect.Float64:
		return v.Float(), nil
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Bytes(), nil
		}
	}
	return nil, noConverter(v.Type(), nil)
}

// coerce converts a natural store value into the Go type of an explicit
// store type. source is the domain type the value came from and is used
// for error reporting.
func (e *Engine) coerce(
	natural interface{}, source, target reflect.Type) (interface{}, error) {
	// Enumerations only ever go to text without a registered converter.
	if _, ok := e.registry.enum(source); ok && target != _stringType {
		return nil, noConverter(source, target)
	}

	n := reflect.ValueOf(natural)
	switch target {
	case _stringType:
		if s, ok := canonicalString(natural); ok {
			return s, nil
		}
	case _bigIntPtrType:
		if isIntegerKind(n.Kind()) {
			return toBigInt(n), nil
		}
	case _decimalPtrType:
		switch x := natural.(type) {
		case *big.Int:
			return new(inf.Dec).SetUnscaledBig(x), nil
		case float32, float64:
			d, ok := new(inf.Dec).SetString(
				strconv.FormatFloat(n.Float(), 'f', -1, 64))
			if !ok {
				return nil, outOfRange(natural, target)
			}
			return d, nil
		}
		if isSignedKind(n.Kind()) {
			return inf.NewDec(n.Int(), 0), nil
		}
	case _float32Type, _float64Type:
		if isIntegerKind(n.Kind()) || isFloatKind(n.Kind()) {
			return toFloat(n, target)
		}
	case _intType, _int8Type, _int16Type, _int64Type:
		var out interface{}
		var err error
		if b, ok := natural.(*big.Int); ok {
			out, err = bigToIntegral(b, target)
		} else if isIntegerKind(n.Kind()) {
			out, err = toIntegral(n, target)
		} else {
			break
		}
		if err != nil {
			return nil, err
		}
		// the driver holds a CQL int in a Go int
		if i, ok := out.(int); ok && (i < math.MinInt32 || i > math.MaxInt32) {
			return nil, outOfRange(natural, target)
		}
		return out, nil
	case _uuidType:
		if s, ok := natural.(string); ok {
			id, err := gocql.ParseUUID(s)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid uuid %q", s)
			}
			return id, nil
		}
	case _ipType:
		if s, ok := natural.(string); ok {
			ip := net.ParseIP(s)
			if ip == nil {
				return nil, errors.Errorf("invalid inet address %q", s)
			}
			return ip, nil
		}
	case _bytesType:
		if s, ok := natural.(string); ok {
			return []byte(s), nil
		}
	}
	return nil, noConverter(source, target)
}

// canonicalString renders scalar store values in their canonical text
// form.
func canonicalString(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case *big.Int:
		return x.String(), true
	case *inf.Dec:
		return x.String(), true
	case gocql.UUID:
		return x.String(), true
	case net.IP:
		return x.String(), true
	}
	return "", false
}

func toBigInt(v reflect.Value) *big.Int {
	if isUnsignedKind(v.Kind()) {
		return new(big.Int).SetUint64(v.Uint())
	}
	return big.NewInt(v.Int())
}

// FromStoreValue converts a value read from the store into target. A nil
// or absent store value yields nil and no error; the caller keeps the zero
// value of the target.
func (e *Engine) FromStoreValue(
	storeValue interface{}, target reflect.Type) (interface{}, error) {
	if storeValue == nil {
		return nil, nil
	}
	sv := reflect.ValueOf(storeValue)
	// scan destinations and nullable columns come back behind pointers
	for sv.Kind() == reflect.Ptr && !IsNativePointer(sv.Type()) {
		if sv.IsNil() {
			return nil, nil
		}
		sv = sv.Elem()
	}
	switch sv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		if sv.IsNil() {
			return nil, nil
		}
	}
	storeValue = sv.Interface()
	source := sv.Type()

	if source == target {
		return storeValue, nil
	}
	if c, ok := e.registry.lookup(source, target); ok {
		return c.Convert(storeValue)
	}
	if target.Kind() == reflect.Interface && source.Implements(target) {
		return storeValue, nil
	}

	if base.IsOptionalType(target) {
		return base.ConvertFromRawToOptionalType(sv, target).Interface(), nil
	}
	if target.Kind() == reflect.Ptr && !IsNativePointer(target) {
		v, err := e.FromStoreValue(storeValue, target.Elem())
		if err != nil || v == nil {
			return nil, err
		}
		if reflect.TypeOf(v) != target.Elem() {
			return nil, noConverter(source, target)
		}
		p := reflect.New(target.Elem())
		p.Elem().Set(reflect.ValueOf(v))
		return p.Interface(), nil
	}

	if enum, ok := e.registry.enum(target); ok {
		if name, isName := storeValue.(string); isName {
			return enum.ValueOf(name)
		}
		return nil, noConverter(source, target)
	}
	if v, ok, err := fromCQLUUID(storeValue, target); ok {
		return v, err
	}

	if v, ok, err := fromStoreValueByType(storeValue, sv, target); ok {
		return v, err
	}
	return fromStoreValueByKind(storeValue, sv, target)
}

// fromStoreValueByType handles targets that are specific library types.
func fromStoreValueByType(
	storeValue interface{},
	sv reflect.Value,
	target reflect.Type,
) (interface{}, bool, error) {
	switch target {
	case _ipType:
		if s, ok := storeValue.(string); ok {
			ip := net.ParseIP(s)
			if ip == nil {
				return nil, true, errors.Errorf("invalid inet address %q", s)
			}
			return ip, true, nil
		}
	case _netipAddrType:
		switch x := storeValue.(type) {
		case net.IP:
			addr, ok := netip.AddrFromSlice(x)
			if !ok {
				return nil, true, errors.Errorf("invalid inet address %v", x)
			}
			return addr.Unmap(), true, nil
		case string:
			addr, err := netip.ParseAddr(x)
			return addr, true, errors.Wrapf(err, "invalid inet address %q", x)
		}
	case _bigIntType, _bigIntPtrType:
		b, ok := parseBigInt(storeValue, sv)
		if !ok {
			return nil, false, nil
		}
		if target == _bigIntType {
			return *b, true, nil
		}
		return b, true, nil
	case _decimalPtrType:
		switch x := storeValue.(type) {
		case *big.Int:
			return new(inf.Dec).SetUnscaledBig(x), true, nil
		case string:
			d, ok := new(inf.Dec).SetString(x)
			if !ok {
				return nil, true, errors.Errorf("invalid decimal %q", x)
			}
			return d, true, nil
		}
		if isSignedKind(sv.Kind()) {
			return inf.NewDec(sv.Int(), 0), true, nil
		}
	case _bigFloatPtrType:
		switch x := storeValue.(type) {
		case *inf.Dec:
			f, ok := new(big.Float).SetString(x.String())
			if !ok {
				return nil, true, errors.Errorf("invalid decimal %v", x)
			}
			return f, true, nil
		case float64:
			return big.NewFloat(x), true, nil
		}
		if isSignedKind(sv.Kind()) {
			return new(big.Float).SetInt64(sv.Int()), true, nil
		}
	}
	return nil, false, nil
}

func parseBigInt(storeValue interface{}, sv reflect.Value) (*big.Int, bool) {
	switch x := storeValue.(type) {
	case *big.Int:
		return new(big.Int).Set(x), true
	case string:
		return new(big.Int).SetString(x, 10)
	}
	if isIntegerKind(sv.Kind()) {
		return toBigInt(sv), true
	}
	return nil, false
}

// fromStoreValueByKind handles targets by their underlying kind, which
// covers named domain types such as `type Host string`.
func fromStoreValueByKind(
	storeValue interface{},
	sv reflect.Value,
	target reflect.Type,
) (interface{}, error) {
	source := sv.Type()
	switch k := target.Kind(); {
	case k == reflect.String:
		if s, ok := canonicalString(storeValue); ok {
			return reflect.ValueOf(s).Convert(target).Interface(), nil
		}
		if sv.Kind() == reflect.String {
			return sv.Convert(target).Interface(), nil
		}
	case k == reflect.Bool:
		if sv.Kind() == reflect.Bool {
			return sv.Convert(target).Interface(), nil
		}
	case isIntegerKind(k):
		if b, ok := storeValue.(*big.Int); ok {
			return bigToIntegral(b, target)
		}
		if isIntegerKind(sv.Kind()) {
			return toIntegral(sv, target)
		}
	case isFloatKind(k):
		if isIntegerKind(sv.Kind()) || isFloatKind(sv.Kind()) {
			return toFloat(sv, target)
		}
	case k == reflect.Slice && target.Elem().Kind() == reflect.Uint8:
		if source == _bytesType {
			return sv.Convert(target).Interface(), nil
		}
	}
	return nil, noConverter(source, target)
}

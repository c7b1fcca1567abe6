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
	"reflect"
)

func isSignedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsignedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isIntegerKind(k reflect.Kind) bool {
	return isSignedKind(k) || isUnsignedKind(k)
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// toIntegral stores the integer held by v into a new value of the target
// integer type. Values the target cannot represent are rejected.
func toIntegral(v reflect.Value, target reflect.Type) (interface{}, error) {
	out := reflect.New(target).Elem()
	switch {
	case isSignedKind(v.Kind()):
		i := v.Int()
		if isSignedKind(target.Kind()) {
			if out.OverflowInt(i) {
				return nil, outOfRange(v.Interface(), target)
			}
			out.SetInt(i)
			return out.Interface(), nil
		}
		if i < 0 || out.OverflowUint(uint64(i)) {
			return nil, outOfRange(v.Interface(), target)
		}
		out.SetUint(uint64(i))
		return out.Interface(), nil
	case isUnsignedKind(v.Kind()):
		u := v.Uint()
		if isSignedKind(target.Kind()) {
			if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
				return nil, outOfRange(v.Interface(), target)
			}
			out.SetInt(int64(u))
			return out.Interface(), nil
		}
		if out.OverflowUint(u) {
			return nil, outOfRange(v.Interface(), target)
		}
		out.SetUint(u)
		return out.Interface(), nil
	}
	return nil, noConverter(v.Type(), target)
}

// bigToIntegral narrows an arbitrary-precision integer.
func bigToIntegral(b *big.Int, target reflect.Type) (interface{}, error) {
	switch {
	case b.IsInt64():
		return toIntegral(reflect.ValueOf(b.Int64()), target)
	case b.IsUint64():
		return toIntegral(reflect.ValueOf(b.Uint64()), target)
	}
	return nil, outOfRange(b, target)
}

// toFloat converts an integer or floating point v into the target float
// type. Integers always widen; a float64 only narrows to float32 when its
// magnitude fits.
func toFloat(v reflect.Value, target reflect.Type) (interface{}, error) {
	out := reflect.New(target).Elem()
	var f float64
	switch {
	case isSignedKind(v.Kind()):
		f = float64(v.Int())
	case isUnsignedKind(v.Kind()):
		f = float64(v.Uint())
	case isFloatKind(v.Kind()):
		f = v.Float()
		if !math.IsInf(f, 0) && !math.IsNaN(f) && out.OverflowFloat(f) {
			return nil, outOfRange(v.Interface(), target)
		}
	default:
		return nil, noConverter(v.Type(), target)
	}
	out.SetFloat(f)
	return out.Interface(), nil
}

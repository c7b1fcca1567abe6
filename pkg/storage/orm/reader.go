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
	"net"
	"reflect"
	"time"

	"github.com/uber/cqlmap/pkg/storage/convert"
	"github.com/uber/cqlmap/pkg/storage/objects/base"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
)

var (
	_stringType = reflect.TypeOf("")
	_boolType   = reflect.TypeOf(false)
	_uuidType   = reflect.TypeOf(gocql.UUID{})
	_ipType     = reflect.TypeOf(net.IP(nil))
	_timeType   = reflect.TypeOf(time.Time{})
)

// Reader converts result rows into Go values.
type Reader struct {
	mc *MappingContext
}

// NewReader returns a Reader resolving entities with mc.
func NewReader(mc *MappingContext) *Reader {
	return &Reader{mc: mc}
}

// Read converts row into a value of typ. A scalar typ is read from column
// 0. An entity typ is read positionally in the order of Entity.Columns.
// Reading a null scalar returns nil; null entity columns keep their zero
// value.
func (r *Reader) Read(row Row, typ reflect.Type) (interface{}, error) {
	if isScalar(typ) {
		if row.Len() < 1 {
			return nil, errors.New("cannot read a value from an empty row")
		}
		return r.readColumn(row, 0, typ)
	}

	e, err := r.mc.Resolve(typ)
	if err != nil {
		return nil, err
	}
	if row.Len() < len(e.columns) {
		return nil, errors.Errorf(
			"row has %d columns, %v needs %d", row.Len(), typ, len(e.columns))
	}

	value := reflect.New(e.typ)
	if err := r.readEntity(row, e, value.Elem()); err != nil {
		return nil, err
	}
	if typ.Kind() == reflect.Ptr {
		return value.Interface(), nil
	}
	return value.Elem().Interface(), nil
}

// ReadInto reads row into the value dst points to.
func (r *Reader) ReadInto(row Row, dst interface{}) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return errors.Errorf("cannot read into %T, need a non-nil pointer", dst)
	}
	value, err := r.Read(row, v.Type().Elem())
	if err != nil {
		return err
	}
	return assign(v.Elem(), value)
}

// readEntity fills the fields of v, an addressable struct of e's type.
func (r *Reader) readEntity(row Row, e *Entity, v reflect.Value) error {
	props := e.properties
	if e.keyColumns != nil {
		props = e.keyColumns
	}
	pos := 0
	for _, p := range props {
		if k, ok := e.key.(*CompositeKey); ok && p == k.property {
			key := reflect.New(k.entity.typ)
			present := false
			for _, kp := range k.entity.keyColumns {
				if !row.IsNull(pos) {
					present = true
				}
				if err := r.readProperty(row, pos, kp, key.Elem()); err != nil {
					return err
				}
				pos++
			}
			if present {
				field := p.Value(v)
				if field.Kind() == reflect.Ptr {
					field.Set(key)
				} else {
					field.Set(key.Elem())
				}
			}
			continue
		}
		if err := r.readProperty(row, pos, p, v); err != nil {
			return err
		}
		pos++
	}
	return nil
}

func (r *Reader) readProperty(
	row Row, pos int, p *Property, owner reflect.Value) error {
	value, err := r.readColumn(row, pos, p.Type)
	if err != nil {
		return errors.Wrapf(err, "column %s", p.Column)
	}
	return errors.Wrapf(assign(p.Value(owner), value), "column %s", p.Column)
}

// readColumn reads column pos with the accessor matching typ. Columns that
// do not already hold the accessor's type go through the conversion engine
// so that malformed values are reported.
func (r *Reader) readColumn(row Row, pos int, typ reflect.Type) (
	interface{}, error) {
	if row.IsNull(pos) {
		return nil, nil
	}
	storeValue := row.Object(pos)
	if !hasAccessorType(storeValue, typ) {
		return r.mc.engine.FromStoreValue(storeValue, typ)
	}
	switch typ {
	case _stringType:
		storeValue = row.String(pos)
	case _boolType:
		storeValue = row.Bool(pos)
	case _uuidType:
		storeValue = row.UUID(pos)
	case _ipType:
		storeValue = row.Inet(pos)
	case _timeType:
		storeValue = row.Time(pos)
	}
	return r.mc.engine.FromStoreValue(storeValue, typ)
}

// hasAccessorType reports whether a typed Row accessor can read raw as typ
// without parsing.
func hasAccessorType(raw interface{}, typ reflect.Type) bool {
	switch typ {
	case _stringType, _boolType, _uuidType, _ipType, _timeType:
	default:
		return false
	}
	if raw == nil {
		return false
	}
	if _, ok := raw.([]byte); ok && typ == _stringType {
		return true
	}
	return reflect.TypeOf(raw) == typ
}

// assign sets dst to value. A nil value leaves dst untouched.
func assign(dst reflect.Value, value interface{}) error {
	if value == nil {
		return nil
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(dst.Type()) {
		return errors.Errorf("cannot assign %v to %v", v.Type(), dst.Type())
	}
	dst.Set(v)
	return nil
}

// isScalar reports whether typ is read from a single column.
func isScalar(typ reflect.Type) bool {
	if base.IsOptionalType(typ) {
		return true
	}
	t := typ
	for t.Kind() == reflect.Ptr && !convert.IsNativePointer(t) {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return true
	}
	_, ok := convert.StoreType(t)
	return ok
}

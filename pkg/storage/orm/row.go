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
	"net"
	"reflect"
	"time"

	"github.com/uber/cqlmap/pkg/storage/convert"

	"github.com/gocql/gocql"
)

// Row is one result row with positional typed accessors. Accessors on a
// null column, or on a value that does not parse as the accessor's type,
// return the zero value; use IsNull and Object to tell them apart.
type Row interface {
	// Len returns the number of columns.
	Len() int
	// Name returns the name of column i.
	Name(i int) string
	// IsNull reports whether column i is null.
	IsNull(i int) bool
	// Object returns the value of column i as the driver returned it.
	Object(i int) interface{}
	String(i int) string
	UUID(i int) gocql.UUID
	Inet(i int) net.IP
	Time(i int) time.Time
	Bool(i int) bool
}

// sliceRow is a Row over parallel name and value slices.
type sliceRow struct {
	names  []string
	values []interface{}
}

// NewRow returns a Row over names and values, which must have the same
// length. Values may be scan destinations, i.e. pointers to values.
func NewRow(names []string, values []interface{}) Row {
	return &sliceRow{names: names, values: values}
}

func (r *sliceRow) Len() int { return len(r.values) }

func (r *sliceRow) Name(i int) string {
	if i < len(r.names) {
		return r.names[i]
	}
	return ""
}

func (r *sliceRow) IsNull(i int) bool {
	return r.Object(i) == nil
}

// Object dereferences scan destinations so that a null column is nil.
func (r *sliceRow) Object(i int) interface{} {
	if i < 0 || i >= len(r.values) {
		return nil
	}
	v := reflect.ValueOf(r.values[i])
	for v.IsValid() && v.Kind() == reflect.Ptr &&
		!convert.IsNativePointer(v.Type()) {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}

func (r *sliceRow) String(i int) string {
	switch v := r.Object(i).(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (r *sliceRow) UUID(i int) gocql.UUID {
	switch v := r.Object(i).(type) {
	case gocql.UUID:
		return v
	case []byte:
		id, _ := gocql.UUIDFromBytes(v)
		return id
	case string:
		id, _ := gocql.ParseUUID(v)
		return id
	}
	return gocql.UUID{}
}

func (r *sliceRow) Inet(i int) net.IP {
	switch v := r.Object(i).(type) {
	case net.IP:
		return v
	case string:
		return net.ParseIP(v)
	}
	return nil
}

func (r *sliceRow) Time(i int) time.Time {
	v, _ := r.Object(i).(time.Time)
	return v
}

func (r *sliceRow) Bool(i int) bool {
	v, _ := r.Object(i).(bool)
	return v
}

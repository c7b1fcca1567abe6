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
	"reflect"

	"github.com/uber/cqlmap/pkg/storage/objects/base"

	"github.com/pkg/errors"
)

// Target selects what a write produces.
type Target int

const (
	// Insert assigns every column in declaration order.
	Insert Target = iota
	// Update assigns the non-key columns and predicates on the key.
	Update
	// Where produces key predicates only, e.g. for a select or a delete.
	Where
)

func (t Target) String() string {
	switch t {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Where:
		return "where"
	}
	return "unknown"
}

// Statement is the converted, ordered column list of one write. It carries
// no statement text; connectors build their own.
type Statement struct {
	// Table is the table of the written entity.
	Table string
	// Target is the kind of write.
	Target Target
	// Assignments are set for Insert and Update.
	Assignments []base.Column
	// Predicates are equality predicates on the key, set for Update and
	// Where.
	Predicates []base.Column
}

// Writer converts objects into Statements.
type Writer struct {
	mc *MappingContext
}

// NewWriter returns a Writer resolving entities with mc.
func NewWriter(mc *MappingContext) *Writer {
	return &Writer{mc: mc}
}

// Write converts obj for target. obj is an entity, or a composite key
// object when target is Where. Either the whole Statement is returned or
// an error, never a partial result.
func (w *Writer) Write(obj interface{}, target Target) (*Statement, error) {
	if obj == nil {
		return nil, errors.New("cannot write a nil object")
	}
	v := reflect.ValueOf(obj)
	e, err := w.mc.Resolve(v.Type())
	if err != nil {
		return nil, err
	}
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errors.Errorf("cannot write a nil %v", v.Type())
		}
		v = v.Elem()
	}

	stmt := &Statement{Table: e.name, Target: target}
	if e.IsCompositeKeyType() {
		if target != Where {
			return nil, mappingError(e.typ,
				"a composite key can only be written as predicates, not %s",
				target)
		}
		keys, _ := FlattenKey(v, e)
		stmt.Predicates, err = w.convertKeyColumns(e, keys)
		if err != nil {
			return nil, err
		}
		return stmt, nil
	}

	switch target {
	case Insert:
		stmt.Assignments, err = w.insertAssignments(e, v)
	case Update:
		if stmt.Predicates, err = w.predicates(e, v, target); err == nil {
			stmt.Assignments, err = w.updateAssignments(e, v)
		}
	case Where:
		stmt.Predicates, err = w.predicates(e, v, target)
	default:
		err = errors.Errorf("unknown write target %d", int(target))
	}
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// insertAssignments emits every non-nil column in declaration order, with a
// composite key expanded in place.
func (w *Writer) insertAssignments(
	e *Entity, v reflect.Value) ([]base.Column, error) {
	var columns []base.Column
	for _, p := range e.properties {
		if k, ok := e.key.(*CompositeKey); ok && p == k.property {
			keys, ok := FlattenKey(p.Value(v), k.entity)
			if !ok {
				continue
			}
			converted, err := w.convertKeyColumns(k.entity, keys)
			if err != nil {
				return nil, err
			}
			for _, c := range converted {
				if c.Value != nil {
					columns = append(columns, c)
				}
			}
			continue
		}

		field := p.Value(v)
		if p.OmitEmpty && field.IsZero() {
			continue
		}
		value, err := w.convert(p, field.Interface())
		if err != nil {
			return nil, err
		}
		if value == nil {
			continue
		}
		columns = append(columns, base.Column{Name: p.Column, Value: value})
	}
	return columns, nil
}

// updateAssignments emits the non-key columns in declaration order. Nil
// values are kept so that the update clears the column.
func (w *Writer) updateAssignments(
	e *Entity, v reflect.Value) ([]base.Column, error) {
	var columns []base.Column
	for _, p := range e.properties {
		if p.PrimaryKey {
			continue
		}
		value, err := w.convert(p, p.Value(v).Interface())
		if err != nil {
			return nil, err
		}
		columns = append(columns, base.Column{Name: p.Column, Value: value})
	}
	return columns, nil
}

// predicates emits the key of an entity: one column for a simple key, the
// flattened columns in ordinal order for a composite key. Absent key values
// become nil predicates.
func (w *Writer) predicates(
	e *Entity, v reflect.Value, target Target) ([]base.Column, error) {
	switch k := e.key.(type) {
	case *SimpleKey:
		value, err := w.convert(k.property, k.property.Value(v).Interface())
		if err != nil {
			return nil, err
		}
		return []base.Column{{Name: k.property.Column, Value: value}}, nil
	case *CompositeKey:
		keys, ok := FlattenKey(k.property.Value(v), k.entity)
		if !ok {
			keys = make([]base.Column, len(k.entity.keyColumns))
			for i, p := range k.entity.keyColumns {
				keys[i] = base.Column{Name: p.Column}
			}
		}
		return w.convertKeyColumns(k.entity, keys)
	}
	return nil, &MissingPrimaryKeyError{Type: e.typ, Target: target}
}

// convertKeyColumns converts flattened key columns of keyEntity. Nil
// sub-values stay nil.
func (w *Writer) convertKeyColumns(
	keyEntity *Entity, keys []base.Column) ([]base.Column, error) {
	columns := make([]base.Column, len(keys))
	for i, p := range keyEntity.keyColumns {
		value, err := w.convert(p, keys[i].Value)
		if err != nil {
			return nil, err
		}
		columns[i] = base.Column{Name: keys[i].Name, Value: value}
	}
	return columns, nil
}

func (w *Writer) convert(p *Property, value interface{}) (interface{}, error) {
	converted, err := w.mc.engine.ToStoreValue(value, p.StoreType)
	if err != nil {
		return nil, errors.Wrapf(err, "column %s", p.Column)
	}
	return converted, nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return v.IsNil()
	}
	return false
}

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

	"github.com/gocql/gocql"
)

// Property describes one persistent field of an entity. Properties are
// created once by the MappingContext and must not be modified.
type Property struct {
	// Name is the Go field name.
	Name string
	// Column is the column name, either declared or derived from Name.
	Column string
	// Type is the declared type of the field.
	Type reflect.Type
	// StoreType is the declared column type, convert.Unset if none.
	StoreType gocql.Type
	// PrimaryKey is set on the single primary key property of an entity.
	PrimaryKey bool
	// CompositeKeyColumn is set on every property of a composite key type.
	CompositeKeyColumn bool
	// Ordinal is the position of a composite key column.
	Ordinal int
	// KeyType tells partition key columns from clustering columns.
	KeyType KeyType
	// Descending is the clustering order of a clustering column.
	Descending bool
	// OmitEmpty skips zero values when inserting.
	OmitEmpty bool

	hasOrdinal bool
	index      []int
}

// Value returns the field of this property on the struct value v.
func (p Property) Value(v reflect.Value) reflect.Value {
	return v.FieldByIndex(p.index)
}

// PrimaryKey is either a *SimpleKey or a *CompositeKey.
type PrimaryKey interface {
	// Property returns a copy of the primary key property of the entity.
	Property() Property
	isPrimaryKey()
}

// SimpleKey is a primary key stored in a single column.
type SimpleKey struct {
	property *Property
}

// Property returns the key property.
func (k *SimpleKey) Property() Property { return *k.property }

func (*SimpleKey) isPrimaryKey() {}

// CompositeKey is a primary key whose type is a composite key type, so its
// columns are the properties of that type.
type CompositeKey struct {
	property *Property
	entity   *Entity
}

// Property returns the key property of the outer entity.
func (k *CompositeKey) Property() Property { return *k.property }

// Entity returns the metadata of the composite key type.
func (k *CompositeKey) Entity() *Entity { return k.entity }

func (*CompositeKey) isPrimaryKey() {}

// Entity describes a mapped type: its table and its persistent properties
// in declaration order. Entities are immutable once published by the
// MappingContext.
type Entity struct {
	name       string
	typ        reflect.Type
	properties []*Property
	key        PrimaryKey
	// set when typ is itself a composite key type
	keyColumns []*Property

	columns    []string
	definition *base.Definition
}

// Name returns the table name.
func (e *Entity) Name() string { return e.name }

// Type returns the mapped struct type.
func (e *Entity) Type() reflect.Type { return e.typ }

// Properties returns copies of the persistent properties in declaration
// order.
func (e *Entity) Properties() []Property {
	return copyProperties(e.properties)
}

// Property returns a copy of the property with the given field name.
func (e *Entity) Property(name string) (Property, bool) {
	for _, p := range e.properties {
		if p.Name == name {
			return *p, true
		}
	}
	return Property{}, false
}

// Key returns the primary key, nil when the entity has none.
func (e *Entity) Key() PrimaryKey { return e.key }

// HasSimpleKey reports whether the primary key is a single column.
func (e *Entity) HasSimpleKey() bool {
	_, ok := e.key.(*SimpleKey)
	return ok
}

// HasCompositeKey reports whether the primary key is a composite key type.
func (e *Entity) HasCompositeKey() bool {
	_, ok := e.key.(*CompositeKey)
	return ok
}

// IsCompositeKeyType reports whether the entity is itself a composite key
// type, i.e. embeds base.CompositeKey.
func (e *Entity) IsCompositeKeyType() bool {
	return e.keyColumns != nil
}

// KeyColumns returns the columns of a composite key type in ascending
// ordinal order.
func (e *Entity) KeyColumns() []Property {
	return copyProperties(e.keyColumns)
}

func copyProperties(props []*Property) []Property {
	if props == nil {
		return nil
	}
	out := make([]Property, len(props))
	for i, p := range props {
		out[i] = *p
	}
	return out
}

// Columns returns every column name in declared order, with the columns
// of a composite primary key expanded in place in ordinal order. For a
// composite key type the columns are in ordinal order. Row reads bind
// positions in this order.
func (e *Entity) Columns() []string {
	return append([]string(nil), e.columns...)
}

// Definition returns the table description consumed by connectors.
func (e *Entity) Definition() *base.Definition {
	return e.definition
}

// buildDefinition derives the connector facing description. Called once
// before the entity is published.
func (e *Entity) buildDefinition() {
	def := &base.Definition{
		Name:         e.name,
		ColumnToType: make(map[string]reflect.Type),
		Key:          &base.PrimaryKey{},
	}
	props := e.properties
	if e.keyColumns != nil {
		props = e.keyColumns
	}
	for _, p := range props {
		if k, ok := e.key.(*CompositeKey); ok && p == k.property {
			for _, kp := range k.entity.keyColumns {
				def.Columns = append(def.Columns, kp.Column)
				def.ColumnToType[kp.Column] = kp.Type
				if kp.KeyType == Clustered {
					def.Key.ClusteringKeys = append(def.Key.ClusteringKeys,
						&base.ClusteringKey{
							Name:       kp.Column,
							Descending: kp.Descending,
						})
				} else {
					def.Key.PartitionKeys = append(def.Key.PartitionKeys,
						kp.Column)
				}
			}
			continue
		}
		def.Columns = append(def.Columns, p.Column)
		def.ColumnToType[p.Column] = p.Type
		if p.PrimaryKey {
			def.Key.PartitionKeys = append(def.Key.PartitionKeys, p.Column)
		}
	}
	for _, kp := range e.keyColumns {
		if kp.KeyType == Clustered {
			def.Key.ClusteringKeys = append(def.Key.ClusteringKeys,
				&base.ClusteringKey{Name: kp.Column, Descending: kp.Descending})
		} else {
			def.Key.PartitionKeys = append(def.Key.PartitionKeys, kp.Column)
		}
	}
	if e.key == nil && e.keyColumns == nil {
		def.Key = nil
	}
	e.definition = def
	e.columns = def.Columns
}

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

// Definition stores schema information about an Object. It is the table
// shape handed to a storage connector.
type Definition struct {
	// normalized object name
	Name string
	// Primary key of the object
	Key *PrimaryKey
	// Column name to data type mapping of the object
	ColumnToType map[string]reflect.Type
	// Column names in declared order, composite key columns expanded in
	// place.
	Columns []string
}

// Column holds a column name and value for one row. A write produces an
// ordered list of columns, one per assignment or predicate.
type Column struct {
	// Name of the column
	Name string
	// Value of the column
	Value interface{}
}

// ClusteringKey stores name and ordering of a clustering key
type ClusteringKey struct {
	// Name of the clustering key
	Name string
	// Clustering order
	Descending bool
}

// PrimaryKey stores information about partition keys and clustering keys
type PrimaryKey struct {
	// List of partition key names
	PartitionKeys []string
	// List of clustering key objects (clustering key name and order)
	ClusteringKeys []*ClusteringKey
}

// GetColumnsToRead returns a list of column names to be read for this object
// in a select operation. The order is the declared column order so that a
// positional row read binds each value to the right property.
func (o *Definition) GetColumnsToRead() []string {
	colNamesToRead := make([]string, len(o.Columns))
	copy(colNamesToRead, o.Columns)
	return colNamesToRead
}

// KeyColumns returns the partition keys followed by the clustering keys.
func (o *Definition) KeyColumns() []string {
	if o.Key == nil {
		return nil
	}
	cols := append([]string{}, o.Key.PartitionKeys...)
	for _, ck := range o.Key.ClusteringKeys {
		cols = append(cols, ck.Name)
	}
	return cols
}

// Names returns the column names of a row, in order.
func Names(row []Column) []string {
	names := make([]string, len(row))
	for i, c := range row {
		names[i] = c.Name
	}
	return names
}

// Values returns the column values of a row, in order.
func Values(row []Column) []interface{} {
	values := make([]interface{}, len(row))
	for i, c := range row {
		values[i] = c.Value
	}
	return values
}

// Object is a marker interface that is used to add connector specific
// annotations to storage objects. Users embed this interface in any
// storage object structure definition.
//
// For example:
//
//	type Reading struct {
//		base.Object `cassandra:"name=readings"`
//		Key         *ReadingKey `column:"primaryKey"`
//		Condition   Condition   `column:"name=condition"`
//		Value       float64     `column:"name=value, type=double"`
//	}
//
// Here, base.Object is embedded in Reading just to carry the table name of
// that object. The `cassandra` keyword denotes that this annotation is for
// the Cassandra connector.
type Object interface {
	object()
}

// CompositeKey is a marker interface for primary key classes. Every field
// of a struct embedding CompositeKey is a key column and declares its
// position with the `ordinal` option:
//
//	type ReadingKey struct {
//		base.CompositeKey
//		Sensor string    `column:"name=sensor, ordinal=0"`
//		At     time.Time `column:"name=at, ordinal=1, keyType=clustered, ordering=desc"`
//	}
type CompositeKey interface {
	compositeKey()
}

var (
	// ObjectType is the reflected type of the Object marker.
	ObjectType = reflect.TypeOf((*Object)(nil)).Elem()
	// CompositeKeyType is the reflected type of the CompositeKey marker.
	CompositeKeyType = reflect.TypeOf((*CompositeKey)(nil)).Elem()
)

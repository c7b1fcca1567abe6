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

package orm_test

import (
	"math/big"
	"net"
	"time"

	"github.com/uber/cqlmap/pkg/storage/convert"
	"github.com/uber/cqlmap/pkg/storage/objects/base"
	"github.com/uber/cqlmap/pkg/storage/orm"

	"github.com/gocql/gocql"
	"github.com/uber-go/tally"
)

type condition int

const (
	conditionMint condition = iota
	conditionUsed
)

func (c condition) String() string {
	switch c {
	case conditionMint:
		return "MINT"
	case conditionUsed:
		return "USED"
	}
	return "UNKNOWN"
}

var conditionEnum = convert.MustEnum(conditionMint, conditionUsed)

// WithEnumColumns has a nullable id and an enum column
type WithEnumColumns struct {
	base.Object `cassandra:"name=with_enum_columns"`
	ID          *string   `column:"name=id, primaryKey"`
	Condition   condition `column:"name=condition"`
}

// EnumPrimaryKey is keyed by the enum itself
type EnumPrimaryKey struct {
	base.Object `cassandra:"name=enum_primary_key"`
	Condition   condition `column:"name=condition, primaryKey"`
}

// EnumCompositePrimaryKey is a composite key with a single enum column
type EnumCompositePrimaryKey struct {
	base.CompositeKey
	Condition condition `column:"name=condition, ordinal=1"`
}

// CompositeKeyThing is keyed by EnumCompositePrimaryKey
type CompositeKeyThing struct {
	base.Object `cassandra:"name=composite_key_thing"`
	Key         *EnumCompositePrimaryKey `column:"primaryKey"`
}

// UnsupportedEnumToOrdinalMapping asks for an enum stored as a CQL int
type UnsupportedEnumToOrdinalMapping struct {
	base.Object `cassandra:"name=unsupported_enum_to_ordinal_mapping"`
	ID          *string   `column:"name=id, primaryKey"`
	Condition   condition `column:"name=condition, type=int"`
}

// ReadingKey declares its columns out of ordinal order
type ReadingKey struct {
	base.CompositeKey
	At     time.Time  `column:"name=at, ordinal=2, keyType=clustered, ordering=desc"`
	Region string     `column:"name=region, ordinal=0"`
	Sensor gocql.UUID `column:"name=sensor, ordinal=1"`
}

// Reading has a composite key in the middle of its columns
type Reading struct {
	base.Object `cassandra:"name=readings"`
	Unit        string      `column:"name=unit"`
	Key         *ReadingKey `column:"primaryKey"`
	Value       float64     `column:"name=value, type=double"`
	Condition   condition   `column:"name=condition"`
	Source      net.IP      `column:"name=source"`
	Note        *string     `column:"name=note, omitempty"`
	Count       int32       `column:"omitempty"`
	Total       *big.Int
	internal    string
	Skipped     string `column:"-"`
}

// ValidObject is a representation of the orm annotations
type ValidObject struct {
	base.Object `cassandra:"name=valid_object"`
	ID          uint64 `column:"name=id, primaryKey"`
	Name        string `column:"name=name"`
	Data        string `column:"name=data"`
}

// ValidObjectWithOptString is a representation of the orm annotations
// with a primary key of type optional string
type ValidObjectWithOptString struct {
	base.Object `cassandra:"name=valid_object_opt_string"`
	Name        *base.OptionalString `column:"name=name, primaryKey"`
	Data        string               `column:"name=data"`
}

// NoKeyObject has no primary key
type NoKeyObject struct {
	base.Object
	HostName string
	JobID    string
}

// InvalidObject1 has two primary keys
type InvalidObject1 struct {
	base.Object `cassandra:"name=valid_object"`
	ID          uint64 `column:"name=id, primaryKey"`
	Name        string `column:"name=name, primaryKey"`
}

// InvalidObject2 has an unknown tag option
type InvalidObject2 struct {
	base.Object `cassandra:"name=valid_object, primaryKey=((id), name)"`
	ID          uint64 `column:"name=id"`
}

// InvalidObject3 has a duplicate column
type InvalidObject3 struct {
	base.Object `cassandra:"name=valid_object"`
	ID          uint64 `column:"name=id, primaryKey"`
	Name        string `column:"name=id"`
}

type keyWithoutOrdinal struct {
	base.CompositeKey
	A string `column:"ordinal=0"`
	B string
}

// InvalidObject4 has a composite key column without an ordinal
type InvalidObject4 struct {
	base.Object
	Key keyWithoutOrdinal `column:"primaryKey"`
}

type keyWithDuplicateOrdinal struct {
	base.CompositeKey
	A string `column:"ordinal=1"`
	B string `column:"ordinal=1"`
}

// InvalidObject5 has two composite key columns with the same ordinal
type InvalidObject5 struct {
	base.Object
	Key *keyWithDuplicateOrdinal `column:"primaryKey"`
}

type nestedKey struct {
	base.CompositeKey
	Inner *EnumCompositePrimaryKey `column:"ordinal=0"`
}

// InvalidObject6 nests a composite key in a composite key
type InvalidObject6 struct {
	base.Object
	Key *nestedKey `column:"primaryKey"`
}

// InvalidObject7 uses an ordinal outside of a composite key
type InvalidObject7 struct {
	base.Object
	ID string `column:"primaryKey, ordinal=0"`
}

// InvalidObject8 has an unknown store type
type InvalidObject8 struct {
	base.Object
	ID string `column:"primaryKey, type=varchar2"`
}

// InvalidObject9 uses a composite key type for a regular column
type InvalidObject9 struct {
	base.Object
	ID  string                   `column:"primaryKey"`
	Key *EnumCompositePrimaryKey `column:"name=other"`
}

// newMappingContext returns a MappingContext with the condition enum
// registered and the given extra converters.
func newMappingContext(
	scope tally.Scope, converters ...convert.Converter) *orm.MappingContext {
	registry := convert.NewRegistry()
	if err := registry.RegisterEnum(conditionEnum); err != nil {
		panic(err)
	}
	if err := registry.Register(converters...); err != nil {
		panic(err)
	}
	return orm.NewMappingContext(convert.NewEngine(registry), scope)
}

func stringPtr(s string) *string {
	return &s
}

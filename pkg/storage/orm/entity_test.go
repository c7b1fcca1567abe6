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
	"reflect"
	"sync"
	"testing"

	"github.com/uber/cqlmap/pkg/storage/objects/base"
	"github.com/uber/cqlmap/pkg/storage/orm"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally"
)

type EntityTestSuite struct {
	suite.Suite

	scope tally.TestScope
	mc    *orm.MappingContext
}

func (suite *EntityTestSuite) SetupTest() {
	suite.scope = tally.NewTestScope("", nil)
	suite.mc = newMappingContext(suite.scope)
}

func TestEntityTestSuite(t *testing.T) {
	suite.Run(t, new(EntityTestSuite))
}

// TestResolveValidObjects tests that only entities annotated in a certain
// format are successfully resolved
func (suite *EntityTestSuite) TestResolveValidObjects() {
	for _, o := range []interface{}{
		&ValidObject{},
		ValidObject{},
		&ValidObjectWithOptString{},
		&NoKeyObject{},
		&Reading{},
		&CompositeKeyThing{},
		&EnumCompositePrimaryKey{},
		&UnsupportedEnumToOrdinalMapping{},
	} {
		_, err := suite.mc.ResolveObject(o)
		suite.NoError(err, "%T", o)
	}
}

func (suite *EntityTestSuite) TestResolveInvalidObjects() {
	for _, o := range []interface{}{
		&InvalidObject1{},
		&InvalidObject2{},
		&InvalidObject3{},
		&InvalidObject4{},
		&InvalidObject5{},
		&InvalidObject6{},
		&InvalidObject7{},
		&InvalidObject8{},
		&InvalidObject9{},
		"not a struct",
		nil,
	} {
		_, err := suite.mc.ResolveObject(o)
		var mappingErr *orm.MappingConfigurationError
		suite.ErrorAs(err, &mappingErr, "%T", o)
	}
}

func (suite *EntityTestSuite) TestMultiplePrimaryKeys() {
	_, err := suite.mc.ResolveObject(&InvalidObject1{})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "more than one primary key")
}

func (suite *EntityTestSuite) TestSimpleKey() {
	e, err := suite.mc.ResolveObject(&ValidObject{})
	suite.Require().NoError(err)

	suite.Equal("valid_object", e.Name())
	suite.Equal(reflect.TypeOf(ValidObject{}), e.Type())
	suite.True(e.HasSimpleKey())
	suite.False(e.HasCompositeKey())
	suite.False(e.IsCompositeKeyType())
	suite.Equal("id", e.Key().Property().Column)
	suite.Equal([]string{"id", "name", "data"}, e.Columns())

	def := e.Definition()
	suite.Equal("valid_object", def.Name)
	suite.Equal([]string{"id"}, def.Key.PartitionKeys)
	suite.Empty(def.Key.ClusteringKeys)
	suite.Equal(reflect.TypeOf(uint64(0)), def.ColumnToType["id"])
}

func (suite *EntityTestSuite) TestNoKey() {
	e, err := suite.mc.ResolveObject(&NoKeyObject{})
	suite.Require().NoError(err)

	suite.Equal("no_key_object", e.Name())
	suite.Nil(e.Key())
	suite.False(e.HasSimpleKey())
	suite.False(e.HasCompositeKey())
	suite.Equal([]string{"host_name", "job_id"}, e.Columns())
	suite.Nil(e.Definition().Key)
}

func (suite *EntityTestSuite) TestCompositeKey() {
	e, err := suite.mc.ResolveObject(&Reading{})
	suite.Require().NoError(err)

	suite.Equal("readings", e.Name())
	suite.True(e.HasCompositeKey())
	suite.False(e.HasSimpleKey())

	// key columns expand in place, in ordinal order
	suite.Equal([]string{
		"unit", "region", "sensor", "at", "value", "condition", "source",
		"note", "count", "total",
	}, e.Columns())

	key, ok := e.Key().(*orm.CompositeKey)
	suite.Require().True(ok)
	suite.Equal("Key", key.Property().Name)
	suite.True(key.Entity().IsCompositeKeyType())

	var names []string
	for _, p := range key.Entity().KeyColumns() {
		suite.True(p.CompositeKeyColumn)
		names = append(names, p.Name)
	}
	suite.Equal([]string{"Region", "Sensor", "At"}, names)

	def := e.Definition()
	suite.Equal([]string{"region", "sensor"}, def.Key.PartitionKeys)
	suite.Equal([]*base.ClusteringKey{{Name: "at", Descending: true}},
		def.Key.ClusteringKeys)
	suite.Equal([]string{"region", "sensor", "at"}, def.KeyColumns())
	suite.Equal(def.Columns, def.GetColumnsToRead())
}

func (suite *EntityTestSuite) TestProperties() {
	e, err := suite.mc.ResolveObject(&Reading{})
	suite.Require().NoError(err)

	var names []string
	for _, p := range e.Properties() {
		names = append(names, p.Name)
	}
	suite.Equal([]string{
		"Unit", "Key", "Value", "Condition", "Source", "Note", "Count",
		"Total",
	}, names)

	value, ok := e.Property("Value")
	suite.Require().True(ok)
	suite.Equal(gocql.TypeDouble, value.StoreType)

	note, ok := e.Property("Note")
	suite.Require().True(ok)
	suite.True(note.OmitEmpty)

	_, ok = e.Property("internal")
	suite.False(ok)
	_, ok = e.Property("Skipped")
	suite.False(ok)

	// accessors hand out copies of the cached properties
	props := e.Properties()
	props[0].Column = "changed"
	props[2].StoreType = gocql.TypeText
	value.OmitEmpty = true
	suite.Equal("unit", e.Properties()[0].Column)
	suite.Equal(gocql.TypeDouble, e.Properties()[2].StoreType)
	value, _ = e.Property("Value")
	suite.False(value.OmitEmpty)
}

func (suite *EntityTestSuite) TestKeyPropertiesAreCopies() {
	e, err := suite.mc.ResolveObject(&Reading{})
	suite.Require().NoError(err)
	key := e.Key().(*orm.CompositeKey)

	cols := key.Entity().KeyColumns()
	cols[0].Ordinal = 7
	cols[0].Column = "changed"
	p := key.Property()
	p.Column = "changed"

	suite.Equal(0, key.Entity().KeyColumns()[0].Ordinal)
	suite.Equal("region", key.Entity().KeyColumns()[0].Column)
	suite.Equal("Key", key.Property().Name)
	suite.Equal([]string{
		"unit", "region", "sensor", "at", "value", "condition", "source",
		"note", "count", "total",
	}, e.Columns())

	// reads and writes go through the cached metadata
	w := orm.NewWriter(suite.mc)
	stmt, err := w.Write(&Reading{Key: &ReadingKey{Region: "dca"}}, orm.Where)
	suite.Require().NoError(err)
	suite.Equal([]string{"region", "sensor", "at"}, base.Names(stmt.Predicates))
}

// TestDeclaredStoreTypeNotChecked tests that a store type the value cannot
// be converted to is accepted until a value is converted
func (suite *EntityTestSuite) TestDeclaredStoreTypeNotChecked() {
	e, err := suite.mc.ResolveObject(&UnsupportedEnumToOrdinalMapping{})
	suite.Require().NoError(err)
	p, ok := e.Property("Condition")
	suite.Require().True(ok)
	suite.Equal(gocql.TypeInt, p.StoreType)
}

func (suite *EntityTestSuite) TestResolveIsCached() {
	e1, err := suite.mc.Resolve(reflect.TypeOf(&ValidObject{}))
	suite.Require().NoError(err)
	e2, err := suite.mc.Resolve(reflect.TypeOf(ValidObject{}))
	suite.Require().NoError(err)
	suite.True(e1 == e2)

	counters := suite.scope.Snapshot().Counters()
	suite.Equal(int64(1), counters["mapping.entity_resolve+"].Value())
	suite.Equal(int64(1), counters["mapping.entity_cache_hit+"].Value())
}

func (suite *EntityTestSuite) TestConcurrentResolve() {
	const workers = 16
	entities := make([]*orm.Entity, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := suite.mc.ResolveObject(&Reading{})
			suite.NoError(err)
			entities[i] = e
		}(i)
	}
	wg.Wait()

	for _, e := range entities {
		suite.True(entities[0] == e)
	}
	// Reading and ReadingKey are each published once
	counters := suite.scope.Snapshot().Counters()
	suite.Equal(int64(2), counters["mapping.entity_resolve+"].Value())
}

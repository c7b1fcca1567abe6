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

package objects

import (
	"reflect"
	"testing"

	"github.com/uber/cqlmap/pkg/storage/convert"
	"github.com/uber/cqlmap/pkg/storage/objects/base"
	"github.com/uber/cqlmap/pkg/storage/orm"

	"github.com/pborman/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally"
)

type StoreTestSuite struct {
	suite.Suite
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

// TestObjectsResolve checks that every registered object has a valid mapping
func (s *StoreTestSuite) TestObjectsResolve() {
	mc, err := NewMappingContext(nil, tally.NoopScope)
	s.NoError(err)
	for _, o := range Objs {
		_, err := mc.ResolveObject(o)
		s.NoError(err)
	}

	entity, err := mc.ResolveObject(&SensorReadingObject{})
	s.NoError(err)
	def := entity.Definition()
	s.Equal("sensor_readings", def.Name)
	s.Equal([]string{"run_id"}, def.Key.PartitionKeys)
	s.Equal("sensor_id", def.Key.ClusteringKeys[0].Name)
	s.Equal(
		[]string{"run_id", "sensor_id", "state", "host", "value", "updated_at"},
		def.Columns)
}

func (s *StoreTestSuite) TestMappingContextByName() {
	mc, err := NewMappingContext(nil, tally.NoopScope)
	s.NoError(err)
	v, err := mc.Engine().ToStoreValue(SensorStateRunning, convert.Unset)
	s.NoError(err)
	s.Equal("RUNNING", v)

	sensor := uuid.NewRandom()
	stmt, err := orm.NewWriter(mc).Write(&SensorReadingObject{
		Key:   &ReadingKey{Run: "run-1", Sensor: sensor},
		State: SensorStateDegraded,
		Host:  "host-1",
	}, orm.Update)
	s.NoError(err)
	s.Equal([]string{"run_id", "sensor_id"}, base.Names(stmt.Predicates))
	s.Equal(
		[]string{"state", "host", "value", "updated_at"},
		base.Names(stmt.Assignments))
	s.Equal("DEGRADED", stmt.Assignments[0].Value)
}

func (s *StoreTestSuite) TestMappingContextByOrdinal() {
	mc, err := NewMappingContext([]string{"SensorState"}, tally.NoopScope)
	s.NoError(err)
	v, err := mc.Engine().ToStoreValue(SensorStateStopped, convert.Unset)
	s.NoError(err)
	s.Equal(3, v)

	state, err := mc.Engine().FromStoreValue(
		2, reflect.TypeOf(SensorStateInitialized))
	s.NoError(err)
	s.Equal(SensorStateDegraded, state)
}

func (s *StoreTestSuite) TestMappingContextUnknownEnum() {
	_, err := NewMappingContext([]string{"Color"}, tally.NoopScope)
	s.Error(err)
	s.Contains(err.Error(), "Color")
}

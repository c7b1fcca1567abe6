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
	"context"
	"testing"
	"time"

	"github.com/uber/cqlmap/pkg/storage/objects/base"
	ormmocks "github.com/uber/cqlmap/pkg/storage/orm/mocks"

	"github.com/golang/mock/gomock"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally"
)

type ReadingsTestSuite struct {
	suite.Suite

	ctrl       *gomock.Controller
	mockClient *ormmocks.MockClient
	scope      tally.TestScope
	ops        ReadingOps
	key        *ReadingKey
}

func TestReadingsSuite(t *testing.T) {
	suite.Run(t, new(ReadingsTestSuite))
}

func (s *ReadingsTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = ormmocks.NewMockClient(s.ctrl)
	s.scope = tally.NewTestScope("", nil)
	s.ops = NewReadingOps(NewStore(s.mockClient, s.scope))
	s.key = &ReadingKey{Run: uuid.New(), Sensor: uuid.NewRandom()}
}

func (s *ReadingsTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ReadingsTestSuite) counter(result, name string) int64 {
	c, ok := s.scope.Snapshot().Counters()["orm.sensor_readings."+name+
		"+result="+result]
	if !ok {
		return 0
	}
	return c.Value()
}

// TestCreateGetUpdateDelete walks a reading through the ORM client
func (s *ReadingsTestSuite) TestCreateGetUpdateDelete() {
	ctx := context.Background()
	reading := &SensorReadingObject{
		Key:       s.key,
		State:     SensorStateInitialized,
		Host:      "host-1",
		UpdatedAt: time.Now().UTC(),
	}

	s.mockClient.EXPECT().CreateIfNotExists(ctx, reading).Return(nil)
	s.NoError(s.ops.CreateIfNotExists(ctx, reading))

	s.mockClient.EXPECT().Get(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, o base.Object) error {
			obj := o.(*SensorReadingObject)
			s.Equal(s.key, obj.Key)
			obj.State = SensorStateRunning
			obj.Host = "host-1"
			return nil
		})
	got, err := s.ops.Get(ctx, s.key)
	s.NoError(err)
	s.Equal(SensorStateRunning, got.State)
	s.Equal("host-1", got.Host)

	got.State = SensorStateStopped
	s.mockClient.EXPECT().Update(ctx, got).Return(nil)
	s.NoError(s.ops.Update(ctx, got))

	s.mockClient.EXPECT().Delete(ctx, &SensorReadingObject{Key: s.key}).
		Return(nil)
	s.NoError(s.ops.Delete(ctx, s.key))

	s.Equal(int64(1), s.counter("success", "create"))
	s.Equal(int64(1), s.counter("success", "get"))
	s.Equal(int64(1), s.counter("success", "update"))
	s.Equal(int64(1), s.counter("success", "delete"))
}

func (s *ReadingsTestSuite) TestGetAll() {
	ctx := context.Background()
	valid := &SensorReadingObject{Key: s.key, State: SensorStateDegraded}

	s.mockClient.EXPECT().
		GetAll(ctx, &SensorReadingObject{Key: &ReadingKey{Run: s.key.Run}}).
		Return([]base.Object{valid, &SensorReadingObject{}}, nil)

	readings, err := s.ops.GetAll(ctx, s.key.Run)
	s.NoError(err)
	s.Equal([]*SensorReadingObject{valid}, readings)
	s.Equal(int64(1), s.counter("success", "get_all"))

	timers := s.scope.Snapshot().Timers()
	timer, ok := timers["orm.sensor_readings.get_all_duration+result=success"]
	s.True(ok)
	s.Len(timer.Values(), 1)
}

// TestReadingOpsClientFail tests failure cases due to ORM Client errors.
func (s *ReadingsTestSuite) TestReadingOpsClientFail() {
	ctx := context.Background()
	reading := &SensorReadingObject{Key: s.key}

	s.mockClient.EXPECT().CreateIfNotExists(gomock.Any(), gomock.Any()).
		Return(errors.New("create failed"))
	s.mockClient.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(errors.New("get failed"))
	s.mockClient.EXPECT().GetAll(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("getAll failed"))
	s.mockClient.EXPECT().Update(gomock.Any(), gomock.Any()).
		Return(errors.New("update failed"))
	s.mockClient.EXPECT().Delete(gomock.Any(), gomock.Any()).
		Return(errors.New("delete failed"))

	s.EqualError(s.ops.CreateIfNotExists(ctx, reading), "create failed")

	_, err := s.ops.Get(ctx, s.key)
	s.EqualError(err, "get failed")

	_, err = s.ops.GetAll(ctx, s.key.Run)
	s.EqualError(err, "getAll failed")

	s.EqualError(s.ops.Update(ctx, reading), "update failed")
	s.EqualError(s.ops.Delete(ctx, s.key), "delete failed")

	for _, name := range []string{"create", "get", "get_all", "update", "delete"} {
		s.Equal(int64(1), s.counter("fail", name), name)
	}
}

func (s *ReadingsTestSuite) TestUpdateWithoutKey() {
	err := s.ops.Update(context.Background(), &SensorReadingObject{})
	s.Error(err)
}

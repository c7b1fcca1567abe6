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
	"time"

	"github.com/uber/cqlmap/pkg/storage/convert"
	"github.com/uber/cqlmap/pkg/storage/objects/base"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SensorState is the lifecycle state of a sensor.
type SensorState int

// Sensor states in declaration order.
const (
	SensorStateInitialized SensorState = iota
	SensorStateRunning
	SensorStateDegraded
	SensorStateStopped
)

func (s SensorState) String() string {
	switch s {
	case SensorStateInitialized:
		return "INITIALIZED"
	case SensorStateRunning:
		return "RUNNING"
	case SensorStateDegraded:
		return "DEGRADED"
	case SensorStateStopped:
		return "STOPPED"
	}
	return "UNKNOWN"
}

// SensorStates is the enumeration of SensorState.
var SensorStates = convert.MustEnum(
	SensorStateInitialized,
	SensorStateRunning,
	SensorStateDegraded,
	SensorStateStopped,
)

// ReadingKey is the primary key of the sensor_readings table: the run
// partitions, the sensor clusters.
type ReadingKey struct {
	base.CompositeKey
	Run    string    `column:"name=run_id, ordinal=0"`
	Sensor uuid.UUID `column:"name=sensor_id, ordinal=1, keyType=clustered"`
}

// SensorReadingObject corresponds to a row in sensor_readings table.
type SensorReadingObject struct {
	// base.Object DB specific annotations.
	base.Object `cassandra:"name=sensor_readings"`
	// Key of the reading.
	Key *ReadingKey `column:"primaryKey"`
	// State of the sensor.
	State SensorState `column:"name=state"`
	// Host the sensor runs on.
	Host string `column:"name=host"`
	// Value last reported.
	Value float64 `column:"name=value"`
	// Time of the last change.
	UpdatedAt time.Time `column:"name=updated_at"`
}

// ReadingOps provides methods for manipulating sensor_readings table.
type ReadingOps interface {
	// CreateIfNotExists inserts a reading unless its key is taken.
	CreateIfNotExists(ctx context.Context, obj *SensorReadingObject) error

	// Get fetches the reading of a key.
	Get(ctx context.Context, key *ReadingKey) (*SensorReadingObject, error)

	// GetAll fetches all readings of a run.
	GetAll(ctx context.Context, runID string) ([]*SensorReadingObject, error)

	// Update overwrites the non-key columns of a reading.
	Update(ctx context.Context, obj *SensorReadingObject) error

	// Delete removes the reading of a key.
	Delete(ctx context.Context, key *ReadingKey) error
}

// readingOps implements ReadingOps using a particular Store.
type readingOps struct {
	store *Store
}

// init adds a SensorReadingObject instance to the global list of storage
// objects.
func init() {
	Objs = append(Objs, &SensorReadingObject{})
	Enums = append(Enums, SensorStates)
}

// Default readingOps implementation.
var _ ReadingOps = (*readingOps)(nil)

// NewReadingOps constructs a ReadingOps object for provided Store.
func NewReadingOps(s *Store) ReadingOps {
	return &readingOps{store: s}
}

func (r *readingOps) CreateIfNotExists(
	ctx context.Context,
	obj *SensorReadingObject,
) error {
	if err := r.store.oClient.CreateIfNotExists(ctx, obj); err != nil {
		r.store.metrics.OrmReadingMetrics.ReadingCreateFail.Inc(1)
		return err
	}
	r.store.metrics.OrmReadingMetrics.ReadingCreate.Inc(1)
	return nil
}

func (r *readingOps) Get(
	ctx context.Context,
	key *ReadingKey,
) (*SensorReadingObject, error) {
	obj := &SensorReadingObject{Key: key}
	if err := r.store.oClient.Get(ctx, obj); err != nil {
		r.store.metrics.OrmReadingMetrics.ReadingGetFail.Inc(1)
		return nil, err
	}
	r.store.metrics.OrmReadingMetrics.ReadingGet.Inc(1)
	return obj, nil
}

func (r *readingOps) GetAll(
	ctx context.Context,
	runID string,
) ([]*SensorReadingObject, error) {
	callStart := time.Now()
	defer func() {
		r.store.metrics.OrmReadingMetrics.ReadingGetAllDuration.Record(
			time.Since(callStart))
	}()

	objs, err := r.store.oClient.GetAll(
		ctx, &SensorReadingObject{Key: &ReadingKey{Run: runID}})
	if err != nil {
		r.store.metrics.OrmReadingMetrics.ReadingGetAllFail.Inc(1)
		return nil, err
	}

	readings := make([]*SensorReadingObject, 0, len(objs))
	for _, o := range objs {
		reading, ok := o.(*SensorReadingObject)
		if !ok || reading.Key == nil {
			// skip corrupt rows
			log.WithFields(log.Fields{
				"run_id": runID,
				"object": o,
			}).Error("Invalid reading in sensor_readings table")
			continue
		}
		readings = append(readings, reading)
	}
	r.store.metrics.OrmReadingMetrics.ReadingGetAll.Inc(1)
	return readings, nil
}

func (r *readingOps) Update(
	ctx context.Context,
	obj *SensorReadingObject,
) error {
	if obj.Key == nil {
		return errors.New("reading key is not set")
	}
	if err := r.store.oClient.Update(ctx, obj); err != nil {
		r.store.metrics.OrmReadingMetrics.ReadingUpdateFail.Inc(1)
		return err
	}
	r.store.metrics.OrmReadingMetrics.ReadingUpdate.Inc(1)
	return nil
}

func (r *readingOps) Delete(ctx context.Context, key *ReadingKey) error {
	if err := r.store.oClient.Delete(
		ctx, &SensorReadingObject{Key: key}); err != nil {
		r.store.metrics.OrmReadingMetrics.ReadingDeleteFail.Inc(1)
		return err
	}
	r.store.metrics.OrmReadingMetrics.ReadingDelete.Inc(1)
	return nil
}

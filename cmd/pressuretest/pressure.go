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

package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/uber/cqlmap/pkg/storage/connectors/cassandra"
	"github.com/uber/cqlmap/pkg/storage/objects"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
)

const _readingsTable = "sensor_readings"

// ordinalState reports whether the sensor state is stored by ordinal.
func ordinalState(ordinalEnums []string) bool {
	for _, name := range ordinalEnums {
		if name == "SensorState" {
			return true
		}
	}
	return false
}

// schemaStatements returns the CQL creating the keyspace and readings table.
func schemaStatements(keyspace string, ordinal bool) []string {
	stateType := "text"
	if ordinal {
		stateType = "int"
	}
	return []string{
		fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH replication = "+
			"{'class': 'SimpleStrategy', 'replication_factor': 1}", keyspace),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (run_id text,"+
			" sensor_id uuid, state %s, host text, value double,"+
			" updated_at timestamp, PRIMARY KEY ((run_id), sensor_id))",
			keyspace, _readingsTable, stateType),
	}
}

func ensureSchema(conf *cassandra.Config, ordinal bool) error {
	session, err := cassandra.CreateStoreSession(conf.CassandraConn, "")
	if err != nil {
		return err
	}
	defer session.Close()

	for _, stmt := range schemaStatements(conf.StoreName, ordinal) {
		if err := session.Query(stmt).Exec(); err != nil {
			return errors.Wrapf(err, "exec %q", stmt)
		}
	}
	return nil
}

// tester creates, reads and updates readings of a single run.
type tester struct {
	ops      objects.ReadingOps
	scope    tally.Scope
	validate bool
	runID    string
}

func newTester(
	ops objects.ReadingOps, scope tally.Scope, validate bool) *tester {
	return &tester{
		ops:      ops,
		scope:    scope,
		validate: validate,
		runID:    uuid.New(),
	}
}

// run starts the workers, each creating batchSize readings and walking
// them through all sensor states.
func (t *tester) run(workers, batchSize int) []error {
	wg := &sync.WaitGroup{}
	lock := &sync.Mutex{}
	var errs []error

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			log.Infof("worker %d started", index)
			for j := 0; j < batchSize; j++ {
				err := t.exercise(index*batchSize + j)
				if err != nil {
					lock.Lock()
					errs = append(errs, err)
					lock.Unlock()
				}
			}
		}(i)
	}
	wg.Wait()
	log.WithFields(log.Fields{
		"run_id": t.runID,
		"errors": len(errs),
	}).Info("completed test")
	return errs
}

func (t *tester) exercise(instance int) error {
	key := &objects.ReadingKey{Run: t.runID, Sensor: uuid.NewRandom()}
	if err := t.createReading(key, instance); err != nil {
		return err
	}
	for _, state := range []objects.SensorState{
		objects.SensorStateRunning,
		objects.SensorStateDegraded,
		objects.SensorStateStopped,
	} {
		if err := t.updateReading(key, state); err != nil {
			return err
		}
	}
	return nil
}

func (t *tester) createReading(key *objects.ReadingKey, instance int) error {
	reading := &objects.SensorReadingObject{
		Key:       key,
		State:     objects.SensorStateInitialized,
		Host:      fmt.Sprintf("host-%v", instance),
		UpdatedAt: time.Now().UTC(),
	}
	start := time.Now()
	err := t.ops.CreateIfNotExists(context.Background(), reading)
	t.scope.Timer("create_reading").Record(time.Since(start))
	if err != nil {
		log.WithError(err).Error("Create reading failed")
		return err
	}
	return nil
}

func (t *tester) updateReading(
	key *objects.ReadingKey, state objects.SensorState) error {
	start := time.Now()
	reading, err := t.ops.Get(context.Background(), key)
	t.scope.Timer("get_reading").Record(time.Since(start))
	if err != nil {
		log.WithError(err).Error("Get reading failed")
		return err
	}

	reading.State = state
	reading.Value++
	reading.UpdatedAt = time.Now().UTC()
	start = time.Now()
	err = t.ops.Update(context.Background(), reading)
	t.scope.Timer("update_reading").Record(time.Since(start))
	if err != nil {
		log.WithError(err).Error("Update reading failed")
		return err
	}

	if !t.validate {
		return nil
	}
	got, err := t.ops.Get(context.Background(), key)
	if err != nil {
		log.WithError(err).Error("Get reading failed")
		return err
	}
	if got.State != state {
		log.WithFields(log.Fields{
			"sensor_id":      key.Sensor.String(),
			"expected_state": state,
			"actual_state":   got.State,
		}).Error("Reading state not updated")
		t.scope.Counter("stale_reads").Inc(1)
		return errors.Errorf(
			"sensor %s: expected state %s, got %s",
			key.Sensor, state, got.State)
	}
	return nil
}

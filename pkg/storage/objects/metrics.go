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
	"github.com/uber-go/tally"
)

// OrmReadingMetrics tracks counters for the sensor_readings table accessed
// through ORM layer
type OrmReadingMetrics struct {
	ReadingCreate         tally.Counter
	ReadingCreateFail     tally.Counter
	ReadingGet            tally.Counter
	ReadingGetFail        tally.Counter
	ReadingGetAll         tally.Counter
	ReadingGetAllFail     tally.Counter
	ReadingGetAllDuration tally.Timer
	ReadingUpdate         tally.Counter
	ReadingUpdateFail     tally.Counter
	ReadingDelete         tally.Counter
	ReadingDeleteFail     tally.Counter
}

// Metrics is a struct for tracking all the general purpose counters that
// have relevance to the storage objects
type Metrics struct {
	OrmReadingMetrics *OrmReadingMetrics
}

// NewMetrics returns a new Metrics struct, with all metrics initialized and rooted at the given tally.Scope
func NewMetrics(scope tally.Scope) *Metrics {
	ormScope := scope.SubScope("orm")

	readingScope := ormScope.SubScope("sensor_readings")
	readingSuccessScope := readingScope.Tagged(
		map[string]string{"result": "success"})
	readingFailScope := readingScope.Tagged(
		map[string]string{"result": "fail"})

	return &Metrics{
		OrmReadingMetrics: &OrmReadingMetrics{
			ReadingCreate:         readingSuccessScope.Counter("create"),
			ReadingCreateFail:     readingFailScope.Counter("create"),
			ReadingGet:            readingSuccessScope.Counter("get"),
			ReadingGetFail:        readingFailScope.Counter("get"),
			ReadingGetAll:         readingSuccessScope.Counter("get_all"),
			ReadingGetAllFail:     readingFailScope.Counter("get_all"),
			ReadingGetAllDuration: readingSuccessScope.Timer("get_all_duration"),
			ReadingUpdate:         readingSuccessScope.Counter("update"),
			ReadingUpdateFail:     readingFailScope.Counter("update"),
			ReadingDelete:         readingSuccessScope.Counter("delete"),
			ReadingDeleteFail:     readingFailScope.Counter("delete"),
		},
	}
}

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

package cassandra

import (
	"testing"

	"github.com/uber/cqlmap/pkg/storage/convert"
	"github.com/uber/cqlmap/pkg/storage/objects/base"
	"github.com/uber/cqlmap/pkg/storage/orm"

	"github.com/stretchr/testify/suite"
)

// cqlSensorKey declares its columns out of ordinal order
type cqlSensorKey struct {
	base.CompositeKey
	Sensor string `column:"name=sensor_id, ordinal=1, keyType=clustered"`
	Run    string `column:"name=run_id, ordinal=0"`
}

type cqlSensorReading struct {
	base.Object `cassandra:"name=sensor_readings"`
	Key         *cqlSensorKey `column:"primaryKey"`
	State       *string       `column:"name=state"`
	Value       float64       `column:"name=value"`
}

type CQLTestSuite struct {
	suite.Suite

	writer *orm.Writer
	def    *base.Definition
}

func (suite *CQLTestSuite) SetupTest() {
	mc := orm.NewMappingContext(convert.NewEngine(nil), nil)
	e, err := mc.ResolveObject(&cqlSensorReading{})
	suite.Require().NoError(err)
	suite.def = e.Definition()
	suite.writer = orm.NewWriter(mc)
}

func TestCQLTestSuite(t *testing.T) {
	suite.Run(t, new(CQLTestSuite))
}

func (suite *CQLTestSuite) write(
	obj base.Object, target orm.Target) *orm.Statement {
	stmt, err := suite.writer.Write(obj, target)
	suite.Require().NoError(err)
	return stmt
}

func (suite *CQLTestSuite) reading(state *string) *cqlSensorReading {
	return &cqlSensorReading{
		Key:   &cqlSensorKey{Run: "run-1", Sensor: "s-7"},
		State: state,
		Value: 0.5,
	}
}

// TestInsertQuery tests that an insert binds the written columns in order
func (suite *CQLTestSuite) TestInsertQuery() {
	running := "RUNNING"
	stmt := suite.write(suite.reading(&running), orm.Insert)

	q, err := insertQuery(suite.def, stmt.Assignments, false)
	suite.NoError(err)
	suite.Equal(`INSERT INTO "sensor_readings" `+
		`("run_id", "sensor_id", "state", "value") VALUES (?, ?, ?, ?);`, q.stmt)
	suite.Equal([]interface{}{"run-1", "s-7", "RUNNING", 0.5}, q.args)

	q, err = insertQuery(suite.def, stmt.Assignments, true)
	suite.NoError(err)
	suite.Equal(`INSERT INTO "sensor_readings" `+
		`("run_id", "sensor_id", "state", "value") VALUES (?, ?, ?, ?)`+
		` IF NOT EXISTS;`, q.stmt)

	// null columns are not written
	stmt = suite.write(suite.reading(nil), orm.Insert)
	q, err = insertQuery(suite.def, stmt.Assignments, false)
	suite.NoError(err)
	suite.Equal(`INSERT INTO "sensor_readings" `+
		`("run_id", "sensor_id", "value") VALUES (?, ?, ?);`, q.stmt)
	suite.Equal([]interface{}{"run-1", "s-7", 0.5}, q.args)

	_, err = insertQuery(suite.def, nil, false)
	suite.Error(err)
}

// TestSelectQuery tests the single row and the partition reads
func (suite *CQLTestSuite) TestSelectQuery() {
	stmt := suite.write(suite.reading(nil), orm.Where)

	q, err := selectQuery(
		suite.def, stmt.Predicates, suite.def.GetColumnsToRead(),
		_defaultQueryLimit)
	suite.NoError(err)
	suite.Equal(`SELECT "run_id", "sensor_id", "state", "value"`+
		` FROM "sensor_readings" WHERE run_id=? AND sensor_id=? LIMIT 1;`,
		q.stmt)
	suite.Equal([]interface{}{"run-1", "s-7"}, q.args)

	// a partition read only filters on the partition key
	q, err = selectQuery(
		suite.def, stmt.Predicates[:len(suite.def.Key.PartitionKeys)],
		suite.def.GetColumnsToRead(), _ignoredQueryLimit)
	suite.NoError(err)
	suite.Equal(`SELECT "run_id", "sensor_id", "state", "value"`+
		` FROM "sensor_readings" WHERE run_id=?;`, q.stmt)
	suite.Equal([]interface{}{"run-1"}, q.args)

	q, err = selectQuery(suite.def, nil, []string{"state"}, 10)
	suite.NoError(err)
	suite.Equal(`SELECT "state" FROM "sensor_readings" LIMIT 10;`, q.stmt)
	suite.Empty(q.args)
}

// TestUpdateQuery tests that assignment values bind before key values
func (suite *CQLTestSuite) TestUpdateQuery() {
	stmt := suite.write(suite.reading(nil), orm.Update)

	q, err := updateQuery(suite.def, stmt.Assignments, stmt.Predicates)
	suite.NoError(err)
	suite.Equal(`UPDATE "sensor_readings" SET state=?, value=?`+
		` WHERE run_id=? AND sensor_id=?;`, q.stmt)
	// the null state is kept so that the update clears it
	suite.Equal([]interface{}{nil, 0.5, "run-1", "s-7"}, q.args)

	_, err = updateQuery(suite.def, stmt.Assignments, nil)
	suite.Error(err)
}

// TestDeleteQuery tests deleting by the key predicates
func (suite *CQLTestSuite) TestDeleteQuery() {
	stmt := suite.write(suite.reading(nil), orm.Where)

	q, err := deleteQuery(suite.def, stmt.Predicates)
	suite.NoError(err)
	suite.Equal(
		`DELETE FROM "sensor_readings" WHERE run_id=? AND sensor_id=?;`, q.stmt)
	suite.Equal([]interface{}{"run-1", "s-7"}, q.args)

	_, err = deleteQuery(suite.def, nil)
	suite.Error(err)
}

func (suite *CQLTestSuite) TestMissingTable() {
	_, err := selectQuery(&base.Definition{}, nil, []string{"id"}, 0)
	suite.Error(err)
}

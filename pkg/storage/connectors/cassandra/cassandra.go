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
	"context"
	"reflect"
	"time"

	"github.com/uber/cqlmap/pkg/common/logging"
	"github.com/uber/cqlmap/pkg/storage/convert"
	"github.com/uber/cqlmap/pkg/storage/objects/base"
	"github.com/uber/cqlmap/pkg/storage/orm"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"go.uber.org/yarpc/yarpcerrors"
)

const (
	useCasWrite = true
)

const (
	// operation tags for metrics
	create  = "create"
	cas     = "cas"
	get     = "get"
	getAll  = "get_all"
	getIter = "get_iter"
	update  = "update"
	del     = "delete"

	// default limit for select statements.
	_defaultQueryLimit = 1
	_ignoredQueryLimit = 0
)

// querier is the part of gocql.Session used by the connector
type querier interface {
	Query(stmt string, values ...interface{}) *gocql.Query
}

type cassandraConnector struct {
	// Session is the gocql session created for this connector
	Session querier
	// scope is the storage scope for metrics
	scope tally.Scope
	// scope is the storage scope for success metrics
	executeSuccessScope tally.Scope
	// scope is the storage scope for failure metrics
	executeFailScope tally.Scope

	// Conf is the Cassandra connector config for this cluster
	Conf *Config
}

// NewCassandraConnector initializes a Cassandra Connector
func NewCassandraConnector(
	config *Config,
	scope tally.Scope,
) (orm.Connector, error) {
	session, err := CreateStoreSession(
		config.CassandraConn, config.StoreName)
	if err != nil {
		return nil, err
	}
	return newConnector(session, config, scope), nil
}

func newConnector(
	session querier, config *Config, scope tally.Scope) *cassandraConnector {
	// create a storeScope for the keyspace StoreName
	storeScope := scope.SubScope("cql").Tagged(
		map[string]string{"store": config.StoreName})

	return &cassandraConnector{
		Session: session,
		scope:   storeScope,
		executeSuccessScope: storeScope.Tagged(
			map[string]string{"result": "success"}),
		executeFailScope: storeScope.Tagged(
			map[string]string{"result": "fail"}),
		Conf: config,
	}
}

// ensure that implementation (cassandraConnector) satisfies the interface
var _ orm.Connector = (*cassandraConnector)(nil)

// getGocqlErrorTag gets a error tag for metrics based on gocql error
// We cannot just use err.Error() as a tag because it contains invalid
// characters like = : etc. which will be rejected by M3
func getGocqlErrorTag(err error) string {
	if yarpcerrors.IsAlreadyExists(err) {
		return "already_exists"
	}
	if yarpcerrors.IsNotFound(err) {
		return "not_found"
	}
	switch errors.Cause(err).(type) {
	case *gocql.RequestErrReadFailure:
		return "read_failure"
	case *gocql.RequestErrWriteFailure:
		return "write_failure"
	case *gocql.RequestErrAlreadyExists:
		return "already_exists"
	case *gocql.RequestErrReadTimeout:
		return "read_timeout"
	case *gocql.RequestErrWriteTimeout:
		return "write_timeout"
	case *gocql.RequestErrUnavailable:
		return "unavailable"
	case *gocql.RequestErrFunctionFailure:
		return "function_failure"
	case *gocql.RequestErrUnprepared:
		return "unprepared"
	default:
		return "unknown"
	}
}

// buildResultRow is used to allocate memory for the row to be populated by
// Cassandra read operation based on the types of the result columns. Each
// destination is a pointer to a pointer so that a null column scans to nil.
func buildResultRow(cols []gocql.ColumnInfo) []interface{} {
	results := make([]interface{}, len(cols))
	for i, col := range cols {
		typ, ok := convert.GoType(col.TypeInfo.Type())
		if !ok {
			// collections and user types scan into their driver default
			log.WithFields(log.Fields{
				"type":   col.TypeInfo.Type().String(),
				"column": col.Name,
			}).Debug("Scanning column without a native type")
			results[i] = col.TypeInfo.New()
			continue
		}
		if typ.Kind() != reflect.Ptr {
			typ = reflect.PtrTo(typ)
		}
		results[i] = reflect.New(typ).Interface()
	}
	return results
}

// columnNames returns the names of the result columns.
func columnNames(cols []gocql.ColumnInfo) []string {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	return names
}

// CreateIfNotExists creates a new row in DB if it already doesn't exist.
// Uses CAS write.
func (c *cassandraConnector) CreateIfNotExists(
	ctx context.Context,
	e *base.Definition,
	row []base.Column,
) error {
	return c.create(ctx, e, row, useCasWrite)
}

// Create creates a new row in DB.
func (c *cassandraConnector) Create(
	ctx context.Context,
	e *base.Definition,
	row []base.Column,
) error {
	return c.create(ctx, e, row, !useCasWrite)
}

func (c *cassandraConnector) create(
	ctx context.Context,
	e *base.Definition,
	row []base.Column,
	casWrite bool,
) error {
	iq, err := insertQuery(e, row, casWrite)
	if err != nil {
		return err
	}

	operation := create
	if casWrite {
		operation = cas
	}

	q := c.Session.Query(iq.stmt, iq.args...).WithContext(ctx)

	if casWrite {
		applied, err := q.MapScanCAS(map[string]interface{}{})
		if err != nil {
			logFailure(iq.stmt, iq.args, err)
			sendCounters(c.executeFailScope, e.Name, operation, err)
			return err
		}
		if !applied {
			err = yarpcerrors.AlreadyExistsErrorf("item already exists")
			sendCounters(c.executeFailScope, e.Name, operation, err)
			return err
		}
	} else {
		if err := q.Exec(); err != nil {
			logFailure(iq.stmt, iq.args, err)
			sendCounters(c.executeFailScope, e.Name, operation, err)
			return err
		}
	}

	sendLatency(c.scope, e.Name, operation, time.Duration(q.Latency()))
	sendCounters(c.executeSuccessScope, e.Name, operation, nil)
	return nil
}

// buildSelectQuery builds a select query using base object and key columns.
// If limit is non-zero, it will be enforced in the select query.
// If limit is 0, the select query will fetch all rows that match.
func (c *cassandraConnector) buildSelectQuery(
	ctx context.Context,
	e *base.Definition,
	keyCols []base.Column,
	colNamesToRead []string,
	limit int,
) (*gocql.Query, error) {
	sq, err := selectQuery(e, keyCols, colNamesToRead, limit)
	if err != nil {
		return nil, err
	}
	return c.Session.Query(sq.stmt, sq.args...).WithContext(ctx), nil
}

// Get fetches a record from DB using primary keys. It returns a nil row
// when no record matches.
func (c *cassandraConnector) Get(
	ctx context.Context,
	e *base.Definition,
	keyCols []base.Column,
	colNamesToRead ...string,
) (orm.Row, error) {
	if len(colNamesToRead) == 0 {
		colNamesToRead = e.GetColumnsToRead()
	}

	q, err := c.buildSelectQuery(
		ctx,
		e,
		keyCols,
		colNamesToRead,
		_defaultQueryLimit)
	if err != nil {
		sendCounters(c.executeFailScope, e.Name, get, err)
		return nil, err
	}

	// execute query and get iterator
	cqlIter := q.Iter()
	result := buildResultRow(cqlIter.Columns())
	found := cqlIter.Scan(result...)
	if err := cqlIter.Close(); err != nil {
		sendCounters(c.executeFailScope, e.Name, get, err)
		return nil, errors.Wrap(err, "Scan failed")
	}

	sendLatency(c.scope, e.Name, get, time.Duration(q.Latency()))
	sendCounters(c.executeSuccessScope, e.Name, get, nil)
	if !found {
		return nil, nil
	}
	return orm.NewRow(columnNames(cqlIter.Columns()), result), nil
}

// GetAll fetches all rows from DB using partition keys
func (c *cassandraConnector) GetAll(
	ctx context.Context,
	e *base.Definition,
	keyCols []base.Column,
) ([]orm.Row, error) {
	iter, err := c.getAllIter(ctx, e, keyCols, getAll)
	if err != nil {
		sendCounters(c.executeFailScope, e.Name, getAll, err)
		return nil, err
	}
	defer iter.Close()

	var rows []orm.Row
	for {
		row, err := iter.Next()
		if err != nil {
			return nil, errors.Wrap(err, "Scan failed")
		}
		if row == nil {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

// GetAllIter gives an iterator to fetch all rows from DB
func (c *cassandraConnector) GetAllIter(
	ctx context.Context,
	e *base.Definition,
	keyCols []base.Column,
) (orm.Iterator, error) {
	return c.getAllIter(ctx, e, keyCols, getIter)
}

func (c *cassandraConnector) getAllIter(
	ctx context.Context,
	e *base.Definition,
	keyCols []base.Column,
	operation string,
) (*cassandraIterator, error) {
	colNamesToRead := e.GetColumnsToRead()

	q, err := c.buildSelectQuery(
		ctx,
		e,
		keyCols,
		colNamesToRead,
		_ignoredQueryLimit)
	if err != nil {
		return nil, err
	}

	// execute query and get iterator
	cqlIter := q.Iter()
	sendLatency(c.scope, e.Name, operation, time.Duration(q.Latency()))

	return newIterator(
		e,
		operation,
		c.executeSuccessScope,
		c.executeFailScope,
		cqlIter,
	), nil
}

// Delete deletes a record from DB using primary keys
func (c *cassandraConnector) Delete(
	ctx context.Context,
	e *base.Definition,
	keyCols []base.Column,
) error {
	dq, err := deleteQuery(e, keyCols)
	if err != nil {
		sendCounters(c.executeFailScope, e.Name, del, err)
		return err
	}

	q := c.Session.Query(dq.stmt, dq.args...).WithContext(ctx)
	if err := q.Exec(); err != nil {
		logFailure(dq.stmt, dq.args, err)
		sendCounters(c.executeFailScope, e.Name, del, err)
		return err
	}

	sendLatency(c.scope, e.Name, del, time.Duration(q.Latency()))
	sendCounters(c.executeSuccessScope, e.Name, del, nil)
	return nil
}

// Update updates an existing row in DB.
func (c *cassandraConnector) Update(
	ctx context.Context,
	e *base.Definition,
	row []base.Column,
	keyCols []base.Column,
) error {
	if len(row) == 0 {
		// nothing to SET, e.g. a table made of key columns only
		return nil
	}

	uq, err := updateQuery(e, row, keyCols)
	if err != nil {
		sendCounters(c.executeFailScope, e.Name, update, err)
		return err
	}

	q := c.Session.Query(uq.stmt, uq.args...).WithContext(ctx)
	if err := q.Exec(); err != nil {
		logFailure(uq.stmt, uq.args, err)
		sendCounters(c.executeFailScope, e.Name, update, err)
		return err
	}

	sendLatency(c.scope, e.Name, update, time.Duration(q.Latency()))
	sendCounters(c.executeSuccessScope, e.Name, update, nil)
	return nil
}

// cassandraIterator implements interface Iterator for Cassandra
type cassandraIterator struct {
	cqlIter      *gocql.Iter
	tableDef     *base.Definition
	operation    string
	successScope tally.Scope
	failScope    tally.Scope
}

// ensure that implementation (cassandraIterator) satisfies the interface
var _ orm.Iterator = (*cassandraIterator)(nil)

func newIterator(
	e *base.Definition,
	operation string,
	successScope tally.Scope,
	failScope tally.Scope,
	cqlIter *gocql.Iter,
) *cassandraIterator {
	return &cassandraIterator{
		cqlIter:      cqlIter,
		tableDef:     e,
		operation:    operation,
		successScope: successScope,
		failScope:    failScope,
	}
}

func (iter *cassandraIterator) Close() {
	iter.cqlIter.Close()
}

func (iter *cassandraIterator) Next() (orm.Row, error) {
	cols := iter.cqlIter.Columns()
	result := buildResultRow(cols)
	if iter.cqlIter.Scan(result...) {
		return orm.NewRow(columnNames(cols), result), nil
	}
	// Either end-of-results or error
	if err := iter.cqlIter.Close(); err != nil {
		sendCounters(iter.failScope, iter.tableDef.Name, iter.operation, err)
		return nil, err
	}
	sendCounters(iter.successScope, iter.tableDef.Name, iter.operation, nil)
	return nil, nil
}

// logFailure logs a failed statement with its bound values at debug level.
func logFailure(stmt string, values []interface{}, err error) {
	log.WithFields(log.Fields{
		logging.DBStmtLogField: stmt,
		logging.DBArgsLogField: values,
	}).WithError(err).Debug("CQL statement failed")
}

// helper function to record call latency metric
func sendLatency(
	scope tally.Scope,
	table, operation string,
	d time.Duration,
) {
	s := scope.Tagged(map[string]string{
		"table":     table,
		"operation": operation,
	})
	s.Timer("execute_latency").Record(d)
}

// helper function to record cql query success/failure metrics
func sendCounters(
	scope tally.Scope,
	table, operation string,
	err error,
) {
	errMsg := "none"
	if err != nil {
		errMsg = getGocqlErrorTag(err)
	}
	s := scope.Tagged(map[string]string{
		"table":     table,
		"operation": operation,
		"error":     errMsg,
	})
	s.Counter("execute").Inc(1)
}

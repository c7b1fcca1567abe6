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
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"github.com/uber/cqlmap/pkg/storage/objects/base"

	"github.com/pkg/errors"
)

const (
	insertTemplate = `INSERT INTO {{quote .Table}} ({{columns .Columns}})` +
		` VALUES ({{markers .Columns}}){{if .IfNotExist}} IF NOT EXISTS{{end}};`

	selectTemplate = `SELECT {{columns .Columns}} FROM {{quote .Table}}` +
		`{{where .Conditions}}{{if .Limit}} LIMIT {{.Limit}}{{end}};`

	updateTemplate = `UPDATE {{quote .Table}} SET {{equals .Updates ", "}}` +
		`{{where .Conditions}};`

	deleteTemplate = `DELETE FROM {{quote .Table}}{{where .Conditions}};`
)

var (
	funcMap = template.FuncMap{
		"quote":   strconv.Quote,
		"columns": quotedColumns,
		"markers": markers,
		"equals":  equals,
		"where":   where,
	}

	insertTmpl = template.Must(
		template.New("insert").Funcs(funcMap).Parse(insertTemplate))
	selectTmpl = template.Must(
		template.New("select").Funcs(funcMap).Parse(selectTemplate))
	updateTmpl = template.Must(
		template.New("update").Funcs(funcMap).Parse(updateTemplate))
	deleteTmpl = template.Must(
		template.New("delete").Funcs(funcMap).Parse(deleteTemplate))
)

// statement is the template input of a CQL statement.
type statement struct {
	Table      string
	Columns    []string
	Updates    []string
	Conditions []string
	IfNotExist bool
	// Limit caps a select, 0 means no limit.
	Limit int
}

// query is a rendered CQL statement with its bind values in marker order.
type query struct {
	stmt string
	args []interface{}
}

func quotedColumns(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return strings.Join(quoted, ", ")
}

func markers(names []string) string {
	return strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
}

// equals renders name=? for each column.
func equals(names []string, sep string) string {
	conds := make([]string, len(names))
	for i, n := range names {
		conds[i] = n + "=?"
	}
	return strings.Join(conds, sep)
}

func where(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + equals(conds, " AND ")
}

// splitColumnNameValue splits row into names and values, keeping the
// position of each column.
func splitColumnNameValue(row []base.Column) (
	colNames []string, colValues []interface{}) {
	for _, column := range row {
		colNames = append(colNames, column.Name)
		colValues = append(colValues, column.Value)
	}
	return colNames, colValues
}

func render(tmpl *template.Template, s *statement, args []interface{}) (
	*query, error) {
	if s.Table == "" {
		return nil, errors.Errorf("%s statement without a table", tmpl.Name())
	}
	var bb bytes.Buffer
	if err := tmpl.Execute(&bb, s); err != nil {
		return nil, errors.Wrapf(err, "%s %s", tmpl.Name(), s.Table)
	}
	return &query{stmt: bb.String(), args: args}, nil
}

// insertQuery builds the insert of row into the table of def. With cas the
// insert only applies when no row with the same key exists.
func insertQuery(
	def *base.Definition, row []base.Column, cas bool) (*query, error) {
	if len(row) == 0 {
		return nil, errors.Errorf("insert into %s without columns", def.Name)
	}
	names, values := splitColumnNameValue(row)
	return render(insertTmpl, &statement{
		Table:      def.Name,
		Columns:    names,
		IfNotExist: cas,
	}, values)
}

// selectQuery builds a select of read from the table of def, filtered by
// the equality predicates keys.
func selectQuery(
	def *base.Definition,
	keys []base.Column,
	read []string,
	limit int,
) (*query, error) {
	names, values := splitColumnNameValue(keys)
	return render(selectTmpl, &statement{
		Table:      def.Name,
		Columns:    read,
		Conditions: names,
		Limit:      limit,
	}, values)
}

// updateQuery builds an update of assignments on the row matched by
// predicates. Assignment values bind before predicate values.
func updateQuery(
	def *base.Definition,
	assignments []base.Column,
	predicates []base.Column,
) (*query, error) {
	if len(predicates) == 0 {
		return nil, errors.Errorf("update of %s without a key", def.Name)
	}
	names, values := splitColumnNameValue(assignments)
	keyNames, keyValues := splitColumnNameValue(predicates)
	return render(updateTmpl, &statement{
		Table:      def.Name,
		Updates:    names,
		Conditions: keyNames,
	}, append(values, keyValues...))
}

// deleteQuery builds a delete of the rows matched by keys.
func deleteQuery(def *base.Definition, keys []base.Column) (*query, error) {
	if len(keys) == 0 {
		return nil, errors.Errorf("delete from %s without a key", def.Name)
	}
	names, values := splitColumnNameValue(keys)
	return render(deleteTmpl, &statement{
		Table:      def.Name,
		Conditions: names,
	}, values)
}

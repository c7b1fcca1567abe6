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

package orm

import (
	"reflect"
	"testing"

	"github.com/uber/cqlmap/pkg/storage/convert"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	opts, err := parseTag("name=foo, primaryKey,type=int ,ordinal=2")
	require.NoError(t, err)
	assert.Equal(t, tagOptions{
		"name":       "foo",
		"primaryKey": "",
		"type":       "int",
		"ordinal":    "2",
	}, opts)

	opts, err = parseTag("")
	require.NoError(t, err)
	assert.Empty(t, opts)

	for _, tag := range []string{
		"name=foo,",
		"name=",
		"name=a, name=b",
		"primaryKey=((id), name)",
		"size=3",
	} {
		_, err := parseTag(tag)
		assert.Error(t, err, tag)
	}
}

func TestSnakeCase(t *testing.T) {
	for in, out := range map[string]string{
		"ID":          "id",
		"JobID":       "job_id",
		"HostName":    "host_name",
		"HTTPServer":  "http_server",
		"Value":       "value",
		"ipv4Address": "ipv4_address",
		"Label2Name":  "label2_name",
	} {
		assert.Equal(t, out, snakeCase(in), in)
	}
}

type tagged struct {
	ID      string
	Count   int32
	Flag    bool
	Started string
}

func field(t *testing.T, name string) (reflect.StructField, []int) {
	f, ok := reflect.TypeOf(tagged{}).FieldByName(name)
	require.True(t, ok)
	return f, f.Index
}

func TestPropertyFromField(t *testing.T) {
	owner := reflect.TypeOf(tagged{})

	f, index := field(t, "Count")
	opts, err := parseTag("type=smallint, ordinal=3, keyType=clustered, " +
		"ordering=desc, omitempty")
	require.NoError(t, err)
	p, err := propertyFromField(owner, f, index, opts)
	require.NoError(t, err)
	assert.Equal(t, "Count", p.Name)
	assert.Equal(t, "count", p.Column)
	assert.Equal(t, gocql.TypeSmallInt, p.StoreType)
	assert.Equal(t, 3, p.Ordinal)
	assert.True(t, p.hasOrdinal)
	assert.Equal(t, Clustered, p.KeyType)
	assert.True(t, p.Descending)
	assert.True(t, p.OmitEmpty)
	assert.False(t, p.PrimaryKey)
	assert.Equal(t, "smallint", storeTypeOf(p))

	f, index = field(t, "ID")
	opts, err = parseTag("name=uid, primaryKey=true")
	require.NoError(t, err)
	p, err = propertyFromField(owner, f, index, opts)
	require.NoError(t, err)
	assert.Equal(t, "uid", p.Column)
	assert.True(t, p.PrimaryKey)
	assert.Equal(t, convert.Unset, p.StoreType)
	assert.Equal(t, Partitioned, p.KeyType)
	assert.Equal(t, "natural", storeTypeOf(p))

	for _, tag := range []string{
		"primaryKey=maybe",
		"type=varchar2",
		"ordinal=first",
		"keyType=sorted",
		"ordering=random",
	} {
		opts, err := parseTag(tag)
		require.NoError(t, err, tag)
		_, err = propertyFromField(owner, f, index, opts)
		var mappingErr *MappingConfigurationError
		assert.ErrorAs(t, err, &mappingErr, tag)
	}
}

func TestKeyTypeString(t *testing.T) {
	assert.Equal(t, "partitioned", Partitioned.String())
	assert.Equal(t, "clustered", Clustered.String())
}

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
	"github.com/uber/cqlmap/pkg/storage/connectors/cassandra"
	"github.com/uber/cqlmap/pkg/storage/convert"
	"github.com/uber/cqlmap/pkg/storage/objects/base"
	"github.com/uber/cqlmap/pkg/storage/orm"

	"github.com/pkg/errors"
	"github.com/uber-go/tally"
)

// Objs is a global list of storage objects. Every storage object will be added
// using an init method to this list. This list will be used when creating the
// ORM client.
var Objs []base.Object

// Enums is the global list of enumerations stored by the objects of Objs.
var Enums []*convert.Enum

// Store contains ORM client as well as metrics
type Store struct {
	oClient orm.Client
	metrics *Metrics
}

// NewStore wraps an existing ORM client.
func NewStore(client orm.Client, scope tally.Scope) *Store {
	return &Store{
		oClient: client,
		metrics: NewMetrics(scope),
	}
}

// NewCassandraStore creates a new Cassandra storage client
func NewCassandraStore(
	config *cassandra.Config,
	mc *orm.MappingContext,
	scope tally.Scope,
) (*Store, error) {
	connector, err := cassandra.NewCassandraConnector(config, scope)
	if err != nil {
		return nil, err
	}
	oclient, err := orm.NewClient(connector, mc, Objs...)
	if err != nil {
		return nil, err
	}
	return NewStore(oclient, scope), nil
}

// NewMappingContext returns a mapping context knowing the enumerations of
// all storage objects. Enumerations named in ordinalEnums are stored by
// ordinal, the others by name.
func NewMappingContext(
	ordinalEnums []string,
	scope tally.Scope,
) (*orm.MappingContext, error) {
	registry := convert.NewRegistry()
	if err := registry.RegisterEnum(Enums...); err != nil {
		return nil, err
	}
	byName := make(map[string]*convert.Enum, len(Enums))
	for _, e := range Enums {
		byName[e.Type().Name()] = e
	}
	for _, name := range ordinalEnums {
		e, ok := byName[name]
		if !ok {
			return nil, errors.Errorf("unknown ordinal enum %q", name)
		}
		if err := registry.Register(convert.OrdinalConverters(e)...); err != nil {
			return nil, err
		}
	}
	return orm.NewMappingContext(convert.NewEngine(registry), scope), nil
}

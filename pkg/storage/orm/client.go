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
	"context"
	"reflect"

	"github.com/uber/cqlmap/pkg/storage/objects/base"

	"go.uber.org/yarpc/yarpcerrors"
)

// Client is the ORM interface for the storage objects
type Client interface {
	// Create creates the storage object in the database
	Create(ctx context.Context, e base.Object) error
	// CreateIfNotExists creates the storage object in the database if a
	// row with the same primary key does not exist yet
	CreateIfNotExists(ctx context.Context, e base.Object) error
	// Get fills the storage object from the row matching its primary key
	Get(ctx context.Context, e base.Object) error
	// GetAll gets all storage objects sharing the partition key of e
	GetAll(ctx context.Context, e base.Object) ([]base.Object, error)
	// Update writes the non-key columns of the storage object
	Update(ctx context.Context, e base.Object) error
	// Delete deletes the storage object from the database
	Delete(ctx context.Context, e base.Object) error
}

type client struct {
	objectIndex map[reflect.Type]*Entity
	connector   Connector
	writer      *Writer
	reader      *Reader
}

// NewClient returns a new ORM client for the storage objects and connector
// provided. Objects not given here are rejected by the client.
func NewClient(
	conn Connector,
	mc *MappingContext,
	objects ...base.Object,
) (Client, error) {
	oi := make(map[reflect.Type]*Entity, len(objects))
	for _, o := range objects {
		e, err := mc.ResolveObject(o)
		if err != nil {
			return nil, err
		}
		oi[e.Type()] = e
	}
	return &client{
		objectIndex: oi,
		connector:   conn,
		writer:      NewWriter(mc),
		reader:      NewReader(mc),
	}, nil
}

// getEntity gets the Entity that matches the storage object provided.
// Return an error when not found.
func (c *client) getEntity(e base.Object) (*Entity, error) {
	t := reflect.TypeOf(e)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	entity, ok := c.objectIndex[t]
	if !ok {
		return nil, yarpcerrors.NotFoundErrorf(
			"Table not found for object: %q", t.Name())
	}
	return entity, nil
}

// Create creates the storage object in the database
func (c *client) Create(ctx context.Context, e base.Object) error {
	entity, err := c.getEntity(e)
	if err != nil {
		return err
	}

	// translate the storage object into a row (list of column)
	stmt, err := c.writer.Write(e, Insert)
	if err != nil {
		return err
	}
	return c.connector.Create(ctx, entity.Definition(), stmt.Assignments)
}

// CreateIfNotExists creates the storage object in the database unless a
// row with its primary key already exists
func (c *client) CreateIfNotExists(ctx context.Context, e base.Object) error {
	entity, err := c.getEntity(e)
	if err != nil {
		return err
	}
	stmt, err := c.writer.Write(e, Insert)
	if err != nil {
		return err
	}
	return c.connector.CreateIfNotExists(
		ctx, entity.Definition(), stmt.Assignments)
}

// Get fetches a storage object by primary key. The object provided must
// contain values for all components of its primary key for the operation
// to succeed.
func (c *client) Get(ctx context.Context, e base.Object) error {
	entity, err := c.getEntity(e)
	if err != nil {
		return err
	}

	// build a primary key row from storage object
	stmt, err := c.writer.Write(e, Where)
	if err != nil {
		return err
	}
	if err := requireKey(entity, stmt); err != nil {
		return err
	}

	def := entity.Definition()
	row, err := c.connector.Get(
		ctx, def, stmt.Predicates, def.GetColumnsToRead()...)
	if err != nil {
		return err
	}
	if row == nil {
		return yarpcerrors.NotFoundErrorf(
			"%s not found for key %v", def.Name, base.Values(stmt.Predicates))
	}

	// build a storage object from the row
	return c.reader.ReadInto(row, e)
}

// GetAll fetches all storage objects in the partition of e. Only the
// partition key columns of e need to be set.
func (c *client) GetAll(
	ctx context.Context, e base.Object) ([]base.Object, error) {
	entity, err := c.getEntity(e)
	if err != nil {
		return nil, err
	}
	stmt, err := c.writer.Write(e, Where)
	if err != nil {
		return nil, err
	}

	def := entity.Definition()
	partition := make(map[string]struct{}, len(def.Key.PartitionKeys))
	for _, k := range def.Key.PartitionKeys {
		partition[k] = struct{}{}
	}
	var keys []base.Column
	for _, p := range stmt.Predicates {
		if _, ok := partition[p.Name]; ok && p.Value != nil {
			keys = append(keys, p)
		}
	}

	if len(keys) == 0 {
		err := &MissingPrimaryKeyError{Type: entity.Type(), Target: Where}
		if len(def.Key.PartitionKeys) > 0 {
			err.Column = def.Key.PartitionKeys[0]
		}
		return nil, err
	}

	rows, err := c.connector.GetAll(ctx, def, keys)
	if err != nil {
		return nil, err
	}
	objects := make([]base.Object, 0, len(rows))
	for _, row := range rows {
		o, err := c.reader.Read(row, reflect.TypeOf(e))
		if err != nil {
			return nil, err
		}
		objects = append(objects, o.(base.Object))
	}
	return objects, nil
}

// Update updates the storage object in the database
func (c *client) Update(ctx context.Context, e base.Object) error {
	entity, err := c.getEntity(e)
	if err != nil {
		return err
	}
	stmt, err := c.writer.Write(e, Update)
	if err != nil {
		return err
	}
	if err := requireKey(entity, stmt); err != nil {
		return err
	}
	return c.connector.Update(
		ctx, entity.Definition(), stmt.Assignments, stmt.Predicates)
}

// Delete deletes the storage object in the database
func (c *client) Delete(ctx context.Context, e base.Object) error {
	entity, err := c.getEntity(e)
	if err != nil {
		return err
	}

	// build a primary key row from storage object
	stmt, err := c.writer.Write(e, Where)
	if err != nil {
		return err
	}
	if err := requireKey(entity, stmt); err != nil {
		return err
	}

	// Tell the connector to delete the row in the DB using this key row
	return c.connector.Delete(ctx, entity.Definition(), stmt.Predicates)
}

// requireKey fails when a predicate of stmt has no value. Single row
// operations need every key column.
func requireKey(e *Entity, stmt *Statement) error {
	for _, p := range stmt.Predicates {
		if p.Value == nil {
			return &MissingPrimaryKeyError{
				Type:   e.Type(),
				Target: stmt.Target,
				Column: p.Name,
			}
		}
	}
	return nil
}

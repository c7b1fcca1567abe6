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
	"sort"
	"sync"

	"github.com/uber/cqlmap/pkg/storage/convert"
	"github.com/uber/cqlmap/pkg/storage/objects/base"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
)

// MappingContext resolves and caches the Entity of each mapped type. It is
// safe for concurrent use: when two goroutines resolve the same type at
// once, one result is published and the other discarded.
type MappingContext struct {
	entities sync.Map // reflect.Type -> *Entity
	engine   *convert.Engine

	resolveCount  tally.Counter
	cacheHitCount tally.Counter
}

// NewMappingContext returns a MappingContext converting values with engine.
// A nil scope disables metrics.
func NewMappingContext(
	engine *convert.Engine, scope tally.Scope) *MappingContext {
	if scope == nil {
		scope = tally.NoopScope
	}
	scope = scope.SubScope("mapping")
	return &MappingContext{
		engine:        engine,
		resolveCount:  scope.Counter("entity_resolve"),
		cacheHitCount: scope.Counter("entity_cache_hit"),
	}
}

// Engine returns the conversion engine of this context.
func (mc *MappingContext) Engine() *convert.Engine {
	return mc.engine
}

// ResolveObject returns the Entity of the dynamic type of obj.
func (mc *MappingContext) ResolveObject(obj interface{}) (*Entity, error) {
	if obj == nil {
		return nil, mappingError(nil, "cannot resolve a nil object")
	}
	return mc.Resolve(reflect.TypeOf(obj))
}

// Resolve returns the Entity of typ, which must be a struct or a pointer
// to one.
func (mc *MappingContext) Resolve(typ reflect.Type) (*Entity, error) {
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, mappingError(typ, "only struct types can be mapped")
	}
	if e, ok := mc.entities.Load(typ); ok {
		mc.cacheHitCount.Inc(1)
		return e.(*Entity), nil
	}

	e, err := mc.build(typ)
	if err != nil {
		return nil, err
	}
	actual, loaded := mc.entities.LoadOrStore(typ, e)
	if !loaded {
		mc.resolveCount.Inc(1)
		log.WithFields(log.Fields{
			"type":    typ.String(),
			"table":   e.name,
			"columns": e.columns,
		}).Debug("Resolved entity")
	}
	return actual.(*Entity), nil
}

// build computes a new Entity for typ. It has no side effects on the cache
// apart from resolving the composite key type of typ.
func (mc *MappingContext) build(typ reflect.Type) (*Entity, error) {
	e := &Entity{
		name: snakeCase(typ.Name()),
		typ:  typ,
	}
	keyType, err := collectFields(e, typ, nil)
	if err != nil {
		return nil, err
	}

	if keyType {
		if err := e.validateKeyColumns(); err != nil {
			return nil, err
		}
	} else if err := mc.resolveKey(e); err != nil {
		return nil, err
	}

	e.buildDefinition()
	seen := make(map[string]struct{}, len(e.columns))
	for _, c := range e.columns {
		if _, ok := seen[c]; ok {
			return nil, mappingError(typ, "column %q is mapped twice", c)
		}
		seen[c] = struct{}{}
	}
	return e, nil
}

// collectFields appends the persistent properties of typ to e, flattening
// embedded structs. It reports whether typ embeds base.CompositeKey.
func collectFields(e *Entity, typ reflect.Type, index []int) (bool, error) {
	keyType := false
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldIndex := append(append([]int(nil), index...), i)

		if field.Anonymous {
			switch field.Type {
			case base.ObjectType:
				if tag, ok := field.Tag.Lookup(cassandraTag); ok {
					opts, err := parseTag(tag)
					if err != nil {
						return false, mappingError(e.typ, "%v", err)
					}
					if name := opts[optName]; name != "" {
						e.name = name
					}
				}
				continue
			case base.CompositeKeyType:
				keyType = true
				continue
			}
			if field.Type.Kind() == reflect.Struct {
				nested, err := collectFields(e, field.Type, fieldIndex)
				if err != nil {
					return false, err
				}
				keyType = keyType || nested
				continue
			}
		}
		if field.PkgPath != "" {
			continue
		}

		tag := field.Tag.Get(columnTag)
		if tag == "-" {
			continue
		}
		opts, err := parseTag(tag)
		if err != nil {
			return false, mappingError(e.typ, "field %s: %v", field.Name, err)
		}
		p, err := propertyFromField(e.typ, field, fieldIndex, opts)
		if err != nil {
			return false, err
		}
		e.properties = append(e.properties, p)
	}
	return keyType, nil
}

// validateKeyColumns checks the properties of a composite key type and
// orders them by ordinal.
func (e *Entity) validateKeyColumns() error {
	if len(e.properties) == 0 {
		return mappingError(e.typ, "composite key has no columns")
	}
	byOrdinal := make(map[int]*Property, len(e.properties))
	for _, p := range e.properties {
		if !p.hasOrdinal {
			return mappingError(e.typ,
				"composite key column %s has no ordinal", p.Name)
		}
		if other, ok := byOrdinal[p.Ordinal]; ok {
			return mappingError(e.typ,
				"composite key columns %s and %s share ordinal %d",
				other.Name, p.Name, p.Ordinal)
		}
		if p.PrimaryKey {
			return mappingError(e.typ,
				"composite key column %s cannot be a primary key", p.Name)
		}
		if isCompositeKeyType(p.Type) {
			return mappingError(e.typ,
				"composite key column %s nests another composite key",
				p.Name)
		}
		byOrdinal[p.Ordinal] = p
		p.CompositeKeyColumn = true
	}

	e.keyColumns = append([]*Property(nil), e.properties...)
	sort.Slice(e.keyColumns, func(i, j int) bool {
		return e.keyColumns[i].Ordinal < e.keyColumns[j].Ordinal
	})
	return nil
}

// resolveKey finds the primary key property of an entity.
func (mc *MappingContext) resolveKey(e *Entity) error {
	var key *Property
	for _, p := range e.properties {
		if p.hasOrdinal {
			return mappingError(e.typ,
				"field %s: ordinal is only valid in a composite key", p.Name)
		}
		if isCompositeKeyType(p.Type) && !p.PrimaryKey {
			return mappingError(e.typ,
				"field %s: composite key type must be the primary key",
				p.Name)
		}
		if !p.PrimaryKey {
			continue
		}
		if key != nil {
			return mappingError(e.typ,
				"more than one primary key: %s and %s", key.Name, p.Name)
		}
		key = p
	}
	if key == nil {
		return nil
	}

	if !isCompositeKeyType(key.Type) {
		e.key = &SimpleKey{property: key}
		log.WithFields(log.Fields{
			"type":       e.typ.String(),
			"key":        key.Column,
			"store_type": storeTypeOf(key),
		}).Debug("Resolved simple primary key")
		return nil
	}
	keyEntity, err := mc.Resolve(key.Type)
	if err != nil {
		return err
	}
	e.key = &CompositeKey{property: key, entity: keyEntity}
	return nil
}

// isCompositeKeyType reports whether typ, or the struct it points to,
// embeds base.CompositeKey.
func isCompositeKeyType(typ reflect.Type) bool {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.Anonymous {
			continue
		}
		if f.Type == base.CompositeKeyType {
			return true
		}
		if f.Type.Kind() == reflect.Struct && isCompositeKeyType(f.Type) {
			return true
		}
	}
	return false
}

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

package convert

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// ConvertFunc converts one value. It is only called with values of the
// converter's source type.
type ConvertFunc func(value interface{}) (interface{}, error)

// Converter is a user supplied conversion from Source to Target.
type Converter struct {
	// Source is the type of the values this converter accepts. An
	// interface type matches every type implementing it.
	Source reflect.Type
	// Target is the type of the values this converter produces.
	Target reflect.Type
	// Convert performs the conversion.
	Convert ConvertFunc
}

func (c Converter) accepts(source reflect.Type) bool {
	if c.Source == source {
		return true
	}
	return c.Source.Kind() == reflect.Interface && source.Implements(c.Source)
}

// Registry is an append-only, ordered set of converters and enumerations.
// It is populated at setup time and sealed by the first lookup; after that
// it is read without locking and registration fails.
type Registry struct {
	mu         sync.Mutex
	converters []Converter
	enums      map[reflect.Type]*Enum
	sealed     atomic.Bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		enums: make(map[reflect.Type]*Enum),
	}
}

// Register appends converters. Converters are consulted in registration
// order, so earlier registrations win.
func (r *Registry) Register(converters ...Converter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return errors.New("converter registry is read-only once conversions started")
	}
	for _, c := range converters {
		if c.Source == nil || c.Target == nil || c.Convert == nil {
			return errors.Errorf(
				"converter %s -> %s is incomplete",
				typeName(c.Source), typeName(c.Target))
		}
	}
	r.converters = append(r.converters, converters...)
	return nil
}

// RegisterEnum declares an enumeration type. Values of registered
// enumerations are written by name.
func (r *Registry) RegisterEnum(enums ...*Enum) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return errors.New("converter registry is read-only once conversions started")
	}
	for _, e := range enums {
		if _, ok := r.enums[e.Type()]; ok {
			return errors.Errorf("enum %s is already registered", e.Type())
		}
		r.enums[e.Type()] = e
	}
	return nil
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed.Store(true)
	r.mu.Unlock()
}

func (r *Registry) seal() {
	if !r.sealed.Load() {
		r.Seal()
	}
}

// writeTarget finds the first converter from source to a store-native
// type. This is how a registered converter redirects a value away from its
// natural store type. Converters into domain types only serve reads.
func (r *Registry) writeTarget(source reflect.Type) (Converter, bool) {
	r.seal()
	for _, c := range r.converters {
		if c.accepts(source) && isStoreNative(c.Target) {
			return c, true
		}
	}
	return Converter{}, false
}

// lookup finds the first converter from source to exactly target.
func (r *Registry) lookup(source, target reflect.Type) (Converter, bool) {
	r.seal()
	for _, c := range r.converters {
		if c.Target == target && c.accepts(source) {
			return c, true
		}
	}
	return Converter{}, false
}

// enum returns the registered enumeration of typ.
func (r *Registry) enum(typ reflect.Type) (*Enum, bool) {
	r.seal()
	e, ok := r.enums[typ]
	return e, ok
}

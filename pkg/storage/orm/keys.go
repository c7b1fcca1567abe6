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

	"github.com/uber/cqlmap/pkg/storage/objects/base"
)

// FlattenKey reads the columns of a composite key value in ascending
// ordinal order. Values are returned as declared, before conversion. The
// second result is false when key is a nil pointer or interface.
func FlattenKey(key reflect.Value, keyEntity *Entity) ([]base.Column, bool) {
	for key.Kind() == reflect.Ptr || key.Kind() == reflect.Interface {
		if key.IsNil() {
			return nil, false
		}
		key = key.Elem()
	}
	columns := make([]base.Column, 0, len(keyEntity.keyColumns))
	for _, p := range keyEntity.keyColumns {
		columns = append(columns, base.Column{
			Name:  p.Column,
			Value: p.Value(key).Interface(),
		})
	}
	return columns, true
}

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

	"github.com/gocql/gocql"
	googleuuid "github.com/google/uuid"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	satoriuuid "github.com/satori/go.uuid"
)

var (
	_pbormanUUIDType = reflect.TypeOf(uuid.UUID(nil))
	_googleUUIDType  = reflect.TypeOf(googleuuid.UUID{})
	_satoriUUIDType  = reflect.TypeOf(satoriuuid.UUID{})
)

func isUUIDFlavour(typ reflect.Type) bool {
	switch typ {
	case _uuidType, _pbormanUUIDType, _googleUUIDType, _satoriUUIDType:
		return true
	}
	return false
}

// toCQLUUID converts any supported identifier value into the driver UUID.
func toCQLUUID(v interface{}) (gocql.UUID, bool, error) {
	switch u := v.(type) {
	case gocql.UUID:
		return u, true, nil
	case uuid.UUID:
		id, err := gocql.UUIDFromBytes(u)
		if err != nil {
			return gocql.UUID{}, true, errors.Wrap(err, "invalid uuid")
		}
		return id, true, nil
	case googleuuid.UUID:
		return gocql.UUID(u), true, nil
	case satoriuuid.UUID:
		return gocql.UUID(u), true, nil
	}
	return gocql.UUID{}, false, nil
}

// fromCQLUUID builds an identifier of the target flavour. The source may be
// a driver UUID, its 16 raw bytes or its canonical string form.
func fromCQLUUID(v interface{}, target reflect.Type) (interface{}, bool, error) {
	if !isUUIDFlavour(target) {
		return nil, false, nil
	}
	var id gocql.UUID
	switch src := v.(type) {
	case gocql.UUID:
		id = src
	case []byte:
		parsed, err := gocql.UUIDFromBytes(src)
		if err != nil {
			return nil, true, errors.Wrap(err, "invalid uuid")
		}
		id = parsed
	case string:
		parsed, err := gocql.ParseUUID(src)
		if err != nil {
			return nil, true, errors.Wrap(err, "invalid uuid")
		}
		id = parsed
	default:
		return nil, false, nil
	}

	switch target {
	case _uuidType:
		return id, true, nil
	case _pbormanUUIDType:
		return uuid.UUID(id.Bytes()), true, nil
	case _googleUUIDType:
		return googleuuid.UUID(id), true, nil
	case _satoriUUIDType:
		return satoriuuid.UUID(id), true, nil
	}
	return nil, false, nil
}

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
	"strconv"
	"strings"
	"unicode"

	"github.com/uber/cqlmap/pkg/storage/convert"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
)

const (
	// connector tag carried by the embedded base.Object
	cassandraTag = "cassandra"
	// property tag
	columnTag = "column"

	optName       = "name"
	optPrimaryKey = "primaryKey"
	optType       = "type"
	optOrdinal    = "ordinal"
	optKeyType    = "keyType"
	optOrdering   = "ordering"
	optOmitEmpty  = "omitempty"
)

// KeyType tells whether a composite key column is part of the partition
// key or a clustering column.
type KeyType int

const (
	// Partitioned columns form the partition key.
	Partitioned KeyType = iota
	// Clustered columns order rows within a partition.
	Clustered
)

func (k KeyType) String() string {
	if k == Clustered {
		return "clustered"
	}
	return "partitioned"
}

// tagOptions is the parsed form of `key=value, flag, key=value`.
type tagOptions map[string]string

func (o tagOptions) has(key string) bool {
	_, ok := o[key]
	return ok
}

// parseTag parses the `key=value, flag` annotation format, for example
// `name=valid_object, primaryKey`.
func parseTag(tag string) (tagOptions, error) {
	opts := tagOptions{}
	if strings.TrimSpace(tag) == "" {
		return opts, nil
	}
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.Errorf("empty option in tag %q", tag)
		}
		key, value := part, ""
		if i := strings.Index(part, "="); i >= 0 {
			key = strings.TrimSpace(part[:i])
			value = strings.TrimSpace(part[i+1:])
			if value == "" {
				return nil, errors.Errorf("option %q has no value", key)
			}
		}
		switch key {
		case optName, optPrimaryKey, optType, optOrdinal, optKeyType,
			optOrdering, optOmitEmpty:
		default:
			return nil, errors.Errorf("unknown option %q", key)
		}
		if opts.has(key) {
			return nil, errors.Errorf("option %q given twice", key)
		}
		opts[key] = value
	}
	return opts, nil
}

// propertyFromField builds a Property from a struct field and its tag.
func propertyFromField(
	owner reflect.Type,
	field reflect.StructField,
	index []int,
	opts tagOptions,
) (*Property, error) {
	p := &Property{
		Name:      field.Name,
		Column:    opts[optName],
		Type:      field.Type,
		StoreType: convert.Unset,
		index:     index,
		OmitEmpty: opts.has(optOmitEmpty),
	}
	if p.Column == "" {
		p.Column = snakeCase(field.Name)
	}

	if opts.has(optPrimaryKey) {
		if opts[optPrimaryKey] != "" {
			b, err := strconv.ParseBool(opts[optPrimaryKey])
			if err != nil {
				return nil, mappingError(owner,
					"field %s: primaryKey=%q is not a boolean",
					field.Name, opts[optPrimaryKey])
			}
			p.PrimaryKey = b
		} else {
			p.PrimaryKey = true
		}
	}

	if t, ok := opts[optType]; ok {
		storeType, err := convert.ParseStoreType(t)
		if err != nil {
			return nil, mappingError(owner, "field %s: %v", field.Name, err)
		}
		p.StoreType = storeType
	}

	if o, ok := opts[optOrdinal]; ok {
		ordinal, err := strconv.Atoi(o)
		if err != nil {
			return nil, mappingError(owner,
				"field %s: ordinal=%q is not an integer", field.Name, o)
		}
		p.Ordinal = ordinal
		p.hasOrdinal = true
	}

	switch strings.ToLower(opts[optKeyType]) {
	case "", "partitioned", "partition":
		p.KeyType = Partitioned
	case "clustered", "clustering":
		p.KeyType = Clustered
	default:
		return nil, mappingError(owner,
			"field %s: unknown keyType %q", field.Name, opts[optKeyType])
	}

	switch strings.ToLower(opts[optOrdering]) {
	case "", "asc", "ascending":
	case "desc", "descending":
		p.Descending = true
	default:
		return nil, mappingError(owner,
			"field %s: unknown ordering %q", field.Name, opts[optOrdering])
	}
	return p, nil
}

// storeTypeOf is used only to report the declared store type in logs.
func storeTypeOf(p *Property) string {
	if p.StoreType == gocql.TypeCustom {
		return "natural"
	}
	return p.StoreType.String()
}

// snakeCase derives a column name from a Go identifier: JobID -> job_id.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
					(unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

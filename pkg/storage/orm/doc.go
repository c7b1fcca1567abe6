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

/*
Package orm maps Go structs to table rows. There are four major components
of this layer:

  - Entity - is the metadata of a storage object, derived once from its
    struct tags by a MappingContext and cached for the process
    lifetime. A storage object embeds base.Object to carry its
    table name; its primary key is either a single column or a
    struct embedding base.CompositeKey whose columns are ordered
    by the `ordinal` tag option.

  - Writer and Reader - convert storage objects into ordered, store-native
    column lists for inserts, updates and predicates, and convert
    result rows back into Go values. All value conversions go
    through a convert.Engine.

  - Client - is the interface exposed by ORM to the application layer.
    Any application which wants to do storage operations must do
    it using the API exposed by the ORM Client.

  - Connector - is the interface the client talks to and should be
    implemented by different storage connectors. There is a
    cassandra implementation of the connector.
*/
package orm

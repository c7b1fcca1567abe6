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
	"time"
)

// Config is the config for the cassandra connector
type Config struct {
	// CassandraConn is the connection config of the cluster
	CassandraConn *CassandraConn `yaml:"connection" validate:"nonnil"`
	// StoreName is the keyspace
	StoreName string `yaml:"store_name" validate:"nonzero"`
}

// CassandraConn describes the properties to manage a Cassandra connection.
// Zero values fall back to the defaults of newCluster.
type CassandraConn struct {
	ContactPoints      []string      `yaml:"contactPoints" validate:"nonzero"`
	Port               int           `yaml:"port" validate:"min=0,max=65535"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	Consistency        string        `yaml:"consistency"`
	ConnectionsPerHost int           `yaml:"connectionsPerHost"`
	Timeout            time.Duration `yaml:"timeout"`
	SocketKeepalive    time.Duration `yaml:"socketKeepalive"`
	ProtoVersion       int           `yaml:"protoVersion"`
	DataCenter         string        `yaml:"dataCenter"` // data center filter
	PageSize           int           `yaml:"pageSize"`
	RetryCount         int           `yaml:"retryCount"`
	HostPolicy         string        `yaml:"hostPolicy"`
	CQLVersion         string        `yaml:"cqlVersion"` // set only on C* 3.x
	MaxGoRoutines      int           `yaml:"maxGoRoutines"`
}

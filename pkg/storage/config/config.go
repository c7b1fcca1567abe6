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

package config

import (
	"github.com/uber/cqlmap/pkg/storage/connectors/cassandra"
)

// Config contains the DB config of the mapping layer and the backend it
// writes to.
type Config struct {
	Cassandra cassandra.Config `yaml:"cassandra"`
	// DbWriteConcurrency bounds the number of in-flight writes of a caller
	// fanning out over the client.
	DbWriteConcurrency int `yaml:"db_write_concurrency" validate:"min=0"`
	// OrdinalEnums lists the enumeration types stored by ordinal instead of
	// by name, keyed by Go type name.
	OrdinalEnums []string `yaml:"ordinal_enums"`
	// LogLevel is the initial logrus level.
	LogLevel string `yaml:"log_level"`
}

// SecretsConfig holds credentials mounted next to the config files.
type SecretsConfig struct {
	CassandraUsername string `yaml:"cassandra_username"`
	CassandraPassword string `yaml:"cassandra_password"`
}

// Apply copies the credentials into the Cassandra connection config.
// Empty secrets leave the config untouched.
func (s SecretsConfig) Apply(c *Config) {
	if s.CassandraUsername == "" || c.Cassandra.CassandraConn == nil {
		return
	}
	c.Cassandra.CassandraConn.Username = s.CassandraUsername
	c.Cassandra.CassandraConn.Password = s.CassandraPassword
}

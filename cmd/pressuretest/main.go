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

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/uber/cqlmap/pkg/common/logging"
	"github.com/uber/cqlmap/pkg/storage/config"
	"github.com/uber/cqlmap/pkg/storage/connectors/cassandra"
	"github.com/uber/cqlmap/pkg/storage/objects"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	version string
	app     = kingpin.New("pressuretest", "Util to pressure test the C* object mapping")

	debug = app.Flag(
		"debug", "enable debug logging").
		Short('d').
		Default("false").
		Envar("ENABLE_DEBUG_LOGGING").
		Bool()

	configFiles = app.Flag(
		"config",
		"YAML config files (can be provided multiple times to merge configs)").
		Short('c').
		Required().
		ExistingFiles()

	secretsFile = app.Flag(
		"secrets", "YAML file with the Cassandra credentials").
		Envar("CASSANDRA_SECRETS").
		String()

	cassandraHosts = app.Flag(
		"cassandra-hosts", "Cassandra hosts").
		Envar("CASSANDRA_HOSTS").
		Strings()

	cassandraStore = app.Flag(
		"cassandra-store", "Cassandra store name").
		Default("").
		Envar("CASSANDRA_STORE").
		String()

	cassandraPort = app.Flag(
		"cassandra-port", "Cassandra port to connect").
		Default("0").
		Envar("CASSANDRA_PORT").
		Int()

	workers = app.Flag(
		"workers", "number of workers, defaults to db_write_concurrency").
		Short('w').
		Int()

	batchSize = app.Flag(
		"batch", "readings per worker").
		Short('t').
		Default("100").
		Int()

	validateUpdate = app.Flag(
		"validate_update", "read back updated readings").
		Short('v').
		Bool()

	createSchema = app.Flag(
		"create-schema", "create the keyspace and table if they do not exist").
		Bool()

	httpPort = app.Flag(
		"http-port", "port serving the logging level endpoint, 0 disables it").
		Default("0").
		Int()
)

// Util to generate load on C* through the object mapping client
func main() {
	app.Version(version)
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if errs := run(); len(errs) > 0 {
		os.Exit(1)
	}
}

func run() []error {
	log.SetFormatter(
		&logging.LogFieldFormatter{
			Formatter: &logging.SecretsFormatter{JSONFormatter: &log.JSONFormatter{}},
			Fields: log.Fields{
				"app": app.Name,
			},
		},
	)
	log.WithField("files", *configFiles).Debug("Loading pressuretest config")

	cfg, err := config.Load(*secretsFile, *configFiles...)
	if err != nil {
		log.WithError(err).Fatal("Cannot parse yaml config")
	}
	overrideConfig(cfg)

	initialLevel, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("Invalid log level")
	}
	if *debug {
		initialLevel = log.DebugLevel
	}
	levels := logging.NewLevelController(log.StandardLogger(), initialLevel)
	if *httpPort != 0 {
		mux := http.NewServeMux()
		mux.Handle(logging.LevelOverwrite, levels)
		go func() {
			addr := fmt.Sprintf(":%d", *httpPort)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.WithError(err).Error("Logging level endpoint stopped")
			}
		}()
	}

	rootScope, scopeCloser := tally.NewRootScope(tally.ScopeOptions{
		Prefix:   "pressuretest",
		Reporter: tally.NullStatsReporter,
	}, time.Second)
	defer scopeCloser.Close()

	ordinal := ordinalState(cfg.OrdinalEnums)
	if *createSchema {
		if err := ensureSchema(&cfg.Cassandra, ordinal); err != nil {
			log.WithError(err).Fatal("Could not create schema")
		}
	}

	mc, err := objects.NewMappingContext(cfg.OrdinalEnums, rootScope)
	if err != nil {
		log.WithError(err).Fatal("Could not create mapping context")
	}
	store, err := objects.NewCassandraStore(&cfg.Cassandra, mc, rootScope)
	if err != nil {
		log.WithError(err).Fatal("Could not create store")
	}

	n := *workers
	if n == 0 {
		n = cfg.DbWriteConcurrency
	}
	if n == 0 {
		n = 1
	}
	ops := objects.NewReadingOps(store)
	return newTester(ops, rootScope, *validateUpdate).run(n, *batchSize)
}

// overrideConfig applies the command line overrides of the C* connection.
func overrideConfig(cfg *config.Config) {
	if cfg.Cassandra.CassandraConn == nil {
		cfg.Cassandra.CassandraConn = &cassandra.CassandraConn{}
	}
	if len(*cassandraHosts) > 0 {
		cfg.Cassandra.CassandraConn.ContactPoints = *cassandraHosts
	}
	if *cassandraStore != "" {
		cfg.Cassandra.StoreName = *cassandraStore
	}
	if *cassandraPort != 0 {
		cfg.Cassandra.CassandraConn.Port = *cassandraPort
	}
}

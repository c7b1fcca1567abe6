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

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultConnectionsPerHost = 3
	// defaultTimeout is overwritten by timeout provided
	// in cassandra config.
	defaultTimeout         = 20000 * time.Millisecond
	defaultProtoVersion    = 3
	defaultConsistency     = "LOCAL_QUORUM"
	defaultSocketKeepAlive = 30 * time.Second
	defaultPageSize        = 1000
	defaultPort            = 9042
	defaultRetryCount      = 3

	tokenAwareHostPolicy = "TokenAwareHostPolicy"
)

// CreateStoreSession is to create clusters and connections
func CreateStoreSession(
	storeConfig *CassandraConn, keySpace string) (*gocql.Session, error) {
	cluster, err := newCluster(storeConfig)
	if err != nil {
		return nil, err
	}
	cluster.Keyspace = keySpace

	cSession, err := cluster.CreateSession()
	if err != nil {
		log.WithError(err).Error("Fail to create C* session")
		return nil, err
	}

	log.WithFields(log.Fields{
		"key_space":      keySpace,
		"cassandra_port": cluster.Port,
	}).Info("C* Session Created.")
	return cSession, nil
}

// newCluster returns a clusterConfig object
func newCluster(config *CassandraConn) (*gocql.ClusterConfig, error) {
	cluster := gocql.NewCluster(config.ContactPoints...)

	consistency := config.Consistency
	if consistency == "" {
		consistency = defaultConsistency
	}
	c, err := gocql.ParseConsistencyWrapper(consistency)
	if err != nil {
		return nil, errors.Wrap(err, "invalid consistency")
	}
	cluster.Consistency = c

	cluster.Timeout = config.Timeout
	if cluster.Timeout == 0 {
		cluster.Timeout = defaultTimeout
	}

	cluster.NumConns = config.ConnectionsPerHost
	if cluster.NumConns == 0 {
		cluster.NumConns = defaultConnectionsPerHost
	}

	cluster.ProtoVersion = config.ProtoVersion
	if cluster.ProtoVersion == 0 {
		cluster.ProtoVersion = defaultProtoVersion
	}

	cluster.SocketKeepalive = config.SocketKeepalive
	if cluster.SocketKeepalive == 0 {
		cluster.SocketKeepalive = defaultSocketKeepAlive
	}

	cluster.PageSize = config.PageSize
	if cluster.PageSize == 0 {
		cluster.PageSize = defaultPageSize
	}

	cluster.Port = config.Port
	if cluster.Port == 0 {
		cluster.Port = defaultPort
	}

	dc := config.DataCenter
	if dc != "" {
		cluster.HostFilter = gocql.DataCentreHostFilter(dc)
	}

	if config.HostPolicy == tokenAwareHostPolicy {
		if dc != "" {
			cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
				gocql.DCAwareRoundRobinPolicy(dc))
		} else {
			cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
				gocql.RoundRobinHostPolicy())
		}
	} else {
		cluster.PoolConfig.HostSelectionPolicy = gocql.RoundRobinHostPolicy()
	}

	if len(config.CQLVersion) > 0 {
		cluster.CQLVersion = config.CQLVersion
	}

	retries := config.RetryCount
	if retries == 0 {
		retries = defaultRetryCount
	}
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: retries}

	if len(config.Username) != 0 {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Username,
			Password: config.Password,
		}
	}
	return cluster, nil
}

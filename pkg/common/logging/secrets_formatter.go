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

package logging

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	// DBStmtLogField is the log field carrying a CQL statement
	DBStmtLogField = "db_stmt"
	// DBArgsLogField is the log field carrying the bound statement values
	DBArgsLogField = "db_args"

	redactedStr = "REDACTED"
)

// _secretFields are always redacted.
var _secretFields = map[string]struct{}{
	"password":           {},
	"cassandra_password": {},
}

// SecretsFormatter scrubs sensitive information from logs and formats logs into
// parsable json.
type SecretsFormatter struct {
	*log.JSONFormatter
	// Tables whose statements must not be logged with their values
	Tables []string
}

func (f *SecretsFormatter) isSensitive(stmt string) bool {
	for _, t := range f.Tables {
		if strings.Contains(stmt, t) {
			return true
		}
	}
	return false
}

// Format is called by logrus and returns the formatted string.
// It looks for secrets data in each entry and redacts it.
func (f *SecretsFormatter) Format(entry *log.Entry) ([]byte, error) {
	data := make(log.Fields, len(entry.Data))
	for k, v := range entry.Data {
		data[k] = v
	}
	for k, v := range entry.Data {
		if _, ok := _secretFields[strings.ToLower(k)]; ok {
			data[k] = redactedStr
			continue
		}
		stmt, ok := v.(string)
		if !ok || k != DBStmtLogField || !f.isSensitive(stmt) {
			continue
		}
		// the values bound to the statement carry the sensitive data
		data[k] = redactedStr
		if _, ok := data[DBArgsLogField]; ok {
			data[DBArgsLogField] = redactedStr
		}
	}
	clone := *entry
	clone.Data = data
	return f.JSONFormatter.Format(&clone)
}

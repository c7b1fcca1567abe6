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
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

const (
	// LevelOverwrite is the endpoint path of a LevelController.
	LevelOverwrite = "/logging-level"

	// MaxOverrideDuration caps how long an override stays in effect.
	MaxOverrideDuration = time.Hour

	_level    = "level"
	_duration = "duration"
	_usage    = "usage: GET `" + LevelOverwrite +
		"[?level=<info|debug|trace>&duration=<duration>]`"
)

// ParseLevel parses a logrus level name. An empty name is the info level.
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(name)
}

// LevelController raises the level of a logger for a bounded time, e.g. to
// see the statements of failing CQL queries, which are logged at debug.
// When overrides overlap the latest one decides when the base level comes
// back.
type LevelController struct {
	logger *log.Logger
	base   log.Level

	// generation of the override currently in effect
	generation atomic.Uint64
	// unix nanos at which the current override ends, 0 when none
	until atomic.Int64
}

// NewLevelController sets logger to base and returns its controller.
func NewLevelController(logger *log.Logger, base log.Level) *LevelController {
	logger.SetLevel(base)
	return &LevelController{logger: logger, base: base}
}

// Level returns the current level of the logger.
func (c *LevelController) Level() log.Level {
	return c.logger.GetLevel()
}

// Override sets level for d. Only levels at or above info in verbosity are
// accepted.
func (c *LevelController) Override(level log.Level, d time.Duration) error {
	if level < log.InfoLevel {
		return errors.Errorf("level %s is below info", level)
	}
	if d <= 0 || d > MaxOverrideDuration {
		return errors.Errorf(
			"duration %v is not in (0, %v]", d, MaxOverrideDuration)
	}

	gen := c.generation.Inc()
	c.until.Store(time.Now().Add(d).UnixNano())
	c.logger.SetLevel(level)
	c.logger.WithFields(log.Fields{
		"new_level": level,
		"duration":  d,
	}).Info("Setting log level to new level")

	time.AfterFunc(d, func() { c.reset(gen) })
	return nil
}

// reset restores the base level unless a later override replaced gen.
func (c *LevelController) reset(gen uint64) {
	if !c.generation.CompareAndSwap(gen, gen+1) {
		return
	}
	c.until.Store(0)
	c.logger.SetLevel(c.base)
	c.logger.WithField("base_level", c.base).
		Info("Resetting log level after timer")
}

// ServeHTTP reports the current level, or overrides it when both level and
// duration are given.
func (c *LevelController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	levelName, durationText := values.Get(_level), values.Get(_duration)

	if levelName == "" && durationText == "" {
		fmt.Fprintf(w, "level %s", c.Level())
		if until := c.until.Load(); until != 0 {
			fmt.Fprintf(w, " until %s",
				time.Unix(0, until).UTC().Format(time.RFC3339))
		}
		fmt.Fprintln(w)
		return
	}
	if levelName == "" || durationText == "" {
		writeError(w, errors.Errorf("both %s and %s are required",
			_level, _duration))
		return
	}

	level, err := log.ParseLevel(levelName)
	if err != nil {
		writeError(w, err)
		return
	}
	d, err := time.ParseDuration(durationText)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := c.Override(level, d); err != nil {
		writeError(w, err)
		return
	}
	fmt.Fprintf(w, "Level changed to %s for the next %v.\n", level, d)
}

func writeError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintln(w, err.Error())
	fmt.Fprintln(w, _usage)
}

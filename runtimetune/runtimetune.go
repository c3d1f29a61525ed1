// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package runtimetune lets a host process opt a running library into
// container-aware GOMAXPROCS tuning without forcing it on every
// importer: a long-lived process hosting many links benefits from
// matching GOMAXPROCS to its cgroup quota, but a short CLI invocation
// or test binary should not have its runtime silently reconfigured as
// a side effect of importing this module.
package runtimetune

import (
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/b2atech/r2000/logger"
)

// Apply sets GOMAXPROCS from the active cgroup CPU quota, logging the
// outcome through the package logger. Call it once, early, from a host
// application's entry point.
func Apply() {
	_, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Infof(format, args...)
	}))
	if err != nil {
		logger.Warnf("runtimetune: could not set GOMAXPROCS: %v", err)
	}
}

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

// Package metrics exposes the link's counters and gauges via the
// default prometheus registry, labelled by handle so a host process
// running several links can tell them apart.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/b2atech/r2000/common"
)

var (
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "uptime",
			Help:      "Uptime in seconds",
		},
	)

	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version", "git_hash", "build_time"},
	)

	ScansCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "scans_completed_total",
			Help:      "Scans fully assembled and published",
		},
		[]string{"handle"},
	)

	PacketsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "packets_dropped_total",
			Help:      "Packets discarded by assembly desync or header validation failure",
		},
		[]string{"handle", "reason"},
	)

	ReconnectAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "reconnect_attempts_total",
			Help:      "TCP reconnect supervisor attempts",
		},
		[]string{"handle"},
	)

	WatchdogFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "watchdog_failures_total",
			Help:      "feed_watchdog calls that did not succeed",
		},
		[]string{"handle"},
	)

	StatusPollFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "status_poll_failures_total",
			Help:      "get_parameters polls that did not succeed",
		},
		[]string{"handle"},
	)

	ConnectivityFlag = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "connected",
			Help:      "1 if the link's connectivity flag is currently true, else 0",
		},
		[]string{"handle"},
	)
)

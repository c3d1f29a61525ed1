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

package handle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUDPOptionsPortShadowsTCPPort(t *testing.T) {
	opts := UDPOptions{
		TCPOptions: TCPOptions{Port: 5000, Watchdog: true, WatchdogTimeout: 30 * time.Second},
		Address:    "0.0.0.0",
		Port:       6000,
	}

	assert.Equal(t, 6000, opts.Port)
	assert.Equal(t, 5000, opts.TCPOptions.Port)
}

func TestHandleDefaults(t *testing.T) {
	h := Handle{ID: "abc", Address: "192.168.1.1", Port: 5000}
	assert.False(t, h.WatchdogEnabled)
	assert.Zero(t, h.WatchdogTimeout)
}

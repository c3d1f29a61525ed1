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

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretFlags(t *testing.T) {
	raw := uint32(bitDeviceError | bitHeadBusy | bitPollutionWarning)
	flags := InterpretFlags(raw)

	assert.True(t, flags.DeviceError)
	assert.True(t, flags.HeadBusy)
	assert.True(t, flags.PollutionWarning)
	assert.False(t, flags.TemperatureWarning)
	assert.False(t, flags.TemperatureError)
	assert.False(t, flags.PollutionError)
}

func TestInterpretFlagsZero(t *testing.T) {
	flags := InterpretFlags(0)
	assert.Equal(t, Flags{}, flags)
}

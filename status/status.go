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

// Package status polls the device's housekeeping parameters on a fixed
// period, decodes its status flags, and raises debounced connect/
// disconnect edges.
package status

import "time"

// Flags decodes the 32-bit status_flags field into named booleans,
// covering device error, temperature warning/error, head busy, the
// pollution/contamination bits, and the two application-defined flags.
type Flags struct {
	DeviceError        bool
	TemperatureWarning bool
	TemperatureError   bool
	HeadBusy           bool
	PollutionWarning   bool
	PollutionError     bool
	ApplicationFlag0   bool
	ApplicationFlag1   bool
}

const (
	bitDeviceError = 1 << iota
	bitTemperatureWarning
	bitTemperatureError
	bitHeadBusy
	bitPollutionWarning
	bitPollutionError
	bitApplicationFlag0
	bitApplicationFlag1
)

// InterpretFlags decodes raw into a Flags value. It is a pure function
// with no side effects, so it is trivial to unit test in isolation.
func InterpretFlags(raw uint32) Flags {
	return Flags{
		DeviceError:        raw&bitDeviceError != 0,
		TemperatureWarning: raw&bitTemperatureWarning != 0,
		TemperatureError:   raw&bitTemperatureError != 0,
		HeadBusy:           raw&bitHeadBusy != 0,
		PollutionWarning:   raw&bitPollutionWarning != 0,
		PollutionError:     raw&bitPollutionError != 0,
		ApplicationFlag0:   raw&bitApplicationFlag0 != 0,
		ApplicationFlag1:   raw&bitApplicationFlag1 != 0,
	}
}

// DeviceStatus is the parameter snapshot fetched every poll period.
type DeviceStatus struct {
	CPULoad             float64
	RawSystemTime       uint64
	Uptime              time.Duration
	PowerCycles         uint64
	OperationTime       time.Duration
	OperationTimeScaled time.Duration
	CurrentTemperature  float64
	MinTemperature      float64
	MaxTemperature      float64
	Flags               Flags
}

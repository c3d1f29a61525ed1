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

package control

import "context"

// Channel sends a Command with Params over the control transport and
// waits for a decoded Tree or error. Implementations own the actual
// HTTP client; this module only depends on the interface.
type Channel interface {
	Send(ctx context.Context, cmd Command, params Params) (Tree, error)
}

// Result classifies the outcome of a control command for callers that
// want a timeout/failure distinction rather than a bare error.
type Result int

const (
	ResultSuccess Result = iota
	ResultTimeout
	ResultFailed
)

// String renders the Result for logging.
func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultTimeout:
		return "timeout"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Classify turns the return of a Channel.Send call into a Result: ctx
// deadline/cancellation maps to ResultTimeout, any other error or a
// non-zero device error_code maps to ResultFailed, otherwise Success.
func Classify(tree Tree, err error) Result {
	if err != nil {
		if err == context.DeadlineExceeded || err == context.Canceled {
			return ResultTimeout
		}
		return ResultFailed
	}
	if !tree.Success() {
		return ResultFailed
	}
	return ResultSuccess
}

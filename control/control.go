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

// Package control models the device's HTTP control channel: a command
// verb plus key/value parameters, answered with a JSON tree carrying an
// error_code/error_text pair. The transport itself
// (HTTP GET to /cmd/<verb>) lives outside this module — Channel is the
// seam a host application wires to its own HTTP client.
package control

import "github.com/goccy/go-json"

// Command is one of the verbs the streaming core issues against the
// control channel.
type Command string

const (
	StartScan        Command = "start_scan"
	StopScan         Command = "stop_scan"
	ReleaseHandle    Command = "release_handle"
	FeedWatchdog     Command = "feed_watchdog"
	RequestTCPHandle Command = "request_tcp_handle"
	RequestUDPHandle Command = "request_udp_handle"
	GetParameters    Command = "get_parameters"
)

// Params is the set of query parameters sent alongside a Command.
type Params map[string]string

// Tree is the decoded JSON response body of a control command: an
// error_code/error_text pair plus whatever other fields the verb
// returns (e.g. handle, port, parameter values). It is backed by
// goccy/go-json for decode performance on the hot get_parameters path
// StatusWatcher exercises every poll period.
type Tree struct {
	ErrorCode int               `json:"error_code"`
	ErrorText string            `json:"error_text"`
	Fields    map[string]string `json:"-"`
}

// Success reports whether the device answered with error_code 0.
func (t Tree) Success() bool {
	return t.ErrorCode == 0
}

// UnmarshalJSON decodes error_code/error_text plus captures the
// remaining fields as strings, matching the device's flat JSON
// parameter responses.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var shape struct {
		ErrorCode int    `json:"error_code"`
		ErrorText string `json:"error_text"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return err
	}
	t.ErrorCode = shape.ErrorCode
	t.ErrorText = shape.ErrorText

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	t.Fields = make(map[string]string, len(all))
	for k, v := range all {
		if k == "error_code" || k == "error_text" {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			t.Fields[k] = s
			continue
		}
		t.Fields[k] = string(v)
	}
	return nil
}

// Get returns a parameter field by name.
func (t Tree) Get(key string) (string, bool) {
	v, ok := t.Fields[key]
	return v, ok
}

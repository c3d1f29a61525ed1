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

package r2000

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b2atech/r2000/control"
	"github.com/b2atech/r2000/handle"
)

type fakeChannel struct {
	tree control.Tree
	err  error
}

func (f fakeChannel) Send(context.Context, control.Command, control.Params) (control.Tree, error) {
	return f.tree, f.err
}

func TestTCPBuilderBuildFailureSurfacesControlError(t *testing.T) {
	ch := fakeChannel{tree: control.Tree{ErrorCode: 2, ErrorText: "busy"}}
	b := TCPBuilder{Channel: ch, Options: handle.TCPOptions{PacketType: handle.PacketTypeC}}

	_, err := b.Build(context.Background(), "192.168.1.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")
}

func TestHandleFromTree(t *testing.T) {
	tree := control.Tree{Fields: map[string]string{"handle": "abc", "port": "5000"}}
	h := handleFromTree(tree, "10.0.0.1", true, 30*time.Second)

	assert.Equal(t, "abc", h.ID)
	assert.Equal(t, 5000, h.Port)
	assert.Equal(t, "10.0.0.1", h.Address)
	assert.True(t, h.WatchdogEnabled)
	assert.Equal(t, 30*time.Second, h.WatchdogTimeout)
}

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

package handoff

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotLoadEmpty(t *testing.T) {
	s := NewSlot[int]()
	_, ok := s.Load()
	assert.False(t, ok)
}

func TestSlotPublishAndLoad(t *testing.T) {
	s := NewSlot[int]()
	s.Publish(42)
	v, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, 42, v)

	s.Publish(43)
	v, ok = s.Load()
	require.True(t, ok)
	assert.Equal(t, 43, v)
}

func TestSlotListenersFireInPublishOrder(t *testing.T) {
	s := NewSlot[int]()

	var got []int
	s.AddListener(func(v *int) { got = append(got, *v) })

	s.Publish(1)
	s.Publish(2)
	s.Publish(3)

	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestSlotListenerPanicDoesNotStopPublish(t *testing.T) {
	s := NewSlot[int]()

	var calls atomic.Int32
	s.AddListener(func(v *int) { panic("boom") })
	s.AddListener(func(v *int) { calls.Add(1) })

	s.Publish(1)

	assert.Equal(t, int32(1), calls.Load())
	v, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestSlotAlternatesSlots(t *testing.T) {
	s := NewSlot[string]()
	s.Publish("a")
	idxA := s.index.Load()
	s.Publish("b")
	idxB := s.index.Load()
	assert.NotEqual(t, idxA, idxB)
}

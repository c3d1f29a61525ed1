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

package bufbytes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndConsume(t *testing.T) {
	b := New(10)
	require.NoError(t, b.Append([]byte("hello")))
	require.NoError(t, b.Append([]byte("world")))
	assert.Equal(t, []byte("helloworld"), b.Bytes())
	assert.Equal(t, 10, b.Len())

	b.Consume(5)
	assert.Equal(t, []byte("world"), b.Bytes())
	assert.Equal(t, 5, b.Len())

	b.Consume(100)
	assert.Equal(t, 0, b.Len())
}

func TestAppendOverflow(t *testing.T) {
	b := New(5)
	require.NoError(t, b.Append([]byte("hello")))
	err := b.Append([]byte("x"))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestConsumeCompactsBackingArray(t *testing.T) {
	b := New(8)
	require.NoError(t, b.Append([]byte("abcd")))
	b.Consume(2)
	require.NoError(t, b.Append([]byte("ef")))
	assert.Equal(t, []byte("cdef"), b.Bytes())
}

func TestReset(t *testing.T) {
	b := New(8)
	require.NoError(t, b.Append([]byte("abcd")))
	b.Reset()
	assert.Equal(t, 0, b.Len())
}

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

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeUnmarshalSuccess(t *testing.T) {
	var tree Tree
	err := tree.UnmarshalJSON([]byte(`{"error_code":0,"error_text":"success","handle":"abc123","port":"5000"}`))
	require.NoError(t, err)
	assert.True(t, tree.Success())

	handle, ok := tree.Get("handle")
	require.True(t, ok)
	assert.Equal(t, "abc123", handle)

	port, ok := tree.Get("port")
	require.True(t, ok)
	assert.Equal(t, "5000", port)
}

func TestTreeUnmarshalFailure(t *testing.T) {
	var tree Tree
	err := tree.UnmarshalJSON([]byte(`{"error_code":1,"error_text":"invalid parameter"}`))
	require.NoError(t, err)
	assert.False(t, tree.Success())
	assert.Equal(t, "invalid parameter", tree.ErrorText)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ResultSuccess, Classify(Tree{ErrorCode: 0}, nil))
	assert.Equal(t, ResultFailed, Classify(Tree{ErrorCode: 1}, nil))
	assert.Equal(t, ResultTimeout, Classify(Tree{}, context.DeadlineExceeded))
	assert.Equal(t, ResultFailed, Classify(Tree{}, assertErr))
}

var assertErr = assertError("boom")

type assertError string

func (e assertError) Error() string { return string(e) }

func TestResultString(t *testing.T) {
	assert.Equal(t, "success", ResultSuccess.String())
	assert.Equal(t, "timeout", ResultTimeout.String())
	assert.Equal(t, "failed", ResultFailed.String())
}

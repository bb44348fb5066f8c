// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package json

import (
	"testing"

	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLayout() *trace.Layout {
	layout := trace.NewLayout()
	m := layout.AddModule("m")
	layout.AddColumn(m, "X")
	layout.AddColumn(m, "Y")
	layout.AddModule("n")
	//
	return layout
}

func Test_Json_01(t *testing.T) {
	tr, err := FromBytes(newLayout(), []byte(`{"m": {"X": [1, 2], "Y": [3, 4]}}`))
	require.NoError(t, err)
	//
	assert.Equal(t, uint(2), tr.Module(0).Height())
	assert.Equal(t, uint(0), tr.Module(1).Height())
	assert.Equal(t, field.Uint64(4), tr.Module(0).Get(1, 1))
	assert.Equal(t, `{"m": {"X": [1, 2], "Y": [3, 4]}, "n": {}}`, ToJsonString(tr))
}

func Test_Json_02(t *testing.T) {
	// Omitted columns are zero
	tr, err := FromBytes(newLayout(), []byte(`{"m": {"Y": [3]}}`))
	require.NoError(t, err)
	assert.Equal(t, `{"m": {"X": [0], "Y": [3]}, "n": {}}`, ToJsonString(tr))
}

func Test_Json_03(t *testing.T) {
	var inputs = []string{
		`{"k": {"X": [1]}}`,
		`{"m": {"Z": [1]}}`,
		`{"m": {"X": [1], "Y": [1, 2]}}`,
		`{"m": {"X": [-1]}}`,
		`{"m": {"X": [8444461749428370424248824938781546531375899335154063827935233455917409239041]}}`,
		`{"m": {"X": [1}}`,
	}
	//
	for _, input := range inputs {
		_, err := FromBytes(newLayout(), []byte(input))
		assert.Error(t, err, input)
	}
}

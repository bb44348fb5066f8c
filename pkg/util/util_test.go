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
package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type shift int

func (p shift) Bounds() Bounds { return ShiftBounds(int(p)) }

func Test_Bounds_01(t *testing.T) {
	// Reading the next and previous rows
	bounds := BoundsOf([]shift{1, 0, -1})
	assert.Equal(t, NewBounds(1, 1), bounds)
	//
	assert.False(t, bounds.Contains(0, 4))
	assert.True(t, bounds.Contains(1, 4))
	assert.True(t, bounds.Contains(2, 4))
	assert.False(t, bounds.Contains(3, 4))
	// Nothing is defined when the table is too short
	assert.False(t, bounds.Contains(1, 2))
	// Reading only the current row
	assert.Equal(t, Unshifted, BoundsOf([]shift{0, 0}))
	assert.True(t, Unshifted.Contains(0, 1))
}

func Test_Phase_01(t *testing.T) {
	fields := StartPhase("assigning").Done()
	//
	assert.Contains(t, fields, "time")
	assert.Contains(t, fields, "mb")
	assert.Contains(t, fields, "gcs")
}

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
package cmd

import (
	"testing"

	"github.com/consensys/go-etable/pkg/mtable"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/stretchr/testify/assert"
)

func cell(mid trace.ModuleId, cid uint, row int) trace.CellRef {
	return trace.NewCellRef(trace.NewColumnRef(mid, cid), row)
}

func Test_Report_01(t *testing.T) {
	cells := []trace.CellRef{cell(1, 0, 4), cell(0, 2, 3), cell(1, 1, -1), cell(0, 0, 7)}
	//
	assert.Equal(t, []trace.ModuleId{1, 0}, modulesOf(cells))
	//
	start, end := rowsOf(cells, 0)
	assert.Equal(t, []uint{3, 7}, []uint{start, end})
	// Negative rows (i.e. before the first row) are clamped
	start, end = rowsOf(cells, 1)
	assert.Equal(t, []uint{0, 4}, []uint{start, end})
}

func Test_Parse_01(t *testing.T) {
	assert.Equal(t, mtable.Global, parseLocationType("global"))
	assert.Equal(t, mtable.Init, parseAccessType("init"))
}

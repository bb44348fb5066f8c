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
package trace

import (
	"cmp"
	"fmt"
)

// ModuleId identifies a module within a layout (and, hence, within any trace
// constructed from that layout).
type ModuleId = uint

// ColumnRef abstracts a complete (i.e. global) column identifier.
type ColumnRef struct {
	// Module containing this column
	mid ModuleId
	// Column index within that module
	cid uint
}

// NewColumnRef constructs a new column reference from the given module and
// column identifiers.
func NewColumnRef(mid ModuleId, cid uint) ColumnRef {
	return ColumnRef{mid, cid}
}

// Module returns the module identifier of this column reference.
func (p ColumnRef) Module() ModuleId {
	return p.mid
}

// Column returns the column index (within its module) of this column
// reference.
func (p ColumnRef) Column() uint {
	return p.cid
}

// Cmp compares two column references, first by module and then by column.
func (p ColumnRef) Cmp(q ColumnRef) int {
	var c = cmp.Compare(p.mid, q.mid)
	//
	if c == 0 {
		c = cmp.Compare(p.cid, q.cid)
	}
	//
	return c
}

func (p ColumnRef) String() string {
	return fmt.Sprintf("%d:%d", p.mid, p.cid)
}

// ============================================================================

// CellRef identifies a unique cell within a given trace.
type CellRef struct {
	// Column index for the cell
	Column ColumnRef
	// Row index for the cell
	Row int
}

// NewCellRef constructs a new cell reference.
func NewCellRef(column ColumnRef, row int) CellRef {
	return CellRef{column, row}
}

// Cmp compares two cell references, first by column and then by row.
func (p CellRef) Cmp(q CellRef) int {
	var c = p.Column.Cmp(q.Column)
	//
	if c == 0 {
		c = cmp.Compare(p.Row, q.Row)
	}
	//
	return c
}

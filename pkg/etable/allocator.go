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
package etable

import (
	"fmt"

	"github.com/consensys/go-etable/pkg/trace"
)

// Layout determines how many cells of each kind are available to every
// opcode.  Since only one opcode is active on any given row, all opcodes share
// the same physical columns.
type Layout struct {
	RangeCells   uint
	U64Cells     uint
	MLookupCells uint
}

// DefaultLayout returns a layout sufficient for every supported opcode.
func DefaultLayout() Layout {
	return Layout{RangeCells: 8, U64Cells: 2, MLookupCells: 4}
}

// CommonCells are those shared by every opcode.
type CommonCells struct {
	Enabled      Cell
	Eid          Cell
	Moid         Cell
	Fid          Cell
	Iid          Cell
	Sp           Cell
	Mops         Cell
	ItableLookup Cell
}

type cellPool struct {
	ranges  []RangeCell
	u64s    []U64Cell
	lookups []MLookupCell
}

func newCellPool(layout *trace.Layout, mid trace.ModuleId, cells Layout) *cellPool {
	var pool cellPool
	//
	for i := uint(0); i < cells.RangeCells; i++ {
		pool.ranges = append(pool.ranges, RangeCell{Cell{layout.AddColumn(mid, fmt.Sprintf("range_%d", i))}})
	}
	//
	for i := uint(0); i < cells.U64Cells; i++ {
		var u64 U64Cell
		//
		u64.Column = layout.AddColumn(mid, fmt.Sprintf("u64_%d", i))
		//
		for j := range u64.Limbs {
			u64.Limbs[j] = Cell{layout.AddColumn(mid, fmt.Sprintf("u64_%d_limb_%d", i, j))}
		}
		//
		pool.u64s = append(pool.u64s, u64)
	}
	//
	for i := uint(0); i < cells.MLookupCells; i++ {
		pool.lookups = append(pool.lookups, MLookupCell{Cell{layout.AddColumn(mid, fmt.Sprintf("mlookup_%d", i))}})
	}
	//
	return &pool
}

// Allocator hands out cells to a single opcode builder.  Allocation is
// deterministic: the nth cell of a given kind requested by a builder is always
// the nth column of that kind.  Each builder is given its own allocator, hence
// builders never observe each other's allocations.  Exhausting the available
// cells is a definition-time defect, and panics.
type Allocator struct {
	common *CommonCells
	pool   *cellPool
	// number of cells of each kind allocated so far
	ranges, u64s, lookups uint
}

// Fork returns a fresh allocator over the same cells, as used for the next
// opcode builder.
func (p *Allocator) Fork() *Allocator {
	return &Allocator{common: p.common, pool: p.pool}
}

// AllocRangeCell allocates the next range cell.
func (p *Allocator) AllocRangeCell() RangeCell {
	if p.ranges >= uint(len(p.pool.ranges)) {
		panic(fmt.Sprintf("range cells exhausted (%d available)", len(p.pool.ranges)))
	}
	//
	p.ranges++
	//
	return p.pool.ranges[p.ranges-1]
}

// AllocU64Cell allocates the next u64 cell.
func (p *Allocator) AllocU64Cell() U64Cell {
	if p.u64s >= uint(len(p.pool.u64s)) {
		panic(fmt.Sprintf("u64 cells exhausted (%d available)", len(p.pool.u64s)))
	}
	//
	p.u64s++
	//
	return p.pool.u64s[p.u64s-1]
}

// AllocMLookupCell allocates the next memory lookup cell.  The nth lookup cell
// allocated holds the nth memory operation of the opcode.
func (p *Allocator) AllocMLookupCell() MLookupCell {
	if p.lookups >= uint(len(p.pool.lookups)) {
		panic(fmt.Sprintf("memory lookup cells exhausted (%d available)", len(p.pool.lookups)))
	}
	//
	p.lookups++
	//
	return p.pool.lookups[p.lookups-1]
}

// Used returns the number of range, u64 and memory lookup cells allocated.
func (p *Allocator) Used() (uint, uint, uint) {
	return p.ranges, p.u64s, p.lookups
}

// Eid returns the cell holding the execution index.
func (p *Allocator) Eid() Cell {
	return p.common.Eid
}

// Moid returns the cell holding the current module identifier.
func (p *Allocator) Moid() Cell {
	return p.common.Moid
}

// Sp returns the cell holding the stack pointer (before execution).
func (p *Allocator) Sp() Cell {
	return p.common.Sp
}

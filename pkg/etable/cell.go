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

	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/mtable"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util/field"
)

// RangeCellBits is the bitwidth of a range cell, and of each limb of a u64
// cell.
const RangeCellBits = 16

// U64Limbs is the number of limbs making up a u64 cell.
const U64Limbs = 4

// RowContext identifies the row (relative to the current row) on which cell
// expressions are evaluated.
type RowContext struct {
	Rotation int
}

// Cur returns the context for the current row.
func Cur() RowContext {
	return RowContext{0}
}

// Next returns the context for the row following this.
func (p RowContext) Next() RowContext {
	return RowContext{p.Rotation + 1}
}

// Context is the cursor used at witness time, identifying the row being
// assigned.  Each row has its own context, hence distinct contexts can be used
// concurrently.
type Context struct {
	module *trace.Module
	row    uint
}

// NewContext constructs a cursor for a given row of a given module.
func NewContext(module *trace.Module, row uint) *Context {
	return &Context{module, row}
}

// Row returns the row identified by this context.
func (p *Context) Row() uint {
	return p.row
}

// Module returns the module being assigned.
func (p *Context) Module() *trace.Module {
	return p.module
}

// ============================================================================
// Cells
// ============================================================================

// Cell is a storage location within a row of the execution table.
type Cell struct {
	Column trace.ColumnRef
}

// Expr returns an expression for the value of this cell on the row identified
// by the given context.
func (p Cell) Expr(meta RowContext) term.Term {
	return term.NewColumnAccess(p.Column.Column(), meta.Rotation)
}

// Assign a given value to this cell.
func (p Cell) Assign(ctx *Context, val field.Element) {
	ctx.module.Set(p.Column.Column(), ctx.row, val)
}

// Get returns the value assigned to this cell.
func (p Cell) Get(ctx *Context) field.Element {
	return ctx.module.Get(p.Column.Column(), int(ctx.row))
}

func (p Cell) name(ctx *Context) string {
	return ctx.module.Layout().ColumnName(p.Column.Column())
}

// RangeCell is a cell whose value is restricted to a small range (16bits).
// This is used for indices, identifiers and types.
type RangeCell struct {
	Cell
}

// Assign a native value to this cell, failing if it does not fit.
func (p RangeCell) Assign(ctx *Context, val uint64) error {
	if val >= 1<<RangeCellBits {
		return &AssignError{p.name(ctx), ctx.row, fmt.Sprintf("%d", val),
			fmt.Errorf("exceeds u%d", RangeCellBits)}
	}
	//
	p.Cell.Assign(ctx, field.Uint64(val))
	//
	return nil
}

// U64Cell is a cell holding a 64bit machine word, which is decomposed into
// range checked limbs (least significant first).
type U64Cell struct {
	Cell
	Limbs [U64Limbs]Cell
}

// Assign a native value to this cell and its limbs.  Since every machine word
// fits, this cannot fail.
func (p U64Cell) Assign(ctx *Context, val uint64) error {
	p.Cell.Assign(ctx, field.Uint64(val))
	//
	for i, limb := range p.Limbs {
		limb.Assign(ctx, field.Uint64((val>>(i*RangeCellBits))&(1<<RangeCellBits-1)))
	}
	//
	return nil
}

// MLookupCell holds the encoding of a memory event, which is looked up in the
// memory table.
type MLookupCell struct {
	Cell
}

// AssignEvent assigns the encoding of a given memory event to this cell.
func (p MLookupCell) AssignEvent(ctx *Context, ev mtable.Event) error {
	encoded, err := ev.Encode()
	//
	if err != nil {
		return &AssignError{p.name(ctx), ctx.row, ev.String(), err}
	}
	//
	p.Cell.Assign(ctx, encoded)
	//
	return nil
}

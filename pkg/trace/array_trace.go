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
	"fmt"

	"github.com/consensys/go-etable/pkg/util/field"
)

// ArrayTrace provides an implementation of a trace where each column is backed
// by a flat array of field elements.  The column structure is fixed by the
// layout from which the trace was constructed.
type ArrayTrace struct {
	layout  *Layout
	modules []*Module
}

// NewArrayTrace constructs an empty trace (i.e. where every module has zero
// height) for the given layout.
func NewArrayTrace(layout *Layout) *ArrayTrace {
	var modules = make([]*Module, layout.Modules())
	//
	for i := range modules {
		ml := layout.Module(uint(i))
		modules[i] = &Module{ml, 0, make([][]field.Element, ml.Width())}
	}
	//
	return &ArrayTrace{layout, modules}
}

// Layout returns the layout from which this trace was constructed.
func (p *ArrayTrace) Layout() *Layout {
	return p.layout
}

// Module returns a given module in this trace.
func (p *ArrayTrace) Module(mid ModuleId) *Module {
	return p.modules[mid]
}

// Get returns the value of a given cell in this trace.
func (p *ArrayTrace) Get(cell CellRef) field.Element {
	return p.modules[cell.Column.Module()].Get(cell.Column.Column(), cell.Row)
}

// ============================================================================
// Module
// ============================================================================

// Module represents a set of columns of equal height within a trace.
type Module struct {
	layout  *ModuleLayout
	height  uint
	columns [][]field.Element
}

// Name returns the name of this module.
func (p *Module) Name() string {
	return p.layout.Name()
}

// Height returns the number of rows in this module.
func (p *Module) Height() uint {
	return p.height
}

// Width returns the number of columns in this module.
func (p *Module) Width() uint {
	return uint(len(p.columns))
}

// Layout returns the layout of this module.
func (p *Module) Layout() *ModuleLayout {
	return p.layout
}

// Resize this module to the given height.  Existing data is retained (up to
// the new height), whilst any new rows are zero.  Since all rows are allocated
// up front, distinct rows may subsequently be written concurrently.
func (p *Module) Resize(height uint) {
	for i, data := range p.columns {
		ndata := make([]field.Element, height)
		copy(ndata, data)
		p.columns[i] = ndata
	}
	//
	p.height = height
}

// Get the value at a given row in a given column.  If the row is out-of-bounds
// then zero is returned (i.e. the padding value).
func (p *Module) Get(cid uint, row int) field.Element {
	if row < 0 || row >= int(p.height) {
		return field.Zero()
	}
	//
	return p.columns[cid][row]
}

// Set the value at a given row in a given column.  This panics if the row is
// out-of-bounds, since this indicates the module was not properly sized.
func (p *Module) Set(cid uint, row uint, val field.Element) {
	if row >= p.height {
		panic(fmt.Sprintf("row %d out-of-bounds for module %s (height %d)", row, p.Name(), p.height))
	}
	//
	p.columns[cid][row] = val
}

// Column returns the raw data of a given column.
func (p *Module) Column(cid uint) []field.Element {
	return p.columns[cid]
}

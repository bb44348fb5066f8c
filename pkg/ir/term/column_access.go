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
package term

import (
	"fmt"

	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/consensys/go-etable/pkg/util/source/sexp"
)

// ColumnAccess represents reading the value held at a given column in the
// tabular context.  Furthermore, the current row maybe shifted up (or down) by
// a given amount. Suppose we are evaluating a constraint on row k=5 which
// contains the column accesses "SP(0)" and "SP(1)".  Then, SP(0) accesses the
// SP column at row 5, whilst SP(1) accesses the SP column at row 6.
type ColumnAccess struct {
	Column uint
	Shift  int
}

// NewColumnAccess constructs an access to a given column at a given shift
// relative to the current row.
func NewColumnAccess(column uint, shift int) *ColumnAccess {
	return &ColumnAccess{column, shift}
}

// Bounds implementation for Shifted interface.
func (p *ColumnAccess) Bounds() util.Bounds {
	return util.ShiftBounds(p.Shift)
}

// EvalAt implementation for Term interface.
func (p *ColumnAccess) EvalAt(k int, module *trace.Module) field.Element {
	return module.Get(p.Column, k+p.Shift)
}

// RequiredCells implementation for Term interface
func (p *ColumnAccess) RequiredCells(row int, mid trace.ModuleId) []trace.CellRef {
	return []trace.CellRef{trace.NewCellRef(trace.NewColumnRef(mid, p.Column), row+p.Shift)}
}

// Lisp implementation for Term interface.
func (p *ColumnAccess) Lisp(module *trace.ModuleLayout) sexp.SExp {
	var name string
	// Generate name, whilst allowing for layout to be nil.
	if module != nil {
		name = module.ColumnName(p.Column)
	} else {
		name = fmt.Sprintf("#%d", p.Column)
	}
	//
	access := sexp.NewSymbol(name)
	// Check whether shifted (or not)
	if p.Shift == 0 {
		// Not shifted
		return access
	}
	// Shifted
	shift := sexp.NewSymbol(fmt.Sprintf("%d", p.Shift))

	return sexp.NewSymbolicList("shift", access, shift)
}

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
package constraint

import (
	"fmt"

	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/consensys/go-etable/pkg/util/source/sexp"
)

// Range restricts all values in a given column to be within a range [0..2^n)
// for some bitwidth n.  For example, a bitwidth of 16 restricts all values to
// be 16bit words.  In a real prover, this is realised by a lookup into a fixed
// table holding all values in the range.
type Range struct {
	// A unique identifier for this constraint.
	Handle string
	// Column to be constrained.
	Column trace.ColumnRef
	// Bitwidth of the permitted range.
	Bitwidth uint
}

// NewRange constructs a new range constraint.
func NewRange(handle string, column trace.ColumnRef, bitwidth uint) *Range {
	if bitwidth == 0 || bitwidth > 64 {
		panic(fmt.Sprintf("unsupported range bitwidth %d", bitwidth))
	}
	//
	return &Range{handle, column, bitwidth}
}

// Name implementation for Constraint interface.
func (p *Range) Name() string {
	return p.Handle
}

// Accepts checks whether every value of the constrained column lies within
// the permitted range.
func (p *Range) Accepts(tr *trace.ArrayTrace) Failure {
	var (
		module = tr.Module(p.Column.Module())
		bound  = field.TwoPowN(p.Bitwidth)
	)
	// Iterate all rows of the module
	for k := uint(0); k < module.Height(); k++ {
		kth := module.Get(p.Column.Column(), int(k))
		// Perform the bounds check
		if kth.Cmp(&bound) >= 0 {
			return &RangeFailure{p.Handle, p.Column, k, kth, p.Bitwidth}
		}
	}
	// All good
	return nil
}

// Lisp converts this constraint into an S-Expression.
func (p *Range) Lisp(layout *trace.Layout) sexp.SExp {
	return sexp.NewSymbolicList("range",
		sexp.NewSymbol(layout.ColumnName(p.Column)),
		sexp.NewSymbol(fmt.Sprintf("u%d", p.Bitwidth)))
}

// ============================================================================
// Failure
// ============================================================================

// RangeFailure provides structural information about a failing range
// constraint.
type RangeFailure struct {
	// Handle of the failing constraint
	Handle string
	// Column which failed
	Column trace.ColumnRef
	// Row on which the constraint failed
	Row uint
	// Value which was out-of-range
	Value field.Element
	// Permitted bitwidth
	Bitwidth uint
}

// Message provides a suitable error message
func (p *RangeFailure) Message() string {
	return fmt.Sprintf("range constraint \"%s\" does not hold (row %d, value 0x%s exceeds u%d)",
		p.Handle, p.Row, p.Value.Text(16), p.Bitwidth)
}

// RequiredCells identifies the cells required to evaluate the failing constraint at the failing row.
func (p *RangeFailure) RequiredCells() []trace.CellRef {
	return []trace.CellRef{trace.NewCellRef(p.Column, int(p.Row))}
}

func (p *RangeFailure) String() string {
	return p.Message()
}

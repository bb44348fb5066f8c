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

	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util"
	"github.com/consensys/go-etable/pkg/util/source/sexp"
)

// Vanishing specifies a constraint which should hold on every row of the
// table.  The only exception is when the constraint is undefined (e.g. because
// it references a non-existent table cell).  In such case, the constraint is
// ignored.
type Vanishing struct {
	// A unique identifier for this constraint.  This is primarily
	// useful for debugging.
	Handle string
	// Evaluation Context for this constraint which must match that of the
	// constrained expression itself.
	Context trace.ModuleId
	// Indicates (when empty) a global constraint that applies to all rows.
	// Otherwise, indicates a local constraint which applies to the specific row
	// given (where negative rows are counted from the end).
	Domain util.Option[int]
	// The actual constraint itself, namely an expression which should evaluate
	// to zero.
	Constraint term.Term
}

// NewVanishing constructs a new global vanishing constraint.
func NewVanishing(handle string, context trace.ModuleId, constraint term.Term) *Vanishing {
	return &Vanishing{handle, context, util.None[int](), constraint}
}

// NewLocalVanishing constructs a new vanishing constraint which applies only to
// a given row.
func NewLocalVanishing(handle string, context trace.ModuleId, row int, constraint term.Term) *Vanishing {
	return &Vanishing{handle, context, util.Some(row), constraint}
}

// Name implementation for Constraint interface.
func (p *Vanishing) Name() string {
	return p.Handle
}

// Accepts checks whether a vanishing constraint evaluates to zero on every row
// of a table.  If so, return nil otherwise return a failure.
func (p *Vanishing) Accepts(tr *trace.ArrayTrace) Failure {
	var module = tr.Module(p.Context)
	//
	if p.Domain.IsEmpty() {
		// Global Constraint
		return HoldsGlobally(p.Handle, p.Context, p.Constraint, module)
	}
	// Extract domain
	domain := p.Domain.Unwrap()
	// Handle negative domains
	if domain < 0 {
		// Negative rows calculated from end of trace.
		domain += int(module.Height())
	}
	// Rows outside the module are undefined, hence the constraint holds.
	if domain < 0 || domain >= int(module.Height()) {
		return nil
	}
	// Check specific row
	return HoldsLocally(uint(domain), p.Handle, p.Constraint, p.Context, module)
}

// HoldsGlobally checks whether a given expression vanishes (i.e. evaluates to
// zero) for all rows of a trace.  If not, report an appropriate error.
func HoldsGlobally(handle string, ctx trace.ModuleId, constraint term.Term, module *trace.Module) Failure {
	var (
		// Determine height of enclosing module
		height = module.Height()
		// Determine well-definedness bounds for this constraint
		bounds = constraint.Bounds()
	)
	// Check all in-bounds rows
	for k := bounds.Start; k < height; k++ {
		if bounds.Contains(k, height) {
			if err := HoldsLocally(k, handle, constraint, ctx, module); err != nil {
				return err
			}
		}
	}
	// Success
	return nil
}

// HoldsLocally checks whether a given constraint holds (e.g. vanishes) on a
// specific row of a trace. If not, report an appropriate error.
func HoldsLocally(k uint, handle string, constraint term.Term, ctx trace.ModuleId, module *trace.Module) Failure {
	val := constraint.EvalAt(int(k), module)
	// Check for failure
	if !val.IsZero() {
		return &VanishingFailure{handle, constraint, ctx, k}
	}
	// Success
	return nil
}

// Lisp converts this constraint into an S-Expression.
func (p *Vanishing) Lisp(layout *trace.Layout) sexp.SExp {
	var (
		module = layout.Module(p.Context)
		name   = fmt.Sprintf("%s:%s", module.Name(), p.Handle)
	)
	// Handle attributes
	if p.Domain.HasValue() {
		switch p.Domain.Unwrap() {
		case 0:
			name = fmt.Sprintf("%s:first", name)
		case -1:
			name = fmt.Sprintf("%s:last", name)
		default:
			name = fmt.Sprintf("%s:%d", name, p.Domain.Unwrap())
		}
	}
	// Construct the list
	return sexp.NewSymbolicList("vanish", sexp.NewSymbol(name), p.Constraint.Lisp(module))
}

// ============================================================================
// Failure
// ============================================================================

// VanishingFailure provides structural information about a failing vanishing
// constraint.
type VanishingFailure struct {
	// Handle of the failing constraint
	Handle string
	// Constraint expression
	Constraint term.Term
	// Module where constraint failed
	Context trace.ModuleId
	// Row on which the constraint failed
	Row uint
}

// Message provides a suitable error message
func (p *VanishingFailure) Message() string {
	// Construct useful error message
	return fmt.Sprintf("constraint \"%s\" does not hold (row %d)", p.Handle, p.Row)
}

// RequiredCells identifies the cells required to evaluate the failing constraint at the failing row.
func (p *VanishingFailure) RequiredCells() []trace.CellRef {
	return p.Constraint.RequiredCells(int(p.Row), p.Context)
}

func (p *VanishingFailure) String() string {
	return p.Message()
}

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
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/consensys/go-etable/pkg/util/source/sexp"
)

// ============================================================================
// Add
// ============================================================================

// Add represents the addition of zero or more expressions.
type Add struct{ Args []Term }

// Sum constructs the sum of zero or more terms.  The sum of no terms is zero,
// whilst the sum of exactly one term is that term.
func Sum(args ...Term) Term {
	switch len(args) {
	case 0:
		return Const64(0)
	case 1:
		return args[0]
	}
	//
	return &Add{args}
}

// Bounds implementation for Shifted interface.
func (p *Add) Bounds() util.Bounds { return util.BoundsOf(p.Args) }

// EvalAt implementation for Term interface.
func (p *Add) EvalAt(k int, module *trace.Module) field.Element {
	var val = p.Args[0].EvalAt(k, module)
	//
	for _, arg := range p.Args[1:] {
		ith := arg.EvalAt(k, module)
		val.Add(&val, &ith)
	}
	//
	return val
}

// RequiredCells implementation for Term interface
func (p *Add) RequiredCells(row int, mid trace.ModuleId) []trace.CellRef {
	return requiredCellsOfTerms(p.Args, row, mid)
}

// Lisp implementation for Term interface.
func (p *Add) Lisp(module *trace.ModuleLayout) sexp.SExp {
	return lispOfTerms(module, "+", p.Args)
}

// ============================================================================
// Sub
// ============================================================================

// Sub represents the subtraction over zero or more expressions.
type Sub struct{ Args []Term }

// Difference constructs the term x0 - x1 - ... - xn.
func Difference(args ...Term) Term {
	switch len(args) {
	case 0:
		return Const64(0)
	case 1:
		return args[0]
	}
	//
	return &Sub{args}
}

// Bounds implementation for Shifted interface.
func (p *Sub) Bounds() util.Bounds { return util.BoundsOf(p.Args) }

// EvalAt implementation for Term interface.
func (p *Sub) EvalAt(k int, module *trace.Module) field.Element {
	var val = p.Args[0].EvalAt(k, module)
	//
	for _, arg := range p.Args[1:] {
		ith := arg.EvalAt(k, module)
		val.Sub(&val, &ith)
	}
	//
	return val
}

// RequiredCells implementation for Term interface
func (p *Sub) RequiredCells(row int, mid trace.ModuleId) []trace.CellRef {
	return requiredCellsOfTerms(p.Args, row, mid)
}

// Lisp implementation for Term interface.
func (p *Sub) Lisp(module *trace.ModuleLayout) sexp.SExp {
	return lispOfTerms(module, "-", p.Args)
}

// ============================================================================
// Mul
// ============================================================================

// Mul represents the product over zero or more expressions.
type Mul struct{ Args []Term }

// Product constructs the product of zero or more terms.  The product of no
// terms is one.
func Product(args ...Term) Term {
	switch len(args) {
	case 0:
		return Const64(1)
	case 1:
		return args[0]
	}
	//
	return &Mul{args}
}

// Scale constructs the product of a term and a constant.
func Scale(t Term, c field.Element) Term {
	return Product(Const(c), t)
}

// Bounds implementation for Shifted interface.
func (p *Mul) Bounds() util.Bounds { return util.BoundsOf(p.Args) }

// EvalAt implementation for Term interface.
func (p *Mul) EvalAt(k int, module *trace.Module) field.Element {
	var val = p.Args[0].EvalAt(k, module)
	//
	for _, arg := range p.Args[1:] {
		// Short-circuit on zero
		if val.IsZero() {
			return val
		}
		//
		ith := arg.EvalAt(k, module)
		val.Mul(&val, &ith)
	}
	//
	return val
}

// RequiredCells implementation for Term interface
func (p *Mul) RequiredCells(row int, mid trace.ModuleId) []trace.CellRef {
	return requiredCellsOfTerms(p.Args, row, mid)
}

// Lisp implementation for Term interface.
func (p *Mul) Lisp(module *trace.ModuleLayout) sexp.SExp {
	return lispOfTerms(module, "*", p.Args)
}

// ============================================================================
// Helpers
// ============================================================================

func requiredCellsOfTerms(args []Term, row int, mid trace.ModuleId) []trace.CellRef {
	var cells []trace.CellRef
	//
	for _, arg := range args {
		cells = append(cells, arg.RequiredCells(row, mid)...)
	}
	//
	return cells
}

func lispOfTerms(module *trace.ModuleLayout, op string, args []Term) sexp.SExp {
	var elements = make([]sexp.SExp, len(args))
	//
	for i, arg := range args {
		elements[i] = arg.Lisp(module)
	}
	//
	return sexp.NewSymbolicList(op, elements...)
}

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
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/consensys/go-etable/pkg/util/source/sexp"
)

// Vector identifies a (possibly filtered) sequence of values within a given
// module.  Specifically, the value term is evaluated on every row where the
// selector term is non-zero.  If the selector is nil, then every row is
// selected.
type Vector struct {
	// Module in which the terms are evaluated.
	Module trace.ModuleId
	// Selector which determines active rows (or nil for all rows).
	Selector term.Term
	// Value of each active row.
	Value term.Term
}

// NewVector constructs a new vector.
func NewVector(module trace.ModuleId, selector term.Term, value term.Term) Vector {
	return Vector{module, selector, value}
}

// Active determines whether a given row of this vector is active (or not).
func (p Vector) Active(row int, module *trace.Module) bool {
	if p.Selector == nil {
		return true
	}
	//
	sel := p.Selector.EvalAt(row, module)
	//
	return !sel.IsZero()
}

// Lookup asserts that every active value of a source vector is contained in
// the set of active values of one or more target vectors.  This is the
// membership check realised by a lookup argument in a real prover.
type Lookup struct {
	// A unique identifier for this constraint.
	Handle string
	// Source vector whose values are looked up.
	Source Vector
	// Target vectors whose values form the table.
	Targets []Vector
}

// NewLookup constructs a new lookup constraint.
func NewLookup(handle string, source Vector, targets ...Vector) *Lookup {
	return &Lookup{handle, source, targets}
}

// Name implementation for Constraint interface.
func (p *Lookup) Name() string {
	return p.Handle
}

// Accepts checks whether every active source value is found amongst the active
// target values.
func (p *Lookup) Accepts(tr *trace.ArrayTrace) Failure {
	var (
		table  = make(map[field.Element]struct{})
		source = tr.Module(p.Source.Module)
	)
	// Construct the table
	for _, target := range p.Targets {
		module := tr.Module(target.Module)
		//
		for k := 0; k < int(module.Height()); k++ {
			if target.Active(k, module) {
				table[target.Value.EvalAt(k, module)] = struct{}{}
			}
		}
	}
	// Check every source row
	for k := 0; k < int(source.Height()); k++ {
		if !p.Source.Active(k, source) {
			continue
		}
		//
		val := p.Source.Value.EvalAt(k, source)
		//
		if _, ok := table[val]; !ok {
			return &LookupFailure{p.Handle, p.Source, uint(k), val}
		}
	}
	// Success
	return nil
}

// Lisp converts this constraint into an S-Expression.
func (p *Lookup) Lisp(layout *trace.Layout) sexp.SExp {
	var targets = make([]sexp.SExp, len(p.Targets))
	//
	for i, t := range p.Targets {
		targets[i] = lispOfVector(layout, t)
	}
	//
	return sexp.NewSymbolicList("lookup",
		sexp.NewSymbol(p.Handle),
		lispOfVector(layout, p.Source),
		sexp.NewList(targets))
}

func lispOfVector(layout *trace.Layout, v Vector) sexp.SExp {
	var module = layout.Module(v.Module)
	//
	if v.Selector == nil {
		return sexp.NewSymbolicList(module.Name(), v.Value.Lisp(module))
	}
	//
	return sexp.NewSymbolicList(module.Name(), sexp.NewSymbolicList("if", v.Selector.Lisp(module)),
		v.Value.Lisp(module))
}

// ============================================================================
// Failure
// ============================================================================

// LookupFailure provides structural information about a failing lookup
// constraint.
type LookupFailure struct {
	// Handle of the failing constraint
	Handle string
	// Source vector of the lookup
	Source Vector
	// Source row which was not found
	Row uint
	// Value which was not found
	Value field.Element
}

// Message provides a suitable error message
func (p *LookupFailure) Message() string {
	return fmt.Sprintf("lookup \"%s\" failed (row %d, value 0x%s not found)", p.Handle, p.Row, p.Value.Text(16))
}

// RequiredCells identifies the cells required to evaluate the failing constraint at the failing row.
func (p *LookupFailure) RequiredCells() []trace.CellRef {
	return p.Source.Value.RequiredCells(int(p.Row), p.Source.Module)
}

func (p *LookupFailure) String() string {
	return p.Message()
}

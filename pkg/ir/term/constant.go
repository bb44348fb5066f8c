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
	"math/big"

	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/consensys/go-etable/pkg/util/source/sexp"
)

// Constant represents a constant value within an expression.
type Constant struct{ Value field.Element }

// Const constructs a constant term from a given field element.
func Const(val field.Element) *Constant {
	return &Constant{val}
}

// Const64 constructs a constant term from a given unsigned machine word.
func Const64(val uint64) *Constant {
	return &Constant{field.Uint64(val)}
}

// ConstInt constructs a constant term from a given signed machine word, where
// negative values are represented by their additive inverse.
func ConstInt(val int64) *Constant {
	return &Constant{field.Int64(val)}
}

// Bounds implementation for Shifted interface.
func (p *Constant) Bounds() util.Bounds {
	return util.Unshifted
}

// EvalAt implementation for Term interface.
func (p *Constant) EvalAt(int, *trace.Module) field.Element {
	return p.Value
}

// RequiredCells implementation for Term interface
func (p *Constant) RequiredCells(int, trace.ModuleId) []trace.CellRef {
	return nil
}

// Lisp implementation for Term interface.
func (p *Constant) Lisp(*trace.ModuleLayout) sexp.SExp {
	var (
		val = p.Value.BigInt(new(big.Int))
		neg = field.Zero()
	)
	// Show small negative values as such, since they arise frequently (e.g.
	// stack pointer deltas).
	neg.Neg(&p.Value)
	//
	if neg.IsUint64() && neg.Uint64() < 1<<16 && !neg.IsZero() {
		return sexp.NewSymbol("-" + neg.Text(10))
	}
	//
	return sexp.NewSymbol(val.String())
}

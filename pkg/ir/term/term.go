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

// Term represents a polynomial expression over the columns of a single module.
// Terms are constructed at circuit definition time and evaluated at
// verification time against a concrete trace.  Observe that terms are
// immutable once constructed.
type Term interface {
	util.Shifted
	// EvalAt evaluates this term on a given row of a given module.  Accesses
	// to rows which do not exist yield the padding value (i.e. zero).
	EvalAt(row int, module *trace.Module) field.Element
	// RequiredCells returns the set of trace cells on which evaluation of this
	// term at a given row depends.  This is useful for reporting failures.
	RequiredCells(row int, mid trace.ModuleId) []trace.CellRef
	// Lisp converts this term into a simple S-Expression, for example so it
	// can be printed.  The module layout may be nil, in which case columns are
	// identified by index only.
	Lisp(module *trace.ModuleLayout) sexp.SExp
}

// Evaluate a given term on every row of a given module, producing one value
// per row.
func Evaluate(t Term, module *trace.Module) []field.Element {
	var values = make([]field.Element, module.Height())
	//
	for i := range values {
		values[i] = t.EvalAt(i, module)
	}
	//
	return values
}

// String returns a human-readable form of a term.
func String(t Term, module *trace.ModuleLayout) string {
	return t.Lisp(module).String(false)
}

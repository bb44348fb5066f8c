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
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util/source/sexp"
)

// Constraint represents an element which can "accept" a trace, or either reject
// with an error (or eventually perhaps report a warning).
type Constraint interface {
	// Name returns a unique name for a given constraint.  This is useful
	// purely for identifying constraints in reports, etc.
	Name() string
	// Accepts determines whether a given constraint accepts a given trace or
	// not.  If not, a failure is produced identifying (at least) the first
	// offending row.
	Accepts(tr *trace.ArrayTrace) Failure
	// Lisp converts this constraint into an S-Expression.
	Lisp(layout *trace.Layout) sexp.SExp
}

// Failure embodies structured information about a failing constraint.
// This includes the constraint itself, along with the row
type Failure interface {
	// Provides a suitable error message
	Message() string
	// RequiredCells identifies the cells required to evaluate the failing
	// constraint at the failing row.
	RequiredCells() []trace.CellRef
}

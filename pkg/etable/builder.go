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
	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/schema/constraint"
	"github.com/consensys/go-etable/pkg/trace"
)

// ConstraintBuilder accumulates named constraints.  Each constraint is a list
// of expressions which must all vanish on every row where the opcode which
// registered it is active.  Constraints are purely additive and names need not
// be unique.
type ConstraintBuilder struct {
	entries []builderEntry
	// selector of the opcode currently being configured (or nil)
	selector term.Term
}

type builderEntry struct {
	name     string
	selector term.Term
	exprs    func(RowContext) []term.Term
}

// Push registers a named constraint.
func (p *ConstraintBuilder) Push(name string, exprs func(meta RowContext) []term.Term) {
	p.entries = append(p.entries, builderEntry{name, p.selector, exprs})
}

// Len returns the number of constraints registered so far.
func (p *ConstraintBuilder) Len() int {
	return len(p.entries)
}

// scope subsequent constraints to rows where a given selector is active.
func (p *ConstraintBuilder) scope(selector term.Term) {
	p.selector = selector
}

// Finalize converts every registered constraint into vanishing constraints
// over a given module.
func (p *ConstraintBuilder) Finalize(mid trace.ModuleId) []constraint.Constraint {
	var constraints []constraint.Constraint
	//
	for _, e := range p.entries {
		for _, expr := range e.exprs(Cur()) {
			if e.selector != nil {
				expr = term.Product(e.selector, expr)
			}
			//
			constraints = append(constraints, constraint.NewVanishing(e.name, mid, expr))
		}
	}
	//
	return constraints
}

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
package mtable

import (
	"fmt"

	"github.com/consensys/go-etable/pkg/schema/constraint"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util/source/sexp"
)

// Consistency is the memory consistency argument over the memory table.  It
// requires that: every event has a known location, access and value type;
// enabled rows are strictly sorted by location and then time; the first access
// to any location is either an initialisation or a write; every read observes
// the value (and type) of the preceding access to the same location; no
// location initialised as immutable is written; and, initialisation happens
// only before execution begins (eid 0).
// In a real prover these are realised by sorted-permutation gadgets; here they
// are checked directly against the assigned rows.
type Consistency struct {
	Handle string
	table  *MemoryTable
}

// Name implementation for Constraint interface.
func (p *Consistency) Name() string {
	return p.Handle
}

// Accepts checks the memory table for consistency.
func (p *Consistency) Accepts(tr *trace.ArrayTrace) constraint.Failure {
	var (
		module = tr.Module(p.table.mid)
		prev   *Event
		// whether the location being visited was initialised as immutable
		locked bool
	)
	//
	for row := 0; row < int(module.Height()); row++ {
		enabled := module.Get(p.table.enabled.Column(), row)
		// Skip padding
		if enabled.IsZero() {
			continue
		}
		//
		var (
			ev     = p.table.Event(module, row)
			isInit = module.Get(p.table.isInit.Column(), row)
		)
		//
		if prev == nil || !prev.SameLocation(&ev) {
			locked = false
		}
		//
		if reason := check(prev, &ev, !isInit.IsZero(), locked); reason != "" {
			return &ConsistencyFailure{p.Handle, p.table, uint(row), ev, reason}
		}
		//
		prev, locked = &ev, locked || ev.Immutable
	}
	//
	return nil
}

func check(prev *Event, ev *Event, isInit bool, locked bool) string {
	switch {
	case !ev.Ltype.Valid():
		return fmt.Sprintf("unknown location type %s", ev.Ltype.String())
	case !ev.Atype.Valid():
		return fmt.Sprintf("unknown access type %s", ev.Atype.String())
	case !ev.Vtype.Valid():
		return fmt.Sprintf("unknown value type %s", ev.Vtype.String())
	case isInit != (ev.Atype == Init):
		return "initialisation flag mismatch"
	case ev.Atype == Init && ev.Eid != 0:
		return "initialisation during execution"
	case ev.Immutable && ev.Atype != Init:
		return "immutability outside initialisation"
	case prev != nil && prev.Cmp(ev) >= 0:
		return "events not sorted"
	case prev == nil || !prev.SameLocation(ev):
		if ev.Atype == Read {
			return "read of uninitialised location"
		}
	case ev.Atype == Init:
		return "location initialised twice"
	case ev.Atype == Write && locked:
		return "write to immutable location"
	case ev.Atype == Read && (ev.Vtype != prev.Vtype || ev.Value != prev.Value):
		return fmt.Sprintf("read does not match preceding access %s", prev.String())
	}
	//
	return ""
}

// Lisp converts this constraint into an S-Expression.
func (p *Consistency) Lisp(layout *trace.Layout) sexp.SExp {
	return sexp.NewSymbolicList("consistency", sexp.NewSymbol(layout.Module(p.table.mid).Name()))
}

// ============================================================================
// Failure
// ============================================================================

// ConsistencyFailure provides structural information about a failure of the
// memory consistency argument.
type ConsistencyFailure struct {
	// Handle of the failing constraint
	Handle string
	table  *MemoryTable
	// Row on which the argument failed
	Row uint
	// Event on the failing row
	Event Event
	// Reason for failure
	Reason string
}

// Message provides a suitable error message
func (p *ConsistencyFailure) Message() string {
	return fmt.Sprintf("memory consistency \"%s\" does not hold (row %d, event %s): %s", p.Handle, p.Row,
		p.Event.String(), p.Reason)
}

// RequiredCells identifies the cells of the failing event.
func (p *ConsistencyFailure) RequiredCells() []trace.CellRef {
	var cells []trace.CellRef
	//
	for _, col := range p.table.fields {
		cells = append(cells, trace.NewCellRef(col, int(p.Row)))
	}
	//
	return cells
}

func (p *ConsistencyFailure) String() string {
	return p.Message()
}

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
	"slices"

	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/schema/constraint"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// ModuleName is the name of the memory table module within a trace.
const ModuleName = "mtable"

// MemoryTable holds every memory event of an execution, sorted by location and
// then by time.  Each row carries the components of one event, along with its
// canonical encoding.  Opcodes in the execution table look up their events in
// the encoded column, and every non-initialising event of the memory table is
// looked up in the execution table.
type MemoryTable struct {
	mid     trace.ModuleId
	enabled trace.ColumnRef
	isInit  trace.ColumnRef
	// Set only on initialisation of a location which is never written
	immutable trace.ColumnRef
	encoded   trace.ColumnRef
	// Event components, in encoding order
	fields []trace.ColumnRef
}

// Configure the memory table within a given layout.
func Configure(layout *trace.Layout) *MemoryTable {
	var (
		mid    = layout.AddModule(ModuleName)
		fields = make([]trace.ColumnRef, len(EventLayout.Fields()))
	)
	//
	enabled := layout.AddColumn(mid, "enabled")
	//
	for i, f := range EventLayout.Fields() {
		fields[i] = layout.AddColumn(mid, f.Name)
	}
	//
	isInit := layout.AddColumn(mid, "is_init")
	immutable := layout.AddColumn(mid, "immutable")
	encoded := layout.AddColumn(mid, "encoded")
	//
	return &MemoryTable{mid, enabled, isInit, immutable, encoded, fields}
}

// Module returns the identifier of the memory table module.
func (p *MemoryTable) Module() trace.ModuleId {
	return p.mid
}

// Encoded returns the column holding the encoding of each event.
func (p *MemoryTable) Encoded() trace.ColumnRef {
	return p.encoded
}

// Column returns the column holding a given event component (e.g. "eid").
func (p *MemoryTable) Column(name string) trace.ColumnRef {
	for i, f := range EventLayout.Fields() {
		if f.Name == name {
			return p.fields[i]
		}
	}
	//
	panic(fmt.Sprintf("unknown memory table column %s", name))
}

// Target returns the vector of all events in this table, as looked up by
// opcodes of the execution table.
func (p *MemoryTable) Target() constraint.Vector {
	return constraint.NewVector(p.mid, p.access(p.enabled), p.access(p.encoded))
}

// Source returns the vector of all events performed during execution (i.e.
// excluding initialisation), which must each be found in the execution table.
func (p *MemoryTable) Source() constraint.Vector {
	selector := term.Difference(p.access(p.enabled), p.access(p.isInit))
	//
	return constraint.NewVector(p.mid, selector, p.access(p.encoded))
}

// Constraints returns the constraints of the memory table.
func (p *MemoryTable) Constraints() []constraint.Constraint {
	var (
		one        = term.Const64(1)
		enabled    = p.access(p.enabled)
		nextEnable = term.NewColumnAccess(p.enabled.Column(), 1)
		isInit     = p.access(p.isInit)
		immutable  = p.access(p.immutable)
		terms      = make([]term.Term, len(p.fields))
	)
	//
	for i, col := range p.fields {
		terms[i] = p.access(col)
	}
	//
	constraints := []constraint.Constraint{
		constraint.NewVanishing("mtable enabled bit", p.mid, term.Product(enabled, term.Difference(one, enabled))),
		constraint.NewVanishing("mtable enabled prefix", p.mid,
			term.Product(nextEnable, term.Difference(one, enabled))),
		constraint.NewVanishing("mtable is_init bit", p.mid, term.Product(isInit, term.Difference(one, isInit))),
		constraint.NewVanishing("mtable is_init enabled", p.mid, term.Product(isInit, term.Difference(one, enabled))),
		constraint.NewVanishing("mtable is_init atype", p.mid,
			term.Product(isInit, term.Difference(p.access(p.Column("atype")), term.Const64(uint64(Init))))),
		constraint.NewVanishing("mtable is_init eid", p.mid, term.Product(isInit, p.access(p.Column("eid")))),
		constraint.NewVanishing("mtable immutable bit", p.mid,
			term.Product(immutable, term.Difference(one, immutable))),
		constraint.NewVanishing("mtable immutable is_init", p.mid,
			term.Product(immutable, term.Difference(one, isInit))),
		constraint.NewVanishing("mtable ltype known", p.mid,
			oneOf(enabled, p.access(p.Column("ltype")), uint64(Stack), uint64(Heap), uint64(Global), uint64(Table))),
		constraint.NewVanishing("mtable atype known", p.mid,
			oneOf(enabled, p.access(p.Column("atype")), uint64(Read), uint64(Write), uint64(Init))),
		constraint.NewVanishing("mtable vtype known", p.mid,
			oneOf(enabled, p.access(p.Column("vtype")), uint64(program.I32), uint64(program.I64))),
		constraint.NewVanishing("mtable encode", p.mid,
			term.Difference(p.access(p.encoded), EventLayout.Compose(terms...))),
	}
	//
	for i, f := range EventLayout.Fields() {
		constraints = append(constraints, constraint.NewRange("mtable "+f.Name, p.fields[i], f.Width))
	}
	//
	return append(constraints, &Consistency{"mtable consistency", p})
}

// Assign the memory table from a given set of events, padding it to (at least)
// a given height.  An error is returned if any event cannot be encoded.
func (p *MemoryTable) Assign(tr *trace.ArrayTrace, events []Event, height uint) error {
	var (
		module = tr.Module(p.mid)
		sorted = slices.Clone(events)
	)
	//
	slices.SortStableFunc(sorted, func(l, r Event) int { return l.Cmp(&r) })
	//
	module.Resize(max(height, uint(len(sorted))))
	//
	for i, ev := range sorted {
		row := uint(i)
		encoded, err := ev.Encode()
		//
		if err != nil {
			return fmt.Errorf("memory event %s: %w", ev.String(), err)
		}
		//
		module.Set(p.enabled.Column(), row, field.One())
		//
		for j, val := range ev.Tuple() {
			module.Set(p.fields[j].Column(), row, field.Uint64(val))
		}
		//
		if ev.Atype == Init {
			module.Set(p.isInit.Column(), row, field.One())
		}
		//
		if ev.Immutable {
			module.Set(p.immutable.Column(), row, field.One())
		}
		//
		module.Set(p.encoded.Column(), row, encoded)
	}
	//
	log.Debugf("assigned %d memory events (height %d)", len(sorted), module.Height())
	//
	return nil
}

// Event reads back the event held on a given row.  Type components which do
// not name a known type are read back as zero.
func (p *MemoryTable) Event(module *trace.Module, row int) Event {
	var vals = make([]uint64, len(p.fields))
	//
	for i, col := range p.fields {
		val := module.Get(col.Column(), row)
		vals[i] = val.Uint64()
	}
	//
	ev := fromTuple(vals)
	immutable := module.Get(p.immutable.Column(), row)
	ev.Immutable = !immutable.IsZero()
	//
	return ev
}

// oneOf constructs a term which vanishes when either the selector does, or val
// is one of the given constants.
func oneOf(selector term.Term, val term.Term, options ...uint64) term.Term {
	var terms = []term.Term{selector}
	//
	for _, opt := range options {
		terms = append(terms, term.Difference(val, term.Const64(opt)))
	}
	//
	return term.Product(terms...)
}

func (p *MemoryTable) access(col trace.ColumnRef) term.Term {
	return term.NewColumnAccess(col.Column(), 0)
}

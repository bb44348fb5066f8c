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
package itable

import (
	"fmt"

	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/schema/constraint"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// ModuleName is the name of the instruction table module within a trace.
const ModuleName = "itable"

// InstructionTable holds one row for every statically compiled instruction of
// a module.  In a real prover this table is fixed at setup time, hence its
// contents are trusted and only the encoding itself is constrained.
type InstructionTable struct {
	mid     trace.ModuleId
	enabled trace.ColumnRef
	moid    trace.ColumnRef
	fid     trace.ColumnRef
	iid     trace.ColumnRef
	opcode  trace.ColumnRef
	encoded trace.ColumnRef
}

// Configure the instruction table within a given layout.
func Configure(layout *trace.Layout) *InstructionTable {
	mid := layout.AddModule(ModuleName)
	//
	return &InstructionTable{
		mid,
		layout.AddColumn(mid, "enabled"),
		layout.AddColumn(mid, "moid"),
		layout.AddColumn(mid, "fid"),
		layout.AddColumn(mid, "iid"),
		layout.AddColumn(mid, "opcode"),
		layout.AddColumn(mid, "encoded"),
	}
}

// Module returns the identifier of the instruction table module.
func (p *InstructionTable) Module() trace.ModuleId {
	return p.mid
}

// Target returns the vector of all instructions, as looked up by the execution
// table.
func (p *InstructionTable) Target() constraint.Vector {
	return constraint.NewVector(p.mid, access(p.enabled), access(p.encoded))
}

// Constraints returns the constraints of the instruction table.
func (p *InstructionTable) Constraints() []constraint.Constraint {
	var (
		enabled = access(p.enabled)
		encode  = program.EncodeInstructionExpr(access(p.moid), access(p.fid), access(p.iid), access(p.opcode))
	)
	//
	return []constraint.Constraint{
		constraint.NewVanishing("itable enabled bit", p.mid,
			term.Product(enabled, term.Difference(term.Const64(1), enabled))),
		constraint.NewVanishing("itable encode", p.mid, term.Difference(access(p.encoded), encode)),
		constraint.NewRange("itable moid", p.moid, 16),
		constraint.NewRange("itable fid", p.fid, 16),
		constraint.NewRange("itable iid", p.iid, 16),
	}
}

// Assign the instruction table for a given module, padding it to (at least) a
// given height.
func (p *InstructionTable) Assign(tr *trace.ArrayTrace, module *program.Module, height uint) error {
	var (
		rows   = p.rows(module)
		mtrace = tr.Module(p.mid)
		row    uint
	)
	//
	mtrace.Resize(max(height, rows))
	//
	for fid, fn := range module.Functions {
		for iid, insn := range fn.Code() {
			opcode, err := program.EncodeOpcode(insn)
			if err != nil {
				return fmt.Errorf("%s[%d]: %w", fn.Name, iid, err)
			}
			//
			encoded, err := program.EncodeInstruction(module.Id, uint64(fid), uint64(iid), insn)
			if err != nil {
				return fmt.Errorf("%s[%d]: %w", fn.Name, iid, err)
			}
			//
			mtrace.Set(p.enabled.Column(), row, field.One())
			mtrace.Set(p.moid.Column(), row, field.Uint64(module.Id))
			mtrace.Set(p.fid.Column(), row, field.Uint64(uint64(fid)))
			mtrace.Set(p.iid.Column(), row, field.Uint64(uint64(iid)))
			mtrace.Set(p.opcode.Column(), row, opcode)
			mtrace.Set(p.encoded.Column(), row, encoded)
			row++
		}
	}
	//
	log.Debugf("assigned %d instructions (height %d)", rows, mtrace.Height())
	//
	return nil
}

func (p *InstructionTable) rows(module *program.Module) uint {
	var n uint
	//
	for _, fn := range module.Functions {
		n += uint(len(fn.Code()))
	}
	//
	return n
}

func access(col trace.ColumnRef) term.Term {
	return term.NewColumnAccess(col.Column(), 0)
}

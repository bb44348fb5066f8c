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
package circuit

import (
	"fmt"

	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/etable/op"
	"github.com/consensys/go-etable/pkg/interp"
	"github.com/consensys/go-etable/pkg/itable"
	"github.com/consensys/go-etable/pkg/mtable"
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/schema"
	"github.com/consensys/go-etable/pkg/schema/constraint"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util"
	log "github.com/sirupsen/logrus"
)

// Config determines the shape of a circuit.
type Config struct {
	// Every table has height at least 2^K.
	K uint
	// Number of workers used for assignment and checking (0 means unlimited).
	Workers uint
	// Cells available to each opcode
	Cells etable.Layout
	// Stack pointer at the start of execution
	InitialSp uint64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{K: 5, Workers: 0, Cells: etable.DefaultLayout(), InitialSp: interp.DefaultStackSize}
}

// Circuit combines the instruction, execution and memory tables into a single
// schema.  Specifically, every executed instruction is looked up in the
// instruction table, every memory operation of the execution table is looked
// up in the memory table, and every memory event which does not initialise a
// location is looked up in the execution table.
type Circuit struct {
	config Config
	schema *schema.Schema
	itable *itable.InstructionTable
	etable *etable.ExecutionTable
	mtable *mtable.MemoryTable
}

// New constructs a circuit using the default set of opcodes.
func New(config Config) *Circuit {
	return NewWithBuilders(config, op.Builders())
}

// NewWithBuilders constructs a circuit for a given set of opcode builders.
func NewWithBuilders(config Config, builders []etable.Builder) *Circuit {
	var (
		stats  = util.StartPhase("configuring circuit")
		layout = trace.NewLayout()
		itab   = itable.Configure(layout)
		etab   = etable.Configure(layout, config.Cells, builders)
		mtab   = mtable.Configure(layout)
		sc     = schema.NewSchema(layout)
	)
	//
	sc.AddConstraints(itab.Constraints()...)
	sc.AddConstraints(etab.Constraints()...)
	sc.AddConstraints(mtab.Constraints()...)
	// Cross-table lookups
	sc.AddConstraints(constraint.NewLookup("etable itable", etab.InstructionLookup(), itab.Target()))
	//
	slots := etab.MLookupVectors()
	//
	for j, slot := range slots {
		sc.AddConstraints(constraint.NewLookup(fmt.Sprintf("etable mtable %d", j), slot, mtab.Target()))
	}
	//
	sc.AddConstraints(constraint.NewLookup("mtable etable", mtab.Source(), slots...))
	//
	stats.Done()
	log.Debugf("configured circuit with %d constraints", len(sc.Constraints()))
	//
	return &Circuit{config, sc, itab, etab, mtab}
}

// Config returns the configuration of this circuit.
func (p *Circuit) Config() Config {
	return p.config
}

// Schema returns the schema of this circuit.
func (p *Circuit) Schema() *schema.Schema {
	return p.schema
}

// ExecutionTable returns the execution table of this circuit.
func (p *Circuit) ExecutionTable() *etable.ExecutionTable {
	return p.etable
}

// MemoryTable returns the memory table of this circuit.
func (p *Circuit) MemoryTable() *mtable.MemoryTable {
	return p.mtable
}

// InstructionTable returns the instruction table of this circuit.
func (p *Circuit) InstructionTable() *itable.InstructionTable {
	return p.itable
}

// Height returns the minimum height of every table.
func (p *Circuit) Height() uint {
	return 1 << p.config.K
}

// Assign a trace for a given module and its execution.  An error is returned
// if the witness cannot be generated, such as when a value does not fit within
// its cell or the execution does not fit within the table.  Observe that
// dispatch defects indicate a faulty circuit rather than faulty input, and
// cause a panic.
func (p *Circuit) Assign(module *program.Module, entries []program.Entry) (*trace.ArrayTrace, error) {
	var (
		tr     = trace.NewArrayTrace(p.schema.Layout())
		height = p.Height()
	)
	//
	if err := p.itable.Assign(tr, module, height); err != nil {
		return nil, err
	}
	//
	if err := p.etable.Assign(tr, entries, height, p.config.Workers); err != nil {
		if etable.IsDispatchDefect(err) {
			panic(err.Error())
		}
		//
		return nil, err
	}
	//
	if err := p.mtable.Assign(tr, mtable.CollectEvents(module, entries), height); err != nil {
		return nil, err
	}
	//
	return tr, nil
}

// Check a given trace against this circuit.
func (p *Circuit) Check(tr *trace.ArrayTrace) []constraint.Failure {
	return p.schema.Check(tr, p.config.Workers)
}

// Run executes a given exported function of a module, assigns the resulting
// trace and checks it, returning the trace and any failures.
func (p *Circuit) Run(module *program.Module, export string) (*trace.ArrayTrace, []constraint.Failure, error) {
	entries, err := interp.Run(module, export, p.config.InitialSp)
	//
	if err != nil {
		return nil, nil, err
	}
	//
	tr, err := p.Assign(module, entries)
	//
	if err != nil {
		return nil, nil, err
	}
	//
	return tr, p.Check(tr), nil
}

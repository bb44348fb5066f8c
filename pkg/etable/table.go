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
	"fmt"

	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/schema/constraint"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util"
	"github.com/consensys/go-etable/pkg/util/field"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ModuleName is the name of the execution table module within a trace.
const ModuleName = "etable"

type opcodeEntry struct {
	class    program.OpcodeClass
	selector Cell
	config   OpcodeConfig
}

// ExecutionTable holds one row per execution step.  Every enabled row has
// exactly one active opcode selector, and the configuration of that opcode
// determines the contents of the row.
type ExecutionTable struct {
	mid    trace.ModuleId
	cells  Layout
	common CommonCells
	pool   *cellPool
	// Opcodes in registration order
	opcodes []opcodeEntry
	// Maps each opcode class to its index in opcodes
	dispatch map[program.OpcodeClass]int
	// Constraints, including those of each opcode.
	cb ConstraintBuilder
	// Expressions for the derived common cells
	mopsExpr   term.Term
	itableExpr term.Term
}

// Configure the execution table within a given layout, running each builder in
// the given order.  Registering more than one builder for the same opcode
// class is a definition-time defect, and panics.
func Configure(layout *trace.Layout, cells Layout, builders []Builder) *ExecutionTable {
	var (
		mid = layout.AddModule(ModuleName)
		col = func(name string) Cell { return Cell{layout.AddColumn(mid, name)} }
		p   = &ExecutionTable{mid: mid, cells: cells, dispatch: make(map[program.OpcodeClass]int)}
	)
	//
	p.common = CommonCells{
		Enabled: col("enabled"), Eid: col("eid"), Moid: col("moid"), Fid: col("fid"), Iid: col("iid"),
		Sp: col("sp"), Mops: col("mops"), ItableLookup: col("itable_lookup"),
	}
	//
	for _, b := range builders {
		if _, ok := p.dispatch[b.Class()]; ok {
			panic(fmt.Sprintf("duplicate configuration for opcode class %s", b.Class()))
		}
		//
		p.dispatch[b.Class()] = len(p.opcodes)
		p.opcodes = append(p.opcodes, opcodeEntry{b.Class(), col("sel_" + b.Class().String()), nil})
	}
	//
	p.pool = newCellPool(layout, mid, cells)
	root := &Allocator{common: &p.common, pool: p.pool}
	// Configure each opcode in turn
	for i, b := range builders {
		alloc := root.Fork()
		//
		p.cb.scope(p.opcodes[i].selector.Expr(Cur()))
		p.opcodes[i].config = b.Configure(alloc, &p.cb)
		//
		ranges, u64s, lookups := alloc.Used()
		log.Debugf("configured %s (%d range cells, %d u64 cells, %d lookup cells)", b.Class(), ranges, u64s,
			lookups)
	}
	//
	p.cb.scope(nil)
	p.configureCommon()
	//
	return p
}

// Module returns the identifier of the execution table module.
func (p *ExecutionTable) Module() trace.ModuleId {
	return p.mid
}

// Common returns the cells shared by all opcodes.
func (p *ExecutionTable) Common() CommonCells {
	return p.common
}

// Selector returns the selector cell of a given opcode class.
func (p *ExecutionTable) Selector(class program.OpcodeClass) Cell {
	return p.opcodes[p.index(class)].selector
}

// Config returns the configuration of a given opcode class.
func (p *ExecutionTable) Config(class program.OpcodeClass) OpcodeConfig {
	return p.opcodes[p.index(class)].config
}

// Constraints returns all constraints of the execution table.
func (p *ExecutionTable) Constraints() []constraint.Constraint {
	var constraints = append(p.cb.Finalize(p.mid), p.firstRow())
	// Bitwidth checks
	constraints = append(constraints,
		constraint.NewRange("etable eid", p.common.Eid.Column, 32),
		constraint.NewRange("etable moid", p.common.Moid.Column, 16),
		constraint.NewRange("etable fid", p.common.Fid.Column, 16),
		constraint.NewRange("etable iid", p.common.Iid.Column, 16),
		constraint.NewRange("etable sp", p.common.Sp.Column, 32),
	)
	//
	for _, c := range p.pool.ranges {
		constraints = append(constraints, constraint.NewRange("etable range cell", c.Column, RangeCellBits))
	}
	//
	for _, c := range p.pool.u64s {
		for _, limb := range c.Limbs {
			constraints = append(constraints, constraint.NewRange("etable u64 limb", limb.Column, RangeCellBits))
		}
	}
	//
	return constraints
}

// MLookupVectors returns, for each memory lookup slot used by some opcode, the
// vector of memory events looked up through that slot.
func (p *ExecutionTable) MLookupVectors() []constraint.Vector {
	var vectors []constraint.Vector
	//
	for j, c := range p.pool.lookups {
		var selectors []term.Term
		//
		for _, op := range p.opcodes {
			if op.config.MLookup(Cur(), MLookupItem(j)).HasValue() {
				selectors = append(selectors, op.selector.Expr(Cur()))
			}
		}
		//
		if len(selectors) > 0 {
			vectors = append(vectors, constraint.NewVector(p.mid, term.Sum(selectors...), c.Expr(Cur())))
		}
	}
	//
	return vectors
}

// InstructionLookup returns the vector of instructions executed, as looked up
// in the instruction table.
func (p *ExecutionTable) InstructionLookup() constraint.Vector {
	return constraint.NewVector(p.mid, p.common.Enabled.Expr(Cur()), p.common.ItableLookup.Expr(Cur()))
}

func (p *ExecutionTable) configureCommon() {
	var (
		cur     = Cur()
		one     = term.Const64(1)
		enabled = p.common.Enabled.Expr(cur)
		next    = p.common.Enabled.Expr(cur.Next())
		sels    []term.Term
		spdiffs []term.Term
		mops    []term.Term
		opcodes []term.Term
	)
	//
	for _, op := range p.opcodes {
		sel := op.selector.Expr(cur)
		sels = append(sels, sel)
		//
		p.cb.Push("etable selector bit", func(RowContext) []term.Term {
			return []term.Term{term.Product(sel, term.Difference(one, sel))}
		})
		//
		opcodes = append(opcodes, term.Product(sel, op.config.Opcode(cur)))
		//
		if d := op.config.SpDiff(cur); d.HasValue() {
			spdiffs = append(spdiffs, term.Product(sel, d.Unwrap()))
		}
		//
		if m := op.config.Mops(cur); m.HasValue() {
			mops = append(mops, term.Product(sel, m.Unwrap()))
		}
	}
	//
	p.mopsExpr = term.Sum(mops...)
	p.itableExpr = term.Product(enabled, program.EncodeInstructionExpr(p.common.Moid.Expr(cur),
		p.common.Fid.Expr(cur), p.common.Iid.Expr(cur), term.Sum(opcodes...)))
	//
	p.cb.Push("etable enabled bit", func(meta RowContext) []term.Term {
		return []term.Term{term.Product(enabled, term.Difference(one, enabled))}
	})
	p.cb.Push("etable selector sum", func(meta RowContext) []term.Term {
		return []term.Term{term.Difference(term.Sum(sels...), enabled)}
	})
	p.cb.Push("etable enabled prefix", func(meta RowContext) []term.Term {
		return []term.Term{term.Product(next, term.Difference(one, enabled))}
	})
	p.cb.Push("etable step", func(meta RowContext) []term.Term {
		var (
			eid  = p.common.Eid
			sp   = p.common.Sp
			moid = p.common.Moid
		)
		//
		return []term.Term{
			term.Product(next, term.Difference(eid.Expr(meta.Next()), eid.Expr(meta), one)),
			term.Product(next, term.Difference(sp.Expr(meta.Next()), sp.Expr(meta), term.Sum(spdiffs...))),
			term.Product(next, term.Difference(moid.Expr(meta.Next()), moid.Expr(meta))),
		}
	})
	p.cb.Push("etable mops", func(meta RowContext) []term.Term {
		return []term.Term{term.Difference(p.common.Mops.Expr(meta), p.mopsExpr)}
	})
	p.cb.Push("etable itable lookup", func(meta RowContext) []term.Term {
		return []term.Term{term.Difference(p.common.ItableLookup.Expr(meta), p.itableExpr)}
	})
	// Memory lookup slots
	for j, c := range p.pool.lookups {
		var exprs []term.Term
		//
		for _, op := range p.opcodes {
			if e := op.config.MLookup(cur, MLookupItem(j)); e.HasValue() {
				exprs = append(exprs, term.Product(op.selector.Expr(cur), e.Unwrap()))
			}
		}
		//
		p.cb.Push(fmt.Sprintf("etable mlookup %d", j), func(meta RowContext) []term.Term {
			return []term.Term{term.Difference(c.Expr(meta), term.Sum(exprs...))}
		})
	}
	// Limb decompositions
	for i, c := range p.pool.u64s {
		var limbs = make([]term.Term, len(c.Limbs))
		//
		for j, limb := range c.Limbs {
			limbs[j] = term.Scale(limb.Expr(cur), field.TwoPowN(uint(j*RangeCellBits)))
		}
		//
		p.cb.Push(fmt.Sprintf("etable u64 %d", i), func(meta RowContext) []term.Term {
			return []term.Term{term.Difference(c.Expr(meta), term.Sum(limbs...))}
		})
	}
}

// Execution begins with eid 1.
func (p *ExecutionTable) firstRow() constraint.Constraint {
	enabled := p.common.Enabled.Expr(Cur())
	eid := p.common.Eid.Expr(Cur())
	//
	return constraint.NewLocalVanishing("etable first eid", p.mid, 0,
		term.Product(enabled, term.Difference(eid, term.Const64(1))))
}

// Assign the execution table from a given execution trace, padding it to a
// given height.  Rows are assigned concurrently using at most the given number
// of workers (where zero indicates no limit).  An error is returned if the
// trace does not fit, if any step has no configuration, or if any cell cannot
// be assigned.  Dispatch defects are returned as a *DispatchDefect.
func (p *ExecutionTable) Assign(tr *trace.ArrayTrace, entries []program.Entry, height uint, workers uint) error {
	var (
		stats  = util.StartPhase("assigning execution table")
		module = tr.Module(p.mid)
		group  errgroup.Group
	)
	//
	if uint(len(entries)) > height {
		return fmt.Errorf("execution trace too long (%d steps, table height %d)", len(entries), height)
	}
	//
	if workers > 0 {
		group.SetLimit(int(workers))
	}
	// Allocate all rows up front so they can be written concurrently.
	module.Resize(height)
	//
	for i := range entries {
		status := &StepStatus{Current: &entries[i]}
		//
		if i+1 < len(entries) {
			status.Next = &entries[i+1]
		}
		//
		group.Go(func() error {
			return p.assignRow(NewContext(module, uint(i)), status)
		})
	}
	//
	if err := group.Wait(); err != nil {
		return err
	}
	//
	stats.Done()
	log.Debugf("assigned %d steps (height %d)", len(entries), height)
	//
	return nil
}

func (p *ExecutionTable) assignRow(ctx *Context, status *StepStatus) error {
	var (
		entry   = status.Current
		idx, ok = p.dispatch[entry.Step.Class()]
	)
	//
	if !ok {
		return fmt.Errorf("%w %s (eid %d)", ErrUnsupportedOpcode, entry.Step.Class(), entry.Eid)
	}
	//
	op := p.opcodes[idx]
	//
	p.common.Enabled.Assign(ctx, field.One())
	op.selector.Assign(ctx, field.One())
	p.common.Eid.Assign(ctx, field.Uint64(entry.Eid))
	p.common.Moid.Assign(ctx, field.Uint64(entry.Moid))
	p.common.Fid.Assign(ctx, field.Uint64(entry.Fid))
	p.common.Iid.Assign(ctx, field.Uint64(entry.Iid))
	p.common.Sp.Assign(ctx, field.Uint64(entry.Sp))
	//
	if err := op.config.Assign(ctx, status, entry); err != nil {
		return err
	}
	// Derived cells
	p.common.Mops.Assign(ctx, p.mopsExpr.EvalAt(int(ctx.Row()), ctx.Module()))
	p.common.ItableLookup.Assign(ctx, p.itableExpr.EvalAt(int(ctx.Row()), ctx.Module()))
	//
	return nil
}

func (p *ExecutionTable) index(class program.OpcodeClass) int {
	idx, ok := p.dispatch[class]
	//
	if !ok {
		panic(fmt.Sprintf("no configuration for opcode class %s", class))
	}
	//
	return idx
}

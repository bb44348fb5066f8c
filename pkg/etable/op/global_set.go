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
package op

import (
	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/mtable"
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/util"
)

// GlobalSetConfig is the configuration of global.set, which pops the stack
// and writes the value into a global variable.
type GlobalSetConfig struct {
	eid, moid, sp         etable.Cell
	originMoid, originIdx etable.RangeCell
	idx                   etable.RangeCell
	vtype                 etable.RangeCell
	value                 etable.U64Cell
	// Memory operations
	lookupStackRead, lookupGlobalWrite etable.MLookupCell
}

// GlobalSetBuilder builds the configuration for global.set.
type GlobalSetBuilder struct{}

// Class implementation for Builder interface.
func (b GlobalSetBuilder) Class() program.OpcodeClass {
	return program.OpcodeClassGlobalSet
}

// Configure implementation for Builder interface.
func (b GlobalSetBuilder) Configure(alloc *etable.Allocator, cb *etable.ConstraintBuilder) etable.OpcodeConfig {
	p := &GlobalSetConfig{
		eid:        alloc.Eid(),
		moid:       alloc.Moid(),
		sp:         alloc.Sp(),
		originMoid: alloc.AllocRangeCell(),
		originIdx:  alloc.AllocRangeCell(),
		idx:        alloc.AllocRangeCell(),
		vtype:      alloc.AllocRangeCell(),
		value:      alloc.AllocU64Cell(),
	}
	//
	p.lookupStackRead = alloc.AllocMLookupCell()
	p.lookupGlobalWrite = alloc.AllocMLookupCell()
	//
	cb.Push("op_global_set idx constraints", func(meta etable.RowContext) []term.Term {
		return []term.Term{
			term.Difference(p.originMoid.Expr(meta), p.moid.Expr(meta)),
			term.Difference(p.originIdx.Expr(meta), p.idx.Expr(meta)),
		}
	})
	//
	return p
}

// Opcode implementation for OpcodeConfig interface.
func (p *GlobalSetConfig) Opcode(meta etable.RowContext) term.Term {
	return program.EncodeOpcodeExpr(program.OpcodeClassGlobalSet, term.Const64(0), p.idx.Expr(meta))
}

// Assign implementation for OpcodeConfig interface.
func (p *GlobalSetConfig) Assign(ctx *etable.Context, status *etable.StepStatus, entry *program.Entry) error {
	step, ok := entry.Step.(*program.GlobalSetStep)
	//
	if !ok {
		return etable.NewDispatchDefect(ctx, program.OpcodeClassGlobalSet, entry.Step)
	}
	//
	return assignAll(
		func() error { return p.idx.Assign(ctx, step.Idx) },
		func() error { return p.originIdx.Assign(ctx, step.OriginIdx) },
		func() error { return p.originMoid.Assign(ctx, step.OriginModule) },
		func() error { return p.vtype.Assign(ctx, uint64(step.Type)) },
		func() error { return p.value.Assign(ctx, step.Value) },
		func() error {
			ev := mtable.StackRead(status.Current.Eid, 1, status.Current.Sp+1, step.Type, step.Value)
			return p.lookupStackRead.AssignEvent(ctx, ev)
		},
		func() error {
			ev := mtable.GlobalSet(status.Current.Eid, 2, step.OriginModule, step.OriginIdx, step.Type, step.Value)
			return p.lookupGlobalWrite.AssignEvent(ctx, ev)
		},
	)
}

// SpDiff implementation for OpcodeConfig interface.
func (p *GlobalSetConfig) SpDiff(meta etable.RowContext) util.Option[term.Term] {
	return util.Some[term.Term](term.Const64(1))
}

// Mops implementation for OpcodeConfig interface.
func (p *GlobalSetConfig) Mops(meta etable.RowContext) util.Option[term.Term] {
	return util.Some[term.Term](term.Const64(2))
}

// MLookup implementation for OpcodeConfig interface.
func (p *GlobalSetConfig) MLookup(meta etable.RowContext, item etable.MLookupItem) util.Option[term.Term] {
	switch item {
	case etable.First:
		sp := term.Sum(p.sp.Expr(meta), term.Const64(1))
		//
		return util.Some(mtable.EncodeStackReadExpr(p.eid.Expr(meta), term.Const64(1), sp, p.vtype.Expr(meta),
			p.value.Expr(meta)))
	case etable.Second:
		return util.Some(mtable.EncodeGlobalSetExpr(p.eid.Expr(meta), term.Const64(2), p.originMoid.Expr(meta),
			p.originIdx.Expr(meta), p.vtype.Expr(meta), p.value.Expr(meta)))
	}
	//
	return util.None[term.Term]()
}

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

// GlobalGetConfig is the configuration of global.get, which reads a global
// variable and pushes its value onto the stack.
type GlobalGetConfig struct {
	eid, moid, sp etable.Cell
	// Address where the global is declared
	originMoid, originIdx etable.RangeCell
	// Index of the global as compiled
	idx   etable.RangeCell
	vtype etable.RangeCell
	value etable.U64Cell
	// Memory operations
	lookupGlobalRead, lookupStackWrite etable.MLookupCell
}

// GlobalGetBuilder builds the configuration for global.get.
type GlobalGetBuilder struct{}

// Class implementation for Builder interface.
func (b GlobalGetBuilder) Class() program.OpcodeClass {
	return program.OpcodeClassGlobalGet
}

// Configure implementation for Builder interface.
func (b GlobalGetBuilder) Configure(alloc *etable.Allocator, cb *etable.ConstraintBuilder) etable.OpcodeConfig {
	p := &GlobalGetConfig{
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
	p.lookupGlobalRead = alloc.AllocMLookupCell()
	p.lookupStackWrite = alloc.AllocMLookupCell()
	// Without imports, a global is always declared in the executing module.
	// This relation changes once imports are resolved.
	cb.Push("op_global_get idx constraints", func(meta etable.RowContext) []term.Term {
		return []term.Term{
			term.Difference(p.originMoid.Expr(meta), p.moid.Expr(meta)),
			term.Difference(p.originIdx.Expr(meta), p.idx.Expr(meta)),
		}
	})
	//
	return p
}

// Opcode implementation for OpcodeConfig interface.
func (p *GlobalGetConfig) Opcode(meta etable.RowContext) term.Term {
	return program.EncodeOpcodeExpr(program.OpcodeClassGlobalGet, term.Const64(0), p.idx.Expr(meta))
}

// Assign implementation for OpcodeConfig interface.
func (p *GlobalGetConfig) Assign(ctx *etable.Context, status *etable.StepStatus, entry *program.Entry) error {
	step, ok := entry.Step.(*program.GlobalGetStep)
	//
	if !ok {
		return etable.NewDispatchDefect(ctx, program.OpcodeClassGlobalGet, entry.Step)
	}
	//
	return assignAll(
		func() error { return p.idx.Assign(ctx, step.Idx) },
		func() error { return p.originIdx.Assign(ctx, step.OriginIdx) },
		func() error { return p.originMoid.Assign(ctx, step.OriginModule) },
		func() error { return p.vtype.Assign(ctx, uint64(step.Type)) },
		func() error { return p.value.Assign(ctx, step.Value) },
		func() error {
			ev := mtable.GlobalGet(status.Current.Eid, 1, step.OriginModule, step.OriginIdx, step.Type, step.Value)
			return p.lookupGlobalRead.AssignEvent(ctx, ev)
		},
		func() error {
			ev := mtable.StackWrite(status.Current.Eid, 2, status.Current.Sp, step.Type, step.Value)
			return p.lookupStackWrite.AssignEvent(ctx, ev)
		},
	)
}

// SpDiff implementation for OpcodeConfig interface.
func (p *GlobalGetConfig) SpDiff(meta etable.RowContext) util.Option[term.Term] {
	return util.Some[term.Term](term.ConstInt(-1))
}

// Mops implementation for OpcodeConfig interface.
func (p *GlobalGetConfig) Mops(meta etable.RowContext) util.Option[term.Term] {
	return util.Some[term.Term](term.Const64(2))
}

// MLookup implementation for OpcodeConfig interface.
func (p *GlobalGetConfig) MLookup(meta etable.RowContext, item etable.MLookupItem) util.Option[term.Term] {
	switch item {
	case etable.First:
		return util.Some(mtable.EncodeGlobalGetExpr(p.eid.Expr(meta), term.Const64(1), p.originMoid.Expr(meta),
			p.originIdx.Expr(meta), p.vtype.Expr(meta), p.value.Expr(meta)))
	case etable.Second:
		return util.Some(mtable.EncodeStackWriteExpr(p.eid.Expr(meta), term.Const64(2), p.sp.Expr(meta),
			p.vtype.Expr(meta), p.value.Expr(meta)))
	}
	//
	return util.None[term.Term]()
}

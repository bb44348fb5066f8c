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

// ConstConfig is the configuration of const, which pushes an immediate value
// onto the stack.
type ConstConfig struct {
	eid, sp     etable.Cell
	vtype       etable.RangeCell
	value       etable.U64Cell
	lookupWrite etable.MLookupCell
}

// ConstBuilder builds the configuration for const.
type ConstBuilder struct{}

// Class implementation for Builder interface.
func (b ConstBuilder) Class() program.OpcodeClass {
	return program.OpcodeClassConst
}

// Configure implementation for Builder interface.
func (b ConstBuilder) Configure(alloc *etable.Allocator, cb *etable.ConstraintBuilder) etable.OpcodeConfig {
	return &ConstConfig{
		eid:         alloc.Eid(),
		sp:          alloc.Sp(),
		vtype:       alloc.AllocRangeCell(),
		value:       alloc.AllocU64Cell(),
		lookupWrite: alloc.AllocMLookupCell(),
	}
}

// Opcode implementation for OpcodeConfig interface.
func (p *ConstConfig) Opcode(meta etable.RowContext) term.Term {
	return program.EncodeOpcodeExpr(program.OpcodeClassConst, p.vtype.Expr(meta), p.value.Expr(meta))
}

// Assign implementation for OpcodeConfig interface.
func (p *ConstConfig) Assign(ctx *etable.Context, status *etable.StepStatus, entry *program.Entry) error {
	step, ok := entry.Step.(*program.ConstStep)
	//
	if !ok {
		return etable.NewDispatchDefect(ctx, program.OpcodeClassConst, entry.Step)
	}
	//
	return assignAll(
		func() error { return p.vtype.Assign(ctx, uint64(step.Type)) },
		func() error { return p.value.Assign(ctx, step.Value) },
		func() error {
			ev := mtable.StackWrite(status.Current.Eid, 1, status.Current.Sp, step.Type, step.Value)
			return p.lookupWrite.AssignEvent(ctx, ev)
		},
	)
}

// SpDiff implementation for OpcodeConfig interface.
func (p *ConstConfig) SpDiff(meta etable.RowContext) util.Option[term.Term] {
	return util.Some[term.Term](term.ConstInt(-1))
}

// Mops implementation for OpcodeConfig interface.
func (p *ConstConfig) Mops(meta etable.RowContext) util.Option[term.Term] {
	return util.Some[term.Term](term.Const64(1))
}

// MLookup implementation for OpcodeConfig interface.
func (p *ConstConfig) MLookup(meta etable.RowContext, item etable.MLookupItem) util.Option[term.Term] {
	if item == etable.First {
		return util.Some(mtable.EncodeStackWriteExpr(p.eid.Expr(meta), term.Const64(1), p.sp.Expr(meta),
			p.vtype.Expr(meta), p.value.Expr(meta)))
	}
	//
	return util.None[term.Term]()
}

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
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/util"
)

// DropConfig is the configuration of drop, which discards the top of the
// stack.  The value discarded is never used, hence it is not read.
type DropConfig struct{}

// DropBuilder builds the configuration for drop.
type DropBuilder struct{}

// Class implementation for Builder interface.
func (b DropBuilder) Class() program.OpcodeClass {
	return program.OpcodeClassDrop
}

// Configure implementation for Builder interface.
func (b DropBuilder) Configure(alloc *etable.Allocator, cb *etable.ConstraintBuilder) etable.OpcodeConfig {
	return &DropConfig{}
}

// Opcode implementation for OpcodeConfig interface.
func (p *DropConfig) Opcode(meta etable.RowContext) term.Term {
	return program.EncodeOpcodeExpr(program.OpcodeClassDrop, term.Const64(0), term.Const64(0))
}

// Assign implementation for OpcodeConfig interface.
func (p *DropConfig) Assign(ctx *etable.Context, status *etable.StepStatus, entry *program.Entry) error {
	if _, ok := entry.Step.(*program.DropStep); !ok {
		return etable.NewDispatchDefect(ctx, program.OpcodeClassDrop, entry.Step)
	}
	//
	return nil
}

// SpDiff implementation for OpcodeConfig interface.
func (p *DropConfig) SpDiff(meta etable.RowContext) util.Option[term.Term] {
	return util.Some[term.Term](term.Const64(1))
}

// Mops implementation for OpcodeConfig interface.
func (p *DropConfig) Mops(meta etable.RowContext) util.Option[term.Term] {
	return util.None[term.Term]()
}

// MLookup implementation for OpcodeConfig interface.
func (p *DropConfig) MLookup(meta etable.RowContext, item etable.MLookupItem) util.Option[term.Term] {
	return util.None[term.Term]()
}

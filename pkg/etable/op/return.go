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

// ReturnConfig is the configuration of return.  Since calls are not
// supported, return leaves the stack untouched and performs no memory
// operations.
type ReturnConfig struct{}

// ReturnBuilder builds the configuration for return.
type ReturnBuilder struct{}

// Class implementation for Builder interface.
func (b ReturnBuilder) Class() program.OpcodeClass {
	return program.OpcodeClassReturn
}

// Configure implementation for Builder interface.
func (b ReturnBuilder) Configure(alloc *etable.Allocator, cb *etable.ConstraintBuilder) etable.OpcodeConfig {
	return &ReturnConfig{}
}

// Opcode implementation for OpcodeConfig interface.
func (p *ReturnConfig) Opcode(meta etable.RowContext) term.Term {
	return program.EncodeOpcodeExpr(program.OpcodeClassReturn, term.Const64(0), term.Const64(0))
}

// Assign implementation for OpcodeConfig interface.
func (p *ReturnConfig) Assign(ctx *etable.Context, status *etable.StepStatus, entry *program.Entry) error {
	if _, ok := entry.Step.(*program.ReturnStep); !ok {
		return etable.NewDispatchDefect(ctx, program.OpcodeClassReturn, entry.Step)
	}
	//
	return nil
}

// SpDiff implementation for OpcodeConfig interface.
func (p *ReturnConfig) SpDiff(meta etable.RowContext) util.Option[term.Term] {
	return util.None[term.Term]()
}

// Mops implementation for OpcodeConfig interface.
func (p *ReturnConfig) Mops(meta etable.RowContext) util.Option[term.Term] {
	return util.None[term.Term]()
}

// MLookup implementation for OpcodeConfig interface.
func (p *ReturnConfig) MLookup(meta etable.RowContext, item etable.MLookupItem) util.Option[term.Term] {
	return util.None[term.Term]()
}

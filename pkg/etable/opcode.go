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
	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/util"
)

// MLookupItem identifies one of the memory operations performed by an opcode,
// in the order they are performed.
type MLookupItem uint

const (
	// First memory operation.
	First MLookupItem = iota
	// Second memory operation.
	Second
	// Third memory operation.
	Third
	// Fourth memory operation.
	Fourth
)

// StepStatus provides the step being assigned, along with the step which
// follows it (if any).
type StepStatus struct {
	Current *program.Entry
	Next    *program.Entry
}

// Builder configures the execution table for a single opcode class.  Every
// builder is run exactly once, at definition time.
type Builder interface {
	// Class returns the opcode class handled by this builder.
	Class() program.OpcodeClass
	// Configure allocates the cells used by this opcode, and registers its
	// constraints.  Neither the allocator nor the constraint builder may be
	// retained beyond this call.
	Configure(alloc *Allocator, cb *ConstraintBuilder) OpcodeConfig
}

// OpcodeConfig is the configuration of a single opcode class within the
// execution table.
type OpcodeConfig interface {
	// Opcode returns the opcode tag of the instruction executed on a row.
	Opcode(meta RowContext) term.Term
	// Assign the cells of this opcode for a given execution step.  The step
	// must belong to the opcode class of this configuration, otherwise a
	// *DispatchDefect is returned.
	Assign(ctx *Context, status *StepStatus, entry *program.Entry) error
	// SpDiff returns the change in stack pointer caused by this opcode (or
	// None if it is unchanged).
	SpDiff(meta RowContext) util.Option[term.Term]
	// Mops returns the number of memory operations performed by this opcode
	// (or None if there are none).
	Mops(meta RowContext) util.Option[term.Term]
	// MLookup returns the encoding of a given memory operation performed by
	// this opcode (or None if there is no such operation).  This must agree
	// with the value assigned to the corresponding lookup cell.
	MLookup(meta RowContext, item MLookupItem) util.Option[term.Term]
}

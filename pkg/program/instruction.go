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
package program

import "fmt"

// Instruction represents a single statically compiled instruction within a
// function body.  The set of instructions is closed, and each instruction
// belongs to exactly one opcode class.
type Instruction interface {
	// Class returns the opcode class of this instruction.
	Class() OpcodeClass
	// Operands returns the (up to two) immediate operands of this instruction,
	// as used in its opcode encoding.  Unused operands are zero.
	Operands() (arg1 uint64, arg0 uint64)
	// String returns a human-readable form of this instruction.
	String() string
	isInstruction()
}

// Const pushes an immediate value of a given type.
type Const struct {
	Type  VarType
	Value uint64
}

// Class implementation for Instruction interface.
func (p *Const) Class() OpcodeClass { return OpcodeClassConst }

// Operands implementation for Instruction interface.
func (p *Const) Operands() (uint64, uint64) { return uint64(p.Type), p.Value }

func (p *Const) String() string { return fmt.Sprintf("%s.const %d", p.Type, p.Value) }

func (p *Const) isInstruction() {}

// Drop discards the top of the operand stack.
type Drop struct{}

// Class implementation for Instruction interface.
func (p *Drop) Class() OpcodeClass { return OpcodeClassDrop }

// Operands implementation for Instruction interface.
func (p *Drop) Operands() (uint64, uint64) { return 0, 0 }

func (p *Drop) String() string { return "drop" }

func (p *Drop) isInstruction() {}

// Return terminates the enclosing function.
type Return struct{}

// Class implementation for Instruction interface.
func (p *Return) Class() OpcodeClass { return OpcodeClassReturn }

// Operands implementation for Instruction interface.
func (p *Return) Operands() (uint64, uint64) { return 0, 0 }

func (p *Return) String() string { return "return" }

func (p *Return) isInstruction() {}

// GlobalGet pushes the value of a given global variable.
type GlobalGet struct {
	Idx uint64
}

// Class implementation for Instruction interface.
func (p *GlobalGet) Class() OpcodeClass { return OpcodeClassGlobalGet }

// Operands implementation for Instruction interface.
func (p *GlobalGet) Operands() (uint64, uint64) { return 0, p.Idx }

func (p *GlobalGet) String() string { return fmt.Sprintf("global.get %d", p.Idx) }

func (p *GlobalGet) isInstruction() {}

// GlobalSet pops the top of the operand stack into a given global variable.
type GlobalSet struct {
	Idx uint64
}

// Class implementation for Instruction interface.
func (p *GlobalSet) Class() OpcodeClass { return OpcodeClassGlobalSet }

// Operands implementation for Instruction interface.
func (p *GlobalSet) Operands() (uint64, uint64) { return 0, p.Idx }

func (p *GlobalSet) String() string { return fmt.Sprintf("global.set %d", p.Idx) }

func (p *GlobalSet) isInstruction() {}

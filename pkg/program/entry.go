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

// Entry records one step of a concrete execution.  Entries are produced by the
// interpreter and are immutable thereafter.
type Entry struct {
	// Execution index of this step (starting from 1)
	Eid uint64
	// Static address of the executed instruction
	Moid, Fid, Iid uint64
	// Stack pointer before execution
	Sp uint64
	// Dynamic information about the executed instruction
	Step StepInfo
}

func (p *Entry) String() string {
	return fmt.Sprintf("#%d [%d:%d:%d] sp=%d %s", p.Eid, p.Moid, p.Fid, p.Iid, p.Sp, p.Step)
}

// StepInfo captures the dynamic operands of an executed instruction.  There is
// exactly one kind of step per opcode class.
type StepInfo interface {
	// Class returns the opcode class of the executed instruction.
	Class() OpcodeClass
	// String returns a human-readable form of this step.
	String() string
}

// ConstStep records the execution of a Const instruction.
type ConstStep struct {
	Type  VarType
	Value uint64
}

// Class implementation for StepInfo interface.
func (p *ConstStep) Class() OpcodeClass { return OpcodeClassConst }

func (p *ConstStep) String() string { return fmt.Sprintf("%s.const %d", p.Type, p.Value) }

// DropStep records the execution of a Drop instruction.
type DropStep struct{}

// Class implementation for StepInfo interface.
func (p *DropStep) Class() OpcodeClass { return OpcodeClassDrop }

func (p *DropStep) String() string { return "drop" }

// ReturnStep records the execution of a Return instruction.
type ReturnStep struct{}

// Class implementation for StepInfo interface.
func (p *ReturnStep) Class() OpcodeClass { return OpcodeClassReturn }

func (p *ReturnStep) String() string { return "return" }

// GlobalGetStep records the execution of a GlobalGet instruction.  The origin
// identifies the module (and index within it) where the global is actually
// declared.  Without imports, this always matches the executing module.
type GlobalGetStep struct {
	Idx          uint64
	OriginModule uint64
	OriginIdx    uint64
	Type         VarType
	Value        uint64
}

// Class implementation for StepInfo interface.
func (p *GlobalGetStep) Class() OpcodeClass { return OpcodeClassGlobalGet }

func (p *GlobalGetStep) String() string {
	return fmt.Sprintf("global.get %d (%d:%d) = %s %d", p.Idx, p.OriginModule, p.OriginIdx, p.Type, p.Value)
}

// GlobalSetStep records the execution of a GlobalSet instruction.
type GlobalSetStep struct {
	Idx          uint64
	OriginModule uint64
	OriginIdx    uint64
	Type         VarType
	Value        uint64
}

// Class implementation for StepInfo interface.
func (p *GlobalSetStep) Class() OpcodeClass { return OpcodeClassGlobalSet }

func (p *GlobalSetStep) String() string {
	return fmt.Sprintf("global.set %d (%d:%d) = %s %d", p.Idx, p.OriginModule, p.OriginIdx, p.Type, p.Value)
}

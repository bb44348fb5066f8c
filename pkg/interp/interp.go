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
package interp

import (
	"fmt"

	"github.com/consensys/go-etable/pkg/program"
	log "github.com/sirupsen/logrus"
)

// DefaultStackSize determines the number of operand stack slots available to
// an execution, and hence the initial stack pointer.  The stack grows
// downwards, such that pushing decrements the stack pointer.
const DefaultStackSize = 4096

type slot struct {
	vtype program.VarType
	value uint64
}

// Interpreter executes a module, recording one entry for every instruction
// executed.
type Interpreter struct {
	module  *program.Module
	globals []slot
	stack   map[uint64]slot
	// stack pointer
	sp uint64
	// initial stack pointer (i.e. bottom of stack)
	base uint64
	// execution trace
	entries []program.Entry
}

// NewInterpreter constructs an interpreter for a given module with a given
// initial stack pointer.
func NewInterpreter(module *program.Module, sp uint64) *Interpreter {
	globals := make([]slot, len(module.Globals))
	//
	for i, g := range module.Globals {
		globals[i] = slot{g.Type, g.Init}
	}
	//
	return &Interpreter{module, globals, make(map[uint64]slot), sp, sp, nil}
}

// Run a given exported function from a module, returning the resulting
// execution trace.
func Run(module *program.Module, export string, sp uint64) ([]program.Entry, error) {
	return NewInterpreter(module, sp).Call(export)
}

// Call a given exported function, returning the execution trace accumulated
// thus far.
func (p *Interpreter) Call(export string) ([]program.Entry, error) {
	fid, ok := p.module.Exports[export]
	//
	if !ok || fid >= uint64(len(p.module.Functions)) {
		return nil, fmt.Errorf("unknown export \"%s\"", export)
	}
	//
	for iid, insn := range p.module.Functions[fid].Code() {
		entry := program.Entry{
			Eid:  uint64(len(p.entries)) + 1,
			Moid: p.module.Id,
			Fid:  fid,
			Iid:  uint64(iid),
			Sp:   p.sp,
		}
		//
		step, err := p.execute(insn)
		if err != nil {
			return nil, fmt.Errorf("%s (fid %d, iid %d): %w", insn.String(), fid, iid, err)
		}
		//
		entry.Step = step
		p.entries = append(p.entries, entry)
		//
		if _, ok := step.(*program.ReturnStep); ok {
			break
		}
	}
	//
	log.Debugf("executed %s in %d steps", export, len(p.entries))
	//
	return p.entries, nil
}

func (p *Interpreter) execute(insn program.Instruction) (program.StepInfo, error) {
	switch insn := insn.(type) {
	case *program.Const:
		if !insn.Type.Fits(insn.Value) {
			return nil, fmt.Errorf("constant %d does not fit %s", insn.Value, insn.Type)
		}
		//
		return &program.ConstStep{Type: insn.Type, Value: insn.Value}, p.push(slot{insn.Type, insn.Value})
	case *program.Drop:
		_, err := p.pop()
		return &program.DropStep{}, err
	case *program.Return:
		return &program.ReturnStep{}, nil
	case *program.GlobalGet:
		if insn.Idx >= uint64(len(p.globals)) {
			return nil, fmt.Errorf("global %d out of bounds", insn.Idx)
		}
		//
		g := p.globals[insn.Idx]
		step := &program.GlobalGetStep{
			Idx: insn.Idx, OriginModule: p.module.Id, OriginIdx: insn.Idx, Type: g.vtype, Value: g.value,
		}
		//
		return step, p.push(g)
	case *program.GlobalSet:
		if insn.Idx >= uint64(len(p.globals)) {
			return nil, fmt.Errorf("global %d out of bounds", insn.Idx)
		} else if !p.module.Globals[insn.Idx].Mutable {
			return nil, fmt.Errorf("global %d is immutable", insn.Idx)
		}
		//
		val, err := p.pop()
		if err != nil {
			return nil, err
		} else if val.vtype != p.globals[insn.Idx].vtype {
			return nil, fmt.Errorf("type mismatch (expected %s, found %s)", p.globals[insn.Idx].vtype, val.vtype)
		}
		//
		p.globals[insn.Idx] = val
		step := &program.GlobalSetStep{
			Idx: insn.Idx, OriginModule: p.module.Id, OriginIdx: insn.Idx, Type: val.vtype, Value: val.value,
		}
		//
		return step, nil
	}
	//
	return nil, fmt.Errorf("unsupported instruction %s", insn.String())
}

// Push writes to the current stack pointer, and then moves it down.
func (p *Interpreter) push(val slot) error {
	if p.sp == 0 {
		return fmt.Errorf("stack overflow")
	}
	//
	p.stack[p.sp] = val
	p.sp--
	//
	return nil
}

// Pop moves the stack pointer up, and then reads from it.
func (p *Interpreter) pop() (slot, error) {
	if p.sp >= p.base {
		return slot{}, fmt.Errorf("stack underflow")
	}
	//
	p.sp++
	val := p.stack[p.sp]
	delete(p.stack, p.sp)
	//
	return val, nil
}

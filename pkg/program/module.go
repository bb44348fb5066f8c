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

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Global describes a global variable declared within a module.
type Global struct {
	// Declared type of this global
	Type VarType
	// Whether or not this global can be assigned
	Mutable bool
	// Initial value of this global
	Init uint64
}

// Function describes a function declared within a module.  Function bodies are
// straight-line sequences of instructions.
type Function struct {
	Name string
	Body []Instruction
}

// Code returns the instructions executed by this function.  This is the body,
// followed by an implicit return if the body does not already end in one.
func (p *Function) Code() []Instruction {
	n := len(p.Body)
	//
	if n > 0 {
		if _, ok := p.Body[n-1].(*Return); ok {
			return p.Body
		}
	}
	// Append implicit return
	code := make([]Instruction, n+1)
	copy(code, p.Body)
	code[n] = &Return{}
	//
	return code
}

// Module represents a statically compiled program module.
type Module struct {
	// Identifier of this module
	Id uint64
	// Globals declared in this module, indexed by position.
	Globals []Global
	// Functions declared in this module, indexed by position.
	Functions []Function
	// Exported functions, mapped to their function index.
	Exports map[string]uint64
}

// Validate checks that every instruction and global in this module is well
// formed with respect to the module itself.  Specifically, immediates must fit
// their declared types, global indices must be in bounds and every address
// component must fit within the instruction table encoding.
func (p *Module) Validate() error {
	var errs []error
	//
	if p.Id > math.MaxUint16 {
		errs = append(errs, fmt.Errorf("module id %d out of range", p.Id))
	}
	//
	for i, g := range p.Globals {
		if !g.Type.Valid() {
			errs = append(errs, fmt.Errorf("global %d has invalid type %s", i, g.Type))
		} else if !g.Type.Fits(g.Init) {
			errs = append(errs, fmt.Errorf("global %d initialiser %d does not fit %s", i, g.Init, g.Type))
		}
	}
	//
	for fid, fn := range p.Functions {
		if code := fn.Code(); len(code) > math.MaxUint16 {
			errs = append(errs, fmt.Errorf("function %s too long (%d instructions)", fn.Name, len(code)))
		}
		//
		for iid, insn := range fn.Body {
			if err := p.validateInstruction(insn); err != nil {
				errs = append(errs, fmt.Errorf("%s[%d] (fid %d): %w", fn.Name, iid, fid, err))
			}
		}
	}
	//
	for name, fid := range p.Exports {
		if fid >= uint64(len(p.Functions)) {
			errs = append(errs, fmt.Errorf("export %s refers to unknown function %d", name, fid))
		}
	}
	//
	return errors.Join(errs...)
}

func (p *Module) validateInstruction(insn Instruction) error {
	switch insn := insn.(type) {
	case *Const:
		if !insn.Type.Valid() || !insn.Type.Fits(insn.Value) {
			return fmt.Errorf("invalid constant %s", insn.String())
		}
	case *GlobalGet:
		if insn.Idx >= uint64(len(p.Globals)) {
			return fmt.Errorf("unknown global %d", insn.Idx)
		}
	case *GlobalSet:
		if insn.Idx >= uint64(len(p.Globals)) {
			return fmt.Errorf("unknown global %d", insn.Idx)
		} else if !p.Globals[insn.Idx].Mutable {
			return fmt.Errorf("global %d is immutable", insn.Idx)
		}
	}
	//
	return nil
}

// ============================================================================
// JSON
// ============================================================================

type jsonGlobal struct {
	Type    string `json:"type"`
	Mutable bool   `json:"mutable"`
	Init    uint64 `json:"init"`
}

type jsonFunction struct {
	Name string   `json:"name"`
	Body []string `json:"body"`
}

type jsonModule struct {
	Id        uint64            `json:"id"`
	Globals   []jsonGlobal      `json:"globals"`
	Functions []jsonFunction    `json:"functions"`
	Exports   map[string]uint64 `json:"exports"`
}

// FromBytes parses a module expressed in JSON notation.  For example:
//
//	{"globals": [{"type": "i32", "init": 10}],
//	 "functions": [{"name": "test", "body": ["global.get 0", "drop"]}],
//	 "exports": {"test": 0}}
//
// The resulting module is validated before being returned.
func FromBytes(data []byte) (*Module, error) {
	var raw jsonModule
	//
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	//
	module := &Module{Id: raw.Id, Exports: raw.Exports}
	//
	for i, g := range raw.Globals {
		vtype, err := ParseVarType(g.Type)
		if err != nil {
			return nil, fmt.Errorf("global %d: %w", i, err)
		}
		//
		module.Globals = append(module.Globals, Global{vtype, g.Mutable, g.Init})
	}
	//
	for _, f := range raw.Functions {
		fn := Function{Name: f.Name}
		//
		for i, line := range f.Body {
			insn, err := ParseInstruction(line)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", f.Name, i, err)
			}
			//
			fn.Body = append(fn.Body, insn)
		}
		//
		module.Functions = append(module.Functions, fn)
	}
	//
	if err := module.Validate(); err != nil {
		return nil, err
	}
	//
	return module, nil
}

// ParseInstruction parses an instruction from its textual form, such as
// "i32.const 10" or "global.get 0".
func ParseInstruction(text string) (Instruction, error) {
	var (
		fields = strings.Fields(text)
		arg    uint64
		err    error
	)
	//
	if len(fields) == 0 || len(fields) > 2 {
		return nil, fmt.Errorf("malformed instruction \"%s\"", text)
	} else if len(fields) == 2 {
		if arg, err = strconv.ParseUint(fields[1], 0, 64); err != nil {
			return nil, fmt.Errorf("malformed operand in \"%s\"", text)
		}
	}
	//
	switch name := fields[0]; {
	case len(fields) == 1 && name == "drop":
		return &Drop{}, nil
	case len(fields) == 1 && name == "return":
		return &Return{}, nil
	case len(fields) == 2 && name == "global.get":
		return &GlobalGet{arg}, nil
	case len(fields) == 2 && name == "global.set":
		return &GlobalSet{arg}, nil
	case len(fields) == 2 && strings.HasSuffix(name, ".const"):
		vtype, err := ParseVarType(strings.TrimSuffix(name, ".const"))
		if err != nil {
			return nil, err
		}
		//
		return &Const{vtype, arg}, nil
	}
	//
	return nil, fmt.Errorf("unknown instruction \"%s\"", text)
}

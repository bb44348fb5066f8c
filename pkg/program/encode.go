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
	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/util/encoding"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/holiman/uint256"
)

// OpcodeLayout determines how an instruction is encoded as an opcode tag.  The
// class occupies the most significant bits, followed by the two operands.
// Operands are held in execution table cells, hence each field is at least as
// wide as the range check applied to the cell feeding it (arg1 takes a 16bit
// range cell).
var OpcodeLayout = encoding.NewLayout("opcode",
	encoding.Field{Name: "class", Width: 8},
	encoding.Field{Name: "arg1", Width: 16},
	encoding.Field{Name: "arg0", Width: 64},
)

// InstructionLayout determines how the static address of an instruction is
// encoded.  The encoded address is placed immediately above the opcode tag
// within an instruction table entry.
var InstructionLayout = encoding.NewLayout("itable",
	encoding.Field{Name: "moid", Width: 16},
	encoding.Field{Name: "fid", Width: 16},
	encoding.Field{Name: "iid", Width: 16},
)

// EncodeOpcode returns the opcode tag of a given instruction.
func EncodeOpcode(insn Instruction) (field.Element, error) {
	arg1, arg0 := insn.Operands()
	//
	return OpcodeLayout.Encode(uint64(insn.Class()), arg1, arg0)
}

// EncodeOpcodeExpr returns the opcode tag of an instruction of a given class,
// whose operands are determined by the given terms.
func EncodeOpcodeExpr(class OpcodeClass, arg1 term.Term, arg0 term.Term) term.Term {
	return OpcodeLayout.Compose(term.Const64(uint64(class)), arg1, arg0)
}

// EncodeInstruction returns the instruction table entry for an instruction at
// a given static address.
func EncodeInstruction(moid, fid, iid uint64, insn Instruction) (field.Element, error) {
	arg1, arg0 := insn.Operands()
	//
	prefix, err := InstructionLayout.Pack(moid, fid, iid)
	if err != nil {
		return field.Zero(), err
	}
	//
	opcode, err := OpcodeLayout.Pack(uint64(insn.Class()), arg1, arg0)
	if err != nil {
		return field.Zero(), err
	}
	//
	var entry uint256.Int
	//
	entry.Lsh(prefix, OpcodeLayout.Width())
	entry.Or(&entry, opcode)
	//
	return field.Uint256(&entry), nil
}

// EncodeInstructionExpr returns the instruction table entry for an instruction
// at a given static address whose opcode tag is determined by a given term.
func EncodeInstructionExpr(moid, fid, iid term.Term, opcode term.Term) term.Term {
	prefix := InstructionLayout.Compose(moid, fid, iid)
	//
	return term.Sum(term.Scale(prefix, field.TwoPowN(OpcodeLayout.Width())), opcode)
}

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
	"fmt"
	"math"
)

// VarType identifies the declared type of a value held on the operand stack or
// within a global variable.
type VarType uint8

const (
	// I32 represents a 32bit integer value.
	I32 VarType = 1
	// I64 represents a 64bit integer value.
	I64 VarType = 2
)

// ParseVarType parses a value type from its textual form.
func ParseVarType(name string) (VarType, error) {
	switch name {
	case "i32":
		return I32, nil
	case "i64":
		return I64, nil
	}
	//
	return 0, fmt.Errorf("unknown value type \"%s\"", name)
}

// Valid determines whether this is a known value type.
func (p VarType) Valid() bool {
	return p == I32 || p == I64
}

// Fits determines whether a given (zero-extended) machine word is a valid
// value of this type.
func (p VarType) Fits(value uint64) bool {
	if p == I32 {
		return value <= math.MaxUint32
	}
	//
	return p == I64
}

func (p VarType) String() string {
	switch p {
	case I32:
		return "i32"
	case I64:
		return "i64"
	}
	//
	return fmt.Sprintf("vtype(%d)", uint8(p))
}

// OpcodeClass identifies a kind of instruction.  The set of opcode classes is
// closed: every class has exactly one configuration within the execution
// table.
type OpcodeClass uint8

const (
	// OpcodeClassConst pushes a constant onto the operand stack.
	OpcodeClassConst OpcodeClass = iota + 1
	// OpcodeClassDrop discards the top of the operand stack.
	OpcodeClassDrop
	// OpcodeClassReturn returns from the current function.
	OpcodeClassReturn
	// OpcodeClassGlobalGet pushes the value of a global variable onto the
	// operand stack.
	OpcodeClassGlobalGet
	// OpcodeClassGlobalSet pops the operand stack into a global variable.
	OpcodeClassGlobalSet
)

func (p OpcodeClass) String() string {
	switch p {
	case OpcodeClassConst:
		return "const"
	case OpcodeClassDrop:
		return "drop"
	case OpcodeClassReturn:
		return "return"
	case OpcodeClassGlobalGet:
		return "global.get"
	case OpcodeClassGlobalSet:
		return "global.set"
	}
	//
	return fmt.Sprintf("opcode(%d)", uint8(p))
}

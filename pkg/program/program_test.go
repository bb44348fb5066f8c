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
	"testing"

	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const globalGetModule = `{
	"globals": [{"type": "i32", "init": 10}],
	"functions": [{"name": "test", "body": ["global.get 0", "drop"]}],
	"exports": {"test": 0}
}`

func Test_Parse_01(t *testing.T) {
	tests := []struct {
		text     string
		expected Instruction
	}{
		{"drop", &Drop{}},
		{"return", &Return{}},
		{"global.get 3", &GlobalGet{3}},
		{"global.set 0x10", &GlobalSet{16}},
		{"i32.const 10", &Const{I32, 10}},
		{"i64.const 18446744073709551615", &Const{I64, 18446744073709551615}},
	}
	//
	for _, test := range tests {
		insn, err := ParseInstruction(test.text)
		require.NoError(t, err, test.text)
		assert.Equal(t, test.expected, insn)
	}
}

func Test_Parse_02(t *testing.T) {
	for _, text := range []string{"", "drop 1", "global.get", "global.get x", "f32.const 1", "nop"} {
		_, err := ParseInstruction(text)
		assert.Error(t, err, text)
	}
}

func Test_Module_01(t *testing.T) {
	module, err := FromBytes([]byte(globalGetModule))
	require.NoError(t, err)
	//
	assert.Equal(t, []Global{{I32, false, 10}}, module.Globals)
	assert.Equal(t, uint64(0), module.Exports["test"])
	// Implicit return is appended
	code := module.Functions[0].Code()
	require.Len(t, code, 3)
	assert.Equal(t, OpcodeClassReturn, code[2].Class())
}

func Test_Module_02(t *testing.T) {
	fn := Function{"f", []Instruction{&Drop{}, &Return{}}}
	// Explicit return is not duplicated
	assert.Len(t, fn.Code(), 2)
}

func Test_Module_03(t *testing.T) {
	tests := []string{
		// initialiser out of range
		`{"globals": [{"type": "i32", "init": 4294967296}]}`,
		// unknown global
		`{"functions": [{"name": "f", "body": ["global.get 0"]}]}`,
		// immutable global
		`{"globals": [{"type": "i64"}], "functions": [{"name": "f", "body": ["i64.const 1", "global.set 0"]}]}`,
		// unknown export
		`{"exports": {"f": 0}}`,
		// constant out of range
		`{"functions": [{"name": "f", "body": ["i32.const 4294967296"]}]}`,
	}
	//
	for _, test := range tests {
		_, err := FromBytes([]byte(test))
		assert.Error(t, err, test)
	}
}

func Test_Encode_01(t *testing.T) {
	opcode, err := EncodeOpcode(&GlobalGet{3})
	require.NoError(t, err)
	// class 4 sits above arg1 (16 bits) and arg0 (64 bits)
	expected := uint256.NewInt(4)
	expected.Lsh(expected, 80)
	expected.Or(expected, uint256.NewInt(3))
	//
	assert.Equal(t, field.Uint256(expected), opcode)
}

func Test_Encode_02(t *testing.T) {
	insns := []Instruction{&Const{I64, 1 << 40}, &Drop{}, &Return{}, &GlobalGet{7}, &GlobalSet{9}}
	// Native and algebraic opcode encodings agree
	for _, insn := range insns {
		arg1, arg0 := insn.Operands()
		native, err := EncodeOpcode(insn)
		require.NoError(t, err)
		//
		expr := EncodeOpcodeExpr(insn.Class(), term.Const64(arg1), term.Const64(arg0))
		assert.Equal(t, native, expr.EvalAt(0, nil), insn.String())
	}
}

func Test_Encode_03(t *testing.T) {
	insn := &GlobalGet{2}
	native, err := EncodeInstruction(1, 2, 3, insn)
	require.NoError(t, err)
	//
	opcode, err := EncodeOpcode(insn)
	require.NoError(t, err)
	//
	expr := EncodeInstructionExpr(term.Const64(1), term.Const64(2), term.Const64(3), term.Const(opcode))
	assert.Equal(t, native, expr.EvalAt(0, nil))
	// Distinct addresses produce distinct entries
	other, err := EncodeInstruction(1, 2, 4, insn)
	require.NoError(t, err)
	assert.NotEqual(t, native, other)
}

func Test_Encode_04(t *testing.T) {
	_, err := EncodeInstruction(1<<16, 0, 0, &Drop{})
	assert.Error(t, err)
}

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
package mtable

import (
	"strings"
	"testing"

	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/schema"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(v uint64) term.Term { return term.Const64(v) }

func Test_Encode_01(t *testing.T) {
	tests := []struct {
		native Event
		expr   term.Term
	}{
		{StackRead(1, 2, 3, program.I32, 4), EncodeStackReadExpr(c(1), c(2), c(3), c(1), c(4))},
		{StackWrite(1, 2, 3, program.I64, 4), EncodeStackWriteExpr(c(1), c(2), c(3), c(2), c(4))},
		{GlobalGet(5, 1, 7, 8, program.I32, 10), EncodeGlobalGetExpr(c(5), c(1), c(7), c(8), c(1), c(10))},
		{GlobalSet(5, 2, 7, 8, program.I32, 10), EncodeGlobalSetExpr(c(5), c(2), c(7), c(8), c(1), c(10))},
		{HeapRead(9, 1, 0, 1024, program.I64, 1<<63), EncodeHeapReadExpr(c(9), c(1), c(0), c(1024), c(2), c(1<<63))},
		{HeapWrite(9, 2, 0, 1024, program.I64, 3), EncodeHeapWriteExpr(c(9), c(2), c(0), c(1024), c(2), c(3))},
		{TableGet(3, 1, 1, 2, program.I32, 3), EncodeTableGetExpr(c(3), c(1), c(1), c(2), c(1), c(3))},
		{TableSet(3, 1, 1, 2, program.I32, 3), EncodeTableSetExpr(c(3), c(1), c(1), c(2), c(1), c(3))},
	}
	// Native and algebraic encodings agree
	for _, test := range tests {
		native, err := test.native.Encode()
		require.NoError(t, err)
		assert.Equal(t, native, test.expr.EvalAt(0, nil), test.native.String())
	}
}

func Test_Encode_02(t *testing.T) {
	// Reading and writing the same location at the same time are distinguished
	read := GlobalGet(1, 1, 0, 0, program.I32, 10)
	write := GlobalSet(1, 1, 0, 0, program.I32, 10)
	//
	r, err := read.Encode()
	require.NoError(t, err)
	w, err := write.Encode()
	require.NoError(t, err)
	//
	assert.NotEqual(t, r, w)
	// Round trip
	tuple, err := EventLayout.Unpack(r)
	require.NoError(t, err)
	assert.Equal(t, read.Tuple(), tuple)
}

func Test_Encode_03(t *testing.T) {
	ev := StackWrite(1<<32, 1, 0, program.I32, 0)
	//
	_, err := ev.Encode()
	assert.Error(t, err)
}

func Test_EventsOf_01(t *testing.T) {
	entry := &program.Entry{Eid: 4, Sp: 20, Step: &program.GlobalGetStep{
		Idx: 1, OriginModule: 0, OriginIdx: 1, Type: program.I64, Value: 9}}
	//
	assert.Equal(t, []Event{
		GlobalGet(4, 1, 0, 1, program.I64, 9),
		StackWrite(4, 2, 20, program.I64, 9),
	}, EventsOf(entry))
	//
	entry = &program.Entry{Eid: 5, Sp: 19, Step: &program.GlobalSetStep{Type: program.I64, Value: 9}}
	assert.Equal(t, []Event{
		StackRead(5, 1, 20, program.I64, 9),
		GlobalSet(5, 2, 0, 0, program.I64, 9),
	}, EventsOf(entry))
	//
	assert.Empty(t, EventsOf(&program.Entry{Eid: 6, Step: &program.DropStep{}}))
	assert.Empty(t, EventsOf(&program.Entry{Eid: 7, Step: &program.ReturnStep{}}))
}

func checkEvents(t *testing.T, events []Event, height uint) []string {
	layout := trace.NewLayout()
	table := Configure(layout)
	sc := schema.NewSchema(layout)
	sc.AddConstraints(table.Constraints()...)
	//
	tr := trace.NewArrayTrace(layout)
	require.NoError(t, table.Assign(tr, events, height))
	//
	var names []string
	for _, f := range sc.Check(tr, 0) {
		names = append(names, f.Message())
	}
	//
	return names
}

func Test_MemoryTable_01(t *testing.T) {
	events := []Event{
		StackWrite(1, 2, 100, program.I32, 10),
		GlobalGet(1, 1, 0, 0, program.I32, 10),
		GlobalInit(0, 0, program.I32, 10),
		StackRead(2, 1, 100, program.I32, 10),
	}
	//
	assert.Empty(t, checkEvents(t, events, 8))
	assert.Empty(t, checkEvents(t, events, 0))
}

func Test_MemoryTable_02(t *testing.T) {
	tests := [][]Event{
		// read of uninitialised global
		{GlobalGet(1, 1, 0, 0, program.I32, 10)},
		// read of wrong value
		{GlobalInit(0, 0, program.I32, 10), GlobalGet(1, 1, 0, 0, program.I32, 11)},
		// read of wrong type
		{StackWrite(1, 1, 4, program.I32, 10), StackRead(2, 1, 4, program.I64, 10)},
		// duplicate initialisation
		{GlobalInit(0, 0, program.I32, 10), GlobalInit(0, 0, program.I32, 10)},
	}
	//
	for i, events := range tests {
		failures := checkEvents(t, events, 4)
		require.Len(t, failures, 1, "test %d", i)
		assert.Contains(t, failures[0], "consistency")
	}
}

func Test_MemoryTable_03(t *testing.T) {
	layout := trace.NewLayout()
	table := Configure(layout)
	tr := trace.NewArrayTrace(layout)
	//
	events := []Event{GlobalInit(0, 0, program.I32, 10), GlobalGet(1, 1, 0, 0, program.I32, 10)}
	require.NoError(t, table.Assign(tr, events, 4))
	// Perturb the read value without re-encoding it
	module := tr.Module(table.Module())
	module.Set(table.Column("value").Column(), 1, field.Uint64(11))
	//
	var failed []string
	//
	for _, k := range table.Constraints() {
		if f := k.Accepts(tr); f != nil {
			failed = append(failed, k.Name())
		}
	}
	// encoding and consistency both fail
	assert.Equal(t, []string{"mtable encode", "mtable consistency"}, failed)
	// Read back
	assert.Equal(t, GlobalGet(1, 1, 0, 0, program.I32, 11), table.Event(module, 1))
}

func Test_MemoryTable_04(t *testing.T) {
	unknownAtype := StackWrite(1, 1, 4, program.I32, 10)
	unknownAtype.Atype = 4
	unknownLtype := StackWrite(1, 1, 4, program.I32, 10)
	unknownLtype.Ltype = 5
	unknownVtype := StackWrite(1, 1, 4, program.I32, 10)
	unknownVtype.Vtype = 3
	//
	tests := []struct {
		event  Event
		name   string
		reason string
	}{
		{unknownAtype, "mtable atype known", "unknown access type"},
		{unknownLtype, "mtable ltype known", "unknown location type"},
		{unknownVtype, "mtable vtype known", "unknown value type"},
	}
	//
	for _, test := range tests {
		failures := strings.Join(checkEvents(t, []Event{test.event}, 4), "\n")
		//
		assert.Contains(t, failures, test.name, test.event.String())
		assert.Contains(t, failures, "memory consistency", test.event.String())
		assert.Contains(t, failures, test.reason, test.event.String())
	}
}

func Test_MemoryTable_05(t *testing.T) {
	var (
		init    = ImmutableGlobalInit(0, 1, program.I32, 10)
		mutable = GlobalInit(0, 0, program.I32, 10)
	)
	// Reading an immutable global is fine, as is writing a mutable one
	assert.Empty(t, checkEvents(t, []Event{init, GlobalGet(1, 1, 0, 1, program.I32, 10)}, 4))
	assert.Empty(t, checkEvents(t, []Event{mutable, GlobalSet(1, 2, 0, 0, program.I32, 11),
		GlobalGet(2, 1, 0, 0, program.I32, 11)}, 4))
	// Writing an immutable global is not, even after an earlier read
	failures := checkEvents(t, []Event{init, GlobalGet(1, 1, 0, 1, program.I32, 10),
		GlobalSet(2, 2, 0, 1, program.I32, 11)}, 4)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "write to immutable location")
	// Immutability of one global does not extend to the next
	assert.Empty(t, checkEvents(t, []Event{ImmutableGlobalInit(0, 0, program.I32, 10),
		GlobalInit(0, 1, program.I32, 10), GlobalSet(1, 2, 0, 1, program.I32, 11)}, 4))
}

func Test_MemoryTable_06(t *testing.T) {
	layout := trace.NewLayout()
	table := Configure(layout)
	tr := trace.NewArrayTrace(layout)
	//
	events := []Event{ImmutableGlobalInit(0, 0, program.I32, 10), GlobalGet(1, 1, 0, 0, program.I32, 10)}
	require.NoError(t, table.Assign(tr, events, 4))
	//
	module := tr.Module(table.Module())
	assert.Equal(t, events[0], table.Event(module, 0))
	// Immutability only applies to initialisation
	module.Set(table.immutable.Column(), 1, field.One())
	//
	var failed []string
	//
	for _, k := range table.Constraints() {
		if f := k.Accepts(tr); f != nil {
			failed = append(failed, k.Name())
		}
	}
	//
	assert.Equal(t, []string{"mtable immutable is_init", "mtable consistency"}, failed)
}

func Test_Decode_01(t *testing.T) {
	ev := GlobalGet(1, 1, 0, 7, program.I64, 1<<40)
	encoded, err := ev.Encode()
	require.NoError(t, err)
	//
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, ev, decoded)
	// A type which does not fit eight bits is never mistaken for a known one
	ev.Vtype = 0
	tuple := ev.Tuple()
	tuple[6] = 256 + uint64(program.I32)
	encoded, err = EventLayout.Encode(tuple...)
	require.NoError(t, err)
	//
	decoded, err = Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, ev, decoded)
	assert.False(t, decoded.Vtype.Valid())
}

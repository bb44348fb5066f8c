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
package circuit

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/etable/op"
	"github.com/consensys/go-etable/pkg/interp"
	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/mtable"
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/schema/constraint"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util/encoding"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Determines the (relative) location of the test data directory.
const testDir = "../../testdata"

// One i32 global initialised to 10, whose exported function reads it and
// discards the result.
const globalGetModule = `{
	"globals": [{"type": "i32", "init": 10}],
	"functions": [{"name": "test", "body": ["global.get 0", "drop"]}],
	"exports": {"test": 0}
}`

const globalSetModule = `{
	"globals": [{"type": "i64", "mutable": true, "init": 1}, {"type": "i32", "init": 65536}],
	"functions": [
		{"name": "main", "body": [
			"i64.const 0xffffffffffffffff", "global.set 0", "global.get 0", "global.get 1", "drop", "drop"]}
	],
	"exports": {"main": 0}
}`

func parse(t *testing.T, text string) *program.Module {
	module, err := program.FromBytes([]byte(text))
	require.NoError(t, err)
	//
	return module
}

func execute(t *testing.T, module *program.Module, export string) []program.Entry {
	entries, err := interp.Run(module, export, interp.DefaultStackSize)
	require.NoError(t, err)
	//
	return entries
}

func messages(failures []constraint.Failure) []string {
	var msgs []string
	//
	for _, f := range failures {
		msgs = append(msgs, f.Message())
	}
	//
	return msgs
}

func Test_Circuit_01(t *testing.T) {
	var (
		module  = parse(t, globalGetModule)
		circuit = New(DefaultConfig())
	)
	//
	tr, failures, err := circuit.Run(module, "test")
	require.NoError(t, err)
	assert.Empty(t, messages(failures))
	//
	etab := tr.Module(circuit.ExecutionTable().Module())
	assert.Equal(t, uint(32), etab.Height())
}

func Test_Circuit_02(t *testing.T) {
	var (
		module  = parse(t, globalGetModule)
		circuit = New(DefaultConfig())
		entries = execute(t, module, "test")
	)
	// Perturb the module of the global being read
	step := *entries[0].Step.(*program.GlobalGetStep)
	step.OriginModule = 1
	entries[0].Step = &step
	//
	tr, err := circuit.Assign(module, entries)
	require.NoError(t, err)
	//
	failures := messages(circuit.Check(tr))
	require.NotEmpty(t, failures)
	assert.Contains(t, failures[0], "op_global_get idx constraints")
}

func Test_Circuit_03(t *testing.T) {
	var (
		module  = parse(t, globalSetModule)
		config  = DefaultConfig()
		circuit *Circuit
	)
	//
	config.Workers = 2
	circuit = New(config)
	//
	_, failures, err := circuit.Run(module, "main")
	require.NoError(t, err)
	assert.Empty(t, messages(failures))
}

func Test_Circuit_04(t *testing.T) {
	var (
		module  = parse(t, globalGetModule)
		circuit = New(DefaultConfig())
		entries = execute(t, module, "test")
	)
	// Perturb the value read, consistently across every table except the
	// memory table initialisation.
	step := *entries[0].Step.(*program.GlobalGetStep)
	step.Value = 11
	entries[0].Step = &step
	//
	tr, err := circuit.Assign(module, entries)
	require.NoError(t, err)
	//
	failures := messages(circuit.Check(tr))
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "memory consistency")
}

func Test_Circuit_05(t *testing.T) {
	var (
		module  = parse(t, globalGetModule)
		circuit = New(DefaultConfig())
		entries = execute(t, module, "test")
	)
	// Perturb the stack pointer of the drop
	entries[1].Sp++
	//
	tr, err := circuit.Assign(module, entries)
	require.NoError(t, err)
	//
	failures := messages(circuit.Check(tr))
	require.NotEmpty(t, failures)
	assert.Contains(t, failures[0], "etable step")
}

func Test_Circuit_06(t *testing.T) {
	var (
		module  = parse(t, globalGetModule)
		config  = DefaultConfig()
		entries = execute(t, module, "test")
	)
	// Table too small
	config.K = 1
	_, err := New(config).Assign(module, entries)
	assert.Error(t, err)
}

func Test_Circuit_07(t *testing.T) {
	var (
		module  = parse(t, globalGetModule)
		circuit = New(DefaultConfig())
		entries = execute(t, module, "test")
	)
	// Global index does not fit within a range cell
	step := *entries[0].Step.(*program.GlobalGetStep)
	step.Idx = 1 << 16
	entries[0].Step = &step
	//
	_, err := circuit.Assign(module, entries)
	//
	var aerr *etable.AssignError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, uint(0), aerr.Row)
}

func Test_Circuit_08(t *testing.T) {
	var (
		module  = parse(t, globalGetModule)
		builder = []etable.Builder{
			op.GlobalGetBuilder{}, misrouted{op.ReturnBuilder{}, program.OpcodeClassDrop}, op.ReturnBuilder{},
		}
		circuit = NewWithBuilders(DefaultConfig(), builder)
		entries = execute(t, module, "test")
	)
	// Dispatch defects are fatal
	assert.Panics(t, func() { _, _ = circuit.Assign(module, entries) })
}

func Test_Circuit_09(t *testing.T) {
	var (
		module  = parse(t, globalGetModule)
		builder = []etable.Builder{op.DropBuilder{}, op.ReturnBuilder{}}
		circuit = NewWithBuilders(DefaultConfig(), builder)
		entries = execute(t, module, "test")
	)
	// Opcode without configuration
	_, err := circuit.Assign(module, entries)
	assert.ErrorIs(t, err, etable.ErrUnsupportedOpcode)
}

func Test_Circuit_10(t *testing.T) {
	checkValid(t, "global_get", "main")
}

func Test_Circuit_11(t *testing.T) {
	checkValid(t, "global_set", "main")
}

func Test_Circuit_12(t *testing.T) {
	checkValid(t, "calls", "main")
	checkValid(t, "calls", "swap")
}

func Test_Circuit_13(t *testing.T) {
	var (
		module  = parse(t, globalSetModule)
		circuit = New(DefaultConfig())
		entries = execute(t, module, "main")
	)
	// The global written is declared immutable after the fact
	module.Globals[0].Mutable = false
	//
	tr, err := circuit.Assign(module, entries)
	require.NoError(t, err)
	//
	failures := messages(circuit.Check(tr))
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "write to immutable location")
}

// Check that every constraint holds for the execution of a given function in a
// module from the test data directory, using a range of worker counts.
func checkValid(t *testing.T, name string, export string) {
	bytes, err := os.ReadFile(fmt.Sprintf("%s/%s.json", testDir, name))
	require.NoError(t, err)
	//
	module := parse(t, string(bytes))
	//
	for _, workers := range []uint{0, 1, 3} {
		config := DefaultConfig()
		config.Workers = workers
		//
		_, failures, err := New(config).Run(module, export)
		require.NoError(t, err)
		assert.Empty(t, messages(failures), "%s.%s (workers %d)", name, export, workers)
	}
}

// ============================================================================
// Properties
// ============================================================================

type globalGetRow struct {
	circuit *Circuit
	trace   *trace.ArrayTrace
	module  *trace.Module
	entry   program.Entry
	config  etable.OpcodeConfig
}

func newGlobalGetRow(t *testing.T) globalGetRow {
	var (
		module  = parse(t, globalGetModule)
		circuit = New(DefaultConfig())
		entries = execute(t, module, "test")
	)
	//
	tr, err := circuit.Assign(module, entries)
	require.NoError(t, err)
	//
	etab := circuit.ExecutionTable()
	//
	return globalGetRow{circuit, tr, tr.Module(etab.Module()), entries[0],
		etab.Config(program.OpcodeClassGlobalGet)}
}

func Test_GlobalGet_01(t *testing.T) {
	row := newGlobalGetRow(t)
	// Opcode tag matches the compiled instruction
	expected, err := program.EncodeOpcode(&program.GlobalGet{Idx: 0})
	require.NoError(t, err)
	assert.Equal(t, expected, row.config.Opcode(etable.Cur()).EvalAt(0, row.module))
}

func Test_GlobalGet_02(t *testing.T) {
	var (
		row  = newGlobalGetRow(t)
		cur  = etable.Cur()
		sp   = row.circuit.ExecutionTable().Common().Sp
		diff = row.config.SpDiff(cur)
	)
	// Stack pointer decreases by one
	require.True(t, diff.HasValue())
	assert.Equal(t, field.Int64(-1), diff.Unwrap().EvalAt(0, row.module))
	//
	next := term.Sum(sp.Expr(cur), diff.Unwrap()).EvalAt(0, row.module)
	assert.Equal(t, sp.Expr(cur.Next()).EvalAt(0, row.module), next)
}

func Test_GlobalGet_03(t *testing.T) {
	var (
		row  = newGlobalGetRow(t)
		mops = row.config.Mops(etable.Cur())
	)
	//
	require.True(t, mops.HasValue())
	assert.Equal(t, field.Uint64(2), mops.Unwrap().EvalAt(0, row.module))
	assert.True(t, row.config.MLookup(etable.Cur(), etable.Third).IsEmpty())
}

func Test_GlobalGet_04(t *testing.T) {
	var (
		row   = newGlobalGetRow(t)
		step  = row.entry.Step.(*program.GlobalGetStep)
		first = mtable.GlobalGet(row.entry.Eid, 1, step.OriginModule, step.OriginIdx, step.Type, step.Value)
		secnd = mtable.StackWrite(row.entry.Eid, 2, row.entry.Sp, step.Type, step.Value)
	)
	// What is written is what is later checked
	for i, ev := range []mtable.Event{first, secnd} {
		expected, err := ev.Encode()
		require.NoError(t, err)
		//
		expr := row.config.MLookup(etable.Cur(), etable.MLookupItem(i))
		require.True(t, expr.HasValue())
		assert.Equal(t, expected, expr.Unwrap().EvalAt(0, row.module))
		assert.Equal(t, expected, row.module.Get(lookupColumn(t, row.module, i), 0))
	}
}

func Test_GlobalGet_05(t *testing.T) {
	row := newGlobalGetRow(t)
	// Changing the executing module alone violates the address constraint
	moid := row.circuit.ExecutionTable().Common().Moid
	//
	row.module.Set(moid.Column.Column(), 0, field.Uint64(1))
	//
	var failed []string
	//
	for _, c := range row.circuit.Schema().Constraints() {
		if v, ok := c.(*constraint.Vanishing); ok && v.Context == row.circuit.ExecutionTable().Module() {
			if c.Accepts(row.trace) != nil {
				failed = append(failed, c.Name())
			}
		}
	}
	//
	assert.Contains(t, failed, "op_global_get idx constraints")
}

func Test_GlobalGet_06(t *testing.T) {
	var (
		row    = newGlobalGetRow(t)
		cur    = etable.Cur()
		mtab   = row.circuit.MemoryTable()
		mtrace = row.trace.Module(mtab.Module())
		forged = uint64(1 + 3*256)
		// memory table rows for the global read and stack write respectively
		rows    = []uint{2, 0}
		atypes  = []mtable.AccessType{mtable.Read, mtable.Write}
		vtypeAt = fieldIndex(mtable.EventLayout, "vtype")
		atypeAt = fieldIndex(mtable.EventLayout, "atype")
	)
	// Forge a value type which passes its range check, alongside another value
	row.module.Set(columnOf(t, row.module, "range_3"), 0, field.Uint64(forged))
	row.module.Set(columnOf(t, row.module, "u64_0"), 0, field.Uint64(99))
	row.module.Set(columnOf(t, row.module, "u64_0_limb_0"), 0, field.Uint64(99))
	// Recompute the memory lookups, and place matching events in the memory
	// table
	for i, item := range []etable.MLookupItem{etable.First, etable.Second} {
		encoded := row.config.MLookup(cur, item).Unwrap().EvalAt(0, row.module)
		row.module.Set(lookupColumn(t, row.module, i), 0, encoded)
		//
		tuple, err := mtable.EventLayout.Unpack(encoded)
		require.NoError(t, err)
		// Value type does not spill into the access type
		assert.Equal(t, forged, tuple[vtypeAt])
		assert.Equal(t, uint64(atypes[i]), tuple[atypeAt])
		//
		for j, f := range mtable.EventLayout.Fields() {
			mtrace.Set(mtab.Column(f.Name).Column(), rows[i], field.Uint64(tuple[j]))
		}
		//
		mtrace.Set(mtab.Encoded().Column(), rows[i], encoded)
	}
	//
	failures := strings.Join(messages(row.circuit.Check(row.trace)), "\n")
	assert.Contains(t, failures, "mtable vtype known")
	assert.Contains(t, failures, "memory consistency")
}

// Every field of an encoding is at least as wide as the values composed into
// it from the execution table, as determined by the range checks applied to
// its cells.  Fields only ever given constants are omitted.
func Test_Layouts_01(t *testing.T) {
	var (
		widths = rangeWidths(New(DefaultConfig()))
		cell   = widths["range_0"]
		u64    = etable.U64Limbs * widths["u64_0_limb_0"]
	)
	//
	require.Equal(t, uint(etable.RangeCellBits), cell)
	require.Equal(t, uint(64), u64)
	//
	tests := []struct {
		layout *encoding.Layout
		widths map[string]uint
	}{
		{mtable.EventLayout, map[string]uint{
			"eid": widths["eid"], "mmid": cell, "offset": max(widths["sp"], cell), "vtype": cell, "value": u64}},
		{program.OpcodeLayout, map[string]uint{"arg1": cell, "arg0": max(cell, u64)}},
		{program.InstructionLayout, map[string]uint{"moid": widths["moid"], "fid": widths["fid"], "iid": widths["iid"]}},
	}
	//
	for _, test := range tests {
		var checked int
		//
		for _, f := range test.layout.Fields() {
			if w, ok := test.widths[f.Name]; ok {
				require.NotZero(t, w, f.Name)
				assert.GreaterOrEqual(t, f.Width, w, f.Name)
				//
				checked++
			}
		}
		//
		assert.Equal(t, len(test.widths), checked)
	}
}

// Determine the bitwidth of every range checked column of the execution table.
func rangeWidths(circuit *Circuit) map[string]uint {
	var (
		widths = make(map[string]uint)
		mid    = circuit.ExecutionTable().Module()
		layout = circuit.Schema().Layout().Module(mid)
	)
	//
	for _, c := range circuit.Schema().Constraints() {
		if r, ok := c.(*constraint.Range); ok && r.Column.Module() == mid {
			widths[layout.ColumnName(r.Column.Column())] = r.Bitwidth
		}
	}
	//
	return widths
}

func fieldIndex(layout *encoding.Layout, name string) int {
	for i, f := range layout.Fields() {
		if f.Name == name {
			return i
		}
	}
	//
	panic(fmt.Sprintf("unknown field %s", name))
}

func columnOf(t *testing.T, module *trace.Module, name string) uint {
	cid, ok := module.Layout().ColumnOf(name)
	require.True(t, ok, name)
	//
	return cid
}

func lookupColumn(t *testing.T, module *trace.Module, slot int) uint {
	return columnOf(t, module, fmt.Sprintf("mlookup_%d", slot))
}

// misrouted wraps a builder so that it claims a different opcode class than
// its configuration actually handles.
type misrouted struct {
	etable.Builder
	class program.OpcodeClass
}

func (p misrouted) Class() program.OpcodeClass {
	return p.class
}

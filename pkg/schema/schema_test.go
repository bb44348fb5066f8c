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
package schema

import (
	"testing"

	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/schema/constraint"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Counter module: CT[i+1] = CT[i] + 1, with a table module holding the values
// which CT may take.
type counter struct {
	schema *Schema
	trace  *trace.ArrayTrace
	ct     trace.ColumnRef
	tab    trace.ColumnRef
}

func newCounter(values []uint64, table []uint64) *counter {
	layout := trace.NewLayout()
	mid := layout.AddModule("counter")
	tid := layout.AddModule("table")
	ct := layout.AddColumn(mid, "CT")
	tab := layout.AddColumn(tid, "VAL")
	//
	var (
		ctNow  = term.NewColumnAccess(ct.Column(), 0)
		ctNext = term.NewColumnAccess(ct.Column(), 1)
		schema = NewSchema(layout)
	)
	//
	schema.AddConstraints(
		constraint.NewVanishing("increment", mid, term.Difference(ctNext, ctNow, term.Const64(1))),
		constraint.NewLocalVanishing("start", mid, 0, ctNow),
		constraint.NewRange("ct-u8", ct, 8),
		constraint.NewLookup("ct-in-table",
			constraint.NewVector(mid, nil, ctNow),
			constraint.NewVector(tid, nil, term.NewColumnAccess(tab.Column(), 0))),
	)
	//
	tr := trace.NewArrayTrace(layout)
	fill(tr.Module(mid), ct.Column(), values)
	fill(tr.Module(tid), tab.Column(), table)
	//
	return &counter{schema, tr, ct, tab}
}

func fill(module *trace.Module, cid uint, values []uint64) {
	module.Resize(uint(len(values)))
	//
	for i, v := range values {
		module.Set(cid, uint(i), field.Uint64(v))
	}
}

func Test_Schema_01(t *testing.T) {
	c := newCounter([]uint64{0, 1, 2, 3}, []uint64{0, 1, 2, 3, 4})
	//
	assert.Empty(t, c.schema.Check(c.trace, 0))
	assert.Empty(t, c.schema.Check(c.trace, 1))
}

func Test_Schema_02(t *testing.T) {
	c := newCounter([]uint64{0, 1, 3, 4}, []uint64{0, 1, 2, 3, 4})
	failures := c.schema.Check(c.trace, 2)
	//
	require.Len(t, failures, 1)
	//
	vf, ok := failures[0].(*constraint.VanishingFailure)
	require.True(t, ok)
	assert.Equal(t, "increment", vf.Handle)
	assert.Equal(t, uint(1), vf.Row)
	assert.Len(t, vf.RequiredCells(), 2)
}

func Test_Schema_03(t *testing.T) {
	c := newCounter([]uint64{1, 2}, []uint64{1, 2})
	failures := c.schema.Check(c.trace, 0)
	//
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Message(), "start")
}

func Test_Schema_04(t *testing.T) {
	c := newCounter([]uint64{0, 1, 2}, []uint64{0, 1})
	failures := c.schema.Check(c.trace, 0)
	//
	require.Len(t, failures, 1)
	//
	lf, ok := failures[0].(*constraint.LookupFailure)
	require.True(t, ok)
	assert.Equal(t, uint(2), lf.Row)
}

func Test_Schema_05(t *testing.T) {
	c := newCounter([]uint64{255, 256}, []uint64{255, 256})
	// Override start constraint violation by checking range failure only
	var rangeFailure *constraint.RangeFailure
	//
	for _, f := range c.schema.Check(c.trace, 0) {
		if rf, ok := f.(*constraint.RangeFailure); ok {
			rangeFailure = rf
		}
	}
	//
	require.NotNil(t, rangeFailure)
	assert.Equal(t, uint(1), rangeFailure.Row)
}

func Test_Schema_06(t *testing.T) {
	c := newCounter(nil, nil)
	// Empty traces are trivially accepted
	assert.Empty(t, c.schema.Check(c.trace, 0))
}

func Test_Schema_07(t *testing.T) {
	c := newCounter(nil, nil)
	layout := c.schema.Layout()
	//
	var lisp []string
	for _, k := range c.schema.Constraints() {
		lisp = append(lisp, k.Lisp(layout).String(false))
	}
	//
	assert.Equal(t, "(vanish counter:increment (- (shift CT 1) CT 1))", lisp[0])
	assert.Equal(t, "(vanish counter:start:first CT)", lisp[1])
	assert.Equal(t, "(range counter.CT u8)", lisp[2])
	assert.Equal(t, "(lookup ct-in-table (counter CT) ((table VAL)))", lisp[3])
}

func Test_Lookup_01(t *testing.T) {
	layout := trace.NewLayout()
	mid := layout.AddModule("m")
	sel := layout.AddColumn(mid, "SEL")
	val := layout.AddColumn(mid, "VAL")
	tab := layout.AddColumn(mid, "TAB")
	//
	tr := trace.NewArrayTrace(layout)
	module := tr.Module(mid)
	module.Resize(3)
	// Row 1 is not in the table, but it is not selected either.
	for i, row := range [][3]uint64{{1, 5, 5}, {0, 9, 6}, {1, 6, 7}} {
		module.Set(sel.Column(), uint(i), field.Uint64(row[0]))
		module.Set(val.Column(), uint(i), field.Uint64(row[1]))
		module.Set(tab.Column(), uint(i), field.Uint64(row[2]))
	}
	//
	lookup := constraint.NewLookup("filtered",
		constraint.NewVector(mid, term.NewColumnAccess(sel.Column(), 0), term.NewColumnAccess(val.Column(), 0)),
		constraint.NewVector(mid, nil, term.NewColumnAccess(tab.Column(), 0)))
	//
	assert.Nil(t, lookup.Accepts(tr))
	// Now select row 1
	module.Set(sel.Column(), 1, field.One())
	assert.NotNil(t, lookup.Accepts(tr))
}

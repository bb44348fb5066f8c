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
package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrace() (*ArrayTrace, ColumnRef, ColumnRef) {
	layout := NewLayout()
	mid := layout.AddModule("etable")
	x := layout.AddColumn(mid, "x")
	y := layout.AddColumn(mid, "y")
	//
	return NewArrayTrace(layout), x, y
}

func Test_Layout_01(t *testing.T) {
	layout := NewLayout()
	mid := layout.AddModule("m")
	a := layout.AddColumn(mid, "a")
	b := layout.AddColumn(mid, "b")
	//
	assert.Equal(t, uint(0), a.Column())
	assert.Equal(t, uint(1), b.Column())
	assert.Equal(t, "m.b", layout.ColumnName(b))
	//
	cid, ok := layout.Module(mid).ColumnOf("b")
	assert.True(t, ok)
	assert.Equal(t, uint(1), cid)
}

func Test_Layout_02(t *testing.T) {
	layout := NewLayout()
	mid := layout.AddModule("m")
	layout.AddColumn(mid, "a")
	//
	require.Panics(t, func() { layout.AddColumn(mid, "a") })
	require.Panics(t, func() { layout.AddModule("m") })
}

func Test_ArrayTrace_01(t *testing.T) {
	tr, x, _ := newTestTrace()
	module := tr.Module(x.Module())
	module.Resize(4)
	module.Set(x.Column(), 2, field.Uint64(7))
	//
	assert.Equal(t, uint(4), module.Height())
	assert.True(t, field.Equal(field.Uint64(7), tr.Get(NewCellRef(x, 2))))
	// Out-of-bounds reads give the padding value
	lo, hi := module.Get(x.Column(), -1), module.Get(x.Column(), 4)
	assert.True(t, lo.IsZero())
	assert.True(t, hi.IsZero())
	// Out-of-bounds writes are a programming error
	require.Panics(t, func() { module.Set(x.Column(), 4, field.One()) })
}

func Test_ArrayTrace_02(t *testing.T) {
	tr, x, _ := newTestTrace()
	module := tr.Module(x.Module())
	module.Resize(2)
	module.Set(x.Column(), 1, field.Uint64(3))
	module.Resize(3)
	//
	assert.True(t, field.Equal(field.Uint64(3), module.Get(x.Column(), 1)))
	v := module.Get(x.Column(), 2)
	assert.True(t, v.IsZero())
}

func Test_Printer_01(t *testing.T) {
	var buf bytes.Buffer
	//
	tr, x, y := newTestTrace()
	module := tr.Module(x.Module())
	module.Resize(2)
	module.Set(y.Column(), 1, field.Uint64(255))
	//
	highlight := func(cell CellRef) bool { return cell.Cmp(NewCellRef(y, 1)) == 0 }
	err := NewPrinter().Highlight(highlight).Print(&buf, tr, x.Module())
	//
	require.NoError(t, err)
	//
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "x")
	assert.Contains(t, lines[2], "*0xff")
}

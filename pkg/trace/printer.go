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
	"fmt"
	"io"
	"math"
	"text/tabwriter"
)

// ColumnFilter is a predicate which determines whether a given column should be
// included in the print out, or not.
type ColumnFilter = func(ColumnRef, *ArrayTrace) bool

// Highlighter identifies cells which should be highlighted.
type Highlighter = func(CellRef) bool

// Printer encapsulates various configuration options useful for printing out
// traces in human-readable forms.
type Printer struct {
	// First row to print
	startRow uint
	// Last row to print
	endRow uint
	// Which columns to include
	colFilter ColumnFilter
	// Which cells to highlight
	highlighter Highlighter
	// Enable ANSI
	ansiEscapes bool
}

// NewPrinter constructs a default printer
func NewPrinter() *Printer {
	// Include all colunms by default
	emptyFilter := func(ColumnRef, *ArrayTrace) bool {
		return true
	}
	// Highlight nothing by default
	emptyHighlighter := func(CellRef) bool {
		return false
	}
	// Return an empty printer
	return &Printer{0, math.MaxInt, emptyFilter, emptyHighlighter, false}
}

// Start configures the starting row for this printer.
func (p *Printer) Start(start uint) *Printer {
	p.startRow = start
	return p
}

// End configures the ending row (inclusive) for this printer.
func (p *Printer) End(end uint) *Printer {
	p.endRow = end
	return p
}

// Columns configures the column filter for this printer.
func (p *Printer) Columns(filter ColumnFilter) *Printer {
	p.colFilter = filter
	return p
}

// Highlight configures the highlighter for this printer.
func (p *Printer) Highlight(highlighter Highlighter) *Printer {
	p.highlighter = highlighter
	return p
}

// AnsiEscapes enables (or disables) the use of ANSI escape codes for
// highlighting.  Without them, highlighted cells are marked with an asterisk.
func (p *Printer) AnsiEscapes(enable bool) *Printer {
	p.ansiEscapes = enable
	return p
}

// Print a given module of a trace, with one line per row.
func (p *Printer) Print(w io.Writer, tr *ArrayTrace, mid ModuleId) error {
	var (
		module  = tr.Module(mid)
		columns []uint
		tw      = tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
		end     = min(p.endRow, module.Height()-1)
	)
	// Determine columns to print
	for cid := uint(0); cid < module.Width(); cid++ {
		if p.colFilter(NewColumnRef(mid, cid), tr) {
			columns = append(columns, cid)
		}
	}
	// Header
	fmt.Fprint(tw, "row")
	//
	for _, cid := range columns {
		fmt.Fprintf(tw, "\t%s", module.Layout().ColumnName(cid))
	}
	//
	fmt.Fprintln(tw)
	// Body
	for row := p.startRow; module.Height() > 0 && row <= end; row++ {
		fmt.Fprintf(tw, "%d", row)
		//
		for _, cid := range columns {
			val := module.Get(cid, int(row))
			text := "0x" + val.Text(16)
			//
			if p.highlighter(NewCellRef(NewColumnRef(mid, cid), int(row))) {
				if p.ansiEscapes {
					text = fmt.Sprintf("\033[31m%s\033[0m", text)
				} else {
					text = fmt.Sprintf("*%s", text)
				}
			}
			//
			fmt.Fprintf(tw, "\t%s", text)
		}
		//
		fmt.Fprintln(tw)
	}
	//
	return tw.Flush()
}

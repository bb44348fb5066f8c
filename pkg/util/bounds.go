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
package util

// Unshifted are the bounds of a term which reads only the current row, and is
// therefore defined on every row.
var Unshifted = Bounds{0, 0}

// Bounds identifies the rows of a table on which a constraint term is defined,
// given the row shifts it makes.  For example, a term reading the next row has
// no value on the last row.  Vanishing constraints hold trivially outside the
// bounds of their term.
type Bounds struct {
	// Rows at the start of a table read beyond by a backward shift.
	Start uint
	// Rows at the end of a table read beyond by a forward shift.
	End uint
}

// NewBounds constructs a new set of bounds.
func NewBounds(start uint, end uint) Bounds {
	return Bounds{start, end}
}

// ShiftBounds determines the bounds of a single column access with a given
// row shift.
func ShiftBounds(shift int) Bounds {
	if shift >= 0 {
		return NewBounds(0, uint(shift))
	}
	//
	return NewBounds(uint(-shift), 0)
}

// Union narrows these bounds to those rows also within another set of bounds.
func (p *Bounds) Union(q *Bounds) {
	p.Start = max(p.Start, q.Start)
	p.End = max(p.End, q.End)
}

// Contains determines whether a given row is within these bounds, for a table
// of the given height.
func (p Bounds) Contains(row uint, height uint) bool {
	return row >= p.Start && row+p.End < height
}

// Shifted is implemented by constraint terms which may access rows other than
// the current one.
type Shifted interface {
	// Bounds returns the rows on which this term is defined.  For example, the
	// execution table step constraint reads the next row, hence is undefined
	// on (and must pass for) the last row.
	Bounds() Bounds
}

// BoundsOf determines the bounds of a term composed from several others.
func BoundsOf[E Shifted](args []E) Bounds {
	var bounds = Unshifted
	//
	for _, e := range args {
		ith := e.Bounds()
		bounds.Union(&ith)
	}
	//
	return bounds
}

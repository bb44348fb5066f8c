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
package encoding

import (
	"fmt"

	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/holiman/uint256"
)

// Field describes one component of a packed encoding.
type Field struct {
	// Name of this field (used for error reporting)
	Name string
	// Number of bits occupied by this field
	Width uint
	// Offset (in bits) of this field from the least significant end.
	offset uint
}

// Offset returns the bit offset of this field.
func (p Field) Offset() uint {
	return p.offset
}

// Layout describes how a tuple of small values is packed into a single field
// element.  Each component occupies a disjoint range of bits, hence the packing
// is injective provided every component fits within its declared width.
// Furthermore, the packed value is a fixed weighted sum of the components,
// hence the same packing can be expressed algebraically over terms.
type Layout struct {
	name   string
	fields []Field
	width  uint
}

// NewLayout constructs a layout from the given fields, which are listed from
// the most significant to the least significant.  This panics if the total
// width exceeds that which can be embedded into a field element, or if any
// field is wider than a machine word.
func NewLayout(name string, fields ...Field) *Layout {
	var (
		width  uint
		nfield = make([]Field, len(fields))
	)
	// Assign offsets from the least significant end
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		//
		if f.Width == 0 || f.Width > 64 {
			panic(fmt.Sprintf("invalid width %d for field %s.%s", f.Width, name, f.Name))
		}
		//
		nfield[i] = Field{f.Name, f.Width, width}
		width += f.Width
	}
	//
	if width > field.BitWidth {
		panic(fmt.Sprintf("layout %s too wide (%d bits)", name, width))
	}
	//
	return &Layout{name, nfield, width}
}

// Name returns the name of this layout.
func (p *Layout) Name() string {
	return p.name
}

// Width returns the total number of bits occupied by this layout.
func (p *Layout) Width() uint {
	return p.width
}

// Fields returns the fields of this layout, from most to least significant.
func (p *Layout) Fields() []Field {
	return p.fields
}

// Pack a tuple of native values (given from most to least significant) into a
// fixed-width integer.  An error is returned if any value does not fit within
// its field.
func (p *Layout) Pack(values ...uint64) (*uint256.Int, error) {
	var acc = uint256.NewInt(0)
	//
	p.checkArity(len(values))
	//
	for i, f := range p.fields {
		if f.Width < 64 && values[i]>>f.Width != 0 {
			return nil, &RangeError{p.name, f.Name, values[i], f.Width}
		}
		//
		ith := uint256.NewInt(values[i])
		ith.Lsh(ith, f.offset)
		acc.Or(acc, ith)
	}
	//
	return acc, nil
}

// Encode a tuple of native values into a single field element.
func (p *Layout) Encode(values ...uint64) (field.Element, error) {
	packed, err := p.Pack(values...)
	//
	if err != nil {
		return field.Zero(), err
	}
	//
	return field.Uint256(packed), nil
}

// Unpack a field element into its native components (from most to least
// significant).  An error is returned if the element does not lie within the
// image of this layout.
func (p *Layout) Unpack(val field.Element) ([]uint64, error) {
	var (
		packed uint256.Int
		bytes  = val.Bytes()
		values = make([]uint64, len(p.fields))
	)
	//
	packed.SetBytes(bytes[:])
	//
	if uint(packed.BitLen()) > p.width {
		return nil, fmt.Errorf("value 0x%s outside %s encoding", val.Text(16), p.name)
	}
	//
	for i, f := range p.fields {
		var ith uint256.Int
		//
		ith.Rsh(&packed, f.offset)
		values[i] = ith.Uint64()
		//
		if f.Width < 64 {
			values[i] &= (1 << f.Width) - 1
		}
	}
	//
	return values, nil
}

// Compose a tuple of terms (given from most to least significant) into a single
// term, using the same weighted sum as Pack.  Thus, for any assignment where
// the terms evaluate to in-range values, the composed term evaluates to exactly
// the encoded value.
func (p *Layout) Compose(terms ...term.Term) term.Term {
	var args = make([]term.Term, len(terms))
	//
	p.checkArity(len(terms))
	//
	for i, f := range p.fields {
		if f.offset == 0 {
			args[i] = terms[i]
		} else {
			args[i] = term.Scale(terms[i], field.TwoPowN(f.offset))
		}
	}
	//
	return term.Sum(args...)
}

func (p *Layout) checkArity(n int) {
	if n != len(p.fields) {
		panic(fmt.Sprintf("layout %s expects %d components (got %d)", p.name, len(p.fields), n))
	}
}

// RangeError indicates that a native value does not fit within its designated
// field of a layout.
type RangeError struct {
	Layout string
	Field  string
	Value  uint64
	Width  uint
}

func (p *RangeError) Error() string {
	return fmt.Sprintf("%s.%s value %d exceeds %d bits", p.Layout, p.Field, p.Value, p.Width)
}

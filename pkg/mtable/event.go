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
	"cmp"
	"fmt"
	"math"

	"github.com/consensys/go-etable/pkg/ir/term"
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/util/encoding"
	"github.com/consensys/go-etable/pkg/util/field"
)

// LocationType identifies the kind of memory being accessed.
type LocationType uint8

const (
	// Stack identifies the operand stack, addressed by stack pointer.
	Stack LocationType = 1
	// Heap identifies linear memory, addressed by byte offset.
	Heap LocationType = 2
	// Global identifies global variables, addressed by module and index.
	Global LocationType = 3
	// Table identifies table elements, addressed by table and element index.
	Table LocationType = 4
)

func (p LocationType) String() string {
	switch p {
	case Stack:
		return "stack"
	case Heap:
		return "heap"
	case Global:
		return "global"
	case Table:
		return "table"
	}
	//
	return fmt.Sprintf("ltype(%d)", uint8(p))
}

// Valid determines whether this is a known location type.
func (p LocationType) Valid() bool {
	return p >= Stack && p <= Table
}

// AccessType identifies the direction of a memory access.
type AccessType uint8

const (
	// Read indicates a value is read from memory.
	Read AccessType = 1
	// Write indicates a value is written to memory.
	Write AccessType = 2
	// Init indicates the initial value of a memory location, as asserted by
	// the memory table before execution begins.
	Init AccessType = 3
)

func (p AccessType) String() string {
	switch p {
	case Read:
		return "read"
	case Write:
		return "write"
	case Init:
		return "init"
	}
	//
	return fmt.Sprintf("atype(%d)", uint8(p))
}

// Valid determines whether this is a known access type.
func (p AccessType) Valid() bool {
	return p >= Read && p <= Init
}

// EventLayout determines the canonical encoding of a memory event as a single
// field element.  Observe that the field order here determines only the
// encoding, not the order in which events are sorted within the memory table.
// Every field is at least as wide as the range check applied to the execution
// table cell from which it is composed, otherwise an oversized cell would
// carry into its neighbour.
var EventLayout = encoding.NewLayout("mtable",
	encoding.Field{Name: "eid", Width: 32},
	encoding.Field{Name: "emid", Width: 16},
	encoding.Field{Name: "ltype", Width: 8},
	encoding.Field{Name: "mmid", Width: 16},
	encoding.Field{Name: "offset", Width: 32},
	encoding.Field{Name: "atype", Width: 8},
	encoding.Field{Name: "vtype", Width: 16},
	encoding.Field{Name: "value", Width: 64},
)

// Event describes a single memory access.  The execution index (eid) and the
// index of the access within that step (emid) together give its position in
// time, whilst (ltype, mmid, offset) identify the location accessed.
type Event struct {
	Eid    uint64
	Emid   uint64
	Ltype  LocationType
	Mmid   uint64
	Offset uint64
	Atype  AccessType
	Vtype  program.VarType
	Value  uint64
	// Immutable marks the initialisation of a location which may never be
	// written (e.g. an immutable global).  This is not part of the encoding.
	Immutable bool
}

// Tuple returns the components of this event in encoding order.
func (p *Event) Tuple() []uint64 {
	return []uint64{p.Eid, p.Emid, uint64(p.Ltype), p.Mmid, p.Offset, uint64(p.Atype), uint64(p.Vtype), p.Value}
}

// Encode this event as a single field element.  An error is returned if any
// component does not fit its field.
func (p *Event) Encode() (field.Element, error) {
	return EventLayout.Encode(p.Tuple()...)
}

// Cmp orders events first by location, and then by time.
func (p *Event) Cmp(q *Event) int {
	if c := cmp.Compare(p.Ltype, q.Ltype); c != 0 {
		return c
	} else if c := cmp.Compare(p.Mmid, q.Mmid); c != 0 {
		return c
	} else if c := cmp.Compare(p.Offset, q.Offset); c != 0 {
		return c
	} else if c := cmp.Compare(p.Eid, q.Eid); c != 0 {
		return c
	}
	//
	return cmp.Compare(p.Emid, q.Emid)
}

// SameLocation determines whether two events access the same location.
func (p *Event) SameLocation(q *Event) bool {
	return p.Ltype == q.Ltype && p.Mmid == q.Mmid && p.Offset == q.Offset
}

func (p *Event) String() string {
	return fmt.Sprintf("(%d.%d %s %s[%d:%d] %s %d)", p.Eid, p.Emid, p.Atype, p.Ltype, p.Mmid, p.Offset, p.Vtype,
		p.Value)
}

// ============================================================================
// Native Constructors
// ============================================================================

// StackRead constructs an event reading a value from the stack.
func StackRead(eid, emid, sp uint64, vtype program.VarType, value uint64) Event {
	return Event{eid, emid, Stack, 0, sp, Read, vtype, value, false}
}

// StackWrite constructs an event writing a value to the stack.
func StackWrite(eid, emid, sp uint64, vtype program.VarType, value uint64) Event {
	return Event{eid, emid, Stack, 0, sp, Write, vtype, value, false}
}

// GlobalGet constructs an event reading a global variable.
func GlobalGet(eid, emid, moid, idx uint64, vtype program.VarType, value uint64) Event {
	return Event{eid, emid, Global, moid, idx, Read, vtype, value, false}
}

// GlobalSet constructs an event writing a global variable.
func GlobalSet(eid, emid, moid, idx uint64, vtype program.VarType, value uint64) Event {
	return Event{eid, emid, Global, moid, idx, Write, vtype, value, false}
}

// GlobalInit constructs the event initialising a mutable global variable.  Such
// events precede all others.
func GlobalInit(moid, idx uint64, vtype program.VarType, value uint64) Event {
	return Event{0, 0, Global, moid, idx, Init, vtype, value, false}
}

// ImmutableGlobalInit constructs the event initialising an immutable global
// variable, after which any write to it is rejected.
func ImmutableGlobalInit(moid, idx uint64, vtype program.VarType, value uint64) Event {
	return Event{0, 0, Global, moid, idx, Init, vtype, value, true}
}

// Decode the event held in a given field element.  Components which do not
// name a known type are decoded as zero (i.e. as an invalid type).
func Decode(val field.Element) (Event, error) {
	vals, err := EventLayout.Unpack(val)
	//
	if err != nil {
		return Event{}, err
	}
	//
	return fromTuple(vals), nil
}

func fromTuple(vals []uint64) Event {
	return Event{vals[0], vals[1], LocationType(narrow(vals[2])), vals[3], vals[4], AccessType(narrow(vals[5])),
		program.VarType(narrow(vals[6])), vals[7], false}
}

// narrow a type identifier to eight bits, mapping those which do not fit to
// zero.
func narrow(val uint64) uint8 {
	if val > math.MaxUint8 {
		return 0
	}
	//
	return uint8(val)
}

// HeapRead constructs an event reading a word of linear memory.
func HeapRead(eid, emid, mmid, offset uint64, vtype program.VarType, value uint64) Event {
	return Event{eid, emid, Heap, mmid, offset, Read, vtype, value, false}
}

// HeapWrite constructs an event writing a word of linear memory.
func HeapWrite(eid, emid, mmid, offset uint64, vtype program.VarType, value uint64) Event {
	return Event{eid, emid, Heap, mmid, offset, Write, vtype, value, false}
}

// TableGet constructs an event reading a table element.
func TableGet(eid, emid, tid, idx uint64, vtype program.VarType, value uint64) Event {
	return Event{eid, emid, Table, tid, idx, Read, vtype, value, false}
}

// TableSet constructs an event writing a table element.
func TableSet(eid, emid, tid, idx uint64, vtype program.VarType, value uint64) Event {
	return Event{eid, emid, Table, tid, idx, Write, vtype, value, false}
}

// ============================================================================
// Expression Constructors
// ============================================================================

// EncodeStackReadExpr is the algebraic counterpart of StackRead.
func EncodeStackReadExpr(eid, emid, sp, vtype, value term.Term) term.Term {
	return encodeExpr(eid, emid, Stack, term.Const64(0), sp, Read, vtype, value)
}

// EncodeStackWriteExpr is the algebraic counterpart of StackWrite.
func EncodeStackWriteExpr(eid, emid, sp, vtype, value term.Term) term.Term {
	return encodeExpr(eid, emid, Stack, term.Const64(0), sp, Write, vtype, value)
}

// EncodeGlobalGetExpr is the algebraic counterpart of GlobalGet.
func EncodeGlobalGetExpr(eid, emid, moid, idx, vtype, value term.Term) term.Term {
	return encodeExpr(eid, emid, Global, moid, idx, Read, vtype, value)
}

// EncodeGlobalSetExpr is the algebraic counterpart of GlobalSet.
func EncodeGlobalSetExpr(eid, emid, moid, idx, vtype, value term.Term) term.Term {
	return encodeExpr(eid, emid, Global, moid, idx, Write, vtype, value)
}

// EncodeHeapReadExpr is the algebraic counterpart of HeapRead.
func EncodeHeapReadExpr(eid, emid, mmid, offset, vtype, value term.Term) term.Term {
	return encodeExpr(eid, emid, Heap, mmid, offset, Read, vtype, value)
}

// EncodeHeapWriteExpr is the algebraic counterpart of HeapWrite.
func EncodeHeapWriteExpr(eid, emid, mmid, offset, vtype, value term.Term) term.Term {
	return encodeExpr(eid, emid, Heap, mmid, offset, Write, vtype, value)
}

// EncodeTableGetExpr is the algebraic counterpart of TableGet.
func EncodeTableGetExpr(eid, emid, tid, idx, vtype, value term.Term) term.Term {
	return encodeExpr(eid, emid, Table, tid, idx, Read, vtype, value)
}

// EncodeTableSetExpr is the algebraic counterpart of TableSet.
func EncodeTableSetExpr(eid, emid, tid, idx, vtype, value term.Term) term.Term {
	return encodeExpr(eid, emid, Table, tid, idx, Write, vtype, value)
}

func encodeExpr(eid, emid term.Term, ltype LocationType, mmid, offset term.Term, atype AccessType,
	vtype, value term.Term) term.Term {
	return EventLayout.Compose(eid, emid, term.Const64(uint64(ltype)), mmid, offset, term.Const64(uint64(atype)),
		vtype, value)
}

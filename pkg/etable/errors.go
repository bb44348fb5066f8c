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
package etable

import (
	"errors"
	"fmt"

	"github.com/consensys/go-etable/pkg/program"
)

// ErrUnsupportedOpcode indicates an execution step whose opcode class has no
// configuration in the execution table.
var ErrUnsupportedOpcode = errors.New("unsupported opcode")

// AssignError indicates a value could not be assigned to a cell at witness
// time, for example because it does not fit the declared range of the cell.
type AssignError struct {
	// Name of the cell's column
	Cell string
	// Row being assigned
	Row uint
	// Value being assigned
	Value string
	// Underlying cause
	Err error
}

func (p *AssignError) Error() string {
	return fmt.Sprintf("cannot assign %s to %s (row %d): %s", p.Value, p.Cell, p.Row, p.Err.Error())
}

func (p *AssignError) Unwrap() error {
	return p.Err
}

// DispatchDefect indicates that an execution step was routed to the
// configuration of a different opcode class.  This is a programming defect in
// the dispatcher rather than a problem with the input, and should never be
// recovered from.
type DispatchDefect struct {
	// Row being assigned
	Row uint
	// Opcode class of the configuration
	Expected program.OpcodeClass
	// Opcode class of the execution step
	Actual program.OpcodeClass
}

// NewDispatchDefect constructs a dispatch defect for a given row and step.
func NewDispatchDefect(ctx *Context, expected program.OpcodeClass, step program.StepInfo) *DispatchDefect {
	return &DispatchDefect{ctx.Row(), expected, step.Class()}
}

func (p *DispatchDefect) Error() string {
	return fmt.Sprintf("dispatch defect (row %d): %s step routed to %s configuration", p.Row, p.Actual, p.Expected)
}

// IsDispatchDefect determines whether a given error is (or wraps) a dispatch
// defect.
func IsDispatchDefect(err error) bool {
	var defect *DispatchDefect
	//
	return errors.As(err, &defect)
}

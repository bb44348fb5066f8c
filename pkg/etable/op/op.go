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
package op

import (
	"github.com/consensys/go-etable/pkg/etable"
)

// Builders returns a builder for every supported opcode class, in their
// registration order.  This order determines the layout of the execution
// table, and hence must be fixed.
func Builders() []etable.Builder {
	return []etable.Builder{
		ConstBuilder{},
		DropBuilder{},
		ReturnBuilder{},
		GlobalGetBuilder{},
		GlobalSetBuilder{},
	}
}

// Run each assignment in turn, stopping at the first which fails.
func assignAll(assignments ...func() error) error {
	for _, assign := range assignments {
		if err := assign(); err != nil {
			return err
		}
	}
	//
	return nil
}

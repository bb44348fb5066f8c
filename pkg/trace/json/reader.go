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
package json

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/util/field"
)

// FromBytes parses a trace expressed in JSON notation for a given layout.  For
// example, {"m": {"X": [0], "Y": [1]}} assigns one row of data to each of the
// columns "X" and "Y" of module "m".  Every module and column must be declared
// in the layout, and all columns of a module must have the same height.
// Columns which are omitted are zero.
func FromBytes(layout *trace.Layout, data []byte) (*trace.ArrayTrace, error) {
	var rawData map[string]map[string][]big.Int
	// Attempt to unmarshall
	if err := json.Unmarshal(data, &rawData); err != nil {
		return nil, err
	}
	//
	tr := trace.NewArrayTrace(layout)
	//
	for name, modData := range rawData {
		mid, ok := moduleOf(layout, name)
		//
		if !ok {
			return nil, fmt.Errorf("unknown module %s", name)
		}
		//
		if err := readModule(tr.Module(mid), modData); err != nil {
			return nil, err
		}
	}
	//
	return tr, nil
}

func readModule(module *trace.Module, modData map[string][]big.Int) error {
	var height = -1
	// Determine height
	for name, rawInts := range modData {
		if height == -1 {
			height = len(rawInts)
		} else if height != len(rawInts) {
			return fmt.Errorf("column %s.%s has height %d (expected %d)", module.Name(), name, len(rawInts), height)
		}
	}
	//
	module.Resize(uint(max(height, 0)))
	//
	for name, rawInts := range modData {
		cid, ok := module.Layout().ColumnOf(name)
		//
		if !ok {
			return fmt.Errorf("unknown column %s.%s", module.Name(), name)
		}
		//
		for row := range rawInts {
			val := &rawInts[row]
			// Validate value
			if val.Sign() < 0 || val.Cmp(field.Modulus()) >= 0 {
				return fmt.Errorf("column %s.%s out-of-bounds (row %d, value %s)", module.Name(), name, row,
					val.String())
			}
			//
			module.Set(cid, uint(row), field.BigInt(val))
		}
	}
	//
	return nil
}

func moduleOf(layout *trace.Layout, name string) (trace.ModuleId, bool) {
	for mid := uint(0); mid < layout.Modules(); mid++ {
		if layout.Module(mid).Name() == name {
			return mid, true
		}
	}
	//
	return 0, false
}

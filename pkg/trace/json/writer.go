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
	"strings"

	"github.com/consensys/go-etable/pkg/trace"
)

// ToJsonString converts a trace into a JSON string, where each module maps the
// names of its columns to their data.  For example, {"m": {"X": [0], "Y":
// [1]}} is a trace with one module "m" with one row of data for each of two
// columns "X" and "Y".  Modules and columns are written in layout order.
func ToJsonString(tr *trace.ArrayTrace) string {
	var (
		builder strings.Builder
		layout  = tr.Layout()
	)
	//
	builder.WriteString("{")
	//
	for mid := uint(0); mid < layout.Modules(); mid++ {
		module := tr.Module(mid)
		//
		if mid != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString("\"")
		builder.WriteString(module.Name())
		builder.WriteString("\": {")
		//
		for cid := uint(0); cid < module.Width(); cid++ {
			if cid != 0 {
				builder.WriteString(", ")
			}
			//
			builder.WriteString("\"")
			builder.WriteString(module.Layout().ColumnName(cid))
			builder.WriteString("\": [")
			//
			for j, val := range module.Column(cid) {
				if j != 0 {
					builder.WriteString(", ")
				}
				//
				builder.WriteString(val.String())
			}
			//
			builder.WriteString("]")
		}
		//
		builder.WriteString("}")
	}
	//
	builder.WriteString("}")
	// Done
	return builder.String()
}

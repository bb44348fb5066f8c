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
package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/consensys/go-etable/pkg/circuit"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/trace/json"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// traceCmd represents the trace command for generating traces.
var traceCmd = &cobra.Command{
	Use:   "trace [flags] module_file export",
	Short: "Generate the trace for a given function.",
	Long: `Execute an exported function of a given module, and print the
	resulting instruction, execution and memory tables.  The trace can also
	be written as JSON, such that it can be checked later.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			c      = circuit.New(getCircuitConfig(cmd))
			module = readModuleFile(args[0])
			tr     = assignTrace(c, module, args[1])
			output = GetString(cmd, "out")
		)
		//
		if output != "" {
			writeTraceFile(tr, output)
			return
		}
		//
		printer := trace.NewPrinter().
			Start(GetUint(cmd, "start")).
			End(GetUint(cmd, "end")).
			AnsiEscapes(term.IsTerminal(int(os.Stdout.Fd())))
		// Print requested modules
		for mid := uint(0); mid < tr.Layout().Modules(); mid++ {
			name := tr.Module(mid).Name()
			//
			if filter := GetString(cmd, "module"); filter != "" && filter != name {
				continue
			}
			//
			fmt.Printf("%s:\n", name)
			//
			if err := printer.Print(os.Stdout, tr, mid); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}
	},
}

func writeTraceFile(tr *trace.ArrayTrace, filename string) {
	if err := os.WriteFile(filename, []byte(json.ToJsonString(tr)), 0644); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().String("module", "", "print only the given table (e.g. etable)")
	traceCmd.Flags().Uint("start", 0, "first row to print")
	traceCmd.Flags().Uint("end", math.MaxUint, "last row to print (inclusive)")
	traceCmd.Flags().StringP("out", "o", "", "write the trace as JSON to the given file")
}

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
	"os"

	"github.com/consensys/go-etable/pkg/circuit"
	"github.com/consensys/go-etable/pkg/interp"
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/consensys/go-etable/pkg/trace/json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] module_file export",
	Short: "Check the execution of a function against the circuit.",
	Long: `Execute an exported function of a given module, assign the resulting
	tables and check them against every constraint of the circuit.  Alternatively,
	a previously generated trace can be given as a JSON file.`,
	Run: func(cmd *cobra.Command, args []string) {
		var tr *trace.ArrayTrace
		//
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			config    = getCircuitConfig(cmd)
			report    = GetFlag(cmd, "report")
			traceFile = GetString(cmd, "trace")
			module    = readModuleFile(args[0])
			c         = circuit.New(config)
		)
		//
		if traceFile != "" {
			tr = readTraceFile(c, traceFile)
		} else {
			tr = assignTrace(c, module, args[1])
		}
		//
		failures := c.Check(tr)
		printFailures(tr, failures, report)
		//
		if len(failures) > 0 {
			os.Exit(1)
		}
		//
		log.Infof("%d constraints hold", len(c.Schema().Constraints()))
	},
}

// Execute and assign the trace for a given exported function, exiting on
// failure.
func assignTrace(c *circuit.Circuit, module *program.Module, export string) *trace.ArrayTrace {
	entries, err := interp.Run(module, export, c.Config().InitialSp)
	//
	if err == nil {
		var tr *trace.ArrayTrace
		//
		if tr, err = c.Assign(module, entries); err == nil {
			return tr
		}
	}
	//
	fmt.Println(err)
	os.Exit(2)
	// unreachable
	return nil
}

// Parse a JSON trace file for a given circuit, exiting on failure.
func readTraceFile(c *circuit.Circuit, filename string) *trace.ArrayTrace {
	bytes, err := os.ReadFile(filename)
	//
	if err == nil {
		var tr *trace.ArrayTrace
		//
		if tr, err = json.FromBytes(c.Schema().Layout(), bytes); err == nil {
			return tr
		}
	}
	// Handle error
	fmt.Printf("%s: %s\n", filename, err)
	os.Exit(2)
	// unreachable
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("report", false, "report details of failure for debugging")
	checkCmd.Flags().String("trace", "", "check a given JSON trace rather than executing the module")
}

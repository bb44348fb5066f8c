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
	"slices"

	"github.com/consensys/go-etable/pkg/circuit"
	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/schema/constraint"
	"github.com/consensys/go-etable/pkg/trace"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned int, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint64 gets an expected 64bit unsigned int, or panic if an error arises.
func GetUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Construct the circuit configuration determined by the persistent flags.
func getCircuitConfig(cmd *cobra.Command) circuit.Config {
	return circuit.Config{
		K:       GetUint(cmd, "k"),
		Workers: GetUint(cmd, "workers"),
		Cells: etable.Layout{
			RangeCells:   GetUint(cmd, "range-cells"),
			U64Cells:     GetUint(cmd, "u64-cells"),
			MLookupCells: GetUint(cmd, "mlookup-cells"),
		},
		InitialSp: GetUint64(cmd, "stack-size"),
	}
}

// Read and validate a module file, exiting on failure.
func readModuleFile(filename string) *program.Module {
	bytes, err := os.ReadFile(filename)
	//
	if err == nil {
		var module *program.Module
		//
		if module, err = program.FromBytes(bytes); err == nil {
			return module
		}
	}
	// Handle error
	fmt.Printf("%s: %s\n", filename, err)
	os.Exit(2)
	// unreachable
	return nil
}

// Print a set of failures, optionally reporting those cells of the trace on
// which each failure depends.
func printFailures(tr *trace.ArrayTrace, failures []constraint.Failure, report bool) {
	for _, f := range failures {
		fmt.Println(f.Message())
		//
		if report {
			reportFailure(tr, f)
		}
	}
}

// Print the window of the trace enclosing the cells required by a given
// failure, with those cells highlighted.
func reportFailure(tr *trace.ArrayTrace, failure constraint.Failure) {
	var cells = failure.RequiredCells()
	//
	if len(cells) == 0 {
		return
	}
	// Sort cells so they are grouped by module
	slices.SortFunc(cells, func(l, r trace.CellRef) int { return l.Cmp(r) })
	//
	for _, mid := range modulesOf(cells) {
		var (
			start, end = rowsOf(cells, mid)
			printer    = trace.NewPrinter().Start(start).End(end).AnsiEscapes(term.IsTerminal(int(os.Stdout.Fd())))
		)
		//
		printer.Columns(func(col trace.ColumnRef, _ *trace.ArrayTrace) bool {
			return slices.ContainsFunc(cells, func(c trace.CellRef) bool { return c.Column == col })
		})
		printer.Highlight(func(cell trace.CellRef) bool {
			return slices.Contains(cells, cell)
		})
		//
		fmt.Printf("%s:\n", tr.Module(mid).Name())
		//
		if err := printer.Print(os.Stdout, tr, mid); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
}

func modulesOf(cells []trace.CellRef) []trace.ModuleId {
	var modules []trace.ModuleId
	//
	for _, c := range cells {
		if !slices.Contains(modules, c.Column.Module()) {
			modules = append(modules, c.Column.Module())
		}
	}
	//
	return modules
}

// Determine the (non-negative) range of rows occupied by the cells of a given
// module.
func rowsOf(cells []trace.CellRef, mid trace.ModuleId) (uint, uint) {
	var (
		start, end = 0, 0
		found      = false
	)
	//
	for _, c := range cells {
		if c.Column.Module() != mid {
			continue
		} else if !found {
			start, end, found = c.Row, c.Row, true
		} else {
			start, end = min(start, c.Row), max(end, c.Row)
		}
	}
	//
	return uint(max(start, 0)), uint(max(end, 0))
}

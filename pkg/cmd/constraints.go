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
	"strings"

	"github.com/consensys/go-etable/pkg/circuit"
	"github.com/consensys/go-etable/pkg/util/source/sexp"
	"github.com/spf13/cobra"
)

// constraintsCmd represents the constraints command
var constraintsCmd = &cobra.Command{
	Use:   "constraints [flags]",
	Short: "Print the constraints of the circuit.",
	Long: `Print every constraint of the circuit, as determined by the given
	cell layout, in lisp form.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			c      = circuit.New(getCircuitConfig(cmd))
			prefix = GetString(cmd, "filter")
			layout = c.Schema().Layout()
			count  = 0
			format = sexp.NewFormatter(GetUint(cmd, "textwidth")).Keep("vanish", 2).Keep("lookup", 2)
		)
		//
		for _, constraint := range c.Schema().Constraints() {
			if strings.HasPrefix(constraint.Name(), prefix) {
				for _, line := range format.Format(constraint.Lisp(layout)) {
					fmt.Println(line)
				}
				//
				count++
			}
		}
		//
		if GetFlag(cmd, "stats") {
			fmt.Printf("%d constraint(s) over %d module(s)\n", count, layout.Modules())
		}
	},
}

func init() {
	rootCmd.AddCommand(constraintsCmd)
	constraintsCmd.Flags().String("filter", "", "print only constraints whose name has the given prefix")
	constraintsCmd.Flags().Bool("stats", false, "print number of constraints")
	constraintsCmd.Flags().Uint("textwidth", 120, "maximum width of each line")
}

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

	"github.com/consensys/go-etable/pkg/interp"
	"github.com/spf13/cobra"
)

// execCmd represents the exec command
var execCmd = &cobra.Command{
	Use:   "exec [flags] module_file export",
	Short: "Execute a function and print its steps.",
	Long:  `Execute an exported function of a given module, printing one line for each step executed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		module := readModuleFile(args[0])
		entries, err := interp.Run(module, args[1], GetUint64(cmd, "stack-size"))
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		for _, e := range entries {
			fmt.Println(e.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}

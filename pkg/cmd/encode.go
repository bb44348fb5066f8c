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
	"math/big"
	"os"

	"github.com/consensys/go-etable/pkg/mtable"
	"github.com/consensys/go-etable/pkg/program"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/spf13/cobra"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode memory events or instructions as field elements.",
	Long:  `Encode memory events or instructions as they appear in the memory and instruction tables.`,
}

var encodeEventCmd = &cobra.Command{
	Use:   "event [flags]",
	Short: "Encode a memory event.",
	Run: func(cmd *cobra.Command, args []string) {
		ev := mtable.Event{
			Eid:    GetUint64(cmd, "eid"),
			Emid:   GetUint64(cmd, "emid"),
			Ltype:  parseLocationType(GetString(cmd, "ltype")),
			Mmid:   GetUint64(cmd, "mmid"),
			Offset: GetUint64(cmd, "offset"),
			Atype:  parseAccessType(GetString(cmd, "atype")),
			Vtype:  parseVarType(GetString(cmd, "vtype")),
			Value:  GetUint64(cmd, "value"),
		}
		//
		encoded, err := ev.Encode()
		exitOnError(err)
		//
		fmt.Printf("%s = 0x%s\n", ev.String(), encoded.Text(16))
	},
}

var encodeInsnCmd = &cobra.Command{
	Use:   "insn [flags] instruction",
	Short: "Encode an instruction.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		insn, err := program.ParseInstruction(args[0])
		exitOnError(err)
		//
		encoded, err := program.EncodeInstruction(GetUint64(cmd, "moid"), GetUint64(cmd, "fid"),
			GetUint64(cmd, "iid"), insn)
		exitOnError(err)
		//
		fmt.Printf("%s = 0x%s\n", insn.String(), encoded.Text(16))
	},
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode [flags] value",
	Short: "Decode an encoded memory event.",
	Long:  `Decode a field element (given in decimal, or hex with a 0x prefix) into the memory event it encodes.`,
	Run: func(cmd *cobra.Command, args []string) {
		var val big.Int
		//
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		} else if _, ok := val.SetString(args[0], 0); !ok || val.Sign() < 0 || val.Cmp(field.Modulus()) >= 0 {
			fmt.Printf("invalid field element \"%s\"\n", args[0])
			os.Exit(2)
		}
		//
		values, err := mtable.EventLayout.Unpack(field.BigInt(&val))
		exitOnError(err)
		//
		for i, f := range mtable.EventLayout.Fields() {
			fmt.Printf("%s: %d\n", f.Name, values[i])
		}
	},
}

func parseLocationType(name string) mtable.LocationType {
	for _, t := range []mtable.LocationType{mtable.Stack, mtable.Heap, mtable.Global, mtable.Table} {
		if t.String() == name {
			return t
		}
	}
	//
	fmt.Printf("unknown location type \"%s\"\n", name)
	os.Exit(2)
	// unreachable
	return 0
}

func parseAccessType(name string) mtable.AccessType {
	for _, t := range []mtable.AccessType{mtable.Read, mtable.Write, mtable.Init} {
		if t.String() == name {
			return t
		}
	}
	//
	fmt.Printf("unknown access type \"%s\"\n", name)
	os.Exit(2)
	// unreachable
	return 0
}

func parseVarType(name string) program.VarType {
	t, err := program.ParseVarType(name)
	exitOnError(err)
	//
	return t
}

func exitOnError(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	encodeCmd.AddCommand(encodeEventCmd)
	encodeCmd.AddCommand(encodeInsnCmd)
	encodeEventCmd.Flags().Uint64("eid", 0, "execution index")
	encodeEventCmd.Flags().Uint64("emid", 0, "index of memory operation within step")
	encodeEventCmd.Flags().String("ltype", "stack", "location type (stack, heap, global or table)")
	encodeEventCmd.Flags().Uint64("mmid", 0, "memory identifier (e.g. module of a global)")
	encodeEventCmd.Flags().Uint64("offset", 0, "offset within memory (e.g. stack pointer)")
	encodeEventCmd.Flags().String("atype", "read", "access type (read, write or init)")
	encodeEventCmd.Flags().String("vtype", "i32", "value type (i32 or i64)")
	encodeEventCmd.Flags().Uint64("value", 0, "value accessed")
	encodeInsnCmd.Flags().Uint64("moid", 0, "module identifier")
	encodeInsnCmd.Flags().Uint64("fid", 0, "function identifier")
	encodeInsnCmd.Flags().Uint64("iid", 0, "instruction index within function")
}

// Copyright Polyfront Software Inc.
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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// dumpCmd translates a loop nest description and prints the resulting scop.
var dumpCmd = &cobra.Command{
	Use:   "dump [flags] nest_file",
	Short: "Translate a loop nest description and print the result.",
	Long: `Translate a loop nest description into a polyhedral program
description, then print it in a stable textual form.  Flags select additional
derived information, such as collected access relations.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure logging
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		// Avoid escape codes when output is redirected.
		log.SetFormatter(&log.TextFormatter{
			ForceColors: term.IsTerminal(int(os.Stdout.Fd())),
		})
		//
		result := readNestFile(args[0])
		//
		if GetFlag(cmd, "anonymize") {
			result = result.Anonymize()
		}
		//
		fmt.Println(result.Lisp().String(false))
		//
		if GetFlag(cmd, "reads") {
			fmt.Printf("reads:\n%s\n", result.MayReads().String())
		}
		//
		if GetFlag(cmd, "writes") {
			fmt.Printf("may writes:\n%s\n", result.MayWrites().String())
			fmt.Printf("must writes:\n%s\n", result.MustWrites().String())
		}
		//
		if GetFlag(cmd, "kills") {
			fmt.Printf("kills:\n%s\n", result.MustKills().String())
		}
		//
		if GetFlag(cmd, "domains") {
			fmt.Printf("domains:\n%s\n", result.CollectDomains().String())
		}
		//
		if GetFlag(cmd, "schedule") {
			fmt.Printf("schedule:\n%s\n", result.CollectSchedule().String())
		}
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Bool("anonymize", false, "strip external names before printing")
	dumpCmd.Flags().Bool("reads", false, "print collected read accesses")
	dumpCmd.Flags().Bool("writes", false, "print collected write accesses")
	dumpCmd.Flags().Bool("kills", false, "print collected kill accesses")
	dumpCmd.Flags().Bool("domains", false, "print the union of iteration domains")
	dumpCmd.Flags().Bool("schedule", false, "print the padded schedule")
}

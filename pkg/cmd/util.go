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
	"strings"

	"github.com/polyfront/go-scop/pkg/nest"
	"github.com/polyfront/go-scop/pkg/scop"
	"github.com/polyfront/go-scop/pkg/util/sexp"
	"github.com/spf13/cobra"
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

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Read a loop nest description from a file and translate it.  Errors are
// reported with source highlighting and terminate the process.
func readNestFile(filename string) *scop.Scop {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	result, err := nest.BuildString(string(bytes))
	if err == nil {
		return result
	}
	// Handle error
	if e, ok := err.(*sexp.SyntaxError); ok {
		printSyntaxError(filename, e.Message, e.Offset, e.Offset+1, string(bytes))
	} else {
		fmt.Println(err)
	}

	os.Exit(2)
	// unreachable
	return nil
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(filename string, msg string, start int, end int, text string) {
	line, offset, num := findEnclosingLine(start, text)
	// Print error + line number
	fmt.Printf("%s:%d: %s\n", filename, num, msg)
	// Print line
	fmt.Println(line)
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", start-offset))
	// Print highlight
	fmt.Println(strings.Repeat("^", end-start))
}

// Determine the enclosing line for the given index in a string.
func findEnclosingLine(index int, text string) (string, int, int) {
	num := 1
	start := 0
	// Handle case where we've reached the end-of-file unexpectedly.  This
	// essentially means the error is reported at the end of the last physical
	// line.
	if index >= len(text) {
		index = len(text) - 1
	}
	// Find the line.
	for i := 0; i < len(text); i++ {
		if i == index {
			end := findEndOfLine(index, text)
			return text[start:end], start, num
		} else if text[i] == '\n' {
			num++
			start = i + 1
		}
	}
	//
	return "", 0, num
}

// Find the end of the line enclosing the given index.
func findEndOfLine(index int, text string) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}
	//
	return len(text)
}

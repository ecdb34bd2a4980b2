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
package sexp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Parse_01(t *testing.T) {
	checkRoundTrip(t, "x")
}

func Test_Parse_02(t *testing.T) {
	checkRoundTrip(t, "()")
}

func Test_Parse_03(t *testing.T) {
	checkRoundTrip(t, "(x)")
}

func Test_Parse_04(t *testing.T) {
	checkRoundTrip(t, "(x y z)")
}

func Test_Parse_05(t *testing.T) {
	checkRoundTrip(t, "(x (y z) (1 2 3))")
}

func Test_Parse_06(t *testing.T) {
	term, err := Parse("  (for i 0 n) ; trailing comment\n")
	require.NoError(t, err)
	require.Equal(t, "(for i 0 n)", term.String(false))
}

func Test_Parse_07(t *testing.T) {
	// unexpected end-of-list
	checkFails(t, ")")
}

func Test_Parse_08(t *testing.T) {
	// unterminated list
	checkFails(t, "(x (y)")
}

func Test_Parse_09(t *testing.T) {
	// trailing garbage
	checkFails(t, "(x) y")
}

func Test_Parse_10(t *testing.T) {
	terms, err := ParseAll("(a) (b c) d")
	require.NoError(t, err)
	require.Equal(t, 3, len(terms))
	require.Equal(t, "(b c)", terms[1].String(false))
}

func Test_Parse_11(t *testing.T) {
	term, err := Parse("(a b)")
	require.NoError(t, err)
	//
	list := term.AsList()
	require.NotNil(t, list)
	require.True(t, list.MatchSymbols(2, "a"))
	require.False(t, list.MatchSymbols(2, "a", "c"))
}

func checkRoundTrip(t *testing.T, text string) {
	t.Helper()
	//
	term, err := Parse(text)
	require.NoError(t, err)
	require.Equal(t, text, term.String(false))
}

func checkFails(t *testing.T, text string) {
	t.Helper()
	//
	_, err := Parse(text)
	require.Error(t, err)
}

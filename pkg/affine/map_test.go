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
package affine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Domain / range

func Test_Map_01(t *testing.T) {
	m := MapFromDomain(interval(t, 0, 10))
	//
	assertSetEq(t, interval(t, 0, 10), m.Domain())
	require.Equal(t, 0, m.Space.OutDims())
}

func Test_Map_02(t *testing.T) {
	m := MapFromDomainAndRange(interval(t, 0, 3), interval(t, 5, 7))
	//
	assertSetEq(t, interval(t, 0, 3), m.Domain())
	assertSetEq(t, interval(t, 5, 7), m.Range())
}

// Affine graphs

func Test_Map_03(t *testing.T) {
	space := SetSpace(AnonIdent("S"), 1)
	// x -> x
	m := MapFromAff(AffVarOnDomain(space, 0))
	//
	assertSetEq(t, UniverseSet(SetSpace(AnonIdent("S"), 1)), m.Domain().SetTupleID(AnonIdent("S")))
	// graph is the diagonal
	require.True(t, m.IsSubset(UniverseMap(m.Space).EquateInOut(0, 0)))
}

func Test_Map_04(t *testing.T) {
	space := SetSpace(AnonIdent("S"), 1)
	// x -> x + 2 restricted to 0 <= x <= 3 has range 2 <= y <= 5
	m := MapFromAff(AffVarOnDomain(space, 0).AddConstant(2))
	m = m.IntersectDomain(interval(t, 0, 3))
	//
	ran := m.Range().SetTupleID(AnonIdent("S"))
	assertSetEq(t, interval(t, 2, 5), ran)
}

// Reversal and composition

func Test_Map_05(t *testing.T) {
	m := MapFromDomainAndRange(interval(t, 0, 3), interval(t, 5, 7))
	rev := m.Reverse()
	//
	assertSetEq(t, m.Domain(), rev.Range())
	assertSetEq(t, m.Range(), rev.Domain())
}

func Test_Map_06(t *testing.T) {
	space := SetSpace(AnonIdent("S"), 1)
	inc := MapFromAff(AffVarOnDomain(space, 0).AddConstant(1))
	// applying x+1 twice gives x+2
	twice := inc.ApplyRange(inc)
	expected := MapFromAff(AffVarOnDomain(space, 0).AddConstant(2))
	//
	require.True(t, twice.Equal(expected), "expected %s, found %s", expected.String(), twice.String())
}

func Test_Map_07(t *testing.T) {
	space := SetSpace(AnonIdent("S"), 1)
	inc := MapFromAff(AffVarOnDomain(space, 0).AddConstant(1))
	dec := MapFromAff(AffVarOnDomain(space, 0).AddConstant(-1))
	// x+1 then x-1 is the identity
	identity := UniverseMap(inc.Space).EquateInOut(0, 0)
	require.True(t, inc.ApplyRange(dec).Equal(identity))
}

// Dimension manipulation

func Test_Map_08(t *testing.T) {
	m := MapFromDomain(interval(t, 0, 10))
	// prefix the (empty) output tuple with position 3
	m = m.InsertOutDims(0, 1).FixOutDim(0, 3)
	//
	require.Equal(t, 1, m.Space.OutDims())
	//
	val, ok := m.Range().DimFixedVal(0)
	require.True(t, ok)
	require.Equal(t, int64(3), val)
}

func Test_Map_09(t *testing.T) {
	m := MapFromDomain(interval(t, 0, 10))
	m = m.AddOutDims(1).FixOutDim(0, 0)
	//
	require.Equal(t, 1, m.Space.OutDims())
	//
	val, ok := m.Range().DimFixedVal(0)
	require.True(t, ok)
	require.Equal(t, int64(0), val)
}

// Wrapping

func Test_Map_10(t *testing.T) {
	m := MapFromDomainAndRange(interval(t, 0, 3), interval(t, 5, 7))
	wrapped := m.Wrap()
	//
	require.True(t, wrapped.IsWrapping())
	require.Equal(t, 2, wrapped.Space.SetDims())
	// unwrap recovers the original
	require.True(t, wrapped.Unwrap().Equal(m))
}

// Products

func Test_Map_11(t *testing.T) {
	lhs := MapFromDomainAndRange(interval(t, 0, 3), interval(t, 5, 7))
	rhs := MapFromDomainAndRange(interval(t, 1, 2), interval(t, 8, 9))
	//
	product := lhs.FlatProduct(rhs)
	require.Equal(t, 2, product.Space.InDims())
	require.Equal(t, 2, product.Space.OutDims())
}

func Test_Map_12(t *testing.T) {
	dom := interval(t, 0, 3)
	lhs := MapFromDomainAndRange(dom, interval(t, 5, 7))
	rhs := MapFromDomainAndRange(dom, interval(t, 8, 9))
	// shared domain, concatenated ranges
	product := lhs.FlatDomainProduct(rhs)
	require.Equal(t, 1, product.Space.InDims())
	require.Equal(t, 2, product.Space.OutDims())
	assertSetEq(t, dom, product.Domain())
}

// Tuple identities

func Test_Map_13(t *testing.T) {
	m := MapFromDomainAndRange(interval(t, 0, 3), interval(t, 5, 7))
	m = m.SetInTupleID(NewIdent("A", "A")).SetOutTupleID(AnonIdent("B"))
	//
	require.Equal(t, "A", m.InTupleID().Name)
	require.Equal(t, "B", m.OutTupleID().Name)
	require.True(t, m.HasOutTupleID())
	// anonymizing strips the external tag but keeps the name
	anon := m.Anonymize()
	require.Equal(t, "A", anon.InTupleID().Name)
	require.True(t, anon.InTupleID().IsVirtual())
}

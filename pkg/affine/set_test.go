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

// Intersection / union / subtraction

func Test_Set_01(t *testing.T) {
	lhs := interval(t, 0, 10)
	rhs := interval(t, 5, 20)
	//
	assertSetEq(t, interval(t, 5, 10), lhs.Intersect(rhs))
}

func Test_Set_02(t *testing.T) {
	lhs := interval(t, 0, 10)
	rhs := interval(t, 5, 20)
	//
	assertSetEq(t, interval(t, 0, 20), lhs.Union(rhs))
}

func Test_Set_03(t *testing.T) {
	lhs := interval(t, 0, 10)
	rhs := interval(t, 5, 20)
	//
	assertSetEq(t, interval(t, 0, 4), lhs.Subtract(rhs))
}

func Test_Set_04(t *testing.T) {
	lhs := interval(t, 0, 10)
	rhs := interval(t, 20, 30)
	//
	require.True(t, lhs.Intersect(rhs).IsEmpty())
}

// Complement

func Test_Set_05(t *testing.T) {
	s := interval(t, 0, 10)
	// s ∪ ¬s covers the space
	union := s.Union(s.Complement())
	require.True(t, UniverseSet(s.Space).IsSubset(union))
}

func Test_Set_06(t *testing.T) {
	s := interval(t, 0, 10)
	// s ∩ ¬s is empty
	require.True(t, s.Intersect(s.Complement()).IsEmpty())
}

func Test_Set_07(t *testing.T) {
	space := SetSpace(AnonIdent("S"), 1)
	s := UniverseSet(space).LowerBoundDim(0, 0)
	//
	assertSetEq(t, UniverseSet(space).UpperBoundDim(0, -1), s.Complement())
}

// Subset / emptiness

func Test_Set_08(t *testing.T) {
	require.True(t, interval(t, 2, 5).IsSubset(interval(t, 0, 10)))
	require.False(t, interval(t, 0, 10).IsSubset(interval(t, 2, 5)))
}

func Test_Set_09(t *testing.T) {
	space := SetSpace(AnonIdent("S"), 1)
	s := UniverseSet(space).LowerBoundDim(0, 5).UpperBoundDim(0, 4)
	//
	require.True(t, s.IsEmpty())
}

// Projection

func Test_Set_10(t *testing.T) {
	space := SetSpace(AnonIdent("S"), 2)
	// 0 <= x <= y <= 10
	s := UniverseSet(space).LowerBoundDim(0, 0).UpperBoundDim(1, 10)
	s = s.AddConstraint(Inequality([]int64{0, -1, 1}))
	// project out y
	projected := s.ProjectOutDims(1, 1)
	//
	assertSetEq(t, interval(t, 0, 10), projected)
}

func Test_Set_11(t *testing.T) {
	space := SetSpace(AnonIdent("S"), 2)
	// x == 3 and 0 <= y <= 7, projecting y leaves x == 3
	s := UniverseSet(space).FixDim(0, 3).LowerBoundDim(1, 0).UpperBoundDim(1, 7)
	projected := s.ProjectOutDims(1, 1)
	//
	expected := UniverseSet(SetSpace(AnonIdent("S"), 1)).FixDim(0, 3)
	assertSetEq(t, expected, projected)
}

// Fixed dimensions

func Test_Set_12(t *testing.T) {
	s := interval(t, 4, 4)
	//
	val, ok := s.DimFixedVal(0)
	require.True(t, ok)
	require.Equal(t, int64(4), val)
}

func Test_Set_13(t *testing.T) {
	_, ok := interval(t, 0, 10).DimFixedVal(0)
	require.False(t, ok)
}

// Parameter contexts

func Test_Set_14(t *testing.T) {
	n := NewIdent("n", "n")
	space := SetSpace(AnonIdent("S"), 1, n)
	// 0 <= x < n
	s := UniverseSet(space).LowerBoundDim(0, 0)
	s = s.AddConstraint(Inequality([]int64{-1, 1, -1}))
	// restrict to n <= 5
	context := UniverseSet(ParamSpace(n)).AddConstraint(Inequality([]int64{5, -1}))
	restricted := s.IntersectParams(context)
	// now x <= 4 everywhere
	require.True(t, restricted.IsSubset(UniverseSet(space).UpperBoundDim(0, 4)))
}

func Test_Set_15(t *testing.T) {
	n := NewIdent("n", "n")
	m := NewIdent("m", "m")
	// equal sets over differently ordered parameter lists
	lhs := UniverseSet(ParamSpace(n, m)).AddConstraint(Inequality([]int64{0, 1, -1}))
	rhs := UniverseSet(ParamSpace(m, n)).AddConstraint(Inequality([]int64{0, -1, 1}))
	//
	assertSetEq(t, lhs, rhs.AlignParams([]Ident{n, m}))
}

// Gist

func Test_Set_16(t *testing.T) {
	s := interval(t, 0, 10)
	context := UniverseSet(s.Space).LowerBoundDim(0, 0)
	//
	gisted := s.Gist(context)
	// gist ∩ context recovers s ∩ context
	assertSetEq(t, s.Intersect(context), gisted.Intersect(context))
	// the lower bound is implied, hence dropped
	require.True(t, UniverseSet(s.Space).UpperBoundDim(0, 10).IsSubset(gisted))
}

func Test_Set_17(t *testing.T) {
	s := interval(t, 0, 10)
	// gist against itself is the universe
	require.True(t, UniverseSet(s.Space).IsSubset(s.Gist(s)))
}

// Coalescing

func Test_Set_18(t *testing.T) {
	s := interval(t, 0, 10)
	union := s.Union(EmptySet(s.Space)).Coalesce()
	//
	require.Equal(t, 1, len(union.Pieces))
	assertSetEq(t, s, union)
}

func Test_Set_19(t *testing.T) {
	s := interval(t, 0, 10)
	union := s.Union(interval(t, 2, 5)).Coalesce()
	// redundant piece is absorbed
	require.Equal(t, 1, len(union.Pieces))
}

// Products and tuple identities

func Test_Set_20(t *testing.T) {
	lhs := interval(t, 0, 3)
	rhs := interval(t, 5, 7)
	//
	product := lhs.FlatProduct(rhs).SetTupleID(AnonIdent("P"))
	require.Equal(t, 2, product.Space.SetDims())
	require.Equal(t, "P", product.TupleID().Name)
	// projecting out the second factor recovers the first
	assertSetEq(t, lhs, product.ProjectOutDims(1, 1).SetTupleID(lhs.TupleID()))
}

// interval constructs { S[x] : lo <= x <= hi }.
func interval(t *testing.T, lo int64, hi int64) Set {
	t.Helper()
	//
	space := SetSpace(AnonIdent("S"), 1)
	//
	return UniverseSet(space).LowerBoundDim(0, lo).UpperBoundDim(0, hi)
}

func assertSetEq(t *testing.T, expected Set, actual Set) {
	t.Helper()
	require.True(t, expected.Equal(actual), "expected %s, found %s", expected.String(), actual.String())
}

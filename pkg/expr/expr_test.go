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
package expr

import (
	"testing"

	"github.com/polyfront/go-scop/pkg/affine"
	"github.com/stretchr/testify/require"
)

func Test_Expr_01(t *testing.T) {
	e := NewInt(42)
	//
	require.Equal(t, KindInt, e.Kind)
	require.True(t, e.Equal(NewInt(42)))
	require.False(t, e.Equal(NewInt(41)))
}

func Test_Expr_02(t *testing.T) {
	e := NewOp(OpAdd, NewInt(1), NewInt(2))
	//
	require.Equal(t, 2, e.NArgs())
	require.True(t, e.Equal(NewOp(OpAdd, NewInt(1), NewInt(2))))
	require.False(t, e.Equal(NewOp(OpSub, NewInt(1), NewInt(2))))
}

func Test_Expr_03(t *testing.T) {
	e := NewCall("f", NewInt(0))
	//
	require.Equal(t, KindCall, e.Kind)
	require.False(t, e.Equal(NewCall("g", NewInt(0))))
}

// Access nodes

func Test_Expr_04(t *testing.T) {
	access := readAccess(t, "A")
	//
	require.Equal(t, KindAccess, access.Kind)
	require.True(t, access.Read)
	require.False(t, access.Write)
	require.Equal(t, "A", access.ArrayID().Name)
}

func Test_Expr_05(t *testing.T) {
	// affine index expressions have no array
	value := affine.PwAffConstant(affine.SetSpace(affine.Ident{}, 0), 7)
	e := FromIndex(AffineIndex(value))
	//
	require.True(t, e.IsAffine())
	require.True(t, e.Index.IsAffine())
}

// Traversal

func Test_Expr_06(t *testing.T) {
	e := NewOp(OpAssign, writeAccess(t, "A"), NewOp(OpAdd, readAccess(t, "B"), NewInt(1)))
	//
	count := 0
	e.ForEachAccess(func(a *Expr) bool {
		count++
		return true
	})
	//
	require.Equal(t, 2, count)
}

func Test_Expr_07(t *testing.T) {
	e := NewOp(OpAssign, writeAccess(t, "A"), readAccess(t, "B"))
	// rewriting accesses preserves structure
	rewritten := e.MapAccess(func(a *Expr) *Expr {
		q := *a
		q.Read = true
		//
		return &q
	})
	//
	require.True(t, rewritten.Args[0].Read)
	// original untouched
	require.False(t, e.Args[0].Read)
}

// Reference identities

func Test_Expr_08(t *testing.T) {
	e := NewOp(OpAssign, writeAccess(t, "A"), readAccess(t, "B"))
	//
	n := 0
	e = e.AddRefIDs(&n)
	//
	require.Equal(t, 2, n)
	require.Equal(t, "__scop_ref_0", e.Args[0].RefID)
	require.Equal(t, "__scop_ref_1", e.Args[1].RefID)
}

// Anonymization

func Test_Expr_09(t *testing.T) {
	e := readAccess(t, "A")
	require.False(t, e.ArrayID().IsVirtual())
	//
	anon := e.Anonymize()
	require.True(t, anon.ArrayID().IsVirtual())
	require.Equal(t, "A", anon.ArrayID().Name)
}

// Affine conditions

func Test_Expr_10(t *testing.T) {
	n := affine.NewIdent("n", "n")
	space := affine.SetSpace(affine.Ident{}, 0, n)
	// the parameter n itself, as a condition
	row := []int64{0, 1}
	value := affine.PwAffFromAff(affine.Aff{Domain: space, Row: row})
	e := FromIndex(AffineIndex(value))
	//
	cond, ok := e.AffineCondition()
	require.True(t, ok)
	// satisfied iff n != 0
	require.False(t, cond.IsEmpty())
	//
	zero := affine.UniverseSet(affine.ParamSpace(n)).AddConstraint(affine.Equality([]int64{0, 1}))
	require.True(t, cond.Intersect(zero).IsEmpty())
}

func readAccess(t *testing.T, array string) *Expr {
	t.Helper()
	return access(t, array, true, false)
}

func writeAccess(t *testing.T, array string) *Expr {
	t.Helper()
	return access(t, array, false, true)
}

func access(t *testing.T, array string, read bool, write bool) *Expr {
	t.Helper()
	//
	space := affine.SetSpace(affine.Ident{}, 0)
	value := affine.PwAffConstant(space, 0)
	//
	return NewAccess(ArrayIndex(space, affine.NewIdent(array, array), value), read, write)
}

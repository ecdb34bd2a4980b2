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
package scop

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/polyfront/go-scop/pkg/affine"
	"github.com/polyfront/go-scop/pkg/expr"
	"github.com/stretchr/testify/require"
)

// Construction

func Test_Scop_01(t *testing.T) {
	p := Empty()
	//
	require.Equal(t, 0, len(p.Stmts))
	require.True(t, p.Loc.IsDummy())
	require.True(t, p.Context.PlainIsUniverse())
}

func Test_Scop_02(t *testing.T) {
	p := assignScop(t, 0, "A", "B")
	//
	require.Equal(t, 1, len(p.Stmts))
	require.Equal(t, "S_0", p.Stmts[0].ID().Name)
	require.True(t, p.Stmts[0].IsAssign())
	require.False(t, p.Stmts[0].IsKill())
}

func Test_Scop_03(t *testing.T) {
	p := killScop(t, 0, "A")
	//
	require.True(t, p.Stmts[0].IsKill())
	require.False(t, p.Stmts[0].IsAssign())
}

func Test_Scop_04(t *testing.T) {
	// labelled statements carry their label as identity
	stmt := NewStmt(NewLoc(0, 1, 0, ""), "L", 0, assignBody(t, "A", "B"))
	//
	require.Equal(t, "L", stmt.ID().Name)
	require.False(t, stmt.ID().IsVirtual())
}

// Composition

func Test_Scop_10(t *testing.T) {
	// the empty scop is a left identity
	expected := assignScop(t, 0, "A", "B")
	combined := Compose(Empty(), assignScop(t, 0, "A", "B"), Sequential)
	//
	require.True(t, combined.Equal(expected))
}

func Test_Scop_11(t *testing.T) {
	// ... and a right identity
	expected := assignScop(t, 0, "A", "B")
	combined := Compose(assignScop(t, 0, "A", "B"), Empty(), Sequential)
	//
	require.True(t, combined.Equal(expected))
}

func Test_Scop_12(t *testing.T) {
	combined := Compose(assignScop(t, 0, "A", "B"), assignScop(t, 1, "C", "D"), Sequential)
	//
	require.Equal(t, 2, len(combined.Stmts))
	require.Equal(t, "S_0", combined.Stmts[0].ID().Name)
	require.Equal(t, "S_1", combined.Stmts[1].ID().Name)
}

func Test_Scop_13(t *testing.T) {
	// operands are consumed
	s1 := assignScop(t, 0, "A", "B")
	s2 := assignScop(t, 1, "C", "D")
	Compose(s1, s2, Sequential)
	//
	require.Panics(t, func() { s1.Prefix(0) })
	require.Panics(t, func() { s2.Prefix(0) })
}

func Test_Scop_14(t *testing.T) {
	// arrays of the same identity are not duplicated
	s1 := assignScop(t, 0, "A", "B").AddArray(array(t, "A"))
	s2 := assignScop(t, 1, "A", "C").AddArray(array(t, "A"))
	//
	combined := Compose(s1, s2, Sequential)
	require.Equal(t, 1, len(combined.Arrays))
}

func Test_Scop_15(t *testing.T) {
	// structurally equal implications are kept once; a differing satisfied
	// flag makes a distinct implication
	ext := testExtension(t, "__scop_test_0", 0, 1)
	s1 := assignScop(t, 0, "A", "B").AddImplication(ext, true)
	s2 := assignScop(t, 1, "C", "D").AddImplication(ext, true).AddImplication(ext, false)
	//
	combined := Compose(s1, s2, Sequential)
	require.Equal(t, 2, len(combined.Implications))
}

func Test_Scop_16(t *testing.T) {
	// nested-expression parameters never survive into a combined context
	s1 := assignScop(t, 0, "A", "B")
	s1.Context = affine.UniverseSet(affine.ParamSpace(affine.AnonIdent("__scop_arg_0"))).
		AddConstraint(affine.Inequality([]int64{0, 1}))
	s2 := assignScop(t, 1, "C", "D")
	//
	combined := Compose(s1, s2, Sequential)
	require.Equal(t, 0, len(combined.Context.Space.Params))
}

// Skip propagation

func Test_Scop_20(t *testing.T) {
	// sequential composition restricts the second operand by the negation
	// of the first operand's skip-now condition
	cond := paramAtLeast(t, "n", 5)
	s1 := assignScop(t, 0, "A", "B").SetSkipFromSet(SkipNow, cond)
	s2 := assignScop(t, 1, "C", "D")
	//
	combined := Compose(s1, s2, Sequential)
	// second statement now only runs for n <= 4
	dom := combined.Stmts[1].Domain.Params()
	require.True(t, dom.IsSubset(paramAtMost(t, "n", 4)))
	// the skip condition itself survives
	require.True(t, combined.HasAffineSkip(SkipNow))
	require.True(t, combined.GetAffineSkipDomain(SkipNow).Equal(cond))
}

func Test_Scop_21(t *testing.T) {
	// parallel composition does not propagate
	s1 := assignScop(t, 0, "A", "B").SetSkipFromSet(SkipNow, paramAtLeast(t, "n", 5))
	s2 := assignScop(t, 1, "C", "D")
	//
	combined := Compose(s1, s2, Parallel)
	require.True(t, combined.Stmts[1].Domain.PlainIsUniverse())
}

func Test_Scop_22(t *testing.T) {
	// skip-later never propagates into siblings
	s1 := assignScop(t, 0, "A", "B").SetSkipFromSet(SkipLater, paramAtLeast(t, "n", 5))
	s2 := assignScop(t, 1, "C", "D")
	//
	combined := Compose(s1, s2, Sequential)
	require.True(t, combined.Stmts[1].Domain.PlainIsUniverse())
	require.True(t, combined.HasSkip(SkipLater))
}

func Test_Scop_23(t *testing.T) {
	// a variable skip-now turns the second operand's statements into
	// filtered statements on the recorded test being 0
	s1 := assignScop(t, 0, "A", "B").SetSkip(SkipNow, CreateTestIndex(0))
	s2 := assignScop(t, 1, "C", "D")
	//
	combined := Compose(s1, s2, Sequential)
	//
	filtered := combined.Stmts[1]
	require.Equal(t, 1, len(filtered.Args))
	require.True(t, filtered.Domain.IsWrapping())
	// the argument dimension is pinned to 0
	val, ok := filtered.Domain.DimFixedVal(0)
	require.True(t, ok)
	require.Equal(t, int64(0), val)
}

func Test_Scop_24(t *testing.T) {
	// affine skips combine by disjunction
	s1 := assignScop(t, 0, "A", "B").SetSkipFromSet(SkipNow, paramAtLeast(t, "n", 5))
	s2 := assignScop(t, 1, "C", "D").SetSkipFromSet(SkipNow, paramAtMost(t, "n", -5))
	//
	combined := Compose(s1, s2, Parallel)
	expected := paramAtLeast(t, "n", 5).Union(paramAtMost(t, "n", -5))
	require.True(t, combined.GetAffineSkipDomain(SkipNow).Equal(expected))
}

func Test_Scop_25(t *testing.T) {
	// two variable skips cannot be combined
	s1 := assignScop(t, 0, "A", "B").SetSkip(SkipNow, CreateTestIndex(0))
	s2 := assignScop(t, 1, "C", "D").SetSkip(SkipNow, CreateTestIndex(1))
	//
	require.Panics(t, func() { Compose(s1, s2, Parallel) })
}

func Test_Scop_26(t *testing.T) {
	// a statement-less operand still propagates its skip-now: a statement
	// sequenced after an unconditional early exit never runs
	universal := affine.UniverseSet(affine.ParamSpace())
	s1 := Empty().SetSkipFromSet(SkipNow, universal)
	s2 := assignScop(t, 0, "A", "B")
	//
	combined := Compose(s1, s2, Sequential)
	require.True(t, combined.Stmts[0].Domain.IsEmpty())
	// the skip itself survives the composition
	require.True(t, combined.HasAffineSkip(SkipNow))
}

// Restriction

func Test_Scop_30(t *testing.T) {
	cond := paramAtLeast(t, "n", 3)
	p := Restrict(assignScop(t, 0, "A", "B"), cond)
	// domains are intersected directly
	require.True(t, p.Stmts[0].Domain.Params().IsSubset(cond))
	// context covers the complement: failing parameters are vacuous
	universe := affine.UniverseSet(cond.Space)
	require.True(t, universe.IsSubset(p.Context.Union(cond)))
}

func Test_Scop_31(t *testing.T) {
	// affine skips are restricted alongside
	cond := paramAtLeast(t, "n", 3)
	p := assignScop(t, 0, "A", "B").SetSkipFromSet(SkipNow, paramAtLeast(t, "n", 0))
	p = Restrict(p, cond)
	//
	require.True(t, p.GetAffineSkipDomain(SkipNow).Equal(cond))
}

func Test_Scop_32(t *testing.T) {
	// a variable skip cannot be restricted
	p := assignScop(t, 0, "A", "B").SetSkip(SkipNow, CreateTestIndex(0))
	//
	require.Panics(t, func() { Restrict(p, paramAtLeast(t, "n", 3)) })
}

// Context manipulation

func Test_Scop_40(t *testing.T) {
	cond := paramAtLeast(t, "n", 0)
	p := assignScop(t, 0, "A", "B").RestrictContext(cond)
	//
	require.True(t, p.Context.Equal(cond))
	//
	p.ResetContext()
	require.True(t, p.Context.PlainIsUniverse())
}

func Test_Scop_41(t *testing.T) {
	// gist simplifies domains against the context
	cond := paramAtLeast(t, "n", 3)
	p := Restrict(assignScop(t, 0, "A", "B"), cond)
	p.Context = cond
	//
	p.Gist(nil)
	require.True(t, p.Stmts[0].Domain.PlainIsUniverse())
}

// Test indices and boolean arrays

func Test_Scop_50(t *testing.T) {
	index := CreateTestIndex(3)
	//
	require.False(t, index.IsAffine())
	require.Equal(t, "__scop_test_3", index.Array.Name)
	require.True(t, index.Array.IsVirtual())
}

func Test_Scop_51(t *testing.T) {
	p := Empty().AddBooleanArray(CreateTestIndex(0), "int")
	//
	require.Equal(t, 1, len(p.Arrays))
	//
	array := p.Arrays[0]
	require.Equal(t, "__scop_test_0", array.ID().Name)
	require.True(t, array.IsVirtual())
	require.True(t, array.UniquelyDefined)
	require.NotNil(t, array.ValueBounds)
	// 0/1 valued
	val01 := affine.UniverseSet(affine.SetSpace(affine.Ident{}, 1)).
		LowerBoundDim(0, 0).UpperBoundDim(0, 1)
	require.True(t, array.ValueBounds.Equal(val01))
}

// Data dependence predicates

func Test_Scop_60(t *testing.T) {
	p := assignScop(t, 0, "A", "B")
	require.False(t, p.HasDataDependentConditions())
	//
	p = Compose(
		assignScop(t, 0, "A", "B").SetSkip(SkipNow, CreateTestIndex(0)),
		assignScop(t, 1, "C", "D"),
		Sequential)
	require.True(t, p.HasDataDependentConditions())
}

func Test_Scop_61(t *testing.T) {
	require.False(t, assignScop(t, 0, "A", "B").HasDataDependentAccesses())
	//
	// an access whose index depends on a run-time value
	dependent := access(t, "A", true, false)
	dependent.Args = []*expr.Expr{access(t, "B", true, false)}
	body := expr.NewOp(expr.OpAssign, access(t, "C", false, true), dependent)
	//
	p := FromStmt(NewStmt(NewLoc(0, 1, 0, ""), "", 0, body))
	require.True(t, p.HasDataDependentAccesses())
}

// Anonymization and equality

func Test_Scop_70(t *testing.T) {
	p := assignScop(t, 0, "A", "B").AddArray(array(t, "A"))
	require.False(t, p.Arrays[0].ID().IsVirtual())
	//
	p.Anonymize()
	require.True(t, p.Arrays[0].ID().IsVirtual())
	require.Equal(t, "A", p.Arrays[0].ID().Name)
}

func Test_Scop_71(t *testing.T) {
	// anonymized scops of identical structure compare equal
	p1 := assignScop(t, 0, "A", "B").AddArray(array(t, "A")).Anonymize()
	p2 := assignScop(t, 0, "A", "B").AddArray(array(t, "A")).Anonymize()
	//
	require.True(t, p1.Equal(p2))
}

func Test_Scop_72(t *testing.T) {
	p1 := assignScop(t, 0, "A", "B")
	p2 := assignScop(t, 0, "A", "C")
	//
	require.False(t, p1.Equal(p2))
}

// Source spans

func Test_Scop_80(t *testing.T) {
	require.True(t, DummyLoc.IsDummy())
	require.False(t, NewLoc(1, 5, 1, "  ").IsDummy())
}

func Test_Scop_81(t *testing.T) {
	loc := NewLoc(10, 20, 3, "")
	union := loc.Union(NewLoc(5, 15, 2, "  "))
	// line and indentation follow the earlier start
	expected := Loc{Start: 5, End: 20, Line: 2, Indent: "  "}
	//
	if diff := cmp.Diff(expected, union); diff != "" {
		t.Errorf("unexpected union (-want +got):\n%s", diff)
	}
}

func Test_Scop_82(t *testing.T) {
	p := assignScop(t, 0, "A", "B").SetLoc(NewLoc(10, 20, 3, ""))
	p.UpdateStartEnd(5, 25)
	//
	require.Equal(t, 5, p.Loc.Start)
	require.Equal(t, 25, p.Loc.End)
}

// Helpers

/// assignScop builds the scop for statement id: lhs[0] = rhs[0].
func assignScop(t *testing.T, id int, lhs string, rhs string) *Scop {
	t.Helper()
	return FromStmt(NewStmt(NewLoc(id, id+1, id, ""), "", id, assignBody(t, lhs, rhs)))
}

// killScop builds the scop for statement id: kill(victim[0]).
func killScop(t *testing.T, id int, victim string) *Scop {
	t.Helper()
	//
	body := expr.NewOp(expr.OpKill, access(t, victim, false, true))
	//
	return FromStmt(NewStmt(NewLoc(id, id+1, id, ""), "", id, body))
}

func assignBody(t *testing.T, lhs string, rhs string) *expr.Expr {
	t.Helper()
	return expr.NewOp(expr.OpAssign, access(t, lhs, false, true), access(t, rhs, true, false))
}

// access builds a zero-dimensional access to the named array.
func access(t *testing.T, array string, read bool, write bool) *expr.Expr {
	t.Helper()
	//
	space := affine.SetSpace(affine.Ident{}, 0)
	value := affine.PwAffConstant(space, 0)
	//
	return expr.NewAccess(
		expr.ArrayIndex(space, affine.NewIdent(array, array), value), read, write)
}

// array builds a zero-dimensional array of the given name.
func array(t *testing.T, name string) *Array {
	t.Helper()
	//
	return &Array{
		Context:     affine.UniverseSet(affine.ParamSpace()),
		Extent:      affine.UniverseSet(affine.SetSpace(affine.NewIdent(name, name), 0)),
		ElementType: "int",
	}
}

// paramAtLeast builds { [name] : name >= k }.
func paramAtLeast(t *testing.T, name string, k int64) affine.Set {
	t.Helper()
	//
	space := affine.ParamSpace(affine.NewIdent(name, name))
	//
	return affine.UniverseSet(space).AddConstraint(affine.Inequality([]int64{-k, 1}))
}

// paramAtMost builds { [name] : name <= k }.
func paramAtMost(t *testing.T, name string, k int64) affine.Set {
	t.Helper()
	//
	space := affine.ParamSpace(affine.NewIdent(name, name))
	//
	return affine.UniverseSet(space).AddConstraint(affine.Inequality([]int64{k, -1}))
}

// testExtension builds the entailment relation name[from] -> name[to] over a
// one-dimensional boolean virtual array.
func testExtension(t *testing.T, name string, from int64, to int64) affine.Map {
	t.Helper()
	//
	space := affine.SetSpace(affine.AnonIdent(name), 1)
	//
	return affine.MapFromDomainAndRange(
		affine.UniverseSet(space).FixDim(0, from),
		affine.UniverseSet(space).FixDim(0, to))
}

// testIndexAt builds an index into element k of a one-dimensional boolean
// virtual array.
func testIndexAt(t *testing.T, name string, k int64) expr.Index {
	t.Helper()
	//
	domain := affine.SetSpace(affine.Ident{}, 0)
	//
	return expr.ArrayIndex(domain, affine.AnonIdent(name), affine.PwAffConstant(domain, k))
}

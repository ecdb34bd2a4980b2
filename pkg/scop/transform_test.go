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

	"github.com/polyfront/go-scop/pkg/affine"
	"github.com/polyfront/go-scop/pkg/expr"
	"github.com/stretchr/testify/require"
)

// Embedding

func Test_Embed_01(t *testing.T) {
	p := embedLoop(t, assignScop(t, 0, "A", "B"), affine.NewIdent("i", "i"), 0, 9)
	//
	stmt := p.Stmts[0]
	require.Equal(t, 1, stmt.Domain.Space.SetDims())
	//
	expected := loopDomain(t, 0, 9).SetTupleID(stmt.ID())
	require.True(t, stmt.IterationDomain().Equal(expected))
	// the schedule follows the loop iterator
	require.Equal(t, 1, stmt.Schedule.Space.OutDims())
	require.True(t, stmt.Schedule.IsSubset(affine.UniverseMap(stmt.Schedule.Space).EquateInOut(0, 0)))
}

func Test_Embed_02(t *testing.T) {
	// a reference to the induction variable parameter is internalized into
	// the new loop dimension
	iv := affine.NewIdent("i", "i")
	//
	space := affine.SetSpace(affine.Ident{}, 0, iv)
	elem := affine.PwAffFromAff(affine.Aff{Domain: space, Row: []int64{0, 1}})
	rhs := expr.NewAccess(expr.ArrayIndex(space, affine.NewIdent("A", "A"), elem), true, false)
	body := expr.NewOp(expr.OpAssign, access(t, "B", false, true), rhs)
	//
	p := FromStmt(NewStmt(NewLoc(0, 1, 0, ""), "", 0, body))
	p = embedLoop(t, p, iv, 0, 9)
	//
	stmt := p.Stmts[0]
	// the parameter is gone everywhere
	require.Equal(t, -1, stmt.Domain.Space.FindParam(iv))
	//
	acc := stmt.Body.Args[1].Access
	require.Equal(t, -1, acc.Space.FindParam(iv))
	// the access became S_0[d] -> A[d]
	require.True(t, acc.IsSubset(affine.UniverseMap(acc.Space).EquateInOut(0, 0)))
}

func Test_Embed_03(t *testing.T) {
	p := assignScop(t, 0, "A", "B")
	p = embedLoop(t, p, affine.NewIdent("j", "j"), 0, 4)
	p = embedLoop(t, p, affine.NewIdent("i", "i"), 0, 9)
	//
	stmt := p.Stmts[0]
	require.Equal(t, 2, stmt.Domain.Space.SetDims())
	require.Equal(t, 2, stmt.Schedule.Space.OutDims())
	// the outer loop contributes the leading dimension
	require.True(t, stmt.IterationDomain().IsSubset(
		loopDomain2(t, stmt.ID(), 0, 9, 0, 4)))
}

func Test_Embed_04(t *testing.T) {
	// skip conditions do not escape the embedded loop
	p := assignScop(t, 0, "A", "B").SetSkipFromSet(SkipNow, paramAtLeast(t, "n", 5))
	p = embedLoop(t, p, affine.NewIdent("i", "i"), 0, 9)
	//
	require.False(t, p.HasSkip(SkipNow))
}

func Test_Embed_05(t *testing.T) {
	// virtual array extents grow with the loop; real arrays do not
	p := assignScop(t, 0, "A", "B")
	p.AddBooleanArray(CreateTestIndex(0), "int")
	p.AddArray(array(t, "A"))
	//
	p = embedLoop(t, p, affine.NewIdent("i", "i"), 0, 9)
	//
	require.Equal(t, 1, p.Arrays[0].Extent.Space.SetDims())
	require.Equal(t, 0, p.Arrays[1].Extent.Space.SetDims())
}

func Test_Embed_06(t *testing.T) {
	// implications are extended by the identity on the new loop
	ext := affine.MapFromDomainAndRange(
		affine.UniverseSet(affine.SetSpace(affine.AnonIdent("__scop_test_0"), 0)),
		affine.UniverseSet(affine.SetSpace(affine.AnonIdent("__scop_test_1"), 0)))
	//
	p := assignScop(t, 0, "A", "B").AddImplication(ext, true)
	p = embedLoop(t, p, affine.NewIdent("i", "i"), 0, 9)
	//
	imp := p.Implications[0]
	require.Equal(t, 1, imp.Extension.Space.InDims())
	require.Equal(t, 1, imp.Extension.Space.OutDims())
	require.True(t, imp.Extension.IsSubset(
		affine.UniverseMap(imp.Extension.Space).EquateInOut(0, 0)))
}

// Filtering

func Test_Filter_01(t *testing.T) {
	p := Filter(assignScop(t, 0, "A", "B"), CreateTestIndex(0), true)
	//
	stmt := p.Stmts[0]
	require.Equal(t, 1, len(stmt.Args))
	require.True(t, stmt.Domain.IsWrapping())
	//
	val, ok := stmt.Domain.DimFixedVal(0)
	require.True(t, ok)
	require.Equal(t, int64(1), val)
	// the underlying iteration domain is unchanged
	require.Equal(t, 0, stmt.IterationDomain().Space.SetDims())
}

func Test_Filter_02(t *testing.T) {
	// filtering by an already-present test is a no-op
	p := Filter(assignScop(t, 0, "A", "B"), CreateTestIndex(0), true)
	p = Filter(p, CreateTestIndex(0), true)
	//
	require.Equal(t, 1, len(p.Stmts[0].Args))
}

func Test_Filter_03(t *testing.T) {
	// the same test with the opposite outcome is a new filter
	p := Filter(assignScop(t, 0, "A", "B"), CreateTestIndex(0), true)
	p = Filter(p, CreateTestIndex(0), false)
	//
	require.Equal(t, 2, len(p.Stmts[0].Args))
}

func Test_Filter_04(t *testing.T) {
	// a non-universal skip cannot pass through a filter
	p := assignScop(t, 0, "A", "B").SetSkipFromSet(SkipNow, paramAtLeast(t, "n", 5))
	//
	require.Panics(t, func() { Filter(p, CreateTestIndex(0), true) })
}

func Test_Filter_05(t *testing.T) {
	// a universal skip is replaced by the test itself
	universal := affine.UniverseSet(affine.ParamSpace())
	p := assignScop(t, 0, "A", "B").SetSkipFromSet(SkipNow, universal)
	require.True(t, p.HasUniversalSkip(SkipNow))
	//
	p = Filter(p, CreateTestIndex(0), true)
	require.True(t, p.HasVarSkip(SkipNow))
	require.Equal(t, "__scop_test_0", p.GetSkipID(SkipNow).Name)
}

func Test_Filter_06(t *testing.T) {
	// a filtered statement under an embedded loop keeps its filter on the
	// wrapped argument dimension
	p := Filter(assignScop(t, 0, "A", "B"), CreateTestIndex(0), true)
	p = embedLoop(t, p, affine.NewIdent("i", "i"), 0, 9)
	//
	stmt := p.Stmts[0]
	require.True(t, stmt.Domain.IsWrapping())
	require.Equal(t, 1, stmt.IterationDomain().Space.SetDims())
	// the argument dimension now sits after the iteration dimension
	val, ok := stmt.Domain.DimFixedVal(1)
	require.True(t, ok)
	require.Equal(t, int64(1), val)
}

func Test_Filter_07(t *testing.T) {
	// an implication extending an existing filter makes the implied test
	// redundant: recording element 0 entails element 1
	p := Filter(assignScop(t, 0, "A", "B"), testIndexAt(t, "__scop_test_0", 0), true)
	p = p.AddImplication(testExtension(t, "__scop_test_0", 0, 1), true)
	//
	p = Filter(p, testIndexAt(t, "__scop_test_0", 1), true)
	require.Equal(t, 1, len(p.Stmts[0].Args))
}

func Test_Filter_08(t *testing.T) {
	// an implication governed by the opposite outcome does not apply
	p := Filter(assignScop(t, 0, "A", "B"), testIndexAt(t, "__scop_test_0", 0), true)
	p = p.AddImplication(testExtension(t, "__scop_test_0", 0, 1), false)
	//
	p = Filter(p, testIndexAt(t, "__scop_test_0", 1), true)
	require.Equal(t, 2, len(p.Stmts[0].Args))
}

// Sequences

func Test_Seq_01(t *testing.T) {
	combined := Compose(
		assignScop(t, 0, "A", "B").Prefix(0),
		assignScop(t, 1, "C", "D").Prefix(1),
		Sequential)
	//
	for i, stmt := range combined.Stmts {
		val, ok := stmt.Schedule.Range().DimFixedVal(0)
		require.True(t, ok)
		require.Equal(t, int64(i), val)
	}
}

func Test_Seq_02(t *testing.T) {
	// statements at different depths share a padded schedule
	deep := embedLoop(t, assignScop(t, 1, "C", "D"), affine.NewIdent("i", "i"), 0, 9)
	combined := Compose(
		assignScop(t, 0, "A", "B").Prefix(0),
		deep.Prefix(1),
		Sequential)
	//
	sched := combined.CollectSchedule()
	require.Equal(t, 2, len(sched.Maps))
	//
	for _, m := range sched.Maps {
		require.Equal(t, 2, m.Space.OutDims())
	}
	// the shallow statement is padded with zeros
	val, ok := sched.Maps[0].Range().DimFixedVal(1)
	require.True(t, ok)
	require.Equal(t, int64(0), val)
}

func Test_Seq_03(t *testing.T) {
	p := embedLoop(t, assignScop(t, 0, "A", "B"), affine.NewIdent("i", "i"), 0, 9)
	// the enclosing iterations turn out to stop at 5
	p.IntersectDomainPrefix(loopDomain(t, 0, 5))
	//
	stmt := p.Stmts[0]
	expected := loopDomain(t, 0, 5).SetTupleID(stmt.ID())
	require.True(t, stmt.IterationDomain().Equal(expected))
}

// Access collection

func Test_Collect_01(t *testing.T) {
	p := assignScop(t, 0, "A", "B")
	//
	reads := p.MayReads()
	require.Equal(t, 1, len(reads.Maps))
	require.Equal(t, "B", reads.Maps[0].OutTupleID().Name)
	//
	writes := p.MayWrites()
	require.Equal(t, 1, len(writes.Maps))
	require.Equal(t, "A", writes.Maps[0].OutTupleID().Name)
	// an unconditional write is a must write
	require.True(t, p.MustWrites().Equal(writes))
	require.True(t, p.MustKills().IsEmpty())
}

func Test_Collect_02(t *testing.T) {
	p := killScop(t, 0, "A")
	//
	kills := p.MustKills()
	require.Equal(t, 1, len(kills.Maps))
	require.Equal(t, "A", kills.Maps[0].OutTupleID().Name)
	// a killed element is neither read nor written
	require.True(t, p.MayReads().IsEmpty())
	require.True(t, p.MayWrites().IsEmpty())
}

func Test_Collect_03(t *testing.T) {
	// writes under a filter are only may writes
	p := Filter(assignScop(t, 0, "A", "B"), CreateTestIndex(0), true)
	//
	require.Equal(t, 1, len(p.MayWrites().Maps))
	require.True(t, p.MustWrites().IsEmpty())
}

func Test_Collect_04(t *testing.T) {
	p := assignScop(t, 0, "A", "B").AddRefIDs()
	//
	tagged := p.TaggedMayWrites()
	require.Equal(t, 1, len(tagged.Maps))
	// the domain is wrapped with the reference tuple
	in := tagged.Maps[0].Space.Tuples[0]
	require.NotNil(t, in.Wraps)
	require.Equal(t, "__scop_ref_0", in.Wraps.Tuples[1].ID.Name)
}

func Test_Collect_05(t *testing.T) {
	// accesses are restricted to the iteration domain
	p := embedLoop(t, assignScop(t, 0, "A", "B"), affine.NewIdent("i", "i"), 0, 9)
	//
	writes := p.MayWrites()
	require.Equal(t, 1, len(writes.Maps))
	//
	dom := writes.Maps[0].Domain()
	require.True(t, dom.Equal(loopDomain(t, 0, 9).SetTupleID(p.Stmts[0].ID())))
}

func Test_Collect_06(t *testing.T) {
	combined := Compose(
		assignScop(t, 0, "A", "B").Prefix(0),
		assignScop(t, 1, "C", "D").Prefix(1),
		Sequential)
	//
	domains := combined.CollectDomains()
	require.Equal(t, 2, len(domains.Sets))
}

func Test_Collect_07(t *testing.T) {
	// accesses to a struct-typed element resolve to its fields
	recordID := affine.NewIdent("s", "s")
	fieldID := affine.NewIdent("s_f", "s_f")
	//
	record := &Array{
		Context:         affine.UniverseSet(affine.ParamSpace()),
		Extent:          affine.UniverseSet(affine.SetSpace(recordID, 0)),
		ElementType:     "struct s",
		ElementIsRecord: true,
	}
	//
	inner := affine.MapFromDomainAndRange(
		affine.UniverseSet(affine.SetSpace(recordID, 0)),
		affine.UniverseSet(affine.SetSpace(affine.NewIdent("f", "f"), 0)))
	field := &Array{
		Context:     affine.UniverseSet(affine.ParamSpace()),
		Extent:      inner.Wrap().SetTupleID(fieldID),
		ElementType: "int",
	}
	//
	lhs := expr.NewAccess(
		expr.ArrayIndex(affine.SetSpace(affine.Ident{}, 0), recordID), false, true)
	body := expr.NewOp(expr.OpAssign, lhs, access(t, "B", true, false))
	//
	p := FromStmt(NewStmt(NewLoc(0, 1, 0, ""), "", 0, body))
	p.AddArray(record).AddArray(field)
	//
	writes := p.MayWrites()
	require.Equal(t, 1, len(writes.Maps))
	require.Equal(t, "s_f", writes.Maps[0].OutTupleID().Name)
}

// Parameter alignment

func Test_Align_01(t *testing.T) {
	s1 := Restrict(assignScop(t, 0, "A", "B"), paramAtLeast(t, "n", 0))
	s2 := Restrict(assignScop(t, 1, "C", "D"), paramAtLeast(t, "m", 0))
	//
	combined := Compose(s1, s2, Parallel).AlignParams()
	//
	params := combined.Stmts[0].Domain.Space.Params
	require.Equal(t, 2, len(params))
	//
	for _, stmt := range combined.Stmts {
		require.Equal(t, params, stmt.Domain.Space.Params)
	}
}

func Test_Align_02(t *testing.T) {
	// reads of a zero-dimensional array named like a parameter become
	// affine parameter values
	n := affine.NewIdent("n", "n")
	//
	rhs := expr.NewAccess(
		expr.ArrayIndex(affine.SetSpace(affine.Ident{}, 0), n), true, false)
	body := expr.NewOp(expr.OpAssign, access(t, "A", false, true), rhs)
	//
	p := FromStmt(NewStmt(NewLoc(0, 1, 0, ""), "", 0, body))
	p = Restrict(p, paramAtLeast(t, "n", 0))
	p.DetectParameterAccesses()
	//
	require.True(t, p.Stmts[0].Body.Args[1].IsAffine())
}

// Helpers

// embedLoop embeds a scop under the loop "for iv in [lo,hi]".
func embedLoop(t *testing.T, p *Scop, iv affine.Ident, lo int64, hi int64) *Scop {
	t.Helper()
	//
	dom := loopDomain(t, lo, hi)
	sched := affine.AffVarOnDomain(dom.Space, 0)
	ivMap := affine.AffVarOnDomain(affine.SetSpace(affine.Ident{}, 1), 0)
	//
	return Embed(p, dom, sched, ivMap, iv)
}

// loopDomain builds { [d] : lo <= d <= hi }.
func loopDomain(t *testing.T, lo int64, hi int64) affine.Set {
	t.Helper()
	//
	space := affine.SetSpace(affine.Ident{}, 1)
	//
	return affine.UniverseSet(space).LowerBoundDim(0, lo).UpperBoundDim(0, hi)
}

// loopDomain2 builds the rectangle { id[d0, d1] : lo0 <= d0 <= hi0 and
// lo1 <= d1 <= hi1 }.
func loopDomain2(t *testing.T, id affine.Ident, lo0, hi0, lo1, hi1 int64) affine.Set {
	t.Helper()
	//
	space := affine.SetSpace(id, 2)
	//
	return affine.UniverseSet(space).
		LowerBoundDim(0, lo0).UpperBoundDim(0, hi0).
		LowerBoundDim(1, lo1).UpperBoundDim(1, hi1)
}

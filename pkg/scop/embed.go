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
	"github.com/polyfront/go-scop/pkg/affine"
	"github.com/polyfront/go-scop/pkg/expr"
)

// Embed lifts every entity of the scop one loop level deeper, consuming the
// scop.  "dom" is the new loop's one-dimensional iteration set, "sched" the
// logical time of each iteration, "ivMap" the affine map from the loop
// dimension to the real induction variable, and "varID" the parameter under
// which statements inside the loop reference that variable.
//
// Skip conditions are dropped first: a break or continue strictly inside the
// loop body does not escape the loop being embedded.  The caller consumes
// skip-later state before embedding, by filtering the remainder of the loop.
func Embed(p *Scop, dom affine.Set, sched affine.Aff, ivMap affine.Aff, varID affine.Ident) *Scop {
	p.live()
	//
	p.skips = [2]*expr.Index{}
	p.Context = embedContext(p.Context, dom, ivMap, varID)
	//
	for i, stmt := range p.Stmts {
		p.Stmts[i] = embedStmt(stmt, dom, sched, ivMap, varID)
	}
	//
	for i, array := range p.Arrays {
		if !array.IsVirtual() {
			continue
		}
		// Virtual extents track the iteration domain which produced them.
		q := *array
		q.Extent = dom.FlatProduct(array.Extent).SetTupleID(array.ID())
		p.Arrays[i] = &q
	}
	//
	for i, imp := range p.Implications {
		p.Implications[i] = embedImplication(imp, dom)
	}
	//
	return p
}

// embedContext universally quantifies the context over the new loop: a
// parameter value is valid for the embedded scop iff the original context
// holds at every point of "dom" with varID bound through ivMap.  A context
// not referencing varID is unchanged.
func embedContext(context affine.Set, dom affine.Set, ivMap affine.Aff, varID affine.Ident) affine.Set {
	if context.Space.FindParam(varID) < 0 {
		return context
	}
	//
	work := dom.AlignParams(context.Space.Params)
	pos := work.Space.FindParam(varID)
	//
	if pos < 0 {
		work = work.AlignParams(append(work.Space.Params, varID))
		pos = work.Space.FindParam(varID)
	}
	//
	work = work.AddConstraint(ivMap.EvalConstraint(work.Space, pos))
	// Points of dom at which the original context is violated.
	bad := work.IntersectParams(context.Complement()).Params()
	bad = bad.ProjectOutParam(bad.Space.FindParam(varID))
	//
	return bad.Complement().Coalesce()
}

// embedStmt prepends the new loop dimension to a statement's domain and
// schedule, embeds every access and internalizes any reference to varID.
func embedStmt(stmt *Stmt, dom affine.Set, sched affine.Aff, ivMap affine.Aff, varID affine.Ident) *Stmt {
	q := *stmt
	stmtID := stmt.ID()
	//
	if stmt.Domain.IsWrapping() {
		// Prepend on the domain side of the wrapped relation only.
		rel := stmt.Domain.Unwrap()
		ext := affine.MapFromDomainAndRange(dom, affine.UniverseSet(rel.Space.Range()))
		rel = ext.FlatDomainProduct(rel).SetInTupleID(stmtID)
		q.Domain = internalizeSet(rel.Wrap(), ivMap, varID)
	} else {
		domain := dom.FlatProduct(stmt.Domain).SetTupleID(stmtID)
		q.Domain = internalizeSet(domain, ivMap, varID)
	}
	//
	schedule := affine.MapFromAff(sched).FlatProduct(stmt.Schedule).SetInTupleID(stmtID)
	q.Schedule = internalizeMap(schedule, ivMap, varID)
	//
	space := q.IterationDomain().Space
	embed := func(e *expr.Expr) *expr.Expr {
		return embedAccess(e, space, ivMap, varID)
	}
	//
	q.Body = stmt.Body.MapAccess(embed)
	q.Args = make([]*expr.Expr, len(stmt.Args))
	//
	for i, arg := range stmt.Args {
		q.Args[i] = arg.MapAccess(embed)
	}
	//
	return &q
}

// embedAccess lifts one access one loop level deeper.  A read of the
// induction variable itself becomes a direct read of the new loop dimension
// through ivMap; a virtual array access gains the loop dimension as a new
// leading index, mirroring the growth of the array's extent.
func embedAccess(e *expr.Expr, space affine.Space, ivMap affine.Aff, varID affine.Ident) *expr.Expr {
	if e.ArrayID() == varID {
		value := ivMap.Compose1(affine.AffVarOnDomain(space, 0))
		//
		ne := expr.NewAccess(expr.AffineIndex(affine.PwAffFromAff(value)), e.Read, e.Write)
		ne.RefID = e.RefID
		ne.Args = e.Args
		//
		return ne
	}
	//
	e.Index = e.Index.InsertDims(0, 1)
	e.Access = e.Access.InsertInDims(0, 1)
	//
	if e.Index.IsVirtualArray() {
		lead := affine.PwAffFromAff(affine.AffVarOnDomain(e.Index.Domain, 0))
		e.Index = expr.Index{
			Domain: e.Index.Domain,
			Array:  e.Index.Array,
			Elems:  append([]affine.PwAff{lead}, e.Index.Elems...),
		}
		e.Access = e.Access.InsertOutDims(0, 1).EquateInOut(0, 0)
	}
	//
	e.Access = internalizeMap(e.Access, ivMap, varID)
	e.Index = internalizeIndex(e.Index, ivMap, varID)
	//
	return e
}

// embedImplication extends an implication's relation by the identity on the
// new loop: the entailment must hold per iteration.
func embedImplication(imp *Implication, dom affine.Set) *Implication {
	ext := imp.Extension
	extended := dom.Identity().FlatProduct(ext)
	extended = extended.SetInTupleID(ext.InTupleID()).SetOutTupleID(ext.OutTupleID())
	//
	return &Implication{Satisfied: imp.Satisfied, Extension: extended}
}

// internalizeSet equates the parameter varID with the image of the leading
// dimension under ivMap and eliminates it, turning a parametric reference
// into a direct read of the loop dimension.
func internalizeSet(s affine.Set, ivMap affine.Aff, varID affine.Ident) affine.Set {
	pos := s.Space.FindParam(varID)
	if pos < 0 {
		return s
	}
	//
	s = s.AddConstraint(ivMap.EvalConstraint(s.Space, pos))
	//
	return s.ProjectOutParam(pos)
}

// internalizeMap applies the same parameter internalization to a relation,
// whose leading input dimension is the new loop dimension.
func internalizeMap(m affine.Map, ivMap affine.Aff, varID affine.Ident) affine.Map {
	pos := m.Space.FindParam(varID)
	if pos < 0 {
		return m
	}
	//
	res := internalizeSet(m.Wrap(), ivMap, varID)
	space := affine.Space{Params: res.Space.Params, Tuples: m.Space.Tuples}
	//
	return affine.Map{Space: space, Pieces: res.Pieces}
}

// internalizeIndex substitutes varID by ivMap of the leading dimension in
// every element of an index expression.
func internalizeIndex(idx expr.Index, ivMap affine.Aff, varID affine.Ident) expr.Index {
	if idx.Domain.FindParam(varID) < 0 {
		return idx
	}
	//
	elems := make([]affine.PwAff, len(idx.Elems))
	for i, elem := range idx.Elems {
		elems[i] = internalizePwAff(elem, ivMap, varID)
	}
	//
	pos := idx.Domain.FindParam(varID)
	domain := idx.Domain.DropParam(pos)
	//
	return expr.Index{Domain: domain, Array: idx.Array, Elems: elems}
}

// internalizePwAff substitutes varID by ivMap of the leading dimension, both
// in the value rows and in the piece conditions, then drops the parameter.
func internalizePwAff(pa affine.PwAff, ivMap affine.Aff, varID affine.Ident) affine.PwAff {
	pos := pa.Domain.FindParam(varID)
	if pos < 0 {
		return pa
	}
	//
	var (
		nP     = len(pa.Domain.Params)
		domain = pa.Domain.DropParam(pos)
		pieces = make([]affine.PwAffPiece, len(pa.Pieces))
	)
	//
	for i, piece := range pa.Pieces {
		coeff := piece.Row[1+pos]
		row := make([]int64, 0, len(piece.Row)-1)
		row = append(row, piece.Row[:1+pos]...)
		row = append(row, piece.Row[1+pos+1:]...)
		//
		if coeff != 0 {
			row[0] += coeff * ivMap.Row[0]
			//
			for j, q := range ivMap.Domain.Params {
				target := domain.FindParam(q)
				if target < 0 {
					panic("unaligned parameter in iterator map")
				}
				//
				row[1+target] += coeff * ivMap.Row[1+j]
			}
			// The iterator map reads the leading dimension.
			row[nP] += coeff * ivMap.Row[len(ivMap.Row)-1]
		}
		//
		cond := piece.Cond.AddConstraint(ivMap.EvalConstraint(piece.Cond.Space, pos))
		cond = cond.ProjectOutParam(pos)
		//
		pieces[i] = affine.PwAffPiece{Cond: cond, Row: row}
	}
	//
	return affine.PwAff{Domain: domain, Pieces: pieces}
}

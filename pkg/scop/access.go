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

// AccessFilter selects which accesses CollectAccesses gathers.
type AccessFilter struct {
	Read  bool
	Write bool
	Kill  bool
	// Must keeps only accesses certain to occur: accesses without
	// data-dependent arguments in statements without argument filters.
	Must bool
	// Tagged wraps each access's domain with its per-occurrence reference
	// identity.
	Tagged bool
}

// CollectAccesses gathers, over the whole scop, the relation from statement
// iterations to accessed array elements, restricted per the filter.
// Struct-typed elements are resolved to their leaf fields.
func (p *Scop) CollectAccesses(filter AccessFilter) affine.UnionMap {
	p.live()
	//
	result := affine.EmptyUnionMap()
	//
	for _, stmt := range p.Stmts {
		if filter.Must && len(stmt.Args) > 0 {
			continue
		}
		//
		result = result.Union(p.collectStmtAccesses(stmt, filter))
	}
	//
	return result
}

// MayReads returns the relation of possibly read elements.
func (p *Scop) MayReads() affine.UnionMap {
	return p.CollectAccesses(AccessFilter{Read: true})
}

// MayWrites returns the relation of possibly written elements.
func (p *Scop) MayWrites() affine.UnionMap {
	return p.CollectAccesses(AccessFilter{Write: true})
}

// MustWrites returns the relation of certainly written elements.
func (p *Scop) MustWrites() affine.UnionMap {
	return p.CollectAccesses(AccessFilter{Write: true, Must: true})
}

// MustKills returns the relation of certainly invalidated elements.
func (p *Scop) MustKills() affine.UnionMap {
	return p.CollectAccesses(AccessFilter{Kill: true, Must: true})
}

// TaggedMayReads returns the possibly read elements with tagged iterations.
func (p *Scop) TaggedMayReads() affine.UnionMap {
	return p.CollectAccesses(AccessFilter{Read: true, Tagged: true})
}

// TaggedMayWrites returns the possibly written elements with tagged
// iterations.
func (p *Scop) TaggedMayWrites() affine.UnionMap {
	return p.CollectAccesses(AccessFilter{Write: true, Tagged: true})
}

// collectStmtAccesses walks one statement's body, gathering matching access
// relations restricted to the statement's iteration domain.
func (p *Scop) collectStmtAccesses(stmt *Stmt, filter AccessFilter) affine.UnionMap {
	result := affine.EmptyUnionMap()
	domain := stmt.IterationDomain()
	//
	var walk func(e *expr.Expr, inKill bool)
	//
	walk = func(e *expr.Expr, inKill bool) {
		if e == nil {
			return
		}
		//
		if e.Kind == expr.KindOp && e.Op == expr.OpKill {
			inKill = true
		}
		//
		for _, arg := range e.Args {
			walk(arg, inKill)
		}
		//
		if e.Kind != expr.KindAccess || e.Index.IsAffine() {
			return
		}
		//
		want := false
		if inKill {
			want = filter.Kill
		} else {
			want = (filter.Read && e.Read) || (filter.Write && e.Write)
		}
		//
		if !want || (filter.Must && len(e.Args) > 0) {
			return
		}
		//
		m := e.Access.IntersectDomain(domain)
		//
		if filter.Tagged {
			m = tagAccess(m, e.RefID)
		}
		//
		result = result.Union(p.resolveInner(m))
	}
	//
	walk(stmt.Body, false)
	//
	return result
}

// tagAccess wraps the access's domain with a zero-dimensional reference
// tuple, so multiple accesses to one array in one statement stay
// distinguishable.
func tagAccess(m affine.Map, refID string) affine.Map {
	ref := affine.Tuple{ID: affine.AnonIdent(refID)}
	inner := affine.MapSpace(m.Space.Tuples[0], ref, m.Space.Params...)
	//
	space := m.Space
	space.Tuples = []affine.Tuple{
		{N: m.Space.InDims(), Wraps: &inner},
		m.Space.Tuples[1],
	}
	//
	return affine.Map{Space: space, Pieces: m.Pieces}
}

// resolveInner maps any access to a struct-typed element down to all of its
// leaf fields, so callers always see accesses at the finest granularity.
// Fields live in distinct spaces, so the result is a union.
func (p *Scop) resolveInner(m affine.Map) affine.UnionMap {
	array := p.findArray(m.OutTupleID())
	if array == nil || !array.ElementIsRecord {
		return affine.EmptyUnionMap().Add(m)
	}
	//
	result := affine.EmptyUnionMap()
	//
	for _, member := range p.Arrays {
		if !member.Extent.IsWrapping() {
			continue
		}
		//
		if member.Extent.Unwrap().InTupleID() != array.ID() {
			continue
		}
		// Outer element -> wrapped (outer, field) pairs of this member.
		rel := member.Extent.Unwrap().DomainMap().Reverse()
		rel = rel.SetOutTupleID(member.ID())
		//
		result = result.Union(p.resolveInner(m.ApplyRange(rel)))
	}
	//
	if len(result.Maps) == 0 {
		return affine.EmptyUnionMap().Add(m)
	}
	//
	return result
}

// findArray looks up an array by identity.
func (p *Scop) findArray(id affine.Ident) *Array {
	for _, array := range p.Arrays {
		if array.ID() == id {
			return array
		}
	}
	//
	return nil
}

// CollectDomains returns the union of all statement iteration domains.
func (p *Scop) CollectDomains() affine.UnionSet {
	p.live()
	//
	result := affine.EmptyUnionSet()
	//
	for _, stmt := range p.Stmts {
		result = result.Add(stmt.IterationDomain())
	}
	//
	return result
}

// CollectSchedule returns the union of all statement schedules, restricted to
// their domains and padded with trailing zeros to a common depth.
func (p *Scop) CollectSchedule() affine.UnionMap {
	p.live()
	//
	depth := 0
	//
	for _, stmt := range p.Stmts {
		if n := stmt.Schedule.Space.OutDims(); n > depth {
			depth = n
		}
	}
	//
	result := affine.EmptyUnionMap()
	//
	for _, stmt := range p.Stmts {
		sched := stmt.Schedule.IntersectDomain(stmt.IterationDomain())
		//
		for n := sched.Space.OutDims(); n < depth; n++ {
			sched = sched.AddOutDims(1).FixOutDim(n, 0)
		}
		//
		result = result.Add(sched)
	}
	//
	return result
}

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
	"fmt"

	"github.com/polyfront/go-scop/pkg/affine"
	"github.com/polyfront/go-scop/pkg/expr"
)

// Stmt is one loop-nest-free computation site: an iteration domain, a
// schedule mapping iterations to logical execution time, a body expression and
// an ordered sequence of argument filters.  When the statement has data
// dependent arguments, the domain is the wrapped relation from the plain
// iteration space to the argument values.
type Stmt struct {
	Loc Loc
	// Domain is the iteration domain; wrapping when Args is non-empty.
	Domain affine.Set
	// Schedule maps the (unwrapped) iteration domain to logical time.
	Schedule affine.Map
	// Body of the statement.
	Body *expr.Expr
	// Args supply the values of data dependent subexpressions, in the
	// order of the wrapped argument dimensions.
	Args []*expr.Expr
}

// NewStmt constructs a statement from a source location, an optional label
// and a body expression.  The domain starts out as the zero-dimensional
// universe named after the label (or a generated name based on id) and the
// schedule as the trivial map from that domain.
func NewStmt(loc Loc, label string, id int, body *expr.Expr) *Stmt {
	var ident affine.Ident
	//
	if label != "" {
		ident = affine.NewIdent(label, label)
	} else {
		ident = affine.AnonIdent(fmt.Sprintf("S_%d", id))
	}
	//
	domain := affine.UniverseSet(affine.SetSpace(ident, 0))
	body = retagAccesses(body, ident)
	//
	return &Stmt{
		Loc:      loc,
		Domain:   domain,
		Schedule: affine.MapFromDomain(domain),
		Body:     body,
	}
}

// retagAccesses names the iteration tuple of every access in the body after
// the owning statement.
func retagAccesses(body *expr.Expr, ident affine.Ident) *expr.Expr {
	return body.MapAccess(func(e *expr.Expr) *expr.Expr {
		e.Access = e.Access.SetInTupleID(ident)
		e.Index.Domain.Tuples[0].ID = ident
		//
		return e
	})
}

// ID returns the identity of this statement's iteration tuple.
func (p *Stmt) ID() affine.Ident {
	if p.Domain.IsWrapping() {
		return p.Domain.Unwrap().InTupleID()
	}
	//
	return p.Domain.TupleID()
}

// IterationDomain returns the plain iteration domain, projecting away any
// wrapped argument dimensions.
func (p *Stmt) IterationDomain() affine.Set {
	if p.Domain.IsWrapping() {
		return p.Domain.Unwrap().Domain()
	}
	//
	return p.Domain
}

// IsAssign reports whether the statement body is a plain assignment.
func (p *Stmt) IsAssign() bool {
	return p.Body != nil && p.Body.Kind == expr.KindOp && p.Body.Op == expr.OpAssign
}

// IsKill reports whether the statement body invalidates a location.
func (p *Stmt) IsKill() bool {
	return p.Body != nil && p.Body.Kind == expr.KindOp && p.Body.Op == expr.OpKill
}

// IsAssume reports whether the statement body is an assume.
func (p *Stmt) IsAssume() bool {
	return p.Body.IsAssume()
}

// Prefix prepends a constant dimension with the given value to this
// statement's schedule, fixing its position among its siblings.
func (p *Stmt) Prefix(pos int) *Stmt {
	q := *p
	q.Schedule = p.Schedule.InsertOutDims(0, 1).FixOutDim(0, int64(pos))
	//
	return &q
}

// Equal reports deep structural equality of two statements.
func (p *Stmt) Equal(other *Stmt) bool {
	if p == nil || other == nil {
		return p == other
	}
	//
	if p.Loc.Line != other.Loc.Line || len(p.Args) != len(other.Args) {
		return false
	}
	//
	if !p.Domain.Equal(other.Domain) || !p.Schedule.Equal(other.Schedule) {
		return false
	}
	//
	for i := range p.Args {
		if !p.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	//
	return p.Body.Equal(other.Body)
}

// alignParams re-expresses every set, relation and expression owned by this
// statement over the given parameter list.
func (p *Stmt) alignParams(params []affine.Ident) *Stmt {
	q := *p
	q.Domain = p.Domain.AlignParams(params)
	q.Schedule = p.Schedule.AlignParams(params)
	q.Body = p.Body.AlignParams(params)
	q.Args = make([]*expr.Expr, len(p.Args))
	//
	for i, arg := range p.Args {
		q.Args[i] = arg.AlignParams(params)
	}
	//
	return &q
}

// collectParams folds every parameter referenced by this statement into the
// given list.
func (p *Stmt) collectParams(params []affine.Ident) []affine.Ident {
	params = mergeIdents(params, p.Domain.Space.Params)
	params = mergeIdents(params, p.Schedule.Space.Params)
	params = p.Body.CollectParams(params)
	//
	for _, arg := range p.Args {
		params = arg.CollectParams(params)
	}
	//
	return params
}

// anonymize strips external identity tags from everything this statement
// owns.
func (p *Stmt) anonymize() *Stmt {
	q := *p
	q.Domain = p.Domain.Anonymize()
	q.Schedule = p.Schedule.Anonymize()
	q.Body = p.Body.Anonymize()
	q.Args = make([]*expr.Expr, len(p.Args))
	//
	for i, arg := range p.Args {
		q.Args[i] = arg.Anonymize()
	}
	//
	return &q
}

// gist simplifies the statement's sets and relations given the parameter
// context and bounds on the values produced by its argument accesses.
func (p *Stmt) gist(context affine.Set, vb ValueBounds) *Stmt {
	q := *p
	domain := p.IterationDomain().IntersectParams(context)
	//
	q.Body = p.Body.Gist(domain)
	q.Args = make([]*expr.Expr, len(p.Args))
	//
	for i, arg := range p.Args {
		q.Args[i] = arg.Gist(domain)
	}
	//
	if p.Domain.IsWrapping() {
		q.Domain = p.Domain.Gist(p.argBounds(vb).IntersectParams(context))
	} else {
		q.Domain = p.Domain.GistParams(context)
	}
	//
	return &q
}

// argBounds builds, over this statement's wrapped domain space, the set
// constraining each argument dimension by the value bounds of the accessed
// array, where known.
func (p *Stmt) argBounds(vb ValueBounds) affine.Set {
	bounds := affine.UniverseSet(p.Domain.Space)
	iter := p.Domain.Unwrap().Space.InDims()
	//
	for i, arg := range p.Args {
		if arg.Kind != expr.KindAccess || arg.Index.IsAffine() {
			continue
		}
		//
		vbSet, ok := vb[arg.ArrayID()]
		if !ok || vbSet.Space.SetDims() != 1 {
			continue
		}
		// Constrain wrapped argument dimension i by the array's bounds.
		for _, piece := range vbSet.Pieces {
			for _, c := range piece.Cs {
				bounds = bounds.AddConstraint(shiftValueBound(c, vbSet, bounds, iter+i))
			}
		}
	}
	//
	return bounds
}

// shiftValueBound rewrites a constraint over a one-dimensional value-bounds
// set into the same constraint on dimension pos of the target set.
func shiftValueBound(c affine.Constraint, from affine.Set, to affine.Set, pos int) affine.Constraint {
	row := make([]int64, 1+len(to.Space.Params)+to.Space.SetDims())
	row[0] = c.Row[0]
	//
	for i, q := range from.Space.Params {
		target := to.Space.FindParam(q)
		if target < 0 {
			panic("unaligned parameter in value bounds")
		}
		//
		row[1+target] = c.Row[1+i]
	}
	//
	row[1+len(to.Space.Params)+pos] = c.Row[1+len(from.Space.Params)]
	//
	if c.Eq {
		return affine.Equality(row)
	}
	//
	return affine.Inequality(row)
}

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

// Package scop provides the static control part model and the operations a
// front-end driver uses to build one incrementally while walking a program
// bottom-up: statement construction, sequential and parallel composition,
// embedding under an enclosing loop, filtering by a test value, restriction
// and gist simplification, and whole-structure passes such as parameter
// alignment and access collection.
//
// Every combination entry point consumes its operands: a scop passed into
// Sequence, Parallel, Embed, Filter or similar must not be used again.
// Contract violations, such as reusing a consumed scop or combining variable
// skip conditions, panic.
package scop

import (
	"fmt"

	"github.com/polyfront/go-scop/pkg/affine"
	"github.com/polyfront/go-scop/pkg/expr"
)

// ValueBounds maps an array identity to bounds on the values its elements
// hold, as a one-dimensional set.
type ValueBounds map[affine.Ident]affine.Set

// Scop is a static control part: a context of valid parameters, an ordered
// sequence of statements, the arrays and types they reference, implications
// between filtered accesses, a source span and the early-exit skip pair.
type Scop struct {
	Loc Loc
	// Context constrains the symbolic parameters under which the scop
	// represents the original fragment exactly.
	Context affine.Set
	// ContextValue bounds explicit value-typed parameters.
	ContextValue affine.Set
	Types        []*Type
	Arrays       []*Array
	Stmts        []*Stmt
	Implications []*Implication
	// skips holds the skip-now and skip-later conditions; nil means
	// absent.
	skips [2]*expr.Index
	// consumed marks a scop whose contents have been moved into a result.
	consumed bool
}

// Empty constructs a scop with no statements and a universal context.
func Empty() *Scop {
	return &Scop{
		Loc:          DummyLoc,
		Context:      affine.UniverseSet(affine.ParamSpace()),
		ContextValue: affine.UniverseSet(affine.ParamSpace()),
	}
}

// FromStmt constructs a scop wrapping a single statement.  The context is
// derived from the parameters of the statement's accesses together with any
// assume expression it contains.
func FromStmt(stmt *Stmt) *Scop {
	result := Empty()
	result.Loc = stmt.Loc
	result.Stmts = []*Stmt{stmt}
	result.Context = stmtExtractContext(stmt, result.Context)
	//
	return result
}

// stmtExtractContext derives the parameter constraints implied by a
// statement: the parameter domains of all its accesses, plus the condition of
// an affine assume.
func stmtExtractContext(stmt *Stmt, context affine.Set) affine.Set {
	for _, arg := range stmt.Args {
		context = exprExtractContext(arg, context)
	}
	//
	if stmt.IsAssume() && stmt.Body.Args[0].IsAffine() {
		if cond, ok := stmt.Body.Args[0].AffineCondition(); ok {
			context = context.Intersect(cond)
		}
	}
	//
	return exprExtractContext(stmt.Body, context)
}

// exprExtractContext folds the parameter domains of every access in the
// expression into the context.  A conditional with an affine condition only
// contributes each branch's constraints on the side where the branch runs.
func exprExtractContext(e *expr.Expr, context affine.Set) affine.Set {
	if e == nil {
		return context
	}
	//
	if e.Kind == expr.KindOp && e.Op == expr.OpCond {
		isAff := e.Args[0].IsAffine()
		//
		context = exprExtractContext(e.Args[0], context)
		context1 := exprExtractContext(e.Args[1], context)
		context2 := exprExtractContext(e.Args[2], context)
		//
		if isAff {
			zero := e.Args[0].Access.FixOutDim(0, 0).Params()
			context1 = context1.Subtract(zero)
			context2 = context2.Intersect(zero)
		}
		//
		return context1.Union(context2).Coalesce()
	}
	//
	for _, arg := range e.Args {
		context = exprExtractContext(arg, context)
	}
	//
	if e.Kind == expr.KindAccess {
		context = context.Intersect(e.Access.Params())
	}
	//
	return context
}

// live panics when this scop has already been consumed by a combination
// operation.
func (p *Scop) live() *Scop {
	if p.consumed {
		panic("use of consumed scop")
	}
	//
	return p
}

// poison marks this scop as consumed, releasing its contents.
func (p *Scop) poison() {
	p.Types = nil
	p.Arrays = nil
	p.Stmts = nil
	p.Implications = nil
	p.skips = [2]*expr.Index{}
	p.consumed = true
}

// AddArray extends this scop with one more array.
func (p *Scop) AddArray(array *Array) *Scop {
	p.live().Arrays = append(p.Arrays, array)
	return p
}

// AddType extends this scop with one more type, keeping names unique.
func (p *Scop) AddType(t *Type) *Scop {
	p.live()
	//
	for _, q := range p.Types {
		if q.Equal(t) {
			return p
		}
	}
	//
	p.Types = append(p.Types, t)
	//
	return p
}

// AddImplication extends this scop with the implication that an access
// relation extends along "extension" whenever the governing test evaluates to
// "satisfied".
func (p *Scop) AddImplication(extension affine.Map, satisfied bool) *Scop {
	p.live().Implications = append(p.Implications,
		&Implication{Satisfied: satisfied, Extension: extension})
	//
	return p
}

// CreateTestIndex constructs an index expression into a fresh boolean virtual
// array recording the outcome of test number n.
func CreateTestIndex(n int) expr.Index {
	domain := affine.SetSpace(affine.Ident{}, 0)
	array := affine.AnonIdent(fmt.Sprintf("__scop_test_%d", n))
	//
	return expr.ArrayIndex(domain, array)
}

// AddBooleanArray extends this scop with the virtual array written through
// the given test index: 0/1 valued, uniquely defined, with an extent matching
// the index's range.
func (p *Scop) AddBooleanArray(index expr.Index, elementType string) *Scop {
	extent := index.Access().Range().Coalesce()
	//
	bounds := affine.UniverseSet(affine.SetSpace(affine.Ident{}, 1))
	bounds = bounds.LowerBoundDim(0, 0).UpperBoundDim(0, 1)
	//
	array := &Array{
		Context:         affine.UniverseSet(affine.ParamSpace()),
		Extent:          extent,
		ValueBounds:     &bounds,
		ElementType:     elementType,
		UniquelyDefined: true,
	}
	//
	return p.AddArray(array)
}

// SetLoc replaces this scop's source span.
func (p *Scop) SetLoc(loc Loc) *Scop {
	p.live().Loc = loc
	return p
}

// UpdateStartEnd widens this scop's source span.
func (p *Scop) UpdateStartEnd(start int, end int) *Scop {
	p.live().Loc = p.Loc.UpdateStartEnd(start, end)
	return p
}

// HasDataDependentConditions reports whether any statement's execution is
// conditional on run-time values, i.e. carries argument filters.
func (p *Scop) HasDataDependentConditions() bool {
	for _, stmt := range p.live().Stmts {
		if len(stmt.Args) > 0 {
			return true
		}
	}
	//
	return false
}

// HasDataDependentAccesses reports whether any access in any statement body
// depends on run-time values.
func (p *Scop) HasDataDependentAccesses() bool {
	for _, stmt := range p.live().Stmts {
		if stmt.Body.HasDataDependentAccess() {
			return true
		}
	}
	//
	return false
}

// Gist simplifies every set and relation owned by this scop to the smallest
// representation equivalent under the current context, with the supplied
// bounds on argument values.  Meaning is unchanged.
func (p *Scop) Gist(vb ValueBounds) *Scop {
	p.live()
	//
	context := p.Context
	//
	for i, stmt := range p.Stmts {
		p.Stmts[i] = stmt.gist(context, vb)
	}
	//
	for i, array := range p.Arrays {
		p.Arrays[i] = array.gist(context)
	}
	//
	return p
}

// RestrictContext intersects this scop's context with extra parameter
// constraints.
func (p *Scop) RestrictContext(context affine.Set) *Scop {
	p.live().Context = p.Context.Intersect(context).Coalesce()
	return p
}

// ResetContext replaces this scop's context by the universal parameter set.
func (p *Scop) ResetContext() *Scop {
	p.live().Context = affine.UniverseSet(affine.ParamSpace())
	return p
}

// Equal reports deep structural equality of two scops.
func (p *Scop) Equal(other *Scop) bool {
	if p == nil || other == nil {
		return p == other
	}
	//
	if len(p.Stmts) != len(other.Stmts) || len(p.Arrays) != len(other.Arrays) ||
		len(p.Types) != len(other.Types) || len(p.Implications) != len(other.Implications) {
		return false
	}
	//
	if !p.Context.Equal(other.Context) || !p.ContextValue.Equal(other.ContextValue) {
		return false
	}
	//
	for i := range p.Types {
		if !p.Types[i].Equal(other.Types[i]) {
			return false
		}
	}
	//
	for i := range p.Arrays {
		if !p.Arrays[i].Equal(other.Arrays[i]) {
			return false
		}
	}
	//
	for i := range p.Stmts {
		if !p.Stmts[i].Equal(other.Stmts[i]) {
			return false
		}
	}
	//
	for i := range p.Implications {
		if !p.Implications[i].Equal(other.Implications[i]) {
			return false
		}
	}
	//
	for _, t := range []SkipType{SkipNow, SkipLater} {
		a, b := p.skips[t], other.skips[t]
		//
		if (a == nil) != (b == nil) {
			return false
		}
		//
		if a != nil && !a.Equal(*b) {
			return false
		}
	}
	//
	return true
}

// mergeIdents extends lhs with any identity from rhs not already present.
func mergeIdents(lhs []affine.Ident, rhs []affine.Ident) []affine.Ident {
	for _, q := range rhs {
		found := false
		//
		for _, p := range lhs {
			if p == q {
				found = true
				break
			}
		}
		//
		if !found {
			lhs = append(lhs, q)
		}
	}
	//
	return lhs
}

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

// Filter makes every statement's execution conditional on the boolean "test"
// evaluating to "satisfied", consuming the scop.  Used for conditionals and
// short-circuit evaluation.
//
// A present skip condition is only supported in one pattern: a universal
// affine skip together with satisfied=1, in which case the skip simply
// becomes the test itself.  Any other combination is a contract violation.
func Filter(p *Scop, test expr.Index, satisfied bool) *Scop {
	p.live()
	//
	for _, t := range []SkipType{SkipNow, SkipLater} {
		if p.skips[t] == nil {
			continue
		}
		//
		if !satisfied || !p.HasUniversalSkip(t) {
			panic("skip condition affected by filter")
		}
		//
		p.SetSkip(t, test)
	}
	//
	for i, stmt := range p.Stmts {
		p.Stmts[i] = filterStmt(stmt, test, satisfied, p.Implications)
	}
	//
	return p
}

// filterStmt conditions one statement on the test value, unless an existing
// argument filter already implies it.
func filterStmt(stmt *Stmt, test expr.Index, satisfied bool, imps []*Implication) *Stmt {
	extended := extendTestToStmt(test, stmt)
	//
	if isFiltered(stmt, extended, satisfied, imps) {
		return stmt
	}
	//
	val := int64(0)
	if satisfied {
		val = 1
	}
	// Grow the wrapped domain with a leading argument dimension holding the
	// test outcome, fixed to the requested value.
	var rel affine.Map
	//
	if stmt.Domain.IsWrapping() {
		rel = stmt.Domain.Unwrap().InsertOutDims(0, 1)
	} else {
		rel = affine.MapFromDomain(stmt.Domain).AddOutDims(1)
	}
	//
	rel = rel.FixOutDim(0, val)
	//
	q := *stmt
	q.Domain = rel.Wrap()
	q.Args = append([]*expr.Expr{expr.FromIndex(extended)}, stmt.Args...)
	//
	return &q
}

// extendTestToStmt re-expresses the test over the statement's full iteration
// space.  The test's dimensions coincide with the leading dimensions of the
// statement, which was built by embedding the scop the test was created in.
func extendTestToStmt(test expr.Index, stmt *Stmt) expr.Index {
	space := stmt.IterationDomain().Space
	//
	if test.Domain.TotalDims() > space.TotalDims() {
		panic("test domain deeper than statement domain")
	}
	//
	elems := make([]affine.PwAff, len(test.Elems))
	for i, elem := range test.Elems {
		elems[i] = elem.ExtendDomain(space)
	}
	//
	return expr.Index{Domain: space, Array: test.Array, Elems: elems}
}

// isFiltered reports whether an existing argument filter on the same virtual
// array, fixed to the same value and augmented by matching implications,
// already contains the test.
func isFiltered(stmt *Stmt, test expr.Index, satisfied bool, imps []*Implication) bool {
	if !stmt.Domain.IsWrapping() {
		return false
	}
	//
	val := int64(0)
	if satisfied {
		val = 1
	}
	//
	iter := stmt.Domain.Unwrap().Space.InDims()
	testMap := test.Access()
	//
	for i, arg := range stmt.Args {
		if arg.Kind != expr.KindAccess || arg.ArrayID() != test.Array {
			continue
		}
		//
		if v, ok := stmt.Domain.DimFixedVal(iter + i); !ok || v != val {
			continue
		}
		//
		acc := arg.Access
		//
		for _, imp := range imps {
			if imp.Satisfied != satisfied || imp.Extension.InTupleID() != test.Array {
				continue
			}
			//
			acc = acc.Union(acc.ApplyRange(imp.Extension)).Coalesce()
		}
		//
		if testMap.IsSubset(acc) {
			return true
		}
	}
	//
	return false
}

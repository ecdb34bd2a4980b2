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
	"strconv"

	"github.com/polyfront/go-scop/pkg/affine"
)

// ForEachAccess folds the given function over every access subexpression in
// depth-first argument order.  Returning false aborts the walk.
func (p *Expr) ForEachAccess(fn func(*Expr) bool) bool {
	if p == nil {
		return true
	}
	//
	for _, arg := range p.Args {
		if !arg.ForEachAccess(fn) {
			return false
		}
	}
	//
	if p.Kind == KindAccess {
		return fn(p)
	}
	//
	return true
}

// MapAccess rebuilds the expression with every access subexpression replaced
// by the result of the given function.
func (p *Expr) MapAccess(fn func(*Expr) *Expr) *Expr {
	if p == nil {
		return nil
	}
	//
	q := p.clone()
	//
	for i, arg := range q.Args {
		q.Args[i] = arg.MapAccess(fn)
	}
	//
	if q.Kind == KindAccess {
		return fn(q)
	}
	//
	return q
}

// CollectParams folds every parameter referenced by any access subexpression
// into the given list, returning the extended list.
func (p *Expr) CollectParams(params []affine.Ident) []affine.Ident {
	p.ForEachAccess(func(e *Expr) bool {
		params = mergeIdents(params, e.Access.Space.Params)
		return true
	})
	//
	return params
}

// AlignParams re-expresses every access subexpression over the given
// parameter list.
func (p *Expr) AlignParams(params []affine.Ident) *Expr {
	return p.MapAccess(func(e *Expr) *Expr {
		e.Access = e.Access.AlignParams(params)
		e.Index = e.Index.AlignParams(params)
		//
		return e
	})
}

// Anonymize strips all external identity tags from every access
// subexpression.
func (p *Expr) Anonymize() *Expr {
	return p.MapAccess(func(e *Expr) *Expr {
		e.Access = e.Access.Anonymize()
		e.Index = e.Index.Anonymize()
		//
		return e
	})
}

// AddRefIDs assigns a fresh reference identity to every access
// subexpression, numbering from *n and updating the counter.
func (p *Expr) AddRefIDs(n *int) *Expr {
	return p.MapAccess(func(e *Expr) *Expr {
		e.RefID = refName(*n)
		*n++
		//
		return e
	})
}

// Gist simplifies the access relations of every access subexpression given
// that their domains are known to lie in "domain".
func (p *Expr) Gist(domain affine.Set) *Expr {
	return p.MapAccess(func(e *Expr) *Expr {
		if e.Access.Space.InDims() == domain.Space.SetDims() {
			e.Access = e.Access.GistDomain(domain)
		}
		//
		return e
	})
}

// HasDataDependentAccess reports whether any access subexpression carries
// argument expressions.
func (p *Expr) HasDataDependentAccess() bool {
	found := false
	//
	p.ForEachAccess(func(e *Expr) bool {
		if len(e.Args) > 0 {
			found = true
			return false
		}
		//
		return true
	})
	//
	return found
}

// DetectParameterAccesses replaces every read of a zero-dimensional array
// whose identity appears in "params" by the value of the corresponding
// parameter.
func (p *Expr) DetectParameterAccesses(params []affine.Ident) *Expr {
	return p.MapAccess(func(e *Expr) *Expr {
		if e.Write || e.Index.IsAffine() || len(e.Index.Elems) != 0 || len(e.Args) > 0 {
			return e
		}
		//
		for pos, q := range params {
			if q != e.Index.Array {
				continue
			}
			// Rebuild as the affine value of the parameter.
			domain := alignDomain(e.Index.Domain, params)
			row := make([]int64, 1+len(domain.Params)+domain.TotalDims())
			row[1+pos] = 1
			//
			value := affine.PwAff{
				Domain: domain,
				Pieces: []affine.PwAffPiece{{Cond: affine.UniverseSet(domain), Row: row}},
			}
			//
			return NewAccess(AffineIndex(value), true, false)
		}
		//
		return e
	})
}

func alignDomain(domain affine.Space, params []affine.Ident) affine.Space {
	return affine.UniverseSet(domain).AlignParams(params).Space
}

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

func refName(n int) string {
	return "__scop_ref_" + strconv.Itoa(n)
}

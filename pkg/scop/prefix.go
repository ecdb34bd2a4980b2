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

import "github.com/polyfront/go-scop/pkg/affine"

// Prefix prepends a constant dimension with the given value to every
// statement schedule, fixing this scop's position among its siblings in a
// sequence.
func (p *Scop) Prefix(pos int) *Scop {
	p.live()
	//
	for i, stmt := range p.Stmts {
		p.Stmts[i] = stmt.Prefix(pos)
	}
	//
	return p
}

// IntersectDomainPrefix intersects the leading dimensions of every statement
// domain, virtual-array extent and implication domain with "domain", which
// describes the enclosing iterations the scop is known to run under.
func (p *Scop) IntersectDomainPrefix(domain affine.Set) *Scop {
	p.live()
	//
	for i, stmt := range p.Stmts {
		q := *stmt
		q.Domain = intersectSetPrefix(stmt.Domain, domain)
		p.Stmts[i] = &q
	}
	//
	for i, array := range p.Arrays {
		if !array.IsVirtual() {
			continue
		}
		//
		q := *array
		q.Extent = intersectSetPrefix(array.Extent, domain)
		p.Arrays[i] = &q
	}
	//
	for i, imp := range p.Implications {
		wrapped := intersectSetPrefix(imp.Extension.Wrap(), domain)
		space := affine.Space{Params: wrapped.Space.Params, Tuples: imp.Extension.Space.Tuples}
		//
		p.Implications[i] = &Implication{
			Satisfied: imp.Satisfied,
			Extension: affine.Map{Space: space, Pieces: wrapped.Pieces},
		}
	}
	//
	return p
}

// intersectSetPrefix constrains the leading dimensions of a set by "prefix",
// leaving the remaining dimensions untouched and preserving the set's space.
func intersectSetPrefix(s affine.Set, prefix affine.Set) affine.Set {
	extra := s.Space.TotalDims() - prefix.Space.SetDims()
	if extra < 0 {
		panic("prefix deeper than set")
	}
	//
	ext := prefix.AddDims(extra)
	ext.Space = affine.Space{Params: ext.Space.Params, Tuples: s.Space.Tuples}
	//
	res := s.Intersect(ext).Coalesce()
	res.Space = affine.Space{Params: res.Space.Params, Tuples: s.Space.Tuples}
	//
	return res
}

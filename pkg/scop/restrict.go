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

// Restrict conditions the scop's execution on the parameter set "cond",
// consuming the scop.  The context becomes (context and cond) or (not cond):
// a parameter value failing cond means the scop does not execute at all, so
// its original constraints are moot there.  Statement domains and affine skip
// conditions are intersected with cond directly; the complement branch is
// captured once, in the context.
func Restrict(p *Scop, cond affine.Set) *Scop {
	p.live()
	cond = cond.Params()
	//
	p.restrictSkips(cond)
	//
	for i, stmt := range p.Stmts {
		q := *stmt
		q.Domain = stmt.Domain.IntersectParams(cond).Coalesce()
		p.Stmts[i] = &q
	}
	//
	context := p.Context.Intersect(cond)
	context = context.Union(cond.Complement())
	context = context.Coalesce().RemoveNestedParams()
	p.Context = context
	//
	return p
}
